package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"freshharvest-be/internal/apperror"
	"freshharvest-be/internal/catalog"
	"freshharvest-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Repository interface {
	CreateOrderFromCart(ctx context.Context, params CreateOrderParams) (*Order, error)
	ListOrders(ctx context.Context, userID uint, limit, page int) ([]*Order, error)
	GetOrder(ctx context.Context, userID uint, orderID int64) (*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// CreateOrderFromCart converts the user's active cart into a pending
// order. The cart row stays locked until commit, so concurrent checkouts
// of the same user run one after the other and the later one finds the
// cart empty.
func (r *repository) CreateOrderFromCart(ctx context.Context, params CreateOrderParams) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderFromCart"),
		zap.Uint("user_id", params.UserID),
	)

	log.Debug("starting checkout transaction")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			} else {
				log.Debug("transaction rolled back")
			}
		}
	}()

	if params.LockTimeout > 0 {
		if _, err := tx.ExecContext(ctx,
			`SELECT set_config('lock_timeout', $1, true)`,
			fmt.Sprintf("%dms", params.LockTimeout.Milliseconds()),
		); err != nil {
			log.Error("failed to set lock timeout", zap.Error(err))
			return nil, apperror.FromDB(err)
		}
	}

	var (
		cartID int64
		active bool
	)
	err = tx.QueryRowContext(ctx, `
		SELECT id, active
		FROM carts
		WHERE user_id = $1
		FOR UPDATE
	`, params.UserID).Scan(&cartID, &active)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !active) {
		log.Info("checkout rejected, no active cart")
		return nil, ErrEmptyCart
	}
	if err != nil {
		log.Error("failed to lock cart", zap.Error(err))
		return nil, apperror.FromDB(err)
	}

	lines, err := loadCartLines(ctx, tx, cartID)
	if err != nil {
		log.Error("failed to load cart items", zap.Error(err))
		return nil, apperror.FromDB(err)
	}
	if len(lines) == 0 {
		log.Info("checkout rejected, cart has no items", zap.Int64("cart_id", cartID))
		return nil, ErrEmptyCart
	}

	o := &Order{
		UserID:    params.UserID,
		Status:    StatusPending,
		TotalBill: ComputeTotal(lines, params.Discount, params.ApplyDiscount),
	}
	if params.Discount != nil {
		code := params.Discount.CouponCode
		pct := params.Discount.Percent
		o.CouponCode = &code
		o.DiscountPercent = &pct
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, total_bill, status, coupon_code)
		VALUES ($1, $2, $3, $4)
		RETURNING id, ordered_at, created_at, updated_at
	`,
		o.UserID,
		o.TotalBill,
		o.Status,
		o.CouponCode,
	).Scan(&o.ID, &o.OrderedAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return nil, apperror.FromDB(err)
	}

	o.Items = make([]OrderItem, 0, len(lines))
	for i, line := range lines {
		item := OrderItem{
			OrderID:   o.ID,
			ListingID: line.ListingID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Listing:   line.Listing,
		}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, farm_product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, o.ID, line.ListingID, line.Quantity, line.UnitPrice).Scan(&item.ID)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("item_index", i),
				zap.Int64("listing_id", line.ListingID),
				zap.Error(err),
			)
			return nil, apperror.FromDB(err)
		}
		o.Items = append(o.Items, item)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		log.Error("failed to clear cart", zap.Error(err))
		return nil, apperror.FromDB(err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE carts SET active = FALSE, updated_at = NOW() WHERE id = $1`,
		cartID,
	); err != nil {
		log.Error("failed to deactivate cart", zap.Error(err))
		return nil, apperror.FromDB(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit checkout transaction", zap.Error(err))
		return nil, apperror.FromDB(err)
	}
	committed = true

	log.Info("checkout transaction committed",
		zap.Int64("order_id", o.ID),
		zap.Int("item_count", len(o.Items)),
		zap.String("total_bill", o.TotalBill.StringFixed(2)),
	)
	return o, nil
}

// loadCartLines reads every item of the cart with its listing, priced as
// of this transaction.
func loadCartLines(ctx context.Context, tx *sql.Tx, cartID int64) ([]Line, error) {
	rows, err := tx.QueryContext(ctx, `
	SELECT
		ci.quantity,
		`+catalog.ListingColumns+`
	FROM cart_items ci
	JOIN farm_products fp ON fp.id = ci.farm_product_id
	`+catalog.ListingJoins+`
	WHERE ci.cart_id = $1
	ORDER BY ci.id
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var (
			line Line
			l    catalog.Listing
		)
		dest := append([]any{&line.Quantity}, l.ScanDest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		line.ListingID = l.ID
		line.UnitPrice = l.Price
		line.Listing = &l
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

const orderSelect = `
	SELECT
		o.id,
		o.user_id,
		o.total_bill,
		o.status,
		o.ordered_at,
		o.coupon_code,
		d.discount_percent,
		o.created_at,
		o.updated_at
	FROM orders o
	LEFT JOIN discounts d ON d.coupon_code = o.coupon_code
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.TotalBill,
		&o.Status,
		&o.OrderedAt,
		&o.CouponCode,
		&o.DiscountPercent,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) ListOrders(ctx context.Context, userID uint, limit, page int) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListOrders"),
		zap.Uint("user_id", userID),
	)

	start := time.Now()

	// ---------- pagination ----------
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	log = log.With(
		zap.Int("limit", limit),
		zap.Int("page", page),
		zap.Int("offset", offset),
	)

	rows, err := r.db.QueryContext(ctx, orderSelect+`
	WHERE o.user_id = $1
	ORDER BY o.ordered_at DESC, o.id DESC
	LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	byID := map[int64]*Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("failed to scan order", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, byID); err != nil {
		log.Error("failed to load order items", zap.Error(err))
		return nil, err
	}

	log.Info("orders listed",
		zap.Int("count", len(orders)),
		zap.Duration("duration", time.Since(start)),
	)
	return orders, nil
}

func (r *repository) GetOrder(ctx context.Context, userID uint, orderID int64) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetOrder"),
		zap.Uint("user_id", userID),
		zap.Int64("order_id", orderID),
	)

	o, err := scanOrder(r.db.QueryRowContext(ctx, orderSelect+`
	WHERE o.id = $1 AND o.user_id = $2
	`, orderID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("order not found")
		return nil, ErrOrderNotFound
	}
	if err != nil {
		log.Error("failed to get order", zap.Error(err))
		return nil, err
	}

	if err := r.attachItems(ctx, map[int64]*Order{o.ID: o}); err != nil {
		log.Error("failed to load order items", zap.Error(err))
		return nil, err
	}
	return o, nil
}

// attachItems loads the items of all given orders in one query.
func (r *repository) attachItems(ctx context.Context, orders map[int64]*Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(orders))
	for id := range orders {
		ids = append(ids, id)
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT
		oi.id,
		oi.order_id,
		oi.quantity,
		oi.unit_price,
		`+catalog.ListingColumns+`
	FROM order_items oi
	JOIN farm_products fp ON fp.id = oi.farm_product_id
	`+catalog.ListingJoins+`
	WHERE oi.order_id = ANY($1)
	ORDER BY oi.order_id, oi.id
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item OrderItem
			l    catalog.Listing
		)
		dest := append([]any{
			&item.ID,
			&item.OrderID,
			&item.Quantity,
			&item.UnitPrice,
		}, l.ScanDest()...)
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		item.ListingID = l.ID
		item.Listing = &l

		if o, ok := orders[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}
