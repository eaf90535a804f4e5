package cart

import (
	"context"
	"database/sql"
	"errors"

	"freshharvest-be/internal/apperror"
	"freshharvest-be/internal/catalog"
	"freshharvest-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	UpsertItem(ctx context.Context, params UpsertItemParams) (*CartItem, error)
	UpdateItemQuantity(ctx context.Context, userID uint, itemID int64, quantity decimal.Decimal) (*CartItem, error)
	SetItemQuantityByListing(ctx context.Context, userID uint, listingID int64, quantity decimal.Decimal) (*CartItem, error)
	RemoveItemByListing(ctx context.Context, userID uint, listingID int64) error
	RemoveItemByID(ctx context.Context, userID uint, itemID int64) error
	GetOrCreateCart(ctx context.Context, userID uint) (*Cart, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const (
	lockCartQuery = `
	SELECT id, user_id, active, created_at, updated_at
	FROM carts
	WHERE user_id = $1
	FOR UPDATE
	`

	cartItemColumns = `id, cart_id, farm_product_id, quantity, created_at, updated_at`
)

// withLockedCart runs fn inside a transaction holding the row lock of the
// user's cart. With create set, a missing cart is inserted first.
func (r *repository) withLockedCart(
	ctx context.Context,
	userID uint,
	create bool,
	fn func(tx *sql.Tx, c *Cart) error,
) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	c, err := lockCart(ctx, tx, userID)
	if errors.Is(err, sql.ErrNoRows) && create {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO carts (user_id, active)
			VALUES ($1, FALSE)
			ON CONFLICT (user_id) DO NOTHING
		`, userID); err != nil {
			return apperror.FromDB(err)
		}
		c, err = lockCart(ctx, tx, userID)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCartNotFound
	}
	if err != nil {
		return apperror.FromDB(err)
	}

	if err := fn(tx, c); err != nil {
		return err
	}

	return apperror.FromDB(tx.Commit())
}

func lockCart(ctx context.Context, tx *sql.Tx, userID uint) (*Cart, error) {
	var c Cart
	err := tx.QueryRowContext(ctx, lockCartQuery, userID).Scan(
		&c.ID,
		&c.UserID,
		&c.Active,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCartItem(row *sql.Row) (*CartItem, error) {
	var item CartItem
	err := row.Scan(
		&item.ID,
		&item.CartID,
		&item.ListingID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) UpsertItem(ctx context.Context, params UpsertItemParams) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpsertItem"),
		zap.Uint("user_id", params.UserID),
		zap.Int64("listing_id", params.ListingID),
		zap.Stringer("mode", params.Mode),
	)

	var item *CartItem
	err := r.withLockedCart(ctx, params.UserID, true, func(tx *sql.Tx, c *Cart) error {
		var (
			existingID  int64
			existingQty decimal.Decimal
		)
		err := tx.QueryRowContext(ctx, `
			SELECT id, quantity
			FROM cart_items
			WHERE cart_id = $1 AND farm_product_id = $2
		`, c.ID, params.ListingID).Scan(&existingID, &existingQty)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			item, err = scanCartItem(tx.QueryRowContext(ctx, `
				INSERT INTO cart_items (cart_id, farm_product_id, quantity)
				VALUES ($1, $2, $3)
				RETURNING `+cartItemColumns,
				c.ID, params.ListingID, params.Quantity,
			))
		case err != nil:
			return apperror.FromDB(err)
		default:
			qty := params.Quantity
			if params.Mode == ModeIncrement {
				qty = existingQty.Add(params.Quantity)
			}
			if err := ValidateQuantity(qty); err != nil {
				return err
			}
			item, err = scanCartItem(tx.QueryRowContext(ctx, `
				UPDATE cart_items
				SET quantity = $1, updated_at = NOW()
				WHERE id = $2
				RETURNING `+cartItemColumns,
				qty, existingID,
			))
		}
		if err != nil {
			return apperror.FromDB(err)
		}

		if !c.Active {
			if _, err := tx.ExecContext(ctx,
				`UPDATE carts SET active = TRUE, updated_at = NOW() WHERE id = $1`,
				c.ID,
			); err != nil {
				return apperror.FromDB(err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to upsert cart item", zap.Error(err))
		return nil, err
	}

	log.Info("cart item upserted",
		zap.Int64("cart_item_id", item.ID),
		zap.String("quantity", item.Quantity.String()),
	)
	return item, nil
}

func (r *repository) UpdateItemQuantity(
	ctx context.Context,
	userID uint,
	itemID int64,
	quantity decimal.Decimal,
) (*CartItem, error) {
	var item *CartItem
	err := r.withLockedCart(ctx, userID, false, func(tx *sql.Tx, c *Cart) error {
		var err error
		item, err = scanCartItem(tx.QueryRowContext(ctx, `
			UPDATE cart_items
			SET quantity = $1, updated_at = NOW()
			WHERE id = $2 AND cart_id = $3
			RETURNING `+cartItemColumns,
			quantity, itemID, c.ID,
		))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCartItemNotFound
		}
		return apperror.FromDB(err)
	})
	if errors.Is(err, ErrCartNotFound) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) SetItemQuantityByListing(
	ctx context.Context,
	userID uint,
	listingID int64,
	quantity decimal.Decimal,
) (*CartItem, error) {
	var item *CartItem
	err := r.withLockedCart(ctx, userID, false, func(tx *sql.Tx, c *Cart) error {
		var err error
		item, err = scanCartItem(tx.QueryRowContext(ctx, `
			UPDATE cart_items
			SET quantity = $1, updated_at = NOW()
			WHERE cart_id = $2 AND farm_product_id = $3
			RETURNING `+cartItemColumns,
			quantity, c.ID, listingID,
		))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCartItemNotFound
		}
		return apperror.FromDB(err)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) RemoveItemByListing(ctx context.Context, userID uint, listingID int64) error {
	return r.withLockedCart(ctx, userID, false, func(tx *sql.Tx, c *Cart) error {
		return deleteItem(ctx, tx,
			`DELETE FROM cart_items WHERE cart_id = $1 AND farm_product_id = $2`,
			c.ID, listingID,
		)
	})
}

func (r *repository) RemoveItemByID(ctx context.Context, userID uint, itemID int64) error {
	err := r.withLockedCart(ctx, userID, false, func(tx *sql.Tx, c *Cart) error {
		return deleteItem(ctx, tx,
			`DELETE FROM cart_items WHERE cart_id = $1 AND id = $2`,
			c.ID, itemID,
		)
	})
	if errors.Is(err, ErrCartNotFound) {
		return ErrCartItemNotFound
	}
	return err
}

func deleteItem(ctx context.Context, tx *sql.Tx, query string, args ...any) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return apperror.FromDB(err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *repository) GetOrCreateCart(ctx context.Context, userID uint) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetOrCreateCart"),
		zap.Uint("user_id", userID),
	)

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO carts (user_id, active)
		VALUES ($1, FALSE)
		ON CONFLICT (user_id) DO NOTHING
	`, userID); err != nil {
		log.Error("failed to ensure cart", zap.Error(err))
		return nil, apperror.FromDB(err)
	}

	var c Cart
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, active, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`, userID).Scan(&c.ID, &c.UserID, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		log.Error("failed to load cart", zap.Error(err))
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT
		ci.id,
		ci.cart_id,
		ci.quantity,
		ci.created_at,
		ci.updated_at,
		`+catalog.ListingColumns+`
	FROM cart_items ci
	JOIN farm_products fp ON fp.id = ci.farm_product_id
	`+catalog.ListingJoins+`
	WHERE ci.cart_id = $1
	ORDER BY ci.id
	`, c.ID)
	if err != nil {
		log.Error("failed to query cart items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item CartItem
			l    catalog.Listing
		)
		dest := append([]any{
			&item.ID,
			&item.CartID,
			&item.Quantity,
			&item.CreatedAt,
			&item.UpdatedAt,
		}, l.ScanDest()...)
		if err := rows.Scan(dest...); err != nil {
			log.Error("failed to scan cart item", zap.Error(err))
			return nil, err
		}
		item.ListingID = l.ID
		item.Listing = &l
		c.Items = append(c.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("cart loaded", zap.Int("items", len(c.Items)))
	return &c, nil
}
