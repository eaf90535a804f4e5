package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"freshharvest-be/internal/discount"
	"freshharvest-be/internal/events"
	"freshharvest-be/internal/logger"
	"freshharvest-be/internal/metrics"

	"go.uber.org/zap"
)

type Service interface {
	CreateOrderFromCart(ctx context.Context, userID uint, couponCode string) (*Order, error)
	ListOrders(ctx context.Context, userID uint, limit, page int) ([]*Order, error)
	GetOrder(ctx context.Context, userID uint, orderID int64) (*Order, error)
}

type Options struct {
	// ApplyDiscountToTotal reduces total_bill by the coupon percentage.
	// When false the coupon is only recorded on the order.
	ApplyDiscountToTotal bool
	LockTimeout          time.Duration
}

type service struct {
	repo         Repository
	discountRepo discount.Repository
	publisher    events.Publisher
	metrics      *metrics.Registry
	opts         Options
}

func NewService(
	repo Repository,
	discountRepo discount.Repository,
	publisher events.Publisher,
	reg *metrics.Registry,
	opts Options,
) Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &service{
		repo:         repo,
		discountRepo: discountRepo,
		publisher:    publisher,
		metrics:      reg,
		opts:         opts,
	}
}

func (s *service) CreateOrderFromCart(ctx context.Context, userID uint, couponCode string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrderFromCart"),
		zap.Uint("user_id", userID),
	)

	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}

	timer := metrics.StartTimer()

	d, err := s.resolveDiscount(ctx, couponCode)
	if err != nil {
		s.metrics.Counter(metrics.CheckoutFailed).Inc()
		log.Error("failed to resolve discount", zap.Error(err))
		return nil, err
	}

	o, err := s.repo.CreateOrderFromCart(ctx, CreateOrderParams{
		UserID:        userID,
		Discount:      d,
		ApplyDiscount: s.opts.ApplyDiscountToTotal,
		LockTimeout:   s.opts.LockTimeout,
	})
	if errors.Is(err, ErrEmptyCart) {
		s.metrics.Counter(metrics.CheckoutEmptyCart).Inc()
		return nil, err
	}
	if err != nil {
		s.metrics.Counter(metrics.CheckoutFailed).Inc()
		return nil, err
	}

	s.metrics.Counter(metrics.CheckoutSucceeded).Inc()
	log.Info("order created",
		zap.Int64("order_id", o.ID),
		zap.Duration("duration", timer.Duration()),
	)

	// The order is committed; a lost event must not fail the request.
	if err := s.publisher.PublishOrderCreated(ctx, events.OrderCreated{
		OrderID:    o.ID,
		UserID:     o.UserID,
		TotalBill:  o.TotalBill,
		CouponCode: o.CouponCode,
		ItemCount:  len(o.Items),
		OccurredAt: o.OrderedAt,
	}); err != nil {
		log.Warn("failed to publish order event",
			zap.Int64("order_id", o.ID),
			zap.Error(err),
		)
	}

	return o, nil
}

// resolveDiscount returns nil for a blank or unknown coupon.
func (s *service) resolveDiscount(ctx context.Context, code string) (*discount.Discount, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}

	d, err := s.discountRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if d == nil {
		logger.FromCtx(ctx).Info("unknown coupon ignored", zap.String("coupon_code", code))
		return nil, nil
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) ListOrders(ctx context.Context, userID uint, limit, page int) ([]*Order, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	return s.repo.ListOrders(ctx, userID, limit, page)
}

func (s *service) GetOrder(ctx context.Context, userID uint, orderID int64) (*Order, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	return s.repo.GetOrder(ctx, userID, orderID)
}
