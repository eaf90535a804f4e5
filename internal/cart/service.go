package cart

import (
	"context"

	"freshharvest-be/internal/catalog"
	"freshharvest-be/internal/logger"
	"freshharvest-be/internal/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service defines the business logic for carts. Every operation acts on
// the cart of the explicit userID.
type Service interface {
	AddOrUpdateCartItem(ctx context.Context, userID uint, listingID int64, quantity decimal.Decimal) (*CartItem, error)
	IncrementCartItem(ctx context.Context, userID uint, listingID int64, quantity decimal.Decimal) (*CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, userID uint, itemID int64, quantity decimal.Decimal) (*CartItem, error)
	SetCartItemQuantity(ctx context.Context, userID uint, listingID int64, quantity decimal.Decimal) (*CartItem, error)
	RemoveCartItem(ctx context.Context, userID uint, listingID int64) error
	RemoveCartItemByID(ctx context.Context, userID uint, itemID int64) error
	GetCart(ctx context.Context, userID uint) (*Cart, error)
}

type service struct {
	repo        Repository
	catalogRepo catalog.Repository
	metrics     *metrics.Registry
}

func NewService(repo Repository, catalogRepo catalog.Repository, reg *metrics.Registry) Service {
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &service{repo: repo, catalogRepo: catalogRepo, metrics: reg}
}

// AddOrUpdateCartItem stores quantity for the listing, replacing any
// previous quantity.
func (s *service) AddOrUpdateCartItem(
	ctx context.Context,
	userID uint,
	listingID int64,
	quantity decimal.Decimal,
) (*CartItem, error) {
	return s.upsert(ctx, UpsertItemParams{
		UserID:    userID,
		ListingID: listingID,
		Quantity:  quantity,
		Mode:      ModeReplace,
	})
}

// IncrementCartItem adds quantity to the listing's existing item, or
// creates it.
func (s *service) IncrementCartItem(
	ctx context.Context,
	userID uint,
	listingID int64,
	quantity decimal.Decimal,
) (*CartItem, error) {
	return s.upsert(ctx, UpsertItemParams{
		UserID:    userID,
		ListingID: listingID,
		Quantity:  quantity,
		Mode:      ModeIncrement,
	})
}

func (s *service) upsert(ctx context.Context, params UpsertItemParams) (*CartItem, error) {
	if params.UserID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	if err := ValidateQuantity(params.Quantity); err != nil {
		return nil, err
	}

	// Existence check for the listing; the price is only logged. Orders
	// re-read it at checkout.
	price, err := s.catalogRepo.GetListingPrice(ctx, params.ListingID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.UpsertItem(ctx, params)
	if err != nil {
		return nil, err
	}

	s.metrics.Counter(metrics.CartMutations).Inc()
	logger.FromCtx(ctx).Debug("cart item stored",
		zap.Uint("user_id", params.UserID),
		zap.Int64("listing_id", params.ListingID),
		zap.Stringer("mode", params.Mode),
		zap.String("unit_price", price.StringFixed(2)),
	)
	return item, nil
}

func (s *service) UpdateCartItemQuantity(
	ctx context.Context,
	userID uint,
	itemID int64,
	quantity decimal.Decimal,
) (*CartItem, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	item, err := s.repo.UpdateItemQuantity(ctx, userID, itemID, quantity)
	if err != nil {
		return nil, err
	}

	s.metrics.Counter(metrics.CartMutations).Inc()
	return item, nil
}

func (s *service) SetCartItemQuantity(
	ctx context.Context,
	userID uint,
	listingID int64,
	quantity decimal.Decimal,
) (*CartItem, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	item, err := s.repo.SetItemQuantityByListing(ctx, userID, listingID, quantity)
	if err != nil {
		return nil, err
	}

	s.metrics.Counter(metrics.CartMutations).Inc()
	return item, nil
}

func (s *service) RemoveCartItem(ctx context.Context, userID uint, listingID int64) error {
	if userID == 0 {
		return ErrUserNotAuthenticated
	}
	if err := s.repo.RemoveItemByListing(ctx, userID, listingID); err != nil {
		return err
	}

	s.metrics.Counter(metrics.CartMutations).Inc()
	logger.FromCtx(ctx).Info("cart item removed",
		zap.Uint("user_id", userID),
		zap.Int64("listing_id", listingID),
	)
	return nil
}

func (s *service) RemoveCartItemByID(ctx context.Context, userID uint, itemID int64) error {
	if userID == 0 {
		return ErrUserNotAuthenticated
	}
	if err := s.repo.RemoveItemByID(ctx, userID, itemID); err != nil {
		return err
	}

	s.metrics.Counter(metrics.CartMutations).Inc()
	return nil
}

func (s *service) GetCart(ctx context.Context, userID uint) (*Cart, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	return s.repo.GetOrCreateCart(ctx, userID)
}
