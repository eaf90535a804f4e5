package catalog

import (
	"context"
	"database/sql"
	"errors"

	"freshharvest-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Repository is the read-only view of the catalog used by carts.
// Reads never lock.
type Repository interface {
	GetListingPrice(ctx context.Context, listingID int64) (decimal.Decimal, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// GetListingPrice returns the current unit price of a listing, or
// ErrListingNotFound.
func (r *repository) GetListingPrice(ctx context.Context, listingID int64) (decimal.Decimal, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetListingPrice"),
		zap.Int64("listing_id", listingID),
	)

	var price decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT price FROM farm_products WHERE id = $1`,
		listingID,
	).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("listing not found")
		return decimal.Zero, ErrListingNotFound
	}
	if err != nil {
		log.Error("failed to get listing price", zap.Error(err))
		return decimal.Zero, err
	}
	return price, nil
}
