package discount

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"freshharvest-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// GetByCode returns nil, nil when no discount carries the code.
	GetByCode(ctx context.Context, code string) (*Discount, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Discount, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}

	var d Discount
	err := r.db.QueryRowContext(ctx, `
		SELECT coupon_code, discount_percent
		FROM discounts
		WHERE coupon_code = $1
	`, code).Scan(&d.CouponCode, &d.Percent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get discount",
			zap.String("layer", "repository"),
			zap.String("method", "GetByCode"),
			zap.String("coupon_code", code),
			zap.Error(err),
		)
		return nil, err
	}

	return &d, nil
}
