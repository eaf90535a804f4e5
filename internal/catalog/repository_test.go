package catalog

import (
	"context"
	"errors"
	"testing"

	"freshharvest-be/internal/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetListingPrice(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT price FROM farm_products WHERE id = \$1`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow("3.50"))

		price, err := repo.GetListingPrice(ctx, 3)

		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("3.50").Equal(price))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT price FROM farm_products`).
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"price"}))

		price, err := repo.GetListingPrice(ctx, 4)

		assert.True(t, price.IsZero())
		assert.ErrorIs(t, err, ErrListingNotFound)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT price FROM farm_products`).
			WillReturnError(errors.New("db down"))

		_, err := repo.GetListingPrice(ctx, 1)
		assert.EqualError(t, err, "db down")
	})
}
