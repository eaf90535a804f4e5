package order

import (
	"fmt"

	"freshharvest-be/internal/apperror"
)

var (
	ErrUserNotAuthenticated = fmt.Errorf("user not authenticated: %w", apperror.ErrUnauthenticated)
	ErrOrderNotFound        = fmt.Errorf("order not found: %w", apperror.ErrNotFound)
	ErrEmptyCart            = fmt.Errorf("cannot create an order from an empty cart: %w", apperror.ErrEmptyCart)
)
