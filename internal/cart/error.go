package cart

import (
	"fmt"

	"freshharvest-be/internal/apperror"
)

var (
	// -- Authentication --
	ErrUserNotAuthenticated = fmt.Errorf("user not authenticated: %w", apperror.ErrUnauthenticated)

	// -- Validation & Input --
	ErrInvalidQuantity   = fmt.Errorf("quantity must be greater than zero: %w", apperror.ErrInvalidArgument)
	ErrQuantityTooLarge  = fmt.Errorf("quantity must be less than 100000000: %w", apperror.ErrInvalidArgument)
	ErrQuantityPrecision = fmt.Errorf("quantity allows at most 2 decimal places: %w", apperror.ErrInvalidArgument)

	// -- Resource State --
	ErrCartNotFound     = fmt.Errorf("cart not found: %w", apperror.ErrNotFound)
	ErrCartItemNotFound = fmt.Errorf("cart item not found: %w", apperror.ErrNotFound)
)
