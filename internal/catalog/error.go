package catalog

import (
	"fmt"

	"freshharvest-be/internal/apperror"
)

var ErrListingNotFound = fmt.Errorf("farm product does not exist: %w", apperror.ErrNotFound)
