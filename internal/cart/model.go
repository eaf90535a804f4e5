package cart

import (
	"time"

	"freshharvest-be/internal/catalog"

	"github.com/shopspring/decimal"
)

// Cart is the single mutable basket of a user.
type Cart struct {
	ID        int64
	UserID    uint
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
	Items     []CartItem
}

type CartItem struct {
	ID        int64
	CartID    int64
	ListingID int64
	Quantity  decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time

	// Listing is only populated by GetCart.
	Listing *catalog.Listing
}

// UpsertMode selects what happens to an existing item for the same listing.
type UpsertMode int

const (
	// ModeReplace sets the quantity to the requested value.
	ModeReplace UpsertMode = iota
	// ModeIncrement adds the requested value to the stored quantity.
	ModeIncrement
)

func (m UpsertMode) String() string {
	if m == ModeIncrement {
		return "increment"
	}
	return "replace"
}

type UpsertItemParams struct {
	UserID    uint
	ListingID int64
	Quantity  decimal.Decimal
	Mode      UpsertMode
}
