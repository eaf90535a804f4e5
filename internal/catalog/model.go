package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Farm struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Listing is one farm's sellable unit of a product (farm_products row).
type Listing struct {
	ID          int64           `json:"id"`
	Farm        Farm            `json:"farm"`
	Product     Product         `json:"product"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Label       *string         `json:"label"`
	HarvestDate time.Time       `json:"harvest_date"`
}

// ListingColumns selects a listing with its farm and product from the
// farm_products fp row joined through ListingJoins, in ScanDest order.
const (
	ListingColumns = `fp.id, fp.quantity, fp.price, fp.label, fp.harvest_date,
		f.id, f.name, f.description, f.location,
		p.id, p.name, p.type, p.description`

	ListingJoins = `JOIN farms f ON f.id = fp.farm_id
	JOIN products p ON p.id = fp.product_id`
)

func (l *Listing) ScanDest() []any {
	return []any{
		&l.ID,
		&l.Quantity,
		&l.Price,
		&l.Label,
		&l.HarvestDate,

		&l.Farm.ID,
		&l.Farm.Name,
		&l.Farm.Description,
		&l.Farm.Location,

		&l.Product.ID,
		&l.Product.Name,
		&l.Product.Type,
		&l.Product.Description,
	}
}
