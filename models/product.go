package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents product data in the system
type Product struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Name          string          `json:"name" gorm:"size:100;not null;uniqueIndex:idx_product_identity"`
	Brand         string          `json:"brand" gorm:"size:50;not null;default:Unknown;uniqueIndex:idx_product_identity"`
	Category      string          `json:"category" gorm:"size:50;not null;uniqueIndex:idx_product_identity;index"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0"`
	Image         *string         `json:"image" gorm:"size:255"`
	CreatedAt     time.Time       `json:"-"`
	UpdatedAt     time.Time       `json:"-"`
}

// ProductInput holds data for the add_product upsert
type ProductInput struct {
	Name          string           `json:"name"`
	Brand         string           `json:"brand"`
	Category      string           `json:"category"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity int              `json:"stock_quantity"`
	Image         *string          `json:"image"`
}

// ProductPatch is a partial product update; nil fields are left untouched.
type ProductPatch struct {
	Name          *string
	Brand         *string
	Category      *string
	Price         *decimal.Decimal
	StockQuantity *int
	Image         *string
}

// Empty reports whether the patch changes nothing.
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Brand == nil && p.Category == nil &&
		p.Price == nil && p.StockQuantity == nil && p.Image == nil
}
