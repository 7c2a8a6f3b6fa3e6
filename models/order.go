package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the order timestamp format used in responses.
const DateLayout = "2006-01-02 15:04:05"

// Order is one sale line. Orders sold together share a BasketID.
// UserID and ProductID are plain columns: the referenced rows may be deleted.
type Order struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"not null;index"`
	ProductID   uint            `gorm:"not null;index"`
	BasketID    string          `gorm:"size:36;not null;index"`
	Quantity    int             `gorm:"not null"`
	PriceAtSale decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Timestamp   time.Time       `gorm:"not null;index"`
}

// SaleLine is one product/quantity pair of a sale request.
type SaleLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// SaleUser is the user part of a serialized sale. Only ID is set when the
// user no longer exists.
type SaleUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

// SaleView is the serialized form of an order.
type SaleView struct {
	ID         uint            `json:"id"`
	Date       string          `json:"date"`
	User       SaleUser        `json:"user"`
	Product    string          `json:"product"`
	Brand      string          `json:"brand"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
	BasketID   string          `json:"basket_id"`
}

// Unknown is shown in place of a deleted product.
const Unknown = "Unknown"

// NewSaleView renders o with whatever user and product still exist; nil means deleted.
func NewSaleView(o Order, u *User, p *Product) SaleView {
	v := SaleView{
		ID:         o.ID,
		Date:       o.Timestamp.UTC().Format(DateLayout),
		User:       SaleUser{ID: o.UserID},
		Product:    Unknown,
		Brand:      Unknown,
		Category:   Unknown,
		Price:      o.PriceAtSale,
		Quantity:   o.Quantity,
		TotalPrice: o.TotalPrice,
		BasketID:   o.BasketID,
	}
	if o.Timestamp.IsZero() {
		v.Date = Unknown
	}
	if u != nil {
		v.User = SaleUser{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
	}
	if p != nil {
		v.Product, v.Brand, v.Category = p.Name, p.Brand, p.Category
	}
	return v
}
