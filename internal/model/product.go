package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry. Stock is not tracked on the product itself but
// per size variant (e.g. "500ml" bottles vs "5L" containers of the same soap).
type Product struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Sizes     []ProductSize `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductSize carries the stock counters for one size variant of a product.
// ClosingStock is derived (opening + in − sold) and recomputed on every
// catalog update; the sale engine mutates StockSold/ClosingStock directly
// with a conditional atomic update.
type ProductSize struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_size"`
	Size         string    `gorm:"not null;uniqueIndex:idx_product_size"`
	Unit         string    `gorm:"not null"`
	OpeningStock int       `gorm:"not null;default:0"`
	StockIn      int       `gorm:"not null;default:0"`
	StockSold    int       `gorm:"not null;default:0"`
	ClosingStock int       `gorm:"not null;default:0"`
}

// Recompute re-derives ClosingStock from the other counters.
func (s *ProductSize) Recompute() {
	s.ClosingStock = s.OpeningStock + s.StockIn - s.StockSold
}
