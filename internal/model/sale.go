package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at the counter. The string values are part of the
// stored-data contract and must not be renamed.
const (
	PaymentCash = "Cash"
	PaymentMoMo = "MoMo"
)

// Sale is a settled transaction. Customer, worker and product references are
// denormalized snapshots on purpose: renaming a product or deactivating a
// worker must not rewrite history.
type Sale struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Date          time.Time `gorm:"index;not null"`
	CustomerName  string    `gorm:"index;not null"`
	CustomerPhone string    `gorm:"not null"`
	// CustomerID points at the directory record that existed at sale time.
	// It is informational only — no FK constraint, no join.
	CustomerID    *uuid.UUID      `gorm:"type:uuid"`
	WorkerName    string          `gorm:"index;not null"`
	Items         []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"index;not null"` // Cash | MoMo
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Legacy single-item columns. Older records stored one product per sale
	// directly on the row; the migration sweep rewrites them into Items.
	LegacyProduct   *string          `gorm:"column:product"`
	LegacySize      *string          `gorm:"column:size"`
	LegacyQuantity  *int             `gorm:"column:quantity"`
	LegacyUnitPrice *decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2)"`
	LegacyTotal     *decimal.Decimal `gorm:"column:total;type:decimal(12,2)"`
	LegacyClient    *string          `gorm:"column:client_name"`
}

// SaleItem is one line of a sale. Product and Size are name snapshots,
// not references into the catalog.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Product   string          `gorm:"not null"`
	Size      string          `gorm:"not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
