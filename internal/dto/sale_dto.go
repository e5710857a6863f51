package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SaleItemRequest is one line of a sale. Product and size are referenced by
// name/label — the snapshot stored with the sale, not a foreign key.
type SaleItemRequest struct {
	Product   string          `json:"product"   validate:"required"`
	Size      string          `json:"size"      validate:"required"`
	Quantity  int             `json:"quantity"  validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"min=0"`
}

type SaleCustomerRequest struct {
	Name  string `json:"name"  validate:"required,min=2,max=120"`
	Phone string `json:"phone" validate:"required,min=3,max=32"`
}

type CreateSaleRequest struct {
	// Date defaults to now when empty. Format: RFC 3339 or YYYY-MM-DD.
	Date          string              `json:"date"`
	Customer      SaleCustomerRequest `json:"customer"      validate:"required"`
	WorkerName    string              `json:"workerName"    validate:"required"`
	Items         []SaleItemRequest   `json:"items"         validate:"required,min=1,dive"`
	PaymentMethod string              `json:"paymentMethod" validate:"required,oneof=Cash MoMo"`
}

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	StartDate     string `form:"startDate"` // YYYY-MM-DD
	EndDate       string `form:"endDate"`   // YYYY-MM-DD
	Product       string `form:"product"`
	Worker        string `form:"worker"`
	PaymentMethod string `form:"paymentMethod"`
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=20" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	Product   string          `json:"product"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

type SaleCustomerResponse struct {
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	ID    *string `json:"id,omitempty"`
}

type SaleResponse struct {
	ID            string               `json:"id"`
	Date          string               `json:"date"`
	Customer      SaleCustomerResponse `json:"customer"`
	WorkerName    string               `json:"workerName"`
	Items         []SaleItemResponse   `json:"items"`
	GrandTotal    decimal.Decimal      `json:"grandTotal"`
	PaymentMethod string               `json:"paymentMethod"`
	CreatedAt     string               `json:"createdAt"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type SaleListResponse struct {
	Sales       []SaleResponse  `json:"sales"`
	Pagination  Pagination      `json:"pagination"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// MigrateResponse reports the legacy-schema sweep outcome.
type MigrateResponse struct {
	Found    int    `json:"found"`
	Migrated int    `json:"migrated"`
	Message  string `json:"message"`
}
