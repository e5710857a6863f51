package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SizePayload carries the stock counters for one size variant. On update the
// client may send closingStock but the server always recomputes it.
type SizePayload struct {
	Size         string `json:"size"         validate:"required"`
	Unit         string `json:"unit"         validate:"required"`
	OpeningStock int    `json:"openingStock" validate:"min=0"`
	StockIn      int    `json:"stockIn"      validate:"min=0"`
	StockSold    int    `json:"stockSold"    validate:"min=0"`
	ClosingStock int    `json:"closingStock" validate:"min=0"`
}

type CreateProductRequest struct {
	Name  string        `json:"name"  validate:"required,min=2,max=120"`
	Sizes []SizePayload `json:"sizes" validate:"required,min=1,dive"`
}

// UpdateProductRequest merges onto the stored product. Sizes are matched by
// label; sizes not mentioned are left untouched.
type UpdateProductRequest struct {
	Name  *string       `json:"name"  validate:"omitempty,min=2,max=120"`
	Sizes []SizePayload `json:"sizes" validate:"omitempty,dive"`
}

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Name string `form:"name"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SizeResponse struct {
	Size         string `json:"size"`
	Unit         string `json:"unit"`
	OpeningStock int    `json:"openingStock"`
	StockIn      int    `json:"stockIn"`
	StockSold    int    `json:"stockSold"`
	ClosingStock int    `json:"closingStock"`
}

type ProductResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Sizes     []SizeResponse `json:"sizes"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}

// SeedResponse reports the outcome of the idempotent catalog seeding.
type SeedResponse struct {
	Seeded  int    `json:"seeded"`
	Message string `json:"message"`
}
