package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// UpsertCustomerRequest is keyed by phone: an existing customer with the same
// phone is updated in place, otherwise a new record is created.
type UpsertCustomerRequest struct {
	Name    string  `json:"name"    validate:"required,min=2,max=120"`
	Phone   string  `json:"phone"   validate:"required,min=3,max=32"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Address *string `json:"address"`
}

// CustomerFilter backs the type-ahead search box on the sale form.
type CustomerFilter struct {
	Search string `form:"search"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CustomerResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
}
