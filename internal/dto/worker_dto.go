package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateWorkerRequest struct {
	Name  string `json:"name"  validate:"required,min=2,max=120"`
	Phone string `json:"phone" validate:"required,min=3,max=32"`
	Role  string `json:"role"  validate:"required"`
}

type UpdateWorkerRequest struct {
	Name   *string `json:"name"   validate:"omitempty,min=2,max=120"`
	Phone  *string `json:"phone"  validate:"omitempty,min=3,max=32"`
	Role   *string `json:"role"`
	Active *bool   `json:"active"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type WorkerResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}
