package service

import (
	"context"
	"errors"

	"github.com/shemaparfait19/centurysoapv2/internal/dto"
	"github.com/shemaparfait19/centurysoapv2/internal/model"
	"github.com/shemaparfait19/centurysoapv2/internal/repository"

	"gorm.io/gorm"
)

// searchLimit caps the type-ahead result size.
const searchLimit = 10

// CustomerService defines the business logic contract for the customer directory.
type CustomerService interface {
	Search(ctx context.Context, filter dto.CustomerFilter) ([]dto.CustomerResponse, error)
	// Upsert looks the customer up by exact phone: if found, name and any
	// supplied optional fields are overwritten; otherwise a new record is
	// created. Idempotent under repeated identical calls.
	Upsert(ctx context.Context, req dto.UpsertCustomerRequest) (*model.Customer, error)
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Search(ctx context.Context, filter dto.CustomerFilter) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.Search(ctx, filter.Search, searchLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, *customerToResponse(&customers[i]))
	}
	return out, nil
}

func (s *customerService) Upsert(ctx context.Context, req dto.UpsertCustomerRequest) (*model.Customer, error) {
	existing, err := s.repo.FindByPhone(ctx, req.Phone)
	switch {
	case err == nil:
		existing.Name = req.Name
		if req.Email != nil {
			existing.Email = req.Email
		}
		if req.Address != nil {
			existing.Address = req.Address
		}
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		c := &model.Customer{
			Name:    req.Name,
			Phone:   req.Phone,
			Email:   req.Email,
			Address: req.Address,
		}
		if err := s.repo.Create(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, err
	}
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:      c.ID.String(),
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Address: c.Address,
	}
}
