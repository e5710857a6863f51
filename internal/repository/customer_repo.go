package repository

import (
	"context"

	"github.com/shemaparfait19/centurysoapv2/internal/model"

	"gorm.io/gorm"
)

// CustomerRepository is the data access contract for the customer directory.
type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	Update(ctx context.Context, c *model.Customer) error
	FindByPhone(ctx context.Context, phone string) (*model.Customer, error)
	// Search matches name or phone case-insensitively, capped to limit rows.
	Search(ctx context.Context, query string, limit int) ([]model.Customer, error)
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) Search(ctx context.Context, query string, limit int) ([]model.Customer, error) {
	var customers []model.Customer
	q := r.db.WithContext(ctx).Limit(limit)
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("name ILIKE ? OR phone ILIKE ?", pattern, pattern)
	}
	err := q.Find(&customers).Error
	return customers, err
}
