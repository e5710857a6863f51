package repository

import (
	"context"

	"github.com/shemaparfait19/centurysoapv2/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkerRepository is the data access contract for the staff roster.
type WorkerRepository interface {
	Create(ctx context.Context, w *model.Worker) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Worker, error)
	ListActive(ctx context.Context) ([]model.Worker, error)
	Update(ctx context.Context, w *model.Worker) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type workerRepo struct{ db *gorm.DB }

func NewWorkerRepository(db *gorm.DB) WorkerRepository { return &workerRepo{db: db} }

func (r *workerRepo) Create(ctx context.Context, w *model.Worker) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *workerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Worker, error) {
	var w model.Worker
	err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *workerRepo) ListActive(ctx context.Context) ([]model.Worker, error) {
	var workers []model.Worker
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&workers).Error
	return workers, err
}

func (r *workerRepo) Update(ctx context.Context, w *model.Worker) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *workerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Worker{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
