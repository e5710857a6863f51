package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shemaparfait19/centurysoapv2/internal/dto"
	"github.com/shemaparfait19/centurysoapv2/internal/model"
	"github.com/shemaparfait19/centurysoapv2/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkerService defines the business logic contract for the staff roster.
type WorkerService interface {
	ListActive(ctx context.Context) ([]dto.WorkerResponse, error)
	Create(ctx context.Context, req dto.CreateWorkerRequest) (*dto.WorkerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateWorkerRequest) (*dto.WorkerResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type workerService struct {
	repo repository.WorkerRepository
}

func NewWorkerService(repo repository.WorkerRepository) WorkerService {
	return &workerService{repo: repo}
}

func (s *workerService) ListActive(ctx context.Context) ([]dto.WorkerResponse, error) {
	workers, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WorkerResponse, 0, len(workers))
	for i := range workers {
		out = append(out, *workerToResponse(&workers[i]))
	}
	return out, nil
}

func (s *workerService) Create(ctx context.Context, req dto.CreateWorkerRequest) (*dto.WorkerResponse, error) {
	w := &model.Worker{
		Name:   req.Name,
		Phone:  req.Phone,
		Role:   req.Role,
		Active: true,
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	return workerToResponse(w), nil
}

func (s *workerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateWorkerRequest) (*dto.WorkerResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("worker %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if req.Name != nil {
		w.Name = *req.Name
	}
	if req.Phone != nil {
		w.Phone = *req.Phone
	}
	if req.Role != nil {
		w.Role = *req.Role
	}
	if req.Active != nil {
		w.Active = *req.Active
	}
	if err := s.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	return workerToResponse(w), nil
}

func (s *workerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("worker %s: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}

func workerToResponse(w *model.Worker) *dto.WorkerResponse {
	return &dto.WorkerResponse{
		ID:     w.ID.String(),
		Name:   w.Name,
		Phone:  w.Phone,
		Role:   w.Role,
		Active: w.Active,
	}
}
