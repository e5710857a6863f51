package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shemaparfait19/centurysoapv2/internal/dto"
	"github.com/shemaparfait19/centurysoapv2/internal/model"
	"github.com/shemaparfait19/centurysoapv2/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductService defines the business logic contract for the catalog.
type ProductService interface {
	List(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Seed(ctx context.Context) (*dto.SeedResponse, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &model.Product{Name: req.Name}
	for _, sz := range req.Sizes {
		size := model.ProductSize{
			Size:         sz.Size,
			Unit:         sz.Unit,
			OpeningStock: sz.OpeningStock,
			StockIn:      sz.StockIn,
			StockSold:    sz.StockSold,
		}
		size.Recompute()
		p.Sizes = append(p.Sizes, size)
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("product %q already exists: %w", req.Name, ErrDuplicateKey)
		}
		return nil, err
	}
	return productToResponse(p), nil
}

// Update merges supplied fields onto the stored product. Incoming sizes are
// matched to existing ones by label; ClosingStock is always recomputed from
// opening + in − sold, discarding whatever the caller sent. Stored sizes not
// mentioned in the request are left untouched.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	for i := range p.Sizes {
		existing := &p.Sizes[i]
		for _, incoming := range req.Sizes {
			if incoming.Size != existing.Size {
				continue
			}
			existing.Unit = incoming.Unit
			existing.OpeningStock = incoming.OpeningStock
			existing.StockIn = incoming.StockIn
			existing.StockSold = incoming.StockSold
			existing.Recompute()
		}
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("product name already taken: %w", ErrDuplicateKey)
		}
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	// Hard delete. Historical sales keep their name snapshots, so no cleanup.
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}

// defaultCatalog is the initial Century Soap product line. All counters start
// at zero; stock is entered through catalog updates afterwards.
var defaultCatalog = []model.Product{
	{Name: "Multipurpose Liquid Detergent", Sizes: []model.ProductSize{
		{Size: "500ml", Unit: "Bottles"}, {Size: "750ml", Unit: "Bottles"},
		{Size: "5L", Unit: "Containers"}, {Size: "20L", Unit: "Containers"},
		{Size: "Box", Unit: "Boxes"},
	}},
	{Name: "Century Forte Bleach", Sizes: []model.ProductSize{
		{Size: "500ml", Unit: "Bottles"}, {Size: "750ml", Unit: "Bottles"},
		{Size: "5L", Unit: "Containers"}, {Size: "20L", Unit: "Containers"},
		{Size: "Box", Unit: "Boxes"},
	}},
	{Name: "Century Handwash", Sizes: []model.ProductSize{
		{Size: "500ml", Unit: "Bottles"}, {Size: "750ml", Unit: "Bottles"},
		{Size: "5L", Unit: "Containers"}, {Size: "Box", Unit: "Boxes"},
	}},
	{Name: "Century Tiles Cleaner", Sizes: []model.ProductSize{
		{Size: "500ml", Unit: "Bottles"}, {Size: "750ml", Unit: "Bottles"},
		{Size: "5L", Unit: "Containers"}, {Size: "20L", Unit: "Containers"},
		{Size: "Box", Unit: "Boxes"},
	}},
	{Name: "Century Toilet Cleaner", Sizes: []model.ProductSize{
		{Size: "500ml", Unit: "Bottles"}, {Size: "750ml", Unit: "Bottles"},
		{Size: "5L", Unit: "Containers"}, {Size: "20L", Unit: "Containers"},
		{Size: "Box", Unit: "Boxes"},
	}},
}

// Seed inserts the default catalog if the table is empty. Safe to re-run.
func (s *productService) Seed(ctx context.Context) (*dto.SeedResponse, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return &dto.SeedResponse{Seeded: 0, Message: "Products already seeded"}, nil
	}
	seeded := 0
	for i := range defaultCatalog {
		p := defaultCatalog[i]
		p.ID = uuid.Nil
		if err := s.repo.Create(ctx, &p); err != nil {
			return nil, err
		}
		seeded++
	}
	return &dto.SeedResponse{Seeded: seeded, Message: fmt.Sprintf("Seeded %d products", seeded)}, nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	sizes := make([]dto.SizeResponse, 0, len(p.Sizes))
	for _, sz := range p.Sizes {
		sizes = append(sizes, dto.SizeResponse{
			Size:         sz.Size,
			Unit:         sz.Unit,
			OpeningStock: sz.OpeningStock,
			StockIn:      sz.StockIn,
			StockSold:    sz.StockSold,
			ClosingStock: sz.ClosingStock,
		})
	}
	return &dto.ProductResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Sizes:     sizes,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}
