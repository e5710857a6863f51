package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shemaparfait19/centurysoapv2/internal/dto"
	"github.com/shemaparfait19/centurysoapv2/internal/model"
	"github.com/shemaparfait19/centurysoapv2/internal/repository"
	"github.com/shemaparfait19/centurysoapv2/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleService is the stock ledger: it is the only writer of StockSold /
// ClosingStock outside catalog administration.
type SaleService interface {
	Create(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type saleService struct {
	repo              repository.SaleRepository
	productRepo       repository.ProductRepository
	customers         CustomerService
	dispatcher        *worker.Dispatcher
	lowStockThreshold int
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customers CustomerService,
	dispatcher *worker.Dispatcher,
	lowStockThreshold int,
) SaleService {
	return &saleService{
		repo:              repo,
		productRepo:       productRepo,
		customers:         customers,
		dispatcher:        dispatcher,
		lowStockThreshold: lowStockThreshold,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Create ────────────────────────────────────────────────────────────────────
// Validate-then-commit, all-or-nothing:
//   1. Upsert the customer by phone and snapshot name/phone onto the sale.
//   2. Resolve every line item against the catalog BEFORE any mutation —
//      unknown product, unknown size, or quantity above closing stock fails
//      the whole request with nothing written.
//   3. One transaction: insert sale + items (grand total recomputed
//      server-side), then per item a conditional decrement that only fires
//      while closing_stock >= quantity. A concurrent sale that drained the
//      stock between validation and commit hits zero rows and rolls the
//      whole transaction back, so stock can never go negative.

func (s *saleService) Create(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	saleDate, err := parseSaleDate(req.Date)
	if err != nil {
		return nil, err
	}

	// 1. Customer snapshot
	customer, err := s.customers.Upsert(ctx, dto.UpsertCustomerRequest{
		Name:  req.Customer.Name,
		Phone: req.Customer.Phone,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert customer: %w", err)
	}

	// 2. Resolve and validate every item pre-flight
	resolved := make([]resolvedItem, 0, len(req.Items))
	grandTotal := decimal.Zero
	for _, item := range req.Items {
		p, err := s.productRepo.FindByName(ctx, item.Product)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%q: %w", item.Product, ErrProductNotFound)
			}
			return nil, err
		}
		var size *model.ProductSize
		for i := range p.Sizes {
			if p.Sizes[i].Size == item.Size {
				size = &p.Sizes[i]
				break
			}
		}
		if size == nil {
			return nil, fmt.Errorf("%q has no size %q: %w", item.Product, item.Size, ErrSizeNotFound)
		}
		if item.Quantity > size.ClosingStock {
			return nil, &InsufficientStockError{
				Product:   p.Name,
				Size:      size.Size,
				Requested: item.Quantity,
				Available: size.ClosingStock,
			}
		}
		// Line total is always recomputed server-side
		total := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		grandTotal = grandTotal.Add(total)
		resolved = append(resolved, resolvedItem{
			sizeID:    size.ID,
			product:   p.Name,
			size:      size.Size,
			quantity:  item.Quantity,
			unitPrice: item.UnitPrice,
			total:     total,
		})
	}

	// 3. Commit
	customerID := customer.ID
	sale := model.Sale{
		Date:          saleDate,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		CustomerID:    &customerID,
		WorkerName:    req.WorkerName,
		GrandTotal:    grandTotal,
		PaymentMethod: req.PaymentMethod,
	}
	for _, r := range resolved {
		sale.Items = append(sale.Items, model.SaleItem{
			Product:   r.product,
			Size:      r.size,
			Quantity:  r.quantity,
			UnitPrice: r.unitPrice,
			Total:     r.total,
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, &sale); err != nil {
			return err
		}
		for _, r := range resolved {
			ok, err := s.productRepo.DecrementStockTx(tx, r.sizeID, r.quantity)
			if err != nil {
				return fmt.Errorf("decrement stock for %s (%s): %w", r.product, r.size, err)
			}
			if !ok {
				// Lost the race since validation — abort everything.
				// Re-read the counter so the message reports what is left.
				available, stockErr := s.productRepo.FindSizeClosingStock(ctx, r.sizeID)
				if stockErr != nil {
					available = 0
				}
				return &InsufficientStockError{
					Product:   r.product,
					Size:      r.size,
					Requested: r.quantity,
					Available: available,
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifyLowStock(ctx, resolved)

	return saleToResponse(&sale), nil
}

// resolvedItem is a line item after catalog resolution: the size row it will
// decrement plus the server-side recomputed line total.
type resolvedItem struct {
	sizeID    uuid.UUID
	product   string
	size      string
	quantity  int
	unitPrice decimal.Decimal
	total     decimal.Decimal
}

// notifyLowStock enqueues an alert-email job for every size the sale pushed
// below the threshold. Best effort — a full queue never fails the sale.
func (s *saleService) notifyLowStock(ctx context.Context, resolved []resolvedItem) {
	if s.dispatcher == nil {
		return
	}
	for _, r := range resolved {
		stock, err := s.productRepo.FindSizeClosingStock(ctx, r.sizeID)
		if err != nil || stock >= s.lowStockThreshold {
			continue
		}
		if err := s.dispatcher.EnqueueLowStockAlert(ctx, worker.LowStockAlertPayload{
			Product: r.product,
			Size:    r.size,
			Stock:   stock,
		}); err != nil {
			log.Warn().Err(err).Str("product", r.product).Str("size", r.size).
				Msg("failed to enqueue low stock alert")
		}
	}
}

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("sale %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return saleToResponse(sale), nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	sales, total, totalAmount, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, *saleToResponse(&sales[i]))
	}
	pages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.SaleListResponse{
		Sales: out,
		Pagination: dto.Pagination{
			Total: total,
			Pages: pages,
			Page:  filter.Page,
			Limit: filter.Limit,
		},
		TotalAmount: totalAmount,
	}, nil
}

// ── Delete ────────────────────────────────────────────────────────────────────
// Reverses the commit: every item's quantity is added back to closing stock
// and subtracted from stock sold, then the sale record is removed — all in
// one transaction. When a product or size was renamed or deleted since the
// sale, its restoration is skipped rather than blocking the deletion: the
// user-visible removal wins over best-effort bookkeeping.

func (s *saleService) Delete(ctx context.Context, id uuid.UUID) error {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("sale %s: %w", id, ErrNotFound)
		}
		return err
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, item := range sale.Items {
			restored, err := s.productRepo.RestoreStockTx(tx, item.Product, item.Size, item.Quantity)
			if err != nil {
				return fmt.Errorf("restore stock for %s (%s): %w", item.Product, item.Size, err)
			}
			if !restored {
				log.Warn().Str("product", item.Product).Str("size", item.Size).
					Msg("sale deletion: product/size no longer exists, skipping stock restore")
			}
		}
		return s.repo.DeleteTx(tx, id)
	})
}

// parseSaleDate accepts RFC 3339 or a plain calendar date; empty means now.
func parseSaleDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, dto.SaleItemResponse{
			Product:   item.Product,
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Total,
		})
	}
	customer := dto.SaleCustomerResponse{
		Name:  s.CustomerName,
		Phone: s.CustomerPhone,
	}
	if s.CustomerID != nil {
		id := s.CustomerID.String()
		customer.ID = &id
	}
	return &dto.SaleResponse{
		ID:            s.ID.String(),
		Date:          s.Date.Format(time.RFC3339),
		Customer:      customer,
		WorkerName:    s.WorkerName,
		Items:         items,
		GrandTotal:    s.GrandTotal,
		PaymentMethod: s.PaymentMethod,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
	}
}
