package service_test

import (
	"context"
	"strings"
	"time"

	"github.com/shemaparfait19/centurysoapv2/internal/dto"
	"github.com/shemaparfait19/centurysoapv2/internal/model"
	"github.com/shemaparfait19/centurysoapv2/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductRepo is an in-memory ProductRepository for testing.
type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	for _, existing := range r.products {
		if existing.Name == p.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Sizes {
		if p.Sizes[i].ID == uuid.Nil {
			p.Sizes[i].ID = uuid.New()
		}
		p.Sizes[i].ProductID = p.ID
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByName(_ context.Context, name string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *stubProductRepo) CountSizes(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.products {
		n += int64(len(p.Sizes))
	}
	return n, nil
}

func (r *stubProductRepo) ListLowStock(_ context.Context, threshold int) ([]repository.LowStockRow, error) {
	var rows []repository.LowStockRow
	for _, p := range r.products {
		for _, s := range p.Sizes {
			if s.ClosingStock < threshold {
				rows = append(rows, repository.LowStockRow{Product: p.Name, Size: s.Size, Stock: s.ClosingStock})
			}
		}
	}
	return rows, nil
}

func (r *stubProductRepo) DecrementStockTx(_ *gorm.DB, sizeID uuid.UUID, qty int) (bool, error) {
	for _, p := range r.products {
		for i := range p.Sizes {
			s := &p.Sizes[i]
			if s.ID != sizeID {
				continue
			}
			if s.ClosingStock < qty {
				return false, nil
			}
			s.StockSold += qty
			s.ClosingStock -= qty
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductRepo) RestoreStockTx(_ *gorm.DB, product, size string, qty int) (bool, error) {
	for _, p := range r.products {
		if p.Name != product {
			continue
		}
		for i := range p.Sizes {
			s := &p.Sizes[i]
			if s.Size != size {
				continue
			}
			s.StockSold -= qty
			s.ClosingStock += qty
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductRepo) FindSizeClosingStock(_ context.Context, sizeID uuid.UUID) (int, error) {
	for _, p := range r.products {
		for _, s := range p.Sizes {
			if s.ID == sizeID {
				return s.ClosingStock, nil
			}
		}
	}
	return 0, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubCustomerRepo is an in-memory CustomerRepository keyed by phone.
type stubCustomerRepo struct {
	customers map[string]*model.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[string]*model.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.Phone] = c
	return nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.customers[c.Phone] = c
	return nil
}

func (r *stubCustomerRepo) FindByPhone(_ context.Context, phone string) (*model.Customer, error) {
	c, ok := r.customers[phone]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) Search(_ context.Context, query string, limit int) ([]model.Customer, error) {
	var out []model.Customer
	q := strings.ToLower(query)
	for _, c := range r.customers {
		if len(out) >= limit {
			break
		}
		if q == "" || strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(c.Phone, query) {
			out = append(out, *c)
		}
	}
	return out, nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// stubWorkerRepo is an in-memory WorkerRepository.
type stubWorkerRepo struct {
	workers map[uuid.UUID]*model.Worker
}

func newStubWorkerRepo() *stubWorkerRepo {
	return &stubWorkerRepo{workers: make(map[uuid.UUID]*model.Worker)}
}

func (r *stubWorkerRepo) Create(_ context.Context, w *model.Worker) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	r.workers[w.ID] = w
	return nil
}

func (r *stubWorkerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Worker, error) {
	w, ok := r.workers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return w, nil
}

func (r *stubWorkerRepo) ListActive(_ context.Context) ([]model.Worker, error) {
	var out []model.Worker
	for _, w := range r.workers {
		if w.Active {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *stubWorkerRepo) Update(_ context.Context, w *model.Worker) error {
	r.workers[w.ID] = w
	return nil
}

func (r *stubWorkerRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.workers[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.workers, id)
	return nil
}

var _ repository.WorkerRepository = (*stubWorkerRepo)(nil)

// stubSaleRepo is an in-memory SaleRepository.
type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	s.CreatedAt = time.Now()
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.sales[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.sales, id)
	return nil
}

func (r *stubSaleRepo) List(_ context.Context, filter dto.SaleFilter) ([]model.Sale, int64, decimal.Decimal, error) {
	var out []model.Sale
	totalAmount := decimal.Zero
	for _, s := range r.sales {
		if filter.Worker != "" && s.WorkerName != filter.Worker {
			continue
		}
		if filter.PaymentMethod != "" && s.PaymentMethod != filter.PaymentMethod {
			continue
		}
		out = append(out, *s)
		totalAmount = totalAmount.Add(s.GrandTotal)
	}
	total := int64(len(out))
	offset := (filter.Page - 1) * filter.Limit
	if offset > len(out) {
		offset = len(out)
	}
	end := offset + filter.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, totalAmount, nil
}

func (r *stubSaleRepo) ListRange(_ context.Context, start, end time.Time, worker string) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.Date.Before(start) || !s.Date.Before(end) {
			continue
		}
		if worker != "" && s.WorkerName != worker {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSaleRepo) SummarizeRange(ctx context.Context, start, end time.Time, worker string) (repository.PaymentSummary, error) {
	sales, _ := r.ListRange(ctx, start, end, worker)
	sum := repository.PaymentSummary{Total: decimal.Zero, Cash: decimal.Zero, Momo: decimal.Zero}
	for _, s := range sales {
		sum.Total = sum.Total.Add(s.GrandTotal)
		switch s.PaymentMethod {
		case model.PaymentCash:
			sum.Cash = sum.Cash.Add(s.GrandTotal)
		case model.PaymentMoMo:
			sum.Momo = sum.Momo.Add(s.GrandTotal)
		}
		sum.Count++
	}
	return sum, nil
}

func (r *stubSaleRepo) ProductBreakdown(ctx context.Context, start, end time.Time, worker string) ([]repository.BreakdownRow, error) {
	sales, _ := r.ListRange(ctx, start, end, worker)
	type key struct{ product, size string }
	agg := make(map[key]*repository.BreakdownRow)
	for _, s := range sales {
		for _, item := range s.Items {
			k := key{item.Product, item.Size}
			row, ok := agg[k]
			if !ok {
				row = &repository.BreakdownRow{Product: item.Product, Size: item.Size, Total: decimal.Zero}
				agg[k] = row
			}
			row.Quantity += item.Quantity
			row.Total = row.Total.Add(item.Total)
		}
	}
	var out []repository.BreakdownRow
	for _, row := range agg {
		out = append(out, *row)
	}
	return out, nil
}

func (r *stubSaleRepo) TopProducts(_ context.Context, limit int) ([]repository.TopProductRow, error) {
	type key struct{ product, size string }
	agg := make(map[key]int)
	for _, s := range r.sales {
		for _, item := range s.Items {
			agg[key{item.Product, item.Size}] += item.Quantity
		}
	}
	var out []repository.TopProductRow
	for k, qty := range agg {
		out = append(out, repository.TopProductRow{Product: k.product, Size: k.size, Quantity: qty})
	}
	// Selection sort by quantity descending, then cap.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Quantity > out[i].Quantity {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubSaleRepo) ListLegacy(_ context.Context) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if len(s.Items) == 0 {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) SaveMigrated(_ context.Context, s *model.Sale, item *model.SaleItem) error {
	stored, ok := r.sales[s.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	stored.Items = append(stored.Items, *item)
	stored.CustomerName = s.CustomerName
	stored.CustomerPhone = s.CustomerPhone
	stored.GrandTotal = s.GrandTotal
	return nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)
