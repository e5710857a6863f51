package repository

import (
	"context"
	"time"

	"github.com/shemaparfait19/centurysoapv2/internal/dto"
	"github.com/shemaparfait19/centurysoapv2/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentSummary aggregates a set of sales split by payment method.
type PaymentSummary struct {
	Total decimal.Decimal
	Cash  decimal.Decimal
	Momo  decimal.Decimal
	Count int64
}

// BreakdownRow aggregates sold quantity and revenue per product+size.
type BreakdownRow struct {
	Product  string
	Size     string
	Quantity int
	Total    decimal.Decimal
}

// TopProductRow is one entry of the best-sellers ranking.
type TopProductRow struct {
	Product  string
	Size     string
	Quantity int
}

// SaleRepository is the data access contract for the sales ledger.
type SaleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, decimal.Decimal, error)

	// Aggregation reads backing dashboards and reports. The [start, end)
	// range is half-open; worker == "" means all workers.
	ListRange(ctx context.Context, start, end time.Time, worker string) ([]model.Sale, error)
	SummarizeRange(ctx context.Context, start, end time.Time, worker string) (PaymentSummary, error)
	ProductBreakdown(ctx context.Context, start, end time.Time, worker string) ([]BreakdownRow, error)
	TopProducts(ctx context.Context, limit int) ([]TopProductRow, error)

	// Legacy-schema migration support.
	ListLegacy(ctx context.Context) ([]model.Sale, error)
	SaveMigrated(ctx context.Context, s *model.Sale, item *model.SaleItem) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	// Items cascade via the FK constraint.
	res := tx.Delete(&model.Sale{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, decimal.Decimal, error) {
	var sales []model.Sale
	var total int64

	// Each finisher gets its own filtered statement: Select mutates the
	// statement in place, so reusing one chain would leak the aggregate
	// select into the page query.
	filtered := func() *gorm.DB {
		return applySaleFilter(r.db.WithContext(ctx).Model(&model.Sale{}), filter)
	}

	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, decimal.Zero, err
	}

	var agg struct{ Amount decimal.Decimal }
	if err := filtered().Select("COALESCE(SUM(grand_total), 0) AS amount").Scan(&agg).Error; err != nil {
		return nil, 0, decimal.Zero, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := filtered().Preload("Items").
		Order("date DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error
	return sales, total, agg.Amount, err
}

func applySaleFilter(q *gorm.DB, filter dto.SaleFilter) *gorm.DB {
	if filter.StartDate != "" {
		q = q.Where("date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		// Inclusive end date: anything before the following midnight.
		if end, err := time.Parse("2006-01-02", filter.EndDate); err == nil {
			q = q.Where("date < ?", end.AddDate(0, 0, 1))
		}
	}
	if filter.Product != "" {
		q = q.Where("EXISTS (SELECT 1 FROM sale_items WHERE sale_items.sale_id = sales.id AND sale_items.product = ?)", filter.Product)
	}
	if filter.Worker != "" {
		q = q.Where("worker_name = ?", filter.Worker)
	}
	if filter.PaymentMethod != "" {
		q = q.Where("payment_method = ?", filter.PaymentMethod)
	}
	return q
}

func (r *saleRepo) ListRange(ctx context.Context, start, end time.Time, worker string) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.WithContext(ctx).Preload("Items").
		Where("date >= ? AND date < ?", start, end)
	if worker != "" {
		q = q.Where("worker_name = ?", worker)
	}
	err := q.Order("date DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) SummarizeRange(ctx context.Context, start, end time.Time, worker string) (PaymentSummary, error) {
	var row struct {
		Total decimal.Decimal
		Cash  decimal.Decimal
		Momo  decimal.Decimal
		Count int64
	}
	q := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select(`COALESCE(SUM(grand_total), 0) AS total,
			COALESCE(SUM(CASE WHEN payment_method = 'Cash' THEN grand_total ELSE 0 END), 0) AS cash,
			COALESCE(SUM(CASE WHEN payment_method = 'MoMo' THEN grand_total ELSE 0 END), 0) AS momo,
			COUNT(*) AS count`).
		Where("date >= ? AND date < ?", start, end)
	if worker != "" {
		q = q.Where("worker_name = ?", worker)
	}
	if err := q.Scan(&row).Error; err != nil {
		return PaymentSummary{}, err
	}
	return PaymentSummary{Total: row.Total, Cash: row.Cash, Momo: row.Momo, Count: row.Count}, nil
}

func (r *saleRepo) ProductBreakdown(ctx context.Context, start, end time.Time, worker string) ([]BreakdownRow, error) {
	var rows []BreakdownRow
	q := r.db.WithContext(ctx).
		Table("sale_items").
		Select("sale_items.product, sale_items.size, SUM(sale_items.quantity) AS quantity, COALESCE(SUM(sale_items.total), 0) AS total").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.date >= ? AND sales.date < ?", start, end)
	if worker != "" {
		q = q.Where("sales.worker_name = ?", worker)
	}
	err := q.Group("sale_items.product, sale_items.size").
		Order("quantity DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *saleRepo) TopProducts(ctx context.Context, limit int) ([]TopProductRow, error) {
	var rows []TopProductRow
	err := r.db.WithContext(ctx).
		Table("sale_items").
		Select("product, size, SUM(quantity) AS quantity").
		Group("product, size").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *saleRepo) ListLegacy(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM sale_items WHERE sale_items.sale_id = sales.id)").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) SaveMigrated(ctx context.Context, s *model.Sale, item *model.SaleItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return tx.Model(&model.Sale{}).Where("id = ?", s.ID).Updates(map[string]interface{}{
			"customer_name":  s.CustomerName,
			"customer_phone": s.CustomerPhone,
			"grand_total":    s.GrandTotal,
		}).Error
	})
}
