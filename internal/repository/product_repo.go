package repository

import (
	"context"

	"github.com/shemaparfait19/centurysoapv2/internal/dto"
	"github.com/shemaparfait19/centurysoapv2/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LowStockRow is one (product, size) pair whose closing stock fell under the
// alert threshold.
type LowStockRow struct {
	Product string
	Size    string
	Stock   int
}

// ProductRepository defines the data access contract for the catalog.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByName(ctx context.Context, name string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	CountSizes(ctx context.Context) (int64, error)
	ListLowStock(ctx context.Context, threshold int) ([]LowStockRow, error)

	// Used inside the sale transaction — callers must pass the tx instance.
	// DecrementStockTx applies the conditional atomic decrement: it only
	// fires when closing_stock >= qty and reports whether a row was hit.
	DecrementStockTx(tx *gorm.DB, sizeID uuid.UUID, qty int) (bool, error)
	// RestoreStockTx adds qty back by product/size snapshot. A false return
	// means the product or size no longer exists (renamed or deleted).
	RestoreStockTx(tx *gorm.DB, product, size string, qty int) (bool, error)
	// FindSizeClosingStock reads the current closing stock of one size.
	FindSizeClosingStock(ctx context.Context, sizeID uuid.UUID) (int, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Sizes").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByName(ctx context.Context, name string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Sizes").Where("name = ?", name).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).Preload("Sizes").Order("name ASC")
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	err := q.Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	// Save the product row and its size rows; sizes removed by the caller
	// are deleted so the stored set matches the model exactly.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(p).Error; err != nil {
			return err
		}
		keep := make([]uuid.UUID, 0, len(p.Sizes))
		for _, s := range p.Sizes {
			keep = append(keep, s.ID)
		}
		q := tx.Where("product_id = ?", p.ID)
		if len(keep) > 0 {
			q = q.Where("id NOT IN ?", keep)
		}
		return q.Delete(&model.ProductSize{}).Error
	})
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Select("Sizes").Delete(&model.Product{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

func (r *productRepo) CountSizes(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ProductSize{}).Count(&n).Error
	return n, err
}

func (r *productRepo) ListLowStock(ctx context.Context, threshold int) ([]LowStockRow, error) {
	var rows []LowStockRow
	err := r.db.WithContext(ctx).
		Table("product_sizes").
		Select("products.name AS product, product_sizes.size AS size, product_sizes.closing_stock AS stock").
		Joins("JOIN products ON products.id = product_sizes.product_id").
		Where("product_sizes.closing_stock < ?", threshold).
		Order("product_sizes.closing_stock ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *productRepo) DecrementStockTx(tx *gorm.DB, sizeID uuid.UUID, qty int) (bool, error) {
	res := tx.Model(&model.ProductSize{}).
		Where("id = ? AND closing_stock >= ?", sizeID, qty).
		Updates(map[string]interface{}{
			"stock_sold":    gorm.Expr("stock_sold + ?", qty),
			"closing_stock": gorm.Expr("closing_stock - ?", qty),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *productRepo) RestoreStockTx(tx *gorm.DB, product, size string, qty int) (bool, error) {
	res := tx.Model(&model.ProductSize{}).
		Where("size = ? AND product_id = (SELECT id FROM products WHERE name = ?)", size, product).
		Updates(map[string]interface{}{
			"stock_sold":    gorm.Expr("stock_sold - ?", qty),
			"closing_stock": gorm.Expr("closing_stock + ?", qty),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *productRepo) FindSizeClosingStock(ctx context.Context, sizeID uuid.UUID) (int, error) {
	var s model.ProductSize
	if err := r.db.WithContext(ctx).Select("closing_stock").First(&s, "id = ?", sizeID).Error; err != nil {
		return 0, err
	}
	return s.ClosingStock, nil
}

func (r *productRepo) DB() *gorm.DB { return r.db }
