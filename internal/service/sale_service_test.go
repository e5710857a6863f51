package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shemaparfait19/centurysoapv2/internal/dto"
	"github.com/shemaparfait19/centurysoapv2/internal/model"
	"github.com/shemaparfait19/centurysoapv2/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedProduct(t *testing.T, repo *stubProductRepo, name string, sizes map[string]int) *model.Product {
	t.Helper()
	p := &model.Product{Name: name}
	for label, stock := range sizes {
		p.Sizes = append(p.Sizes, model.ProductSize{
			Size:         label,
			Unit:         "Bottles",
			OpeningStock: stock,
			ClosingStock: stock,
		})
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func newSaleFixture() (service.SaleService, *stubSaleRepo, *stubProductRepo, *stubCustomerRepo) {
	saleRepo := newStubSaleRepo()
	productRepo := newStubProductRepo()
	customerRepo := newStubCustomerRepo()
	customerSvc := service.NewCustomerService(customerRepo)
	svc := service.NewSaleService(saleRepo, productRepo, customerSvc, nil, 10)
	return svc, saleRepo, productRepo, customerRepo
}

func saleRequest(items ...dto.SaleItemRequest) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		Customer:      dto.SaleCustomerRequest{Name: "Alice Mukamana", Phone: "0788000001"},
		WorkerName:    "Jean",
		Items:         items,
		PaymentMethod: model.PaymentCash,
	}
}

func TestCreateSale_DecrementsStockAndComputesTotals(t *testing.T) {
	svc, _, productRepo, customerRepo := newSaleFixture()
	p := seedProduct(t, productRepo, "Century Handwash", map[string]int{"500ml": 50})

	resp, err := svc.Create(context.Background(), saleRequest(dto.SaleItemRequest{
		Product:   "Century Handwash",
		Size:      "500ml",
		Quantity:  3,
		UnitPrice: decimal.NewFromInt(1500),
	}))
	require.NoError(t, err)

	assert.True(t, resp.GrandTotal.Equal(decimal.NewFromInt(4500)))
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].Total.Equal(decimal.NewFromInt(4500)))

	size := p.Sizes[0]
	assert.Equal(t, 47, size.ClosingStock)
	assert.Equal(t, 3, size.StockSold)

	// The customer was upserted into the directory and snapshotted.
	c, err := customerRepo.FindByPhone(context.Background(), "0788000001")
	require.NoError(t, err)
	assert.Equal(t, "Alice Mukamana", c.Name)
	assert.Equal(t, "Alice Mukamana", resp.Customer.Name)
	require.NotNil(t, resp.Customer.ID)
}

func TestCreateSale_GrandTotalSumsAllItems(t *testing.T) {
	svc, _, productRepo, _ := newSaleFixture()
	seedProduct(t, productRepo, "Century Handwash", map[string]int{"500ml": 50, "5L": 20})

	resp, err := svc.Create(context.Background(), saleRequest(
		dto.SaleItemRequest{Product: "Century Handwash", Size: "500ml", Quantity: 2, UnitPrice: decimal.NewFromInt(1500)},
		dto.SaleItemRequest{Product: "Century Handwash", Size: "5L", Quantity: 1, UnitPrice: decimal.NewFromInt(9000)},
	))
	require.NoError(t, err)
	assert.True(t, resp.GrandTotal.Equal(decimal.NewFromInt(12000)))
}

func TestCreateSale_InsufficientStock(t *testing.T) {
	svc, saleRepo, productRepo, _ := newSaleFixture()
	p := seedProduct(t, productRepo, "Century Forte Bleach", map[string]int{"750ml": 2})

	_, err := svc.Create(context.Background(), saleRequest(dto.SaleItemRequest{
		Product:   "Century Forte Bleach",
		Size:      "750ml",
		Quantity:  5,
		UnitPrice: decimal.NewFromInt(2000),
	}))
	require.Error(t, err)
	assert.True(t, service.IsInsufficientStock(err))

	var stockErr *service.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)

	// Nothing was written.
	assert.Equal(t, 2, p.Sizes[0].ClosingStock)
	assert.Empty(t, saleRepo.sales)
}

func TestCreateSale_AllOrNothing(t *testing.T) {
	svc, saleRepo, productRepo, _ := newSaleFixture()
	handwash := seedProduct(t, productRepo, "Century Handwash", map[string]int{"500ml": 50})
	bleach := seedProduct(t, productRepo, "Century Forte Bleach", map[string]int{"750ml": 1})

	// First line is fine, second exceeds stock. The whole sale must fail
	// with no counter touched.
	_, err := svc.Create(context.Background(), saleRequest(
		dto.SaleItemRequest{Product: "Century Handwash", Size: "500ml", Quantity: 10, UnitPrice: decimal.NewFromInt(1500)},
		dto.SaleItemRequest{Product: "Century Forte Bleach", Size: "750ml", Quantity: 3, UnitPrice: decimal.NewFromInt(2000)},
	))
	require.Error(t, err)
	assert.True(t, service.IsInsufficientStock(err))

	assert.Equal(t, 50, handwash.Sizes[0].ClosingStock)
	assert.Equal(t, 1, bleach.Sizes[0].ClosingStock)
	assert.Empty(t, saleRepo.sales)
}

// drainingProductRepo shrinks a size's stock right before the first decrement,
// standing in for a concurrent sale that lands between validation and commit.
type drainingProductRepo struct {
	*stubProductRepo
	drainTo uuid.UUID
	leave   int
	drained bool
}

func (r *drainingProductRepo) DecrementStockTx(tx *gorm.DB, sizeID uuid.UUID, qty int) (bool, error) {
	if !r.drained {
		r.drained = true
		for _, p := range r.products {
			for i := range p.Sizes {
				if p.Sizes[i].ID == r.drainTo {
					sold := p.Sizes[i].ClosingStock - r.leave
					p.Sizes[i].StockSold += sold
					p.Sizes[i].ClosingStock = r.leave
				}
			}
		}
	}
	return r.stubProductRepo.DecrementStockTx(tx, sizeID, qty)
}

func TestCreateSale_RaceLossReportsRemainingStock(t *testing.T) {
	saleRepo := newStubSaleRepo()
	base := newStubProductRepo()
	p := seedProduct(t, base, "Century Handwash", map[string]int{"500ml": 5})
	productRepo := &drainingProductRepo{stubProductRepo: base, drainTo: p.Sizes[0].ID, leave: 1}
	customerSvc := service.NewCustomerService(newStubCustomerRepo())
	svc := service.NewSaleService(saleRepo, productRepo, customerSvc, nil, 10)

	// 5 units pass validation, but a concurrent sale leaves only 1 by the
	// time the decrement runs.
	_, err := svc.Create(context.Background(), saleRequest(dto.SaleItemRequest{
		Product: "Century Handwash", Size: "500ml", Quantity: 4, UnitPrice: decimal.NewFromInt(1500),
	}))
	require.Error(t, err)

	var stockErr *service.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 4, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)
}

func TestCreateSale_UnknownProduct(t *testing.T) {
	svc, _, _, _ := newSaleFixture()

	_, err := svc.Create(context.Background(), saleRequest(dto.SaleItemRequest{
		Product:   "No Such Soap",
		Size:      "500ml",
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(1000),
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestCreateSale_UnknownSize(t *testing.T) {
	svc, _, productRepo, _ := newSaleFixture()
	seedProduct(t, productRepo, "Century Handwash", map[string]int{"500ml": 50})

	_, err := svc.Create(context.Background(), saleRequest(dto.SaleItemRequest{
		Product:   "Century Handwash",
		Size:      "10L",
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(1000),
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrSizeNotFound)
}

func TestCreateSale_RejectsInvalidDate(t *testing.T) {
	svc, _, productRepo, _ := newSaleFixture()
	seedProduct(t, productRepo, "Century Handwash", map[string]int{"500ml": 50})

	req := saleRequest(dto.SaleItemRequest{
		Product: "Century Handwash", Size: "500ml", Quantity: 1, UnitPrice: decimal.NewFromInt(1000),
	})
	req.Date = "yesterday"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
}

func TestDeleteSale_RestoresStock(t *testing.T) {
	svc, saleRepo, productRepo, _ := newSaleFixture()
	p := seedProduct(t, productRepo, "Century Tiles Cleaner", map[string]int{"5L": 30})

	resp, err := svc.Create(context.Background(), saleRequest(dto.SaleItemRequest{
		Product: "Century Tiles Cleaner", Size: "5L", Quantity: 4, UnitPrice: decimal.NewFromInt(8000),
	}))
	require.NoError(t, err)
	require.Equal(t, 26, p.Sizes[0].ClosingStock)

	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), id))

	assert.Equal(t, 30, p.Sizes[0].ClosingStock)
	assert.Equal(t, 0, p.Sizes[0].StockSold)
	assert.Empty(t, saleRepo.sales)
}

func TestDeleteSale_MissingProductStillDeletes(t *testing.T) {
	svc, saleRepo, productRepo, _ := newSaleFixture()
	p := seedProduct(t, productRepo, "Century Toilet Cleaner", map[string]int{"750ml": 10})

	resp, err := svc.Create(context.Background(), saleRequest(dto.SaleItemRequest{
		Product: "Century Toilet Cleaner", Size: "750ml", Quantity: 2, UnitPrice: decimal.NewFromInt(2500),
	}))
	require.NoError(t, err)

	// Product removed from the catalog after the sale.
	require.NoError(t, productRepo.Delete(context.Background(), p.ID))

	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), id))
	assert.Empty(t, saleRepo.sales)
}

func TestDeleteSale_NotFound(t *testing.T) {
	svc, _, _, _ := newSaleFixture()
	err := svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestGetSale_RoundTrip(t *testing.T) {
	svc, _, productRepo, _ := newSaleFixture()
	seedProduct(t, productRepo, "Century Handwash", map[string]int{"500ml": 50})

	created, err := svc.Create(context.Background(), saleRequest(dto.SaleItemRequest{
		Product: "Century Handwash", Size: "500ml", Quantity: 1, UnitPrice: decimal.NewFromInt(1500),
	}))
	require.NoError(t, err)

	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	got, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Customer.Phone, got.Customer.Phone)
	assert.True(t, created.GrandTotal.Equal(got.GrandTotal))
}

func TestListSales_Pagination(t *testing.T) {
	svc, _, productRepo, _ := newSaleFixture()
	seedProduct(t, productRepo, "Century Handwash", map[string]int{"500ml": 500})

	for i := 0; i < 5; i++ {
		_, err := svc.Create(context.Background(), saleRequest(dto.SaleItemRequest{
			Product: "Century Handwash", Size: "500ml", Quantity: 1, UnitPrice: decimal.NewFromInt(1500),
		}))
		require.NoError(t, err)
	}

	resp, err := svc.List(context.Background(), dto.SaleFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Sales, 2)
	assert.Equal(t, int64(5), resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.Pages)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(7500)))
}
