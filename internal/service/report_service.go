package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shemaparfait19/centurysoapv2/internal/dto"
	"github.com/shemaparfait19/centurysoapv2/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	topProductsLimit  = 5
	dashboardCacheKey = "reports:dashboard"
	dashboardCacheTTL = 30 * time.Second
)

// ReportService derives dashboard and report aggregates from the sales
// ledger. Read-only: every request recomputes from the stored sales.
type ReportService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	Daily(ctx context.Context, filter dto.DailyReportFilter) (*dto.DailyReportResponse, error)
	Custom(ctx context.Context, filter dto.CustomReportFilter) (*dto.CustomReportResponse, error)
}

type reportService struct {
	sales             repository.SaleRepository
	products          repository.ProductRepository
	rdb               *redis.Client // nil disables caching (unit tests)
	lowStockThreshold int
}

func NewReportService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	rdb *redis.Client,
	lowStockThreshold int,
) ReportService {
	return &reportService{
		sales:             sales,
		products:          products,
		rdb:               rdb,
		lowStockThreshold: lowStockThreshold,
	}
}

// Dashboard aggregates today's sales, the all-time best sellers, and the
// low-stock alert list. Results are cached briefly in Redis: the dashboard
// is polled by every open browser tab and tolerates ~30s staleness.
func (s *reportService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var resp dto.DashboardResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	start, end := dayBounds(time.Now())
	summary, err := s.sales.SummarizeRange(ctx, start, end, "")
	if err != nil {
		return nil, err
	}

	top, err := s.sales.TopProducts(ctx, topProductsLimit)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.products.ListLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, err
	}

	totalSizes, err := s.products.CountSizes(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		TodayTotalSales: summary.Total,
		TodayCashSales:  summary.Cash,
		TodayMoMoSales:  summary.Momo,
		TotalSalesToday: summary.Count,
		TotalProducts:   totalSizes,
		TotalStockValue: decimal.Zero,
		TopProducts:     make([]dto.TopProduct, 0, len(top)),
		LowStockAlerts:  make([]dto.LowStockAlert, 0, len(lowStock)),
	}
	for _, t := range top {
		resp.TopProducts = append(resp.TopProducts, dto.TopProduct{
			Product:  t.Product,
			Size:     t.Size,
			Quantity: t.Quantity,
		})
	}
	for _, l := range lowStock {
		resp.LowStockAlerts = append(resp.LowStockAlerts, dto.LowStockAlert{
			Product: l.Product,
			Size:    l.Size,
			Stock:   l.Stock,
		})
	}

	if s.rdb != nil {
		if b, err := json.Marshal(resp); err == nil {
			_ = s.rdb.Set(ctx, dashboardCacheKey, b, dashboardCacheTTL).Err()
		}
	}
	return resp, nil
}

func (s *reportService) Daily(ctx context.Context, filter dto.DailyReportFilter) (*dto.DailyReportResponse, error) {
	day := time.Now()
	if filter.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", filter.Date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", filter.Date)
		}
		day = parsed
	}
	start, end := dayBounds(day)

	summary, err := s.sales.SummarizeRange(ctx, start, end, "")
	if err != nil {
		return nil, err
	}
	sales, err := s.sales.ListRange(ctx, start, end, "")
	if err != nil {
		return nil, err
	}
	breakdown, err := s.sales.ProductBreakdown(ctx, start, end, "")
	if err != nil {
		return nil, err
	}

	resp := &dto.DailyReportResponse{
		Date:             start.Format("2006-01-02"),
		TotalSales:       summary.Total,
		CashSales:        summary.Cash,
		MomoSales:        summary.Momo,
		TransactionCount: summary.Count,
		Sales:            make([]dto.SaleResponse, 0, len(sales)),
		ProductBreakdown: breakdownToRows(breakdown),
	}
	for i := range sales {
		resp.Sales = append(resp.Sales, *saleToResponse(&sales[i]))
	}
	return resp, nil
}

func (s *reportService) Custom(ctx context.Context, filter dto.CustomReportFilter) (*dto.CustomReportResponse, error) {
	start, err := time.ParseInLocation("2006-01-02", filter.StartDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate %q", filter.StartDate)
	}
	endDay, err := time.ParseInLocation("2006-01-02", filter.EndDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid endDate %q", filter.EndDate)
	}
	// End date is inclusive: cover the whole last day.
	end := endDay.AddDate(0, 0, 1)

	worker := filter.Worker
	if worker == "all" {
		worker = ""
	}

	summary, err := s.sales.SummarizeRange(ctx, start, end, worker)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.sales.ProductBreakdown(ctx, start, end, worker)
	if err != nil {
		return nil, err
	}
	sales, err := s.sales.ListRange(ctx, start, end, worker)
	if err != nil {
		return nil, err
	}

	resp := &dto.CustomReportResponse{
		Summary: dto.ReportSummary{
			TotalSales: summary.Total,
			CashSales:  summary.Cash,
			MomoSales:  summary.Momo,
			Count:      summary.Count,
		},
		Products: breakdownToRows(breakdown),
		Sales:    make([]dto.SaleResponse, 0, len(sales)),
	}
	for i := range sales {
		resp.Sales = append(resp.Sales, *saleToResponse(&sales[i]))
	}
	return resp, nil
}

// dayBounds returns the half-open [midnight, next midnight) range containing t
// in local time.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

func breakdownToRows(rows []repository.BreakdownRow) []dto.ProductBreakdownRow {
	out := make([]dto.ProductBreakdownRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ProductBreakdownRow{
			Product:  r.Product,
			Size:     r.Size,
			Quantity: r.Quantity,
			Total:    r.Total,
		})
	}
	return out
}
