package dto

import "github.com/shopspring/decimal"

// ─── Dashboard ───────────────────────────────────────────────────────────────

type TopProduct struct {
	Product  string `json:"product"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

type LowStockAlert struct {
	Product string `json:"product"`
	Size    string `json:"size"`
	Stock   int    `json:"stock"`
}

type DashboardResponse struct {
	TodayTotalSales decimal.Decimal `json:"todayTotalSales"`
	TodayCashSales  decimal.Decimal `json:"todayCashSales"`
	TodayMoMoSales  decimal.Decimal `json:"todayMoMoSales"`
	TotalSalesToday int64           `json:"totalSalesToday"`
	TotalProducts   int64           `json:"totalProducts"`
	// TotalStockValue stays 0: the catalog carries no cost price to value
	// stock with. Kept in the payload for contract compatibility.
	TotalStockValue decimal.Decimal `json:"totalStockValue"`
	TopProducts     []TopProduct    `json:"topProducts"`
	LowStockAlerts  []LowStockAlert `json:"lowStockAlerts"`
}

// ─── Daily / custom range reports ────────────────────────────────────────────

type ProductBreakdownRow struct {
	Product  string          `json:"product"`
	Size     string          `json:"size"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

type DailyReportFilter struct {
	Date string `form:"date"` // YYYY-MM-DD; empty = today
}

type DailyReportResponse struct {
	Date             string                `json:"date"`
	TotalSales       decimal.Decimal       `json:"totalSales"`
	CashSales        decimal.Decimal       `json:"cashSales"`
	MomoSales        decimal.Decimal       `json:"momoSales"`
	TransactionCount int64                 `json:"transactionCount"`
	Sales            []SaleResponse        `json:"sales"`
	ProductBreakdown []ProductBreakdownRow `json:"productBreakdown"`
}

type CustomReportFilter struct {
	StartDate string `form:"startDate" validate:"required"`
	EndDate   string `form:"endDate"   validate:"required"`
	Worker    string `form:"worker"` // empty or "all" = every worker
}

type ReportSummary struct {
	TotalSales decimal.Decimal `json:"totalSales"`
	CashSales  decimal.Decimal `json:"cashSales"`
	MomoSales  decimal.Decimal `json:"momoSales"`
	Count      int64           `json:"count"`
}

type CustomReportResponse struct {
	Summary  ReportSummary         `json:"summary"`
	Products []ProductBreakdownRow `json:"products"`
	Sales    []SaleResponse        `json:"sales"`
}
