package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// KPI is a labelled headline figure.
type KPI struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DailySales is the sales total for one calendar day.
type DailySales struct {
	Day   string          `json:"day"`
	Value decimal.Decimal `json:"value"`
}

// ProductSales aggregates sold quantities for one product.
type ProductSales struct {
	ProductID    string          `json:"productId"`
	Name         string          `json:"name"`
	ImageURL     string          `json:"imageUrl"`
	SupplierName string          `json:"supplierName"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"qty"`
	Revenue      decimal.Decimal `json:"total"`
	OrderCount   int             `json:"orderCount"`
	OutOfStock   bool            `json:"outOfStock"`
	Published    bool            `json:"published"`
}

// UnitPrice returns the average realised price per unit.
func (p ProductSales) UnitPrice() decimal.Decimal {
	if p.Quantity == 0 {
		return decimal.Zero
	}
	return p.Revenue.Div(decimal.NewFromInt(int64(p.Quantity))).Round(2)
}

// SalesSummary holds order-level totals for a period.
type SalesSummary struct {
	TotalSales decimal.Decimal `json:"totalSales"`
	OrderCount int             `json:"orderCount"`
	ItemsSold  int             `json:"itemsSold"`
}

// TopProduct is one row of the top products table.
type TopProduct struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

// TopProductsTotals compares the top products with all products.
type TopProductsTotals struct {
	TotalTopQty   int             `json:"totalTopQty"`
	TotalTopSales decimal.Decimal `json:"totalTopSales"`
	TotalAllQty   int             `json:"totalAllQty"`
	TotalAllSales decimal.Decimal `json:"totalAllSales"`
	Remaining     decimal.Decimal `json:"remaining"`
}

// SalesReport is the dashboard sales report.
type SalesReport struct {
	From              time.Time         `json:"from"`
	To                time.Time         `json:"to"`
	KPIs              []KPI             `json:"kpis"`
	SalesData         []DailySales      `json:"salesData"`
	TopProducts       []TopProduct      `json:"topProducts"`
	TopProductsTotals TopProductsTotals `json:"topProductsTotals"`
}

// ProductPerformanceReport ranks products by sales in a period.
type ProductPerformanceReport struct {
	From     time.Time      `json:"from"`
	To       time.Time      `json:"to"`
	Products []ProductSales `json:"products"`
	KPIs     []KPI          `json:"kpis"`
}

// InventoryRow is one product in the inventory report.
type InventoryRow struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	OutOfStock   bool            `json:"outOfStock"`
	SupplierName string          `json:"supplierName"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// DriverOrdersReport is a page of one driver's orders.
type DriverOrdersReport struct {
	DriverID   string  `json:"driverId"`
	Orders     []Order `json:"orders"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalCount int     `json:"totalCount"`
	TotalPages int     `json:"totalPages"`
}
