package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultReportDays   = 30
	topProductsLimit    = 5
	driverOrdersPerPage = 10
)

// reportService implements ReportService.
type reportService struct {
	reports repository.ReportRepository
	orders  repository.OrderRepository
	logger  zerolog.Logger
	now     func() time.Time
}

// NewReportService creates a new report service.
func NewReportService(
	reports repository.ReportRepository,
	orders repository.OrderRepository,
	logger zerolog.Logger,
) ReportService {
	return &reportService{
		reports: reports,
		orders:  orders,
		logger:  logger.With().Str("service", "report").Logger(),
		now:     time.Now,
	}
}

// window resolves the reporting period. A zero to means the end of today
// and a zero from means thirty days before to.
func (s *reportService) window(from, to time.Time) (time.Time, time.Time, error) {
	if to.IsZero() {
		now := s.now().UTC()
		to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -defaultReportDays)
	}
	if !from.Before(to) {
		return from, to, model.NewDomainError(model.ErrCodeValidation, "report start must be before its end")
	}
	return from, to, nil
}

// Sales builds the sales dashboard for the period.
func (s *reportService) Sales(ctx context.Context, from, to time.Time, showAll bool) (*model.SalesReport, error) {
	from, to, err := s.window(from, to)
	if err != nil {
		return nil, err
	}

	summary, err := s.reports.SalesSummary(ctx, from, to)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load sales summary")
		return nil, fmt.Errorf("failed to load sales summary: %w", err)
	}

	daily, err := s.reports.DailySales(ctx, from, to)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load daily sales")
		return nil, fmt.Errorf("failed to load daily sales: %w", err)
	}

	sales, err := s.reports.ProductSales(ctx, from, to)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load product sales")
		return nil, fmt.Errorf("failed to load product sales: %w", err)
	}

	avg := decimal.Zero
	if summary.OrderCount > 0 {
		avg = summary.TotalSales.Div(decimal.NewFromInt(int64(summary.OrderCount))).Round(2)
	}

	top := sales
	if !showAll && len(top) > topProductsLimit {
		top = top[:topProductsLimit]
	}

	var totals model.TopProductsTotals
	topProducts := make([]model.TopProduct, len(top))
	for i, p := range top {
		topProducts[i] = model.TopProduct{
			Name:      p.Name,
			Quantity:  p.Quantity,
			UnitPrice: p.UnitPrice(),
			Total:     p.Revenue,
		}
		totals.TotalTopQty += p.Quantity
		totals.TotalTopSales = totals.TotalTopSales.Add(p.Revenue)
	}
	for _, p := range sales {
		totals.TotalAllQty += p.Quantity
		totals.TotalAllSales = totals.TotalAllSales.Add(p.Revenue)
	}
	totals.Remaining = totals.TotalAllSales.Sub(totals.TotalTopSales)

	if daily == nil {
		daily = []model.DailySales{}
	}

	return &model.SalesReport{
		From: from,
		To:   to,
		KPIs: []model.KPI{
			{Label: "Total sales", Value: summary.TotalSales.StringFixed(2)},
			{Label: "Orders", Value: strconv.Itoa(summary.OrderCount)},
			{Label: "Average order value", Value: avg.StringFixed(2)},
			{Label: "Items sold", Value: strconv.Itoa(summary.ItemsSold)},
		},
		SalesData:         daily,
		TopProducts:       topProducts,
		TopProductsTotals: totals,
	}, nil
}

// ProductPerformance ranks every sold product in the period.
func (s *reportService) ProductPerformance(ctx context.Context, from, to time.Time) (*model.ProductPerformanceReport, error) {
	from, to, err := s.window(from, to)
	if err != nil {
		return nil, err
	}

	sales, err := s.reports.ProductSales(ctx, from, to)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load product sales")
		return nil, fmt.Errorf("failed to load product sales: %w", err)
	}
	if sales == nil {
		sales = []model.ProductSales{}
	}

	revenue := decimal.Zero
	for _, p := range sales {
		revenue = revenue.Add(p.Revenue)
	}
	best := "-"
	if len(sales) > 0 {
		best = sales[0].Name
	}

	return &model.ProductPerformanceReport{
		From:     from,
		To:       to,
		Products: sales,
		KPIs: []model.KPI{
			{Label: "Products sold", Value: strconv.Itoa(len(sales))},
			{Label: "Total revenue", Value: revenue.StringFixed(2)},
			{Label: "Best seller", Value: best},
		},
	}, nil
}

func (s *reportService) Inventory(ctx context.Context, outOfStockOnly bool) ([]model.InventoryRow, error) {
	rows, err := s.reports.Inventory(ctx, outOfStockOnly)
	if err != nil {
		s.logger.Error().Err(err).Bool("out_of_stock_only", outOfStockOnly).Msg("failed to load inventory")
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	if rows == nil {
		rows = []model.InventoryRow{}
	}
	return rows, nil
}

// DriverOrders pages through the orders assigned to a driver.
func (s *reportService) DriverOrders(ctx context.Context, driverID string, page int) (*model.DriverOrdersReport, error) {
	driverID = strings.TrimSpace(driverID)
	if driverID == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "driver id is required")
	}
	page = clampPage(page)

	total, err := s.orders.CountByDriver(ctx, driverID)
	if err != nil {
		s.logger.Error().Err(err).Str("driver_id", driverID).Msg("failed to count driver orders")
		return nil, fmt.Errorf("failed to count driver orders: %w", err)
	}

	orders, err := s.orders.ListByDriver(ctx, driverID, driverOrdersPerPage, (page-1)*driverOrdersPerPage)
	if err != nil {
		s.logger.Error().Err(err).Str("driver_id", driverID).Msg("failed to list driver orders")
		return nil, fmt.Errorf("failed to list driver orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}

	totalPages := (total + driverOrdersPerPage - 1) / driverOrdersPerPage
	if totalPages < 1 {
		totalPages = 1
	}

	return &model.DriverOrdersReport{
		DriverID:   driverID,
		Orders:     orders,
		Page:       page,
		PageSize:   driverOrdersPerPage,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}
