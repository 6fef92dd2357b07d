package reports

import (
	"fmt"
	"sort"
	"time"

	"go-pos-store/internal/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Service answers the admin reporting questions: revenue over a range,
// best sellers, current stock valuation. Read-only.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// TopSeller is one row of the best-sellers table.
type TopSeller struct {
	ProductName string  `json:"product_name"`
	Sold        int     `json:"sold"`
	Revenue     float64 `json:"revenue"`
}

// Summary aggregates the sales ledger over a date range.
type Summary struct {
	TotalRevenue float64       `json:"total_revenue"`
	TotalOrders  int64         `json:"total_orders"`
	TopSelling   []TopSeller   `json:"top_selling"`
	RecentSales  []models.Sale `json:"recent_sales"`
}

// SalesSummary computes revenue, order count, the top five sellers and
// the ten most recent sales between start and end (inclusive).
func (s *Service) SalesSummary(start, end time.Time) (*Summary, error) {
	var summary Summary

	base := s.db.Model(&models.Sale{}).Where("sale_time BETWEEN ? AND ?", start, end)

	// COALESCE so an empty range reports 0 instead of NULL.
	err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&summary.TotalRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to calculate revenue: %w", err)
	}

	if err := base.Session(&gorm.Session{}).Count(&summary.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	// Grouped on the product_name snapshot rather than a join to
	// products, so archived products still show up in history.
	err = s.db.Table("sale_items").
		Select("sale_items.product_name, SUM(sale_items.quantity) as sold, SUM(sale_items.total_price) as revenue").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.sale_time BETWEEN ? AND ?", start, end).
		Group("sale_items.product_name").
		Order("sold DESC").
		Limit(5).
		Scan(&summary.TopSelling).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top sellers: %w", err)
	}

	err = s.db.Where("sale_time BETWEEN ? AND ?", start, end).
		Order("sale_time DESC").
		Limit(10).
		Find(&summary.RecentSales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent sales: %w", err)
	}

	return &summary, nil
}

// ValuationItem is one product row in the valuation report.
type ValuationItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	CostPrice float64 `json:"cost_price"`
	TotalCost float64 `json:"total_cost"`
}

// CategoryGroup is one category's table in the valuation report.
type CategoryGroup struct {
	CategoryName string          `json:"category_name"`
	Items        []ValuationItem `json:"items"`
	Subtotal     float64         `json:"subtotal"`
}

// Valuation is the full stock-valuation payload.
type Valuation struct {
	Categories []CategoryGroup `json:"categories"`
	GrandTotal float64         `json:"grand_total"`
}

// StockValuation prices the current physical inventory at manufacturing
// cost, grouped by category.
func (s *Service) StockValuation() (*Valuation, error) {
	var products []models.Product
	if err := s.db.Order("category, name").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}

	grouped := map[string]*CategoryGroup{}
	var valuation Valuation
	for _, p := range products {
		catName := p.Category
		if catName == "" {
			catName = "Uncategorized"
		}
		group, exists := grouped[catName]
		if !exists {
			group = &CategoryGroup{CategoryName: catName}
			grouped[catName] = group
		}

		itemTotal := float64(p.Quantity) * p.MfgPrice
		group.Items = append(group.Items, ValuationItem{
			Name:      p.Name,
			Quantity:  p.Quantity,
			CostPrice: p.MfgPrice,
			TotalCost: itemTotal,
		})
		group.Subtotal += itemTotal
		valuation.GrandTotal += itemTotal
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		valuation.Categories = append(valuation.Categories, *grouped[name])
	}
	return &valuation, nil
}

// ExportSalesXLSX renders sale headers into a spreadsheet.
func (s *Service) ExportSalesXLSX(sales []models.Sale) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"

	headers := []string{"Receipt", "Counter", "Cashier", "Customer", "Total", "Payment", "Time"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, sale := range sales {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sale.ReceiptID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), sale.CounterID)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), sale.CashierName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), sale.CustomerName)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), sale.TotalAmount)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), sale.PaymentMethod)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), sale.SaleTime.Format("2006-01-02 15:04:05"))
	}
	return f, nil
}

// ExportValuationXLSX renders the stock valuation into a spreadsheet,
// one section per category with subtotals and a grand total.
func (s *Service) ExportValuationXLSX(valuation *Valuation) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Category")
	f.SetCellValue(sheet, "B1", "Product")
	f.SetCellValue(sheet, "C1", "Quantity")
	f.SetCellValue(sheet, "D1", "Cost Price")
	f.SetCellValue(sheet, "E1", "Total Cost")

	row := 2
	for _, group := range valuation.Categories {
		for _, item := range group.Items {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), group.CategoryName)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.Name)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.Quantity)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.CostPrice)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), item.TotalCost)
			row++
		}
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), "Subtotal")
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), group.Subtotal)
		row++
	}
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), "Grand Total")
	f.SetCellValue(sheet, fmt.Sprintf("E%d", row), valuation.GrandTotal)
	return f, nil
}
