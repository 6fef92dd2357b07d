package handlers

import (
	"net/http"
	"time"

	"go-pos-store/internal/reports"
	"go-pos-store/internal/store"

	"github.com/gin-gonic/gin"
)

// ReportsHandler serves the admin reporting endpoints.
type ReportsHandler struct {
	reports *reports.Service
	sales   *store.SalesStore
}

func NewReportsHandler(svc *reports.Service, sales *store.SalesStore) *ReportsHandler {
	return &ReportsHandler{reports: svc, sales: sales}
}

// reportRange parses start_date/end_date query params, defaulting to
// all time.
func reportRange(c *gin.Context) (time.Time, time.Time, bool) {
	start := time.Time{}
	end := time.Now()

	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return start, end, false
		}
		start = t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return start, end, false
		}
		end = t.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	}
	return start, end, true
}

func (h *ReportsHandler) GetSalesReport(c *gin.Context) {
	start, end, ok := reportRange(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dates must be YYYY-MM-DD"})
		return
	}

	summary, err := h.reports.SalesSummary(start, end)
	if err != nil {
		fail(c, "sales report", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ReportsHandler) GetStockValuation(c *gin.Context) {
	valuation, err := h.reports.StockValuation()
	if err != nil {
		fail(c, "stock valuation", err)
		return
	}
	c.JSON(http.StatusOK, valuation)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportSales streams the filtered sales history as a spreadsheet.
func (h *ReportsHandler) ExportSales(c *gin.Context) {
	filter := store.SalesFilter{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
	sales, err := h.sales.GetSalesHistory(&filter)
	if err != nil {
		fail(c, "export sales", err)
		return
	}

	f, err := h.reports.ExportSalesXLSX(sales)
	if err != nil {
		fail(c, "export sales", err)
		return
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="sales.xlsx"`)
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

// ExportValuation streams the stock valuation as a spreadsheet.
func (h *ReportsHandler) ExportValuation(c *gin.Context) {
	valuation, err := h.reports.StockValuation()
	if err != nil {
		fail(c, "export valuation", err)
		return
	}

	f, err := h.reports.ExportValuationXLSX(valuation)
	if err != nil {
		fail(c, "export valuation", err)
		return
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="valuation.xlsx"`)
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
