package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go-pos-store/internal/auth"
	"go-pos-store/internal/middleware"
	"go-pos-store/internal/store"

	"github.com/gin-gonic/gin"
)

// SalesHandler exposes the sales ledger read side.
type SalesHandler struct {
	sales *store.SalesStore
}

func NewSalesHandler(sales *store.SalesStore) *SalesHandler {
	return &SalesHandler{sales: sales}
}

// GetSalesHistory filters by start_date / end_date (YYYY-MM-DD),
// counter_id and cashier_id query parameters, newest first.
func (h *SalesHandler) GetSalesHistory(c *gin.Context) {
	filter := store.SalesFilter{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
	if v := c.Query("counter_id"); v != "" {
		id, _ := strconv.ParseUint(v, 10, 32)
		filter.CounterID = uint(id)
	}
	if v := c.Query("cashier_id"); v != "" {
		filter.CashierID, _ = strconv.Atoi(v)
	}

	sales, err := h.sales.GetSalesHistory(&filter)
	if err != nil {
		fail(c, "fetch sales history", err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

// GetSaleDetails returns the header joined with its line items.
func (h *SalesHandler) GetSaleDetails(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale ID"})
		return
	}

	sale, err := h.sales.GetSaleDetails(id)
	if err != nil {
		fail(c, "fetch sale details", err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// GetTodaysSales backs the terminal's polling view. A cashier session
// sees only its own sales; an admin session sees the whole day.
func (h *SalesHandler) GetTodaysSales(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	claims := middleware.SessionClaims(c)
	if claims != nil && claims.Role == auth.RoleCashier {
		c.JSON(http.StatusOK, h.sales.GetSalesByDateAndCashier(today, claims.CashierName))
		return
	}
	c.JSON(http.StatusOK, h.sales.GetSalesByDate(today))
}

// GetSalesByCashier lists the sales attributed to one cashier name.
func (h *SalesHandler) GetSalesByCashier(c *gin.Context) {
	name := c.Param("name")
	if date := c.Query("date"); date != "" {
		c.JSON(http.StatusOK, h.sales.GetSalesByDateAndCashier(date, name))
		return
	}
	c.JSON(http.StatusOK, h.sales.GetSalesByCashier(name))
}
