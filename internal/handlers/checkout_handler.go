package handlers

import (
	"net/http"

	"go-pos-store/internal/auth"
	"go-pos-store/internal/checkout"
	"go-pos-store/internal/middleware"
	"go-pos-store/internal/store"

	"github.com/gin-gonic/gin"
)

// CheckoutHandler drives the cashier sale flow.
type CheckoutHandler struct {
	checkout *checkout.Service
	sales    *store.SalesStore
}

func NewCheckoutHandler(svc *checkout.Service, sales *store.SalesStore) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc, sales: sales}
}

type saleRequest struct {
	CustomerName  string              `json:"customer_name" binding:"required"`
	PaymentMethod string              `json:"payment_method"`
	Items         []checkout.CartItem `json:"items" binding:"required"`
}

// actorFromSession builds the checkout actor from the session claims.
// Admin sessions have no counter bound, so checkout is cashier-only.
func actorFromSession(c *gin.Context) (checkout.Actor, bool) {
	claims := middleware.SessionClaims(c)
	if claims == nil || claims.Role != auth.RoleCashier || claims.CounterID == 0 {
		return checkout.Actor{}, false
	}
	return checkout.Actor{
		CounterID:   claims.CounterID,
		CashierID:   claims.CashierID,
		CashierName: claims.CashierName,
	}, true
}

// ProcessSale completes the sale: ledger write and stock decrements in
// one transaction, receipt back to the terminal.
func (h *CheckoutHandler) ProcessSale(c *gin.Context) {
	actor, ok := actorFromSession(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Checkout requires a counter session"})
		return
	}

	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	receipt, err := h.checkout.CompleteSale(actor, req.CustomerName, req.PaymentMethod, req.Items)
	if err != nil {
		fail(c, "complete sale", err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

type cartCheckRequest struct {
	Items []checkout.CartItem `json:"items" binding:"required"`
}

// ValidateCart is the pre-commit stock check the cart screen calls as
// the operator adds lines. Advisory only; the sale transaction re-checks.
func (h *CheckoutHandler) ValidateCart(c *gin.Context) {
	var req cartCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.checkout.CheckStock(req.Items); err != nil {
		fail(c, "validate cart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetReceipt rebuilds the printable receipt for a recorded sale.
func (h *CheckoutHandler) GetReceipt(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale ID"})
		return
	}

	receipt, err := h.checkout.ReceiptForSale(id)
	if err != nil {
		fail(c, "load receipt", err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}
