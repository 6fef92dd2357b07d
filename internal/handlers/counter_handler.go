package handlers

import (
	"net/http"

	"go-pos-store/internal/store"

	"github.com/gin-gonic/gin"
)

// CounterHandler exposes counter administration. All routes are
// admin-only (enforced by the router).
type CounterHandler struct {
	sales *store.SalesStore
}

func NewCounterHandler(sales *store.SalesStore) *CounterHandler {
	return &CounterHandler{sales: sales}
}

func (h *CounterHandler) GetCounters(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"
	counters, err := h.sales.GetCounters(activeOnly)
	if err != nil {
		fail(c, "fetch counters", err)
		return
	}
	c.JSON(http.StatusOK, counters)
}

func (h *CounterHandler) AddCounter(c *gin.Context) {
	var input store.CounterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	id, err := h.sales.AddCounter(input)
	if err != nil {
		fail(c, "add counter", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *CounterHandler) UpdateCounter(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid counter ID"})
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ok, err := h.sales.UpdateCounter(id, updates)
	if err != nil {
		fail(c, "update counter", err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Counter not found or nothing to update"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Counter updated"})
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

func (h *CounterHandler) ResetPassword(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid counter ID"})
		return
	}

	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ok, err := h.sales.ResetCounterPassword(id, req.Password)
	if err != nil {
		fail(c, "reset password", err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Counter not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset"})
}

// DeleteCounter cascades: the counter's sale items, its sales, then the
// counter itself, all in one transaction inside the store.
func (h *CounterHandler) DeleteCounter(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid counter ID"})
		return
	}

	if err := h.sales.DeleteCounter(id); err != nil {
		fail(c, "delete counter", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Counter and its transactions deleted"})
}

// GetCounterTransactions lists the sales rung up on one counter.
func (h *CounterHandler) GetCounterTransactions(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid counter ID"})
		return
	}
	c.JSON(http.StatusOK, h.sales.GetTransactionsForCounter(id))
}
