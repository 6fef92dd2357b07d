package handlers

import (
	"errors"
	"net/http"

	"go-pos-store/internal/auth"
	"go-pos-store/internal/config"
	"go-pos-store/internal/models"
	"go-pos-store/internal/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler signs operators in: either the fixed admin pair from
// configuration, or an active counter's cashier name (case-insensitive)
// with that counter's password. Both paths compare bcrypt hashes.
type AuthHandler struct {
	sales *store.SalesStore
}

func NewAuthHandler(sales *store.SalesStore) *AuthHandler {
	return &AuthHandler{sales: sales}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	DeviceID string `json:"device_id"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// Admin first: fixed credential pair, hash-compared.
	if input.Username == config.AdminUsername {
		if bcrypt.CompareHashAndPassword([]byte(config.AdminPasswordHash), []byte(input.Password)) == nil {
			token, err := auth.GenerateToken(auth.RoleAdmin, 0, 0, input.Username)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"token":    token,
				"role":     auth.RoleAdmin,
				"username": input.Username,
			})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	counter, err := h.sales.GetCounterByName(input.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		fail(c, "login", err)
		return
	}
	if counter.Status != models.CounterActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Counter is not active"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(counter.PasswordHash), []byte(input.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// Record which machine the counter signed in from.
	if input.DeviceID != "" && input.DeviceID != counter.DeviceID {
		if _, err := h.sales.UpdateCounter(counter.ID, map[string]interface{}{"device_id": input.DeviceID}); err != nil {
			fail(c, "login", err)
			return
		}
	}

	token, err := auth.GenerateToken(auth.RoleCashier, counter.ID, counter.CashierID, counter.CashierName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"role":       auth.RoleCashier,
		"username":   counter.CashierName,
		"counter_id": counter.ID,
	})
}
