package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"go-pos-store/internal/store"

	"github.com/gin-gonic/gin"
)

// statusFor maps the store error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail reports a failed operation, naming the operation and the
// underlying reason so the UI can show it verbatim.
func fail(c *gin.Context, operation string, err error) {
	c.JSON(statusFor(err), gin.H{"error": fmt.Sprintf("%s: %v", operation, err)})
}
