package handlers

import (
	"net/http"
	"strconv"

	"go-pos-store/internal/store"

	"github.com/gin-gonic/gin"
)

// ProductHandler exposes the catalog store over HTTP.
type ProductHandler struct {
	catalog *store.CatalogStore
}

func NewProductHandler(catalog *store.CatalogStore) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// GetProducts lists products, narrowed by query parameters:
// category, company, status, q (substring search), and range_type
// ("price" or "quantity") with range_min/range_max.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	filter := store.ProductFilter{
		Category:    c.Query("category"),
		Company:     c.Query("company"),
		Status:      c.Query("status"),
		SearchQuery: c.Query("q"),
		RangeType:   c.Query("range_type"),
	}
	if v := c.Query("range_min"); v != "" {
		filter.RangeMin, _ = strconv.ParseFloat(v, 64)
	}
	if v := c.Query("range_max"); v != "" {
		filter.RangeMax, _ = strconv.ParseFloat(v, 64)
	} else if filter.RangeType != "" {
		filter.RangeMax = 1e12 // open-ended upper bound
	}

	products, err := h.catalog.GetProducts(&filter)
	if err != nil {
		fail(c, "fetch products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) AddProduct(c *gin.Context) {
	var input store.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	id, err := h.catalog.AddProduct(input)
	if err != nil {
		fail(c, "add product", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ok, err := h.catalog.UpdateProduct(id, updates)
	if err != nil {
		fail(c, "update product", err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found or nothing to update"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

type restockRequest struct {
	Amount int `json:"amount" binding:"required"`
}

func (h *ProductHandler) RestockProduct(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ok, err := h.catalog.RestockProduct(id, req.Amount)
	if err != nil {
		fail(c, "restock product", err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product restocked"})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	ok, err := h.catalog.DeleteProduct(id)
	if err != nil {
		fail(c, "delete product", err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// ScanProduct resolves a product by its unique code (barcode scans).
func (h *ProductHandler) ScanProduct(c *gin.Context) {
	product, err := h.catalog.GetProductByCode(c.Param("code"))
	if err != nil {
		fail(c, "scan product", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetProductStock returns the live quantity for one product; the
// checkout screen polls this for cart feedback.
func (h *ProductHandler) GetProductStock(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	stock, ok, err := h.catalog.GetProductStock(id)
	if err != nil {
		fail(c, "fetch stock", err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_id": id, "quantity": stock})
}

// GetCategories and GetCompanies feed the filter dropdowns.
func (h *ProductHandler) GetCategories(c *gin.Context) {
	values, err := h.catalog.GetAllCategories()
	if err != nil {
		fail(c, "fetch categories", err)
		return
	}
	c.JSON(http.StatusOK, values)
}

func (h *ProductHandler) GetCompanies(c *gin.Context) {
	values, err := h.catalog.GetAllCompanies()
	if err != nil {
		fail(c, "fetch companies", err)
		return
	}
	c.JSON(http.StatusOK, values)
}

func paramID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
