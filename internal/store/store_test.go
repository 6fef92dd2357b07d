package store

import (
	"fmt"
	"testing"

	"go-pos-store/internal/database"

	"gorm.io/gorm"
)

// testDB opens a fresh named in-memory SQLite database per test, going
// through database.Connect so migrations run exactly as in production.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect("sqlite", dsn, "")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

func mustAddProduct(t *testing.T, s *CatalogStore, in ProductInput) uint {
	t.Helper()
	id, err := s.AddProduct(in)
	if err != nil {
		t.Fatalf("AddProduct(%v) failed: %v", in, err)
	}
	return id
}

func sampleProduct(code string, qty int) ProductInput {
	return ProductInput{
		Name:       "Product " + code,
		Category:   "General",
		Company:    "Acme",
		Code:       code,
		TradePrice: 100,
		MfgPrice:   80,
		Quantity:   qty,
	}
}
