package checkout

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"go-pos-store/internal/database"
	"go-pos-store/internal/idgen"
	"go-pos-store/internal/models"
	"go-pos-store/internal/store"

	"gorm.io/gorm"
)

func init() {
	idgen.Init()
}

type fixture struct {
	db      *gorm.DB
	catalog *store.CatalogStore
	sales   *store.SalesStore
	svc     *Service
	actor   Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect("sqlite", dsn, "")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	catalog := store.NewCatalogStore(db)
	sales := store.NewSalesStore(db)

	counterID, err := sales.AddCounter(store.CounterInput{
		CashierName: "Till One", CashierID: 1, Password: "secret",
	})
	if err != nil {
		t.Fatalf("AddCounter failed: %v", err)
	}

	return &fixture{
		db:      db,
		catalog: catalog,
		sales:   sales,
		svc:     NewService(db, catalog, sales),
		actor:   Actor{CounterID: counterID, CashierID: 1, CashierName: "Till One"},
	}
}

func (f *fixture) addProduct(t *testing.T, code string, price float64, qty int) uint {
	t.Helper()
	id, err := f.catalog.AddProduct(store.ProductInput{
		Name: "Product " + code, Category: "General", Company: "Acme",
		Code: code, TradePrice: price, MfgPrice: price / 2, Quantity: qty,
	})
	if err != nil {
		t.Fatalf("AddProduct(%s) failed: %v", code, err)
	}
	return id
}

func (f *fixture) productState(t *testing.T, id uint) (int, string) {
	t.Helper()
	var p models.Product
	if err := f.db.First(&p, id).Error; err != nil {
		t.Fatalf("reading product %d failed: %v", id, err)
	}
	return p.Quantity, p.Status
}

func (f *fixture) saleCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&models.Sale{}).Count(&n).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}

func TestCompleteSale(t *testing.T) {
	f := newFixture(t)
	widget := f.addProduct(t, "WID-001", 100, 15)
	gadget := f.addProduct(t, "GAD-001", 40, 30)

	receipt, err := f.svc.CompleteSale(f.actor, "Jane Doe", "card", []CartItem{
		{ProductID: widget, Quantity: 10},
		{ProductID: gadget, Quantity: 2},
	})
	if err != nil {
		t.Fatalf("CompleteSale failed: %v", err)
	}

	if receipt.Total != 1080 {
		t.Errorf("total = %v, want 1080", receipt.Total)
	}
	if receipt.Cashier != "Till One" || receipt.Customer != "Jane Doe" {
		t.Errorf("got cashier=%q customer=%q", receipt.Cashier, receipt.Customer)
	}
	if len(receipt.Items) != 2 {
		t.Fatalf("got %d receipt lines, want 2", len(receipt.Items))
	}
	if receipt.Items[0].Name != "Product WID-001" || receipt.Items[0].UnitPrice != 100 {
		t.Errorf("line snapshot = %+v", receipt.Items[0])
	}
	if !strings.HasPrefix(receipt.ReceiptID, "RCPT-") {
		t.Errorf("receipt id = %q", receipt.ReceiptID)
	}

	// The decrement and the derived status land in the same commit.
	if qty, status := f.productState(t, widget); qty != 5 || status != models.StatusLowStock {
		t.Errorf("widget after sale: qty=%d status=%q, want 5/%q", qty, status, models.StatusLowStock)
	}
	if qty, status := f.productState(t, gadget); qty != 28 || status != models.StatusInStock {
		t.Errorf("gadget after sale: qty=%d status=%q", qty, status)
	}

	sale, err := f.sales.GetSaleDetails(receipt.SaleID)
	if err != nil {
		t.Fatalf("GetSaleDetails failed: %v", err)
	}
	if sale.TotalAmount != 1080 || len(sale.Items) != 2 {
		t.Errorf("ledger sale = total %v with %d items", sale.TotalAmount, len(sale.Items))
	}
}

func TestCompleteSaleRejectsBadCarts(t *testing.T) {
	f := newFixture(t)
	widget := f.addProduct(t, "WID-001", 100, 5)

	cases := []struct {
		name     string
		customer string
		cart     []CartItem
	}{
		{"empty cart", "Jane", nil},
		{"missing customer", "", []CartItem{{ProductID: widget, Quantity: 1}}},
		{"non-positive quantity", "Jane", []CartItem{{ProductID: widget, Quantity: 0}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.CompleteSale(f.actor, tc.customer, "cash", tc.cart); !errors.Is(err, store.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}

	if n := f.saleCount(t); n != 0 {
		t.Errorf("rejected carts left %d sales", n)
	}
	if qty, _ := f.productState(t, widget); qty != 5 {
		t.Errorf("stock changed: %d", qty)
	}
}

func TestCompleteSaleOversellRollsBack(t *testing.T) {
	f := newFixture(t)
	widget := f.addProduct(t, "WID-001", 100, 5)

	_, err := f.svc.CompleteSale(f.actor, "Jane", "cash", []CartItem{{ProductID: widget, Quantity: 20}})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("oversell: error = %v, want ErrValidation", err)
	}

	if n := f.saleCount(t); n != 0 {
		t.Errorf("oversell left %d sales", n)
	}
	if qty, status := f.productState(t, widget); qty != 5 || status != models.StatusLowStock {
		t.Errorf("oversell moved stock: qty=%d status=%q", qty, status)
	}
}

func TestCompleteSaleUnknownProductRollsBack(t *testing.T) {
	f := newFixture(t)
	widget := f.addProduct(t, "WID-001", 100, 5)

	_, err := f.svc.CompleteSale(f.actor, "Jane", "cash", []CartItem{
		{ProductID: widget, Quantity: 1},
		{ProductID: 9999, Quantity: 1},
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unknown product: error = %v, want ErrNotFound", err)
	}

	if n := f.saleCount(t); n != 0 {
		t.Errorf("failed sale left %d sales", n)
	}
	if qty, _ := f.productState(t, widget); qty != 5 {
		t.Errorf("failed sale moved stock: %d", qty)
	}
}

// A cart may list the same product twice. Each line passes its own
// availability check, but the decrements are cumulative, so the second
// one trips the in-transaction re-check and the whole sale rolls back.
func TestCompleteSaleDuplicateLinesShareStock(t *testing.T) {
	f := newFixture(t)
	widget := f.addProduct(t, "WID-001", 100, 4)

	cart := []CartItem{
		{ProductID: widget, Quantity: 3},
		{ProductID: widget, Quantity: 3},
	}

	// The advisory check catches the aggregate up front.
	if err := f.svc.CheckStock(cart); !errors.Is(err, store.ErrValidation) {
		t.Errorf("CheckStock: error = %v, want ErrValidation", err)
	}

	if _, err := f.svc.CompleteSale(f.actor, "Jane", "cash", cart); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("CompleteSale: error = %v, want ErrValidation", err)
	}
	if n := f.saleCount(t); n != 0 {
		t.Errorf("rolled-back sale left %d sales", n)
	}
	if qty, _ := f.productState(t, widget); qty != 4 {
		t.Errorf("rolled-back sale moved stock: %d", qty)
	}
}

func TestCheckStock(t *testing.T) {
	f := newFixture(t)
	widget := f.addProduct(t, "WID-001", 100, 5)

	if err := f.svc.CheckStock([]CartItem{{ProductID: widget, Quantity: 5}}); err != nil {
		t.Errorf("exact stock rejected: %v", err)
	}
	if err := f.svc.CheckStock([]CartItem{{ProductID: widget, Quantity: 6}}); !errors.Is(err, store.ErrValidation) {
		t.Errorf("oversell: error = %v, want ErrValidation", err)
	}
	if err := f.svc.CheckStock([]CartItem{{ProductID: 9999, Quantity: 1}}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown product: error = %v, want ErrNotFound", err)
	}
}

func TestReceiptForSale(t *testing.T) {
	f := newFixture(t)
	widget := f.addProduct(t, "WID-001", 100, 5)

	receipt, err := f.svc.CompleteSale(f.actor, "Walk-in Customer", "cash", []CartItem{{ProductID: widget, Quantity: 2}})
	if err != nil {
		t.Fatalf("CompleteSale failed: %v", err)
	}

	again, err := f.svc.ReceiptForSale(receipt.SaleID)
	if err != nil {
		t.Fatalf("ReceiptForSale failed: %v", err)
	}
	if again.ReceiptID != receipt.ReceiptID || again.Total != receipt.Total {
		t.Errorf("rebuilt receipt = %+v, want %+v", again, receipt)
	}
	if len(again.Items) != 1 || again.Items[0].Name != "Product WID-001" {
		t.Errorf("rebuilt lines = %+v", again.Items)
	}

	if _, err := f.svc.ReceiptForSale(9999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown sale: error = %v, want ErrNotFound", err)
	}

	// A sale recorded without a customer renders the walk-in fallback.
	sale, err := f.sales.RecordSale(store.SaleInput{
		ReceiptID: "RCPT-MANUAL", CounterID: f.actor.CounterID, CashierID: 1, CashierName: "Till One",
		TotalAmount: 100,
		Items: []store.SaleItemInput{
			{ProductID: widget, ProductName: "Product WID-001", Quantity: 1, UnitPrice: 100, TotalPrice: 100},
		},
	})
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}
	r, err := f.svc.ReceiptForSale(sale.ID)
	if err != nil {
		t.Fatalf("ReceiptForSale failed: %v", err)
	}
	if r.Customer != "Walk-in Customer" {
		t.Errorf("customer = %q, want walk-in fallback", r.Customer)
	}
}
