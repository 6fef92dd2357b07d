package checkout

import (
	"fmt"
	"time"

	"go-pos-store/internal/idgen"
	"go-pos-store/internal/models"
	"go-pos-store/internal/store"

	"gorm.io/gorm"
)

// Actor identifies who is ringing up a sale. It is carried explicitly
// from the session token into every checkout call; there is no shared
// "current user" state anywhere in the process.
type Actor struct {
	CounterID   uint
	CashierID   int
	CashierName string
}

// CartItem is one candidate line in the in-memory cart.
type CartItem struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// ReceiptLine is one rendered receipt row.
type ReceiptLine struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Receipt is the payload the UI renders/prints after a completed sale.
type Receipt struct {
	SaleID    uint          `json:"sale_id"`
	ReceiptID string        `json:"receipt_id"`
	DateTime  time.Time     `json:"date_time"`
	Cashier   string        `json:"cashier"`
	Customer  string        `json:"customer"`
	Items     []ReceiptLine `json:"items"`
	Total     float64       `json:"total"`
}

// Service coordinates the cashier checkout across the two stores.
type Service struct {
	db      *gorm.DB
	catalog *store.CatalogStore
	sales   *store.SalesStore
}

func NewService(db *gorm.DB, catalog *store.CatalogStore, sales *store.SalesStore) *Service {
	return &Service{db: db, catalog: catalog, sales: sales}
}

// CheckStock is the cart-time availability check. It exists for early
// operator feedback only - CompleteSale re-checks inside its transaction,
// which is where correctness lives.
func (s *Service) CheckStock(items []CartItem) error {
	need := map[uint]int{}
	for _, item := range items {
		need[item.ProductID] += item.Quantity
	}
	for id, qty := range need {
		stock, ok, err := s.catalog.GetProductStock(id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: product %d", store.ErrNotFound, id)
		}
		if stock < qty {
			return fmt.Errorf("%w: insufficient stock for product %d (have %d, need %d)",
				store.ErrValidation, id, stock, qty)
		}
	}
	return nil
}

// CompleteSale records the sale and decrements stock in one transaction.
// Inside the transaction every product is re-read (row-locked on engines
// that support it), stock sufficiency is re-checked, the sale header and
// items are written, and only then is each product's quantity reduced.
// Any failure - unknown product, insufficient stock, duplicate receipt,
// storage error - rolls the entire sale back: ledger and inventory move
// together or not at all.
func (s *Service) CompleteSale(actor Actor, customerName string, paymentMethod string, cart []CartItem) (*Receipt, error) {
	if len(cart) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", store.ErrValidation)
	}
	if customerName == "" {
		return nil, fmt.Errorf("%w: no customer selected", store.ErrValidation)
	}
	for _, item := range cart {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for product %d",
				store.ErrValidation, item.ProductID)
		}
	}

	now := time.Now()
	receiptID := idgen.NewReceiptID(now)

	var (
		sale  *models.Sale
		lines []ReceiptLine
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		input := store.SaleInput{
			ReceiptID:     receiptID,
			CounterID:     actor.CounterID,
			CashierID:     actor.CashierID,
			CashierName:   actor.CashierName,
			CustomerName:  customerName,
			PaymentMethod: paymentMethod,
			SaleTime:      now,
		}

		lines = lines[:0]
		for _, item := range cart {
			product, err := s.catalog.GetProductForUpdateTx(tx, item.ProductID)
			if err != nil {
				return err
			}
			if product.Quantity < item.Quantity {
				return fmt.Errorf("%w: insufficient stock for %s (have %d, need %d)",
					store.ErrValidation, product.Name, product.Quantity, item.Quantity)
			}
			lineTotal := product.TradePrice * float64(item.Quantity)
			input.Items = append(input.Items, store.SaleItemInput{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				UnitPrice:   product.TradePrice,
				TotalPrice:  lineTotal,
			})
			lines = append(lines, ReceiptLine{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  item.Quantity,
				UnitPrice: product.TradePrice,
				Total:     lineTotal,
			})
			input.TotalAmount += lineTotal
		}

		var err error
		sale, err = s.sales.RecordSaleTx(tx, input)
		if err != nil {
			return err
		}

		// Ledger first, stock second: the sale row orders strictly
		// before its decrements even inside the shared transaction.
		for _, item := range cart {
			if err := s.catalog.AdjustStockTx(tx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Receipt{
		SaleID:    sale.ID,
		ReceiptID: sale.ReceiptID,
		DateTime:  sale.SaleTime,
		Cashier:   sale.CashierName,
		Customer:  sale.CustomerName,
		Items:     lines,
		Total:     sale.TotalAmount,
	}, nil
}

// ReceiptForSale rebuilds a receipt payload for a past sale.
func (s *Service) ReceiptForSale(saleID uint) (*Receipt, error) {
	sale, err := s.sales.GetSaleDetails(saleID)
	if err != nil {
		return nil, err
	}

	customer := sale.CustomerName
	if customer == "" {
		customer = "Walk-in Customer"
	}
	receipt := &Receipt{
		SaleID:    sale.ID,
		ReceiptID: sale.ReceiptID,
		DateTime:  sale.SaleTime,
		Cashier:   sale.CashierName,
		Customer:  customer,
		Total:     sale.TotalAmount,
	}
	for _, item := range sale.Items {
		receipt.Items = append(receipt.Items, ReceiptLine{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.TotalPrice,
		})
	}
	return receipt, nil
}
