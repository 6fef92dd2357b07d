package store

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"go-pos-store/internal/models"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SalesStore owns the counters table and the sales ledger (sales +
// sale_items). It is the only component with a multi-table atomic-write
// contract: RecordSale and DeleteCounter either commit every row they
// touch or none of them.
type SalesStore struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewSalesStore(db *gorm.DB) *SalesStore {
	return &SalesStore{db: db, validate: validator.New()}
}

// CounterInput is the payload for registering a cashier terminal.
type CounterInput struct {
	CashierName string `json:"cashier_name" validate:"required"`
	CashierID   int    `json:"cashier_id" validate:"required"`
	DeviceID    string `json:"device_id"`
	Password    string `json:"password" validate:"required,min=4"`
	Status      string `json:"status"`
}

// AddCounter registers a counter. The password is stored as a bcrypt
// hash; a duplicate cashier_name surfaces as ErrConflict.
func (s *SalesStore) AddCounter(in CounterInput) (uint, error) {
	if err := s.validate.Struct(in); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if in.Status == "" {
		in.Status = models.CounterActive
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	counter := models.Counter{
		CashierName:  in.CashierName,
		CashierID:    in.CashierID,
		DeviceID:     in.DeviceID,
		Status:       in.Status,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.db.Create(&counter).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: cashier name %q already exists", ErrConflict, in.CashierName)
		}
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return counter.ID, nil
}

// GetCounters lists counters ordered by id, optionally only active ones.
func (s *SalesStore) GetCounters(activeOnly bool) ([]models.Counter, error) {
	q := s.db.Model(&models.Counter{})
	if activeOnly {
		q = q.Where("status = ?", models.CounterActive)
	}
	var counters []models.Counter
	if err := q.Order("id").Find(&counters).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return counters, nil
}

// GetCounterByName finds a counter by cashier name, case-insensitively.
// Used by the login flow.
func (s *SalesStore) GetCounterByName(name string) (*models.Counter, error) {
	var counter models.Counter
	err := s.db.Where("LOWER(cashier_name) = LOWER(?)", name).First(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: counter %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return &counter, nil
}

// Fields a caller may change through UpdateCounter. "password" is
// accepted and re-hashed into password_hash.
var counterUpdatable = map[string]bool{
	"cashier_name": true,
	"cashier_id":   true,
	"device_id":    true,
	"status":       true,
	"password":     true,
}

// UpdateCounter applies an allow-listed partial update; unknown fields
// are silently ignored. Returns false when the id does not exist or no
// valid field was given.
func (s *SalesStore) UpdateCounter(id uint, updates map[string]interface{}) (bool, error) {
	fields := map[string]interface{}{}
	for k, v := range updates {
		if counterUpdatable[k] {
			fields[k] = v
		}
	}
	if len(fields) == 0 {
		return false, nil
	}

	if pw, ok := fields["password"]; ok {
		plain, _ := pw.(string)
		if plain == "" {
			return false, fmt.Errorf("%w: password must not be empty", ErrValidation)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		delete(fields, "password")
		fields["password_hash"] = string(hash)
	}

	result := s.db.Model(&models.Counter{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return false, fmt.Errorf("%w: cashier name already exists", ErrConflict)
		}
		return false, fmt.Errorf("%w: %v", ErrStorage, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ResetCounterPassword replaces a counter's password (admin flow).
func (s *SalesStore) ResetCounterPassword(id uint, newPassword string) (bool, error) {
	return s.UpdateCounter(id, map[string]interface{}{"password": newPassword})
}

// DeleteCounter removes a counter and, in the same transaction, every
// sale and sale item recorded under it. A failure at any step rolls the
// whole cascade back.
func (s *SalesStore) DeleteCounter(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var counter models.Counter
		if err := tx.First(&counter, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: counter %d", ErrNotFound, id)
			}
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}

		saleIDs := tx.Model(&models.Sale{}).Select("id").Where("counter_id = ?", id)
		if err := tx.Where("sale_id IN (?)", saleIDs).Delete(&models.SaleItem{}).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if err := tx.Where("counter_id = ?", id).Delete(&models.Sale{}).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		if err := tx.Delete(&counter).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		return nil
	})
	return err
}

// SaleItemInput is one receipt line of a sale to be recorded.
type SaleItemInput struct {
	ProductID   uint    `json:"product_id" validate:"required"`
	ProductName string  `json:"product_name" validate:"required"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"required,gt=0"`
	TotalPrice  float64 `json:"total_price" validate:"required,gt=0"`
}

// SaleInput is the full payload for recording a sale.
type SaleInput struct {
	ReceiptID     string          `json:"receipt_id" validate:"required"`
	CounterID     uint            `json:"counter_id" validate:"required"`
	CashierID     int             `json:"cashier_id" validate:"required"`
	CashierName   string          `json:"cashier_name" validate:"required"`
	CustomerName  string          `json:"customer_name"`
	TotalAmount   float64         `json:"total_amount" validate:"gt=0"`
	PaymentMethod string          `json:"payment_method"`
	SaleTime      time.Time       `json:"sale_time"`
	Items         []SaleItemInput `json:"items" validate:"required,min=1,dive"`
}

// RecordSale writes the sale header and all of its line items in a
// single transaction. Either everything commits or nothing does: a
// malformed item is rejected before any write, and a storage failure
// (for example a duplicate receipt_id) rolls back header and items
// together.
func (s *SalesStore) RecordSale(in SaleInput) (*models.Sale, error) {
	var sale *models.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		sale, err = s.RecordSaleTx(tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// RecordSaleTx is RecordSale on a caller-owned transaction. The checkout
// workflow uses it to put the ledger write and the stock decrements in
// one commit/rollback unit.
func (s *SalesStore) RecordSaleTx(tx *gorm.DB, in SaleInput) (*models.Sale, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var itemTotal float64
	for _, item := range in.Items {
		itemTotal += item.TotalPrice
	}
	if math.Abs(itemTotal-in.TotalAmount) > 0.005 {
		return nil, fmt.Errorf("%w: total_amount %.2f does not match item total %.2f",
			ErrValidation, in.TotalAmount, itemTotal)
	}

	if in.PaymentMethod == "" {
		in.PaymentMethod = "cash"
	}
	if in.SaleTime.IsZero() {
		in.SaleTime = time.Now()
	}

	sale := models.Sale{
		ReceiptID:     in.ReceiptID,
		CounterID:     in.CounterID,
		CashierID:     in.CashierID,
		CashierName:   in.CashierName,
		CustomerName:  in.CustomerName,
		TotalAmount:   in.TotalAmount,
		PaymentMethod: in.PaymentMethod,
		SaleTime:      in.SaleTime,
	}
	for _, item := range in.Items {
		sale.Items = append(sale.Items, models.SaleItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}

	// Header first, then items: GORM inserts the nested Items with the
	// generated sale id, all on this transaction.
	if err := tx.Create(&sale).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: receipt %q already recorded", ErrConflict, in.ReceiptID)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return &sale, nil
}

// SalesFilter narrows GetSalesHistory. Dates are "YYYY-MM-DD"; zero
// values mean "no filter".
type SalesFilter struct {
	StartDate string
	EndDate   string
	CounterID uint
	CashierID int
}

// GetSalesHistory returns sale headers newest-first, narrowed by the
// optional filter.
func (s *SalesStore) GetSalesHistory(filter *SalesFilter) ([]models.Sale, error) {
	q := s.db.Model(&models.Sale{})
	if filter != nil {
		if filter.StartDate != "" {
			q = q.Where("DATE(sale_time) >= ?", filter.StartDate)
		}
		if filter.EndDate != "" {
			q = q.Where("DATE(sale_time) <= ?", filter.EndDate)
		}
		if filter.CounterID != 0 {
			q = q.Where("counter_id = ?", filter.CounterID)
		}
		if filter.CashierID != 0 {
			q = q.Where("cashier_id = ?", filter.CashierID)
		}
	}
	var sales []models.Sale
	if err := q.Order("sale_time DESC").Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return sales, nil
}

// GetSaleDetails returns the sale header joined with its line items.
func (s *SalesStore) GetSaleDetails(saleID uint) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.Preload("Items").First(&sale, saleID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: sale %d", ErrNotFound, saleID)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return &sale, nil
}

// The reporting projections below trade silence for availability: on a
// storage error they log the cause and return an empty slice, so the
// receipt and history views keep rendering.

// GetTransactionsForCounter lists a counter's sales newest-first.
func (s *SalesStore) GetTransactionsForCounter(counterID uint) []models.Sale {
	return s.projectSales(s.db.Where("counter_id = ?", counterID))
}

// GetSalesByDate lists sales for one calendar day ("YYYY-MM-DD").
func (s *SalesStore) GetSalesByDate(date string) []models.Sale {
	return s.projectSales(s.db.Where("DATE(sale_time) = ?", date))
}

// GetAllSales lists every sale newest-first.
func (s *SalesStore) GetAllSales() []models.Sale {
	return s.projectSales(s.db)
}

// GetSalesByCashier lists sales attributed to a cashier name snapshot.
func (s *SalesStore) GetSalesByCashier(cashierName string) []models.Sale {
	return s.projectSales(s.db.Where("cashier_name = ?", cashierName))
}

// GetSalesByDateAndCashier combines the two filters above.
func (s *SalesStore) GetSalesByDateAndCashier(date, cashierName string) []models.Sale {
	return s.projectSales(s.db.Where("DATE(sale_time) = ? AND cashier_name = ?", date, cashierName))
}

func (s *SalesStore) projectSales(q *gorm.DB) []models.Sale {
	var sales []models.Sale
	if err := q.Order("sale_time DESC").Find(&sales).Error; err != nil {
		log.Printf("sales projection failed: %v", err)
		return []models.Sale{}
	}
	return sales
}
