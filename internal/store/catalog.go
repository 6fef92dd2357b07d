package store

import (
	"errors"
	"fmt"
	"strings"

	"go-pos-store/internal/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogStore owns the products table: CRUD, filtered reads and the
// derived status/worth fields. All mutation of product rows goes through
// this type.
type CatalogStore struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db, validate: validator.New()}
}

// ProductInput is the payload for creating a product.
type ProductInput struct {
	Name       string  `json:"name" validate:"required"`
	Category   string  `json:"category" validate:"required"`
	Company    string  `json:"company" validate:"required"`
	Code       string  `json:"code" validate:"required"`
	TradePrice float64 `json:"trade_price" validate:"gt=0"`
	MfgPrice   float64 `json:"mfg_price" validate:"gt=0"`
	Quantity   int     `json:"quantity" validate:"gte=0"`
}

// Range filter kinds for GetProducts. Price and quantity ranges are
// mutually exclusive.
const (
	RangePrice    = "price"
	RangeQuantity = "quantity"
)

// ProductFilter narrows GetProducts. Zero values mean "no filter";
// filters are ANDed together.
type ProductFilter struct {
	Category    string
	Company     string
	Status      string
	SearchQuery string  // case-insensitive substring over name/category/company/code
	RangeType   string  // "", RangePrice or RangeQuantity
	RangeMin    float64 `json:"range_min"`
	RangeMax    float64 `json:"range_max"`
}

// AddProduct validates the input, derives status and worth from the
// initial quantity and inserts the row. Returns the new id.
func (s *CatalogStore) AddProduct(in ProductInput) (uint, error) {
	if err := s.validate.Struct(in); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	product := models.Product{
		Name:       in.Name,
		Category:   in.Category,
		Company:    in.Company,
		Code:       in.Code,
		TradePrice: in.TradePrice,
		MfgPrice:   in.MfgPrice,
		Quantity:   in.Quantity,
		Status:     models.StatusForQuantity(in.Quantity),
		Worth:      in.TradePrice * float64(in.Quantity),
	}

	if err := s.db.Create(&product).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: product code %q already exists", ErrConflict, in.Code)
		}
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return product.ID, nil
}

// GetProducts returns products in insertion order, narrowed by the
// optional filter. Archived (soft-deleted) products are excluded.
func (s *CatalogStore) GetProducts(filter *ProductFilter) ([]models.Product, error) {
	q := s.db.Model(&models.Product{})

	if filter != nil {
		if filter.Category != "" {
			q = q.Where("category = ?", filter.Category)
		}
		if filter.Company != "" {
			q = q.Where("company = ?", filter.Company)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		switch filter.RangeType {
		case RangePrice:
			q = q.Where("trade_price BETWEEN ? AND ?", filter.RangeMin, filter.RangeMax)
		case RangeQuantity:
			q = q.Where("quantity BETWEEN ? AND ?", int(filter.RangeMin), int(filter.RangeMax))
		}
		if filter.SearchQuery != "" {
			like := "%" + strings.ToLower(filter.SearchQuery) + "%"
			q = q.Where(
				"LOWER(name) LIKE ? OR LOWER(category) LIKE ? OR LOWER(company) LIKE ? OR LOWER(code) LIKE ?",
				like, like, like, like,
			)
		}
	}

	var products []models.Product
	if err := q.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return products, nil
}

// GetProductByCode looks a product up by its unique code (barcode scan).
func (s *CatalogStore) GetProductByCode(code string) (*models.Product, error) {
	var product models.Product
	if err := s.db.Where("code = ?", code).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product code %q", ErrNotFound, code)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return &product, nil
}

// Fields a caller may change through UpdateProduct.
var productUpdatable = map[string]bool{
	"name":        true,
	"category":    true,
	"company":     true,
	"code":        true,
	"trade_price": true,
	"mfg_price":   true,
	"quantity":    true,
}

// UpdateProduct applies an allow-listed partial update. Unknown fields are
// silently ignored; false is returned when the id does not exist or no
// valid field was given. Status and worth are recomputed here whenever
// quantity or trade_price changes - derived fields are never left for the
// caller to refresh.
func (s *CatalogStore) UpdateProduct(id uint, updates map[string]interface{}) (bool, error) {
	fields := map[string]interface{}{}
	for k, v := range updates {
		if productUpdatable[k] {
			fields[k] = v
		}
	}
	if len(fields) == 0 {
		return false, nil
	}

	updated := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if raw, present := fields["quantity"]; present {
			qty, numeric := asNumber(raw)
			if !numeric {
				return fmt.Errorf("%w: quantity must be a number", ErrValidation)
			}
			if qty < 0 {
				return fmt.Errorf("%w: quantity must not be negative", ErrValidation)
			}
			product.Quantity = int(qty)
		}
		if raw, present := fields["trade_price"]; present {
			price, numeric := asNumber(raw)
			if !numeric {
				return fmt.Errorf("%w: trade_price must be a number", ErrValidation)
			}
			if price <= 0 {
				return fmt.Errorf("%w: trade_price must be positive", ErrValidation)
			}
			product.TradePrice = price
		}
		if raw, present := fields["mfg_price"]; present {
			price, numeric := asNumber(raw)
			if !numeric || price <= 0 {
				return fmt.Errorf("%w: mfg_price must be a positive number", ErrValidation)
			}
		}
		fields["status"] = models.StatusForQuantity(product.Quantity)
		fields["worth"] = product.TradePrice * float64(product.Quantity)

		result := tx.Model(&product).Updates(fields)
		if result.Error != nil {
			return result.Error
		}
		updated = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return false, err
		}
		if isUniqueViolation(err) {
			return false, fmt.Errorf("%w: product code already exists", ErrConflict)
		}
		return false, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return updated, nil
}

// RestockProduct increments quantity by a strictly positive amount and
// recomputes status and worth in the same statement.
func (s *CatalogStore) RestockProduct(id uint, amount int) (bool, error) {
	if amount <= 0 {
		return false, fmt.Errorf("%w: restock amount must be positive", ErrValidation)
	}
	return s.applyQuantityDelta(s.db, id, amount)
}

// UpdateProductQuantity applies a signed stock delta (negative after a
// sale). Unlike the checkout path it does not require sufficient stock;
// status and worth are still kept in step atomically.
func (s *CatalogStore) UpdateProductQuantity(id uint, delta int) (bool, error) {
	return s.applyQuantityDelta(s.db, id, delta)
}

// GetProductForUpdateTx reads a product on the caller's transaction,
// holding a row lock where the engine supports one. Checkout uses it to
// snapshot name and price before recording the sale.
func (s *CatalogStore) GetProductForUpdateTx(tx *gorm.DB, id uint) (*models.Product, error) {
	q := tx
	if tx.Dialector.Name() == "mysql" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var product models.Product
	if err := q.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return &product, nil
}

// AdjustStockTx is the checkout-side decrement: it runs on the caller's
// transaction, takes a row lock where the engine supports one, and fails
// with ErrValidation when stock is insufficient at commit time. The
// re-check lives inside the transaction to close the race between the
// cart-time check and the commit.
func (s *CatalogStore) AdjustStockTx(tx *gorm.DB, id uint, delta int) error {
	q := tx
	if tx.Dialector.Name() == "mysql" {
		// SQLite serializes writers on its own; FOR UPDATE is not valid there.
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var product models.Product
	if err := q.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if delta < 0 && product.Quantity+delta < 0 {
		return fmt.Errorf("%w: insufficient stock for %s (have %d, need %d)",
			ErrValidation, product.Name, product.Quantity, -delta)
	}

	ok, err := s.applyQuantityDelta(tx, id, delta)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	return nil
}

// stockDeltaSQL shifts quantity and recomputes status and worth in one
// statement. Assignment order matters: MySQL evaluates SET left to right
// against already-updated column values, so status and worth must be
// assigned before quantity or they would read the post-delta value and
// apply the delta twice. SQLite reads pre-update values for every
// assignment, so this order is correct on both engines.
const stockDeltaSQL = `UPDATE products SET
	status = CASE WHEN quantity + ? <= 0 THEN ? WHEN quantity + ? <= 10 THEN ? ELSE ? END,
	worth = trade_price * (quantity + ?),
	quantity = quantity + ?
WHERE id = ? AND deleted_at IS NULL`

// applyQuantityDelta is the one place stock moves, keeping the derived
// fields in step with the quantity they describe.
func (s *CatalogStore) applyQuantityDelta(db *gorm.DB, id uint, delta int) (bool, error) {
	result := db.Exec(stockDeltaSQL,
		delta, models.StatusOutOfStock, delta, models.StatusLowStock, models.StatusInStock,
		delta, delta, id,
	)
	if result.Error != nil {
		return false, fmt.Errorf("%w: %v", ErrStorage, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteProduct removes a product. Products referenced by historical sale
// items are archived (soft delete) instead of removed, so old receipts
// keep resolving; unreferenced products are hard-deleted.
func (s *CatalogStore) DeleteProduct(id uint) (bool, error) {
	var refs int64
	if err := s.db.Model(&models.SaleItem{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
		return false, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	q := s.db
	if refs == 0 {
		q = q.Unscoped()
	}
	result := q.Delete(&models.Product{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("%w: %v", ErrStorage, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetProductStock returns the live quantity for a product. The second
// return reports whether the product exists.
func (s *CatalogStore) GetProductStock(id uint) (int, bool, error) {
	var product models.Product
	if err := s.db.Select("quantity").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return product.Quantity, true, nil
}

// GetAllCategories returns the distinct categories, sorted.
func (s *CatalogStore) GetAllCategories() ([]string, error) {
	return s.distinctColumn("category")
}

// GetAllCompanies returns the distinct companies, sorted.
func (s *CatalogStore) GetAllCompanies() ([]string, error) {
	return s.distinctColumn("company")
}

func (s *CatalogStore) distinctColumn(column string) ([]string, error) {
	var values []string
	err := s.db.Model(&models.Product{}).
		Distinct(column).
		Order(column).
		Pluck(column, &values).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return values, nil
}

// asNumber widens a value that may arrive as any numeric JSON type.
func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	}
	return 0, false
}

// isUniqueViolation reports whether err is a uniqueness constraint error
// from either supported engine.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "constraint failed")
}
