package models

import (
	"time"

	"gorm.io/gorm"
)

// Product stock status values. Status is derived from quantity and is
// recomputed by the catalog store on every quantity-changing write.
const (
	StatusInStock    = "In Stock"
	StatusLowStock   = "Low Stock"
	StatusOutOfStock = "Out of Stock"
)

// Counter status values.
const (
	CounterActive      = "active"
	CounterInactive    = "inactive"
	CounterMaintenance = "maintenance"
)

// StatusForQuantity maps a stock level to its derived status.
func StatusForQuantity(qty int) string {
	switch {
	case qty <= 0:
		return StatusOutOfStock
	case qty <= 10:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Product - The Inventory
type Product struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"not null" json:"name"`
	Category   string         `gorm:"not null" json:"category"`
	Company    string         `gorm:"not null" json:"company"`
	Code       string         `gorm:"uniqueIndex;size:64;not null" json:"code"`
	TradePrice float64        `gorm:"not null" json:"trade_price"`
	MfgPrice   float64        `gorm:"not null" json:"mfg_price"`
	Quantity   int            `gorm:"not null" json:"quantity"`
	Status     string         `gorm:"not null" json:"status"`
	Worth      float64        `json:"worth"` // trade_price * quantity, maintained by the store
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// Counter - A cashier terminal/login identity
type Counter struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CashierName  string    `gorm:"uniqueIndex;size:100;not null" json:"cashier_name"`
	CashierID    int       `gorm:"not null" json:"cashier_id"`
	DeviceID     string    `json:"device_id"`
	Status       string    `gorm:"default:active" json:"status"`
	PasswordHash string    `gorm:"not null" json:"-"` // bcrypt, never serialized
	CreatedAt    time.Time `json:"created_at"`
}

// Sale - The Transaction Header
// CashierName is a deliberate snapshot: receipts keep showing the operator
// name even if the counter record is later renamed or deleted.
type Sale struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ReceiptID     string     `gorm:"uniqueIndex;size:64;not null" json:"receipt_id"`
	CounterID     uint       `gorm:"not null" json:"counter_id"`
	CashierID     int        `gorm:"not null" json:"cashier_id"`
	CashierName   string     `gorm:"not null" json:"cashier_name"`
	CustomerName  string     `json:"customer_name"`
	TotalAmount   float64    `gorm:"not null" json:"total_amount"`
	PaymentMethod string     `gorm:"default:cash" json:"payment_method"`
	SaleTime      time.Time  `json:"sale_time"`
	Items         []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// SaleItem - A receipt line. Immutable once written.
type SaleItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	SaleID      uint    `gorm:"index;not null" json:"sale_id"`
	ProductID   uint    `gorm:"not null" json:"product_id"`
	ProductName string  `gorm:"not null" json:"product_name"` // snapshot at sale time
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"not null" json:"unit_price"` // trade_price snapshot
	TotalPrice  float64 `gorm:"not null" json:"total_price"`
}
