package database

import (
	"fmt"
	"log"

	"go-pos-store/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured database and syncs the schema.
// SQLite is the default: the system is a single local process with a
// single-writer database file, so the embedded engine's own locking is
// all the coordination we need. MySQL stays available for shops that
// already run one.
func Connect(driver, sqlitePath, mysqlDSN string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch driver {
	case "sqlite", "":
		db, err = gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	case "mysql":
		if mysqlDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for the mysql driver")
		}
		db, err = gorm.Open(mysql.Open(mysqlDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite" || driver == "" {
		// Enforce the sale_items -> sales reference on the embedded engine.
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := db.AutoMigrate(
		&models.Product{},
		&models.Counter{},
		&models.Sale{},
		&models.SaleItem{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.Println("Database schema synced")
	return db, nil
}
