// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stylelens/catalogue-backend/internal/config"
	"github.com/stylelens/catalogue-backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	var db *gorm.DB
	var err error

	dsn := cfg.DSN()
	if strings.HasPrefix(dsn, "sqlite://") {
		// SQLite for development
		db, err = gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, "sqlite://")), gormConfig)
	} else {
		// PostgreSQL for production
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.Vendor{},
		&models.Brand{},
		&models.Collection{},
		&models.Color{},
		&models.Size{},
		&models.Attribute{},
		&models.AttributeValue{},
		&models.Product{},
		&models.ProductColor{},
		&models.ProductSize{},
		&models.ProductAttribute{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Lookup-key indexes used by the resolver. Deliberately non-unique:
		// the find-or-create contract checks before inserting rather than
		// relying on a constraint.
		"CREATE INDEX IF NOT EXISTS idx_vendors_name ON vendors(name)",
		"CREATE INDEX IF NOT EXISTS idx_brands_name ON brands(name)",
		"CREATE INDEX IF NOT EXISTS idx_collections_name ON collections(name)",
		"CREATE INDEX IF NOT EXISTS idx_colors_name ON colors(name)",
		"CREATE INDEX IF NOT EXISTS idx_sizes_name ON sizes(name)",
		"CREATE INDEX IF NOT EXISTS idx_attributes_name ON attributes(name)",
		"CREATE INDEX IF NOT EXISTS idx_attribute_values_lookup ON attribute_values(attribute_id, value)",

		// Listing indexes
		"CREATE INDEX IF NOT EXISTS idx_products_user ON products(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}
