package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	amazonmodel "github.com/covercraft/covershop/internal/amazon/model"
	catalogmodel "github.com/covercraft/covershop/internal/catalog/model"
	"github.com/covercraft/covershop/internal/config"
)

// New creates a new database connection using the provided configuration
func New(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config cannot be nil")
	}

	gormLogger := logger.Default.LogMode(logger.Warn)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		// Unique violations surface as gorm.ErrDuplicatedKey so services can
		// report conflicts without parsing driver errors.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL database to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxConnLifetimeSeconds) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("database connection established",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.Name,
	)

	return db, nil
}

// Migrate creates or updates the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&catalogmodel.Manufacturer{},
		&catalogmodel.Series{},
		&catalogmodel.EquipmentType{},
		&catalogmodel.Model{},
		&catalogmodel.Material{},
		&catalogmodel.MaterialColourSurcharge{},
		&catalogmodel.Supplier{},
		&catalogmodel.SupplierMaterial{},
		&catalogmodel.Customer{},
		&catalogmodel.Order{},
		&catalogmodel.OrderLine{},
		&catalogmodel.PricingOption{},
		&catalogmodel.EquipmentTypePricingOption{},
		&catalogmodel.DesignOption{},
		&catalogmodel.EquipmentTypeDesignOption{},
		&catalogmodel.ShippingRate{},
		&amazonmodel.ProductType{},
		&amazonmodel.ProductTypeKeyword{},
		&amazonmodel.ProductTypeField{},
		&amazonmodel.ProductTypeFieldValue{},
		&amazonmodel.EquipmentTypeProductType{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	slog.Info("database connection closed")
	return nil
}

// HealthCheck performs a health check on the database connection
func HealthCheck(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}
