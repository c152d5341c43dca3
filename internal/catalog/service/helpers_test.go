package service

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/covercraft/covershop/internal/catalog/model"
)

// newTestDB opens an isolated in-memory database with the full catalog
// schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.Manufacturer{},
		&model.Series{},
		&model.EquipmentType{},
		&model.Model{},
		&model.Material{},
		&model.MaterialColourSurcharge{},
		&model.Supplier{},
		&model.SupplierMaterial{},
		&model.Customer{},
		&model.Order{},
		&model.OrderLine{},
		&model.PricingOption{},
		&model.EquipmentTypePricingOption{},
		&model.DesignOption{},
		&model.EquipmentTypeDesignOption{},
		&model.ShippingRate{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}
