package service

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/covercraft/covershop/internal/amazon/model"
	catalogmodel "github.com/covercraft/covershop/internal/catalog/model"
)

// newTestDB opens an isolated in-memory database with the tables the
// template pipeline touches.
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
		&catalogmodel.Manufacturer{},
		&catalogmodel.Series{},
		&catalogmodel.EquipmentType{},
		&catalogmodel.Model{},
		&model.ProductType{},
		&model.ProductTypeKeyword{},
		&model.ProductTypeField{},
		&model.ProductTypeFieldValue{},
		&model.EquipmentTypeProductType{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}
