package stock

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/neutron-labs/inventory-service/pkg/db/models"
	"github.com/neutron-labs/inventory-service/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "stock_test.db")
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.Category{}, &models.Tag{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func mustCreateProduct(t *testing.T, conn *gorm.DB, name string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:   name,
		SKU:    "SKU-" + name,
		Stock:  stock,
		Brand:  "Acme",
		Price:  1999,
		Weight: decimal.NewFromInt(1),
		Status: enums.ProductStatusAvailable,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
