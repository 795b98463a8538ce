package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/neutron-labs/inventory-service/pkg/enums"
)

// Product is the canonical catalog entry. Stock is mutated post-creation only
// through the stock service.
type Product struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name          string              `gorm:"column:name;not null"`
	Description   string              `gorm:"column:description;type:text"`
	SKU           string              `gorm:"column:sku;not null;uniqueIndex:idx_products_sku"`
	Stock         int                 `gorm:"column:stock;not null;default:0"`
	Brand         string              `gorm:"column:brand"`
	Price         int                 `gorm:"column:price;not null"`
	Weight        decimal.Decimal     `gorm:"column:weight;type:decimal(10,3)"`
	Dimensions    string              `gorm:"column:dimensions"`
	Status        enums.ProductStatus `gorm:"column:status"`
	ImagePath     *string             `gorm:"column:image_path"`
	AverageRating float64             `gorm:"column:average_rating;not null;default:0"`
	Categories    []Category          `gorm:"many2many:product_categories;constraint:OnDelete:CASCADE"`
	Tags          []Tag               `gorm:"many2many:product_tags;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the row identity; identities are generated app-side so
// the sqlite test driver and postgres behave the same.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
