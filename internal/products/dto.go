package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/neutron-labs/inventory-service/pkg/db/models"
)

// ProductDTO is the catalog payload returned to clients. Categories and tags
// surface as plain name lists; the entity rows stay internal.
type ProductDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	SKU           string          `json:"sku"`
	Stock         int             `json:"stock"`
	Brand         string          `json:"brand,omitempty"`
	Price         int             `json:"price"`
	Weight        decimal.Decimal `json:"weight"`
	Dimensions    string          `json:"dimensions,omitempty"`
	Status        string          `json:"status,omitempty"`
	ImagePath     *string         `json:"image_path,omitempty"`
	AverageRating float64         `json:"average_rating"`
	Categories    []string        `json:"categories"`
	Tags          []string        `json:"tags"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string          `json:"name" validate:"required"`
	Description   string          `json:"description"`
	SKU           string          `json:"sku" validate:"required"`
	Stock         int             `json:"stock" validate:"gte=0"`
	Brand         string          `json:"brand"`
	Price         int             `json:"price" validate:"gte=0"`
	Weight        decimal.Decimal `json:"weight"`
	Dimensions    string          `json:"dimensions"`
	Status        string          `json:"status"`
	AverageRating float64         `json:"average_rating" validate:"gte=0,lte=5"`
	Categories    []string        `json:"categories"`
	Tags          []string        `json:"tags"`
}

// UpdateProductInput carries the mutation payload. Stock and price always
// overwrite the stored values; text fields only apply when non-blank, and
// category/tag name sets are re-resolved only when non-empty.
type UpdateProductInput struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	SKU           string           `json:"sku"`
	Stock         int              `json:"stock" validate:"gte=0"`
	Brand         string           `json:"brand"`
	Price         int              `json:"price" validate:"gte=0"`
	Weight        *decimal.Decimal `json:"weight"`
	Dimensions    string           `json:"dimensions"`
	Status        string           `json:"status"`
	AverageRating *float64         `json:"average_rating" validate:"omitempty,gte=0,lte=5"`
	Categories    []string         `json:"categories"`
	Tags          []string         `json:"tags"`
}

// BatchGetResult partitions a by-ids lookup into hits and misses.
type BatchGetResult struct {
	FoundProducts []ProductDTO `json:"found_products"`
	NotFoundIDs   []uuid.UUID  `json:"not_found_ids"`
}

// BulkDeleteResult partitions a bulk delete into removed and unknown ids.
type BulkDeleteResult struct {
	DeletedIDs  []uuid.UUID `json:"deleted_ids"`
	NotFoundIDs []uuid.UUID `json:"not_found_ids"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	categories := make([]string, 0, len(product.Categories))
	for _, category := range product.Categories {
		categories = append(categories, category.Name)
	}
	tags := make([]string, 0, len(product.Tags))
	for _, tag := range product.Tags {
		tags = append(tags, tag.Name)
	}

	return &ProductDTO{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		SKU:           product.SKU,
		Stock:         product.Stock,
		Brand:         product.Brand,
		Price:         product.Price,
		Weight:        product.Weight,
		Dimensions:    product.Dimensions,
		Status:        string(product.Status),
		ImagePath:     product.ImagePath,
		AverageRating: product.AverageRating,
		Categories:    categories,
		Tags:          tags,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

// NewProductDTOs maps a slice of rows into DTOs.
func NewProductDTOs(rows []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewProductDTO(&rows[i]))
	}
	return dtos
}
