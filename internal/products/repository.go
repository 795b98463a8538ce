package products

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/neutron-labs/inventory-service/pkg/db/models"
)

// Repository wires together all product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Categories").
		Preload("Tags")
}

// FindByID loads the product with its category and tag associations. A missing
// row is reported as (nil, nil).
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.preloaded(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySKU loads the product by its SKU. A missing row is reported as (nil, nil).
func (r *Repository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := r.preloaded(ctx).First(&product, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ExistsBySKU reports whether any product row carries the SKU.
func (r *Repository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("sku = ?", sku).
		Count(&count).Error
	return count > 0, err
}

// FindAll returns every product with associations, oldest first.
func (r *Repository) FindAll(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.preloaded(ctx).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// FindByIDs loads the products matching any of the given ids.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Product
	err := r.preloaded(ctx).
		Where("id IN ?", ids).
		Find(&rows).Error
	return rows, err
}

// Create inserts a new product row along with its associations.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Save persists the scalar columns of an existing product row. Associations
// are replaced separately so a partial update never clears them by accident.
func (r *Repository) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	err := r.db.WithContext(ctx).
		Omit("Categories", "Tags").
		Save(product).Error
	if err != nil {
		return nil, err
	}
	return product, nil
}

// ReplaceCategories swaps the product's category set.
func (r *Repository) ReplaceCategories(ctx context.Context, product *models.Product, categories []models.Category) error {
	return r.db.WithContext(ctx).
		Model(product).
		Association("Categories").
		Replace(categories)
}

// ReplaceTags swaps the product's tag set.
func (r *Repository) ReplaceTags(ctx context.Context, product *models.Product, tags []models.Tag) error {
	return r.db.WithContext(ctx).
		Model(product).
		Association("Tags").
		Replace(tags)
}

// DeleteByID removes a product row; false means the row was already absent.
// The join rows cascade with the product.
func (r *Repository) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Select("Categories", "Tags").
		Delete(&models.Product{ID: id})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteByIDs removes every product whose id is in the set and returns how
// many rows went away.
func (r *Repository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.Product{})
	return res.RowsAffected, res.Error
}

// ExistingIDs returns the subset of ids that have a product row.
func (r *Repository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var existing []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id IN ?", ids).
		Pluck("id", &existing).Error
	return existing, err
}
