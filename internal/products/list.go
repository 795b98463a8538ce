package products

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/neutron-labs/inventory-service/pkg/db/models"
	"github.com/neutron-labs/inventory-service/pkg/enums"
	"github.com/neutron-labs/inventory-service/pkg/pagination"
)

// listQuery carries the shared inputs of every paginated listing.
type listQuery struct {
	Sort   enums.SortKey
	Params pagination.Params
}

// ListAll pages through the whole catalog in the requested order.
func (r *Repository) ListAll(ctx context.Context, query listQuery) ([]models.Product, int64, error) {
	scope := func(tx *gorm.DB) *gorm.DB { return tx }
	return r.pageProducts(ctx, scope, query)
}

// ListByCategories pages through products attached to any of the named
// categories. Matching is case-insensitive, mirroring the resolver.
func (r *Repository) ListByCategories(ctx context.Context, names []string, query listQuery) ([]models.Product, int64, error) {
	lowered := lowerNonBlank(names)
	if len(lowered) == 0 {
		return nil, 0, nil
	}
	scope := func(tx *gorm.DB) *gorm.DB {
		sub := r.db.
			Table("product_categories").
			Select("product_categories.product_id").
			Joins("JOIN categories ON categories.id = product_categories.category_id").
			Where("LOWER(categories.name) IN ?", lowered)
		return tx.Where("products.id IN (?)", sub)
	}
	return r.pageProducts(ctx, scope, query)
}

// ListByBrands pages through products of any of the named brands,
// case-insensitively.
func (r *Repository) ListByBrands(ctx context.Context, brands []string, query listQuery) ([]models.Product, int64, error) {
	lowered := lowerNonBlank(brands)
	if len(lowered) == 0 {
		return nil, 0, nil
	}
	scope := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("LOWER(brand) IN ?", lowered)
	}
	return r.pageProducts(ctx, scope, query)
}

// ListByPriceGTE pages through products priced at or above the floor.
func (r *Repository) ListByPriceGTE(ctx context.Context, price int, query listQuery) ([]models.Product, int64, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("price >= ?", price)
	}
	return r.pageProducts(ctx, scope, query)
}

// ListByPriceLTE pages through products priced at or below the ceiling.
func (r *Repository) ListByPriceLTE(ctx context.Context, price int, query listQuery) ([]models.Product, int64, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("price <= ?", price)
	}
	return r.pageProducts(ctx, scope, query)
}

// ListByPriceBetween pages through products priced inside [low, high].
func (r *Repository) ListByPriceBetween(ctx context.Context, low, high int, query listQuery) ([]models.Product, int64, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("price BETWEEN ? AND ?", low, high)
	}
	return r.pageProducts(ctx, scope, query)
}

// pageProducts runs a scoped, counted, ordered page query. Unsorted listings
// still order by created_at so pages are stable across requests.
func (r *Repository) pageProducts(ctx context.Context, scope func(*gorm.DB) *gorm.DB, query listQuery) ([]models.Product, int64, error) {
	params := query.Params.Normalize()

	var total int64
	countQ := scope(r.db.WithContext(ctx).Model(&models.Product{}))
	if err := countQ.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := query.Sort.OrderClause()
	if order == "" {
		order = "created_at ASC"
	}

	var rows []models.Product
	findQ := scope(r.preloaded(ctx).Model(&models.Product{})).
		Order(order).
		Offset(params.Offset()).
		Limit(params.Size)
	if err := findQ.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func lowerNonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, strings.ToLower(v))
	}
	return out
}
