package products

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/neutron-labs/inventory-service/internal/catalog"
	"github.com/neutron-labs/inventory-service/pkg/db"
	"github.com/neutron-labs/inventory-service/pkg/db/models"
	"github.com/neutron-labs/inventory-service/pkg/enums"
	pkgerrors "github.com/neutron-labs/inventory-service/pkg/errors"
	"github.com/neutron-labs/inventory-service/pkg/logger"
	"github.com/neutron-labs/inventory-service/pkg/pagination"
	"github.com/neutron-labs/inventory-service/pkg/storage/images"
)

// ImageUpload wraps a product image part from a multipart request.
type ImageUpload struct {
	Filename string
	Reader   io.Reader
}

// Service exposes the product catalog operations.
type Service interface {
	GetAll(ctx context.Context) ([]ProductDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	GetBySKU(ctx context.Context, sku string) (*ProductDTO, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (*BatchGetResult, error)

	ListByCategories(ctx context.Context, names []string, sort enums.SortKey, params pagination.Params) (pagination.Page[ProductDTO], error)
	ListByBrands(ctx context.Context, brands []string, sort enums.SortKey, params pagination.Params) (pagination.Page[ProductDTO], error)
	ListSorted(ctx context.Context, sort enums.SortKey, params pagination.Params) (pagination.Page[ProductDTO], error)
	ListByPriceGTE(ctx context.Context, price int, sort enums.SortKey, params pagination.Params) (pagination.Page[ProductDTO], error)
	ListByPriceLTE(ctx context.Context, price int, sort enums.SortKey, params pagination.Params) (pagination.Page[ProductDTO], error)
	ListByPriceRange(ctx context.Context, low, high int, sort enums.SortKey, params pagination.Params) (pagination.Page[ProductDTO], error)

	Create(ctx context.Context, input CreateProductInput, image *ImageUpload) (*ProductDTO, error)
	CreateBatch(ctx context.Context, inputs []CreateProductInput) ([]ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBatch(ctx context.Context, ids []uuid.UUID) (*BulkDeleteResult, error)
	DeleteAll(ctx context.Context) ([]uuid.UUID, error)
}

type service struct {
	repo       *Repository
	dbClient   *db.Client
	resolver   *catalog.Resolver
	imageStore *images.Store
	cache      *Cache
	logg       *logger.Logger
}

// NewService constructs a product service. The image store, cache, and logger
// are optional; the repository, db client, and resolver are not.
func NewService(repo *Repository, dbClient *db.Client, resolver *catalog.Resolver, imageStore *images.Store, cache *Cache, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("catalog resolver required")
	}
	return &service{
		repo:       repo,
		dbClient:   dbClient,
		resolver:   resolver,
		imageStore: imageStore,
		cache:      cache,
		logg:       logg,
	}, nil
}

// GetAll returns the full catalog. An empty catalog surfaces as NotFound
// rather than an empty list.
func (s *service) GetAll(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no products found")
	}
	return NewProductDTOs(rows), nil
}

// GetByID loads one product, read-through cached by id.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	if dto, ok := s.cache.GetByID(ctx, id); ok {
		return dto, nil
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	dto := NewProductDTO(product)
	s.cache.Store(ctx, dto)
	return dto, nil
}

// GetBySKU loads one product, read-through cached by SKU.
func (s *service) GetBySKU(ctx context.Context, sku string) (*ProductDTO, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if dto, ok := s.cache.GetBySKU(ctx, sku); ok {
		return dto, nil
	}
	product, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product by sku")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	dto := NewProductDTO(product)
	s.cache.Store(ctx, dto)
	return dto, nil
}

// GetByIDs partitions the requested ids into found products and unknown ids.
// A request where nothing matches is NotFound.
func (s *service) GetByIDs(ctx context.Context, ids []uuid.UUID) (*BatchGetResult, error) {
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one id is required")
	}

	rows, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load products by ids")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no products found for the given ids")
	}

	found := make(map[uuid.UUID]struct{}, len(rows))
	for _, row := range rows {
		found[row.ID] = struct{}{}
	}

	notFound := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := found[id]; !ok {
			notFound = append(notFound, id)
		}
	}

	return &BatchGetResult{
		FoundProducts: NewProductDTOs(rows),
		NotFoundIDs:   notFound,
	}, nil
}

func (s *service) ListByCategories(ctx context.Context, names []string, sort enums.SortKey, params pagination.Params) (pagination.Page[ProductDTO], error) {
	rows, total, err := s.repo.ListByCategories(ctx, names, listQuery{Sort: sort, Params: params})
	if err != nil {
		return pagination.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list by categories")
	}
	return pagination.NewPage(NewProductDTOs(rows), params, total), nil
}

func (s *service) ListByBrands(ctx context.Context, brands []string, sort enums.SortKey, params pagination.Params) (pagination.Page[ProductDTO], error) {
	rows, total, err := s.repo.ListByBrands(ctx, brands, listQuery{Sort: sort, Params: params})
	if err != nil {
		return pagination.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list by brands")
	}
	return pagination.NewPage(NewProductDTOs(rows), params, total), nil
}

func (s *service) ListSorted(ctx context.Context, sort enums.SortKey, params pagination.Params) (pagination.Page[ProductDTO], error) {
	rows, total, err := s.repo.ListAll(ctx, listQuery{Sort: sort, Params: params})
	if err != nil {
		return pagination.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return pagination.NewPage(NewProductDTOs(rows), params, total), nil
}

func (s *service) ListByPriceGTE(ctx context.Context, price int, sort enums.SortKey, params pagination.Params) (pagination.Page[ProductDTO], error) {
	rows, total, err := s.repo.ListByPriceGTE(ctx, price, listQuery{Sort: sort, Params: params})
	if err != nil {
		return pagination.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list by price floor")
	}
	return pagination.NewPage(NewProductDTOs(rows), params, total), nil
}

func (s *service) ListByPriceLTE(ctx context.Context, price int, sort enums.SortKey, params pagination.Params) (pagination.Page[ProductDTO], error) {
	rows, total, err := s.repo.ListByPriceLTE(ctx, price, listQuery{Sort: sort, Params: params})
	if err != nil {
		return pagination.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list by price ceiling")
	}
	return pagination.NewPage(NewProductDTOs(rows), params, total), nil
}

func (s *service) ListByPriceRange(ctx context.Context, low, high int, sort enums.SortKey, params pagination.Params) (pagination.Page[ProductDTO], error) {
	if low > high {
		return pagination.Page[ProductDTO]{}, pkgerrors.New(pkgerrors.CodeValidation, "low must not exceed high")
	}
	rows, total, err := s.repo.ListByPriceBetween(ctx, low, high, listQuery{Sort: sort, Params: params})
	if err != nil {
		return pagination.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list by price range")
	}
	return pagination.NewPage(NewProductDTOs(rows), params, total), nil
}

// Create inserts a new product. A duplicate SKU is rejected up front and again
// on the unique index, so a lost race still comes back as Conflict with
// nothing persisted.
func (s *service) Create(ctx context.Context, input CreateProductInput, image *ImageUpload) (*ProductDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsBySKU(ctx, input.SKU)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check sku")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this sku already exists")
	}

	var imagePath *string
	if image != nil && s.imageStore != nil {
		stored, err := s.imageStore.Save(image.Filename, image.Reader)
		if err != nil {
			return nil, err
		}
		imagePath = &stored
	}

	var createdID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		created, err := s.createOne(ctx, txRepo, s.resolver.WithTx(tx), input, imagePath)
		if err != nil {
			return err
		}
		createdID = created.ID
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	product, err := s.repo.FindByID(ctx, createdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload product")
	}
	dto := NewProductDTO(product)
	s.cache.Store(ctx, dto)
	return dto, nil
}

// CreateBatch inserts all products atomically; any rejected row rolls back the
// whole batch.
func (s *service) CreateBatch(ctx context.Context, inputs []CreateProductInput) ([]ProductDTO, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one product is required")
	}

	seenSKUs := make(map[string]struct{}, len(inputs))
	for _, input := range inputs {
		if err := validateCreateInput(input); err != nil {
			return nil, err
		}
		if _, dup := seenSKUs[input.SKU]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate sku within batch")
		}
		seenSKUs[input.SKU] = struct{}{}
	}

	createdIDs := make([]uuid.UUID, 0, len(inputs))
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txResolver := s.resolver.WithTx(tx)
		for _, input := range inputs {
			exists, err := txRepo.ExistsBySKU(ctx, input.SKU)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check sku")
			}
			if exists {
				return pkgerrors.New(pkgerrors.CodeConflict,
					fmt.Sprintf("a product with sku %q already exists", input.SKU))
			}
			created, err := s.createOne(ctx, txRepo, txResolver, input, nil)
			if err != nil {
				return err
			}
			createdIDs = append(createdIDs, created.ID)
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create products")
	}

	rows, err := s.repo.FindByIDs(ctx, createdIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload products")
	}
	return NewProductDTOs(rows), nil
}

func (s *service) createOne(ctx context.Context, txRepo *Repository, txResolver *catalog.Resolver, input CreateProductInput, imagePath *string) (*models.Product, error) {
	categories, err := txResolver.ResolveCategories(ctx, input.Categories)
	if err != nil {
		return nil, err
	}
	tags, err := txResolver.ResolveTags(ctx, input.Tags)
	if err != nil {
		return nil, err
	}

	status := enums.ProductStatusAvailable
	if trimmed := strings.TrimSpace(input.Status); trimmed != "" {
		parsed, err := enums.ParseProductStatus(trimmed)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		status = parsed
	}

	product := &models.Product{
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		SKU:           strings.TrimSpace(input.SKU),
		Stock:         input.Stock,
		Brand:         strings.TrimSpace(input.Brand),
		Price:         input.Price,
		Weight:        input.Weight,
		Dimensions:    input.Dimensions,
		Status:        status,
		ImagePath:     imagePath,
		AverageRating: input.AverageRating,
		Categories:    categories,
		Tags:          tags,
	}

	created, err := txRepo.Create(ctx, product)
	if db.IsUniqueViolation(err, "") {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this sku already exists")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return created, nil
}

// Update mutates an existing product. Stock and price always overwrite the
// stored values; text fields apply only when non-blank; category/tag name
// sets are re-resolved and replaced only when non-empty.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}
	if input.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	previousSKU := product.SKU

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txResolver := s.resolver.WithTx(tx)

		if err := applyUpdateToProduct(product, input); err != nil {
			return err
		}
		if _, err := txRepo.Save(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "a product with this sku already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save product")
		}

		if len(input.Categories) > 0 {
			categories, err := txResolver.ResolveCategories(ctx, input.Categories)
			if err != nil {
				return err
			}
			if err := txRepo.ReplaceCategories(ctx, product, categories); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace categories")
			}
		}
		if len(input.Tags) > 0 {
			tags, err := txResolver.ResolveTags(ctx, input.Tags)
			if err != nil {
				return err
			}
			if err := txRepo.ReplaceTags(ctx, product, tags); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace tags")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	s.cache.Invalidate(ctx, product.ID, previousSKU)
	if product.SKU != previousSKU {
		s.cache.Invalidate(ctx, product.ID, product.SKU)
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload product")
	}
	return NewProductDTO(updated), nil
}

// Delete removes one product; unknown ids are NotFound.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if product == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if _, err := s.repo.DeleteByID(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	s.cache.Invalidate(ctx, product.ID, product.SKU)
	return nil
}

// DeleteBatch removes every requested product that exists and reports the
// rest as not found. A request where nothing matches is NotFound.
func (s *service) DeleteBatch(ctx context.Context, ids []uuid.UUID) (*BulkDeleteResult, error) {
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one id is required")
	}

	rows, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load products by ids")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no products found for the given ids")
	}

	existing := make(map[uuid.UUID]string, len(rows))
	deleted := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		existing[row.ID] = row.SKU
		deleted = append(deleted, row.ID)
	}

	notFound := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := existing[id]; !ok {
			notFound = append(notFound, id)
		}
	}

	if _, err := s.repo.DeleteByIDs(ctx, deleted); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete products")
	}
	for id, sku := range existing {
		s.cache.Invalidate(ctx, id, sku)
	}

	return &BulkDeleteResult{DeletedIDs: deleted, NotFoundIDs: notFound}, nil
}

// DeleteAll wipes the catalog and returns the ids that went away.
func (s *service) DeleteAll(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	if len(rows) == 0 {
		return []uuid.UUID{}, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	if _, err := s.repo.DeleteByIDs(ctx, ids); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete products")
	}
	for _, row := range rows {
		s.cache.Invalidate(ctx, row.ID, row.SKU)
	}
	return ids, nil
}

func validateCreateInput(input CreateProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.SKU) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}
	if input.Price < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if input.AverageRating < 0 || input.AverageRating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "average_rating must be between 0 and 5")
	}
	return nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) error {
	product.Stock = input.Stock
	product.Price = input.Price

	if name := strings.TrimSpace(input.Name); name != "" {
		product.Name = name
	}
	if sku := strings.TrimSpace(input.SKU); sku != "" {
		product.SKU = sku
	}
	if description := strings.TrimSpace(input.Description); description != "" {
		product.Description = input.Description
	}
	if brand := strings.TrimSpace(input.Brand); brand != "" {
		product.Brand = brand
	}
	if dimensions := strings.TrimSpace(input.Dimensions); dimensions != "" {
		product.Dimensions = input.Dimensions
	}
	if status := strings.TrimSpace(input.Status); status != "" {
		parsed, err := enums.ParseProductStatus(status)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		product.Status = parsed
	}
	if input.Weight != nil {
		product.Weight = *input.Weight
	}
	if input.AverageRating != nil {
		if *input.AverageRating < 0 || *input.AverageRating > 5 {
			return pkgerrors.New(pkgerrors.CodeValidation, "average_rating must be between 0 and 5")
		}
		product.AverageRating = *input.AverageRating
	}
	return nil
}
