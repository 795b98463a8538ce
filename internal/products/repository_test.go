package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neutron-labs/inventory-service/pkg/db/models"
	"github.com/neutron-labs/inventory-service/pkg/enums"
)

func seedProduct(t *testing.T, repo *Repository, name, sku string) *models.Product {
	t.Helper()
	product, err := repo.Create(context.Background(), &models.Product{
		Name:   name,
		SKU:    sku,
		Stock:  10,
		Price:  500,
		Weight: decimal.NewFromInt(1),
		Status: enums.ProductStatusAvailable,
	})
	require.NoError(t, err)
	return product
}

func TestRepositoryFindByIDMissingRowIsNilNil(t *testing.T) {
	client := newTestClient(t)
	repo := NewRepository(client.DB())

	product, err := repo.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestRepositoryExistsBySKU(t *testing.T) {
	client := newTestClient(t)
	repo := NewRepository(client.DB())
	seedProduct(t, repo, "Kettle", "SKU-KETTLE")

	exists, err := repo.ExistsBySKU(context.Background(), "SKU-KETTLE")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsBySKU(context.Background(), "SKU-MISSING")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepositoryReplaceCategories(t *testing.T) {
	client := newTestClient(t)
	repo := NewRepository(client.DB())
	product := seedProduct(t, repo, "Boots", "SKU-BOOTS")

	err := repo.ReplaceCategories(context.Background(), product, []models.Category{{Name: "Footwear"}})
	require.NoError(t, err)

	reloaded, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Categories, 1)
	assert.Equal(t, "Footwear", reloaded.Categories[0].Name)

	err = repo.ReplaceCategories(context.Background(), product, []models.Category{{Name: "Outdoor"}, {Name: "Winter"}})
	require.NoError(t, err)

	reloaded, err = repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Categories, 2)
}

func TestRepositoryDeleteByIDs(t *testing.T) {
	client := newTestClient(t)
	repo := NewRepository(client.DB())
	first := seedProduct(t, repo, "First", "SKU-1")
	second := seedProduct(t, repo, "Second", "SKU-2")

	deleted, err := repo.DeleteByIDs(context.Background(), []uuid.UUID{first.ID, second.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestRepositoryExistingIDs(t *testing.T) {
	client := newTestClient(t)
	repo := NewRepository(client.DB())
	product := seedProduct(t, repo, "Only", "SKU-ONLY")

	existing, err := repo.ExistingIDs(context.Background(), []uuid.UUID{product.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, existing, 1)
	assert.Equal(t, product.ID, existing[0])

	existing, err = repo.ExistingIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, existing)
}
