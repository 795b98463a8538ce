package products

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/neutron-labs/inventory-service/internal/catalog"
	"github.com/neutron-labs/inventory-service/pkg/config"
	"github.com/neutron-labs/inventory-service/pkg/db"
	"github.com/neutron-labs/inventory-service/pkg/db/models"
)

func newTestClient(t *testing.T) *db.Client {
	t.Helper()

	cfg := config.DBConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "products_test.db"),
	}
	client, err := db.New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.DB().AutoMigrate(&models.Product{}, &models.Category{}, &models.Tag{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return client
}

func newTestService(t *testing.T) (Service, *Repository, *db.Client) {
	t.Helper()

	client := newTestClient(t)
	repo := NewRepository(client.DB())
	resolver, err := catalog.NewResolver(catalog.NewRepository(client.DB()))
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	svc, err := NewService(repo, client, resolver, nil, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, client
}

func baseInput(name, sku string) CreateProductInput {
	return CreateProductInput{
		Name:  name,
		SKU:   sku,
		Stock: 25,
		Brand: "Acme",
		Price: 1999,
	}
}
