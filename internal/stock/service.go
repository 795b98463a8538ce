package stock

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/neutron-labs/inventory-service/pkg/db/models"
	pkgerrors "github.com/neutron-labs/inventory-service/pkg/errors"
	"github.com/neutron-labs/inventory-service/pkg/eventbus"
	"github.com/neutron-labs/inventory-service/pkg/logger"
)

// RoutingKeyStockLow is the routing key low-stock alerts are published under.
const RoutingKeyStockLow = "stock.low"

// DefaultLowThreshold is the stock level below which an alert fires after a
// reduction.
const DefaultLowThreshold = 10

// Service applies signed stock deltas and emits low-stock alerts.
type Service interface {
	Reduce(ctx context.Context, productID uuid.UUID, quantity int) (*models.Product, error)
	Increase(ctx context.Context, productID uuid.UUID, quantity int) (*models.Product, error)
	CheckAvailability(ctx context.Context, productID uuid.UUID, quantity int) (bool, error)
}

type service struct {
	repo         Repository
	publisher    eventbus.Publisher
	logg         *logger.Logger
	lowThreshold int
}

// NewService constructs a stock service. A non-positive threshold falls back
// to DefaultLowThreshold.
func NewService(repo Repository, publisher eventbus.Publisher, logg *logger.Logger, lowThreshold int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	if lowThreshold <= 0 {
		lowThreshold = DefaultLowThreshold
	}
	return &service{
		repo:         repo,
		publisher:    publisher,
		logg:         logg,
		lowThreshold: lowThreshold,
	}, nil
}

// Reduce subtracts quantity from the product's stock. The decrement is a
// guarded single statement, so a failed reduction leaves stock untouched. The
// threshold check runs against the post-write value; crossing it publishes
// exactly one alert before returning.
func (s *service) Reduce(ctx context.Context, productID uuid.UUID, quantity int) (*models.Product, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}

	reduced, err := s.repo.ReduceStock(ctx, productID, quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reduce stock")
	}

	if !reduced {
		product, err := s.repo.FindProduct(ctx, productID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
		}
		if product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
			WithDetails(map[string]any{"stock": product.Stock, "requested": quantity})
	}

	product, err := s.repo.FindProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if product.Stock < s.lowThreshold {
		s.notifyLowStock(ctx, product)
	}

	return product, nil
}

// Increase adds quantity to the product's stock. No threshold check applies on
// the way up.
func (s *service) Increase(ctx context.Context, productID uuid.UUID, quantity int) (*models.Product, error) {
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a non-negative integer")
	}

	increased, err := s.repo.IncreaseStock(ctx, productID, quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: increase stock")
	}
	if !increased {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	product, err := s.repo.FindProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

// CheckAvailability reports whether the product holds at least quantity units.
func (s *service) CheckAvailability(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	product, err := s.repo.FindProduct(ctx, productID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if product == nil {
		return false, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product.Stock >= quantity, nil
}

// notifyLowStock publishes the human-readable alert. The stock write is
// already durable at this point, so a publish failure is logged and dropped,
// never retried.
func (s *service) notifyLowStock(ctx context.Context, product *models.Product) {
	message := fmt.Sprintf("Product %s is low on stock. %d units remaining.", product.Name, product.Stock)
	if err := s.publisher.Publish(ctx, RoutingKeyStockLow, []byte(message)); err != nil {
		if s.logg != nil {
			logCtx := s.logg.WithProductID(ctx, product.ID.String())
			s.logg.Error(logCtx, "failed to publish low-stock alert", err)
		}
	}
}
