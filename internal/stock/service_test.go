package stock

import (
	"context"
	"errors"
	"io"
	"strconv"
	"testing"

	"github.com/google/uuid"

	"github.com/neutron-labs/inventory-service/pkg/db/models"
	pkgerrors "github.com/neutron-labs/inventory-service/pkg/errors"
	"github.com/neutron-labs/inventory-service/pkg/logger"
)

type capturedMessage struct {
	routingKey string
	body       string
}

type fakePublisher struct {
	published []capturedMessage
	fail      bool
}

func (f *fakePublisher) Publish(_ context.Context, routingKey string, body []byte) error {
	if f.fail {
		return errors.New("broker unavailable")
	}
	f.published = append(f.published, capturedMessage{routingKey: routingKey, body: string(body)})
	return nil
}

func TestReduceSucceedsWhenStockCovers(t *testing.T) {
	conn := openTestDB(t)
	pub := &fakePublisher{}
	svc, err := NewService(NewRepository(conn), pub, nil, 10)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	product := mustCreateProduct(t, conn, "widget", 20)

	updated, err := svc.Reduce(context.Background(), product.ID, 5)
	if err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if updated.Stock != 15 {
		t.Fatalf("expected stock 15, got %d", updated.Stock)
	}
	if len(pub.published) != 0 {
		t.Fatalf("expected no alert above threshold, got %d", len(pub.published))
	}
}

func TestReduceInsufficientStockLeavesRowUnchanged(t *testing.T) {
	conn := openTestDB(t)
	pub := &fakePublisher{}
	svc, _ := NewService(NewRepository(conn), pub, nil, 10)
	product := mustCreateProduct(t, conn, "widget", 3)

	_, err := svc.Reduce(context.Background(), product.ID, 5)
	if !pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected INSUFFICIENT_STOCK, got %v", err)
	}

	var reloaded models.Product
	if err := conn.First(&reloaded, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Stock != 3 {
		t.Fatalf("failed reduction must not touch stock, got %d", reloaded.Stock)
	}
	if len(pub.published) != 0 {
		t.Fatalf("no alert expected on failure, got %d", len(pub.published))
	}
}

func TestReduceUnknownProduct(t *testing.T) {
	conn := openTestDB(t)
	svc, _ := NewService(NewRepository(conn), &fakePublisher{}, nil, 10)

	_, err := svc.Reduce(context.Background(), uuid.New(), 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestReduceRejectsNonPositiveQuantity(t *testing.T) {
	conn := openTestDB(t)
	svc, _ := NewService(NewRepository(conn), &fakePublisher{}, nil, 10)
	product := mustCreateProduct(t, conn, "widget", 5)

	for _, q := range []int{0, -2} {
		if _, err := svc.Reduce(context.Background(), product.ID, q); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("quantity %d: expected VALIDATION_ERROR, got %v", q, err)
		}
	}
}

func TestReduceThresholdCrossings(t *testing.T) {
	tests := []struct {
		name       string
		startStock int
		quantity   int
		wantStock  int
		wantAlert  bool
	}{
		{"crosses threshold", 12, 5, 7, true},
		{"already below threshold", 9, 1, 8, true},
		{"stays above threshold", 20, 5, 15, false},
		{"lands exactly on threshold", 12, 2, 10, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conn := openTestDB(t)
			pub := &fakePublisher{}
			svc, _ := NewService(NewRepository(conn), pub, nil, 10)
			product := mustCreateProduct(t, conn, "gadget", tc.startStock)

			updated, err := svc.Reduce(context.Background(), product.ID, tc.quantity)
			if err != nil {
				t.Fatalf("reduce: %v", err)
			}
			if updated.Stock != tc.wantStock {
				t.Fatalf("expected stock %d, got %d", tc.wantStock, updated.Stock)
			}

			if tc.wantAlert {
				if len(pub.published) != 1 {
					t.Fatalf("expected exactly one alert, got %d", len(pub.published))
				}
				msg := pub.published[0]
				if msg.routingKey != RoutingKeyStockLow {
					t.Fatalf("expected routing key %q, got %q", RoutingKeyStockLow, msg.routingKey)
				}
				want := "Product gadget is low on stock. " + strconv.Itoa(tc.wantStock) + " units remaining."
				if msg.body != want {
					t.Fatalf("expected message %q, got %q", want, msg.body)
				}
			} else if len(pub.published) != 0 {
				t.Fatalf("expected no alert, got %d", len(pub.published))
			}
		})
	}
}

func TestReducePublishFailureDoesNotRollBack(t *testing.T) {
	conn := openTestDB(t)
	pub := &fakePublisher{fail: true}
	logg := logger.New(logger.Options{ServiceName: "stock-test", Output: io.Discard})
	svc, _ := NewService(NewRepository(conn), pub, logg, 10)
	product := mustCreateProduct(t, conn, "widget", 9)

	updated, err := svc.Reduce(context.Background(), product.ID, 1)
	if err != nil {
		t.Fatalf("publish failure must not fail the reduction: %v", err)
	}
	if updated.Stock != 8 {
		t.Fatalf("expected stock 8, got %d", updated.Stock)
	}
}

func TestIncrease(t *testing.T) {
	conn := openTestDB(t)
	svc, _ := NewService(NewRepository(conn), &fakePublisher{}, nil, 10)
	product := mustCreateProduct(t, conn, "widget", 5)

	updated, err := svc.Increase(context.Background(), product.ID, 7)
	if err != nil {
		t.Fatalf("increase: %v", err)
	}
	if updated.Stock != 12 {
		t.Fatalf("expected stock 12, got %d", updated.Stock)
	}

	// Zero is a legal no-op increase.
	updated, err = svc.Increase(context.Background(), product.ID, 0)
	if err != nil {
		t.Fatalf("increase by zero: %v", err)
	}
	if updated.Stock != 12 {
		t.Fatalf("expected stock 12, got %d", updated.Stock)
	}

	if _, err := svc.Increase(context.Background(), product.ID, -1); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for negative quantity, got %v", err)
	}

	if _, err := svc.Increase(context.Background(), uuid.New(), 1); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCheckAvailability(t *testing.T) {
	conn := openTestDB(t)
	svc, _ := NewService(NewRepository(conn), &fakePublisher{}, nil, 10)
	product := mustCreateProduct(t, conn, "widget", 5)

	ok, err := svc.CheckAvailability(context.Background(), product.ID, 5)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !ok {
		t.Fatal("expected availability for quantity == stock")
	}

	ok, err = svc.CheckAvailability(context.Background(), product.ID, 6)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if ok {
		t.Fatal("expected no availability for quantity > stock")
	}

	if _, err := svc.CheckAvailability(context.Background(), uuid.New(), 1); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
