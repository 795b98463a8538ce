package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/neutron-labs/inventory-service/api/responses"
	"github.com/neutron-labs/inventory-service/api/validators"
	stocksvc "github.com/neutron-labs/inventory-service/internal/stock"
	"github.com/neutron-labs/inventory-service/pkg/db/models"
	pkgerrors "github.com/neutron-labs/inventory-service/pkg/errors"
	"github.com/neutron-labs/inventory-service/pkg/logger"
)

type stockMutationRequest struct {
	Quantity int `json:"quantity"`
}

// stockProductResponse is the slim product view the stock endpoints return;
// the catalog endpoints carry the full DTO.
type stockProductResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	SKU   string    `json:"sku"`
	Stock int       `json:"stock"`
}

func newStockProductResponse(product *models.Product) stockProductResponse {
	return stockProductResponse{
		ID:    product.ID,
		Name:  product.Name,
		SKU:   product.SKU,
		Stock: product.Stock,
	}
}

// ReduceStock subtracts quantity from a product's stock. Unknown products and
// insufficient stock answer 200 with a message rather than an error status;
// clients of the original API depend on that shape.
func ReduceStock(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload stockMutationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Reduce(r.Context(), productID, payload.Quantity)
		if err != nil {
			if writeStockOutcomeMessage(w, err) {
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newStockProductResponse(product))
	}
}

// IncreaseStock adds quantity to a product's stock, with the same
// 200-with-message behavior for unknown products.
func IncreaseStock(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload stockMutationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Increase(r.Context(), productID, payload.Quantity)
		if err != nil {
			if writeStockOutcomeMessage(w, err) {
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newStockProductResponse(product))
	}
}

// CheckStockAvailability reports whether the product holds at least the
// requested quantity. Unknown products are a plain 404 here.
func CheckStockAvailability(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quantity, err := validators.RequireQueryInt(r, "quantity", 0, 1<<31-1)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		available, err := svc.CheckAvailability(r.Context(), productID, quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"product_id": productID,
			"quantity":   quantity,
			"available":  available,
		})
	}
}

// writeStockOutcomeMessage converts not-found and insufficient-stock results
// into the 200-with-message shape and reports whether it handled the error.
func writeStockOutcomeMessage(w http.ResponseWriter, err error) bool {
	typed := pkgerrors.As(err)
	if typed == nil {
		return false
	}
	switch typed.Code() {
	case pkgerrors.CodeNotFound, pkgerrors.CodeInsufficientStock:
		responses.WriteSuccess(w, map[string]string{"message": typed.Message()})
		return true
	default:
		return false
	}
}
