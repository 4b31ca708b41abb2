package httpapi

import (
	"net/http"

	"farmer/internal/service"
)

func (h *Handler) listProducts(r *http.Request) (any, error) {
	return h.Catalog.ListProducts(r.Context())
}

func (h *Handler) listDeliveries(r *http.Request) (any, error) {
	return h.Catalog.ListDeliveries(r.Context())
}

func (h *Handler) createOrder(r *http.Request) (any, error) {
	var input service.OrderInput
	if err := decodeJSON(r, &input); err != nil {
		return nil, err
	}
	return h.Orders.Create(r.Context(), input)
}
