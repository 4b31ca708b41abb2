package httpapi

import (
	"io"
	"net/http"

	"farmer/internal/domain"
	"farmer/internal/service"
)

const maxImageSize = 10 << 20

type uploadResult struct {
	ID   int `json:"id"`
	Size int `json:"size"`
}

func (h *Handler) createProduct(r *http.Request) (any, error) {
	var input service.ProductInput
	if err := decodeJSON(r, &input); err != nil {
		return nil, err
	}
	return h.Catalog.CreateProduct(r.Context(), input)
}

func (h *Handler) editProduct(r *http.Request) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	var input service.ProductInput
	if err := decodeJSON(r, &input); err != nil {
		return nil, err
	}
	return h.Catalog.EditProduct(r.Context(), id, input)
}

// uploadImage takes the raw request body as the product picture.
func (h *Handler) uploadImage(r *http.Request) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImageSize+1))
	if err != nil {
		return nil, domain.BadData("could not read image")
	}
	if len(data) > maxImageSize {
		return nil, domain.BadData("image too large")
	}
	if len(data) == 0 {
		return nil, domain.BadData("empty image")
	}

	if err := h.Catalog.UploadImage(r.Context(), id, data); err != nil {
		return nil, err
	}
	return uploadResult{ID: id, Size: len(data)}, nil
}

func (h *Handler) createDelivery(r *http.Request) (any, error) {
	var input service.DeliveryInput
	if err := decodeJSON(r, &input); err != nil {
		return nil, err
	}
	return h.Catalog.CreateDelivery(r.Context(), input)
}

func (h *Handler) editDelivery(r *http.Request) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	var input service.DeliveryInput
	if err := decodeJSON(r, &input); err != nil {
		return nil, err
	}
	return h.Catalog.EditDelivery(r.Context(), id, input)
}

func (h *Handler) deleteDelivery(r *http.Request) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return nil, h.Catalog.DeleteDelivery(r.Context(), id)
}

func (h *Handler) listOrders(r *http.Request) (any, error) {
	return h.Orders.List(r.Context())
}

func (h *Handler) getOrder(r *http.Request) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return h.Orders.Get(r.Context(), id)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	qr, err := h.Orders.PickupQRCode(r.Context(), id)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	if len(qr) == 0 {
		writeError(w, r, h.Log, domain.NotFound("QR code not found"))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(qr); err != nil {
		h.Log.WithError(err).Warn("failed to write QR code")
	}
}
