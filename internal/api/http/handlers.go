package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"farmer/internal/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	Catalog service.CatalogServiceInterface
	Orders  service.OrderServiceInterface
	Auth    service.AuthServiceInterface
	Log     logrus.FieldLogger
}

func NewHandler(catalog service.CatalogServiceInterface, orders service.OrderServiceInterface, auth service.AuthServiceInterface, log logrus.FieldLogger) *Handler {
	return &Handler{
		Catalog: catalog,
		Orders:  orders,
		Auth:    auth,
		Log:     log,
	}
}

// RegisterRoutes mounts the three route groups. Each group carries its own
// middleware list, applied in order.
func (h *Handler) RegisterRoutes(r *mux.Router, limiter *RateLimiter) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	catalog := r.PathPrefix("/catalog").Subrouter()
	catalog.HandleFunc("/products", handle(h.Log, http.StatusOK, h.listProducts)).Methods("GET")
	catalog.HandleFunc("/deliveries", handle(h.Log, http.StatusOK, h.listDeliveries)).Methods("GET")
	catalog.HandleFunc("/orders/", handle(h.Log, http.StatusCreated, h.createOrder)).Methods("POST")

	auth := r.PathPrefix("/auth").Subrouter()
	if limiter != nil {
		auth.Use(limiter.Handler)
	}
	auth.HandleFunc("/", handle(h.Log, http.StatusCreated, h.authenticate)).Methods("POST")

	shed := r.PathPrefix("/shed").Subrouter()
	guard := &TokenGuard{Auth: h.Auth, Log: h.Log}
	shed.Use(guard.CheckToken, guard.RotateToken)
	shed.HandleFunc("/products/", handle(h.Log, http.StatusCreated, h.createProduct)).Methods("POST")
	shed.HandleFunc("/products/{id:[0-9]+}", handle(h.Log, http.StatusOK, h.editProduct)).Methods("PUT")
	shed.HandleFunc("/products/{id:[0-9]+}/upload", handle(h.Log, http.StatusCreated, h.uploadImage)).Methods("POST")
	shed.HandleFunc("/deliveries/", handle(h.Log, http.StatusCreated, h.createDelivery)).Methods("POST")
	shed.HandleFunc("/deliveries/{id:[0-9]+}", handle(h.Log, http.StatusOK, h.editDelivery)).Methods("PUT")
	shed.HandleFunc("/deliveries/{id:[0-9]+}", handle(h.Log, http.StatusNoContent, h.deleteDelivery)).Methods("DELETE")
	shed.HandleFunc("/orders", handle(h.Log, http.StatusOK, h.listOrders)).Methods("GET")
	shed.HandleFunc("/orders/{id:[0-9]+}", handle(h.Log, http.StatusOK, h.getOrder)).Methods("GET")
	shed.HandleFunc("/orders/{id:[0-9]+}/qrcode", h.getOrderQRCode).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "farmer",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
