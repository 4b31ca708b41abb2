package service

import (
	"context"

	"farmer/internal/domain"
)

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	UpdateProductImage(ctx context.Context, id int, image string) (int64, error)
}

type DeliveryRepository interface {
	ListDeliveries(ctx context.Context) ([]domain.Delivery, error)
	GetDelivery(ctx context.Context, id int) (*domain.Delivery, error)
	CreateDelivery(ctx context.Context, delivery *domain.Delivery) error
	UpdateDelivery(ctx context.Context, delivery *domain.Delivery) error
	DeleteDelivery(ctx context.Context, id int) (int64, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
}

// CatalogCache keeps serialized public listings between shed writes.
type CatalogCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context, keys ...string) error
}

type OrderPublisher interface {
	PublishOrder(ctx context.Context, msg domain.OrderMessage) error
}

type Notifier interface {
	Notify(ctx context.Context, order *domain.Order) error
}

type CatalogServiceInterface interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	EditProduct(ctx context.Context, id int, input ProductInput) (*domain.Product, error)
	UploadImage(ctx context.Context, id int, data []byte) error
	ListDeliveries(ctx context.Context) ([]domain.Delivery, error)
	CreateDelivery(ctx context.Context, input DeliveryInput) (*domain.Delivery, error)
	EditDelivery(ctx context.Context, id int, input DeliveryInput) (*domain.Delivery, error)
	DeleteDelivery(ctx context.Context, id int) error
}

type OrderServiceInterface interface {
	Create(ctx context.Context, input OrderInput) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, id int) (*domain.Order, error)
	PickupQRCode(ctx context.Context, id int) ([]byte, error)
}

type AuthServiceInterface interface {
	Login(user, pass string) (string, error)
	IssueToken(user string) (string, error)
	ParseToken(token string) (string, error)
	CheckBasic(user, pass string) bool
}

var (
	_ CatalogServiceInterface = (*CatalogService)(nil)
	_ OrderServiceInterface   = (*OrderService)(nil)
	_ AuthServiceInterface    = (*AuthService)(nil)
)
