package service

import (
	"context"
	"encoding/hex"

	"farmer/internal/domain"

	"github.com/sirupsen/logrus"
)

const (
	ProductsCacheKey   = "catalog:products"
	DeliveriesCacheKey = "catalog:deliveries"
)

type CatalogService struct {
	products   ProductRepository
	deliveries DeliveryRepository
	cache      CatalogCache
	log        logrus.FieldLogger
}

func NewCatalogService(products ProductRepository, deliveries DeliveryRepository, cache CatalogCache, log logrus.FieldLogger) *CatalogService {
	return &CatalogService{
		products:   products,
		deliveries: deliveries,
		cache:      cache,
		log:        log,
	}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var cached []domain.Product
	if s.cached(ctx, ProductsCacheKey, &cached) {
		return cached, nil
	}

	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	s.store(ctx, ProductsCacheKey, products)
	return products, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	product, err := BuildProduct(input)
	if err != nil {
		return nil, err
	}
	if err := s.products.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, ProductsCacheKey)
	return product, nil
}

func (s *CatalogService) EditProduct(ctx context.Context, id int, input ProductInput) (*domain.Product, error) {
	existing, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product, err := ApplyProductEdit(*existing, input)
	if err != nil {
		return nil, err
	}
	if err := s.products.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, ProductsCacheKey)
	return product, nil
}

// UploadImage stores data hex-encoded on the product record.
func (s *CatalogService) UploadImage(ctx context.Context, id int, data []byte) error {
	rows, err := s.products.UpdateProductImage(ctx, id, hex.EncodeToString(data))
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NotFound("product not found")
	}
	s.invalidate(ctx, ProductsCacheKey)
	return nil
}

func (s *CatalogService) ListDeliveries(ctx context.Context) ([]domain.Delivery, error) {
	var cached []domain.Delivery
	if s.cached(ctx, DeliveriesCacheKey, &cached) {
		return cached, nil
	}

	deliveries, err := s.deliveries.ListDeliveries(ctx)
	if err != nil {
		return nil, err
	}
	if deliveries == nil {
		deliveries = []domain.Delivery{}
	}
	s.store(ctx, DeliveriesCacheKey, deliveries)
	return deliveries, nil
}

func (s *CatalogService) CreateDelivery(ctx context.Context, input DeliveryInput) (*domain.Delivery, error) {
	delivery := BuildDelivery(input)
	if err := s.deliveries.CreateDelivery(ctx, delivery); err != nil {
		return nil, err
	}
	s.invalidate(ctx, DeliveriesCacheKey)
	return delivery, nil
}

func (s *CatalogService) EditDelivery(ctx context.Context, id int, input DeliveryInput) (*domain.Delivery, error) {
	existing, err := s.deliveries.GetDelivery(ctx, id)
	if err != nil {
		return nil, err
	}

	delivery := ApplyDeliveryEdit(*existing, input)
	if err := s.deliveries.UpdateDelivery(ctx, delivery); err != nil {
		return nil, err
	}
	s.invalidate(ctx, DeliveriesCacheKey)
	return delivery, nil
}

// DeleteDelivery is a no-op when the delivery does not exist.
func (s *CatalogService) DeleteDelivery(ctx context.Context, id int) error {
	rows, err := s.deliveries.DeleteDelivery(ctx, id)
	if err != nil {
		return err
	}
	if rows > 0 {
		s.invalidate(ctx, DeliveriesCacheKey)
	}
	return nil
}

func (s *CatalogService) cached(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("catalog cache read failed")
		return false
	}
	return hit
}

func (s *CatalogService) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("catalog cache write failed")
	}
}

func (s *CatalogService) invalidate(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("catalog cache invalidation failed")
	}
}
