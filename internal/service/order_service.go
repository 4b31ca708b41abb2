package service

import (
	"context"
	"time"

	"farmer/internal/domain"

	"github.com/sirupsen/logrus"
)

type OrderService struct {
	repo      OrderRepository
	notifier  Notifier
	publisher OrderPublisher
	qrEncoder QRGenerator
	log       logrus.FieldLogger
}

func NewOrderService(repo OrderRepository, notifier Notifier, publisher OrderPublisher, qr QRGenerator, log logrus.FieldLogger) *OrderService {
	return &OrderService{
		repo:      repo,
		notifier:  notifier,
		publisher: publisher,
		qrEncoder: qr,
		log:       log,
	}
}

// Create persists the order graph then notifies the farm. A failed
// notification never fails the order; it is queued for the notify worker.
func (s *OrderService) Create(ctx context.Context, input OrderInput) (*domain.Order, error) {
	order, err := BuildOrder(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	entry := s.log.WithField("order_id", order.ID)
	s.publish(ctx, entry, newOrderMessage(domain.EventOrderCreated, order, 0))

	if s.notifier == nil {
		return order, nil
	}
	if err := s.notifier.Notify(ctx, order); err != nil {
		entry.WithError(err).Warn("order notification failed, queued for retry")
		s.publish(ctx, entry, newOrderMessage(domain.EventNotificationFailed, order, 1))
	}

	return order, nil
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id int) (*domain.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// PickupQRCode renders a PNG the farm scans when the order is collected.
func (s *OrderService) PickupQRCode(ctx context.Context, id int) ([]byte, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.qrEncoder.Generate(order)
}

func (s *OrderService) publish(ctx context.Context, entry logrus.FieldLogger, msg domain.OrderMessage) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrder(ctx, msg); err != nil {
		entry.WithError(err).WithField("event", msg.Type).Warn("order event not published")
	}
}

func newOrderMessage(kind string, order *domain.Order, attempt int) domain.OrderMessage {
	return domain.OrderMessage{
		Type:      kind,
		OrderID:   order.ID,
		Contact:   order.Contact.Name,
		When:      order.When.String(),
		Attempt:   attempt,
		Timestamp: time.Now(),
	}
}
