package domain

import "time"

const (
	EventOrderCreated       = "order_created"
	EventNotificationFailed = "notification_failed"
)

type OrderMessage struct {
	Type      string    `json:"type"`
	OrderID   int       `json:"order_id"`
	Contact   string    `json:"contact"`
	When      string    `json:"when"`
	Attempt   int       `json:"attempt"`
	Timestamp time.Time `json:"timestamp"`
}
