package service

import (
	"fmt"
	"strings"

	"farmer/internal/domain"

	"github.com/skip2/go-qrcode"
)

const pickupQRSize = 256

type QRGenerator interface {
	Generate(order *domain.Order) ([]byte, error)
}

// DefaultQRGenerator renders a pickup slip readable without the shed:
// the order id, pickup day, contact and line count, then the shed link.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(order *domain.Order) ([]byte, error) {
	if order == nil {
		return nil, domain.NotFound("order not found")
	}
	png, err := qrcode.Encode(pickupPayload(g.BaseURL, order), qrcode.Medium, pickupQRSize)
	if err != nil {
		return nil, fmt.Errorf("encode pickup code for order %d: %w", order.ID, err)
	}
	return png, nil
}

func pickupPayload(baseURL string, order *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "order %d\n", order.ID)
	fmt.Fprintf(&b, "pickup %s\n", order.When.String())
	fmt.Fprintf(&b, "contact %s", order.Contact.Name)
	if order.Contact.Phone != "" {
		fmt.Fprintf(&b, " %s", order.Contact.Phone)
	}
	fmt.Fprintf(&b, "\nitems %d\n", len(order.Items))
	fmt.Fprintf(&b, "%s/shed/orders/%d", strings.TrimRight(baseURL, "/"), order.ID)
	return b.String()
}
