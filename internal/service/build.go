package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"farmer/internal/domain"
)

const (
	defaultPriceUnit     = "kg"
	defaultPriceQuantity = 1
)

// ProductInput is the request body accepted for product create and edit.
// Nil scalar fields keep their current value on edit.
type ProductInput struct {
	Name       *string           `json:"name"`
	Desc       *string           `json:"desc"`
	Available  *bool             `json:"available"`
	Highlight  *bool             `json:"highlight"`
	Categories []string          `json:"categories"`
	Prices     []json.RawMessage `json:"prices"`
}

type priceInput struct {
	Amount   *float64 `json:"amount"`
	Quantity *int     `json:"quantity"`
	Unit     *string  `json:"unit"`
}

type DeliveryInput struct {
	Distance *int `json:"distance"`
	Amount   *int `json:"amount"`
}

type OrderInput struct {
	When     string          `json:"when"`
	Contact  *domain.Contact `json:"contact"`
	Address  *domain.Address `json:"address"`
	Products json.RawMessage `json:"products"`
}

type orderLineInput struct {
	Product  int      `json:"product"`
	Quantity *int     `json:"quantity"`
	Amount   *float64 `json:"amount"`
	Unit     *string  `json:"unit"`
}

// BuildProduct validates input and returns a product ready to be inserted.
func BuildProduct(input ProductInput) (*domain.Product, error) {
	p := &domain.Product{Available: true}
	if input.Name != nil {
		p.Name = strings.TrimSpace(*input.Name)
	}
	if p.Name == "" {
		return nil, domain.BadData("missing product name")
	}
	if input.Desc != nil {
		p.Desc = *input.Desc
	}
	if input.Available != nil {
		p.Available = *input.Available
	}
	if input.Highlight != nil {
		p.Highlight = *input.Highlight
	}

	prices, err := buildPrices(input.Prices)
	if err != nil {
		return nil, err
	}
	p.Prices = prices
	p.Categories = buildCategories(input.Categories)
	return p, nil
}

// ApplyProductEdit returns a copy of existing with input applied. Categories
// and prices are replaced wholesale, absent lists clear them.
func ApplyProductEdit(existing domain.Product, input ProductInput) (*domain.Product, error) {
	p := existing
	if input.Name != nil {
		p.Name = strings.TrimSpace(*input.Name)
		if p.Name == "" {
			return nil, domain.BadData("missing product name")
		}
	}
	if input.Desc != nil {
		p.Desc = *input.Desc
	}
	if input.Available != nil {
		p.Available = *input.Available
	}
	if input.Highlight != nil {
		p.Highlight = *input.Highlight
	}

	prices, err := buildPrices(input.Prices)
	if err != nil {
		return nil, err
	}
	p.Prices = prices
	p.Categories = buildCategories(input.Categories)
	return &p, nil
}

func buildPrices(raw []json.RawMessage) ([]domain.Price, error) {
	prices := make([]domain.Price, 0, len(raw))
	for _, entry := range raw {
		trimmed := bytes.TrimSpace(entry)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, domain.BadData("expected object for price")
		}

		var in priceInput
		if err := json.Unmarshal(trimmed, &in); err != nil {
			return nil, domain.BadInput("invalid price entry", err)
		}
		if in.Amount == nil {
			return nil, domain.BadData("missing price amount")
		}

		price := domain.Price{
			Amount:   *in.Amount,
			Quantity: defaultPriceQuantity,
			Unit:     defaultPriceUnit,
		}
		if in.Quantity != nil {
			price.Quantity = *in.Quantity
		}
		if in.Unit != nil && *in.Unit != "" {
			price.Unit = *in.Unit
		}
		prices = append(prices, price)
	}
	return prices, nil
}

func buildCategories(names []string) []domain.Category {
	seen := make(map[string]bool, len(names))
	categories := make([]domain.Category, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		categories = append(categories, domain.Category{Name: name})
	}
	return categories
}

func BuildDelivery(input DeliveryInput) *domain.Delivery {
	return ApplyDeliveryEdit(domain.Delivery{}, input)
}

func ApplyDeliveryEdit(existing domain.Delivery, input DeliveryInput) *domain.Delivery {
	d := existing
	if input.Distance != nil {
		d.Distance = *input.Distance
	}
	if input.Amount != nil {
		d.Amount = *input.Amount
	}
	return &d
}

// BuildOrder validates input and assembles the full order graph.
func BuildOrder(input OrderInput) (*domain.Order, error) {
	if input.Contact == nil {
		return nil, domain.BadData("missing contact information")
	}
	contact := *input.Contact
	contact.ID = 0
	contact.Name = strings.TrimSpace(contact.Name)
	if contact.Name == "" {
		return nil, domain.BadData("missing contact name")
	}

	if strings.TrimSpace(input.When) == "" {
		return nil, domain.BadData("missing order date")
	}
	when, err := domain.ParseDate(input.When)
	if err != nil {
		return nil, domain.BadData("invalid order date, expected YYYY-MM-DD")
	}

	order := &domain.Order{
		When:    when,
		Contact: contact,
		Items:   []domain.OrderItem{},
	}
	if input.Address != nil {
		addr := *input.Address
		addr.ID = 0
		order.Address = &addr
	}

	lines, err := decodeOrderLines(input.Products)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(lines))
	for _, line := range lines {
		if line.Product <= 0 {
			return nil, domain.BadData("missing product reference")
		}
		if seen[line.Product] {
			return nil, domain.BadData(fmt.Sprintf("product %d listed twice", line.Product))
		}
		seen[line.Product] = true
		if line.Amount == nil {
			return nil, domain.BadData(fmt.Sprintf("missing amount for product %d", line.Product))
		}

		item := domain.OrderItem{
			ProductID: line.Product,
			Amount:    *line.Amount,
			Quantity:  defaultPriceQuantity,
			Unit:      defaultPriceUnit,
		}
		if line.Quantity != nil {
			item.Quantity = *line.Quantity
		}
		if line.Unit != nil && *line.Unit != "" {
			item.Unit = *line.Unit
		}
		order.Items = append(order.Items, item)
	}

	return order, nil
}

func decodeOrderLines(raw json.RawMessage) ([]orderLineInput, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '[' {
		return nil, domain.BadData("expected products being a list")
	}

	var lines []orderLineInput
	if err := json.Unmarshal(trimmed, &lines); err != nil {
		return nil, domain.BadInput("invalid product line", err)
	}
	return lines, nil
}
