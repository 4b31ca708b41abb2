package storage

import (
	"context"

	"farmer/internal/domain"
)

func sampleProducts() []domain.Product {
	potato := domain.Category{Name: "pomme de terre"}
	vegetables := domain.Category{Name: "légumes"}

	return []domain.Product{
		{
			Name:      "bintje",
			Desc:      "pomme de terre delicieuse pour les frites",
			Available: true,
			Highlight: true,
			Prices: []domain.Price{
				{Amount: 4.5, Quantity: 1, Unit: "kg"},
				{Amount: 20, Quantity: 5, Unit: "kg"},
			},
			Categories: []domain.Category{potato, vegetables},
		},
		{
			Name:      "charlotte",
			Desc:      "pomme de terre idéale pour les purées et la cuison vapeure",
			Available: true,
			Highlight: true,
			Prices: []domain.Price{
				{Amount: 6, Quantity: 1, Unit: "kg"},
				{Amount: 25, Quantity: 5, Unit: "kg"},
			},
			Categories: []domain.Category{potato, vegetables},
		},
	}
}

func sampleDeliveries() []domain.Delivery {
	return []domain.Delivery{
		{Distance: 20, Amount: 60},
		{Distance: 30, Amount: 80},
		{Distance: 40, Amount: 90},
		{Distance: 60, Amount: 100},
	}
}

// InjectSample resets the schema and loads the demo catalog.
func (r *PostgresRepository) InjectSample(ctx context.Context) error {
	if err := r.ResetSchema(ctx); err != nil {
		return err
	}
	for _, p := range sampleProducts() {
		if err := r.CreateProduct(ctx, &p); err != nil {
			return err
		}
	}
	for _, d := range sampleDeliveries() {
		if err := r.CreateDelivery(ctx, &d); err != nil {
			return err
		}
	}
	return nil
}
