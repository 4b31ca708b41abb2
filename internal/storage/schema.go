package storage

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id SERIAL PRIMARY KEY,
		name VARCHAR(64) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name VARCHAR(64) NOT NULL UNIQUE,
		"desc" VARCHAR(512) NOT NULL DEFAULT '',
		highlight BOOLEAN NOT NULL DEFAULT TRUE,
		available BOOLEAN NOT NULL DEFAULT TRUE,
		image TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS category_products (
		category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		PRIMARY KEY (category_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS prices (
		id SERIAL PRIMARY KEY,
		amount DOUBLE PRECISION NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		unit VARCHAR(64) NOT NULL,
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS deliveries (
		id SERIAL PRIMARY KEY,
		distance INTEGER NOT NULL DEFAULT 0,
		amount INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS contacts (
		id SERIAL PRIMARY KEY,
		name VARCHAR(128) NOT NULL,
		phone VARCHAR(16),
		email VARCHAR(128)
	)`,
	`CREATE TABLE IF NOT EXISTS addresses (
		id SERIAL PRIMARY KEY,
		street VARCHAR(128),
		city VARCHAR(64),
		country VARCHAR(64)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		created TIMESTAMPTZ NOT NULL DEFAULT now(),
		"when" DATE NOT NULL,
		contact_id INTEGER NOT NULL REFERENCES contacts(id),
		addr_id INTEGER REFERENCES addresses(id)
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		product_id INTEGER NOT NULL REFERENCES products(id),
		order_id INTEGER NOT NULL REFERENCES orders(id),
		amount DOUBLE PRECISION NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		unit VARCHAR(64) NOT NULL,
		PRIMARY KEY (product_id, order_id)
	)`,
}

const dropStatement = `DROP TABLE IF EXISTS
	order_items, orders, addresses, contacts, deliveries,
	prices, category_products, products, categories CASCADE`

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", firstLine(stmt), err)
		}
	}
	return nil
}

// ResetSchema drops every table and recreates an empty schema.
func (r *PostgresRepository) ResetSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, dropStatement); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	return r.EnsureSchema(ctx)
}

func firstLine(stmt string) string {
	for i, c := range stmt {
		if c == '\n' {
			return stmt[:i]
		}
	}
	return stmt
}
