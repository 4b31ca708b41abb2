package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"farmer/internal/domain"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqNotNullViolation    = "23502"
)

// PostgresRepository persists the shop over database/sql. Every write runs
// in its own transaction.
type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// withTx runs fn in a transaction committed only when fn succeeds.
func (r *PostgresRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// mapWriteErr turns constraint violations into client errors.
func mapWriteErr(err error, what string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return domain.BadData(what + " already exists")
		case pqForeignKeyViolation:
			return domain.BadData(what + " references an unknown record")
		case pqNotNullViolation:
			return domain.BadData(what + " is missing column " + pqErr.Column)
		}
	}
	return fmt.Errorf("write %s: %w", what, err)
}

func (r *PostgresRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, "desc", COALESCE(image, ''), available, highlight
		FROM products
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Desc, &p.Image, &p.Available, &p.Highlight); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	if err := r.attachProductRelations(ctx, r.DB, products, 0); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *PostgresRepository) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	var p domain.Product
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, "desc", COALESCE(image, ''), available, highlight
		FROM products
		WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Desc, &p.Image, &p.Available, &p.Highlight)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}

	products := []domain.Product{p}
	if err := r.attachProductRelations(ctx, r.DB, products, id); err != nil {
		return nil, err
	}
	return &products[0], nil
}

// attachProductRelations loads prices and categories for products. A
// non-zero productID restricts both queries to that product.
func (r *PostgresRepository) attachProductRelations(ctx context.Context, q queryer, products []domain.Product, productID int) error {
	index := make(map[int]int, len(products))
	for i := range products {
		products[i].Prices = []domain.Price{}
		products[i].Categories = []domain.Category{}
		index[products[i].ID] = i
	}
	if len(products) == 0 {
		return nil
	}

	priceQuery := `SELECT id, product_id, amount, quantity, unit FROM prices`
	categoryQuery := `
		SELECT cp.product_id, c.id, c.name
		FROM category_products cp
		JOIN categories c ON c.id = cp.category_id`
	var args []any
	if productID != 0 {
		priceQuery += ` WHERE product_id = $1`
		categoryQuery += ` WHERE cp.product_id = $1`
		args = append(args, productID)
	}
	priceQuery += ` ORDER BY id`
	categoryQuery += ` ORDER BY c.name`

	rows, err := q.QueryContext(ctx, priceQuery, args...)
	if err != nil {
		return fmt.Errorf("load prices: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var price domain.Price
		var owner int
		if err := rows.Scan(&price.ID, &owner, &price.Amount, &price.Quantity, &price.Unit); err != nil {
			return fmt.Errorf("scan price: %w", err)
		}
		if i, ok := index[owner]; ok {
			products[i].Prices = append(products[i].Prices, price)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load prices: %w", err)
	}

	catRows, err := q.QueryContext(ctx, categoryQuery, args...)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var cat domain.Category
		var owner int
		if err := catRows.Scan(&owner, &cat.ID, &cat.Name); err != nil {
			return fmt.Errorf("scan category: %w", err)
		}
		if i, ok := index[owner]; ok {
			products[i].Categories = append(products[i].Categories, cat)
		}
	}
	return catRows.Err()
}

func (r *PostgresRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO products (name, "desc", highlight, available, image)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			product.Name, product.Desc, product.Highlight, product.Available, nullString(product.Image)).
			Scan(&product.ID)
		if err != nil {
			return mapWriteErr(err, "product")
		}
		if err := insertPrices(ctx, tx, product); err != nil {
			return err
		}
		return linkCategories(ctx, tx, product)
	})
}

// UpdateProduct rewrites the product row and replaces its whole price and
// category lists.
func (r *PostgresRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE products
			SET name = $1, "desc" = $2, highlight = $3, available = $4
			WHERE id = $5`,
			product.Name, product.Desc, product.Highlight, product.Available, product.ID)
		if err != nil {
			return mapWriteErr(err, "product")
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return domain.NotFound("product not found")
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM prices WHERE product_id = $1`, product.ID); err != nil {
			return fmt.Errorf("clear prices: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM category_products WHERE product_id = $1`, product.ID); err != nil {
			return fmt.Errorf("clear categories: %w", err)
		}
		if err := insertPrices(ctx, tx, product); err != nil {
			return err
		}
		return linkCategories(ctx, tx, product)
	})
}

func (r *PostgresRepository) UpdateProductImage(ctx context.Context, id int, image string) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `UPDATE products SET image = $1 WHERE id = $2`, image, id)
	if err != nil {
		return 0, fmt.Errorf("update product image: %w", err)
	}
	return result.RowsAffected()
}

func insertPrices(ctx context.Context, tx *sql.Tx, product *domain.Product) error {
	for i := range product.Prices {
		price := &product.Prices[i]
		err := tx.QueryRowContext(ctx, `
			INSERT INTO prices (amount, quantity, unit, product_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			price.Amount, price.Quantity, price.Unit, product.ID).Scan(&price.ID)
		if err != nil {
			return mapWriteErr(err, "price")
		}
	}
	return nil
}

// linkCategories get-or-creates each category by name and links it.
func linkCategories(ctx context.Context, tx *sql.Tx, product *domain.Product) error {
	for i := range product.Categories {
		cat := &product.Categories[i]
		err := tx.QueryRowContext(ctx, `
			INSERT INTO categories (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`, cat.Name).Scan(&cat.ID)
		if err != nil {
			return mapWriteErr(err, "category")
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO category_products (category_id, product_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, cat.ID, product.ID); err != nil {
			return mapWriteErr(err, "category link")
		}
	}
	return nil
}

func (r *PostgresRepository) ListDeliveries(ctx context.Context) ([]domain.Delivery, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, distance, amount FROM deliveries ORDER BY distance, id`)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := []domain.Delivery{}
	for rows.Next() {
		var d domain.Delivery
		if err := rows.Scan(&d.ID, &d.Distance, &d.Amount); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}

func (r *PostgresRepository) GetDelivery(ctx context.Context, id int) (*domain.Delivery, error) {
	var d domain.Delivery
	err := r.DB.QueryRowContext(ctx, `SELECT id, distance, amount FROM deliveries WHERE id = $1`, id).
		Scan(&d.ID, &d.Distance, &d.Amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("delivery not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get delivery %d: %w", id, err)
	}
	return &d, nil
}

func (r *PostgresRepository) CreateDelivery(ctx context.Context, delivery *domain.Delivery) error {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO deliveries (distance, amount) VALUES ($1, $2) RETURNING id`,
		delivery.Distance, delivery.Amount).Scan(&delivery.ID)
	if err != nil {
		return mapWriteErr(err, "delivery")
	}
	return nil
}

func (r *PostgresRepository) UpdateDelivery(ctx context.Context, delivery *domain.Delivery) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE deliveries SET distance = $1, amount = $2 WHERE id = $3`,
		delivery.Distance, delivery.Amount, delivery.ID)
	if err != nil {
		return mapWriteErr(err, "delivery")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.NotFound("delivery not found")
	}
	return nil
}

func (r *PostgresRepository) DeleteDelivery(ctx context.Context, id int) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM deliveries WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete delivery %d: %w", id, err)
	}
	return result.RowsAffected()
}

// CreateOrder inserts contact, address, order and items as one unit.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		contact := &order.Contact
		err := tx.QueryRowContext(ctx, `
			INSERT INTO contacts (name, phone, email)
			VALUES ($1, $2, $3)
			RETURNING id`,
			contact.Name, nullString(contact.Phone), nullString(contact.Email)).Scan(&contact.ID)
		if err != nil {
			return mapWriteErr(err, "contact")
		}

		var addrID sql.NullInt64
		if order.Address != nil {
			addr := order.Address
			err := tx.QueryRowContext(ctx, `
				INSERT INTO addresses (street, city, country)
				VALUES ($1, $2, $3)
				RETURNING id`,
				nullString(addr.Street), nullString(addr.City), nullString(addr.Country)).Scan(&addr.ID)
			if err != nil {
				return mapWriteErr(err, "address")
			}
			addrID = sql.NullInt64{Int64: int64(addr.ID), Valid: true}
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO orders ("when", contact_id, addr_id)
			VALUES ($1, $2, $3)
			RETURNING id, created`,
			order.When.Time, contact.ID, addrID).Scan(&order.ID, &order.Created)
		if err != nil {
			return mapWriteErr(err, "order")
		}

		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (product_id, order_id, amount, quantity, unit)
				VALUES ($1, $2, $3, $4, $5)`,
				item.ProductID, item.OrderID, item.Amount, item.Quantity, item.Unit); err != nil {
				return mapWriteErr(err, "order item")
			}
		}
		return nil
	})
}

const orderSelect = `
	SELECT o.id, o.created, o."when",
	       c.id, c.name, COALESCE(c.phone, ''), COALESCE(c.email, ''),
	       a.id, COALESCE(a.street, ''), COALESCE(a.city, ''), COALESCE(a.country, '')
	FROM orders o
	JOIN contacts c ON c.id = o.contact_id
	LEFT JOIN addresses a ON a.id = o.addr_id`

func (r *PostgresRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, orderSelect+` ORDER BY o.created DESC, o.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	if err := r.attachOrderItems(ctx, orders, 0); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx, orderSelect+` WHERE o.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("order not found")
	}
	if err != nil {
		return nil, err
	}

	orders := []domain.Order{*order}
	if err := r.attachOrderItems(ctx, orders, id); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o      domain.Order
		addrID sql.NullInt64
		addr   domain.Address
	)
	err := row.Scan(&o.ID, &o.Created, &o.When.Time,
		&o.Contact.ID, &o.Contact.Name, &o.Contact.Phone, &o.Contact.Email,
		&addrID, &addr.Street, &addr.City, &addr.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}
	if addrID.Valid {
		addr.ID = int(addrID.Int64)
		o.Address = &addr
	}
	o.Items = []domain.OrderItem{}
	return &o, nil
}

func (r *PostgresRepository) attachOrderItems(ctx context.Context, orders []domain.Order, orderID int) error {
	if len(orders) == 0 {
		return nil
	}
	index := make(map[int]int, len(orders))
	for i := range orders {
		index[orders[i].ID] = i
	}

	query := `SELECT order_id, product_id, amount, quantity, unit FROM order_items`
	var args []any
	if orderID != 0 {
		query += ` WHERE order_id = $1`
		args = append(args, orderID)
	}
	query += ` ORDER BY order_id, product_id`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.OrderID, &item.ProductID, &item.Amount, &item.Quantity, &item.Unit); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
