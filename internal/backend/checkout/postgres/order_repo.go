package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dwikikusuma/storefront/internal/backend/checkout"
	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/lib/pq"
)

const schema = `CREATE TABLE IF NOT EXISTS orders (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	item_count INTEGER NOT NULL,
	subtotal   NUMERIC(14,4) NOT NULL,
	tax        NUMERIC(14,4) NOT NULL,
	total      NUMERIC(14,4) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS order_items (
	order_id    TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	product_id  BIGINT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	image       TEXT NOT NULL DEFAULT '',
	unit_price  NUMERIC(12,2) NOT NULL,
	quantity    INTEGER NOT NULL CHECK (quantity > 0),
	PRIMARY KEY (order_id, position)
);
CREATE INDEX IF NOT EXISTS orders_user_created_idx ON orders (user_id, created_at DESC)`

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate orders: %w", err)
	}
	return nil
}

func (r *OrderRepo) execTX(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w; rollback err: %v", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (r *OrderRepo) Create(ctx context.Context, o checkout.Order) (checkout.Order, error) {
	err := r.execTX(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO orders (id, user_id, item_count, subtotal, tax, total, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			o.ID, o.UserID, o.Totals.ItemCount, o.Totals.Subtotal, o.Totals.Tax, o.Totals.Total, o.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i, it := range o.Items {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO order_items (order_id, position, product_id, title, description, image, unit_price, quantity)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				o.ID, i, it.ProductID, it.Title, it.Description, it.Image, it.Price, it.Quantity)
			if err != nil {
				return fmt.Errorf("failed to insert item %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return checkout.Order{}, err
	}
	return o, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]checkout.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, item_count, subtotal, tax, total, created_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []checkout.Order
	index := make(map[string]int)
	for rows.Next() {
		var o checkout.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Totals.ItemCount,
			&o.Totals.Subtotal, &o.Totals.Tax, &o.Totals.Total, &o.CreatedAt); err != nil {
			return nil, err
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	itemRows, err := r.db.QueryContext(ctx,
		`SELECT order_id, product_id, title, description, image, unit_price, quantity
		 FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID string
		var it cartdomain.LineItem
		if err := itemRows.Scan(&orderID, &it.ProductID, &it.Title, &it.Description,
			&it.Image, &it.Price, &it.Quantity); err != nil {
			return nil, err
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return orders, itemRows.Err()
}
