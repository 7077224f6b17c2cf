package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dwikikusuma/storefront/internal/backend/catalog"
	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/lib/pq"
)

const schema = `CREATE TABLE IF NOT EXISTS products (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price       NUMERIC(12,2) NOT NULL CHECK (price >= 0),
	image       TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT ''
)`

// filterClause matches when every word in $1 appears in the name or the
// description.
const filterClause = ` WHERE NOT EXISTS (
		SELECT 1 FROM unnest($1::text[]) AS term
		WHERE name NOT ILIKE '%' || term || '%' AND description NOT ILIKE '%' || term || '%')
	AND ($2 = '' OR lower(category) = lower($2))`

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate products: %w", err)
	}
	return nil
}

// Seed inserts products that are not there yet, keeping their ids.
func (r *ProductRepo) Seed(ctx context.Context, products []domain.Product) error {
	for _, p := range products {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO products (id, name, description, price, image, category)
			 VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Name, p.Description, p.Price, p.Image, p.Category)
		if err != nil {
			return fmt.Errorf("seed product %d: %w", p.ID, err)
		}
	}
	if len(products) > 0 {
		_, err := r.db.ExecContext(ctx,
			`SELECT setval(pg_get_serial_sequence('products', 'id'), (SELECT MAX(id) FROM products))`)
		if err != nil {
			return fmt.Errorf("advance product sequence: %w", err)
		}
	}
	return nil
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO products (name, description, price, image, category)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		p.Name, p.Description, p.Price, p.Image, p.Category,
	).Scan(&p.ID)
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, price, image, category FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, catalog.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) List(ctx context.Context, f catalog.Filter) ([]domain.Product, int, error) {
	terms := pq.StringArray(strings.Fields(f.Search))
	if terms == nil {
		terms = pq.StringArray{}
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM products`+filterClause, terms, f.Category,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, price, image, category FROM products`+filterClause+
			` ORDER BY id LIMIT $3 OFFSET $4`,
		terms, f.Category, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.Product, 0, f.Limit)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Category); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
