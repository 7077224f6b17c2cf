package domain

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidProduct = errors.New("invalid product")

// Product is immutable once loaded from the catalog.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
	Category    string
}

func (p Product) Validate() error {
	if p.ID <= 0 || p.Name == "" || p.Price.IsNegative() {
		return ErrInvalidProduct
	}
	return nil
}

type productJSON struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Image       string      `json:"image"`
	Category    string      `json:"category,omitempty"`
}

func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(productJSON{
		ID:          p.ID,
		Title:       p.Name,
		Description: p.Description,
		Price:       json.Number(p.Price.String()),
		Image:       p.Image,
		Category:    p.Category,
	})
}

// UnmarshalJSON accepts either "title" or "name", and "image" or "image_url".
func (p *Product) UnmarshalJSON(b []byte) error {
	var w struct {
		ID          int64           `json:"id"`
		Title       string          `json:"title"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Price       decimal.Decimal `json:"price"`
		Image       string          `json:"image"`
		ImageURL    string          `json:"image_url"`
		Category    string          `json:"category"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*p = Product{
		ID:          w.ID,
		Name:        w.Title,
		Description: w.Description,
		Price:       w.Price,
		Image:       w.Image,
		Category:    w.Category,
	}
	if p.Name == "" {
		p.Name = w.Name
	}
	if p.Image == "" {
		p.Image = w.ImageURL
	}
	return nil
}

// Query selects one page of the catalog. Zero values mean first page, no filter.
type Query struct {
	Page     int
	Limit    int
	Search   string
	Category string
}

// Page is what a catalog listing always resolves to, regardless of how the
// server shaped its response.
type Page struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	Total    int       `json:"total"`
	HasMore  bool      `json:"has_more"`
}
