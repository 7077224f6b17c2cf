package domain

import (
	"encoding/json"

	catalog "github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

// LineItem is one product in the cart. Title, description, price and image are
// copied from the product when it is first added. Quantity is always >= 1.
type LineItem struct {
	ProductID   int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Quantity    int             `json:"quantity"`
}

func NewLineItem(p catalog.Product, qty int) LineItem {
	if qty < 1 {
		qty = 1
	}
	return LineItem{
		ProductID:   p.ID,
		Title:       p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Quantity:    qty,
	}
}

func (li LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

func (li LineItem) MarshalJSON() ([]byte, error) {
	type alias LineItem
	return json.Marshal(struct {
		alias
		Price json.Number `json:"price"`
	}{alias(li), json.Number(li.Price.String())})
}

// UnmarshalJSON accepts a spread product as well, so "name" stands in for
// "title" and "image_url" for "image".
func (li *LineItem) UnmarshalJSON(b []byte) error {
	type alias LineItem
	var w struct {
		alias
		Name     string `json:"name"`
		ImageURL string `json:"image_url"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*li = LineItem(w.alias)
	if li.Title == "" {
		li.Title = w.Name
	}
	if li.Image == "" {
		li.Image = w.ImageURL
	}
	return nil
}

// IndexOf returns the position of productID in items, or -1.
func IndexOf(items []LineItem, productID int64) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
