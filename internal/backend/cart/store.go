// Package cart keeps one cart per user for the development backend.
package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
	catalogdomain "github.com/dwikikusuma/storefront/internal/catalog/domain"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// Line is a stored cart row. Product details are resolved when read.
type Line struct {
	ProductID int64
	Quantity  int
}

type Products interface {
	GetProduct(ctx context.Context, id int64) (catalogdomain.Product, error)
}

type Store struct {
	products Products

	locks sync.Map // userID -> *sync.Mutex

	mu    sync.RWMutex
	carts map[string][]Line
}

func NewStore(products Products) *Store {
	return &Store{products: products, carts: make(map[string][]Line)}
}

// lockForUser serialises cart mutations of one user.
func (s *Store) lockForUser(userID string) func() {
	if v, ok := s.locks.Load(userID); ok {
		m := v.(*sync.Mutex)
		m.Lock()
		return m.Unlock
	}
	actual, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	m := actual.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func (s *Store) lines(userID string) []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Line(nil), s.carts[userID]...)
}

func (s *Store) put(userID string, lines []Line) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(lines) == 0 {
		delete(s.carts, userID)
		return
	}
	s.carts[userID] = lines
}

func indexOf(lines []Line, id int64) int {
	for i, l := range lines {
		if l.ProductID == id {
			return i
		}
	}
	return -1
}

// Add increments the line for productID, creating it at the end if needed.
func (s *Store) Add(ctx context.Context, userID string, productID int64, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return err
	}

	unlock := s.lockForUser(userID)
	defer unlock()

	lines := s.lines(userID)
	if i := indexOf(lines, productID); i >= 0 {
		lines[i].Quantity += qty
	} else {
		lines = append(lines, Line{ProductID: productID, Quantity: qty})
	}
	s.put(userID, lines)
	return nil
}

// Set replaces the quantity. Zero or less removes the line; an absent line is
// left alone.
func (s *Store) Set(ctx context.Context, userID string, productID int64, qty int) error {
	unlock := s.lockForUser(userID)
	defer unlock()

	lines := s.lines(userID)
	i := indexOf(lines, productID)
	if i < 0 {
		return nil
	}
	if qty <= 0 {
		lines = append(lines[:i], lines[i+1:]...)
	} else {
		lines[i].Quantity = qty
	}
	s.put(userID, lines)
	return nil
}

func (s *Store) Remove(ctx context.Context, userID string, productID int64) error {
	return s.Set(ctx, userID, productID, 0)
}

func (s *Store) Clear(ctx context.Context, userID string) error {
	unlock := s.lockForUser(userID)
	defer unlock()
	s.put(userID, nil)
	return nil
}

func (s *Store) Lines(ctx context.Context, userID string) ([]Line, error) {
	return s.lines(userID), nil
}

// Items resolves the stored lines against the catalog. Lines whose product
// has disappeared are skipped.
func (s *Store) Items(ctx context.Context, userID string) ([]domain.LineItem, error) {
	lines := s.lines(userID)
	out := make([]domain.LineItem, 0, len(lines))
	for _, l := range lines {
		p, err := s.products.GetProduct(ctx, l.ProductID)
		if err != nil {
			continue
		}
		out = append(out, domain.NewLineItem(p, l.Quantity))
	}
	return out, nil
}

// Popularity counts how many carts hold each product.
func (s *Store) Popularity(ctx context.Context) map[int64]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]int)
	for _, lines := range s.carts {
		for _, l := range lines {
			out[l.ProductID]++
		}
	}
	return out
}
