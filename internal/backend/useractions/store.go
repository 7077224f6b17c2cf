// Package useractions records favorites and recently viewed products per user.
package useractions

import (
	"context"
	"slices"
	"sync"
)

const MaxRecentlyViewed = 20

type Store struct {
	mu        sync.RWMutex
	favorites map[string][]int64
	viewed    map[string][]int64
}

func NewStore() *Store {
	return &Store{
		favorites: make(map[string][]int64),
		viewed:    make(map[string][]int64),
	}
}

// AddFavorite appends productID once; repeats are ignored.
func (s *Store) AddFavorite(_ context.Context, userID string, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.favorites[userID], productID) {
		s.favorites[userID] = append(s.favorites[userID], productID)
	}
	return nil
}

func (s *Store) Favorites(_ context.Context, userID string) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.favorites[userID]), nil
}

// RecordView moves productID to the front of the user's history.
func (s *Store) RecordView(_ context.Context, userID string, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := slices.DeleteFunc(slices.Clone(s.viewed[userID]), func(id int64) bool { return id == productID })
	list = append([]int64{productID}, list...)
	if len(list) > MaxRecentlyViewed {
		list = list[:MaxRecentlyViewed]
	}
	s.viewed[userID] = list
	return nil
}

// RecentlyViewed is newest first.
func (s *Store) RecentlyViewed(_ context.Context, userID string) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.viewed[userID]), nil
}

// Interested merges favorites and history, without duplicates.
func (s *Store) Interested(ctx context.Context, userID string) []int64 {
	fav, _ := s.Favorites(ctx, userID)
	seen, _ := s.RecentlyViewed(ctx, userID)
	out := make([]int64, 0, len(fav)+len(seen))
	for _, id := range append(fav, seen...) {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
