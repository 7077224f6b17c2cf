package checkout

import (
	"context"
	"slices"
	"sync"
)

type MemoryOrders struct {
	mu     sync.RWMutex
	byUser map[string][]Order
}

func NewMemoryOrders() *MemoryOrders {
	return &MemoryOrders{byUser: make(map[string][]Order)}
}

func (m *MemoryOrders) Create(_ context.Context, o Order) (Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byUser[o.UserID] = append(m.byUser[o.UserID], o)
	return o, nil
}

// ListByUser returns newest first.
func (m *MemoryOrders) ListByUser(_ context.Context, userID string) ([]Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := slices.Clone(m.byUser[userID])
	slices.Reverse(out)
	return out, nil
}
