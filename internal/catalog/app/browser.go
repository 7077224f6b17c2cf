package app

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
)

// Result is one completed listing fetch.
type Result struct {
	Query domain.Query
	Page  domain.Page
	Err   error
}

// Browser keeps the listing state of a product grid: page, search term and
// category. Search input is debounced; everything else fetches at once.
// Only the result of the newest request is delivered.
type Browser struct {
	acc *Accessor
	deb *Debouncer
	log *slog.Logger

	mu      sync.Mutex
	q       domain.Query
	seq     uint64
	closed  bool
	wg      sync.WaitGroup
	results chan Result
	done    chan struct{}
}

func NewBrowser(acc *Accessor, debounce time.Duration, limit int, log *slog.Logger) *Browser {
	if log == nil {
		log = slog.Default()
	}
	return &Browser{
		acc:     acc,
		deb:     NewDebouncer(debounce),
		log:     log,
		q:       Normalize(domain.Query{Limit: limit}),
		results: make(chan Result, 8),
		done:    make(chan struct{}),
	}
}

// Results is closed by Close.
func (b *Browser) Results() <-chan Result { return b.results }

func (b *Browser) Query() domain.Query {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.q
}

// Type records a search keystroke. The fetch happens once typing pauses, and
// starts again from page 1.
func (b *Browser) Type(ctx context.Context, term string) {
	b.mu.Lock()
	b.q.Search = strings.TrimSpace(term)
	b.q.Page = 1
	b.mu.Unlock()

	b.deb.Trigger(func() { b.fetch(ctx) })
}

// SelectCategory filters immediately and resets to page 1. "" clears the filter.
func (b *Browser) SelectCategory(ctx context.Context, category string) {
	b.mu.Lock()
	b.q.Category = strings.TrimSpace(category)
	b.q.Page = 1
	b.mu.Unlock()
	b.fetch(ctx)
}

func (b *Browser) NextPage(ctx context.Context) {
	b.mu.Lock()
	b.q.Page++
	b.mu.Unlock()
	b.fetch(ctx)
}

// PrevPage does nothing on the first page.
func (b *Browser) PrevPage(ctx context.Context) {
	b.mu.Lock()
	if b.q.Page <= 1 {
		b.mu.Unlock()
		return
	}
	b.q.Page--
	b.mu.Unlock()
	b.fetch(ctx)
}

func (b *Browser) Refresh(ctx context.Context) { b.fetch(ctx) }

// Flush issues a pending debounced search now.
func (b *Browser) Flush() { b.deb.Flush() }

// Close drops any pending search, waits for fetches in flight and closes
// Results.
func (b *Browser) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.deb.Stop()
	close(b.done)
	b.wg.Wait()
	close(b.results)
}

func (b *Browser) fetch(ctx context.Context) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.seq++
	seq, q := b.seq, b.q
	b.wg.Add(1)
	b.mu.Unlock()
	defer b.wg.Done()

	page, err := b.acc.List(ctx, q)

	b.mu.Lock()
	stale := seq != b.seq
	b.mu.Unlock()
	if stale {
		b.log.Debug("dropping stale listing", slog.Int("page", q.Page), slog.String("search", q.Search))
		return
	}

	select {
	case b.results <- Result{Query: q, Page: page, Err: err}:
	case <-b.done:
	case <-ctx.Done():
	}
}
