package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
	catalog "github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/internal/pricing"
)

var ErrEmptyCart = errors.New("cart is empty")

type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

// Receipt summarises a completed checkout.
type Receipt struct {
	OrderID   string
	Items     []domain.LineItem
	Totals    pricing.Totals
	Mode      Mode
	CreatedAt time.Time
}

// Service is the cart every caller talks to. Each call is routed to the
// backend while a session is active and to the local Store otherwise.
//
// A failed remote mutation is returned as is. Nothing is rolled back and
// nothing is replayed into the local cart.
type Service struct {
	local   *Store
	remote  *RemoteCart
	session Session
	marker  Marker
	log     *slog.Logger
}

func NewService(local *Store, remote *RemoteCart, session Session, marker Marker, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{local: local, remote: remote, session: session, marker: marker, log: log}
}

func (s *Service) Mode() Mode {
	if s.remote != nil && s.session.IsAuthenticated() {
		return ModeRemote
	}
	return ModeLocal
}

func (s *Service) Local() *Store { return s.local }

func (s *Service) Add(ctx context.Context, p catalog.Product, qty int) error {
	if s.Mode() == ModeRemote {
		if err := s.remote.Add(ctx, p.ID, qty); err != nil {
			return err
		}
	} else {
		s.local.Add(ctx, p, qty)
	}

	if s.marker != nil {
		if err := s.marker.Mark(ctx, p.ID); err != nil {
			s.log.Warn("mark recently added failed", slog.Int64("product_id", p.ID), slog.Any("err", err))
		}
	}
	return nil
}

func (s *Service) UpdateQuantity(ctx context.Context, productID int64, qty int) error {
	if s.Mode() == ModeRemote {
		return s.remote.UpdateQuantity(ctx, productID, qty)
	}
	s.local.UpdateQuantity(ctx, productID, qty)
	return nil
}

func (s *Service) Adjust(ctx context.Context, productID int64, delta int) error {
	if s.Mode() == ModeRemote {
		return s.remote.Adjust(ctx, productID, delta)
	}
	s.local.Adjust(ctx, productID, delta)
	return nil
}

func (s *Service) Remove(ctx context.Context, productID int64) error {
	if s.Mode() == ModeRemote {
		return s.remote.Remove(ctx, productID)
	}
	s.local.Remove(ctx, productID)
	return nil
}

func (s *Service) Clear(ctx context.Context) error {
	if s.Mode() == ModeRemote {
		return s.remote.Clear(ctx)
	}
	s.local.Clear(ctx)
	return nil
}

func (s *Service) Items(ctx context.Context) ([]domain.LineItem, error) {
	if s.Mode() == ModeRemote {
		return s.remote.Items(ctx)
	}
	return s.local.Snapshot(), nil
}

func (s *Service) Totals(ctx context.Context) (pricing.Totals, error) {
	if s.Mode() == ModeRemote {
		return s.remote.Totals(ctx)
	}
	return s.local.Totals(), nil
}

// RecentlyAdded reports the product of the last successful Add.
func (s *Service) RecentlyAdded(ctx context.Context) (int64, bool) {
	if s.marker == nil {
		return 0, false
	}
	id, ok, err := s.marker.Get(ctx)
	if err != nil {
		s.log.Warn("read recently added failed", slog.Any("err", err))
		return 0, false
	}
	return id, ok
}

// Checkout settles the cart. Locally it is simulated: the summary is computed
// and the cart cleared. Remotely the backend records an order.
func (s *Service) Checkout(ctx context.Context) (Receipt, error) {
	var (
		rc  Receipt
		err error
	)
	if s.Mode() == ModeRemote {
		rc, err = s.checkoutRemote(ctx)
	} else {
		rc, err = s.checkoutLocal(ctx)
	}
	if err != nil {
		return Receipt{}, err
	}

	if s.marker != nil {
		if err := s.marker.Clear(ctx); err != nil {
			s.log.Warn("clear recently added failed", slog.Any("err", err))
		}
	}
	s.log.Info("checkout complete",
		slog.String("mode", string(rc.Mode)),
		slog.String("order_id", rc.OrderID),
		slog.Int("item_count", rc.Totals.ItemCount),
		slog.String("total", pricing.FormatUSD(rc.Totals.Total)))
	return rc, nil
}

func (s *Service) checkoutLocal(ctx context.Context) (Receipt, error) {
	items := s.local.Drain(ctx)
	if len(items) == 0 {
		return Receipt{}, ErrEmptyCart
	}
	return Receipt{
		Items:     items,
		Totals:    s.local.engine.Compute(items),
		Mode:      ModeLocal,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (s *Service) checkoutRemote(ctx context.Context) (Receipt, error) {
	items, err := s.remote.Items(ctx)
	if err != nil {
		return Receipt{}, err
	}
	if len(items) == 0 {
		return Receipt{}, ErrEmptyCart
	}
	return s.remote.Checkout(ctx)
}
