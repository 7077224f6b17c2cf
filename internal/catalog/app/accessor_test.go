package app

import (
	"context"
	"errors"
	"testing"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		q := Normalize(domain.Query{})
		if q.Page != 1 || q.Limit != DefaultLimit {
			t.Fatalf("got %+v", q)
		}
	})

	t.Run("limit clamp", func(t *testing.T) {
		q := Normalize(domain.Query{Page: 3, Limit: 1000, Search: "  hub "})
		if q.Page != 3 || q.Limit != MaxLimit || q.Search != "hub" {
			t.Fatalf("got %+v", q)
		}
	})
}

func TestAccessor_List(t *testing.T) {
	ctx := context.Background()
	src := seeded()
	acc := NewAccessor(src, &fakeActions{}, fakeSession(false), logger.Discard())

	page, err := acc.List(ctx, domain.Query{Limit: 4})
	require.NoError(t, err)
	require.Len(t, page.Products, 4)
	require.True(t, page.HasMore)
	require.Equal(t, 6, page.Total)

	page, err = acc.List(ctx, domain.Query{Page: 2, Limit: 4})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	require.False(t, page.HasMore)

	page, err = acc.List(ctx, domain.Query{Category: "audio"})
	require.NoError(t, err)
	require.Len(t, page.Products, 2)

	page, err = acc.Search(ctx, "key", domain.Query{})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	require.Equal(t, "Keyboard", page.Products[0].Name)

	src.err = errors.New("network error")
	_, err = acc.List(ctx, domain.Query{})
	require.Error(t, err)
}

func TestAccessor_Get(t *testing.T) {
	acc := NewAccessor(seeded(), &fakeActions{}, fakeSession(false), logger.Discard())

	_, err := acc.Get(context.Background(), 0)
	if err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	p, err := acc.Get(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, "Speaker", p.Name)
}

func TestAccessor_UserListsNeedSession(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		actions := &fakeActions{}
		acc := NewAccessor(seeded(), actions, fakeSession(false), logger.Discard())

		require.ErrorIs(t, acc.AddFavorite(ctx, 1), ErrLoginRequired)
		_, err := acc.Favorites(ctx)
		require.ErrorIs(t, err, ErrLoginRequired)

		recs, err := acc.Recommendations(ctx)
		require.NoError(t, err)
		require.Empty(t, recs)

		acc.RecordView(ctx, 1)
		require.Empty(t, actions.views)
	})

	t.Run("logged in", func(t *testing.T) {
		actions := &fakeActions{}
		acc := NewAccessor(seeded(), actions, fakeSession(true), logger.Discard())

		require.NoError(t, acc.AddFavorite(ctx, 2))
		favs, err := acc.Favorites(ctx)
		require.NoError(t, err)
		require.Len(t, favs, 1)

		recs, err := acc.Recommendations(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 2)

		acc.RecordView(ctx, 5)
		require.Equal(t, []int64{5}, actions.views)
	})

	t.Run("record view swallows errors", func(t *testing.T) {
		actions := &fakeActions{err: errors.New("timeout")}
		acc := NewAccessor(seeded(), actions, fakeSession(true), logger.Discard())
		acc.RecordView(ctx, 5)
		require.Equal(t, []int64{5}, actions.views)
	})
}
