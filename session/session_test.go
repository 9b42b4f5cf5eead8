package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ivalid/catalog"
	"ivalid/domain"
	"ivalid/store"
)

// blockingSource counts fetches and can hold them until released.
type blockingSource struct {
	*store.InMemorySource
	calls   atomic.Int32
	release chan struct{}
	catErr  error
}

func (b *blockingSource) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	b.calls.Add(1)
	if b.release != nil {
		select {
		case <-b.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return b.InMemorySource.FetchProducts(ctx)
}

func (b *blockingSource) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	if b.catErr != nil {
		return nil, b.catErr
	}
	return b.InMemorySource.FetchCategories(ctx)
}

func TestRefreshLoadsSnapshot(t *testing.T) {
	s := New(store.NewFixtureSource())
	require.NoError(t, s.Refresh(context.Background()))

	view := s.View()
	assert.Len(t, view.AllProducts, len(store.FixtureProducts()))
	assert.Len(t, view.VisibleProducts, len(store.FixtureProducts()))
	assert.Len(t, view.Categories, len(store.FixtureCategories()))
	assert.False(t, s.IsLoading())
}

func TestRefreshFailureDegradesToEmpty(t *testing.T) {
	src := store.NewFixtureSource()
	s := New(src, WithLogger(zerolog.Nop()))
	require.NoError(t, s.Refresh(context.Background()))

	src.FailWith(errors.New("firestore unavailable"))
	require.NoError(t, s.Refresh(context.Background()))

	view := s.View()
	assert.Empty(t, view.AllProducts)
	assert.Empty(t, view.VisibleProducts)
	assert.Len(t, view.Categories, len(store.FixtureCategories()), "previous categories kept")
	assert.False(t, s.IsLoading())
}

func TestRefreshCategoryFailureKeepsProducts(t *testing.T) {
	src := &blockingSource{InMemorySource: store.NewFixtureSource(), catErr: errors.New("denied")}
	s := New(src)
	require.NoError(t, s.Refresh(context.Background()))

	view := s.View()
	assert.Len(t, view.AllProducts, len(store.FixtureProducts()))
	assert.Empty(t, view.Categories)
}

func TestRefreshTimeoutIsSourceFailure(t *testing.T) {
	src := &blockingSource{InMemorySource: store.NewFixtureSource(), release: make(chan struct{})}
	s := New(src, WithFetchTimeout(20*time.Millisecond))

	require.NoError(t, s.Refresh(context.Background()))
	assert.Empty(t, s.View().AllProducts)
	assert.False(t, s.IsLoading())
}

func TestRefreshCanceledDoesNotApply(t *testing.T) {
	src := &blockingSource{InMemorySource: store.NewFixtureSource(), release: make(chan struct{})}
	s := New(src)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Refresh(ctx) }()

	require.Eventually(t, s.IsLoading, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Empty(t, s.View().AllProducts)

	close(src.release)
	require.Eventually(t, func() bool { return !s.IsLoading() }, time.Second, time.Millisecond)
}

func TestConcurrentRefreshSharesFetch(t *testing.T) {
	src := &blockingSource{InMemorySource: store.NewFixtureSource(), release: make(chan struct{})}
	s := New(src)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Refresh(context.Background()))
		}()
	}
	require.Eventually(t, s.IsLoading, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.release)
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
	assert.Len(t, s.View().AllProducts, len(store.FixtureProducts()))
}

func TestUserActions(t *testing.T) {
	s := New(store.NewFixtureSource())
	require.NoError(t, s.Refresh(context.Background()))

	s.Search("pão")
	view := s.View()
	require.Len(t, view.VisibleProducts, 1)
	assert.Equal(t, "1", view.VisibleProducts[0].ID)

	s.Search("")
	s.SelectCategory("laticinios")
	view = s.View()
	for _, p := range view.VisibleProducts {
		assert.Equal(t, "laticinios", p.CategoryID)
	}
	require.NotNil(t, view.SelectedCategoryID)

	s.SelectCategory("")
	assert.Nil(t, s.View().SelectedCategoryID)
	s.SelectCategory(domain.AllCategoryID)
	assert.Nil(t, s.View().SelectedCategoryID)

	s.Sort(domain.SortPriceAsc)
	visible := s.View().VisibleProducts
	for i := 1; i < len(visible); i++ {
		assert.LessOrEqual(t, visible[i-1].PriceNow, visible[i].PriceNow)
	}

	s.ToggleFavorite("3")
	for _, p := range s.View().AllProducts {
		assert.Equal(t, p.ID == "3", p.IsFavorite)
	}
}

func TestCartActions(t *testing.T) {
	s := New(store.NewFixtureSource())
	require.NoError(t, s.Refresh(context.Background()))

	// hidden by the filter but still in the snapshot
	s.SelectCategory("bebidas")
	require.NoError(t, s.AddToCart("1", 2))
	require.NoError(t, s.AddToCart("1", 1))
	require.NoError(t, s.AddToCart("5", 2))

	cv := s.CartView()
	require.Len(t, cv.Lines, 2)
	assert.Equal(t, 2, cv.Products)
	assert.False(t, cv.Empty)
	assert.Equal(t, 5, cv.Count)
	assert.Equal(t, 3, s.InCart("1"))
	assert.Equal(t, 0, s.InCart("7"))
	assert.InDelta(t, 3*7.9+2*3.49, cv.Total, 1e-9)
	assert.Equal(t, "30.68", cv.Exact.StringFixed(2))

	err := s.AddToCart("999", 1)
	assert.True(t, domain.IsProductNotFoundError(err))

	s.SetQuantity("1", 0)
	s.SetQuantity("1", 4)
	cv = s.CartView()
	require.Len(t, cv.Lines, 1)
	assert.Equal(t, "5", cv.Lines[0].Product.ID)

	s.RemoveFromCart("5")
	assert.Empty(t, s.CartView().Lines)

	require.NoError(t, s.AddToCart("2", 1))
	s.ClearCart()
	cv = s.CartView()
	assert.Equal(t, 0, cv.Count)
	assert.True(t, cv.Empty)
	assert.Equal(t, 0, s.InCart("2"))
}

func TestCartSurvivesRefresh(t *testing.T) {
	src := store.NewFixtureSource()
	s := New(src)
	require.NoError(t, s.Refresh(context.Background()))
	require.NoError(t, s.AddToCart("4", 1))

	src.FailWith(errors.New("offline"))
	require.NoError(t, s.Refresh(context.Background()))

	cv := s.CartView()
	require.Len(t, cv.Lines, 1)
	assert.Equal(t, "4", cv.Lines[0].Product.ID)
}

func TestOnChange(t *testing.T) {
	s := New(store.NewFixtureSource())
	var views []catalog.ViewState
	var carts []CartView
	s.OnChange(func(v catalog.ViewState, c CartView) {
		views = append(views, v)
		carts = append(carts, c)
		_ = s.View() // listeners may call back into the session
	})

	require.NoError(t, s.Refresh(context.Background()))
	s.Search("leite")
	require.NoError(t, s.AddToCart("2", 2))

	require.Len(t, views, 3)
	assert.Len(t, views[1].VisibleProducts, 1)
	assert.Equal(t, 2, carts[2].Count)
}
