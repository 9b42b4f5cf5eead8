// Package session wires the catalog and cart engines to a data source for
// one user session.
package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"ivalid/domain"
)

// Snapshot is one best-effort fetch result.
type Snapshot struct {
	Products   []domain.Product
	Categories []domain.Category
}

// Loader fetches snapshots from a data source. Source failures are reduced
// to empty lists so a refresh always produces something to show.
type Loader struct {
	source  domain.DataSource
	log     zerolog.Logger
	timeout time.Duration

	sf      singleflight.Group
	loading atomic.Int32
}

func NewLoader(source domain.DataSource, log zerolog.Logger, timeout time.Duration) *Loader {
	return &Loader{
		source:  source,
		log:     log.With().Str("component", "loader").Logger(),
		timeout: timeout,
	}
}

// IsLoading reports whether a fetch is in flight.
func (l *Loader) IsLoading() bool {
	return l.loading.Load() > 0
}

// Fetch reads products and categories concurrently. Callers arriving while a
// fetch is in flight share its result. The only error is ctx's own, returned
// when ctx ends before the fetch completes; the loader's timeout is treated
// as a source failure instead.
func (l *Loader) Fetch(ctx context.Context) (Snapshot, error) {
	ch := l.sf.DoChan("snapshot", func() (interface{}, error) {
		return l.fetch(context.WithoutCancel(ctx)), nil
	})
	select {
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case res := <-ch:
		if err := ctx.Err(); err != nil {
			return Snapshot{}, err
		}
		return res.Val.(Snapshot), nil
	}
}

func (l *Loader) fetch(ctx context.Context) Snapshot {
	l.loading.Add(1)
	defer l.loading.Add(-1)

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := l.source.FetchProducts(gctx)
		if err != nil {
			l.log.Warn().Err(err).Msg("fetch products failed, showing empty catalog")
			products = []domain.Product{}
		}
		snap.Products = products
		return nil
	})
	g.Go(func() error {
		categories, err := l.source.FetchCategories(gctx)
		if err != nil {
			l.log.Warn().Err(err).Msg("fetch categories failed, keeping previous list")
			categories = nil
		}
		snap.Categories = categories
		return nil
	})
	_ = g.Wait()

	l.log.Debug().
		Int("products", len(snap.Products)).
		Int("categories", len(snap.Categories)).
		Dur("duration", time.Since(start)).
		Msg("snapshot fetched")
	return snap
}
