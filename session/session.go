package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"ivalid/cart"
	"ivalid/catalog"
	"ivalid/domain"
)

// CartView is what the cart screen renders.
type CartView struct {
	Lines []cart.Line
	// Products is the number of distinct products; Count sums quantities.
	Products int
	Count    int
	Empty    bool
	Total    float64
	// Exact is Total without float rounding.
	Exact decimal.Decimal
}

// Listener is called after every change with the state that resulted from it.
type Listener func(view catalog.ViewState, c CartView)

// Session serializes user actions against one catalog engine and one cart.
// It is safe for concurrent use; the engines it owns are not.
type Session struct {
	mu        sync.Mutex
	catalog   *catalog.Engine
	cart      *cart.Cart
	loader    *Loader
	listeners []Listener
}

type options struct {
	log     zerolog.Logger
	timeout time.Duration
}

// Option configures a Session.
type Option func(*options)

func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithFetchTimeout bounds each snapshot fetch; zero means no bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// New returns a session with an empty catalog. Call Refresh to load it.
func New(source domain.DataSource, opts ...Option) *Session {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Session{
		catalog: catalog.NewEngine(),
		cart:    cart.New(),
		loader:  NewLoader(source, o.log, o.timeout),
	}
}

// OnChange registers fn to run after every state change.
func (s *Session) OnChange(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Refresh fetches a new snapshot and loads it into the catalog. The fetch
// runs without holding the session, so user actions are not blocked by it.
func (s *Session) Refresh(ctx context.Context) error {
	snap, err := s.loader.Fetch(ctx)
	if err != nil {
		return err
	}
	s.update(func() {
		s.catalog.LoadSnapshot(snap.Products, snap.Categories)
	})
	return nil
}

func (s *Session) IsLoading() bool {
	return s.loader.IsLoading()
}

func (s *Session) Search(text string) {
	s.update(func() { s.catalog.SetQuery(text) })
}

// SelectCategory filters by category id; "" and "all" show everything.
func (s *Session) SelectCategory(id string) {
	s.update(func() {
		if id == "" {
			s.catalog.SelectCategory(nil)
			return
		}
		s.catalog.SelectCategory(&id)
	})
}

func (s *Session) Sort(mode domain.SortMode) {
	s.update(func() { s.catalog.SetSortMode(mode) })
}

func (s *Session) ToggleFavorite(productID string) {
	s.update(func() { s.catalog.ToggleFavorite(productID) })
}

// AddToCart adds quantity units of a snapshot product. The product may be
// hidden by the current filters; it only has to be in the snapshot.
func (s *Session) AddToCart(productID string, quantity int) error {
	var err error
	s.update(func() {
		p, ok := s.catalog.Product(productID)
		if !ok {
			err = domain.NewProductNotFoundError(productID)
			return
		}
		s.cart.Add(p, quantity)
	})
	return err
}

func (s *Session) SetQuantity(productID string, quantity int) {
	s.update(func() { s.cart.SetQuantity(productID, quantity) })
}

func (s *Session) RemoveFromCart(productID string) {
	s.update(func() { s.cart.Remove(productID) })
}

func (s *Session) ClearCart() {
	s.update(func() { s.cart.Clear() })
}

// View returns a copy of the catalog view state.
func (s *Session) View() catalog.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.State()
}

func (s *Session) CartView() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartView()
}

func (s *Session) cartView() CartView {
	return CartView{
		Lines:    s.cart.Lines(),
		Products: s.cart.Len(),
		Count:    s.cart.Count(),
		Empty:    s.cart.IsEmpty(),
		Total:    s.cart.Total(),
		Exact:    s.cart.TotalDecimal(),
	}
}

// InCart returns how many units of productID the cart holds, 0 if none.
func (s *Session) InCart(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.cart.Line(productID)
	if !ok {
		return 0
	}
	return l.Quantity
}

// update applies fn under the lock, then notifies listeners outside it.
func (s *Session) update(fn func()) {
	s.mu.Lock()
	fn()
	listeners := append([]Listener(nil), s.listeners...)
	var view catalog.ViewState
	var cv CartView
	if len(listeners) > 0 {
		view = s.catalog.State()
		cv = s.cartView()
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(view, cv)
	}
}
