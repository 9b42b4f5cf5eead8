package catalog

import "ivalid/domain"

// Engine owns one ViewState and recomputes the visible list after every
// change. It does no locking; callers serialize access.
type Engine struct {
	state ViewState
}

// NewEngine returns an engine with an empty snapshot and default sort.
func NewEngine() *Engine {
	return &Engine{state: Recompute(ViewState{})}
}

// LoadSnapshot replaces the product snapshot. Categories are replaced only
// when the incoming list is non-empty; an empty list means the fetch was
// unavailable and the previous categories stay.
func (e *Engine) LoadSnapshot(products []domain.Product, categories []domain.Category) {
	e.state.AllProducts = append([]domain.Product(nil), products...)
	if len(categories) > 0 {
		e.state.Categories = append([]domain.Category(nil), categories...)
	}
	e.recompute()
}

// SetQuery stores text verbatim; trimming happens during matching.
func (e *Engine) SetQuery(text string) {
	e.state.Query = text
	e.recompute()
}

// SelectCategory restricts the list to one category. nil and "all" clear it.
func (e *Engine) SelectCategory(id *string) {
	if id == nil || *id == domain.AllCategoryID {
		e.state.SelectedCategoryID = nil
	} else {
		v := *id
		e.state.SelectedCategoryID = &v
	}
	e.recompute()
}

// ToggleFavorite flips IsFavorite on the snapshot product with the given id.
// Unknown ids are ignored.
func (e *Engine) ToggleFavorite(productID string) {
	for i := range e.state.AllProducts {
		if e.state.AllProducts[i].ID != productID {
			continue
		}
		updated := append([]domain.Product(nil), e.state.AllProducts...)
		updated[i].IsFavorite = !updated[i].IsFavorite
		e.state.AllProducts = updated
		break
	}
	e.recompute()
}

func (e *Engine) SetSortMode(mode domain.SortMode) {
	e.state.SortMode = mode
	e.recompute()
}

// State returns a copy that the caller may keep across later mutations.
func (e *Engine) State() ViewState {
	s := e.state
	s.Categories = append([]domain.Category(nil), s.Categories...)
	s.AllProducts = append([]domain.Product(nil), s.AllProducts...)
	s.VisibleProducts = append([]domain.Product(nil), s.VisibleProducts...)
	if s.SelectedCategoryID != nil {
		v := *s.SelectedCategoryID
		s.SelectedCategoryID = &v
	}
	return s
}

// Visible returns the current visible list. The slice is replaced, never
// modified, by later calls, so holding on to it is safe.
func (e *Engine) Visible() []domain.Product {
	return e.state.VisibleProducts
}

// Product looks up id in the full snapshot, regardless of the active filters.
func (e *Engine) Product(id string) (domain.Product, bool) {
	for _, p := range e.state.AllProducts {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (e *Engine) recompute() {
	e.state = Recompute(e.state)
}
