package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ivalid/domain"
)

// catalogDocument is the on-disk layout of a FileSource.
type catalogDocument struct {
	Categories []domain.Category `json:"categories"`
	Products   []domain.Product  `json:"products"`
}

// FileSource is a JSON file-backed domain.DataSource
type FileSource struct {
	mu   sync.RWMutex
	doc  catalogDocument
	path string
}

// compile-time assertion
var _ domain.DataSource = (*FileSource)(nil)

// NewFileSource constructs a FileSource at the given path. If the file exists
// it is loaded; a bare JSON array is read as a product list.
func NewFileSource(path string) (*FileSource, error) {
	s := &FileSource{path: path}
	if err := s.loadFromFile(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

func (s *FileSource) loadFromFile() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// no file yet; that's fine
			return nil
		}
		return err
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	if b[0] == '[' {
		return json.Unmarshal(b, &s.doc.Products)
	}
	return json.Unmarshal(b, &s.doc)
}

// saveToFile writes doc; s.doc is only replaced by callers once this succeeds.
func (s *FileSource) saveToFile(doc catalogDocument) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileSource) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product(nil), s.doc.Products...), nil
}

func (s *FileSource) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category(nil), s.doc.Categories...), nil
}

func (s *FileSource) Get(ctx context.Context, id string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.doc.Products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.NewProductNotFoundError(id)
}

// Import appends the valid products and persists them. Rejected products are
// reported in the returned error; the accepted ones are still written.
func (s *FileSource) Import(ctx context.Context, products []domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]bool, len(s.doc.Products))
	for _, p := range s.doc.Products {
		existing[p.ID] = true
	}
	accepted, rejected := prepareImport(products, func(id string) bool { return existing[id] })
	if len(accepted) == 0 {
		return rejected
	}
	next := s.doc
	next.Products = append(append([]domain.Product(nil), s.doc.Products...), accepted...)
	if err := s.saveToFile(next); err != nil {
		return errors.Join(rejected, fmt.Errorf("save %s: %w", s.path, err))
	}
	s.doc = next
	return rejected
}

// SetCategories replaces the stored category list and persists it.
func (s *FileSource) SetCategories(ctx context.Context, categories []domain.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := prepareCategories(categories); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.doc
	next.Categories = append([]domain.Category(nil), categories...)
	if err := s.saveToFile(next); err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	s.doc = next
	return nil
}
