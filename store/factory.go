package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"ivalid/config"
	"ivalid/domain"
)

// Importer is implemented by sources that accept new products.
type Importer interface {
	Import(ctx context.Context, products []domain.Product) error
}

// CategoryWriter is implemented by sources whose category list can be replaced.
type CategoryWriter interface {
	SetCategories(ctx context.Context, categories []domain.Category) error
}

// ProductGetter looks a single product up in the source itself, bypassing
// any snapshot a session may hold.
type ProductGetter interface {
	Get(ctx context.Context, id string) (domain.Product, error)
}

// NewSource constructs a domain.DataSource by kind: "memory" (fixture
// catalog), "empty", "file" or "firestore".
func NewSource(ctx context.Context, cfg config.SourceConfig, log zerolog.Logger) (domain.DataSource, error) {
	switch cfg.Kind {
	case "memory", "mem", "fixture":
		return NewFixtureSource(), nil
	case "empty":
		return NewInMemorySource(), nil
	case "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("file path required for file source")
		}
		s, err := NewFileSource(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "firestore":
		s, err := NewFirestoreSource(ctx, FirestoreConfig{
			ProjectID:            cfg.ProjectID,
			CredentialsFile:      cfg.CredentialsFile,
			ProductsCollection:   cfg.ProductsCollection,
			CategoriesCollection: cfg.CategoriesCollection,
		}, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown source kind: %s", cfg.Kind)
	}
}

var (
	_ Importer = (*InMemorySource)(nil)
	_ Importer = (*FileSource)(nil)
	_ Importer = (*FirestoreSource)(nil)

	_ CategoryWriter = (*InMemorySource)(nil)
	_ CategoryWriter = (*FileSource)(nil)
	_ CategoryWriter = (*FirestoreSource)(nil)

	_ ProductGetter = (*InMemorySource)(nil)
	_ ProductGetter = (*FileSource)(nil)
	_ ProductGetter = (*FirestoreSource)(nil)
)
