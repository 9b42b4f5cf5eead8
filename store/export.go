package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"ivalid/domain"
)

// ExportCatalog writes the categories and products of src to w in the
// FileSource document layout, so the output can back a file source.
func ExportCatalog(ctx context.Context, src domain.DataSource, w io.Writer) error {
	products, err := src.FetchProducts(ctx)
	if err != nil {
		return fmt.Errorf("fetch products: %w", err)
	}
	categories, err := src.FetchCategories(ctx)
	if err != nil {
		return fmt.Errorf("fetch categories: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(catalogDocument{Categories: categories, Products: products})
}
