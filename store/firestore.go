package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"ivalid/domain"
)

// FirestoreConfig points a FirestoreSource at a project and its collections.
type FirestoreConfig struct {
	ProjectID            string
	CredentialsFile      string
	ProductsCollection   string
	CategoriesCollection string
}

// FirestoreSource reads the catalog from Cloud Firestore collections.
type FirestoreSource struct {
	client     *firestore.Client
	products   string
	categories string
	log        zerolog.Logger
}

// compile-time assertion
var _ domain.DataSource = (*FirestoreSource)(nil)

// NewFirestoreSource initializes a Firebase app and its Firestore client.
// Without a credentials file the application default credentials are used,
// which also covers FIRESTORE_EMULATOR_HOST.
func NewFirestoreSource(ctx context.Context, cfg FirestoreConfig, log zerolog.Logger) (*FirestoreSource, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("firestore project id required")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firestore client: %w", err)
	}

	s := &FirestoreSource{
		client:     client,
		products:   cfg.ProductsCollection,
		categories: cfg.CategoriesCollection,
		log:        log.With().Str("source", "firestore").Logger(),
	}
	if s.products == "" {
		s.products = "produtos"
	}
	if s.categories == "" {
		s.categories = "categories"
	}
	return s, nil
}

// FetchProducts reads every document of the products collection. Documents
// that do not decode are skipped.
func (s *FirestoreSource) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	docs, err := s.client.Collection(s.products).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.products, err)
	}
	out := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		var p domain.Product
		if err := doc.DataTo(&p); err != nil {
			s.log.Warn().Err(err).Str("doc", doc.Ref.ID).Msg("skipping product document")
			continue
		}
		if p.ID == "" {
			p.ID = doc.Ref.ID
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *FirestoreSource) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	docs, err := s.client.Collection(s.categories).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.categories, err)
	}
	out := make([]domain.Category, 0, len(docs))
	for _, doc := range docs {
		var c domain.Category
		if err := doc.DataTo(&c); err != nil {
			s.log.Warn().Err(err).Str("doc", doc.Ref.ID).Msg("skipping category document")
			continue
		}
		if c.ID == "" {
			c.ID = doc.Ref.ID
		}
		out = append(out, c)
	}
	return out, nil
}

// Import writes products as documents keyed by product id in a single batch.
func (s *FirestoreSource) Import(ctx context.Context, products []domain.Product) error {
	accepted, rejected := prepareImport(products, func(string) bool { return false })
	if len(accepted) == 0 {
		return rejected
	}
	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(accepted))
	for _, p := range accepted {
		job, err := bw.Create(s.client.Collection(s.products).Doc(p.ID), p)
		if err != nil {
			bw.End()
			return fmt.Errorf("queue %s: %w", p.ID, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	errs := []error{rejected}
	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", accepted[i].ID, err))
		}
	}
	return errors.Join(errs...)
}

// Get reads one product document. A missing document is ProductNotFoundError.
func (s *FirestoreSource) Get(ctx context.Context, id string) (domain.Product, error) {
	snap, err := s.client.Collection(s.products).Doc(id).Get(ctx)
	if snap != nil && !snap.Exists() {
		return domain.Product{}, domain.NewProductNotFoundError(id)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("read %s/%s: %w", s.products, id, err)
	}
	var p domain.Product
	if err := snap.DataTo(&p); err != nil {
		return domain.Product{}, fmt.Errorf("decode %s/%s: %w", s.products, id, err)
	}
	if p.ID == "" {
		p.ID = snap.Ref.ID
	}
	return p, nil
}

// SetCategories makes the categories collection hold exactly categories,
// keyed by category id. Documents for ids not in the list are deleted.
func (s *FirestoreSource) SetCategories(ctx context.Context, categories []domain.Category) error {
	if err := prepareCategories(categories); err != nil {
		return err
	}
	col := s.client.Collection(s.categories)
	existing, err := col.DocumentRefs(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("list %s: %w", s.categories, err)
	}
	keep := make(map[string]bool, len(categories))
	for _, c := range categories {
		keep[c.ID] = true
	}

	bw := s.client.BulkWriter(ctx)
	var jobs []*firestore.BulkWriterJob
	for _, ref := range existing {
		if keep[ref.ID] {
			continue
		}
		job, err := bw.Delete(ref)
		if err != nil {
			bw.End()
			return fmt.Errorf("queue delete %s: %w", ref.ID, err)
		}
		jobs = append(jobs, job)
	}
	for _, c := range categories {
		job, err := bw.Set(col.Doc(c.ID), c)
		if err != nil {
			bw.End()
			return fmt.Errorf("queue %s: %w", c.ID, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	var errs []error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *FirestoreSource) Close() error {
	return s.client.Close()
}
