// Package cli provides the Cobra-based CLI for the ivalid storefront.
package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ivalid/config"
	"ivalid/domain"
	"ivalid/session"
	"ivalid/store"
)

var (
	rootCmd = &cobra.Command{
		Use:           "ivalid",
		Short:         "Browse near-expiry grocery deals and build a cart",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// allow tests and the shell to reuse an existing session
			if sess != nil {
				return nil
			}

			cfg, err := config.LoadWith(v, v.GetString("config"))
			if err != nil {
				return err
			}
			logger = config.NewLogger(cfg.Logging, cmd.ErrOrStderr())

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			source, err = openSource(ctx, cfg.Source, logger)
			if err != nil {
				return err
			}
			sess = session.New(source,
				session.WithLogger(logger),
				session.WithFetchTimeout(cfg.Fetch.Timeout),
			)
			if cmd.Annotations[skipInitialRefresh] != "" {
				return nil
			}
			return refresh(ctx)
		},
	}

	// openSource is swapped in tests to observe the source the CLI builds.
	openSource = store.NewSource

	v      *viper.Viper
	logger = zerolog.Nop()
	source domain.DataSource
	sess   *session.Session
)

func init() {
	rootCmd.PersistentFlags().String("source", "memory", "data source: memory|empty|file|firestore")
	rootCmd.PersistentFlags().String("source-file", "data/catalog.json", "file source path")
	rootCmd.PersistentFlags().String("config", "", "config file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level")

	v = newViper()

	rootCmd.AddCommand(
		newListCmd(),
		newSearchCmd(),
		newCategoryCmd(),
		newSortCmd(),
		newCategoriesCmd(),
		newFavoriteCmd(),
		newShowCmd(),
		newAddCmd(),
		newQtyCmd(),
		newRemoveCmd(),
		newClearCmd(),
		newCartCmd(),
		newRefreshCmd(),
		newImportCmd(),
		newExportCmd(),
		newShellCmd(),
	)
}

// skipInitialRefresh marks commands that load the catalog themselves.
const skipInitialRefresh = "ivalid/skip-initial-refresh"

// newViper returns a viper with the root persistent flags bound to their
// config keys, so a flag set on the command line wins over file and env.
func newViper() *viper.Viper {
	nv := viper.New()
	flags := rootCmd.PersistentFlags()
	_ = nv.BindPFlag("source.kind", flags.Lookup("source"))
	_ = nv.BindPFlag("source.path", flags.Lookup("source-file"))
	_ = nv.BindPFlag("config", flags.Lookup("config"))
	_ = nv.BindPFlag("logging.level", flags.Lookup("log-level"))
	return nv
}

func refresh(ctx context.Context) error {
	start := time.Now()
	if err := sess.Refresh(ctx); err != nil {
		return err
	}
	view := sess.View()
	logger.Debug().
		Int("products", len(view.AllProducts)).
		Int("categories", len(view.Categories)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("catalog loaded")
	return nil
}

func newListCmd() *cobra.Command {
	var query, category, sortBy, output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the visible products",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("query") {
				sess.Search(query)
			}
			if cmd.Flags().Changed("category") {
				sess.SelectCategory(category)
			}
			if cmd.Flags().Changed("sort") {
				mode, err := domain.ParseSortMode(sortBy)
				if err != nil {
					return err
				}
				sess.Sort(mode)
			}
			visible := sess.View().VisibleProducts
			if output == "json" {
				return writeJSON(cmd.OutOrStdout(), visible)
			}
			printProducts(cmd.OutOrStdout(), visible)
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "search name, brand or store")
	cmd.Flags().StringVar(&category, "category", "", "category id (all for none)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort mode: "+sortModeNames())
	cmd.Flags().StringVar(&output, "output", "", "output format (json)")
	return cmd
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [text...]",
		Short: "Set the search text; no text clears it",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess.Search(strings.Join(args, " "))
			printProducts(cmd.OutOrStdout(), sess.View().VisibleProducts)
			return nil
		},
	}
}

func newCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "category [id]",
		Short: "Filter by category; no id or all clears it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			sess.SelectCategory(id)
			printProducts(cmd.OutOrStdout(), sess.View().VisibleProducts)
			return nil
		},
	}
}

func newSortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sort <mode>",
		Short: "Sort the list: " + sortModeNames(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := domain.ParseSortMode(args[0])
			if err != nil {
				return err
			}
			sess.Sort(mode)
			printProducts(cmd.OutOrStdout(), sess.View().VisibleProducts)
			return nil
		},
	}
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			view := sess.View()
			selected := domain.AllCategoryID
			if view.SelectedCategoryID != nil {
				selected = *view.SelectedCategoryID
			}
			for _, c := range view.Categories {
				mark := " "
				if c.ID == selected {
					mark = ">"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s | %s\n", mark, c.ID, c.Name)
			}
			return nil
		},
	}
}

func newFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle a product as favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess.ToggleFavorite(args[0])
			for _, p := range sess.View().AllProducts {
				if p.ID == args[0] {
					printProducts(cmd.OutOrStdout(), []domain.Product{p})
					return nil
				}
			}
			fmt.Fprintln(cmd.ErrOrStderr(), domain.NewProductNotFoundError(args[0]))
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show product details as stored in the data source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			getter, ok := source.(store.ProductGetter)
			if !ok {
				return fmt.Errorf("source %T cannot look up products", source)
			}
			p, err := getter.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printProductDetail(cmd.OutOrStdout(), p, sess.InCart(p.ID))
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <id> [quantity]",
		Short: "Add a product to the cart",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty := 1
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("quantity: %w", err)
				}
				qty = n
			}
			if err := sess.AddToCart(args[0], qty); err != nil {
				logger.Error().Err(err).Str("product_id", args[0]).Msg("add to cart failed")
				return err
			}
			logger.Info().Str("product_id", args[0]).Int("quantity", qty).Msg("added to cart")
			printCart(cmd.OutOrStdout(), sess.CartView())
			return nil
		},
	}
}

func newQtyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "qty <id> <quantity>",
		Short: "Set the quantity of a cart line; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity: %w", err)
			}
			sess.SetQuantity(args[0], n)
			printCart(cmd.OutOrStdout(), sess.CartView())
			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess.RemoveFromCart(args[0])
			printCart(cmd.OutOrStdout(), sess.CartView())
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess.ClearCart()
			printCart(cmd.OutOrStdout(), sess.CartView())
			return nil
		},
	}
}

func newCartCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			cv := sess.CartView()
			if output == "json" {
				return writeJSON(cmd.OutOrStdout(), cartJSON(cv))
			}
			printCart(cmd.OutOrStdout(), cv)
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "output format (json)")
	return cmd
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "refresh",
		Short:       "Reload the catalog from the data source",
		Annotations: map[string]string{skipInitialRefresh: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := refresh(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d products\n", len(sess.View().AllProducts))
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	var importFile, categoriesFile string
	cmd := &cobra.Command{
		Use:   "import [--file <file>] [--categories <file>]",
		Short: "Import products (JSON array or NDJSON) and/or replace the category list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if importFile == "" && categoriesFile == "" {
				return errors.New("--file or --categories required")
			}
			ctx := cmd.Context()

			if categoriesFile != "" {
				writer, ok := source.(store.CategoryWriter)
				if !ok {
					return fmt.Errorf("source %T does not accept categories", source)
				}
				b, err := os.ReadFile(categoriesFile)
				if err != nil {
					return err
				}
				categories, err := decodeCategories(b)
				if err != nil {
					return err
				}
				if err := writer.SetCategories(ctx, categories); err != nil {
					return fmt.Errorf("categories: %w", err)
				}
				logger.Info().Int("categories", len(categories)).Str("file", categoriesFile).Msg("categories replaced")
			}

			var importErr error
			if importFile != "" {
				importer, ok := source.(store.Importer)
				if !ok {
					return fmt.Errorf("source %T does not accept imports", source)
				}
				b, err := os.ReadFile(importFile)
				if err != nil {
					return err
				}
				products, err := decodeProducts(b)
				if err != nil {
					return err
				}

				start := time.Now()
				importErr = importer.Import(ctx, products)
				if importErr != nil {
					logger.Warn().Err(importErr).Str("file", importFile).Msg("import finished with rejected rows")
				} else {
					logger.Info().Int("rows", len(products)).Int64("duration_ms", time.Since(start).Milliseconds()).Msg("import finished")
				}
			}

			if err := refresh(ctx); err != nil {
				return err
			}
			return importErr
		},
	}
	cmd.Flags().StringVar(&importFile, "file", "", "products file")
	cmd.Flags().StringVar(&categoriesFile, "categories", "", "categories file: JSON array or an exported catalog document")
	return cmd
}

// decodeCategories accepts a JSON array of categories or a document with a
// "categories" field, such as the output of export.
func decodeCategories(b []byte) ([]domain.Category, error) {
	btrim := bytes.TrimSpace(b)
	if len(btrim) == 0 {
		return nil, errors.New("empty file")
	}
	var categories []domain.Category
	if btrim[0] == '[' {
		if err := json.Unmarshal(btrim, &categories); err != nil {
			return nil, err
		}
		return categories, nil
	}
	var doc struct {
		Categories []domain.Category `json:"categories"`
	}
	if err := json.Unmarshal(btrim, &doc); err != nil {
		return nil, err
	}
	if doc.Categories == nil {
		return nil, errors.New(`no "categories" field`)
	}
	return doc.Categories, nil
}

// decodeProducts accepts a JSON array, NDJSON, or a single JSON object.
func decodeProducts(b []byte) ([]domain.Product, error) {
	btrim := bytes.TrimSpace(b)
	if len(btrim) == 0 {
		return nil, errors.New("empty file")
	}

	var products []domain.Product
	if btrim[0] == '[' {
		if err := json.Unmarshal(btrim, &products); err != nil {
			return nil, err
		}
		return products, nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(btrim))
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var p domain.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		products = append(products, p)
	}
	return products, scanner.Err()
}

func newExportCmd() *cobra.Command {
	var exportFile string
	cmd := &cobra.Command{
		Use:   "export --file <file>",
		Short: "Export the catalog as a file source document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if exportFile == "" {
				return errors.New("--file required")
			}
			var buf bytes.Buffer
			if err := store.ExportCatalog(cmd.Context(), source, &buf); err != nil {
				return err
			}
			return os.WriteFile(exportFile, buf.Bytes(), 0o644)
		},
	}
	cmd.Flags().StringVar(&exportFile, "file", "", "output file")
	return cmd
}

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell; search, filters and cart persist between lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runShell(in io.Reader, out, errOut io.Writer) error {
	r := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "ivalid> ")
		line, err := r.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" {
			return nil
		}
		if line != "" {
			rootCmd.SetArgs(strings.Fields(line))
			if err := rootCmd.Execute(); err != nil {
				fmt.Fprintln(errOut, err)
			}
			rootCmd.SetArgs(nil)
			resetFlags(rootCmd)
		}
		if err != nil {
			return nil
		}
	}
}

// resetFlags restores every local flag to its default so one shell line
// does not leak flag values into the next.
func resetFlags(cmd *cobra.Command) {
	for _, c := range cmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
}

// Execute runs the root command and releases the data source afterwards.
func Execute() error {
	err := rootCmd.Execute()
	if c, ok := source.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("closing data source")
		}
	}
	return err
}
