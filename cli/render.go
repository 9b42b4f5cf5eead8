package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"ivalid/domain"
	"ivalid/session"
	"ivalid/util"
)

func printProducts(w io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "no products")
		return
	}
	for _, p := range products {
		fav := " "
		if p.IsFavorite {
			fav = "*"
		}
		fmt.Fprintf(w, "%s %s | %s | %s | %s (-%d%%) | %.1f km | %s\n",
			fav, p.ID, p.Name, p.StoreName, util.FormatBRL(p.PriceNow),
			p.DiscountPercent(), p.DistanceKm, expiryLabel(p.ExpiresInDays))
	}
}

// printProductDetail renders the product details screen.
func printProductDetail(w io.Writer, p domain.Product, inCart int) {
	fmt.Fprintf(w, "%s (%s)\n", p.Name, p.ID)
	if p.Brand != "" {
		fmt.Fprintf(w, "brand:    %s\n", p.Brand)
	}
	fmt.Fprintf(w, "store:    %s, %.1f km\n", p.StoreName, p.DistanceKm)
	fmt.Fprintf(w, "price:    %s (was %s, -%d%%)\n",
		util.FormatBRL(p.PriceNow), util.FormatBRL(p.PriceOriginal), p.DiscountPercent())
	fmt.Fprintf(w, "expiry:   %s\n", expiryLabel(p.ExpiresInDays))
	if p.CategoryID != "" {
		fmt.Fprintf(w, "category: %s\n", p.CategoryID)
	}
	if p.ImageURL != "" {
		fmt.Fprintf(w, "image:    %s\n", p.ImageURL)
	}
	if inCart > 0 {
		fmt.Fprintf(w, "in cart:  %d\n", inCart)
	}
}

func expiryLabel(days int) string {
	switch {
	case days < 0:
		return "expired"
	case days == 0:
		return "expires today"
	case days == 1:
		return "expires in 1 day"
	default:
		return fmt.Sprintf("expires in %d days", days)
	}
}

func printCart(w io.Writer, cv session.CartView) {
	if cv.Empty {
		fmt.Fprintln(w, "cart is empty")
		return
	}
	for _, l := range cv.Lines {
		fmt.Fprintf(w, "%s | %s | %d x %s = %s\n",
			l.Product.ID, l.Product.Name, l.Quantity,
			util.FormatBRL(l.Product.PriceNow), util.FormatBRL(l.Subtotal().InexactFloat64()))
	}
	fmt.Fprintf(w, "products: %d | items: %d | total: %s\n", cv.Products, cv.Count, util.FormatBRL(cv.Total))
}

type cartLineJSON struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	PriceNow  float64 `json:"priceNow"`
	Subtotal  string  `json:"subtotal"`
}

type cartDocJSON struct {
	Lines    []cartLineJSON `json:"lines"`
	Products int            `json:"products"`
	Count    int            `json:"count"`
	Total    string         `json:"total"`
}

func cartJSON(cv session.CartView) cartDocJSON {
	doc := cartDocJSON{
		Lines:    make([]cartLineJSON, 0, len(cv.Lines)),
		Products: cv.Products,
		Count:    cv.Count,
		Total:    cv.Exact.StringFixed(2),
	}
	for _, l := range cv.Lines {
		doc.Lines = append(doc.Lines, cartLineJSON{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Quantity:  l.Quantity,
			PriceNow:  l.Product.PriceNow,
			Subtotal:  l.Subtotal().StringFixed(2),
		})
	}
	return doc
}

func writeJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func sortModeNames() string {
	names := make([]string, 0, len(domain.SortModes()))
	for _, m := range domain.SortModes() {
		names = append(names, m.String())
	}
	return strings.Join(names, "|")
}
