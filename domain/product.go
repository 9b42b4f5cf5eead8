// Package domain defines core business types and interfaces.
package domain

import (
	"context"
	"math"
)

// AllCategoryID is the category id meaning "no category restriction".
const AllCategoryID = "all"

// Product represents a near-expiry deal offered by a store
type Product struct {
	ID            string  `json:"id" firestore:"id" validate:"required"`
	Name          string  `json:"name" firestore:"name" validate:"required"`
	Brand         string  `json:"brand" firestore:"brand"`
	StoreName     string  `json:"storeName" firestore:"storeName"`
	ImageURL      string  `json:"urlImagem" firestore:"urlImagem"`
	DistanceKm    float64 `json:"distanceKm" firestore:"distanceKm" validate:"gte=0"`
	PriceOriginal float64 `json:"priceOriginal" firestore:"priceOriginal" validate:"gte=0"`
	PriceNow      float64 `json:"priceNow" firestore:"priceNow" validate:"gte=0"`
	ExpiresInDays int     `json:"expiresInDays" firestore:"expiresInDays"`
	CategoryID    string  `json:"categoryId" firestore:"categoryId"`
	IsFavorite    bool    `json:"isFavorite" firestore:"isFavorite"`
}

// DiscountPercent is derived from the two price fields on every call.
// It is 0 when PriceOriginal is not positive, never negative.
func (p Product) DiscountPercent() int {
	if p.PriceOriginal <= 0 {
		return 0
	}
	ratio := (p.PriceOriginal - p.PriceNow) / p.PriceOriginal * 100
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0
	}
	pct := int(math.Round(ratio))
	if pct < 0 {
		return 0
	}
	return pct
}

// Category groups products; the "all" id is reserved.
type Category struct {
	ID   string `json:"id" firestore:"id" validate:"required"`
	Name string `json:"name" firestore:"name" validate:"required"`
	Icon string `json:"icon,omitempty" firestore:"icon"`
}

// DataSource supplies the raw catalog snapshot
type DataSource interface {
	FetchProducts(ctx context.Context) ([]Product, error)
	FetchCategories(ctx context.Context) ([]Category, error)
}
