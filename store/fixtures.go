package store

import "ivalid/domain"

// FixtureCategories is the fixed category list served by the memory backend.
func FixtureCategories() []domain.Category {
	return []domain.Category{
		{ID: domain.AllCategoryID, Name: "Todos"},
		{ID: "padaria", Name: "Padaria", Icon: "ic_bread"},
		{ID: "laticinios", Name: "Laticínios", Icon: "ic_milk"},
		{ID: "hortifruti", Name: "Hortifruti", Icon: "ic_fruit"},
		{ID: "carnes", Name: "Carnes", Icon: "ic_meat"},
		{ID: "bebidas", Name: "Bebidas", Icon: "ic_drink"},
	}
}

// FixtureProducts is a small near-expiry catalog used in place of a live fetch.
func FixtureProducts() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Pão Francês", Brand: "Padaria Real", StoreName: "Mercado Central", ImageURL: "img/pao_frances.png", DistanceKm: 1.2, PriceOriginal: 12.9, PriceNow: 7.9, ExpiresInDays: 1, CategoryID: "padaria"},
		{ID: "2", Name: "Leite Integral 1L", Brand: "Itambé", StoreName: "Supermercado Bom Preço", ImageURL: "img/leite.png", DistanceKm: 3.4, PriceOriginal: 6.49, PriceNow: 4.99, ExpiresInDays: 3, CategoryID: "laticinios"},
		{ID: "3", Name: "Iogurte Natural", Brand: "Nestlé", StoreName: "Mercado Central", ImageURL: "img/iogurte.png", DistanceKm: 1.2, PriceOriginal: 8.5, PriceNow: 4.25, ExpiresInDays: 2, CategoryID: "laticinios"},
		{ID: "4", Name: "Queijo Minas Frescal", Brand: "Tirolez", StoreName: "Empório Serra", ImageURL: "img/queijo.png", DistanceKm: 5.8, PriceOriginal: 29.9, PriceNow: 17.9, ExpiresInDays: 4, CategoryID: "laticinios"},
		{ID: "5", Name: "Banana Prata (kg)", Brand: "Hortifruti Sol", StoreName: "Feira do Bairro", ImageURL: "img/banana.png", DistanceKm: 0.6, PriceOriginal: 6.99, PriceNow: 3.49, ExpiresInDays: 1, CategoryID: "hortifruti"},
		{ID: "6", Name: "Peito de Frango", Brand: "Sadia", StoreName: "Açougue Boi Bom", ImageURL: "img/frango.png", DistanceKm: 2.1, PriceOriginal: 19.9, PriceNow: 13.9, ExpiresInDays: 0, CategoryID: "carnes"},
		{ID: "7", Name: "Suco de Laranja 900ml", Brand: "Del Valle", StoreName: "Supermercado Bom Preço", ImageURL: "img/suco.png", DistanceKm: 3.4, PriceOriginal: 9.99, PriceNow: 6.99, ExpiresInDays: 5, CategoryID: "bebidas"},
		{ID: "8", Name: "Bolo de Fubá", Brand: "Padaria Real", StoreName: "Mercado Central", ImageURL: "img/bolo.png", DistanceKm: 1.2, PriceOriginal: 15, PriceNow: 9, ExpiresInDays: 2, CategoryID: "padaria"},
	}
}
