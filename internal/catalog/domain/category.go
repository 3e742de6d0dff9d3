package domain

import "slices"

// Categories are the fixed category slugs offered by the product form
var Categories = []string{
	"beauty",
	"fragrances",
	"furniture",
	"groceries",
	"home-decoration",
	"kitchen-accessories",
	"laptops",
	"mens-shirts",
	"mens-shoes",
	"mens-watches",
	"mobile-accessories",
	"motorcycle",
	"skin-care",
	"smartphones",
	"sports-accessories",
	"sunglasses",
	"tablets",
	"tops",
	"vehicle",
	"womens-bags",
	"womens-dresses",
	"womens-jewellery",
	"womens-shoes",
	"womens-watches",
}

// IsKnownCategory reports whether slug is one of Categories
func IsKnownCategory(slug string) bool {
	return slices.Contains(Categories, slug)
}
