package enums

// ProductSort names the supported catalog sort orders. Unrecognized tokens
// fall back to the name sort rather than erroring.
type ProductSort string

const (
	ProductSortName      ProductSort = "name"
	ProductSortPriceLow  ProductSort = "price_low"
	ProductSortPriceHigh ProductSort = "price_high"
	ProductSortNewest    ProductSort = "newest"
)

var validProductSorts = []ProductSort{
	ProductSortName,
	ProductSortPriceLow,
	ProductSortPriceHigh,
	ProductSortNewest,
}

// String implements fmt.Stringer.
func (p ProductSort) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductSort.
func (p ProductSort) IsValid() bool {
	for _, candidate := range validProductSorts {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductSort maps a raw sort token to a ProductSort, defaulting to name.
func ParseProductSort(value string) ProductSort {
	for _, candidate := range validProductSorts {
		if string(candidate) == value {
			return candidate
		}
	}
	return ProductSortName
}
