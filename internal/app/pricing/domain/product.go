package domain

// Product identifies what is being priced.
type Product string

const (
	ProductBoxAdvertising     Product = "box-advertising"
	ProductSponsoredPlacement Product = "sponsored-placement"
	ProductService            Product = "service"

	// ProductAny scopes a discount rule to every product. It is never priced itself.
	ProductAny Product = "any"
)

// Products returns every priceable product.
func Products() []Product {
	return []Product{ProductBoxAdvertising, ProductSponsoredPlacement, ProductService}
}

// IsPriceable reports whether p can carry a rate.
func (p Product) IsPriceable() bool {
	switch p {
	case ProductBoxAdvertising, ProductSponsoredPlacement, ProductService:
		return true
	}
	return false
}

// ParseProduct parses a priceable product name.
func ParseProduct(s string) (Product, error) {
	p := Product(s)
	if !p.IsPriceable() {
		return "", ErrUnknownProduct
	}
	return p, nil
}

// ParseRuleScope parses the product a discount rule applies to, which may be "any".
func ParseRuleScope(s string) (Product, error) {
	if Product(s) == ProductAny {
		return ProductAny, nil
	}
	return ParseProduct(s)
}
