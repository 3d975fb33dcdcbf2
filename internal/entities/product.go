package entities

// Product is an immutable catalog item. A nil Price means the product is
// "priceless" and cannot be purchased.
type Product struct {
	ID          string
	Title       string
	Description string
	Image       string
	Category    string
	Price       *int
}

func (p Product) Priceless() bool {
	return p.Price == nil
}

// PriceValue treats an absent price as zero.
func (p Product) PriceValue() int {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}
