package core

// Catalog is the registry of sellable products. Lookup goes through the
// synthetic ID; codes repeat in the source data and are display-only.
type Catalog struct {
	products []Product
	byID     map[string]Product
}

// NewCatalog builds a catalog from entries, skipping any that fail
// validation or repeat an ID. Order is preserved for listing.
func NewCatalog(products []Product) *Catalog {
	c := &Catalog{byID: make(map[string]Product, len(products))}
	for _, p := range products {
		if p.Validate() != nil {
			continue
		}
		if _, dup := c.byID[p.ID]; dup {
			continue
		}
		c.byID[p.ID] = p
		c.products = append(c.products, p)
	}
	return c
}

// Lookup resolves a product by its unique ID.
func (c *Catalog) Lookup(id string) (Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return Product{}, ErrUnknownProduct
	}
	return p, nil
}

// Products returns all entries in registration order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len reports the number of registered products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// DefaultProducts is the built-in shop catalog. Codes are the labels printed
// on the packs and are not unique ("SUB" repeats across weights on purpose,
// pending review with the shop owner).
func DefaultProducts() []Product {
	return []Product{
		{ID: "sub-100", Code: "SUB", Name: "Sambal Sub 100g", Type: ProductUnit, SellPrice: 1010, CostPrice: 610},
		{ID: "sub-250", Code: "SUB", Name: "Sambal Sub 250g", Type: ProductUnit, SellPrice: 2350, CostPrice: 1500},
		{ID: "sub-500", Code: "SUB5", Name: "Sambal Sub 500g", Type: ProductUnit, SellPrice: 4400, CostPrice: 2800},
		{ID: "pack-500", Code: "PKT", Name: "Paket Stiker 500", Type: ProductPackage, SellPrice: 15000, CostPrice: 9000, PackageSize: 500},
		{ID: "pack-1000", Code: "PKT", Name: "Paket Stiker 1000", Type: ProductPackage, SellPrice: 27000, CostPrice: 16500, PackageSize: 1000},
		{ID: "bundle-duo", Code: "DUO", Name: "Bundel Duo", Type: ProductUnit, SellPrice: 3200, CostPrice: 2050},
	}
}
