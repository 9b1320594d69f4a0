package product

import (
	"github.com/pqd/pqd-sdk/pkg/cache"
)

const productsKey = "products"

// Cache - the last fetched product list, kept for the lifetime of the process
type Cache struct {
	items cache.Cache
}

// NewCache -
func NewCache() *Cache {
	return &Cache{items: cache.New()}
}

func (c *Cache) ready() error {
	if c == nil || c.items == nil {
		return ErrNoProductContext
	}
	return nil
}

// Products - the cached list, false when nothing has been cached yet
func (c *Cache) Products() ([]Product, bool) {
	if c.ready() != nil {
		return nil, false
	}
	obj, err := c.items.Get(productsKey)
	if err != nil {
		return nil, false
	}
	products, ok := obj.([]Product)
	return products, ok
}

// SetProducts - replaces the cached list, nil empties the cache. Reports whether the list differs
// from the cached one, an equal list is not stored again.
func (c *Cache) SetProducts(products []Product) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	if products == nil {
		c.items.Flush()
		return true, nil
	}
	if changed, err := c.items.HasItemChanged(productsKey, products); err == nil && !changed {
		return false, nil
	}
	return true, c.items.Set(productsKey, products)
}

// Find - the cached product with id
func (c *Cache) Find(id int64) (*Product, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	products, _ := c.Products()
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ErrProductNotFound.FormatError(id)
}
