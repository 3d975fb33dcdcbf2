package cart

import (
	"log/slog"
	"sync"

	"github.com/weblarek/storefront/internal/entities"
	"github.com/weblarek/storefront/internal/events"
)

// Cart holds the selected line items. A line item is the product itself,
// not a (product, quantity) pair: adding the same product twice produces
// two entries. The cart owns its entries exclusively and publishes a
// CartChanged snapshot after every mutation.
type Cart struct {
	logger *slog.Logger
	broker *events.Broker

	mu    sync.Mutex
	items []entities.Product
}

func New(logger *slog.Logger, broker *events.Broker) *Cart {
	return &Cart{
		logger: logger.With(slog.String("component", "cart")),
		broker: broker,
	}
}

// Add appends a new line item. No deduplication, no quantity merging.
func (c *Cart) Add(p entities.Product) {
	c.mu.Lock()
	c.items = append(c.items, p)
	c.mu.Unlock()

	c.logger.Debug("item added", slog.String("product_id", p.ID))
	c.publishChanged()
}

// Remove drops every line item whose product id equals id. With no
// matching id it is a no-op and nothing is published.
func (c *Cart) Remove(id string) {
	c.mu.Lock()
	kept := c.items[:0:0]
	for _, it := range c.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	removed := len(c.items) - len(kept)
	c.items = kept
	c.mu.Unlock()

	if removed == 0 {
		return
	}
	c.logger.Debug("items removed", slog.String("product_id", id), slog.Int("count", removed))
	c.publishChanged()
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()

	c.publishChanged()
}

func (c *Cart) Items() []entities.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Total sums item prices, treating an absent price as 0.
func (c *Cart) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total()
}

func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cart) Has(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func (c *Cart) total() int {
	total := 0
	for _, it := range c.items {
		total += it.PriceValue()
	}
	return total
}

func (c *Cart) snapshot() []entities.Product {
	items := make([]entities.Product, len(c.items))
	copy(items, c.items)
	return items
}

// publishChanged is called without the lock held: handlers may call back
// into the cart's queries.
func (c *Cart) publishChanged() {
	c.mu.Lock()
	snap := events.CartChanged{Items: c.snapshot(), Total: c.total()}
	c.mu.Unlock()
	c.broker.Publish(snap)
}
