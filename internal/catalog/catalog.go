package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/weblarek/storefront/internal/entities"
	"github.com/weblarek/storefront/internal/events"
	"github.com/weblarek/storefront/pkg/utils"
)

const snapshotKey = "catalog:snapshot"

var loadFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "storefront",
	Subsystem: "catalog",
	Name:      "load_failures_total",
	Help:      "Total number of failed catalog loads.",
})

// ProductSource is the upstream collaborator the catalog is loaded from.
type ProductSource interface {
	FetchProducts(ctx context.Context) ([]entities.Product, error)
}

type SnapshotCache interface {
	Get(key string) ([]entities.Product, bool)
	Set(key string, value []entities.Product)
}

// Catalog holds the ordered product list (insertion order = server
// order) and an optional reference to the currently inspected product.
// It is created empty and replaced wholesale on load.
type Catalog struct {
	logger *slog.Logger
	broker *events.Broker
	source ProductSource
	cache  SnapshotCache

	mu          sync.Mutex
	products    []entities.Product
	selected    entities.Product
	hasSelected bool
}

func New(logger *slog.Logger, broker *events.Broker, source ProductSource, cache SnapshotCache) *Catalog {
	return &Catalog{
		logger: logger.With(slog.String("component", "catalog")),
		broker: broker,
		source: source,
		cache:  cache,
	}
}

// Load fetches the product list from the source, retrying transient
// failures. On final failure the catalog stays empty: a degraded
// storefront, not a crash.
func (c *Catalog) Load(ctx context.Context) error {
	if products, ok := c.cache.Get(snapshotKey); ok {
		c.SetProducts(products)
		return nil
	}

	var products []entities.Product
	fn := func() error {
		var err error
		products, err = c.source.FetchProducts(ctx)
		return err
	}
	cfg := utils.RetryConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxAttempts:  5,
		Multiplier:   2,
	}
	if err := utils.Retry(cfg, fn, context.Canceled); err != nil {
		loadFailures.Inc()
		c.logger.Error("failed to load products", slog.Any("error", err))
		return errors.Join(entities.ErrLoadFailed, err)
	}

	c.cache.Set(snapshotKey, products)
	c.SetProducts(products)
	return nil
}

// SetProducts replaces the catalog wholesale and drops the selection.
func (c *Catalog) SetProducts(products []entities.Product) {
	c.mu.Lock()
	c.products = make([]entities.Product, len(products))
	copy(c.products, products)
	c.hasSelected = false
	c.selected = entities.Product{}
	snap := make([]entities.Product, len(c.products))
	copy(snap, c.products)
	c.mu.Unlock()

	c.logger.Debug("catalog replaced", slog.Int("count", len(snap)))
	c.broker.Publish(events.ProductsChanged{Products: snap})
}

func (c *Catalog) Products() []entities.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	products := make([]entities.Product, len(c.products))
	copy(products, c.products)
	return products
}

func (c *Catalog) ProductByID(id string) (entities.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.find(id)
}

// Select marks the product as the currently inspected one and announces
// it. The selection is a lookup reference, not ownership.
func (c *Catalog) Select(id string) error {
	c.mu.Lock()
	p, ok := c.find(id)
	if !ok {
		c.mu.Unlock()
		return entities.ErrProductNotFound
	}
	c.selected = p
	c.hasSelected = true
	c.mu.Unlock()

	c.broker.Publish(events.ProductSelected{Product: p})
	return nil
}

func (c *Catalog) Selected() (entities.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected, c.hasSelected
}

func (c *Catalog) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = entities.Product{}
	c.hasSelected = false
}

func (c *Catalog) find(id string) (entities.Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return entities.Product{}, false
}
