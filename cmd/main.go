package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/weblarek/storefront/internal/app"
	"github.com/weblarek/storefront/internal/cart"
	"github.com/weblarek/storefront/internal/catalog"
	"github.com/weblarek/storefront/internal/checkout"
	"github.com/weblarek/storefront/internal/client"
	"github.com/weblarek/storefront/internal/config"
	"github.com/weblarek/storefront/internal/entities"
	"github.com/weblarek/storefront/internal/events"
	"github.com/weblarek/storefront/internal/handler"
	"github.com/weblarek/storefront/internal/order"
	"github.com/weblarek/storefront/internal/stream"
	"github.com/weblarek/storefront/internal/view"
	"github.com/weblarek/storefront/pkg/cache"

	"github.com/joho/godotenv"
)

// @title           Storefront API
// @version         1.0
// @description     Browser storefront session service
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	broker := events.NewBroker(logger)
	shopAPI := client.NewShopAPI(logger, conf.Upstream)

	snapshots := cache.New[[]entities.Product](1, conf.Cache.TTL)
	entryViews := cache.New[checkout.View](conf.Cache.Capacity, conf.Cache.TTL)
	snapshots.StartJanitor(ctx)
	entryViews.StartJanitor(ctx)

	productCatalog := catalog.New(logger, broker, shopAPI, snapshots)
	shoppingCart := cart.New(logger, broker)
	orderDraft := order.NewDraft(logger, broker)

	renderer := view.NewRenderer(conf.Upstream.CDNURL)
	screen := view.NewScreen()

	workflow := checkout.New(logger, broker, productCatalog, shoppingCart, orderDraft,
		renderer, screen, shopAPI, entryViews)

	application := app.New(logger, conf)
	application.SetHTTPHandlers(handler.NewHTTPHandler(logger, broker, productCatalog, workflow, screen))

	if len(conf.Kafka.Brokers) > 0 {
		relay := stream.NewRelay(logger, conf.Kafka, broker)
		application.SetClosers(relay)
		logger.Info("event relay enabled", slog.String("topic", conf.Kafka.Topic))
	}

	// A failed load leaves the catalog empty; the storefront still
	// serves and the catalog can be reloaded later.
	if err := productCatalog.Load(ctx); err != nil {
		logger.Error("starting with empty catalog", slog.Any("error", err))
	}

	panicIfErr("application failed", application.Run(ctx))
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
