package cmd

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	adminapp "github.com/loukys/storefront/internal/admin/application"
	cartapp "github.com/loukys/storefront/internal/cart/application"
	cartkv "github.com/loukys/storefront/internal/cart/infrastructure/kv"
	catalogapp "github.com/loukys/storefront/internal/catalog/application"
	catalogkv "github.com/loukys/storefront/internal/catalog/infrastructure/kv"
	checkoutapp "github.com/loukys/storefront/internal/checkout/application"
	"github.com/loukys/storefront/internal/config"
	identityapp "github.com/loukys/storefront/internal/identity/application"
	identitykv "github.com/loukys/storefront/internal/identity/infrastructure/kv"
	"github.com/loukys/storefront/internal/notify"
	orderapp "github.com/loukys/storefront/internal/order/application"
	orderkv "github.com/loukys/storefront/internal/order/infrastructure/kv"
	"github.com/loukys/storefront/internal/storage"
	"github.com/loukys/storefront/pkg/events"
)

// app wires the whole object graph once per command. Singletons stay
// here, owned by the entry point, never in package-level globals.
type app struct {
	log       *slog.Logger
	cfg       *config.Config
	store     storage.Store
	publisher events.Publisher

	identity *identityapp.Service
	catalog  *catalogapp.Service
	cart     *cartapp.Service
	orders   *orderapp.Service
	checkout *checkoutapp.Service
	admin    *adminapp.Service

	users *identitykv.Repository

	closers []func() error
}

func newApp(log *slog.Logger, cfg *config.Config) *app {
	a := &app{log: log, cfg: cfg}

	switch cfg.Storage.Driver {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Storage.RedisAddr})
		a.store = storage.NewRedis(rdb, cfg.Storage.Prefix)
		a.closers = append(a.closers, rdb.Close)
	default:
		a.store = storage.NewMemory()
	}

	if cfg.Kafka.Enabled {
		pub := events.NewKafkaPublisher(log, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		a.publisher = pub
		a.closers = append(a.closers, pub.Close)
	} else {
		a.publisher = events.Nop{}
	}

	notifier := notify.Slog{Log: log}

	identityRepo := identitykv.NewRepository(log, a.store)
	a.users = identityRepo
	catalogRepo := catalogkv.NewRepository(log, a.store)
	cartRepo := cartkv.NewRepository(log, a.store)
	orderRepo := orderkv.NewRepository(log, a.store)

	a.identity = identityapp.NewService(log, identityRepo, identityRepo, notifier, a.publisher)
	a.catalog = catalogapp.NewService(log, catalogRepo, a.publisher)
	a.cart = cartapp.NewService(log, cartRepo, notifier, nil)
	a.orders = orderapp.NewService(log, orderRepo, a.publisher)
	a.checkout = checkoutapp.NewService(
		log,
		checkoutapp.Config{
			Countdown:   secondsToDuration(cfg.Checkout.CountdownSeconds),
			VerifyDelay: secondsToDuration(cfg.Checkout.VerifyDelaySeconds),
		},
		a.cart,
		a.identity,
		a.orders,
		checkoutapp.RandomVerifier{SuccessRate: cfg.Checkout.SuccessRate},
		notifier,
		a.publisher,
	)
	a.checkout.SetCountdownView(logCountdown{log: log})
	a.admin = adminapp.NewService(log, identityRepo, catalogRepo, orderRepo, cartRepo)

	return a
}

// logCountdown is the headless stand-in for the payment view's timer
// display.
type logCountdown struct {
	log *slog.Logger
}

func (l logCountdown) Tick(display string, warning bool) {
	l.log.Debug("payment countdown", "remaining", display, "warning", warning)
}

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", "err", err)
		}
	}
}
