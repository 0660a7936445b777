package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	adminhttp "github.com/loukys/storefront/internal/admin/infrastructure/http"
	carthttp "github.com/loukys/storefront/internal/cart/infrastructure/http"
	cataloghttp "github.com/loukys/storefront/internal/catalog/infrastructure/http"
	checkouthttp "github.com/loukys/storefront/internal/checkout/infrastructure/http"
	"github.com/loukys/storefront/internal/config"
	identityhttp "github.com/loukys/storefront/internal/identity/infrastructure/http"
	orderhttp "github.com/loukys/storefront/internal/order/infrastructure/http"
	"github.com/loukys/storefront/pkg/logging"
	"github.com/loukys/storefront/pkg/shutdown"
	"github.com/loukys/storefront/pkg/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() {
	log := logging.New(slog.LevelInfo)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	if cfg.Tracing.Enabled {
		tp, err := tracing.Init(ctx, "storefront", cfg.Tracing.JaegerURL, log)
		if err != nil {
			log.Error("otel init failed", "err", err)
			os.Exit(1)
		}
		defer func() { _ = tp.Shutdown(ctx) }()
	}

	a := newApp(log, cfg)
	defer a.close()

	r := chi.NewRouter()
	r.Mount("/auth", identityhttp.NewHandler(log, a.identity).Routes())
	r.Mount("/products", cataloghttp.NewHandler(log, a.catalog, a.identity).Routes())
	r.Mount("/cart", carthttp.NewHandler(log, a.cart, a.catalog).Routes())
	r.Mount("/checkout", checkouthttp.NewHandler(log, a.checkout).Routes())
	r.Mount("/orders", orderhttp.NewHandler(log, a.orders, a.identity).Routes())
	r.Mount("/admin", adminhttp.NewHandler(log, a.admin, a.identity).Routes())

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("http listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	// Drop any in-flight payment session before draining connections.
	a.checkout.Close()

	shutdownCtx, shutdownCancel := shutdown.Grace(10 * time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("storefront shutdown complete")
}
