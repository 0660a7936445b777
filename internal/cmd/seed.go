package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	catalogapp "github.com/loukys/storefront/internal/catalog/application"
	"github.com/loukys/storefront/internal/config"
	identityapp "github.com/loukys/storefront/internal/identity/application"
	identitydomain "github.com/loukys/storefront/internal/identity/domain"
	"github.com/loukys/storefront/pkg/logging"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed demo products and an admin account",
	Run: func(cmd *cobra.Command, args []string) {
		runSeed()
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

var demoProducts = []catalogapp.ProductInput{
	{
		Name:        "Game Booster Pro",
		Description: "One month of priority matchmaking and server boosts",
		Price:       25000,
		Stock:       40,
		Features:    []string{"Priority queue", "Server boost", "Profile badge"},
	},
	{
		Name:          "Diamond Pack 500",
		Description:   "500 in-game diamonds, delivered as a redemption code",
		Price:         75000,
		OriginalPrice: 90000,
		Stock:         25,
		Features:      []string{"Instant delivery", "Stackable"},
	},
	{
		Name:        "Season Pass",
		Description: "Full season battle pass unlock",
		Price:       120000,
		Stock:       8,
		Features:    []string{"All tiers", "Exclusive skin"},
	},
}

func runSeed() {
	log := logging.New(slog.LevelInfo)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	a := newApp(log, cfg)
	defer a.close()

	ctx := context.Background()

	for _, in := range demoProducts {
		p, err := a.catalog.Create(ctx, in)
		if err != nil {
			log.Error("seed product failed", "name", in.Name, "err", err)
			os.Exit(1)
		}
		log.Info("seeded product", "id", p.ID, "name", p.Name)
	}

	admin, err := a.identity.Register(ctx, identityapp.RegisterInput{
		Username:        "admin",
		Email:           "admin@storefront.local",
		Password:        "admin123",
		ConfirmPassword: "admin123",
	})
	if err != nil {
		log.Error("seed admin failed", "err", err)
		os.Exit(1)
	}

	// Promote the seeded account; registration always starts as a plain user.
	if err := promote(ctx, a, admin.ID); err != nil {
		log.Error("seed admin promote failed", "err", err)
		os.Exit(1)
	}
	log.Info("seeded admin", "email", admin.Email)
}

func promote(ctx context.Context, a *app, userID string) error {
	repo := a.users
	users, err := repo.List(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == userID {
			users[i].Role = identitydomain.RoleAdmin
			if err := repo.Save(ctx, users); err != nil {
				return err
			}
			return repo.SetCurrent(ctx, users[i])
		}
	}
	return nil
}
