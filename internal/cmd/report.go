package cmd

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/loukys/storefront/internal/config"
	"github.com/loukys/storefront/pkg/logging"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the sales report as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		runExport(func(ctx context.Context, a *app) (any, error) {
			return a.admin.Report(ctx)
		})
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Dump every collection as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		runExport(func(ctx context.Context, a *app) (any, error) {
			return a.admin.Backup(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(backupCmd)
}

func runExport(project func(context.Context, *app) (any, error)) {
	log := logging.New(slog.LevelWarn)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	a := newApp(log, cfg)
	defer a.close()

	out, err := project(context.Background(), a)
	if err != nil {
		log.Error("export failed", "err", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Error("encode failed", "err", err)
		os.Exit(1)
	}
}
