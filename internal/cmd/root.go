package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront - digital goods store demo",
	Long: `Storefront is a single-process digital goods store: product catalog,
shopping cart, simulated QR payment flow and an admin surface, all backed
by a shared key-value store (in-memory or redis).`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
