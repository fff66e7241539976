package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput     bool
	driverOverride string
	logLevel       string
)

var rootCmd = &cobra.Command{
	Use:   "catalog-admin",
	Short: "Admin tooling for the product catalog",
	Long: `catalog-admin manages the product catalog kept in the configured store.
It runs the Telegram admin bot and offers one-shot commands to list,
delete, import and export products.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&driverOverride, "driver", "", "Override STORE_DRIVER (memory, sqlite, firestore)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL")

	rootCmd.AddCommand(
		newServeCmd(),
		newListCmd(),
		newDeleteCmd(),
		newImportCmd(),
		newExportCmd(),
	)
}

// Execute root komandani ishga tushirish. main.main() dan bir marta chaqiriladi.
func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if jsonOutput {
			printJSON(map[string]string{"error": err.Error()})
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
