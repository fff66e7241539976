package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/yourusername/catalog-admin/internal/delivery/telegram"
	"github.com/yourusername/catalog-admin/internal/domain/repository"
	"github.com/yourusername/catalog-admin/internal/infrastructure/gemini"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram admin bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.cfg.ValidateBot(); err != nil {
				return err
			}

			var copyWriter repository.CopyWriter
			if a.cfg.GeminiAPIKey != "" {
				client, err := gemini.NewGeminiClient(ctx, a.cfg.GeminiAPIKey, a.cfg.GeminiModel)
				if err != nil {
					return err
				}
				defer client.Close()
				copyWriter = client
			} else {
				log.Info().Msg("GEMINI_API_KEY not set, /describe disabled")
			}

			bot, err := telegram.NewBotHandler(a.cfg.TelegramToken, a.admin, a.catalog, copyWriter)
			if err != nil {
				return err
			}

			if err := bot.Start(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			log.Info().Msg("shutdown complete")
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if state := a.catalog.State(); !state.OK() {
				return fmt.Errorf("catalog not loaded: %s", state.Reason)
			}

			products := a.catalog.Products()
			if jsonOutput {
				printJSON(products)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tSTATUS\tCATEGORY")
			for _, p := range products {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\t%s\t%s\n", p.ID, p.Name, p.Price, p.Stock, p.Status, p.Category)
			}
			return w.Flush()
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.loginOperator(ctx); err != nil {
				return err
			}

			id := strings.TrimSpace(args[0])
			state, err := a.admin.DeleteProduct(ctx, cliOperatorID, id)
			if err != nil {
				return err
			}
			if !state.OK() {
				return fmt.Errorf("delete failed: %s", state.Reason)
			}

			if jsonOutput {
				printJSON(map[string]interface{}{"deleted": id, "remaining": state.Count})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Successfully deleted %s (%d remaining)\n", id, state.Count)
			}
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import products from an Excel sheet",
		Long: `Import products from an Excel sheet. The first row must be a header
with at least a name column. Every row goes through the same validation
as the bot's /submit; rejected rows are reported with their line number.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.loginOperator(ctx); err != nil {
				return err
			}

			result, err := a.admin.ImportCatalog(ctx, cliOperatorID, data, filepath.Base(args[0]))
			if err != nil {
				return err
			}

			if jsonOutput {
				failed := make([]map[string]interface{}, 0, len(result.Failed))
				for _, issue := range result.Failed {
					failed = append(failed, map[string]interface{}{"line": issue.Line, "error": issue.Err.Error()})
				}
				printJSON(map[string]interface{}{"created": result.Created, "failed": failed})
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d products, %d rejected\n", len(result.Created), len(result.Failed))
			for _, issue := range result.Failed {
				fmt.Fprintf(cmd.OutOrStdout(), "  line %d: %v\n", issue.Line, issue.Err)
			}
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file.xlsx]",
		Short: "Export the catalog to an Excel sheet (default catalog.xlsx)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := "catalog.xlsx"
			if len(args) == 1 {
				output = args[0]
			}

			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.loginOperator(ctx); err != nil {
				return err
			}

			data, err := a.admin.ExportCatalog(ctx, cliOperatorID)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d products to %s\n", len(a.catalog.Products()), output)
			return nil
		},
	}
}
