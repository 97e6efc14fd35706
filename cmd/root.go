package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "photolog",
		Short: "Photo log report builder with paginated PDF export",
		Long: `Photolog turns an ordered list of photos and descriptions into a paginated
PDF report: a header with logo and title on every page, and one photo per row
with its description beside it.

Projects can be described in a manifest (YAML, JSONL or Parquet) and exported
from the command line, or collected through the web API.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			logLevel := slog.LevelInfo
			if verbose {
				logLevel = slog.LevelDebug
			}
			// stdout is reserved for command output
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
			slog.SetDefault(logger)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newPlanCmd())
	cmd.AddCommand(newCaptionCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}
