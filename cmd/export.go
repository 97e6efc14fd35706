package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/photolog/internal/export"
	"github.com/lehigh-university-libraries/photolog/internal/images"
	"github.com/lehigh-university-libraries/photolog/internal/manifest"
	"github.com/lehigh-university-libraries/photolog/internal/render"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		outDir   string
		output   string
		toStdout bool
	)

	cmd := &cobra.Command{
		Use:   "export <manifest>",
		Short: "Render a manifest as a PDF report",
		Long: `Loads the manifest, lays out its entries four to a page and writes the PDF.

The file is named after the project title (e.g. "Site Visit" becomes
site_visit_report.pdf) unless --output is given. Entries whose photo cannot
be loaded are kept with an "[Image Error]" placeholder.`,
		Example: `  # Write <title>_report.pdf into the current directory
  photolog export project.yaml

  # Write to an explicit path
  photolog export entries.parquet --output /tmp/report.pdf

  # Stream to stdout
  photolog export project.yaml --stdout > report.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.NewLoader(args[0]).Load()
			if err != nil {
				return fmt.Errorf("failed to load manifest: %w", err)
			}

			meta, entries, problems := m.Resolve(cmd.Context(), images.NewProvider())
			if len(problems) > 0 {
				slog.Warn("Some images could not be loaded", "count", len(problems))
			}

			service := export.NewService(slog.Default())

			var result *export.Result
			if toStdout {
				result, err = service.Export(cmd.Context(), meta, entries, os.Stdout)
			} else {
				output, result, err = service.ExportFile(cmd.Context(), meta, entries, outDir, output)
			}
			if errors.Is(err, render.ErrNothingToExport) {
				slog.Info("Nothing to export", "manifest", args[0])
				return nil
			}
			if err != nil {
				return err
			}

			slog.Info("Export complete", "path", output, "pages", result.Pages, "rows", result.Rows, "degraded", len(result.Degraded))
			for _, d := range result.Degraded {
				slog.Warn("Degraded entry", "detail", d)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "d", ".", "Directory for the generated report")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Explicit output path (overrides --out-dir)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Write the PDF to stdout")

	return cmd
}
