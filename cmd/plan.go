package cmd

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/photolog/internal/export"
	"github.com/lehigh-university-libraries/photolog/internal/images"
	"github.com/lehigh-university-libraries/photolog/internal/manifest"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <manifest>",
		Short: "Print the page layout of a manifest as YAML",
		Long: `Computes where every header element, photo, placeholder, description and
divider would be drawn, without producing a PDF. Coordinates are in
millimetres from the top-left corner of an A4 page.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.NewLoader(args[0]).Load()
			if err != nil {
				return fmt.Errorf("failed to load manifest: %w", err)
			}

			meta, entries, _ := m.Resolve(cmd.Context(), images.NewProvider())

			plan, err := export.NewService(slog.Default()).Plan(meta, entries)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(plan)
		},
	}

	return cmd
}
