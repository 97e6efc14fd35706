package cmd

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/lehigh-university-libraries/photolog/internal/captions"
	"github.com/lehigh-university-libraries/photolog/internal/images"
	"github.com/lehigh-university-libraries/photolog/internal/manifest"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newCaptionCmd() *cobra.Command {
	var (
		provider    string
		prompt      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "caption <image>...",
		Short: "Draft descriptions for photos with a vision model",
		Long: `Sends each photo to a vision-capable LLM and prints manifest entries with the
drafted descriptions, ready to review and paste into a manifest.

Provider defaults to CAPTION_PROVIDER (gemini, ollama or openai). Gemini needs
GEMINI_API_KEY, OpenAI needs OPENAI_API_KEY and Ollama is reached at OLLAMA_URL.`,
		Example: `  photolog caption photos/*.jpg > entries.yaml
  photolog caption --provider gemini site.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			captioner, err := captions.New(provider)
			if err != nil {
				return err
			}
			if concurrency < 1 {
				concurrency = 1
			}

			imgs := images.NewProvider()
			entries := make([]manifest.EntrySource, len(args))

			var wg sync.WaitGroup
			semaphore := make(chan struct{}, concurrency)
			for i, path := range args {
				wg.Add(1)
				go func(idx int, path string) {
					defer wg.Done()
					semaphore <- struct{}{}        // Acquire
					defer func() { <-semaphore }() // Release

					entries[idx].Image = path

					img, err := imgs.FromFile(path)
					if err != nil {
						slog.Error("Failed to load image", "path", path, "error", err)
						return
					}

					slog.Info("Drafting description", "path", path, "progress", fmt.Sprintf("%d/%d", idx+1, len(args)))
					description, err := captioner.Describe(cmd.Context(), img, prompt)
					if err != nil {
						slog.Error("Failed to draft description", "path", path, "error", err)
						return
					}
					entries[idx].Description = description
				}(i, path)
			}
			wg.Wait()

			if err := cmd.Context().Err(); err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(&manifest.Manifest{Entries: entries})
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Caption provider: gemini, ollama or openai (default $CAPTION_PROVIDER, then ollama)")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Prompt override")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 2, "Number of photos described in parallel")

	return cmd
}
