package manifest

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/photolog/internal/images"
	"github.com/lehigh-university-libraries/photolog/internal/models"
)

// Resolve loads every referenced image. An image that cannot be loaded
// leaves its entry with empty image data, which the planner turns into a
// placeholder; an unloadable logo is dropped. The returned errors list
// those degraded references.
func (m *Manifest) Resolve(ctx context.Context, provider *images.Provider) (models.ProjectMetadata, []models.Entry, []error) {
	var problems []error

	meta := models.ProjectMetadata{Title: m.Title}
	if m.Logo != "" {
		logo, err := provider.Load(ctx, m.Logo, m.Dir)
		if err != nil {
			slog.Warn("Invalid logo, exporting without it", "logo", m.Logo, "error", err)
			problems = append(problems, err)
		} else {
			meta.Logo = logo
		}
	}

	entries := make([]models.Entry, 0, len(m.Entries))
	for i, src := range m.Entries {
		if err := ctx.Err(); err != nil {
			return meta, entries, append(problems, err)
		}

		var img *models.ImageData
		if ref := strings.TrimSpace(src.Image); ref != "" {
			loaded, err := provider.Load(ctx, ref, m.Dir)
			if err != nil {
				slog.Warn("Failed to load entry image", "index", i, "image", ref, "error", err)
				problems = append(problems, err)
				loaded = &models.ImageData{}
			}
			img = loaded
		}

		entries = append(entries, models.NewEntry(img, src.Description))
	}

	return meta, entries, problems
}
