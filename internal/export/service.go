package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/photolog/internal/layout"
	"github.com/lehigh-university-libraries/photolog/internal/models"
	"github.com/lehigh-university-libraries/photolog/internal/pdfcanvas"
	"github.com/lehigh-university-libraries/photolog/internal/render"
)

// Service exports projects as PDF reports
type Service struct {
	geometry layout.Geometry
	logger   *slog.Logger
}

// Result describes a finished export
type Result struct {
	Filename string   `json:"filename"`
	Pages    int      `json:"pages"`
	Rows     int      `json:"rows"`
	Bytes    int      `json:"bytes"`
	Degraded []string `json:"degraded,omitempty"`
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		geometry: layout.DefaultGeometry(),
		logger:   logger,
	}
}

// Plan lays out entries without rendering them. Text is measured with the
// same fonts the PDF uses.
func (s *Service) Plan(meta models.ProjectMetadata, entries []models.Entry) (*layout.Plan, error) {
	planner := layout.NewPlanner(s.geometry, pdfcanvas.New(""), layout.WithLogger(s.logger))
	return planner.Plan(entries, meta)
}

// Export renders the report and writes it to w in a single write. With no
// entries nothing is written and render.ErrNothingToExport is returned.
func (s *Service) Export(ctx context.Context, meta models.ProjectMetadata, entries []models.Entry, w io.Writer) (*Result, error) {
	if len(entries) == 0 {
		return nil, render.ErrNothingToExport
	}

	canvas := pdfcanvas.New(meta.Title)
	plan, err := layout.NewPlanner(s.geometry, canvas, layout.WithLogger(s.logger)).Plan(entries, meta)
	if err != nil {
		return nil, fmt.Errorf("failed to plan layout: %w", err)
	}

	var buf bytes.Buffer
	report, err := render.NewDriver(canvas, s.logger).Render(ctx, plan, &buf)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Filename: render.Filename(meta.Title),
		Pages:    report.Pages,
		Rows:     report.Rows,
		Bytes:    buf.Len(),
	}
	for _, issue := range plan.Issues {
		result.Degraded = append(result.Degraded, issue.Message)
	}
	for _, failure := range report.Failures {
		result.Degraded = append(result.Degraded, failure.Error())
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	s.logger.Info("Report exported", "title", meta.Title, "pages", result.Pages, "rows", result.Rows, "degraded", len(result.Degraded))
	return result, nil
}

// ExportFile writes the report into dir under its derived filename, or to
// path when path is non-empty. The file is only created once rendering
// has succeeded.
func (s *Service) ExportFile(ctx context.Context, meta models.ProjectMetadata, entries []models.Entry, dir, path string) (string, *Result, error) {
	var buf bytes.Buffer
	result, err := s.Export(ctx, meta, entries, &buf)
	if err != nil {
		return "", nil, err
	}

	if path == "" {
		path = filepath.Join(dir, result.Filename)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", nil, fmt.Errorf("failed to write report: %w", err)
	}
	return path, result, nil
}
