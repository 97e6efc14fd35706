package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/photolog/internal/layout"
)

// ErrNothingToExport is returned for a plan without pages. Callers treat
// it as a no-op, not a failure.
var ErrNothingToExport = errors.New("nothing to export")

// Driver replays a layout plan onto a canvas
type Driver struct {
	canvas Canvas
	logger *slog.Logger
}

// CellFailure is a primitive that failed and was substituted locally
type CellFailure struct {
	Page    int    `json:"page"`
	Row     int    `json:"row"` // -1 for the header
	EntryID string `json:"entry_id,omitempty"`
	Cell    string `json:"cell"` // "logo", "title", "header_divider", "image", "placeholder", "text", "divider"
	Err     error  `json:"-"`
}

func (f CellFailure) Error() string {
	return fmt.Sprintf("page %d row %d %s: %v", f.Page, f.Row, f.Cell, f.Err)
}

// Report summarises a completed render
type Report struct {
	Pages    int
	Rows     int
	Failures []CellFailure
}

// Degraded reports whether any cell was substituted.
func (r *Report) Degraded() bool {
	return r != nil && len(r.Failures) > 0
}

func NewDriver(canvas Canvas, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{canvas: canvas, logger: logger}
}

// Render draws every page of plan and then finalizes the canvas into w.
// Cancellation is honoured between pages only, so a cancelled render never
// leaves a half-drawn page and never reaches Finalize.
func (d *Driver) Render(ctx context.Context, plan *layout.Plan, w io.Writer) (*Report, error) {
	if plan.Empty() {
		return nil, ErrNothingToExport
	}

	report := &Report{}
	for _, page := range plan.Pages {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := d.canvas.NewPage(); err != nil {
			return report, fmt.Errorf("failed to start page %d: %w", page.PageIndex+1, err)
		}

		d.drawHeader(page, report)
		for _, row := range page.Rows {
			d.drawRow(plan.Geometry, page.PageIndex, row, report)
			report.Rows++
		}
		report.Pages++
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}
	if err := d.canvas.Finalize(w); err != nil {
		return report, fmt.Errorf("failed to finalize document: %w", err)
	}

	d.logger.Debug("Document rendered", "pages", report.Pages, "rows", report.Rows, "failures", len(report.Failures))
	return report, nil
}

func (d *Driver) drawHeader(page layout.DrawInstruction, report *Report) {
	h := page.Header

	if h.Logo != nil && h.LogoImage != nil {
		if err := d.canvas.PlaceImage(h.LogoImage, *h.Logo); err != nil {
			d.fail(report, CellFailure{Page: page.PageIndex, Row: -1, Cell: "logo", Err: err})
		}
	}

	if h.Title != nil {
		t := h.Title
		if err := d.canvas.DrawText([]string{t.Text}, t.At.X, t.At.Y, 0, t.Style, t.Align); err != nil {
			d.fail(report, CellFailure{Page: page.PageIndex, Row: -1, Cell: "title", Err: err})
		}
	}

	if err := d.canvas.DrawLine(h.Divider); err != nil {
		d.fail(report, CellFailure{Page: page.PageIndex, Row: -1, Cell: "header_divider", Err: err})
	}
}

func (d *Driver) drawRow(g layout.Geometry, pageIndex int, row layout.RowPlacement, report *Report) {
	placeholder := row.Placeholder
	if row.Image != nil && row.ImageData != nil {
		if err := d.canvas.PlaceImage(row.ImageData, *row.Image); err != nil {
			d.fail(report, CellFailure{Page: pageIndex, Row: row.Index, EntryID: row.EntryID, Cell: "image", Err: err})
			placeholder = layout.ErrorPlaceholder(g, row.Top, err)
		}
	}

	if placeholder != nil {
		if err := d.canvas.DrawText([]string{placeholder.Text}, placeholder.X, placeholder.Y, 0, placeholder.Style, layout.AlignLeft); err != nil {
			d.fail(report, CellFailure{Page: pageIndex, Row: row.Index, EntryID: row.EntryID, Cell: "placeholder", Err: err})
		}
	}

	if len(row.Text.Lines) > 0 {
		t := row.Text
		if err := d.canvas.DrawText(t.Lines, t.X, t.Y, t.LineHeight, t.Style, layout.AlignLeft); err != nil {
			d.fail(report, CellFailure{Page: pageIndex, Row: row.Index, EntryID: row.EntryID, Cell: "text", Err: err})
		}
	}

	if row.Divider {
		if err := d.canvas.DrawLine(row.DividerLine); err != nil {
			d.fail(report, CellFailure{Page: pageIndex, Row: row.Index, EntryID: row.EntryID, Cell: "divider", Err: err})
		}
	}
}

func (d *Driver) fail(report *Report, f CellFailure) {
	d.logger.Warn("Cell substituted", "page", f.Page+1, "row", f.Row, "entry_id", f.EntryID, "cell", f.Cell, "error", f.Err)
	report.Failures = append(report.Failures, f)
}
