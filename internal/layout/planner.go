package layout

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/photolog/internal/models"
)

// Planner turns an ordered entry list into per-page draw instructions.
// It holds no state between calls; the same input always produces the
// same plan.
type Planner struct {
	geometry Geometry
	measurer Measurer
	logger   *slog.Logger
}

type Option func(*Planner)

// WithLogger sets the logger used to report degraded items.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// NewPlanner creates a planner measuring text with m
func NewPlanner(g Geometry, m Measurer, opts ...Option) *Planner {
	p := &Planner{
		geometry: g,
		measurer: m,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Geometry returns the page geometry the planner lays out against.
func (p *Planner) Geometry() Geometry {
	return p.geometry
}

// Plan lays out entries under the header described by meta. Only an
// invalid geometry is an error; entries or a logo that cannot be placed
// are degraded and listed in Plan.Issues.
func (p *Planner) Plan(entries []models.Entry, meta models.ProjectMetadata) (*Plan, error) {
	g := p.geometry
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if p.measurer == nil {
		return nil, errors.New("planner has no text measurer")
	}

	plan := &Plan{Geometry: g}
	spans := Paginate(len(entries), g.ItemsPerPage)
	if len(spans) == 0 {
		return plan, nil
	}

	header, err := ComposeHeader(meta, g)
	if err != nil {
		p.logger.Warn("Header logo skipped", "error", err)
		plan.Issues = append(plan.Issues, ItemIssue{Index: -1, Err: err, Message: err.Error()})
	}

	plan.Pages = make([]DrawInstruction, 0, len(spans))
	for _, span := range spans {
		page := DrawInstruction{
			PageIndex: span.Index,
			Header:    header,
			Rows:      make([]RowPlacement, 0, span.Len()),
		}
		for i := span.Start; i < span.End; i++ {
			row, issue := p.planRow(entries[i], i, i-span.Start, len(entries))
			if issue != nil {
				plan.Issues = append(plan.Issues, *issue)
			}
			page.Rows = append(page.Rows, row)
		}
		plan.Pages = append(plan.Pages, page)
	}

	return plan, nil
}

// planRow computes the geometry of entry index, drawn in the slot'th row
// of its page.
func (p *Planner) planRow(entry models.Entry, index, slot, total int) (RowPlacement, *ItemIssue) {
	g := p.geometry
	rowTop := g.RowTop(slot)

	row := RowPlacement{
		EntryID: entry.ID,
		Index:   index,
		Top:     rowTop,
		Divider: HasDivider(index, total, g.ItemsPerPage),
		DividerLine: Line{
			X1:     g.MarginX,
			Y1:     rowTop + g.RowHeight(),
			X2:     g.PageWidth - g.MarginX,
			Y2:     rowTop + g.RowHeight(),
			Stroke: RowStroke,
		},
	}

	var issue *ItemIssue
	if entry.Image != nil {
		rect, err := p.placeImage(entry.Image, rowTop)
		if err != nil {
			p.logger.Warn("Entry image replaced by placeholder", "entry_id", entry.ID, "index", index, "error", err)
			row.Placeholder = ErrorPlaceholder(g, rowTop, err)
			issue = &ItemIssue{EntryID: entry.ID, Index: index, Err: err, Message: err.Error()}
		} else {
			row.Image = &rect
			row.ImageData = entry.Image
		}
	}

	lines := Wrap(p.measurer, BodyStyle, entry.Description, g.TextWidth())
	row.Text = TextBlock{
		Lines:      lines,
		X:          g.TextX(),
		Y:          TextTop(g, rowTop, len(lines)),
		LineHeight: g.LineHeight,
		Style:      BodyStyle,
	}

	return row, issue
}

func (p *Planner) placeImage(img *models.ImageData, rowTop float64) (Rect, error) {
	g := p.geometry
	if len(img.Data) == 0 {
		return Rect{}, fmt.Errorf("%w: no image data", ErrInvalidImageDimensions)
	}
	w, h, err := Fit(float64(img.Width), float64(img.Height), g.ImageBoxWidth, g.ImageBoxHeight())
	if err != nil {
		return Rect{}, err
	}
	box := Rect{X: g.MarginX, Y: rowTop + g.ImagePadding, W: g.ImageBoxWidth, H: g.ImageBoxHeight()}
	return Center(box, w, h), nil
}

// ErrorPlaceholder is the marker drawn in the image cell of the row at rowTop.
func ErrorPlaceholder(g Geometry, rowTop float64, cause error) *Placeholder {
	ph := &Placeholder{
		Text:  PlaceholderText,
		X:     g.MarginX,
		Y:     rowTop + g.PlaceholderOffset,
		Style: PlaceholderStyle,
	}
	if cause != nil {
		ph.Cause = cause.Error()
	}
	return ph
}
