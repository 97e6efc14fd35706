package layout

import "github.com/lehigh-university-libraries/photolog/internal/models"

// Align is the horizontal anchoring of a text block
type Align string

const (
	AlignLeft  Align = "left"
	AlignRight Align = "right"
)

// TextStyle selects a font for measurement and drawing
type TextStyle struct {
	Family string  `yaml:"family"`
	Style  string  `yaml:"style"` // "", "B", "I", "BI"
	Size   float64 `yaml:"size"`  // points
}

var (
	TitleStyle       = TextStyle{Family: "Helvetica", Style: "B", Size: 18}
	BodyStyle        = TextStyle{Family: "Helvetica", Style: "", Size: 11}
	PlaceholderStyle = TextStyle{Family: "Helvetica", Style: "", Size: 10}
)

// Stroke is a gray-level line style
type Stroke struct {
	Gray  int     `yaml:"gray"`
	Width float64 `yaml:"width"`
}

var (
	HeaderStroke = Stroke{Gray: 200, Width: 0.5}
	RowStroke    = Stroke{Gray: 230, Width: 0.2}
)

// PlaceholderText marks a cell whose image could not be placed.
const PlaceholderText = "[Image Error]"

type Rect struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type Line struct {
	X1     float64 `yaml:"x1"`
	Y1     float64 `yaml:"y1"`
	X2     float64 `yaml:"x2"`
	Y2     float64 `yaml:"y2"`
	Stroke Stroke  `yaml:"stroke"`
}

// TitleAnchor positions the header title; with AlignRight the point is
// the right end of the baseline.
type TitleAnchor struct {
	Text  string    `yaml:"text"`
	At    Point     `yaml:"at"`
	Align Align     `yaml:"align"`
	Style TextStyle `yaml:"style"`
}

// HeaderPlacement is the header band of one page
type HeaderPlacement struct {
	Logo      *Rect             `yaml:"logo,omitempty"`
	LogoImage *models.ImageData `yaml:"logo_image,omitempty"`
	Title     *TitleAnchor      `yaml:"title,omitempty"`
	Divider   Line              `yaml:"divider"`
}

// TextBlock is a wrapped description; Y is the baseline of the first line
type TextBlock struct {
	Lines      []string  `yaml:"lines"`
	X          float64   `yaml:"x"`
	Y          float64   `yaml:"y"`
	LineHeight float64   `yaml:"line_height"`
	Style      TextStyle `yaml:"style"`
}

// Placeholder is the visible marker drawn in place of an image
type Placeholder struct {
	Text  string    `yaml:"text"`
	X     float64   `yaml:"x"`
	Y     float64   `yaml:"y"`
	Style TextStyle `yaml:"style"`
	Cause string    `yaml:"cause,omitempty"`
}

// RowPlacement is one entry's slot on a page
type RowPlacement struct {
	EntryID     string            `yaml:"entry_id"`
	Index       int               `yaml:"index"` // position in the entry list
	Top         float64           `yaml:"top"`
	Image       *Rect             `yaml:"image,omitempty"`
	ImageData   *models.ImageData `yaml:"image_data,omitempty"`
	Placeholder *Placeholder      `yaml:"placeholder,omitempty"`
	Text        TextBlock         `yaml:"text"`
	Divider     bool              `yaml:"divider"`
	DividerLine Line              `yaml:"divider_line"`
}

// DrawInstruction is everything drawn on one page
type DrawInstruction struct {
	PageIndex int             `yaml:"page_index"`
	Header    HeaderPlacement `yaml:"header"`
	Rows      []RowPlacement  `yaml:"rows"`
}

// ItemIssue records an entry (or the logo, with an empty EntryID) that
// was degraded instead of placed.
type ItemIssue struct {
	EntryID string `yaml:"entry_id,omitempty"`
	Index   int    `yaml:"index"`
	Err     error  `yaml:"-"`
	Message string `yaml:"message"`
}

// Plan is the planner output
type Plan struct {
	Geometry Geometry          `yaml:"geometry"`
	Pages    []DrawInstruction `yaml:"pages"`
	Issues   []ItemIssue       `yaml:"issues,omitempty"`
}

// Empty reports whether there is nothing to draw.
func (p *Plan) Empty() bool {
	return p == nil || len(p.Pages) == 0
}

// RowCount is the number of rows across all pages.
func (p *Plan) RowCount() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, page := range p.Pages {
		n += len(page.Rows)
	}
	return n
}
