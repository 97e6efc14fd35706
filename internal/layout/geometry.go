package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGeometry is returned before any layout work when the page
	// geometry cannot hold a single row.
	ErrInvalidGeometry = errors.New("invalid page geometry")
	// ErrInvalidImageDimensions marks an image whose natural size is not positive.
	ErrInvalidImageDimensions = errors.New("invalid image dimensions")
	// ErrInvalidLogoData marks a header logo that cannot be placed.
	ErrInvalidLogoData = errors.New("invalid logo data")
)

// Geometry holds the fixed page measurements, in millimeters.
type Geometry struct {
	PageWidth    float64 `yaml:"page_width"`
	PageHeight   float64 `yaml:"page_height"`
	MarginX      float64 `yaml:"margin_x"`
	MarginBottom float64 `yaml:"margin_bottom"`

	HeaderTop    float64 `yaml:"header_top"`
	HeaderHeight float64 `yaml:"header_height"`
	HeaderGap    float64 `yaml:"header_gap"` // space between header divider and first row

	ItemsPerPage int `yaml:"items_per_page"`

	ImageBoxWidth float64 `yaml:"image_box_width"`
	ImagePadding  float64 `yaml:"image_padding"` // above and below the image box
	TextGap       float64 `yaml:"text_gap"`      // between image box and text column

	LogoBoxWidth  float64 `yaml:"logo_box_width"`
	LogoBoxHeight float64 `yaml:"logo_box_height"`
	TitleBaseline float64 `yaml:"title_baseline"` // relative to HeaderTop

	LineHeight        float64 `yaml:"line_height"`
	BaselineAdjust    float64 `yaml:"baseline_adjust"`
	RowTopPadding     float64 `yaml:"row_top_padding"`
	PlaceholderOffset float64 `yaml:"placeholder_offset"` // error marker baseline below row top
}

// DefaultGeometry is the A4 portrait layout: header band, then four rows
// of image on the left and description on the right.
func DefaultGeometry() Geometry {
	return Geometry{
		PageWidth:    210,
		PageHeight:   297,
		MarginX:      15,
		MarginBottom: 15,

		HeaderTop:    10,
		HeaderHeight: 30,
		HeaderGap:    5,

		ItemsPerPage: 4,

		ImageBoxWidth: 80,
		ImagePadding:  5,
		TextGap:       10,

		LogoBoxWidth:  50,
		LogoBoxHeight: 25,
		TitleBaseline: 15,

		LineHeight:        5,
		BaselineAdjust:    2,
		RowTopPadding:     5,
		PlaceholderOffset: 20,
	}
}

// ContentStartY is where the first row begins, below the header and gap.
func (g Geometry) ContentStartY() float64 {
	return g.HeaderTop + g.HeaderHeight + g.HeaderGap
}

// ContentHeight is the vertical space shared by the rows of a page.
func (g Geometry) ContentHeight() float64 {
	return g.PageHeight - g.ContentStartY() - g.MarginBottom
}

// RowHeight is the height of one entry row.
func (g Geometry) RowHeight() float64 {
	return g.ContentHeight() / float64(g.ItemsPerPage)
}

// ImageBoxHeight is the row height less the padding above and below the photo.
func (g Geometry) ImageBoxHeight() float64 {
	return g.RowHeight() - 2*g.ImagePadding
}

// TextX is the left edge of the description column.
func (g Geometry) TextX() float64 {
	return g.MarginX + g.ImageBoxWidth + g.TextGap
}

// TextWidth is the width descriptions wrap to.
func (g Geometry) TextWidth() float64 {
	return g.PageWidth - g.TextX() - g.MarginX
}

// ContentWidth is the page width inside both side margins.
func (g Geometry) ContentWidth() float64 {
	return g.PageWidth - 2*g.MarginX
}

// RowTop is the top edge of the slot'th row on a page.
func (g Geometry) RowTop(slot int) float64 {
	return g.ContentStartY() + float64(slot)*g.RowHeight()
}

// Validate reports the first structural problem with the geometry.
func (g Geometry) Validate() error {
	switch {
	case g.PageWidth <= 0 || g.PageHeight <= 0:
		return fmt.Errorf("%w: page size %gx%g", ErrInvalidGeometry, g.PageWidth, g.PageHeight)
	case g.ItemsPerPage <= 0:
		return fmt.Errorf("%w: items per page %d", ErrInvalidGeometry, g.ItemsPerPage)
	case g.LineHeight <= 0:
		return fmt.Errorf("%w: line height %g", ErrInvalidGeometry, g.LineHeight)
	case g.RowHeight() <= 0:
		return fmt.Errorf("%w: row height %g", ErrInvalidGeometry, g.RowHeight())
	case g.ImageBoxWidth <= 0 || g.ImageBoxHeight() <= 0:
		return fmt.Errorf("%w: image box %gx%g", ErrInvalidGeometry, g.ImageBoxWidth, g.ImageBoxHeight())
	case g.LogoBoxWidth <= 0 || g.LogoBoxHeight <= 0:
		return fmt.Errorf("%w: logo box %gx%g", ErrInvalidGeometry, g.LogoBoxWidth, g.LogoBoxHeight)
	case g.TextWidth() <= 0:
		return fmt.Errorf("%w: text width %g", ErrInvalidGeometry, g.TextWidth())
	}
	return nil
}
