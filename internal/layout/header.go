package layout

import (
	"fmt"

	"github.com/lehigh-university-libraries/photolog/internal/models"
)

// ComposeHeader lays out the logo, title and divider of the header band.
// When the logo cannot be placed the header is still returned, without a
// logo, together with an error wrapping ErrInvalidLogoData.
func ComposeHeader(meta models.ProjectMetadata, g Geometry) (HeaderPlacement, error) {
	header := HeaderPlacement{
		Divider: Line{
			X1:     g.MarginX,
			Y1:     g.HeaderTop + g.HeaderHeight,
			X2:     g.PageWidth - g.MarginX,
			Y2:     g.HeaderTop + g.HeaderHeight,
			Stroke: HeaderStroke,
		},
	}

	if meta.Title != "" {
		header.Title = &TitleAnchor{
			Text:  meta.Title,
			At:    Point{X: g.PageWidth - g.MarginX, Y: g.HeaderTop + g.TitleBaseline},
			Align: AlignRight,
			Style: TitleStyle,
		}
	}

	var logoErr error
	if meta.Logo != nil {
		rect, err := placeLogo(meta.Logo, g)
		if err != nil {
			logoErr = err
		} else {
			header.Logo = &rect
			header.LogoImage = meta.Logo
		}
	}

	return header, logoErr
}

// placeLogo anchors the fitted logo at the top-left of the header band.
func placeLogo(logo *models.ImageData, g Geometry) (Rect, error) {
	if len(logo.Data) == 0 {
		return Rect{}, fmt.Errorf("%w: no image data", ErrInvalidLogoData)
	}
	w, h, err := Fit(float64(logo.Width), float64(logo.Height), g.LogoBoxWidth, g.LogoBoxHeight)
	if err != nil {
		return Rect{}, fmt.Errorf("%w: %w", ErrInvalidLogoData, err)
	}
	return Rect{X: g.MarginX, Y: g.HeaderTop, W: w, H: h}, nil
}
