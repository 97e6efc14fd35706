package render

import (
	"io"
	"regexp"
	"strings"

	"github.com/lehigh-university-libraries/photolog/internal/layout"
	"github.com/lehigh-university-libraries/photolog/internal/models"
)

// Canvas is the page-writing backend the driver issues primitives to.
// A canvas starts without any page; the first NewPage opens page one.
type Canvas interface {
	NewPage() error
	PlaceImage(img *models.ImageData, r layout.Rect) error
	DrawText(lines []string, x, y, lineHeight float64, style layout.TextStyle, align layout.Align) error
	DrawLine(l layout.Line) error
	Finalize(w io.Writer) error
}

var unsafeFilenameChars = regexp.MustCompile(`(?i)[^a-z0-9]`)

// Filename derives the download name of a report from the project title.
func Filename(title string) string {
	if title == "" {
		title = "project"
	}
	return strings.ToLower(unsafeFilenameChars.ReplaceAllString(title, "_")) + "_report.pdf"
}
