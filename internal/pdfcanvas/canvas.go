package pdfcanvas

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/lehigh-university-libraries/photolog/internal/layout"
	"github.com/lehigh-university-libraries/photolog/internal/models"
	"github.com/lehigh-university-libraries/photolog/internal/utils"
)

// Canvas writes pages to an A4 PDF in millimeters. It also measures text
// with the same core fonts it draws with.
type Canvas struct {
	pdf       *fpdf.Fpdf
	translate func(string) string
}

// New creates an empty document; the first NewPage opens page one.
func New(title string) *Canvas {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("photolog", false)
	if title != "" {
		pdf.SetTitle(title, true)
	}

	return &Canvas{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// StringWidth implements layout.Measurer.
func (c *Canvas) StringWidth(style layout.TextStyle, s string) float64 {
	c.pdf.SetFont(style.Family, style.Style, style.Size)
	return c.pdf.GetStringWidth(c.translate(s))
}

func (c *Canvas) NewPage() error {
	c.pdf.AddPage()
	return c.takeError("add page")
}

// PlaceImage embeds img scaled into r. Each distinct image is registered
// once, keyed by content, so a logo repeated on every page is stored once.
func (c *Canvas) PlaceImage(img *models.ImageData, r layout.Rect) error {
	if img == nil || len(img.Data) == 0 {
		return fmt.Errorf("no image data")
	}
	imageType, err := fpdfImageType(img.Format)
	if err != nil {
		return err
	}

	opts := fpdf.ImageOptions{ImageType: imageType}
	name := utils.CalculateDataMD5(img.Data)
	if c.pdf.GetImageInfo(name) == nil {
		c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
		if err := c.takeError("register image"); err != nil {
			return err
		}
	}

	c.pdf.ImageOptions(name, r.X, r.Y, r.W, r.H, false, opts, 0, "")
	return c.takeError("place image")
}

// DrawText writes lines starting at baseline y. With AlignRight, x is the
// right edge of every line.
func (c *Canvas) DrawText(lines []string, x, y, lineHeight float64, style layout.TextStyle, align layout.Align) error {
	c.pdf.SetFont(style.Family, style.Style, style.Size)
	c.pdf.SetTextColor(0, 0, 0)

	for i, line := range lines {
		text := c.translate(line)
		lx := x
		if align == layout.AlignRight {
			lx = x - c.pdf.GetStringWidth(text)
		}
		c.pdf.Text(lx, y+float64(i)*lineHeight, text)
	}
	return c.takeError("draw text")
}

func (c *Canvas) DrawLine(l layout.Line) error {
	c.pdf.SetDrawColor(l.Stroke.Gray, l.Stroke.Gray, l.Stroke.Gray)
	c.pdf.SetLineWidth(l.Stroke.Width)
	c.pdf.Line(l.X1, l.Y1, l.X2, l.Y2)
	return c.takeError("draw line")
}

// Finalize writes the finished document to w.
func (c *Canvas) Finalize(w io.Writer) error {
	if err := c.takeError("finalize"); err != nil {
		return err
	}
	if err := c.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// PageCount is the number of pages opened so far.
func (c *Canvas) PageCount() int {
	return c.pdf.PageCount()
}

// takeError returns and clears fpdf's sticky error so a single bad cell
// does not disable every later call.
func (c *Canvas) takeError(op string) error {
	if !c.pdf.Err() {
		return nil
	}
	err := c.pdf.Error()
	c.pdf.ClearError()
	return fmt.Errorf("failed to %s: %w", op, err)
}

func fpdfImageType(format string) (string, error) {
	switch format {
	case "jpeg", "jpg":
		return "JPG", nil
	case "png":
		return "PNG", nil
	case "gif":
		return "GIF", nil
	default:
		return "", fmt.Errorf("image format %q cannot be embedded", format)
	}
}
