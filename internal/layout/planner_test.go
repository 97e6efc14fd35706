package layout

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/photolog/internal/models"
)

func quietPlanner(g Geometry) *Planner {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPlanner(g, fixedMeasurer{charWidth: 2}, WithLogger(logger))
}

func testEntries(n int) []models.Entry {
	entries := make([]models.Entry, n)
	for i := range entries {
		entries[i] = models.Entry{
			ID:          fmt.Sprintf("entry-%d", i),
			Image:       &models.ImageData{Data: []byte{0xff}, Format: "jpeg", Width: 400, Height: 300},
			Description: fmt.Sprintf("Photo %d of the east elevation", i),
		}
	}
	return entries
}

func TestPlanFiveEntries(t *testing.T) {
	p := quietPlanner(DefaultGeometry())

	plan, err := p.Plan(testEntries(5), models.ProjectMetadata{Title: "Site Inspection"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(plan.Pages) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(plan.Pages))
	}
	if len(plan.Pages[0].Rows) != 4 || len(plan.Pages[1].Rows) != 1 {
		t.Fatalf("Expected 4+1 rows, got %d+%d", len(plan.Pages[0].Rows), len(plan.Pages[1].Rows))
	}

	for i, row := range plan.Pages[0].Rows {
		if row.EntryID != fmt.Sprintf("entry-%d", i) {
			t.Errorf("Page 0 row %d holds %s", i, row.EntryID)
		}
	}
	last := plan.Pages[1].Rows[0]
	if last.EntryID != "entry-4" {
		t.Errorf("Page 1 should hold entry-4, got %s", last.EntryID)
	}
	if last.Divider {
		t.Errorf("Last row overall must not have a divider")
	}
	if last.Top != DefaultGeometry().ContentStartY() {
		t.Errorf("First row of a new page should start at content start, got %v", last.Top)
	}

	expectDividers := []bool{true, true, true, false}
	for i, row := range plan.Pages[0].Rows {
		if row.Divider != expectDividers[i] {
			t.Errorf("Page 0 row %d divider = %v", i, row.Divider)
		}
	}

	for _, page := range plan.Pages {
		if page.Header.Title == nil || page.Header.Title.Text != "Site Inspection" {
			t.Errorf("Page %d is missing the title", page.PageIndex)
		}
		if page.Header.Title.Align != AlignRight || page.Header.Title.At.X != 195 || page.Header.Title.At.Y != 25 {
			t.Errorf("Unexpected title anchor %+v", page.Header.Title)
		}
		if page.Header.Divider.Y1 != 40 || page.Header.Divider.X1 != 15 || page.Header.Divider.X2 != 195 {
			t.Errorf("Unexpected header divider %+v", page.Header.Divider)
		}
	}
}

func TestPlanPreservesOrder(t *testing.T) {
	p := quietPlanner(DefaultGeometry())

	for _, n := range []int{1, 3, 4, 8, 9, 23} {
		entries := testEntries(n)
		plan, err := p.Plan(entries, models.ProjectMetadata{})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(plan.Pages) != (n+3)/4 {
			t.Errorf("n=%d: expected %d pages, got %d", n, (n+3)/4, len(plan.Pages))
		}

		var ids []string
		for _, page := range plan.Pages {
			for _, row := range page.Rows {
				ids = append(ids, row.EntryID)
			}
		}
		if len(ids) != n {
			t.Fatalf("n=%d: expected %d rows, got %d", n, n, len(ids))
		}
		for i := range ids {
			if ids[i] != entries[i].ID {
				t.Errorf("n=%d: row %d is %s, expected %s", n, i, ids[i], entries[i].ID)
			}
		}
	}
}

func TestPlanZeroEntries(t *testing.T) {
	p := quietPlanner(DefaultGeometry())

	plan, err := p.Plan(nil, models.ProjectMetadata{Title: "Empty"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !plan.Empty() {
		t.Errorf("Expected an empty plan, got %d pages", len(plan.Pages))
	}
}

func TestPlanInvalidGeometry(t *testing.T) {
	g := DefaultGeometry()
	g.ItemsPerPage = 0

	_, err := quietPlanner(g).Plan(testEntries(2), models.ProjectMetadata{})
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("Expected ErrInvalidGeometry, got %v", err)
	}
}

func TestPlanImageRects(t *testing.T) {
	g := DefaultGeometry()
	p := quietPlanner(g)

	entries := testEntries(4)
	entries[1].Image = &models.ImageData{Data: []byte{1}, Format: "png", Width: 100, Height: 1000}
	entries[2].Image = &models.ImageData{Data: []byte{1}, Format: "png", Width: 3000, Height: 200}
	entries[3].Image = nil

	plan, err := p.Plan(entries, models.ProjectMetadata{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i, row := range plan.Pages[0].Rows[:3] {
		if row.Image == nil {
			t.Fatalf("Row %d has no image rect", i)
		}
		r := *row.Image
		if r.W > g.ImageBoxWidth+1e-9 || r.H > g.ImageBoxHeight()+1e-9 {
			t.Errorf("Row %d rect %+v exceeds image box", i, r)
		}
		img := entries[i].Image
		if diff := r.W/r.H - float64(img.Width)/float64(img.Height); diff > 1e-3 || diff < -1e-3 {
			t.Errorf("Row %d rect %+v does not keep aspect ratio", i, r)
		}
		boxTop := row.Top + g.ImagePadding
		if !almostEqual(r.X-g.MarginX, g.ImageBoxWidth-r.W-(r.X-g.MarginX)) {
			t.Errorf("Row %d image not centered horizontally: %+v", i, r)
		}
		if !almostEqual(r.Y-boxTop, boxTop+g.ImageBoxHeight()-(r.Y+r.H)) {
			t.Errorf("Row %d image not centered vertically: %+v", i, r)
		}
	}

	noImage := plan.Pages[0].Rows[3]
	if noImage.Image != nil || noImage.Placeholder != nil {
		t.Errorf("Entry without image should have neither rect nor placeholder")
	}
	if len(plan.Issues) != 0 {
		t.Errorf("Expected no issues, got %+v", plan.Issues)
	}
}

func TestPlanUndecodableImage(t *testing.T) {
	g := DefaultGeometry()
	p := quietPlanner(g)

	entries := testEntries(1)
	entries[0].Image = &models.ImageData{Data: []byte("not an image"), Format: "jpeg", Width: 0, Height: 0}

	plan, err := p.Plan(entries, models.ProjectMetadata{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	row := plan.Pages[0].Rows[0]
	if row.Image != nil {
		t.Errorf("Expected no image rect")
	}
	if row.Placeholder == nil {
		t.Fatalf("Expected a placeholder")
	}
	if row.Placeholder.Text != PlaceholderText || row.Placeholder.X != g.MarginX || row.Placeholder.Y != row.Top+20 {
		t.Errorf("Unexpected placeholder %+v", row.Placeholder)
	}
	if len(row.Text.Lines) == 0 || row.Text.X != g.TextX() {
		t.Errorf("Description should still be laid out, got %+v", row.Text)
	}
	if row.Divider {
		t.Errorf("Single row must not have a divider")
	}
	if len(plan.Issues) != 1 || !errors.Is(plan.Issues[0].Err, ErrInvalidImageDimensions) {
		t.Errorf("Expected one image dimension issue, got %+v", plan.Issues)
	}
}

func TestPlanLogo(t *testing.T) {
	p := quietPlanner(DefaultGeometry())

	logo := &models.ImageData{Data: []byte{1}, Format: "png", Width: 200, Height: 100}
	plan, err := p.Plan(testEntries(6), models.ProjectMetadata{Title: "With Logo", Logo: logo})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, page := range plan.Pages {
		r := page.Header.Logo
		if r == nil {
			t.Fatalf("Page %d is missing the logo", page.PageIndex)
		}
		if *r != (Rect{X: 15, Y: 10, W: 50, H: 25}) {
			t.Errorf("Unexpected logo rect %+v", *r)
		}
		if page.Header.LogoImage != logo {
			t.Errorf("Logo image not carried into the header")
		}
	}
}

func TestPlanInvalidLogo(t *testing.T) {
	p := quietPlanner(DefaultGeometry())

	logo := &models.ImageData{Data: []byte{1}, Format: "png", Width: 0, Height: 100}
	plan, err := p.Plan(testEntries(2), models.ProjectMetadata{Title: "Bad Logo", Logo: logo})
	if err != nil {
		t.Fatalf("Invalid logo must not fail the plan: %v", err)
	}
	if plan.Pages[0].Header.Logo != nil {
		t.Errorf("Expected header without logo")
	}
	if plan.Pages[0].Header.Title == nil {
		t.Errorf("Title should survive a bad logo")
	}
	if len(plan.Issues) != 1 || !errors.Is(plan.Issues[0].Err, ErrInvalidLogoData) {
		t.Errorf("Expected one logo issue, got %+v", plan.Issues)
	}
}

func TestPlanTallDescriptionClamped(t *testing.T) {
	g := DefaultGeometry()
	p := quietPlanner(g)

	entries := testEntries(2)
	entries[1].Description = strings.Repeat("word ", 400)

	plan, err := p.Plan(entries, models.ProjectMetadata{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	row := plan.Pages[0].Rows[1]
	if row.Text.Y != row.Top+g.RowTopPadding {
		t.Errorf("Tall block should be clamped to %v, got %v", row.Top+g.RowTopPadding, row.Text.Y)
	}
	for _, line := range row.Text.Lines {
		if w := (fixedMeasurer{charWidth: 2}).StringWidth(BodyStyle, line); w > g.TextWidth() {
			t.Errorf("Line %q is wider than the text column", line)
		}
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	p := quietPlanner(DefaultGeometry())

	entries := testEntries(7)
	entries[2].Image.Width = 0
	meta := models.ProjectMetadata{Title: "Twice", Logo: &models.ImageData{Data: []byte{1}, Width: 30, Height: 90}}

	first, err := p.Plan(entries, meta)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := p.Plan(entries, meta)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Planning the same input twice produced different plans")
	}
	if entries[2].Image.Width != 0 || entries[0].Description != "Photo 0 of the east elevation" {
		t.Errorf("Planner mutated its input")
	}
}
