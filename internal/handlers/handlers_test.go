package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/photolog/internal/export"
	"github.com/lehigh-university-libraries/photolog/internal/images"
	"github.com/lehigh-university-libraries/photolog/internal/models"
	"github.com/lehigh-university-libraries/photolog/internal/storage"
)

type fakeCaptioner struct {
	description string
	prompt      string
}

func (f *fakeCaptioner) Describe(ctx context.Context, img *models.ImageData, prompt string) (string, error) {
	f.prompt = prompt
	return f.description, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestServer(t *testing.T, captioner *fakeCaptioner) (*httptest.Server, *storage.ProjectStore) {
	t.Helper()
	store := storage.New()
	exporter := export.NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))

	var h *Handler
	if captioner != nil {
		h = New(store, exporter, images.NewProvider(), captioner)
	} else {
		h = New(store, exporter, images.NewProvider(), nil)
	}

	server := httptest.NewServer(h.Routes())
	t.Cleanup(server.Close)
	return server, store
}

func multipartBody(t *testing.T, fields map[string]string, filename string, data []byte) (io.Reader, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, mw.FormDataContentType()
}

func do(t *testing.T, method, url, contentType string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func createProject(t *testing.T, baseURL, title string) models.Project {
	t.Helper()
	resp := do(t, http.MethodPost, baseURL+"/api/projects", "application/json", strings.NewReader(`{"title":"`+title+`"}`))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	var p models.Project
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestHealthcheck(t *testing.T) {
	server, _ := newTestServer(t, nil)
	resp := do(t, http.MethodGet, server.URL+"/healthcheck", "", nil)
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "OK" {
		t.Errorf("Unexpected healthcheck %d %q", resp.StatusCode, body)
	}
}

func TestProjectLifecycle(t *testing.T) {
	server, store := newTestServer(t, nil)
	p := createProject(t, server.URL, "Site Walk")

	resp := do(t, http.MethodGet, server.URL+"/api/projects", "", nil)
	var list []models.Project
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != p.ID {
		t.Errorf("Unexpected project list %+v", list)
	}

	resp = do(t, http.MethodPut, server.URL+"/api/projects/"+p.ID, "application/json", strings.NewReader(`{"title":"Renamed"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if got, _ := store.Get(p.ID); got.Metadata.Title != "Renamed" {
		t.Errorf("Title not updated")
	}

	resp = do(t, http.MethodDelete, server.URL+"/api/projects/"+p.ID, "", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, server.URL+"/api/projects/"+p.ID, "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
}

func TestAddEntry(t *testing.T) {
	server, store := newTestServer(t, nil)
	p := createProject(t, server.URL, "Entries")
	entriesURL := server.URL + "/api/projects/" + p.ID + "/entries"

	tests := []struct {
		name        string
		body        func() (io.Reader, string)
		wantStatus  int
		wantEntries int
	}{
		{
			name: "multipart upload",
			body: func() (io.Reader, string) {
				return multipartBody(t, map[string]string{"description": "North wall"}, "wall.png", pngBytes(t, 40, 30))
			},
			wantStatus:  http.StatusCreated,
			wantEntries: 1,
		},
		{
			name: "data URL",
			body: func() (io.Reader, string) {
				dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 10, 10))
				payload, _ := json.Marshal(map[string]string{"image_url": dataURL, "description": "Roof"})
				return bytes.NewReader(payload), "application/json"
			},
			wantStatus:  http.StatusCreated,
			wantEntries: 2,
		},
		{
			name: "blank description",
			body: func() (io.Reader, string) {
				return multipartBody(t, map[string]string{"description": "   "}, "wall.png", pngBytes(t, 4, 4))
			},
			wantStatus:  http.StatusBadRequest,
			wantEntries: 2,
		},
		{
			name: "missing photo",
			body: func() (io.Reader, string) {
				return multipartBody(t, map[string]string{"description": "No photo"}, "", nil)
			},
			wantStatus:  http.StatusBadRequest,
			wantEntries: 2,
		},
		{
			name: "not an image",
			body: func() (io.Reader, string) {
				return multipartBody(t, map[string]string{"description": "Text file"}, "notes.txt", []byte("hello"))
			},
			wantStatus:  http.StatusBadRequest,
			wantEntries: 2,
		},
		{
			name: "file path rejected",
			body: func() (io.Reader, string) {
				return strings.NewReader(`{"image_url":"/etc/passwd","description":"x"}`), "application/json"
			},
			wantStatus:  http.StatusBadRequest,
			wantEntries: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := tt.body()
			resp := do(t, http.MethodPost, entriesURL, contentType, body)
			if resp.StatusCode != tt.wantStatus {
				msg, _ := io.ReadAll(resp.Body)
				t.Fatalf("Expected %d, got %d: %s", tt.wantStatus, resp.StatusCode, msg)
			}
			got, _ := store.Get(p.ID)
			if len(got.Entries) != tt.wantEntries {
				t.Errorf("Expected %d entries, got %d", tt.wantEntries, len(got.Entries))
			}
		})
	}
}

func TestMoveAndDeleteEntries(t *testing.T) {
	server, store := newTestServer(t, nil)
	p := createProject(t, server.URL, "Order")
	for _, d := range []string{"a", "b", "c"} {
		if _, err := store.AddEntry(p.ID, models.NewEntry(nil, d)); err != nil {
			t.Fatal(err)
		}
	}
	current, _ := store.Get(p.ID)
	base := server.URL + "/api/projects/" + p.ID + "/entries/"

	resp := do(t, http.MethodPost, base+current.Entries[2].ID+"/move", "application/json", strings.NewReader(`{"to":0}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	current, _ = store.Get(p.ID)
	if current.Entries[0].Description != "c" {
		t.Errorf("Entry not moved: %+v", current.Entries)
	}

	resp = do(t, http.MethodPost, base+current.Entries[0].ID+"/move", "application/json", strings.NewReader(`{"to":9}`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for out of range move, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodDelete, base+current.Entries[1].ID, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	resp = do(t, http.MethodDelete, base+"unknown", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodDelete, server.URL+"/api/projects/"+p.ID+"/entries", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if current, _ = store.Get(p.ID); len(current.Entries) != 0 {
		t.Errorf("Entries not cleared")
	}
}

func TestLogo(t *testing.T) {
	server, store := newTestServer(t, nil)
	p := createProject(t, server.URL, "Logo")
	logoURL := server.URL + "/api/projects/" + p.ID + "/logo"

	body, contentType := multipartBody(t, nil, "logo.png", pngBytes(t, 200, 100))
	resp := do(t, http.MethodPost, logoURL, contentType, body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if got, _ := store.Get(p.ID); got.Metadata.Logo == nil || got.Metadata.Logo.Width != 200 {
		t.Errorf("Logo not stored")
	}

	resp = do(t, http.MethodDelete, logoURL, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if got, _ := store.Get(p.ID); got.Metadata.Logo != nil {
		t.Errorf("Logo not removed")
	}
}

func TestExport(t *testing.T) {
	server, store := newTestServer(t, nil)
	p := createProject(t, server.URL, "Block C: Survey")
	exportURL := server.URL + "/api/projects/" + p.ID + "/export"

	resp := do(t, http.MethodGet, exportURL, "", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected 204 for an empty project, got %d", resp.StatusCode)
	}

	img := &models.ImageData{Data: pngBytes(t, 60, 40), Format: "png", Width: 60, Height: 40}
	for i := 0; i < 6; i++ {
		if _, err := store.AddEntry(p.ID, models.NewEntry(img, "Photo")); err != nil {
			t.Fatal(err)
		}
	}

	resp = do(t, http.MethodGet, exportURL, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Unexpected content type %s", got)
	}
	if got := resp.Header.Get("Content-Disposition"); got != `attachment; filename="block_c__survey_report.pdf"` {
		t.Errorf("Unexpected disposition %s", got)
	}
	data, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("Response is not a PDF")
	}
}

func TestCaptionEntry(t *testing.T) {
	captioner := &fakeCaptioner{description: "Damp patch below the window."}
	server, store := newTestServer(t, captioner)
	p := createProject(t, server.URL, "Captions")

	img := &models.ImageData{Data: pngBytes(t, 4, 4), Format: "png", Width: 4, Height: 4}
	p2, err := store.AddEntry(p.ID, models.NewEntry(img, "draft me"))
	if err != nil {
		t.Fatal(err)
	}
	entryID := p2.Entries[0].ID
	captionURL := server.URL + "/api/projects/" + p.ID + "/entries/" + entryID + "/caption"

	resp := do(t, http.MethodPost, captionURL, "application/json", strings.NewReader(`{"prompt":"be brief","apply":true}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if captioner.prompt != "be brief" {
		t.Errorf("Prompt not forwarded")
	}
	if got, _ := store.Get(p.ID); got.Entries[0].Description != captioner.description {
		t.Errorf("Applied description not stored: %q", got.Entries[0].Description)
	}
}

func TestCaptionWithoutProvider(t *testing.T) {
	server, store := newTestServer(t, nil)
	p := createProject(t, server.URL, "No captions")
	p2, _ := store.AddEntry(p.ID, models.NewEntry(nil, "x"))

	resp := do(t, http.MethodPost, server.URL+"/api/projects/"+p.ID+"/entries/"+p2.Entries[0].ID+"/caption", "", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", resp.StatusCode)
	}
}

func TestAddEntryRejectsOversizedDataURL(t *testing.T) {
	server, store := newTestServer(t, nil)
	p := createProject(t, server.URL, "Limits")

	payload := `{"image_url":"data:image/png;base64,` + strings.Repeat("A", maxJSONEntrySize) + `","description":"too big"}`
	resp := do(t, http.MethodPost, server.URL+"/api/projects/"+p.ID+"/entries", "application/json", strings.NewReader(payload))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}
	if got, _ := store.Get(p.ID); len(got.Entries) != 0 {
		t.Errorf("Oversized entry should not be stored")
	}
}

func TestCaptionEntryChunkedEmptyBody(t *testing.T) {
	captioner := &fakeCaptioner{description: "Scuffed skirting board."}
	store := storage.New()
	h := New(store, export.NewService(slog.New(slog.NewTextHandler(io.Discard, nil))), images.NewProvider(), captioner)

	p := store.Create("Chunked")
	img := &models.ImageData{Data: pngBytes(t, 4, 4), Format: "png", Width: 4, Height: 4}
	p, err := store.AddEntry(p.ID, models.NewEntry(img, "x"))
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+p.ID+"/entries/"+p.Entries[0].ID+"/caption", strings.NewReader(""))
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captioner.prompt != "" {
		t.Errorf("Expected default options, got prompt %q", captioner.prompt)
	}
}
