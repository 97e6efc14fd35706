package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/photolog/internal/models"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxImageBytes caps a single photo or logo at 10MB
const MaxImageBytes = 10 * 1024 * 1024

// ErrUnsupportedImageFormat is returned for data that is not an image, or
// an image the PDF canvas cannot embed.
var ErrUnsupportedImageFormat = errors.New("unsupported image format")

// embeddable formats, as reported by image.DecodeConfig
var embeddable = map[string]bool{
	"jpeg": true,
	"png":  true,
	"gif":  true,
}

// Provider turns user-selected images into embeddable image data
type Provider struct {
	HTTPClient *http.Client
}

// NewProvider creates a provider with a 30 second download timeout
func NewProvider() *Provider {
	return &Provider{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FromBytes inspects data and returns it with its format and pixel size.
// name is only used in error messages.
func (p *Provider) FromBytes(data []byte, name string) (*models.ImageData, error) {
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("image %s too large (%d bytes, max %d)", name, len(data), MaxImageBytes)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedImageFormat, name, err)
	}
	if !embeddable[format] {
		return nil, fmt.Errorf("%w: %s is %s, only JPEG, PNG and GIF can be embedded", ErrUnsupportedImageFormat, name, format)
	}

	return &models.ImageData{
		Data:   data,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

// FromFile reads an image from disk
func (p *Provider) FromFile(path string) (*models.ImageData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	data, err := readLimited(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	return p.FromBytes(data, filepath.Base(path))
}

// FromURL downloads an image
func (p *Provider) FromURL(ctx context.Context, imageURL string) (*models.ImageData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}

	data, err := readLimited(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	slog.Debug("Downloaded image", "url", imageURL, "bytes", len(data))
	return p.FromBytes(data, imageURL)
}

// FromDataURL decodes a base64 "data:image/...;base64," URL
func (p *Provider) FromDataURL(dataURL string) (*models.ImageData, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: malformed data URL", ErrUnsupportedImageFormat)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 payload: %v", ErrUnsupportedImageFormat, err)
	}
	return p.FromBytes(data, "data URL")
}

// Load resolves a reference as a data URL, an http(s) URL or a file path
// relative to baseDir.
func (p *Provider) Load(ctx context.Context, ref, baseDir string) (*models.ImageData, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		return p.FromDataURL(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return p.FromURL(ctx, ref)
	default:
		path := ref
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
		return p.FromFile(path)
	}
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("file too large (max %d bytes)", MaxImageBytes)
	}
	return data, nil
}
