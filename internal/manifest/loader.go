package manifest

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// EntrySource is one photo reference and its description
type EntrySource struct {
	Image       string `yaml:"image" json:"image" parquet:"image"`
	Description string `yaml:"description" json:"description" parquet:"description"`
}

// Manifest describes a project on disk. Image references are file paths
// (relative to the manifest), http(s) URLs or data URLs.
type Manifest struct {
	Title   string        `yaml:"title"`
	Logo    string        `yaml:"logo,omitempty"`
	Entries []EntrySource `yaml:"entries"`

	// Dir is the directory relative image paths resolve against
	Dir string `yaml:"-"`
}

// Loader reads manifests
type Loader struct {
	path string
}

// NewLoader creates a loader for the manifest at path
func NewLoader(path string) *Loader {
	return &Loader{
		path: path,
	}
}

// Load reads the manifest. YAML files carry the title and logo; JSONL and
// Parquet files only list entries.
func (l *Loader) Load() (*Manifest, error) {
	ext := strings.ToLower(filepath.Ext(l.path))

	var (
		m   *Manifest
		err error
	)
	switch ext {
	case ".yaml", ".yml":
		m, err = l.loadYAML()
	case ".jsonl", ".json":
		m, err = l.loadJSONL()
	case ".parquet":
		m, err = l.loadParquet()
	default:
		return nil, fmt.Errorf("unsupported manifest format: %s (supported: .yaml, .jsonl, .parquet)", ext)
	}
	if err != nil {
		return nil, err
	}

	m.Dir = filepath.Dir(l.path)
	slog.Debug("Loaded manifest", "path", l.path, "title", m.Title, "entries", len(m.Entries))
	return m, nil
}

func (l *Loader) loadYAML() (*Manifest, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// loadJSONL reads one EntrySource per line
func (l *Loader) loadJSONL() (*Manifest, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer file.Close()

	m := &Manifest{}
	scanner := bufio.NewScanner(file)

	const maxCapacity = 10 * 1024 * 1024 // 10MB per line, data URLs included
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var entry EntrySource
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		m.Entries = append(m.Entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading manifest: %w", err)
	}
	return m, nil
}

func (l *Loader) loadParquet() (*Manifest, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened successfully", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[EntrySource](pf)
	defer reader.Close()

	m := &Manifest{}
	rows := make([]EntrySource, 128)
	for {
		n, err := reader.Read(rows)
		m.Entries = append(m.Entries, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	return m, nil
}

// Save writes m as YAML
func Save(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
