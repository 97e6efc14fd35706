package models

import (
	"time"

	"github.com/google/uuid"
)

// ImageData is an embeddable image with its natural pixel dimensions
type ImageData struct {
	Data   []byte `json:"-" yaml:"-"`
	Format string `json:"format" yaml:"format"` // "jpeg", "png", "gif"
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// Entry is one photo + description pair
type Entry struct {
	ID          string     `json:"id"`
	Image       *ImageData `json:"image,omitempty"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewEntry creates an entry with a fresh identifier
func NewEntry(img *ImageData, description string) Entry {
	return Entry{
		ID:          uuid.NewString(),
		Image:       img,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

// ProjectMetadata applies to every page header
type ProjectMetadata struct {
	Title string     `json:"title"`
	Logo  *ImageData `json:"logo,omitempty"`
}

// Project is an editable, ordered collection of entries
type Project struct {
	ID        string          `json:"id"`
	Metadata  ProjectMetadata `json:"metadata"`
	Entries   []Entry         `json:"entries"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Snapshot returns a copy whose entry slice can be handed to an export
// while the project keeps being edited.
func (p *Project) Snapshot() (ProjectMetadata, []Entry) {
	entries := make([]Entry, len(p.Entries))
	copy(entries, p.Entries)
	return p.Metadata, entries
}
