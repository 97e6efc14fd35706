package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/photolog/internal/models"
	"github.com/patrickmn/go-cache"
)

const (
	// DefaultExpiration is how long an untouched project is kept
	DefaultExpiration = 24 * time.Hour
	CleanupInterval   = 1 * time.Hour
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrEntryNotFound   = errors.New("entry not found")
	ErrInvalidPosition = errors.New("invalid entry position")
)

// ProjectStore keeps projects in memory. Every read returns a copy, so
// callers can export a project while it keeps being edited.
type ProjectStore struct {
	projects *cache.Cache
	mu       sync.Mutex
}

func New() *ProjectStore {
	return NewWithExpiration(DefaultExpiration, CleanupInterval)
}

func NewWithExpiration(expiration, cleanup time.Duration) *ProjectStore {
	return &ProjectStore{
		projects: cache.New(expiration, cleanup),
	}
}

// Create adds an empty project
func (s *ProjectStore) Create(title string) *models.Project {
	now := time.Now()
	p := &models.Project{
		ID:        uuid.NewString(),
		Metadata:  models.ProjectMetadata{Title: strings.TrimSpace(title)},
		Entries:   []models.Entry{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects.SetDefault(p.ID, p)
	return clone(p)
}

func (s *ProjectStore) Get(projectID string) (*models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.get(projectID)
	if !ok {
		return nil, false
	}
	return clone(p), true
}

func (s *ProjectStore) Set(project *models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects.SetDefault(project.ID, clone(project))
}

// GetAll returns every live project, oldest first
func (s *ProjectStore) GetAll() []*models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.projects.Items()
	result := make([]*models.Project, 0, len(items))
	for _, item := range items {
		result = append(result, clone(item.Object.(*models.Project)))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

func (s *ProjectStore) Delete(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects.Delete(projectID)
}

// Update applies fn to the stored project and refreshes its expiry. The
// project is left untouched when fn fails.
func (s *ProjectStore) Update(projectID string, fn func(p *models.Project) error) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.get(projectID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}

	p := clone(stored)
	if err := fn(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()
	s.projects.SetDefault(projectID, p)
	return clone(p), nil
}

func (s *ProjectStore) SetTitle(projectID, title string) (*models.Project, error) {
	return s.Update(projectID, func(p *models.Project) error {
		p.Metadata.Title = strings.TrimSpace(title)
		return nil
	})
}

// SetLogo replaces the logo; nil removes it
func (s *ProjectStore) SetLogo(projectID string, logo *models.ImageData) (*models.Project, error) {
	return s.Update(projectID, func(p *models.Project) error {
		p.Metadata.Logo = logo
		return nil
	})
}

// AddEntry appends entry to the end of the project
func (s *ProjectStore) AddEntry(projectID string, entry models.Entry) (*models.Project, error) {
	return s.Update(projectID, func(p *models.Project) error {
		p.Entries = append(p.Entries, entry)
		return nil
	})
}

func (s *ProjectStore) RemoveEntry(projectID, entryID string) (*models.Project, error) {
	return s.Update(projectID, func(p *models.Project) error {
		i := indexOf(p.Entries, entryID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
		}
		p.Entries = append(p.Entries[:i], p.Entries[i+1:]...)
		return nil
	})
}

func (s *ProjectStore) ClearEntries(projectID string) (*models.Project, error) {
	return s.Update(projectID, func(p *models.Project) error {
		p.Entries = []models.Entry{}
		return nil
	})
}

// MoveEntry moves an entry to position to, shifting the others
func (s *ProjectStore) MoveEntry(projectID, entryID string, to int) (*models.Project, error) {
	return s.Update(projectID, func(p *models.Project) error {
		from := indexOf(p.Entries, entryID)
		if from < 0 {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
		}
		if to < 0 || to >= len(p.Entries) {
			return fmt.Errorf("%w: %d (project has %d entries)", ErrInvalidPosition, to, len(p.Entries))
		}

		entry := p.Entries[from]
		p.Entries = append(p.Entries[:from], p.Entries[from+1:]...)
		p.Entries = append(p.Entries[:to], append([]models.Entry{entry}, p.Entries[to:]...)...)
		return nil
	})
}

func (s *ProjectStore) SetDescription(projectID, entryID, description string) (*models.Project, error) {
	return s.Update(projectID, func(p *models.Project) error {
		i := indexOf(p.Entries, entryID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
		}
		p.Entries[i].Description = description
		return nil
	})
}

func (s *ProjectStore) get(projectID string) (*models.Project, bool) {
	v, ok := s.projects.Get(projectID)
	if !ok {
		return nil, false
	}
	return v.(*models.Project), true
}

func indexOf(entries []models.Entry, entryID string) int {
	for i, e := range entries {
		if e.ID == entryID {
			return i
		}
	}
	return -1
}

func clone(p *models.Project) *models.Project {
	c := *p
	c.Entries = make([]models.Entry, len(p.Entries))
	copy(c.Entries, p.Entries)
	return &c
}
