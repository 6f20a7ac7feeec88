// Package catalog serves the unit templates and draft cards a match consumes.
// The data lives in a YAML file read through afero so tests can use an
// in-memory filesystem, and it can be reloaded while matches are running.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nfrund/toybattle/internal/domain"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a catalog.
type File struct {
	Units   []domain.UnitTemplate `yaml:"units"`
	Bonuses []domain.BonusCard    `yaml:"bonuses"`
	Skills  []domain.SkillCard    `yaml:"skills"`
}

// Parse decodes and validates catalog YAML. Unknown fields are rejected and
// every id must be unique within its table.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(f.Units) == 0 {
		return nil, errors.New("catalog has no units")
	}

	var errs []error
	seen := make(map[string]bool)
	for i := range f.Units {
		u := &f.Units[i]
		if err := u.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("unit %d (%s): %w", i, u.ID, err))
		}
		if seen["unit:"+u.ID] {
			errs = append(errs, fmt.Errorf("duplicate unit id %q", u.ID))
		}
		seen["unit:"+u.ID] = true
	}
	for i := range f.Bonuses {
		b := &f.Bonuses[i]
		if err := b.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("bonus %d (%s): %w", i, b.ID, err))
		}
		if seen["bonus:"+b.ID] {
			errs = append(errs, fmt.Errorf("duplicate bonus id %q", b.ID))
		}
		seen["bonus:"+b.ID] = true
	}
	for i := range f.Skills {
		s := &f.Skills[i]
		if err := s.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("skill %d (%s): %w", i, s.ID, err))
		}
		if seen["skill:"+s.ID] {
			errs = append(errs, fmt.Errorf("duplicate skill id %q", s.ID))
		}
		seen["skill:"+s.ID] = true
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &f, nil
}

// Catalog is a concurrency-safe, reloadable view of a catalog file.
type Catalog struct {
	fs     afero.Fs
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	units   map[string]*domain.UnitTemplate
	order   []*domain.UnitTemplate
	bonuses []domain.BonusCard
	skills  []domain.SkillCard
}

// Load reads and validates the catalog at path.
func Load(fs afero.Fs, path string) (*Catalog, error) {
	c := &Catalog{fs: fs, path: path, logger: slog.Default().With("catalog", path)}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// New builds a catalog from already parsed data. It cannot be reloaded.
func New(f *File) *Catalog {
	c := &Catalog{logger: slog.Default()}
	c.swap(f)
	return c
}

// Reload re-reads the file. On any error the previous contents stay active.
func (c *Catalog) Reload() error {
	if c.fs == nil {
		return errors.New("catalog has no backing file")
	}
	data, err := afero.ReadFile(c.fs, c.path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return err
	}
	c.swap(f)
	c.logger.Info("Catalog loaded", "units", len(f.Units), "bonuses", len(f.Bonuses), "skills", len(f.Skills))
	return nil
}

func (c *Catalog) swap(f *File) {
	units := make(map[string]*domain.UnitTemplate, len(f.Units))
	order := make([]*domain.UnitTemplate, 0, len(f.Units))
	for i := range f.Units {
		t := f.Units[i]
		units[t.ID] = &t
		order = append(order, &t)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.units = units
	c.order = order
	c.bonuses = append([]domain.BonusCard(nil), f.Bonuses...)
	c.skills = append([]domain.SkillCard(nil), f.Skills...)
}

// Template returns the template with the given id, or an error wrapping
// domain.ErrTemplateNotFound.
func (c *Catalog) Template(id string) (*domain.UnitTemplate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.units[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrTemplateNotFound, id)
	}
	return t, nil
}

// Templates returns every template in file order.
func (c *Catalog) Templates() []*domain.UnitTemplate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*domain.UnitTemplate(nil), c.order...)
}

func (c *Catalog) Bonuses() []domain.BonusCard {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.BonusCard(nil), c.bonuses...)
}

func (c *Catalog) Skills() []domain.SkillCard {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.SkillCard(nil), c.skills...)
}
