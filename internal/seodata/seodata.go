// Package seodata reads the taxonomies that drive programmatic SEO pages:
// locations, services and industries, one JSON document each.
package seodata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

const (
	LocationsFile  = "locations.json"
	ServicesFile   = "services.json"
	IndustriesFile = "industries.json"
)

// Location is a city or region targeted by service × location pages.
type Location struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Region      string   `json:"region,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Service is a service taxonomy entry.
type Service struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	ShortName   string   `json:"shortName,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Label prefers the short name when one is set.
func (s Service) Label() string {
	if strings.TrimSpace(s.ShortName) != "" {
		return s.ShortName
	}
	return s.Name
}

// Industry is an industry taxonomy entry.
type Industry struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	PainPoints  []string `json:"painPoints,omitempty"`
}

// Store loads taxonomies from a data directory. Every call re-reads its file.
type Store struct {
	fsys fs.FS
}

// NewStore reads from dir on the local filesystem.
func NewStore(dir string) *Store {
	return &Store{fsys: os.DirFS(dir)}
}

// NewStoreFS reads from an arbitrary filesystem.
func NewStoreFS(fsys fs.FS) *Store {
	return &Store{fsys: fsys}
}

// ListLocations returns locations in file order.
func (s *Store) ListLocations(ctx context.Context) ([]Location, error) {
	var doc struct {
		Locations []Location `json:"locations"`
	}
	if err := s.read(ctx, LocationsFile, &doc); err != nil {
		return nil, err
	}
	out := make([]Location, 0, len(doc.Locations))
	for _, l := range doc.Locations {
		if l.Slug = strings.TrimSpace(l.Slug); l.Slug == "" {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// ListServices returns service taxonomy entries in file order.
func (s *Store) ListServices(ctx context.Context) ([]Service, error) {
	var doc struct {
		Services []Service `json:"services"`
	}
	if err := s.read(ctx, ServicesFile, &doc); err != nil {
		return nil, err
	}
	out := make([]Service, 0, len(doc.Services))
	for _, sv := range doc.Services {
		if sv.Slug = strings.TrimSpace(sv.Slug); sv.Slug == "" {
			continue
		}
		out = append(out, sv)
	}
	return out, nil
}

// ListIndustries returns industry taxonomy entries in file order.
func (s *Store) ListIndustries(ctx context.Context) ([]Industry, error) {
	var doc struct {
		Industries []Industry `json:"industries"`
	}
	if err := s.read(ctx, IndustriesFile, &doc); err != nil {
		return nil, err
	}
	out := make([]Industry, 0, len(doc.Industries))
	for _, in := range doc.Industries {
		if in.Slug = strings.TrimSpace(in.Slug); in.Slug == "" {
			continue
		}
		out = append(out, in)
	}
	return out, nil
}

// LocationBySlug returns the first location with the slug.
func (s *Store) LocationBySlug(ctx context.Context, slug string) (Location, bool, error) {
	items, err := s.ListLocations(ctx)
	if err != nil {
		return Location{}, false, err
	}
	for _, l := range items {
		if l.Slug == slug {
			return l, true, nil
		}
	}
	return Location{}, false, nil
}

// ServiceBySlug returns the first service with the slug.
func (s *Store) ServiceBySlug(ctx context.Context, slug string) (Service, bool, error) {
	items, err := s.ListServices(ctx)
	if err != nil {
		return Service{}, false, err
	}
	for _, sv := range items {
		if sv.Slug == slug {
			return sv, true, nil
		}
	}
	return Service{}, false, nil
}

// IndustryBySlug returns the first industry with the slug.
func (s *Store) IndustryBySlug(ctx context.Context, slug string) (Industry, bool, error) {
	items, err := s.ListIndustries(ctx)
	if err != nil {
		return Industry{}, false, err
	}
	for _, in := range items {
		if in.Slug == slug {
			return in, true, nil
		}
	}
	return Industry{}, false, nil
}

// read decodes name into out. A missing file leaves out untouched.
func (s *Store) read(ctx context.Context, name string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("seodata: read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("seodata: decode %s: %w", name, err)
	}
	return nil
}
