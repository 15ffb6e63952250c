// Package sitemap enumerates every public route of the site and renders it as
// a sitemaps.org document.
package sitemap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nexo-digital/site/internal/cms"
	"github.com/nexo-digital/site/internal/programmatic"
)

// ChangeFrequency is the sitemap changefreq hint.
type ChangeFrequency string

const (
	Always  ChangeFrequency = "always"
	Hourly  ChangeFrequency = "hourly"
	Daily   ChangeFrequency = "daily"
	Weekly  ChangeFrequency = "weekly"
	Monthly ChangeFrequency = "monthly"
	Yearly  ChangeFrequency = "yearly"
	Never   ChangeFrequency = "never"
)

// RouteEntry is one <url> of the sitemap.
type RouteEntry struct {
	URL             string          `json:"url"`
	LastModified    time.Time       `json:"lastModified"`
	ChangeFrequency ChangeFrequency `json:"changeFrequency"`
	Priority        float64         `json:"priority"`
}

// StaticRoute is a fixed marketing page.
type StaticRoute struct {
	Path            string
	ChangeFrequency ChangeFrequency
	Priority        float64
}

// StaticRoutes are emitted first, in this order.
var StaticRoutes = []StaticRoute{
	{Path: "/", ChangeFrequency: Weekly, Priority: 1.0},
	{Path: "/sobre", ChangeFrequency: Monthly, Priority: 0.8},
	{Path: "/servicos", ChangeFrequency: Monthly, Priority: 0.9},
	{Path: "/setores", ChangeFrequency: Monthly, Priority: 0.8},
	{Path: "/artigos", ChangeFrequency: Daily, Priority: 0.8},
	{Path: "/casos-de-estudo", ChangeFrequency: Weekly, Priority: 0.8},
	{Path: "/contacto", ChangeFrequency: Yearly, Priority: 0.7},
	{Path: "/ferramentas", ChangeFrequency: Monthly, Priority: 0.6},
	{Path: "/privacidade", ChangeFrequency: Yearly, Priority: 0.3},
}

// ContentSource is the subset of the content store the builder reads.
type ContentSource interface {
	ListPosts(ctx context.Context) ([]cms.Post, error)
	ListCases(ctx context.Context) ([]cms.CaseStudy, error)
}

// PairSource produces the programmatic combinations.
type PairSource interface {
	ServiceLocationPairs(ctx context.Context) ([]programmatic.Pair, error)
	IndustrySolutionPairs(ctx context.Context) ([]programmatic.Pair, error)
}

// Builder assembles the route list. Content and Programmatic may be nil, in
// which case their groups are empty.
type Builder struct {
	BaseURL      string
	Content      ContentSource
	Programmatic PairSource
	Tools        []string
	// Now stamps entries without their own date. Defaults to time.Now.
	Now func() time.Time
	// KeepDuplicates disables de-duplication by URL.
	KeepDuplicates bool
}

// Build returns static pages, posts, cases, service×location pages,
// industry×solution pages and tools, in that order.
func (b Builder) Build(ctx context.Context) ([]RouteEntry, error) {
	now := b.now()
	base := strings.TrimRight(b.BaseURL, "/")
	abs := func(path string) string { return base + path }

	entries := make([]RouteEntry, 0, len(StaticRoutes)+len(b.Tools))
	for _, r := range StaticRoutes {
		entries = append(entries, RouteEntry{
			URL:             abs(r.Path),
			LastModified:    now,
			ChangeFrequency: r.ChangeFrequency,
			Priority:        r.Priority,
		})
	}

	if b.Content != nil {
		posts, err := b.Content.ListPosts(ctx)
		if err != nil {
			return nil, fmt.Errorf("sitemap: list posts: %w", err)
		}
		for _, p := range posts {
			entries = append(entries, RouteEntry{
				URL:             abs("/artigos/" + p.Slug),
				LastModified:    orNow(p.Date, now),
				ChangeFrequency: Monthly,
				Priority:        0.7,
			})
		}

		cases, err := b.Content.ListCases(ctx)
		if err != nil {
			return nil, fmt.Errorf("sitemap: list cases: %w", err)
		}
		for _, c := range cases {
			entries = append(entries, RouteEntry{
				URL:             abs("/casos-de-estudo/" + c.Slug),
				LastModified:    orNow(c.YearDate(), now),
				ChangeFrequency: Yearly,
				Priority:        0.6,
			})
		}
	}

	if b.Programmatic != nil {
		pairs, err := b.Programmatic.ServiceLocationPairs(ctx)
		if err != nil {
			return nil, fmt.Errorf("sitemap: service/location pairs: %w", err)
		}
		entries = appendPairs(entries, pairs, abs, now, 0.6)

		pairs, err = b.Programmatic.IndustrySolutionPairs(ctx)
		if err != nil {
			return nil, fmt.Errorf("sitemap: industry/solution pairs: %w", err)
		}
		entries = appendPairs(entries, pairs, abs, now, 0.5)
	}

	for _, slug := range b.Tools {
		entries = append(entries, RouteEntry{
			URL:             abs("/ferramentas/" + slug),
			LastModified:    now,
			ChangeFrequency: Monthly,
			Priority:        0.5,
		})
	}

	if b.KeepDuplicates {
		return entries, nil
	}
	return Dedupe(entries), nil
}

// Dedupe drops entries whose URL already appeared, keeping the first.
func Dedupe(entries []RouteEntry) []RouteEntry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]RouteEntry, 0, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.URL]; dup {
			continue
		}
		seen[e.URL] = struct{}{}
		out = append(out, e)
	}
	return out
}

func appendPairs(entries []RouteEntry, pairs []programmatic.Pair, abs func(string) string, now time.Time, priority float64) []RouteEntry {
	for _, p := range pairs {
		entries = append(entries, RouteEntry{
			URL:             abs(p.Path()),
			LastModified:    now,
			ChangeFrequency: Monthly,
			Priority:        priority,
		})
	}
	return entries
}

func (b Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func orNow(t, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t
}
