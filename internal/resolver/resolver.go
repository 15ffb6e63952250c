// Package resolver exposes slug lookups and related-content filters over the
// content store. Absence is reported with ok=false, never as an error.
package resolver

import (
	"context"
	"strings"

	"github.com/nexo-digital/site/internal/cms"
)

// Resolver composes lookups over a cms.Store.
type Resolver struct {
	store *cms.Store
}

// New wraps store.
func New(store *cms.Store) *Resolver {
	return &Resolver{store: store}
}

// Store exposes the underlying content store.
func (r *Resolver) Store() *cms.Store {
	return r.store
}

func (r *Resolver) Posts(ctx context.Context) ([]cms.Post, error) {
	return r.store.ListPosts(ctx)
}

func (r *Resolver) Cases(ctx context.Context) ([]cms.CaseStudy, error) {
	return r.store.ListCases(ctx)
}

func (r *Resolver) Services(ctx context.Context) ([]cms.Service, error) {
	return r.store.ListServices(ctx)
}

func (r *Resolver) Industries(ctx context.Context) ([]cms.Industry, error) {
	return r.store.ListIndustries(ctx)
}

// PostBySlug returns the first post whose slug matches.
func (r *Resolver) PostBySlug(ctx context.Context, slug string) (cms.Post, bool, error) {
	posts, err := r.store.ListPosts(ctx)
	if err != nil {
		return cms.Post{}, false, err
	}
	return findBySlug(posts, slug, func(p cms.Post) string { return p.Slug })
}

// CaseBySlug returns the first case study whose slug matches.
func (r *Resolver) CaseBySlug(ctx context.Context, slug string) (cms.CaseStudy, bool, error) {
	cases, err := r.store.ListCases(ctx)
	if err != nil {
		return cms.CaseStudy{}, false, err
	}
	return findBySlug(cases, slug, func(c cms.CaseStudy) string { return c.Slug })
}

// ServiceBySlug returns the first service whose slug matches.
func (r *Resolver) ServiceBySlug(ctx context.Context, slug string) (cms.Service, bool, error) {
	services, err := r.store.ListServices(ctx)
	if err != nil {
		return cms.Service{}, false, err
	}
	return findBySlug(services, slug, func(s cms.Service) string { return s.Slug })
}

// IndustryBySlug returns the first industry whose slug matches.
func (r *Resolver) IndustryBySlug(ctx context.Context, slug string) (cms.Industry, bool, error) {
	industries, err := r.store.ListIndustries(ctx)
	if err != nil {
		return cms.Industry{}, false, err
	}
	return findBySlug(industries, slug, func(i cms.Industry) string { return i.Slug })
}

// ItemBySlug is the kind-agnostic lookup used by the JSON API.
func (r *Resolver) ItemBySlug(ctx context.Context, kind cms.Kind, slug string) (cms.Item, bool, error) {
	items, err := r.store.Items(ctx, kind)
	if err != nil {
		return cms.Item{}, false, err
	}
	return findBySlug(items, slug, func(i cms.Item) string { return i.Slug })
}

// CasesByIndustry filters case studies by industry slug, keeping recency order.
func (r *Resolver) CasesByIndustry(ctx context.Context, industry string) ([]cms.CaseStudy, error) {
	return r.filterCases(ctx, func(c cms.CaseStudy) bool { return strings.EqualFold(c.Industry, industry) })
}

// CasesByService filters case studies that list the service slug.
func (r *Resolver) CasesByService(ctx context.Context, service string) ([]cms.CaseStudy, error) {
	return r.filterCases(ctx, func(c cms.CaseStudy) bool { return c.HasService(service) })
}

// RecentPosts returns at most n posts, newest first.
func (r *Resolver) RecentPosts(ctx context.Context, n int) ([]cms.Post, error) {
	posts, err := r.store.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(posts) > n {
		posts = posts[:n]
	}
	return posts, nil
}

// PostsByCategory matches categories case-insensitively.
func (r *Resolver) PostsByCategory(ctx context.Context, category string) ([]cms.Post, error) {
	posts, err := r.store.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]cms.Post, 0, len(posts))
	for _, p := range posts {
		for _, c := range p.Categories {
			if strings.EqualFold(c, category) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r *Resolver) filterCases(ctx context.Context, keep func(cms.CaseStudy) bool) ([]cms.CaseStudy, error) {
	cases, err := r.store.ListCases(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]cms.CaseStudy, 0, len(cases))
	for _, c := range cases {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func findBySlug[T any](items []T, slug string, slugOf func(T) string) (T, bool, error) {
	var zero T
	slug = cms.SanitizeSlug(slug)
	if slug == "" {
		return zero, false, nil
	}
	for _, item := range items {
		if slugOf(item) == slug {
			return item, true, nil
		}
	}
	return zero, false, nil
}
