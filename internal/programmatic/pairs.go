// Package programmatic builds the combination pages generated from two
// taxonomies: /{service}/{location} and /{industry}/{solution}.
package programmatic

import (
	"context"

	"github.com/nexo-digital/site/internal/seodata"
)

// Pair is one ordered combination of two slugs.
type Pair struct {
	First  string
	Second string
}

// Path returns the route for the pair, e.g. /seo/lisboa.
func (p Pair) Path() string {
	return "/" + p.First + "/" + p.Second
}

// ServiceLocationPairs returns one pair per (service, location), services in
// the outer loop.
func ServiceLocationPairs(services []seodata.Service, locations []seodata.Location) []Pair {
	out := make([]Pair, 0, len(services)*len(locations))
	for _, s := range services {
		for _, l := range locations {
			out = append(out, Pair{First: s.Slug, Second: l.Slug})
		}
	}
	return out
}

// IndustrySolutionPairs returns one pair per (industry, service), industries
// in the outer loop.
func IndustrySolutionPairs(industries []seodata.Industry, services []seodata.Service) []Pair {
	out := make([]Pair, 0, len(industries)*len(services))
	for _, in := range industries {
		for _, s := range services {
			out = append(out, Pair{First: in.Slug, Second: s.Slug})
		}
	}
	return out
}

// PageKind classifies a two-segment programmatic path.
type PageKind int

const (
	PageNone PageKind = iota
	PageServiceLocation
	PageIndustrySolution
)

// Page is a resolved programmatic page with both sides of the pair loaded.
type Page struct {
	Kind     PageKind
	Service  seodata.Service
	Location seodata.Location
	Industry seodata.Industry
}

// Generator loads taxonomies from a seodata.Store.
type Generator struct {
	data *seodata.Store
}

// NewGenerator wraps the taxonomy store.
func NewGenerator(data *seodata.Store) *Generator {
	return &Generator{data: data}
}

// ServiceLocationPairs loads services and locations and combines them.
func (g *Generator) ServiceLocationPairs(ctx context.Context) ([]Pair, error) {
	services, err := g.data.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	locations, err := g.data.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	return ServiceLocationPairs(services, locations), nil
}

// IndustrySolutionPairs loads industries and services and combines them.
func (g *Generator) IndustrySolutionPairs(ctx context.Context) ([]Pair, error) {
	industries, err := g.data.ListIndustries(ctx)
	if err != nil {
		return nil, err
	}
	services, err := g.data.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	return IndustrySolutionPairs(industries, services), nil
}

// Resolve classifies /{first}/{second}. Service × location wins when a slug
// pair matches both shapes.
func (g *Generator) Resolve(ctx context.Context, first, second string) (Page, error) {
	service, ok, err := g.data.ServiceBySlug(ctx, first)
	if err != nil {
		return Page{}, err
	}
	if ok {
		location, ok, err := g.data.LocationBySlug(ctx, second)
		if err != nil {
			return Page{}, err
		}
		if ok {
			return Page{Kind: PageServiceLocation, Service: service, Location: location}, nil
		}
	}

	industry, ok, err := g.data.IndustryBySlug(ctx, first)
	if err != nil || !ok {
		return Page{}, err
	}
	solution, ok, err := g.data.ServiceBySlug(ctx, second)
	if err != nil || !ok {
		return Page{}, err
	}
	return Page{Kind: PageIndustrySolution, Industry: industry, Service: solution}, nil
}
