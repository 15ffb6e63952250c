package cms

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a content item cannot be located.
	ErrNotFound = errors.New("cms: not found")
	// ErrUnknownKind is returned for a content kind outside the supported set.
	ErrUnknownKind = errors.New("cms: unknown content kind")
)

// Kind names a content collection; it doubles as the directory name under the content root.
type Kind string

const (
	KindPosts      Kind = "posts"
	KindCases      Kind = "cases"
	KindServices   Kind = "services"
	KindIndustries Kind = "industries"
)

// Kinds lists every supported kind in a fixed order.
var Kinds = []Kind{KindPosts, KindCases, KindServices, KindIndustries}

// ParseKind validates a kind name, accepting a few route-facing aliases.
func ParseKind(raw string) (Kind, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "posts", "artigos":
		return KindPosts, nil
	case "cases", "casos-de-estudo":
		return KindCases, nil
	case "services", "servicos":
		return KindServices, nil
	case "industries", "setores":
		return KindIndustries, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, raw)
}

// Entry holds the fields every content file shares.
type Entry struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	SourcePath  string    `json:"-"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Post is an article under /artigos.
type Post struct {
	Entry
	Date       time.Time `json:"date"`
	Author     string    `json:"author"`
	Categories []string  `json:"categories"`
	Tags       []string  `json:"tags"`
	Image      string    `json:"image,omitempty"`
}

// CaseStudy is a client project under /casos-de-estudo.
type CaseStudy struct {
	Entry
	Client   string       `json:"client"`
	Industry string       `json:"industry"`
	Services []string     `json:"services"`
	Results  []CaseResult `json:"results"`
	Year     int          `json:"year"`
	Image    string       `json:"image,omitempty"`
}

// Service is an agency offering.
type Service struct {
	Entry
	Features []string `json:"features"`
	Icon     string   `json:"icon,omitempty"`
	Order    int      `json:"order"`
}

// Industry is a vertical the agency serves.
type Industry struct {
	Entry
	Challenges []string `json:"challenges"`
	Solutions  []string `json:"solutions"`
	Icon       string   `json:"icon,omitempty"`
	Order      int      `json:"order"`
}

// Item is the kind-agnostic view used by listings, the JSON API and validation.
type Item struct {
	Kind Kind `json:"kind"`
	Entry
	Date time.Time `json:"date,omitempty"`
}

func (p Post) clone() Post {
	p.Categories = cloneStrings(p.Categories)
	p.Tags = cloneStrings(p.Tags)
	return p
}

func (c CaseStudy) clone() CaseStudy {
	c.Services = cloneStrings(c.Services)
	if c.Results != nil {
		c.Results = append([]CaseResult(nil), c.Results...)
	}
	return c
}

func (s Service) clone() Service {
	s.Features = cloneStrings(s.Features)
	return s
}

func (i Industry) clone() Industry {
	i.Challenges = cloneStrings(i.Challenges)
	i.Solutions = cloneStrings(i.Solutions)
	return i
}

// YearDate returns Jan 1 of the case year in UTC, or the zero time when unset.
func (c CaseStudy) YearDate() time.Time {
	if c.Year <= 0 {
		return time.Time{}
	}
	return time.Date(c.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// HasService reports whether the case lists the service slug.
func (c CaseStudy) HasService(slug string) bool {
	for _, s := range c.Services {
		if strings.EqualFold(s, slug) {
			return true
		}
	}
	return false
}

type cloner[T any] interface {
	clone() T
}

func cloneAll[T cloner[T]](in []T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = v.clone()
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
