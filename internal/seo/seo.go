package seo

import "strings"

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
	Locale      string
}

type Twitter struct {
	Card  string
	Site  string
	Image string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	Keywords    []string
	OG          OpenGraph
	Twitter     Twitter
}

// NewMeta fills the Open Graph and Twitter blocks from the page fields.
// The title gets the site name appended unless it already is the site name.
func NewMeta(siteName, title, description, canonical string) Meta {
	full := strings.TrimSpace(title)
	switch {
	case full == "":
		full = siteName
	case siteName != "" && full != siteName:
		full = full + " | " + siteName
	}
	return Meta{
		Title:       full,
		Description: description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       full,
			Description: description,
			Type:        "website",
			URL:         canonical,
			SiteName:    siteName,
			Locale:      "pt_PT",
		},
		Twitter: Twitter{Card: "summary_large_image"},
	}
}

// WithImage sets the share image on both cards.
func (m Meta) WithImage(url string) Meta {
	m.OG.Image = url
	m.Twitter.Image = url
	return m
}

// KeywordList joins Keywords for the meta keywords tag.
func (m Meta) KeywordList() string {
	return strings.Join(m.Keywords, ", ")
}
