package handlers

import (
	"html/template"
	"strings"
	"time"

	"github.com/nexo-digital/site/internal/nav"
	"github.com/nexo-digital/site/internal/seo"
	"github.com/nexo-digital/site/internal/tools"
)

// Site identifies the website in every layout.
type Site struct {
	Name    string
	BaseURL string
}

// URL joins path onto the base URL.
func (s Site) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(s.BaseURL, "/") + path
}

// PageData is a generic view model for pages using the shared layout.
type PageData struct {
	Title     string
	Lang      string
	Site      Site
	SEO       seo.Meta
	JSONLD    []string
	Analytics Analytics
	Year      int

	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb

	// Optional per-page view model payloads
	Home         *HomeView
	Posts        []PostCard
	Category     string
	Post         *PostView
	Cases        []CaseCard
	Case         *CaseView
	Cards        []ServiceCard
	Detail       *DetailView
	Related      []CaseCard
	Programmatic *ProgrammaticView
	Tools        []tools.Tool
	Tool         *tools.Tool
	Status       *StatusView
}

// NewPage builds the layout fields shared by every page. The breadcrumb
// JSON-LD is added for every page except the home page.
func NewPage(site Site, analytics Analytics, path, title, description string) PageData {
	crumbs := nav.Breadcrumbs(path, title)
	p := PageData{
		Title:       title,
		Lang:        "pt-PT",
		Site:        site,
		SEO:         seo.NewMeta(site.Name, title, description, site.URL(path)),
		Analytics:   analytics,
		Year:        time.Now().Year(),
		Path:        path,
		Nav:         nav.Build(path),
		Breadcrumbs: crumbs,
	}
	if len(crumbs) > 1 {
		p.AddJSONLD(seo.BreadcrumbList(nav.Schema(site.BaseURL, crumbs)))
	}
	return p
}

// AddJSONLD appends a structured-data block. Nil payloads are ignored.
func (p *PageData) AddJSONLD(v map[string]any) {
	if v == nil {
		return
	}
	if s := seo.JSON(v); s != "" {
		p.JSONLD = append(p.JSONLD, s)
	}
}

// HomeView lists the sections of the landing page.
type HomeView struct {
	Services []ServiceCard
	Cases    []CaseCard
	Posts    []PostCard
}

// PostView is a rendered article.
type PostView struct {
	PostCard
	Author      string
	Tags        []string
	BodyHTML    template.HTML
	ReadingTime int
	Headings    []Heading
}

// Heading is a table-of-contents entry.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// CaseView is a rendered case study.
type CaseView struct {
	CaseCard
	Results  []Result
	Services []Link
	BodyHTML template.HTML
}

// Result is one headline metric of a case study.
type Result struct {
	Label string
	Value string
}

// Link is a labelled href.
type Link struct {
	Href  string
	Label string
}

// PostCard summarises an article in listings.
type PostCard struct {
	Href        string
	Title       string
	Description string
	Date        time.Time
	Categories  []string
	Image       string
}

// CaseCard summarises a case study in listings.
type CaseCard struct {
	Href        string
	Title       string
	Client      string
	Description string
	Industry    string
	Year        int
	Image       string
}

// ServiceCard summarises an offering.
type ServiceCard struct {
	Href        string
	Title       string
	Description string
	Icon        string
	Features    []string
}

// DetailView is a service or industry page.
type DetailView struct {
	Title       string
	Description string
	BodyHTML    template.HTML
	Icon        string
	Lists       []LabeledList
}

// LabeledList is a titled bullet list on a detail page.
type LabeledList struct {
	Title string
	Items []string
}

// ProgrammaticView backs the service×location and industry×solution pages.
type ProgrammaticView struct {
	Heading    string
	Intro      string
	Service    Link
	Location   string
	Industry   string
	Keywords   []string
	PainPoints []string
	FAQ        []seo.FAQ
	Links      []Link
}

// StatusView backs error pages.
type StatusView struct {
	Code    int
	Title   string
	Message string
}
