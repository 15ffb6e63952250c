package nav

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nexo-digital/site/internal/seo"
)

// Item represents a top-level navigation item.
type Item struct {
	Path  string // e.g. "/servicos"
	Label string
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href   string
	Label  string
	Active bool
}

// Crumb represents a breadcrumb entry.
type Crumb struct {
	Href   string
	Label  string
	Active bool
}

// HomeLabel is the first breadcrumb.
const HomeLabel = "Início"

// Main is the primary navigation definition.
var Main = []Item{
	{Path: "/servicos", Label: "Serviços"},
	{Path: "/setores", Label: "Setores"},
	{Path: "/casos-de-estudo", Label: "Casos de Estudo"},
	{Path: "/artigos", Label: "Artigos"},
	{Path: "/ferramentas", Label: "Ferramentas"},
	{Path: "/sobre", Label: "Sobre"},
	{Path: "/contacto", Label: "Contacto"},
}

var minorWords = map[string]bool{
	"a": true, "o": true, "e": true, "de": true, "da": true, "do": true,
	"das": true, "dos": true, "em": true, "na": true, "no": true, "para": true,
}

// Build renders navigation items with active state given the current path.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:   it.Path,
			Label:  it.Label,
			Active: isActive(it.Path, currentPath),
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// Breadcrumbs builds breadcrumb entries from the current path. Known sections
// use their nav label; deeper segments use a title-cased slug. A non-empty
// title replaces the label of the last crumb.
func Breadcrumbs(currentPath, title string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	crumbs := []Crumb{{Href: "/", Label: HomeLabel, Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}

	clean := path.Clean("/" + strings.TrimPrefix(currentPath, "/"))
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	href := ""
	for i, part := range parts {
		if part == "" {
			continue
		}
		href += "/" + part
		label := LabelFor(href)
		crumbs = append(crumbs, Crumb{Href: href, Label: label, Active: i == len(parts)-1})
	}

	if title = strings.TrimSpace(title); title != "" && len(crumbs) > 1 {
		crumbs[len(crumbs)-1].Label = title
	}
	return crumbs
}

// LabelFor returns the nav label of a top-level path, or a title-cased form
// of its last segment.
func LabelFor(p string) string {
	for _, it := range Main {
		if it.Path == p {
			return it.Label
		}
	}
	return TitleFromSegment(path.Base(p))
}

// TitleFromSegment turns "seo-local-para-clinicas" into "Seo Local para Clinicas".
func TitleFromSegment(seg string) string {
	// Casers are stateful and cannot be shared across goroutines.
	titleCaser := cases.Title(language.Portuguese)
	lowerCaser := cases.Lower(language.Portuguese)
	seg = strings.NewReplacer("-", " ", "_", " ").Replace(seg)
	words := strings.Fields(seg)
	for i, w := range words {
		if i > 0 && minorWords[lowerCaser.String(w)] {
			words[i] = lowerCaser.String(w)
			continue
		}
		words[i] = titleCaser.String(w)
	}
	return strings.Join(words, " ")
}

// Schema converts crumbs into absolute-URL breadcrumb items for JSON-LD.
func Schema(baseURL string, crumbs []Crumb) []seo.BreadcrumbItem {
	base := strings.TrimRight(baseURL, "/")
	out := make([]seo.BreadcrumbItem, 0, len(crumbs))
	for _, c := range crumbs {
		out = append(out, seo.BreadcrumbItem{Name: c.Label, Item: base + c.Href})
	}
	return out
}
