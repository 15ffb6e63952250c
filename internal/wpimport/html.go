package wpimport

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var (
	shortcodePattern = regexp.MustCompile(`\[/?[a-zA-Z_][\w-]*[^\]]*\]`)
	blankLines       = regexp.MustCompile(`\n{3,}`)
	blockTagPattern  = regexp.MustCompile(`(?i)<(p|div|h[1-6]|ul|ol|blockquote|pre|table|figure)[\s>]`)
	convertPolicy    = newConvertPolicy()
)

// newConvertPolicy keeps the elements the converter understands and drops
// everything else, including script and style bodies.
func newConvertPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("h1", "h2", "h3", "h4", "h5", "h6", "p", "br", "hr",
		"strong", "b", "em", "i", "ul", "ol", "li", "blockquote", "pre", "code",
		"div", "span", "figure", "figcaption", "a", "img")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	return p
}

// HTMLToMarkdown converts WordPress post HTML into Markdown.
func HTMLToMarkdown(raw string) (string, error) {
	raw = shortcodePattern.ReplaceAllString(raw, "")
	raw = autop(raw)
	clean := convertPolicy.Sanitize(raw)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(clean))
	if err != nil {
		return "", fmt.Errorf("wpimport: parse html: %w", err)
	}
	var w mdWriter
	doc.Find("body").Contents().Each(func(_ int, s *goquery.Selection) {
		w.node(s)
	})
	out := blankLines.ReplaceAllString(w.String(), "\n\n")
	return strings.TrimSpace(out) + "\n", nil
}

// autop wraps blank-line separated text in paragraphs when the post was
// saved without block markup.
func autop(raw string) string {
	if blockTagPattern.MatchString(raw) {
		return raw
	}
	parts := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n\n")
	var b strings.Builder
	for _, p := range parts {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(p, "\n", "<br>"))
		b.WriteString("</p>\n")
	}
	return b.String()
}

type mdWriter struct {
	b       strings.Builder
	listDep int
}

func (w *mdWriter) String() string { return w.b.String() }

func (w *mdWriter) block(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	w.b.WriteString(s)
	w.b.WriteString("\n\n")
}

func (w *mdWriter) node(s *goquery.Selection) {
	n := s.Get(0)
	switch n.Type {
	case html.TextNode:
		if t := collapse(n.Data); strings.TrimSpace(t) != "" {
			w.block(t)
		}
		return
	case html.ElementNode:
	default:
		return
	}

	switch tag := goquery.NodeName(s); tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(tag[1] - '0')
		w.block(strings.Repeat("#", level) + " " + inline(s))
	case "p", "figcaption":
		w.block(inline(s))
	case "hr":
		w.block("---")
	case "blockquote":
		var inner mdWriter
		s.Contents().Each(func(_ int, c *goquery.Selection) { inner.node(c) })
		lines := strings.Split(strings.TrimSpace(inner.String()), "\n")
		for i, l := range lines {
			lines[i] = strings.TrimRight("> "+l, " ")
		}
		w.block(strings.Join(lines, "\n"))
	case "pre":
		code := s.Text()
		w.block("```\n" + strings.Trim(code, "\n") + "\n```")
	case "ul", "ol":
		w.block(w.list(s, tag == "ol", 0))
	case "img":
		w.block(image(s))
	default:
		if isInline(tag) {
			w.block(inline(s))
			return
		}
		s.Contents().Each(func(_ int, c *goquery.Selection) { w.node(c) })
	}
}

func (w *mdWriter) list(s *goquery.Selection, ordered bool, depth int) string {
	var lines []string
	indent := strings.Repeat("  ", depth)
	n := 0
	s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		n++
		marker := "-"
		if ordered {
			marker = fmt.Sprintf("%d.", n)
		}
		nested := li.ChildrenFiltered("ul, ol")
		text := inline(li.Clone().ChildrenFiltered("ul, ol").Remove().End())
		lines = append(lines, indent+marker+" "+text)
		nested.Each(func(_ int, sub *goquery.Selection) {
			lines = append(lines, w.list(sub, goquery.NodeName(sub) == "ol", depth+1))
		})
	})
	return strings.Join(lines, "\n")
}

func isInline(tag string) bool {
	switch tag {
	case "a", "strong", "b", "em", "i", "code", "span", "br":
		return true
	}
	return false
}

// inline renders the children of s as a single Markdown line.
func inline(s *goquery.Selection) string {
	var b strings.Builder
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		n := c.Get(0)
		if n.Type == html.TextNode {
			b.WriteString(collapse(n.Data))
			return
		}
		if n.Type != html.ElementNode {
			return
		}
		switch goquery.NodeName(c) {
		case "strong", "b":
			b.WriteString(wrap("**", inline(c)))
		case "em", "i":
			b.WriteString(wrap("*", inline(c)))
		case "code":
			b.WriteString(wrap("`", c.Text()))
		case "a":
			text := inline(c)
			href, _ := c.Attr("href")
			if href == "" {
				b.WriteString(text)
			} else {
				b.WriteString("[" + text + "](" + href + ")")
			}
		case "img":
			b.WriteString(image(c))
		case "br":
			b.WriteString("  \n")
		default:
			b.WriteString(inline(c))
		}
	})
	return strings.TrimSpace(b.String())
}

func image(s *goquery.Selection) string {
	src, _ := s.Attr("src")
	if src == "" {
		return ""
	}
	alt, _ := s.Attr("alt")
	return "![" + alt + "](" + src + ")"
}

func wrap(marker, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return marker + text + marker
}

func collapse(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			return " "
		}
		return ""
	}
	out := strings.Join(fields, " ")
	if strings.TrimLeft(s, " \t\n\r") != s {
		out = " " + out
	}
	if strings.TrimRight(s, " \t\n\r") != s {
		out += " "
	}
	return out
}
