package cms

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ParseError reports a content file whose front matter could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cms: parse front matter %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SplitFrontMatter separates a leading "---" fenced YAML block from the body.
// Input without an opening fence, or with an unterminated one, is all body.
func SplitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	input = strings.ReplaceAll(input, "\r\n", "\n")
	lines := strings.Split(input, "\n")
	if len(lines) == 0 {
		return "", ""
	}
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n")
		}
	}
	return "", input
}

func decodeFrontMatter(path, fm string, out any) error {
	if strings.TrimSpace(fm) == "" {
		return nil
	}
	if err := yaml.Unmarshal([]byte(fm), out); err != nil {
		return &ParseError{Path: path, Err: err}
	}
	return nil
}

// ParseDate accepts the date layouts authors use in front matter. Unknown
// layouts yield the zero time.
func ParseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"2006/01/02",
		"2006-1-2",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// PrettifySlug turns "marketing-digital" into "Marketing Digital".
func PrettifySlug(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return slug
	}
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		runes[0] = asciiUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

// SanitizeSlug normalises a slug taken from a URL segment. Slugs that could
// escape the content directory come back empty.
func SanitizeSlug(slug string) string {
	slug = strings.TrimSpace(strings.ToLower(slug))
	slug = strings.Trim(slug, "/")
	if slug == "" {
		return ""
	}
	if strings.Contains(slug, "..") {
		return ""
	}
	if strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}

// CaseResult is a headline metric on a case study, e.g. "+120%" / "tráfego orgânico".
type CaseResult struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// UnmarshalYAML accepts either a plain string or a {label|metric, value} mapping.
func (r *CaseResult) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		r.Label = strings.TrimSpace(node.Value)
		return nil
	}
	var raw struct {
		Label  string `yaml:"label"`
		Metric string `yaml:"metric"`
		Value  string `yaml:"value"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	r.Label = strings.TrimSpace(firstNonEmpty(raw.Label, raw.Metric))
	r.Value = strings.TrimSpace(raw.Value)
	return nil
}

type postFrontMatter struct {
	Slug        string   `yaml:"slug"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Excerpt     string   `yaml:"excerpt"`
	Date        string   `yaml:"date"`
	Author      string   `yaml:"author"`
	Categories  []string `yaml:"categories"`
	Tags        []string `yaml:"tags"`
	Image       string   `yaml:"image"`
}

type caseFrontMatter struct {
	Slug        string       `yaml:"slug"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Client      string       `yaml:"client"`
	Industry    string       `yaml:"industry"`
	Services    []string     `yaml:"services"`
	Results     []CaseResult `yaml:"results"`
	Year        int          `yaml:"year"`
	Image       string       `yaml:"image"`
}

type serviceFrontMatter struct {
	Slug        string   `yaml:"slug"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
	Icon        string   `yaml:"icon"`
	Order       int      `yaml:"order"`
}

type industryFrontMatter struct {
	Slug        string   `yaml:"slug"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Challenges  []string `yaml:"challenges"`
	Solutions   []string `yaml:"solutions"`
	Icon        string   `yaml:"icon"`
	Order       int      `yaml:"order"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func asciiUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
