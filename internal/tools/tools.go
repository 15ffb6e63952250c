// Package tools holds the registry of free utility tools published under
// /ferramentas and the link builders behind them.
package tools

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
)

var (
	ErrInvalidPhone = errors.New("tools: phone must have between 8 and 15 digits")
	ErrInvalidURL   = errors.New("tools: url must be absolute http or https")
	ErrMissingParam = errors.New("tools: missing required parameter")
	ErrInvalidEmail = errors.New("tools: invalid email address")
)

// Tool describes one page under /ferramentas/{slug}.
type Tool struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// ClientSide marks tools rendered entirely in the browser.
	ClientSide bool `json:"clientSide"`
}

// Path returns the tool page route.
func (t Tool) Path() string {
	return "/ferramentas/" + t.Slug
}

var registry = []Tool{
	{
		Slug:        "gerador-link-whatsapp",
		Name:        "Gerador de Link WhatsApp",
		Description: "Crie um link wa.me com mensagem pré-preenchida.",
	},
	{
		Slug:        "gerador-qr-code",
		Name:        "Gerador de QR Code",
		Description: "Gere QR codes para links, contactos e redes Wi-Fi.",
		ClientSide:  true,
	},
	{
		Slug:        "gerador-utm",
		Name:        "Gerador de UTM",
		Description: "Monte URLs com parâmetros UTM para as suas campanhas.",
	},
	{
		Slug:        "gerador-link-email",
		Name:        "Gerador de Link de Email",
		Description: "Crie links mailto com assunto e corpo definidos.",
	},
}

// All returns the registry in display order.
func All() []Tool {
	out := make([]Tool, len(registry))
	copy(out, registry)
	return out
}

// Slugs returns the tool slugs in display order.
func Slugs() []string {
	out := make([]string, len(registry))
	for i, t := range registry {
		out[i] = t.Slug
	}
	return out
}

// BySlug looks up a tool.
func BySlug(slug string) (Tool, bool) {
	for _, t := range registry {
		if t.Slug == slug {
			return t, true
		}
	}
	return Tool{}, false
}

// WhatsAppLink builds a wa.me link. Non-digits in phone are dropped, so
// "+351 912 345 678" and "351912345678" give the same link.
func WhatsAppLink(phone, text string) (string, error) {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	n := digits.Len()
	if n < 8 || n > 15 {
		return "", ErrInvalidPhone
	}
	link := "https://wa.me/" + digits.String()
	if text = strings.TrimSpace(text); text != "" {
		link += "?text=" + url.QueryEscape(text)
	}
	return link, nil
}

// UTMParams are the campaign parameters appended by UTMURL.
type UTMParams struct {
	Source   string `json:"source"`
	Medium   string `json:"medium"`
	Campaign string `json:"campaign"`
	Term     string `json:"term,omitempty"`
	Content  string `json:"content,omitempty"`
}

// UTMURL appends utm_* parameters to base. Existing query parameters are kept;
// existing utm_* values are replaced.
func UTMURL(base string, p UTMParams) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", ErrInvalidURL
	}
	required := []struct{ name, value string }{
		{"source", p.Source},
		{"medium", p.Medium},
		{"campaign", p.Campaign},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return "", fmt.Errorf("%w: utm_%s", ErrMissingParam, r.name)
		}
	}

	q := u.Query()
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			q.Set(key, value)
		}
	}
	set("utm_source", p.Source)
	set("utm_medium", p.Medium)
	set("utm_campaign", p.Campaign)
	set("utm_term", p.Term)
	set("utm_content", p.Content)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// EmailLink builds a mailto link with optional subject and body.
func EmailLink(to, subject, body string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(to))
	if err != nil {
		return "", ErrInvalidEmail
	}
	link := "mailto:" + addr.Address
	q := make([]string, 0, 2)
	if subject = strings.TrimSpace(subject); subject != "" {
		q = append(q, "subject="+url.PathEscape(subject))
	}
	if body = strings.TrimSpace(body); body != "" {
		q = append(q, "body="+url.PathEscape(body))
	}
	if len(q) > 0 {
		link += "?" + strings.Join(q, "&")
	}
	return link, nil
}
