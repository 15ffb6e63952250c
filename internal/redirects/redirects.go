// Package redirects maps legacy paths from the previous site onto their
// canonical routes.
package redirects

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/nexo-digital/site/internal/platform/requestctx"
)

// Rule maps a From pattern to a To pattern. Both are slash-separated
// segments; a segment starting with ':' matches exactly one path segment and
// can be referenced by name in To.
type Rule struct {
	From      string
	To        string
	Permanent bool
}

// Table is an ordered set of rules. The first matching rule wins.
type Table struct {
	rules []compiledRule
}

type compiledRule struct {
	Rule
	from []string
	to   []string
}

// NewTable validates and compiles rules. Every :param used in To must be
// bound in From.
func NewTable(rules ...Rule) (*Table, error) {
	t := &Table{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		from := segments(r.From)
		to := segments(r.To)
		bound := map[string]bool{}
		for _, s := range from {
			if s == "*" || strings.Contains(s, "*") {
				return nil, fmt.Errorf("redirects: wildcard not supported in %q", r.From)
			}
			if name, ok := param(s); ok {
				bound[name] = true
			}
		}
		for _, s := range to {
			if name, ok := param(s); ok && !bound[name] {
				return nil, fmt.Errorf("redirects: %q uses unbound parameter :%s", r.To, name)
			}
		}
		t.rules = append(t.rules, compiledRule{Rule: r, from: from, to: to})
	}
	return t, nil
}

// MustTable is NewTable that panics on an invalid rule.
func MustTable(rules ...Rule) *Table {
	t, err := NewTable(rules...)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultRules are the legacy paths of the previous site.
var DefaultRules = []Rule{
	{From: "/blog", To: "/artigos", Permanent: true},
	{From: "/blog/:slug", To: "/artigos/:slug", Permanent: true},
	{From: "/portfolio", To: "/casos-de-estudo", Permanent: true},
	{From: "/portfolio/:slug", To: "/casos-de-estudo/:slug", Permanent: true},
	{From: "/contact", To: "/contacto", Permanent: true},
	{From: "/about", To: "/sobre", Permanent: true},
	{From: "/services", To: "/servicos", Permanent: true},
}

// DefaultTable compiles DefaultRules.
func DefaultTable() *Table {
	return MustTable(DefaultRules...)
}

// Rules returns the configured rules in order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	for i, r := range t.rules {
		out[i] = r.Rule
	}
	return out
}

// Lookup finds the redirect for path. A trailing slash is ignored. The status
// is 308 for permanent rules and 307 otherwise.
func (t *Table) Lookup(path string) (target string, status int, ok bool) {
	if t == nil {
		return "", 0, false
	}
	parts := segments(path)
	for _, r := range t.rules {
		params, matched := match(r.from, parts)
		if !matched {
			continue
		}
		out := make([]string, len(r.to))
		for i, s := range r.to {
			if name, isParam := param(s); isParam {
				out[i] = params[name]
				continue
			}
			out[i] = s
		}
		status = http.StatusTemporaryRedirect
		if r.Permanent {
			status = http.StatusPermanentRedirect
		}
		return "/" + strings.Join(out, "/"), status, true
	}
	return "", 0, false
}

// Middleware redirects matching GET and HEAD requests before routing and keeps
// the query string.
func Middleware(t *Table) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			target, status, ok := t.Lookup(r.URL.Path)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			requestctx.Logger(r.Context()).Debug("legacy redirect",
				zap.String("from", r.URL.Path),
				zap.String("to", target),
				zap.Int("status", status),
			)
			http.Redirect(w, r, target, status)
		})
	}
}

func match(pattern, parts []string) (map[string]string, bool) {
	if len(pattern) != len(parts) {
		return nil, false
	}
	var params map[string]string
	for i, s := range pattern {
		if name, ok := param(s); ok {
			if parts[i] == "" {
				return nil, false
			}
			if params == nil {
				params = map[string]string{}
			}
			params[name] = parts[i]
			continue
		}
		if !strings.EqualFold(s, parts[i]) {
			return nil, false
		}
	}
	return params, true
}

func segments(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return []string{}
	}
	return strings.Split(path, "/")
}

func param(segment string) (string, bool) {
	if strings.HasPrefix(segment, ":") && len(segment) > 1 {
		return segment[1:], true
	}
	return "", false
}
