package observability

import (
	"strings"
	"unicode"
)

// clean drops control characters and caps the result at limit runes so that
// request data cannot forge log lines or blow up label cardinality.
func clean(value string, limit int) string {
	var b strings.Builder
	n := 0
	for _, r := range value {
		if unicode.IsControl(r) {
			continue
		}
		if n == limit {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// SanitizeRoute cleans a route pattern or path for logs and metric labels.
func SanitizeRoute(route string) string {
	if route = clean(route, 180); route == "" {
		return "/"
	}
	return route
}

// SanitizeMethod cleans an HTTP method.
func SanitizeMethod(method string) string {
	return clean(method, 10)
}

// crawlers maps a User-Agent token to the name logged as "crawler".
var crawlers = []struct {
	token string
	name  string
}{
	{"googlebot", "google"},
	{"bingbot", "bing"},
	{"duckduckbot", "duckduckgo"},
	{"yandexbot", "yandex"},
	{"applebot", "apple"},
	{"facebookexternalhit", "facebook"},
	{"linkedinbot", "linkedin"},
}

// CrawlerName returns the search or social crawler a User-Agent belongs to,
// or "" for regular browsers.
func CrawlerName(userAgent string) string {
	ua := strings.ToLower(userAgent)
	for _, c := range crawlers {
		if strings.Contains(ua, c.token) {
			return c.name
		}
	}
	return ""
}

// quietPath reports paths whose successful requests are logged at debug level.
func quietPath(path string) bool {
	return path == "/healthz" || path == "/metrics" || strings.HasPrefix(path, "/assets/")
}
