// Package config loads site settings from the environment, an optional .env
// file and explicit overrides.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration.
type Config struct {
	Server    ServerConfig
	Site      SiteConfig
	Content   ContentConfig
	Sitemap   SitemapConfig
	Analytics AnalyticsConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

// SiteConfig is the public identity of the website.
type SiteConfig struct {
	Name    string
	BaseURL string
	Dev     bool
}

// ContentConfig points at the file-backed content, SEO data and views.
type ContentConfig struct {
	Dir          string
	DataDir      string
	TemplatesDir string
	PublicDir    string
	Cache        bool
	Watch        bool
}

type SitemapConfig struct {
	KeepDuplicates bool
}

// AnalyticsConfig holds the tag ids rendered into every page.
type AnalyticsConfig struct {
	GA4MeasurementID string
	GTMContainerID   string
}

// ValidationError lists every field that is missing or could not be parsed.
type ValidationError struct {
	fields []string
}

func (e *ValidationError) Error() string {
	return "config: invalid fields: " + strings.Join(e.fields, ", ")
}

// Fields returns a copy of the offending field names.
func (e *ValidationError) Fields() []string {
	return append([]string(nil), e.fields...)
}

// Option customises Load.
type Option func(*options)

type options struct {
	envFile   string
	overrides map[string]string
	systemEnv bool
}

// WithEnvFile sets the .env file read after the process environment. An empty
// path disables it.
func WithEnvFile(path string) Option {
	return func(o *options) { o.envFile = path }
}

// WithEnvMap adds values that win over every other source.
func WithEnvMap(values map[string]string) Option {
	return func(o *options) { o.overrides = values }
}

// WithoutSystemEnv ignores the process environment.
func WithoutSystemEnv() Option {
	return func(o *options) { o.systemEnv = false }
}

// Load resolves each key from the overrides, the process environment and the
// .env file, in that order, then validates the result.
func Load(_ context.Context, opts ...Option) (Config, error) {
	o := options{envFile: ".env", systemEnv: true}
	for _, opt := range opts {
		opt(&o)
	}

	src := source{}
	if o.overrides != nil {
		src.layers = append(src.layers, mapLayer(o.overrides))
	}
	if o.systemEnv {
		src.layers = append(src.layers, os.LookupEnv)
	}
	dotenv, err := readDotEnv(o.envFile)
	if err != nil {
		return Config{}, err
	}
	if dotenv != nil {
		src.layers = append(src.layers, mapLayer(dotenv))
	}

	// PORT is what container platforms inject; SITE_SERVER_PORT wins over it.
	port := src.str("SITE_SERVER_PORT", src.str("PORT", "8080"))

	cfg := Config{
		Server: ServerConfig{
			Port:         port,
			ReadTimeout:  src.duration("Server.ReadTimeout", "SITE_SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: src.duration("Server.WriteTimeout", "SITE_SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  src.duration("Server.IdleTimeout", "SITE_SERVER_IDLE_TIMEOUT", time.Minute),
		},
		Site: SiteConfig{
			Name:    src.str("SITE_NAME", "Nexo Digital"),
			BaseURL: strings.TrimRight(strings.TrimSpace(src.str("SITE_BASE_URL", "")), "/"),
			Dev:     src.flag("Site.Dev", "SITE_DEV", false),
		},
		Content: ContentConfig{
			Dir:          src.str("SITE_CONTENT_DIR", "content"),
			DataDir:      src.str("SITE_DATA_DIR", "data/seo"),
			TemplatesDir: src.str("SITE_TEMPLATES_DIR", "templates"),
			PublicDir:    src.str("SITE_PUBLIC_DIR", "public"),
			Cache:        src.flag("Content.Cache", "SITE_CONTENT_CACHE", false),
			Watch:        src.flag("Content.Watch", "SITE_CONTENT_WATCH", false),
		},
		Sitemap: SitemapConfig{
			KeepDuplicates: src.flag("Sitemap.KeepDuplicates", "SITE_SITEMAP_KEEP_DUPLICATES", false),
		},
		Analytics: AnalyticsConfig{
			GA4MeasurementID: src.str("SITE_GA4_ID", ""),
			GTMContainerID:   src.str("SITE_GTM_ID", ""),
		},
	}

	if invalid := validate(cfg, src.invalid); len(invalid) > 0 {
		return Config{}, &ValidationError{fields: invalid}
	}
	return cfg, nil
}

func validate(cfg Config, invalid []string) []string {
	var out []string
	if n, err := strconv.Atoi(cfg.Server.Port); err != nil || n <= 0 || n > 65535 {
		out = append(out, "Server.Port")
	}
	if !httpURL(cfg.Site.BaseURL) {
		out = append(out, "Site.BaseURL")
	}
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		out = append(out, "Content.Dir")
	}
	dirs := []struct{ field, value string }{
		{"Content.DataDir", cfg.Content.DataDir},
		{"Content.TemplatesDir", cfg.Content.TemplatesDir},
		{"Content.PublicDir", cfg.Content.PublicDir},
	}
	for _, d := range dirs {
		if strings.TrimSpace(d.value) == "" {
			out = append(out, d.field)
		}
	}
	out = append(out, invalid...)
	timeouts := []struct {
		field string
		value time.Duration
	}{
		{"Server.ReadTimeout", cfg.Server.ReadTimeout},
		{"Server.WriteTimeout", cfg.Server.WriteTimeout},
		{"Server.IdleTimeout", cfg.Server.IdleTimeout},
	}
	for _, to := range timeouts {
		if to.value <= 0 && !slices.Contains(out, to.field) {
			out = append(out, to.field)
		}
	}
	return out
}

type lookupFunc func(string) (string, bool)

func mapLayer(m map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// source resolves keys through its layers and records values it could not
// parse.
type source struct {
	layers  []lookupFunc
	invalid []string
}

func (s *source) lookup(key string) string {
	for _, layer := range s.layers {
		if v, ok := layer(key); ok && v != "" {
			return v
		}
	}
	return ""
}

func (s *source) str(key, fallback string) string {
	if v := s.lookup(key); v != "" {
		return v
	}
	return fallback
}

func (s *source) duration(field, key string, fallback time.Duration) time.Duration {
	raw := s.lookup(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		s.invalid = append(s.invalid, field)
		return fallback
	}
	return d
}

func (s *source) flag(field, key string, fallback bool) bool {
	switch strings.ToLower(s.lookup(key)) {
	case "":
		return fallback
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	s.invalid = append(s.invalid, field)
	return fallback
}

func httpURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || raw == "" {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func readDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return values, nil
}
