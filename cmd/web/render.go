package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nexo-digital/site/internal/format"
	"github.com/nexo-digital/site/internal/platform/requestctx"
)

// renderer parses one template set per page: the base layout, every partial
// and the page file. In dev mode, templates are reparsed on each request.
type renderer struct {
	dir string
	dev bool

	mu    sync.RWMutex
	pages map[string]*template.Template
}

func newRenderer(dir string, dev bool) (*renderer, error) {
	r := &renderer{dir: dir, dev: dev}
	pages, err := r.parse()
	if err != nil {
		return nil, err
	}
	r.pages = pages
	return r, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"now": time.Now,
		"date": func(t time.Time) string {
			return format.FmtDate(t, "pt")
		},
		"isodate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"readingTime": format.ReadingTime,
		"jsonld": func(s string) template.JS {
			return template.JS(s)
		},
		"join": strings.Join,
	}
}

func (r *renderer) parse() (map[string]*template.Template, error) {
	base := filepath.Join(r.dir, "base.tmpl")
	partials, err := filepath.Glob(filepath.Join(r.dir, "partials", "*.tmpl"))
	if err != nil {
		return nil, err
	}
	var pageFiles []string
	if err := filepath.WalkDir(filepath.Join(r.dir, "pages"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".tmpl") {
			pageFiles = append(pageFiles, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(pageFiles) == 0 {
		return nil, fmt.Errorf("no templates found under %s", r.dir)
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, file := range pageFiles {
		name := strings.TrimSuffix(filepath.Base(file), ".tmpl")
		files := append([]string{base}, partials...)
		files = append(files, file)
		t, err := template.New(name).Funcs(templateFuncs()).ParseFiles(files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

func (r *renderer) lookup(page string) (*template.Template, error) {
	if r.dev {
		pages, err := r.parse()
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.pages = pages
		r.mu.Unlock()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.pages[page]
	if !ok {
		return nil, fmt.Errorf("template %q not found", page)
	}
	return t, nil
}

// render executes the base layout for page into a buffer so that template
// errors still produce a clean 500.
func (r *renderer) render(w http.ResponseWriter, req *http.Request, status int, page string, data any) {
	logger := requestctx.Logger(req.Context())
	t, err := r.lookup(page)
	if err != nil {
		logger.Error("template lookup failed", zap.String("page", page), zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		logger.Error("template exec failed", zap.String("page", page), zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
