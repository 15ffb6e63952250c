// Package middleware serves the static assets under /assets.
package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"net/http"
	"path"
	"regexp"
	"strings"
)

const (
	assetCacheControl       = "public, max-age=604800, stale-while-revalidate=86400"
	fingerprintCacheControl = "public, max-age=31536000, immutable"
)

// fingerprinted matches names like site.3f2a1b9c.css.
var fingerprinted = regexp.MustCompile(`\.[0-9a-f]{8,}\.[a-z0-9]+$`)

type assetServer struct {
	etags map[string]string
	files http.Handler
}

// AssetsWithCache serves fsys with ETag and Cache-Control headers. The ETag of
// every file is computed once, when the handler is built. Request paths are
// relative to fsys. Anything that is not a file, directories included, is a
// 404.
func AssetsWithCache(fsys fs.FS) http.Handler {
	s := &assetServer{etags: map[string]string{}, files: http.FileServerFS(fsys)}
	_ = fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if tag, err := digest(fsys, name); err == nil {
			s.etags[name] = tag
		}
		return nil
	})
	return s
}

func (s *assetServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	tag, known := s.etags[name]
	if !known {
		h := w.Header()
		h.Set("Cache-Control", "no-cache")
		h.Set("Content-Type", "text/plain; charset=utf-8")
		h.Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "404 page not found\n")
		return
	}

	h := w.Header()
	h.Set("Vary", "Accept-Encoding")
	h.Set("ETag", tag)
	if fingerprinted.MatchString(name) {
		h.Set("Cache-Control", fingerprintCacheControl)
	} else {
		h.Set("Cache-Control", assetCacheControl)
	}
	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && matchesETag(r.Header.Get("If-None-Match"), tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	s.files.ServeHTTP(w, r)
}

func matchesETag(header, tag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == strings.TrimPrefix(tag, "W/") {
			return true
		}
	}
	return false
}

func digest(fsys fs.FS, name string) (string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	sum := sha256.New()
	if _, err := io.Copy(sum, f); err != nil {
		return "", err
	}
	return `W/"` + hex.EncodeToString(sum.Sum(nil)[:12]) + `"`, nil
}
