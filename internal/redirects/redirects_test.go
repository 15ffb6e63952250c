package redirects

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultTableLookup(t *testing.T) {
	t.Parallel()

	table := DefaultTable()
	cases := []struct {
		path   string
		target string
	}{
		{"/blog", "/artigos"},
		{"/blog/", "/artigos"},
		{"/blog/meu-artigo", "/artigos/meu-artigo"},
		{"/blog/meu-artigo/", "/artigos/meu-artigo"},
		{"/portfolio", "/casos-de-estudo"},
		{"/portfolio/clinica-sorriso", "/casos-de-estudo/clinica-sorriso"},
		{"/contact", "/contacto"},
		{"/about", "/sobre"},
		{"/services", "/servicos"},
	}
	for _, tc := range cases {
		target, status, ok := table.Lookup(tc.path)
		require.True(t, ok, tc.path)
		require.Equal(t, tc.target, target, tc.path)
		require.Equal(t, http.StatusPermanentRedirect, status, tc.path)
	}
}

func TestLookupMisses(t *testing.T) {
	t.Parallel()

	table := DefaultTable()
	for _, path := range []string{"/", "/artigos", "/blog/a/b", "/blogs", "/portfolio/a/b"} {
		_, _, ok := table.Lookup(path)
		require.False(t, ok, path)
	}

	var nilTable *Table
	_, _, ok := nilTable.Lookup("/blog")
	require.False(t, ok)
}

func TestTemporaryRule(t *testing.T) {
	t.Parallel()

	table := MustTable(Rule{From: "/promo/:code", To: "/contacto"})
	target, status, ok := table.Lookup("/promo/verao")
	require.True(t, ok)
	require.Equal(t, "/contacto", target)
	require.Equal(t, http.StatusTemporaryRedirect, status)
}

func TestFirstRuleWins(t *testing.T) {
	t.Parallel()

	table := MustTable(
		Rule{From: "/blog/:slug", To: "/artigos/:slug", Permanent: true},
		Rule{From: "/blog/:other", To: "/elsewhere"},
	)
	target, _, ok := table.Lookup("/blog/x")
	require.True(t, ok)
	require.Equal(t, "/artigos/x", target)
}

func TestNewTableRejectsInvalidRules(t *testing.T) {
	t.Parallel()

	_, err := NewTable(Rule{From: "/blog/*", To: "/artigos"})
	require.ErrorContains(t, err, "wildcard")

	_, err = NewTable(Rule{From: "/blog", To: "/artigos/:slug"})
	require.ErrorContains(t, err, "unbound parameter :slug")

	require.Panics(t, func() { MustTable(Rule{From: "/a", To: "/:b"}) })
}

func TestMiddlewareRedirectsAndKeepsQuery(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := Middleware(DefaultTable())(next)

	req := httptest.NewRequest(http.MethodGet, "/blog/meu-artigo?utm_source=newsletter", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusPermanentRedirect, rec.Code)
	require.Equal(t, "/artigos/meu-artigo?utm_source=newsletter", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/artigos/meu-artigo", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTeapot, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/contact", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTeapot, rec.Code)
}
