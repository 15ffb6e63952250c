package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/temoto/robotstxt"

	"github.com/nexo-digital/site/internal/cms"
	"github.com/nexo-digital/site/internal/programmatic"
)

var fixedNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

type fakeContent struct {
	posts []cms.Post
	cases []cms.CaseStudy
	err   error
}

func (f fakeContent) ListPosts(context.Context) ([]cms.Post, error)      { return f.posts, f.err }
func (f fakeContent) ListCases(context.Context) ([]cms.CaseStudy, error) { return f.cases, nil }

type fakePairs struct {
	serviceLocation  []programmatic.Pair
	industrySolution []programmatic.Pair
}

func (f fakePairs) ServiceLocationPairs(context.Context) ([]programmatic.Pair, error) {
	return f.serviceLocation, nil
}

func (f fakePairs) IndustrySolutionPairs(context.Context) ([]programmatic.Pair, error) {
	return f.industrySolution, nil
}

func newBuilder() Builder {
	post := func(slug string, date time.Time) cms.Post {
		return cms.Post{Entry: cms.Entry{Slug: slug}, Date: date}
	}
	kase := func(slug string, year int) cms.CaseStudy {
		return cms.CaseStudy{Entry: cms.Entry{Slug: slug}, Year: year}
	}
	return Builder{
		BaseURL: "https://nexo.pt/",
		Content: fakeContent{
			posts: []cms.Post{
				post("guia-seo-local", time.Date(2025, time.May, 2, 0, 0, 0, 0, time.UTC)),
				post("sem-data", time.Time{}),
			},
			cases: []cms.CaseStudy{kase("clinica", 2024), kase("antigo", 0)},
		},
		Programmatic: fakePairs{
			serviceLocation:  []programmatic.Pair{{First: "seo", Second: "lisboa"}, {First: "seo", Second: "porto"}},
			industrySolution: []programmatic.Pair{{First: "saude", Second: "seo"}},
		},
		Tools: []string{"gerador-utm"},
		Now:   func() time.Time { return fixedNow },
	}
}

func urls(entries []RouteEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.URL
	}
	return out
}

func TestBuildOrdersGroups(t *testing.T) {
	t.Parallel()

	entries, err := newBuilder().Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://nexo.pt/",
		"https://nexo.pt/sobre",
		"https://nexo.pt/servicos",
		"https://nexo.pt/setores",
		"https://nexo.pt/artigos",
		"https://nexo.pt/casos-de-estudo",
		"https://nexo.pt/contacto",
		"https://nexo.pt/ferramentas",
		"https://nexo.pt/privacidade",
		"https://nexo.pt/artigos/guia-seo-local",
		"https://nexo.pt/artigos/sem-data",
		"https://nexo.pt/casos-de-estudo/clinica",
		"https://nexo.pt/casos-de-estudo/antigo",
		"https://nexo.pt/seo/lisboa",
		"https://nexo.pt/seo/porto",
		"https://nexo.pt/saude/seo",
		"https://nexo.pt/ferramentas/gerador-utm",
	}, urls(entries))
}

func TestBuildLastModifiedFallbacks(t *testing.T) {
	t.Parallel()

	entries, err := newBuilder().Build(context.Background())
	require.NoError(t, err)

	byURL := map[string]RouteEntry{}
	for _, e := range entries {
		byURL[e.URL] = e
	}
	require.Equal(t, fixedNow, byURL["https://nexo.pt/"].LastModified)
	require.Equal(t, time.Date(2025, time.May, 2, 0, 0, 0, 0, time.UTC), byURL["https://nexo.pt/artigos/guia-seo-local"].LastModified)
	require.Equal(t, fixedNow, byURL["https://nexo.pt/artigos/sem-data"].LastModified)
	require.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), byURL["https://nexo.pt/casos-de-estudo/clinica"].LastModified)
	require.Equal(t, fixedNow, byURL["https://nexo.pt/casos-de-estudo/antigo"].LastModified)
}

func TestBuildIsDeterministic(t *testing.T) {
	t.Parallel()

	b := newBuilder()
	first, err := b.Build(context.Background())
	require.NoError(t, err)
	second, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)

	var x1, x2 bytes.Buffer
	require.NoError(t, WriteXML(&x1, first))
	require.NoError(t, WriteXML(&x2, second))
	require.Equal(t, x1.String(), x2.String())
}

func TestBuildDeduplicatesUnlessAsked(t *testing.T) {
	t.Parallel()

	b := newBuilder()
	// The same tool listed twice yields one URL.
	b.Tools = []string{"gerador-utm", "gerador-utm"}

	entries, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 17)

	b.KeepDuplicates = true
	entries, err = b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 18)
}

func TestBuildWithoutSources(t *testing.T) {
	t.Parallel()

	entries, err := Builder{BaseURL: "https://nexo.pt", Now: func() time.Time { return fixedNow }}.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, len(StaticRoutes))
}

func TestBuildPropagatesContentErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	b := newBuilder()
	b.Content = fakeContent{err: boom}
	_, err := b.Build(context.Background())
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "sitemap: list posts")
}

func TestWriteXML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, []RouteEntry{
		{URL: "https://nexo.pt/", LastModified: fixedNow, ChangeFrequency: Weekly, Priority: 1},
		{URL: "https://nexo.pt/a?x=1&y=2", Priority: 3},
	}))

	out := buf.String()
	require.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
	require.Contains(t, out, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	require.Contains(t, out, "<lastmod>2026-03-10T12:00:00Z</lastmod>")
	require.Contains(t, out, "<changefreq>weekly</changefreq>")
	require.Contains(t, out, "<priority>1.0</priority>")
	require.Contains(t, out, "<loc>https://nexo.pt/a?x=1&amp;y=2</loc>")

	var decoded urlset
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.URLs, 2)
	require.Equal(t, "1.0", decoded.URLs[1].Priority)
	require.Empty(t, decoded.URLs[1].LastMod)
}

func TestRobotsTxt(t *testing.T) {
	t.Parallel()

	robots, err := robotstxt.FromString(RobotsTxt("https://nexo.pt/"))
	require.NoError(t, err)
	require.Equal(t, []string{"https://nexo.pt/sitemap.xml"}, robots.Sitemaps)
	require.True(t, robots.TestAgent("/artigos/guia-seo-local", "Googlebot"))
	require.False(t, robots.TestAgent("/api/content/posts", "Googlebot"))
	require.False(t, robots.TestAgent("/metrics", "Googlebot"))
}
