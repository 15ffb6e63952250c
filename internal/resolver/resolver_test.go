package resolver

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/nexo-digital/site/internal/cms"
)

func file(front string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("---\n" + front + "\n---\nbody\n")}
}

func newResolver() *Resolver {
	return New(cms.NewStoreFS(fstest.MapFS{
		"posts/a.md":          file("date: 2024-01-01\ncategories: [SEO]"),
		"posts/b.md":          file("date: 2025-01-01\ncategories: [Branding, seo]"),
		"posts/c.md":          file("slug: b\ndate: 2023-01-01\ntitle: Duplicado"),
		"cases/clinica.md":    file("industry: saude\nservices: [seo]\nyear: 2024"),
		"cases/hotel.md":      file("industry: turismo\nservices: [seo, branding]\nyear: 2023"),
		"cases/farmacia.md":   file("industry: Saude\nservices: [web-design]\nyear: 2021"),
		"services/seo.md":     file("title: SEO"),
		"industries/saude.md": file("title: Saúde"),
	}))
}

func TestPostBySlug(t *testing.T) {
	t.Parallel()

	r := newResolver()
	ctx := context.Background()

	p, ok, err := r.PostBySlug(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a", p.Slug)

	_, ok, err = r.PostBySlug(ctx, "c")
	require.NoError(t, err)
	require.False(t, ok, "c.md declares slug b, so c does not exist")

	_, ok, err = r.PostBySlug(ctx, "../a")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDuplicateSlugFirstMatchWins(t *testing.T) {
	t.Parallel()

	p, ok, err := newResolver().PostBySlug(context.Background(), "b")
	require.NoError(t, err)
	require.True(t, ok)
	// Posts are sorted newest first, so the 2025 post is the first match.
	require.Equal(t, 2025, p.Date.Year())
}

func TestOtherKindsBySlug(t *testing.T) {
	t.Parallel()

	r := newResolver()
	ctx := context.Background()

	c, ok, err := r.CaseBySlug(ctx, "hotel")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "turismo", c.Industry)

	s, ok, err := r.ServiceBySlug(ctx, "seo")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "SEO", s.Title)

	_, ok, err = r.IndustryBySlug(ctx, "retalho")
	require.NoError(t, err)
	require.False(t, ok)

	item, ok, err := r.ItemBySlug(ctx, cms.KindIndustries, "saude")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Saúde", item.Title)
}

func TestRelatedCaseFilters(t *testing.T) {
	t.Parallel()

	r := newResolver()
	ctx := context.Background()

	byIndustry, err := r.CasesByIndustry(ctx, "saude")
	require.NoError(t, err)
	require.Len(t, byIndustry, 2)
	require.Equal(t, "clinica", byIndustry[0].Slug)
	require.Equal(t, "farmacia", byIndustry[1].Slug)

	byService, err := r.CasesByService(ctx, "seo")
	require.NoError(t, err)
	require.Len(t, byService, 2)
	require.Equal(t, "clinica", byService[0].Slug)
	require.Equal(t, "hotel", byService[1].Slug)

	none, err := r.CasesByService(ctx, "podcast")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestRecentPostsAndCategories(t *testing.T) {
	t.Parallel()

	r := newResolver()
	ctx := context.Background()

	recent, err := r.RecentPosts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, 2025, recent[0].Date.Year())
	require.Equal(t, 2024, recent[1].Date.Year())

	all, err := r.RecentPosts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)

	seo, err := r.PostsByCategory(ctx, "SEO")
	require.NoError(t, err)
	require.Len(t, seo, 2)
}
