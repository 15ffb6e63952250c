package programmatic

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/nexo-digital/site/internal/seodata"
)

func TestServiceLocationPairsIsTheFullProduct(t *testing.T) {
	t.Parallel()

	services := []seodata.Service{{Slug: "seo"}, {Slug: "web-design"}}
	locations := []seodata.Location{{Slug: "lisboa"}, {Slug: "porto"}, {Slug: "braga"}}

	pairs := ServiceLocationPairs(services, locations)
	require.Len(t, pairs, 6)
	require.Equal(t, []Pair{
		{"seo", "lisboa"}, {"seo", "porto"}, {"seo", "braga"},
		{"web-design", "lisboa"}, {"web-design", "porto"}, {"web-design", "braga"},
	}, pairs)

	seen := map[Pair]bool{}
	for _, p := range pairs {
		require.False(t, seen[p], "duplicate pair %v", p)
		seen[p] = true
	}
	require.Equal(t, "/seo/lisboa", pairs[0].Path())
}

func TestPairsEmptyWhenEitherSideEmpty(t *testing.T) {
	t.Parallel()

	require.Empty(t, ServiceLocationPairs(nil, []seodata.Location{{Slug: "lisboa"}}))
	require.Empty(t, ServiceLocationPairs([]seodata.Service{{Slug: "seo"}}, nil))
	require.Empty(t, IndustrySolutionPairs(nil, []seodata.Service{{Slug: "seo"}}))
	require.NotNil(t, IndustrySolutionPairs(nil, nil))
}

func TestIndustrySolutionPairsOrder(t *testing.T) {
	t.Parallel()

	pairs := IndustrySolutionPairs(
		[]seodata.Industry{{Slug: "saude"}, {Slug: "turismo"}},
		[]seodata.Service{{Slug: "seo"}, {Slug: "branding"}},
	)
	require.Equal(t, []Pair{{"saude", "seo"}, {"saude", "branding"}, {"turismo", "seo"}, {"turismo", "branding"}}, pairs)
}

func newGenerator() *Generator {
	return NewGenerator(seodata.NewStoreFS(fstest.MapFS{
		seodata.LocationsFile:  {Data: []byte(`{"locations":[{"slug":"lisboa","name":"Lisboa"},{"slug":"porto","name":"Porto"}]}`)},
		seodata.ServicesFile:   {Data: []byte(`{"services":[{"slug":"seo","name":"SEO"},{"slug":"saude","name":"Marketing para Saúde"}]}`)},
		seodata.IndustriesFile: {Data: []byte(`{"industries":[{"slug":"saude","name":"Saúde"}]}`)},
	}))
}

func TestGeneratorLoadsFromStore(t *testing.T) {
	t.Parallel()

	g := newGenerator()
	ctx := context.Background()

	pairs, err := g.ServiceLocationPairs(ctx)
	require.NoError(t, err)
	require.Len(t, pairs, 4)

	solutions, err := g.IndustrySolutionPairs(ctx)
	require.NoError(t, err)
	require.Equal(t, []Pair{{"saude", "seo"}, {"saude", "saude"}}, solutions)
}

func TestResolveClassifiesPaths(t *testing.T) {
	t.Parallel()

	g := newGenerator()
	ctx := context.Background()

	page, err := g.Resolve(ctx, "seo", "porto")
	require.NoError(t, err)
	require.Equal(t, PageServiceLocation, page.Kind)
	require.Equal(t, "Porto", page.Location.Name)

	page, err = g.Resolve(ctx, "saude", "seo")
	require.NoError(t, err)
	require.Equal(t, PageIndustrySolution, page.Kind)
	require.Equal(t, "Saúde", page.Industry.Name)
	require.Equal(t, "SEO", page.Service.Name)

	// "saude" is both a service and an industry; a location match takes precedence.
	page, err = g.Resolve(ctx, "saude", "lisboa")
	require.NoError(t, err)
	require.Equal(t, PageServiceLocation, page.Kind)

	page, err = g.Resolve(ctx, "seo", "faro")
	require.NoError(t, err)
	require.Equal(t, PageNone, page.Kind)
}
