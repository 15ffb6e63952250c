package seodata

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestListsKeepFileOrderAndDropBlankSlugs(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		LocationsFile: {Data: []byte(`{"locations":[
			{"slug":"porto","name":"Porto","region":"Norte"},
			{"slug":"","name":"Sem slug"},
			{"slug":"lisboa","name":"Lisboa","keywords":["agência lisboa"]}
		]}`)},
		ServicesFile:   {Data: []byte(`{"services":[{"slug":"seo","name":"Otimização SEO","shortName":"SEO"},{"slug":"web-design","name":"Web Design"}]}`)},
		IndustriesFile: {Data: []byte(`{"industries":[{"slug":"saude","name":"Saúde","painPoints":["confiança"]}]}`)},
	}
	store := NewStoreFS(fsys)
	ctx := context.Background()

	locations, err := store.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	require.Equal(t, "porto", locations[0].Slug)
	require.Equal(t, "lisboa", locations[1].Slug)
	require.Equal(t, []string{"agência lisboa"}, locations[1].Keywords)

	services, err := store.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, services, 2)
	require.Equal(t, "SEO", services[0].Label())
	require.Equal(t, "Web Design", services[1].Label())

	industries, err := store.ListIndustries(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"confiança"}, industries[0].PainPoints)
}

func TestMissingFilesYieldEmptyLists(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	ctx := context.Background()

	locations, err := store.ListLocations(ctx)
	require.NoError(t, err)
	require.NotNil(t, locations)
	require.Empty(t, locations)

	services, err := store.ListServices(ctx)
	require.NoError(t, err)
	require.Empty(t, services)

	industries, err := store.ListIndustries(ctx)
	require.NoError(t, err)
	require.Empty(t, industries)
}

func TestMalformedJSONIsAnError(t *testing.T) {
	t.Parallel()

	store := NewStoreFS(fstest.MapFS{LocationsFile: {Data: []byte(`{"locations": [`)}})
	_, err := store.ListLocations(context.Background())
	require.ErrorContains(t, err, "seodata: decode locations.json")
}

func TestBySlugLookups(t *testing.T) {
	t.Parallel()

	store := NewStoreFS(fstest.MapFS{
		LocationsFile:  {Data: []byte(`{"locations":[{"slug":"braga","name":"Braga"}]}`)},
		ServicesFile:   {Data: []byte(`{"services":[{"slug":"seo","name":"SEO"}]}`)},
		IndustriesFile: {Data: []byte(`{"industries":[{"slug":"turismo","name":"Turismo"}]}`)},
	})
	ctx := context.Background()

	loc, ok, err := store.LocationBySlug(ctx, "braga")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Braga", loc.Name)

	_, ok, err = store.LocationBySlug(ctx, "faro")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = store.ServiceBySlug(ctx, "seo")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = store.IndustryBySlug(ctx, "retalho")
	require.NoError(t, err)
	require.False(t, ok)
}
