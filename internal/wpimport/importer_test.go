package wpimport

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/nexo-digital/site/internal/cms"
)

const export = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"
	xmlns:excerpt="http://wordpress.org/export/1.2/excerpt/"
	xmlns:content="http://purl.org/rss/1.0/modules/content/"
	xmlns:dc="http://purl.org/dc/elements/1.1/"
	xmlns:wp="http://wordpress.org/export/1.2/">
<channel>
	<title>Nexo Blog</title>
	<item>
		<title>Guia de SEO Local</title>
		<dc:creator><![CDATA[ana]]></dc:creator>
		<content:encoded><![CDATA[<h2>Porque importa</h2><p>O <strong>SEO local</strong> traz <a href="https://nexo.pt">clientes</a>.</p><script>track()</script><ul><li>Google</li><li>Mapas</li></ul>]]></content:encoded>
		<excerpt:encoded><![CDATA[Resumo do guia.]]></excerpt:encoded>
		<wp:post_id>10</wp:post_id>
		<wp:post_date><![CDATA[2021-03-04 10:00:00]]></wp:post_date>
		<wp:post_name><![CDATA[guia-de-seo-local]]></wp:post_name>
		<wp:status><![CDATA[publish]]></wp:status>
		<wp:post_type><![CDATA[post]]></wp:post_type>
		<category domain="category" nicename="seo"><![CDATA[SEO]]></category>
		<category domain="post_tag" nicename="local"><![CDATA[Local]]></category>
	</item>
	<item>
		<title>Rascunho</title>
		<wp:post_id>11</wp:post_id>
		<wp:status>draft</wp:status>
		<wp:post_type>post</wp:post_type>
	</item>
	<item>
		<title>Página Sobre</title>
		<wp:post_id>12</wp:post_id>
		<wp:status>publish</wp:status>
		<wp:post_type>page</wp:post_type>
	</item>
	<item>
		<title>Marketing em Évora</title>
		<content:encoded><![CDATA[Primeiro parágrafo.

Segundo parágrafo.]]></content:encoded>
		<wp:post_id>13</wp:post_id>
		<wp:post_date>2020-01-02 08:00:00</wp:post_date>
		<wp:status>publish</wp:status>
		<wp:post_type>post</wp:post_type>
	</item>
	<item>
		<title>Data inválida</title>
		<wp:post_id>14</wp:post_id>
		<wp:post_date>ontem</wp:post_date>
		<wp:status>publish</wp:status>
		<wp:post_type>post</wp:post_type>
	</item>
</channel>
</rss>`

func newImporter(t *testing.T, dir string, opts ...Option) (*Importer, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	opts = append([]Option{WithLogger(zap.New(core)), WithIDGenerator(func() string { return "run-1" })}, opts...)
	return New(dir, opts...), logs
}

func TestRunWritesPublishedPosts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	imp, logs := newImporter(t, dir)

	summary, err := imp.Run(context.Background(), strings.NewReader(export))
	require.NoError(t, err)
	require.Equal(t, Summary{RunID: "run-1", Created: 2, Errored: 1, Ignored: 2}, summary)
	require.Equal(t, 1, logs.FilterMessage("convert post failed").Len())

	store := cms.NewStore(dir)
	posts, err := store.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)

	guide := posts[0]
	require.Equal(t, "guia-de-seo-local", guide.Slug)
	require.Equal(t, "Guia de SEO Local", guide.Title)
	require.Equal(t, "ana", guide.Author)
	require.Equal(t, []string{"SEO"}, guide.Categories)
	require.Equal(t, []string{"Local"}, guide.Tags)
	require.Equal(t, "Resumo do guia.", guide.Description)
	require.Equal(t, time.Date(2021, time.March, 4, 0, 0, 0, 0, time.UTC), guide.Date)
	require.Contains(t, guide.Body, "## Porque importa")
	require.Contains(t, guide.Body, "O **SEO local** traz [clientes](https://nexo.pt).")
	require.Contains(t, guide.Body, "- Google\n- Mapas")
	require.NotContains(t, guide.Body, "track()")

	evora := posts[1]
	require.Equal(t, "marketing-em-evora", evora.Slug)
	require.Equal(t, "Primeiro parágrafo. Segundo parágrafo.", evora.Description)
	require.Contains(t, evora.Body, "Primeiro parágrafo.\n\nSegundo parágrafo.")
}

func TestRunNeverOverwrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := filepath.Join(dir, "posts", "guia-de-seo-local.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0o755))
	require.NoError(t, os.WriteFile(existing, []byte("---\ntitle: Editado à mão\n---\n"), 0o644))

	imp, _ := newImporter(t, dir)
	summary, err := imp.Run(context.Background(), strings.NewReader(export))
	require.NoError(t, err)
	require.Equal(t, 1, summary.Created)
	require.Equal(t, 1, summary.Skipped)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	require.Contains(t, string(data), "Editado à mão")
}

func TestRunDryRunWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	imp, _ := newImporter(t, dir, WithDryRun(true))
	summary, err := imp.Run(context.Background(), strings.NewReader(export))
	require.NoError(t, err)
	require.Equal(t, 2, summary.Created)

	_, err = os.Stat(filepath.Join(dir, "posts"))
	require.True(t, os.IsNotExist(err))
}

func TestRunFailsOnUndecodableExport(t *testing.T) {
	t.Parallel()

	imp, _ := newImporter(t, t.TempDir())
	_, err := imp.Run(context.Background(), strings.NewReader("<rss><channel><item>"))
	require.ErrorContains(t, err, "wpimport: decode export")
}

func TestRunDefaultsToULIDRunID(t *testing.T) {
	t.Parallel()

	summary, err := New(t.TempDir(), WithDryRun(true)).Run(context.Background(), strings.NewReader(export))
	require.NoError(t, err)
	require.Len(t, summary.RunID, 26)
}

func TestRenderFrontMatter(t *testing.T) {
	t.Parallel()

	data, err := Render(Post{
		Title:       "Olá: mundo",
		Slug:        "ola-mundo",
		Date:        time.Date(2022, time.July, 1, 0, 0, 0, 0, time.UTC),
		Description: "Curta.",
		Body:        "Corpo\n",
	})
	require.NoError(t, err)

	fm, body := cms.SplitFrontMatter(string(data))
	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(fm), &decoded))
	require.Equal(t, "Olá: mundo", decoded["title"])
	require.Equal(t, "2022-07-01", decoded["date"])
	require.NotContains(t, decoded, "author")
	require.Equal(t, "Corpo\n", strings.TrimLeft(body, "\n"))
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	require.Equal(t, "marketing-digital-em-evora", Slugify("Marketing Digital em Évora!"))
	require.Equal(t, "cafe-e-acucar", Slugify("café-e-açúcar"))
	require.Equal(t, "ola-mundo", Slugify("ol%C3%A1-mundo"))
	require.Empty(t, Slugify("!!!"))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("palavra ", 40)
	got := truncate(strings.TrimSpace(long), DescriptionLength)
	require.LessOrEqual(t, len([]rune(got)), DescriptionLength)
	require.False(t, strings.HasSuffix(got, " "))
}

func TestCreateExclusiveRemovesPartialFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "post.md")
	errDisk := errors.New("disk full")
	err := createExclusive(path, io.MultiReader(strings.NewReader("---\ntitle: Meio"), iotest.ErrReader(errDisk)))
	require.ErrorIs(t, err, errDisk)
	_, statErr := os.Stat(path)
	require.ErrorIs(t, statErr, os.ErrNotExist)

	require.NoError(t, createExclusive(path, strings.NewReader("---\ntitle: Inteiro\n---\n")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "---\ntitle: Inteiro\n---\n", string(data))

	require.ErrorIs(t, createExclusive(path, strings.NewReader("x")), os.ErrExist)
}
