package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexo-digital/site/internal/sitemap"
	"github.com/nexo-digital/site/internal/testutil"
)

var fixture = map[string]string{
	"content/posts/primeiro.md":   "---\ntitle: Primeiro\ndate: 2025-02-01\n---\nCorpo.\n",
	"content/cases/loja.md":       "---\ntitle: Loja\nyear: 2023\n---\n",
	"content/services/seo.md":     "---\ntitle: SEO\n---\n",
	"content/industries/saude.md": "---\ntitle: Saúde\n---\n",
	"data/seo/services.json":      `{"services":[{"slug":"seo","name":"SEO"}]}`,
	"data/seo/locations.json":     `{"locations":[{"slug":"lisboa","name":"Lisboa"}]}`,
	"data/seo/industries.json":    `{"industries":[{"slug":"clinicas","name":"Clínicas"}]}`,
}

const wxr = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"
	xmlns:content="http://purl.org/rss/1.0/modules/content/"
	xmlns:wp="http://wordpress.org/export/1.2/">
<channel>
	<item>
		<title>Olá Mundo</title>
		<content:encoded><![CDATA[<p>Primeiro artigo.</p>]]></content:encoded>
		<wp:post_date>2019-05-06 09:00:00</wp:post_date>
		<wp:post_name>ola-mundo</wp:post_name>
		<wp:status>publish</wp:status>
		<wp:post_type>post</wp:post_type>
	</item>
</channel>
</rss>
`

func workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, files)
	return dir
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	base := []string{
		"--env-file", filepath.Join(dir, "missing.env"),
		"--content-dir", filepath.Join(dir, "content"),
		"--data-dir", filepath.Join(dir, "data", "seo"),
		"--base-url", "https://nexo.test",
	}
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, base...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestRoutesCommand(t *testing.T) {
	t.Parallel()
	dir := workspace(t, fixture)

	out, err := run(t, dir, "routes")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, "/", lines[0])
	require.Contains(t, lines, "/artigos/primeiro")
	require.Contains(t, lines, "/casos-de-estudo/loja")
	require.Contains(t, lines, "/seo/lisboa")
	require.Contains(t, lines, "/clinicas/seo")
	require.Contains(t, lines, "/ferramentas/gerador-qr-code")
}

func TestSitemapCommandWritesFile(t *testing.T) {
	t.Parallel()
	dir := workspace(t, fixture)
	target := filepath.Join(dir, "sitemap.xml")

	_, err := run(t, dir, "sitemap", "--out", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Contains(t, string(data), `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	require.Contains(t, string(data), "<loc>https://nexo.test/seo/lisboa</loc>")
}

func TestSitemapCommandJSON(t *testing.T) {
	t.Parallel()
	dir := workspace(t, fixture)

	out, err := run(t, dir, "sitemap", "--json")
	require.NoError(t, err)

	var entries []sitemap.RouteEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Equal(t, "https://nexo.test/", entries[0].URL)
	require.Equal(t, 1.0, entries[0].Priority)
}

func TestValidateCommand(t *testing.T) {
	t.Parallel()

	dir := workspace(t, fixture)
	_, err := run(t, dir, "validate")
	require.NoError(t, err)

	files := map[string]string{"content/posts/copia.md": "---\nslug: primeiro\ntitle: Cópia\n---\n"}
	for k, v := range fixture {
		files[k] = v
	}
	dir = workspace(t, files)
	out, err := run(t, dir, "validate")
	require.ErrorIs(t, err, errProblemsFound)
	require.Contains(t, out, "posts/primeiro: duplicate slug")
}

func TestValidateCommandReportsBrokenTaxonomy(t *testing.T) {
	t.Parallel()

	files := map[string]string{}
	for k, v := range fixture {
		files[k] = v
	}
	files["data/seo/locations.json"] = `{"locations": [`
	dir := workspace(t, files)

	out, err := run(t, dir, "validate")
	require.ErrorIs(t, err, errProblemsFound)
	require.Contains(t, out, "seodata: decode locations.json")
}

func TestImportWordPressCommand(t *testing.T) {
	t.Parallel()
	dir := workspace(t, fixture)
	export := filepath.Join(dir, "export.xml")
	require.NoError(t, os.WriteFile(export, []byte(wxr), 0o644))

	out, err := run(t, dir, "import-wordpress", "--file", export, "--dry-run")
	require.NoError(t, err)
	require.Equal(t, "created=1 skipped=0 errored=0 ignored=0\n", out)
	_, err = os.Stat(filepath.Join(dir, "content", "posts", "ola-mundo.md"))
	require.ErrorIs(t, err, os.ErrNotExist)

	out, err = run(t, dir, "import-wordpress", "--file", export)
	require.NoError(t, err)
	require.Equal(t, "created=1 skipped=0 errored=0 ignored=0\n", out)
	_, err = os.Stat(filepath.Join(dir, "content", "posts", "ola-mundo.md"))
	require.NoError(t, err)

	out, err = run(t, dir, "import-wordpress", "--file", export)
	require.NoError(t, err)
	require.Equal(t, "created=0 skipped=1 errored=0 ignored=0\n", out)

	_, err = run(t, dir, "import-wordpress")
	require.ErrorContains(t, err, `required flag(s) "file" not set`)
}
