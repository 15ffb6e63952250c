package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexo-digital/site/internal/testutil"
)

const article = `# Guia

Texto com **negrito** e um [link](https://example.com).

## Como funciona o SEO local

| Métrica | Valor |
| ------- | ----- |
| CTR     | 4%    |

### Passo a passo

- [x] feito

<script>alert("x")</script>
`

func TestRenderGFMWithHeadingIDs(t *testing.T) {
	t.Parallel()

	out, err := Render(article)
	require.NoError(t, err)

	doc := testutil.ParseHTML(t, []byte(out))
	require.Equal(t, 1, doc.Find("h2#como-funciona-o-seo-local").Length())
	require.Equal(t, 1, doc.Find("h3#passo-a-passo").Length())
	require.Equal(t, 1, doc.Find("table td").First().Length())
	require.Equal(t, "negrito", doc.Find("strong").Text())
	require.Zero(t, doc.Find("script").Length())

	rel, _ := doc.Find("a[href='https://example.com']").Attr("rel")
	require.Contains(t, rel, "nofollow")
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	out, err := Render("  \n")
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestPlainTextAndSummary(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Olá mundo & companhia", PlainText("# Olá\n\n*mundo* & companhia"))

	sum := Summary("Uma frase bastante longa para cortar", 20)
	require.Equal(t, "Uma frase bastante", sum)
	require.Equal(t, "curta", Summary("curta", 20))
}

func TestReadingTime(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, ReadingTime(""))
	require.Equal(t, 1, ReadingTime("poucas palavras"))
	require.Equal(t, 2, ReadingTime(strings.Repeat("palavra ", WordsPerMinute+1)))
}

func TestHeadings(t *testing.T) {
	t.Parallel()

	require.Equal(t, []Heading{
		{Level: 2, ID: "como-funciona-o-seo-local", Text: "Como funciona o SEO local"},
		{Level: 3, ID: "passo-a-passo", Text: "Passo a passo"},
	}, Headings(article))
}
