package tools

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{
		"gerador-link-whatsapp",
		"gerador-qr-code",
		"gerador-utm",
		"gerador-link-email",
	}, Slugs())

	tool, ok := BySlug("gerador-qr-code")
	require.True(t, ok)
	require.True(t, tool.ClientSide)
	require.Equal(t, "/ferramentas/gerador-qr-code", tool.Path())

	_, ok = BySlug("gerador-senhas")
	require.False(t, ok)

	all := All()
	all[0].Slug = "mutated"
	require.Equal(t, "gerador-link-whatsapp", Slugs()[0])
}

func TestWhatsAppLink(t *testing.T) {
	t.Parallel()

	link, err := WhatsAppLink("+351 912 345 678", "Olá, quero um orçamento")
	require.NoError(t, err)
	require.Equal(t, "https://wa.me/351912345678?text=Ol%C3%A1%2C+quero+um+or%C3%A7amento", link)

	link, err = WhatsAppLink("351912345678", "  ")
	require.NoError(t, err)
	require.Equal(t, "https://wa.me/351912345678", link)

	_, err = WhatsAppLink("12-34", "")
	require.ErrorIs(t, err, ErrInvalidPhone)
}

func TestUTMURL(t *testing.T) {
	t.Parallel()

	got, err := UTMURL("https://example.pt/landing?ref=x&utm_source=old", UTMParams{
		Source:   "newsletter",
		Medium:   "email",
		Campaign: "outono 2026",
	})
	require.NoError(t, err)
	require.Equal(t, "https://example.pt/landing?ref=x&utm_campaign=outono+2026&utm_medium=email&utm_source=newsletter", got)

	_, err = UTMURL("/relative", UTMParams{Source: "a", Medium: "b", Campaign: "c"})
	require.ErrorIs(t, err, ErrInvalidURL)

	_, err = UTMURL("https://example.pt", UTMParams{Source: "a", Campaign: "c"})
	require.ErrorIs(t, err, ErrMissingParam)
	require.ErrorContains(t, err, "utm_medium")
}

func TestEmailLink(t *testing.T) {
	t.Parallel()

	got, err := EmailLink("geral@example.pt", "Pedido de proposta", "")
	require.NoError(t, err)
	require.Equal(t, "mailto:geral@example.pt?subject=Pedido%20de%20proposta", got)

	_, err = EmailLink("not-an-email", "", "")
	require.ErrorIs(t, err, ErrInvalidEmail)
}
