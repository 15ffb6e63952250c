package format

import (
	"fmt"
	"strings"
	"time"
)

var ptMonths = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// FmtDate formats time in a locale-friendly long form.
// Example: FmtDate(t, "pt") => "4 de março de 2021"
func FmtDate(t time.Time, lang string) string {
	if t.IsZero() {
		return ""
	}
	switch strings.ToLower(lang) {
	case "pt", "pt-pt", "pt-br":
		return fmt.Sprintf("%d de %s de %d", t.Day(), ptMonths[t.Month()-1], t.Year())
	case "iso":
		return t.Format("2006-01-02")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// ReadingTime renders a minutes estimate, e.g. "5 min de leitura".
func ReadingTime(minutes int) string {
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min de leitura", minutes)
}
