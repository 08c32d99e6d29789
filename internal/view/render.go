package view

import (
	"fmt"
	"strings"

	"repodeck/internal/domain"
)

// Likes formats a like counter the way every front end shows it.
func Likes(n int) string {
	if n == 1 {
		return "1 like"
	}
	return fmt.Sprintf("%d likes", n)
}

// Techs joins tags for display.
func Techs(techs []string) string {
	return strings.Join(techs, ", ")
}

// Card renders one repository as a short text block.
func Card(r domain.Repository) string {
	var b strings.Builder
	b.WriteString(r.Title)
	if r.URL != "" {
		b.WriteString("\n")
		b.WriteString(r.URL)
	}
	if len(r.Techs) > 0 {
		b.WriteString("\n[")
		b.WriteString(Techs(r.Techs))
		b.WriteString("]")
	}
	b.WriteString("\n")
	b.WriteString(Likes(r.Likes))
	return b.String()
}

// DraftSummary renders the form fields.
func DraftSummary(d domain.Draft) string {
	return fmt.Sprintf("Title: %s\nUrl: %s\nTechs: %s", d.Title, d.URL, d.Techs)
}
