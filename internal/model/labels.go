package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Label turns an enum wire value ("partial-shade") into a display label ("Partial Shade").
func Label[T ~string](v T) string {
	s := strings.ReplaceAll(strings.TrimSpace(string(v)), "-", " ")
	// Casers carry state, so each call gets its own.
	return cases.Title(language.English).String(s)
}
