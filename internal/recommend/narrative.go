// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package recommend

import (
	"strconv"
	"strings"
)

const unknownValue = "unknown"

// FormatPreferences flattens preferences into "name (type)" pairs joined by ", ".
//
//nolint:gocritic // rangeValCopy: Preference passed by value for clarity
func FormatPreferences(prefs []Preference) string {
	parts := make([]string, 0, len(prefs))
	for _, p := range prefs {
		parts = append(parts, p.Name+" ("+p.Type+")")
	}
	return strings.Join(parts, ", ")
}

// FormatPlaces renders places as the bullet list handed to the narrator:
//
//	- Name: Trattoria Roma
//	  Distance: 0.4
//	  Rating: 4.5
//	  Cuisine: italian, pizza
//
// Each entry is followed by a blank line.
//
//nolint:gocritic // rangeValCopy: ScoredPlace passed by value for clarity
func FormatPlaces(places []ScoredPlace) string {
	var b strings.Builder
	for _, p := range places {
		b.WriteString("- Name: ")
		b.WriteString(p.Name)
		b.WriteString("\n  Distance: ")
		b.WriteString(orUnknown(p.Distance))
		b.WriteString("\n  Rating: ")
		b.WriteString(formatRating(p.Rating))
		b.WriteString("\n  Cuisine: ")
		b.WriteString(strings.Join(p.Cuisine, ", "))
		b.WriteString("\n\n")
	}
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return unknownValue
	}
	return s
}

func formatRating(r float64) string {
	if r <= 0 {
		return unknownValue
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
