// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package narration

import (
	"strings"
	"text/template"
)

var promptTemplate = template.Must(template.New("suggestion").Parse(`You are a personal travel assistant. Your goal is to provide a highly personalized and enthusiastic recommendation for places to visit.

Here is the user's profile:
- Preferences: {{.Preferences}}

Based on this profile, I have found a few places that I think you'll love:
{{.Places}}

Please provide a compelling and personalized recommendation for the user. Explain WHY these places are a good fit for their preferences. Be conversational and engaging.
Answer:
`))

type promptData struct {
	Preferences string
	Places      string
}

// RenderPrompt fills the suggestion prompt. An empty preference list is
// rendered as "none yet".
func RenderPrompt(preferencesText, placesText string) (string, error) {
	if strings.TrimSpace(preferencesText) == "" {
		preferencesText = "none yet"
	}
	var b strings.Builder
	if err := promptTemplate.Execute(&b, promptData{Preferences: preferencesText, Places: placesText}); err != nil {
		return "", err
	}
	return b.String(), nil
}
