// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package location

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfinder/internal/recommend"
)

// nearbyResponse is the body of a nearby search.
type nearbyResponse struct {
	Data []wirePlace `json:"data"`
}

// wirePlace is a place as the upstream API encodes it. Search results carry
// a subset of the fields a details lookup returns.
type wirePlace struct {
	LocationID flexString  `json:"location_id"`
	Name       string      `json:"name"`
	Distance   flexString  `json:"distance"`
	Rating     flexFloat   `json:"rating"`
	NumReviews flexFloat   `json:"num_reviews"`
	PriceLevel string      `json:"price_level"`
	Category   namedValue  `json:"category"`
	Cuisine    namedValues `json:"cuisine"`
	AddressObj struct {
		AddressString string `json:"address_string"`
	} `json:"address_obj"`
	WebURL string `json:"web_url"`
}

// toPlace converts the wire form into a normalized place.
func (w *wirePlace) toPlace() recommend.Place {
	cuisine := make([]string, 0, len(w.Cuisine))
	seen := make(map[string]struct{}, len(w.Cuisine))
	for _, c := range w.Cuisine {
		name := recommend.NormalizeAttribute(c)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		cuisine = append(cuisine, name)
	}

	return recommend.Place{
		LocationID: string(w.LocationID),
		Name:       strings.TrimSpace(w.Name),
		Category:   recommend.NormalizeAttribute(string(w.Category)),
		Cuisine:    cuisine,
		Distance:   string(w.Distance),
		Rating:     float64(w.Rating),
		NumReviews: int(w.NumReviews),
		PriceLevel: w.PriceLevel,
		Address:    w.AddressObj.AddressString,
		WebURL:     w.WebURL,
	}
}

// mergeDetails fills summary fields from a details lookup. Distance stays
// from the search because it is relative to the searched coordinate.
func mergeDetails(summary, details recommend.Place) recommend.Place {
	merged := details
	if merged.LocationID == "" {
		merged.LocationID = summary.LocationID
	}
	if merged.Name == "" {
		merged.Name = summary.Name
	}
	if merged.Category == "" {
		merged.Category = summary.Category
	}
	if len(merged.Cuisine) == 0 {
		merged.Cuisine = summary.Cuisine
	}
	if summary.Distance != "" {
		merged.Distance = summary.Distance
	}
	if merged.Rating == 0 {
		merged.Rating = summary.Rating
	}
	if merged.NumReviews == 0 {
		merged.NumReviews = summary.NumReviews
	}
	if merged.Address == "" {
		merged.Address = summary.Address
	}
	return merged
}

// namedValue accepts "x" or {"name": "x"}.
type namedValue string

func (n *namedValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = namedValue(s)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("category: %w", err)
	}
	*n = namedValue(obj.Name)
	return nil
}

// namedValues accepts ["x", ...] or [{"name": "x"}, ...], or a single value.
type namedValues []string

func (n *namedValues) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = nil
		return nil
	}
	if data[0] != '[' {
		var one namedValue
		if err := one.UnmarshalJSON(data); err != nil {
			return err
		}
		*n = namedValues{string(one)}
		return nil
	}
	var items []namedValue
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("cuisine: %w", err)
	}
	out := make(namedValues, 0, len(items))
	for _, item := range items {
		out = append(out, string(item))
	}
	*n = out
	return nil
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	*f = flexString(data)
	return nil
}

// flexFloat accepts a JSON number or a numeric string. Unparseable strings
// decode as 0.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}
