// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

// Package recommend implements preference learning and content-based ranking
// of nearby places.
//
// # Model
//
// Each user owns a set of preference scores in [0, 1], keyed by attribute
// type and lower-cased attribute value (for example cuisine/italian or
// category/restaurant). Scores are created at 0.5 the first time feedback
// touches an attribute and move by a fixed learning rate per rating.
//
// # Components
//
//   - Ingestor: records a rating and nudges the cuisine scores of the rated place
//   - Ranker: excludes hard negatives and orders candidates by summed preference
//   - Orchestrator: fetches candidates, ranks them, and asks a Narrator to
//     phrase the top results
//
// Engine wires the three together from a single Config.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), recommend.Dependencies{
//	    Preferences: store,
//	    Feedback:    store,
//	    Places:      locationClient,
//	    Narrator:    narrator,
//	}, logger)
//
//	result, err := engine.SubmitFeedback(ctx, recommend.Feedback{UserID: "u1", LocationID: "123", Rating: 5})
//	suggestion, err := engine.Suggest(ctx, recommend.SuggestionRequest{UserID: "u1", Latitude: 41.9, Longitude: 12.5})
//
// # Thread Safety
//
// All components are safe for concurrent use. Serialization of concurrent
// read-modify-write adjustments on the same preference row is the
// responsibility of the PreferenceStore implementation.
package recommend
