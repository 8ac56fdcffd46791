// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}

	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type feedbackInput struct {
	UserID     string `json:"user_id" validate:"notblank,max=16"`
	LocationID string `json:"location_id" validate:"notblank"`
	Rating     int    `json:"rating" validate:"min=1,max=5"`
}

type coordinateInput struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
	Type      string  `json:"preference_type,omitempty" validate:"omitempty,oneof=cuisine category"`
}

func TestValidateStruct_Valid(t *testing.T) {
	if err := ValidateStruct(&feedbackInput{UserID: "u1", LocationID: "loc-1", Rating: 5}); err != nil {
		t.Errorf("ValidateStruct() = %v, want nil", err)
	}
	if err := ValidateStruct(&coordinateInput{Latitude: 40.7, Longitude: -74}); err != nil {
		t.Errorf("ValidateStruct() = %v, want nil", err)
	}
}

func TestValidateStruct_FieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{
			name:      "blank user id",
			input:     &feedbackInput{UserID: "   ", LocationID: "loc-1", Rating: 3},
			wantField: "user_id",
			wantTag:   "notblank",
			wantMsg:   "user_id is required",
		},
		{
			name:      "user id too long",
			input:     &feedbackInput{UserID: strings.Repeat("x", 17), LocationID: "loc-1", Rating: 3},
			wantField: "user_id",
			wantTag:   "max",
			wantMsg:   "user_id must be at most 16 characters",
		},
		{
			name:      "rating above scale",
			input:     &feedbackInput{UserID: "u1", LocationID: "loc-1", Rating: 6},
			wantField: "rating",
			wantTag:   "max",
			wantMsg:   "rating must be at most 5",
		},
		{
			name:      "rating below scale",
			input:     &feedbackInput{UserID: "u1", LocationID: "loc-1", Rating: 0},
			wantField: "rating",
			wantTag:   "min",
			wantMsg:   "rating must be at least 1",
		},
		{
			name:      "latitude out of range",
			input:     &coordinateInput{Latitude: 91, Longitude: 0},
			wantField: "latitude",
			wantTag:   "latitude",
			wantMsg:   "latitude must be a valid latitude (-90 to 90)",
		},
		{
			name:      "unknown preference type",
			input:     &coordinateInput{Type: "price"},
			wantField: "preference_type",
			wantTag:   "oneof",
			wantMsg:   "preference_type must be one of: cuisine category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
			if errs[0].Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	single := ValidateStruct(&feedbackInput{UserID: "u1", LocationID: "loc-1", Rating: 9}).ToAPIError()
	if single.Code != ErrorCode {
		t.Errorf("Code = %q, want %q", single.Code, ErrorCode)
	}
	if single.Details["field"] != "rating" {
		t.Errorf("Details[field] = %v, want rating", single.Details["field"])
	}

	multi := ValidateStruct(&feedbackInput{Rating: 0}).ToAPIError()
	fields, ok := multi.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Details[fields] has type %T", multi.Details["fields"])
	}
	if len(fields) != 3 {
		t.Errorf("expected 3 field errors, got %d", len(fields))
	}
	if !strings.Contains(multi.Message, "user_id is required") || !strings.Contains(multi.Message, "rating must be at least 1") {
		t.Errorf("Message = %q", multi.Message)
	}

	empty := (&RequestValidationError{}).ToAPIError()
	if empty.Message != "Validation failed" {
		t.Errorf("empty Message = %q", empty.Message)
	}
}
