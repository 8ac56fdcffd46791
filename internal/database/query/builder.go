// Wayfinder - Personalized Place Suggestions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfinder

// Package query provides SQL fragment builders for the database package.
// Every value is bound as a placeholder argument; column names are the
// only text spliced into the statement and must be constants chosen by
// the caller.
package query

import (
	"fmt"
	"strings"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddEquals("user_id", userID).AddEquals("id", id)
//	whereClause, args := wb.Build()
//	// user_id = ? AND id = ?
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw WHERE clause with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEquals adds "column = ?".
func (wb *WhereBuilder) AddEquals(column string, value interface{}) *WhereBuilder {
	return wb.AddClause(column+" = ?", value)
}

// AddIn adds "column IN (?, ...)". An empty values slice is skipped.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		wb.args = append(wb.args, v)
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
	return wb
}

// Build joins the clauses with AND. Returns ("1=1", []) if no clauses were added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// SetBuilder constructs the SET list of a partial UPDATE.
//
//	sb := query.NewSetBuilder()
//	sb.SetIf(name != "", "preference_name", name).Set("updated_at", now)
//	setClause, args := sb.Build()
//	// preference_name = ?, updated_at = ?
type SetBuilder struct {
	columns []string
	args    []interface{}
}

// NewSetBuilder creates an empty SetBuilder.
func NewSetBuilder() *SetBuilder {
	return &SetBuilder{}
}

// Set assigns value to column.
func (sb *SetBuilder) Set(column string, value interface{}) *SetBuilder {
	sb.columns = append(sb.columns, column+" = ?")
	sb.args = append(sb.args, value)
	return sb
}

// SetIf assigns value to column only when cond is true.
func (sb *SetBuilder) SetIf(cond bool, column string, value interface{}) *SetBuilder {
	if !cond {
		return sb
	}
	return sb.Set(column, value)
}

// Build returns the comma separated assignments and their arguments.
func (sb *SetBuilder) Build() (string, []interface{}) {
	return strings.Join(sb.columns, ", "), sb.args
}

// IsEmpty reports whether no assignment was added.
func (sb *SetBuilder) IsEmpty() bool {
	return len(sb.columns) == 0
}
