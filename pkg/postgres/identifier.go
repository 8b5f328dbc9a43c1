// Package postgres holds small, dependency-free helpers for rendering
// PostgreSQL identifiers — shared by txtree's generated savepoint
// statements and pgwire's generated DEALLOCATE statements, so there's one
// quoting rule instead of two copies that could drift apart.
package postgres

import "strings"

// QuoteIdentifier double-quotes identifier, doubling any embedded double
// quote, so it's always safe to splice into a generated SQL statement
// regardless of case or special characters.
func QuoteIdentifier(identifier string) string {
	if identifier == "" {
		return `""`
	}
	escaped := strings.ReplaceAll(identifier, `"`, `""`)
	return `"` + escaped + `"`
}

// QuoteQualifiedName renders "schema"."table".
func QuoteQualifiedName(schema, table string) string {
	return QuoteIdentifier(schema) + "." + QuoteIdentifier(table)
}
