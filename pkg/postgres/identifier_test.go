package postgres_test

import (
	"testing"

	"github.com/lattice-db/pgwire/pkg/postgres"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple identifier", "public", `"public"`},
		{"identifier with underscore", "pgwire_table", `"pgwire_table"`},
		{"identifier with quotes", `schema"name`, `"schema""name"`},
		{"empty string", "", `""`},
		{"mixed case", "PublicSchema", `"PublicSchema"`},
		{"with spaces", "schema name", `"schema name"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := postgres.QuoteIdentifier(tt.input); got != tt.expected {
				t.Errorf("QuoteIdentifier(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestQuoteQualifiedName(t *testing.T) {
	tests := []struct {
		name             string
		schema, table    string
		expected         string
	}{
		{"simple qualified name", "public", "pgwire_table", `"public"."pgwire_table"`},
		{"with quotes in names", `schema"name`, `table"name`, `"schema""name"."table""name"`},
		{"mixed case", "PublicSchema", "SomeTable", `"PublicSchema"."SomeTable"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := postgres.QuoteQualifiedName(tt.schema, tt.table); got != tt.expected {
				t.Errorf("QuoteQualifiedName(%q, %q) = %q, want %q", tt.schema, tt.table, got, tt.expected)
			}
		})
	}
}
