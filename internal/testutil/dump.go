package testutil

import "github.com/davecgh/go-spew/spew"

// Dump renders v as a deeply-expanded, human-readable tree — for a test
// failure message where "%+v" would collapse a nested wire struct (a
// ResultSet full of Rows, or a txtree.Node with its Children) into
// something unreadable.
func Dump(v interface{}) string {
	return spew.Sdump(v)
}
