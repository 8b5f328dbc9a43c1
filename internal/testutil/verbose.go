// Package testutil holds small test-only helpers shared across this
// module's package tests: verbose-mode gating and a human-readable value
// dump for test failure messages.
package testutil

import (
	"log"
	"os"
	"strings"
)

// TestLogger lets testutil call t.Logf without importing the testing
// package itself, so it stays usable from non-_test.go helper files too.
type TestLogger interface {
	Helper()
	Logf(format string, args ...interface{})
}

// IsVerbose reports whether tests are running with -test.v, or with
// GO_TEST_VERBOSE=1 set in the environment.
func IsVerbose() bool {
	for _, arg := range os.Args {
		if strings.Contains(arg, "test.v") {
			return true
		}
	}
	return os.Getenv("GO_TEST_VERBOSE") == "1"
}

// LogIfVerbose logs via the standard logger only when IsVerbose is true —
// for setup/teardown detail that would otherwise drown out -v output.
func LogIfVerbose(format string, args ...interface{}) {
	if IsVerbose() {
		log.Printf(format, args...)
	}
}

// LogIfVerboseWithTest behaves like LogIfVerbose and additionally calls
// t.Logf when t is non-nil, so the message lands in both the standard log
// and the test's own -v output.
func LogIfVerboseWithTest(t TestLogger, format string, args ...interface{}) {
	if !IsVerbose() {
		return
	}
	log.Printf(format, args...)
	if t != nil {
		t.Helper()
		t.Logf(format, args...)
	}
}
