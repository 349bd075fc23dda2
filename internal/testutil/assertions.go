package testutil

import (
	"strings"
	"testing"
)

// RequireNoError fails the test immediately if err is non-nil.
func RequireNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}

// RequireEqual fails the test immediately if want != got.
func RequireEqual[T comparable](t *testing.T, want, got T, msg string) {
	t.Helper()
	if want != got {
		t.Fatalf("%s: want %v, got %v", msg, want, got)
	}
}

// RequireLen fails if len(s) != n, printing the slice so split results are
// easy to read.
func RequireLen[T ~[]E, E any](t *testing.T, s T, n int, msg string) {
	t.Helper()
	if len(s) != n {
		t.Fatalf("%s: want len=%d, got %d: %q", msg, n, len(s), any(s))
	}
}

// RequireContains fails unless every want appears in s. Rendered messages
// mix glyphs, labels and rule names, so tests check the pieces.
func RequireContains(t *testing.T, s string, msg string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(s, w) {
			t.Fatalf("%s: %q not found in %q", msg, w, s)
		}
	}
}
