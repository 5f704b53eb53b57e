// Package test holds small assertion helpers shared by every package's
// _test.go files. It is adapted from esbuild's internal/test: the teacher
// hand-rolled a line-diff algorithm (diff.go) to stay dependency-free for
// its Go-1.13 compatibility promise; that constraint does not apply here,
// so structural diffing is done with github.com/google/go-cmp instead (see
// SPEC_FULL.md section B.3).
package test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/c17core/c17core/internal/logger"
)

func AssertEqual(t *testing.T, a interface{}, b interface{}) {
	t.Helper()
	if a != b {
		t.Fatalf("%v != %v", a, b)
	}
}

// RequireNoDiff fails the test and prints a structural diff if want and got
// are not deeply equal. Used by cc_init's idempotence test to compare two
// elaborated static images (spec.md section 8.1's "initializer elaboration
// idempotence" property is exactly this comparison).
func RequireNoDiff(t *testing.T, want interface{}, got interface{}, opts ...cmp.Option) {
	t.Helper()
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func SourceForTest(contents string) logger.Source {
	return logger.Source{
		Index:      0,
		PrettyPath: "<test>",
		Contents:   contents,
	}
}
