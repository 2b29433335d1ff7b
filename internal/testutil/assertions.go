package testutil

import (
	"regexp"
	"strings"
	"testing"
)

// AssertNoneMatch fails if any value contains a match for pattern.
func AssertNoneMatch(t *testing.T, what string, pattern string, values []string) {
	t.Helper()
	re := regexp.MustCompile(pattern)

	var failures []string
	for _, v := range values {
		if re.MatchString(v) {
			failures = append(failures, v)
		}
	}
	if len(failures) > 0 {
		t.Errorf("%s has values matching %q:\n   - %s", what, pattern, strings.Join(failures, "\n   - "))
	}
}
