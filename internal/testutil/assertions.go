package testutil

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

// AssertJSONEqual asserts that two JSON strings are semantically equal.
func AssertJSONEqual(t *testing.T, expected, actual string) {
	t.Helper()

	var expectedJSON, actualJSON interface{}

	if err := json.Unmarshal([]byte(expected), &expectedJSON); err != nil {
		t.Fatalf("failed to parse expected JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(actual), &actualJSON); err != nil {
		t.Fatalf("failed to parse actual JSON: %v", err)
	}

	if !reflect.DeepEqual(expectedJSON, actualJSON) {
		expectedPretty, _ := json.MarshalIndent(expectedJSON, "", "  ")
		actualPretty, _ := json.MarshalIndent(actualJSON, "", "  ")
		t.Errorf("JSON not equal:\nExpected:\n%s\n\nActual:\n%s", expectedPretty, actualPretty)
	}
}

// AssertInOrder asserts that every fragment occurs in s, each after the
// previous one.
func AssertInOrder(t *testing.T, s string, fragments ...string) {
	t.Helper()
	offset := 0
	for _, f := range fragments {
		i := strings.Index(s[offset:], f)
		if i < 0 {
			t.Errorf("fragment %q not found after offset %d", f, offset)
			return
		}
		offset += i + len(f)
	}
}
