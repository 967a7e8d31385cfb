package metadata

import (
	"strings"
	"testing"
)

func assertList(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("list = %#v, want %#v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("list[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCoerceListCommaSeparated(t *testing.T) {
	assertList(t, CoerceList("a, b, ,c"), []string{"a", "b", "c"})
}

func TestCoerceListJSONArrayString(t *testing.T) {
	assertList(t, CoerceList(`["x","y"]`), []string{"x", "y"})
}

func TestCoerceListNil(t *testing.T) {
	if got := CoerceList(nil); len(got) != 0 {
		t.Fatalf("CoerceList(nil) = %#v, want empty", got)
	}
}

func TestCoerceListRealSlices(t *testing.T) {
	assertList(t, CoerceList([]string{" a ", "", "b"}), []string{"a", "b"})
	assertList(t, CoerceList([]any{"x", "  ", "y", float64(7)}), []string{"x", "y", "7"})
}

func TestCoerceListMalformedJSONFallsThroughToCommas(t *testing.T) {
	// delimited but not valid JSON: the parse failure is silent and the raw
	// string is comma-split instead
	got := CoerceList(`["a", ]`)
	assertList(t, got, []string{`["a"`, `]`})
}

func TestCoerceListNonDelimitedStringNeverParsed(t *testing.T) {
	assertList(t, CoerceList("plain, text"), []string{"plain", "text"})
}

func TestCoerceListIdempotent(t *testing.T) {
	inputs := []any{
		"a, b, ,c",
		`["x","y"]`,
		[]string{"one", " two "},
	}
	for _, in := range inputs {
		first := CoerceList(in)
		second := CoerceList(strings.Join(first, ", "))
		assertList(t, second, first)
	}
}
