package utilfn

import (
	"testing"
)

func TestDedent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"single", "  hi", "hi"},
		{"no-margin", "# Title\n  indented", "# Title\n  indented"},
		{"relative", "    a\n      b\n    c", "a\n  b\nc"},
		{"blank-line", "  a\n\n  b", "a\n\nb"},
		{"whitespace-line", "  a\n     \n  b", "a\n\nb"},
		{"blank-line-shallower", "    a\n  \n    b", "a\n\nb"},
		{"tabs", "\ta\n\t\tb", "a\n\tb"},
		{"mixed-tabs-spaces", "\ta\n    b", "\ta\n    b"},
		{"partial-prefix", "  \ta\n  b", "\ta\nb"},
		{"trailing-newline", "  a\n  b\n", "a\nb\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Dedent(tc.in)
			if got != tc.want {
				t.Errorf("Dedent(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestWriteFileIfDifferent(t *testing.T) {
	fileName := t.TempDir() + "/out.json"
	written, err := WriteFileIfDifferent(fileName, []byte("{}"))
	if err != nil || !written {
		t.Fatalf("first write: written=%v err=%v", written, err)
	}
	written, err = WriteFileIfDifferent(fileName, []byte("{}"))
	if err != nil || written {
		t.Fatalf("same contents: written=%v err=%v", written, err)
	}
}
