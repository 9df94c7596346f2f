package sanitize

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFilenamePart(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ACME", "ACME"},
		{"울산 시청 (본관)", "울산시청본관"},
		{"../etc/passwd", "etcpasswd"},
		{"견적 건", "견적건"},
		{"\"quoted\";name", "quotedname"},
	}

	for _, tc := range cases {
		if got := FilenamePart(tc.in); got != tc.want {
			t.Fatalf("FilenamePart(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSheetName(t *testing.T) {
	if got := SheetName("2026/설치:공사", "견적서"); got != "2026설치공사" {
		t.Fatalf("unexpected sheet name %q", got)
	}
	if got := SheetName("  ", "견적서"); got != "견적서" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := SheetName(strings.Repeat("a", 30)+"'b", "견적서"); got != strings.Repeat("a", 30) {
		t.Fatalf("quote at the cut must be trimmed, got %q", got)
	}
	if got := SheetName("' '", "견적서"); got != "견적서" {
		t.Fatalf("expected fallback for quotes only, got %q", got)
	}
	long := strings.Repeat("가", 40)
	if got := SheetName(long, "견적서"); utf8.RuneCountInString(got) != 31 {
		t.Fatalf("expected 31 runes, got %d", utf8.RuneCountInString(got))
	}
}

func TestStripHTML(t *testing.T) {
	if got := StripHTML("<b>ACME</b> &lt;script&gt;x&lt;/script&gt;"); got != "ACME x" {
		t.Fatalf("unexpected %q", got)
	}
}
