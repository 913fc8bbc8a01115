package textutil

import (
	"strings"
	"testing"
)

func TestCleanLineLeavesSafeInput(t *testing.T) {
	input := "  x = 1 # 你好"
	if got := CleanLine(input, 4); got != input {
		t.Fatalf("expected %q to remain untouched, got %q", input, got)
	}
}

func TestCleanLineExpandsTabsByColumn(t *testing.T) {
	tests := []struct {
		in   string
		tab  int
		want string
	}{
		{"\tx", 4, "    x"},
		{"ab\tc", 4, "ab  c"},
		{"abcd\te", 4, "abcd    e"},
		{"你\tx", 4, "你  x"},
		{"a\tb", 0, "a   b"},
	}
	for _, tt := range tests {
		if got := CleanLine(tt.in, tt.tab); got != tt.want {
			t.Fatalf("CleanLine(%q, %d) = %q, want %q", tt.in, tt.tab, got, tt.want)
		}
	}
}

func TestCleanLineReplacesControlSequences(t *testing.T) {
	got := CleanLine("bad\x1b[31mline\x7f", 4)
	if got != "bad?[31mline?" {
		t.Fatalf("expected escape to be neutralised, got %q", got)
	}
}

func TestCleanLineLabelsFormattingRunes(t *testing.T) {
	input := "a" + string(rune(0x202E)) + "b" + string(rune(0x200B)) + "c"
	got := CleanLine(input, 4)
	if strings.ContainsRune(got, 0x202E) || strings.ContainsRune(got, 0x200B) {
		t.Fatalf("formatting runes left in output: %q", got)
	}
	if got != "a⟪RLO⟫b⟪ZWSP⟫c" {
		t.Fatalf("unexpected labels: %q", got)
	}
}

func TestSanitizeNameCollapsesTabs(t *testing.T) {
	if got := SanitizeName("run\t01.star"); got != "run 01.star" {
		t.Fatalf("SanitizeName = %q", got)
	}
}

func TestDisplayWidth(t *testing.T) {
	if got := DisplayWidth("abc"); got != 3 {
		t.Fatalf("expected ASCII width 3, got %d", got)
	}
	if got := DisplayWidth("你好"); got != 4 {
		t.Fatalf("expected wide rune width 4, got %d", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits", "file.txt", 20, "file.txt"},
		{"ellipsis", "verylongname", 6, "veryl…"},
		{"only ellipsis", "example", 1, "…"},
		{"wide runes", "你好世界", 5, "你好…"},
		{"zero width", "anything", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.text, tt.width); got != tt.want {
				t.Fatalf("Truncate(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestTruncateLeftKeepsTail(t *testing.T) {
	if got := TruncateLeft("/data/run1/particles.star", 15); got != "…particles.star" {
		t.Fatalf("TruncateLeft = %q", got)
	}
	if got := TruncateLeft("short", 10); got != "short" {
		t.Fatalf("TruncateLeft = %q", got)
	}
}
