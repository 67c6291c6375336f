package formatter

import (
	"strings"
	"testing"
)

func TestPadBoth(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"###  x  ", 11, "####  x  ##"},
		{"###  x  ", 12, "#####  x  ##"},
		{"###  x  ", 8, "###  x  "},
		{"###  x  ", 3, "###  x  "},
	}

	for _, tt := range tests {
		if got := padBoth(tt.in, tt.width, "#"); got != tt.want {
			t.Errorf("padBoth(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestPadRight_CountsCells(t *testing.T) {
	got := padRight("日本", 6, "_")
	if got != "日本__" {
		t.Errorf("padRight = %q, want %q", got, "日本__")
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "short message", 20, "short message"},
		{"exact width", "aaaa bbbb", 9, "aaaa bbbb"},
		{"breaks at spaces", "The quick brown fox", 10, "The quick\nbrown fox"},
		{"never cuts words", "A very long woooooooooooord.", 8, "A very\nlong\nwoooooooooooord."},
		{"keeps line breaks", "ab cd\nef gh", 5, "ab cd\nef gh"},
		{"wide runes", "日本語 日本語", 8, "日本語\n日本語"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wordWrap(tt.in, tt.width); got != tt.want {
				t.Errorf("wordWrap(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestPrefixBlock(t *testing.T) {
	tests := []struct {
		name string
		text string
		all  bool
		want string
	}{
		{"empty", "", false, ""},
		{"top level lines only", "a: 1\n  b: 2\n", false, "--> a: 1\n      b: 2\n"},
		{"no trailing newline", "a: 1\nc: 3", false, "--> a: 1\n--> c: 3"},
		{"blank line gets padding", "a\n\nb", false, "--> a\n    \n--> b"},
		{"all lines", "a\n  b\n", true, "--> a\n-->   b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := prefixBlock(tt.text, "--> ", tt.all); got != tt.want {
				t.Errorf("prefixBlock(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestBanners(t *testing.T) {
	f := NewEasyLogFormatter(Config{MaxLineLength: 20, PrefixLength: 2})

	if got, want := f.section("INFO"), "___ INFO ___________\n"; got != want {
		t.Errorf("section = %q, want %q", got, want)
	}
	if got, want := f.subtitle("x"), "#########  x  ######\n"; got != want {
		t.Errorf("subtitle = %q, want %q", got, want)
	}

	title := strings.Split(strings.TrimSuffix(f.title("x"), "\n"), "\n")
	if len(title) != 3 {
		t.Fatalf("title has %d lines, want 3", len(title))
	}
	rule := strings.Repeat("#", 20)
	if title[0] != rule || title[2] != rule || title[1] != "#########  x  ######" {
		t.Errorf("title = %q", title)
	}
}

func TestTextBlock(t *testing.T) {
	f := NewEasyLogFormatter(Config{MaxLineLength: 14, PrefixLength: 2})

	// shorter than the message width: one line, no wrapping
	if got := f.textBlock("hello world"); got != "hello world" {
		t.Errorf("textBlock = %q", got)
	}

	got := f.textBlock("The quick brown fox jumps")
	want := "The quick\n  brown fox\n  jumps"
	if got != want {
		t.Errorf("textBlock = %q, want %q", got, want)
	}
}
