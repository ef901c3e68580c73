package text

import "testing"

func TestParagraphDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
	}{
		{"hello", LeftToRight},
		{"שלום עולם", RightToLeft},
		{"مرحبا", RightToLeft},
		{"123 שלום", RightToLeft},
		{"abc שלום", LeftToRight},
		{"", LeftToRight},
		{"42 - 7", LeftToRight},
	}

	for _, tt := range tests {
		if got := ParagraphDirection(tt.in); got != tt.want {
			t.Errorf("ParagraphDirection(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"cafe\u0301":              "caf\u00e9",
		"  a \t b  ":              "a b",
		"line one\n  two  ":       "line one\ntwo",
		"already composed \u00e9": "already composed \u00e9",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
