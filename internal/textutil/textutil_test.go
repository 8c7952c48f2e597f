package textutil

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long string", 10, "this is..."},
		{"hello world", 8, "hello..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"test", 0, ""},
		{"test", -1, ""},
	}
	for _, tt := range tests {
		got := Truncate(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateUTF8(t *testing.T) {
	// Japanese characters are multi-byte but should truncate by rune
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"こんにちは世界です", 5, "こん..."},
		{"日本語テスト", 5, "日本..."},
		{"日本語", 3, "日本語"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.input, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestOneLine(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"一行目\n二行目", "一行目 二行目"},
		{"  a \t b  ", "a b"},
		{"\n\n", ""},
		{"そのまま", "そのまま"},
	}
	for _, tt := range tests {
		if got := OneLine(tt.input); got != tt.want {
			t.Errorf("OneLine(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
