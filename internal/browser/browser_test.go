package browser

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "sentiment_results.csv")
	if err := os.WriteFile(csvPath, []byte("text\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		target  string
		want    string
		wantErr bool
	}{
		{"https://example.com", "https://example.com", false},
		{"http://example.com", "http://example.com", false},
		{csvPath, csvPath, false},
		{dir, "", true},
		{filepath.Join(dir, "missing.csv"), "", true},
		{"file:///etc/passwd", "", true},
		{"javascript:alert(1)", "", true},
		{"ftp://example.com", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := resolve(tt.target)
		if tt.wantErr {
			if err == nil {
				t.Errorf("resolve(%q): expected error, got %q", tt.target, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("resolve(%q): unexpected error: %v", tt.target, err)
			continue
		}
		if got != tt.want {
			t.Errorf("resolve(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestResolveRelativePath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile("out.csv", []byte("text\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := resolve("out.csv")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !filepath.IsAbs(got) || filepath.Base(got) != "out.csv" {
		t.Errorf("expected absolute path to out.csv, got %q", got)
	}
}
