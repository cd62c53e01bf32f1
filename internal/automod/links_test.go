package automod

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExtractHostnames(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"single url", "go to https://Example.COM/page now", []string{"example.com"}},
		{"multiple urls", "https://a.com and http://b.org/x", []string{"a.com", "b.org"}},
		{"trailing punctuation", "read https://example.com/doc.", []string{"example.com"}},
		{"no urls", "nothing to see", nil},
		{"bare domain is not a url", "just example.com text", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractHostnames(tt.content)
			if len(got) != len(tt.want) {
				t.Fatalf("extractHostnames(%q) = %v, want %v", tt.content, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("host %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestHostMatchesAny(t *testing.T) {
	domains := []string{"evil.com", "scam.net"}

	if !hostMatchesAny("evil.com", domains) {
		t.Error("exact host should match")
	}
	if !hostMatchesAny("sub.evil.com", domains) {
		t.Error("subdomain should match")
	}
	if hostMatchesAny("legit.org", domains) {
		t.Error("unlisted host must not match")
	}
	if hostMatchesAny("anything.com", []string{""}) {
		t.Error("empty list entry must never match")
	}
}

func TestLoadPhishingDomains(t *testing.T) {
	// Missing file falls back to the built-in list.
	domains, err := LoadPhishingDomains(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if len(domains) != len(defaultPhishingDomains) {
		t.Errorf("expected the built-in list, got %d domains", len(domains))
	}

	// A YAML file extends the built-in list.
	path := filepath.Join(t.TempDir(), "phishing.yaml")
	content := "domains:\n  - Custom-Scam.com\n  - \"  \"\n  - another.bad\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	domains, err = LoadPhishingDomains(path)
	if err != nil {
		t.Fatalf("LoadPhishingDomains: %v", err)
	}
	if len(domains) != len(defaultPhishingDomains)+2 {
		t.Errorf("expected %d domains, got %d", len(defaultPhishingDomains)+2, len(domains))
	}
	found := false
	for _, d := range domains {
		if d == "custom-scam.com" {
			found = true
		}
	}
	if !found {
		t.Error("custom domain missing or not lowercased")
	}

	// Malformed YAML reports the error but still returns the defaults.
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("domains: {not a list"), 0o644); err != nil {
		t.Fatal(err)
	}
	domains, err = LoadPhishingDomains(bad)
	if err == nil {
		t.Error("malformed YAML should error")
	}
	if len(domains) != len(defaultPhishingDomains) {
		t.Error("defaults expected on parse failure")
	}
}
