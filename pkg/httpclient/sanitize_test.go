package httpclient

import (
	"net/url"
	"strings"
	"testing"
)

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name     string
		rawURL   string
		redacted []string
		kept     []string
	}{
		{
			name:     "api key redacted",
			rawURL:   "https://api.example.com/v1?api_key=secret123&page=2",
			redacted: []string{"api_key"},
			kept:     []string{"page=2"},
		},
		{
			name:     "token variants redacted",
			rawURL:   "https://api.example.com/v1?access_token=abc&TOKEN=def",
			redacted: []string{"access_token", "TOKEN"},
		},
		{
			name:   "api-version kept",
			rawURL: "https://api.example.com/v1?api-version=2024-01-01",
			kept:   []string{"api-version=2024-01-01"},
		},
		{
			name:     "sas signature redacted",
			rawURL:   "https://api.example.com/v1?sig=abcdef",
			redacted: []string{"sig"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.rawURL)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}

			got := sanitizeURL(u)

			for _, param := range tt.redacted {
				if !strings.Contains(got, param+"=%5BREDACTED%5D") {
					t.Errorf("expected %s redacted in %s", param, got)
				}
			}
			for _, fragment := range tt.kept {
				if !strings.Contains(got, fragment) {
					t.Errorf("expected %s kept in %s", fragment, got)
				}
			}
		})
	}
}

func TestSanitizeURLNil(t *testing.T) {
	if got := sanitizeURL(nil); got != "" {
		t.Errorf("expected empty string for nil URL, got %q", got)
	}
}
