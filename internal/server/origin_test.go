package server

import (
	"net/http/httptest"
	"testing"
)

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"empty list allows all", nil, "http://evil.example", true},
		{"wildcard allows all", []string{"*"}, "http://evil.example", true},
		{"listed origin allowed", []string{"http://app.example"}, "http://app.example", true},
		{"case insensitive match", []string{"http://App.Example"}, "http://app.example", true},
		{"unlisted origin blocked", []string{"http://app.example"}, "http://evil.example", false},
		{"no origin header allowed", []string{"http://app.example"}, "", true},
		{"malformed origin blocked", []string{"http://app.example"}, "not a url", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.allowedOrigins, s.allowAll = normalizeOrigins(tt.allowed)

			req := httptest.NewRequest("GET", "/ws/r1/alice", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			if got := s.checkOrigin(req); got != tt.want {
				t.Errorf("checkOrigin(%q) with list %v = %v, want %v",
					tt.origin, tt.allowed, got, tt.want)
			}
		})
	}
}
