package server

import (
	"net/http"
	"net/url"
	"strings"
)

// normalizeOrigins parses the configured origin list into a lookup set.
// An empty list or a "*" entry allows every origin, matching the
// original deployment default.
func normalizeOrigins(origins []string) (map[string]struct{}, bool) {
	if len(origins) == 0 {
		return nil, true
	}

	normalized := make(map[string]struct{}, len(origins))
	allowAll := false

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			allowAll = true
			continue
		}
		if norm, ok := normalizeOrigin(trimmed); ok {
			normalized[norm] = struct{}{}
		}
	}

	return normalized, allowAll
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}

// checkOrigin gates WebSocket upgrades. Requests without an Origin
// header (non-browser clients) are always accepted.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || s.allowAll {
		return true
	}

	norm, ok := normalizeOrigin(origin)
	if !ok {
		return false
	}
	if _, allowed := s.allowedOrigins[norm]; allowed {
		return true
	}

	s.logger.Warn("blocked upgrade from disallowed origin", "origin", origin)
	return false
}
