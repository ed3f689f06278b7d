package auth

import (
	"encoding/json"
	"net/http"
	"strings"
)

// RequireAPIKey wraps next so that requests whose path starts with one of
// prefixes must carry key in header. Other paths pass through untouched, as
// does everything when mode != "apikey".
//
// Rejected requests get 401 with a JSON {"error": ...} body. WebSocket
// upgrades are plain GETs, so a guarded /ws/ prefix is checked before the
// handshake.
func RequireAPIKey(mode, header, key string, next http.Handler, prefixes ...string) http.Handler {
	if !enabled(mode) {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !guarded(r.URL.Path, prefixes) {
			next.ServeHTTP(w, r)
			return
		}
		if !keyMatches(r.Header.Get(header), key) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid api key"}) //nolint:errcheck
			return
		}
		next.ServeHTTP(w, r)
	})
}

func guarded(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
