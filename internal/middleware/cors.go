package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

// native app and tooling clients send no Origin, they are recognised by user agent
var allowedUserAgentPrefixes = []string{
	"GymSession/1",
	"curl/",
	"test-agent",
}

const (
	corsAllowHeaders = "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, Mcp-Session-Id, " + AuthTokenHeader
	corsAllowMethods = "POST, GET, OPTIONS, PUT, PATCH, DELETE"
)

func Cors(allowedOrigins []string) func(next http.Handler) http.Handler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[strings.TrimSuffix(o, "/")] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			_, originAllowed := origins[origin]
			if !originAllowed && !knownClient(r.Header.Get("User-Agent")) {
				log.Warnf("cors: rejected [%s %s], origin [%s], user agent [%s]", r.Method, r.URL.Path, origin, r.UserAgent())
				w.WriteHeader(http.StatusForbidden)
				return
			}

			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
			w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)

			next.ServeHTTP(w, r)
		})
	}
}

func knownClient(userAgent string) bool {
	for _, prefix := range allowedUserAgentPrefixes {
		if strings.HasPrefix(userAgent, prefix) {
			return true
		}
	}
	return false
}
