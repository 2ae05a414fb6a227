package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORS answers cross-origin requests from the allow-list. A "*" entry allows
// every origin. Preflight requests are answered with 204 and no body.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	origins := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	handler := cors.Handler(cors.Options{
		AllowedOrigins:     origins,
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:             600,
		OptionsPassthrough: true,
	})

	return func(next http.Handler) http.Handler {
		return handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
