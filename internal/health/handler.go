package health

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// BannerMessage is served on the root path as a plain liveness banner.
const BannerMessage = "Server is running!"

// BannerHandler answers the root path with a plain-text liveness banner.
func BannerHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(BannerMessage))
	})
}

// Handler serves the readiness probe with per-component statuses as JSON.
// A failing component turns the status code to 503.
func Handler(checker *Checker, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		results := checker.Check(r.Context())

		code := http.StatusOK
		for _, status := range results {
			if status != "OK" {
				code = http.StatusServiceUnavailable
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)

		if err := json.NewEncoder(w).Encode(results); err != nil {
			log.Error("failed to encode health response", slog.Any("error", err))
		}
	})
}
