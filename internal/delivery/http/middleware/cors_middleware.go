package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const corsMaxAge = 10 * time.Minute

// CORSMiddleware lets the dashboard call the API from another origin. Reads
// are public; writes additionally carry a bearer token.
type CORSMiddleware struct {
	allowAll bool
	origins  map[string]bool
}

// NewCORSMiddleware allows the given origins. An empty list or "*" allows any
// origin.
func NewCORSMiddleware(allowedOrigins []string) *CORSMiddleware {
	m := &CORSMiddleware{origins: make(map[string]bool)}
	for _, origin := range allowedOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "*" {
			m.allowAll = true
		} else if origin != "" {
			m.origins[strings.ToLower(origin)] = true
		}
	}
	if len(m.origins) == 0 {
		m.allowAll = true
	}
	return m
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		origin := req.Header.Get("Origin")
		allowed := m.allowAll || m.origins[strings.ToLower(origin)]

		h := w.Header()
		if m.allowAll {
			h.Set("Access-Control-Allow-Origin", "*")
		} else {
			h.Add("Vary", "Origin")
			if allowed {
				h.Set("Access-Control-Allow-Origin", origin)
			}
		}

		if allowed {
			h.Set("Access-Control-Expose-Headers", RequestIDHeader+", Content-Disposition")
		}

		if req.Method == http.MethodOptions {
			if allowed {
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
				h.Set("Access-Control-Max-Age", strconv.Itoa(int(corsMaxAge.Seconds())))
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}
