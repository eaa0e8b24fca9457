package middleware

import (
	"net/http"
	"strings"
)

// CORSMiddleware lets the reception front end call the API from its own origin.
// An empty origin list allows any origin.
type CORSMiddleware struct {
	origins map[string]struct{}
}

func NewCORSMiddleware(allowedOrigins []string) *CORSMiddleware {
	m := &CORSMiddleware{}
	for _, o := range allowedOrigins {
		if o = strings.TrimSpace(o); o != "" && o != "*" {
			if m.origins == nil {
				m.origins = make(map[string]struct{})
			}
			m.origins[o] = struct{}{}
		}
	}
	return m
}

func (m *CORSMiddleware) allowOrigin(origin string) string {
	if m.origins == nil {
		return "*"
	}
	if _, ok := m.origins[origin]; ok {
		return origin
	}
	return ""
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		h := w.Header()
		if m.origins != nil {
			h.Add("Vary", "Origin")
		}
		if allowed := m.allowOrigin(req.Header.Get("Origin")); allowed != "" {
			h.Set("Access-Control-Allow-Origin", allowed)
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, "+StaffRoleHeader+", "+RequestIDHeader)
			h.Set("Access-Control-Expose-Headers", "Content-Disposition, "+RequestIDHeader)
		}

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}
