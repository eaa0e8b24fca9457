package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"shelter-registry/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func roleEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := entity.StaffRoleFromContext(r.Context())
		w.Write([]byte(role))
	})
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(entity.StaffRoleReception, entity.StaffRoleAdmin)(roleEcho())

	tests := []struct {
		name       string
		role       string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", role: "", wantStatus: http.StatusUnauthorized},
		{name: "unknown role", role: "janitor", wantStatus: http.StatusUnauthorized},
		{name: "forbidden role", role: "nursing", wantStatus: http.StatusForbidden},
		{name: "allowed role", role: "reception", wantStatus: http.StatusOK, wantBody: "reception"},
		{name: "case insensitive", role: "ADMIN", wantStatus: http.StatusOK, wantBody: "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.role != "" {
				req.Header.Set(StaffRoleHeader, tt.role)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRequireRole_AnyKnownRole(t *testing.T) {
	h := RequireRole()(roleEcho())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(StaffRoleHeader, "social_work")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestLoggerMiddleware(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	var seen string
	h := NewRequestLoggerMiddleware(log).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(RequestIDKey).(string)
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get(RequestIDHeader))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	h := NewCORSMiddleware(nil).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the handler")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), StaffRoleHeader)
}

func TestCORSMiddleware_AllowedOrigins(t *testing.T) {
	h := NewCORSMiddleware([]string{"https://recepcion.albergue.org", " "}).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		origin string
		want   string
	}{
		{"listed origin is echoed", "https://recepcion.albergue.org", "https://recepcion.albergue.org"},
		{"other origin gets no grant", "https://evil.example", ""},
		{"same-origin request", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "Origin", rec.Header().Get("Vary"))
		})
	}
}
