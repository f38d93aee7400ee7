package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestHealthCheck(t *testing.T) {
	down := errors.New("down")
	tests := []struct {
		name    string
		backend Pinger
		audit   Pinger
		want    int
	}{
		{"healthy without audit log", fakePinger{}, nil, http.StatusOK},
		{"healthy with audit log", fakePinger{}, fakePinger{}, http.StatusOK},
		{"backend down", fakePinger{err: down}, nil, http.StatusServiceUnavailable},
		{"database down", fakePinger{}, fakePinger{err: down}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewHealthHandler(tt.backend, tt.audit).HealthCheck)

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rr.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rr.Code)
			}
		})
	}
}
