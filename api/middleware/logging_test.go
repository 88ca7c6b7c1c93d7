package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/angelmondragon/karaoke-backend/pkg/logger"
)

func serveLogged(t *testing.T, path string, status int) string {
	t.Helper()
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.InfoLevel, Output: &buf})
	handler := Logging(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("ok"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	return buf.String()
}

func TestLoggingRecordsStatusAndSize(t *testing.T) {
	out := serveLogged(t, "/api/v1/rooms", http.StatusCreated)
	for _, want := range []string{`"status":201`, `"bytes":2`, `"path":"/api/v1/rooms"`, `"level":"info"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestLoggingQuietsProbes(t *testing.T) {
	if out := serveLogged(t, "/health/live", http.StatusOK); out != "" {
		t.Fatalf("expected probe to log at debug only, got %s", out)
	}
	if out := serveLogged(t, "/health/ready", http.StatusServiceUnavailable); !strings.Contains(out, `"level":"warn"`) {
		t.Fatalf("expected failing probe at warn, got %s", out)
	}
}
