package integration

import (
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medcab/medcab/internal/domain/inventory"
	"github.com/medcab/medcab/internal/platform/middleware"
	"github.com/medcab/medcab/internal/platform/telemetry"
)

// newServerAt builds the full HTTP stack over the given document paths,
// mirroring the wiring in cmd/medcab-server.
func newServerAt(t *testing.T, dataFile, backupDir string) *echo.Echo {
	t.Helper()

	logger := zerolog.New(os.Stderr).Level(zerolog.ErrorLevel).With().Timestamp().Logger()

	tp := telemetry.NewTelemetryProvider(telemetry.TelemetryConfig{
		ServiceName: "medcab-server-test",
		Environment: "test",
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(tp.TracingMiddleware())
	e.Use(tp.MetricsMiddleware())

	store := inventory.NewJSONStore(dataFile, backupDir)
	svc := inventory.NewService(store, logger)
	handler := inventory.NewHandler(svc)
	handler.RegisterRoutes(e.Group("/api/v1"))

	e.GET("/metrics", tp.PrometheusHandler())

	return e
}

// newTestServer builds the stack over a fresh temp directory and returns the
// server together with the document and backup paths.
func newTestServer(t *testing.T) (*echo.Echo, string, string) {
	t.Helper()
	dir := t.TempDir()
	dataFile := filepath.Join(dir, "medications.json")
	backupDir := filepath.Join(dir, "backups")
	return newServerAt(t, dataFile, backupDir), dataFile, backupDir
}

// doJSON performs a request against the in-process server and returns the
// recorded response.
func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// backupFiles lists backup documents currently on disk.
func backupFiles(t *testing.T, backupDir string) []string {
	t.Helper()
	entries, err := os.ReadDir(backupDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var names []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "backup_") && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}
	return names
}
