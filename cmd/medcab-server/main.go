package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medcab/medcab/internal/config"
	"github.com/medcab/medcab/internal/domain/inventory"
	"github.com/medcab/medcab/internal/platform/middleware"
	"github.com/medcab/medcab/internal/platform/telemetry"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "medcab-server",
		Short: "Medication inventory API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the inventory API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an inventory export without starting the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("out")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
			level, _ := zerolog.ParseLevel(cfg.LogLevel)
			logger = logger.Level(level)

			store := inventory.NewJSONStore(cfg.DataFile, cfg.BackupDir)
			svc := inventory.NewService(store, logger)

			col := svc.List(cmd.Context())
			path, err := writeExport(col, format, out, time.Now().UTC())
			if err != nil {
				return err
			}

			fmt.Printf("Wrote %d medication(s) to %s\n", len(col.Medications), path)
			return nil
		},
	}
	cmd.Flags().String("format", "csv", "Export format: csv, xlsx, or html")
	cmd.Flags().String("out", "", "Output path (default: timestamped file in the working directory)")
	return cmd
}

// writeExport renders the collection in the requested format and writes it
// to out. An empty out falls back to a timestamped name in the working
// directory. The path written is returned.
func writeExport(col inventory.Collection, format, out string, now time.Time) (string, error) {
	switch format {
	case "csv", "xlsx", "html":
	default:
		return "", fmt.Errorf("unknown export format %q (expected csv, xlsx, or html)", format)
	}

	if out == "" {
		out = defaultExportName(format, now)
	}

	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}

	switch format {
	case "csv":
		err = inventory.WriteCSV(f, col)
	case "xlsx":
		err = inventory.WriteXLSX(f, col)
	case "html":
		err = inventory.RenderHTML(f, col, now)
	}
	if err != nil {
		f.Close()
		return "", fmt.Errorf("write %s export: %w", format, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return out, nil
}

func defaultExportName(format string, now time.Time) string {
	return "medications_" + now.Format("20060102_150405") + "." + format
}

// countBackups reports how many backup documents exist in dir. A missing
// directory counts as zero.
func countBackups(dir string) int64 {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	var n int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "backup_") && strings.HasSuffix(name, ".json") {
			n++
		}
	}
	return n
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger = logger.Level(level)

	// Telemetry
	tp := telemetry.NewTelemetryProvider(telemetry.TelemetryConfig{
		ServiceName:    "medcab-server",
		ServiceVersion: version,
		Environment:    cfg.Env,
	})
	defer tp.Shutdown(context.Background())

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(middleware.BodyLimit("1M"))
	e.Use(tp.TracingMiddleware())
	e.Use(tp.MetricsMiddleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Inventory domain
	store := inventory.NewJSONStore(cfg.DataFile, cfg.BackupDir)
	svc := inventory.NewService(store, logger)
	handler := inventory.NewHandler(svc)

	apiV1 := e.Group("/api/v1")
	handler.RegisterRoutes(apiV1)

	// Seed inventory gauges from the current document.
	im := tp.InventoryMetrics()
	im.SetMedicationsTotal(int64(len(svc.List(context.Background()).Medications)))
	im.SetBackupsTotal(countBackups(cfg.BackupDir))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	// Prometheus metrics
	e.GET("/metrics", tp.PrometheusHandler())

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
