package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"camerad/internal/capture"
	"camerad/internal/config"
	"camerad/internal/httpapi"
	"camerad/internal/manager"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// buildBackend selects the capture backend named by cfg.
func buildBackend(name string, cfg config.Config) (capture.Backend, error) {
	switch name {
	case "gocv":
		return capture.NewGoCVBackend()
	default: // sim
		devs := simDevices(cfg.SimDevices)
		b := capture.NewSimBackend(devs...)
		b.SetAuthorization(capture.AuthAuthorized)
		return b, nil
	}
}

func simDevices(specs []config.SimDevice) []*capture.SimDevice {
	if len(specs) == 0 {
		return []*capture.SimDevice{
			capture.NewSimDevice("sim-0", "Sim FaceTime HD Camera"),
			capture.NewSimDevice("sim-1", "Sim OBS Virtual Camera"),
		}
	}
	devs := make([]*capture.SimDevice, 0, len(specs))
	for _, s := range specs {
		d := capture.NewSimDevice(s.UID, s.Name)
		d.IsSuspended = s.Suspended
		d.Disconnected = s.Disconnected
		d.LockHeld = s.LockHeld
		d.StartFailures = s.StartFailures
		devs = append(devs, d)
	}
	return devs
}

func main() {
	addr := pflag.String("addr", envOr("CAMERAD_ADDR", ""), "HTTP listen address, e.g. :8080")
	configPath := pflag.String("config", envOr("CAMERAD_CONFIG", ""), "Path to config file (.yaml/.json/.toml)")
	backendName := pflag.String("backend", envOr("CAMERAD_BACKEND", ""), "Capture backend: sim or gocv")
	corsEnabled := pflag.Bool("cors", false, "Enable permissive CORS for browser clients")
	corsOrigins := pflag.String("cors-origins", envOr("CAMERAD_CORS_ORIGINS", ""), "Comma-separated allowed CORS origins")
	pflag.Parse()

	logLevel, _ := zerolog.ParseLevel(envOr("CAMERAD_LOG_LEVEL", "info"))
	log := zerolog.New(os.Stderr).Level(logLevel).With().Timestamp().Str("service", "camerad").Logger()

	var cfg config.Config
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
		}
	}
	// Flags win over the config file; config fills what flags leave unset.
	if *addr == "" {
		*addr = cfg.Addr
	}
	if *addr == "" {
		*addr = ":8080"
	}
	if *backendName == "" {
		*backendName = cfg.Backend
	}
	if *backendName == "" {
		*backendName = "sim"
	}
	if !*corsEnabled {
		*corsEnabled = cfg.CORSEnabled
	}
	origins := splitCSV(*corsOrigins)
	if len(origins) == 0 {
		origins = cfg.CORSOrigins
	}

	backend, err := buildBackend(*backendName, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", *backendName).Msg("failed to initialize capture backend")
	}

	mgr := manager.NewWithConfig(manager.ManagerConfig{
		Backend:          backend,
		Logger:           log,
		MaxStartAttempts: cfg.MaxStartAttempts,
		RetryDelay:       time.Duration(cfg.RetryDelayMS) * time.Millisecond,
		SettleDelay:      time.Duration(cfg.SettleDelayMS) * time.Millisecond,
		LogLines:         cfg.LogLines,
		DeselectOnClose:  cfg.DeselectOnClose,
		Publisher:        manager.NewZerologPublisher(log),
	})

	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	httpapi.SetLogger(log)
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetCORSOptions(*corsEnabled, origins, nil, nil)

	// Populate the device list before the first client asks.
	go func() {
		if _, err := mgr.Discover(baseCtx); err != nil {
			log.Warn().Err(err).Msg("initial discovery failed")
		}
	}()

	mux := httpapi.NewMux(mgr)
	srv := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Info().Str("addr", *addr).Str("backend", *backendName).Msg("camerad listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancel()
	mgr.CloseAll()
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
}
