package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	flag "github.com/spf13/pflag"

	"github.com/iudanet/jobcache/internal/config"
	"github.com/iudanet/jobcache/internal/server"
	"github.com/iudanet/jobcache/internal/server/handlers"
	"github.com/iudanet/jobcache/internal/server/storage/sqlstore"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "", "Path to server config (default "+config.DefaultServerConfigPath+")")
	addr := flag.String("addr", "", "Listen address")
	driver := flag.String("driver", "", "Database driver: sqlite or pgx")
	dsn := flag.String("dsn", "", "Database DSN (file path for sqlite)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	trustProxy := flag.Bool("trust-proxy", false, "Take client IP from X-Forwarded-For/X-Real-IP")
	flag.Parse()

	if *showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.LoadServer(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jobcache-server: %v\n", err)
		return 1
	}

	if *addr != "" {
		cfg.Addr = *addr
	}
	if *driver != "" {
		cfg.Driver = *driver
	}
	if *dsn != "" {
		cfg.DSN = *dsn
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "jobcache-server: invalid config: %v\n", err)
		return 1
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jobcache-server: %v\n", err)
		return 1
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := sqlstore.Open(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.Driver, "error", err)
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(store.DB(), cfg.Driver),
	)

	srv := server.New(server.Config{
		Addr:    cfg.Addr,
		Version: Version,
		JWT: handlers.JWTConfig{
			Secret:         []byte(cfg.JWTSecret),
			AccessTokenTTL: cfg.AccessTTL,
		},
		RateLimit:  cfg.RateLimit,
		RateWindow: cfg.RateWindow,
		TrustProxy: *trustProxy,
	}, store, reg, logger)

	logger.Info("starting jobcache server",
		"version", Version,
		"addr", cfg.Addr,
		"driver", cfg.Driver)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped with error", "error", err)
		return 1
	}

	logger.Info("server stopped")
	return 0
}

func printVersion() {
	fmt.Printf("jobcache server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
