package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	flag "github.com/spf13/pflag"

	"github.com/iudanet/jobcache/internal/client/api"
	"github.com/iudanet/jobcache/internal/client/auth"
	"github.com/iudanet/jobcache/internal/client/cli"
	"github.com/iudanet/jobcache/internal/client/collection"
	"github.com/iudanet/jobcache/internal/client/iocli"
	"github.com/iudanet/jobcache/internal/client/storage"
	"github.com/iudanet/jobcache/internal/client/storage/boltdb"
	"github.com/iudanet/jobcache/internal/config"
	"github.com/iudanet/jobcache/internal/metrics"
	"github.com/iudanet/jobcache/internal/models"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// localStore кэш записей и сессия в одном хранилище
type localStore interface {
	storage.LocalStore
	storage.AuthStorage
}

func main() {
	os.Exit(run())
}

func run() int {
	// Флаги команд (например list --refresh) разбирает cli
	flag.CommandLine.SetInterspersed(false)

	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "", "Path to client config (default "+config.DefaultClientConfigPath+")")
	serverURL := flag.String("server", "", "Server URL")
	dbPath := flag.String("db", "", "Path to local cache database")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	noOptimistic := flag.Bool("no-optimistic", false, "Wait for the server instead of applying changes optimistically")
	flag.Parse()

	if *showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.LoadClient(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Флаги важнее файла и окружения
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *noOptimistic {
		cfg.Optimistic = false
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store := openStore(ctx, cfg.DBPath, logger)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	session := auth.NewSession(store)
	apiClient := api.NewClient(cfg.ServerURL, api.WithTokenSource(session))

	deps := collection.Deps{
		Principal:         session,
		Store:             store,
		Logger:            logger,
		Metrics:           metrics.NewCacheMetrics(prometheus.NewRegistry()),
		MaxAge:            cfg.MaxAge,
		CoalesceDelay:     cfg.CoalesceDelay,
		DisableOptimistic: !cfg.Optimistic,
	}

	app := cli.New(cli.Deps{
		IO:          iocli.NewStdio(),
		APIClient:   apiClient,
		AuthService: auth.NewService(apiClient, store),
		Session:     session,
		Logger:      logger,
		Collections: cli.Collections{
			Orders:   collection.NewOrders(api.NewResource[models.Order](apiClient, models.CollectionOrders), deps),
			Clients:  collection.NewClients(api.NewResource[models.Client](apiClient, models.CollectionClients), deps),
			Services: collection.NewServices(api.NewResource[models.Service](apiClient, models.CollectionServices), deps),
			Workers:  collection.NewWorkers(api.NewResource[models.Worker](apiClient, models.CollectionWorkers), deps),
		},
		SyncInterval: cfg.SyncInterval,
		HistoryFile:  filepath.Join(filepath.Dir(cfg.DBPath), "history"),
	})

	if err := app.Run(ctx, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, cli.ErrUnknownCommand) {
			app.PrintUsage()
		}
		return 1
	}

	return 0
}

// openStore открывает BoltDB. Если файл недоступен (например, занят другим
// процессом), клиент продолжает работу без офлайн-кэша.
func openStore(ctx context.Context, path string, logger *slog.Logger) localStore {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		logger.Warn("failed to create cache directory", "path", path, "error", err)
	}

	store, err := boltdb.Open(ctx, path, models.Collections())
	if err != nil {
		logger.Warn("local cache disabled, working online only", "path", path, "error", err)
		return storage.NewUnavailable(err, logger)
	}

	return store
}

func printVersion() {
	fmt.Printf("jobcache client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
