// Package cli implements the jobcache command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iudanet/jobcache/internal/client/api"
	"github.com/iudanet/jobcache/internal/client/auth"
	"github.com/iudanet/jobcache/internal/client/collection"
	"github.com/iudanet/jobcache/internal/client/iocli"
	"github.com/iudanet/jobcache/internal/client/sync"
	"github.com/iudanet/jobcache/internal/models"
	"github.com/iudanet/jobcache/internal/validation"
)

// ErrUnknownCommand возвращается для неизвестной команды
var ErrUnknownCommand = errors.New("unknown command")

// Collections are the cached collections the CLI works with
type Collections struct {
	Orders   *collection.Collection[models.Order]
	Clients  *collection.Collection[models.Client]
	Services *collection.Collection[models.Service]
	Workers  *collection.Collection[models.Worker]
}

// Deps are the services the CLI is built from
type Deps struct {
	IO          iocli.IO
	APIClient   *api.Client
	AuthService *auth.Service
	Session     *auth.Session
	Collections Collections
	Logger      *slog.Logger

	// SyncInterval период фоновой синхронизации в режиме shell
	SyncInterval time.Duration
	// HistoryFile файл истории shell; пустая строка отключает историю
	HistoryFile string
}

type Cli struct {
	io           iocli.IO
	apiClient    *api.Client
	authService  *auth.Service
	session      *auth.Session
	syncService  *sync.Service
	logger       *slog.Logger
	resources    []resource
	syncInterval time.Duration
	historyFile  string
}

func New(deps Deps) *Cli {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	resources := []resource{
		newResource(deps.Collections.Orders, orderColumns, orderRow),
		newResource(deps.Collections.Clients, clientColumns, clientRow),
		newResource(deps.Collections.Services, serviceColumns, serviceRow),
		newResource(deps.Collections.Workers, workerColumns, workerRow),
	}

	targets := make([]sync.Target, 0, len(resources))
	for _, r := range resources {
		targets = append(targets, r.target())
	}

	return &Cli{
		io:           deps.IO,
		apiClient:    deps.APIClient,
		authService:  deps.AuthService,
		session:      deps.Session,
		syncService:  sync.NewService(logger, targets...),
		logger:       logger,
		resources:    resources,
		syncInterval: deps.SyncInterval,
		historyFile:  deps.HistoryFile,
	}
}

// Run выполняет команду args[0] с аргументами args[1:]
func (c *Cli) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.PrintUsage()
		return nil
	}

	command, rest := strings.ToLower(args[0]), args[1:]

	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "list", "ls":
		return c.runList(ctx, rest)
	case "get":
		return c.runGet(ctx, rest)
	case "add":
		return c.runAdd(ctx, rest)
	case "update":
		return c.runUpdate(ctx, rest)
	case "delete", "del":
		return c.runDelete(ctx, rest)
	case "sync":
		return c.runSync(ctx, rest)
	case "export":
		return c.runExport(ctx, rest)
	case "shell":
		return c.runShell(ctx)
	case "help", "-h", "--help":
		c.PrintUsage()
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

// resource возвращает коллекцию по имени
func (c *Cli) resource(name string) (resource, error) {
	if err := validation.ValidateCollection(name); err != nil {
		return nil, err
	}
	for _, r := range c.resources {
		if r.name() == name {
			return r, nil
		}
	}
	return nil, fmt.Errorf("collection %q is not configured", name)
}

func (c *Cli) PrintUsage() {
	c.io.Println("jobcache - offline-first client for contractor job data")
	c.io.Println()
	c.io.Println("Usage:")
	c.io.Println("  jobcache [OPTIONS] COMMAND [ARGS]")
	c.io.Println()
	c.io.Println("Options:")
	c.io.Println("  --config PATH        Config file (default: ~/.config/jobcache/client.toml)")
	c.io.Println("  --server URL         Server URL")
	c.io.Println("  --db PATH            Path to local cache database")
	c.io.Println("  --log-level LEVEL    debug, info, warn or error")
	c.io.Println("  --version            Show version information")
	c.io.Println()
	c.io.Println("Commands:")
	c.io.Println("  register                                Register new user")
	c.io.Println("  login                                   Login to server")
	c.io.Println("  logout                                  Logout and drop cached data")
	c.io.Println("  status                                  Show session and cache status")
	c.io.Println("  list <collection> [--refresh]           List records (cached while fresh)")
	c.io.Println("  get <collection> <id>                   Show one record")
	c.io.Println("  add <collection> key=value...           Create a record")
	c.io.Println("  update <collection> <id> key=value...   Update fields of a record")
	c.io.Println("  delete <collection> <id>                Delete a record")
	c.io.Println("  sync [collection...]                    Refresh collections from the server")
	c.io.Println("  export <collection> <file>              Write records to a JSON file")
	c.io.Println("  shell                                   Interactive mode with background sync")
	c.io.Println()
	c.io.Println("Collections: " + strings.Join(models.Collections(), ", "))
	c.io.Println()
	c.io.Println("Examples:")
	c.io.Println("  jobcache add clients name='Acme Ltd' email=office@acme.test")
	c.io.Println("  jobcache add orders title='Replace boiler' client_id=<id> total=1250.50")
	c.io.Println("  jobcache update orders <id> status=completed")
	c.io.Println("  jobcache list orders --refresh")
}
