// Package factory wires the application graph.
package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/partywire/partywire/internal/broadcast"
	"github.com/partywire/partywire/internal/dependencies/clock"
	"github.com/partywire/partywire/internal/dependencies/random"
	"github.com/partywire/partywire/internal/gateway"
	"github.com/partywire/partywire/internal/registry"
	"github.com/partywire/partywire/internal/storage"
	"github.com/partywire/partywire/internal/storage/memory"
	redisstorage "github.com/partywire/partywire/internal/storage/redis"
	"github.com/partywire/partywire/internal/transport/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Components
	Hub      *ws.Hub
	Registry *registry.Registry
	Router   *broadcast.Router
	Gateway  *gateway.Gateway
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	hub := ws.NewHub(logger)
	reg := registry.New(store, clk, rnd, logger)
	router := broadcast.New(hub, logger)
	gw := gateway.New(reg, router, logger)
	hub.SetHandler(gw)

	return &App{
		Storage:  store,
		Clock:    clk,
		Random:   rnd,
		Hub:      hub,
		Registry: reg,
		Router:   router,
		Gateway:  gw,
	}, nil
}
