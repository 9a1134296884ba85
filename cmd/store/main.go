package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/term"

	"StoreLedger/internal/config"
	"StoreLedger/internal/console"
	"StoreLedger/internal/inventory"
	"StoreLedger/pkg/kit"
)

const (
	service        = "store"
	connectTimeout = 5 * time.Second
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}

	log := kit.NewLogger(service, cfg.LogLevel).With(zap.String("session_id", uuid.NewString()))
	defer func() { _ = log.Sync() }()
	log.Info("starting", zap.Stringer("config", cfg))

	ctx := context.Background()

	backend, location, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		log.Error("open snapshot backend", zap.String("backend", cfg.Backend), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Cannot open %s storage: %v\n", cfg.Backend, err)
		return 1
	}
	defer closeBackend()

	opts := []inventory.Option{
		inventory.WithLogger(log),
		inventory.WithDefaultManager(cfg.AdminUser, cfg.AdminPassword),
	}
	var overwriteWarning string
	store, err := inventory.Load(ctx, backend, opts...)
	if err != nil {
		overwriteWarning = fmt.Sprintf("Data at %s could not be loaded at startup and may still be intact.", location)
		log.Error("load snapshot, starting empty", zap.String("location", location), zap.Error(err))
		fmt.Printf("Could not load data from %s (%v), starting with an empty store.\n", location, err)
		if store, err = inventory.New(opts...); err != nil {
			log.Error("create store", zap.Error(err))
			return 1
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := kit.NewMetrics(reg, service)
	if err := store.RegisterMetrics(reg); err != nil {
		log.Warn("register ledger metrics", zap.Error(err))
	}

	fmt.Println("Welcome to Store Ledger - inventory, sales and purchases")
	fmt.Printf("Data location: %s\n", location)

	c := &console.Console{
		Store:    store,
		In:       os.Stdin,
		Out:      os.Stdout,
		Log:      log,
		Metrics:  metrics,
		Location: location,

		OverwriteWarning: overwriteWarning,

		Save: func() error {
			return store.Save(ctx, backend)
		},
	}
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		c.ReadPassword = func() (string, error) {
			b, err := term.ReadPassword(fd)
			fmt.Println()
			return string(b), err
		}
	}

	if !c.Login() {
		fmt.Println("Exiting due to authentication failure.")
		return 1
	}

	code := 0
	if err := c.Run(); err != nil {
		code = 1
	}

	if cfg.MetricsFile != "" {
		if err := kit.WriteTextfile(cfg.MetricsFile, reg); err != nil {
			log.Warn("write metrics textfile", zap.String("path", cfg.MetricsFile), zap.Error(err))
		}
	}
	return code
}

// openBackend returns the configured snapshot store, a human readable location for
// console messages and a close func.
func openBackend(ctx context.Context, cfg config.Config) (inventory.SnapshotStore, string, func(), error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := inventory.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, "", nil, err
		}
		ps := inventory.NewPostgresStore(db, cfg.SnapshotKey)

		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		if err := ps.EnsureTable(ctx); err != nil {
			_ = db.Close()
			return nil, "", nil, err
		}
		return ps, "postgres snapshot " + cfg.SnapshotKey, func() { _ = db.Close() }, nil

	case config.BackendRedis:
		client := inventory.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		rs := inventory.NewRedisStore(client, cfg.SnapshotKey)

		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		if err := rs.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, "", nil, err
		}
		return rs, "redis " + cfg.RedisAddr + " snapshot " + cfg.SnapshotKey, func() { _ = client.Close() }, nil

	default:
		fs := inventory.NewFileStore(cfg.DataFile)
		return fs, fs.Path(), func() {}, nil
	}
}
