// Package main runs the Atrium workspace shell: it assembles the module
// registry, registers every enabled feature module in dependency order
// and serves the shell REST API.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/atriumhq/atrium/internal/config"
	"github.com/atriumhq/atrium/internal/httpapi"
	"github.com/atriumhq/atrium/internal/metrics"
	"github.com/atriumhq/atrium/internal/modules"
	"github.com/atriumhq/atrium/internal/modules/assistant"
	"github.com/atriumhq/atrium/internal/modules/calendar"
	"github.com/atriumhq/atrium/internal/modules/chat"
	"github.com/atriumhq/atrium/internal/modules/dashboard"
	"github.com/atriumhq/atrium/internal/modules/files"
	"github.com/atriumhq/atrium/internal/modules/mail"
	"github.com/atriumhq/atrium/internal/registry"
	"github.com/atriumhq/atrium/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to atrium.yaml (default config/atrium.yaml)")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.NewDefault("atrium").Error("failed to load config", "error", err)
		os.Exit(1)
	}
	applyEnvOverrides(cfg)

	log := logger.New("atrium", cfg.LogLevel)
	m := metrics.New()

	reg := registry.New(
		registry.WithLogger(log.WithField("subsystem", "registry")),
		registry.WithProviderTimeout(cfg.ProviderTimeout.Std()),
		registry.WithHooks(m),
	)

	mods, closeStores, err := buildModules(cfg, log)
	if err != nil {
		log.Error("failed to initialize modules", "error", err)
		os.Exit(1)
	}
	defer closeStores()

	// Structural registration errors are startup bugs; abort loudly.
	if err := modules.RegisterAll(reg, cfg, mods...); err != nil {
		log.Error("module registration failed", "error", err)
		os.Exit(1)
	}
	log.Info("modules registered", "count", len(reg.ListAll()), "active", len(reg.ListActive()))

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           httpapi.NewHandler(reg, log.WithField("subsystem", "httpapi"), m),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("shell listening", "addr", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.LoadOrDefault(), nil
}

func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("ATRIUM_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("ATRIUM_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("ATRIUM_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("ATRIUM_ASSISTANT_GATEWAY_URL"); v != "" {
		cfg.AssistantGatewayURL = v
	}
	if v := os.Getenv("ATRIUM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// buildModules opens the shared backing stores and constructs every
// shipped module. Registration order is the default listing order;
// modules disabled in config still register (inactive) so the shell can
// show them as planned.
func buildModules(cfg *config.Config, log *logger.Logger) ([]modules.Module, func(), error) {
	var closers []func()
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	var db *sqlx.DB
	if cfg.PostgresDSN != "" {
		var err error
		db, err = sqlx.Connect("postgres", cfg.PostgresDSN)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = db.Close() })
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		closers = append(closers, func() { _ = rdb.Close() })
	}

	mods := []modules.Module{dashboard.New()}
	if db != nil {
		mods = append(mods,
			files.New(files.NewStore(db)),
			mail.New(mail.NewStore(db)),
		)
	} else {
		log.Warn("postgres not configured; files, mail and calendar modules skipped")
	}
	if rdb != nil {
		mods = append(mods, chat.New(chat.NewRedisStore(rdb)))
	} else {
		log.Warn("redis not configured; chat module skipped")
	}
	if db != nil {
		mods = append(mods, calendar.New(calendar.NewStore(db)))
	}
	mods = append(mods, assistant.New(cfg.AssistantGatewayURL))

	return mods, closeAll, nil
}
