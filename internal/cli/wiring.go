package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"online-judge/internal/app"
	"online-judge/internal/catalog"
	"online-judge/internal/config"
	"online-judge/internal/infra/memory"
	pgcatalog "online-judge/internal/infra/postgres"
	redisinfra "online-judge/internal/infra/redis"
	"online-judge/internal/logging"
	"online-judge/internal/registry"
)

// runtime is the wired core plus whatever needs closing on exit.
type runtime struct {
	cfg     config.Config
	log     *logrus.Logger
	service *app.JudgeService
	closers []func()
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

func bootstrap(ctx context.Context, configPath string) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)
	rt := &runtime{cfg: cfg, log: log}

	backend, err := rt.catalogBackend(ctx)
	if err != nil {
		rt.Close()
		return nil, err
	}
	store := catalog.NewStore(backend, log)
	if _, err := store.Load(ctx); err != nil {
		rt.Close()
		return nil, err
	}

	var sessions app.SessionTracker = memory.NewSessionTracker()
	var publisher app.LeaderboardPublisher
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rt.closers = append(rt.closers, func() { _ = client.Close() })
		ttl := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
		sessions = redisinfra.NewSessionTracker(client, ttl)
		publisher = redisinfra.NewLeaderboardMirror(client, cfg.Redis.LeaderboardKey, ttl)
		log.WithField("addr", cfg.Redis.Addr).Info("redis session tracking and leaderboard mirror enabled")
	}

	rt.service = app.NewJudgeService(app.Deps{
		Catalog:   store,
		Users:     registry.New(log),
		Admin:     app.NewAdminGate(cfg.Admin.Secret, cfg.Admin.SecretHash),
		Sessions:  sessions,
		Publisher: publisher,
		Log:       log,
	})
	return rt, nil
}

func (r *runtime) catalogBackend(ctx context.Context) (catalog.Backend, error) {
	switch r.cfg.Catalog.Backend {
	case "", "file":
		r.log.WithField("path", r.cfg.Catalog.Path).Info("using file catalog")
		return catalog.NewFileBackend(r.cfg.Catalog.Path, catalog.ParsePolicy(r.cfg.Catalog.OnMalformed), r.log), nil
	case "memory":
		return memory.NewCatalog(), nil
	case "postgres":
		if r.cfg.Postgres.URL == "" {
			return nil, fmt.Errorf("postgres url not configured")
		}
		if err := runMigrationsWithConfig(ctx, r.cfg, r.log); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, r.cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		r.closers = append(r.closers, pool.Close)
		return pgcatalog.NewCatalog(pool), nil
	default:
		return nil, fmt.Errorf("unknown catalog backend %q", r.cfg.Catalog.Backend)
	}
}
