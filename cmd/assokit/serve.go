package main

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/assokit/assokit/pkg/audit"
	"github.com/assokit/assokit/pkg/broadcast"
	"github.com/assokit/assokit/pkg/httpserver"
	"github.com/assokit/assokit/pkg/logger"
	"github.com/assokit/assokit/pkg/orgchart"
	"github.com/assokit/assokit/pkg/pg"
	"github.com/assokit/assokit/pkg/rbac"
	"github.com/assokit/assokit/pkg/rbac/httpapi"
	"github.com/assokit/assokit/pkg/rbac/pgstore"
	"github.com/assokit/assokit/pkg/rbac/redislock"
	"github.com/assokit/assokit/pkg/rbac/redissync"
	"github.com/assokit/assokit/pkg/redis"
	"github.com/assokit/assokit/pkg/requestid"
	"github.com/assokit/assokit/pkg/tenant"
)

func runServe(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()
	store := pgstore.New(pool)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := rbac.NewMetrics(reg)

	events := broadcast.NewMemoryBroadcaster[rbac.Event](broadcast.WithOnDrop(func() {
		log.WarnContext(ctx, "Audit subscriber is falling behind; event dropped")
	}))
	auditSub := events.Subscribe(ctx)
	auditLog := audit.NewLogger(store, audit.WithHasher(audit.NewSHA256Hasher()))
	auditListener := rbac.NewAuditListener(auditLog, log)

	publishers := rbac.MultiPublisher{rbac.BroadcastPublisher{Broadcaster: events}}
	engineOpts := []rbac.Option{rbac.WithLogger(log), rbac.WithMetrics(metrics)}
	if cfg.RBAC.StrictMandatoryRoles {
		engineOpts = append(engineOpts, rbac.WithStrictMandatoryRoles())
	}
	checks := map[string]httpserver.Check{"postgres": pg.Healthcheck(pool)}

	var redisClient *goredis.Client
	if cfg.RBAC.RedisLock {
		redisClient, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		engineOpts = append(engineOpts, rbac.WithLocker(redislock.New(redisClient, redislock.WithTTL(cfg.RBAC.LockTTL))))
		publishers = append(publishers, redissync.NewNotifier(redisClient, ""))
		checks["redis"] = redis.Healthcheck(redisClient)
	}
	engine := rbac.New(store, append(engineOpts, rbac.WithPublisher(publishers))...)

	chart := orgchart.NewManager(store, engine)
	api := httpapi.New(engine, chart, httpapi.WithLogger(log), httpapi.WithMetrics(metrics))

	r := chi.NewRouter()
	r.Use(middleware.RealIP, requestid.Middleware, middleware.Recoverer)
	r.Get("/livez", httpserver.Liveness())
	r.Get("/readyz", httpserver.Readiness(log, checks))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Group(func(r chi.Router) {
		r.Use(tenant.Middleware(
			tenant.NewHeaderResolver(cfg.RBAC.TenantHeader),
			engine,
			tenant.WithCacheTTL(cfg.RBAC.TenantCacheTTL),
			tenant.WithLogger(log),
		))
		r.Use(tenant.RequireAssociation(nil))
		r.Use(httpapi.MemberFromHeader(cfg.RBAC.MemberHeader))
		api.MountRoutes(r)
	})

	srv := httpserver.New(cfg.HTTP, r, httpserver.WithLogger(log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error {
		auditListener.Listen(gctx, auditSub)
		return nil
	})
	if redisClient != nil {
		listener := redissync.NewListener(redisClient, "", engine, log)
		g.Go(func() error { return listener.Run(gctx, nil) })
	}

	log.InfoContext(ctx, "Serving rbac API",
		slog.String("addr", cfg.HTTP.Addr),
		slog.Bool("redis_lock", cfg.RBAC.RedisLock),
		slog.Bool("strict_mandatory_roles", cfg.RBAC.StrictMandatoryRoles),
	)
	err = g.Wait()
	if cerr := events.Close(); cerr != nil {
		log.WarnContext(ctx, "Failed to close event broadcaster", logger.Error(cerr))
	}
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
