package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dongaltd/dongpay-bot/internal/bot"
	"github.com/dongaltd/dongpay-bot/internal/database"
	"github.com/dongaltd/dongpay-bot/internal/deposit"
	apperrors "github.com/dongaltd/dongpay-bot/internal/errors"
	"github.com/dongaltd/dongpay-bot/internal/flow"
	"github.com/dongaltd/dongpay-bot/internal/health"
	"github.com/dongaltd/dongpay-bot/internal/i18n"
	"github.com/dongaltd/dongpay-bot/internal/idempotency"
	"github.com/dongaltd/dongpay-bot/internal/ledger"
	"github.com/dongaltd/dongpay-bot/internal/middleware"
	"github.com/dongaltd/dongpay-bot/internal/payment"
	"github.com/dongaltd/dongpay-bot/internal/profile"
	"github.com/dongaltd/dongpay-bot/internal/ratelimit"
	"github.com/dongaltd/dongpay-bot/internal/state"
	"github.com/dongaltd/dongpay-bot/pkg/config"
	"github.com/dongaltd/dongpay-bot/pkg/graceful"
	"github.com/dongaltd/dongpay-bot/pkg/logger"
	"github.com/dongaltd/dongpay-bot/pkg/metrics"
	appredis "github.com/dongaltd/dongpay-bot/pkg/redis"

	_ "github.com/lib/pq"
)

const dedupTTL = 24 * time.Hour

func main() {
	if err := run(); err != nil {
		slog.Error("bot exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			return err
		}
		defer sentry.Flush(cfg.Server.ShutdownTimeout)
	}

	log := logger.New(*cfg)
	log.Info("starting dongpay bot",
		slog.String("env", cfg.AppEnv),
		slog.String("mode", cfg.Bot.Mode),
		slog.String("http_port", cfg.Server.Port),
	)

	config.Watch(v, log, func(updated *config.Config) {
		log.Info("runtime config updated, restart to apply transport changes")
	})

	checker := health.NewChecker(log)

	var redisClient *appredis.Client
	if cfg.Redis.Enabled {
		if err := apperrors.WithRetry(ctx, func() error {
			redisClient, err = appredis.New(ctx, cfg.Redis)
			return err
		}); err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()
		checker.AddCheck("redis", health.NewRedisChecker(redisClient))
	}

	var db *sql.DB
	if cfg.Database.Enabled {
		db, err = sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := apperrors.WithRetry(ctx, func() error {
			return db.PingContext(ctx)
		}); err != nil {
			return err
		}

		migrator := database.NewMigrator(db, log)
		if err := migrator.ApplyDir(ctx, "migrations"); err != nil {
			return err
		}

		checker.AddCheck("database", health.NewDBChecker(db))
	}

	var rawRedis *goredis.Client
	if redisClient != nil {
		rawRedis = redisClient.Client
	}

	var storage state.Storage
	if rawRedis != nil {
		storage = state.NewRedisStorage(rawRedis, log, cfg.Deposit.SessionTTL)
	} else {
		storage = state.NewMemoryStorage()
	}

	machine := state.NewMachine(storage, log, rawRedis)
	go state.NewCleaner(machine, log, cfg.Deposit.SessionTTL, cfg.Deposit.SessionTTL/4).Run(ctx)
	go metrics.NewPhaseCollector(machine).Run(ctx)

	var profileRepo profile.Repository
	if db != nil {
		profileRepo = profile.NewPostgresRepository(db, log)
	} else {
		profileRepo = profile.NewMemoryRepository()
	}

	var profileCache *profile.Cache
	if rawRedis != nil {
		profileCache = profile.NewCache(rawRedis)
	}
	profiles := profile.NewService(profileRepo, profileCache, log)

	var recorder ledger.Recorder = ledger.Noop{}
	if db != nil {
		recorder = ledger.NewPostgresLedger(db, log)
	}

	gateway := payment.NewTinPesaClient(cfg.Gateway, log)

	catalog, err := i18n.Load(cfg.I18N.Dir, cfg.I18N.DefaultLang)
	if err != nil {
		return err
	}
	log.Info("i18n catalog loaded",
		slog.Any("languages", catalog.Languages()),
		slog.String("default", cfg.I18N.DefaultLang))

	engine := flow.NewEngine(
		machine,
		deposit.AmountRule{Min: cfg.Deposit.MinAmount},
		deposit.PhoneRule{Length: cfg.Deposit.PhoneLength, Prefix: cfg.Deposit.PhonePrefix},
		gateway,
		profiles,
		recorder,
		catalog,
		log,
	)

	var rateLimitMw *middleware.RateLimitMiddleware
	if cfg.RateLimit.Enabled {
		var limiter ratelimit.Limiter
		if rawRedis != nil {
			limiter = ratelimit.NewRedisLimiter(rawRedis, cfg.RateLimit.PerUser, cfg.RateLimit.Window, log)
		} else {
			limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.PerUser, cfg.RateLimit.Window, log)
		}
		rateLimitMw = middleware.NewRateLimitMiddleware(limiter, cfg.RateLimit, log)
	}

	var dedup idempotency.Deduplicator
	if rawRedis != nil {
		dedup = idempotency.NewRedisDeduplicator(rawRedis, dedupTTL, log)
	} else {
		dedup = idempotency.NewMemoryDeduplicator(dedupTTL)
	}

	tgBot, err := bot.New(*cfg, log, engine, catalog, rateLimitMw, dedup)
	if err != nil {
		return err
	}
	checker.AddCheck("telegram", health.NewTelegramChecker(tgBot.Telebot()))

	go func() {
		<-ctx.Done()
		tgBot.Stop()
	}()
	go tgBot.Start()

	mux := http.NewServeMux()
	mux.Handle("/", health.BannerHandler())
	mux.Handle("/healthz", health.Handler(checker, log))
	mux.Handle("/metrics", promhttp.Handler())

	httpLog := middleware.HTTPLogging(log)
	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: logger.Middleware(httpLog(mux)),
	}

	return graceful.NewServer(log, srv, cfg.Server.ShutdownTimeout).ListenAndServe(ctx)
}
