package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"net/url"
	"time"

	_ "github.com/lib/pq"
	zlog "github.com/rs/zerolog/log"

	"github.com/dkomarev/afisha/internal/application/category"
	"github.com/dkomarev/afisha/internal/application/comment"
	"github.com/dkomarev/afisha/internal/application/compilation"
	"github.com/dkomarev/afisha/internal/application/event"
	"github.com/dkomarev/afisha/internal/application/request"
	"github.com/dkomarev/afisha/internal/application/user"
	"github.com/dkomarev/afisha/internal/config"
	"github.com/dkomarev/afisha/internal/domain"
	rediscache "github.com/dkomarev/afisha/internal/infrastructure/caching/redis"
	"github.com/dkomarev/afisha/internal/infrastructure/db/postgres"
	rabbitpub "github.com/dkomarev/afisha/internal/infrastructure/messaging/rabbitmq"
	"github.com/dkomarev/afisha/internal/infrastructure/stats"
	"github.com/dkomarev/afisha/internal/logger"
	"github.com/dkomarev/afisha/internal/transport/http/handlers"
	authmw "github.com/dkomarev/afisha/internal/transport/http/middleware"
	"github.com/dkomarev/afisha/internal/transport/http/router"
)

// App holds the process-wide dependencies.
type App struct {
	Config *config.Config
	Server *http.Server
	DB     *sql.DB

	Publisher *rabbitpub.Publisher
	Cache     *rediscache.Client
}

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	u, _ := url.Parse(cfg.DatabaseURL)
	zlog.Info().
		Str("db_user", u.User.Username()).
		Str("db_host", u.Host).
		Str("db_db", u.Path).
		Msg("db config loaded")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("db open failed")
	}
	defer db.Close()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			zlog.Fatal().Err(err).Msg("db ping failed")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := NewApp(ctx, cfg, db)
	defer func() {
		if app.Publisher != nil {
			_ = app.Publisher.Close()
		}
		if app.Cache != nil {
			_ = app.Cache.Close()
		}
	}()

	zlog.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
	if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Fatal().Err(err).Msg("server crashed")
	}
}

func NewApp(ctx context.Context, cfg *config.Config, db *sql.DB) *App {
	// 1) Infrastructure
	eventStore := postgres.NewEventStore(db)
	requestStore := postgres.NewRequestStore(db)
	categoryStore := postgres.NewCategoryStore(db)
	userStore := postgres.NewUserStore(db)
	commentStore := postgres.NewCommentStore(db)
	compilationStore := postgres.NewCompilationStore(db)

	var rabbit *rabbitpub.Publisher
	var pub event.EventPublisher = event.NoopPublisher{}
	if cfg.RabbitURL != "" {
		p, err := rabbitpub.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			zlog.Fatal().Err(err).Msg("rabbit publisher init failed")
		}
		rabbit = p
		pub = p
		zlog.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbit publisher ready")
	} else {
		zlog.Warn().Msg("RABBIT_URL empty: lifecycle events will not be published")
	}
	eventStore.StartOutboxWorker(ctx, pub)

	var cache *rediscache.Client
	var eventCache event.Cache
	if cfg.RedisURL != "" {
		c, err := rediscache.New(cfg.RedisURL)
		if err != nil {
			zlog.Warn().Err(err).Msg("redis unavailable, caching disabled")
		} else {
			cache = c
			eventCache = c
		}
	}

	var statsReader event.StatsReader
	if cfg.StatsURL != "" {
		statsReader = stats.New(cfg.StatsURL, cfg.StatsApp, cfg.StatsTimeout)
	} else {
		zlog.Warn().Msg("STATS_URL empty: views degrade to zero")
	}

	clock := domain.SysClock{}

	// 2) Application
	eventSvc := event.New(eventStore, requestStore, categoryStore, userStore,
		statsReader, eventCache, clock, cfg.CacheTTLDetails)
	requestSvc := request.New(requestStore, userStore, clock)
	commentSvc := comment.New(commentStore, eventStore, userStore, requestStore, clock)
	categorySvc := category.New(categoryStore)
	userSvc := user.New(userStore)
	compilationSvc := compilation.New(compilationStore, eventStore)

	// 3) Transport
	h := router.Handlers{
		Events:       handlers.NewEventsHandler(eventSvc),
		Requests:     handlers.NewRequestsHandler(requestSvc),
		Comments:     handlers.NewCommentsHandler(commentSvc),
		Categories:   handlers.NewCategoriesHandler(categorySvc),
		Users:        handlers.NewUsersHandler(userSvc),
		Compilations: handlers.NewCompilationsHandler(compilationSvc),
		Health:       handlers.NewHealthHandler(),
	}
	auth := authmw.NewAuth(cfg.JWTSecret, cfg.JWTIssuer)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router.New(h, auth, cfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &App{
		Config:    cfg,
		Server:    srv,
		DB:        db,
		Publisher: rabbit,
		Cache:     cache,
	}
}
