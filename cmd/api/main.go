package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/pawpals/pawpals-api/internal/config"
	"github.com/pawpals/pawpals-api/internal/domain/comment"
	"github.com/pawpals/pawpals-api/internal/domain/keyword"
	"github.com/pawpals/pawpals-api/internal/domain/match"
	"github.com/pawpals/pawpals-api/internal/domain/membership"
	"github.com/pawpals/pawpals-api/internal/domain/moderation"
	"github.com/pawpals/pawpals-api/internal/domain/relation"
	"github.com/pawpals/pawpals-api/internal/domain/resolver"
	"github.com/pawpals/pawpals-api/internal/middleware"
	"github.com/pawpals/pawpals-api/internal/pkg/database"
	"github.com/pawpals/pawpals-api/internal/pkg/jwt"
	"github.com/pawpals/pawpals-api/internal/pkg/logger"
	"github.com/pawpals/pawpals-api/internal/pkg/metrics"
	"github.com/pawpals/pawpals-api/internal/pkg/notify"
	pkgresponse "github.com/pawpals/pawpals-api/internal/pkg/response"
)

const requestTimeout = 30 * time.Second

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
	})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting PawPals API")

	if cfg.MigrateOnStart {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	pool := database.DefaultPool
	pool.MaxOpenConns = cfg.DBMaxOpenConns
	pool.MaxIdleConns = cfg.DBMaxIdleConns

	db, err := database.NewPostgres(cfg.DatabaseURL, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without resolver cache and notifications")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	app := newApp(cfg, db, redisClient)
	defer app.dispatcher.Wait()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.router(middleware.Auth(jwtService), cfg.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // notification stream connections are long-lived
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// app holds the wired handlers of the relationship services.
type app struct {
	db         *sqlx.DB
	dispatcher *notify.Dispatcher

	keywords    *keyword.Handler
	comments    *comment.Handler
	moderation  *moderation.Handler
	memberships *membership.Handler
	matches     *match.Handler
	purge       *relation.PurgeHandler
	stream      *notify.Stream
}

// newApp wires repositories, services and handlers. redisClient may be nil, in which
// case entity lookups are not cached and notifications are dropped.
func newApp(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client) *app {
	// ---------- Entity resolver ----------
	sqlResolver := resolver.NewSQLResolver(db, resolver.DefaultTables)
	var res resolver.Resolver = sqlResolver
	var afterPurge []func(ctx context.Context, target relation.Target) error

	// ---------- Notifications ----------
	var notifier notify.Notifier = notify.Nop{}

	if redisClient != nil {
		cached := resolver.NewCachedResolver(sqlResolver, redisClient, cfg.ResolverCacheTTL)
		res = cached
		afterPurge = append(afterPurge, cached.Invalidate)
		notifier = notify.NewRedisPublisher(redisClient)
	}
	dispatcher := notify.NewDispatcher(notifier, cfg.NotifyTimeout)

	// ---------- Repositories ----------
	relations := relation.NewStore(db)
	keywordRepo := keyword.NewRepository(db)
	moderationRepo := moderation.NewRepository(db)
	membershipRepo := membership.NewRepository(db)
	matchRepo := match.NewRepository(db)

	// Relations go first: moderation rows on a user's comments must be gone before
	// the comments themselves.
	cascade := relation.NewCascade(db, relations, membershipRepo, matchRepo)

	// ---------- Services ----------
	keywordService := keyword.NewService(db, keywordRepo, relations, res)
	commentService := comment.NewService(relations, res)
	moderationService := moderation.NewService(relations, moderationRepo, res, dispatcher)
	membershipService := membership.NewService(db, membershipRepo, res, dispatcher)
	matchService := match.NewService(db, matchRepo, res, dispatcher)

	return &app{
		db:          db,
		dispatcher:  dispatcher,
		keywords:    keyword.NewHandler(keywordService),
		comments:    comment.NewHandler(commentService),
		moderation:  moderation.NewHandler(moderationService),
		memberships: membership.NewHandler(membershipService, membership.NewRolePolicy(membershipRepo)),
		matches:     match.NewHandler(matchService),
		purge:       relation.NewPurgeHandler(cascade, afterPurge...),
		stream:      notify.NewStream(redisClient, cfg.AllowedOrigins),
	}
}

func (a *app) router(authMiddleware func(http.Handler) http.Handler, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(allowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := a.db.PingContext(ctx); err != nil {
			pkgresponse.Error(w, http.StatusServiceUnavailable, "UNHEALTHY", "Database unavailable")
			return
		}
		pkgresponse.OK(w, map[string]string{
			"status": "ok",
		})
	})
	r.Handle("/metrics", metrics.Handler())

	// WebSocket endpoint, outside the request timeout
	r.With(authMiddleware).Get("/ws/notifications", a.stream.ServeHTTP)

	adminOnly := middleware.RequireAdmin()

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Mount("/keywords", a.keywords.KeywordRoutes(authMiddleware, adminOnly))
		r.Mount("/tags", a.keywords.TagRoutes(authMiddleware))
		r.Mount("/comments", a.comments.Routes(authMiddleware))
		r.Mount("/moderation", a.moderation.Routes(authMiddleware, adminOnly))
		r.Mount("/groups", a.memberships.GroupRoutes(authMiddleware))
		r.Mount("/memberships", a.memberships.Routes(authMiddleware))
		r.Mount("/matches", a.matches.Routes(authMiddleware))

		r.Route("/users", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/me/memberships", a.memberships.Mine)
			r.Get("/{id}/comments", a.comments.ListByAuthor)
		})
	})

	// Service-to-service routes for the services owning users, dogs, groups and walks
	r.Route("/internal", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(authMiddleware)
		r.Use(middleware.RequireService())

		r.Mount("/groups", a.memberships.InternalRoutes())
		r.Mount("/entities", a.purge.Routes())
	})

	return r
}
