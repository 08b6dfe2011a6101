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
	"github.com/rs/zerolog/log"

	"github.com/flocknet/flocknet-api/internal/config"
	"github.com/flocknet/flocknet-api/internal/domain/block"
	"github.com/flocknet/flocknet-api/internal/domain/follow"
	"github.com/flocknet/flocknet-api/internal/domain/friend"
	"github.com/flocknet/flocknet-api/internal/domain/notify"
	"github.com/flocknet/flocknet-api/internal/domain/user"
	"github.com/flocknet/flocknet-api/internal/middleware"
	"github.com/flocknet/flocknet-api/internal/pkg/database"
	"github.com/flocknet/flocknet-api/internal/pkg/jwt"
	"github.com/flocknet/flocknet-api/internal/pkg/logger"
	pkgresponse "github.com/flocknet/flocknet-api/internal/pkg/response"
)

const summaryCacheTTL = 5 * time.Minute

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Flocknet API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- WebSocket hub ----------
	hub := notify.NewHub(redis)
	go hub.Run()
	defer hub.Shutdown()

	// ---------- Repositories ----------
	directory := user.NewCachedDirectory(user.NewRepository(db), redis, summaryCacheTTL)
	followRepo := follow.NewRepository(db)
	blockRepo := block.NewRepository(db)
	friendRepo := friend.NewRepository(db)

	// ---------- Services ----------
	followService := follow.NewService(followRepo, directory, hub)
	blockService := block.NewService(blockRepo, followRepo, directory)
	friendService := friend.NewService(friendRepo, directory, hub, cfg.SuggestionCandidateCap)

	// ---------- Handlers ----------
	userHandler := user.NewHandler(directory, followService, blockService, friendService)
	followHandler := follow.NewHandler(followService)
	blockHandler := block.NewHandler(blockService)
	friendHandler := friend.NewHandler(friendService)
	notifyHandler := notify.NewHandler(hub, cfg.AllowedOrigins)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint; browsers cannot set headers on the upgrade
	// request, so the token may arrive as a query parameter
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(notifyHandler.WebSocket)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Mount("/users", userHandler.Routes(authMiddleware))
		r.Mount("/follows", followHandler.Routes(authMiddleware))
		r.Mount("/blocks", blockHandler.Routes(authMiddleware))
		r.Mount("/friends", friendHandler.Routes(authMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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
