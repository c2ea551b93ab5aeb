package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/excelvision/excelvision/internal/auth"
	"github.com/excelvision/excelvision/internal/chart"
	"github.com/excelvision/excelvision/internal/config"
	"github.com/excelvision/excelvision/internal/middleware"
	"github.com/excelvision/excelvision/internal/stats"
	"github.com/excelvision/excelvision/internal/store"
	"github.com/excelvision/excelvision/internal/upload"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pgPool.Close()
	uploadStore := store.NewUploadStore(pgPool)
	if err := uploadStore.Migrate(ctx); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	mongoDB := mongoClient.Database(cfg.MongoDB)
	userStore := store.NewUserStore(mongoDB)
	datasetStore := store.NewDatasetStore(mongoDB)

	// ── Redis ────────────────────────────────────────────────
	rdb, err := stats.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()
	statsStore := stats.NewStore(rdb)

	// ── MinIO ────────────────────────────────────────────────
	workbookStore, err := store.NewWorkbookStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("minio connect: %v", err)
	}

	// ── Handlers ─────────────────────────────────────────────
	tokens := auth.NewTokenIssuer(cfg.JWTSecret)
	authHandler := auth.NewHandler(userStore, tokens)
	uploadHandler := upload.NewHandler(datasetStore, workbookStore, uploadStore, statsStore, cfg.PersistUploads)
	chartHandler := chart.NewHandler(statsStore)
	statsHandler := stats.NewHandler(statsStore)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.With(middleware.RequireAuth(tokens)).Get("/me", authHandler.Me)
	})

	// Upload + chart routes; bearer auth is a deployment choice.
	requireAuth := middleware.RequireAuth(tokens)
	r.Group(func(r chi.Router) {
		if cfg.UploadRequireAuth {
			r.Use(requireAuth)
		}
		r.Post("/upload", uploadHandler.Upload)
		r.Get("/upload/view/{filename}", uploadHandler.View)
		r.Post("/chart/render", chartHandler.Render)
		r.Post("/chart/3d", chartHandler.Scene3D)
	})
	r.With(requireAuth).Get("/upload/history", uploadHandler.History)

	// Stats (public)
	r.Get("/stats", statsHandler.Get)
	r.Post("/stats/visit", statsHandler.Visit)

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
	}

	go func() {
		log.Printf("Backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
