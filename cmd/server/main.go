package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	_ "github.com/jackc/pgx/v5/stdlib"

	"store-route-optimizer/internal/adapters/cache"
	"store-route-optimizer/internal/adapters/repositories"
	"store-route-optimizer/internal/adapters/solver"
	"store-route-optimizer/internal/api"
	"store-route-optimizer/internal/config"
	"store-route-optimizer/internal/platform/db"
	"store-route-optimizer/internal/ports"
	"store-route-optimizer/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, LKH, Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found (using environment variables)")
	}

	if level, err := logrus.ParseLevel(config.Get("LOG_LEVEL", "info")); err == nil {
		logrus.SetLevel(level)
	}

	port := config.Get("PORT", "8080")
	cachePrefix := config.Get("PATH_CACHE_PREFIX", "data/cache/layout")

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		logrus.Fatal("DATABASE_URL is required")
	}

	pg, err := db.Open(databaseURL)
	if err != nil {
		logrus.Fatal(err)
	}
	defer pg.Close()

	repo := repositories.NewPostgresLayoutRepository(pg)

	// External solver first, deterministic nearest-neighbor as the
	// guaranteed fallback.
	lkh := solver.NewLKH(
		config.Get("LKH_BINARY", "LKH"),
		config.GetDuration("LKH_TIME_LIMIT", 30*time.Second),
	)

	deps := services.OptimizeDeps{
		Repo:      repo,
		PathCache: cache.NewJPSFileCache(cachePrefix),
		Backends:  []ports.TourSolverBackend{lkh, solver.NewNearestNeighbor()},
	}

	// Result caching is optional; without Redis every request recomputes.
	if addr := os.Getenv("REDIS_ADDR"); strings.TrimSpace(addr) != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		ttl := config.GetDuration("RESULT_CACHE_TTL", 15*time.Minute)
		deps.ResultCache = cache.NewRedisResultCache(client, ttl)
	}

	router := api.NewRouter(deps)

	// Timeouts are tuned for cold-cache optimization runs (LKH may use its
	// full time limit before the fallback kicks in).
	logrus.Infof("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	logrus.Fatal(srv.ListenAndServe())
}
