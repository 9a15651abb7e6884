// jobsearch: location-aware job search service.
//
// Serves ranked Adzuna searches and the application tracker over HTTP and
// gRPC, and refreshes the job feed of saved searches on a cron schedule.
// Search and tracker events go to Redis pub/sub or a RabbitMQ exchange.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"

	"rezzai/jobsearch/internal/config"
	"rezzai/jobsearch/internal/db"
	"rezzai/jobsearch/internal/events"
	"rezzai/jobsearch/internal/feed"
	"rezzai/jobsearch/internal/grpcserver"
	"rezzai/jobsearch/internal/kanban"
	"rezzai/jobsearch/internal/scheduler"
	"rezzai/jobsearch/internal/scraper"
	"rezzai/jobsearch/internal/search"
	"rezzai/jobsearch/internal/store"
)

const (
	version = "1.0.0"

	// scrapeMaxPages bounds how many provider pages one saved-search pair pulls.
	scrapeMaxPages = 3
)

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[jobsearch] .env not loaded: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[jobsearch] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Store ────────────────────────────────────────────────────────────────
	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("[jobsearch] Store: %v", err)
	}
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		log.Fatalf("[jobsearch] Migrate: %v", err)
	}
	log.Printf("[jobsearch] %s store ready", cfg.StoreDriver)

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[jobsearch] Connecting to Redis...")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[jobsearch] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[jobsearch] Redis connected")

	// ── Events ───────────────────────────────────────────────────────────────
	var pub events.Publisher = events.NewRedisPublisher(rdb)
	if cfg.EventsBackend == config.EventsAMQP {
		mq, err := events.DialAMQP(cfg.RabbitMQURL, events.DefaultExchange)
		if err != nil {
			log.Fatalf("[jobsearch] RabbitMQ: %v", err)
		}
		defer mq.Close()
		pub = mq
		log.Printf("[jobsearch] Publishing events to exchange %s", events.DefaultExchange)
	}

	// ── Services ─────────────────────────────────────────────────────────────
	fetcher := scraper.NewAdzunaFetcher(cfg.AdzunaAppID, cfg.AdzunaAppKey)
	normalizer := scraper.NewNormalizer(scraper.DefaultFields())

	var cache search.Cache
	if cfg.SearchCacheTTL > 0 {
		cache = search.NewRedisCache(rdb, cfg.SearchCacheTTL)
	}
	searchSvc := search.NewService(fetcher, normalizer, cache, pub, cfg.ResultsPerPage)
	tracker := kanban.NewService(st, pub)

	worker := scraper.NewWorker(st, fetcher, normalizer, cfg.ResultsPerPage, scrapeMaxPages)
	sched := scheduler.New(st, worker, cfg.ScrapeIntervalHours)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[jobsearch] Scheduler: %v", err)
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	search.NewHandler(searchSvc).RegisterRoutes(mux)
	kanban.NewHandler(tracker).RegisterRoutes(mux)
	feed.NewHandler(feed.NewService(st, worker)).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("[jobsearch] v%s HTTP listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[jobsearch] HTTP server error: %v", err)
		}
	}()

	// ── gRPC server ──────────────────────────────────────────────────────────
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.Fatalf("[jobsearch] gRPC listen: %v", err)
	}
	gs := grpc.NewServer()
	grpcserver.Register(gs, grpcserver.NewServer(searchSvc, tracker))

	go func() {
		log.Printf("[jobsearch] gRPC listening on :%s", cfg.GRPCPort)
		if err := gs.Serve(lis); err != nil {
			log.Fatalf("[jobsearch] gRPC server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[jobsearch] Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[jobsearch] Shutdown error: %v", err)
	}
	gs.GracefulStop()
	sched.Stop()
	log.Println("[jobsearch] Stopped.")
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.StoreDriver == config.DriverSQLite {
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store.NewSQLite(conn), nil
	}

	log.Println("[jobsearch] Connecting to PostgreSQL...")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return store.NewPostgres(pool), nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "jobsearch",
		"version": version,
	})
}
