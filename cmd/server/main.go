// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/redis/go-redis/v9"

	"pdf-ocr.com/config"
	"pdf-ocr.com/fetcher"
	"pdf-ocr.com/handlers"
	"pdf-ocr.com/logging"
	"pdf-ocr.com/ocr"
	"pdf-ocr.com/scraper"
	"pdf-ocr.com/storage"
	"pdf-ocr.com/summarizer"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []ocr.Option{
		ocr.WithTmpDir(cfg.Parser.TmpDir),
		ocr.WithFetcher(fetcher.New(cfg.Fetch.Timeout, cfg.Server.BodyLimitBytes)),
	}

	var reports *handlers.Reports
	if cfg.Firestore.Project != "" {
		client, err := firestore.NewClientWithDatabase(ctx, cfg.Firestore.Project, cfg.Firestore.Database)
		if err != nil {
			sugar.Fatalw("failed to connect to Firestore", "error", err)
		}
		defer client.Close()
		store := storage.NewFirestoreReports(client)
		opts = append(opts, ocr.WithReports(store))
		reports = handlers.NewReports(store, logger)
		sugar.Infow("extraction reports enabled", "project", cfg.Firestore.Project, "database", cfg.Firestore.Database)
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			sugar.Warnw("redis unreachable, cache stays enabled and will retry per request", "addr", cfg.Redis.Addr, "error", err)
		}
		opts = append(opts, ocr.WithCache(storage.NewRedisCache(rdb,
			storage.WithPrefix(cfg.Redis.Prefix),
			storage.WithTTL(cfg.Redis.TTL),
		)))
		sugar.Infow("text cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	if cfg.OpenAI.APIKey != "" {
		opts = append(opts, ocr.WithSummarizer(summarizer.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Model)))
		sugar.Infow("summaries enabled", "model", cfg.OpenAI.Model)
	}

	svc := ocr.NewService(newParser(cfg.Parser), logger, opts...)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handlers.NewRouter(handlers.NewOCR(svc, logger, cfg.Server.BodyLimitBytes), reports),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sugar.Infof("✅ OCR API running on :%s (parser=%s)", cfg.Server.Port, cfg.Parser.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("graceful shutdown failed", "error", err)
	}
}

func newParser(cfg config.ParserConfig) scraper.Parser {
	if cfg.Name == config.ParserPdf2JSON {
		return scraper.Pdf2JSONParser{Binary: cfg.Pdf2JSONBin, TmpDir: cfg.TmpDir}
	}
	return scraper.LedongthucParser{}
}
