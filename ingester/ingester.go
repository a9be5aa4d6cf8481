// ingester/ingester.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pdf-ocr.com/common"
	"pdf-ocr.com/config"
	"pdf-ocr.com/logging"
	"pdf-ocr.com/ocr"
	"pdf-ocr.com/scraper"
)

type summary struct {
	ok, failed int64
}

func main() {
	cfg := config.Load()
	dir := flag.String("dir", ".", "directory holding *.pdf and *.b64 files")
	workers := flag.Int("workers", cfg.Ingest.Workers, "number of concurrent workers")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var parser scraper.Parser = scraper.LedongthucParser{}
	if cfg.Parser.Name == config.ParserPdf2JSON {
		parser = scraper.Pdf2JSONParser{Binary: cfg.Parser.Pdf2JSONBin, TmpDir: cfg.Parser.TmpDir}
	}
	svc := ocr.NewService(parser, logger, ocr.WithTmpDir(cfg.Parser.TmpDir))

	res, err := run(ctx, svc, *dir, *workers, logger)
	if err != nil {
		logger.Sugar().Fatalw("ingest failed", "error", err)
	}
	logger.Sugar().Infof("✅ Batch processing complete: %d ok, %d failed", res.ok, res.failed)
	if res.failed > 0 {
		logger.Sync()
		os.Exit(1)
	}
}

// run extracts every input under dir with at most workers files in flight.
// A failing file is logged and counted; it does not stop the batch.
func run(ctx context.Context, svc *ocr.Service, dir string, workers int, logger *zap.Logger) (summary, error) {
	if workers <= 0 {
		return summary{}, fmt.Errorf("workers must be positive, got %d", workers)
	}
	sugar := logger.Sugar()
	files, err := collect(dir)
	if err != nil {
		return summary{}, err
	}
	sugar.Infof("Processing %d documents with %d workers...", len(files), workers)

	var ok, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range files {
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := processFile(gctx, svc, path); err != nil {
				failed.Add(1)
				sugar.Errorw("❌ extraction failed", "file", filepath.Base(path), "code", common.CodeOf(err), "error", err)
				return nil
			}
			ok.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary{}, err
	}
	return summary{ok: ok.Load(), failed: failed.Load()}, nil
}

func collect(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".pdf", ".b64":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// processFile writes <name>.txt next to path.
func processFile(ctx context.Context, svc *ocr.Service, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	req := ocr.Request{FileName: filepath.Base(path)}
	var res ocr.Result
	if strings.EqualFold(filepath.Ext(path), ".b64") {
		req.Base64 = string(data)
		res, err = svc.FromBase64(ctx, req)
	} else {
		req.Data = data
		res, err = svc.FromBytes(ctx, req)
	}
	if err != nil {
		return err
	}

	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".txt"
	return os.WriteFile(out, []byte(res.Text), 0o644)
}
