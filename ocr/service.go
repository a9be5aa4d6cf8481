// Package ocr runs the extraction pipeline: normalize, validate, parse,
// extract. Every stage fails fast and nothing is retried.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pdf-ocr.com/common"
	"pdf-ocr.com/sanitizer"
	"pdf-ocr.com/scraper"
	"pdf-ocr.com/storage"
)

const (
	SourceBase64 = "base64"
	SourceUpload = "upload"
	SourceURL    = "url"
)

// TextCache remembers extracted text by document SHA-1.
type TextCache interface {
	Get(ctx context.Context, sha1 string) (string, bool, error)
	Set(ctx context.Context, sha1, text string) error
}

type ReportStore interface {
	Save(ctx context.Context, r storage.Report) error
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

var (
	ErrFetchDisabled = errors.New("url downloads are not enabled")
	ErrFetch         = errors.New("download failed")
)

type Request struct {
	Base64    string
	Data      []byte
	URL       string
	FileName  string
	MimeType  string
	Summarize bool
}

type Result struct {
	Text    string `json:"text"`
	Pages   int    `json:"pages"`
	Size    int    `json:"size"`
	MD5     string `json:"md5"`
	SHA1    string `json:"sha1"`
	Cached  bool   `json:"cached,omitempty"`
	Summary string `json:"summary,omitempty"`
}

type Service struct {
	parser     scraper.Parser
	tmpDir     string
	logger     *zap.SugaredLogger
	cache      TextCache
	reports    ReportStore
	summarizer Summarizer
	fetcher    Fetcher
	now        func() time.Time
}

type Option func(*Service)

func WithTmpDir(dir string) Option { return func(s *Service) { s.tmpDir = dir } }
func WithCache(c TextCache) Option { return func(s *Service) { s.cache = c } }
func WithReports(r ReportStore) Option { return func(s *Service) { s.reports = r } }
func WithSummarizer(sum Summarizer) Option { return func(s *Service) { s.summarizer = sum } }
func WithFetcher(f Fetcher) Option { return func(s *Service) { s.fetcher = f } }
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(parser scraper.Parser, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		parser: parser,
		logger: logger.Sugar(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CanSummarize reports whether summaries were configured.
func (s *Service) CanSummarize() bool { return s.summarizer != nil }

// CanFetch reports whether URL downloads were configured.
func (s *Service) CanFetch() bool { return s.fetcher != nil }

// FromBase64 extracts text from a base64 (optionally data-URI) payload.
func (s *Service) FromBase64(ctx context.Context, req Request) (Result, error) {
	buf, err := sanitizer.Normalize(req.Base64)
	if err != nil {
		s.logger.Warnw("❌ sanitize failed", "source", SourceBase64, "code", common.CodeOf(err), "error", err)
		return Result{}, err
	}
	return s.run(ctx, SourceBase64, req, buf)
}

// FromBytes extracts text from raw PDF bytes, e.g. a multipart upload.
func (s *Service) FromBytes(ctx context.Context, req Request) (Result, error) {
	return s.run(ctx, SourceUpload, req, req.Data)
}

// FromURL downloads the PDF at req.URL and extracts its text.
func (s *Service) FromURL(ctx context.Context, req Request) (Result, error) {
	if s.fetcher == nil {
		return Result{}, ErrFetchDisabled
	}
	buf, err := s.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		s.logger.Warnw("❌ download failed", "error", err)
		return Result{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return s.run(ctx, SourceURL, req, buf)
}

func (s *Service) run(ctx context.Context, source string, req Request, buf []byte) (Result, error) {
	if _, err := sanitizer.Validate(buf); err != nil {
		s.logger.Warnw("❌ validation failed", "source", source, "size", len(buf), "code", common.CodeOf(err), "error", err)
		return Result{}, err
	}

	d := sanitizer.Fingerprint(buf)
	s.logger.Infow("PDF received", "source", source, "size", d.Size, "md5", d.MD5, "sha1", d.SHA1)

	res := Result{Size: d.Size, MD5: d.MD5, SHA1: d.SHA1}
	report := storage.Report{
		SHA1:     d.SHA1,
		MD5:      d.MD5,
		Size:     d.Size,
		Source:   source,
		FileName: req.FileName,
	}

	if text, ok := s.cached(ctx, d.SHA1); ok {
		res.Text, res.Cached = text, true
	} else {
		conv, err := scraper.ConvertPDFToText(ctx, s.parser, s.tmpDir, buf)
		if err != nil {
			s.logger.Errorw("❌ extraction failed", "sha1", d.SHA1, "code", common.CodeOf(err), "error", err)
			report.Status, report.ErrorCode = "failed", errorCode(err)
			s.saveReport(ctx, report)
			return Result{}, err
		}
		res.Text, res.Pages = conv.Text, conv.Pages
		s.store(ctx, d.SHA1, conv.Text)
	}

	if req.Summarize && s.summarizer != nil {
		summary, err := s.summarizer.Summarize(ctx, res.Text)
		if err != nil {
			s.logger.Warnw("summary failed", "sha1", d.SHA1, "error", err)
		} else {
			res.Summary = summary
		}
	}

	report.Status, report.Pages, report.TextLength = "ok", res.Pages, len(res.Text)
	s.saveReport(ctx, report)
	s.logger.Infow("✅ text extracted", "sha1", d.SHA1, "pages", res.Pages, "chars", len(res.Text), "cached", res.Cached)
	return res, nil
}

func (s *Service) cached(ctx context.Context, sha1 string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	text, ok, err := s.cache.Get(ctx, sha1)
	if err != nil {
		s.logger.Warnw("cache lookup failed", "sha1", sha1, "error", err)
		return "", false
	}
	return text, ok
}

func (s *Service) store(ctx context.Context, sha1, text string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, sha1, text); err != nil {
		s.logger.Warnw("cache store failed", "sha1", sha1, "error", err)
	}
}

func (s *Service) saveReport(ctx context.Context, r storage.Report) {
	if s.reports == nil {
		return
	}
	r.CreatedAt = s.now().UTC()
	if err := s.reports.Save(ctx, r); err != nil {
		s.logger.Warnw("report save failed", "sha1", r.SHA1, "error", err)
	}
}

func errorCode(err error) string {
	if code := common.CodeOf(err); code != "" {
		return code
	}
	return "Internal"
}
