package scraper

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"pdf-ocr.com/document"
)

// Runner lets tests stub external commands.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}

// Pdf2JSONParser shells out to the pdf2json CLI and adapts its JSON output.
type Pdf2JSONParser struct {
	Binary string // defaults to "pdf2json"
	TmpDir string
	Runner Runner
}

func (p Pdf2JSONParser) ParseFile(ctx context.Context, path string) (*document.Document, error) {
	bin := p.Binary
	if bin == "" {
		bin = "pdf2json"
	}
	runner := p.Runner
	if runner == nil {
		runner = execRunner{}
	}

	var doc *document.Document
	err := WithTempDir(p.TmpDir, func(outDir string) error {
		_, errb, err := runner.Run(ctx, bin, "-f", path, "-o", outDir)
		if err != nil {
			return fmt.Errorf("%s failed: %w: %s", bin, err, truncate(strings.TrimSpace(string(errb)), 512))
		}

		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".json"
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			return fmt.Errorf("%s wrote no output: %w", bin, err)
		}
		doc, err = document.FromPdf2JSON(data)
		return err
	})
	return doc, err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
