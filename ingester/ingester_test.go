package main

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pdf-ocr.com/document"
	"pdf-ocr.com/internal/pdftest"
	"pdf-ocr.com/ocr"
)

type stubParser struct{}

func (stubParser) ParseFile(context.Context, string) (*document.Document, error) {
	return &document.Document{Pages: []document.Page{
		{Texts: []document.TextItem{{Runs: []document.Run{{T: "ok"}}}}},
	}}, nil
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	pdf := pdftest.Build([]string{"x"})
	write := func(name string, data []byte) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o600))
	}
	write("a.pdf", pdf)
	write("b.b64", []byte("data:application/pdf;base64,"+base64.StdEncoding.EncodeToString(pdf)))
	write("c.pdf", []byte("garbage"))
	write("d.b64", []byte("JVBERi0x…"))
	write("notes.md", []byte("ignored"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o700))

	svc := ocr.NewService(stubParser{}, nil, ocr.WithTmpDir(t.TempDir()))
	res, err := run(context.Background(), svc, dir, 2, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.ok)
	assert.Equal(t, int64(2), res.failed)

	for _, name := range []string{"a.txt", "b.txt"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, "ok\n\n", string(data))
	}
	assert.NoFileExists(t, filepath.Join(dir, "c.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "d.txt"))
}

func TestRunRejectsNonPositiveWorkers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), pdftest.Build([]string{"x"}), 0o600))
	svc := ocr.NewService(stubParser{}, nil, ocr.WithTmpDir(t.TempDir()))

	for _, workers := range []int{0, -1} {
		_, err := run(context.Background(), svc, dir, workers, zap.NewNop())
		assert.Error(t, err, workers)
	}
	assert.NoFileExists(t, filepath.Join(dir, "a.txt"))
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"z.PDF", "a.b64", "b.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o600))
	}
	files, err := collect(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.b64"), filepath.Join(dir, "z.PDF")}, files)

	_, err = collect(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
