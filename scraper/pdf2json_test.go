package scraper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-ocr.com/common"
)

type fakeRunner struct {
	output string
	err    error
	name   string
	args   []string
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.name, r.args = name, args
	if r.err != nil {
		return nil, []byte("Error: Invalid XRef stream\n"), r.err
	}
	in, outDir := args[1], args[3]
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	if err := os.WriteFile(filepath.Join(outDir, base+".json"), []byte(r.output), 0o600); err != nil {
		return nil, nil, err
	}
	return nil, nil, nil
}

func TestPdf2JSONParser(t *testing.T) {
	runner := &fakeRunner{output: `{"formImage":{"Pages":[{"Texts":[{"R":[{"T":"Total%3A%20"},{"T":"42"}]}]}]}}`}
	parser := Pdf2JSONParser{TmpDir: t.TempDir(), Runner: runner}

	conv, err := ConvertPDFToText(context.Background(), parser, t.TempDir(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "Total: 42\n\n", conv.Text)
	assert.Equal(t, "pdf2json", runner.name)
	assert.Equal(t, "-f", runner.args[0])
	assert.Equal(t, "-o", runner.args[2])
	assert.NoDirExists(t, runner.args[3])
}

func TestPdf2JSONParserCommandFails(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1")}
	parser := Pdf2JSONParser{Binary: "/opt/pdf2json", Runner: runner}

	_, err := ConvertPDFToText(context.Background(), parser, t.TempDir(), []byte("%PDF-1.4"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrParser)
	assert.Contains(t, err.Error(), "Invalid XRef stream")
	assert.Equal(t, "/opt/pdf2json", runner.name)
}

func TestPdf2JSONParserUnrecognizedOutput(t *testing.T) {
	runner := &fakeRunner{output: `{"Meta":{}}`}
	parser := Pdf2JSONParser{Runner: runner}

	_, err := ConvertPDFToText(context.Background(), parser, t.TempDir(), []byte("%PDF-1.4"))
	assert.ErrorIs(t, err, common.ErrUnrecognizedModel)
	assert.Equal(t, common.KindModel, common.KindOf(err))
}
