// Package scraper is the boundary to third-party PDF parsers: it hands them
// the bytes through a scoped temp file and linearizes what they return.
package scraper

import (
	"context"
	"errors"

	"pdf-ocr.com/common"
	"pdf-ocr.com/document"
)

type Conversion struct {
	Text  string
	Pages int
	Runs  int
}

// ConvertPDFToText writes buf to a temp file under tmpDir, parses it and
// extracts the text. The temp file is gone when it returns.
func ConvertPDFToText(ctx context.Context, parser Parser, tmpDir string, buf []byte) (Conversion, error) {
	var conv Conversion
	err := WithTempFile(tmpDir, buf, func(path string) error {
		doc, err := parser.ParseFile(ctx, path)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || common.KindOf(err) != "" {
				return err
			}
			return common.Wrap(common.ErrParser, err, "parse pdf")
		}

		text, err := document.Extract(doc)
		if err != nil {
			return err
		}
		conv.Text = text
		conv.Pages, conv.Runs = document.Stats(doc)
		return nil
	})
	if err != nil {
		return Conversion{}, err
	}
	return conv, nil
}
