package scraper

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"pdf-ocr.com/document"
)

// Parser turns a PDF file on disk into the page model.
type Parser interface {
	ParseFile(ctx context.Context, path string) (*document.Document, error)
}

// LedongthucParser parses with github.com/ledongthuc/pdf. Every text row on a
// page becomes a TextItem and every span in the row a Run.
type LedongthucParser struct{}

func (LedongthucParser) ParseFile(ctx context.Context, path string) (doc *document.Document, err error) {
	// the library panics on some malformed streams
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("pdf parser panicked: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	n := r.NumPage()
	doc = &document.Document{Pages: make([]document.Page, 0, n)}
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := r.Page(i)
		if p.V.IsNull() {
			doc.Pages = append(doc.Pages, document.Page{})
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", i, err)
		}

		page := document.Page{Texts: make([]document.TextItem, 0, len(rows))}
		for _, row := range rows {
			item := document.TextItem{Runs: make([]document.Run, 0, len(row.Content))}
			for _, text := range row.Content {
				item.Runs = append(item.Runs, document.EncodeRun(text.S))
			}
			page.Texts = append(page.Texts, item)
		}
		doc.Pages = append(doc.Pages, page)
	}
	return doc, nil
}
