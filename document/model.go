// Package document holds the page model produced by PDF parsers and turns it
// into linear text.
package document

import "net/url"

// Document is the parsed form of one PDF. A nil Pages means the parser did
// not produce a page sequence at all.
type Document struct {
	Pages []Page `json:"pages"`
}

type Page struct {
	Texts []TextItem `json:"texts,omitempty"`
}

// TextItem is one line or text block on a page.
type TextItem struct {
	Runs []Run `json:"runs,omitempty"`
}

// Run is a fragment of text inside a TextItem. T is percent-encoded.
type Run struct {
	T string `json:"t,omitempty"`
}

// EncodeRun builds a Run from plain text.
func EncodeRun(s string) Run {
	return Run{T: url.PathEscape(s)}
}

// Stats counts the pages and runs in doc.
func Stats(doc *Document) (pages, runs int) {
	if doc == nil {
		return 0, 0
	}
	for _, p := range doc.Pages {
		for _, item := range p.Texts {
			runs += len(item.Runs)
		}
	}
	return len(doc.Pages), runs
}
