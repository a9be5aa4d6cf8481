package document

import (
	"bytes"
	"encoding/json"

	"pdf-ocr.com/common"
)

// FromPdf2JSON adapts the JSON written by pdf2json. Pages are read from
// formImage.Pages, or from a root Pages for the versions that emit it there.
// Nodes missing Texts, R or T are kept as empty.
func FromPdf2JSON(data []byte) (*Document, error) {
	var root struct {
		FormImage *struct {
			Pages json.RawMessage `json:"Pages"`
		} `json:"formImage"`
		Pages json.RawMessage `json:"Pages"`
	}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, common.Newf(common.ErrUnrecognizedModel, "pdf2json output is not a JSON object: %v", err)
	}

	raw := root.Pages
	if root.FormImage != nil && !isNull(root.FormImage.Pages) {
		raw = root.FormImage.Pages
	}
	pages, ok := asArray(raw)
	if !ok {
		return nil, common.Newf(common.ErrUnrecognizedModel, "pdf2json output has no Pages array")
	}

	doc := &Document{Pages: make([]Page, 0, len(pages))}
	for _, rawPage := range pages {
		var page struct {
			Texts json.RawMessage `json:"Texts"`
		}
		_ = json.Unmarshal(rawPage, &page)

		texts, _ := asArray(page.Texts)
		p := Page{Texts: make([]TextItem, 0, len(texts))}
		for _, rawText := range texts {
			var text struct {
				R json.RawMessage `json:"R"`
			}
			_ = json.Unmarshal(rawText, &text)

			runs, _ := asArray(text.R)
			item := TextItem{Runs: make([]Run, 0, len(runs))}
			for _, rawRun := range runs {
				var run struct {
					T json.RawMessage `json:"T"`
				}
				_ = json.Unmarshal(rawRun, &run)
				item.Runs = append(item.Runs, Run{T: scalar(run.T)})
			}
			p.Texts = append(p.Texts, item)
		}
		doc.Pages = append(doc.Pages, p)
	}
	return doc, nil
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

// scalar renders a string or number T; anything else is treated as absent.
func scalar(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
