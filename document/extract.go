package document

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"pdf-ocr.com/common"
)

// Extract linearizes doc: runs are concatenated in order, each text item ends
// with a newline and each page with one more.
func Extract(doc *Document) (string, error) {
	if doc == nil || doc.Pages == nil {
		return "", common.Newf(common.ErrUnrecognizedModel, "parser output has no page sequence")
	}

	var b strings.Builder
	for _, page := range doc.Pages {
		for _, item := range page.Texts {
			for _, run := range item.Runs {
				b.WriteString(decodeRun(run.T))
			}
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// decodeRun percent-decodes enc. A malformed escape or a result that is not
// UTF-8 leaves the fragment as it came.
func decodeRun(enc string) string {
	if !strings.Contains(enc, "%") {
		return enc
	}
	s, err := url.PathUnescape(enc)
	if err != nil || !utf8.ValidString(s) {
		return enc
	}
	return s
}
