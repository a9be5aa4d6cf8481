// Package sanitizer turns untrusted base64 payloads into PDF bytes and checks
// that those bytes carry the trailer of a classic, non-truncated PDF.
package sanitizer

import (
	"encoding/base64"
	"regexp"
	"strings"
	"unicode"

	"pdf-ocr.com/common"
)

// MinDecodedLen is the smallest buffer that can still hold a PDF header.
const MinDecodedLen = 8

var dataURIPrefix = regexp.MustCompile(`(?i)^data:application/pdf;?base64,`)

const truncationMarker = "…"

const stdAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/="

// isSpace also treats a byte order mark as whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// Normalize reshapes an arbitrary client payload into canonical base64 and
// decodes it.
func Normalize(input string) ([]byte, error) {
	b64 := strings.TrimFunc(input, isSpace)
	b64 = trimQuotes(b64)
	b64 = dataURIPrefix.ReplaceAllString(b64, "")
	b64 = strings.Map(func(r rune) rune {
		if isSpace(r) {
			return -1
		}
		return r
	}, b64)

	if b64 == "" {
		return nil, common.Newf(common.ErrEmptyInput, "base64 payload is empty")
	}
	if strings.Contains(b64, truncationMarker) {
		return nil, common.Newf(common.ErrTruncationMarker,
			"base64 payload contains an ellipsis (…); resend the complete content")
	}

	b64 = strings.NewReplacer("-", "+", "_", "/").Replace(b64)
	if len(b64)%4 == 1 {
		// a lone trailing char holds 6 bits, less than a byte
		last := b64[len(b64)-1]
		if !strings.ContainsRune(stdAlphabet, rune(last)) {
			return nil, common.Newf(common.ErrInvalidBase64, "illegal base64 char %q at input byte %d", last, len(b64)-1)
		}
		b64 = b64[:len(b64)-1]
	}
	b64 += "==="[(len(b64)+3)%4:]

	buf, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		// err only carries an offset, never the payload
		return nil, common.Newf(common.ErrInvalidBase64, "decode %d base64 chars: %v", len(b64), err)
	}
	if len(buf) < MinDecodedLen {
		return nil, common.Newf(common.ErrTooShort, "decoded %d bytes, too short to be a PDF", len(buf))
	}
	return buf, nil
}

// trimQuotes drops one leading and one trailing quote character.
func trimQuotes(s string) string {
	if s != "" && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if n := len(s); n > 0 && (s[n-1] == '"' || s[n-1] == '\'') {
		s = s[:n-1]
	}
	return s
}
