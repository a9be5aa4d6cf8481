package sanitizer

import (
	"bytes"
	"regexp"
	"strconv"

	"pdf-ocr.com/common"
)

const (
	headerMarker = "%PDF-"
	eofMarker    = "%%EOF"
	xrefKeyword  = "xref"

	// TrailerWindow is how many bytes before the last %%EOF are searched for
	// startxref. Longer trailers are rejected as MissingStartxref.
	TrailerWindow = 256

	xrefProbeLen = 8
)

var startxrefPattern = regexp.MustCompile(`startxref\s+(\d+)`)

// Facts are what Validate learned about one buffer.
type Facts struct {
	HeaderOK   bool
	EOFOffset  int
	XrefOffset int
	XrefMarker bool
}

// Validate checks the header, the final %%EOF, the startxref pointer and the
// xref keyword it points at. Only classic xref tables are accepted;
// cross-reference streams fail with XrefMarkerNotFound.
func Validate(buf []byte) (Facts, error) {
	var facts Facts

	if len(buf) < len(headerMarker) || !bytes.Equal(buf[:len(headerMarker)], []byte(headerMarker)) {
		return facts, common.Newf(common.ErrBadHeader, "does not start with %s (not a PDF or corrupted base64)", headerMarker)
	}
	facts.HeaderOK = true

	eof := bytes.LastIndex(buf, []byte(eofMarker))
	if eof == -1 {
		return facts, common.Newf(common.ErrMissingEOF, "%s not found (file probably truncated)", eofMarker)
	}
	facts.EOFOffset = eof

	start := eof - TrailerWindow
	if start < 0 {
		start = 0
	}
	m := startxrefPattern.FindSubmatch(buf[start:eof])
	if m == nil {
		return facts, common.Newf(common.ErrMissingStartxref,
			"startxref not found in the %d bytes before %s at offset %d", eof-start, eofMarker, eof)
	}

	xref, err := strconv.ParseInt(string(m[1]), 10, 64)
	if err != nil || xref < 0 || xref >= int64(len(buf)) {
		return facts, common.Newf(common.ErrXrefOffsetOutOfRange,
			"invalid xref offset %s for %d byte buffer (extra or missing bytes?)", m[1], len(buf))
	}
	facts.XrefOffset = int(xref)

	end := facts.XrefOffset + xrefProbeLen
	if end > len(buf) {
		end = len(buf)
	}
	probe := buf[facts.XrefOffset:end]
	if !bytes.HasPrefix(probe, []byte(xrefKeyword)) {
		return facts, common.Newf(common.ErrXrefMarkerNotFound,
			"no 'xref' at offset %d (found %q); file may be altered or truncated", facts.XrefOffset, probe)
	}
	facts.XrefMarker = true

	return facts, nil
}
