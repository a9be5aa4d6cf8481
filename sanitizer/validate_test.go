package sanitizer

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-ocr.com/common"
	"pdf-ocr.com/internal/pdftest"
)

func replaceStartxref(pdf []byte, offset string) []byte {
	old := fmt.Sprintf("startxref\n%d\n", pdftest.XrefOffset(pdf))
	return bytes.Replace(pdf, []byte(old), []byte("startxref\n"+offset+"\n"), 1)
}

func TestValidateAcceptsClassicTrailer(t *testing.T) {
	for _, pages := range [][][]string{
		{{"Hello"}},
		{{"one", "two"}, {"three"}},
		{{}},
	} {
		pdf := pdftest.Build(pages...)
		buf, err := Normalize(base64.StdEncoding.EncodeToString(pdf))
		require.NoError(t, err)

		facts, err := Validate(buf)
		require.NoError(t, err)
		assert.True(t, facts.HeaderOK)
		assert.True(t, facts.XrefMarker)
		assert.Equal(t, pdftest.XrefOffset(pdf), facts.XrefOffset)
		assert.Equal(t, bytes.LastIndex(pdf, []byte("%%EOF")), facts.EOFOffset)
	}
}

func TestValidateUsesLastEOF(t *testing.T) {
	pdf := pdftest.Build([]string{"x"})
	// an early %%EOF inside the body must not be taken as the trailer
	body := bytes.Replace(pdf, []byte("%PDF-1.4\n"), []byte("%PDF-1.4\n%%EOF\n"), 1)
	body = replaceStartxref(body, strconv.Itoa(pdftest.XrefOffset(pdf)+len("%%EOF\n")))

	facts, err := Validate(body)
	require.NoError(t, err)
	assert.Equal(t, bytes.LastIndex(body, []byte("%%EOF")), facts.EOFOffset)
}

func TestValidateFailures(t *testing.T) {
	pdf := pdftest.Build([]string{"Hello"})
	xref := pdftest.XrefOffset(pdf)

	longTrailer := bytes.Replace(pdf, []byte("%%EOF"), append(bytes.Repeat([]byte("%"), TrailerWindow), []byte("\n%%EOF")...), 1)

	tests := []struct {
		name string
		buf  []byte
		want error
	}{
		{"not a pdf", []byte("PK\x03\x04 not a pdf at all %%EOF"), common.ErrBadHeader},
		{"lowercase header", append([]byte("%pdf-"), pdf[5:]...), common.ErrBadHeader},
		{"shorter than header", []byte("%PD"), common.ErrBadHeader},
		{"truncated", pdf[:len(pdf)-8], common.ErrMissingEOF},
		{"no startxref", bytes.Replace(pdf, []byte("startxref"), []byte("startxerf"), 1), common.ErrMissingStartxref},
		{"startxref without digits", replaceStartxref(pdf, "abc"), common.ErrMissingStartxref},
		{"startxref outside window", longTrailer, common.ErrMissingStartxref},
		{"offset past end", replaceStartxref(pdf, strconv.Itoa(len(pdf)+10)), common.ErrXrefOffsetOutOfRange},
		{"offset overflows", replaceStartxref(pdf, "99999999999999999999999"), common.ErrXrefOffsetOutOfRange},
		{"offset off by one", replaceStartxref(pdf, strconv.Itoa(xref+1)), common.ErrXrefMarkerNotFound},
		{"offset at header", replaceStartxref(pdf, "0"), common.ErrXrefMarkerNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.buf)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, common.KindStructural, common.KindOf(err))
		})
	}
}

func TestValidateTrailerWindowBoundary(t *testing.T) {
	const prefix = "%PDF-1.4\nxref\n0 1\n"
	const trailer = "startxref\n9\n"
	build := func(distance int) []byte {
		// startxref begins distance bytes before %%EOF
		gap := strings.Repeat(" ", distance-len(trailer))
		return []byte(prefix + trailer + gap + "%%EOF\n")
	}

	buf := build(TrailerWindow)
	facts, err := Validate(buf)
	require.NoError(t, err)
	assert.Equal(t, len(prefix), facts.EOFOffset-TrailerWindow)
	assert.Equal(t, 9, facts.XrefOffset)
	assert.True(t, facts.XrefMarker)

	_, err = Validate(build(TrailerWindow + 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMissingStartxref), "got %v", err)
}

func TestValidateDroppedDigit(t *testing.T) {
	pdf := pdftest.Build([]string{"Hello"})
	digits := strconv.Itoa(pdftest.XrefOffset(pdf))

	_, err := Validate(replaceStartxref(pdf, digits[:len(digits)-1]))
	require.Error(t, err)
	assert.True(t,
		errors.Is(err, common.ErrXrefOffsetOutOfRange) || errors.Is(err, common.ErrXrefMarkerNotFound),
		"got %v", err)
}

func TestValidateMarkerErrorNamesOffsetAndProbe(t *testing.T) {
	pdf := pdftest.Build([]string{"Hello"})

	_, err := Validate(replaceStartxref(pdf, "0"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 0")
	assert.Contains(t, err.Error(), `"%PDF-1.4"`)
}

func TestFingerprint(t *testing.T) {
	d := Fingerprint([]byte("hello"))
	assert.Equal(t, 5, d.Size)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", d.MD5)
	assert.Equal(t, "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d", d.SHA1)
}
