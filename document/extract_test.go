package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-ocr.com/common"
)

func doc(pages ...Page) *Document {
	if pages == nil {
		pages = []Page{}
	}
	return &Document{Pages: pages}
}

func item(runs ...string) TextItem {
	it := TextItem{}
	for _, r := range runs {
		it.Runs = append(it.Runs, Run{T: r})
	}
	return it
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
		want string
	}{
		{
			name: "hello world",
			doc:  doc(Page{Texts: []TextItem{item("Hello%20", "World")}}),
			want: "Hello World\n\n",
		},
		{
			name: "no pages",
			doc:  doc(),
			want: "",
		},
		{
			name: "page without texts",
			doc:  doc(Page{}, Page{Texts: []TextItem{item("a")}}),
			want: "\na\n\n",
		},
		{
			name: "item without runs",
			doc:  doc(Page{Texts: []TextItem{{}, item("b")}}),
			want: "\nb\n\n",
		},
		{
			name: "empty run",
			doc:  doc(Page{Texts: []TextItem{item("", "x", "")}}),
			want: "x\n\n",
		},
		{
			name: "utf8 escapes",
			doc:  doc(Page{Texts: []TextItem{item("Ol%C3%A1", "%2C%20mundo")}}),
			want: "Olá, mundo\n\n",
		},
		{
			name: "plus is literal",
			doc:  doc(Page{Texts: []TextItem{item("1+1%3D2")}}),
			want: "1+1=2\n\n",
		},
		{
			name: "malformed escape kept raw",
			doc:  doc(Page{Texts: []TextItem{item("100%", "%zz", "ok%21")}}),
			want: "100%%zzok!\n\n",
		},
		{
			name: "invalid utf8 kept raw",
			doc:  doc(Page{Texts: []TextItem{item("%C3%28")}}),
			want: "%C3%28\n\n",
		},
		{
			name: "two pages",
			doc: doc(
				Page{Texts: []TextItem{item("a"), item("b")}},
				Page{Texts: []TextItem{item("c")}},
			),
			want: "a\nb\n\nc\n\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractKeepsRunOrder(t *testing.T) {
	forward, err := Extract(doc(Page{Texts: []TextItem{item("one", "two", "three")}}))
	require.NoError(t, err)
	reversed, err := Extract(doc(Page{Texts: []TextItem{item("three", "two", "one")}}))
	require.NoError(t, err)

	assert.Equal(t, "onetwothree\n\n", forward)
	assert.Equal(t, "threetwoone\n\n", reversed)
}

func TestExtractUnrecognizedModel(t *testing.T) {
	for _, d := range []*Document{nil, {}} {
		_, err := Extract(d)
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrUnrecognizedModel))
		assert.Equal(t, common.KindModel, common.KindOf(err))
	}
}

func TestEncodeRunRoundTrips(t *testing.T) {
	for _, s := range []string{"plain", "100% sure", "a/b?c", "Olá", "1+1", "%zz"} {
		got, err := Extract(doc(Page{Texts: []TextItem{{Runs: []Run{EncodeRun(s)}}}}))
		require.NoError(t, err)
		assert.Equal(t, s+"\n\n", got)
	}
}

func TestStats(t *testing.T) {
	pages, runs := Stats(doc(
		Page{Texts: []TextItem{item("a", "b"), item("c")}},
		Page{},
	))
	assert.Equal(t, 2, pages)
	assert.Equal(t, 3, runs)

	pages, runs = Stats(nil)
	assert.Zero(t, pages)
	assert.Zero(t, runs)
}
