package xmlstream_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/jonesrussell/north-cloud/product-ingestor/internal/xmlstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(doc string) ([]xmlstream.Event, error) {
	var events []xmlstream.Event
	for ev, err := range xmlstream.Events(strings.NewReader(doc)) {
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func start(qname, local string) xmlstream.Event {
	return xmlstream.Event{Kind: xmlstream.Start, QName: qname, Local: local}
}

func end(qname, local string) xmlstream.Event {
	return xmlstream.Event{Kind: xmlstream.End, QName: qname, Local: local}
}

func text(s string) xmlstream.Event {
	return xmlstream.Event{Kind: xmlstream.Text, Text: s}
}

func TestEvents_Sequence(t *testing.T) {
	doc := `<?xml version="1.0"?><!-- catalog --><catalog xmlns:g="urn:g">` +
		`<product><name>Foo &amp; Bar</name><g:price>9,99</g:price>` +
		`<desc><![CDATA[<b>bold</b>]]></desc><empty/></product></catalog>`

	events, err := drain(doc)
	require.NoError(t, err)

	assert.Equal(t, []xmlstream.Event{
		start("catalog", "catalog"),
		start("product", "product"),
		start("name", "name"), text("Foo & Bar"), end("name", "name"),
		start("g:price", "price"), text("9,99"), end("g:price", "price"),
		start("desc", "desc"), text("<b>bold</b>"), end("desc", "desc"),
		start("empty", "empty"), end("empty", "empty"),
		end("product", "product"),
		end("catalog", "catalog"),
	}, events)
}

func TestEvents_Malformed(t *testing.T) {
	tests := []struct {
		name       string
		doc        string
		wantEvents int
		wantMsg    string
	}{
		{name: "mismatched end tag", doc: `<a><b>x</a>`, wantEvents: 3, wantMsg: "element <b> closed by </a>"},
		{name: "stray end tag", doc: `<a/></b>`, wantEvents: 2, wantMsg: "unexpected end element </b>"},
		{name: "unclosed element", doc: `<a><b>x</b>`, wantEvents: 4, wantMsg: "element <a> not closed"},
		{name: "undeclared entity", doc: `<a>&nbsp;</a>`, wantEvents: 1},
		{name: "truncated tag", doc: `<a><b`, wantEvents: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := drain(tt.doc)
			require.ErrorIs(t, err, xmlstream.ErrMalformed)
			assert.Len(t, events, tt.wantEvents)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestEvents_ReaderFailureIsNotMalformed(t *testing.T) {
	corrupt := errors.New("flate: corrupt input before offset 35")
	r := io.MultiReader(strings.NewReader(`<catalog><product>`), iotest.ErrReader(corrupt))

	var events []xmlstream.Event
	var gotErr error
	for ev, err := range xmlstream.Events(r) {
		if err != nil {
			gotErr = err
			break
		}
		events = append(events, ev)
	}

	require.ErrorIs(t, gotErr, xmlstream.ErrRead)
	require.ErrorIs(t, gotErr, corrupt)
	assert.NotErrorIs(t, gotErr, xmlstream.ErrMalformed)
	assert.Len(t, events, 2)
}

func TestEvents_DeclaredCharset(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><p>caf\xe9</p>"

	events, err := drain(doc)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "café", events[1].Text)
}

func TestEvents_UnknownCharset(t *testing.T) {
	_, err := drain(`<?xml version="1.0" encoding="x-klingon"?><p/>`)
	require.ErrorIs(t, err, xmlstream.ErrMalformed)
	assert.Contains(t, err.Error(), "x-klingon")
}

func TestEvents_EmptyInput(t *testing.T) {
	events, err := drain("")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEvents_EarlyBreak(t *testing.T) {
	n := 0
	for range xmlstream.Events(strings.NewReader(`<a><b/><c/></a>`)) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "start", xmlstream.Start.String())
	assert.Equal(t, "end", xmlstream.End.String())
	assert.Equal(t, "text", xmlstream.Text.String())
	assert.Equal(t, "Kind(0)", xmlstream.Kind(0).String())
}
