// Package xmlstream turns an XML byte stream into a pull sequence of
// start, end and text events.
package xmlstream

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"iter"

	"golang.org/x/text/encoding/htmlindex"
)

var (
	// ErrMalformed wraps every syntax error reported by Events.
	ErrMalformed = errors.New("malformed xml")
	// ErrRead wraps failures of the underlying reader, such as corrupt
	// compressed data or a checksum mismatch.
	ErrRead = errors.New("read xml stream")
)

// Kind identifies an event.
type Kind int

const (
	// Start is an opening tag.
	Start Kind = iota + 1
	// End is a closing tag. Self-closing elements produce Start then End.
	End
	// Text is character data, CDATA included, with entities resolved.
	Text
)

func (k Kind) String() string {
	switch k {
	case Start:
		return "start"
	case End:
		return "end"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Event is a single token of the document. Name fields are empty for Text.
type Event struct {
	Kind Kind
	// Local is the tag name without its prefix.
	Local string
	// QName is "prefix:local" for prefixed tags, otherwise Local.
	QName string
	Text  string
}

// Events decodes r lazily. Comments, processing instructions and directives
// are dropped. Tag balance is checked; the first syntax error (ErrMalformed)
// or reader failure (ErrRead) is yielded once and ends the sequence.
// Documents declaring a non-UTF-8 encoding are transcoded.
func Events(r io.Reader) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		src := &trackingReader{r: r}
		d := xml.NewDecoder(src)
		d.CharsetReader = charsetReader

		var open []xml.Name
		for {
			tok, err := d.RawToken()
			if errors.Is(err, io.EOF) {
				if len(open) > 0 {
					line, _ := d.InputPos()
					yield(Event{}, malformed(&xml.SyntaxError{
						Msg:  fmt.Sprintf("unexpected EOF: element <%s> not closed", qname(open[len(open)-1])),
						Line: line,
					}))
				}
				return
			}
			if err != nil {
				if src.err != nil {
					yield(Event{}, fmt.Errorf("%w: %w", ErrRead, src.err))
					return
				}
				yield(Event{}, malformed(err))
				return
			}

			var ev Event
			switch t := tok.(type) {
			case xml.StartElement:
				open = append(open, t.Name)
				ev = Event{Kind: Start, Local: t.Name.Local, QName: qname(t.Name)}
			case xml.EndElement:
				if len(open) == 0 || open[len(open)-1] != t.Name {
					line, _ := d.InputPos()
					yield(Event{}, malformed(&xml.SyntaxError{Msg: mismatch(open, t.Name), Line: line}))
					return
				}
				open = open[:len(open)-1]
				ev = Event{Kind: End, Local: t.Name.Local, QName: qname(t.Name)}
			case xml.CharData:
				ev = Event{Kind: Text, Text: string(t)}
			default:
				continue
			}

			if !yield(ev, nil) {
				return
			}
		}
	}
}

// trackingReader remembers the first non-EOF error of r so that reader
// failures can be told apart from syntax errors.
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && t.err == nil {
		t.err = err
	}
	return n, err
}

func malformed(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformed, err)
}

func mismatch(open []xml.Name, got xml.Name) string {
	if len(open) == 0 {
		return fmt.Sprintf("unexpected end element </%s>", qname(got))
	}
	return fmt.Sprintf("element <%s> closed by </%s>", qname(open[len(open)-1]), qname(got))
}

// qname renders a raw (untranslated) name; Space holds the prefix.
func qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
