package product

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jonesrussell/north-cloud/product-ingestor/internal/xmlstream"
)

// Builder is the record assembly state machine. It is not safe for
// concurrent use.
type Builder struct {
	onRecord func(Record) error

	// depth counts open product elements.
	depth  int
	record Record
	text   strings.Builder
	count  int
}

// NewBuilder returns a Builder that hands each completed record to onRecord.
func NewBuilder(onRecord func(Record) error) *Builder {
	return &Builder{onRecord: onRecord}
}

// Count reports how many records have been delivered.
func (b *Builder) Count() int {
	return b.count
}

// Handle advances the state machine by one event. The only error it returns
// is one from onRecord.
//
// Every closing product tag delivers the fields gathered since the previous
// product boundary, so a nested product splits its parent into two records.
func (b *Builder) Handle(ev xmlstream.Event) error {
	switch ev.Kind {
	case xmlstream.Start:
		b.text.Reset()
		if isProduct(ev.Local) {
			b.depth++
			if b.record == nil {
				b.record = Record{}
			}
		}
	case xmlstream.Text:
		b.text.WriteString(ev.Text)
	case xmlstream.End:
		if b.depth == 0 {
			return nil
		}
		if isProduct(ev.Local) {
			rec := b.record
			b.depth--
			b.record = nil
			if b.depth > 0 {
				b.record = Record{}
			}
			b.count++
			return b.onRecord(rec)
		}
		b.record[ev.QName] = strings.TrimSpace(b.text.String())
	}
	return nil
}

func isProduct(local string) bool {
	return strings.EqualFold(local, elementName)
}

// Parse streams r and calls onRecord for every product element, in document
// order. It returns the number of records delivered. A syntax error stops
// the document; records delivered before it stay delivered. Cancelling ctx
// stops parsing at the next event.
func Parse(ctx context.Context, r io.Reader, onRecord func(Record) error) (int, error) {
	b := NewBuilder(onRecord)
	for ev, err := range xmlstream.Events(r) {
		if err != nil {
			return b.Count(), fmt.Errorf("parse products: %w", err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return b.Count(), ctxErr
		}
		if handleErr := b.Handle(ev); handleErr != nil {
			return b.Count(), handleErr
		}
	}
	return b.Count(), nil
}
