// Package archive exposes the XML documents stored in a ZIP file as a lazy
// sequence of entries.
package archive

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/jonesrussell/north-cloud/product-ingestor/infrastructure/logger"
	"github.com/klauspost/compress/zip"
)

// documentSuffix selects the entries that are yielded. The match is case-sensitive.
const documentSuffix = ".xml"

// ErrEntryOpen wraps failures to open an individual entry stream.
var ErrEntryOpen = errors.New("open archive entry")

// Entry is one document inside the archive. Body is only readable inside
// the loop iteration that produced it.
type Entry struct {
	Name string
	Body io.Reader
}

// Archive is an opened ZIP container.
type Archive struct {
	path   string
	rc     *zip.ReadCloser
	logger logger.Logger
}

// Option configures an Archive.
type Option func(*Archive)

// WithLogger sets the logger used for skipped-entry diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(a *Archive) {
		if log != nil {
			a.logger = log
		}
	}
}

// Open opens the archive at path.
func Open(path string, opts ...Option) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}

	a := &Archive{path: path, rc: rc, logger: logger.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Path returns the path the archive was opened from.
func (a *Archive) Path() string {
	return a.path
}

// Entries yields every ".xml" entry in directory order. Each entry stream is
// opened when its turn comes and closed once the loop body returns. A stream
// that cannot be opened is yielded as an error and ends the sequence.
func (a *Archive) Entries() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for _, f := range a.rc.File {
			if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, documentSuffix) {
				a.logger.Debug("Skipping archive entry", logger.Entry(f.Name))
				continue
			}

			body, err := f.Open()
			if err != nil {
				yield(Entry{Name: f.Name}, fmt.Errorf("%w %s: %w", ErrEntryOpen, f.Name, err))
				return
			}

			more := yield(Entry{Name: f.Name, Body: body}, nil)
			if closeErr := body.Close(); closeErr != nil {
				a.logger.Warn("Failed to close archive entry",
					logger.Entry(f.Name),
					logger.Error(closeErr),
				)
			}
			if !more {
				return
			}
		}
	}
}

// Close releases the underlying file.
func (a *Archive) Close() error {
	if err := a.rc.Close(); err != nil {
		return fmt.Errorf("close archive %s: %w", a.path, err)
	}
	return nil
}
