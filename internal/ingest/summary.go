package ingest

import "time"

// EntrySummary counts the work done for one archive entry.
type EntrySummary struct {
	Name    string
	Records int
	Indexed int
	Failed  int
	// ParseError is set when the entry was abandoned on malformed XML.
	ParseError string
}

// Summary describes a whole run.
type Summary struct {
	RunID    string
	Archive  string
	Entries  []EntrySummary
	Duration time.Duration

	Records     int
	Indexed     int
	Failed      int
	ParseErrors int
}

func (s *Summary) add(e EntrySummary) {
	s.Entries = append(s.Entries, e)
	s.Records += e.Records
	s.Indexed += e.Indexed
	s.Failed += e.Failed
	if e.ParseError != "" {
		s.ParseErrors++
	}
}

func (s *Summary) finish(started time.Time) {
	s.Duration = time.Since(started)
}

// Clean reports whether every record was indexed and every entry parsed.
func (s Summary) Clean() bool {
	return s.Failed == 0 && s.ParseErrors == 0
}
