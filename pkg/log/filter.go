package log

import (
	"time"
)

// Filter specifies criteria for selecting events from a capture file.
// Zero-valued fields match everything.
type Filter struct {
	EndpointID string
	ModuleID   string
	Action     string
	TimeStart  *time.Time
	TimeEnd    *time.Time
	Direction  *Direction
	Category   *Category
}

// Matches reports whether the event satisfies all filter criteria.
func (f Filter) Matches(ev Event) bool {
	if f.EndpointID != "" && ev.EndpointID != f.EndpointID {
		return false
	}
	if f.ModuleID != "" && ev.ModuleID != f.ModuleID {
		return false
	}
	if f.Action != "" && ev.Action != f.Action {
		return false
	}
	if f.TimeStart != nil && ev.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && ev.Timestamp.After(*f.TimeEnd) {
		return false
	}
	if f.Direction != nil && ev.Direction != *f.Direction {
		return false
	}
	if f.Category != nil && ev.Category != *f.Category {
		return false
	}
	return true
}

// FilteredReader wraps a Reader and skips events not matching a Filter.
type FilteredReader struct {
	reader *Reader
	filter Filter
}

// NewFilteredReader opens a capture file for reading with a filter applied.
func NewFilteredReader(path string, filter Filter) (*FilteredReader, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	return &FilteredReader{reader: r, filter: filter}, nil
}

// Next returns the next matching event.
// Returns io.EOF when the end of the file is reached.
func (r *FilteredReader) Next() (Event, error) {
	for {
		event, err := r.reader.Next()
		if err != nil {
			return Event{}, err
		}
		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

// Close closes the underlying file.
func (r *FilteredReader) Close() error {
	return r.reader.Close()
}
