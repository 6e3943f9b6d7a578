package billing

import (
	"sync"

	"github.com/google/uuid"
)

// SeenSet de-duplicates units and meter readings within a single billing run.
// The caller creates one per run and passes it down; it is safe for concurrent use.
// A nil *SeenSet never reports duplicates.
type SeenSet struct {
	mu       sync.Mutex
	units    map[uuid.UUID]struct{}
	readings map[uuid.UUID]struct{}
}

// NewSeenSet creates an empty set
func NewSeenSet() *SeenSet {
	return &SeenSet{
		units:    make(map[uuid.UUID]struct{}),
		readings: make(map[uuid.UUID]struct{}),
	}
}

// MarkUnit records a unit and reports whether this is its first occurrence
func (s *SeenSet) MarkUnit(id uuid.UUID) bool {
	if s == nil {
		return true
	}
	return s.mark(s.units, id)
}

// MarkReading records a meter reading and reports whether this is its first occurrence
func (s *SeenSet) MarkReading(id uuid.UUID) bool {
	if s == nil {
		return true
	}
	return s.mark(s.readings, id)
}

// Counts returns how many distinct units and readings have been seen
func (s *SeenSet) Counts() (units, readings int) {
	if s == nil {
		return 0, 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.units), len(s.readings)
}

func (s *SeenSet) mark(m map[uuid.UUID]struct{}, id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := m[id]; ok {
		return false
	}
	m[id] = struct{}{}
	return true
}

// DedupeReadings drops readings whose id was already seen in this run
func DedupeReadings(seen *SeenSet, readings []MeterReadingRecord) []MeterReadingRecord {
	out := make([]MeterReadingRecord, 0, len(readings))
	for _, r := range readings {
		if seen.MarkReading(r.ID) {
			out = append(out, r)
		}
	}
	return out
}
