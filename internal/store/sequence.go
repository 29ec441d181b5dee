package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// SequencesDocument holds the last issued number per id sequence
const SequencesDocument = "sequences"

// Sequence issues monotonically increasing numbers per name and persists
// the counters, so ids are never reused after restarts or deletions.
type Sequence struct {
	docs Documents

	mu       sync.Mutex
	counters map[string]int64
}

// OpenSequence loads the counters document, starting from zero if it is missing
func OpenSequence(ctx context.Context, docs Documents) (*Sequence, error) {
	counters := make(map[string]int64)
	err := docs.ReadDocument(ctx, SequencesDocument, &counters)
	if err != nil && !errors.Is(err, ErrDocumentMissing) {
		return nil, fmt.Errorf("failed to open sequences: %w", err)
	}
	if counters == nil {
		counters = make(map[string]int64)
	}
	return &Sequence{docs: docs, counters: counters}, nil
}

// Seed raises the counter for name to at least floor
func (s *Sequence) Seed(name string, floor int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counters[name] < floor {
		s.counters[name] = floor
	}
}

// Next returns the next number for name. The counter only advances if it was persisted.
func (s *Sequence) Next(ctx context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.counters[name] + 1
	s.counters[name] = next
	if err := s.docs.WriteDocument(ctx, SequencesDocument, s.counters); err != nil {
		s.counters[name] = next - 1
		return 0, err
	}
	return next, nil
}

// highestSuffix returns the largest N among ids of the form <prefix>N
func highestSuffix(ids []string, prefix string) int64 {
	var highest int64
	for _, id := range ids {
		n, err := strconv.ParseInt(strings.TrimPrefix(id, prefix), 10, 64)
		if err != nil || !strings.HasPrefix(id, prefix) {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest
}
