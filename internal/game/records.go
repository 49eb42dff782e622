// internal/game/records.go

package game

import (
	"context"
	"slices"
)

// Recorder is the append-only log of finished rounds behind the statistics.
// Implementations may be backed by memory (MemoryRecords) or SQL
// (store.Records).
type Recorder interface {
	// Append adds the outcome of one finished round.
	Append(ctx context.Context, rec GameRecord) error

	// Records returns every outcome in the order it was appended.
	Records(ctx context.Context) ([]GameRecord, error)
}

// MemoryRecords is a slice-backed Recorder. It is not safe for concurrent use.
type MemoryRecords struct {
	list []GameRecord
}

// Append adds rec to the log.
func (m *MemoryRecords) Append(_ context.Context, rec GameRecord) error {
	m.list = append(m.list, rec)
	return nil
}

// Records returns a copy of the log.
func (m *MemoryRecords) Records(context.Context) ([]GameRecord, error) {
	return slices.Clone(m.list), nil
}
