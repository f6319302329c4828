// Package store persists one state record per monitored source.
// Records are independent: each is keyed by its source identifier and is
// only ever written by the check for that source.
package store

import (
	"context"

	"newswatch/internal/domain/entity"
)

// Store is the durable key-value persistence for source state.
//
// Load never fails: a missing, unreadable or corrupt record yields the fresh
// default state, with the corruption reported as a warning. Losing a record
// must degrade to re-establishing the baseline, never to aborting the run.
//
// Save stamps LastChecked with the write time. A write failure is returned
// so the caller can report it, but it does not abort the overall run.
type Store interface {
	Load(ctx context.Context, sourceID string) *entity.SourceState
	Save(ctx context.Context, state *entity.SourceState) error
}
