// Package ledger provides an in-memory reference implementation of
// scan.LedgerSource for tests and the wallet CLI, plus the node-side
// committed-output/spent-key-image State in state.go. Real ledger storage
// and networking are an external collaborator per spec.md §1; this is
// a test fixture, not a production component, mirroring the shape of
// the teacher's own in-memory ledger/state.go State.
package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/apexcoin/jamtis/scan"
)

// MemoryLedger holds committed chunks in height order, feeding
// scan.Scanner during tests or a local-only wallet run.
type MemoryLedger struct {
	mu     sync.RWMutex
	chunks []scan.Chunk
	height uint64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

// AppendChunk commits a new chunk to the tail of the ledger.
func (l *MemoryLedger) AppendChunk(c scan.Chunk) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.chunks = append(l.chunks, c)
	l.height = c.EndHeight
}

// NextChunk implements scan.LedgerSource.
func (l *MemoryLedger) NextChunk(_ context.Context, fromHeight uint64, maxSizeHint uint64) (scan.Chunk, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, c := range l.chunks {
		if c.StartHeight == fromHeight {
			if uint64(len(c.Enotes)) <= maxSizeHint || maxSizeHint == 0 {
				return c, nil
			}
			truncated := c
			truncated.Enotes = c.Enotes[:maxSizeHint]
			truncated.EndHeight = c.StartHeight + 1
			return truncated, nil
		}
	}
	return scan.Chunk{StartHeight: fromHeight, EndHeight: fromHeight}, nil
}

// TopHeight implements scan.LedgerSource.
func (l *MemoryLedger) TopHeight(_ context.Context) (uint64, [32]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.chunks) == 0 {
		return 0, [32]byte{}, nil
	}
	last := l.chunks[len(l.chunks)-1]
	return last.EndHeight - 1, last.ParentID, nil
}

// Height returns the current chunk tail height.
func (l *MemoryLedger) Height() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.height
}

var ErrNotFound = errors.New("ledger: not found")
