// Package scan implements the jamtis scanning state machine: chunked,
// reorg-tolerant ledger refresh that feeds the enote store with
// progressively-enriched records.
package scan

import (
	"sync"

	"github.com/apexcoin/jamtis/enote"
)

// OriginStatus is how confirmed a record's creation is known to be.
type OriginStatus int

const (
	OriginOffchain OriginStatus = iota
	OriginUnconfirmed
	OriginOnchain
)

func (s OriginStatus) rank() int { return int(s) }

// SpentStatus is how confirmed a record's spend is known to be.
type SpentStatus int

const (
	SpentUnspent SpentStatus = iota
	SpentOffchain
	SpentUnconfirmed
	SpentOnchain
)

// OriginContext records where/when a record's enote was seen.
type OriginContext struct {
	Status         OriginStatus
	BlockIndex     uint64
	BlockTimestamp uint64
	TxID           [32]byte
}

// SpentContext records where/when a record's key image was seen spent.
type SpentContext struct {
	Status     SpentStatus
	BlockIndex uint64
	TxID       [32]byte
}

// Record is a full recovered enote plus its store-managed contexts.
type Record struct {
	Full   enote.FullRecord
	Origin OriginContext
	Spent  SpentContext
}

// BalanceFilter selects which origin statuses count toward a balance
// and which spent statuses exclude a record from it.
type BalanceFilter struct {
	AllowedOrigin    map[OriginStatus]bool
	DisallowedSpent  map[SpentStatus]bool
}

// ConfirmedSpendableFilter is {ONCHAIN} \ {SPENT_OFFCHAIN,
// SPENT_UNCONFIRMED, SPENT_ONCHAIN} — the typical "spendable now" view.
func ConfirmedSpendableFilter() BalanceFilter {
	return BalanceFilter{
		AllowedOrigin:   map[OriginStatus]bool{OriginOnchain: true},
		DisallowedSpent: map[SpentStatus]bool{SpentOffchain: true, SpentUnconfirmed: true, SpentOnchain: true},
	}
}

// EnoteStore keys full records by key image and tracks the chain tip
// it has scanned to, for reorg comparison.
type EnoteStore struct {
	mu         sync.RWMutex
	records    map[[32]byte]*Record
	topHeight  uint64
	topBlockID [32]byte
}

func NewEnoteStore() *EnoteStore {
	return &EnoteStore{records: make(map[[32]byte]*Record)}
}

// ApplyRecord inserts a new record or updates an existing one's origin
// context, but only if the new status is "more confirmed" (monotone
// progression; a downgrade is a reorg signal handled by the scanner).
func (s *EnoteStore) ApplyRecord(full enote.FullRecord, origin OriginContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := full.KeyImage.Bytes()
	existing, ok := s.records[key]
	if !ok {
		s.records[key] = &Record{Full: full, Origin: origin, Spent: SpentContext{Status: SpentUnspent}}
		return
	}
	if origin.Status.rank() > existing.Origin.Status.rank() {
		existing.Origin = origin
		existing.Full = full
	}
}

// ApplySpend updates a record's spent context if the key image is known.
func (s *EnoteStore) ApplySpend(ki [32]byte, spent SpentContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.records[ki]; ok {
		r.Spent = spent
	}
}

// RewindAbove drops every on-chain record whose origin block index
// exceeds height, and any on-chain spend above height is reverted to
// unspent. Off-chain and unconfirmed records are kept. Used on reorg.
func (s *EnoteStore) RewindAbove(height uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, r := range s.records {
		if r.Origin.Status == OriginOnchain && r.Origin.BlockIndex > height {
			delete(s.records, key)
			continue
		}
		if r.Spent.Status == SpentOnchain && r.Spent.BlockIndex > height {
			r.Spent = SpentContext{Status: SpentUnspent}
		}
	}
}

// TopBlockID returns the last block id the store believes it has
// scanned through, for reorg comparison against a fresh chunk's parent.
func (s *EnoteStore) TopBlockID() (uint64, [32]byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.topHeight, s.topBlockID
}

// SetTop records the tip the store has scanned to.
func (s *EnoteStore) SetTop(height uint64, blockID [32]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topHeight = height
	s.topBlockID = blockID
}

// Balance sums amounts over records matching filter.
func (s *EnoteStore) Balance(filter BalanceFilter) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total uint64
	for _, r := range s.records {
		if !filter.AllowedOrigin[r.Origin.Status] {
			continue
		}
		if filter.DisallowedSpent[r.Spent.Status] {
			continue
		}
		total += r.Full.Amount
	}
	return total
}

// ListRecords returns every record matching filter, for CLI/balance
// display (supplements the bare Balance query, grounded on
// seraphis_wallet/show_enotes.cpp's listing behavior).
func (s *EnoteStore) ListRecords(filter BalanceFilter) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if !filter.AllowedOrigin[r.Origin.Status] {
			continue
		}
		if filter.DisallowedSpent[r.Spent.Status] {
			continue
		}
		out = append(out, *r)
	}
	return out
}
