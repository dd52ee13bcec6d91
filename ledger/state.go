package ledger

import (
	"bytes"
	"errors"
	"sort"
	"sync"

	"github.com/apexcoin/jamtis/enote"
	"github.com/apexcoin/jamtis/hash"
	"github.com/apexcoin/jamtis/types"
)

// committedOutput is one on-chain enote plus the context it was
// committed under, keyed by its one-time address.
type committedOutput struct {
	Enote      enote.Enote
	TxID       types.Hash
	BlockIndex uint64
}

// State tracks the committed output set and spent key images a node
// needs to validate incoming transactions and serve decoy candidates,
// adapted from the teacher's UTXO-set State to jamtis's key-image
// double-spend model: spentness lives on key images, not on individual
// outputs, so there is no per-output Spent flag to maintain.
type State struct {
	mu sync.RWMutex

	outputs        map[[32]byte]committedOutput // keyed by Ko bytes
	spentKeyImages map[[32]byte]bool

	height uint64
}

// NewState creates an empty ledger state.
func NewState() *State {
	return &State{
		outputs:        make(map[[32]byte]committedOutput),
		spentKeyImages: make(map[[32]byte]bool),
	}
}

// ApplyBlock commits a block's transactions to state: each input's key
// image is checked against the spent set and then recorded, and each
// output is added to the committed-output set.
func (s *State) ApplyBlock(block *types.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if block.Header.Height != s.height+1 {
		return errors.New("ledger: invalid block height")
	}

	for _, tx := range block.Transactions {
		if err := s.applyTransaction(tx, block.Header.Height); err != nil {
			return err
		}
	}

	s.height = block.Header.Height
	return nil
}

// applyTransaction applies a single transaction to state (caller holds
// the lock).
func (s *State) applyTransaction(tx *types.Transaction, blockIndex uint64) error {
	for _, img := range tx.InputImages {
		if s.spentKeyImages[img.KI.Bytes()] {
			return errors.New("ledger: double-spend detected: key image already spent")
		}
	}

	// Ring membership and composition proofs are verified by an
	// external collaborator before a transaction reaches ApplyBlock;
	// this method only enforces the double-spend invariant and
	// maintains the committed set.
	for _, img := range tx.InputImages {
		s.spentKeyImages[img.KI.Bytes()] = true
	}

	txID := tx.Hash()
	for _, out := range tx.Outputs {
		ko := out.Enote.Ko.Bytes()
		s.outputs[ko] = committedOutput{
			Enote:      out.Enote,
			TxID:       txID,
			BlockIndex: blockIndex,
		}
	}
	return nil
}

// ValidateTransaction checks a transaction's double-spend and
// balance-shape invariants against the current committed state, ahead
// of the external composition/balance proof verification.
func (s *State) ValidateTransaction(tx *types.Transaction) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, img := range tx.InputImages {
		if s.spentKeyImages[img.KI.Bytes()] {
			return errors.New("ledger: key image already spent")
		}
	}
	if len(tx.ImageProofs) != len(tx.InputImages) {
		return errors.New("ledger: missing composition proof for an input")
	}
	if len(tx.MembershipProofs) != len(tx.InputImages) {
		return errors.New("ledger: missing membership proof for an input")
	}
	return nil
}

// IsKeyImageSpent reports whether a key image has already been
// committed by a prior transaction.
func (s *State) IsKeyImageSpent(ki enote.KeyImage) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spentKeyImages[ki.Bytes()]
}

// SampleKeyImages implements txbuild.DecoySource over the committed
// output set: each sampled token is the requested output's one-time
// address reinterpreted as a KeyImage, matching the abstract token type
// membership-proof ring assembly already consumes, not an actually-spent
// key image.
func (s *State) SampleKeyImages(n int) ([]enote.KeyImage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]enote.KeyImage, 0, n)
	for _, co := range s.outputs {
		out = append(out, enote.KeyImage(co.Enote.Ko))
		if len(out) == n {
			break
		}
	}
	return out, nil
}

// GetHeight returns the current committed height.
func (s *State) GetHeight() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.height
}

// ComputeStateRoot hashes the committed output set's one-time addresses,
// in ascending byte order, into a single root, the same simplified
// per-block state commitment
// style as types.TxRoot (a full Merkle tree is outside this core's
// scope).
func (s *State) ComputeStateRoot() types.Hash {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parts := make([][]byte, 0, len(s.outputs))
	for ko := range s.outputs {
		k := ko
		parts = append(parts, k[:])
	}
	sort.Slice(parts, func(i, j int) bool { return bytes.Compare(parts[i], parts[j]) < 0 })
	return types.Hash(hash.H32("state_root", parts...))
}
