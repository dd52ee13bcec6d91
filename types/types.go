// Package types holds the shared wire-level shapes that sit above a
// single transaction: a block's header and body, and the finalized
// on-chain Transaction a PartialTx becomes once its membership proofs
// are filled in. Everything below transaction assembly lives in
// txbuild/enote directly; this package is what the ledger State
// applies.
package types

import (
	"encoding/hex"

	"github.com/apexcoin/jamtis/enote"
	"github.com/apexcoin/jamtis/hash"
	"github.com/apexcoin/jamtis/txbuild"
)

// Hash is a 32-byte content hash.
type Hash [32]byte

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// MembershipProof is an opaque Grootle (or equivalent) ring membership
// proof — an external collaborator per spec.md §6; this package only
// carries the bytes once produced.
type MembershipProof []byte

// Transaction is a PartialTx with its membership proofs filled in, the
// form that actually goes on chain.
type Transaction struct {
	Version          uint8
	InputImages      []enote.EnoteImage
	Outputs          []enote.Output
	Balance          txbuild.BalanceProof
	ImageProofs      []txbuild.CompositionProof
	MembershipProofs []MembershipProof
	Extra            txbuild.TxExtra
	Fee              uint64
}

// FromPartialTx fills a PartialTx's missing membership proofs to
// produce a finalized, on-chain-ready Transaction.
func FromPartialTx(p txbuild.PartialTx, membership []MembershipProof, version uint8) Transaction {
	return Transaction{
		Version:          version,
		InputImages:      p.InputImages,
		Outputs:          p.Outputs,
		Balance:          p.Balance,
		ImageProofs:      p.ImageProofs,
		MembershipProofs: membership,
		Extra:            p.Extra,
		Fee:              p.Fee,
	}
}

// Hash computes the transaction's identity hash over its key images
// and output one-time addresses, used as the TxID enote records bind
// their origin context to.
func (tx *Transaction) Hash() Hash {
	parts := make([][]byte, 0, len(tx.InputImages)+len(tx.Outputs))
	for _, img := range tx.InputImages {
		ki := img.KI.Bytes()
		parts = append(parts, ki[:])
	}
	for _, o := range tx.Outputs {
		ko := o.Enote.Ko.Bytes()
		parts = append(parts, ko[:])
	}
	return Hash(hash.H32("tx_id", parts...))
}

// BlockHeader is minimal block metadata: height, timestamp, and the
// hash chain linking it to its parent plus the roots committing to its
// contents.
type BlockHeader struct {
	Height        uint64
	Timestamp     int64
	PrevBlockHash Hash
	TxRoot        Hash // root over this block's transaction hashes
	StateRoot     Hash // root over the enote set this block adds/spends
}

// Hash computes the block header's identity hash.
func (bh *BlockHeader) Hash() Hash {
	prev := bh.PrevBlockHash
	tx := bh.TxRoot
	state := bh.StateRoot
	var height, ts [8]byte
	for i := 0; i < 8; i++ {
		height[i] = byte(bh.Height >> (8 * i))
		ts[i] = byte(uint64(bh.Timestamp) >> (8 * i))
	}
	return Hash(hash.H32("block_header", prev[:], tx[:], state[:], height[:], ts[:]))
}

// Block is a finalized block: header plus the transactions it contains.
type Block struct {
	Header       BlockHeader
	Transactions []*Transaction
}

// TxRoot computes a simple hash-of-hashes root over a block's
// transactions, the same simplified commitment style as the teacher's
// original BlockHeader.Hash (a full Merkle tree is outside this core's
// scope; only the enote cryptography layer is specified).
func TxRoot(txs []*Transaction) Hash {
	parts := make([][]byte, len(txs))
	for i, tx := range txs {
		h := tx.Hash()
		parts[i] = h[:]
	}
	return Hash(hash.H32("tx_root", parts...))
}
