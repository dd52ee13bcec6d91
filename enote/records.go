package enote

import (
	"github.com/apexcoin/jamtis/address"
	"github.com/apexcoin/jamtis/spcrypto"
)

// BasicRecord is what find-received authority alone can recover:
// nominal q/K1/t_addr, unverified against the full hierarchy yet.
type BasicRecord struct {
	Enote        Enote
	KE           spcrypto.X25519Point
	InputCtx     InputContext
	NominalQ     [32]byte
	NominalK1    spcrypto.Point
	NominalTag   address.AddressTag
}

// IntermediateRecord adds the recovered address index, amount and
// blinding factor once s_ga/s_ct are available, but no spend authority.
type IntermediateRecord struct {
	BasicRecord
	Index           address.AddressIndex
	Amount          uint64
	BlindingFactor  spcrypto.Scalar
}

// FullRecord adds the enote-view scalar and key image once k_vb (and,
// to form KI, k_m) are available.
type FullRecord struct {
	IntermediateRecord
	EnoteViewScalar spcrypto.Scalar // k_a
	KeyImage        KeyImage
	Type            EnoteType
}
