// Package enote implements jamtis enote construction and recovery:
// assembling plain/selfsend outputs on the sender side, and the
// three-tier (basic/intermediate/full) recovery pipeline on the
// recipient side.
package enote

import (
	"github.com/apexcoin/jamtis/address"
	"github.com/apexcoin/jamtis/hash"
	"github.com/apexcoin/jamtis/spcrypto"
)

// KeyImage is a Seraphis key image, used for double-spend detection.
type KeyImage spcrypto.Point

// Bytes returns the compressed 32-byte encoding.
func (k KeyImage) Bytes() [32]byte { return spcrypto.Point(k).Bytes() }

// Enote is the on-chain output: E = (Ko, C, enc_a, t_addr_enc, view_tag).
type Enote struct {
	Ko        spcrypto.Point     // one-time address
	C         spcrypto.Point     // amount commitment x*G + a*H
	EncAmount [8]byte            // 8-byte XOR-encoded amount
	TagEnc    address.AddressTag // 18-byte encrypted address tag
	ViewTag   byte
}

// EnoteImage is formed only when spending an enote: I = (Ko', C', KI).
type EnoteImage struct {
	KoMasked spcrypto.Point // t_k*G + H_sq(Ko,C)*Ko
	CMasked  spcrypto.Point // t_c*G + C
	KI       KeyImage
}

// squashPrefix computes H_sq(Ko,C), the per-enote scalar masking factor
// the squashed-enote model folds the onetime address and amount
// commitment into (so a membership proof only needs to reference one
// group element per enote rather than two). Grounded on
// sp_core_utils.cpp's make_seraphis_squash_prefix: HashToScalar(dsep, Ko, C).
func squashPrefix(ko, c spcrypto.Point) spcrypto.Scalar {
	koBytes, cBytes := ko.Bytes(), c.Bytes()
	sc, err := spcrypto.ScalarFromCanonicalBytes(hash.HScalar("squashed_enote", koBytes[:], cBytes[:]))
	if err != nil {
		panic("enote: squash prefix scalar reduction failed: " + err.Error())
	}
	return sc
}

// MakeEnoteImage forms the spend-side masked image of a core enote,
// per sp_core_utils.cpp/tx_builder_types_multisig.cpp's get_enote_image:
// Ko' = t_k*G + H_sq(Ko,C)*Ko, C' = t_c*G + C. The key image KI is
// computed separately by RecoverFull (it needs k_m/k_a, not the masks)
// and is threaded in here unchanged so PartialInput carries a complete
// EnoteImage.
func MakeEnoteImage(core Enote, tk, tc spcrypto.Scalar, ki KeyImage) EnoteImage {
	sq := squashPrefix(core.Ko, core.C)
	koMasked := spcrypto.G.ScalarMult(tk).Add(core.Ko.ScalarMult(sq))
	cMasked := spcrypto.G.ScalarMult(tc).Add(core.C)
	return EnoteImage{KoMasked: koMasked, CMasked: cMasked, KI: ki}
}

// EnoteType tags which of the four selfsend/plain flavors an enote is.
type EnoteType int

const (
	TypePlain EnoteType = iota
	TypeDummy
	TypeChange
	TypeSelfSpend
)

func (t EnoteType) selfsendDsep() string {
	switch t {
	case TypeDummy:
		return "q_self_dummy"
	case TypeChange:
		return "q_self_change"
	case TypeSelfSpend:
		return "q_self_self_spend"
	default:
		return ""
	}
}

// InputContext binds enote derivation to the spending act that
// produced it: H(sorted key images) for a normal spend, H(block_height)
// for a coinbase output.
type InputContext [32]byte

// InputContextSpend returns H(sorted key images).
func InputContextSpend(keyImages []KeyImage) InputContext {
	sorted := make([][32]byte, len(keyImages))
	for i, ki := range keyImages {
		sorted[i] = ki.Bytes()
	}
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && lessBytes(sorted[j], sorted[j-1]); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	parts := make([][]byte, len(sorted))
	for i := range sorted {
		parts[i] = sorted[i][:]
	}
	return InputContext(hash.H32("input_context_spend", parts...))
}

// InputContextCoinbase returns H(block_height).
func InputContextCoinbase(height uint64) InputContext {
	var h [8]byte
	for i := 0; i < 8; i++ {
		h[i] = byte(height >> (8 * i))
	}
	return InputContext(hash.H32("input_context_coinbase", h[:]))
}

func lessBytes(a, b [32]byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
