package enote

import (
	"fmt"

	"github.com/apexcoin/jamtis/address"
	"github.com/apexcoin/jamtis/hash"
	"github.com/apexcoin/jamtis/keys"
	"github.com/apexcoin/jamtis/spcrypto"
)

// PaymentProposal is a sender-side intent to pay a third-party
// destination. Convertible to an Output via MakePlainOutput.
type PaymentProposal struct {
	Dest            address.Destination
	Amount          uint64
	EphemeralPriv   spcrypto.X25519Scalar // r
	InputCtx        InputContext
}

// SelfsendProposal is a sender-side intent to pay the author's own
// wallet (change, dummy, or an explicit self-spend), using the
// wallet's own view-balance secret instead of a DH exchange.
type SelfsendProposal struct {
	Dest     address.Destination
	Amount   uint64
	Type     EnoteType // TypeDummy, TypeChange, or TypeSelfSpend
	KE       spcrypto.X25519Point // enote ephemeral pubkey shared with a sibling output
	InputCtx InputContext
}

// Output is a fully-assembled sender-side output ready to place on
// chain: (Ko, C, enc_a, t_addr_enc, view_tag, K_e).
type Output struct {
	Enote Enote
	KE    spcrypto.X25519Point
}

// MakePlainOutput assembles a plain enote per spec §4.4 steps 1-10.
func MakePlainOutput(p PaymentProposal) Output {
	ke := p.EphemeralPriv.ScalarMult(p.Dest.XK3)                           // step 1: K_e = r*xK3
	kd := spcrypto.CofactorMul8(p.EphemeralPriv.ScalarMult(p.Dest.XK2))    // step 2: K_d = 8*r*xK2

	q := hash.HSecret("q_plain", kd[:], p.InputCtx[:]) // step 3

	kaSender, err := spcrypto.ScalarFromCanonicalBytes(hash.HScalar("one_time", q[:])) // step 6
	if err != nil {
		panic("enote: one_time scalar reduction failed: " + err.Error())
	}
	ko := spcrypto.X.ScalarMult(kaSender).Add(p.Dest.K1) // step 7

	viewTag := hash.H1("view_tag", kd[:], func() []byte { b := ko.Bytes(); return b[:] }()) // step 4

	tagEnc := address.EncryptTag(p.Dest.AddrTag, q) // step 5

	bakedBytes := rGBaked(p.EphemeralPriv) // step 8: baked = 8*r*G

	xMask, err := spcrypto.ScalarFromCanonicalBytes(hash.HScalar("amt_mask_plain", q[:], bakedBytes[:])) // step 9
	if err != nil {
		panic("enote: amt_mask_plain scalar reduction failed: " + err.Error())
	}
	commitment := spcrypto.Commit(xMask, p.Amount)

	amtMaskBytes := hash.H32("amt_enc_plain", q[:], bakedBytes[:]) // step 10
	var encAmount [8]byte
	for i := 0; i < 8; i++ {
		encAmount[i] = byte(p.Amount>>(8*i)) ^ amtMaskBytes[i]
	}

	return Output{
		Enote: Enote{
			Ko:        ko,
			C:         commitment,
			EncAmount: encAmount,
			TagEnc:    tagEnc,
			ViewTag:   viewTag,
		},
		KE: ke,
	}
}

// rGBaked computes baked = 8*r*G in the MAIN (Ed25519) group: the
// ephemeral privkey r is generated in the X25519 group for DH with
// destination keys, but the "baked key" that binds the amount mask to
// the sender's randomness is taken over G in the main group per
// jamtis_enote_utils.h's make_jamtis_amount_baked_key_plain_sender.
// Both groups share the same 32-byte scalar representation here, so r
// is reinterpreted as a main-group scalar for this one step.
func rGBaked(r spcrypto.X25519Scalar) [32]byte {
	rScalar := spcrypto.ScalarFromWideBytes(wide(r))
	p := spcrypto.ScalarMultBase(rScalar.Mul(spcrypto.ScalarFromUint64(8)))
	return p.Bytes()
}

func wide(b [32]byte) []byte {
	out := make([]byte, 64)
	copy(out, b[:])
	return out
}

// MakeSelfsendOutput assembles a selfsend enote (dummy/change/self_spend)
// per spec §4.4's selfsend variant: q = H_32["q_self_<type>", k_vb, K_e,
// input_ctx], steps 8-10 drop the baked-key input.
func MakeSelfsendOutput(vb keys.ViewBalanceOnly, p SelfsendProposal) (Output, error) {
	dsep := p.Type.selfsendDsep()
	if dsep == "" {
		return Output{}, fmt.Errorf("enote: %d is not a selfsend type", p.Type)
	}
	kvbBytes := vb.Kvb.Bytes()
	keBytes := [32]byte(p.KE)
	q := hash.HSecretKeyed(kvbBytes[:], dsep, keBytes[:], p.InputCtx[:]) // q = H_32[k_vb](K_e, input_ctx)

	kaSender, err := spcrypto.ScalarFromCanonicalBytes(hash.HScalar("one_time", q[:]))
	if err != nil {
		return Output{}, fmt.Errorf("enote: one_time scalar reduction failed: %w", err)
	}
	ko := spcrypto.X.ScalarMult(kaSender).Add(p.Dest.K1)

	// The sender is also the eventual scanner (a self-send always pays
	// the author's own wallet), so it already holds xk_fr and can form
	// K_d the same way RecoverBasic will when it later scans this
	// enote back in: K_d = 8*xk_fr*K_e. This holds regardless of how
	// K_e itself was generated (a fresh DH against the change address,
	// or borrowed from a sibling plain output to keep the tx 2-out),
	// so view_tag uses the same formula and domain separator as a
	// plain enote's.
	kd := spcrypto.CofactorMul8(vb.XkFr.ScalarMult(p.KE))
	viewTag := hash.H1("view_tag", kd[:], func() []byte { b := ko.Bytes(); return b[:] }())

	tagEnc := address.EncryptTag(p.Dest.AddrTag, q)

	xMask, err := spcrypto.ScalarFromCanonicalBytes(hash.HScalar("amt_mask_plain", q[:]))
	if err != nil {
		return Output{}, fmt.Errorf("enote: amt_mask scalar reduction failed: %w", err)
	}
	commitment := spcrypto.Commit(xMask, p.Amount)

	amtMaskBytes := hash.H32("amt_enc_plain", q[:])
	var encAmount [8]byte
	for i := 0; i < 8; i++ {
		encAmount[i] = byte(p.Amount>>(8*i)) ^ amtMaskBytes[i]
	}

	return Output{
		Enote: Enote{
			Ko:        ko,
			C:         commitment,
			EncAmount: encAmount,
			TagEnc:    tagEnc,
			ViewTag:   viewTag,
		},
		KE: p.KE,
	}, nil
}
