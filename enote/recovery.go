package enote

import (
	"errors"

	"github.com/apexcoin/jamtis/address"
	"github.com/apexcoin/jamtis/hash"
	"github.com/apexcoin/jamtis/keys"
	"github.com/apexcoin/jamtis/spcrypto"
)

// ErrViewTagMismatch is returned by RecoverBasic when the enote is
// foreign (the expected ~255/256 case); not an error condition, a
// filter result.
var ErrViewTagMismatch = errors.New("enote: view tag mismatch")

// ErrBadMAC is returned by RecoverIntermediate when the deciphered
// address tag fails its MAC check.
var ErrBadMAC = errors.New("enote: address tag MAC check failed")

// ErrK1Mismatch is returned by RecoverIntermediate when the
// reconstructed K1_j does not match the nominal K1 from the basic tier.
var ErrK1Mismatch = errors.New("enote: K1 mismatch")

// ErrCommitmentMismatch is returned by RecoverIntermediate when the
// recomputed commitment does not match the on-chain one.
var ErrCommitmentMismatch = errors.New("enote: commitment mismatch")

// RecoverBasic is the find-received-only filter: spec §4.5 steps 1-7.
// Rejects ~255/256 of foreign enotes via the 1-byte view tag before
// doing any further work.
func RecoverBasic(vb keys.ViewBalanceOnly, e Enote, ke spcrypto.X25519Point, ctx InputContext) (BasicRecord, error) {
	kd := vb.XkFr.ScalarMult(ke)
	kd = spcrypto.CofactorMul8(kd) // step 1: K_d = 8*xk_fr*K_e

	koBytes := e.Ko.Bytes()
	viewTag := hash.H1("view_tag", kd[:], koBytes[:]) // step 2
	if viewTag != e.ViewTag {                          // step 3
		return BasicRecord{}, ErrViewTagMismatch
	}

	q := hash.H32("q_plain", kd[:], ctx[:]) // step 4

	oneTime, err := spcrypto.ScalarFromCanonicalBytes(hash.HScalar("one_time", q[:]))
	if err != nil {
		return BasicRecord{}, err
	}
	k1Nominal := e.Ko.Sub(spcrypto.X.ScalarMult(oneTime)) // step 5: K1' = Ko - H_scalar[..]*X

	tagNominal := address.DecryptTag(e.TagEnc, hash.Secret(q)) // step 6

	return BasicRecord{
		Enote:      e,
		KE:         ke,
		InputCtx:   ctx,
		NominalQ:   q,
		NominalK1:  k1Nominal,
		NominalTag: tagNominal,
	}, nil
}

// RecoverIntermediate adds the recovered index, amount and blinding
// factor: spec §4.5 steps 8-12. Requires s_ga/s_ct but not k_vb.
func RecoverIntermediate(vb keys.ViewBalanceOnly, cc *address.CipherContext, rec BasicRecord) (IntermediateRecord, error) {
	j, ok := cc.TryDecipher(rec.NominalTag) // step 8
	if !ok {
		return IntermediateRecord{}, ErrBadMAC
	}

	ext := vb.AddressPrivkeys(j)
	k1j := spcrypto.X.ScalarMult(ext.KjX).Add(vb.Ks) // step 9: reconstruct K1_j
	if !k1j.Equal(rec.NominalK1) {
		return IntermediateRecord{}, ErrK1Mismatch
	}

	invXkjA := invertX25519Scalar(ext.XkjA)
	baked := spcrypto.CofactorMul8(invXkjA.ScalarMult(rec.KE)) // step 10: baked = 8*(1/xk^j_a)*K_e

	xMask, err := spcrypto.ScalarFromCanonicalBytes(hash.HScalar("amt_mask_plain", rec.NominalQ[:], baked[:])) // step 11
	if err != nil {
		return IntermediateRecord{}, err
	}
	amtMaskBytes := hash.H32("amt_enc_plain", rec.NominalQ[:], baked[:])
	var amount uint64
	for i := 0; i < 8; i++ {
		amount |= uint64(rec.Enote.EncAmount[i]^amtMaskBytes[i]) << (8 * i)
	}

	recomputed := spcrypto.Commit(xMask, amount) // step 12
	if !recomputed.Equal(rec.Enote.C) {
		return IntermediateRecord{}, ErrCommitmentMismatch
	}

	return IntermediateRecord{
		BasicRecord:    rec,
		Index:          j,
		Amount:         amount,
		BlindingFactor: xMask,
	}, nil
}

// RecoverFull adds the enote-view scalar and key image: spec §4.5
// steps 13-14. Requires full spend authority (k_m and k_vb together);
// a view-balance-only wallet cannot form KI and recovery stops here.
func RecoverFull(h keys.Hierarchy, rec IntermediateRecord, enoteType EnoteType) (FullRecord, error) {
	ext := h.AddressPrivkeys(rec.Index)

	oneTime, err := spcrypto.ScalarFromCanonicalBytes(hash.HScalar("one_time", rec.NominalQ[:]))
	if err != nil {
		return FullRecord{}, err
	}
	ka := oneTime.Add(ext.KjX).Add(h.Kvb) // step 13

	ki := spcrypto.U.ScalarMult(h.Km.Mul(ka.Invert())) // step 14: KI = (k_m/k_a)*U

	return FullRecord{
		IntermediateRecord: rec,
		EnoteViewScalar:    ka,
		KeyImage:           KeyImage(ki),
		Type:               enoteType,
	}, nil
}

// RecoverSelfsend tries CHANGE, SELF_SPEND and DUMMY in turn against a
// known own-destination K1 (typically the wallet's primary address).
// The view tag is not used as an early filter here: it is checked only
// after a type's recomputed Ko matches.
func RecoverSelfsend(vb keys.ViewBalanceOnly, ownK1 spcrypto.Point, e Enote, ke spcrypto.X25519Point, ctx InputContext) (BasicRecord, EnoteType, error) {
	for _, t := range []EnoteType{TypeChange, TypeSelfSpend, TypeDummy} {
		kvbBytes := vb.Kvb.Bytes()
		keBytes := [32]byte(ke)
		q := hash.HSecretKeyed(kvbBytes[:], t.selfsendDsep(), keBytes[:], ctx[:]) // q = H_32[k_vb](K_e, input_ctx)

		oneTime, err := spcrypto.ScalarFromCanonicalBytes(hash.HScalar("one_time", q[:]))
		if err != nil {
			continue
		}
		koCandidate := spcrypto.X.ScalarMult(oneTime).Add(ownK1)
		if !koCandidate.Equal(e.Ko) {
			continue
		}

		// A legitimate self-send enote carries a view tag formed the
		// same way a plain enote's is, from K_d = 8*xk_fr*K_e (the
		// sender, being the same wallet, already holds xk_fr and used
		// this formula when constructing the enote) — reject a Ko
		// match that isn't backed by a matching view tag.
		kd := spcrypto.CofactorMul8(vb.XkFr.ScalarMult(ke))
		koBytes := e.Ko.Bytes()
		if hash.H1("view_tag", kd[:], koBytes[:]) != e.ViewTag {
			continue
		}

		tagNominal := address.DecryptTag(e.TagEnc, q)
		return BasicRecord{
			Enote:      e,
			KE:         ke,
			InputCtx:   ctx,
			NominalQ:   [32]byte(q),
			NominalK1:  ownK1,
			NominalTag: tagNominal,
		}, t, nil
	}
	return BasicRecord{}, 0, errors.New("enote: no selfsend type matched")
}

func invertX25519Scalar(s spcrypto.X25519Scalar) spcrypto.X25519Scalar {
	scalar := spcrypto.ScalarFromWideBytes(s[:])
	inv := scalar.Invert()
	b := inv.Bytes()
	return spcrypto.X25519Scalar(b)
}
