// Package keys implements the jamtis key hierarchy: deterministic
// derivation of every secret and advertised public key from a single
// master spend scalar, down through view-balance, unlock-amounts,
// find-received, generate-address and cipher-tag secrets.
package keys

import (
	"github.com/apexcoin/jamtis/hash"
	"github.com/apexcoin/jamtis/spcrypto"
)

// Hierarchy is a full wallet's key material, created at wallet birth
// and held only in memory. Zero it with Zero() when the wallet closes.
type Hierarchy struct {
	Km spcrypto.Scalar // master spend scalar

	ViewBalanceOnly
}

// ViewBalanceOnly is the view-balance-down slice of the hierarchy: a
// view-only wallet can see every incoming enote and its amount but,
// lacking k_m, cannot form key images or spend.
type ViewBalanceOnly struct {
	Kvb  spcrypto.Scalar        // view-balance scalar
	XkUa spcrypto.X25519Scalar  // unlock-amounts scalar
	XkFr spcrypto.X25519Scalar  // find-received scalar
	Sga  hash.Secret            // generate-address secret
	Sct  hash.Secret            // cipher-tag secret (twofish key)

	Ks   spcrypto.Point     // wallet spend base public point
	XKua spcrypto.X25519Point // advertised unlock-amounts DH point
	XKfr spcrypto.X25519Point // advertised find-received DH point
}

// NewHierarchy derives every downstream secret and public point from a
// master spend scalar. Grounded on jamtis_core_utils.h's
// make_jamtis_mock_keys: k_vb = H_scalar["vb", k_m], xk_ua = H_x25519["ua",
// k_vb], xk_fr = H_x25519["fr", k_vb], s_ga = H_32["ga", k_vb],
// s_ct = H_32["ct", s_ga], K_s = k_vb*X + k_m*U, xK_ua = xk_ua*xG,
// xK_fr = xk_fr*xk_ua*xG.
func NewHierarchy(km spcrypto.Scalar) Hierarchy {
	return Hierarchy{
		Km:              km,
		ViewBalanceOnly: deriveViewBalance(km),
	}
}

func deriveViewBalance(km spcrypto.Scalar) ViewBalanceOnly {
	kmBytes := km.Bytes()
	kvbBytes := hash.HScalar("vb", kmBytes[:])
	kvb, err := spcrypto.ScalarFromCanonicalBytes(kvbBytes)
	if err != nil {
		panic("keys: k_vb reduction produced a non-canonical scalar: " + err.Error())
	}

	xkUa := spcrypto.X25519ScalarFromHash(hash.H32("ua", kvbBytes[:]))
	xkFr := spcrypto.X25519ScalarFromHash(hash.H32("fr", kvbBytes[:]))
	sga := hash.HSecret("ga", kvbBytes[:])
	sct := hash.HSecret("ct", sga[:])

	vb := ViewBalanceOnly{
		Kvb:  kvb,
		XkUa: xkUa,
		XkFr: xkFr,
		Sga:  sga,
		Sct:  sct,
	}
	vb.Ks = spcrypto.X.ScalarMult(kvb).Add(spcrypto.U.ScalarMult(km))
	vb.XKua = xkUa.ScalarBaseMult()
	vb.XKfr = xkFr.ScalarMult(vb.XKua)
	return vb
}

// NewViewBalanceHierarchy builds a view-only wallet directly from a
// view-balance scalar, without ever touching k_m. Cannot derive K_s's
// k_m*U term standalone (Ks below is still computed since U-side key
// images require k_m, not Ks itself) but every view/scan operation works.
func NewViewBalanceHierarchy(kvb spcrypto.Scalar, kmU spcrypto.Point) ViewBalanceOnly {
	kvbBytes := kvb.Bytes()
	xkUa := spcrypto.X25519ScalarFromHash(hash.H32("ua", kvbBytes[:]))
	xkFr := spcrypto.X25519ScalarFromHash(hash.H32("fr", kvbBytes[:]))
	sga := hash.HSecret("ga", kvbBytes[:])
	sct := hash.HSecret("ct", sga[:])

	vb := ViewBalanceOnly{
		Kvb:  kvb,
		XkUa: xkUa,
		XkFr: xkFr,
		Sga:  sga,
		Sct:  sct,
	}
	vb.Ks = spcrypto.X.ScalarMult(kvb).Add(kmU)
	vb.XKua = xkUa.ScalarBaseMult()
	vb.XKfr = xkFr.ScalarMult(vb.XKua)
	return vb
}

// AddressExtension is the per-index private material k^j_x, xk^j_a
// used to build and recognize destination D_j.
type AddressExtension struct {
	KjX  spcrypto.Scalar       // k^j_x
	XkjA spcrypto.X25519Scalar // xk^j_a
}

// AddressPrivkeys derives the per-address extension scalars for index
// j. Not cached: stateless per spec, computed fresh on every call.
// Both take s_ga as the Pad136 hash key, not as plain input:
// k^j_x = H_scalar[s_ga]("addr_ext", j), xk^j_a = H_x25519[s_ga]("addr_priv", j).
func (vb ViewBalanceOnly) AddressPrivkeys(j [16]byte) AddressExtension {
	kjxBytes := hash.HScalarKeyed(vb.Sga[:], "addr_ext", j[:])
	kjx, err := spcrypto.ScalarFromCanonicalBytes(kjxBytes)
	if err != nil {
		panic("keys: k^j_x reduction produced a non-canonical scalar: " + err.Error())
	}
	xkja := spcrypto.X25519ScalarFromHash(hash.H32Keyed(vb.Sga[:], "addr_priv", j[:]))
	return AddressExtension{KjX: kjx, XkjA: xkja}
}

// Zero clears the master and view-balance scalars from memory. Go has
// no destructors; callers must invoke this explicitly when a wallet
// closes.
func (h *Hierarchy) Zero() {
	h.Km.Zero()
	h.ViewBalanceOnly.Zero()
}

func (vb *ViewBalanceOnly) Zero() {
	vb.Kvb.Zero()
	vb.XkUa = spcrypto.X25519Scalar{}
	vb.XkFr = spcrypto.X25519Scalar{}
	vb.Sga = hash.Secret{}
	vb.Sct = hash.Secret{}
}
