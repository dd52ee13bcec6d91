package address

import (
	"github.com/apexcoin/jamtis/hash"
	"github.com/apexcoin/jamtis/keys"
	"github.com/apexcoin/jamtis/spcrypto"
)

// Destination is a per-index advertised address: D_j = (K1_j, xK2_j,
// xK3_j, t_addr_j). Grounded on jamtis_destination.h.
type Destination struct {
	K1      spcrypto.Point
	XK2     spcrypto.X25519Point
	XK3     spcrypto.X25519Point
	AddrTag AddressTag
}

// DeriveDestination builds D_j for index j from a wallet's view-balance
// material. K1_j = k^j_x*X + K_s, xK2_j = xk^j_a*xK_fr, xK3_j = xk^j_a*xK_ua,
// t_addr_j = Cipher(j || 0).
func DeriveDestination(vb keys.ViewBalanceOnly, cc *CipherContext, j AddressIndex) Destination {
	ext := vb.AddressPrivkeys(j)
	return Destination{
		K1:      spcrypto.X.ScalarMult(ext.KjX).Add(vb.Ks),
		XK2:     ext.XkjA.ScalarMult(vb.XKfr),
		XK3:     ext.XkjA.ScalarMult(vb.XKua),
		AddrTag: cc.Cipher(j),
	}
}

// EncryptTag produces the on-enote encrypted tag t_addr_enc = t_addr ⊕
// trunc_18(H_32["addr_tag_enc", q]), an XOR-stream layer (not a PRP);
// integrity rides on q's binding to K_d and input_ctx, not on this XOR.
func EncryptTag(t AddressTag, q hash.Secret) AddressTag {
	mask := hash.H32("addr_tag_enc", q[:])
	var out AddressTag
	for i := range out {
		out[i] = t[i] ^ mask[i]
	}
	return out
}

// DecryptTag reverses EncryptTag; XOR is its own inverse.
func DecryptTag(tEnc AddressTag, q hash.Secret) AddressTag {
	return EncryptTag(tEnc, q)
}
