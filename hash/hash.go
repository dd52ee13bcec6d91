// Package hash implements the domain-separated Keccak-256 hash family
// every other layer of this module is built from: H1/H8/H16/H32 for
// truncated digests, HScalar for a uniform reduction mod the Ed25519
// group order, and Key/Secret as the 32-byte aliases the key hierarchy
// hangs its derived material on.
package hash

import (
	"filippo.io/edwards25519"
	"golang.org/x/crypto/sha3"
)

// keccakBitrateBytes is the Keccak-256 sponge's rate in bytes, used to
// build the fixed 136-byte zero-padded key block for keyed hashes.
const keccakBitrateBytes = 136

// Key is a 32-byte jamtis public or private key value.
type Key [32]byte

// Secret is a 32-byte jamtis secret/derivation value. Distinguished from
// Key only at the type level so call sites can't mix up a public key and
// a raw secret by accident.
type Secret [32]byte

// Pad136 right-pads key with zero bytes up to the Keccak-256 bitrate
// (136 bytes). Grounded on jamtis_hash_functions.cpp's key-prefixed
// hash construction: Keccak256(pad136(key) || input || domain_separator).
func Pad136(key []byte) []byte {
	out := make([]byte, keccakBitrateBytes)
	copy(out, key)
	return out
}

// sum hashes data with a single Keccak-256 call and returns the full
// 32-byte digest.
func sum(data []byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// concat builds input || domain_separator from variadic parts.
func concat(dsep string, parts ...[]byte) []byte {
	n := len(dsep)
	for _, p := range parts {
		n += len(p)
	}
	buf := make([]byte, 0, n)
	for _, p := range parts {
		buf = append(buf, p...)
	}
	buf = append(buf, dsep...)
	return buf
}

// Sum hashes parts[0] || parts[1] || ... || dsep with Keccak-256 and
// returns the full digest. The variadic parts are a Go-ergonomic
// extension over the original's single-input-slice signature; the
// result is byte-for-byte identical to hashing one pre-concatenated
// buffer.
func Sum(dsep string, parts ...[]byte) [32]byte {
	return sum(concat(dsep, parts...))
}

// SumKeyed hashes Pad136(key) || input || domain_separator, matching
// jamtis_hash_functions.cpp's keyed-hash variants (H_32[view_tag_key],
// H_32[address_tag_cipher_key], ...).
func SumKeyed(key []byte, dsep string, parts ...[]byte) [32]byte {
	padded := Pad136(key)
	full := append(padded, concat(dsep, parts...)...)
	return sum(full)
}

// H1 returns a single-byte digest (used for the jamtis view tag).
func H1(dsep string, parts ...[]byte) byte {
	d := Sum(dsep, parts...)
	return d[0]
}

// H1Keyed is the keyed variant of H1.
func H1Keyed(key []byte, dsep string, parts ...[]byte) byte {
	d := SumKeyed(key, dsep, parts...)
	return d[0]
}

// H8 returns an 8-byte digest.
func H8(dsep string, parts ...[]byte) [8]byte {
	d := Sum(dsep, parts...)
	var out [8]byte
	copy(out[:], d[:8])
	return out
}

// H16 returns a 16-byte digest.
func H16(dsep string, parts ...[]byte) [16]byte {
	d := Sum(dsep, parts...)
	var out [16]byte
	copy(out[:], d[:16])
	return out
}

// H32 returns the full 32-byte digest.
func H32(dsep string, parts ...[]byte) [32]byte {
	return Sum(dsep, parts...)
}

// H32Keyed is the keyed variant of H32. In this module it keys the
// per-address xk^j_a derivation on s_ga and the selfsend q on k_vb.
func H32Keyed(key []byte, dsep string, parts ...[]byte) [32]byte {
	return SumKeyed(key, dsep, parts...)
}

// HKey is H32 at the Key type.
func HKey(dsep string, parts ...[]byte) Key {
	return Key(H32(dsep, parts...))
}

// HSecret is H32 at the Secret type.
func HSecret(dsep string, parts ...[]byte) Secret {
	return Secret(H32(dsep, parts...))
}

// HSecretKeyed is H32Keyed at the Secret type.
func HSecretKeyed(key []byte, dsep string, parts ...[]byte) Secret {
	return Secret(H32Keyed(key, dsep, parts...))
}

// HScalar hashes parts and reduces the digest uniformly mod the
// Ed25519 group order ℓ, returning the canonical little-endian scalar
// encoding. Uses edwards25519.Scalar.SetUniformBytes over a 64-byte
// zero-extended buffer, the library's documented technique for
// reducing a single 32-byte hash into a uniform scalar.
func HScalar(dsep string, parts ...[]byte) [32]byte {
	digest := Sum(dsep, parts...)
	var wide [64]byte
	copy(wide[:32], digest[:])
	sc := edwards25519.NewScalar()
	if _, err := sc.SetUniformBytes(wide[:]); err != nil {
		panic("hash: SetUniformBytes rejected a 64-byte buffer: " + err.Error())
	}
	var out [32]byte
	copy(out[:], sc.Bytes())
	return out
}

// HScalarKeyed is the keyed variant of HScalar.
func HScalarKeyed(key []byte, dsep string, parts ...[]byte) [32]byte {
	digest := SumKeyed(key, dsep, parts...)
	var wide [64]byte
	copy(wide[:32], digest[:])
	sc := edwards25519.NewScalar()
	if _, err := sc.SetUniformBytes(wide[:]); err != nil {
		panic("hash: SetUniformBytes rejected a 64-byte buffer: " + err.Error())
	}
	var out [32]byte
	copy(out[:], sc.Bytes())
	return out
}
