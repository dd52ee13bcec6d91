package spcrypto

import (
	"crypto/rand"
	"fmt"

	"filippo.io/edwards25519/field"
	"golang.org/x/crypto/curve25519"
)

// X25519Scalar is a private scalar in the Montgomery (X25519) group,
// used for the jamtis unlock-amounts/find-received key pairs and
// enote ephemeral keys. Kept distinct from Scalar (Ed25519 group):
// jamtis deliberately splits "view" operations into the X25519 group
// (cheaper point multiplication, no sign-bit leakage from decryption)
// while spend-authority stays in the Ed25519 group.
type X25519Scalar [32]byte

// X25519Point is a compressed Montgomery u-coordinate.
type X25519Point [32]byte

// RandomX25519Scalar returns a random private scalar (clamped lazily by
// curve25519.X25519 at use time, per RFC 7748).
func RandomX25519Scalar() X25519Scalar {
	var s X25519Scalar
	if _, err := rand.Read(s[:]); err != nil {
		panic(fmt.Sprintf("spcrypto: rand.Read failed: %v", err))
	}
	return s
}

// X25519ScalarFromHash reduces a 32-byte hash output into a private
// scalar; curve25519.X25519 clamps it internally on use.
func X25519ScalarFromHash(b [32]byte) X25519Scalar {
	return X25519Scalar(b)
}

// XBasepoint is the canonical X25519 base point (xG in spec.md notation).
var XBasepoint = X25519Point(curve25519FromBasepoint())

func curve25519FromBasepoint() [32]byte {
	var out [32]byte
	copy(out[:], curve25519.Basepoint)
	return out
}

// ScalarBaseMult returns s*xG.
func (s X25519Scalar) ScalarBaseMult() X25519Point {
	out, err := curve25519.X25519(s[:], curve25519.Basepoint)
	if err != nil {
		panic(fmt.Sprintf("spcrypto: X25519 base scalar mult failed: %v", err))
	}
	var pt X25519Point
	copy(pt[:], out)
	return pt
}

// ScalarMult returns s*p.
func (s X25519Scalar) ScalarMult(p X25519Point) X25519Point {
	out, err := curve25519.X25519(s[:], p[:])
	if err != nil {
		panic(fmt.Sprintf("spcrypto: X25519 scalar mult failed: %v", err))
	}
	var pt X25519Point
	copy(pt[:], out)
	return pt
}

// curve25519A24 is (486662-2)/4, the Montgomery-ladder constant for
// curve25519's a=486662 (RFC 7748 §4.1).
const curve25519A24 = 121665

// CofactorMul8 multiplies p by the small public constant 8, the
// cofactor-clearing step jamtis applies to every raw X25519 DH output
// before hashing it (K_d = 8*r*xK2, etc.). Both curve25519.ScalarMult
// and curve25519.X25519 unconditionally RFC7748-clamp their scalar
// argument (e[0]&=248; e[31]&=127; e[31]|=64) before multiplying, which
// turns a literal 8 into 8+2^254 — there is no way to route a public,
// unclamped multiplier through either entry point. Instead this chains
// three explicit Montgomery x-only point doublings (2P, 4P, 8P) over
// the field shared with edwards25519, using projective (X:Z)
// coordinates so only the final result needs an inversion.
func CofactorMul8(p X25519Point) X25519Point {
	x, err := new(field.Element).SetBytes(p[:])
	if err != nil {
		panic("spcrypto: cofactor-8 doubling received a malformed u-coordinate: " + err.Error())
	}
	z := new(field.Element).One()
	a24 := new(field.Element).Mult32(new(field.Element).One(), curve25519A24)

	for i := 0; i < 3; i++ {
		x, z = montgomeryDouble(x, z, a24)
	}

	u := new(field.Element).Multiply(x, new(field.Element).Invert(z))

	var out X25519Point
	copy(out[:], u.Bytes())
	return out
}

// montgomeryDouble computes the projective doubling step of the
// Montgomery ladder (RFC 7748 §5), specialized to B=1 (curve25519):
// given (x:z) representing u=x/z, returns (x2:z2) representing 2u.
func montgomeryDouble(x, z, a24 *field.Element) (*field.Element, *field.Element) {
	a := new(field.Element).Add(x, z)        // A = X+Z
	aa := new(field.Element).Square(a)       // AA = A^2
	b := new(field.Element).Subtract(x, z)   // B = X-Z
	bb := new(field.Element).Square(b)       // BB = B^2
	e := new(field.Element).Subtract(aa, bb) // E = AA-BB

	x2 := new(field.Element).Multiply(aa, bb)    // X2 = AA*BB
	t := new(field.Element).Multiply(a24, e)     // a24*E
	t.Add(t, aa)                                 // AA + a24*E
	z2 := new(field.Element).Multiply(e, t)      // Z2 = E*(AA + a24*E)
	return x2, z2
}
