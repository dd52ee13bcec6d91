// Package spcrypto is the elliptic-curve collaborator boundary: thin
// wrappers around filippo.io/edwards25519 and golang.org/x/crypto/curve25519
// giving the rest of this module Scalar/Point arithmetic without each
// package reaching into a third-party curve library directly.
package spcrypto

import (
	"crypto/rand"
	"fmt"

	"filippo.io/edwards25519"
)

// Scalar is an element of the Ed25519 group's scalar field (mod ℓ).
type Scalar struct {
	s *edwards25519.Scalar
}

func newScalar() Scalar {
	return Scalar{s: edwards25519.NewScalar()}
}

// RandomScalar returns a uniformly random non-zero scalar.
func RandomScalar() Scalar {
	var buf [64]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			panic(fmt.Sprintf("spcrypto: rand.Read failed: %v", err))
		}
		sc := newScalar()
		if _, err := sc.s.SetUniformBytes(buf[:]); err != nil {
			panic(fmt.Sprintf("spcrypto: SetUniformBytes failed: %v", err))
		}
		if sc.IsZero() {
			continue
		}
		return sc
	}
}

// ScalarFromWideBytes reduces an arbitrary 64-byte buffer mod ℓ.
func ScalarFromWideBytes(b []byte) Scalar {
	var buf [64]byte
	copy(buf[:], b)
	sc := newScalar()
	if _, err := sc.s.SetUniformBytes(buf[:]); err != nil {
		panic(fmt.Sprintf("spcrypto: SetUniformBytes failed: %v", err))
	}
	return sc
}

// ScalarFromCanonicalBytes parses a 32-byte little-endian canonical scalar.
func ScalarFromCanonicalBytes(b [32]byte) (Scalar, error) {
	sc := newScalar()
	if _, err := sc.s.SetCanonicalBytes(b[:]); err != nil {
		return Scalar{}, fmt.Errorf("spcrypto: invalid scalar encoding: %w", err)
	}
	return sc, nil
}

// ScalarFromUint64 builds a scalar from a plain integer (used for amounts).
func ScalarFromUint64(v uint64) Scalar {
	var b [32]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	sc := newScalar()
	if _, err := sc.s.SetCanonicalBytes(b[:]); err != nil {
		panic(fmt.Sprintf("spcrypto: uint64 scalar encoding rejected: %v", err))
	}
	return sc
}

func (a Scalar) Add(b Scalar) Scalar {
	out := newScalar()
	out.s.Add(a.s, b.s)
	return out
}

func (a Scalar) Sub(b Scalar) Scalar {
	out := newScalar()
	out.s.Subtract(a.s, b.s)
	return out
}

func (a Scalar) Mul(b Scalar) Scalar {
	out := newScalar()
	out.s.Multiply(a.s, b.s)
	return out
}

func (a Scalar) Negate() Scalar {
	out := newScalar()
	out.s.Negate(a.s)
	return out
}

// Invert returns a^-1 mod ℓ. Panics if a is zero.
func (a Scalar) Invert() Scalar {
	if a.IsZero() {
		panic("spcrypto: cannot invert zero scalar")
	}
	out := newScalar()
	out.s.Invert(a.s)
	return out
}

func (a Scalar) IsZero() bool {
	return a.s.Equal(edwards25519.NewScalar()) == 1
}

func (a Scalar) Equal(b Scalar) bool {
	return a.s.Equal(b.s) == 1
}

// Bytes returns the canonical little-endian 32-byte encoding.
func (a Scalar) Bytes() [32]byte {
	var out [32]byte
	copy(out[:], a.s.Bytes())
	return out
}

func (a Scalar) Zero() {
	a.s.Set(edwards25519.NewScalar())
}
