package spcrypto

import (
	"fmt"

	"filippo.io/edwards25519"

	"github.com/apexcoin/jamtis/hash"
)

// Point is an element of the Ed25519 group.
type Point struct {
	p *edwards25519.Point
}

func newIdentity() Point {
	return Point{p: edwards25519.NewIdentityPoint()}
}

// PointFromBytes decodes a compressed 32-byte point.
func PointFromBytes(b [32]byte) (Point, error) {
	pt := newIdentity()
	if _, err := pt.p.SetBytes(b[:]); err != nil {
		return Point{}, fmt.Errorf("spcrypto: invalid point encoding: %w", err)
	}
	return pt, nil
}

func (p Point) Bytes() [32]byte {
	var out [32]byte
	copy(out[:], p.p.Bytes())
	return out
}

func (p Point) Add(q Point) Point {
	out := newIdentity()
	out.p.Add(p.p, q.p)
	return out
}

func (p Point) Sub(q Point) Point {
	out := newIdentity()
	out.p.Subtract(p.p, q.p)
	return out
}

func (p Point) Equal(q Point) bool {
	return p.p.Equal(q.p) == 1
}

// ScalarMult returns s*p.
func (p Point) ScalarMult(s Scalar) Point {
	out := newIdentity()
	out.p.ScalarMult(s.s, p.p)
	return out
}

// ScalarMultBase returns s*G.
func ScalarMultBase(s Scalar) Point {
	out := newIdentity()
	out.p.ScalarBaseMult(s.s)
	return out
}

// G is the Ed25519 base point, the generator all jamtis public keys in
// the main group (K_s, xK_ua's twist aside, masked addresses) are
// expressed relative to.
var G = ScalarMultBase(ScalarFromUint64(1))

// hashToPoint derives a group element deterministically from a domain
// separator. spec.md treats "elliptic curve primitives" (including
// choice of independent generators) as an external collaborator; X, U
// and H below are a concrete, clearly-labeled stand-in with a KNOWN
// discrete log relative to G (dsep-scalar * G), not a production
// generator set. They are sufficient to exercise every identity this
// core computes (key derivation, key images, commitments) but must
// never be mistaken for the real Seraphis/Bulletproofs+ generators.
func hashToPoint(dsep string) Point {
	sc, err := ScalarFromCanonicalBytes(hash.HScalar(dsep))
	if err != nil {
		panic("spcrypto: HScalar produced a non-canonical scalar: " + err.Error())
	}
	return ScalarMultBase(sc)
}

// X, U are the two extra base points the jamtis key hierarchy and
// seraphis composition keys are defined over (K_s = k_m*U + k_vb*X + ...).
var (
	X = hashToPoint("jamtis_X_generator")
	U = hashToPoint("jamtis_U_generator")
	// H is the Pedersen amount-commitment generator: C = x*G + a*H.
	H = hashToPoint("jamtis_H_generator")
)

// Commit returns a Pedersen commitment x*G + a*H.
func Commit(blinding Scalar, amount uint64) Point {
	return G.ScalarMult(blinding).Add(H.ScalarMult(ScalarFromUint64(amount)))
}
