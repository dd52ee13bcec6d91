package txbuild

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apexcoin/jamtis/enote"
	"github.com/apexcoin/jamtis/spcrypto"
)

func testEnoteOutputs(n int) []enote.Enote {
	out := make([]enote.Enote, n)
	for i := range out {
		out[i] = enote.Enote{
			Ko: spcrypto.ScalarMultBase(spcrypto.RandomScalar()),
			C:  spcrypto.ScalarMultBase(spcrypto.RandomScalar()),
		}
	}
	return out
}

func TestProposalPrefixDeterministic(t *testing.T) {
	outputs := testEnoteOutputs(2)
	kes := []spcrypto.X25519Point{newSelfsendKE(), newSelfsendKE()}
	extra := TxExtra{{Type: 1, Value: []byte("x")}}

	a := ProposalPrefix("apex", "v1", outputs, kes, extra)
	b := ProposalPrefix("apex", "v1", outputs, kes, extra)
	require.Equal(t, a, b)
}

func TestProposalPrefixDivergesOnVersion(t *testing.T) {
	outputs := testEnoteOutputs(1)
	kes := []spcrypto.X25519Point{newSelfsendKE()}
	extra := TxExtra{}

	a := ProposalPrefix("apex", "v1", outputs, kes, extra)
	b := ProposalPrefix("apex", "v2", outputs, kes, extra)
	require.NotEqual(t, a, b)
}

func TestProposalPrefixDivergesOnExtra(t *testing.T) {
	outputs := testEnoteOutputs(1)
	kes := []spcrypto.X25519Point{newSelfsendKE()}

	a := ProposalPrefix("apex", "v1", outputs, kes, TxExtra{{Type: 1, Value: []byte("a")}})
	b := ProposalPrefix("apex", "v1", outputs, kes, TxExtra{{Type: 1, Value: []byte("b")}})
	require.NotEqual(t, a, b)
}
