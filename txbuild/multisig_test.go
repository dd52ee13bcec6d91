package txbuild

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasThresholdCountsDistinctSigners(t *testing.T) {
	s1 := [32]byte{1}
	s2 := [32]byte{2}
	sigs := []MultisigPartialSig{
		{SignerID: s1},
		{SignerID: s1}, // duplicate signer must not double-count
		{SignerID: s2},
	}
	require.True(t, HasThreshold(sigs, 2))
	require.False(t, HasThreshold(sigs, 3))
}

func TestHasThresholdEmpty(t *testing.T) {
	require.False(t, HasThreshold(nil, 1))
	require.True(t, HasThreshold(nil, 0))
}
