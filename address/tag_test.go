package address

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apexcoin/jamtis/hash"
)

func newTestCipherContext(t *testing.T) *CipherContext {
	t.Helper()
	sct := hash.HSecret("test_ct", []byte("seed"))
	cc, err := NewCipherContext(sct)
	require.NoError(t, err)
	return cc
}

func TestCipherTryDecipherRoundTrip(t *testing.T) {
	cc := newTestCipherContext(t)

	var j AddressIndex
	j[0] = 42
	j[15] = 7

	tag := cc.Cipher(j)
	recovered, ok := cc.TryDecipher(tag)
	require.True(t, ok)
	require.Equal(t, j, recovered)
}

func TestTryDecipherRejectsGarbage(t *testing.T) {
	cc := newTestCipherContext(t)

	var garbage AddressTag
	for i := range garbage {
		garbage[i] = byte(i * 37)
	}
	_, ok := cc.TryDecipher(garbage)
	require.False(t, ok, "random bytes should fail the zero-MAC check with overwhelming probability")
}

func TestDifferentIndicesProduceDifferentTags(t *testing.T) {
	cc := newTestCipherContext(t)
	var j0, j1 AddressIndex
	j1[0] = 1

	require.NotEqual(t, cc.Cipher(j0), cc.Cipher(j1))
}

func TestEncryptDecryptTagIsSelfInverse(t *testing.T) {
	q := hash.HSecret("q_plain", []byte("derivation"))
	cc := newTestCipherContext(t)
	var j AddressIndex
	j[3] = 9

	tag := cc.Cipher(j)
	enc := EncryptTag(tag, q)
	dec := DecryptTag(enc, q)
	require.Equal(t, tag, dec)
}
