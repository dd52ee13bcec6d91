package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSumDeterminism(t *testing.T) {
	a := Sum("dsep", []byte("hello"))
	b := Sum("dsep", []byte("hello"))
	require.Equal(t, a, b)
}

func TestSumDomainSeparation(t *testing.T) {
	a := Sum("dsep_a", []byte("same input"))
	b := Sum("dsep_b", []byte("same input"))
	require.NotEqual(t, a, b, "different domain separators must diverge")
}

func TestSumVariadicMatchesConcatenated(t *testing.T) {
	variadic := Sum("dsep", []byte("foo"), []byte("bar"))
	concatenated := Sum("dsep", []byte("foobar"))
	require.Equal(t, concatenated, variadic, "variadic parts hash identically to one pre-concatenated buffer")
}

func TestH1RangeAndDeterminism(t *testing.T) {
	tag := H1("view_tag", []byte("key"), []byte("output"))
	require.Equal(t, tag, H1("view_tag", []byte("key"), []byte("output")))
}

func TestTruncatedDigestsAgreeWithFullSum(t *testing.T) {
	full := Sum("dsep", []byte("x"))
	require.Equal(t, full[0], H1("dsep", []byte("x")))
	require.Equal(t, full[:8], H8("dsep", []byte("x"))[:])
	require.Equal(t, full[:16], H16("dsep", []byte("x"))[:])
	require.Equal(t, full, H32("dsep", []byte("x")))
}

func TestSumKeyedDiffersFromUnkeyed(t *testing.T) {
	unkeyed := Sum("dsep", []byte("x"))
	keyed := SumKeyed([]byte("some key"), "dsep", []byte("x"))
	require.NotEqual(t, unkeyed, keyed)
}

func TestPad136FixedLength(t *testing.T) {
	padded := Pad136([]byte("short"))
	require.Len(t, padded, keccakBitrateBytes)

	tooLong := make([]byte, 200)
	require.Len(t, Pad136(tooLong), keccakBitrateBytes)
}

func TestHScalarIsCanonicalAndDeterministic(t *testing.T) {
	s1 := HScalar("one_time", []byte("q"))
	s2 := HScalar("one_time", []byte("q"))
	require.Equal(t, s1, s2)

	s3 := HScalar("one_time", []byte("different"))
	require.NotEqual(t, s1, s3)
}
