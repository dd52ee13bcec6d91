package txbuild

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apexcoin/jamtis/enote"
	"github.com/apexcoin/jamtis/spcrypto"
)

func partialInputWithKI(ki enote.KeyImage) PartialInput {
	return PartialInput{Image: enote.EnoteImage{KI: ki}}
}

func TestSortPartialInputsOrdersByKeyImage(t *testing.T) {
	a := partialInputWithKI(randomKeyImage())
	b := partialInputWithKI(randomKeyImage())
	c := partialInputWithKI(randomKeyImage())

	sorted := SortPartialInputs([]PartialInput{c, a, b})
	require.Len(t, sorted, 3)

	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1].Image.KI.Bytes()
		cur := sorted[i].Image.KI.Bytes()
		require.True(t, lessOrEqualBytes(prev, cur))
	}
}

func lessOrEqualBytes(a, b [32]byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return true
}

func TestAssemblePartialTxSortsImagesAndProofsTogether(t *testing.T) {
	ki1 := randomKeyImage()
	ki2 := randomKeyImage()

	in1 := PartialInput{Image: enote.EnoteImage{KI: ki1}, Proof: CompositionProof("proof1")}
	in2 := PartialInput{Image: enote.EnoteImage{KI: ki2}, Proof: CompositionProof("proof2")}

	tx := AssemblePartialTx([]PartialInput{in2, in1}, nil, BalanceProof("bal"), TxExtra{}, 10)

	require.Len(t, tx.InputImages, 2)
	require.Len(t, tx.ImageProofs, 2)
	for i, img := range tx.InputImages {
		if img.KI.Bytes() == ki1.Bytes() {
			require.Equal(t, CompositionProof("proof1"), tx.ImageProofs[i])
		} else {
			require.Equal(t, CompositionProof("proof2"), tx.ImageProofs[i])
		}
	}
	require.Equal(t, uint64(10), tx.Fee)
}

func TestBuildPartialInputFormsSpendableImage(t *testing.T) {
	ki := randomKeyImage()
	core := enote.Enote{
		Ko: spcrypto.ScalarMultBase(spcrypto.RandomScalar()),
		C:  spcrypto.ScalarMultBase(spcrypto.RandomScalar()),
	}
	rec := enote.FullRecord{
		IntermediateRecord: enote.IntermediateRecord{
			BasicRecord:    enote.BasicRecord{Enote: core},
			Amount:         500,
			BlindingFactor: spcrypto.RandomScalar(),
		},
		KeyImage: ki,
	}

	in := BuildPartialInput(rec, [32]byte{0xAB})

	require.Equal(t, ki.Bytes(), in.Image.KI.Bytes())
	require.Equal(t, uint64(500), in.Amount)
	require.Equal(t, core, in.Core)
	require.Equal(t, [32]byte{0xAB}, in.ProposalPrefix)

	// the masked image must actually depend on the freshly drawn masks,
	// not just echo the core enote back unmasked.
	require.False(t, in.Image.KoMasked.Equal(core.Ko))
	require.False(t, in.Image.CMasked.Equal(core.C))
}
