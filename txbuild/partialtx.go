package txbuild

import (
	"sort"

	"github.com/apexcoin/jamtis/enote"
	"github.com/apexcoin/jamtis/spcrypto"
)

// CompositionProof is an opaque Seraphis spend-authorization proof.
// Making and verifying it is an external collaborator (spec.md §6);
// this package only produces the message it signs (ProposalPrefix) and
// carries the resulting bytes around.
type CompositionProof []byte

// BalanceProof is an opaque Bulletproofs+ range/balance proof, likewise
// external; only its binding message is defined here.
type BalanceProof []byte

// PartialInput is one selected enote's spend-side data, still missing
// its ring membership proof (filled in by a later, separate step).
type PartialInput struct {
	Image           enote.EnoteImage
	Proof           CompositionProof
	AddressMask     spcrypto.Scalar // t_k
	CommitmentMask  spcrypto.Scalar // t_c
	Core            enote.Enote
	Amount          uint64
	BlindingFactor  spcrypto.Scalar
	ProposalPrefix  [32]byte
}

// BuildPartialInput forms the spend-side data for one selected input:
// fresh address/commitment masks (t_k, t_c), the resulting masked
// EnoteImage (Ko', C', KI), and the proposal-binding context a later
// composition-proof step signs over. The composition proof itself
// (Proof) is left nil here — it's an external collaborator over this
// PartialInput's ProposalPrefix, filled in once that proof is produced.
func BuildPartialInput(rec enote.FullRecord, prefix [32]byte) PartialInput {
	tk := spcrypto.RandomScalar()
	tc := spcrypto.RandomScalar()
	image := enote.MakeEnoteImage(rec.Enote, tk, tc, rec.KeyImage)

	return PartialInput{
		Image:          image,
		AddressMask:    tk,
		CommitmentMask: tc,
		Core:           rec.Enote,
		Amount:         rec.Amount,
		BlindingFactor: rec.BlindingFactor,
		ProposalPrefix: prefix,
	}
}

// SortPartialInputs orders inputs by key image ascending, per spec.md
// §4.7 step 5.
func SortPartialInputs(ins []PartialInput) []PartialInput {
	out := append([]PartialInput(nil), ins...)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Image.KI.Bytes(), out[j].Image.KI.Bytes()
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
	return out
}

// PartialTx is a transaction missing only its ring membership proofs
// (Grootle or equivalent), filled in by a separate, later step outside
// this core per spec.md §4.7 step 6.
type PartialTx struct {
	InputImages  []enote.EnoteImage
	Outputs      []enote.Output
	Balance      BalanceProof
	ImageProofs  []CompositionProof
	Extra        TxExtra
	Fee          uint64
}

// AssemblePartialTx builds a PartialTx from finalized partial inputs and
// built outputs, sorting image/proof pairs together by key image.
func AssemblePartialTx(inputs []PartialInput, outputs []enote.Output, balance BalanceProof, extra TxExtra, fee uint64) PartialTx {
	sorted := SortPartialInputs(inputs)

	images := make([]enote.EnoteImage, len(sorted))
	proofs := make([]CompositionProof, len(sorted))
	for i, in := range sorted {
		images[i] = in.Image
		proofs[i] = in.Proof
	}

	return PartialTx{
		InputImages: images,
		Outputs:     outputs,
		Balance:     balance,
		ImageProofs: proofs,
		Extra:       extra,
		Fee:         fee,
	}
}
