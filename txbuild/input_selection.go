package txbuild

import (
	"errors"
	"sort"

	"github.com/apexcoin/jamtis/enote"
)

// ErrInsufficientFunds is returned when no input-selection strategy can
// close the gap between selected inputs and outputs-plus-fee.
var ErrInsufficientFunds = errors.New("txbuild: insufficient funds to cover outputs and fee")

// InputCandidate is a spendable enote available to input selection.
type InputCandidate struct {
	KeyImage enote.KeyImage
	Amount   uint64
}

// FeeCalculator reports the tx fee for a given input/output count.
type FeeCalculator interface {
	Fee(numInputs, numOutputs int) uint64
}

// FlatFeeCalculator charges a fixed fee regardless of shape, the
// simplest oracle a test or a low-traffic chain needs.
type FlatFeeCalculator struct {
	Flat uint64
}

func (f FlatFeeCalculator) Fee(_, _ int) uint64 { return f.Flat }

// LinearFeeCalculator scales with input and output count, closer to
// what a real weight-based fee market charges.
type LinearFeeCalculator struct {
	Base       uint64
	PerInput   uint64
	PerOutput  uint64
}

func (f LinearFeeCalculator) Fee(numInputs, numOutputs int) uint64 {
	return f.Base + f.PerInput*uint64(numInputs) + f.PerOutput*uint64(numOutputs)
}

// InputSelector is the oracle step 3(c) asks for a brand-new candidate
// input not already excluded, typically backed by an enote store query.
type InputSelector interface {
	SelectInput(excluded []InputCandidate) (InputCandidate, bool)
}

// GreedyInputSelector always offers the largest-amount candidate in
// Available that is not in the excluded list, a reasonable default
// oracle for wallets with few enotes.
type GreedyInputSelector struct {
	Available []InputCandidate
}

func (g GreedyInputSelector) SelectInput(excluded []InputCandidate) (InputCandidate, bool) {
	excludedSet := make(map[[32]byte]bool, len(excluded))
	for _, e := range excluded {
		excludedSet[e.KeyImage.Bytes()] = true
	}
	best := InputCandidate{}
	found := false
	for _, c := range g.Available {
		if excludedSet[c.KeyImage.Bytes()] {
			continue
		}
		if !found || c.Amount > best.Amount {
			best, found = c, true
		}
	}
	return best, found
}

// SelectInputs runs the iterative selection loop of spec §4.7 step 3:
// replace-smallest-with-larger-excluded, promote-largest-if-profitable,
// ask-the-oracle, bulk-add-a-prefix — in that order, until selected
// inputs cover outputsSum plus the fee for the resulting shape, or every
// strategy is exhausted.
func SelectInputs(available []InputCandidate, outputsSum uint64, numOutputs int, fee FeeCalculator, selector InputSelector) ([]InputCandidate, error) {
	selected, err := selectInputsFor(available, outputsSum, numOutputs, fee, selector)
	if err != nil {
		return nil, err
	}

	// After initial success, recompute assuming one extra change output;
	// if that leaves inputs short, re-run targeting the larger shape and
	// outputsSum+1 so the caller ends up with nonzero change instead of
	// an exact match.
	withChangeFee := fee.Fee(len(selected), numOutputs+1)
	if sum(selected) < outputsSum+withChangeFee {
		return selectInputsFor(available, outputsSum+1, numOutputs+1, fee, selector)
	}
	return selected, nil
}

func selectInputsFor(available []InputCandidate, outputsSum uint64, numOutputs int, fee FeeCalculator, selector InputSelector) ([]InputCandidate, error) {
	var selected []InputCandidate
	excluded := append([]InputCandidate(nil), available...)

	for {
		currentFee := fee.Fee(len(selected), numOutputs)
		if sum(selected) >= outputsSum+currentFee {
			return selected, nil
		}

		if replaceSmallestWithLarger(&selected, &excluded) {
			continue
		}

		differential := fee.Fee(len(selected)+1, numOutputs) - currentFee
		if promoteLargestIfProfitable(&selected, &excluded, differential) {
			continue
		}

		if next, ok := selector.SelectInput(append(append([]InputCandidate(nil), selected...), excluded...)); ok {
			selected = append(selected, next)
			excluded = removeCandidate(excluded, next.KeyImage)
			continue
		}

		if bulkAddPrefix(&selected, &excluded, differential) {
			continue
		}

		return nil, ErrInsufficientFunds
	}
}

func sum(cs []InputCandidate) uint64 {
	var s uint64
	for _, c := range cs {
		s += c.Amount
	}
	return s
}

// replaceSmallestWithLarger swaps the smallest selected input for a
// larger excluded one, when that helps close the gap without growing
// the input count (and therefore the fee).
func replaceSmallestWithLarger(selected, excluded *[]InputCandidate) bool {
	if len(*selected) == 0 {
		return false
	}
	smallestIdx := 0
	for i, c := range *selected {
		if c.Amount < (*selected)[smallestIdx].Amount {
			smallestIdx = i
		}
	}
	smallest := (*selected)[smallestIdx]

	for i, c := range *excluded {
		if c.Amount > smallest.Amount {
			(*selected)[smallestIdx] = c
			*excluded = append((*excluded)[:i], (*excluded)[i+1:]...)
			*excluded = append(*excluded, smallest)
			return true
		}
	}
	return false
}

// promoteLargestIfProfitable adds the largest excluded candidate when
// its amount exceeds the fee cost of adding one more input.
func promoteLargestIfProfitable(selected, excluded *[]InputCandidate, differentialFee uint64) bool {
	if len(*excluded) == 0 {
		return false
	}
	largestIdx := 0
	for i, c := range *excluded {
		if c.Amount > (*excluded)[largestIdx].Amount {
			largestIdx = i
		}
	}
	largest := (*excluded)[largestIdx]
	if largest.Amount <= differentialFee {
		return false
	}
	*selected = append(*selected, largest)
	*excluded = append((*excluded)[:largestIdx], (*excluded)[largestIdx+1:]...)
	return true
}

// bulkAddPrefix adds excluded candidates, largest first, until their
// cumulative sum exceeds the cumulative differential fee of adding them.
func bulkAddPrefix(selected, excluded *[]InputCandidate, differentialFeePerInput uint64) bool {
	if len(*excluded) == 0 {
		return false
	}
	sorted := append([]InputCandidate(nil), (*excluded)...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Amount > sorted[j].Amount })

	var cumulative uint64
	var cumulativeFee uint64
	taken := 0
	for _, c := range sorted {
		cumulative += c.Amount
		cumulativeFee += differentialFeePerInput
		taken++
		if cumulative > cumulativeFee {
			break
		}
	}
	if taken == 0 || cumulative <= cumulativeFee {
		return false
	}

	prefix := sorted[:taken]
	*selected = append(*selected, prefix...)
	for _, c := range prefix {
		*excluded = removeCandidate(*excluded, c.KeyImage)
	}
	return true
}

func removeCandidate(cs []InputCandidate, ki enote.KeyImage) []InputCandidate {
	target := ki.Bytes()
	out := make([]InputCandidate, 0, len(cs))
	for _, c := range cs {
		if c.KeyImage.Bytes() != target {
			out = append(out, c)
		}
	}
	return out
}
