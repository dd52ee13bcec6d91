package txbuild

import (
	"errors"

	"github.com/apexcoin/jamtis/address"
	"github.com/apexcoin/jamtis/enote"
	"github.com/apexcoin/jamtis/spcrypto"
)

var (
	ErrNoProposals        = errors.New("txbuild: need at least one output proposal")
	ErrSharedKESelfsend   = errors.New("txbuild: two selfsends to the same wallet cannot share an ephemeral key")
	ErrCannotExpandShared = errors.New("txbuild: cannot add a change output to a shared-K_e pair")
	ErrDuplicateKE        = errors.New("txbuild: three or more proposals require distinct ephemeral keys")
)

// FinalizeOutputSet applies spec's output-count rules (§4.7 step 2) to
// a user's intended proposals, inserting dummy and/or change outputs as
// needed so the resulting tx has a well-formed 2-out or ≥3-out shape.
// changeDest is where change returns to (the wallet's own primary
// address); inputCtx binds the new proposals' selfsend secrets.
func FinalizeOutputSet(proposals []Proposal, sIn uint64, fee uint64, changeDest address.Destination, inputCtx enote.InputContext) ([]Proposal, error) {
	switch len(proposals) {
	case 0:
		return nil, ErrNoProposals
	case 1:
		return finalizeOne(proposals[0], sIn, fee, changeDest, inputCtx)
	case 2:
		return finalizeTwo(proposals, sIn, fee, changeDest, inputCtx)
	default:
		return finalizeMany(proposals, sIn, fee, changeDest, inputCtx)
	}
}

func outputSum(proposals []Proposal) uint64 {
	var s uint64
	for _, p := range proposals {
		s += p.Amount()
	}
	return s
}

func changeAmount(sIn, fee uint64, proposals []Proposal) uint64 {
	spent := fee + outputSum(proposals)
	if spent >= sIn {
		return 0
	}
	return sIn - spent
}

// dummyProposal builds a zero-amount selfsend output sharing ke.
func dummyProposal(ke spcrypto.X25519Point, dest address.Destination, inputCtx enote.InputContext) Proposal {
	return SelfsendProposal(enote.SelfsendProposal{
		Dest:     dest,
		Amount:   0,
		Type:     enote.TypeDummy,
		KE:       ke,
		InputCtx: inputCtx,
	})
}

// changeProposal builds a nonzero-amount selfsend change output sharing ke.
func changeProposal(amount uint64, ke spcrypto.X25519Point, dest address.Destination, inputCtx enote.InputContext) Proposal {
	return SelfsendProposal(enote.SelfsendProposal{
		Dest:     dest,
		Amount:   amount,
		Type:     enote.TypeChange,
		KE:       ke,
		InputCtx: inputCtx,
	})
}

func finalizeOne(p Proposal, sIn, fee uint64, changeDest address.Destination, inputCtx enote.InputContext) ([]Proposal, error) {
	change := changeAmount(sIn, fee, []Proposal{p})
	if change == 0 {
		// special-dummy rule: reuse the sole output's K_e to preserve 2-out.
		return []Proposal{p, dummyProposal(p.KE(), changeDest, inputCtx)}, nil
	}
	if !p.IsSelfsend() {
		// special change: shares K_e with the sole output, still 2-out.
		return []Proposal{p, changeProposal(change, p.KE(), changeDest, inputCtx)}, nil
	}
	// both a fresh dummy and a normal change: two selfsends to the same
	// wallet must not share K_e, so each gets its own fresh key.
	return []Proposal{
		p,
		dummyProposal(newSelfsendKE(), changeDest, inputCtx),
		changeProposal(change, newSelfsendKE(), changeDest, inputCtx),
	}, nil
}

func finalizeTwo(proposals []Proposal, sIn, fee uint64, changeDest address.Destination, inputCtx enote.InputContext) ([]Proposal, error) {
	a, b := proposals[0], proposals[1]
	shared := a.KE() == b.KE()
	change := changeAmount(sIn, fee, proposals)

	if !shared {
		if change == 0 {
			// keep >=3 outputs since a 2-out tx requires a shared K_e.
			return []Proposal{a, b, dummyProposal(newSelfsendKE(), changeDest, inputCtx)}, nil
		}
		return []Proposal{a, b, changeProposal(change, newSelfsendKE(), changeDest, inputCtx)}, nil
	}

	if change > 0 {
		return nil, ErrCannotExpandShared
	}
	if a.IsSelfsend() && b.IsSelfsend() {
		return nil, ErrSharedKESelfsend
	}
	return proposals, nil
}

func finalizeMany(proposals []Proposal, sIn, fee uint64, changeDest address.Destination, inputCtx enote.InputContext) ([]Proposal, error) {
	seen := make(map[spcrypto.X25519Point]bool, len(proposals))
	for _, p := range proposals {
		ke := p.KE()
		if seen[ke] {
			return nil, ErrDuplicateKE
		}
		seen[ke] = true
	}

	change := changeAmount(sIn, fee, proposals)
	if change == 0 {
		return proposals, nil
	}
	out := make([]Proposal, len(proposals), len(proposals)+1)
	copy(out, proposals)
	return append(out, changeProposal(change, newSelfsendKE(), changeDest, inputCtx)), nil
}
