// Package txbuild assembles partial transactions from payment
// proposals: output-set finalization, input selection against fee and
// selection oracles, the proposal-prefix binding message, and the
// tx-extra TLV stream. Ring membership proofs, range proofs and
// composition proofs themselves stay external collaborators; this
// package only produces the data they sign over.
package txbuild

import (
	"github.com/apexcoin/jamtis/enote"
	"github.com/apexcoin/jamtis/keys"
	"github.com/apexcoin/jamtis/spcrypto"
)

// Proposal is either a plain payment to a third-party destination or a
// selfsend (dummy/change/self-spend) to the author's own wallet. Both
// convert to (Ko, C, enc_a, t_addr_enc, view_tag, K_e).
type Proposal struct {
	Plain    *enote.PaymentProposal
	Selfsend *enote.SelfsendProposal
}

func PlainProposal(p enote.PaymentProposal) Proposal {
	return Proposal{Plain: &p}
}

func SelfsendProposal(p enote.SelfsendProposal) Proposal {
	return Proposal{Selfsend: &p}
}

// IsSelfsend reports whether this proposal pays the author's own wallet.
func (p Proposal) IsSelfsend() bool { return p.Selfsend != nil }

// Amount returns the proposal's intended payment amount.
func (p Proposal) Amount() uint64 {
	if p.Selfsend != nil {
		return p.Selfsend.Amount
	}
	return p.Plain.Amount
}

// KE returns the enote ephemeral pubkey this proposal will use once built.
func (p Proposal) KE() spcrypto.X25519Point {
	if p.Selfsend != nil {
		return p.Selfsend.KE
	}
	return p.Plain.EphemeralPriv.ScalarMult(p.Plain.Dest.XK3)
}

// Build converts the proposal to a sender-side Output. Selfsend
// proposals need the wallet's own view-balance secret; plain ones don't.
func (p Proposal) Build(vb keys.ViewBalanceOnly) (enote.Output, error) {
	if p.Selfsend != nil {
		return enote.MakeSelfsendOutput(vb, *p.Selfsend)
	}
	return enote.MakePlainOutput(*p.Plain), nil
}

// newSelfsendKE picks a fresh ephemeral key for a selfsend output that
// cannot share K_e with any sibling output (own randomness, not a DH
// with the destination — the sender already holds the view-balance
// secret needed to recover it).
func newSelfsendKE() spcrypto.X25519Point {
	return spcrypto.RandomX25519Scalar().ScalarBaseMult()
}
