package txbuild

import (
	"github.com/apexcoin/jamtis/enote"
	"github.com/apexcoin/jamtis/spcrypto"
)

// MultisigProposal is the plain data a multisig signing round passes
// around before any partial signatures exist: the finalized proposal
// set plus the signer set it expects responses from. Grounded on
// tx_builder_types_multisig.h's proposal-initialization shape; the
// actual multisig signing protocol (nonce exchange, partial composition
// proof combination) is an external collaborator, same as a single
// composition proof itself.
type MultisigProposal struct {
	Proposals   []Proposal
	InputCtx    enote.InputContext
	SignerIDs   [][32]byte
	Threshold   int
}

// MultisigInputInit is one signer's round-1 contribution for one
// selected input: a public nonce commitment, not a signature share.
type MultisigInputInit struct {
	SignerID [32]byte
	KeyImage enote.KeyImage
	Nonce    spcrypto.Point
}

// MultisigPartialSig is one signer's round-2 contribution for one
// selected input, combined by whichever signer assembles the final
// composition proof.
type MultisigPartialSig struct {
	SignerID       [32]byte
	KeyImage       enote.KeyImage
	PartialScalar  spcrypto.Scalar
}

// HasThreshold reports whether enough partial signatures were
// collected for a given input to attempt combination.
func HasThreshold(sigs []MultisigPartialSig, threshold int) bool {
	seen := make(map[[32]byte]bool, len(sigs))
	for _, s := range sigs {
		seen[s.SignerID] = true
	}
	return len(seen) >= threshold
}
