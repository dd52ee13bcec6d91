package txbuild

import (
	"github.com/apexcoin/jamtis/enote"
	"github.com/apexcoin/jamtis/hash"
	"github.com/apexcoin/jamtis/spcrypto"
)

// ProposalPrefix computes the message every composition proof and the
// balance proof bind to: H_32["tx_msg", project, version, outputs...,
// K_e..., tx_extra].
func ProposalPrefix(project, version string, outputs []enote.Enote, kes []spcrypto.X25519Point, extra TxExtra) [32]byte {
	parts := make([][]byte, 0, 2+len(outputs)*3+len(kes)+1)
	parts = append(parts, []byte(project), []byte(version))

	for _, o := range outputs {
		ko := o.Ko.Bytes()
		c := o.C.Bytes()
		parts = append(parts, ko[:], c[:], o.EncAmount[:], o.TagEnc[:], []byte{o.ViewTag})
	}
	for _, ke := range kes {
		parts = append(parts, ke[:])
	}
	encodedExtra := extra.Encode()
	parts = append(parts, encodedExtra)

	return hash.H32("tx_msg", parts...)
}
