package txbuild

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/apexcoin/jamtis/enote"
)

// ErrNotEnoughDecoys is returned when a DecoySource cannot offer count
// distinct decoys excluding the real spend.
var ErrNotEnoughDecoys = errors.New("txbuild: not enough decoy outputs available")

// DecoySource is the abstract ledger collaborator membership-proof
// reference-set preparation samples from; a real implementation would
// favor same-amount, recently-created outputs the way Monero's decoy
// selection does, but that policy lives outside this core.
type DecoySource interface {
	SampleKeyImages(n int) ([]enote.KeyImage, error)
}

// SelectDecoys builds a count-sized reference set for a membership
// proof, excluding the real spend's key image and rejecting duplicates.
// Grounded on the teacher's GetDecoyOutputs, generalized from a concrete
// UTXO slice to an abstract enote source and keyed by KeyImage instead
// of a raw public key.
func SelectDecoys(source DecoySource, real enote.KeyImage, count int) ([]enote.KeyImage, error) {
	if count <= 0 {
		return nil, nil
	}

	realBytes := real.Bytes()
	seen := map[[32]byte]bool{realBytes: true}
	decoys := make([]enote.KeyImage, 0, count)

	// oversample to absorb the real-key and duplicate rejections below.
	for attempt := 0; attempt < 8 && len(decoys) < count; attempt++ {
		sampled, err := source.SampleKeyImages(count - len(decoys) + 2)
		if err != nil {
			return nil, fmt.Errorf("txbuild: sampling decoys: %w", err)
		}
		if len(sampled) == 0 {
			break
		}
		for _, ki := range sampled {
			b := ki.Bytes()
			if seen[b] {
				continue
			}
			seen[b] = true
			decoys = append(decoys, ki)
			if len(decoys) == count {
				break
			}
		}
	}

	if len(decoys) < count {
		return nil, ErrNotEnoughDecoys
	}
	return decoys, nil
}

// BuildReferenceSet places the real key image at a random position
// among decoys, returning the assembled ring and the real spend's
// index within it, the way the reference-set is actually laid out
// before the membership proof is built.
func BuildReferenceSet(real enote.KeyImage, decoys []enote.KeyImage) ([]enote.KeyImage, int, error) {
	ring := make([]enote.KeyImage, len(decoys)+1)
	idx, err := randomIndex(len(ring))
	if err != nil {
		return nil, 0, err
	}
	ring[idx] = real
	di := 0
	for i := range ring {
		if i == idx {
			continue
		}
		ring[i] = decoys[di]
		di++
	}
	return ring, idx, nil
}

func randomIndex(n int) (int, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return int(v % uint64(n)), nil
}
