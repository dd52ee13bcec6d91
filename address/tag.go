// Package address implements the jamtis address/tag engine: per-index
// destinations, the Twofish pseudo-CBC address-index cipher, and the
// encoded-address wire format.
package address

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/twofish"

	"github.com/apexcoin/jamtis/hash"
)

// AddressIndex is a 16-byte little-endian wallet address index.
type AddressIndex [16]byte

// AddressTag is the 18-byte ciphered (index || 2-byte MAC) block.
type AddressTag [18]byte

const (
	twofishBlockSize    = 16
	addressTagMACBytes  = 2
	nonoverlappingWidth = len(AddressTag{}) - twofishBlockSize // 2
)

// CipherContext owns a Twofish key schedule derived once per wallet
// from s_ct. Move-only: no Clone method, zero it with Zero() on drop.
type CipherContext struct {
	block cipher.Block
}

// NewCipherContext builds the per-wallet Twofish key schedule from the
// cipher-tag secret s_ct.
func NewCipherContext(sct hash.Secret) (*CipherContext, error) {
	blk, err := twofish.NewCipher(sct[:])
	if err != nil {
		return nil, fmt.Errorf("address: twofish key schedule: %w", err)
	}
	return &CipherContext{block: blk}, nil
}

// Zero overwrites the Twofish key schedule. The context must not be
// used after Zero.
func (c *CipherContext) Zero() {
	if tf, ok := c.block.(*twofish.Cipher); ok {
		*tf = twofish.Cipher{}
	}
}

// Cipher enciphers index j into an 18-byte address tag using the
// overlapping-block pseudo-CBC construction: encrypt the 16-byte
// index as block0, XOR block0's first 2 ciphertext bytes onto the
// trailing 2-byte MAC, then encrypt the 16-byte tail
// (block0[2:16] || masked MAC) as block1. tag = block0[0:2] || block1.
func (c *CipherContext) Cipher(j AddressIndex) AddressTag {
	var enc0 [twofishBlockSize]byte
	c.block.Encrypt(enc0[:], j[:])

	var block1Plain [twofishBlockSize]byte
	copy(block1Plain[:twofishBlockSize-addressTagMACBytes], enc0[addressTagMACBytes:])
	// MAC is all-zero, so masking it is just enc0's first 2 bytes.
	block1Plain[twofishBlockSize-addressTagMACBytes] = enc0[0]
	block1Plain[twofishBlockSize-addressTagMACBytes+1] = enc0[1]

	var enc1 [twofishBlockSize]byte
	c.block.Encrypt(enc1[:], block1Plain[:])

	var tag AddressTag
	copy(tag[:nonoverlappingWidth], enc0[:nonoverlappingWidth])
	copy(tag[nonoverlappingWidth:], enc1[:])
	return tag
}

// TryDecipher reverses Cipher and reports whether the recovered MAC is
// the all-zero constant. On success j is the recovered address index.
func (c *CipherContext) TryDecipher(t AddressTag) (j AddressIndex, ok bool) {
	var dec1 [twofishBlockSize]byte
	c.block.Decrypt(dec1[:], t[nonoverlappingWidth:])

	macHi := dec1[twofishBlockSize-2] ^ t[0]
	macLo := dec1[twofishBlockSize-1] ^ t[1]
	if macHi != 0 || macLo != 0 {
		return AddressIndex{}, false
	}

	var enc0 [twofishBlockSize]byte
	copy(enc0[:nonoverlappingWidth], t[:nonoverlappingWidth])
	copy(enc0[nonoverlappingWidth:], dec1[:twofishBlockSize-nonoverlappingWidth])

	c.block.Decrypt(j[:], enc0[:])
	return j, true
}
