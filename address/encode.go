package address

import (
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/apexcoin/jamtis/hash"
	"github.com/apexcoin/jamtis/spcrypto"
)

// Network distinguishes mainnet/testnet/stagenet addresses in the
// encoded wire format.
type Network byte

const (
	NetworkMain Network = iota
	NetworkTest
	NetworkStage
)

const (
	addressPrefix   = "xmra"
	addressVersion  = byte(1)
	checksumHexLen  = 8
	checksumBytes   = checksumHexLen / 2
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// destinationBytes serializes a Destination for checksumming/encoding:
// K1(32) || xK2(32) || xK3(32) || addr_tag(18).
func destinationBytes(d Destination) []byte {
	k1 := d.K1.Bytes()
	out := make([]byte, 0, 32+32+32+18)
	out = append(out, k1[:]...)
	out = append(out, d.XK2[:]...)
	out = append(out, d.XK3[:]...)
	out = append(out, d.AddrTag[:]...)
	return out
}

// checksum returns trunc_8(hex(H_8["addr_checksum", dest_bytes])) — a
// jamtis-hash-layer checksum over the destination bytes, built from
// the existing H_8 primitive rather than a separate algorithm.
func checksum(destBytes []byte) string {
	d := hash.H8("addr_checksum", destBytes)
	return hex.EncodeToString(d[:])[:checksumHexLen]
}

// EncodeAddress renders a destination as xmra<version><network>base32(dest)<8-char checksum>.
func EncodeAddress(net Network, d Destination) string {
	db := destinationBytes(d)
	var sb strings.Builder
	sb.WriteString(addressPrefix)
	sb.WriteByte(hexNibble(addressVersion))
	sb.WriteByte(hexNibble(byte(net)))
	sb.WriteString(b32.EncodeToString(db))
	sb.WriteString(checksum(db))
	return sb.String()
}

func hexNibble(v byte) byte {
	const digits = "0123456789abcdef"
	return digits[v&0xf]
}

// DecodeAddress parses the xmra<version><network>base32(dest)<checksum>
// wire format, verifying the trailing checksum.
func DecodeAddress(s string) (Destination, Network, error) {
	if !strings.HasPrefix(s, addressPrefix) {
		return Destination{}, 0, fmt.Errorf("address: missing %q prefix", addressPrefix)
	}
	rest := s[len(addressPrefix):]
	if len(rest) < 2+checksumHexLen {
		return Destination{}, 0, fmt.Errorf("address: string too short")
	}
	versionNibble := rest[0]
	netNibble := rest[1]
	body := rest[2 : len(rest)-checksumHexLen]
	wantChecksum := rest[len(rest)-checksumHexLen:]

	if nibbleValue(versionNibble) != addressVersion {
		return Destination{}, 0, fmt.Errorf("address: unsupported version")
	}
	net := Network(nibbleValue(netNibble))

	db, err := b32.DecodeString(body)
	if err != nil {
		return Destination{}, 0, fmt.Errorf("address: base32 decode: %w", err)
	}
	if len(db) != 32+32+32+18 {
		return Destination{}, 0, fmt.Errorf("address: wrong decoded length %d", len(db))
	}
	if checksum(db) != wantChecksum {
		return Destination{}, 0, fmt.Errorf("address: checksum mismatch")
	}

	d, err := parseDestinationBytes(db)
	if err != nil {
		return Destination{}, 0, err
	}
	return d, net, nil
}

func nibbleValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return 0xff
	}
}

func parseDestinationBytes(db []byte) (Destination, error) {
	var k1b, xk2, xk3 [32]byte
	copy(k1b[:], db[0:32])
	copy(xk2[:], db[32:64])
	copy(xk3[:], db[64:96])

	k1, err := spcrypto.PointFromBytes(k1b)
	if err != nil {
		return Destination{}, fmt.Errorf("address: K1 decode: %w", err)
	}

	var tag AddressTag
	copy(tag[:], db[96:114])

	return Destination{
		K1:      k1,
		XK2:     spcrypto.X25519Point(xk2),
		XK3:     spcrypto.X25519Point(xk3),
		AddrTag: tag,
	}, nil
}
