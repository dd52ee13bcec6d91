package txbuild

import (
	"bytes"
	"errors"
	"sort"

	varint "github.com/multiformats/go-varint"
)

// ErrTruncatedExtra is returned when a tx-extra byte stream ends
// mid-element; deserialization is all-or-nothing.
var ErrTruncatedExtra = errors.New("txbuild: truncated tx-extra element")

// ErrTrailingExtra is what varintRead reports for an unreadable varint.
// ParseTxExtra does not return it: trailing bytes after the last
// complete element start a new element that cannot be completed, and
// are reported as ErrTruncatedExtra.
var ErrTrailingExtra = errors.New("txbuild: trailing bytes after tx-extra stream")

// ExtraField is one varint(type) || varint(len) || value element of the
// tx-extra TLV stream.
type ExtraField struct {
	Type  uint64
	Value []byte
}

// TxExtra is a sorted stream of ExtraField elements, grounded on
// tx_extra.cpp's sort-by-(type, value-bytes) ordering.
type TxExtra []ExtraField

// Encode serializes the stream in sorted order.
func (e TxExtra) Encode() []byte {
	sorted := e.sorted()
	var buf bytes.Buffer
	for _, f := range sorted {
		buf.Write(varint.ToUvarint(f.Type))
		buf.Write(varint.ToUvarint(uint64(len(f.Value))))
		buf.Write(f.Value)
	}
	return buf.Bytes()
}

func (e TxExtra) sorted() TxExtra {
	out := append(TxExtra(nil), e...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return bytes.Compare(out[i].Value, out[j].Value) < 0
	})
	return out
}

// ParseTxExtra decodes a TLV stream. Any truncation — a partial varint,
// a declared length running past the end of the buffer, or trailing
// bytes after the last complete element — is rejected outright rather
// than returning a partial result.
func ParseTxExtra(data []byte) (TxExtra, error) {
	var out TxExtra
	rest := data
	for len(rest) > 0 {
		typ, n, err := varintRead(rest)
		if err != nil {
			return nil, ErrTruncatedExtra
		}
		rest = rest[n:]

		length, n, err := varintRead(rest)
		if err != nil {
			return nil, ErrTruncatedExtra
		}
		rest = rest[n:]

		if uint64(len(rest)) < length {
			return nil, ErrTruncatedExtra
		}
		value := append([]byte(nil), rest[:length]...)
		rest = rest[length:]

		out = append(out, ExtraField{Type: typ, Value: value})
	}
	return out, nil
}

func varintRead(b []byte) (uint64, int, error) {
	v, n, err := varint.FromUvarint(b)
	if err != nil {
		return 0, 0, ErrTrailingExtra
	}
	return v, n, nil
}

// Accumulate merges this stream with others from independent sources
// (e.g. a payment-id plugin and a multisig round) and re-sorts before
// final serialization.
func (e TxExtra) Accumulate(others ...TxExtra) TxExtra {
	out := append(TxExtra(nil), e...)
	for _, o := range others {
		out = append(out, o...)
	}
	return out.sorted()
}
