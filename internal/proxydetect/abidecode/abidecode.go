// Package abidecode implements the small slice of Ethereum ABI decoding
// the proxy detector needs: a single dynamic string, a single address,
// and a dynamic address array. It intentionally does not implement a
// general ABI decoder.
package abidecode

import (
	"encoding/binary"
	"errors"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
)

const wordSize = 32

var (
	// ErrTruncated is returned when a blob is shorter than the length
	// its own header word claims.
	ErrTruncated = errors.New("abidecode: truncated data")
	// ErrBadOffset is returned when a dynamic-type head offset points
	// outside the blob.
	ErrBadOffset = errors.New("abidecode: invalid offset")
	// ErrNotUTF8 is returned when decoded string bytes are not valid UTF-8.
	ErrNotUTF8 = errors.New("abidecode: invalid utf-8")
	// ErrZeroAddress is returned by the address decoders when the low
	// 20 bytes of a word are all zero.
	ErrZeroAddress = errors.New("abidecode: zero address")
	// ErrEmptyArray is returned when an address[] decodes to zero
	// non-zero entries.
	ErrEmptyArray = errors.New("abidecode: empty address array")
)

func wordAsUint(word []byte) uint64 {
	// ABI words are big-endian 32 bytes; the values this package handles
	// (offsets, lengths, counts) always fit in the low 8 bytes.
	return binary.BigEndian.Uint64(word[wordSize-8:])
}

// DecodeAddress reads an address from the low 20 bytes of a 32-byte
// word, as returned in a single storage slot or as the tail word of a
// scalar eth_call return. The zero address is rejected.
func DecodeAddress(word [32]byte) (common.Address, error) {
	addr := common.BytesToAddress(word[12:])
	if addr == (common.Address{}) {
		return common.Address{}, ErrZeroAddress
	}
	return addr, nil
}

// DecodeAddressFromCall reads an address from the last 32-byte word of
// an eth_call return blob, applying the same low-20-bytes rule.
func DecodeAddressFromCall(data []byte) (common.Address, error) {
	if len(data) < wordSize {
		return common.Address{}, ErrTruncated
	}
	var word [32]byte
	copy(word[:], data[len(data)-wordSize:])
	return DecodeAddress(word)
}

// DecodeString decodes a single ABI-encoded dynamic string from an
// eth_call return blob: word0 = offset to data (must be 32), word1 =
// byte length L, followed by L bytes padded to a multiple of 32.
func DecodeString(data []byte) (string, error) {
	if len(data) < 2*wordSize {
		return "", ErrTruncated
	}
	offset := wordAsUint(data[:wordSize])
	if offset != wordSize {
		return "", ErrBadOffset
	}
	length := wordAsUint(data[wordSize : 2*wordSize])
	start := 2 * wordSize
	end := start + int(length)
	if end > len(data) || end < start {
		return "", ErrTruncated
	}
	raw := data[start:end]
	if !utf8.Valid(raw) {
		return "", ErrNotUTF8
	}
	return string(raw), nil
}

// DecodeAddressArray decodes a single ABI-encoded dynamic address[] from
// an eth_call return blob: word0 holds the byte offset to the array's
// head; at that offset, word0 holds the element count N, followed by N
// words each holding one address in its low 20 bytes. The offset is not
// assumed to be 32 — callers may encode additional leading fields.
// Zero addresses are filtered out; an array with no non-zero entries is
// an error.
func DecodeAddressArray(data []byte) ([]common.Address, error) {
	if len(data) < wordSize {
		return nil, ErrTruncated
	}
	offset := wordAsUint(data[:wordSize])
	if offset > uint64(len(data)) || offset+wordSize > uint64(len(data)) {
		return nil, ErrBadOffset
	}
	lenStart := int(offset)
	count := wordAsUint(data[lenStart : lenStart+wordSize])

	elemsStart := lenStart + wordSize
	if elemsStart > len(data) {
		return nil, ErrTruncated
	}
	maxCount := uint64(len(data)-elemsStart) / wordSize
	if count > maxCount {
		return nil, ErrTruncated
	}

	out := make([]common.Address, 0, count)
	for i := uint64(0); i < count; i++ {
		wordStart := elemsStart + int(i)*wordSize
		addr := common.BytesToAddress(data[wordStart+12 : wordStart+wordSize])
		if addr != (common.Address{}) {
			out = append(out, addr)
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptyArray
	}
	return out, nil
}
