// Package eip1167 parses EIP-1167 minimal-proxy runtime bytecode.
//
// The parser is deliberately not a general EVM disassembler: it anchors
// on the fixed trampoline prefix and suffix and treats the PUSH opcode
// in between as the only variable, per EIP-1167's fixed bytecode shape.
package eip1167

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

const (
	prefix = "363d3d373d3d3d363d"
	suffix = "57fd5bf3"

	// suffixGapHexChars is the width of the fixed dispatch tail between
	// the end of the embedded address and the start of suffix, in hex
	// characters (11 bytes): 5af43d82803e903d91602b.
	suffixGapHexChars = 22

	minPushOpcode = 0x60 // PUSH1
	maxPushOpcode = 0x73 // PUSH20
)

// ErrNotEip1167 is returned for any bytecode that does not match the
// minimal-proxy shape.
var ErrNotEip1167 = errors.New("not eip-1167 bytecode")

// Parse extracts the implementation address embedded in EIP-1167
// runtime bytecode. code is the raw deployed bytecode (as returned by
// eth_getCode); it may include the metadata tail, which is never
// inspected — only the first ~30 bytes matter.
func Parse(code []byte) (common.Address, error) {
	hexStr := common.Bytes2Hex(code)

	if len(hexStr) < len(prefix)+2 || hexStr[:len(prefix)] != prefix {
		return common.Address{}, ErrNotEip1167
	}

	pushOpcodeHex := hexStr[len(prefix) : len(prefix)+2]
	var pushOpcode uint8
	if _, err := fmt.Sscanf(pushOpcodeHex, "%02x", &pushOpcode); err != nil {
		return common.Address{}, ErrNotEip1167
	}
	if pushOpcode < minPushOpcode || pushOpcode > maxPushOpcode {
		return common.Address{}, ErrNotEip1167
	}
	addrLen := int(pushOpcode) - (minPushOpcode - 1) // PUSH1=0x60 -> length 1

	addrStart := len(prefix) + 2
	addrEnd := addrStart + addrLen*2
	if len(hexStr) < addrEnd {
		return common.Address{}, ErrNotEip1167
	}
	addrHex := hexStr[addrStart:addrEnd]

	suffixStart := addrEnd + suffixGapHexChars
	if len(hexStr) < suffixStart+len(suffix) {
		return common.Address{}, ErrNotEip1167
	}
	if hexStr[suffixStart:suffixStart+len(suffix)] != suffix {
		return common.Address{}, ErrNotEip1167
	}

	// Left-pad to 20 bytes: EIP-1167 vanity addresses encode with fewer
	// than 20 bytes and must never be right-padded.
	addr := common.HexToAddress(leftPadZero(addrHex, 40))
	if addr == (common.Address{}) {
		return common.Address{}, ErrNotEip1167
	}
	return addr, nil
}

func leftPadZero(s string, width int) string {
	if len(s) >= width {
		return s
	}
	zeros := make([]byte, width-len(s))
	for i := range zeros {
		zeros[i] = '0'
	}
	return string(zeros) + s
}
