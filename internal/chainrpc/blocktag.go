// Package chainrpc provides the read-only chain-access abstraction the
// proxy detector runs its probes against, plus a go-ethereum-backed
// implementation and an in-memory fake used by tests.
package chainrpc

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// BlockTag names the chain state a read operation should be evaluated
// against. The zero value is Latest.
type BlockTag struct {
	number *big.Int
	hash   *common.Hash
}

// Latest is the symbolic "most recent block" tag, and the default used
// when a caller omits a block tag.
var Latest = BlockTag{}

// BlockNumber pins a tag to a specific block height.
func BlockNumber(n *big.Int) BlockTag {
	return BlockTag{number: n}
}

// BlockHash pins a tag to a specific block hash. Only CodeAt and Call
// support hash-pinned reads; StorageAt falls back to latest for a
// hash-pinned tag, since ethclient.Client exposes no storage-by-hash
// call.
func BlockHash(h common.Hash) BlockTag {
	return BlockTag{hash: &h}
}

// IsLatest reports whether the tag is the symbolic latest block.
func (t BlockTag) IsLatest() bool {
	return t.number == nil && t.hash == nil
}

// Number returns the pinned block height, or nil for latest/hash-pinned.
func (t BlockTag) Number() *big.Int {
	return t.number
}

// Hash returns the pinned block hash and whether one is set.
func (t BlockTag) Hash() (common.Hash, bool) {
	if t.hash == nil {
		return common.Hash{}, false
	}
	return *t.hash, true
}

// String renders the tag for logging.
func (t BlockTag) String() string {
	switch {
	case t.hash != nil:
		return t.hash.Hex()
	case t.number != nil:
		return t.number.String()
	default:
		return "latest"
	}
}
