package chainrpc

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Reader is the abstract read-only chain client every probe runs
// against. It hides transport details (HTTP, WebSocket, IPC) behind
// three operations, parameterized by a block tag. Implementations must
// be safe for concurrent use; probes treat a Reader as shared and never
// mutate it.
type Reader interface {
	// CodeAt returns the deployed runtime bytecode at addr, or an empty
	// slice if none is deployed.
	CodeAt(ctx context.Context, addr common.Address, block BlockTag) ([]byte, error)

	// StorageAt returns the 32-byte word at slot in addr's storage,
	// zero-padded when the slot has never been written.
	StorageAt(ctx context.Context, addr common.Address, slot common.Hash, block BlockTag) ([32]byte, error)

	// Call performs a read-only message call to "to" with the given
	// calldata. It returns an error when the call reverts or the node
	// cannot produce a result.
	Call(ctx context.Context, to common.Address, data []byte, block BlockTag) ([]byte, error)
}
