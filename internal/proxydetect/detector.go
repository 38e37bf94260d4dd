package proxydetect

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chen4903/harpoon/internal/chainrpc"
)

// ErrNotDetected is returned by Detect when none of the ten probes
// matched. It lets callers distinguish "definitely not a known proxy
// pattern" from a genuine error with errors.Is, rather than checking a
// nil *Result against a nil error.
var ErrNotDetected = errors.New("proxydetect: no proxy pattern detected")

// Detect runs the fixed, ordered probe sequence against addr and
// returns the first successful result.
//
// The order is: EIP-1167 (bytecode match, already in hand), EIP-1967
// direct, EIP-1967 beacon, OpenZeppelin legacy, EIP-1822, EIP-897,
// Safe, Comptroller, Balancer BatchRelayer, EIP-2535 Diamond. This
// ordering encodes a priority for contracts that satisfy more than one
// pattern at once — notably EIP-1967-direct is checked before EIP-897,
// so a transparent upgradeable proxy that answers both is reported as
// Eip1967Direct. Changing this order is a behavioral break.
//
// Every probe failure — transport error or pattern mismatch alike — is
// treated identically: the orchestrator moves on to the next probe. A
// transient RPC glitch on probe N must not prevent probe N+1 from
// running, and no single probe is authoritative enough to abort the
// sequence. Detect never returns a transport error to the caller; its
// only externally visible outcomes are a *Result, ErrNotDetected, or
// ctx.Err() when a probe fails after ctx has been canceled or has
// passed its deadline.
//
// block defaults to chainrpc.Latest when the zero value is passed. The
// zero address always returns ErrNotDetected: no probe can produce a
// non-zero target for it.
func Detect(ctx context.Context, rpc chainrpc.Reader, addr common.Address, block chainrpc.BlockTag) (*Result, error) {
	if addr == (common.Address{}) {
		return nil, ErrNotDetected
	}

	for _, p := range orderedProbes {
		result, err := p(ctx, rpc, addr, block)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			continue
		}
		return &result, nil
	}

	return nil, ErrNotDetected
}
