package proxydetect

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chen4903/harpoon/internal/chainrpc"
	"github.com/chen4903/harpoon/internal/proxydetect/abidecode"
	"github.com/chen4903/harpoon/internal/proxydetect/eip1167"
)

// ErrNotThisPattern is wrapped by every probe's failure return. The
// orchestrator treats it identically to a transport error: both simply
// mean "try the next probe".
var ErrNotThisPattern = errors.New("proxydetect: pattern not matched")

// probe is the uniform shape every detection method implements. A
// probe either succeeds with a Result or fails with an error that
// wraps ErrNotThisPattern or an underlying transport error — the
// orchestrator does not distinguish the two.
type probe func(ctx context.Context, rpc chainrpc.Reader, addr common.Address, block chainrpc.BlockTag) (Result, error)

// probeEip1167 matches the fixed EIP-1167 minimal-proxy bytecode shape
// against the contract's own deployed code. It is the cheapest probe:
// a single eth_getCode round trip and no eth_call. It is the only probe
// that reads the contract's code.
func probeEip1167(ctx context.Context, rpc chainrpc.Reader, addr common.Address, block chainrpc.BlockTag) (Result, error) {
	code, err := rpc.CodeAt(ctx, addr, block)
	if err != nil {
		return Result{}, err
	}
	target, err := eip1167.Parse(code)
	if err != nil {
		return Result{}, ErrNotThisPattern
	}
	return Result{Kind: KindEip1167, Target: target, Immutable: true}, nil
}

func probeStorageSlot(kind Kind, slot common.Hash) probe {
	return func(ctx context.Context, rpc chainrpc.Reader, addr common.Address, block chainrpc.BlockTag) (Result, error) {
		word, err := rpc.StorageAt(ctx, addr, slot, block)
		if err != nil {
			return Result{}, err
		}
		target, err := abidecode.DecodeAddress(word)
		if err != nil {
			return Result{}, ErrNotThisPattern
		}
		return Result{Kind: kind, Target: target, Immutable: immutableForPattern(kind)}, nil
	}
}

var (
	probeEip1967Direct = probeStorageSlot(KindEip1967Direct, eip1967LogicSlot)
	probeOpenZeppelin  = probeStorageSlot(KindOpenZeppelin, openZeppelinSlot)
	probeEip1822       = probeStorageSlot(KindEip1822, eip1822LogicSlot)
)

// probeEip1967Beacon reads the beacon address from the EIP-1967 beacon
// slot, then asks the beacon for its implementation. A revert on
// implementation() falls through to childImplementation(); a
// successful call that merely returns the zero address is treated as a
// definitive beacon-probe failure, not a trigger to try the fallback
// selector.
func probeEip1967Beacon(ctx context.Context, rpc chainrpc.Reader, addr common.Address, block chainrpc.BlockTag) (Result, error) {
	word, err := rpc.StorageAt(ctx, addr, eip1967BeaconSlot, block)
	if err != nil {
		return Result{}, err
	}
	beacon, err := abidecode.DecodeAddress(word)
	if err != nil {
		return Result{}, ErrNotThisPattern
	}

	data, callErr := rpc.Call(ctx, beacon, selImplementation, block)
	if callErr != nil {
		data, callErr = rpc.Call(ctx, beacon, selChildImplementation, block)
		if callErr != nil {
			return Result{}, callErr
		}
	}
	target, err := abidecode.DecodeAddressFromCall(data)
	if err != nil {
		return Result{}, ErrNotThisPattern
	}
	return Result{Kind: KindEip1967Beacon, Target: target, Immutable: false}, nil
}

// probeEip897 calls implementation(); if it resolves to a non-zero
// address, a second call to proxyType() decides immutability (type 1
// means the proxy is forever frozen). A failure on the second call
// means mutable, not a probe failure — the implementation address was
// already resolved successfully.
func probeEip897(ctx context.Context, rpc chainrpc.Reader, addr common.Address, block chainrpc.BlockTag) (Result, error) {
	implData, err := rpc.Call(ctx, addr, selImplementation, block)
	if err != nil {
		return Result{}, err
	}
	target, err := abidecode.DecodeAddressFromCall(implData)
	if err != nil {
		return Result{}, ErrNotThisPattern
	}

	immutable := false
	typeData, typeErr := rpc.Call(ctx, addr, selProxyType, block)
	if typeErr == nil && len(typeData) >= 32 {
		v := new(big.Int).SetBytes(typeData[len(typeData)-32:])
		immutable = v.Cmp(big.NewInt(1)) == 0
	}

	return Result{Kind: KindEip897, Target: target, Immutable: immutable}, nil
}

func probeInterfaceCall(kind Kind, selector []byte) probe {
	return func(ctx context.Context, rpc chainrpc.Reader, addr common.Address, block chainrpc.BlockTag) (Result, error) {
		data, err := rpc.Call(ctx, addr, selector, block)
		if err != nil {
			return Result{}, err
		}
		target, err := abidecode.DecodeAddressFromCall(data)
		if err != nil {
			return Result{}, ErrNotThisPattern
		}
		return Result{Kind: kind, Target: target, Immutable: immutableForPattern(kind)}, nil
	}
}

var (
	probeSafe        = probeInterfaceCall(KindSafe, selMasterCopy)
	probeComptroller = probeInterfaceCall(KindComptroller, selComptrollerImpl)
)

// probeBatchRelayer matches Balancer's BatchRelayer: version() must
// decode to a JSON object naming "BatchRelayer", and getLibrary() must
// then resolve to a non-zero address.
func probeBatchRelayer(ctx context.Context, rpc chainrpc.Reader, addr common.Address, block chainrpc.BlockTag) (Result, error) {
	versionData, err := rpc.Call(ctx, addr, selBatchRelayerVersion, block)
	if err != nil {
		return Result{}, err
	}
	versionStr, err := abidecode.DecodeString(versionData)
	if err != nil {
		return Result{}, ErrNotThisPattern
	}

	var version struct {
		Name string `json:"name"`
	}
	if jsonErr := json.Unmarshal([]byte(versionStr), &version); jsonErr != nil {
		return Result{}, ErrNotThisPattern
	}
	if version.Name != "BatchRelayer" {
		return Result{}, ErrNotThisPattern
	}

	libData, err := rpc.Call(ctx, addr, selBatchRelayerGetLib, block)
	if err != nil {
		return Result{}, err
	}
	target, err := abidecode.DecodeAddressFromCall(libData)
	if err != nil {
		return Result{}, ErrNotThisPattern
	}

	return Result{Kind: KindBatchRelayer, Target: target, Immutable: true}, nil
}

// probeEip2535Diamond matches a diamond proxy by asking for its full
// facet set. An ABI-valid but empty (or all-zero) facetAddresses()
// return is treated as a mismatch, not success, to avoid handing back
// an unusable empty Diamond result.
func probeEip2535Diamond(ctx context.Context, rpc chainrpc.Reader, addr common.Address, block chainrpc.BlockTag) (Result, error) {
	data, err := rpc.Call(ctx, addr, selFacetAddresses, block)
	if err != nil {
		return Result{}, err
	}
	targets, err := abidecode.DecodeAddressArray(data)
	if err != nil {
		return Result{}, ErrNotThisPattern
	}
	return Result{Kind: KindEip2535Diamond, Diamond: true, Targets: targets, Immutable: false}, nil
}

// orderedProbes is the fixed probe order, part of this package's public
// contract: bytecode pattern match first, then storage-slot probes,
// then eth_call probes. When two patterns would both match, the earlier
// probe in this slice wins.
var orderedProbes = []probe{
	probeEip1167,
	probeEip1967Direct,
	probeEip1967Beacon,
	probeOpenZeppelin,
	probeEip1822,
	probeEip897,
	probeSafe,
	probeComptroller,
	probeBatchRelayer,
	probeEip2535Diamond,
}
