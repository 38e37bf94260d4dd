package chainrpc

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// CallStub pairs a call target with hex-encoded calldata. Fake's own
// call tables are keyed by the raw calldata bytes, not by this type.
type CallStub struct {
	To   common.Address
	Data string // hex calldata, 0x-prefixed
}

// Fake is an in-memory Reader used to replay fixed RPC responses in
// tests, so probe and orchestrator behavior is exercised without a
// network. Responses are keyed by exact address/slot/calldata. A Call
// lookup miss behaves like a transport failure (returns an error),
// matching the "probe falls through" contract; a CodeAt or StorageAt
// miss returns empty code or a zero word with no error, like an
// address with no code or an unset slot.
type Fake struct {
	Code    map[common.Address][]byte
	Storage map[common.Address]map[common.Hash][32]byte
	Calls   map[common.Address]map[string][]byte
	CallErr map[common.Address]map[string]error
}

// NewFake returns an empty Fake ready for Set* calls.
func NewFake() *Fake {
	return &Fake{
		Code:    make(map[common.Address][]byte),
		Storage: make(map[common.Address]map[common.Hash][32]byte),
		Calls:   make(map[common.Address]map[string][]byte),
		CallErr: make(map[common.Address]map[string]error),
	}
}

// SetCode stubs the runtime bytecode returned for addr.
func (f *Fake) SetCode(addr common.Address, code []byte) {
	f.Code[addr] = code
}

// SetStorage stubs the storage word returned for (addr, slot).
func (f *Fake) SetStorage(addr common.Address, slot common.Hash, word [32]byte) {
	if f.Storage[addr] == nil {
		f.Storage[addr] = make(map[common.Hash][32]byte)
	}
	f.Storage[addr][slot] = word
}

// SetCall stubs the eth_call return value for (to, selector||args).
func (f *Fake) SetCall(to common.Address, data []byte, ret []byte) {
	if f.Calls[to] == nil {
		f.Calls[to] = make(map[string][]byte)
	}
	f.Calls[to][string(data)] = ret
}

// SetCallError stubs a revert/transport failure for (to, data).
func (f *Fake) SetCallError(to common.Address, data []byte, err error) {
	if f.CallErr[to] == nil {
		f.CallErr[to] = make(map[string]error)
	}
	f.CallErr[to][string(data)] = err
}

func (f *Fake) CodeAt(_ context.Context, addr common.Address, _ BlockTag) ([]byte, error) {
	return f.Code[addr], nil
}

func (f *Fake) StorageAt(_ context.Context, addr common.Address, slot common.Hash, _ BlockTag) ([32]byte, error) {
	return f.Storage[addr][slot], nil
}

func (f *Fake) Call(_ context.Context, to common.Address, data []byte, _ BlockTag) ([]byte, error) {
	if byErr, ok := f.CallErr[to]; ok {
		if err, ok := byErr[string(data)]; ok {
			return nil, err
		}
	}
	byData, ok := f.Calls[to]
	if !ok {
		return nil, fmt.Errorf("fake: no call stub for %s", to)
	}
	ret, ok := byData[string(data)]
	if !ok {
		return nil, fmt.Errorf("fake: no call stub for %s data %x", to, data)
	}
	return ret, nil
}
