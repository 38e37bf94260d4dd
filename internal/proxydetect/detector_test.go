package proxydetect

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chen4903/harpoon/internal/chainrpc"
)

func addrWordBytes(addr common.Address) []byte {
	word := make([]byte, 32)
	copy(word[12:], addr.Bytes())
	return word
}

func TestDetectZeroAddressReturnsNotDetected(t *testing.T) {
	fake := chainrpc.NewFake()
	_, err := Detect(context.Background(), fake, common.Address{}, chainrpc.Latest)
	assert.ErrorIs(t, err, ErrNotDetected)
}

func TestDetectNoneMatchReturnsNotDetected(t *testing.T) {
	fake := chainrpc.NewFake()
	addr := common.HexToAddress("0x1234000000000000000000000000000000abcd")
	_, err := Detect(context.Background(), fake, addr, chainrpc.Latest)
	assert.ErrorIs(t, err, ErrNotDetected)
}

// Scenario 1: EIP-1967 direct proxy.
func TestDetectEip1967Direct(t *testing.T) {
	addr := common.HexToAddress("0xA7AeFeaD2F25972D80516628417ac46b3F2604Af")
	target := common.HexToAddress("0x4bd844f72a8edd323056130a86fc624d0dbcf5b0")

	fake := chainrpc.NewFake()
	fake.SetStorage(addr, eip1967LogicSlot, wordFromAddress(target))

	result, err := Detect(context.Background(), fake, addr, chainrpc.Latest)
	require.NoError(t, err)
	assert.Equal(t, KindEip1967Direct, result.Kind)
	assert.Equal(t, target, result.Target)
	assert.False(t, result.Immutable)
}

// Scenario 2: EIP-1167 minimal proxy.
func TestDetectEip1167(t *testing.T) {
	addr := common.HexToAddress("0x6d5d9b6ec51c15f45bfa4c460502403351d5b999")
	target := common.HexToAddress("0x210ff9ced719e9bf2444dbc3670bac99342126fa")

	fake := chainrpc.NewFake()
	code := common.FromHex("0x363d3d373d3d3d363d73" + target.Hex()[2:] + "5af43d82803e903d91602b57fd5bf3")
	fake.SetCode(addr, code)

	result, err := Detect(context.Background(), fake, addr, chainrpc.Latest)
	require.NoError(t, err)
	assert.Equal(t, KindEip1167, result.Kind)
	assert.Equal(t, target, result.Target)
	assert.True(t, result.Immutable)
}

// Scenario 3: EIP-1967 beacon proxy.
func TestDetectEip1967Beacon(t *testing.T) {
	addr := common.HexToAddress("0xDd4e2eb37268B047f55fC5cAf22837F9EC08A881")
	beacon := common.HexToAddress("0x00000000000000000000000000000000001234")
	target := common.HexToAddress("0xe5c048792dcf2e4a56000c8b6a47f21df22752d1")

	fake := chainrpc.NewFake()
	fake.SetStorage(addr, eip1967BeaconSlot, wordFromAddress(beacon))
	fake.SetCall(beacon, selImplementation, addrWordBytes(target))

	result, err := Detect(context.Background(), fake, addr, chainrpc.Latest)
	require.NoError(t, err)
	assert.Equal(t, KindEip1967Beacon, result.Kind)
	assert.Equal(t, target, result.Target)
	assert.False(t, result.Immutable)
}

// Beacon fallback: implementation() reverts, childImplementation() answers.
func TestDetectEip1967BeaconFallback(t *testing.T) {
	addr := common.HexToAddress("0x0000000000000000000000000000000000bEEF")
	beacon := common.HexToAddress("0x0000000000000000000000000000000000cafe")
	target := common.HexToAddress("0x0fa0fd98727c443dd5275774c44d27cff9d279ed")

	fake := chainrpc.NewFake()
	fake.SetStorage(addr, eip1967BeaconSlot, wordFromAddress(beacon))
	fake.SetCallError(beacon, selImplementation, assert.AnError)
	fake.SetCall(beacon, selChildImplementation, addrWordBytes(target))

	result, err := Detect(context.Background(), fake, addr, chainrpc.Latest)
	require.NoError(t, err)
	assert.Equal(t, KindEip1967Beacon, result.Kind)
	assert.Equal(t, target, result.Target)
}

// Beacon fallback rule: a successful call that merely returns the zero
// address is a definitive failure, not a trigger to try the fallback
// selector.
func TestDetectEip1967BeaconZeroReturnDoesNotFallThroughToChild(t *testing.T) {
	addr := common.HexToAddress("0x0000000000000000000000000000000000bEEF")
	beacon := common.HexToAddress("0x0000000000000000000000000000000000cafe")
	target := common.HexToAddress("0x0fa0fd98727c443dd5275774c44d27cff9d279ed")

	fake := chainrpc.NewFake()
	fake.SetStorage(addr, eip1967BeaconSlot, wordFromAddress(beacon))
	fake.SetCall(beacon, selImplementation, addrWordBytes(common.Address{}))
	fake.SetCall(beacon, selChildImplementation, addrWordBytes(target))

	_, err := Detect(context.Background(), fake, addr, chainrpc.Latest)
	assert.ErrorIs(t, err, ErrNotDetected)
}

// Scenario 4: EIP-2535 Diamond proxy.
func TestDetectEip2535Diamond(t *testing.T) {
	addr := common.HexToAddress("0x1231DEB6f5749EF6cE6943a275A1D3E7486F4EaE")
	facets := make([]common.Address, 20)
	for i := range facets {
		facets[i] = common.BigToAddress(big.NewInt(int64(i + 1)))
	}

	fake := chainrpc.NewFake()
	fake.SetCall(addr, selFacetAddresses, encodeAddressArray(facets))

	result, err := Detect(context.Background(), fake, addr, chainrpc.Latest)
	require.NoError(t, err)
	assert.Equal(t, KindEip2535Diamond, result.Kind)
	assert.True(t, result.Diamond)
	assert.GreaterOrEqual(t, len(result.Targets), 20)
	assert.False(t, result.Immutable)
}

// Scenario 6: Balancer BatchRelayer.
func TestDetectBatchRelayer(t *testing.T) {
	addr := common.HexToAddress("0x35cea9e57a393ac66aaa7e25c391d52c74b5648f")
	target := common.HexToAddress("0xea66501df1a00261e3bb79d1e90444fc6a186b62")

	fake := chainrpc.NewFake()
	fake.SetCall(addr, selBatchRelayerVersion, encodeString(`{"name":"BatchRelayer","version":"4"}`))
	fake.SetCall(addr, selBatchRelayerGetLib, addrWordBytes(target))

	result, err := Detect(context.Background(), fake, addr, chainrpc.Latest)
	require.NoError(t, err)
	assert.Equal(t, KindBatchRelayer, result.Kind)
	assert.Equal(t, target, result.Target)
	assert.True(t, result.Immutable)
}

// EIP-897 immutability: proxyType() == 1 means forever-frozen.
func TestDetectEip897Immutable(t *testing.T) {
	addr := common.HexToAddress("0x0000000000000000000000000000000000f00d")
	target := common.HexToAddress("0x00000000000000000000000000000000decade")

	fake := chainrpc.NewFake()
	fake.SetCall(addr, selImplementation, addrWordBytes(target))
	fake.SetCall(addr, selProxyType, oneWord())

	result, err := Detect(context.Background(), fake, addr, chainrpc.Latest)
	require.NoError(t, err)
	assert.Equal(t, KindEip897, result.Kind)
	assert.True(t, result.Immutable)
}

func TestDetectEip897MutableOnProxyTypeFailure(t *testing.T) {
	addr := common.HexToAddress("0x0000000000000000000000000000000000f00d")
	target := common.HexToAddress("0x00000000000000000000000000000000decade")

	fake := chainrpc.NewFake()
	fake.SetCall(addr, selImplementation, addrWordBytes(target))
	fake.SetCallError(addr, selProxyType, assert.AnError)

	result, err := Detect(context.Background(), fake, addr, chainrpc.Latest)
	require.NoError(t, err)
	assert.False(t, result.Immutable)
}

// Ordering: a contract answering both EIP-1967-direct and EIP-897 is
// reported as Eip1967Direct (earlier probe wins).
func TestDetectOrderingPrefersEip1967OverEip897(t *testing.T) {
	addr := common.HexToAddress("0x0000000000000000000000000000000000f00d")
	eip1967Target := common.HexToAddress("0x1111111111111111111111111111111111111a")
	eip897Target := common.HexToAddress("0x2222222222222222222222222222222222222b")

	fake := chainrpc.NewFake()
	fake.SetStorage(addr, eip1967LogicSlot, wordFromAddress(eip1967Target))
	fake.SetCall(addr, selImplementation, addrWordBytes(eip897Target))

	result, err := Detect(context.Background(), fake, addr, chainrpc.Latest)
	require.NoError(t, err)
	assert.Equal(t, KindEip1967Direct, result.Kind)
	assert.Equal(t, eip1967Target, result.Target)
}

func TestDetectDeterministicAcrossRepeatedCalls(t *testing.T) {
	addr := common.HexToAddress("0xA7AeFeaD2F25972D80516628417ac46b3F2604Af")
	target := common.HexToAddress("0x4bd844f72a8edd323056130a86fc624d0dbcf5b0")

	fake := chainrpc.NewFake()
	fake.SetStorage(addr, eip1967LogicSlot, wordFromAddress(target))

	r1, err1 := Detect(context.Background(), fake, addr, chainrpc.Latest)
	r2, err2 := Detect(context.Background(), fake, addr, chainrpc.Latest)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, *r1, *r2)
}

func TestResultMarshalJSONSingle(t *testing.T) {
	r := Result{Kind: KindSafe, Target: common.HexToAddress("0xd9db270c1b5e3bd161e8c8503c55ceabee709552")}
	b, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"target":"0xd9Db270c1B5E3Bd161E8c8503c55cEABeE709552","type":"Safe","immutable":false}`, string(b))
}

func TestResultMarshalJSONDiamond(t *testing.T) {
	a := common.HexToAddress("0x1111111111111111111111111111111111111111")
	r := Result{Kind: KindEip2535Diamond, Diamond: true, Targets: []common.Address{a}}
	b, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"target":["0x1111111111111111111111111111111111111111"],"type":"Eip2535Diamond","immutable":false}`, string(b))
}

// --- test helpers ---

func wordFromAddress(addr common.Address) [32]byte {
	var w [32]byte
	copy(w[12:], addr.Bytes())
	return w
}

func encodeString(s string) []byte {
	out := make([]byte, 64+paddedLen(len(s)))
	putUint(out[0:32], 32)
	putUint(out[32:64], uint64(len(s)))
	copy(out[64:], s)
	return out
}

func paddedLen(n int) int {
	if n%32 == 0 {
		return n
	}
	return n + (32 - n%32)
}

func putUint(word []byte, v uint64) {
	for i := 0; i < 8; i++ {
		word[len(word)-1-i] = byte(v >> (8 * i))
	}
}

func encodeAddressArray(addrs []common.Address) []byte {
	out := make([]byte, 64+32*len(addrs))
	putUint(out[0:32], 32)
	putUint(out[32:64], uint64(len(addrs)))
	for i, a := range addrs {
		start := 64 + i*32
		copy(out[start+12:start+32], a.Bytes())
	}
	return out
}

func oneWord() []byte {
	w := make([]byte, 32)
	w[31] = 1
	return w
}
