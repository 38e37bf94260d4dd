package proxydetect

import "github.com/ethereum/go-ethereum/common"

// Storage slot constants. The two EIP-1967 slots are
// keccak256(<well-known string>) - 1; the EIP-1822 slot is
// keccak256("PROXIABLE") and the OpenZeppelin slot is
// keccak256("org.zeppelinos.proxy.implementation"), both without the
// -1. These are fixed 32-byte values and are never recomputed at
// runtime.
var (
	eip1967LogicSlot  = common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc")
	eip1967BeaconSlot = common.HexToHash("0xa3f0ad74e5423aebfd80d3ef4346578335a9a72aeaee59ff6cb3582b35133d50")
	eip1822LogicSlot  = common.HexToHash("0xc5f16f0fcc639fa48a6947836d9850f504798523bf8c9a3a87d5876cf622bcf7")
	openZeppelinSlot  = common.HexToHash("0x7050c9e0f4ca769c69bd3a8ef740bc37934f8e2c036e5a723fd8ee048ed3f8c3")
)
