package proxydetect

import "github.com/ethereum/go-ethereum/common"

// Method selectors: the first 4 bytes of keccak256(signature). All of
// the detector's calls are zero-argument, so no ABI-encoded arguments
// are ever appended to a selector.
var (
	selImplementation      = common.FromHex("0x5c60da1b")
	selProxyType           = common.FromHex("0x4555d5c9")
	selChildImplementation = common.FromHex("0xda525716")
	selMasterCopy          = common.FromHex("0xa619486e")
	selComptrollerImpl     = common.FromHex("0xbb82aa5e")
	selBatchRelayerVersion = common.FromHex("0x54fd4d50")
	selBatchRelayerGetLib  = common.FromHex("0x7678922e")
	selFacetAddresses      = common.FromHex("0x52ef6b2c")
)
