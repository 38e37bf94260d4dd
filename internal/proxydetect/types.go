// Package proxydetect determines whether a deployed contract is a proxy
// and, if so, which of ten known patterns it follows and what its
// current implementation target(s) are.
//
// The package is stateless: Detect runs a fixed, ordered sequence of
// probes against a chainrpc.Reader and returns the first one that
// succeeds. No probe result is cached and no probe is retried — probe
// ordering alone absorbs the ambiguity of a noisy RPC endpoint (see the
// package-level Detect doc for the full rationale).
package proxydetect

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// Kind names one of the ten proxy patterns the detector recognizes.
type Kind string

const (
	KindEip1167        Kind = "Eip1167"
	KindEip1967Direct  Kind = "Eip1967Direct"
	KindEip1967Beacon  Kind = "Eip1967Beacon"
	KindEip1822        Kind = "Eip1822"
	KindEip2535Diamond Kind = "Eip2535Diamond"
	KindEip897         Kind = "Eip897"
	KindOpenZeppelin   Kind = "OpenZeppelin"
	KindSafe           Kind = "Safe"
	KindComptroller    Kind = "Comptroller"
	KindBatchRelayer   Kind = "BatchRelayer"
)

// Result is the outcome of a successful detection. Exactly one of
// Target / Targets is meaningful, discriminated by Diamond: a Diamond
// result always carries its facet set in Targets, even were it ever to
// resolve to a single facet, because the wire shape (object vs. array)
// is what a consumer switches on, not the element count.
type Result struct {
	Kind      Kind
	Immutable bool

	// Diamond is true iff this result came from the EIP-2535 probe; it
	// selects which of Target/Targets is populated.
	Diamond bool
	Target  common.Address   // valid when !Diamond
	Targets []common.Address // valid when Diamond; len >= 1, all non-zero
}

// resultWire is the wire JSON shape: target is a string for a
// single-implementation result, or an array of strings for a Diamond
// result.
type resultWire struct {
	Target    interface{} `json:"target"`
	Type      Kind        `json:"type"`
	Immutable bool        `json:"immutable"`
}

// MarshalJSON renders the result as {"target": ..., "type": ..., "immutable": ...},
// with target structurally distinguishing Single from Diamond.
func (r Result) MarshalJSON() ([]byte, error) {
	w := resultWire{Type: r.Kind, Immutable: r.Immutable}
	if r.Diamond {
		targets := make([]string, len(r.Targets))
		for i, t := range r.Targets {
			targets[i] = t.Hex()
		}
		w.Target = targets
	} else {
		w.Target = r.Target.Hex()
	}
	return json.Marshal(w)
}

// immutableForPattern reports whether kind is permanently
// non-upgradeable by construction, independent of any per-call check
// (EIP-897 overrides this via its own proxyType() probe).
func immutableForPattern(k Kind) bool {
	switch k {
	case KindEip1167, KindBatchRelayer:
		return true
	default:
		return false
	}
}
