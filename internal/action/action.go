// Package action defines a narrow sink interface that downstream
// strategy code calls without knowing whether the action ends up
// printed, relayed, or forwarded to a channel.
package action

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/chen4903/harpoon/internal/logging"
	"github.com/chen4903/harpoon/internal/proxydetect"
)

// Detection is the one action type harpoon currently submits: a
// completed proxy detection for a specific contract.
type Detection struct {
	Address common.Address
	Result  proxydetect.Result
}

// Submitter accepts Detections. Implementations must not block the
// caller for long — proxydetect.Detect runs inline with detection, and
// a slow submitter would stall the next probe round.
type Submitter interface {
	Submit(d Detection)
}

// Printer is the console/file Submitter, the direct analogue of the
// original ActionPrinter: it does nothing but log.
type Printer struct {
	log *logging.Logger
}

// NewPrinter returns a Submitter that logs every Detection at info
// level.
func NewPrinter(log *logging.Logger) *Printer {
	return &Printer{log: log}
}

func (p *Printer) Submit(d Detection) {
	event := p.log.Info().
		Str("address", d.Address.Hex()).
		Str("kind", string(d.Result.Kind)).
		Bool("immutable", d.Result.Immutable)

	if d.Result.Diamond {
		facets := make([]string, len(d.Result.Targets))
		for i, t := range d.Result.Targets {
			facets[i] = t.Hex()
		}
		event = event.Strs("facets", facets)
	} else {
		event = event.Str("target", d.Result.Target.Hex())
	}

	event.Msg("proxy detected")
}
