// Package collector polls a chain endpoint for new blocks and pushes
// them onto a channel. A read-only HTTP RPC endpoint cannot subscribe to
// new heads, so this collector polls eth_blockNumber on a fixed interval
// instead of subscribing.
package collector

import (
	"context"
	"fmt"
	"time"
)

// BlockNumberer is the one RPC capability a block collector needs. It
// is deliberately separate from chainrpc.Reader: proxydetect never
// needs the current head, and a collector never needs storage/call
// access, so neither package forces the other's dependency on callers.
type BlockNumberer interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// BlockCollector polls BlockNumberer on Interval and emits every block
// number above the head seen when Blocks is called exactly once, in
// increasing order.
type BlockCollector struct {
	source   BlockNumberer
	interval time.Duration
}

// NewBlockCollector returns a collector that polls every interval.
func NewBlockCollector(source BlockNumberer, interval time.Duration) *BlockCollector {
	return &BlockCollector{source: source, interval: interval}
}

func (c *BlockCollector) Name() string { return "Block Collector" }

// Blocks starts polling and returns a channel of newly seen block
// numbers. The channel is closed when ctx is canceled. Poll errors are
// delivered on the returned error channel for the caller to log; it
// buffers one error, and further errors are dropped while that one is
// still unread.
func (c *BlockCollector) Blocks(ctx context.Context) (<-chan uint64, <-chan error) {
	blocks := make(chan uint64)
	errs := make(chan error, 1)

	// The head at call time is the baseline; only later blocks are emitted.
	var last uint64
	haveLast := false
	if current, err := c.source.BlockNumber(ctx); err != nil {
		errs <- fmt.Errorf("collector: poll block number: %w", err)
	} else {
		last, haveLast = current, true
	}

	go func() {
		defer close(blocks)
		defer close(errs)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				current, err := c.source.BlockNumber(ctx)
				if err != nil {
					select {
					case errs <- fmt.Errorf("collector: poll block number: %w", err):
					default:
					}
					continue
				}
				if !haveLast {
					last = current
					haveLast = true
					continue
				}
				for n := last + 1; n <= current; n++ {
					select {
					case blocks <- n:
					case <-ctx.Done():
						return
					}
				}
				last = current
			}
		}
	}()

	return blocks, errs
}
