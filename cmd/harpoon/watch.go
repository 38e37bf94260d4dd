package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chen4903/harpoon/internal/chainrpc"
	"github.com/chen4903/harpoon/internal/collector"
	"github.com/chen4903/harpoon/internal/config"
	"github.com/chen4903/harpoon/internal/logging"
	"github.com/chen4903/harpoon/internal/relay"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Args:  cobra.NoArgs,
	Short: "Poll the configured RPC endpoint for new blocks",
	Long: `Watch polls the chain's head height on a fixed interval and logs every
newly observed block. It demonstrates collector wiring; it does not run
proxydetect against transactions in those blocks, since picking out
"contracts worth detecting" from arbitrary block traffic is strategy-layer
work outside this repository's scope.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("interval", 4*time.Second, "poll interval")
	watchCmd.Flags().String("relay-endpoint", "", "private relay endpoint to build a relay client for (optional; no request is sent to it)")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	interval, _ := cmd.Flags().GetDuration("interval")
	relayEndpoint, _ := cmd.Flags().GetString("relay-endpoint")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("watch: load config: %w", err)
	}

	logLevel := logging.Level(cfg.Log.Level)
	if verbose {
		logLevel = logging.LevelDebug
	}
	log, err := logging.New(logging.Config{
		Level:    logLevel,
		Format:   logging.Format(cfg.Log.Format),
		FilePath: cfg.Log.FilePath,
	})
	if err != nil {
		return fmt.Errorf("watch: init logger: %w", err)
	}

	rpc, err := chainrpc.Dial(cfg.Chain.RPCURL)
	if err != nil {
		return fmt.Errorf("watch: dial rpc: %w", err)
	}
	defer rpc.Close()

	if relayEndpoint != "" {
		// Demonstrates relay wiring only: a watcher has no signed
		// transaction to submit on its own, so this just confirms the
		// client constructs cleanly against the configured endpoint.
		_ = relay.NewWithEndpoint(relayEndpoint, cfg.Relay.AuthKey)
		log.Info().Str("endpoint", relayEndpoint).Msg("relay client ready")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bc := collector.NewBlockCollector(rpc, interval)
	blocks, errs := bc.Blocks(ctx)

	for {
		select {
		case n, ok := <-blocks:
			if !ok {
				return nil
			}
			log.Info().Uint64("block", n).Msg("new block observed")
		case err, ok := <-errs:
			if !ok {
				continue
			}
			log.Warn().Err(err).Msg("block poll failed")
		case <-ctx.Done():
			return nil
		}
	}
}
