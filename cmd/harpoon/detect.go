package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/chen4903/harpoon/internal/action"
	"github.com/chen4903/harpoon/internal/chainrpc"
	"github.com/chen4903/harpoon/internal/config"
	"github.com/chen4903/harpoon/internal/logging"
	"github.com/chen4903/harpoon/internal/notify"
	"github.com/chen4903/harpoon/internal/proxydetect"
	"github.com/chen4903/harpoon/internal/sourcefetch"
)

var detectCmd = &cobra.Command{
	Use:   "detect <address>",
	Args:  cobra.ExactArgs(1),
	Short: "Detect a single contract's proxy pattern and implementation target",
	Long: `Detect runs the full ten-pattern probe sequence against a single
address and prints the result as JSON. With --fetch-abi, the resolved
implementation's ABI is also pulled from the configured block explorer.
With --notify, a successful detection is also announced over Telegram.`,
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().Bool("fetch-abi", false, "fetch the resolved implementation's ABI")
	detectCmd.Flags().Bool("notify", false, "announce the result over Telegram")
}

func runDetect(cmd *cobra.Command, args []string) error {
	fetchABI, _ := cmd.Flags().GetBool("fetch-abi")
	notifyResult, _ := cmd.Flags().GetBool("notify")

	if !common.IsHexAddress(args[0]) {
		return fmt.Errorf("detect: %q is not a valid address", args[0])
	}
	addr := common.HexToAddress(args[0])

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("detect: load config: %w", err)
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
		return fmt.Errorf("detect: init logger: %w", err)
	}

	rpc, err := chainrpc.Dial(cfg.Chain.RPCURL)
	if err != nil {
		return fmt.Errorf("detect: dial rpc: %w", err)
	}
	defer rpc.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := proxydetect.Detect(ctx, rpc, addr, chainrpc.Latest)
	if errors.Is(err, proxydetect.ErrNotDetected) {
		fmt.Fprintf(os.Stderr, "no known proxy pattern detected for %s\n", addr)
		return nil
	}
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}

	action.NewPrinter(log).Submit(action.Detection{Address: addr, Result: *result})

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("detect: marshal result: %w", err)
	}
	fmt.Println(string(out))

	if fetchABI && !result.Diamond {
		fetcher := sourcefetch.New(cfg.Etherscan.BaseURL, cfg.Etherscan.APIKey)
		abi, abiErr := fetcher.FetchABI(result.Target.Hex())
		if abiErr != nil {
			log.Warn().Err(abiErr).Msg("could not fetch implementation ABI")
		} else {
			fmt.Println(abi)
		}
	}

	if notifyResult && cfg.Telegram.BotToken != "" {
		n := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		text := fmt.Sprintf("proxy detected: %s is %s → %s", addr.Hex(), result.Kind, result.Target.Hex())
		if notifyErr := n.Send(ctx, text); notifyErr != nil {
			log.Warn().Err(notifyErr).Msg("telegram notification failed")
		}
	}

	return nil
}
