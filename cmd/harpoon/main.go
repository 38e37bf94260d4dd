package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	version = "dev" // set by build flags
)

var rootCmd = &cobra.Command{
	Use:   "harpoon",
	Short: "On-chain proxy detector and MEV automation scaffold",
	Long: `Harpoon resolves a deployed contract's proxy pattern and current
implementation target against a read-only EVM RPC endpoint, then feeds the
result to whichever sinks are configured (console log, Telegram, a private
relay, an Etherscan-style ABI fetch).`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (not read: configuration always comes from ./config.yaml and HARPOON_* environment variables)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(watchCmd)
}

// Commands are defined in separate files:
// - detectCmd in detect.go
// - watchCmd in watch.go

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
