// Package config loads harpoon's runtime configuration from an optional
// config file plus environment variable overrides, following the
// viper-based loader shape used across the example pack.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Chain     ChainConfig
	Log       LogConfig
	Telegram  TelegramConfig
	Relay     RelayConfig
	Etherscan EtherscanConfig
}

type ChainConfig struct {
	RPCURL       string `mapstructure:"rpc_url"`
	DefaultBlock string `mapstructure:"default_block"` // "latest" or a decimal block number
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	FilePath string `mapstructure:"file_path"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

type RelayConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	AuthKey  string `mapstructure:"auth_key"`
}

type EtherscanConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// Load reads config.yaml from the current directory (if present), then
// applies environment variable overrides, then validates the result.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("chain.default_block", "latest")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("etherscan.base_url", "https://api.etherscan.io/api")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"chain.rpc_url":       "HARPOON_RPC_URL",
		"chain.default_block": "HARPOON_DEFAULT_BLOCK",
		"log.level":           "HARPOON_LOG_LEVEL",
		"log.format":          "HARPOON_LOG_FORMAT",
		"log.file_path":       "HARPOON_LOG_FILE",
		"telegram.bot_token":  "HARPOON_TELEGRAM_BOT_TOKEN",
		"telegram.chat_id":    "HARPOON_TELEGRAM_CHAT_ID",
		"relay.endpoint":      "HARPOON_RELAY_ENDPOINT",
		"relay.auth_key":      "HARPOON_RELAY_AUTH_KEY",
		"etherscan.api_key":   "HARPOON_ETHERSCAN_API_KEY",
		"etherscan.base_url":  "HARPOON_ETHERSCAN_BASE_URL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Chain.RPCURL == "" {
		return fmt.Errorf("required config missing: HARPOON_RPC_URL")
	}
	return nil
}
