package config

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/chainsoffoods/foodchain/internal/crypto"
)

// Config contains all configuration parameters for the application.
// CHAIN_VARIANT has no default on purpose: the historical builder variants
// disagree on asset IDs and fees, so the deployer must pin one explicitly.
type Config struct {
	Port              string `envconfig:"PORT" default:"4000"`
	RPCEndpoint       string `envconfig:"RPC_ENDPOINT" default:"ws://localhost:8080/ws"`
	NetworkIdentifier string `envconfig:"NETWORK_IDENTIFIER" default:"68bc1b08c5ee6218d58df4909116e35a4dda0bf723f018b6c315dba9851ea4de"`
	ChainVariant      string `envconfig:"CHAIN_VARIANT" required:"true"`
	QueryTimeoutSec   int    `envconfig:"QUERY_TIMEOUT_SECONDS" default:"10"`
	SidechainAddress  string `envconfig:"SIDECHAIN_ADDRESS" default:"lskfn3cm9jmph2cftqpzvevwxwyz864jh63yg784b"`

	// Operator control service
	ForgerPort      string `envconfig:"FORGER_PORT" default:"10001"`
	AccountFilePath string `envconfig:"ACCOUNT_FILE_PATH" default:"./account.json"`
	ExportDir       string `envconfig:"EXPORT_DIR" default:"/home/lisk"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables and validates the
// pinned chain variant.
func Init() error {
	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if _, err := Variant(cfg.ChainVariant); err != nil {
		return err
	}
	if _, err := hex.DecodeString(cfg.NetworkIdentifier); err != nil {
		return fmt.Errorf("invalid NETWORK_IDENTIFIER: %w", err)
	}
	if _, err := crypto.AddressFromLisk32(cfg.SidechainAddress); err != nil {
		return fmt.Errorf("invalid SIDECHAIN_ADDRESS: %w", err)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns the HTTP API port from configuration
func GetPort() string {
	return Get().Port
}

// GetRPCEndpoint returns the node WebSocket RPC endpoint
func GetRPCEndpoint() string {
	return Get().RPCEndpoint
}

// GetNetworkIdentifier returns the decoded 32-byte network identifier
func GetNetworkIdentifier() []byte {
	id, _ := hex.DecodeString(Get().NetworkIdentifier)
	return id
}

// GetQueryTimeout returns the bound on a single ledger query
func GetQueryTimeout() time.Duration {
	return time.Duration(Get().QueryTimeoutSec) * time.Second
}

// GetSidechainAddress returns the decoded 20-byte address of the sidechain
// account that collects publication fees. A node embedding the asset runtime
// hands this to asset.NewProcessor.
func GetSidechainAddress() []byte {
	address, _ := crypto.AddressFromLisk32(Get().SidechainAddress)
	return address
}

// GetChainParams returns the pinned chain parameter table
func GetChainParams() ChainParams {
	params, _ := Variant(Get().ChainVariant)
	return params
}
