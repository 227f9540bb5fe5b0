package models

import "time"

// Config represents the application configuration
type Config struct {
	Journal JournalConfig
	Gateway GatewayConfig
	Vaults  VaultsFileConfig
	Wallet  WalletConfig
}

// JournalConfig holds transaction journal database settings
type JournalConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// GatewayConfig holds signer daemon connection settings
type GatewayConfig struct {
	BaseURL             string
	RequestTimeout      time.Duration
	ConfirmPollInterval time.Duration
	ConfirmTimeout      time.Duration
	Simulate            bool
}

// VaultsFileConfig points at the yaml vault registry
type VaultsFileConfig struct {
	File string
}

// WalletConfig holds the locally configured wallet identity
type WalletConfig struct {
	Address string
}
