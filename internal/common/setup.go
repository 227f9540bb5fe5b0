package common

import (
	"context"
	"log"
	"strings"

	"theta-vault-client-go/internal/gateway"
	"theta-vault-client-go/internal/journal"
	"theta-vault-client-go/internal/models"
	"theta-vault-client-go/internal/txtrack"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Try to load .env file - if it doesn't exist, that's okay
	// Environment variables can be set via other means (shell export, docker, etc.)
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

// Services bundles everything a command needs: the journal, the gateway
// collaborators, the session pending log, and the tracker wired to all three.
type Services struct {
	Journal    *journal.Service
	Signer     gateway.Signer
	Gas        gateway.GasOracle
	Yield      gateway.YieldSource
	Accounts   gateway.AccountSource
	PendingLog *txtrack.PendingLog
	Tracker    *txtrack.Tracker
	VaultSpecs []VaultSpec
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	journalService, err := journal.NewService(ctx, cfg.Journal)
	if err != nil {
		return nil, err
	}

	vaultSpecs, err := LoadVaultSpecs(cfg.Vaults.File)
	if err != nil {
		journalService.Close()
		return nil, err
	}

	var (
		signer   gateway.Signer
		gas      gateway.GasOracle
		yield    gateway.YieldSource
		accounts gateway.AccountSource
	)
	if cfg.Gateway.Simulate {
		zap.L().Info("Using simulated signer gateway (GATEWAY_SIMULATE=true)")
		sim := gateway.NewSimulator()
		signer, gas, yield, accounts = sim, sim, sim, sim
	} else {
		zap.L().Info("Connecting to signer daemon", zap.String("url", cfg.Gateway.BaseURL))
		rpc, err := gateway.NewRPCService(cfg.Gateway)
		if err != nil {
			journalService.Close()
			return nil, err
		}
		signer, gas, yield, accounts = rpc, rpc, rpc, rpc
	}

	pendingLog := txtrack.NewPendingLog()
	tracker := txtrack.NewTracker(signer, pendingLog, journalService)

	return &Services{
		Journal:    journalService,
		Signer:     signer,
		Gas:        gas,
		Yield:      yield,
		Accounts:   accounts,
		PendingLog: pendingLog,
		Tracker:    tracker,
		VaultSpecs: vaultSpecs,
	}, nil
}

// InitializeJournalOnly initializes just the journal without the gateway.
// Useful for read-only operations like listing submitted transactions.
func InitializeJournalOnly(ctx context.Context, cfg *models.Config) (*journal.Service, error) {
	journalService, err := journal.NewService(ctx, cfg.Journal)
	if err != nil {
		return nil, err
	}
	return journalService, nil
}

func (cs *Services) Close() {
	if cs.Journal != nil {
		cs.Journal.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
