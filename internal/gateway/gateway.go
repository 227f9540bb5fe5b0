package gateway

import (
	"context"
	"errors"
	"math/big"

	"theta-vault-client-go/internal/asset"
	"theta-vault-client-go/internal/models"
)

// Sentinel errors shared by all gateway implementations.
var (
	ErrRejected            = errors.New("call rejected by signer")
	ErrConfirmationFailed  = errors.New("transaction confirmed with failure status")
	ErrConfirmationTimeout = errors.New("timed out waiting for confirmation")
)

// ConfirmationStatus is the terminal state a submitted call reaches.
type ConfirmationStatus string

const (
	StatusConfirmed ConfirmationStatus = "CONFIRMED"
	StatusFailed    ConfirmationStatus = "FAILED"
	StatusPending   ConfirmationStatus = "PENDING"
)

// Receipt is the network acknowledgment for one submitted call.
type Receipt struct {
	CallId string
	Status ConfirmationStatus
}

// Confirmed reports whether the call finalized successfully.
func (r Receipt) Confirmed() bool {
	return r.Status == StatusConfirmed
}

// Signer is the remote signer/network gateway. Every submit method returns
// the accepted call's identifier; acceptance does not imply confirmation.
// All methods are blocking and honor context cancellation, but cancelling a
// wait never retracts the submitted call.
type Signer interface {
	GrantAllowance(ctx context.Context, spender string, amount asset.Amount) (string, error)
	SubmitDeposit(ctx context.Context, vault models.VaultOption, amount asset.Amount) (string, error)
	SubmitWithdraw(ctx context.Context, vault models.VaultOption, amount asset.Amount) (string, error)
	SubmitClaim(ctx context.Context, proof models.ClaimProof) (string, error)
	AwaitConfirmation(ctx context.Context, callId string) (Receipt, error)
}

// GasOracle supplies the current gas price in the native asset's smallest
// unit. A nil price means no fresh quote is available; callers must not
// substitute a stale or zero price.
type GasOracle interface {
	CurrentGasPrice(ctx context.Context) (*big.Int, error)
}

// YieldSource supplies the latest projected yield for a vault. An estimate
// with Fetched=false means the source has not produced a value yet.
type YieldSource interface {
	LatestYield(ctx context.Context, vault models.VaultOption) (models.YieldEstimate, error)
}

// AccountSource supplies read-only, possibly-stale vault views. Both methods
// return a fresh struct on every call; callers replace their copy wholesale.
type AccountSource interface {
	VaultData(ctx context.Context, vault models.VaultOption, account string) (*models.VaultData, error)
	VaultAccount(ctx context.Context, vault models.VaultOption, account string) (*models.VaultAccountSnapshot, error)
}
