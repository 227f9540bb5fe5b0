package models

import (
	"time"

	"theta-vault-client-go/internal/asset"
)

// VaultOption names one configured vault instance.
type VaultOption string

// ActionKind is the user-facing action a form produces.
type ActionKind string

const (
	ActionDeposit  ActionKind = "deposit"
	ActionWithdraw ActionKind = "withdraw"
)

// TxKind classifies a submitted transaction.
type TxKind string

const (
	TxApproval TxKind = "approval"
	TxDeposit  TxKind = "deposit"
	TxWithdraw TxKind = "withdraw"
	TxClaim    TxKind = "claim"
)

// ApprovalStatus tracks whether spending permission must be requested before
// a deposit can proceed. NotRequired is permanent for native-asset vaults.
type ApprovalStatus string

const (
	ApprovalNotRequired ApprovalStatus = "not_required"
	ApprovalUnapproved  ApprovalStatus = "unapproved"
	ApprovalApproving   ApprovalStatus = "approving"
)

// ClaimState is the reward-claim flow step.
type ClaimState string

const (
	ClaimStateInfo     ClaimState = "info"
	ClaimStateClaim    ClaimState = "claim"
	ClaimStateClaiming ClaimState = "claiming"
	ClaimStateClaimed  ClaimState = "claimed"
)

// VaultData is the per-user, per-vault view consumed by the action form.
// Supplied by the external data source, replaced wholesale on refresh.
type VaultData struct {
	UserAssetBalance  asset.Amount
	Deposits          asset.Amount
	VaultLimit        asset.Amount
	VaultBalance      asset.Amount
	MaxWithdrawAmount asset.Amount
	Asset             string
	Decimals          int32
}

// VaultAccountSnapshot is the position summary for one account in one vault.
// Read-only; never partially mutated.
type VaultAccountSnapshot struct {
	TotalDeposits      asset.Amount
	TotalYieldEarned   asset.Amount
	TotalBalance       asset.Amount
	TotalStakedShares  asset.Amount
	TotalStakedBalance asset.Amount
	Asset              string
}

// ActionIntent is the immutable description of one confirmed user action.
// Built once per confirmation step; a stale intent is discarded, not reused.
type ActionIntent struct {
	Kind            ActionKind
	Amount          asset.Amount
	Vault           VaultOption
	CurrentPosition asset.Amount
}

// YieldEstimate is a point-in-time projected yield percentage. Fetched is
// false while the estimate is still loading; the UI shows a cycling
// placeholder in that case.
type YieldEstimate struct {
	Percent float64
	Fetched bool
}

// WithdrawalFeePercent is the flat fee rate applied to withdrawals.
const WithdrawalFeePercent = 0.5

// PreviewStep is the intent plus action-specific metadata shown to the user
// before final confirmation.
type PreviewStep struct {
	Intent ActionIntent

	// Deposit previews carry the projected yield at time of preview.
	ProjectedYield YieldEstimate

	// Withdraw previews carry the fixed fee rate.
	FeePercent float64
}

// PendingTransaction is one submitted-but-not-yet-reconciled remote call.
// Appended to the pending log at submission time and immutable thereafter.
type PendingTransaction struct {
	Hash   string
	Kind   TxKind
	Amount string
	Vault  VaultOption
}

// ClaimProof is the merkle proof presented to the reward distributor.
type ClaimProof struct {
	Index   uint64
	Account string
	Amount  asset.Amount
	Proof   []string
}

// Airdrop is one account's claimable reward allocation.
type Airdrop struct {
	Total asset.Amount
	Proof ClaimProof
}

// WalletState is the externally-owned wallet-connection state. The client
// never initiates connection itself.
type WalletState struct {
	Connected bool
	Address   string
}

// JournalEntry is one row of the persisted transaction journal.
type JournalEntry struct {
	Id          string    `db:"id"`
	Hash        string    `db:"hash"`
	Kind        string    `db:"kind"`
	Amount      string    `db:"amount"`
	Vault       string    `db:"vault"`
	Status      string    `db:"status"`
	SubmittedAt time.Time `db:"submitted_at"`
	ConfirmedAt time.Time `db:"confirmed_at"`
}
