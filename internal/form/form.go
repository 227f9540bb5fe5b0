/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package form

import (
	"context"
	"errors"
	"fmt"

	"theta-vault-client-go/internal/asset"
	"theta-vault-client-go/internal/common"
	"theta-vault-client-go/internal/gateway"
	"theta-vault-client-go/internal/models"
	"theta-vault-client-go/internal/txtrack"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ValidationError is the inline validation state of the amount input.
type ValidationError string

const (
	ValidationNone                ValidationError = "none"
	ValidationInsufficientBalance ValidationError = "insufficient_balance"
)

// BalanceState drives the color of the balance line under the form.
type BalanceState string

const (
	BalanceActive   BalanceState = "active"
	BalanceInactive BalanceState = "inactive"
	BalanceError    BalanceState = "error"
)

// ButtonState is the action control's label and availability.
type ButtonState struct {
	Label    string
	Disabled bool
}

var (
	ErrNoAmount           = errors.New("no amount entered")
	ErrApprovalNotPending = errors.New("no approval in progress")
	ErrApprovalInFlight   = errors.New("an approval is already in flight")
)

// Config wires a form to its vault and collaborators.
type Config struct {
	Spec    common.VaultSpec
	Signer  gateway.Signer
	Gas     gateway.GasOracle
	Tracker *txtrack.Tracker
	Queue   *TaskQueue
}

// Form is the deposit/withdraw engine for one vault: it owns the entered
// amount, its deferred validation, the approval state machine, and preview
// construction. One form instance belongs to one goroutine; the approval
// gating is the sole in-flight guard, matching the single-submission rule.
type Form struct {
	spec    common.VaultSpec
	signer  gateway.Signer
	gas     gateway.GasOracle
	tracker *txtrack.Tracker
	queue   *TaskQueue

	// externally supplied, replaced wholesale on refresh
	data   *models.VaultData
	wallet models.WalletState
	yield  models.YieldEstimate

	isDeposit       bool
	inputText       string
	validation      ValidationError
	approval        models.ApprovalStatus
	waitingApproval bool
}

func New(cfg Config) *Form {
	approval := models.ApprovalUnapproved
	if cfg.Spec.Native {
		// The chain's native asset needs no allowance, ever.
		approval = models.ApprovalNotRequired
	}

	queue := cfg.Queue
	if queue == nil {
		queue = NewTaskQueue()
	}

	return &Form{
		spec:       cfg.Spec,
		signer:     cfg.Signer,
		gas:        cfg.Gas,
		tracker:    cfg.Tracker,
		queue:      queue,
		isDeposit:  true,
		validation: ValidationNone,
		approval:   approval,
	}
}

// Queue returns the form's task queue so the owner can drain deferred steps.
func (f *Form) Queue() *TaskQueue {
	return f.queue
}

// SetVaultData replaces the form's view of the vault. nil means loading.
func (f *Form) SetVaultData(data *models.VaultData) {
	f.data = data
}

// SetWallet replaces the wallet-connection state.
func (f *Form) SetWallet(wallet models.WalletState) {
	f.wallet = wallet
}

// SetYield replaces the projected yield estimate.
func (f *Form) SetYield(yield models.YieldEstimate) {
	f.yield = yield
}

// IsDeposit reports which tab is active.
func (f *Form) IsDeposit() bool {
	return f.isDeposit
}

// SwitchTab changes between deposit and withdraw, resetting input and
// validation when the tab actually changes.
func (f *Form) SwitchTab(deposit bool) {
	if f.isDeposit == deposit {
		return
	}
	f.isDeposit = deposit
	f.inputText = ""
	f.validation = ValidationNone
}

// SetInput accepts raw amount text. Negative magnitudes clear the input.
// The echo is stored synchronously; validation is scheduled for the next
// queue drain so it never delays the keystroke.
func (f *Form) SetInput(raw string) {
	if raw != "" {
		if parsed, err := decimal.NewFromString(raw); err == nil && parsed.IsNegative() {
			f.inputText = ""
			return
		}
	}

	f.inputText = raw

	f.queue.Schedule(func() {
		f.validate(raw)
	})
}

// validate runs strictly after the input echo, on the queue.
func (f *Form) validate(raw string) {
	if raw == "" {
		// No input, safely no error.
		f.validation = ValidationNone
		return
	}

	if f.data == nil || !f.wallet.Connected {
		// Nothing to validate against yet; never raise insufficient_balance
		// from a loading or disconnected state.
		return
	}

	amount, err := asset.ParseUnits(raw, f.data.Decimals)
	if err != nil {
		// Malformed text normalizes to "no error, not validated".
		f.validation = ValidationNone
		return
	}

	ceiling := f.data.UserAssetBalance
	if !f.isDeposit {
		ceiling = f.data.MaxWithdrawAmount
	}

	if amount.GreaterThan(ceiling) {
		f.validation = ValidationInsufficientBalance
	} else {
		f.validation = ValidationNone
	}
}

// InputText returns the currently displayed amount text.
func (f *Form) InputText() string {
	return f.inputText
}

// Validation returns the inline validation state.
func (f *Form) Validation() ValidationError {
	return f.validation
}

// InputNonZero reports whether the entered amount parses to a positive value.
func (f *Form) InputNonZero() bool {
	if f.inputText == "" {
		return false
	}
	parsed, err := decimal.NewFromString(f.inputText)
	return err == nil && parsed.IsPositive()
}

// VaultFull reports whether deposits have reached the configured limit.
func (f *Form) VaultFull() bool {
	if f.data == nil || f.data.VaultLimit.IsZero() {
		return false
	}
	return f.data.Deposits.Cmp(f.data.VaultLimit) >= 0
}

// ApprovalStatus returns the current approval machine state.
func (f *Form) ApprovalStatus() models.ApprovalStatus {
	return f.approval
}

// WaitingApproval reports whether an allowance grant is outstanding.
func (f *Form) WaitingApproval() bool {
	return f.waitingApproval
}

// ClickMax fills the input with the maximum safe amount. A silent no-op
// while data is loading or the wallet is disconnected.
func (f *Form) ClickMax(ctx context.Context) error {
	if f.data == nil || !f.wallet.Connected {
		return nil
	}

	max, err := f.MaxAmount(ctx)
	if err != nil {
		return err
	}

	f.SetInput(max.FormatUnits())
	return nil
}

// ClickAction is the user pressing the action control. For an unapproved
// deposit it transitions the approval machine to approving and returns no
// preview; the deposit preview never opens while unapproved. Otherwise it
// returns the preview when the amount is non-zero and the wallet connected.
func (f *Form) ClickAction() *models.PreviewStep {
	if !f.canProceedToPreview() {
		f.approval = models.ApprovalApproving
		zap.L().Info("Deposit gated on token approval",
			zap.String("vault", f.spec.Name),
			zap.String("amount", f.inputText))
		return nil
	}

	return f.proceedToPreview()
}

func (f *Form) canProceedToPreview() bool {
	return !f.isDeposit || f.approval == models.ApprovalNotRequired
}

func (f *Form) proceedToPreview() *models.PreviewStep {
	if !f.InputNonZero() || !f.wallet.Connected {
		return nil
	}
	preview := f.BuildPreview()
	return &preview
}

// ApproveToken grants an allowance for exactly the entered amount to the
// vault's address, tracks the grant through confirmation, and on success
// performs the originally-blocked preview before re-gating the machine at
// unapproved. On any failure the waiting flag is cleared and the machine
// stays retryable.
func (f *Form) ApproveToken(ctx context.Context) (*models.PreviewStep, error) {
	if f.approval != models.ApprovalApproving {
		return nil, ErrApprovalNotPending
	}
	if f.waitingApproval {
		return nil, ErrApprovalInFlight
	}
	if f.data == nil {
		return nil, fmt.Errorf("vault data not loaded")
	}

	amount, err := asset.ParseUnits(f.inputText, f.data.Decimals)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAmount, err)
	}
	if amount.IsZero() {
		return nil, ErrNoAmount
	}

	f.waitingApproval = true
	defer func() { f.waitingApproval = false }()

	var preview *models.PreviewStep
	_, err = f.tracker.Submit(ctx, txtrack.SubmitParams{
		Kind:   models.TxApproval,
		Vault:  f.spec.Option(),
		Amount: amount.String(),
		Issue: func(ctx context.Context) (string, error) {
			return f.signer.GrantAllowance(ctx, f.spec.Address, amount)
		},
		OnSuccess: func() {
			step := f.BuildPreview()
			preview = &step
			// Single-use grant: re-gate so a later deposit redoes the flow.
			f.approval = models.ApprovalUnapproved
		},
	})
	if err != nil {
		return nil, err
	}

	return preview, nil
}

// ResetAfterSuccess restores the form to its initial state after a confirmed
// action.
func (f *Form) ResetAfterSuccess() {
	f.isDeposit = true
	f.inputText = ""
	f.validation = ValidationNone
}

// ButtonState derives the action control's label and availability.
func (f *Form) ButtonState() ButtonState {
	if !f.wallet.Connected {
		return ButtonState{Label: "Connect Wallet", Disabled: true}
	}

	symbol := f.assetDisplay()

	switch {
	case f.validation == ValidationInsufficientBalance:
		return ButtonState{Label: "Insufficient Balance", Disabled: true}
	case f.isDeposit && f.InputNonZero():
		if f.VaultFull() {
			return ButtonState{Label: "Deposit " + symbol, Disabled: true}
		}
		return ButtonState{Label: "Preview Deposit", Disabled: false}
	case f.isDeposit:
		return ButtonState{Label: "Deposit " + symbol, Disabled: true}
	case f.InputNonZero():
		return ButtonState{Label: "Preview Withdrawal", Disabled: false}
	default:
		return ButtonState{Label: "Withdraw " + symbol, Disabled: true}
	}
}

// BalanceLine derives the text and state of the line under the form.
func (f *Form) BalanceLine() (string, BalanceState) {
	if f.VaultFull() {
		return "The Vault is currently full", BalanceError
	}

	state := BalanceInactive
	if f.wallet.Connected {
		state = BalanceActive
	}

	available := f.wallet.Connected && f.data != nil
	symbol := f.assetDisplay()

	if f.isDeposit {
		value := ""
		if available {
			value = f.data.UserAssetBalance.FormatUnits()
		}
		return common.FormatBalanceLine("Wallet Balance", value, symbol, available), state
	}

	value := ""
	if available {
		value = f.data.VaultBalance.FormatUnits()
	}
	return common.FormatBalanceLine("Your Position", value, symbol, available), state
}

func (f *Form) assetDisplay() string {
	if f.data != nil && f.data.Asset != "" {
		return f.data.Asset
	}
	return f.spec.Symbol
}
