package claim

import (
	"context"
	"errors"

	"theta-vault-client-go/internal/gateway"
	"theta-vault-client-go/internal/models"
	"theta-vault-client-go/internal/txtrack"

	"go.uber.org/zap"
)

var ErrAlreadyInProgress = errors.New("claim already in progress")

// Flow is the one-time reward-claim state machine: info -> claim ->
// claiming -> claimed, with claim -> info as the only failure edge.
// Claiming is entered only once the remote call has an identifier; claimed
// only after confirmed success.
type Flow struct {
	signer  gateway.Signer
	tracker *txtrack.Tracker
	state   models.ClaimState
}

func NewFlow(signer gateway.Signer, tracker *txtrack.Tracker) *Flow {
	return &Flow{
		signer:  signer,
		tracker: tracker,
		state:   models.ClaimStateInfo,
	}
}

// State returns the current flow step for display binding.
func (f *Flow) State() models.ClaimState {
	return f.state
}

// Claim submits the merkle proof and tracks it through confirmation. Any
// failure, whether rejection or a confirmation problem, returns the flow to
// info; the pending-log entry, if one was created, stays.
func (f *Flow) Claim(ctx context.Context, airdrop models.Airdrop) error {
	if f.state != models.ClaimStateInfo {
		return ErrAlreadyInProgress
	}

	f.state = models.ClaimStateClaim

	_, err := f.tracker.Submit(ctx, txtrack.SubmitParams{
		Kind:   models.TxClaim,
		Amount: airdrop.Total.FormatUnits(),
		Issue: func(ctx context.Context) (string, error) {
			return f.signer.SubmitClaim(ctx, airdrop.Proof)
		},
		OnAccepted: func(callId string) {
			f.state = models.ClaimStateClaiming
		},
		OnSuccess: func() {
			f.state = models.ClaimStateClaimed
		},
		OnFailure: func(err error) {
			f.state = models.ClaimStateInfo
		},
	})
	if err != nil {
		zap.L().Warn("Claim failed, returning to info step", zap.Error(err))
		return err
	}

	zap.L().Info("Reward claim confirmed",
		zap.String("account", airdrop.Proof.Account),
		zap.String("amount", airdrop.Total.FormatUnits()))

	return nil
}

// Close resets a dismissed dialog so reopening never resumes mid-flight. A
// flow that is actively claiming keeps its state; claim and claimed reset to
// info.
func (f *Flow) Close() {
	if f.state == models.ClaimStateClaim || f.state == models.ClaimStateClaimed {
		f.state = models.ClaimStateInfo
	}
}
