package claim

import (
	"context"
	"errors"
	"testing"

	"theta-vault-client-go/internal/asset"
	"theta-vault-client-go/internal/gateway"
	"theta-vault-client-go/internal/models"
	"theta-vault-client-go/internal/txtrack"
)

// claimSigner scripts the claim call outcome and records observed states.
type claimSigner struct {
	flow *Flow

	rejectErr     error
	confirmStatus gateway.ConfirmationStatus
	stateAtAwait  models.ClaimState
}

func (s *claimSigner) GrantAllowance(_ context.Context, _ string, _ asset.Amount) (string, error) {
	return "", errors.New("not used")
}

func (s *claimSigner) SubmitDeposit(_ context.Context, _ models.VaultOption, _ asset.Amount) (string, error) {
	return "", errors.New("not used")
}

func (s *claimSigner) SubmitWithdraw(_ context.Context, _ models.VaultOption, _ asset.Amount) (string, error) {
	return "", errors.New("not used")
}

func (s *claimSigner) SubmitClaim(_ context.Context, _ models.ClaimProof) (string, error) {
	if s.rejectErr != nil {
		return "", s.rejectErr
	}
	return "call-claim", nil
}

func (s *claimSigner) AwaitConfirmation(_ context.Context, callId string) (gateway.Receipt, error) {
	if s.flow != nil {
		s.stateAtAwait = s.flow.State()
	}
	status := s.confirmStatus
	if status == "" {
		status = gateway.StatusConfirmed
	}
	return gateway.Receipt{CallId: callId, Status: status}, nil
}

func testAirdrop() models.Airdrop {
	total := asset.MustFromUnitString("125000000000000000000", 18)
	return models.Airdrop{
		Total: total,
		Proof: models.ClaimProof{
			Index:   7,
			Account: "0xuser",
			Amount:  total,
			Proof:   []string{"0xaa", "0xbb"},
		},
	}
}

func newTestFlow(signer *claimSigner) (*Flow, *txtrack.PendingLog) {
	log := txtrack.NewPendingLog()
	flow := NewFlow(signer, txtrack.NewTracker(signer, log, nil))
	signer.flow = flow
	return flow, log
}

func TestClaim_Success(t *testing.T) {
	signer := &claimSigner{}
	flow, log := newTestFlow(signer)

	if err := flow.Claim(context.Background(), testAirdrop()); err != nil {
		t.Fatalf("Claim failed: %v", err)
	}

	if flow.State() != models.ClaimStateClaimed {
		t.Errorf("Expected claimed, got %s", flow.State())
	}
	// Claiming is entered only once the call has an id, before the await.
	if signer.stateAtAwait != models.ClaimStateClaiming {
		t.Errorf("Expected claiming during await, got %s", signer.stateAtAwait)
	}
	entries := log.Snapshot()
	if len(entries) != 1 || entries[0].Kind != models.TxClaim {
		t.Fatalf("Expected one claim entry, got %+v", entries)
	}
}

func TestClaim_RejectedBeforeId(t *testing.T) {
	signer := &claimSigner{rejectErr: errors.New("invalid proof")}
	flow, log := newTestFlow(signer)

	if err := flow.Claim(context.Background(), testAirdrop()); err == nil {
		t.Fatal("Expected rejection error")
	}

	if flow.State() != models.ClaimStateInfo {
		t.Errorf("Expected return to info, got %s", flow.State())
	}
	if log.Len() != 0 {
		t.Errorf("Expected no pending entry for a never-accepted call, got %d", log.Len())
	}
}

func TestClaim_ConfirmationFailure(t *testing.T) {
	signer := &claimSigner{confirmStatus: gateway.StatusFailed}
	flow, log := newTestFlow(signer)

	err := flow.Claim(context.Background(), testAirdrop())
	if !errors.Is(err, gateway.ErrConfirmationFailed) {
		t.Fatalf("Expected ErrConfirmationFailed, got %v", err)
	}

	if flow.State() != models.ClaimStateInfo {
		t.Errorf("Expected return to info, got %s", flow.State())
	}
	// Entry was appended at acceptance and is never retracted.
	if log.Len() != 1 {
		t.Errorf("Expected claim entry retained, got %d", log.Len())
	}

	// The flow is reclaimable after a failure.
	signer.confirmStatus = gateway.StatusConfirmed
	if err := flow.Claim(context.Background(), testAirdrop()); err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if flow.State() != models.ClaimStateClaimed {
		t.Errorf("Expected claimed after retry, got %s", flow.State())
	}
}

func TestClaim_AlreadyInProgress(t *testing.T) {
	signer := &claimSigner{}
	flow, _ := newTestFlow(signer)

	if err := flow.Claim(context.Background(), testAirdrop()); err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if err := flow.Claim(context.Background(), testAirdrop()); !errors.Is(err, ErrAlreadyInProgress) {
		t.Errorf("Expected ErrAlreadyInProgress, got %v", err)
	}
}

func TestClose_ResetsOnlySettledStates(t *testing.T) {
	signer := &claimSigner{}
	flow, _ := newTestFlow(signer)

	// claimed resets to info
	if err := flow.Claim(context.Background(), testAirdrop()); err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	flow.Close()
	if flow.State() != models.ClaimStateInfo {
		t.Errorf("Expected info after closing a claimed flow, got %s", flow.State())
	}

	// info stays info
	flow.Close()
	if flow.State() != models.ClaimStateInfo {
		t.Errorf("Expected info unchanged, got %s", flow.State())
	}
}
