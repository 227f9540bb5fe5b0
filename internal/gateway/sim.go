package gateway

import (
	"context"
	"math/big"
	"sync"

	"theta-vault-client-go/internal/asset"
	"theta-vault-client-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SimCall records one call accepted by the simulator.
type SimCall struct {
	Id      string
	Kind    models.TxKind
	Target  string
	Amount  string
	Account string
}

// Simulator is an in-process gateway for dry runs. Every submitted call is
// accepted with a fresh id and confirms successfully unless an outcome has
// been primed via FailCall or RejectNext.
type Simulator struct {
	mu         sync.Mutex
	calls      []SimCall
	outcomes   map[string]ConfirmationStatus
	rejectNext error

	GasPrice *big.Int
	Yield    models.YieldEstimate
	Data     models.VaultData
	Account  models.VaultAccountSnapshot
}

var (
	_ Signer        = (*Simulator)(nil)
	_ GasOracle     = (*Simulator)(nil)
	_ YieldSource   = (*Simulator)(nil)
	_ AccountSource = (*Simulator)(nil)
)

func NewSimulator() *Simulator {
	return &Simulator{
		outcomes: make(map[string]ConfirmationStatus),
		GasPrice: big.NewInt(0),
		Yield:    models.YieldEstimate{Percent: 12.5, Fetched: true},
	}
}

// RejectNext makes the next submit call fail before acceptance, simulating a
// declined signature.
func (s *Simulator) RejectNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectNext = err
}

// FailCall primes the given call to confirm with a failure status.
func (s *Simulator) FailCall(callId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[callId] = StatusFailed
}

// Calls returns a copy of every accepted call in submission order.
func (s *Simulator) Calls() []SimCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SimCall, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Simulator) accept(kind models.TxKind, target, amount, account string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rejectNext != nil {
		err := s.rejectNext
		s.rejectNext = nil
		return "", err
	}

	call := SimCall{
		Id:      uuid.New().String(),
		Kind:    kind,
		Target:  target,
		Amount:  amount,
		Account: account,
	}
	s.calls = append(s.calls, call)

	zap.L().Debug("Simulator accepted call",
		zap.String("call_id", call.Id),
		zap.String("kind", string(kind)),
		zap.String("target", target),
		zap.String("amount", amount))

	return call.Id, nil
}

func (s *Simulator) GrantAllowance(_ context.Context, spender string, amount asset.Amount) (string, error) {
	return s.accept(models.TxApproval, spender, amount.String(), "")
}

func (s *Simulator) SubmitDeposit(_ context.Context, vault models.VaultOption, amount asset.Amount) (string, error) {
	return s.accept(models.TxDeposit, string(vault), amount.String(), "")
}

func (s *Simulator) SubmitWithdraw(_ context.Context, vault models.VaultOption, amount asset.Amount) (string, error) {
	return s.accept(models.TxWithdraw, string(vault), amount.String(), "")
}

func (s *Simulator) SubmitClaim(_ context.Context, proof models.ClaimProof) (string, error) {
	return s.accept(models.TxClaim, "distributor", proof.Amount.String(), proof.Account)
}

func (s *Simulator) AwaitConfirmation(_ context.Context, callId string) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, ok := s.outcomes[callId]
	if !ok {
		status = StatusConfirmed
	}
	return Receipt{CallId: callId, Status: status}, nil
}

func (s *Simulator) CurrentGasPrice(_ context.Context) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GasPrice == nil {
		return nil, nil
	}
	return new(big.Int).Set(s.GasPrice), nil
}

func (s *Simulator) LatestYield(_ context.Context, _ models.VaultOption) (models.YieldEstimate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Yield, nil
}

func (s *Simulator) VaultData(_ context.Context, _ models.VaultOption, _ string) (*models.VaultData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.Data
	return &data, nil
}

func (s *Simulator) VaultAccount(_ context.Context, _ models.VaultOption, _ string) (*models.VaultAccountSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.Account
	return &snapshot, nil
}
