package gateway

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"theta-vault-client-go/internal/asset"
	"theta-vault-client-go/internal/models"
)

func TestSimulator_AcceptAndConfirm(t *testing.T) {
	sim := NewSimulator()
	ctx := context.Background()

	amount := asset.MustFromUnitString("1000000000000000000", 18)
	callId, err := sim.SubmitDeposit(ctx, "theta-eth", amount)
	if err != nil {
		t.Fatalf("SubmitDeposit failed: %v", err)
	}
	if callId == "" {
		t.Fatal("Expected non-empty call id")
	}

	receipt, err := sim.AwaitConfirmation(ctx, callId)
	if err != nil {
		t.Fatalf("AwaitConfirmation failed: %v", err)
	}
	if !receipt.Confirmed() {
		t.Errorf("Expected default confirmed, got %s", receipt.Status)
	}

	calls := sim.Calls()
	if len(calls) != 1 || calls[0].Kind != models.TxDeposit || calls[0].Target != "theta-eth" {
		t.Errorf("Unexpected recorded calls: %+v", calls)
	}
}

func TestSimulator_RejectNext(t *testing.T) {
	sim := NewSimulator()
	ctx := context.Background()
	rejection := errors.New("signature declined")
	sim.RejectNext(rejection)

	amount := asset.MustFromUnitString("1", 18)
	if _, err := sim.GrantAllowance(ctx, "0xvault", amount); !errors.Is(err, rejection) {
		t.Fatalf("Expected primed rejection, got %v", err)
	}
	if len(sim.Calls()) != 0 {
		t.Error("Expected rejected call unrecorded")
	}

	// Only the next call is affected.
	if _, err := sim.GrantAllowance(ctx, "0xvault", amount); err != nil {
		t.Errorf("Expected subsequent call accepted, got %v", err)
	}
}

func TestSimulator_FailCall(t *testing.T) {
	sim := NewSimulator()
	ctx := context.Background()

	amount := asset.MustFromUnitString("5", 8)
	callId, err := sim.SubmitWithdraw(ctx, "theta-wbtc", amount)
	if err != nil {
		t.Fatalf("SubmitWithdraw failed: %v", err)
	}

	sim.FailCall(callId)

	receipt, err := sim.AwaitConfirmation(ctx, callId)
	if err != nil {
		t.Fatalf("AwaitConfirmation failed: %v", err)
	}
	if receipt.Confirmed() {
		t.Error("Expected primed failure")
	}
}

func TestSimulator_GasPrice(t *testing.T) {
	sim := NewSimulator()
	ctx := context.Background()

	sim.GasPrice = big.NewInt(100)
	price, err := sim.CurrentGasPrice(ctx)
	if err != nil {
		t.Fatalf("CurrentGasPrice failed: %v", err)
	}
	if price.Int64() != 100 {
		t.Errorf("Expected 100, got %s", price)
	}

	// Returned value is a copy.
	price.SetInt64(999)
	again, _ := sim.CurrentGasPrice(ctx)
	if again.Int64() != 100 {
		t.Error("Gas price mutated through returned copy")
	}

	sim.GasPrice = nil
	price, err = sim.CurrentGasPrice(ctx)
	if err != nil || price != nil {
		t.Errorf("Expected nil price for unavailable quote, got %v / %v", price, err)
	}
}

func TestSimulator_ClaimRecordsAccount(t *testing.T) {
	sim := NewSimulator()
	ctx := context.Background()

	amount := asset.MustFromUnitString("125", 18)
	proof := models.ClaimProof{Index: 3, Account: "0xuser", Amount: amount, Proof: []string{"0xaa"}}

	if _, err := sim.SubmitClaim(ctx, proof); err != nil {
		t.Fatalf("SubmitClaim failed: %v", err)
	}

	calls := sim.Calls()
	if len(calls) != 1 || calls[0].Kind != models.TxClaim || calls[0].Account != "0xuser" {
		t.Errorf("Unexpected claim call: %+v", calls)
	}
}
