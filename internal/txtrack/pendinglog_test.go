package txtrack

import (
	"testing"

	"theta-vault-client-go/internal/models"
)

func TestPendingLog_AppendAndSnapshot(t *testing.T) {
	log := NewPendingLog()

	log.Append(models.PendingTransaction{Hash: "a", Kind: models.TxApproval, Vault: "theta-wbtc"})
	log.Append(models.PendingTransaction{Hash: "b", Kind: models.TxDeposit, Vault: "theta-wbtc"})

	entries := log.Snapshot()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Hash != "a" || entries[1].Hash != "b" {
		t.Errorf("Expected insertion order preserved, got %+v", entries)
	}
}

func TestPendingLog_SnapshotIsCopy(t *testing.T) {
	log := NewPendingLog()
	log.Append(models.PendingTransaction{Hash: "a", Kind: models.TxDeposit})

	entries := log.Snapshot()
	entries[0].Hash = "mutated"

	if log.Snapshot()[0].Hash != "a" {
		t.Error("Snapshot mutation leaked into the log")
	}
}

func TestPendingLog_Reset(t *testing.T) {
	log := NewPendingLog()
	log.Append(models.PendingTransaction{Hash: "a", Kind: models.TxDeposit})

	log.Reset()
	if log.Len() != 0 {
		t.Errorf("Expected empty log after reset, got %d", log.Len())
	}
}
