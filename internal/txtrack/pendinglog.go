package txtrack

import (
	"sync"

	"theta-vault-client-go/internal/models"
)

// PendingLog is the session-wide record of in-flight transactions. Deposit,
// withdraw, approval and claim flows all append to the same log; display
// surfaces read it. Entries are never mutated or removed here;
// reconciliation against confirmed state belongs to the display layer.
type PendingLog struct {
	mu      sync.RWMutex
	entries []models.PendingTransaction
}

func NewPendingLog() *PendingLog {
	return &PendingLog{}
}

// Append records a newly submitted transaction.
func (l *PendingLog) Append(tx models.PendingTransaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, tx)
}

// Snapshot returns a copy of the log in append order.
func (l *PendingLog) Snapshot() []models.PendingTransaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.PendingTransaction, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *PendingLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Reset clears the log. Only for an explicit session reset; flows never call
// this on their own.
func (l *PendingLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
