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

package txtrack

import (
	"context"
	"fmt"

	"theta-vault-client-go/internal/gateway"
	"theta-vault-client-go/internal/models"

	"go.uber.org/zap"
)

// Recorder mirrors pending-log appends into a persistent journal so other
// processes can display them. Best-effort: recording failures are logged,
// never surfaced to the submitting flow.
type Recorder interface {
	RecordSubmitted(ctx context.Context, tx models.PendingTransaction) error
	RecordOutcome(ctx context.Context, hash string, confirmed bool) error
}

// SubmitParams describes one user-confirmed action.
type SubmitParams struct {
	Kind   models.TxKind
	Vault  models.VaultOption
	Amount string

	// Issue performs the remote call and returns the accepted call id.
	Issue func(ctx context.Context) (string, error)

	// OnAccepted runs once the call has an id and the pending entry is
	// appended, before confirmation is awaited.
	OnAccepted func(callId string)

	// OnSuccess runs after confirmed success.
	OnSuccess func()

	// OnFailure runs on rejection, confirmation failure, or wait error.
	OnFailure func(err error)
}

// Tracker issues remote calls and tracks them through confirmation. Within
// one Submit the sequence is strictly ordered: issue, append to the pending
// log, await confirmation, run the continuation. The pending entry is
// appended as soon as the call is accepted and is never retracted, even when
// confirmation later fails.
type Tracker struct {
	signer  gateway.Signer
	log     *PendingLog
	journal Recorder
}

// NewTracker creates a tracker. journal may be nil.
func NewTracker(signer gateway.Signer, log *PendingLog, journal Recorder) *Tracker {
	return &Tracker{signer: signer, log: log, journal: journal}
}

// Log returns the pending log the tracker appends to.
func (t *Tracker) Log() *PendingLog {
	return t.log
}

// Submit runs one action through the full lifecycle. The returned call id is
// empty iff the call was never accepted.
func (t *Tracker) Submit(ctx context.Context, p SubmitParams) (string, error) {
	callId, err := p.Issue(ctx)
	if err != nil {
		zap.L().Warn("Remote call rejected before acceptance",
			zap.String("kind", string(p.Kind)),
			zap.String("vault", string(p.Vault)),
			zap.Error(err))
		if p.OnFailure != nil {
			p.OnFailure(err)
		}
		return "", err
	}

	tx := models.PendingTransaction{
		Hash:   callId,
		Kind:   p.Kind,
		Amount: p.Amount,
		Vault:  p.Vault,
	}
	t.log.Append(tx)
	t.record(ctx, tx)

	zap.L().Info("Transaction submitted",
		zap.String("call_id", callId),
		zap.String("kind", string(p.Kind)),
		zap.String("vault", string(p.Vault)),
		zap.String("amount", p.Amount))

	if p.OnAccepted != nil {
		p.OnAccepted(callId)
	}

	receipt, err := t.signer.AwaitConfirmation(ctx, callId)
	if err != nil {
		zap.L().Warn("Confirmation wait failed",
			zap.String("call_id", callId),
			zap.Error(err))
		t.recordOutcome(ctx, callId, false)
		if p.OnFailure != nil {
			p.OnFailure(err)
		}
		return callId, err
	}

	if !receipt.Confirmed() {
		err := fmt.Errorf("%w: call %s", gateway.ErrConfirmationFailed, callId)
		t.recordOutcome(ctx, callId, false)
		if p.OnFailure != nil {
			p.OnFailure(err)
		}
		return callId, err
	}

	zap.L().Info("Transaction confirmed",
		zap.String("call_id", callId),
		zap.String("kind", string(p.Kind)))

	t.recordOutcome(ctx, callId, true)
	if p.OnSuccess != nil {
		p.OnSuccess()
	}
	return callId, nil
}

func (t *Tracker) record(ctx context.Context, tx models.PendingTransaction) {
	if t.journal == nil {
		return
	}
	if err := t.journal.RecordSubmitted(ctx, tx); err != nil {
		zap.L().Warn("Failed to journal submitted transaction",
			zap.String("hash", tx.Hash),
			zap.Error(err))
	}
}

func (t *Tracker) recordOutcome(ctx context.Context, hash string, confirmed bool) {
	if t.journal == nil {
		return
	}
	if err := t.journal.RecordOutcome(ctx, hash, confirmed); err != nil {
		zap.L().Warn("Failed to journal transaction outcome",
			zap.String("hash", hash),
			zap.Bool("confirmed", confirmed),
			zap.Error(err))
	}
}
