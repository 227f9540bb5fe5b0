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

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net"
	"net/http"
	"time"

	"theta-vault-client-go/internal/asset"
	"theta-vault-client-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

// RPCService talks to a local signer daemon (walletd) over HTTP. The daemon
// holds the keys, prompts the user for signatures, and relays calls to the
// network; this client only submits and polls.
type RPCService struct {
	client              http.Client
	baseURL             string
	confirmPollInterval time.Duration
	confirmTimeout      time.Duration
}

// Compile-time checks: *RPCService satisfies all collaborator interfaces.
var (
	_ Signer        = (*RPCService)(nil)
	_ GasOracle     = (*RPCService)(nil)
	_ YieldSource   = (*RPCService)(nil)
	_ AccountSource = (*RPCService)(nil)
)

func NewRPCService(cfg models.GatewayConfig) (*RPCService, error) {
	httpClient, err := createCustomHttpClient(cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("unable to create custom http client: %w", err)
	}

	return &RPCService{
		client:              httpClient,
		baseURL:             cfg.BaseURL,
		confirmPollInterval: cfg.ConfirmPollInterval,
		confirmTimeout:      cfg.ConfirmTimeout,
	}, nil
}

func createCustomHttpClient(timeout time.Duration) (http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			DualStack: true,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return http.Client{}, err
	}

	return http.Client{
		Transport: tr,
		Timeout:   timeout,
	}, nil
}

type submitResponse struct {
	CallId string `json:"call_id"`
}

type callStatusResponse struct {
	CallId string `json:"call_id"`
	Status string `json:"status"`
}

func (s *RPCService) GrantAllowance(ctx context.Context, spender string, amount asset.Amount) (string, error) {
	body := map[string]string{
		"spender":         spender,
		"amount":          amount.String(),
		"idempotency_key": uuid.New().String(),
	}
	return s.submit(ctx, "/v1/allowances", body)
}

func (s *RPCService) SubmitDeposit(ctx context.Context, vault models.VaultOption, amount asset.Amount) (string, error) {
	body := map[string]string{
		"vault":           string(vault),
		"amount":          amount.String(),
		"idempotency_key": uuid.New().String(),
	}
	return s.submit(ctx, "/v1/deposits", body)
}

func (s *RPCService) SubmitWithdraw(ctx context.Context, vault models.VaultOption, amount asset.Amount) (string, error) {
	body := map[string]string{
		"vault":           string(vault),
		"amount":          amount.String(),
		"idempotency_key": uuid.New().String(),
	}
	return s.submit(ctx, "/v1/withdrawals", body)
}

func (s *RPCService) SubmitClaim(ctx context.Context, proof models.ClaimProof) (string, error) {
	body := map[string]interface{}{
		"index":           proof.Index,
		"account":         proof.Account,
		"amount":          proof.Amount.String(),
		"proof":           proof.Proof,
		"idempotency_key": uuid.New().String(),
	}
	return s.submit(ctx, "/v1/claims", body)
}

func (s *RPCService) submit(ctx context.Context, path string, body interface{}) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("unable to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("unable to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("signer daemon call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		zap.L().Warn("Signer daemon rejected call",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", data))
		return "", fmt.Errorf("%w: http %d", ErrRejected, resp.StatusCode)
	}

	var parsed submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("unable to decode response: %w", err)
	}
	if parsed.CallId == "" {
		return "", fmt.Errorf("%w: signer returned empty call id", ErrRejected)
	}

	zap.L().Info("Call accepted by signer daemon",
		zap.String("path", path),
		zap.String("call_id", parsed.CallId))

	return parsed.CallId, nil
}

// AwaitConfirmation polls the daemon until the call reaches a terminal
// status, the confirm timeout elapses, or the context is cancelled.
func (s *RPCService) AwaitConfirmation(ctx context.Context, callId string) (Receipt, error) {
	deadline := time.Now().Add(s.confirmTimeout)
	ticker := time.NewTicker(s.confirmPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := s.checkConfirmation(ctx, callId)
		if err != nil {
			return Receipt{CallId: callId, Status: StatusPending}, err
		}
		if receipt.Status != StatusPending {
			return receipt, nil
		}

		if time.Now().After(deadline) {
			return receipt, fmt.Errorf("%w: call %s", ErrConfirmationTimeout, callId)
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return receipt, ctx.Err()
		}
	}
}

func (s *RPCService) checkConfirmation(ctx context.Context, callId string) (Receipt, error) {
	var parsed callStatusResponse
	if err := s.get(ctx, "/v1/calls/"+callId, &parsed); err != nil {
		return Receipt{}, err
	}

	switch parsed.Status {
	case "CONFIRMED":
		return Receipt{CallId: callId, Status: StatusConfirmed}, nil
	case "FAILED", "REVERTED":
		return Receipt{CallId: callId, Status: StatusFailed}, nil
	default:
		return Receipt{CallId: callId, Status: StatusPending}, nil
	}
}

type gasPriceResponse struct {
	Price string `json:"price"`
}

// CurrentGasPrice returns nil when the daemon has no fresh quote.
func (s *RPCService) CurrentGasPrice(ctx context.Context) (*big.Int, error) {
	var parsed gasPriceResponse
	if err := s.get(ctx, "/v1/gasprice", &parsed); err != nil {
		return nil, err
	}

	if parsed.Price == "" {
		return nil, nil
	}

	price, ok := new(big.Int).SetString(parsed.Price, 10)
	if !ok {
		return nil, fmt.Errorf("invalid gas price %q from daemon", parsed.Price)
	}
	return price, nil
}

type yieldResponse struct {
	Percent float64 `json:"percent"`
	Fetched bool    `json:"fetched"`
}

func (s *RPCService) LatestYield(ctx context.Context, vault models.VaultOption) (models.YieldEstimate, error) {
	var parsed yieldResponse
	if err := s.get(ctx, "/v1/vaults/"+string(vault)+"/yield", &parsed); err != nil {
		return models.YieldEstimate{}, err
	}
	return models.YieldEstimate{Percent: parsed.Percent, Fetched: parsed.Fetched}, nil
}

type vaultDataResponse struct {
	UserAssetBalance  string `json:"user_asset_balance"`
	Deposits          string `json:"deposits"`
	VaultLimit        string `json:"vault_limit"`
	VaultBalance      string `json:"vault_balance"`
	MaxWithdrawAmount string `json:"max_withdraw_amount"`
	Asset             string `json:"asset"`
	Decimals          int32  `json:"decimals"`
}

func (s *RPCService) VaultData(ctx context.Context, vault models.VaultOption, account string) (*models.VaultData, error) {
	var parsed vaultDataResponse
	if err := s.get(ctx, "/v1/vaults/"+string(vault)+"/data/"+account, &parsed); err != nil {
		return nil, err
	}

	data := &models.VaultData{Asset: parsed.Asset, Decimals: parsed.Decimals}
	fields := []struct {
		raw string
		dst *asset.Amount
	}{
		{parsed.UserAssetBalance, &data.UserAssetBalance},
		{parsed.Deposits, &data.Deposits},
		{parsed.VaultLimit, &data.VaultLimit},
		{parsed.VaultBalance, &data.VaultBalance},
		{parsed.MaxWithdrawAmount, &data.MaxWithdrawAmount},
	}
	for _, f := range fields {
		amount, err := parseUnitString(f.raw, parsed.Decimals)
		if err != nil {
			return nil, err
		}
		*f.dst = amount
	}

	return data, nil
}

type vaultAccountResponse struct {
	TotalDeposits      string `json:"total_deposits"`
	TotalYieldEarned   string `json:"total_yield_earned"`
	TotalBalance       string `json:"total_balance"`
	TotalStakedShares  string `json:"total_staked_shares"`
	TotalStakedBalance string `json:"total_staked_balance"`
	Asset              string `json:"asset"`
	Decimals           int32  `json:"decimals"`
}

func (s *RPCService) VaultAccount(ctx context.Context, vault models.VaultOption, account string) (*models.VaultAccountSnapshot, error) {
	var parsed vaultAccountResponse
	if err := s.get(ctx, "/v1/vaults/"+string(vault)+"/accounts/"+account, &parsed); err != nil {
		return nil, err
	}

	snapshot := &models.VaultAccountSnapshot{Asset: parsed.Asset}
	fields := []struct {
		raw string
		dst *asset.Amount
	}{
		{parsed.TotalDeposits, &snapshot.TotalDeposits},
		{parsed.TotalYieldEarned, &snapshot.TotalYieldEarned},
		{parsed.TotalBalance, &snapshot.TotalBalance},
		{parsed.TotalStakedShares, &snapshot.TotalStakedShares},
		{parsed.TotalStakedBalance, &snapshot.TotalStakedBalance},
	}
	for _, f := range fields {
		amount, err := parseUnitString(f.raw, parsed.Decimals)
		if err != nil {
			return nil, err
		}
		*f.dst = amount
	}

	return snapshot, nil
}

func parseUnitString(raw string, decimals int32) (asset.Amount, error) {
	if raw == "" {
		return asset.Zero(decimals), nil
	}
	units, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return asset.Amount{}, fmt.Errorf("invalid unit amount %q from daemon", raw)
	}
	return asset.FromUnits(units, decimals)
}

func (s *RPCService) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("unable to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("signer daemon call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("signer daemon returned http %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("unable to decode response: %w", err)
	}
	return nil
}
