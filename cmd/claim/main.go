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

package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"theta-vault-client-go/internal/asset"
	"theta-vault-client-go/internal/claim"
	"theta-vault-client-go/internal/common"
	"theta-vault-client-go/internal/config"
	"theta-vault-client-go/internal/models"

	"go.uber.org/zap"
)

func main() {
	indexFlag := flag.Uint64("index", 0, "Merkle distributor index for this account")
	amountFlag := flag.String("amount", "", "Claimable amount in token units (required)")
	decimalsFlag := flag.Int("decimals", 18, "Reward token decimals")
	proofFlag := flag.String("proof", "", "Comma-separated merkle proof hashes (required)")
	flag.Parse()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	if *amountFlag == "" || *proofFlag == "" {
		zap.L().Fatal("Required flags: --amount and --proof")
	}

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	if cfg.Wallet.Address == "" {
		zap.L().Fatal("No wallet configured; set WALLET_ADDRESS")
	}

	amount, err := asset.ParseUnits(*amountFlag, int32(*decimalsFlag))
	if err != nil {
		zap.L().Fatal("Invalid claim amount", zap.String("amount", *amountFlag), zap.Error(err))
	}

	airdrop := models.Airdrop{
		Total: amount,
		Proof: models.ClaimProof{
			Index:   *indexFlag,
			Account: cfg.Wallet.Address,
			Amount:  amount,
			Proof:   strings.Split(*proofFlag, ","),
		},
	}

	flow := claim.NewFlow(services.Signer, services.Tracker)

	common.PrintHeader("REWARD CLAIM", common.DefaultWidth)
	fmt.Printf("Account: %s\n", cfg.Wallet.Address)
	fmt.Printf("Amount:  %s\n", amount.FormatUnits())
	common.PrintSeparator("=", common.DefaultWidth)

	if err := flow.Claim(ctx, airdrop); err != nil {
		fmt.Printf("\nClaim failed; flow returned to %q\n", flow.State())
		for _, tx := range services.PendingLog.Snapshot() {
			fmt.Printf("submitted: %-10s %s\n", tx.Kind, tx.Hash)
		}
		zap.L().Fatal("Claim failed", zap.Error(err))
	}

	fmt.Printf("\nReward claim confirmed (state: %s)\n", flow.State())
}
