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
	"time"

	"theta-vault-client-go/internal/common"
	"theta-vault-client-go/internal/config"
	"theta-vault-client-go/internal/form"
	"theta-vault-client-go/internal/models"
	"theta-vault-client-go/internal/txtrack"

	"go.uber.org/zap"
)

func main() {
	vaultFlag := flag.String("vault", "", "Vault name from the registry (required)")
	amountFlag := flag.String("amount", "", "Amount to deposit in asset units (e.g. 1.5)")
	maxFlag := flag.Bool("max", false, "Deposit the maximum safe amount")
	flag.Parse()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	if *vaultFlag == "" || (*amountFlag == "" && !*maxFlag) {
		zap.L().Fatal("Required flags: --vault plus --amount or --max")
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

	spec, err := common.FindVaultSpec(services.VaultSpecs, *vaultFlag)
	if err != nil {
		zap.L().Fatal("Unknown vault", zap.String("vault", *vaultFlag), zap.Error(err))
	}

	wallet := models.WalletState{
		Connected: cfg.Wallet.Address != "",
		Address:   cfg.Wallet.Address,
	}
	if !wallet.Connected {
		zap.L().Fatal("No wallet configured; set WALLET_ADDRESS")
	}

	data, err := services.Accounts.VaultData(ctx, spec.Option(), wallet.Address)
	if err != nil {
		zap.L().Fatal("Failed to fetch vault data", zap.Error(err))
	}

	yield, err := services.Yield.LatestYield(ctx, spec.Option())
	if err != nil {
		zap.L().Warn("Yield estimate unavailable", zap.Error(err))
		yield = models.YieldEstimate{}
	}

	frm := form.New(form.Config{
		Spec:    *spec,
		Signer:  services.Signer,
		Gas:     services.Gas,
		Tracker: services.Tracker,
	})
	frm.SetVaultData(data)
	frm.SetWallet(wallet)
	frm.SetYield(yield)

	if *maxFlag {
		if err := frm.ClickMax(ctx); err != nil {
			zap.L().Fatal("Failed to compute max deposit", zap.Error(err))
		}
	} else {
		frm.SetInput(*amountFlag)
	}
	frm.Queue().Drain()

	balanceLine, _ := frm.BalanceLine()
	fmt.Println(balanceLine)

	if frm.Validation() == form.ValidationInsufficientBalance {
		common.PrintHeader("DEPOSIT FAILED", common.DefaultWidth)
		fmt.Printf("Amount %s %s exceeds your wallet balance\n", frm.InputText(), data.Asset)
		common.PrintSeparator("=", common.DefaultWidth)
		zap.L().Fatal("Insufficient balance", zap.String("amount", frm.InputText()))
	}

	button := frm.ButtonState()
	if button.Disabled {
		zap.L().Fatal("Deposit not possible", zap.String("reason", button.Label))
	}

	preview := frm.ClickAction()

	// An unapproved non-native deposit gates on a one-time allowance grant
	// for exactly the entered amount.
	if preview == nil && frm.ApprovalStatus() == models.ApprovalApproving {
		fmt.Printf("Before you deposit, the vault needs permission to invest your %s.\n", data.Asset)
		fmt.Println("Granting allowance...")

		preview, err = frm.ApproveToken(ctx)
		if err != nil {
			zap.L().Fatal("Token approval failed", zap.Error(err))
		}
	}

	if preview == nil {
		zap.L().Fatal("Nothing to preview; check amount and wallet connection")
	}

	printPreview(preview, data.Asset)

	amount := preview.Intent.Amount
	_, err = services.Tracker.Submit(ctx, txtrack.SubmitParams{
		Kind:   models.TxDeposit,
		Vault:  spec.Option(),
		Amount: amount.String(),
		Issue: func(ctx context.Context) (string, error) {
			return services.Signer.SubmitDeposit(ctx, spec.Option(), amount)
		},
		OnSuccess: func() {
			frm.ResetAfterSuccess()
		},
	})
	if err != nil {
		printPendingLog(services.PendingLog)
		zap.L().Fatal("Deposit failed", zap.Error(err))
	}

	fmt.Printf("\nDeposit of %s %s confirmed\n", amount.FormatUnits(), data.Asset)
	printPendingLog(services.PendingLog)
}

func printPreview(preview *models.PreviewStep, symbol string) {
	common.PrintHeader("DEPOSIT PREVIEW", common.DefaultWidth)
	fmt.Printf("Vault:            %s\n", preview.Intent.Vault)
	fmt.Printf("Amount:           %s %s\n", preview.Intent.Amount.FormatUnits(), symbol)
	fmt.Printf("Current Position: %s %s\n", preview.Intent.CurrentPosition.FormatUnits(), symbol)
	if preview.ProjectedYield.Fetched {
		fmt.Printf("Projected Yield:  %.2f%% APY\n", preview.ProjectedYield.Percent)
	} else {
		anim := common.NewAnimator(common.LoadingFrames(), 500*time.Millisecond, time.Now())
		fmt.Printf("Projected Yield:  %s\n", anim.Frame(true, time.Now()))
	}
	common.PrintSeparator("=", common.DefaultWidth)
}

func printPendingLog(log *txtrack.PendingLog) {
	entries := log.Snapshot()
	if len(entries) == 0 {
		return
	}

	common.PrintHeader("PENDING TRANSACTIONS (this session)", common.DefaultWidth)
	for _, tx := range entries {
		fmt.Printf("%-10s %-12s %s\n", tx.Kind, tx.Vault, tx.Hash)
	}
	common.PrintSeparator("=", common.DefaultWidth)
}
