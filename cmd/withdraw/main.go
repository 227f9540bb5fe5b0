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

	"theta-vault-client-go/internal/common"
	"theta-vault-client-go/internal/config"
	"theta-vault-client-go/internal/form"
	"theta-vault-client-go/internal/models"
	"theta-vault-client-go/internal/txtrack"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	vaultFlag := flag.String("vault", "", "Vault name from the registry (required)")
	amountFlag := flag.String("amount", "", "Amount to withdraw in asset units (e.g. 1.5)")
	maxFlag := flag.Bool("max", false, "Withdraw the maximum available amount")
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

	if snapshot, err := services.Accounts.VaultAccount(ctx, spec.Option(), wallet.Address); err != nil {
		zap.L().Warn("Position summary unavailable", zap.Error(err))
	} else {
		printPosition(snapshot, data.Asset)
	}

	frm := form.New(form.Config{
		Spec:    *spec,
		Signer:  services.Signer,
		Gas:     services.Gas,
		Tracker: services.Tracker,
	})
	frm.SetVaultData(data)
	frm.SetWallet(wallet)
	frm.SwitchTab(false)

	if *maxFlag {
		if err := frm.ClickMax(ctx); err != nil {
			zap.L().Fatal("Failed to compute max withdrawal", zap.Error(err))
		}
	} else {
		frm.SetInput(*amountFlag)
	}
	frm.Queue().Drain()

	balanceLine, _ := frm.BalanceLine()
	fmt.Println(balanceLine)

	if frm.Validation() == form.ValidationInsufficientBalance {
		common.PrintHeader("WITHDRAWAL FAILED", common.DefaultWidth)
		fmt.Printf("Amount %s %s exceeds your withdrawable position\n", frm.InputText(), data.Asset)
		fmt.Printf("Max withdrawable: %s %s\n", data.MaxWithdrawAmount.FormatUnits(), data.Asset)
		common.PrintSeparator("=", common.DefaultWidth)
		zap.L().Fatal("Insufficient balance", zap.String("amount", frm.InputText()))
	}

	button := frm.ButtonState()
	if button.Disabled {
		zap.L().Fatal("Withdrawal not possible", zap.String("reason", button.Label))
	}

	preview := frm.ClickAction()
	if preview == nil {
		zap.L().Fatal("Nothing to preview; check amount and wallet connection")
	}

	printPreview(preview, data.Asset)

	amount := preview.Intent.Amount
	_, err = services.Tracker.Submit(ctx, txtrack.SubmitParams{
		Kind:   models.TxWithdraw,
		Vault:  spec.Option(),
		Amount: amount.String(),
		Issue: func(ctx context.Context) (string, error) {
			return services.Signer.SubmitWithdraw(ctx, spec.Option(), amount)
		},
		OnSuccess: func() {
			frm.ResetAfterSuccess()
		},
	})
	if err != nil {
		printPendingLog(services.PendingLog)
		zap.L().Fatal("Withdrawal failed", zap.Error(err))
	}

	fmt.Printf("\nWithdrawal of %s %s confirmed\n", amount.FormatUnits(), data.Asset)
	printPendingLog(services.PendingLog)
}

func printPosition(snapshot *models.VaultAccountSnapshot, symbol string) {
	common.PrintHeader("YOUR POSITION", common.DefaultWidth)
	fmt.Println(common.FormatBalanceLine("Total Deposits", snapshot.TotalDeposits.FormatUnits(), symbol, true))
	fmt.Println(common.FormatBalanceLine("Yield Earned", snapshot.TotalYieldEarned.FormatUnits(), symbol, true))
	fmt.Println(common.FormatBalanceLine("Total Balance", snapshot.TotalBalance.FormatUnits(), symbol, true))
	common.PrintSeparator("=", common.DefaultWidth)
}

func printPreview(preview *models.PreviewStep, symbol string) {
	amount := decimal.NewFromBigInt(preview.Intent.Amount.Units(), -preview.Intent.Amount.Decimals())
	feeRate := decimal.NewFromFloat(preview.FeePercent).Div(decimal.NewFromInt(100))
	fee := amount.Mul(feeRate)

	common.PrintHeader("WITHDRAWAL PREVIEW", common.DefaultWidth)
	fmt.Printf("Vault:            %s\n", preview.Intent.Vault)
	fmt.Printf("Amount:           %s %s\n", preview.Intent.Amount.FormatUnits(), symbol)
	fmt.Printf("Current Position: %s %s\n", preview.Intent.CurrentPosition.FormatUnits(), symbol)
	fmt.Printf("Withdrawal Fee:   %s %s (%.1f%%)\n", common.FormatSignificantDecimals(fee.String()), symbol, preview.FeePercent)
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
