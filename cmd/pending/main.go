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

	"go.uber.org/zap"
)

func main() {
	limitFlag := flag.Int("limit", 50, "Maximum number of entries to show")
	offsetFlag := flag.Int("offset", 0, "Number of entries to skip")
	flag.Parse()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	journalService, err := common.InitializeJournalOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to open journal", zap.Error(err))
	}
	defer journalService.Close()

	entries, err := journalService.ListSubmitted(ctx, *limitFlag, *offsetFlag)
	if err != nil {
		zap.L().Fatal("Failed to list transactions", zap.Error(err))
	}

	common.PrintHeader("SUBMITTED TRANSACTIONS", common.DefaultWidth)
	if len(entries) == 0 {
		fmt.Println("No transactions journaled yet")
	}
	for _, entry := range entries {
		confirmed := "-"
		if !entry.ConfirmedAt.IsZero() {
			confirmed = entry.ConfirmedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%-10s %-12s %-10s %-20s %s\n",
			entry.Kind, entry.Vault, entry.Status,
			entry.SubmittedAt.Format("2006-01-02 15:04:05"), confirmed)
		fmt.Printf("           hash: %s  amount: %s\n", entry.Hash, entry.Amount)
	}
	common.PrintSeparator("=", common.DefaultWidth)
}
