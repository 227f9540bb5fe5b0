package form

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"theta-vault-client-go/internal/asset"
)

func TestMaxAmount_NativeDeposit(t *testing.T) {
	// 100 gwei gas price against a 200000 gas limit.
	gas := &stubGas{price: big.NewInt(100000000000)}
	f, _ := newTestForm(ethSpec(), &stubSigner{}, gas)
	data := testVaultData(18, "ETH")
	connect(f, data)

	max, err := f.MaxAmount(context.Background())
	if err != nil {
		t.Fatalf("MaxAmount failed: %v", err)
	}

	fee := asset.MustFromUnitString("20000000000000000", 18) // 0.02 ETH
	expected, err := data.UserAssetBalance.Sub(fee)
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	if max.Cmp(expected) != 0 {
		t.Errorf("Expected %s, got %s", expected.String(), max.String())
	}
}

func TestMaxAmount_NativeDeposit_FlooredAtZero(t *testing.T) {
	// Fee exceeds the whole balance.
	gas := &stubGas{price: big.NewInt(1000000000000000000)}
	f, _ := newTestForm(ethSpec(), &stubSigner{}, gas)
	connect(f, testVaultData(18, "ETH"))

	max, err := f.MaxAmount(context.Background())
	if err != nil {
		t.Fatalf("MaxAmount failed: %v", err)
	}
	if !max.IsZero() {
		t.Errorf("Expected zero when fee exceeds balance, got %s", max.String())
	}
}

func TestMaxAmount_NativeDeposit_NoQuote(t *testing.T) {
	f, _ := newTestForm(ethSpec(), &stubSigner{}, &stubGas{price: nil})
	connect(f, testVaultData(18, "ETH"))

	if _, err := f.MaxAmount(context.Background()); !errors.Is(err, ErrGasPriceUnavailable) {
		t.Errorf("Expected ErrGasPriceUnavailable, got %v", err)
	}
}

func TestMaxAmount_NonNativeDeposit(t *testing.T) {
	f, _ := newTestForm(wbtcSpec(), &stubSigner{}, nil)
	data := testVaultData(8, "WBTC")
	connect(f, data)

	max, err := f.MaxAmount(context.Background())
	if err != nil {
		t.Fatalf("MaxAmount failed: %v", err)
	}
	if max.Cmp(data.UserAssetBalance) != 0 {
		t.Errorf("Expected full balance for non-native deposit, got %s", max.String())
	}
}

func TestMaxAmount_Withdraw(t *testing.T) {
	f, _ := newTestForm(ethSpec(), &stubSigner{}, nil)
	data := testVaultData(18, "ETH")
	connect(f, data)
	f.SwitchTab(false)

	max, err := f.MaxAmount(context.Background())
	if err != nil {
		t.Fatalf("MaxAmount failed: %v", err)
	}
	if max.Cmp(data.MaxWithdrawAmount) != 0 {
		t.Errorf("Expected withdrawable ceiling, got %s", max.String())
	}
}

func TestMaxAmount_NotLoaded(t *testing.T) {
	f, _ := newTestForm(ethSpec(), &stubSigner{}, nil)

	if _, err := f.MaxAmount(context.Background()); !errors.Is(err, ErrDataNotLoaded) {
		t.Errorf("Expected ErrDataNotLoaded, got %v", err)
	}
}

func TestClickMax_FillsInput(t *testing.T) {
	f, _ := newTestForm(wbtcSpec(), &stubSigner{}, nil)
	connect(f, testVaultData(8, "WBTC"))

	if err := f.ClickMax(context.Background()); err != nil {
		t.Fatalf("ClickMax failed: %v", err)
	}
	if f.InputText() != "100" {
		t.Errorf("Expected input 100, got %q", f.InputText())
	}

	f.Queue().Drain()
	if f.Validation() != ValidationNone {
		t.Errorf("Expected max amount to validate, got %s", f.Validation())
	}
}

func TestClickMax_NoOpDisconnected(t *testing.T) {
	f, _ := newTestForm(wbtcSpec(), &stubSigner{}, nil)
	f.SetVaultData(testVaultData(8, "WBTC"))

	if err := f.ClickMax(context.Background()); err != nil {
		t.Fatalf("ClickMax failed: %v", err)
	}
	if f.InputText() != "" {
		t.Errorf("Expected no input while disconnected, got %q", f.InputText())
	}
}
