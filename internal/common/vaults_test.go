package common

import (
	"os"
	"path/filepath"
	"testing"
)

func writeVaultsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vaults.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write vaults file: %v", err)
	}
	return path
}

func TestLoadVaultSpecs(t *testing.T) {
	path := writeVaultsFile(t, `
vaults:
  - name: theta-eth
    symbol: ETH
    decimals: 18
    native: true
    capacity: "1000000000000000000000"
    deposit_gas_limit: 200000
    withdraw_gas_limit: 180000
  - name: theta-wbtc
    symbol: WBTC
    decimals: 8
    native: false
    address: "0x65a833AFDC250D9D38f8CD9bC2B1E3132dB13B2F"
    capacity: "20000000000"
    deposit_gas_limit: 220000
    withdraw_gas_limit: 200000
`)

	specs, err := LoadVaultSpecs(path)
	if err != nil {
		t.Fatalf("LoadVaultSpecs failed: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("Expected 2 vaults, got %d", len(specs))
	}

	eth := specs[0]
	if eth.Name != "theta-eth" || !eth.Native || eth.Decimals != 18 {
		t.Errorf("Unexpected eth spec: %+v", eth)
	}
	if eth.Option() != "theta-eth" {
		t.Errorf("Expected option theta-eth, got %s", eth.Option())
	}

	wbtc := specs[1]
	if wbtc.Native || wbtc.DepositGasLimit != 220000 {
		t.Errorf("Unexpected wbtc spec: %+v", wbtc)
	}
}

func TestLoadVaultSpecs_MissingName(t *testing.T) {
	path := writeVaultsFile(t, `
vaults:
  - symbol: ETH
    decimals: 18
    native: true
`)
	if _, err := LoadVaultSpecs(path); err == nil {
		t.Error("Expected error for missing name")
	}
}

func TestLoadVaultSpecs_NonNativeNeedsAddress(t *testing.T) {
	path := writeVaultsFile(t, `
vaults:
  - name: theta-wbtc
    symbol: WBTC
    decimals: 8
    native: false
`)
	if _, err := LoadVaultSpecs(path); err == nil {
		t.Error("Expected error for non-native vault without address")
	}
}

func TestLoadVaultSpecs_InvalidDecimals(t *testing.T) {
	path := writeVaultsFile(t, `
vaults:
  - name: theta-eth
    symbol: ETH
    decimals: 0
    native: true
`)
	if _, err := LoadVaultSpecs(path); err == nil {
		t.Error("Expected error for zero decimals")
	}
}

func TestLoadVaultSpecs_FileMissing(t *testing.T) {
	if _, err := LoadVaultSpecs(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestFindVaultSpec(t *testing.T) {
	specs := []VaultSpec{
		{Name: "theta-eth", Symbol: "ETH", Decimals: 18, Native: true},
		{Name: "theta-wbtc", Symbol: "WBTC", Decimals: 8, Address: "0xabc"},
	}

	spec, err := FindVaultSpec(specs, "theta-wbtc")
	if err != nil {
		t.Fatalf("FindVaultSpec failed: %v", err)
	}
	if spec.Symbol != "WBTC" {
		t.Errorf("Expected WBTC, got %s", spec.Symbol)
	}

	if _, err := FindVaultSpec(specs, "theta-doge"); err == nil {
		t.Error("Expected error for unknown vault")
	}
}
