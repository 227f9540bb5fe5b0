package common

import (
	"fmt"
	"os"
	"path/filepath"

	"theta-vault-client-go/internal/models"

	"gopkg.in/yaml.v2"
)

// VaultSpec is one configured vault: the asset it accepts, its on-chain
// address (also the allowance spender), capacity, and the gas limits used
// when reserving network fees.
type VaultSpec struct {
	Name             string `yaml:"name"`
	Symbol           string `yaml:"symbol"`
	Decimals         int32  `yaml:"decimals"`
	Native           bool   `yaml:"native"`
	Address          string `yaml:"address"`
	Capacity         string `yaml:"capacity"`
	DepositGasLimit  uint64 `yaml:"deposit_gas_limit"`
	WithdrawGasLimit uint64 `yaml:"withdraw_gas_limit"`
}

type VaultsConfig struct {
	Vaults []VaultSpec `yaml:"vaults"`
}

// Option returns the spec's vault identifier.
func (v VaultSpec) Option() models.VaultOption {
	return models.VaultOption(v.Name)
}

func LoadVaultSpecs(vaultsFile string) ([]VaultSpec, error) {
	var vaultsPath string
	if filepath.IsAbs(vaultsFile) {
		vaultsPath = vaultsFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		vaultsPath = filepath.Join(wd, vaultsFile)
	}

	data, err := os.ReadFile(vaultsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", vaultsFile, err)
	}

	var config VaultsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", vaultsFile, err)
	}

	for i, vault := range config.Vaults {
		if vault.Name == "" {
			return nil, fmt.Errorf("vault at index %d missing name", i)
		}
		if vault.Symbol == "" {
			return nil, fmt.Errorf("vault at index %d missing symbol", i)
		}
		if vault.Decimals <= 0 {
			return nil, fmt.Errorf("vault %s has invalid decimals %d", vault.Name, vault.Decimals)
		}
		if !vault.Native && vault.Address == "" {
			return nil, fmt.Errorf("vault %s requires an address for allowance grants", vault.Name)
		}
	}

	return config.Vaults, nil
}

// FindVaultSpec looks up a vault by name.
func FindVaultSpec(specs []VaultSpec, name string) (*VaultSpec, error) {
	for i := range specs {
		if specs[i].Name == name {
			return &specs[i], nil
		}
	}
	return nil, fmt.Errorf("vault %q not found in registry", name)
}
