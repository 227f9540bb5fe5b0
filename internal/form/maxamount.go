package form

import (
	"context"
	"errors"

	"theta-vault-client-go/internal/asset"
)

var (
	ErrDataNotLoaded       = errors.New("vault data not loaded")
	ErrGasPriceUnavailable = errors.New("no fresh gas price quote available")
)

// MaxAmount computes the maximum safely usable amount for the active tab.
// Depositing the native asset reserves gasLimit x gasPrice out of the wallet
// balance, floored at zero; that branch refuses to produce a value without a
// fresh gas quote rather than overstate spendable funds. Non-native deposits
// and withdrawals use their ceiling directly.
func (f *Form) MaxAmount(ctx context.Context) (asset.Amount, error) {
	if f.data == nil {
		return asset.Amount{}, ErrDataNotLoaded
	}

	if !f.isDeposit {
		return f.data.MaxWithdrawAmount, nil
	}

	if !f.spec.Native {
		return f.data.UserAssetBalance, nil
	}

	price, err := f.gas.CurrentGasPrice(ctx)
	if err != nil {
		return asset.Amount{}, err
	}
	if price == nil {
		return asset.Amount{}, ErrGasPriceUnavailable
	}

	priceAmount, err := asset.FromUnits(price, f.data.Decimals)
	if err != nil {
		return asset.Amount{}, err
	}

	gasFee := priceAmount.MulUint64(f.spec.DepositGasLimit)
	return f.data.UserAssetBalance.SubFloor(gasFee), nil
}
