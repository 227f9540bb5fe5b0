package form

import (
	"theta-vault-client-go/internal/asset"
	"theta-vault-client-go/internal/models"
)

// BuildPreview assembles the immutable intent shown for user confirmation.
// Total over its input domain: empty or malformed input maps to a zero
// amount, never an error, since the action control is independently disabled
// in those states. Deposit previews carry the yield estimate captured at
// preview time; withdraw previews carry the fixed fee rate.
func (f *Form) BuildPreview() models.PreviewStep {
	decimals := f.spec.Decimals
	position := asset.Zero(decimals)
	if f.data != nil {
		decimals = f.data.Decimals
		position = f.data.VaultBalance
	}

	amount := asset.Zero(decimals)
	if f.inputText != "" {
		if parsed, err := asset.ParseUnits(f.inputText, decimals); err == nil {
			amount = parsed
		}
	}

	kind := models.ActionWithdraw
	if f.isDeposit {
		kind = models.ActionDeposit
	}

	intent := models.ActionIntent{
		Kind:            kind,
		Amount:          amount,
		Vault:           f.spec.Option(),
		CurrentPosition: position,
	}

	if f.isDeposit {
		return models.PreviewStep{Intent: intent, ProjectedYield: f.yield}
	}
	return models.PreviewStep{Intent: intent, FeePercent: models.WithdrawalFeePercent}
}
