package asset

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared by all amount constructors.
var (
	ErrNegativeAmount = errors.New("amount cannot be negative")
	ErrPrecisionLoss  = errors.New("amount has more fractional digits than the asset supports")
)

// Amount is a fixed-point quantity of an asset: an integer magnitude in the
// asset's smallest unit plus the decimal scale used for display conversion.
// The zero value is a zero amount with zero decimals.
type Amount struct {
	units    *big.Int
	decimals int32
}

// Zero returns a zero amount at the given decimal scale.
func Zero(decimals int32) Amount {
	return Amount{units: big.NewInt(0), decimals: decimals}
}

// FromUnits builds an amount from a smallest-unit magnitude.
func FromUnits(units *big.Int, decimals int32) (Amount, error) {
	if units == nil {
		return Zero(decimals), nil
	}
	if units.Sign() < 0 {
		return Amount{}, ErrNegativeAmount
	}
	return Amount{units: new(big.Int).Set(units), decimals: decimals}, nil
}

// MustFromUnitString builds an amount from a base-10 smallest-unit string.
// Panics on malformed or negative input; intended for configuration constants
// that are validated at load time.
func MustFromUnitString(s string, decimals int32) Amount {
	units, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic(fmt.Sprintf("invalid unit string %q", s))
	}
	a, err := FromUnits(units, decimals)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseUnits converts user-entered decimal text (e.g. "1.5") into a
// smallest-unit amount at the given scale. The conversion is exact: text with
// more fractional digits than the scale supports returns ErrPrecisionLoss
// rather than truncating.
func ParseUnits(text string, decimals int32) (Amount, error) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", text, err)
	}
	if d.IsNegative() {
		return Amount{}, ErrNegativeAmount
	}

	shifted := d.Shift(decimals)
	if !shifted.IsInteger() {
		return Amount{}, ErrPrecisionLoss
	}

	return Amount{units: shifted.BigInt(), decimals: decimals}, nil
}

// Units returns a copy of the smallest-unit magnitude.
func (a Amount) Units() *big.Int {
	if a.units == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(a.units)
}

// Decimals returns the display scale.
func (a Amount) Decimals() int32 {
	return a.decimals
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.units == nil || a.units.Sign() == 0
}

// Cmp compares two amounts: -1 if a < b, 0 if equal, +1 if a > b.
func (a Amount) Cmp(b Amount) int {
	return a.Units().Cmp(b.Units())
}

// GreaterThan reports whether a > b.
func (a Amount) GreaterThan(b Amount) bool {
	return a.Cmp(b) > 0
}

// Add returns a + b at a's scale.
func (a Amount) Add(b Amount) Amount {
	return Amount{units: new(big.Int).Add(a.Units(), b.Units()), decimals: a.decimals}
}

// Sub returns a - b, or ErrNegativeAmount if the result would be negative.
func (a Amount) Sub(b Amount) (Amount, error) {
	diff := new(big.Int).Sub(a.Units(), b.Units())
	if diff.Sign() < 0 {
		return Amount{}, ErrNegativeAmount
	}
	return Amount{units: diff, decimals: a.decimals}, nil
}

// SubFloor returns a - b floored at zero.
func (a Amount) SubFloor(b Amount) Amount {
	diff := new(big.Int).Sub(a.Units(), b.Units())
	if diff.Sign() < 0 {
		return Zero(a.decimals)
	}
	return Amount{units: diff, decimals: a.decimals}
}

// MulUint64 returns a scaled by an integer factor (e.g. gas limit x gas price).
func (a Amount) MulUint64(factor uint64) Amount {
	product := new(big.Int).Mul(a.Units(), new(big.Int).SetUint64(factor))
	return Amount{units: product, decimals: a.decimals}
}

// FormatUnits renders the amount as decimal text at its display scale,
// e.g. 1500000000000000000 units at 18 decimals -> "1.5".
func (a Amount) FormatUnits() string {
	return decimal.NewFromBigInt(a.Units(), -a.decimals).String()
}

// String returns the smallest-unit magnitude in base 10.
func (a Amount) String() string {
	return a.Units().String()
}
