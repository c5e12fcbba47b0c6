package pricing

import (
	"math"
	"math/big"
)

// Quote amounts are rounded before hitting the chain so that tiny input
// changes do not force a fresh read. Precision loss is bounded by this cap.
const maxQuotePrecision = 4

// QuotePrecision returns the number of fractional digits a quote amount is
// rounded to for a token with the given decimals.
func QuotePrecision(decimals uint8) int {
	if int(decimals) < maxQuotePrecision {
		return int(decimals)
	}
	return maxQuotePrecision
}

// RoundAmount rounds amount to QuotePrecision(decimals) fractional digits.
func RoundAmount(amount float64, decimals uint8) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	factor := math.Pow10(QuotePrecision(decimals))
	return math.Round(amount*factor) / factor
}

// ToBaseUnits converts a human-readable amount into base units. The amount
// is rounded to the quote precision first and the remaining scaling happens
// in integer space, so the result is exact.
func ToBaseUnits(amount float64, decimals uint8) *big.Int {
	precision := QuotePrecision(decimals)
	scaled := math.Round(amount * math.Pow10(precision))
	if math.IsNaN(scaled) || math.IsInf(scaled, 0) || scaled <= 0 {
		return big.NewInt(0)
	}

	base := new(big.Int).SetInt64(int64(scaled))
	rest := int(decimals) - precision
	if rest > 0 {
		base.Mul(base, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(rest)), nil))
	}
	return base
}

// FromBaseUnits converts base units into a human-readable float using the
// token's decimals.
func FromBaseUnits(value *big.Int, decimals uint8) float64 {
	if value == nil || value.Sign() == 0 {
		return 0
	}
	denom := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	out, _ := new(big.Float).Quo(new(big.Float).SetInt(value), denom).Float64()
	return out
}
