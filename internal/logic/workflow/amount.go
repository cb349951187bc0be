package workflow

import (
	"math"

	"token-launchpad-sol/internal/logic/domain"
)

// u64 上限 + 1
const maxBaseUnits = 1 << 64

// ToBaseUnits 展示数量换算为最小单位：round(display * 10^decimals)
func ToBaseUnits(display float64, decimals uint8) (uint64, error) {
	if math.IsNaN(display) || math.IsInf(display, 0) || display <= 0 {
		return 0, domain.Validationf("please enter a valid amount")
	}
	scaled := math.Round(display * math.Pow10(int(decimals)))
	if scaled >= maxBaseUnits || math.IsInf(scaled, 0) {
		return 0, domain.Validationf("amount is too large")
	}
	if scaled < 1 {
		return 0, domain.Validationf("amount is smaller than the token precision")
	}
	return uint64(scaled), nil
}
