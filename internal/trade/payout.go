package trade

import "github.com/aryanbaranwal001/multiverse-finance/internal/domain"

// ProjectedProfit estimates the display-only profit of buying usdAmount of a
// side: the stake pays out at 100/pricePercent, where pricePercent is the
// yes probability for the yes side and its complement for the no side. This
// is an estimate shown next to the buy button, not a settlement guarantee.
func ProjectedProfit(usdAmount float64, yesPercentage int, side domain.Side) float64 {
	pct := yesPercentage
	if side == domain.SideNo {
		pct = 100 - yesPercentage
	}
	if pct <= 0 {
		return 0
	}
	return usdAmount*(100/float64(pct)) - usdAmount
}
