package domain

import "strings"

// Market is a single prediction question. Markets are loaded once at startup
// from the embedded seed and are immutable afterwards; the only per-user
// mutable bit (the bookmark flag) lives in the preference layer, not here.
type Market struct {
	ID             string   `json:"id" toml:"id"`
	Title          string   `json:"title" toml:"title"`
	Slug           string   `json:"slug" toml:"-"`
	Description    string   `json:"description" toml:"description"`
	Volume         float64  `json:"volume" toml:"volume"`
	Categories     []string `json:"categories" toml:"categories"`
	IconName       string   `json:"icon_name" toml:"icon_name"`
	YesPercentage  int      `json:"yes_percentage" toml:"yes_percentage"`
	ResolutionDate string   `json:"resolution_date,omitempty" toml:"resolution_date"`
}

// DefaultYesPercentage is applied at seed-load time when a market omits its
// probability.
const DefaultYesPercentage = 50

// HasCategory reports whether the market carries the given tag,
// case-insensitively.
func (m Market) HasCategory(category string) bool {
	for _, c := range m.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// PricePercent returns the display price driver for a side, in whole percent.
// Yes uses the market's yes probability, No uses its complement.
func (m Market) PricePercent(side Side) int {
	if side == SideNo {
		return 100 - m.YesPercentage
	}
	return m.YesPercentage
}
