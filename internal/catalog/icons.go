package catalog

import "strings"

// iconRoot is the asset path prefix served by the frontend.
const iconRoot = "/icons/"

// defaultIcon is the final fallback when nothing matches.
const defaultIcon = iconRoot + "world.svg"

// keywordIcons maps title substrings to icon assets, checked in order so
// company and crypto mentions win over category fallbacks.
var keywordIcons = []struct {
	keywords []string
	icon     string
}{
	{[]string{"apple", "aapl"}, "apple.svg"},
	{[]string{"google", "googl", "alphabet"}, "google.svg"},
	{[]string{"tesla", "tsla"}, "tesla.svg"},
	{[]string{"microsoft", "msft"}, "microsoft.svg"},
	{[]string{"amazon", "amzn"}, "amazon.svg"},
	{[]string{"meta", "facebook"}, "meta.svg"},
	{[]string{"netflix", "nflx"}, "netflix.svg"},
	{[]string{"nvidia", "nvda"}, "nvidia.svg"},
	{[]string{"trump", "donald"}, "trump.svg"},
	{[]string{"biden"}, "biden.svg"},
	{[]string{"bitcoin", "btc"}, "bitcoin.svg"},
	{[]string{"ethereum", "eth"}, "ethereum.svg"},
}

// categoryIcons is the fallback mapping from tags to icon assets.
var categoryIcons = []struct {
	tags []string
	icon string
}{
	{[]string{"crypto", "cryptocurrency"}, "bitcoin.svg"},
	{[]string{"politics", "political"}, "politics.svg"},
	{[]string{"sports", "sport"}, "sports.svg"},
	{[]string{"tech", "technology"}, "tech.svg"},
	{[]string{"economy", "economic"}, "economy.svg"},
	{[]string{"elections", "election"}, "elections.svg"},
	{[]string{"world", "global"}, "world.svg"},
	{[]string{"earnings", "financial"}, "earnings.svg"},
	{[]string{"geopolitics", "geopolitical"}, "geopolitics.svg"},
}

// CategoryIcon resolves a display icon from a market's title and tags: title
// keywords first, then category fallbacks, then the default globe.
func CategoryIcon(categories []string, title string) string {
	titleLower := strings.ToLower(title)
	for _, k := range keywordIcons {
		for _, kw := range k.keywords {
			if strings.Contains(titleLower, kw) {
				return iconRoot + k.icon
			}
		}
	}

	tagSet := make(map[string]bool, len(categories))
	for _, c := range categories {
		tagSet[strings.ToLower(c)] = true
	}
	for _, ci := range categoryIcons {
		for _, t := range ci.tags {
			if tagSet[t] {
				return iconRoot + ci.icon
			}
		}
	}

	return defaultIcon
}

// PrimaryIcon returns the PNG variant of a market icon name, tried first.
// Accepts bare names and full icon paths.
func PrimaryIcon(iconName string) string {
	name := strings.TrimPrefix(iconName, iconRoot)
	return iconRoot + strings.TrimSuffix(name, ".svg") + ".png"
}

// FallbackIcon returns the SVG variant tried when the PNG is unavailable.
func FallbackIcon(iconName string) string {
	name := strings.TrimPrefix(iconName, iconRoot)
	return iconRoot + strings.TrimSuffix(strings.TrimSuffix(name, ".png"), ".svg") + ".svg"
}
