package catalog

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/aryanbaranwal001/multiverse-finance/internal/domain"
)

//go:embed markets.toml
var seedTOML []byte

// seedMarket mirrors domain.Market for decoding, with the probability as a
// pointer so an omitted value can be told apart from an explicit zero.
type seedMarket struct {
	ID             string   `toml:"id"`
	Title          string   `toml:"title"`
	Description    string   `toml:"description"`
	Volume         float64  `toml:"volume"`
	Categories     []string `toml:"categories"`
	IconName       string   `toml:"icon_name"`
	YesPercentage  *int     `toml:"yes_percentage"`
	ResolutionDate string   `toml:"resolution_date"`
}

type seedFile struct {
	Categories []string     `toml:"categories"`
	Markets    []seedMarket `toml:"markets"`
}

// LoadSeed decodes the embedded market seed and builds the catalog from it.
func LoadSeed() (*Catalog, error) {
	return loadSeed(seedTOML)
}

func loadSeed(data []byte) (*Catalog, error) {
	var f seedFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: decode seed: %w", err)
	}
	if len(f.Markets) == 0 {
		return nil, fmt.Errorf("catalog: seed contains no markets")
	}

	markets := make([]domain.Market, 0, len(f.Markets))
	for _, sm := range f.Markets {
		yes := domain.DefaultYesPercentage
		if sm.YesPercentage != nil {
			yes = *sm.YesPercentage
		}
		markets = append(markets, domain.Market{
			ID:             sm.ID,
			Title:          sm.Title,
			Description:    sm.Description,
			Volume:         sm.Volume,
			Categories:     sm.Categories,
			IconName:       sm.IconName,
			YesPercentage:  yes,
			ResolutionDate: sm.ResolutionDate,
		})
	}

	return New(markets, f.Categories)
}
