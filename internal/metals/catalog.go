package metals

import (
	"fmt"
	"log/slog"
	"strings"
)

// catalog is kept unexported and only handed out as copies.
var catalog = [...]Metal{
	{Symbol: "Al", Name: "aluminium"},
	{Symbol: "Cu", Name: "copper"},
	{Symbol: "Pb", Name: "lead"},
	{Symbol: "Ni", Name: "nickel"},
	{Symbol: "Zn", Name: "zink"},
	{Symbol: "Sn", Name: "tin"},
}

// All returns every tracked metal in processing order
func All() []Metal {
	out := make([]Metal, len(catalog))
	copy(out, catalog[:])
	return out
}

// BySymbol returns a metal by its LME symbol. Matching ignores case.
func BySymbol(symbol string) (Metal, error) {
	symbol = strings.TrimSpace(symbol)
	for _, m := range catalog {
		if strings.EqualFold(m.Symbol, symbol) {
			return m, nil
		}
	}
	return Metal{}, fmt.Errorf("metal not found: %s", symbol)
}

// ForSymbols returns the metals for a list of symbols, keeping catalog order.
// Unknown symbols are logged and skipped. An empty list selects everything.
func ForSymbols(symbols []string) []Metal {
	if len(symbols) == 0 {
		return All()
	}

	wanted := make(map[string]bool, len(symbols))
	for _, symbol := range symbols {
		if strings.TrimSpace(symbol) == "" {
			continue
		}
		m, err := BySymbol(symbol)
		if err != nil {
			slog.Warn("skipping unknown symbol", "symbol", symbol)
			continue
		}
		wanted[m.Symbol] = true
	}

	var out []Metal
	for _, m := range catalog {
		if wanted[m.Symbol] {
			out = append(out, m)
		}
	}
	return out
}
