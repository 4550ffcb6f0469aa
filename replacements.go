package harvest

import (
	"slices"
	"strings"
)

// ReplacementDisclaimer is attached to every replacement suggestion.
const ReplacementDisclaimer = "Replacement symbols are placeholders chosen by sector only. " +
	"No suitability, liquidity or substantially-identical analysis was performed."

// maxReplacements is the number of symbols suggested for a harvested symbol.
const maxReplacements = 3

var sectorProxies = map[string][]string{
	"technology":             {"XLK", "VGT", "QQQ"},
	"financials":             {"XLF", "VFH", "KBE"},
	"healthcare":             {"XLV", "VHT", "IHE"},
	"consumer_discretionary": {"XLY", "VCR", "FDIS"},
	"industrials":            {"XLI", "VIS", "IYJ"},
}

var genericProxies = []string{"SPY", "VTI", "SCHB", "IVV"}

// ReplacementBasis tells how replacement symbols were found.
type ReplacementBasis int

const (
	// SectorPeers are other symbols of the same sector in the sector map.
	SectorPeers ReplacementBasis = iota + 1
	// SectorProxy are ETFs tracking the sector.
	SectorProxy
	// Generic are broad market ETFs.
	Generic
)

func (b ReplacementBasis) String() string {
	switch b {
	case SectorPeers:
		return "sector_peers"
	case SectorProxy:
		return "sector_proxy"
	case Generic:
		return "generic"
	default:
		return "unknown"
	}
}

func (b ReplacementBasis) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// Replacements are the symbols suggested to keep the market exposure of a
// harvested symbol.
type Replacements struct {
	Symbol     string           `json:"symbol"`
	Sector     string           `json:"sector,omitempty"`
	Symbols    []string         `json:"symbols"`
	Basis      ReplacementBasis `json:"basis"`
	Disclaimer string           `json:"disclaimer"`
}

func normalizeSector(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
}

// SuggestReplacements returns up to three symbols to buy back after selling
// symbol: peers of the same sector, else sector ETFs, else broad market ETFs.
func SuggestReplacements(symbol string, sectors SectorMap) Replacements {
	symbol = NormalizeSymbol(symbol)
	res := Replacements{Symbol: symbol, Disclaimer: ReplacementDisclaimer}

	if sector, ok := sectors.Lookup(symbol); ok {
		res.Sector = sector
		var peers []string
		for s, sec := range sectors {
			s = NormalizeSymbol(s)
			if s != symbol && normalizeSector(sec) == normalizeSector(sector) {
				peers = append(peers, s)
			}
		}
		slices.Sort(peers)
		peers = slices.Compact(peers)
		if len(peers) > 0 {
			res.Symbols = firstN(peers, symbol)
			res.Basis = SectorPeers
			return res
		}
		if proxies, ok := sectorProxies[normalizeSector(sector)]; ok {
			if symbols := firstN(proxies, symbol); len(symbols) > 0 {
				res.Symbols = symbols
				res.Basis = SectorProxy
				return res
			}
		}
	}
	res.Symbols = firstN(genericProxies, symbol)
	res.Basis = Generic
	return res
}

// firstN returns the first maxReplacements symbols that are not symbol.
func firstN(symbols []string, symbol string) []string {
	res := make([]string, 0, maxReplacements)
	for _, s := range symbols {
		if s == symbol {
			continue
		}
		res = append(res, s)
		if len(res) == maxReplacements {
			break
		}
	}
	return res
}
