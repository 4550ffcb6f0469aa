package harvest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/harvest/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// RecordType identifies the kind of record on a snapshot line.
type RecordType string

const (
	RecordAsOf     RecordType = "as_of"
	RecordHolding  RecordType = "holding"
	RecordLot      RecordType = "lot"
	RecordTrade    RecordType = "trade"
	RecordRealized RecordType = "realized"
	RecordUniverse RecordType = "universe"
	RecordSector   RecordType = "sector"
)

// Snapshot is the normalized account data an analysis runs on.
type Snapshot struct {
	AsOf     date.Date
	Holdings []Holding
	Lots     []TaxLot
	Trades   []Trade
	Realized []RealizedRow
	Universe []UniverseEntry
	Sectors  SectorMap
	Warnings []Warning
}

// DecodeSnapshot reads a JSONL snapshot, one record per line. Every line
// carries a "record" field naming its type:
//
//	{"record":"as_of","date":"2025-06-30"}
//	{"record":"holding","symbol":"AAPL","quantity":100,"market_value":12000}
//	{"record":"lot","symbol":"AAPL","acquired":"2023-01-10","quantity":100,"cost_basis":15000}
//	{"record":"trade","symbol":"AAPL","date":"2025-06-01","quantity":5,"side":"buy"}
//	{"record":"realized","symbol":"MSFT","sold":"2025-02-03","gain":2500,"term":"ST"}
//	{"record":"universe","symbol":"AAPL","weight":0.07,"sector":"Technology"}
//	{"record":"sector","symbol":"AAPL","sector":"Technology"}
//
// Lines that cannot be parsed are errors. Records that parse but cannot be
// used are dropped with a warning.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	s := Snapshot{Sectors: make(SectorMap)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var identifier struct {
			Record RecordType `json:"record"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return Snapshot{}, fmt.Errorf("line %d: could not identify record in %q: %w", lineno, string(line), err)
		}
		if err := s.decodeRecord(identifier.Record, line); err != nil {
			return Snapshot{}, fmt.Errorf("line %d: %w", lineno, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("cannot read snapshot: %w", err)
	}
	return s, nil
}

func (s *Snapshot) decodeRecord(record RecordType, line []byte) error {
	switch record {
	case RecordAsOf:
		var temp struct {
			Date date.Date `json:"date"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return fmt.Errorf("invalid %s record: %w", record, err)
		}
		s.AsOf = temp.Date
	case RecordHolding:
		var h Holding
		if err := json.Unmarshal(line, &h); err != nil {
			return fmt.Errorf("invalid %s record: %w", record, err)
		}
		h.Symbol = NormalizeSymbol(h.Symbol)
		switch {
		case h.Quantity.IsNegative():
			s.Warnings = append(s.Warnings, warnf(InvalidLot, h.Symbol, "holding with a negative quantity %s dropped", h.Quantity))
		case !h.IsCashEquivalent && !ValidSymbol(h.Symbol):
			s.Warnings = append(s.Warnings, warnf(InvalidLot, h.Symbol, "holding with an invalid symbol dropped"))
		default:
			s.Holdings = append(s.Holdings, h)
		}
	case RecordLot:
		var l TaxLot
		if err := json.Unmarshal(line, &l); err != nil {
			return fmt.Errorf("invalid %s record: %w", record, err)
		}
		s.Lots = append(s.Lots, l)
	case RecordTrade:
		var t Trade
		if err := json.Unmarshal(line, &t); err != nil {
			return fmt.Errorf("invalid %s record: %w", record, err)
		}
		t.Symbol = NormalizeSymbol(t.Symbol)
		if t.Date.IsZero() || t.Side == 0 {
			s.Warnings = append(s.Warnings, warnf(InvalidLot, t.Symbol, "trade without a date or a side dropped"))
			return nil
		}
		s.Trades = append(s.Trades, t)
	case RecordRealized:
		var row RealizedRow
		if err := json.Unmarshal(line, &row); err != nil {
			return fmt.Errorf("invalid %s record: %w", record, err)
		}
		row.Symbol = NormalizeSymbol(row.Symbol)
		s.Realized = append(s.Realized, row)
	case RecordUniverse:
		var u UniverseEntry
		if err := json.Unmarshal(line, &u); err != nil {
			return fmt.Errorf("invalid %s record: %w", record, err)
		}
		s.Universe = append(s.Universe, u)
	case RecordSector:
		var temp struct {
			Symbol string `json:"symbol"`
			Sector string `json:"sector"`
		}
		if err := json.Unmarshal(line, &temp); err != nil {
			return fmt.Errorf("invalid %s record: %w", record, err)
		}
		s.Sectors[NormalizeSymbol(temp.Symbol)] = temp.Sector
	default:
		return fmt.Errorf("unknown record type %q", record)
	}
	return nil
}

// UniverseSectors returns the sectors known from the sector records and the
// universe entries.
func (s Snapshot) UniverseSectors() SectorMap {
	res := make(SectorMap, len(s.Sectors)+len(s.Universe))
	for _, u := range s.Universe {
		if u.Sector != "" {
			res[NormalizeSymbol(u.Symbol)] = u.Sector
		}
	}
	for k, v := range s.Sectors {
		res[k] = v
	}
	return res
}
