package harvest

import (
	"fmt"

	"github.com/etnz/harvest/date"
)

// Analysis is a request scoped session over a snapshot. It holds the data
// health report and the issues acknowledged by the user, and gates every
// workflow until the blocking issues are acknowledged.
//
// An Analysis is not safe for concurrent use, create one per request.
type Analysis struct {
	cfg      Config
	asOf     date.Date
	holdings []Holding
	lots     []TaxLot
	trades   []Trade
	prices   Prices
	universe []UniverseEntry
	sectors  SectorMap
	summary  RealizedSummary
	health   HealthReport
	warnings []Warning
	acks     Acknowledgements
}

// NewAnalysis validates the configuration, normalizes the snapshot and runs
// the data health validation. A zero asOf defaults to the snapshot date.
func NewAnalysis(s Snapshot, cfg Config, asOf date.Date) (*Analysis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		asOf = s.AsOf
	}
	if asOf.IsZero() {
		return nil, configErrorf("as_of", "a date is required")
	}
	a := &Analysis{
		cfg:      cfg,
		asOf:     asOf,
		holdings: cfg.Cash.Annotate(s.Holdings),
		trades:   s.Trades,
		universe: s.Universe,
		sectors:  s.UniverseSectors(),
		summary:  SummarizeRealized(s.Realized),
	}
	a.warnings = append(a.warnings, s.Warnings...)
	lots, warnings := ResolveLots(s.Lots)
	a.lots = lots
	a.warnings = append(a.warnings, warnings...)
	a.prices = PricesFromHoldings(a.holdings)
	a.health = ValidateHealth(a.holdings, s.Lots, cfg.Health, cfg.Cash)
	return a, nil
}

func (a *Analysis) AsOf() date.Date                { return a.asOf }
func (a *Analysis) Config() Config                 { return a.cfg }
func (a *Analysis) Holdings() []Holding            { return a.holdings }
func (a *Analysis) Lots() []TaxLot                 { return a.lots }
func (a *Analysis) Health() HealthReport           { return a.health }
func (a *Analysis) Summary() RealizedSummary       { return a.summary }
func (a *Analysis) Sectors() SectorMap             { return a.sectors }
func (a *Analysis) Universe() []UniverseEntry      { return a.universe }
func (a *Analysis) Warnings() []Warning            { return a.warnings }
func (a *Analysis) Prices() Prices                 { return a.prices }
func (a *Analysis) Acknowledged() Acknowledgements { return a.acks }

// Acknowledge accepts a health issue for the rest of the session.
func (a *Analysis) Acknowledge(symbol string, kind IssueKind) {
	a.acks.Acknowledge(symbol, kind)
}

// AcknowledgeAll accepts every health issue found.
func (a *Analysis) AcknowledgeAll() {
	for _, issue := range a.health.Issues {
		a.acks.Acknowledge(issue.Symbol, issue.Kind)
	}
}

// AcknowledgeSpecs acknowledges "SYMBOL:kind" specs, "*" acknowledges every issue.
func (a *Analysis) AcknowledgeSpecs(specs ...string) error {
	for _, spec := range specs {
		if spec == "*" {
			a.AcknowledgeAll()
			continue
		}
		symbol, kind, err := ParseAcknowledgement(spec)
		if err != nil {
			return err
		}
		a.Acknowledge(symbol, kind)
	}
	return nil
}

// Gate returns a *BlockedError while blocking issues are pending.
func (a *Analysis) Gate() error { return a.health.Gate(a.acks) }

// Harvest scores the tax-loss harvesting candidates.
func (a *Analysis) Harvest() (TLHResult, error) {
	if err := a.Gate(); err != nil {
		return TLHResult{}, err
	}
	return ScoreTLHCandidates(TLHRequest{
		Lots:    a.lots,
		Prices:  a.prices,
		Trades:  a.trades,
		Summary: a.summary,
		AsOf:    a.asOf,
	}, a.cfg.TLH)
}

// Propose turns the harvesting candidates into an order checklist.
func (a *Analysis) Propose(res TLHResult) HarvestProposal {
	return BuildHarvestProposal(res.Candidates, a.sectors)
}

// Withdraw plans a withdrawal of amount. Symbols in exclusions are not sold.
func (a *Analysis) Withdraw(amount, manualCash Money, exclusions []string) (WithdrawalPlan, error) {
	if err := a.Gate(); err != nil {
		return WithdrawalPlan{}, err
	}
	return PlanWithdrawal(a.holdings, a.lots, a.summary, WithdrawalRequest{
		Amount:         amount,
		CushionPercent: a.cfg.Withdrawal.CushionPercent,
		ManualCash:     manualCash,
		Exclusions:     exclusions,
		AsOf:           a.asOf,
	}, a.cfg)
}

// Basket builds the target basket from the snapshot universe.
func (a *Analysis) Basket() (Basket, error) {
	if len(a.universe) == 0 {
		return Basket{}, fmt.Errorf("the snapshot has no universe records")
	}
	return BuildTargetBasket(a.universe, a.cfg.Basket)
}

// Transition plans funding allocation into the target basket.
func (a *Analysis) Transition(allocation, manualCash Money, exclusions []string) (TransitionPlan, error) {
	if err := a.Gate(); err != nil {
		return TransitionPlan{}, err
	}
	basket, err := a.Basket()
	if err != nil {
		return TransitionPlan{}, err
	}
	return PlanTransition(a.holdings, a.lots, a.summary, basket, a.prices, TransitionRequest{
		Allocation:         allocation,
		BufferPercent:      a.cfg.Transition.BufferPercent,
		ManualCash:         manualCash,
		UseCashFirst:       a.cfg.Transition.UseCashFirst,
		ExcludeFromSelling: exclusions,
		AsOf:               a.asOf,
	}, a.cfg)
}

// Drift compares the holdings to the target basket.
func (a *Analysis) Drift() (DriftReport, Basket, error) {
	basket, err := a.Basket()
	if err != nil {
		return DriftReport{}, Basket{}, err
	}
	return ComputeDrift(a.holdings, basket.Entries), basket, nil
}
