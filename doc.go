// Package harvest is a tax-lot decision engine for a taxable brokerage account.
//
// It reads a point-in-time snapshot of the account (holdings, tax lots, recent
// trades and realized gains) and answers a few concrete questions:
//   - Health: are the lots consistent with the holdings? Blocking issues must
//     be fixed or acknowledged before any recommendation is produced.
//   - Tax-loss harvesting: which lots carry losses worth realizing, ranked
//     short-term first, and how many are needed to offset this year's gains.
//   - Minimum-tax selling: which lots to sell to raise a cash amount with the
//     least tax, used by withdrawals and by transitions to a target basket.
//   - Direct indexing: build a capped target basket from an index universe and
//     measure the account's drift against it.
//
// The engine is deterministic and stateless. An Analysis binds a Snapshot to a
// Config for one request; every plan it returns is a proposal and nothing is
// ever executed.
//
// Amounts are exact decimals. Dates are calendar days without time zone.
package harvest
