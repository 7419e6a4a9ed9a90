// Package pattern aggregates a user's stored signals into longitudinal views.
//
// Everything here is deterministic and rule-based:
//   - PatternSnapshot: 14-day mean intensity, volatility, dominant themes and
//     a coarse baseline, memoized per user for five minutes
//   - UserPhase: an internal read of the last ten signals that only selects
//     copy and tone, never shown verbatim
//   - UserState: narrative hints for the reply composer
//   - Insights: up to three gentle pattern cards
//
// Signal slices passed to this package are ordered newest first.
package pattern
