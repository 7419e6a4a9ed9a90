// Package reflection decides, at most once per chat session, whether to
// surface a short reflective observation about a recurring pattern in the
// user's recent signals.
//
// Two kinds of state are involved and they are kept apart:
//
//   - Session: Idle, Fired or Suppressed, plus the index of the last fire
//     attempt. Process-local, reset by starting a new session.
//   - Throttle: the cross-session cooldown stamp and the same-day
//     "suppress today" flag, keyed by client. Losing it degrades to
//     "never suppressed".
//
// Evaluate never returns an error. Any failure while reading signals or the
// throttle closes the gate and is logged.
package reflection
