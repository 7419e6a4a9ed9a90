// Package bucket picks the communication bucket for a turn: the purpose of
// the reply (venting, reassurance, decision making, ...) within what the
// user's chosen mode allows.
//
// Classification is a keyword-rule score over the latest user message.
// Crisis language short-circuits to the Crisis bucket regardless of mode.
package bucket
