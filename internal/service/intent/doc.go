// Package intent classifies the latest user message of a turn.
//
// Classification is a fixed, ordered table of (label, predicate) rules where
// the first match wins. Receptivity is an independent gate: short or
// deflecting messages never open a reflective interjection. The package also
// owns the crisis-language list every other component consults.
package intent
