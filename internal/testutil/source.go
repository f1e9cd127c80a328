// Package testutil provides test helpers for scripting the randomness
// consumed by dice rolls.
package testutil

import "testing"

// ScriptedSource replays a fixed sequence of values as uniform draws, so a
// test can force exact roll outcomes.
type ScriptedSource struct {
	t      *testing.T
	values []float64
	next   int
}

// NewScriptedSource returns a Source-compatible generator that yields the
// given values in order and fails the test if a roll consumes more draws
// than were scripted.
func NewScriptedSource(t *testing.T, values ...float64) *ScriptedSource {
	t.Helper()
	return &ScriptedSource{t: t, values: values}
}

// Float64 returns the next scripted value.
func (s *ScriptedSource) Float64() float64 {
	if s.next >= len(s.values) {
		s.t.Fatalf("scripted source exhausted after %d draws", len(s.values))
	}
	v := s.values[s.next]
	s.next++
	return v
}

// FaceValue returns a draw value that selects the face at index i of a die
// with n equally weighted faces: the midpoint of face i's cumulative
// interval.
func FaceValue(i, n int) float64 {
	return (float64(i) + 0.5) / float64(n)
}
