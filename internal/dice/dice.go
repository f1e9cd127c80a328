package dice

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidArgument indicates malformed input: duplicate or mixed-kind
// faces, an empty face set, a non-finite or negative weight, or a
// non-positive draw count.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrUnknownFace indicates a weight change for a label the die does not have.
var ErrUnknownFace = errors.New("unknown face")

// FaceWeight is one (label, weight) pair from a die snapshot.
type FaceWeight struct {
	Face   Label
	Weight float64
}

// Die is a weighted die with a fixed set of distinct faces. Weights are
// relative likelihoods: they need not sum to 1 and have no upper bound.
//
// A Die is not safe for concurrent use; weight mutation and draws must be
// serialized by the caller.
type Die struct {
	faces   []Label
	weights map[Label]float64
	src     Source

	// cum is the cumulative weight table, rebuilt lazily after SetWeight.
	cum   []float64
	total float64
	dirty bool
}

// NewDie creates a die from an ordered set of distinct faces, every face
// starting at weight 1.0. The face set is fixed for the die's lifetime.
// A nil src defaults to the crypto source.
//
// Postcondition: returns ErrInvalidArgument when faces is empty, contains
// duplicates, mixes string and number labels, or contains a non-finite
// number label. NaN labels never compare equal to themselves, so such a
// face could not be addressed by SetWeight or counted by an analyzer.
func NewDie(faces []Label, src Source) (*Die, error) {
	if len(faces) == 0 {
		return nil, fmt.Errorf("%w: die must have at least one face", ErrInvalidArgument)
	}
	if src == nil {
		src = NewCryptoSource()
	}

	kind := faces[0].Kind()
	weights := make(map[Label]float64, len(faces))
	for i, f := range faces {
		if f.Kind() != kind {
			return nil, fmt.Errorf("%w: face %q is a %s label but face %q is a %s label",
				ErrInvalidArgument, f, f.Kind(), faces[0], kind)
		}
		if f.Kind() == KindNumber {
			if v := f.Number(); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: face at position %d must be a finite number, got %v",
					ErrInvalidArgument, i, v)
			}
		}
		if _, dup := weights[f]; dup {
			return nil, fmt.Errorf("%w: duplicate face %q at position %d", ErrInvalidArgument, f, i)
		}
		weights[f] = 1.0
	}

	d := &Die{
		faces:   append([]Label(nil), faces...),
		weights: weights,
		src:     src,
		dirty:   true,
	}
	return d, nil
}

// Faces returns a copy of the die's face labels in construction order.
func (d *Die) Faces() []Label {
	return append([]Label(nil), d.faces...)
}

// SetWeight overwrites one face's weight; all other weights are unchanged.
// A weight of exactly 0 is permitted and makes the face unreachable.
//
// Postcondition: returns ErrUnknownFace when face is not on the die, or
// ErrInvalidArgument when weight is negative, NaN, or infinite. On error no
// weight is modified.
func (d *Die) SetWeight(face Label, weight float64) error {
	if _, ok := d.weights[face]; !ok {
		return fmt.Errorf("%w: %q is not a face of this die", ErrUnknownFace, face)
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return fmt.Errorf("%w: weight must be a finite non-negative number, got %v", ErrInvalidArgument, weight)
	}
	d.weights[face] = weight
	d.dirty = true
	return nil
}

// Roll draws n faces independently with replacement. Each draw's probability
// is the face's weight divided by the total weight as of this call, so
// SetWeight calls between rolls take effect immediately.
//
// Postcondition: returns a slice of length n, or ErrInvalidArgument when
// n < 1 or when every weight is zero (no face is drawable). Does not mutate
// die state other than consuming draws from the Source.
func (d *Die) Roll(n int) ([]Label, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: draw count must be >= 1, got %d", ErrInvalidArgument, n)
	}
	if d.dirty {
		d.rebuild()
	}
	if d.total <= 0 {
		return nil, fmt.Errorf("%w: die has no drawable face (all weights are zero)", ErrInvalidArgument)
	}

	out := make([]Label, n)
	for i := range out {
		out[i] = d.draw()
	}
	return out, nil
}

// Snapshot returns a read-only copy of (face, weight) pairs in construction
// order. Mutating the returned slice does not affect the die.
func (d *Die) Snapshot() []FaceWeight {
	out := make([]FaceWeight, len(d.faces))
	for i, f := range d.faces {
		out[i] = FaceWeight{Face: f, Weight: d.weights[f]}
	}
	return out
}

// rebuild recomputes the cumulative weight table.
func (d *Die) rebuild() {
	if cap(d.cum) < len(d.faces) {
		d.cum = make([]float64, len(d.faces))
	}
	d.cum = d.cum[:len(d.faces)]
	total := 0.0
	for i, f := range d.faces {
		total += d.weights[f]
		d.cum[i] = total
	}
	d.total = total
	d.dirty = false
}

// draw maps one uniform value in [0, total) to the face whose cumulative
// interval contains it. The strict > comparison skips zero-weight faces,
// whose interval is empty.
func (d *Die) draw() Label {
	r := d.src.Float64() * d.total
	i := sort.Search(len(d.cum), func(i int) bool { return d.cum[i] > r })
	if i == len(d.cum) {
		// Only reachable through floating-point edge cases; the last face
		// with nonzero weight owns the top of the range.
		i--
		for i > 0 && d.weights[d.faces[i]] == 0 {
			i--
		}
	}
	return d.faces[i]
}
