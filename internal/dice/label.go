// Package dice provides weighted dice with distinct string or numeric face
// labels and the randomness abstraction used to roll them.
package dice

import "strconv"

// Kind identifies which value a Label carries.
type Kind int

const (
	// KindNumber labels order numerically.
	KindNumber Kind = iota
	// KindString labels order lexicographically.
	KindString
)

// String returns the kind name for error messages and logs.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Label is one distinct face value a die can produce: either a string or a
// number, fixed at construction. Labels are comparable and may be used as
// map keys.
type Label struct {
	kind Kind
	str  string
	num  float64
}

// NumberLabel returns a numeric face label.
func NumberLabel(n float64) Label {
	return Label{kind: KindNumber, num: n}
}

// StringLabel returns a string face label.
func StringLabel(s string) Label {
	return Label{kind: KindString, str: s}
}

// Kind returns the label's kind.
func (l Label) Kind() Kind {
	return l.kind
}

// Number returns the numeric value.
//
// Precondition: l.Kind() == KindNumber.
func (l Label) Number() float64 {
	if l.kind != KindNumber {
		panic("dice: Number called on a " + l.kind.String() + " label")
	}
	return l.num
}

// String returns the label's display form. Numeric labels use the shortest
// representation that round-trips ("2", not "2.000000").
func (l Label) String() string {
	if l.kind == KindNumber {
		return strconv.FormatFloat(l.num, 'g', -1, 64)
	}
	return l.str
}

// Less reports whether l orders before other under the label's natural
// order: numeric for numbers, lexicographic for strings.
//
// Precondition: l.Kind() == other.Kind(). Panics on mixed kinds; callers
// ordering labels from multiple dice must check kinds first.
func (l Label) Less(other Label) bool {
	if l.kind != other.kind {
		panic("dice: Less called across label kinds (" + l.kind.String() + " vs " + other.kind.String() + ")")
	}
	if l.kind == KindNumber {
		return l.num < other.num
	}
	return l.str < other.str
}
