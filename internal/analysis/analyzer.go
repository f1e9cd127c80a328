// Package analysis computes combinatorial statistics over a game's most
// recent roll table: jackpot counts, per-roll face counts, and frequency
// tables of the face combinations and permutations observed per roll.
package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/probelab/montecarlo/internal/dice"
)

// ErrInvalidSource indicates the Analyzer was constructed without a usable
// roll source.
var ErrInvalidSource = errors.New("invalid roll source")

// ErrMixedLabelKinds indicates a roll spans string and number labels, which
// have no common sort order for combination keys.
var ErrMixedLabelKinds = errors.New("mixed label kinds")

// RollSource is the read-only view of a simulator the Analyzer consumes.
// *game.Game satisfies it.
type RollSource interface {
	// Rolls returns a copy of the result table: one row per roll, one label
	// per die position.
	Rolls() [][]dice.Label
}

// Analyzer computes statistics over a RollSource. It holds a non-owning
// reference and no mutable state of its own: every query re-reads the
// source, so results always reflect the source's most recent play.
type Analyzer struct {
	src RollSource
}

// NewAnalyzer creates an Analyzer over src.
//
// Postcondition: returns ErrInvalidSource when src is nil.
func NewAnalyzer(src RollSource) (*Analyzer, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: source must be non-nil", ErrInvalidSource)
	}
	return &Analyzer{src: src}, nil
}

// JackpotCount returns the number of rolls where every die position shows
// the identical label. A single-die game trivially jackpots every roll;
// dice with disjoint face sets simply never do. A zero-width roll shows no
// label and never jackpots.
func (a *Analyzer) JackpotCount() int {
	count := 0
	for _, roll := range a.src.Rolls() {
		if len(roll) == 0 {
			continue
		}
		jackpot := true
		for _, face := range roll[1:] {
			if face != roll[0] {
				jackpot = false
				break
			}
		}
		if jackpot {
			count++
		}
	}
	return count
}

// RollFaceCount is the per-label tally for one roll. Counts carries an entry
// for every label in the result set's full vocabulary; labels absent from
// the roll have an explicit count of 0.
type RollFaceCount struct {
	RollNumber int
	Counts     map[dice.Label]int
}

// FaceCounts is the per-roll face tally table. Faces is the combined
// vocabulary of every label observed anywhere in the current result set, in
// first-observed order; each row's Counts has exactly these keys.
type FaceCounts struct {
	Faces []dice.Label
	Rows  []RollFaceCount
}

// FaceCountsPerRoll tabulates, for each roll, how many die positions
// produced each label in the combined vocabulary.
//
// Postcondition: for every row, the counts sum to the die count.
func (a *Analyzer) FaceCountsPerRoll() FaceCounts {
	rolls := a.src.Rolls()

	var vocab []dice.Label
	seen := make(map[dice.Label]bool)
	for _, roll := range rolls {
		for _, face := range roll {
			if !seen[face] {
				seen[face] = true
				vocab = append(vocab, face)
			}
		}
	}

	rows := make([]RollFaceCount, len(rolls))
	for i, roll := range rolls {
		counts := make(map[dice.Label]int, len(vocab))
		for _, face := range vocab {
			counts[face] = 0
		}
		for _, face := range roll {
			counts[face]++
		}
		rows[i] = RollFaceCount{RollNumber: i + 1, Counts: counts}
	}
	return FaceCounts{Faces: vocab, Rows: rows}
}

// ComboCount is one row of the combination frequency table: an
// order-independent multiset of faces (in canonical sorted order) and the
// number of rolls that produced it.
type ComboCount struct {
	Faces []dice.Label
	Count int
}

// PermutationCount is one row of the permutation frequency table: an ordered
// tuple of faces exactly as drawn and the number of rolls that produced it.
type PermutationCount struct {
	Faces []dice.Label
	Count int
}

// Combo aggregates rolls by the order-independent multiset of their faces.
// Each roll's labels are sorted by their natural per-kind order before
// keying, so {A,B} and {B,A} land in the same bucket. Rows are ordered by
// count descending, then key ascending.
//
// Postcondition: counts sum to the total roll count. Returns
// ErrMixedLabelKinds when any roll spans string and number labels, since no
// canonical order exists across kinds.
func (a *Analyzer) Combo() ([]ComboCount, error) {
	rolls := a.src.Rolls()

	buckets := make(map[string]*ComboCount)
	for i, roll := range rolls {
		if len(roll) > 0 {
			kind := roll[0].Kind()
			for _, face := range roll[1:] {
				if face.Kind() != kind {
					return nil, fmt.Errorf("%w: roll %d mixes %s and %s labels",
						ErrMixedLabelKinds, i+1, kind, face.Kind())
				}
			}
		}

		sorted := append([]dice.Label(nil), roll...)
		sort.Slice(sorted, func(x, y int) bool { return sorted[x].Less(sorted[y]) })

		key := encodeKey(sorted)
		if b, ok := buckets[key]; ok {
			b.Count++
		} else {
			buckets[key] = &ComboCount{Faces: sorted, Count: 1}
		}
	}

	out := make([]ComboCount, 0, len(buckets))
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, *buckets[k])
	}
	sort.SliceStable(out, func(x, y int) bool { return out[x].Count > out[y].Count })
	return out, nil
}

// Permutation aggregates rolls by the ordered tuple of their faces,
// die-position order preserved. Rolls with identical labels in a different
// order count in separate buckets. Rows are ordered by count descending,
// then key ascending.
//
// Postcondition: counts sum to the total roll count.
func (a *Analyzer) Permutation() []PermutationCount {
	rolls := a.src.Rolls()

	buckets := make(map[string]*PermutationCount)
	for _, roll := range rolls {
		key := encodeKey(roll)
		if b, ok := buckets[key]; ok {
			b.Count++
		} else {
			buckets[key] = &PermutationCount{
				Faces: append([]dice.Label(nil), roll...),
				Count: 1,
			}
		}
	}

	out := make([]PermutationCount, 0, len(buckets))
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, *buckets[k])
	}
	sort.SliceStable(out, func(x, y int) bool { return out[x].Count > out[y].Count })
	return out
}

// encodeKey flattens a label sequence into a grouping key. Each element is
// written as a kind marker, the text's byte length, and the text itself, so
// the encoding is injective whatever bytes a label contains. The kind marker
// keeps the number 2 and the string "2" in distinct buckets.
func encodeKey(faces []dice.Label) string {
	var sb strings.Builder
	for _, f := range faces {
		if f.Kind() == dice.KindString {
			sb.WriteByte('s')
		} else {
			sb.WriteByte('n')
		}
		s := f.String()
		sb.WriteString(strconv.Itoa(len(s)))
		sb.WriteByte(':')
		sb.WriteString(s)
	}
	return sb.String()
}
