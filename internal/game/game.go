// Package game runs repeated simultaneous rolls of a set of weighted dice
// and stores the outcome table of the most recent play.
package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/probelab/montecarlo/internal/dice"
)

// Form selects the shape of a result table.
type Form string

const (
	// FormWide is one row per roll number, one face column per die position.
	FormWide Form = "wide"
	// FormNarrow is one row per (roll number, die position) pair.
	FormNarrow Form = "narrow"
)

// WideRow is one roll in wide form: the faces drawn, one per die, in die order.
type WideRow struct {
	RollNumber int
	Faces      []dice.Label
}

// NarrowRow is one (roll, die) cell in narrow form. RollNumber and DieNumber
// are 1-based.
type NarrowRow struct {
	RollNumber int
	DieNumber  int
	Outcome    dice.Label
}

// ResultSet is a copy of the most recent play in one of the two forms. Only
// the field matching Form is populated.
type ResultSet struct {
	Form   Form
	Wide   []WideRow
	Narrow []NarrowRow
}

// Game owns an ordered collection of dice and the result table of its most
// recent play. Face sets need not match across dice.
//
// A Game is not safe for concurrent use; Play must not run concurrently with
// itself or with result reads.
type Game struct {
	dice   []*dice.Die
	logger *zap.Logger

	playID string
	rolls  [][]dice.Label
}

// NewGame creates a game over the given dice. Die index is its position in
// the slice. A nil logger disables play logging.
//
// Postcondition: returns ErrInvalidArgument when no dice are given.
func NewGame(d []*dice.Die, logger *zap.Logger) (*Game, error) {
	if len(d) == 0 {
		return nil, fmt.Errorf("%w: game requires at least one die", dice.ErrInvalidArgument)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Game{
		dice:   append([]*dice.Die(nil), d...),
		logger: logger,
	}, nil
}

// DieCount returns the number of dice in the game.
func (g *Game) DieCount() int {
	return len(g.dice)
}

// PlayID returns the UUID assigned to the most recent successful play, or
// the empty string before the first play.
func (g *Game) PlayID() string {
	return g.playID
}

// Play rolls every die once per round for nRolls rounds, in die order, and
// replaces the previous result table. Replacement is atomic: on any error
// the prior result (and play ID) is left untouched.
//
// Postcondition: returns ErrInvalidArgument when nRolls < 1, or a wrapped
// die error naming the failing roll and die.
func (g *Game) Play(nRolls int) error {
	if nRolls < 1 {
		return fmt.Errorf("%w: roll count must be >= 1, got %d", dice.ErrInvalidArgument, nRolls)
	}

	start := time.Now()
	rolls := make([][]dice.Label, nRolls)
	for round := 0; round < nRolls; round++ {
		row := make([]dice.Label, len(g.dice))
		for i, d := range g.dice {
			outcome, err := d.Roll(1)
			if err != nil {
				return fmt.Errorf("roll %d die %d: %w", round+1, i+1, err)
			}
			row[i] = outcome[0]
		}
		rolls[round] = row
	}

	g.rolls = rolls
	g.playID = uuid.NewString()
	g.logger.Info("play complete",
		zap.String("play_id", g.playID),
		zap.Int("rolls", nRolls),
		zap.Int("dice", len(g.dice)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Rolls returns a deep copy of the raw result table: one row per roll, one
// label per die position. Nil before the first play.
func (g *Game) Rolls() [][]dice.Label {
	if g.rolls == nil {
		return nil
	}
	out := make([][]dice.Label, len(g.rolls))
	for i, row := range g.rolls {
		out[i] = append([]dice.Label(nil), row...)
	}
	return out
}

// Results returns a copy of the most recent play in the requested form.
// Roll numbers are 1-based sequential in play order; die numbers are 1-based
// positions.
//
// Postcondition: returns ErrInvalidArgument for any form other than
// FormWide or FormNarrow. The returned set is never a live view.
func (g *Game) Results(form Form) (*ResultSet, error) {
	switch form {
	case FormWide:
		wide := make([]WideRow, len(g.rolls))
		for i, row := range g.rolls {
			wide[i] = WideRow{
				RollNumber: i + 1,
				Faces:      append([]dice.Label(nil), row...),
			}
		}
		return &ResultSet{Form: FormWide, Wide: wide}, nil
	case FormNarrow:
		narrow := make([]NarrowRow, 0, len(g.rolls)*len(g.dice))
		for i, row := range g.rolls {
			for j, face := range row {
				narrow = append(narrow, NarrowRow{
					RollNumber: i + 1,
					DieNumber:  j + 1,
					Outcome:    face,
				})
			}
		}
		return &ResultSet{Form: FormNarrow, Narrow: narrow}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported results form %q (want %q or %q)",
			dice.ErrInvalidArgument, form, FormWide, FormNarrow)
	}
}
