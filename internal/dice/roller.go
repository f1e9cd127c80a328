package dice

import "go.uber.org/zap"

// Roller wraps a Die and a logger to provide logged weighted rolling.
// All draws are logged at debug level with the face count and outcomes.
type Roller struct {
	die    *Die
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from die and logs each roll.
//
// Precondition: die and logger must be non-nil.
func NewLoggedRoller(die *Die, logger *zap.Logger) *Roller {
	return &Roller{die: die, logger: logger}
}

// Die returns the wrapped die.
func (r *Roller) Die() *Die {
	return r.die
}

// Roll draws n faces and logs the outcomes at debug level.
//
// Postcondition: outcomes logged; returns the drawn labels or the Die's error.
func (r *Roller) Roll(n int) ([]Label, error) {
	out, err := r.die.Roll(n)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("die roll",
		zap.Int("draws", n),
		zap.Int("faces", len(r.die.faces)),
		zap.Stringers("outcomes", out),
	)
	return out, nil
}
