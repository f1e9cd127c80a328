package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// Source is the randomness provider for weighted draws.
//
// Implementations are not required to be safe for concurrent use; callers
// sharing a Source across goroutines must serialize access.
type Source interface {
	// Float64 returns a uniformly distributed value in [0, 1).
	Float64() float64
}

// seededSource implements Source with a deterministic math/rand generator.
type seededSource struct {
	rng *rand.Rand
}

// NewSeededSource returns a Source producing a deterministic stream for the
// given seed. Intended for tests and reproducible simulations; streams are
// not guaranteed stable across Go releases or platforms.
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *seededSource) Float64() float64 {
	return s.rng.Float64()
}

// cryptoSource implements Source using crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: every value returned by Float64 is in [0, 1).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Float64 returns a cryptographically secure value in [0, 1).
//
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Float64() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	// 53 bits of mantissa, same construction as math/rand.Float64.
	v := binary.LittleEndian.Uint64(b[:]) >> 11
	return float64(v) / (1 << 53)
}
