// Package sampler turns the two projective-outcome weights of a
// measurement into discrete outcomes. A Sampler is a long-lived stateful
// object: its random-number generator advances on every call, so one
// instance may be shared deliberately between several measurement gates
// to model a correlated readout chain, as long as calls stay serialized.
package sampler

import (
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"
)

// DefaultSeed is used when a sampler has to be synthesized as a fallback
// for a call site that did not provide one.
const DefaultSeed int64 = 42

// Sampler resolves a pair of unnormalized projective-outcome weights
// (p0, p1) into:
//   - projected: the branch the density matrix is collapsed onto,
//   - declared: the outcome reported to classical logic, which may
//     differ from projected under readout error,
//   - prob: the probability weight of this replay path, multiplied into
//     the state's classical probability by the caller.
type Sampler interface {
	Sample(p0, p1 float64) (projected, declared int, prob float64)
}

// Selection ignores the weights and always returns a fixed outcome.
// Used to force a branch in tests and post-selection studies.
type Selection struct {
	result int
}

func NewSelection(result int) *Selection {
	return &Selection{result: result}
}

func (s *Selection) Sample(p0, p1 float64) (int, int, float64) {
	return s.result, s.result, 1
}

// Uniform draws the projected branch following the Born rule and
// declares it faithfully. The returned weight is always one, so the
// backend keeps carrying physically-weighted, un-renormalized traces.
type Uniform struct {
	rng *rand.Rand
}

func NewUniform(seed int64) *Uniform {
	return &Uniform{rng: rand.New(rand.NewSource(seed))}
}

func (u *Uniform) Sample(p0, p1 float64) (int, int, float64) {
	projected := 0
	if u.rng.Float64() < p1/(p0+p1) {
		projected = 1
	}
	return projected, projected, 1
}

// UniformNoisy draws the projected branch following the Born rule, then
// flips the declared outcome with probability readoutError. The path
// weight is the probability of the declaration channel outcome:
// readoutError when flipped, 1-readoutError otherwise. It never depends
// on which branch was projected.
type UniformNoisy struct {
	rng          *rand.Rand
	readoutError float64
}

func NewUniformNoisy(readoutError float64, seed int64) *UniformNoisy {
	return &UniformNoisy{
		rng:          rand.New(rand.NewSource(seed)),
		readoutError: readoutError,
	}
}

func (u *UniformNoisy) Sample(p0, p1 float64) (int, int, float64) {
	projected := 0
	if u.rng.Float64() < p1/(p0+p1) {
		projected = 1
	}
	declared := projected
	prob := 1 - u.readoutError
	if u.rng.Float64() < u.readoutError {
		declared = 1 - projected
		prob = u.readoutError
	}
	return projected, declared, prob
}

// Biased behaves like UniformNoisy but draws the declaration flip
// against a threshold pTwiddle derived once at construction from the
// readout error and the bias exponent alpha. alpha=1 reduces exactly to
// UniformNoisy.
type Biased struct {
	rng          *rand.Rand
	readoutError float64
	alpha        float64
	pTwiddle     float64
}

func NewBiased(readoutError, alpha float64, seed int64) *Biased {
	if readoutError <= 0 || readoutError >= 0.5 {
		zap.L().Warn(fmt.Sprintf(
			"readout error %g is outside (0, 0.5); the biased readout model is not well defined there",
			readoutError))
	}
	ea := math.Pow(readoutError, alpha)
	pTwiddle := ea / (ea + math.Pow(1-readoutError, alpha))
	return &Biased{
		rng:          rand.New(rand.NewSource(seed)),
		readoutError: readoutError,
		alpha:        alpha,
		pTwiddle:     pTwiddle,
	}
}

func (b *Biased) PTwiddle() float64 {
	return b.pTwiddle
}

func (b *Biased) Sample(p0, p1 float64) (int, int, float64) {
	projected := 0
	if b.rng.Float64() < p1/(p0+p1) {
		projected = 1
	}
	declared := projected
	prob := 1 - b.pTwiddle
	if b.rng.Float64() < b.pTwiddle {
		declared = 1 - projected
		prob = b.pTwiddle
	}
	return projected, declared, prob
}
