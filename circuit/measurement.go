package circuit

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/densim-team/densim-engine/simcore/sampler"
)

// Measurement projects one qubit onto a classical outcome. The outcome
// branch is chosen by the attached sampler, and every application is
// recorded so a finished replay can be read back shot by shot.
type Measurement struct {
	gateMeta
	sampler   sampler.Sampler
	outputBit string

	measurements  []int
	projects      []int
	probabilities [][2]float64
}

// NewMeasurement builds a measurement on qubit at the given time. outputBit
// names the classical bit receiving the declared outcome; pass an empty
// string to keep the outcome only in the gate's log. A nil sampler falls
// back to an unbiased sampler with the default seed.
func NewMeasurement(qubit string, time float64, s sampler.Sampler, outputBit string) *Measurement {
	if s == nil {
		zap.L().Warn(fmt.Sprintf("no sampler attached to measurement of %s. Reason:fallback to uniform sampler with seed %d", qubit, sampler.DefaultSeed))
		s = sampler.NewUniform(sampler.DefaultSeed)
	}
	return &Measurement{
		gateMeta:  gateMeta{time: time, label: "M", qubits: []string{qubit}},
		sampler:   s,
		outputBit: outputBit,
	}
}

func (g *Measurement) IsMeasurement() bool { return true }

// OutputBit returns the classical bit the declared outcome is written to,
// or an empty string.
func (g *Measurement) OutputBit() string { return g.outputBit }

// Measurements returns the declared outcomes of all applications so far.
func (g *Measurement) Measurements() []int {
	m := make([]int, len(g.measurements))
	copy(m, g.measurements)
	return m
}

// Projects returns the projected outcomes of all applications so far. They
// differ from the declared outcomes exactly where the sampler injected a
// readout error.
func (g *Measurement) Projects() []int {
	p := make([]int, len(g.projects))
	copy(p, g.projects)
	return p
}

// Probabilities returns the (p0, p1) pairs seen right before each
// projection.
func (g *Measurement) Probabilities() [][2]float64 {
	p := make([][2]float64, len(g.probabilities))
	copy(p, g.probabilities)
	return p
}

func (g *Measurement) ApplyTo(s State) error {
	qubit := g.qubits[0]
	p0, p1, err := s.PeekMeasurement(qubit)
	if err != nil {
		return err
	}
	g.probabilities = append(g.probabilities, [2]float64{p0, p1})

	projected, declared, prob := g.sampler.Sample(p0, p1)
	g.measurements = append(g.measurements, declared)
	if g.outputBit != "" {
		if err := s.SetBit(g.outputBit, declared); err != nil {
			return err
		}
	}
	if err := s.ProjectMeasurement(qubit, projected); err != nil {
		return err
	}
	g.projects = append(g.projects, projected)
	s.MultiplyProbability(prob)
	return nil
}

// remap renames the measured qubit and the output bit.
func (g *Measurement) remap(names map[string]string) {
	g.gateMeta.remap(names)
	if n, ok := names[g.outputBit]; ok {
		g.outputBit = n
	}
}

// clone shares the sampler, so all copies spliced from one template keep
// drawing from a single random stream, but starts fresh outcome logs.
func (g *Measurement) clone() Gate {
	c := *g
	c.gateMeta = g.cloneMeta()
	c.measurements = nil
	c.projects = nil
	c.probabilities = nil
	return &c
}
