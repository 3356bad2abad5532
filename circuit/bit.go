package circuit

import "math"

// Bit is a named wire of a circuit: a qubit carrying decoherence
// parameters, or a purely classical bit. Bits are immutable once
// constructed.
type Bit interface {
	Name() string
	IsClassical() bool
	// T1 and T2 report the effective energy-relaxation and dephasing
	// time constants over the interval [start, end]. Plain qubits
	// ignore the interval.
	T1(start, end float64) float64
	T2(start, end float64) float64
}

type Qubit struct {
	name string
	t1   float64
	t2   float64
}

func NewQubit(name string, t1, t2 float64) *Qubit {
	return &Qubit{name: name, t1: t1, t2: t2}
}

// NewIdealQubit returns a qubit with infinite lifetimes, which is
// skipped by waiting-gate synthesis.
func NewIdealQubit(name string) *Qubit {
	return &Qubit{name: name, t1: math.Inf(1), t2: math.Inf(1)}
}

func (q *Qubit) Name() string            { return q.name }
func (q *Qubit) IsClassical() bool       { return false }
func (q *Qubit) T1(_, _ float64) float64 { return q.t1 }
func (q *Qubit) T2(_, _ float64) float64 { return q.t2 }

// ClassicalBit carries no quantum state and never decoheres. It only
// accepts classical logic gates.
type ClassicalBit struct {
	name string
}

func NewClassicalBit(name string) *ClassicalBit {
	return &ClassicalBit{name: name}
}

func (c *ClassicalBit) Name() string            { return c.name }
func (c *ClassicalBit) IsClassical() bool       { return true }
func (c *ClassicalBit) T1(_, _ float64) float64 { return math.Inf(1) }
func (c *ClassicalBit) T2(_, _ float64) float64 { return math.Inf(1) }

// DecayWindow adds the rate 1/Value to a qubit's base decay rate while
// [Start, End] overlaps the interval under consideration.
type DecayWindow struct {
	Start float64
	End   float64
	Value float64
}

// VariableDecoherenceQubit is a qubit whose decoherence rates vary over
// time. The effective time constant over an interval is the
// time-weighted average of the instantaneous decay rate, inverted back
// into a time constant; it is not a linear average of the T values.
type VariableDecoherenceQubit struct {
	name      string
	baseT1    float64
	baseT2    float64
	t1Windows []DecayWindow
	t2Windows []DecayWindow
}

func NewVariableDecoherenceQubit(name string, baseT1, baseT2 float64,
	t1Windows, t2Windows []DecayWindow) *VariableDecoherenceQubit {
	return &VariableDecoherenceQubit{
		name:      name,
		baseT1:    baseT1,
		baseT2:    baseT2,
		t1Windows: append([]DecayWindow(nil), t1Windows...),
		t2Windows: append([]DecayWindow(nil), t2Windows...),
	}
}

func (q *VariableDecoherenceQubit) Name() string      { return q.name }
func (q *VariableDecoherenceQubit) IsClassical() bool { return false }

func (q *VariableDecoherenceQubit) T1(start, end float64) float64 {
	return effectiveTime(q.baseT1, q.t1Windows, start, end)
}

func (q *VariableDecoherenceQubit) T2(start, end float64) float64 {
	return effectiveTime(q.baseT2, q.t2Windows, start, end)
}

func effectiveTime(base float64, windows []DecayWindow, start, end float64) float64 {
	duration := end - start
	if duration <= 0 {
		return base
	}
	rate := invOrZero(base)
	for _, w := range windows {
		overlap := math.Min(end, w.End) - math.Max(start, w.Start)
		if overlap > 0 {
			rate += overlap / duration * invOrZero(w.Value)
		}
	}
	if rate == 0 {
		return math.Inf(1)
	}
	return 1 / rate
}

func invOrZero(t float64) float64 {
	if math.IsInf(t, 1) {
		return 0
	}
	return 1 / t
}
