package circuit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/densim-team/densim-engine/simcore/ptm"
)

// Gate is a single timed operation on one or two bits. Concrete gates are
// created through the New* constructors or the name registry; the unexported
// methods keep the variant set closed so subcircuit splicing can copy, shift
// and rename gates without knowing their kind.
type Gate interface {
	Time() float64
	Duration() float64
	Label() string
	InvolvedQubits() []string
	InvolvesQubit(name string) bool
	IsMeasurement() bool
	ApplyTo(s State) error

	clone() Gate
	shift(dt float64)
	remap(names map[string]string)
}

type gateMeta struct {
	time     float64
	duration float64
	label    string
	qubits   []string
}

func (g *gateMeta) Time() float64     { return g.time }
func (g *gateMeta) Duration() float64 { return g.duration }
func (g *gateMeta) Label() string     { return g.label }

func (g *gateMeta) InvolvedQubits() []string {
	qs := make([]string, len(g.qubits))
	copy(qs, g.qubits)
	return qs
}

func (g *gateMeta) InvolvesQubit(name string) bool {
	for _, q := range g.qubits {
		if q == name {
			return true
		}
	}
	return false
}

func (g *gateMeta) IsMeasurement() bool { return false }

func (g *gateMeta) shift(dt float64) { g.time += dt }

func (g *gateMeta) remap(names map[string]string) {
	for i, q := range g.qubits {
		if n, ok := names[q]; ok {
			g.qubits[i] = n
		}
	}
}

func (g *gateMeta) cloneMeta() gateMeta {
	c := *g
	c.qubits = make([]string, len(g.qubits))
	copy(c.qubits, g.qubits)
	return c
}

// SinglePTMGate applies a fixed 4×4 PTM to one qubit.
type SinglePTMGate struct {
	gateMeta
	ptm *mat.Dense
}

// NewSinglePTMGate wraps an arbitrary single-qubit PTM as a gate.
func NewSinglePTMGate(label, qubit string, time float64, p *mat.Dense) *SinglePTMGate {
	return &SinglePTMGate{
		gateMeta: gateMeta{time: time, label: label, qubits: []string{qubit}},
		ptm:      p,
	}
}

// PTM returns the gate's transfer matrix.
func (g *SinglePTMGate) PTM() *mat.Dense { return g.ptm }

func (g *SinglePTMGate) ApplyTo(s State) error {
	return s.ApplySinglePTM(g.qubits[0], g.ptm)
}

func (g *SinglePTMGate) clone() Gate {
	c := *g
	c.gateMeta = g.cloneMeta()
	return &c
}

// TwoPTMGate applies a fixed 16×16 PTM to an ordered qubit pair.
type TwoPTMGate struct {
	gateMeta
	ptm *mat.Dense
}

// NewTwoPTMGate wraps an arbitrary two-qubit PTM as a gate. The PTM row
// and column index pairs follow the (qubitA, qubitB) order.
func NewTwoPTMGate(label, qubitA, qubitB string, time float64, p *mat.Dense) *TwoPTMGate {
	return &TwoPTMGate{
		gateMeta: gateMeta{time: time, label: label, qubits: []string{qubitA, qubitB}},
		ptm:      p,
	}
}

// PTM returns the gate's transfer matrix.
func (g *TwoPTMGate) PTM() *mat.Dense { return g.ptm }

func (g *TwoPTMGate) ApplyTo(s State) error {
	return s.ApplyTwoPTM(g.qubits[0], g.qubits[1], g.ptm)
}

func (g *TwoPTMGate) clone() Gate {
	c := *g
	c.gateMeta = g.cloneMeta()
	return &c
}

// NewHadamard builds a Hadamard gate on one qubit.
func NewHadamard(qubit string, time float64) *SinglePTMGate {
	return NewSinglePTMGate("H", qubit, time, ptm.Hadamard())
}

// withAxisDephasing composes an optional dephasing channel after the
// rotation. The channel models jitter of the rotation angle, so it damps
// the two Bloch components perpendicular to the rotation axis and leaves
// the axis component alone. The variadic argument carries at most one
// dephasing probability.
func withAxisDephasing(rot *mat.Dense, axis int, dephasing []float64) *mat.Dense {
	if len(dephasing) == 0 || dephasing[0] == 0 {
		return rot
	}
	d := dephasing[0]
	p := [3]float64{d, d, d}
	p[axis] = 0
	return ptm.Mul(ptm.Dephasing(p[0], p[1], p[2]), rot)
}

// NewRotateX builds a rotation about the x axis, optionally followed by a
// dephasing channel along the same axis.
func NewRotateX(qubit string, time, angle float64, dephasing ...float64) *SinglePTMGate {
	p := withAxisDephasing(ptm.RotateX(angle), 0, dephasing)
	return NewSinglePTMGate(fmt.Sprintf("Rx(%.4g)", angle), qubit, time, p)
}

// NewRotateY builds a rotation about the y axis, optionally followed by a
// dephasing channel along the same axis.
func NewRotateY(qubit string, time, angle float64, dephasing ...float64) *SinglePTMGate {
	p := withAxisDephasing(ptm.RotateY(angle), 1, dephasing)
	return NewSinglePTMGate(fmt.Sprintf("Ry(%.4g)", angle), qubit, time, p)
}

// NewRotateZ builds a rotation about the z axis, optionally followed by a
// dephasing channel along the same axis.
func NewRotateZ(qubit string, time, angle float64, dephasing ...float64) *SinglePTMGate {
	p := withAxisDephasing(ptm.RotateZ(angle), 2, dephasing)
	return NewSinglePTMGate(fmt.Sprintf("Rz(%.4g)", angle), qubit, time, p)
}

// NewRotateEuler builds the z-y-z Euler rotation Rz(phi)·Ry(theta)·Rz(lamda).
func NewRotateEuler(qubit string, time, theta, lamda, phi float64) *SinglePTMGate {
	label := fmt.Sprintf("Re(%.4g,%.4g,%.4g)", theta, lamda, phi)
	return NewSinglePTMGate(label, qubit, time, ptm.RotateEuler(theta, lamda, phi))
}

// NewCPhase builds a full controlled-phase gate on a qubit pair.
func NewCPhase(qubitA, qubitB string, time float64) *TwoPTMGate {
	return NewTwoPTMGate("CZ", qubitA, qubitB, time, ptm.CPhase())
}

// NewCPhaseRotation builds a partial controlled-phase gate with the given
// conditional phase angle.
func NewCPhaseRotation(qubitA, qubitB string, time, angle float64) *TwoPTMGate {
	label := fmt.Sprintf("CZ(%.4g)", angle)
	return NewTwoPTMGate(label, qubitA, qubitB, time, ptm.CPhaseRotation(angle))
}

// AmpPhDamp models amplitude and phase damping of one idle qubit over a
// finite interval. Waiting-gate synthesis emits these; they can also be
// added by hand.
type AmpPhDamp struct {
	gateMeta
	t1 float64
	t2 float64
}

// NewAmpPhDamp builds a damping gate centered at time, acting for duration,
// with the given relaxation and coherence times. Non-positive lifetimes
// decay completely over any interval; infinite lifetimes do not decay.
func NewAmpPhDamp(qubit string, time, duration, t1, t2 float64) *AmpPhDamp {
	return &AmpPhDamp{
		gateMeta: gateMeta{
			time:     time,
			duration: duration,
			label:    "AmpPhDamp",
			qubits:   []string{qubit},
		},
		t1: t1,
		t2: t2,
	}
}

// T1 returns the relaxation time the gate was built with.
func (g *AmpPhDamp) T1() float64 { return g.t1 }

// T2 returns the coherence time the gate was built with.
func (g *AmpPhDamp) T2() float64 { return g.t2 }

// Gamma returns the amplitude damping probability over the gate's duration.
func (g *AmpPhDamp) Gamma() float64 {
	return 1 - math.Exp(-g.duration/g.t1)
}

// Lambda returns the pure dephasing probability over the gate's duration.
func (g *AmpPhDamp) Lambda() float64 {
	rate := 1/g.t2 - 1/(2*g.t1)
	if rate <= 0 {
		return 0
	}
	tphi := 1 / rate / 2
	return 1 - math.Exp(-g.duration/tphi)
}

func (g *AmpPhDamp) ApplyTo(s State) error {
	return s.ApplySinglePTM(g.qubits[0], ptm.AmpPhDamping(g.Gamma(), g.Lambda()))
}

func (g *AmpPhDamp) clone() Gate {
	c := *g
	c.gateMeta = g.cloneMeta()
	return &c
}
