package circuit

import (
	"math"
	"sort"

	"github.com/densim-team/densim-engine/simcore/common"
	"github.com/densim-team/densim-engine/simcore/sampler"
)

// timeTolerance is the smallest idle gap worth filling with a damping gate.
const timeTolerance = 1e-6

// Circuit is a timed list of gates over a named set of quantum and
// classical bits. Gates are kept in insertion order until Order is called;
// replaying the circuit applies the gates in their current list order.
type Circuit struct {
	title    string
	bits     map[string]Bit
	bitOrder []string
	gates    []Gate
}

// New builds an empty circuit with the given title.
func New(title string) *Circuit {
	return &Circuit{
		title: title,
		bits:  map[string]Bit{},
	}
}

// Title returns the circuit's title.
func (c *Circuit) Title() string { return c.title }

// AddBit registers a bit under its own name.
func (c *Circuit) AddBit(b Bit) error {
	name := b.Name()
	if _, ok := c.bits[name]; ok {
		return &DuplicateEntityError{Name: name}
	}
	c.bits[name] = b
	c.bitOrder = append(c.bitOrder, name)
	return nil
}

// AddQubit registers a decohering qubit with the given lifetimes.
func (c *Circuit) AddQubit(name string, t1, t2 float64) error {
	return c.AddBit(NewQubit(name, t1, t2))
}

// AddIdealQubit registers a qubit with infinite lifetimes.
func (c *Circuit) AddIdealQubit(name string) error {
	return c.AddBit(NewIdealQubit(name))
}

// AddClassicalBit registers a classical bit.
func (c *Circuit) AddClassicalBit(name string) error {
	return c.AddBit(NewClassicalBit(name))
}

// GetBit looks a bit up by name.
func (c *Circuit) GetBit(name string) (Bit, error) {
	b, ok := c.bits[name]
	if !ok {
		return nil, &UnknownQubitError{Name: name}
	}
	return b, nil
}

// Bits returns the circuit's bits in registration order.
func (c *Circuit) Bits() []Bit {
	bits := make([]Bit, 0, len(c.bitOrder))
	for _, name := range c.bitOrder {
		bits = append(bits, c.bits[name])
	}
	return bits
}

// Qubits returns the names of the non-classical bits in registration order.
func (c *Circuit) Qubits() []string {
	var names []string
	for _, name := range c.bitOrder {
		if !c.bits[name].IsClassical() {
			names = append(names, name)
		}
	}
	return names
}

// AddGate appends a gate. The gate's bits are resolved against the circuit
// at replay time, so gates may be added before all of their bits.
func (c *Circuit) AddGate(g Gate) {
	c.gates = append(c.gates, g)
}

// AddGateByName builds a gate from the registry and appends it.
func (c *Circuit) AddGateByName(name string, qubits []string, time float64, params ...float64) (Gate, error) {
	g, err := MakeGate(name, qubits, time, params...)
	if err != nil {
		return nil, err
	}
	c.AddGate(g)
	return g, nil
}

// Gates returns the gate list in its current order.
func (c *Circuit) Gates() []Gate {
	gs := make([]Gate, len(c.gates))
	copy(gs, c.gates)
	return gs
}

// Measurements returns the circuit's measurement gates in current gate
// order.
func (c *Circuit) Measurements() []*Measurement {
	var ms []*Measurement
	for _, g := range c.gates {
		if m, ok := g.(*Measurement); ok {
			ms = append(ms, m)
		}
	}
	return ms
}

// AddHadamard appends a Hadamard gate.
func (c *Circuit) AddHadamard(qubit string, time float64) {
	c.AddGate(NewHadamard(qubit, time))
}

// AddRotateX appends a rotation about the x axis.
func (c *Circuit) AddRotateX(qubit string, time, angle float64) {
	c.AddGate(NewRotateX(qubit, time, angle))
}

// AddRotateY appends a rotation about the y axis.
func (c *Circuit) AddRotateY(qubit string, time, angle float64) {
	c.AddGate(NewRotateY(qubit, time, angle))
}

// AddRotateZ appends a rotation about the z axis.
func (c *Circuit) AddRotateZ(qubit string, time, angle float64) {
	c.AddGate(NewRotateZ(qubit, time, angle))
}

// AddCPhase appends a full controlled-phase gate.
func (c *Circuit) AddCPhase(qubitA, qubitB string, time float64) {
	c.AddGate(NewCPhase(qubitA, qubitB, time))
}

// AddMeasurement appends a measurement and returns it so its outcome logs
// can be read after replay.
func (c *Circuit) AddMeasurement(qubit string, time float64, s sampler.Sampler, outputBit string) *Measurement {
	m := NewMeasurement(qubit, time, s, outputBit)
	c.AddGate(m)
	return m
}

// Order sorts the gate list by time. The sort is stable, so gates sharing
// a time keep their insertion order and repeated calls are no-ops.
func (c *Circuit) Order() {
	sort.SliceStable(c.gates, func(i, j int) bool {
		return c.gates[i].Time() < c.gates[j].Time()
	})
}

// AddSubcircuit splices a copy of sub's gates into the circuit, shifted
// forward by timeShift, with sub's bit names rewritten through names.
// Names absent from the map carry over unchanged; every resulting name
// must already be registered here.
func (c *Circuit) AddSubcircuit(sub *Circuit, timeShift float64, names map[string]string) error {
	for _, name := range sub.bitOrder {
		target := name
		if n, ok := names[name]; ok {
			target = n
		}
		if _, ok := c.bits[target]; !ok {
			return &UnknownQubitError{Name: target}
		}
	}
	for _, g := range sub.gates {
		cp := g.clone()
		cp.shift(timeShift)
		cp.remap(names)
		c.AddGate(cp)
	}
	return nil
}

// AddSubcircuitByOrder splices sub mapping its bits positionally, in
// registration order, onto the given target names.
func (c *Circuit) AddSubcircuitByOrder(sub *Circuit, timeShift float64, targets []string) error {
	if len(targets) != len(sub.bitOrder) {
		return &UnknownQubitError{Name: "subcircuit bit count mismatch"}
	}
	names := make(map[string]string, len(targets))
	for i, name := range sub.bitOrder {
		names[name] = targets[i]
	}
	return c.AddSubcircuit(sub, timeShift, names)
}

// AddWaitingGates fills the idle gaps of the circuit's qubits with
// amplitude-phase damping gates. onlyQubits restricts the synthesis to the
// named qubits when non-nil; tmin and tmax bound the filled window, with
// NaN meaning "derive from the existing timeline". With no gates and no
// explicit window there is nothing to fill. Classical bits and qubits with
// two infinite lifetimes never wait.
func (c *Circuit) AddWaitingGates(onlyQubits []string, tmin, tmax float64) {
	ordered := make([]Gate, len(c.gates))
	copy(ordered, c.gates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Time() < ordered[j].Time()
	})

	if len(ordered) == 0 && (math.IsNaN(tmin) || math.IsNaN(tmax)) {
		return
	}
	if math.IsNaN(tmin) {
		tmin = ordered[0].Time()
	}
	if math.IsNaN(tmax) {
		tmax = ordered[len(ordered)-1].Time()
	}

	for _, name := range c.bitOrder {
		b := c.bits[name]
		if b.IsClassical() {
			continue
		}
		if onlyQubits != nil && !common.ContainsName(name, onlyQubits) {
			continue
		}
		if math.IsInf(b.T1(tmin, tmax), 1) && math.IsInf(b.T2(tmin, tmax), 1) {
			continue
		}

		// Idle boundaries: the window edges plus the half-duration
		// edges of every gate touching this qubit.
		edges := []float64{tmin}
		for _, g := range ordered {
			if !g.InvolvesQubit(name) {
				continue
			}
			t, d := g.Time(), g.Duration()
			if t-d/2 > tmin && t+d/2 < tmax {
				edges = append(edges, t-d/2, t+d/2)
			}
		}
		edges = append(edges, tmax)

		for i := 0; i+1 < len(edges); i += 2 {
			start, end := edges[i], edges[i+1]
			if end-start < timeTolerance {
				continue
			}
			mid := (start + end) / 2
			c.AddGate(NewAmpPhDamp(name, mid, end-start, b.T1(start, end), b.T2(start, end)))
		}
	}
}

// ApplyTo replays the gate list, in its current order, against a state
// backend. Every bit a gate touches must be registered.
func (c *Circuit) ApplyTo(s State) error {
	for _, g := range c.gates {
		for _, q := range g.InvolvedQubits() {
			if _, ok := c.bits[q]; !ok {
				return &UnknownQubitError{Name: q}
			}
		}
		if err := g.ApplyTo(s); err != nil {
			return err
		}
	}
	return nil
}
