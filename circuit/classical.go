package circuit

// ClassicalNOT flips a classical bit in place. The bit must hold a definite
// value when the gate is applied.
type ClassicalNOT struct {
	gateMeta
}

// NewClassicalNOT builds a NOT on the named classical bit.
func NewClassicalNOT(bit string, time float64) *ClassicalNOT {
	return &ClassicalNOT{
		gateMeta: gateMeta{time: time, label: "NOT", qubits: []string{bit}},
	}
}

func (g *ClassicalNOT) ApplyTo(s State) error {
	bit := g.qubits[0]
	if err := s.EnsureClassical(bit); err != nil {
		return err
	}
	v, err := s.GetBit(bit)
	if err != nil {
		return err
	}
	return s.SetBit(bit, 1-v)
}

func (g *ClassicalNOT) clone() Gate {
	c := *g
	c.gateMeta = g.cloneMeta()
	return &c
}

// ClassicalCNOT flips the target bit when the control bit reads 1. Both
// bits must hold definite values when the gate is applied.
type ClassicalCNOT struct {
	gateMeta
}

// NewClassicalCNOT builds a classically controlled NOT. The control comes
// first in the qubit list.
func NewClassicalCNOT(control, target string, time float64) *ClassicalCNOT {
	return &ClassicalCNOT{
		gateMeta: gateMeta{time: time, label: "CNOT", qubits: []string{control, target}},
	}
}

func (g *ClassicalCNOT) ApplyTo(s State) error {
	control, target := g.qubits[0], g.qubits[1]
	if err := s.EnsureClassical(control); err != nil {
		return err
	}
	v, err := s.GetBit(control)
	if err != nil {
		return err
	}
	if v != 1 {
		return nil
	}
	if err := s.EnsureClassical(target); err != nil {
		return err
	}
	t, err := s.GetBit(target)
	if err != nil {
		return err
	}
	return s.SetBit(target, 1-t)
}

func (g *ClassicalCNOT) clone() Gate {
	c := *g
	c.gateMeta = g.cloneMeta()
	return &c
}

// ConditionalGate runs one of two gate lists depending on the value of a
// classical control bit. The control must hold a definite value when the
// gate is applied; the branch gates run in list order at the conditional's
// own time slot.
type ConditionalGate struct {
	gateMeta
	control   string
	zeroGates []Gate
	oneGates  []Gate
}

// NewConditionalGate builds a conditional over the named control bit.
// zeroGates run when the control reads 0, oneGates when it reads 1.
func NewConditionalGate(control string, time float64, zeroGates, oneGates []Gate) *ConditionalGate {
	qubits := []string{control}
	seen := map[string]bool{control: true}
	for _, g := range append(append([]Gate{}, zeroGates...), oneGates...) {
		for _, q := range g.InvolvedQubits() {
			if !seen[q] {
				seen[q] = true
				qubits = append(qubits, q)
			}
		}
	}
	return &ConditionalGate{
		gateMeta:  gateMeta{time: time, label: "Cond", qubits: qubits},
		control:   control,
		zeroGates: zeroGates,
		oneGates:  oneGates,
	}
}

// Control returns the name of the controlling classical bit.
func (g *ConditionalGate) Control() string { return g.control }

func (g *ConditionalGate) ApplyTo(s State) error {
	if err := s.EnsureClassical(g.control); err != nil {
		return err
	}
	v, err := s.GetBit(g.control)
	if err != nil {
		return err
	}
	branch := g.zeroGates
	if v == 1 {
		branch = g.oneGates
	}
	for _, sub := range branch {
		if err := sub.ApplyTo(s); err != nil {
			return err
		}
	}
	return nil
}

func (g *ConditionalGate) clone() Gate {
	c := *g
	c.gateMeta = g.cloneMeta()
	c.zeroGates = cloneGates(g.zeroGates)
	c.oneGates = cloneGates(g.oneGates)
	return &c
}

func (g *ConditionalGate) shift(dt float64) {
	g.gateMeta.shift(dt)
	for _, sub := range g.zeroGates {
		sub.shift(dt)
	}
	for _, sub := range g.oneGates {
		sub.shift(dt)
	}
}

func (g *ConditionalGate) remap(names map[string]string) {
	if n, ok := names[g.control]; ok {
		g.control = n
	}
	g.gateMeta.remap(names)
	for _, sub := range g.zeroGates {
		sub.remap(names)
	}
	for _, sub := range g.oneGates {
		sub.remap(names)
	}
}

func cloneGates(gs []Gate) []Gate {
	out := make([]Gate, len(gs))
	for i, g := range gs {
		out[i] = g.clone()
	}
	return out
}
