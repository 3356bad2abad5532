//go:build unit
// +build unit

package circuit

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"github.com/densim-team/densim-engine/simcore/sampler"
)

// fakeState records backend calls so gate tests can assert sequencing
// without a real density matrix.
type fakeState struct {
	calls    []string
	peekP0   float64
	peekP1   float64
	bits     map[string]int
	probMult float64
}

func newFakeState() *fakeState {
	return &fakeState{peekP0: 1, peekP1: 0, bits: map[string]int{}, probMult: 1}
}

func (f *fakeState) ApplySinglePTM(qubit string, p *mat.Dense) error {
	f.calls = append(f.calls, "single:"+qubit)
	return nil
}

func (f *fakeState) ApplyTwoPTM(qubitA, qubitB string, p *mat.Dense) error {
	f.calls = append(f.calls, fmt.Sprintf("two:%s:%s", qubitA, qubitB))
	return nil
}

func (f *fakeState) PeekMeasurement(qubit string) (float64, float64, error) {
	f.calls = append(f.calls, "peek:"+qubit)
	return f.peekP0, f.peekP1, nil
}

func (f *fakeState) ProjectMeasurement(qubit string, outcome int) error {
	f.calls = append(f.calls, fmt.Sprintf("project:%s:%d", qubit, outcome))
	return nil
}

func (f *fakeState) EnsureClassical(bit string) error {
	f.calls = append(f.calls, "classical:"+bit)
	return nil
}

func (f *fakeState) GetBit(bit string) (int, error) { return f.bits[bit], nil }

func (f *fakeState) SetBit(bit string, value int) error {
	f.bits[bit] = value
	return nil
}

func (f *fakeState) MultiplyProbability(p float64) { f.probMult *= p }
func (f *fakeState) Trace() float64                { return f.probMult }
func (f *fakeState) Renormalize()                  { f.probMult = 1 }

func TestOrderGates(t *testing.T) {
	c := New("order")
	assert.Nil(t, c.AddIdealQubit("A"))

	times := []float64{5, 1, 3, 0, 4, 2}
	for _, ti := range times {
		c.AddHadamard("A", ti)
	}
	c.Order()

	got := c.Gates()
	for i, g := range got {
		assert.Equal(t, float64(i), g.Time())
	}

	// Ordering again must not change anything.
	c.Order()
	for i, g := range c.Gates() {
		assert.Equal(t, float64(i), g.Time())
	}
}

func TestOrderIsStableForEqualTimes(t *testing.T) {
	c := New("stable")
	assert.Nil(t, c.AddIdealQubit("A"))
	assert.Nil(t, c.AddIdealQubit("B"))

	c.AddHadamard("A", 1)
	c.AddHadamard("B", 1)
	c.Order()

	gates := c.Gates()
	assert.True(t, gates[0].InvolvesQubit("A"))
	assert.True(t, gates[1].InvolvesQubit("B"))
}

func TestDuplicateBit(t *testing.T) {
	c := New("dup")
	assert.Nil(t, c.AddQubit("A", 10, 10))
	err := c.AddClassicalBit("A")
	assert.NotNil(t, err)
	var dup *DuplicateEntityError
	assert.ErrorAs(t, err, &dup)
	assert.Equal(t, "A", dup.Name)
}

func TestAddWaitingFull(t *testing.T) {
	c := New("waiting")
	assert.Nil(t, c.AddQubit("A", 10, 0))

	c.AddHadamard("A", 1)
	c.AddHadamard("A", 0)
	assert.Len(t, c.Gates(), 2)

	c.AddWaitingGates(nil, math.NaN(), math.NaN())
	assert.Len(t, c.Gates(), 3)

	c.Order()
	g := c.Gates()[1]
	assert.Equal(t, 0.5, g.Time())
	assert.Equal(t, 1.0, g.Duration())

	wait, ok := g.(*AmpPhDamp)
	assert.True(t, ok)
	assert.Equal(t, 10.0, wait.T1())
	assert.Equal(t, 0.0, wait.T2())
}

func TestAddWaitingEmptyTimeline(t *testing.T) {
	c := New("waiting-empty")
	assert.Nil(t, c.AddQubit("A", 0, 0))

	c.AddWaitingGates(nil, math.NaN(), math.NaN())
	assert.Len(t, c.Gates(), 0)

	c.AddWaitingGates(nil, 0, 100)
	assert.Len(t, c.Gates(), 1)
	assert.Equal(t, 50.0, c.Gates()[0].Time())
	assert.Equal(t, 100.0, c.Gates()[0].Duration())
}

func TestAddWaitingOnlyQubits(t *testing.T) {
	c := New("waiting-partial")
	assert.Nil(t, c.AddQubit("A", 10, 10))
	assert.Nil(t, c.AddQubit("B", 10, 10))

	c.AddWaitingGates([]string{"A"}, 0, 1)
	assert.Len(t, c.Gates(), 1)

	c.AddWaitingGates([]string{"B"}, 0, 1)
	assert.Len(t, c.Gates(), 2)
}

func TestNoWaitingForLosslessBits(t *testing.T) {
	c := New("waiting-skip")
	assert.Nil(t, c.AddIdealQubit("A"))
	assert.Nil(t, c.AddQubit("B", math.Inf(1), math.Inf(1)))
	assert.Nil(t, c.AddQubit("C", 10, 10))
	assert.Nil(t, c.AddClassicalBit("D"))

	c.AddWaitingGates(nil, 0, 1)
	assert.Len(t, c.Gates(), 1)
	assert.True(t, c.Gates()[0].InvolvesQubit("C"))
}

func TestVariableDecoherenceWaitingGates(t *testing.T) {
	c := New("vardec")
	qb := NewVariableDecoherenceQubit("A", 10, 10,
		[]DecayWindow{{Start: 10, End: 20, Value: 10}},
		[]DecayWindow{{Start: 10, End: 20, Value: 10}})
	assert.Nil(t, c.AddBit(qb))

	c.AddHadamard("A", 10)
	c.AddHadamard("A", 0)
	c.AddHadamard("A", 20)

	c.AddWaitingGates(nil, math.NaN(), math.NaN())
	c.Order()

	gates := c.Gates()
	assert.Equal(t, 5.0, gates[1].Time())
	assert.Equal(t, 10.0, gates[1].Duration())
	assert.Equal(t, 10.0, gates[1].(*AmpPhDamp).T1())

	// The second idle window overlaps the extra decay region, so the
	// rates add.
	assert.Equal(t, 5.0, gates[3].(*AmpPhDamp).T1())
}

func TestVariableDecoherenceAveraging(t *testing.T) {
	c := New("vardec-avg")
	qb := NewVariableDecoherenceQubit("A", 10, 10,
		[]DecayWindow{{Start: 10, End: 20, Value: 10}},
		[]DecayWindow{{Start: 10, End: 20, Value: 10}})
	assert.Nil(t, c.AddBit(qb))

	c.AddWaitingGates(nil, 0, 100)
	c.Order()

	g := c.Gates()[0].(*AmpPhDamp)
	assert.Equal(t, 50.0, g.Time())
	assert.Equal(t, 100.0, g.Duration())
	assert.InDelta(t, 10/(9.0/10+1.0/5), g.T1(), 1e-12)
}

func TestApplyToCallSequence(t *testing.T) {
	c := New("apply")
	assert.Nil(t, c.AddQubit("A", 10, 20))

	c.AddHadamard("A", 0)
	c.AddHadamard("A", 10)
	c.AddMeasurement("A", 20, sampler.NewUniform(42), "")

	c.AddWaitingGates(nil, math.NaN(), math.NaN())
	c.Order()

	st := newFakeState()
	assert.Nil(t, c.ApplyTo(st))
	assert.Equal(t, []string{
		"single:A", "single:A", "single:A", "single:A",
		"peek:A", "project:A:0",
	}, st.calls)
}

func TestApplyToUnknownQubit(t *testing.T) {
	c := New("unknown")
	assert.Nil(t, c.AddIdealQubit("A"))
	c.AddHadamard("B", 0)

	err := c.ApplyTo(newFakeState())
	var unknown *UnknownQubitError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, "B", unknown.Name)
}

func TestAddSubcircuit(t *testing.T) {
	sub := New("sub")
	assert.Nil(t, sub.AddIdealQubit("X"))
	sub.AddHadamard("X", 0)
	sub.AddHadamard("X", 5)

	c := New("parent")
	assert.Nil(t, c.AddIdealQubit("A"))

	assert.Nil(t, c.AddSubcircuitByOrder(sub, 100, []string{"A"}))

	gates := c.Gates()
	assert.Len(t, gates, 2)
	assert.Equal(t, 100.0, gates[0].Time())
	assert.Equal(t, 105.0, gates[1].Time())
	assert.True(t, gates[0].InvolvesQubit("A"))

	// The template circuit stays untouched.
	assert.Equal(t, 0.0, sub.Gates()[0].Time())
	assert.True(t, sub.Gates()[0].InvolvesQubit("X"))
}

func TestAddSubcircuitUnknownTarget(t *testing.T) {
	sub := New("sub")
	assert.Nil(t, sub.AddIdealQubit("X"))
	sub.AddHadamard("X", 0)

	c := New("parent")
	assert.Nil(t, c.AddIdealQubit("A"))

	err := c.AddSubcircuit(sub, 0, map[string]string{"X": "missing"})
	var unknown *UnknownQubitError
	assert.ErrorAs(t, err, &unknown)
}

func TestMeasurementRecordsOutcomes(t *testing.T) {
	c := New("measure")
	assert.Nil(t, c.AddIdealQubit("A"))
	assert.Nil(t, c.AddClassicalBit("MA"))

	m := c.AddMeasurement("A", 0, sampler.NewSelection(1), "MA")

	st := newFakeState()
	st.peekP0, st.peekP1 = 0.25, 0.75
	assert.Nil(t, c.ApplyTo(st))

	assert.Equal(t, []int{1}, m.Measurements())
	assert.Equal(t, []int{1}, m.Projects())
	assert.Equal(t, [][2]float64{{0.25, 0.75}}, m.Probabilities())
	assert.Equal(t, 1, st.bits["MA"])
}

func TestConditionalGateBranches(t *testing.T) {
	zero := []Gate{NewHadamard("A", 0)}
	one := []Gate{NewRotateX("A", 0, math.Pi)}

	c := New("cond")
	assert.Nil(t, c.AddIdealQubit("A"))
	assert.Nil(t, c.AddClassicalBit("ctrl"))
	c.AddGate(NewConditionalGate("ctrl", 0, zero, one))

	st := newFakeState()
	st.bits["ctrl"] = 1
	assert.Nil(t, c.ApplyTo(st))
	assert.Equal(t, []string{"classical:ctrl", "single:A"}, st.calls)
}

func TestClassicalNOT(t *testing.T) {
	c := New("not")
	assert.Nil(t, c.AddClassicalBit("A"))
	c.AddGate(NewClassicalNOT("A", 0))

	st := newFakeState()
	assert.Nil(t, c.ApplyTo(st))
	assert.Equal(t, 1, st.bits["A"])

	assert.Nil(t, c.ApplyTo(st))
	assert.Equal(t, 0, st.bits["A"])
}

func TestClassicalCNOT(t *testing.T) {
	c := New("cnot")
	assert.Nil(t, c.AddClassicalBit("ctrl"))
	assert.Nil(t, c.AddClassicalBit("tgt"))
	c.AddGate(NewClassicalCNOT("ctrl", "tgt", 0))

	st := newFakeState()
	assert.Nil(t, c.ApplyTo(st))
	assert.Equal(t, 0, st.bits["tgt"])

	st.bits["ctrl"] = 1
	assert.Nil(t, c.ApplyTo(st))
	assert.Equal(t, 1, st.bits["tgt"])
}
