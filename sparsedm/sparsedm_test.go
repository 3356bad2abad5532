//go:build unit
// +build unit

package sparsedm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/densim-team/densim-engine/simcore/circuit"
	"github.com/densim-team/densim-engine/simcore/sampler"
)

func TestNewStateIsAllClassicalZero(t *testing.T) {
	sdm, err := New([]string{"A", "B"})
	assert.Nil(t, err)
	assert.Equal(t, map[string]int{"A": 0, "B": 0}, sdm.Classical())
	assert.Equal(t, 1.0, sdm.Trace())
}

func TestNewStateDuplicateBit(t *testing.T) {
	_, err := New([]string{"A", "A"})
	var dup *circuit.DuplicateEntityError
	assert.ErrorAs(t, err, &dup)
}

func TestEnsureDenseAndProjectBack(t *testing.T) {
	sdm, err := New([]string{"A", "B"})
	assert.Nil(t, err)

	assert.Nil(t, sdm.SetBit("A", 1))
	assert.Nil(t, sdm.EnsureDense("A"))
	assert.Equal(t, map[string]int{"B": 0}, sdm.Classical())

	p0, p1, err := sdm.PeekMeasurement("A")
	assert.Nil(t, err)
	assert.InDelta(t, 0.0, p0, 1e-12)
	assert.InDelta(t, 1.0, p1, 1e-12)

	assert.Nil(t, sdm.ProjectMeasurement("A", 1))
	assert.Equal(t, map[string]int{"A": 1, "B": 0}, sdm.Classical())
	assert.InDelta(t, 1.0, sdm.Trace(), 1e-12)
}

func TestPeekClassicalBitStaysClassical(t *testing.T) {
	sdm, err := New([]string{"A"})
	assert.Nil(t, err)

	p0, p1, err := sdm.PeekMeasurement("A")
	assert.Nil(t, err)
	assert.Equal(t, 1.0, p0)
	assert.Equal(t, 0.0, p1)
	assert.Equal(t, map[string]int{"A": 0}, sdm.Classical())

	assert.Nil(t, sdm.ProjectMeasurement("A", 0))
	assert.Equal(t, 1.0, sdm.Trace())

	// Forcing the opposite branch leaves no weight behind.
	assert.Nil(t, sdm.ProjectMeasurement("A", 1))
	assert.Equal(t, map[string]int{"A": 1}, sdm.Classical())
	assert.Equal(t, 0.0, sdm.Trace())
}

func TestEnsureClassicalFailsOnSuperposition(t *testing.T) {
	sdm, err := New([]string{"A"})
	assert.Nil(t, err)

	c := circuit.New("h")
	assert.Nil(t, c.AddIdealQubit("A"))
	c.AddHadamard("A", 0)
	assert.Nil(t, c.ApplyTo(sdm))

	assert.NotNil(t, sdm.EnsureClassical("A"))
	_, err = sdm.GetBit("A")
	assert.NotNil(t, err)
}

func TestUnknownBit(t *testing.T) {
	sdm, err := New([]string{"A"})
	assert.Nil(t, err)

	var unknown *circuit.UnknownQubitError
	assert.ErrorAs(t, sdm.EnsureDense("Z"), &unknown)
	assert.ErrorAs(t, sdm.SetBit("Z", 1), &unknown)
}

func TestThreeQubitParityClean(t *testing.T) {
	c := circuit.New("three qubit")
	qubitNames := []string{"D1", "A1", "D2", "A2", "D3"}
	for _, qb := range qubitNames {
		// Lifetimes only almost infinite, so that waiting gates are
		// added but ineffective.
		assert.Nil(t, c.AddQubit(qb, math.Inf(1), 1e10))
	}

	c.AddHadamard("A1", 0)
	c.AddHadamard("A2", 0)

	c.AddCPhase("A1", "D1", 200)
	c.AddCPhase("A2", "D2", 200)

	c.AddCPhase("A1", "D2", 100)
	c.AddCPhase("A2", "D3", 100)

	c.AddHadamard("A1", 300)
	c.AddHadamard("A2", 300)

	m1 := c.AddMeasurement("A1", 350, nil, "")
	m2 := c.AddMeasurement("A2", 350, nil, "")

	c.AddWaitingGates(nil, 0, 1500)
	c.Order()

	assert.Len(t, c.Gates(), 27)

	sdm, err := New(qubitNames)
	assert.Nil(t, err)
	for _, qb := range []string{"D1", "A1", "D2", "A2"} {
		assert.Nil(t, sdm.SetBit(qb, 1))
	}
	assert.Equal(t,
		map[string]int{"A1": 1, "A2": 1, "D3": 0, "D1": 1, "D2": 1},
		sdm.Classical())

	for i := 0; i < 100; i++ {
		assert.Nil(t, c.ApplyTo(sdm))
	}

	assert.Len(t, m1.Measurements(), 100)
	assert.Len(t, m2.Measurements(), 100)

	// Trailing waiting gates re-densify the measured ancillas.
	assert.Empty(t, sdm.Classical())

	// A clean run follows a single path.
	assert.InDelta(t, 1.0, sdm.Trace(), 1e-5)

	// A1 reads the D1/D2 parity, which never changes; A2 alternates
	// because it is not reset between rounds.
	for i, m := range m1.Measurements() {
		assert.Equal(t, 1, m, "round %d", i)
	}
	for i, m := range m2.Measurements() {
		assert.Equal(t, i%2, m, "round %d", i)
	}
}

func TestNoisyMeasurementAccumulatesPathWeight(t *testing.T) {
	c := circuit.New("noisy")
	assert.Nil(t, c.AddQubit("A", 0, 0))

	c.AddHadamard("A", 1)
	m1 := c.AddMeasurement("A", 2, sampler.NewUniformNoisy(0.1, 42), "")
	c.Order()

	sdm, err := New([]string{"A"})
	assert.Nil(t, err)

	trueState := make([]int, 0, 20)
	for i := 0; i < 20; i++ {
		assert.Nil(t, c.ApplyTo(sdm))
		v, err := sdm.GetBit("A")
		assert.Nil(t, err)
		trueState = append(trueState, v)
	}

	assert.Equal(t, trueState, m1.Projects())

	flips := 0
	for i, declared := range m1.Measurements() {
		if declared != trueState[i] {
			flips++
		}
	}

	// The accumulated weight is the probability of this declaration
	// pattern, and each projection halves the remaining trace.
	mprob := math.Pow(0.9, float64(20-flips)) * math.Pow(0.1, float64(flips))
	assert.InDelta(t, mprob, sdm.ClassicalProbability(), 1e-12)
	assert.InDelta(t, mprob*math.Pow(0.5, 20), sdm.Trace(), 1e-18)
}

func TestMeasurementWithOutputBit(t *testing.T) {
	c := circuit.New("output bits")
	assert.Nil(t, c.AddIdealQubit("A"))
	assert.Nil(t, c.AddClassicalBit("O"))
	assert.Nil(t, c.AddClassicalBit("O2"))

	c.AddRotateY("A", 0, math.Pi/2)
	c.AddMeasurement("A", 1, sampler.NewSelection(1), "O")
	c.AddRotateY("A", 3.5, math.Pi/2)
	c.AddMeasurement("A", 4, sampler.NewSelection(1), "O2")
	c.AddRotateY("A", 5, math.Pi/2)
	c.Order()

	sdm, err := New([]string{"A", "O", "O2"})
	assert.Nil(t, err)

	assert.Nil(t, c.ApplyTo(sdm))

	assert.InDelta(t, 0.25, sdm.Trace(), 1e-12)
	assert.Equal(t, map[string]int{"O": 1, "O2": 1}, sdm.Classical())
}

func TestFreeDecay(t *testing.T) {
	tests := []struct {
		name string
		t1   float64
		t2   float64
	}{
		{name: "lossless", t1: math.Inf(1), t2: math.Inf(1)},
		{name: "mixed", t1: 1000, t2: 2000},
		{name: "pure dephasing", t1: math.Inf(1), t2: 1000},
		{name: "equal lifetimes", t1: 1000, t2: 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := circuit.New("free decay")
			assert.Nil(t, c.AddQubit("Q", tt.t1, tt.t2))
			c.AddRotateY("Q", 0, math.Pi)
			c.AddRotateY("Q", 1000, -math.Pi)
			c.AddWaitingGates(nil, math.NaN(), math.NaN())
			c.Order()

			sdm, err := New([]string{"Q"})
			assert.Nil(t, err)
			assert.Nil(t, c.ApplyTo(sdm))
			assert.Nil(t, sdm.ProjectMeasurement("Q", 0))

			assert.InDelta(t, math.Exp(-1000/tt.t1), sdm.Trace(), 1e-12)
		})
	}
}

func TestRamsey(t *testing.T) {
	tests := []struct {
		name string
		t1   float64
		t2   float64
	}{
		{name: "lossless", t1: math.Inf(1), t2: math.Inf(1)},
		{name: "mixed", t1: 1000, t2: 2000},
		{name: "pure dephasing", t1: math.Inf(1), t2: 1000},
		{name: "equal lifetimes", t1: 1000, t2: 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := circuit.New("ramsey")
			assert.Nil(t, c.AddQubit("Q", tt.t1, tt.t2))
			c.AddRotateY("Q", 0, math.Pi/2)
			c.AddRotateY("Q", 1000, -math.Pi/2)
			c.AddWaitingGates(nil, math.NaN(), math.NaN())
			c.Order()

			sdm, err := New([]string{"Q"})
			assert.Nil(t, err)
			assert.Nil(t, c.ApplyTo(sdm))
			assert.Nil(t, sdm.ProjectMeasurement("Q", 0))

			assert.InDelta(t, 0.5*(1+math.Exp(-1000/tt.t2)), sdm.Trace(), 1e-12)
		})
	}
}

func TestTwoQubitChannelStaysPhysical(t *testing.T) {
	c := circuit.New("tpcp")
	assert.Nil(t, c.AddQubit("A", 30000, 30000))
	assert.Nil(t, c.AddQubit("B", 30000, 30000))

	mustAdd := func(name string, qubits []string, time float64, params ...float64) {
		_, err := c.AddGateByName(name, qubits, time, params...)
		assert.Nil(t, err)
	}
	mustAdd("rotate_y", []string{"A"}, 0, 1.2)
	mustAdd("rotate_y", []string{"B"}, 0, 0.2)
	mustAdd("rotate_z", []string{"A"}, 1, 0.1)
	mustAdd("rotate_x", []string{"B"}, 1, 0.3)
	mustAdd("cphase", []string{"A", "B"}, 2)
	c.Order()

	sdm, err := New([]string{"A", "B"})
	assert.Nil(t, err)
	for i := 0; i < 100; i++ {
		assert.Nil(t, c.ApplyTo(sdm))
		diag := sdm.GetDiag()
		sum := 0.0
		for _, d := range diag {
			assert.Greater(t, d, 0.0)
			sum += d
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestCPhaseRotationFullTurn(t *testing.T) {
	c := circuit.New("cphase rotation")
	assert.Nil(t, c.AddIdealQubit("A"))
	assert.Nil(t, c.AddIdealQubit("B"))

	c.AddRotateY("A", 0, 1.2)
	c.AddRotateY("B", 0, 1.2)
	for ti := 1; ti <= 5; ti++ {
		c.AddGate(circuit.NewCPhaseRotation("A", "B", float64(ti), 2*math.Pi/5))
	}
	c.AddRotateY("A", 6, -1.2)
	c.AddRotateY("B", 6, -1.2)
	c.Order()

	sdm, err := New([]string{"A", "B"})
	assert.Nil(t, err)
	assert.Nil(t, c.ApplyTo(sdm))

	diag := sdm.GetDiag()
	assert.InDelta(t, 1.0, diag[0], 1e-12)
	for i := 1; i < len(diag); i++ {
		assert.InDelta(t, 0.0, diag[i], 1e-12)
	}
}

func TestEulerRotationUndone(t *testing.T) {
	theta, lamda, phi := 0.3, 0.7, 4.2

	c := circuit.New("euler")
	assert.Nil(t, c.AddIdealQubit("A"))
	c.AddGate(circuit.NewRotateEuler("A", 0, theta, lamda, phi))
	c.AddGate(circuit.NewRotateEuler("A", 10, -theta, -phi, -lamda))
	c.Order()

	sdm, err := New([]string{"A"})
	assert.Nil(t, err)
	assert.Nil(t, c.ApplyTo(sdm))

	diag := sdm.GetDiag()
	assert.InDelta(t, 1.0, diag[0], 1e-12)
	assert.InDelta(t, 0.0, diag[1], 1e-12)
}

func TestClassicalNOTOnState(t *testing.T) {
	sdm, err := New([]string{"A"})
	assert.Nil(t, err)

	c := circuit.New("classical not")
	assert.Nil(t, c.AddClassicalBit("A"))
	c.AddGate(circuit.NewClassicalNOT("A", 0))
	c.Order()

	v, err := sdm.GetBit("A")
	assert.Nil(t, err)
	assert.Equal(t, 0, v)

	assert.Nil(t, c.ApplyTo(sdm))

	v, err = sdm.GetBit("A")
	assert.Nil(t, err)
	assert.Equal(t, 1, v)
}
