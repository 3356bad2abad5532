// Package sparsedm holds the density-matrix state of a circuit replay in a
// mixed representation: bits with a definite classical value stay in a
// cheap partition map, and only the coherent part lives in a dense vector
// over the single-qubit Pauli basis. Measurement projections move qubits
// back to the classical partition, so the dense part stays as small as the
// circuit allows.
package sparsedm

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/densim-team/densim-engine/simcore/circuit"
)

// SparseDM is a sparse density matrix over a fixed set of named bits.
// All bits start classical with value 0 and total probability 1.
type SparseDM struct {
	classical map[string]int
	idx       map[string]int
	dense     *fullDM

	// classicalProbability carries the accumulated weight of the sampled
	// measurement branch. The overall trace is this weight times the
	// dense trace.
	classicalProbability float64
}

var _ circuit.State = (*SparseDM)(nil)

// New builds a state over the named bits, all classical 0.
func New(bits []string) (*SparseDM, error) {
	s := &SparseDM{
		classical:            map[string]int{},
		idx:                  map[string]int{},
		dense:                newFullDM(),
		classicalProbability: 1,
	}
	for _, b := range bits {
		if _, ok := s.classical[b]; ok {
			return nil, &circuit.DuplicateEntityError{Name: b}
		}
		s.classical[b] = 0
	}
	return s, nil
}

// Classical returns a copy of the classical partition.
func (s *SparseDM) Classical() map[string]int {
	m := make(map[string]int, len(s.classical))
	for k, v := range s.classical {
		m[k] = v
	}
	return m
}

// ClassicalProbability returns the accumulated branch weight.
func (s *SparseDM) ClassicalProbability() float64 { return s.classicalProbability }

// EnsureDense promotes a classical bit into the dense part. Bits already
// dense are left alone.
func (s *SparseDM) EnsureDense(bit string) error {
	if _, ok := s.idx[bit]; ok {
		return nil
	}
	v, ok := s.classical[bit]
	if !ok {
		return &circuit.UnknownQubitError{Name: bit}
	}
	delete(s.classical, bit)
	s.idx[bit] = s.dense.addQubit(v)
	return nil
}

// EnsureClassical fails unless the bit currently holds a definite value.
func (s *SparseDM) EnsureClassical(bit string) error {
	if _, ok := s.classical[bit]; ok {
		return nil
	}
	if _, ok := s.idx[bit]; ok {
		return fmt.Errorf("bit %s is in a superposition, cannot treat as classical", bit)
	}
	return &circuit.UnknownQubitError{Name: bit}
}

func (s *SparseDM) GetBit(bit string) (int, error) {
	if err := s.EnsureClassical(bit); err != nil {
		return 0, err
	}
	return s.classical[bit], nil
}

func (s *SparseDM) SetBit(bit string, value int) error {
	if err := s.EnsureClassical(bit); err != nil {
		return err
	}
	s.classical[bit] = value
	return nil
}

func (s *SparseDM) ApplySinglePTM(qubit string, p *mat.Dense) error {
	if err := s.EnsureDense(qubit); err != nil {
		return err
	}
	s.dense.applySingle(s.idx[qubit], p)
	return nil
}

func (s *SparseDM) ApplyTwoPTM(qubitA, qubitB string, p *mat.Dense) error {
	if qubitA == qubitB {
		return fmt.Errorf("two-qubit gate needs distinct qubits, got %s twice", qubitA)
	}
	if err := s.EnsureDense(qubitA); err != nil {
		return err
	}
	if err := s.EnsureDense(qubitB); err != nil {
		return err
	}
	s.dense.applyTwo(s.idx[qubitA], s.idx[qubitB], p)
	return nil
}

// PeekMeasurement reads the projective-outcome weights of a qubit. Bits
// still in the classical partition are read without densifying them.
func (s *SparseDM) PeekMeasurement(qubit string) (p0, p1 float64, err error) {
	if v, ok := s.classical[qubit]; ok {
		t := s.dense.trace()
		if v == 0 {
			return t, 0, nil
		}
		return 0, t, nil
	}
	slot, ok := s.idx[qubit]
	if !ok {
		return 0, 0, &circuit.UnknownQubitError{Name: qubit}
	}
	p0, p1 = s.dense.partialDiag(slot)
	return p0, p1, nil
}

// ProjectMeasurement collapses a qubit onto the given outcome and moves it
// back to the classical partition. The lost branch weight stays lost;
// callers renormalize when they need a unit trace. Projecting a classical
// bit onto its stored value is a no-op; forcing the other branch leaves no
// weight behind.
func (s *SparseDM) ProjectMeasurement(qubit string, outcome int) error {
	if v, ok := s.classical[qubit]; ok {
		if v != outcome {
			s.dense.scale(0)
			s.classical[qubit] = outcome
		}
		return nil
	}
	slot, ok := s.idx[qubit]
	if !ok {
		return &circuit.UnknownQubitError{Name: qubit}
	}
	s.dense.project(slot, outcome)
	delete(s.idx, qubit)
	for q, k := range s.idx {
		if k > slot {
			s.idx[q] = k - 1
		}
	}
	s.classical[qubit] = outcome
	return nil
}

func (s *SparseDM) MultiplyProbability(p float64) {
	s.classicalProbability *= p
}

// Trace returns the total remaining probability weight of the state.
func (s *SparseDM) Trace() float64 {
	return s.classicalProbability * s.dense.trace()
}

// Renormalize rescales the dense part to unit trace and resets the
// accumulated branch weight.
func (s *SparseDM) Renormalize() {
	if t := s.dense.trace(); t != 0 {
		s.dense.scale(1 / t)
	}
	s.classicalProbability = 1
}

// GetDiag returns the computational-basis diagonal of the dense part. The
// first dense-promoted qubit is the least significant bit of the index.
func (s *SparseDM) GetDiag() []float64 {
	return s.dense.diag()
}
