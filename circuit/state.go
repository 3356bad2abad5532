package circuit

import "gonum.org/v1/gonum/mat"

// State is the density-matrix backend a circuit is replayed against.
// Implementations (dense or sparse) own the numerics; the circuit layer
// only drives them. A State is exclusively owned by one in-flight replay.
type State interface {
	// ApplySinglePTM applies a 4×4 PTM to the named qubit's marginal.
	ApplySinglePTM(qubit string, p *mat.Dense) error
	// ApplyTwoPTM applies a 16×16 PTM, indexed 4a+b with a addressing
	// the first named qubit.
	ApplyTwoPTM(qubitA, qubitB string, p *mat.Dense) error
	// PeekMeasurement non-destructively reads the two projective-outcome
	// weights of the named qubit.
	PeekMeasurement(qubit string) (p0, p1 float64, err error)
	// ProjectMeasurement collapses the named qubit onto the given branch
	// without renormalizing the remaining trace.
	ProjectMeasurement(qubit string, outcome int) error
	// EnsureClassical fails unless the named bit currently holds a
	// definite classical value.
	EnsureClassical(bit string) error
	GetBit(bit string) (int, error)
	SetBit(bit string, value int) error
	// MultiplyProbability folds a sampler path weight into the state's
	// classical probability.
	MultiplyProbability(p float64)
	Trace() float64
	Renormalize()
}
