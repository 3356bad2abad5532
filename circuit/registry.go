package circuit

import (
	"fmt"

	"github.com/densim-team/densim-engine/simcore/common"
)

// Factory builds a gate from bit names, a time stamp and numeric
// parameters.
type Factory func(qubits []string, time float64, params ...float64) (Gate, error)

// gateFactories maps normalized gate names to their factories. Lookup
// normalizes case, underscores and hyphens, so "CPhase", "cphase" and
// "c_phase" all resolve to the same entry.
var gateFactories = map[string]Factory{
	"hadamard":       factory1q0p("hadamard", func(q string, t float64) Gate { return NewHadamard(q, t) }),
	"rotatex":        factory1q1p("rotatex", func(q string, t, a float64) Gate { return NewRotateX(q, t, a) }),
	"rotatey":        factory1q1p("rotatey", func(q string, t, a float64) Gate { return NewRotateY(q, t, a) }),
	"rotatez":        factory1q1p("rotatez", func(q string, t, a float64) Gate { return NewRotateZ(q, t, a) }),
	"rotateeuler":    makeRotateEuler,
	"cphase":         factory2q0p("cphase", func(a, b string, t float64) Gate { return NewCPhase(a, b, t) }),
	"cphaserotation": makeCPhaseRotation,
	"classicalnot":   factory1q0p("classicalnot", func(q string, t float64) Gate { return NewClassicalNOT(q, t) }),
	"classicalcnot":  factory2q0p("classicalcnot", func(a, b string, t float64) Gate { return NewClassicalCNOT(a, b, t) }),
	"ampphdamp":      makeAmpPhDamp,
}

// MakeGate builds a gate by registered name.
func MakeGate(name string, qubits []string, time float64, params ...float64) (Gate, error) {
	f, ok := gateFactories[common.NormalizeGateName(name)]
	if !ok {
		return nil, &UnknownGateError{Name: name}
	}
	return f(qubits, time, params...)
}

// KnownGateName reports whether a name resolves in the registry.
func KnownGateName(name string) bool {
	_, ok := gateFactories[common.NormalizeGateName(name)]
	return ok
}

func checkArity(name string, qubits []string, params []float64, nq, np int) error {
	if len(qubits) != nq {
		return fmt.Errorf("gate %s takes %d bit(s), got %d", name, nq, len(qubits))
	}
	if len(params) != np {
		return fmt.Errorf("gate %s takes %d parameter(s), got %d", name, np, len(params))
	}
	return nil
}

func factory1q0p(name string, build func(q string, t float64) Gate) Factory {
	return func(qubits []string, time float64, params ...float64) (Gate, error) {
		if err := checkArity(name, qubits, params, 1, 0); err != nil {
			return nil, err
		}
		return build(qubits[0], time), nil
	}
}

func factory1q1p(name string, build func(q string, t, p float64) Gate) Factory {
	return func(qubits []string, time float64, params ...float64) (Gate, error) {
		if err := checkArity(name, qubits, params, 1, 1); err != nil {
			return nil, err
		}
		return build(qubits[0], time, params[0]), nil
	}
}

func factory2q0p(name string, build func(a, b string, t float64) Gate) Factory {
	return func(qubits []string, time float64, params ...float64) (Gate, error) {
		if err := checkArity(name, qubits, params, 2, 0); err != nil {
			return nil, err
		}
		return build(qubits[0], qubits[1], time), nil
	}
}

func makeRotateEuler(qubits []string, time float64, params ...float64) (Gate, error) {
	if err := checkArity("rotateeuler", qubits, params, 1, 3); err != nil {
		return nil, err
	}
	return NewRotateEuler(qubits[0], time, params[0], params[1], params[2]), nil
}

func makeCPhaseRotation(qubits []string, time float64, params ...float64) (Gate, error) {
	if err := checkArity("cphaserotation", qubits, params, 2, 1); err != nil {
		return nil, err
	}
	return NewCPhaseRotation(qubits[0], qubits[1], time, params[0]), nil
}

func makeAmpPhDamp(qubits []string, time float64, params ...float64) (Gate, error) {
	if err := checkArity("ampphdamp", qubits, params, 1, 3); err != nil {
		return nil, err
	}
	return NewAmpPhDamp(qubits[0], time, params[0], params[1], params[2]), nil
}
