package circuit

import "fmt"

// DuplicateEntityError is returned when a bit is added under a name that
// already exists in the circuit. Raised at add time.
type DuplicateEntityError struct {
	Name string
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("trying to add bit with name %s that already exists in the circuit", e.Name)
}

// UnknownQubitError is returned when a gate references a bit name that is
// not present in the circuit. Raised at apply time, not at add time,
// because bits may still be added after the gate.
type UnknownQubitError struct {
	Name string
}

func (e *UnknownQubitError) Error() string {
	return fmt.Sprintf("gate references qubit %s which is not in the circuit", e.Name)
}

// UnknownGateError is returned by the gate registry for an unregistered
// gate name.
type UnknownGateError struct {
	Name string
}

func (e *UnknownGateError) Error() string {
	return fmt.Sprintf("gate type %s is not registered", e.Name)
}
