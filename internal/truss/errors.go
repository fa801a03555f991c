package truss

import (
	"errors"
	"fmt"
)

// Editing errors returned by Structure operations.
var (
	// ErrJointIndex indicates a joint index outside the current joint list.
	ErrJointIndex = errors.New("truss: joint index out of range")

	// ErrJointExists indicates a joint already occupies the requested position.
	ErrJointExists = errors.New("truss: joint already exists at position")

	// ErrSelfBeam indicates a beam whose two endpoints are the same joint.
	ErrSelfBeam = errors.New("truss: beam endpoints must be distinct")

	// ErrDuplicateBeam indicates a beam already connects the two joints.
	ErrDuplicateBeam = errors.New("truss: duplicate beam")

	// ErrAnchorLoad indicates an attempt to load an anchor joint directly.
	ErrAnchorLoad = errors.New("truss: anchors cannot carry external loads")

	// ErrEmpty indicates there is nothing left to undo.
	ErrEmpty = errors.New("truss: structure is empty")

	// ErrInvalidArea indicates a non-positive cross-sectional area.
	ErrInvalidArea = errors.New("truss: cross-sectional area must be positive")
)

// BeamError reports which beam broke the endpoint invariant.
type BeamError struct {
	Beam    int
	J1, J2  int
	Wrapped error
}

func (e *BeamError) Error() string {
	return fmt.Sprintf("beam %d (%d-%d): %v", e.Beam, e.J1, e.J2, e.Wrapped)
}

func (e *BeamError) Unwrap() error {
	return e.Wrapped
}
