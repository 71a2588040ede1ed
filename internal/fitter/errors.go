package fitter

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTarget is returned when no object to fit was given.
	ErrMissingTarget = errors.New("object to fit is not set")

	// ErrMissingReference matches every *MissingReferenceError.
	ErrMissingReference = errors.New("bounding object is not set")

	// ErrNoMeshBounds matches every *MeshBoundsError.
	ErrNoMeshBounds = errors.New("object has no mesh bounds")

	// ErrDegenerateBounds matches every *DegenerateBoundsError.
	ErrDegenerateBounds = errors.New("degenerate bounds")

	// ErrNoAxes is returned when the request enables no axis.
	ErrNoAxes = errors.New("no fitting axis selected")
)

// MissingReferenceError reports an enabled axis whose bounding pair lacks a member.
type MissingReferenceError struct {
	Axis Axis
	Slot string // "A" or "B"
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("%s-axis bounding object %s is not set", e.Axis, e.Slot)
}

func (e *MissingReferenceError) Is(target error) bool {
	return target == ErrMissingReference
}

// MeshBoundsError reports an object taking part in a fit that has no mesh bounds.
type MeshBoundsError struct {
	Object string
}

func (e *MeshBoundsError) Error() string {
	return fmt.Sprintf("%s has no mesh bounds", e.Object)
}

func (e *MeshBoundsError) Is(target error) bool {
	return target == ErrNoMeshBounds
}

// DegenerateBoundsError reports bounds that cannot produce a finite fit on Axis,
// e.g. a target mesh with zero size on an axis it must be scaled along.
type DegenerateBoundsError struct {
	Object string
	Axis   Axis
	Size   float32
}

func (e *DegenerateBoundsError) Error() string {
	return fmt.Sprintf("%s has degenerate bounds on the %s axis (size %g)", e.Object, e.Axis, e.Size)
}

func (e *DegenerateBoundsError) Is(target error) bool {
	return target == ErrDegenerateBounds
}
