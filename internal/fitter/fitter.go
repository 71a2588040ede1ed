// Package fitter repositions and rescales a target object so that its mesh bounds span
// the extents of a pair of bounding reference objects along selected axes.
//
// The computation is pure: Compute only reads the bodies it is given. Fit applies a
// computed result through a TransformMutator and reports it to an optional
// ChangeRecorder, which is how a host wires in undo history and save tracking.
package fitter

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// FitAction is the action label recorded for every applied fit.
const FitAction = "Fit object to bounds"

// DoneMessage is the user-facing message for a successful fit.
const DoneMessage = "All done!"

// Body is an object taking part in a fit, either as the target or as a reference.
// MeshBounds is expressed in the body's own local space, before its scale is applied;
// an empty box (see math32.Box3.IsEmpty) means the body has no mesh bounds.
type Body interface {
	Name() string
	LocalPosition() math32.Vector3
	LocalScale() math32.Vector3
	MeshBounds() math32.Box3
}

// BoundingPair holds the two references delimiting one axis. Their order does not matter.
type BoundingPair struct {
	A Body
	B Body
}

// Transform is a local position and scale.
type Transform struct {
	Position math32.Vector3
	Scale    math32.Vector3
}

// TransformMutator sets the local transform of the named object.
type TransformMutator interface {
	SetLocalTransform(name string, position, scale math32.Vector3) error
}

// ChangeRecorder is told about every applied fit, right after the mutation.
// RecordChange feeds undo history; MarkModified flags the object for saving.
type ChangeRecorder interface {
	RecordChange(action, name string, before, after Transform)
	MarkModified(name string)
}

// Request describes one fit. Pairs only needs entries for the enabled axes.
type Request struct {
	Target Body
	Axes   AxisSet
	Pairs  map[Axis]BoundingPair
	Center bool
	Scale  bool
}

// Result is the outcome of a fit. Before is the target's transform when the fit started;
// After holds the computed position (when Centered) and scale (when Scaled), with the
// remaining values copied from Before.
type Result struct {
	Target   string
	Before   Transform
	After    Transform
	Centered bool
	Scaled   bool
	Changed  bool // set by Fit when the target's transform was actually updated
}

// Message returns the user-facing summary of a successful fit.
func (r Result) Message() string {
	return DoneMessage
}

// Fitter computes and applies fits with a fixed span mode.
type Fitter struct {
	Span SpanMode
}

// New returns a Fitter using the given span mode.
func New(span SpanMode) *Fitter {
	return &Fitter{Span: span}
}

// ScaledBounds returns b's mesh bounds with the min and max corners multiplied
// component-wise by b's local scale. The corners are re-sorted, so a negative scale
// still yields a box with Min <= Max.
func ScaledBounds(b Body) math32.Box3 {
	mb := b.MeshBounds()
	s := b.LocalScale()
	out := math32.B3Empty()
	out.ExpandByPoint(mb.Min.Mul(s))
	out.ExpandByPoint(mb.Max.Mul(s))
	return out
}

// AdjustedExtent returns the coordinate of one face of ref's scaled bounds on axis:
// ref's local position on that axis minus the half-extent when negative is true,
// plus the half-extent otherwise. The bounds center offset is not applied; the
// reference's pivot is taken as the middle of its bounds.
func AdjustedExtent(ref Body, axis Axis, negative bool) float32 {
	half := ScaledBounds(ref).Size().Dim(axis.dim()) / 2
	pos := ref.LocalPosition().Dim(axis.dim())
	if negative {
		return pos - half
	}
	return pos + half
}

// CenteredPosition returns target's local position with every enabled axis moved to
// the midpoint of that axis' span. Disabled axes keep the target's current value.
func (f *Fitter) CenteredPosition(target Body, axes AxisSet, pairs map[Axis]BoundingPair) (math32.Vector3, error) {
	if target == nil {
		return math32.Vector3{}, ErrMissingTarget
	}
	if err := checkPairs(axes, pairs); err != nil {
		return math32.Vector3{}, err
	}
	pos := target.LocalPosition()
	for _, a := range axes.Axes() {
		low, high := f.span(pairs[a], a)
		v := low + (high-low)/2
		if !finite(v) {
			return math32.Vector3{}, &DegenerateBoundsError{Object: target.Name(), Axis: a, Size: high - low}
		}
		pos.SetDim(a.dim(), v)
	}
	return pos, nil
}

// FittedScale returns target's local scale with every enabled axis set so that the
// target's unscaled mesh size times the scale equals that axis' span.
// Disabled axes keep the target's current value. A target mesh with zero or
// non-finite size on an enabled axis yields a *DegenerateBoundsError.
func (f *Fitter) FittedScale(target Body, axes AxisSet, pairs map[Axis]BoundingPair) (math32.Vector3, error) {
	if target == nil {
		return math32.Vector3{}, ErrMissingTarget
	}
	mb := target.MeshBounds()
	if mb.IsEmpty() {
		return math32.Vector3{}, &MeshBoundsError{Object: target.Name()}
	}
	if err := checkPairs(axes, pairs); err != nil {
		return math32.Vector3{}, err
	}
	size := mb.Size()
	scale := target.LocalScale()
	for _, a := range axes.Axes() {
		sz := size.Dim(a.dim())
		if sz <= 0 || !finite(sz) {
			return math32.Vector3{}, &DegenerateBoundsError{Object: target.Name(), Axis: a, Size: sz}
		}
		low, high := f.span(pairs[a], a)
		v := math32.Abs(low-high) / sz
		if !finite(v) {
			return math32.Vector3{}, &DegenerateBoundsError{Object: target.Name(), Axis: a, Size: sz}
		}
		scale.SetDim(a.dim(), v)
	}
	return scale, nil
}

// Compute validates req and returns the fitted transform without touching anything.
func (f *Fitter) Compute(req Request) (Result, error) {
	if err := validate(req); err != nil {
		return Result{}, err
	}
	before := Transform{Position: req.Target.LocalPosition(), Scale: req.Target.LocalScale()}
	res := Result{Target: req.Target.Name(), Before: before, After: before}
	if req.Center {
		pos, err := f.CenteredPosition(req.Target, req.Axes, req.Pairs)
		if err != nil {
			return Result{}, err
		}
		res.After.Position = pos
		res.Centered = true
	}
	if req.Scale {
		scale, err := f.FittedScale(req.Target, req.Axes, req.Pairs)
		if err != nil {
			return Result{}, err
		}
		res.After.Scale = scale
		res.Scaled = true
	}
	return res, nil
}

// Fit computes req and applies the result to the target through m in a single call.
// When the target already has the fitted transform nothing is applied or recorded.
// rec may be nil. Nothing is mutated when validation or computation fails.
func (f *Fitter) Fit(req Request, m TransformMutator, rec ChangeRecorder) (Result, error) {
	if m == nil {
		return Result{}, fmt.Errorf("fitter: no transform mutator")
	}
	res, err := f.Compute(req)
	if err != nil {
		return Result{}, err
	}
	if res.After == res.Before {
		return res, nil
	}
	if err := m.SetLocalTransform(res.Target, res.After.Position, res.After.Scale); err != nil {
		return Result{}, fmt.Errorf("fitter: apply %s: %w", res.Target, err)
	}
	res.Changed = true
	if rec != nil {
		rec.RecordChange(FitAction, res.Target, res.Before, res.After)
		rec.MarkModified(res.Target)
	}
	return res, nil
}

// span returns the (low, high) face coordinates delimiting pair on axis.
func (f *Fitter) span(pair BoundingPair, axis Axis) (low, high float32) {
	lo, hi := order(pair, axis)
	if f.Span == Gap {
		return AdjustedExtent(lo, axis, false), AdjustedExtent(hi, axis, true)
	}
	return AdjustedExtent(lo, axis, true), AdjustedExtent(hi, axis, false)
}

// order returns the pair's members sorted by local position on axis. When both sit at
// the same position the larger box encloses the other, so it delimits both ends.
func order(pair BoundingPair, axis Axis) (low, high Body) {
	d := axis.dim()
	pa, pb := pair.A.LocalPosition().Dim(d), pair.B.LocalPosition().Dim(d)
	if pa < pb {
		return pair.A, pair.B
	}
	if pa > pb {
		return pair.B, pair.A
	}
	ea, eb := ScaledBounds(pair.A).Size().Dim(d), ScaledBounds(pair.B).Size().Dim(d)
	if ea >= eb {
		return pair.A, pair.A
	}
	return pair.B, pair.B
}

func validate(req Request) error {
	if req.Target == nil {
		return ErrMissingTarget
	}
	if req.Target.MeshBounds().IsEmpty() {
		return &MeshBoundsError{Object: req.Target.Name()}
	}
	return checkPairs(req.Axes, req.Pairs)
}

// checkPairs requires both members, with mesh bounds, for every enabled axis.
// Pairs of disabled axes are not looked at.
func checkPairs(axes AxisSet, pairs map[Axis]BoundingPair) error {
	if axes.Empty() {
		return ErrNoAxes
	}
	for _, a := range axes.Axes() {
		p := pairs[a]
		if p.A == nil {
			return &MissingReferenceError{Axis: a, Slot: "A"}
		}
		if p.B == nil {
			return &MissingReferenceError{Axis: a, Slot: "B"}
		}
		for _, ref := range []Body{p.A, p.B} {
			if ref.MeshBounds().IsEmpty() {
				return &MeshBoundsError{Object: ref.Name()}
			}
		}
	}
	return nil
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
