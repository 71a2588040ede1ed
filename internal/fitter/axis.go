package fitter

import (
	"fmt"
	"strings"

	"cogentcore.org/core/math32"
)

// Axis is one of the three local axes a fit can act on.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// dim maps the axis onto the matching math32 vector component.
func (a Axis) dim() math32.Dims {
	return math32.Dims(a)
}

// AxisSet is a set over {X, Y, Z}; any combination of axes can be enabled.
type AxisSet uint8

// AllAxes enables X, Y and Z.
const AllAxes AxisSet = 1<<X | 1<<Y | 1<<Z

// NewAxisSet returns the set holding the given axes.
func NewAxisSet(axes ...Axis) AxisSet {
	var s AxisSet
	for _, a := range axes {
		s = s.With(a)
	}
	return s
}

// Has reports whether a is enabled.
func (s AxisSet) Has(a Axis) bool {
	return a >= X && a <= Z && s&(1<<a) != 0
}

// With returns s with a enabled.
func (s AxisSet) With(a Axis) AxisSet {
	if a < X || a > Z {
		return s
	}
	return s | 1<<a
}

// Empty reports whether no axis is enabled.
func (s AxisSet) Empty() bool {
	return s&AllAxes == 0
}

// Axes returns the enabled axes in X, Y, Z order.
func (s AxisSet) Axes() []Axis {
	out := make([]Axis, 0, 3)
	for _, a := range []Axis{X, Y, Z} {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// String renders the set in canonical order, e.g. "xz". The empty set is "none".
func (s AxisSet) String() string {
	if s.Empty() {
		return "none"
	}
	var b strings.Builder
	for _, a := range s.Axes() {
		b.WriteString(a.String())
	}
	return b.String()
}

// ParseAxes parses a combination of the letters x, y and z (any case, any order).
// Commas, plus signs, pipes and spaces between letters are ignored, so "XY", "x,y"
// and "y+x" all yield the same set. Empty input and unknown letters are errors.
func ParseAxes(text string) (AxisSet, error) {
	var s AxisSet
	for _, r := range strings.ToLower(text) {
		switch r {
		case 'x':
			s = s.With(X)
		case 'y':
			s = s.With(Y)
		case 'z':
			s = s.With(Z)
		case ',', '+', '|', ' ':
		default:
			return 0, fmt.Errorf("fitter: unknown axis %q in %q", r, text)
		}
	}
	if s.Empty() {
		return 0, fmt.Errorf("fitter: no axis in %q", text)
	}
	return s, nil
}

// Set parses text into s. Together with String and Type it lets an AxisSet be used as a command flag.
func (s *AxisSet) Set(text string) error {
	v, err := ParseAxes(text)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Type names the flag value kind in usage output.
func (s AxisSet) Type() string { return "axes" }

// MarshalText encodes s in its String form.
func (s AxisSet) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses text with ParseAxes.
func (s *AxisSet) UnmarshalText(text []byte) error {
	return s.Set(string(text))
}

// SpanMode selects which faces of a bounding pair delimit the span a target is fitted to.
type SpanMode int

const (
	// Envelope spans the outer footprint of both references: the low reference's
	// negative face to the high reference's positive face.
	Envelope SpanMode = iota

	// Gap spans the free space between the references: the low reference's
	// positive face to the high reference's negative face.
	Gap
)

func (m SpanMode) String() string {
	switch m {
	case Envelope:
		return "envelope"
	case Gap:
		return "gap"
	}
	return fmt.Sprintf("SpanMode(%d)", int(m))
}

// ParseSpanMode parses "envelope" or "gap" (case-insensitive).
func ParseSpanMode(text string) (SpanMode, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "envelope":
		return Envelope, nil
	case "gap":
		return Gap, nil
	}
	return 0, fmt.Errorf("fitter: unknown span mode %q (use envelope or gap)", text)
}

// Set parses text into m, so a SpanMode can be used as a command flag.
func (m *SpanMode) Set(text string) error {
	v, err := ParseSpanMode(text)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Type names the flag value kind in usage output.
func (m SpanMode) Type() string { return "span" }

// MarshalText encodes m in its String form.
func (m SpanMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses text with ParseSpanMode.
func (m *SpanMode) UnmarshalText(text []byte) error {
	return m.Set(string(text))
}
