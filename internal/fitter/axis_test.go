package fitter

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAxes(t *testing.T) {
	tests := []struct {
		in   string
		want AxisSet
	}{
		{"x", NewAxisSet(X)},
		{"Y", NewAxisSet(Y)},
		{"xy", NewAxisSet(X, Y)},
		{"zx", NewAxisSet(X, Z)},
		{"y, z", NewAxisSet(Y, Z)},
		{"X+Y+Z", AllAxes},
		{"xyz", AllAxes},
		{"xx", NewAxisSet(X)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAxes(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAxesErrors(t *testing.T) {
	for _, in := range []string{"", " , ", "w", "xw"} {
		_, err := ParseAxes(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestAxisSetString(t *testing.T) {
	assert.Equal(t, "xyz", AllAxes.String())
	assert.Equal(t, "xz", NewAxisSet(Z, X).String())
	assert.Equal(t, "none", AxisSet(0).String())
	assert.Equal(t, []Axis{Y, Z}, NewAxisSet(Z, Y).Axes())
	assert.False(t, NewAxisSet(X).Has(Axis(7)))
}

func TestAxisSetText(t *testing.T) {
	var s AxisSet
	require.NoError(t, s.UnmarshalText([]byte("yx")))
	assert.Equal(t, NewAxisSet(X, Y), s)
	b, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "xy", string(b))
	assert.Error(t, s.Set("q"))
	assert.Equal(t, NewAxisSet(X, Y), s)
}

func TestParseSpanMode(t *testing.T) {
	m, err := ParseSpanMode("Gap")
	require.NoError(t, err)
	assert.Equal(t, Gap, m)

	m, err = ParseSpanMode(" envelope ")
	require.NoError(t, err)
	assert.Equal(t, Envelope, m)

	_, err = ParseSpanMode("between")
	assert.Error(t, err)

	var sm SpanMode
	require.NoError(t, sm.UnmarshalText([]byte("gap")))
	assert.Equal(t, "gap", sm.String())
}

func TestFlagValues(t *testing.T) {
	axes, span := AllAxes, Envelope
	fs := pflag.NewFlagSet("fit", pflag.ContinueOnError)
	fs.Var(&axes, "axes", "")
	fs.Var(&span, "span", "")
	assert.Equal(t, "axes", fs.Lookup("axes").Value.Type())
	assert.Equal(t, "span", fs.Lookup("span").Value.Type())
	assert.Equal(t, "xyz", fs.Lookup("axes").DefValue)

	require.NoError(t, fs.Parse([]string{"--axes", "z,x", "--span", "gap"}))
	assert.Equal(t, NewAxisSet(X, Z), axes)
	assert.Equal(t, Gap, span)

	assert.Error(t, span.Set("between"))
	assert.Equal(t, Gap, span)
	b, err := span.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "gap", string(b))
}
