package session

import (
	"path/filepath"
	"strings"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"object-fitter/internal/commands"
	"object-fitter/internal/config"
	"object-fitter/internal/fitter"
	"object-fitter/internal/logger"
)

type printer struct {
	info  []string
	plain []string
}

func (p *printer) Info(msg string)     { p.info = append(p.info, msg) }
func (p *printer) Println(text string) { p.plain = append(p.plain, text) }

func setup(t *testing.T, cfg config.Config) (*Session, *commands.Registry, *printer) {
	t.Helper()
	log, err := logger.New(filepath.Join(t.TempDir(), "session.txt"))
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	out := &printer{}
	s, err := New(cfg, log, out)
	require.NoError(t, err)
	require.NoError(t, s.Load(filepath.Join("testdata", "room.yaml"), false))
	reg := commands.NewRegistry()
	s.Register(reg)
	return s, reg, out
}

func run(t *testing.T, reg *commands.Registry, line string) error {
	t.Helper()
	args, ok, err := commands.Parse(line)
	require.NoError(t, err)
	require.True(t, ok)
	return reg.Execute(args)
}

func transform(t *testing.T, s *Session, name string) (math32.Vector3, math32.Vector3) {
	t.Helper()
	o, ok := s.Scene.Object(name)
	require.True(t, ok)
	return o.Position, o.Scale
}

func TestFitBetweenWalls(t *testing.T) {
	s, reg, out := setup(t, config.Default())

	require.NoError(t, run(t, reg, "fit --target shelf --axes x --x left-wall,right-wall"))
	pos, scale := transform(t, s, "shelf")
	assert.Equal(t, math32.Vec3(0, 1, 0), pos)
	assert.Equal(t, math32.Vec3(6, 1, 1), scale)
	assert.Equal(t, []string{fitter.DoneMessage}, out.info)
	assert.Equal(t, []string{"shelf"}, s.Scene.Modified())
	assert.True(t, s.History.CanUndo())
}

func TestFitGapSpan(t *testing.T) {
	s, reg, _ := setup(t, config.Default())
	require.NoError(t, run(t, reg, "cmd fit -t shelf --axes x --x right-wall,left-wall --span gap --center=false"))
	pos, scale := transform(t, s, "shelf")
	assert.Equal(t, math32.Vec3(0.5, 1, 0), pos)
	assert.Equal(t, math32.Vec3(4, 1, 1), scale)
}

func TestFitUsesConfigDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Axes = fitter.NewAxisSet(fitter.Y)
	cfg.Scale = false
	s, reg, _ := setup(t, cfg)

	require.NoError(t, run(t, reg, "fit --target shelf --y floor,left-wall"))
	pos, scale := transform(t, s, "shelf")
	assert.Equal(t, math32.Vec3(0.5, 0, 0), pos)
	assert.Equal(t, math32.Vec3(1, 1, 1), scale)

	require.NoError(t, run(t, reg, "fit --target shelf --y floor,left-wall --scale"))
	_, scale = transform(t, s, "shelf")
	assert.Equal(t, math32.Vec3(1, 8, 1), scale)
}

func TestFitErrorsLeaveSceneUntouched(t *testing.T) {
	tests := []struct {
		line string
		is   error
		msg  string
	}{
		{"fit --axes x --x left-wall,right-wall", fitter.ErrMissingTarget, ""},
		{"fit --target shelf --axes xy --x left-wall,right-wall", fitter.ErrMissingReference, "y-axis bounding object A is not set"},
		{"fit --target shelf --axes x --x left-wall", fitter.ErrMissingReference, "x-axis bounding object B is not set"},
		{"fit --target anchor --axes x --x left-wall,right-wall", fitter.ErrNoMeshBounds, ""},
		{"fit --target shelf --axes x --x left-wall,anchor", fitter.ErrNoMeshBounds, ""},
		{"fit --target floor --axes y --y left-wall,right-wall", fitter.ErrDegenerateBounds, ""},
		{"fit --target shelf --axes x --x left-wall,ghost", nil, `no object "ghost"`},
		{"fit --target shelf --x a,b,c", nil, "takes two objects"},
		{"fit --target shelf --axes w", nil, "invalid argument"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s, reg, out := setup(t, config.Default())
			err := run(t, reg, tt.line)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
			assert.Empty(t, out.info)
			assert.False(t, s.Scene.Dirty())
			assert.False(t, s.History.CanUndo())
			pos, scale := transform(t, s, "shelf")
			assert.Equal(t, math32.Vec3(0.5, 1, 0), pos)
			assert.Equal(t, math32.Vec3(1, 1, 1), scale)
		})
	}
}

func TestFitIgnoresNamesOnDisabledAxes(t *testing.T) {
	s, reg, _ := setup(t, config.Default())
	require.NoError(t, run(t, reg, "fit --target shelf --axes x --x left-wall,right-wall --y nosuch,nosuch --z ghost"))
	_, scale := transform(t, s, "shelf")
	assert.Equal(t, math32.Vec3(6, 1, 1), scale)

	err := run(t, reg, "fit --target shelf --axes xyz --z ghost --y nosuch,floor --x left-wall,right-wall")
	assert.ErrorContains(t, err, `no object "nosuch"`)
}

func TestFitTwiceRecordsOnce(t *testing.T) {
	s, reg, _ := setup(t, config.Default())
	line := "fit --target shelf --axes x --x left-wall,right-wall"
	require.NoError(t, run(t, reg, line))
	require.NoError(t, run(t, reg, line))
	recs, idx := s.History.Records()
	assert.Len(t, recs, 1)
	assert.Equal(t, 1, idx)
}

func TestUndoRedoCommands(t *testing.T) {
	s, reg, out := setup(t, config.Default())
	require.NoError(t, run(t, reg, "fit --target shelf --axes x --x left-wall,right-wall"))

	require.NoError(t, run(t, reg, "undo"))
	pos, scale := transform(t, s, "shelf")
	assert.Equal(t, math32.Vec3(0.5, 1, 0), pos)
	assert.Equal(t, math32.Vec3(1, 1, 1), scale)
	assert.Equal(t, "Undid Fit object to bounds (shelf)", out.info[1])

	require.NoError(t, run(t, reg, "history"))
	assert.Equal(t, "  1 Fit object to bounds (shelf) (undone)", out.plain[0])

	require.NoError(t, run(t, reg, "redo"))
	_, scale = transform(t, s, "shelf")
	assert.Equal(t, math32.Vec3(6, 1, 1), scale)

	assert.Error(t, run(t, reg, "redo"))
	require.NoError(t, run(t, reg, "undo"))
	assert.Error(t, run(t, reg, "undo"))
}

func TestSaveAndReload(t *testing.T) {
	s, reg, out := setup(t, config.Default())
	require.NoError(t, run(t, reg, "fit --target shelf --axes x --x left-wall,right-wall"))

	err := run(t, reg, "load testdata/room.yaml")
	assert.ErrorContains(t, err, "unsaved changes to shelf")

	path := filepath.Join(t.TempDir(), "out", "room.yaml")
	require.NoError(t, run(t, reg, "save "+path))
	assert.False(t, s.Scene.Dirty())
	assert.Equal(t, "Saved "+path, out.info[len(out.info)-1])

	require.NoError(t, run(t, reg, "load testdata/room.yaml"))
	_, scale := transform(t, s, "shelf")
	assert.Equal(t, math32.Vec3(1, 1, 1), scale)
	assert.False(t, s.History.CanUndo())

	require.NoError(t, run(t, reg, "load "+path))
	_, scale = transform(t, s, "shelf")
	assert.Equal(t, math32.Vec3(6, 1, 1), scale)
}

func TestLoadForce(t *testing.T) {
	s, reg, _ := setup(t, config.Default())
	require.NoError(t, run(t, reg, "fit --target shelf --axes x --x left-wall,right-wall"))
	require.NoError(t, run(t, reg, "load --force testdata/room.yaml"))
	assert.False(t, s.Scene.Dirty())
	assert.Error(t, run(t, reg, "load"))
	assert.Error(t, run(t, reg, "load testdata/missing.yaml"))
}

func TestListAndShow(t *testing.T) {
	_, reg, out := setup(t, config.Default())
	require.NoError(t, run(t, reg, "fit --target shelf --axes x --x left-wall,right-wall"))

	require.NoError(t, run(t, reg, "list"))
	lines := strings.Split(out.plain[0], "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "  left-wall        cube", lines[0])
	assert.Equal(t, "* shelf            bounds (2, 0.5, 1)", lines[3])
	assert.Equal(t, "  anchor           (no mesh)", lines[4])

	require.NoError(t, run(t, reg, "show right-wall"))
	assert.Equal(t, strings.Join([]string{
		"right-wall",
		"  mesh      cube",
		"  position  (5, 0, 0)",
		"  scale     (2, 4, 10)",
		"  size      (2, 4, 10)",
	}, "\n"), out.plain[1])

	assert.Error(t, run(t, reg, "show ghost"))
	assert.Error(t, run(t, reg, "show"))
}

func TestHelpListsCommands(t *testing.T) {
	_, reg, out := setup(t, config.Default())
	require.NoError(t, run(t, reg, "help"))
	for _, name := range []string{"fit", "load", "save", "undo", "redo", "history", "list", "show", "exit"} {
		assert.Contains(t, out.plain[0], name)
	}
}

func TestNewWithPrimitivesDir(t *testing.T) {
	cfg := config.Default()
	cfg.PrimitivesDir = filepath.Join(t.TempDir(), "missing")
	log, err := logger.New(filepath.Join(t.TempDir(), "log.txt"))
	require.NoError(t, err)
	defer log.Close()
	_, err = New(cfg, log, &printer{})
	assert.Error(t, err)
}
