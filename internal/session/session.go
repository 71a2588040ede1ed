// Package session binds a scene document, its undo history and the fitter into the
// commands offered by the terminal.
package session

import (
	"errors"
	"fmt"
	"strings"

	"cogentcore.org/core/math32"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"object-fitter/internal/commands"
	"object-fitter/internal/config"
	"object-fitter/internal/fitter"
	"object-fitter/internal/history"
	"object-fitter/internal/logger"
	"object-fitter/internal/primitives"
	"object-fitter/internal/scene"
)

// Printer receives command output.
type Printer interface {
	Info(msg string)
	Println(text string)
}

// Session is the open scene plus everything the commands need to edit it.
type Session struct {
	cfg   config.Config
	log   *logger.Logger
	out   Printer
	prims *primitives.Registry

	Scene   *scene.Scene
	History *history.Stack
}

// New returns a session with an empty scene. Primitive types from cfg.PrimitivesDir
// are added to the built-in ones.
func New(cfg config.Config, log *logger.Logger, out Printer) (*Session, error) {
	prims := primitives.NewRegistry()
	if cfg.PrimitivesDir != "" {
		if err := prims.LoadDir(cfg.PrimitivesDir); err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
	}
	return &Session{
		cfg:     cfg,
		log:     log,
		out:     out,
		prims:   prims,
		Scene:   scene.New(),
		History: history.New(cfg.HistoryLimit),
	}, nil
}

// Load replaces the open scene with the file at path and clears the history.
// Unsaved changes are refused unless force is set.
func (s *Session) Load(path string, force bool) error {
	if s.Scene.Dirty() && !force {
		return fmt.Errorf("unsaved changes to %s; save first or load with --force", strings.Join(s.Scene.Modified(), ", "))
	}
	scn, err := scene.Load(path, s.prims)
	if err != nil {
		return err
	}
	s.Scene = scn
	s.History.Clear()
	s.log.WithFields(logrus.Fields{"path": path, "objects": len(scn.Names())}).Info("scene loaded")
	return nil
}

// FitOptions names the objects of one fit. Empty names are unset.
type FitOptions struct {
	Target string
	Axes   fitter.AxisSet
	Pairs  map[fitter.Axis][2]string
	Center bool
	Scale  bool
	Span   fitter.SpanMode
}

// Fit resolves opts against the open scene and applies the fit, recording it for undo.
// Names given for axes outside opts.Axes are not looked up.
func (s *Session) Fit(opts FitOptions) (fitter.Result, error) {
	req := fitter.Request{
		Axes:   opts.Axes,
		Pairs:  make(map[fitter.Axis]fitter.BoundingPair),
		Center: opts.Center,
		Scale:  opts.Scale,
	}
	var err error
	if req.Target, err = s.body(opts.Target); err != nil {
		return fitter.Result{}, err
	}
	for _, axis := range opts.Axes.Axes() {
		names, ok := opts.Pairs[axis]
		if !ok {
			continue
		}
		var pair fitter.BoundingPair
		if pair.A, err = s.body(names[0]); err != nil {
			return fitter.Result{}, err
		}
		if pair.B, err = s.body(names[1]); err != nil {
			return fitter.Result{}, err
		}
		req.Pairs[axis] = pair
	}

	rec := &history.Recorder{Stack: s.History, Marker: s.Scene}
	res, err := fitter.New(opts.Span).Fit(req, s.Scene, rec)
	if err != nil {
		return fitter.Result{}, err
	}
	s.log.WithFields(logrus.Fields{
		"target":   res.Target,
		"axes":     opts.Axes.String(),
		"span":     opts.Span.String(),
		"changed":  res.Changed,
		"position": formatVec(res.After.Position),
		"scale":    formatVec(res.After.Scale),
	}).Info("fit")
	return res, nil
}

// body looks up name in the open scene. An empty name yields a nil Body.
func (s *Session) body(name string) (fitter.Body, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	o, ok := s.Scene.Object(name)
	if !ok {
		return nil, fmt.Errorf("no object %q in the scene", name)
	}
	return o, nil
}

// Undo reverts the most recent fit.
func (s *Session) Undo() (history.Record, error) {
	rec, err := s.History.Undo(s.Scene)
	if err != nil {
		return rec, err
	}
	s.Scene.MarkModified(rec.Object)
	return rec, nil
}

// Redo reapplies the most recently undone fit.
func (s *Session) Redo() (history.Record, error) {
	rec, err := s.History.Redo(s.Scene)
	if err != nil {
		return rec, err
	}
	s.Scene.MarkModified(rec.Object)
	return rec, nil
}

// Register adds the session's commands to reg.
func (s *Session) Register(reg *commands.Registry) {
	reg.Register("load", "load <file> [--force]  open a scene file", func(fs *pflag.FlagSet) func() error {
		force := fs.BoolP("force", "f", false, "discard unsaved changes")
		return func() error {
			if fs.NArg() != 1 {
				return errors.New("load: expected one scene file")
			}
			if err := s.Load(fs.Arg(0), *force); err != nil {
				return err
			}
			s.out.Info(fmt.Sprintf("Loaded %s (%d objects)", fs.Arg(0), len(s.Scene.Names())))
			return nil
		}
	})

	reg.Register("save", "save [file]  write the scene", func(fs *pflag.FlagSet) func() error {
		return func() error {
			if err := s.Scene.Save(fs.Arg(0)); err != nil {
				return err
			}
			s.log.WithField("path", s.Scene.Path).Info("scene saved")
			s.out.Info("Saved " + s.Scene.Path)
			return nil
		}
	})

	reg.Register("list", "list scene objects", func(fs *pflag.FlagSet) func() error {
		return func() error {
			names := s.Scene.Names()
			if len(names) == 0 {
				s.out.Println("no objects")
				return nil
			}
			modified := make(map[string]bool)
			for _, n := range s.Scene.Modified() {
				modified[n] = true
			}
			var b strings.Builder
			for _, n := range names {
				o, _ := s.Scene.Object(n)
				mark := " "
				if modified[n] {
					mark = "*"
				}
				fmt.Fprintf(&b, "%s %-16s %s\n", mark, n, meshLabel(o))
			}
			s.out.Println(strings.TrimRight(b.String(), "\n"))
			return nil
		}
	})

	reg.Register("show", "show <name>  print an object's transform and bounds", func(fs *pflag.FlagSet) func() error {
		return func() error {
			if fs.NArg() != 1 {
				return errors.New("show: expected one object name")
			}
			o, ok := s.Scene.Object(fs.Arg(0))
			if !ok {
				return fmt.Errorf("no object %q in the scene", fs.Arg(0))
			}
			s.out.Println(describe(o))
			return nil
		}
	})

	reg.Register("fit", "fit --target T [--axes xyz] [--x A,B] [--y A,B] [--z A,B] [--center] [--scale] [--span envelope|gap]", func(fs *pflag.FlagSet) func() error {
		opts := FitOptions{Axes: s.cfg.Axes, Span: s.cfg.Span}
		fs.StringVarP(&opts.Target, "target", "t", "", "object to reposition and rescale")
		fs.Var(&opts.Axes, "axes", "axes to fit, any of x, y, z")
		axes := []fitter.Axis{fitter.X, fitter.Y, fitter.Z}
		refs := make([]*[]string, len(axes))
		for i, a := range axes {
			refs[i] = fs.StringSlice(a.String(), nil, "bounding objects A,B on the "+a.String()+" axis")
		}
		fs.BoolVar(&opts.Center, "center", s.cfg.Center, "center the target between the bounds")
		fs.BoolVar(&opts.Scale, "scale", s.cfg.Scale, "scale the target to span the bounds")
		fs.Var(&opts.Span, "span", "envelope (outer faces) or gap (inner faces)")
		return func() error {
			opts.Pairs = make(map[fitter.Axis][2]string)
			for i, names := range refs {
				a := axes[i]
				switch len(*names) {
				case 0:
				case 1:
					opts.Pairs[a] = [2]string{(*names)[0], ""}
				case 2:
					opts.Pairs[a] = [2]string{(*names)[0], (*names)[1]}
				default:
					return fmt.Errorf("fit: --%s takes two objects, got %d", a, len(*names))
				}
			}
			res, err := s.Fit(opts)
			if err != nil {
				return err
			}
			s.out.Info(res.Message())
			return nil
		}
	})

	reg.Register("undo", "undo the last fit", func(fs *pflag.FlagSet) func() error {
		return func() error {
			rec, err := s.Undo()
			if err != nil {
				return err
			}
			s.out.Info("Undid " + rec.String())
			return nil
		}
	})

	reg.Register("redo", "redo the last undone fit", func(fs *pflag.FlagSet) func() error {
		return func() error {
			rec, err := s.Redo()
			if err != nil {
				return err
			}
			s.out.Info("Redid " + rec.String())
			return nil
		}
	})

	reg.Register("history", "list undoable changes", func(fs *pflag.FlagSet) func() error {
		return func() error {
			recs, idx := s.History.Records()
			if len(recs) == 0 {
				s.out.Println("no history")
				return nil
			}
			var b strings.Builder
			for i, r := range recs {
				state := ""
				if i >= idx {
					state = " (undone)"
				}
				fmt.Fprintf(&b, "%3d %s%s\n", i+1, r, state)
			}
			s.out.Println(strings.TrimRight(b.String(), "\n"))
			return nil
		}
	})

	reg.Register("help", "list commands", func(fs *pflag.FlagSet) func() error {
		return func() error {
			s.out.Println(reg.Usage() + fmt.Sprintf("%-8s %s", "exit", "leave the terminal"))
			return nil
		}
	})
}

func meshLabel(o *scene.Object) string {
	switch {
	case o.Bounds.IsEmpty():
		return "(no mesh)"
	case o.Mesh != "":
		return o.Mesh
	default:
		return "bounds " + formatVec(o.Bounds.Size())
	}
}

func describe(o *scene.Object) string {
	lines := []string{
		o.Name(),
		"  mesh      " + meshLabel(o),
		"  position  " + formatVec(o.Position),
		"  scale     " + formatVec(o.Scale),
	}
	if !o.Bounds.IsEmpty() {
		lines = append(lines, "  size      "+formatVec(fitter.ScaledBounds(o).Size()))
	}
	return strings.Join(lines, "\n")
}

func formatVec(v math32.Vector3) string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
