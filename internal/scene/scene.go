package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cogentcore.org/core/math32"
	"gopkg.in/yaml.v3"

	"object-fitter/internal/primitives"
)

// Document is the YAML form of a scene file.
type Document struct {
	Objects []ObjectDef `yaml:"objects"`
}

// ObjectDef is one object in a scene file. Mesh names a primitive type from the
// primitives registry; Bounds gives explicit unscaled mesh bounds and wins over Mesh.
// An object with neither has no mesh bounds. Scale defaults to (1, 1, 1).
type ObjectDef struct {
	Name     string      `yaml:"name"`
	Mesh     string      `yaml:"mesh,omitempty"`
	Bounds   *BoundsDef  `yaml:"bounds,omitempty"`
	Position [3]float32  `yaml:"position"`
	Scale    *[3]float32 `yaml:"scale,omitempty"`
}

// BoundsDef is an axis-aligned box given by its min and max corners.
type BoundsDef struct {
	Min [3]float32 `yaml:"min"`
	Max [3]float32 `yaml:"max"`
}

// Object is a named scene object with a local transform and mesh bounds.
// It satisfies fitter.Body.
type Object struct {
	name     string
	Mesh     string
	Bounds   math32.Box3 // unscaled, in the object's local space; empty when there is no mesh
	Position math32.Vector3
	Scale    math32.Vector3

	explicitBounds bool
}

// NewObject returns an object with unit scale at position, using bounds as its mesh bounds.
func NewObject(name string, position math32.Vector3, bounds math32.Box3) *Object {
	return &Object{
		name:           name,
		Bounds:         bounds,
		Position:       position,
		Scale:          math32.Vec3(1, 1, 1),
		explicitBounds: true,
	}
}

func (o *Object) Name() string                  { return o.name }
func (o *Object) LocalPosition() math32.Vector3 { return o.Position }
func (o *Object) LocalScale() math32.Vector3    { return o.Scale }
func (o *Object) MeshBounds() math32.Box3       { return o.Bounds }

// Scene holds the objects of one scene document, keyed by name, and tracks which of
// them were modified since the document was loaded or last saved.
type Scene struct {
	Path     string // file the scene was loaded from or last saved to; empty for new scenes
	objects  []*Object
	byName   map[string]*Object
	modified map[string]bool
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{
		byName:   make(map[string]*Object),
		modified: make(map[string]bool),
	}
}

// Add appends o. Names must be non-empty and unique within the scene.
func (s *Scene) Add(o *Object) error {
	if strings.TrimSpace(o.name) == "" {
		return fmt.Errorf("scene: object without a name")
	}
	if _, dup := s.byName[o.name]; dup {
		return fmt.Errorf("scene: duplicate object %q", o.name)
	}
	s.objects = append(s.objects, o)
	s.byName[o.name] = o
	return nil
}

// Parse decodes a YAML scene document. Mesh types are resolved through reg.
func Parse(data []byte, reg *primitives.Registry) (*Scene, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("scene: parse: %w", err)
	}
	s := New()
	for i, def := range doc.Objects {
		o, err := objectFromDef(def, reg)
		if err != nil {
			return nil, fmt.Errorf("scene: object %d: %w", i+1, err)
		}
		if err := s.Add(o); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Load reads and parses the scene file at path.
func Load(path string, reg *primitives.Registry) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	s, err := Parse(data, reg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

func objectFromDef(def ObjectDef, reg *primitives.Registry) (*Object, error) {
	o := &Object{
		name:     def.Name,
		Mesh:     strings.ToLower(def.Mesh),
		Position: math32.Vec3(def.Position[0], def.Position[1], def.Position[2]),
		Scale:    math32.Vec3(1, 1, 1),
		Bounds:   math32.B3Empty(),
	}
	if def.Scale != nil {
		o.Scale = math32.Vec3(def.Scale[0], def.Scale[1], def.Scale[2])
	}
	switch {
	case def.Bounds != nil:
		o.Bounds = math32.B3(def.Bounds.Min[0], def.Bounds.Min[1], def.Bounds.Min[2],
			def.Bounds.Max[0], def.Bounds.Max[1], def.Bounds.Max[2])
		if o.Bounds.IsEmpty() {
			return nil, fmt.Errorf("%s: bounds max is below min", def.Name)
		}
		o.explicitBounds = true
	case o.Mesh != "":
		b, ok := reg.Bounds(o.Mesh)
		if !ok {
			return nil, fmt.Errorf("%s: unknown mesh %q (known: %s)", def.Name, def.Mesh, strings.Join(reg.Types(), ", "))
		}
		o.Bounds = b
	}
	return o, nil
}

// Marshal encodes the scene as a YAML document.
func (s *Scene) Marshal() ([]byte, error) {
	doc := Document{Objects: make([]ObjectDef, 0, len(s.objects))}
	for _, o := range s.objects {
		scale := [3]float32{o.Scale.X, o.Scale.Y, o.Scale.Z}
		def := ObjectDef{
			Name:     o.name,
			Position: [3]float32{o.Position.X, o.Position.Y, o.Position.Z},
			Scale:    &scale,
		}
		switch {
		case o.explicitBounds && !o.Bounds.IsEmpty():
			def.Bounds = &BoundsDef{
				Min: [3]float32{o.Bounds.Min.X, o.Bounds.Min.Y, o.Bounds.Min.Z},
				Max: [3]float32{o.Bounds.Max.X, o.Bounds.Max.Y, o.Bounds.Max.Z},
			}
		case o.Mesh != "":
			def.Mesh = o.Mesh
		}
		doc.Objects = append(doc.Objects, def)
	}
	return yaml.Marshal(&doc)
}

// Save writes the scene to path (the scene's own Path when empty), creating parent
// directories as needed, and clears the modified set.
func (s *Scene) Save(path string) error {
	if path == "" {
		path = s.Path
	}
	if path == "" {
		return fmt.Errorf("scene: no file to save to")
	}
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("scene: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("scene: save %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("scene: save %s: %w", path, err)
	}
	s.Path = path
	s.modified = make(map[string]bool)
	return nil
}

// Object returns the named object.
func (s *Scene) Object(name string) (*Object, bool) {
	o, ok := s.byName[name]
	return o, ok
}

// Names returns object names in document order.
func (s *Scene) Names() []string {
	out := make([]string, len(s.objects))
	for i, o := range s.objects {
		out[i] = o.name
	}
	return out
}

// SetLocalTransform sets the position and scale of the named object in one step.
// Non-finite values are rejected and leave the object unchanged.
func (s *Scene) SetLocalTransform(name string, position, scale math32.Vector3) error {
	o, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("scene: no object %q", name)
	}
	if !finiteVec(position) || !finiteVec(scale) {
		return fmt.Errorf("scene: non-finite transform for %q", name)
	}
	o.Position = position
	o.Scale = scale
	return nil
}

// MarkModified flags the named object as changed since the last save.
func (s *Scene) MarkModified(name string) {
	if _, ok := s.byName[name]; ok {
		s.modified[name] = true
	}
}

// Dirty reports whether any object changed since the scene was loaded or saved.
func (s *Scene) Dirty() bool {
	return len(s.modified) > 0
}

// Modified returns the names of changed objects, sorted.
func (s *Scene) Modified() []string {
	out := make([]string, 0, len(s.modified))
	for n := range s.modified {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func finiteVec(v math32.Vector3) bool {
	for _, c := range []float32{v.X, v.Y, v.Z} {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}
