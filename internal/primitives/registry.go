package primitives

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"cogentcore.org/core/math32"
	"gopkg.in/yaml.v3"
)

//go:embed defs/*.yaml
var builtin embed.FS

// Registry maps primitive type names ("cube", "sphere", ...) to their unit mesh bounds.
// Built-in definitions come from the embedded defs/ directory; LoadDir adds or overrides
// definitions from a directory on disk.
type Registry struct {
	bounds map[string]math32.Box3
}

// NewRegistry returns a registry holding the built-in primitives: cube, sphere,
// cylinder, plane and quad.
func NewRegistry() *Registry {
	r := &Registry{bounds: make(map[string]math32.Box3)}
	if err := r.loadFS(builtin, "defs"); err != nil {
		// The embedded definitions are part of the binary; failing to read them is a build defect.
		panic(err)
	}
	return r
}

// LoadDir reads every *.yaml file in dir. A definition replaces any existing one of the same type.
func (r *Registry) LoadDir(dir string) error {
	return r.loadFS(os.DirFS(dir), ".")
}

func (r *Registry) loadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("primitives: read %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return fmt.Errorf("primitives: read %s: %w", e.Name(), err)
		}
		def, err := ParseDef(data)
		if err != nil {
			return fmt.Errorf("primitives: %s: %w", e.Name(), err)
		}
		r.Add(def)
	}
	return nil
}

// ParseDef decodes one YAML primitive definition. Type is required and negative sizes are rejected.
func ParseDef(data []byte) (PrimitiveDef, error) {
	var def PrimitiveDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return PrimitiveDef{}, err
	}
	def.Type = strings.ToLower(strings.TrimSpace(def.Type))
	if def.Type == "" {
		return PrimitiveDef{}, fmt.Errorf("missing type")
	}
	for i, s := range def.Size {
		if s < 0 {
			return PrimitiveDef{}, fmt.Errorf("%s: size[%d] is negative", def.Type, i)
		}
	}
	return def, nil
}

// Add registers def, replacing any definition of the same type.
func (r *Registry) Add(def PrimitiveDef) {
	center := math32.Vec3(def.Center[0], def.Center[1], def.Center[2])
	size := math32.Vec3(def.Size[0], def.Size[1], def.Size[2])
	var b math32.Box3
	b.SetFromCenterAndSize(center, size)
	r.bounds[def.Type] = b
}

// Bounds returns the unit mesh bounds of the given primitive type. Type names are case-insensitive.
func (r *Registry) Bounds(primType string) (math32.Box3, bool) {
	b, ok := r.bounds[strings.ToLower(primType)]
	return b, ok
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.bounds))
	for t := range r.bounds {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
