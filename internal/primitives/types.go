package primitives

// PrimitiveDef is the YAML definition of a primitive mesh (e.g. defs/cube.yaml).
// Size is the unscaled mesh size; Center is the mesh bounds center relative to the
// object's pivot and defaults to the origin.
type PrimitiveDef struct {
	Type   string     `yaml:"type"`
	Size   [3]float32 `yaml:"size"`
	Center [3]float32 `yaml:"center,omitempty"`
}
