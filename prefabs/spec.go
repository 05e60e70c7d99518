package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Names of the bundled prefabs.
const (
	Bird       = "bird"
	BirdHeavy  = "bird_heavy"
	Pig        = "pig"
	PigBoss    = "pig_boss"
	Block      = "block"
	BlockHeavy = "block_heavy"
)

// Names lists every prefab LoadLibrary reads.
var Names = []string{Bird, BirdHeavy, Pig, PigBoss, Block, BlockHeavy}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// BodySpec holds the physical and visual parameters of one prefab.
type BodySpec struct {
	Name            string     `yaml:"name"`
	Shape           string     `yaml:"shape"`
	Radius          float64    `yaml:"radius"`
	Width           float64    `yaml:"width"`
	Height          float64    `yaml:"height"`
	Density         float64    `yaml:"density"`
	Friction        float64    `yaml:"friction"`
	Elasticity      float64    `yaml:"elasticity"`
	Drag            float64    `yaml:"drag"`
	MaxHits         int        `yaml:"max_hits"`
	DamageThreshold float64    `yaml:"damage_threshold"`
	Sprite          string     `yaml:"sprite"`
	Color           *YAMLColor `yaml:"color"`
}

func (s BodySpec) Circle() bool {
	return s.Shape == "circle"
}

// NRGBA returns the prefab colour, or fallback when none is set.
func (s BodySpec) NRGBA(fallback color.NRGBA) color.NRGBA {
	if s.Color == nil || s.Color.Color == nil {
		return fallback
	}
	return color.NRGBAModel.Convert(s.Color.Color).(color.NRGBA)
}

// Override replaces prefab fields for one level. Nil fields keep the prefab
// value.
type Override struct {
	Radius          *float64 `yaml:"radius"`
	Density         *float64 `yaml:"density"`
	Friction        *float64 `yaml:"friction"`
	Elasticity      *float64 `yaml:"elasticity"`
	Drag            *float64 `yaml:"drag"`
	MaxHits         *int     `yaml:"max_hits"`
	DamageThreshold *float64 `yaml:"damage_threshold"`
}

func (s BodySpec) Apply(o Override) BodySpec {
	if o.Radius != nil {
		s.Radius = *o.Radius
	}
	if o.Density != nil {
		s.Density = *o.Density
	}
	if o.Friction != nil {
		s.Friction = *o.Friction
	}
	if o.Elasticity != nil {
		s.Elasticity = *o.Elasticity
	}
	if o.Drag != nil {
		s.Drag = *o.Drag
	}
	if o.MaxHits != nil {
		s.MaxHits = *o.MaxHits
	}
	if o.DamageThreshold != nil {
		s.DamageThreshold = *o.DamageThreshold
	}
	return s
}

// Library maps prefab names to their specs.
type Library map[string]BodySpec

// LoadLibrary reads every bundled prefab, preferring disk overrides.
func LoadLibrary() (Library, error) {
	lib := make(Library, len(Names))
	for _, name := range Names {
		spec, err := LoadSpec[BodySpec](name + ".yaml")
		if err != nil {
			return nil, err
		}
		if spec.Name == "" {
			spec.Name = name
		}
		lib[name] = spec
	}
	return lib, nil
}

// MustLoadLibrary is LoadLibrary for the embedded set, which is known good.
func MustLoadLibrary() Library {
	lib, err := LoadLibrary()
	if err != nil {
		panic(err)
	}
	return lib
}

func (l Library) Get(name string) (BodySpec, bool) {
	spec, ok := l[name]
	return spec, ok
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
