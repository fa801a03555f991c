package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/trussim/internal/truss"
)

var (
	ErrBeamSpec = errors.New("config: beam must be [j1, j2] or {j1, j2, area}")
	ErrLoadSpec = errors.New("config: load must be [fx, fy]")
	ErrNoJoints = errors.New("config: scenario has no joints")
)

// Scenario is a structure as written in a YAML or JSON document.
type Scenario struct {
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Grid        float64     `yaml:"grid,omitempty" json:"grid,omitempty"`
	Joints      []JointSpec `yaml:"joints" json:"joints"`
	Beams       []BeamSpec  `yaml:"beams" json:"beams"`
}

type JointSpec struct {
	X      float64   `yaml:"x" json:"x"`
	Y      float64   `yaml:"y" json:"y"`
	Anchor bool      `yaml:"anchor,omitempty" json:"anchor,omitempty"`
	Load   []float64 `yaml:"load,omitempty,flow" json:"load,omitempty"`
}

// BeamSpec accepts either a two-element list or a mapping. Area 0 means
// truss.DefaultArea.
type BeamSpec struct {
	J1   int     `yaml:"j1" json:"j1"`
	J2   int     `yaml:"j2" json:"j2"`
	Area float64 `yaml:"area,omitempty" json:"area,omitempty"`
}

type beamFields BeamSpec

func (b *BeamSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var pair []int
		if err := node.Decode(&pair); err != nil {
			return err
		}
		return b.fromPair(pair)
	case yaml.MappingNode:
		var f beamFields
		if err := node.Decode(&f); err != nil {
			return err
		}
		*b = BeamSpec(f)
		return nil
	default:
		return fmt.Errorf("%w (line %d)", ErrBeamSpec, node.Line)
	}
}

func (b *BeamSpec) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err == nil {
		return b.fromPair(pair)
	}
	var f beamFields
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: %v", ErrBeamSpec, err)
	}
	*b = BeamSpec(f)
	return nil
}

func (b *BeamSpec) fromPair(pair []int) error {
	if len(pair) != 2 {
		return fmt.Errorf("%w: got %d indices", ErrBeamSpec, len(pair))
	}
	*b = BeamSpec{J1: pair[0], J2: pair[1]}
	return nil
}

// LoadScenario reads a scenario document from path.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

// ParseScenario decodes YAML. JSON documents are valid YAML and parse too.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Structure builds a fresh truss.Structure. Joints are placed through the
// editing operations, so grid snapping and duplicate checks apply. Loads are
// assigned directly and may sit on anchors.
func (sc *Scenario) Structure() (*truss.Structure, error) {
	if len(sc.Joints) == 0 {
		return nil, ErrNoJoints
	}

	s := truss.New(sc.Grid)
	for i, js := range sc.Joints {
		if _, err := s.AddJoint(truss.Vec2{X: js.X, Y: js.Y}, js.Anchor); err != nil {
			return nil, fmt.Errorf("joint %d: %w", i, err)
		}
		switch len(js.Load) {
		case 0:
		case 2:
			s.Joints[i].Load = truss.Vec2{X: js.Load[0], Y: js.Load[1]}
		default:
			return nil, fmt.Errorf("joint %d: %w", i, ErrLoadSpec)
		}
	}

	for _, bs := range sc.Beams {
		k, err := s.AddBeam(bs.J1, bs.J2)
		if err != nil {
			return nil, err
		}
		if bs.Area != 0 {
			if err := s.SetArea(k, bs.Area); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// FromStructure is the inverse of Structure for display and API responses.
func FromStructure(name string, s *truss.Structure) *Scenario {
	sc := &Scenario{
		Name:   name,
		Grid:   s.Grid,
		Joints: make([]JointSpec, len(s.Joints)),
		Beams:  make([]BeamSpec, len(s.Beams)),
	}
	for i, j := range s.Joints {
		sc.Joints[i] = JointSpec{X: j.Pos.X, Y: j.Pos.Y, Anchor: j.Anchor}
		if !j.Load.IsZero(0) {
			sc.Joints[i].Load = []float64{j.Load.X, j.Load.Y}
		}
	}
	for k, b := range s.Beams {
		sc.Beams[k] = BeamSpec{J1: b.J1, J2: b.J2}
		if b.Area != truss.DefaultArea {
			sc.Beams[k].Area = b.Area
		}
	}
	return sc
}
