package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/trussim/internal/solver"
	"github.com/san-kum/trussim/internal/truss"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Addr != DefaultAddr {
		t.Errorf("expected addr %s, got %s", DefaultAddr, cfg.Addr)
	}
	if cfg.Workers <= 0 {
		t.Error("workers should be positive")
	}
	if GetPreset(cfg.Preset) == nil {
		t.Errorf("default preset %q does not exist", cfg.Preset)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trussim.yaml")
	if err := os.WriteFile(path, []byte("addr: \":9000\"\nworkers: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.Workers != 2 {
		t.Errorf("expected :9000/2, got %s/%d", cfg.Addr, cfg.Workers)
	}
	if cfg.Theme != DefaultTheme {
		t.Errorf("expected default theme to survive, got %s", cfg.Theme)
	}
}

const triangleYAML = `
name: simple triangle
joints:
  - {x: 0, y: 0, anchor: true}
  - {x: 4, y: 0, anchor: true}
  - {x: 2, y: 3, load: [0, -100]}
beams:
  - [0, 1]
  - {j1: 1, j2: 2, area: 0.02}
  - [2, 0]
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(triangleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.Name != "simple triangle" {
		t.Errorf("expected name, got %q", sc.Name)
	}
	if len(sc.Beams) != 3 {
		t.Fatalf("expected 3 beams, got %d", len(sc.Beams))
	}
	if sc.Beams[1] != (BeamSpec{J1: 1, J2: 2, Area: 0.02}) {
		t.Errorf("expected mapping beam, got %+v", sc.Beams[1])
	}

	s, err := sc.Structure()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Joints[2].Load != (truss.Vec2{Y: -100}) {
		t.Errorf("expected load on joint 2, got %+v", s.Joints[2].Load)
	}
	if s.Beams[0].Area != truss.DefaultArea || s.Beams[1].Area != 0.02 {
		t.Errorf("unexpected areas %f %f", s.Beams[0].Area, s.Beams[1].Area)
	}
}

func TestParseScenario_JSON(t *testing.T) {
	doc := `{"name":"j","joints":[{"x":0,"y":0,"anchor":true},{"x":1,"y":0,"anchor":true}],"beams":[[0,1]]}`
	sc, err := ParseScenario([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sc.Beams) != 1 || sc.Beams[0].J2 != 1 {
		t.Errorf("unexpected beams %+v", sc.Beams)
	}
}

func TestParseScenario_BadBeam(t *testing.T) {
	tests := []string{
		"joints: []\nbeams:\n  - [0, 1, 2]\n",
		"joints: []\nbeams:\n  - 3\n",
	}
	for _, doc := range tests {
		if _, err := ParseScenario([]byte(doc)); !errors.Is(err, ErrBeamSpec) {
			t.Errorf("expected ErrBeamSpec for %q, got %v", doc, err)
		}
	}
}

func TestScenarioStructure_Errors(t *testing.T) {
	tests := []struct {
		name string
		sc   Scenario
		want error
	}{
		{"no joints", Scenario{}, ErrNoJoints},
		{"bad load", Scenario{Joints: []JointSpec{{Load: []float64{1}}}}, ErrLoadSpec},
		{"duplicate joint", Scenario{Joints: []JointSpec{free(0, 0), free(0, 0)}}, truss.ErrJointExists},
		{"bad index", Scenario{Joints: []JointSpec{free(0, 0)}, Beams: chain([2]int{0, 3})}, truss.ErrJointIndex},
		{"duplicate beam", Scenario{Joints: []JointSpec{free(0, 0), free(1, 0)}, Beams: chain([2]int{0, 1}, [2]int{1, 0})}, truss.ErrDuplicateBeam},
		{"bad area", Scenario{Joints: []JointSpec{free(0, 0), free(1, 0)}, Beams: []BeamSpec{{J1: 0, J2: 1, Area: -1}}}, truss.ErrInvalidArea},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.sc.Structure(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFromStructure_RoundTrip(t *testing.T) {
	sc := GetPreset("loaded-triangle")
	s, err := sc.Structure()
	if err != nil {
		t.Fatal(err)
	}
	s.Beams[0].Area = 0.05

	back, err := FromStructure("copy", s).Structure()
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Joints) != 3 || back.Joints[2].Load.Y != -100 || back.Beams[0].Area != 0.05 {
		t.Errorf("round trip lost data: %+v", back)
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.yaml")
	if err := os.WriteFile(path, []byte(triangleYAML), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(path); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	sc := GetPreset("triangle")
	if sc == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(sc.Joints) != 3 {
		t.Errorf("expected 3 joints, got %d", len(sc.Joints))
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
}

func TestPresets_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		success bool
	}{
		{"triangle", true},
		{"loaded-triangle", true},
		{"pratt", true},
		{"warren", true},
		{"mechanism", false},
		{"collinear", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := GetPreset(tt.name).Structure()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			res := solver.Solve(s)
			if res.Success != tt.success {
				t.Errorf("expected success=%v, got %v (%s)", tt.success, res.Success, res.Reason)
			}
		})
	}
}
