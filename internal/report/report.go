// Package report renders an analysed structure as text, a terminal force
// chart, a spreadsheet, a PDF or JSON.
package report

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/san-kum/trussim/internal/metrics"
	"github.com/san-kum/trussim/internal/solver"
	"github.com/san-kum/trussim/internal/truss"
)

// Report bundles a structure with its analysis. The structure is not
// modified by any renderer.
type Report struct {
	Name      string
	Structure *truss.Structure
	Result    solver.Result
	Summary   metrics.Summary
}

func New(name string, s *truss.Structure, res solver.Result) *Report {
	return &Report{
		Name:      name,
		Structure: s,
		Result:    res,
		Summary:   metrics.Summarize(s, res),
	}
}

// Analyze solves s and wraps the outcome.
func Analyze(name string, s *truss.Structure) *Report {
	return New(name, s, solver.Solve(s))
}

type JointRow struct {
	Index       int         `json:"index"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	Anchor      bool        `json:"anchor"`
	Load        truss.Vec2  `json:"load"`
	Reaction    *truss.Vec2 `json:"reaction,omitempty"`
	Problematic bool        `json:"problematic"`
}

type BeamRow struct {
	Index  int     `json:"index"`
	J1     int     `json:"j1"`
	J2     int     `json:"j2"`
	Length float64 `json:"length"`
	Area   float64 `json:"area"`
	Force  float64 `json:"force"`
	Stress float64 `json:"stress"`
	Kind   string  `json:"kind"`
}

func (r *Report) Joints() []JointRow {
	rows := make([]JointRow, len(r.Structure.Joints))
	for i, j := range r.Structure.Joints {
		rows[i] = JointRow{
			Index:       i,
			X:           j.Pos.X,
			Y:           j.Pos.Y,
			Anchor:      j.Anchor,
			Load:        j.Load,
			Problematic: i < len(r.Result.Problematic) && r.Result.Problematic[i],
		}
		if v, ok := r.Result.Reactions[i]; ok {
			rows[i].Reaction = &v
		}
	}
	return rows
}

func (r *Report) Beams() []BeamRow {
	rows := make([]BeamRow, len(r.Structure.Beams))
	for k, b := range r.Structure.Beams {
		rows[k] = BeamRow{
			Index:  k,
			J1:     b.J1,
			J2:     b.J2,
			Length: b.Length(r.Structure.Joints),
			Area:   b.Area,
		}
		if k < len(r.Result.Forces) {
			rows[k].Force = r.Result.Forces[k]
			rows[k].Stress = r.Result.Stresses[k]
		}
		rows[k].Kind = metrics.ForceKind(rows[k].Force)
	}
	return rows
}

// reactionJoints returns the joints carrying a reaction, ascending.
func (r *Report) reactionJoints() []int {
	idx := make([]int, 0, len(r.Result.Reactions))
	for i := range r.Result.Reactions {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

type document struct {
	Name     string             `json:"name"`
	Success  bool               `json:"success"`
	Reason   string             `json:"reason"`
	Flagged  []int              `json:"flagged"`
	Joints   []JointRow         `json:"joints"`
	Beams    []BeamRow          `json:"beams"`
	Metrics  map[string]float64 `json:"metrics"`
	Residual truss.Vec2         `json:"residual"`
}

// WriteJSON writes an indented JSON document.
func WriteJSON(w io.Writer, r *Report) error {
	doc := document{
		Name:     r.Name,
		Success:  r.Result.Success,
		Reason:   r.Result.Reason,
		Flagged:  r.Result.Flagged,
		Joints:   r.Joints(),
		Beams:    r.Beams(),
		Metrics:  r.Summary.Metrics,
		Residual: r.Summary.Residual,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
