package solver

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trussim/internal/stability"
	"github.com/san-kum/trussim/internal/truss"
)

// ReactionUnknowns is fixed: a pin carries two reaction components and a
// roller one vertical component.
const ReactionUnknowns = stability.DefaultReactionUnknowns

// residualTolerance bounds the per-joint equilibrium error accepted after a
// least-squares solve.
const residualTolerance = 100 * truss.Tolerance

// Result is the outcome of one analysis. On failure Reactions is empty and
// Flagged lists the implicated joints; Forces and Stresses are all zero.
type Result struct {
	Success   bool
	Reason    string
	Flagged   []int
	Reactions map[int]truss.Vec2

	Forces      []float64
	Stresses    []float64
	Problematic []bool

	// Pin and Roller are the selected anchor joints, -1 before selection.
	Pin, Roller int
	Rank        int
}

func newResult(numJoints, numBeams int) *Result {
	return &Result{
		Flagged:     []int{},
		Reactions:   map[int]truss.Vec2{},
		Forces:      make([]float64, numBeams),
		Stresses:    make([]float64, numBeams),
		Problematic: make([]bool, numJoints),
		Pin:         -1,
		Roller:      -1,
	}
}

func (r *Result) fail(reason string, flagged []int) Result {
	r.Success = false
	r.Reason = reason
	r.Flagged = flagged
	for _, idx := range flagged {
		if idx >= 0 && idx < len(r.Problematic) {
			r.Problematic[idx] = true
		}
	}
	for k := range r.Forces {
		r.Forces[k] = 0
		r.Stresses[k] = 0
	}
	r.Reactions = map[int]truss.Vec2{}
	Logger().Warn("analysis failed", "reason", reason, "flagged", flagged)
	return *r
}

// Apply resets the analysis fields of s and copies this result onto them.
// It is the only place the solver writes to a caller's structure.
func (r Result) Apply(s *truss.Structure) {
	for i := range s.Joints {
		s.Joints[i].Problematic = i < len(r.Problematic) && r.Problematic[i]
	}
	for k := range s.Beams {
		s.Beams[k].Force, s.Beams[k].Stress = 0, 0
		if k < len(r.Forces) {
			s.Beams[k].Force = r.Forces[k]
			s.Beams[k].Stress = r.Stresses[k]
		}
	}
}

// ComputeEquilibrium solves s and applies the result to it.
func ComputeEquilibrium(s *truss.Structure) Result {
	res := Solve(s)
	res.Apply(s)
	return res
}

// Solve classifies s and, if it is stable, solves for member forces and
// support reactions. s is not modified.
func Solve(s *truss.Structure) (out Result) {
	numJoints, numBeams := len(s.Joints), len(s.Beams)
	res := newResult(numJoints, numBeams)

	defer func() {
		if p := recover(); p != nil {
			out = res.fail(fmt.Sprintf("Calculation Failed: Linear algebra error (%v).", p), allJoints(numJoints))
		}
	}()

	report := stability.Classify(s.Joints, s.Beams, ReactionUnknowns)
	if !report.Stable {
		return res.fail(report.Reason, report.Flagged)
	}

	anchors := s.Anchors()
	sort.SliceStable(anchors, func(a, b int) bool {
		pa, pb := s.Joints[anchors[a]].Pos, s.Joints[anchors[b]].Pos
		if pa.X != pb.X {
			return pa.X < pb.X
		}
		return pa.Y < pb.Y
	})
	if len(anchors) < 2 {
		return res.fail("Internal error: not enough anchors despite stability check.", []int{})
	}
	pin, roller := anchors[0], anchors[len(anchors)-1]
	res.Pin, res.Roller = pin, roller
	Logger().Debug("anchors selected", "pin", pin, "roller", roller)

	if s.Joints[pin].Pos.Sub(s.Joints[roller].Pos).Norm() < truss.Tolerance && pin != roller {
		return res.fail("Calculation Error: Pin and Roller anchors are at the same location.", []int{pin, roller})
	}

	a, b, err := assemble(s, pin, roller, res.Problematic)
	if err != nil {
		return res.fail("Internal error: invalid beam data ("+err.Error()+").", allJoints(numJoints))
	}

	unknowns := numBeams + ReactionUnknowns
	rows, _ := a.Dims()
	Logger().Debug("system assembled", "equations", rows, "unknowns", unknowns)

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return res.fail("Calculation Failed: Linear algebra error (SVD did not converge).", allJoints(numJoints))
	}
	rank := svd.Rank(rcond(a))
	res.Rank = rank
	Logger().Debug("numeric rank", "rank", rank)

	if rank < unknowns {
		return res.fail("Calculation Failed: Unstable structure (matrix rank deficient).", allJoints(numJoints))
	}

	// The least-squares solve runs on a QR factorization; its own rank
	// estimate can still fall short on badly conditioned systems.
	var qr mat.QR
	qr.Factorize(a)
	u := mat.NewVecDense(unknowns, nil)
	singular := false
	if err := qr.SolveVecTo(u, false, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return res.fail(fmt.Sprintf("Calculation Failed: Linear algebra error (%v).", err), allJoints(numJoints))
		}
		singular = true
	}

	if solveRank := qrRank(&qr, rcond(a)); singular || solveRank < unknowns {
		Logger().Debug("solve rank", "rank", solveRank, "ill_conditioned", singular)
		return res.fail("Calculation Failed: Unstable structure or singular matrix.", residualJoints(a, u, b))
	}

	for k := 0; k < unknowns; k++ {
		if v := u.AtVec(k); math.IsNaN(v) || math.IsInf(v, 0) {
			return res.fail(fmt.Sprintf("Calculation Failed: Linear algebra error (non-finite solution at unknown %d).", k), allJoints(numJoints))
		}
	}

	for k := 0; k < numBeams; k++ {
		f := u.AtVec(k)
		res.Forces[k] = f
		if area := s.Beams[k].Area; area > truss.Tolerance {
			res.Stresses[k] = f / area
		}
	}
	res.Reactions[pin] = truss.Vec2{X: u.AtVec(numBeams), Y: u.AtVec(numBeams + 1)}
	res.Reactions[roller] = truss.Vec2{X: 0, Y: u.AtVec(numBeams + 2)}

	res.Success = true
	res.Reason = "Calculation OK."
	return *res
}

// assemble builds A·u = b. Zero-length beams leave their column empty and
// mark both endpoints in problematic.
func assemble(s *truss.Structure, pin, roller int, problematic []bool) (*mat.Dense, *mat.VecDense, error) {
	numJoints, numBeams := len(s.Joints), len(s.Beams)
	a := mat.NewDense(2*numJoints, numBeams+ReactionUnknowns, nil)
	b := mat.NewVecDense(2*numJoints, nil)

	for i, j := range s.Joints {
		b.SetVec(2*i, -j.Load.X)
		b.SetVec(2*i+1, -j.Load.Y)
	}

	for k, beam := range s.Beams {
		if beam.J1 < 0 || beam.J2 < 0 || beam.J1 >= numJoints || beam.J2 >= numJoints {
			return nil, nil, &truss.BeamError{Beam: k, J1: beam.J1, J2: beam.J2, Wrapped: truss.ErrJointIndex}
		}
		length := beam.Length(s.Joints)
		if length < truss.Tolerance {
			problematic[beam.J1] = true
			problematic[beam.J2] = true
			continue
		}
		d := s.Joints[beam.J2].Pos.Sub(s.Joints[beam.J1].Pos)
		cos, sin := d.X/length, d.Y/length

		a.Set(2*beam.J1, k, cos)
		a.Set(2*beam.J1+1, k, sin)
		a.Set(2*beam.J2, k, -cos)
		a.Set(2*beam.J2+1, k, -sin)
	}

	a.Set(2*pin, numBeams, 1)
	a.Set(2*pin+1, numBeams+1, 1)
	a.Set(2*roller+1, numBeams+2, 1)

	return a, b, nil
}

// qrRank counts the diagonal entries of R above tol relative to the largest.
func qrRank(qr *mat.QR, tol float64) int {
	var r mat.Dense
	qr.RTo(&r)
	rows, cols := r.Dims()
	n := min(rows, cols)

	largest := 0.0
	for k := 0; k < n; k++ {
		largest = math.Max(largest, math.Abs(r.At(k, k)))
	}
	rank := 0
	for k := 0; k < n; k++ {
		if math.Abs(r.At(k, k)) > tol*largest {
			rank++
		}
	}
	return rank
}

// rcond is the relative singular value cutoff, eps·max(M, N).
func rcond(a mat.Matrix) float64 {
	r, c := a.Dims()
	return math.Max(float64(r), float64(c)) * eps
}

// eps is the float64 machine epsilon.
var eps = math.Nextafter(1, 2) - 1

// residualJoints returns the joints whose equilibrium pair is not satisfied by
// u within residualTolerance, or every joint when none stands out.
func residualJoints(a *mat.Dense, u, b *mat.VecDense) []int {
	var check mat.VecDense
	check.MulVec(a, u)

	numJoints := b.Len() / 2
	var flagged []int
	for i := 0; i < numJoints; i++ {
		if math.Abs(check.AtVec(2*i)-b.AtVec(2*i)) > residualTolerance ||
			math.Abs(check.AtVec(2*i+1)-b.AtVec(2*i+1)) > residualTolerance {
			flagged = append(flagged, i)
		}
	}
	if len(flagged) == 0 {
		return allJoints(numJoints)
	}
	return flagged
}

func allJoints(n int) []int {
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	return all
}
