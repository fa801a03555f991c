// Package stability decides, from topology and geometry alone, whether a truss
// is eligible for a unique static equilibrium solution.
//
// The checks are cheap O(J+B) passes that reject structures for which the
// equilibrium solve would be meaningless: too few joints or anchors, more
// equations than unknowns, parts disconnected from the supports, and free
// joints that are locally mechanisms.
package stability

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/trussim/internal/truss"
)

// DefaultReactionUnknowns is the reaction count of a pin (2) plus a roller (1).
const DefaultReactionUnknowns = 3

// Report is the classification outcome. Flagged holds the joints implicated
// in the failure, sorted ascending; it is empty when Stable is true.
type Report struct {
	Stable  bool
	Reason  string
	Flagged []int
}

func fail(reason string, flagged []int) Report {
	if flagged == nil {
		flagged = []int{}
	}
	return Report{Reason: reason, Flagged: flagged}
}

// Classify runs the stability checks in order and stops at the first failure.
func Classify(joints []truss.Joint, beams []truss.Beam, reactionUnknowns int) Report {
	numJoints := len(joints)

	if numJoints < 2 {
		all := make([]int, numJoints)
		for i := range all {
			all[i] = i
		}
		return fail("Error: At least 2 joints are required.", all)
	}

	anchors := truss.AnchorIndices(joints)
	if len(anchors) < 2 {
		return fail("Error: At least 2 anchor points are needed for a pin-roller setup.", anchors)
	}

	equations := 2 * numJoints
	unknowns := len(beams) + reactionUnknowns
	if equations > unknowns {
		return fail(fmt.Sprintf(
			"Stability Error: Structure is likely a mechanism (2j=%d > m+r=%d).",
			equations, unknowns), nil)
	}

	if unreached := unreachable(numJoints, beams, anchors[0]); len(unreached) > 0 {
		return fail(fmt.Sprintf(
			"Stability Error: Disconnected parts. Joints %s not connected to anchor %d.",
			formatIndices(unreached), anchors[0]), unreached)
	}

	if weak := underConstrained(joints, beams); len(weak) > 0 {
		return fail(fmt.Sprintf("Stability Error: Joint(s) %s unstable.", formatIndices(weak)), weak)
	}

	return Report{Stable: true, Reason: "Structure appears stable for calculation.", Flagged: []int{}}
}

// unreachable returns, sorted, the joints a breadth-first walk from start
// over the beam graph never visits. Beams with an out-of-range endpoint are
// left out of the graph.
func unreachable(numJoints int, beams []truss.Beam, start int) []int {
	adj := make([][]int, numJoints)
	for _, b := range beams {
		if b.J1 < 0 || b.J2 < 0 || b.J1 >= numJoints || b.J2 >= numJoints {
			continue
		}
		adj[b.J1] = append(adj[b.J1], b.J2)
		adj[b.J2] = append(adj[b.J2], b.J1)
	}

	visited := make([]bool, numJoints)
	visited[start] = true
	queue := []int{start}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range adj[u] {
			if !visited[v] {
				visited[v] = true
				queue = append(queue, v)
			}
		}
	}

	var out []int
	for i, ok := range visited {
		if !ok {
			out = append(out, i)
		}
	}
	return out
}

// underConstrained flags free joints with fewer than two members, or with
// exactly two collinear members, which cannot resist a force across their line.
func underConstrained(joints []truss.Joint, beams []truss.Beam) []int {
	var flagged []int
	for i, j := range joints {
		if j.Anchor {
			continue
		}

		var incident []truss.Beam
		for _, b := range beams {
			if b.Touches(i) {
				incident = append(incident, b)
			}
		}

		switch {
		case len(incident) < 2:
			flagged = append(flagged, i)
		case len(incident) == 2:
			a1, ok1 := incident[0].AngleFrom(i, joints)
			a2, ok2 := incident[1].AngleFrom(i, joints)
			if ok1 && ok2 && collinear(a1, a2) {
				flagged = append(flagged, i)
			}
		}
	}
	sort.Ints(flagged)
	return flagged
}

func collinear(a1, a2 float64) bool {
	diff := math.Abs(a1 - a2)
	return diff < truss.Tolerance ||
		math.Abs(diff-math.Pi) < truss.Tolerance ||
		math.Abs(diff-2*math.Pi) < truss.Tolerance
}

func formatIndices(idx []int) string {
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
