// Package solver assembles and solves the joint-equilibrium equations of a
// pin-jointed truss.
//
// Every joint contributes two equations (x and y equilibrium). The unknowns
// are one axial force per beam followed by three reactions: the pin's x and y
// components and the roller's vertical component. The pin is the anchor with
// the smallest (x, y), the roller the one with the largest.
//
//	res := solver.Solve(s)
//	if !res.Success {
//	    // res.Reason, res.Flagged
//	}
//	res.Apply(s) // optional: copy forces, stresses and flags onto s
//
// [Solve] never mutates its input and never panics; every failure comes back
// as a Result with Success == false.
package solver
