// Package truss defines the structural model of a 2D pin-jointed truss.
//
// A [Structure] is an ordered list of [Joint] values and an ordered list of
// [Beam] values. Index order is the only identity: "joint i" always means
// Joints[i], and beams refer to joints by index.
//
//   - [Joint]: pin connection with position, optional anchor support and load
//   - [Beam]: two-force member between two distinct joints
//   - [Structure]: editing operations that keep beam indices consistent
//
// # Example
//
//	s := truss.New(0)
//	a, _ := s.AddJoint(truss.Vec2{X: 0, Y: 0}, true)
//	b, _ := s.AddJoint(truss.Vec2{X: 4, Y: 0}, true)
//	c, _ := s.AddJoint(truss.Vec2{X: 2, Y: 3}, false)
//	s.AddBeam(a, b)
//	s.AddBeam(b, c)
//	s.AddBeam(c, a)
//	s.SetLoad(c, truss.Vec2{Y: -100})
//
// # Thread Safety
//
// Structure values are NOT safe for concurrent use. Use [Structure.Clone]
// to hand independent copies to concurrent analyses.
package truss
