package solver

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trussim/internal/truss"
)

func structure(joints []truss.Joint, pairs ...[2]int) *truss.Structure {
	s := truss.New(0)
	s.Joints = joints
	for _, p := range pairs {
		s.Beams = append(s.Beams, truss.NewBeam(p[0], p[1]))
	}
	return s
}

func at(x, y float64, anchor bool) truss.Joint {
	return truss.Joint{Pos: truss.Vec2{X: x, Y: y}, Anchor: anchor}
}

func triangle() *truss.Structure {
	return structure([]truss.Joint{at(0, 0, true), at(4, 0, true), at(2, 3, false)},
		[2]int{0, 1}, [2]int{1, 2}, [2]int{2, 0})
}

var _ = Describe("Solve", func() {
	Context("with a stable triangle", func() {
		It("finds zero forces when nothing is loaded", func() {
			res := Solve(triangle())

			Expect(res.Success).To(BeTrue())
			Expect(res.Reason).To(Equal("Calculation OK."))
			Expect(res.Flagged).To(BeEmpty())
			for _, f := range res.Forces {
				Expect(f).To(BeNumerically("~", 0, 1e-9))
			}
			Expect(res.Reactions).To(HaveLen(2))
		})

		It("splits an apex load evenly between the supports", func() {
			s := triangle()
			s.Joints[2].Load = truss.Vec2{Y: -100}

			res := Solve(s)
			Expect(res.Success).To(BeTrue())
			Expect(res.Pin).To(Equal(0))
			Expect(res.Roller).To(Equal(1))

			pin, roller := res.Reactions[0], res.Reactions[1]
			Expect(pin.Y + roller.Y).To(BeNumerically("~", 100, 1e-9))
			Expect(pin.Y).To(BeNumerically("~", 50, 1e-9))
			Expect(roller.Y).To(BeNumerically("~", 50, 1e-9))
			Expect(pin.X).To(BeNumerically("~", 0, 1e-9))
			Expect(roller.X).To(Equal(0.0))

			diag := -100 * math.Sqrt(13) / 6
			Expect(res.Forces[0]).To(BeNumerically("~", 100.0/3, 1e-9))
			Expect(res.Forces[1]).To(BeNumerically("~", diag, 1e-9))
			Expect(res.Forces[2]).To(BeNumerically("~", diag, 1e-9))
			Expect(res.Stresses[0]).To(BeNumerically("~", res.Forces[0]/truss.DefaultArea, 1e-6))
		})

		It("leaves stress at zero for a zero-area beam", func() {
			s := triangle()
			s.Joints[2].Load = truss.Vec2{Y: -100}
			s.Beams[0].Area = 0

			res := Solve(s)
			Expect(res.Success).To(BeTrue())
			Expect(res.Forces[0]).NotTo(BeZero())
			Expect(res.Stresses[0]).To(BeZero())
		})

		It("takes the pin and roller from the anchor order by x then y", func() {
			s := structure([]truss.Joint{at(4, 0, true), at(2, 3, false), at(0, 0, true)},
				[2]int{0, 2}, [2]int{0, 1}, [2]int{1, 2})
			s.Joints[1].Load = truss.Vec2{X: 30}

			res := Solve(s)
			Expect(res.Success).To(BeTrue())
			Expect(res.Pin).To(Equal(2))
			Expect(res.Roller).To(Equal(0))
			Expect(res.Reactions[2].X).To(BeNumerically("~", -30, 1e-9))
			Expect(res.Reactions[0].X).To(Equal(0.0))
		})

		It("is idempotent and leaves the input untouched", func() {
			s := triangle()
			s.Joints[2].Load = truss.Vec2{X: 20, Y: -100}
			before := s.Clone()

			first := Solve(s)
			second := Solve(s)
			Expect(second).To(Equal(first))
			Expect(s).To(Equal(before))
		})
	})

	Context("with a structure the classifier rejects", func() {
		It("reports the classifier reason and flags", func() {
			s := structure([]truss.Joint{at(0, 0, true), at(4, 0, false), at(2, 3, false)},
				[2]int{0, 1}, [2]int{1, 2}, [2]int{2, 0})

			res := Solve(s)
			Expect(res.Success).To(BeFalse())
			Expect(res.Reason).To(ContainSubstring("At least 2 anchor points"))
			Expect(res.Flagged).To(Equal([]int{0}))
			Expect(res.Problematic).To(Equal([]bool{true, false, false}))
			Expect(res.Reactions).To(BeEmpty())
		})
	})

	Context("with a statically indeterminate structure", func() {
		It("fails the rank check and flags every joint", func() {
			s := structure([]truss.Joint{at(0, 0, true), at(4, 0, true), at(4, 3, false), at(0, 3, false)},
				[2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 0}, [2]int{0, 2}, [2]int{1, 3})
			s.Joints[2].Load = truss.Vec2{Y: -50}

			res := Solve(s)
			Expect(res.Success).To(BeFalse())
			Expect(res.Reason).To(Equal("Calculation Failed: Unstable structure (matrix rank deficient)."))
			Expect(res.Flagged).To(Equal([]int{0, 1, 2, 3}))
			Expect(res.Rank).To(BeNumerically("<", 9))
			for _, f := range res.Forces {
				Expect(f).To(BeZero())
			}
		})
	})

	Context("with coincident supports", func() {
		It("refuses to pick a pin and roller at the same point", func() {
			s := structure([]truss.Joint{at(0, 0, true), at(0, 0, true), at(2, 3, false), at(4, 0, false)},
				[2]int{0, 2}, [2]int{1, 3}, [2]int{2, 3}, [2]int{0, 1}, [2]int{0, 3})

			res := Solve(s)
			Expect(res.Success).To(BeFalse())
			Expect(res.Reason).To(ContainSubstring("same location"))
			Expect(res.Flagged).To(Equal([]int{0, 1}))
		})
	})

	Context("with a beam referencing a missing joint", func() {
		It("reports an internal error", func() {
			s := triangle()
			s.Beams = append(s.Beams, truss.NewBeam(0, 7))

			res := Solve(s)
			Expect(res.Success).To(BeFalse())
			Expect(res.Reason).To(HavePrefix("Internal error: invalid beam data"))
			Expect(res.Flagged).To(Equal([]int{0, 1, 2}))
		})
	})
})

var _ = Describe("ComputeEquilibrium", func() {
	It("copies forces and stresses onto the structure", func() {
		s := triangle()
		s.Joints[2].Load = truss.Vec2{Y: -100}

		res := ComputeEquilibrium(s)
		Expect(res.Success).To(BeTrue())
		for k, b := range s.Beams {
			Expect(b.Force).To(Equal(res.Forces[k]))
			Expect(b.Stress).To(Equal(res.Stresses[k]))
		}
		for _, j := range s.Joints {
			Expect(j.Problematic).To(BeFalse())
		}
	})

	It("clears stale results when the analysis fails", func() {
		s := triangle()
		s.Joints[2].Load = truss.Vec2{Y: -100}
		ComputeEquilibrium(s)

		s.Joints[1].Anchor = false
		res := ComputeEquilibrium(s)
		Expect(res.Success).To(BeFalse())
		for _, b := range s.Beams {
			Expect(b.Force).To(BeZero())
			Expect(b.Stress).To(BeZero())
		}
		Expect(s.Joints[0].Problematic).To(BeTrue())
	})
})

var _ = Describe("assemble", func() {
	It("leaves a zero-length beam column empty and flags its ends", func() {
		s := triangle()
		s.Joints = append(s.Joints, at(2, 3, false))
		s.Beams = append(s.Beams, truss.NewBeam(2, 3))
		problematic := make([]bool, len(s.Joints))

		a, b, err := assemble(s, 0, 1, problematic)
		Expect(err).NotTo(HaveOccurred())
		rows, cols := a.Dims()
		Expect(rows).To(Equal(8))
		Expect(cols).To(Equal(4 + ReactionUnknowns))
		Expect(b.Len()).To(Equal(8))

		for r := 0; r < rows; r++ {
			Expect(a.At(r, 3)).To(BeZero())
		}
		Expect(problematic).To(Equal([]bool{false, false, true, true}))
	})

	It("places the reaction columns on the pin and roller rows", func() {
		a, _, err := assemble(triangle(), 0, 1, make([]bool, 3))
		Expect(err).NotTo(HaveOccurred())

		Expect(a.At(0, 3)).To(Equal(1.0))
		Expect(a.At(1, 4)).To(Equal(1.0))
		Expect(a.At(3, 5)).To(Equal(1.0))
		Expect(a.At(2, 5)).To(BeZero())
	})

	It("negates loads into the right-hand side", func() {
		s := triangle()
		s.Joints[2].Load = truss.Vec2{X: 5, Y: -100}

		_, b, err := assemble(s, 0, 1, make([]bool, 3))
		Expect(err).NotTo(HaveOccurred())
		Expect(b.AtVec(4)).To(Equal(-5.0))
		Expect(b.AtVec(5)).To(Equal(100.0))
	})
})

var _ = Describe("residualJoints", func() {
	It("flags only joints whose equations are violated", func() {
		a := mat.NewDense(4, 2, []float64{
			1, 0,
			0, 1,
			1, 0,
			0, 1,
		})
		u := mat.NewVecDense(2, []float64{1, 2})
		b := mat.NewVecDense(4, []float64{1, 2, 1, 5})

		Expect(residualJoints(a, u, b)).To(Equal([]int{1}))
	})

	It("falls back to every joint when the residual is small", func() {
		a := mat.NewDense(4, 2, []float64{
			1, 0,
			0, 1,
			1, 0,
			0, 1,
		})
		u := mat.NewVecDense(2, []float64{1, 2})
		b := mat.NewVecDense(4, []float64{1, 2, 1, 2})

		Expect(residualJoints(a, u, b)).To(Equal([]int{0, 1}))
	})
})
