package metrics

import (
	"math"

	"github.com/san-kum/trussim/internal/truss"
)

// ZeroForce counts members whose |force| is within threshold. Value is the
// fraction of observed members.
type ZeroForce struct {
	name      string
	threshold float64
	zero      int
	samples   int
}

func NewZeroForce(threshold float64) *ZeroForce {
	return &ZeroForce{
		name:      "zero_force",
		threshold: threshold,
	}
}

func (z *ZeroForce) Name() string {
	return z.name
}

func (z *ZeroForce) Observe(k int, b truss.Beam) {
	z.samples++
	if math.Abs(b.Force) <= z.threshold {
		z.zero++
	}
}

func (z *ZeroForce) Value() float64 {
	if z.samples == 0 {
		return 0
	}
	return float64(z.zero) / float64(z.samples)
}

func (z *ZeroForce) Count() int { return z.zero }

func (z *ZeroForce) Reset() {
	z.zero = 0
	z.samples = 0
}
