package walkthrough

import "unicode/utf16"

// LCGVersion identifies the generator recurrence. Layouts produced under
// different versions are not comparable.
const LCGVersion = 1

const (
	lcgMul     = 9301
	lcgInc     = 49297
	lcgModulus = 233280
)

// LCG is the linear congruential generator used for footprint draws:
//
//	state = (state*9301 + 49297) mod 233280
//
// The zero value is a generator seeded with 0.
type LCG struct {
	state int64
}

// NewLCG returns a generator seeded with seed reduced into [0, 233280).
func NewLCG(seed int64) *LCG {
	s := seed % lcgModulus
	if s < 0 {
		s += lcgModulus
	}
	return &LCG{state: s}
}

// Next advances the generator and returns the new state.
func (g *LCG) Next() int64 {
	g.state = (g.state*lcgMul + lcgInc) % lcgModulus
	return g.state
}

// Float64 advances the generator and returns a value in [0, 1).
func (g *LCG) Float64() float64 {
	return float64(g.Next()) / lcgModulus
}

// Intn advances the generator and returns floor(Float64()*n). n must be positive.
func (g *LCG) Intn(n int) int {
	i := int(g.Float64() * float64(n))
	return min(i, n-1)
}

// Seed derives a generator seed from a node identity: the sum of its
// UTF-16 code units.
func Seed(id string) int64 {
	var sum int64
	for _, u := range utf16.Encode([]rune(id)) {
		sum += int64(u)
	}
	return sum
}
