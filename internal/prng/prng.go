// Package prng replicates the game logic random number generator so that
// random factions and colors can be resolved exactly as the engine did.
package prng

// seedWords are the generator's initial words for seed zero.
var seedWords = [6]uint32{
	0xf22d0e56, 0x883126e9, 0xc624dd2f,
	0x0702c49c, 0x9e353f7d, 0x6fdf3b64,
}

// Generator is the engine's add-with-carry generator. A Generator belongs to
// the decode of a single file and must not be shared.
type Generator struct {
	w [6]uint32
}

// New returns a generator seeded with seed.
func New(seed uint32) *Generator {
	g := &Generator{}
	g.w[0] = seed + seedWords[0]
	for i := 1; i < len(g.w); i++ {
		g.w[i] = g.w[i-1] + (seedWords[i] - seedWords[i-1])
	}
	return g
}

func adc(a, b, carry uint32) (uint32, uint32) {
	s := uint64(a) + uint64(b) + uint64(carry)
	return uint32(s), uint32(s >> 32)
}

// Next advances the generator and returns the next raw value.
func (g *Generator) Next() uint32 {
	ax, carry := adc(g.w[5], g.w[4], 0)
	g.w[4] = ax
	for i := 3; i >= 0; i-- {
		ax, carry = adc(ax, g.w[i], carry)
		g.w[i] = ax
	}

	// Ripple an increment from the low word up. Reaching word 0 also
	// bumps the returned value.
	for i := 5; i >= 1; i-- {
		g.w[i]++
		if g.w[i] != 0 {
			return ax
		}
	}
	g.w[0]++
	return ax + 1
}

// Value returns a value in [lo, hi]. An empty range returns hi, as the
// engine does.
func (g *Generator) Value(lo, hi int32) int32 {
	delta := int64(hi) - int64(lo) + 1
	if delta <= 0 {
		return hi
	}
	return int32(int64(g.Next())%delta + int64(lo))
}
