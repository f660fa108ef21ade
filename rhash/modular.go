package rhash

import "math/rand"

// Modular is a reversible bijection via modular arithmetic: h(v) = v*h1 mod
// maxRange, unhash(v) = v*h2 mod maxRange, where h1 is odd and coprime with
// maxRange and h2 is its multiplicative inverse mod maxRange. Offers a more
// uniform distribution than Bucket at the cost of destroying locality
// entirely — useful under extreme skew.
//
// The rng is seeded with a fixed constant so a given maxDomain always
// produces the same (h1, h2) pair; the exact sequence isn't part of the
// contract.
type Modular struct {
	maxRange int64
	h1       int64
	h2       int64
}

// NewModular builds a Modular hasher for IDs in [0, maxDomain).
func NewModular(maxDomain int64) *Modular {
	r := rand.New(rand.NewSource(12345))

	m := &Modular{maxRange: maxDomain}
	g := int64(0)
	for g != 1 {
		m.h1 = 0
		for m.h1%2 == 0 {
			m.h1 = r.Int63n(maxDomain)
		}
		g, m.h2 = extendedGCD(maxDomain, m.h1)
	}
	return m
}

func (m *Modular) Hash(v int64) int64 {
	return mod(v*m.h1, m.maxRange)
}

func (m *Modular) Unhash(v int64) int64 {
	return mod(v*m.h2, m.maxRange)
}

func mod(v, n int64) int64 {
	r := v % n
	if r < 0 {
		r += n
	}
	return r
}

// extendedGCD returns gcd(a, b) and the modular inverse of b with respect
// to a, via the iterative extended Euclidean algorithm.
func extendedGCD(a, b int64) (g, bi int64) {
	if b > a {
		a, b = b, a
	}
	x, y := int64(0), int64(1)
	lastx, lasty := int64(1), int64(0)
	for b != 0 {
		q := a / b
		a, b = b, a%b
		x, lastx = lastx-q*x, x
		y, lasty = lasty-q*y, y
	}
	return a, lasty
}
