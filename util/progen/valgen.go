package progen

import "math/rand"

// Some helpers using closures to generate values

// MakeSeedGen returns successive seeds starting at start.
func MakeSeedGen(start int64) func() int64 {
	current := start - 1
	return func() int64 {
		current++
		return current
	}
}

// MakeInputGen returns a generator of random input strings of up to n bytes.
func MakeInputGen(seed int64, n int) func() []byte {
	rng := rand.New(rand.NewSource(seed))
	return func() []byte {
		in := make([]byte, rng.Intn(n+1))
		rng.Read(in)

		return in
	}
}
