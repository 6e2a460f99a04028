package password

import (
	crand "crypto/rand"
	"encoding/binary"
	"sync"
	"time"

	"golang.org/x/exp/rand"
)

// Source is the randomness a Generator draws from.
type Source interface {
	// Choice returns a uniformly random index in [0, n).
	Choice(n int) int
	// Sample returns k distinct indices drawn uniformly from [0, n), in
	// random order.
	Sample(n, k int) []int
}

// NewSource returns a deterministic pseudorandom Source. It is not suitable
// where passwords must resist prediction; use NewCryptoSource there.
func NewSource(seed uint64) Source {
	return &randSource{rng: rand.New(rand.NewSource(seed))}
}

// NewCryptoSource returns a Source backed by the operating system's
// cryptographically secure random number generator.
func NewCryptoSource() Source {
	return &randSource{rng: rand.New(cryptoSource{})}
}

func defaultSource() Source {
	return NewSource(uint64(time.Now().UnixNano()))
}

type randSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *randSource) Choice(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Sample runs a partial Fisher-Yates shuffle over [0, n), tracking only the
// displaced entries so the cost is O(k) regardless of n.
func (s *randSource) Sample(n, k int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	displaced := make(map[int]int, k)
	lookup := func(i int) int {
		if v, ok := displaced[i]; ok {
			return v
		}
		return i
	}

	out := make([]int, k)
	for i := 0; i < k; i++ {
		j := i + s.rng.Intn(n-i)
		out[i] = lookup(j)
		displaced[j] = lookup(i)
	}
	return out
}

// cryptoSource adapts crypto/rand to rand.Source. Seed is a no-op.
type cryptoSource struct{}

func (cryptoSource) Uint64() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("password: reading from crypto/rand failed: " + err.Error())
	}
	return binary.LittleEndian.Uint64(b[:])
}

func (cryptoSource) Seed(uint64) {}
