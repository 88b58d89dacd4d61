package weather

import (
	"context"
	"math/rand/v2"
	"sync"
)

// Reading is the current weather at a location. An empty Condition means the
// provider does not report one.
type Reading struct {
	TempC     int    `json:"temp"`
	Condition string `json:"condition,omitempty"`
}

// Provider looks up the current weather for coordinates.
type Provider interface {
	Current(ctx context.Context, lat, lon float64) (Reading, error)
}

// Random temperature bounds, min inclusive and max exclusive.
const (
	RandomMinTempC = 25
	RandomMaxTempC = 38
)

// RandomProvider draws a plausible tropical temperature and leaves the
// condition untouched.
type RandomProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomProvider constructs a provider. A nil rng uses a time seeded source.
func NewRandomProvider(rng *rand.Rand) *RandomProvider {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &RandomProvider{rng: rng}
}

// Current ignores the coordinates.
func (p *RandomProvider) Current(_ context.Context, _, _ float64) (Reading, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Reading{TempC: RandomMinTempC + p.rng.IntN(RandomMaxTempC-RandomMinTempC)}, nil
}

var _ Provider = (*RandomProvider)(nil)
