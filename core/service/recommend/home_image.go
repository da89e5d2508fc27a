package recommend

import (
	"math/rand"
	"sync"

	"ruralhome_server/core/domain"
)

// DefaultImagePool holds placeholder thumbnails for feed listings without photos.
var DefaultImagePool = []string{
	"/static/houses/rural-01.jpg",
	"/static/houses/rural-02.jpg",
	"/static/houses/rural-03.jpg",
	"/static/houses/rural-04.jpg",
	"/static/houses/rural-05.jpg",
	"/static/houses/rural-06.jpg",
	"/static/houses/rural-07.jpg",
	"/static/houses/rural-08.jpg",
}

// ImageAllocator deals thumbnails from a shuffled deck and reshuffles when
// the deck runs out, so consecutive listings rarely repeat an image.
type ImageAllocator struct {
	mu   sync.Mutex
	rng  *rand.Rand
	pool []string
	deck []string
}

func NewImageAllocator(pool []string, seed int64) *ImageAllocator {
	p := make([]string, len(pool))
	copy(p, pool)
	return &ImageAllocator{
		rng:  rand.New(rand.NewSource(seed)),
		pool: p,
	}
}

// Next returns the next thumbnail, or "" when the pool is empty.
func (a *ImageAllocator) Next() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.pool) == 0 {
		return ""
	}
	if len(a.deck) == 0 {
		a.deck = make([]string, len(a.pool))
		copy(a.deck, a.pool)
		a.rng.Shuffle(len(a.deck), func(i, j int) {
			a.deck[i], a.deck[j] = a.deck[j], a.deck[i]
		})
	}
	img := a.deck[0]
	a.deck = a.deck[1:]
	return img
}

// Apply fills ImageURL when missing.
func (a *ImageAllocator) Apply(c *domain.Candidate) {
	if c.ImageURL != "" {
		return
	}
	c.ImageURL = a.Next()
}
