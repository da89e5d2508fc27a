package recommend

import (
	"sync"
	"testing"

	"ruralhome_server/core/domain"
)

func TestImageAllocatorDealsWholeDeck(t *testing.T) {
	a := NewImageAllocator(DefaultImagePool, 3)

	seen := make(map[string]int)
	for i := 0; i < len(DefaultImagePool); i++ {
		seen[a.Next()]++
	}
	if len(seen) != len(DefaultImagePool) {
		t.Errorf("first deck dealt %d distinct images, want %d", len(seen), len(DefaultImagePool))
	}

	// Deck reshuffles once exhausted.
	for i := 0; i < len(DefaultImagePool); i++ {
		seen[a.Next()]++
	}
	for img, n := range seen {
		if n != 2 {
			t.Errorf("image %s dealt %d times over two decks, want 2", img, n)
		}
	}
}

func TestImageAllocatorSeeded(t *testing.T) {
	a := NewImageAllocator(DefaultImagePool, 99)
	b := NewImageAllocator(DefaultImagePool, 99)
	for i := 0; i < 20; i++ {
		if x, y := a.Next(), b.Next(); x != y {
			t.Fatalf("deal %d: %s != %s with equal seeds", i, x, y)
		}
	}
}

func TestImageAllocatorEmptyPool(t *testing.T) {
	a := NewImageAllocator(nil, 1)
	if got := a.Next(); got != "" {
		t.Errorf("Next() = %q, want empty", got)
	}
}

func TestImageAllocatorApply(t *testing.T) {
	a := NewImageAllocator([]string{"/img/only.jpg"}, 1)

	c := domain.Candidate{ImageURL: "https://cdn/own.jpg"}
	a.Apply(&c)
	if c.ImageURL != "https://cdn/own.jpg" {
		t.Errorf("existing image replaced: %s", c.ImageURL)
	}

	empty := domain.Candidate{}
	a.Apply(&empty)
	if empty.ImageURL != "/img/only.jpg" {
		t.Errorf("ImageURL = %q, want /img/only.jpg", empty.ImageURL)
	}
}

func TestImageAllocatorConcurrent(t *testing.T) {
	a := NewImageAllocator(DefaultImagePool, 5)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if a.Next() == "" {
					t.Error("Next() returned empty image")
					return
				}
			}
		}()
	}
	wg.Wait()
}
