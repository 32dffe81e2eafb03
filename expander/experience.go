// Package expander grows a feature set from recent search experience:
// co-active feature instances are paired into candidate combined features,
// deduplicated through canonical pair keys, scored by activation
// statistics, and the best candidates form an expanded feature set.
package expander

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/exp/rand"

	"ggs/game"
)

// Experience is one search sample: the position searched, its legal moves,
// and the visit-count distribution the search produced over them.
type Experience struct {
	State  game.State
	Moves  []game.Move
	Policy []float64
	Mover  int
	Weight float64
}

// ExperienceBuffer collects experience across games for training and
// feature discovery.
type ExperienceBuffer interface {
	Add(Experience)
	// SampleBatch draws n samples with replacement, weighted by each
	// sample's Weight.
	SampleBatch(rng *rand.Rand, n int) []Experience
	// SampleBatchUniformly draws n samples with replacement, each stored
	// sample equally likely.
	SampleBatchUniformly(rng *rand.Rand, n int) []Experience
	// All returns the full backing store, which may contain unfilled
	// zero-value slots.
	All() []Experience
	WriteToFile(path string) error
}

// RingBuffer is a fixed-capacity ExperienceBuffer overwriting the oldest
// samples first.
type RingBuffer struct {
	data   []Experience
	next   int
	filled int
}

func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{data: make([]Experience, capacity)}
}

func (b *RingBuffer) Add(e Experience) {
	b.data[b.next] = e
	b.next = (b.next + 1) % len(b.data)
	if b.filled < len(b.data) {
		b.filled++
	}
}

func (b *RingBuffer) Len() int { return b.filled }

func (b *RingBuffer) SampleBatch(rng *rand.Rand, n int) []Experience {
	if b.filled == 0 {
		return nil
	}
	total := 0.0
	for i := 0; i < b.filled; i++ {
		total += b.data[i].Weight
	}
	if total <= 0 {
		return b.SampleBatchUniformly(rng, n)
	}
	batch := make([]Experience, n)
	for i := range batch {
		sampled := rng.Float64() * total
		cumulative := 0.0
		pick := b.filled - 1
		for j := 0; j < b.filled; j++ {
			cumulative += b.data[j].Weight
			if sampled < cumulative {
				pick = j
				break
			}
		}
		batch[i] = b.data[pick]
	}
	return batch
}

func (b *RingBuffer) SampleBatchUniformly(rng *rand.Rand, n int) []Experience {
	if b.filled == 0 {
		return nil
	}
	batch := make([]Experience, n)
	for i := range batch {
		batch[i] = b.data[rng.Intn(b.filled)]
	}
	return batch
}

func (b *RingBuffer) All() []Experience { return b.data }

// WriteToFile persists one sample per line: state hash, mover, weight, and
// the move policy as move=probability pairs.
func (b *RingBuffer) WriteToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create experience file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i := 0; i < b.filled; i++ {
		e := b.data[i]
		fmt.Fprintf(w, "%d %d %v", e.State.Hash(), e.Mover, e.Weight)
		for j, m := range e.Moves {
			fmt.Fprintf(w, " %s=%v", m, e.Policy[j])
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write experience file: %w", err)
	}
	return nil
}
