// Package expert provides the read-only expert directory.
package expert

import (
	"fmt"
	"math/rand/v2"

	"github.com/bconnected/marketplace/internal/domain"
	domexp "github.com/bconnected/marketplace/internal/domain/expert"
)

// ShuffleFunc permutes n elements through swap, like rand.Shuffle.
type ShuffleFunc func(n int, swap func(i, j int))

// Directory is an immutable, ordered expert collection with O(1) id lookup.
// Safe for concurrent use.
type Directory struct {
	experts []domexp.Expert
	byID    map[string]int
	shuffle ShuffleFunc
}

// NewDirectory builds a directory preserving input order. Duplicate ids are rejected.
func NewDirectory(experts []domexp.Expert) (*Directory, error) {
	d := &Directory{
		experts: make([]domexp.Expert, len(experts)),
		byID:    make(map[string]int, len(experts)),
		shuffle: rand.Shuffle,
	}
	copy(d.experts, experts)
	for i := range d.experts {
		id := d.experts[i].ID()
		if _, dup := d.byID[id]; dup {
			return nil, fmt.Errorf("expert %q: %w", id, domain.ErrDuplicateExpert)
		}
		d.byID[id] = i
	}
	return d, nil
}

// WithShuffle replaces the shuffle used by Related.
func (d *Directory) WithShuffle(fn ShuffleFunc) *Directory {
	if fn != nil {
		d.shuffle = fn
	}
	return d
}

// All returns every expert in insertion order.
func (d *Directory) All() []domexp.Expert {
	out := make([]domexp.Expert, len(d.experts))
	copy(out, d.experts)
	return out
}

// Len returns the number of experts.
func (d *Directory) Len() int { return len(d.experts) }

// Get returns the expert with the given id.
func (d *Directory) Get(id string) (domexp.Expert, error) {
	i, ok := d.byID[id]
	if !ok {
		return domexp.Expert{}, fmt.Errorf("expert %q: %w", id, domain.ErrExpertNotFound)
	}
	return d.experts[i], nil
}

// Related returns up to count distinct experts other than excludeID in random order.
func (d *Directory) Related(excludeID string, count int) []domexp.Expert {
	if count <= 0 {
		return []domexp.Expert{}
	}
	candidates := make([]domexp.Expert, 0, len(d.experts))
	for i := range d.experts {
		if d.experts[i].ID() != excludeID {
			candidates = append(candidates, d.experts[i])
		}
	}
	d.shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates[:min(count, len(candidates))]
}
