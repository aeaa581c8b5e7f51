// Package generator picks the next letter to practice.
package generator

import (
	"math/rand"
	"time"
)

// Picker draws letter ids at random, optionally biased toward weak letters.
type Picker struct {
	rnd *rand.Rand
}

// New returns a Picker seeded with the current time.
func New() *Picker {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Picker.
func NewWithSeed(seed int64) *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(seed))}
}

// Pick selects one id uniformly from ids. It returns "" when ids is empty.
func (p *Picker) Pick(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[p.rnd.Intn(len(ids))]
}

// PickWeighted selects one id, weighting ids in weak by 1+factor.
func (p *Picker) PickWeighted(ids []string, weak map[string]struct{}, factor float64) string {
	if len(ids) == 0 {
		return ""
	}
	if len(weak) == 0 || factor <= 0 {
		return p.Pick(ids)
	}
	weights := make([]float64, len(ids))
	total := 0.0
	for i, id := range ids {
		w := 1.0
		if _, ok := weak[id]; ok {
			w += factor
		}
		weights[i] = w
		total += w
	}

	r := p.rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return ids[i]
		}
	}
	return ids[len(ids)-1]
}

// PickOther behaves like PickWeighted but avoids returning current when another id exists.
func (p *Picker) PickOther(ids []string, current string, weak map[string]struct{}, factor float64) string {
	if len(ids) <= 1 {
		return p.PickWeighted(ids, weak, factor)
	}
	rest := make([]string, 0, len(ids)-1)
	for _, id := range ids {
		if id != current {
			rest = append(rest, id)
		}
	}
	if len(rest) == 0 {
		return current
	}
	return p.PickWeighted(rest, weak, factor)
}
