package domain

import (
	"errors"
	"math/rand/v2"

	"github.com/jaminalder/element-hunt/internal/catalog"
)

// ErrTooManyTargets is returned when more targets are requested than cells exist.
var ErrTooManyTargets = errors.New("target count exceeds catalog size")

// GenerateTargets samples k distinct elements uniformly at random. A nil rng
// uses the package-level source. Every call draws fresh; two players'
// sets are independent and may overlap.
func GenerateTargets(rng *rand.Rand, elements []catalog.Element, k int) ([]HiddenTarget, error) {
	if k < 0 || k > len(elements) {
		return nil, ErrTooManyTargets
	}
	var perm []int
	if rng != nil {
		perm = rng.Perm(len(elements))
	} else {
		perm = rand.Perm(len(elements))
	}
	out := make([]HiddenTarget, k)
	for i := 0; i < k; i++ {
		out[i] = HiddenTarget{Element: elements[perm[i]]}
	}
	return out, nil
}
