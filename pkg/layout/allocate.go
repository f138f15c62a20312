package layout

import (
	"math"

	apperrors "github.com/matzehuels/squaremap/pkg/errors"
)

// Allocate converts weights into integer pixel areas that share one scale
// coefficient, area / sum(weights). Each result is truncated, so the sum of
// the returned areas may fall short of area by fewer than len(weights) pixels.
//
// Allocate fails with DEGENERATE_INPUT when weights is empty, when the total
// weight is zero, or when area is not positive. Negative weights are
// rejected as INVALID_INPUT.
func Allocate(area int, weights []int) ([]int, error) {
	if len(weights) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeDegenerateInput, "no weights to allocate")
	}
	if area <= 0 {
		return nil, apperrors.New(apperrors.ErrCodeDegenerateInput, "container area must be positive, got %d", area)
	}

	total := 0
	for i, w := range weights {
		if w < 0 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "weight %d is negative (%d)", i, w)
		}
		total += w
	}
	if total == 0 {
		return nil, apperrors.New(apperrors.ErrCodeDegenerateInput, "total weight is zero")
	}

	c := float64(area) / float64(total)
	areas := make([]int, len(weights))
	for i, w := range weights {
		areas[i] = int(math.Floor(c * float64(w)))
	}
	return areas, nil
}
