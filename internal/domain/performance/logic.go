package performance

import (
	"errors"
	"math"
)

var ErrScoreOutOfRange = errors.New("category score must be between 0 and 5")

// OverallScore is the arithmetic mean of the category scores, rounded to one
// decimal. It is recomputed on every save, never stored from client input.
func OverallScore(categories []CategoryScore) (float64, error) {
	if len(categories) == 0 {
		return 0, nil
	}
	var sum float64
	for _, category := range categories {
		if category.Score < 0 || category.Score > 5 {
			return 0, ErrScoreOutOfRange
		}
		sum += category.Score
	}
	return math.Round(sum/float64(len(categories))*10) / 10, nil
}
