package app

import (
	"fmt"

	"tiered-quiz-service/internal/domain"
)

// BasePoints is awarded per correct answer before the tier multiplier.
const BasePoints = 10

// multipliers are fixed-point hundredths so the product truncates deterministically.
var multipliers = map[domain.Difficulty]int{
	domain.Easy:     120,
	domain.Medium:   140,
	domain.Hard:     175,
	domain.VeryHard: 275,
}

// PointsFor converts a correct count into points for a tier, truncating toward zero.
// The tier must already be validated; an unknown tier is a programming error and panics.
func PointsFor(d domain.Difficulty, correctCount int) int {
	m, ok := multipliers[d]
	if !ok {
		panic(fmt.Sprintf("points: unvalidated difficulty %q", d))
	}
	return correctCount * BasePoints * m / 100
}
