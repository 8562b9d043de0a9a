package bot

import "strings"

// Difficulty names a skill tier. Each tier fixes the probability that the
// bot plays the minimax move instead of a random legal one.
type Difficulty string

const (
	Beginner Difficulty = "beginner"
	Middle   Difficulty = "middle"
	Top      Difficulty = "top"
)

var thresholds = map[Difficulty]float64{
	Beginner: 0.3,
	Middle:   0.7,
	Top:      1.0,
}

// ParseDifficulty maps a tier name to a Difficulty. Unknown names play at Top.
func ParseDifficulty(s string) Difficulty {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := thresholds[d]; ok {
		return d
	}
	return Top
}

// Threshold is the probability of playing the optimal move.
func (d Difficulty) Threshold() float64 {
	if t, ok := thresholds[d]; ok {
		return t
	}
	return thresholds[Top]
}

func (d Difficulty) String() string {
	return string(d)
}
