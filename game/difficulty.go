package game

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDifficulty is returned for a difficulty name outside easy, medium and hard.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Difficulty selects the AI tuning row.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty resolves a difficulty name, case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

func (d Difficulty) String() string {
	return string(d)
}
