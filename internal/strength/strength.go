// Package strength scores passwords with a simple advisory heuristic.
// It has no dependency on the encryption code and never rejects a password.
package strength

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// Symbols is the punctuation set that earns the symbol point.
	Symbols   = "!@#$%^&*()-_=+[]{};:,.<>?/|\\`~"
	MinLength = 8
	MaxScore  = 5
)

// Score returns a value in [0, MaxScore], one point for each criterion met:
// at least MinLength characters, a lowercase letter, an uppercase letter,
// a digit and a character from Symbols.
func Score(password string) int {
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(Symbols, r):
			hasSymbol = true
		}
	}

	score := 0
	for _, met := range []bool{
		utf8.RuneCountInString(password) >= MinLength,
		hasLower,
		hasUpper,
		hasDigit,
		hasSymbol,
	} {
		if met {
			score++
		}
	}

	return score
}

type Level uint8

const (
	Weak Level = iota
	Medium
	Strong
	VeryStrong
)

func (l Level) String() string {
	switch l {
	case Weak:
		return "Weak"
	case Medium:
		return "Medium"
	case Strong:
		return "Strong"
	case VeryStrong:
		return "Very Strong"
	default:
		return "Unknown"
	}
}

// LevelOf buckets a score the way the strength meter displays it.
func LevelOf(score int) Level {
	switch {
	case score <= 1:
		return Weak
	case score == 2:
		return Medium
	case score == 3:
		return Strong
	default:
		return VeryStrong
	}
}

// Evaluate is shorthand for LevelOf(Score(password)).
func Evaluate(password string) (int, Level) {
	score := Score(password)
	return score, LevelOf(score)
}
