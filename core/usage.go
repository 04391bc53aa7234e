package core

import (
	"math"
	"unicode/utf8"
)

// DefaultCharsPerToken is the default character-to-token ratio.
// Approximately 4 characters equals 1 token for English text.
const DefaultCharsPerToken = 4.0

// Estimator approximates token usage from raw text for providers that do not
// report it. The estimate is advisory.
type Estimator struct {
	// CharsPerToken is the average number of runes per token.
	CharsPerToken float64
}

// NewEstimator creates an estimator with the given ratio.
// If charsPerToken is <= 0, DefaultCharsPerToken is used.
func NewEstimator(charsPerToken float64) Estimator {
	if charsPerToken <= 0 || math.IsNaN(charsPerToken) || math.IsInf(charsPerToken, 0) {
		charsPerToken = DefaultCharsPerToken
	}
	return Estimator{CharsPerToken: charsPerToken}
}

// Count estimates the number of tokens in text.
// Counts runes rather than bytes and rounds up, so any non-empty text is at
// least one token and longer text never yields a smaller count.
func (e Estimator) Count(text string) int {
	return e.CountRunes(utf8.RuneCountInString(text))
}

// CountRunes estimates the number of tokens in text of n runes.
// Callers tracking a growing text can keep a running rune count instead of
// re-scanning it.
func (e Estimator) CountRunes(n int) int {
	if n <= 0 {
		return 0
	}
	ratio := e.CharsPerToken
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		ratio = DefaultCharsPerToken
	}
	return int(math.Ceil(float64(n) / ratio))
}

// Estimate returns the usage for a prompt and its completion.
func (e Estimator) Estimate(prompt, completion string) Usage {
	return NewUsage(e.Count(prompt), e.Count(completion))
}

// EstimateUsage is a convenience function using the default estimator.
func EstimateUsage(prompt, completion string) Usage {
	return NewEstimator(DefaultCharsPerToken).Estimate(prompt, completion)
}
