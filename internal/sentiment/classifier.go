package sentiment

import (
	"strings"
	"unicode"

	"github.com/pscheid92/moodpulse/internal/domain"
)

var positiveWords = map[string]struct{}{
	"happy": {}, "joy": {}, "excited": {}, "good": {}, "great": {},
	"excellent": {}, "amazing": {}, "love": {}, "wonderful": {}, "beautiful": {},
}

var negativeWords = map[string]struct{}{
	"sad": {}, "angry": {}, "upset": {}, "bad": {}, "terrible": {},
	"awful": {}, "horrible": {}, "hate": {}, "disappointed": {}, "frustrating": {},
}

// Classify scores text by counting exact lexicon matches.
//
// The raw score is (positive - negative) / tokens * 2, clamped to [-1, 1].
// Matching is case-insensitive and punctuation is not stripped, so "happy!" does not match.
func Classify(text string) domain.SentimentAnalysis {
	tokens := tokenize(strings.ToLower(text))

	var positive, negative int
	for _, tok := range tokens {
		if _, ok := positiveWords[tok]; ok {
			positive++
		}
		if _, ok := negativeWords[tok]; ok {
			negative++
		}
	}

	total := max(len(tokens), 1)
	score := clamp(float64(positive-negative)/float64(total)*2, -1, 1)

	band := BandFor(score)
	return domain.SentimentAnalysis{
		Score: score,
		Label: band.Label,
		Emoji: band.Emoji,
	}
}

// tokenize splits on whitespace runs. Leading and trailing runs produce an empty
// token each, and empty text produces one empty token; those count toward the total.
func tokenize(text string) []string {
	tokens := []string{}
	start := 0
	inSpace := false
	for i, r := range text {
		if isSpace(r) {
			if !inSpace {
				tokens = append(tokens, text[start:i])
				inSpace = true
			}
			continue
		}
		if inSpace {
			start = i
			inSpace = false
		}
	}
	if inSpace {
		return append(tokens, "")
	}
	return append(tokens, text[start:])
}

func isSpace(r rune) bool {
	return (unicode.IsSpace(r) && r != '\u0085') || r == '\ufeff'
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
