package sentiment

import (
	"math"

	"github.com/pscheid92/moodpulse/internal/domain"
)

// Band is one interval of the five-way score partition.
// A score belongs to the band when it is below Upper, or equal to Upper when Inclusive.
type Band struct {
	Label     domain.SentimentLabel
	Title     string
	Emoji     string
	Color     string
	Upper     float64
	Inclusive bool
}

// Bands is evaluated in order; the first matching row wins.
var Bands = []Band{
	{Label: domain.LabelVeryNegative, Title: "Very Negative", Emoji: "😢", Color: "rgb(239, 68, 68)", Upper: -0.6},
	{Label: domain.LabelNegative, Title: "Negative", Emoji: "😕", Color: "rgb(249, 115, 22)", Upper: -0.2},
	{Label: domain.LabelNeutral, Title: "Neutral", Emoji: "😐", Color: "rgb(245, 158, 11)", Upper: 0.2, Inclusive: true},
	{Label: domain.LabelPositive, Title: "Positive", Emoji: "😊", Color: "rgb(34, 197, 94)", Upper: 0.6, Inclusive: true},
	{Label: domain.LabelVeryPositive, Title: "Very Positive", Emoji: "😄", Color: "rgb(14, 159, 110)", Upper: math.Inf(1), Inclusive: true},
}

func (b Band) contains(score float64) bool {
	return score < b.Upper || (b.Inclusive && score == b.Upper)
}

// BandFor returns the band containing score. NaN falls into the neutral band.
func BandFor(score float64) Band {
	if math.IsNaN(score) {
		return Bands[2]
	}
	for _, b := range Bands {
		if b.contains(score) {
			return b
		}
	}
	return Bands[len(Bands)-1]
}

// LabelFor returns the five-way label for score.
func LabelFor(score float64) domain.SentimentLabel {
	return BandFor(score).Label
}

// Color returns the display color for score.
func Color(score float64) string {
	return BandFor(score).Color
}
