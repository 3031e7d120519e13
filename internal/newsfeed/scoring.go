package newsfeed

import (
	"strings"
	"unicode"
)

// relevanceSaturation is the weighted keyword mass at which an article counts
// as fully on-topic. Matches beyond it cannot push the score above 1.
const relevanceSaturation = 2.5

// Scorer computes relevance and sentiment for articles from a fixed lexicon.
type Scorer struct {
	lexicon  *Lexicon
	positive map[string]bool
	negative map[string]bool
}

// NewScorer creates a scorer from the embedded default lexicon.
func NewScorer() (*Scorer, error) {
	lex, err := DefaultLexicon()
	if err != nil {
		return nil, err
	}
	return NewScorerWithLexicon(lex), nil
}

// NewScorerWithLexicon creates a scorer from an explicit lexicon.
func NewScorerWithLexicon(lex *Lexicon) *Scorer {
	s := &Scorer{
		lexicon:  lex,
		positive: make(map[string]bool, len(lex.Positive)),
		negative: make(map[string]bool, len(lex.Negative)),
	}
	for _, w := range lex.Positive {
		s.positive[strings.ToLower(w)] = true
	}
	for _, w := range lex.Negative {
		s.negative[strings.ToLower(w)] = true
	}
	return s
}

// Relevance returns a 0-1 topical fit score for an article. Each distinct
// matched keyword contributes its weight; the sum is normalized against
// relevanceSaturation and capped at 1.
func (s *Scorer) Relevance(title, summary string) float64 {
	text := normalizeText(title + " " + summary)
	padded := " " + text + " "

	var sum float64
	for _, kw := range s.lexicon.Keywords {
		// Word-boundary match so "oil" does not fire on "turmoil".
		if strings.Contains(padded, " "+strings.ToLower(kw.Term)+" ") {
			sum += kw.Weight
		}
	}

	score := sum / relevanceSaturation
	if score > 1 {
		score = 1
	}
	return score
}

// Sentiment returns a polarity label for an article from positive/negative
// word counts. Ties and no-signal text are neutral.
func (s *Scorer) Sentiment(title, summary string) string {
	var pos, neg int
	for _, word := range strings.Fields(normalizeText(title + " " + summary)) {
		if s.positive[word] {
			pos++
		}
		if s.negative[word] {
			neg++
		}
	}

	switch {
	case pos > neg:
		return "positive"
	case neg > pos:
		return "negative"
	default:
		return "neutral"
	}
}

// normalizeText lowercases and replaces every non-alphanumeric rune with a
// space so matching works on clean word boundaries.
func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
