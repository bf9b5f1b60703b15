package sentiment

import (
	"strings"
	"unicode"

	"hrinsight/internal/stats"
)

const (
	LabelPositive = "positive"
	LabelNeutral  = "neutral"
	LabelNegative = "negative"

	labelCutoff      = 0.05
	negationWindow   = 2
	intensifierBoost = 1.5
)

type Result struct {
	Label         string   `json:"label"`
	Score         float64  `json:"score"`
	Comparative   float64  `json:"comparative"`
	Tokens        int      `json:"tokens"`
	PositiveWords []string `json:"positiveWords"`
	NegativeWords []string `json:"negativeWords"`
}

// Tokenize lowercases text and splits it on anything that is not a letter or
// an apostrophe.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\'' && r != '’'
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.ReplaceAll(f, "’", "'")
		f = strings.Trim(f, "'")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func Classify(text string) Result {
	tokens := Tokenize(text)
	res := Result{
		Label:         LabelNeutral,
		Tokens:        len(tokens),
		PositiveWords: []string{},
		NegativeWords: []string{},
	}
	if len(tokens) == 0 {
		return res
	}

	for i, tok := range tokens {
		polarity, ok := lexicon[tok]
		if !ok {
			continue
		}
		value := float64(polarity)
		if i > 0 && intensifiers[tokens[i-1]] {
			value *= intensifierBoost
		}
		for back := 1; back <= negationWindow && i-back >= 0; back++ {
			if negators[tokens[i-back]] {
				value = -value
				break
			}
		}
		if value > 0 {
			res.PositiveWords = append(res.PositiveWords, tok)
		} else {
			res.NegativeWords = append(res.NegativeWords, tok)
		}
		res.Score += value
	}

	res.Comparative = stats.Round(res.Score/float64(len(tokens)), 4)
	res.Score = stats.Round(res.Score, 2)
	res.Label = labelFor(res.Comparative)
	return res
}
