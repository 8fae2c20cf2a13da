package analytics

import (
	"sort"
	"strings"
)

// Word list sizes used by the dashboard.
const (
	TopWords   = 10
	CloudWords = 50
)

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// WordFrequencyTable counts whitespace-separated tokens. Tokens are matched
// as-is: no case folding, stemming, or stop-word removal.
type WordFrequencyTable struct {
	Counts map[string]int `json:"-"`
	Total  int            `json:"total"`
	Unique int            `json:"unique"`

	order []string // first-occurrence order
}

// WordFrequency builds the table over all texts combined.
func WordFrequency(texts []string) WordFrequencyTable {
	t := WordFrequencyTable{Counts: map[string]int{}}
	for _, text := range texts {
		for _, w := range strings.Fields(text) {
			if _, ok := t.Counts[w]; !ok {
				t.order = append(t.order, w)
			}
			t.Counts[w]++
			t.Total++
		}
	}
	t.Unique = len(t.Counts)
	return t
}

// Top returns the n most frequent words; equal counts keep first-occurrence order.
func (t WordFrequencyTable) Top(n int) []WordCount {
	out := make([]WordCount, 0, len(t.order))
	for _, w := range t.order {
		out = append(out, WordCount{Word: w, Count: t.Counts[w]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Vocabulary is the set of tokens appearing in any of the texts.
func Vocabulary(texts []string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, text := range texts {
		for _, w := range strings.Fields(text) {
			set[w] = struct{}{}
		}
	}
	return set
}

// FilterExcludingVocabulary drops every token found in exclude from each text,
// keeping the remaining order and joining with single spaces.
func FilterExcludingVocabulary(texts []string, exclude map[string]struct{}) []string {
	out := make([]string, len(texts))
	for i, text := range texts {
		words := strings.Fields(text)
		kept := words[:0]
		for _, w := range words {
			if _, drop := exclude[w]; !drop {
				kept = append(kept, w)
			}
		}
		out[i] = strings.Join(kept, " ")
	}
	return out
}
