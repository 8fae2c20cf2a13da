package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// two or more word characters, matching the default CountVectorizer token pattern
var tokenRE = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer turns a text into sparse term counts over a fixed vocabulary.
type Vectorizer struct {
	vocab     map[string]int
	features  int
	lowercase bool
	minN      int
	maxN      int
	binary    bool
}

func newVectorizer(vf vectorizerFile) (*Vectorizer, error) {
	if len(vf.Vocabulary) == 0 {
		return nil, fmt.Errorf("empty vocabulary")
	}
	v := &Vectorizer{vocab: make(map[string]int, len(vf.Vocabulary)), features: len(vf.Vocabulary), lowercase: true, minN: 1, maxN: 1, binary: vf.Binary}
	if vf.Lowercase != nil {
		v.lowercase = *vf.Lowercase
	}
	if len(vf.NgramRange) > 0 {
		if len(vf.NgramRange) != 2 || vf.NgramRange[0] < 1 || vf.NgramRange[1] < vf.NgramRange[0] {
			return nil, fmt.Errorf("bad ngram_range %v", vf.NgramRange)
		}
		v.minN, v.maxN = vf.NgramRange[0], vf.NgramRange[1]
	}
	seen := make(map[int]string, len(vf.Vocabulary))
	for term, idx := range vf.Vocabulary {
		if idx < 0 || idx >= len(vf.Vocabulary) {
			return nil, fmt.Errorf("term %q has index %d outside [0,%d)", term, idx, len(vf.Vocabulary))
		}
		if other, dup := seen[idx]; dup {
			return nil, fmt.Errorf("terms %q and %q share index %d", other, term, idx)
		}
		seen[idx] = term
		v.vocab[norm.NFC.String(term)] = idx
	}
	return v, nil
}

// Features is the width of the vectors Transform produces.
func (v *Vectorizer) Features() int { return v.features }

// Transform returns feature index -> count for known terms only.
func (v *Vectorizer) Transform(text string) map[int]float64 {
	text = norm.NFC.String(text)
	if v.lowercase {
		text = strings.ToLower(text)
	}
	tokens := tokenRE.FindAllString(text, -1)
	out := map[int]float64{}
	for n := v.minN; n <= v.maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			term := tokens[i]
			if n > 1 {
				term = strings.Join(tokens[i:i+n], " ")
			}
			idx, ok := v.vocab[term]
			if !ok {
				continue
			}
			if v.binary {
				out[idx] = 1
			} else {
				out[idx]++
			}
		}
	}
	return out
}
