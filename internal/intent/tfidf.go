package intent

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Match is the best template found for an utterance.
type Match struct {
	Intent Intent  `json:"intent"`
	Phrase string  `json:"phrase"`
	Score  float64 `json:"score"`
}

// Scorer finds the template closest to an utterance. The TF-IDF Index is the
// default; any similarity backend with the same contract can replace it.
type Scorer interface {
	Best(text string) Match
}

var (
	nonToken = regexp.MustCompile(`[^a-z0-9#]+`)
	digits   = regexp.MustCompile(`^\d+$`)
)

const numToken = "#num"

// Tokenize lower-cases text, splits it on anything that is not a letter or
// digit, and replaces numbers with a placeholder token.
func Tokenize(text string) []string {
	fields := strings.Fields(nonToken.ReplaceAllString(strings.ToLower(text), " "))
	for i, f := range fields {
		if digits.MatchString(f) {
			fields[i] = numToken
		}
	}
	return fields
}

// Index scores utterances against a template table by TF-IDF cosine
// similarity.
type Index struct {
	templates []Template
	vectors   []map[string]float64
	norms     []float64
	idf       map[string]float64
	unseen    float64
}

// NewIndex builds the document frequencies and template vectors.
func NewIndex(templates []Template) *Index {
	ix := &Index{
		templates: templates,
		idf:       make(map[string]float64),
	}

	n := float64(len(templates))
	df := make(map[string]int)
	tokens := make([][]string, len(templates))
	for i, t := range templates {
		tokens[i] = Tokenize(t.Phrase)
		seen := make(map[string]bool)
		for _, tok := range tokens[i] {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}
	for tok, count := range df {
		ix.idf[tok] = math.Log(n / float64(count))
	}
	// Words no template uses weigh as much as the rarest template word.
	if n > 1 {
		ix.unseen = math.Log(n)
	} else {
		ix.unseen = 1
	}

	ix.vectors = make([]map[string]float64, len(templates))
	ix.norms = make([]float64, len(templates))
	for i := range templates {
		ix.vectors[i] = ix.weigh(tokens[i])
		ix.norms[i] = norm(ix.vectors[i])
	}
	return ix
}

func (ix *Index) weigh(tokens []string) map[string]float64 {
	v := make(map[string]float64, len(tokens))
	for _, tok := range tokens {
		w, ok := ix.idf[tok]
		if !ok {
			w = ix.unseen
		}
		v[tok] += w
	}
	return v
}

// Best returns the highest scoring template. Ties keep the earlier template.
// An empty utterance scores zero against everything.
func (ix *Index) Best(text string) Match {
	toks := Tokenize(text)
	if len(toks) == 0 {
		return Match{}
	}
	q := ix.weigh(toks)
	qn := norm(q)
	if qn == 0 {
		return Match{}
	}

	// Fixed summation order keeps scores stable between runs.
	keys := make([]string, 0, len(q))
	for tok := range q {
		keys = append(keys, tok)
	}
	sort.Strings(keys)

	var best Match
	for i, t := range ix.templates {
		if ix.norms[i] == 0 {
			continue
		}
		var dot float64
		for _, tok := range keys {
			dot += q[tok] * ix.vectors[i][tok]
		}
		score := dot / (qn * ix.norms[i])
		if score > best.Score {
			best = Match{Intent: t.Intent, Phrase: t.Phrase, Score: score}
		}
	}
	return best
}

func norm(v map[string]float64) float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}
