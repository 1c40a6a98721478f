package wordvecs

import (
	"bufio"
	"io"

	"github.com/unixpickle/essentials"
)

// TokenCounts keeps track of how many times different
// tokens occur in some corpus.
type TokenCounts map[string]int

// CountTokens counts the tokens in a stream of text.
func CountTokens(r io.Reader, t *Tokenizer) (TokenCounts, error) {
	if t == nil {
		t = &Tokenizer{}
	}
	counts := TokenCounts{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 1<<20)
	for scanner.Scan() {
		for _, tok := range t.Tokenize(scanner.Text()) {
			counts[tok]++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, essentials.AddCtx("count tokens", err)
	}
	return counts, nil
}

// MostCommon produces the n tokens with the most
// occurrences.
// Tokens with equal counts are sorted alphabetically.
// If there are less than n total tokens, then all tokens
// are returned.
func (t TokenCounts) MostCommon(n int) []string {
	var counts []int
	var tokens []string
	for tok, num := range t {
		tokens = append(tokens, tok)
		counts = append(counts, num)
	}

	essentials.VoodooSort(counts, func(i, j int) bool {
		if counts[i] != counts[j] {
			return counts[i] > counts[j]
		}
		return tokens[i] < tokens[j]
	}, tokens)
	if len(tokens) > n {
		tokens = tokens[:n]
	}
	return tokens
}

// OutOfVocabulary returns the counts of the tokens which
// the model cannot resolve.
func (t TokenCounts) OutOfVocabulary(m *Model) TokenCounts {
	res := TokenCounts{}
	for tok, num := range t {
		if !m.Idx(tok).Found() {
			res[tok] = num
		}
	}
	return res
}

// Coverage returns the fraction of token occurrences which
// the model can resolve.
func (t TokenCounts) Coverage(m *Model) float64 {
	var total, found int
	for tok, num := range t {
		total += num
		if m.Idx(tok).Found() {
			found += num
		}
	}
	if total == 0 {
		return 0
	}
	return float64(found) / float64(total)
}
