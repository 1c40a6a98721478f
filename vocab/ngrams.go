package vocab

// NGrams returns the character n-grams of s whose lengths
// (in runes) are between minN and maxN, inclusive.
//
// N-grams are ordered by starting position, then by
// length.
func NGrams(s string, minN, maxN int) []string {
	return ngrams(s, minN, maxN, false)
}

// fastTextNGrams is like NGrams, but skips the single
// character n-grams at either end of the string, which
// are the word boundary markers.
func fastTextNGrams(s string, minN, maxN int) []string {
	return ngrams(s, minN, maxN, true)
}

func ngrams(s string, minN, maxN int, skipEdges bool) []string {
	if minN < 1 {
		minN = 1
	}

	// Byte offsets of each rune, plus the end of s.
	var offsets []int
	for i := range s {
		offsets = append(offsets, i)
	}
	numRunes := len(offsets)
	offsets = append(offsets, len(s))

	var res []string
	for start := 0; start < numRunes; start++ {
		for n := minN; n <= maxN && start+n <= numRunes; n++ {
			if skipEdges && n == 1 && (start == 0 || start == numRunes-1) {
				continue
			}
			res = append(res, s[offsets[start]:offsets[start+n]])
		}
	}
	return res
}
