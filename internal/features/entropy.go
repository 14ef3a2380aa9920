package features

import "math"

// Entropy is the Shannon entropy of the character distribution of s, in bits,
// rounded to four decimal places.
func Entropy(s string) float64 {
	counts := make(map[rune]int)
	total := 0
	for _, r := range s {
		counts[r]++
		total++
	}
	if total == 0 {
		return 0
	}

	var h float64
	for _, c := range counts {
		p := float64(c) / float64(total)
		h -= p * math.Log2(p)
	}
	return math.Round(h*1e4) / 1e4
}
