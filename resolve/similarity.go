package resolve

import (
	"regexp"
	"strings"
)

// Similarity is a symmetric, case-insensitive match ratio in [0,1]: twice the
// longest common subsequence over the combined length. 1.0 means the strings
// are equal after trimming and lowercasing; an empty side always scores 0.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	ra := []rune(a)
	rb := []rune(b)
	return 2 * float64(lcsLength(ra, rb)) / float64(len(ra)+len(rb))
}

// lcsLength is the classic two-row DP. Inputs here are track titles and
// artist names, so quadratic cost is nothing.
func lcsLength(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// creditSplitRe breaks a requested artist string into its co-credited names.
var creditSplitRe = regexp.MustCompile(`(?i),|&|feat\.|ft\.|featuring`)

// BestArtistSimilarity compares every co-credited name in the requested
// artist string against every candidate artist and returns the best pairwise
// score. Any single requested artist matching any single candidate artist
// counts, which forgives billing-order and collaboration differences.
func BestArtistSimilarity(requested string, candidateArtists []string) float64 {
	if strings.TrimSpace(requested) == "" {
		return 0
	}

	var parts []string
	for _, p := range creditSplitRe.Split(requested, -1) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	best := 0.0
	for _, cand := range candidateArtists {
		for _, part := range parts {
			if s := Similarity(part, cand); s > best {
				best = s
			}
		}
	}
	return best
}
