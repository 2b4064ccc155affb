package services

import (
	"bufio"
	"bytes"
	"fmt"

	"github.com/weave-pm/weave/internal/domain/values"
)

// parseManifestToolsVersion extracts the tools-version comment from the
// head of a manifest file. The exact manifest grammar is an external
// collaborator (spec.md §1); this delegates the one line every grammar
// this workspace supports is required to start with to the shared
// domain-level parser.
func parseManifestToolsVersion(raw []byte) (values.ToolsVersion, error) {
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	if !scanner.Scan() {
		return values.ToolsVersion{}, fmt.Errorf("empty manifest")
	}
	return values.ParseToolsVersionHeader(scanner.Text())
}

// closestMatch returns the candidate with the smallest Levenshtein
// distance to target, and that distance. Returns ("", a large distance)
// for an empty candidate list.
func closestMatch(target string, candidates []string) (string, int) {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein(target, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 {
		return "", 1 << 30
	}
	return best, bestDist
}

// levenshtein computes the classic edit distance between a and b.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
