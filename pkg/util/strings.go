package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/MichelRochytor/projetoloteca/internal/logger"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

/**
* Returns true if the two terms are a fuzzy match
* In this case, if the 'Levenshtein distance' is <= than 2
 */
func IsFuzzyMatch(str1, str2 string) bool {
	ld := FuzzyMatch(str1, str2)
	logger.Debug("Levenshtein distance for "+str1+" and "+str2+" is", ld)
	return ld <= 2
}

// FuzzyMatch returns the minimum edit distance between the shorter string and the best
// matching substring of the longer one. Both are compared case and accent insensitively.
func FuzzyMatch(str1, str2 string) int {
	a := []rune(FoldKey(str1))
	b := []rune(FoldKey(str2))

	shorter, longer := a, b
	if len(a) > len(b) {
		shorter, longer = b, a
	}

	minDistance := math.MaxInt32
	for i := 0; i <= len(longer)-len(shorter); i++ {
		d := levenshtein(shorter, longer[i:i+len(shorter)])
		if d < minDistance {
			minDistance = d
		}
		if minDistance == 0 {
			break
		}
	}
	return minDistance
}

// LevenshteinDistance calculates the Levenshtein distance between two strings
func LevenshteinDistance(s1, s2 string) int {
	return levenshtein([]rune(s1), []rune(s2))
}

func levenshtein(s1, s2 []rune) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(s2)]
}

// FuzzyMatchScore returns a similarity score between 0.0 and 1.0
// where 1.0 is a perfect match and 0.0 is completely different
func FuzzyMatchScore(str1, str2 string) float64 {
	maxLen := len([]rune(str1))
	if l := len([]rune(str2)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(LevenshteinDistance(FoldKey(str1), FoldKey(str2)))/float64(maxLen)
}

// ClosestMatch returns the candidate most similar to name and its score.
// Ties keep the earliest candidate.
func ClosestMatch(name string, candidates []string) (string, float64) {
	best, bestScore := "", -1.0
	for _, c := range candidates {
		if s := FuzzyMatchScore(name, c); s > bestScore {
			best, bestScore = c, s
		}
	}
	if bestScore < 0 {
		return "", 0
	}
	return best, bestScore
}

// FoldAccents strips combining marks: "Grêmio" -> "Gremio"
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// FoldKey is the lookup key used for team names: trimmed, lower case, accents removed
func FoldKey(s string) string {
	return strings.ToLower(FoldAccents(strings.TrimSpace(s)))
}

// GetAsInteger converts various types to integer
// Strings may carry a whole float rendering such as "12.0"
func GetAsInteger(s any) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("cannot convert nil to integer")
	}

	switch v := s.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		if v > math.MaxInt32 || v < math.MinInt32 {
			return 0, fmt.Errorf("int64 value %d is out of int range", v)
		}
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("float64 value %f is not a whole number", v)
		}
		return int(v), nil
	case string:
		str := strings.TrimSpace(v)
		if result, err := strconv.Atoi(str); err == nil {
			return result, nil
		}
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string '%s' to integer: %w", v, err)
		}
		return GetAsInteger(f)
	default:
		return 0, fmt.Errorf("cannot convert type %T to integer", s)
	}
}
