package loteca

import (
	"strconv"
	"strings"
)

var dashReplacer = strings.NewReplacer("–", "-", "—", "-")

// ParseScore extracts goals from a score string like "3-1" (en and em dashes are accepted too).
// Anything unparseable gives 0-0 so one bad row never stops a season.
func ParseScore(score string) (int, int) {
	s := strings.TrimSpace(dashReplacer.Replace(score))
	if s == "" {
		return 0, 0
	}

	parts := strings.Split(s, "-")
	if len(parts) < 2 {
		return 0, 0
	}

	home, err := parseGoals(parts[0])
	if err != nil {
		return 0, 0
	}
	away, err := parseGoals(parts[1])
	if err != nil {
		return 0, 0
	}
	return home, away
}

// parseGoals accepts "3" and the float rendering "3.0" some exports produce
func parseGoals(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, strconv.ErrRange
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != float64(int(f)) {
		return 0, strconv.ErrSyntax
	}
	return int(f), nil
}

// Outcome letters used in the recent-form window
const (
	ResultWin  = "V"
	ResultDraw = "E"
	ResultLoss = "D"
)

// Outcome returns the result letter for the side that scored goalsFor
func Outcome(goalsFor, goalsAgainst int) string {
	switch {
	case goalsFor > goalsAgainst:
		return ResultWin
	case goalsFor < goalsAgainst:
		return ResultLoss
	default:
		return ResultDraw
	}
}
