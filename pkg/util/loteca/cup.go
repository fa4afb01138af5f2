package loteca

import (
	"sort"
	"strings"
	"time"

	"github.com/MichelRochytor/projetoloteca/internal/logger"
)

// Venue of a cup match from the indexed team's side
const (
	VenueHome = "casa"
	VenueAway = "fora"
)

// NoCupMatch is the proximity code for a team without a cup match in the window
const NoCupMatch = "-"

// CupMatch is one cup fixture seen from one team's side
type CupMatch struct {
	Date        time.Time
	Competition string
	Phase       string
	Opponent    string
	Venue       string
}

// CupIndex holds, per team, that team's cup matches sorted by date. Read-only once built.
type CupIndex struct {
	teams map[string][]CupMatch
}

// NewCupIndex returns an empty index
func NewCupIndex() *CupIndex {
	return &CupIndex{teams: make(map[string][]CupMatch)}
}

// BuildCupIndex indexes one competition's fixture table.
// A table without recognisable home, away and date columns gives an empty index.
// Rows with an unparseable date are skipped.
func BuildCupIndex(t *Table, competition string) *CupIndex {
	idx := NewCupIndex()
	if t == nil {
		return idx
	}

	cols := ResolveColumns(t.Headers, CupAliases)
	if missing := cols.Missing(FieldHome, FieldAway, FieldDate); len(missing) > 0 {
		logger.Warn("Cup table has no usable columns, skipping", competition, missing)
		return idx
	}
	homeCol, _ := cols.Column(FieldHome)
	awayCol, _ := cols.Column(FieldAway)
	dateCol, _ := cols.Column(FieldDate)
	phaseCol, hasPhase := cols.Column(FieldPhase)

	for i, row := range t.Rows {
		date, err := ParseMatchDate(t.Value(row, dateCol))
		if err != nil {
			logger.Debug("Skipping cup row", competition, i+2, err)
			continue
		}
		home := t.Value(row, homeCol)
		away := t.Value(row, awayCol)
		if home == "" || away == "" {
			continue
		}
		phase := ""
		if hasPhase {
			phase = t.Value(row, phaseCol)
		}
		if phase == "" {
			phase = "F"
		}

		idx.teams[home] = append(idx.teams[home], CupMatch{
			Date: date, Competition: competition, Phase: phase, Opponent: away, Venue: VenueHome,
		})
		idx.teams[away] = append(idx.teams[away], CupMatch{
			Date: date, Competition: competition, Phase: phase, Opponent: home, Venue: VenueAway,
		})
	}

	idx.sort()
	return idx
}

// MergeCupIndexes unions indexes built from separate competitions
func MergeCupIndexes(indexes ...*CupIndex) *CupIndex {
	merged := NewCupIndex()
	for _, idx := range indexes {
		if idx == nil {
			continue
		}
		for team, matches := range idx.teams {
			merged.teams[team] = append(merged.teams[team], matches...)
		}
	}
	merged.sort()
	return merged
}

func (c *CupIndex) sort() {
	for _, matches := range c.teams {
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Date.Before(matches[j].Date)
		})
	}
}

// Matches returns a team's indexed cup matches
func (c *CupIndex) Matches(team string) []CupMatch {
	if c == nil {
		return nil
	}
	return c.teams[team]
}

// Len is the number of indexed teams
func (c *CupIndex) Len() int {
	if c == nil {
		return 0
	}
	return len(c.teams)
}

// Next returns the team's earliest cup match strictly after ref
func (c *CupIndex) Next(team string, ref time.Time) (CupMatch, bool) {
	matches := c.Matches(team)
	i := sort.Search(len(matches), func(i int) bool {
		return matches[i].Date.After(ref)
	})
	if i == len(matches) {
		return CupMatch{}, false
	}
	return matches[i], true
}

// ProximityCode is the competition and phase initials of the team's next cup match when it falls
// within windowDays of ref, NoCupMatch otherwise
func (c *CupIndex) ProximityCode(team string, ref time.Time, windowDays int) string {
	next, ok := c.Next(team, ref)
	if !ok {
		return NoCupMatch
	}
	if next.Date.Sub(ref) > time.Duration(windowDays)*24*time.Hour {
		return NoCupMatch
	}
	return initial(next.Competition) + initial(next.Phase)
}

func initial(s string) string {
	s = strings.TrimSpace(s)
	for _, r := range s {
		return string(r)
	}
	return ""
}
