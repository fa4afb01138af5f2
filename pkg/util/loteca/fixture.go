package loteca

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/MichelRochytor/projetoloteca/internal/logger"
)

// Division classes carried by fixture rows
const (
	DivisionA = 0
	DivisionB = 1
)

var (
	// ErrMissingColumns means a fixture table has no recognisable home, away or date column
	ErrMissingColumns = errors.New("fixture table is missing required columns")
	// ErrNoTeamsTable means no team/region table could be found for a season
	ErrNoTeamsTable = errors.New("no teams table")
)

// Match is one fixture row
type Match struct {
	Row       int // position in the sorted fixture
	Round     int
	Date      time.Time
	DateRaw   string
	Home      string
	Away      string
	Score     string
	HomeGoals int
	AwayGoals int
	Division  int
	// HasDivision is false when the source row carried no division flag
	HasDivision bool
}

// Fixture is a season's fixture list, stably sorted by round
type Fixture struct {
	Year    int
	Matches []*Match
}

// LoadFixtureCSV reads a league fixture file
func LoadFixtureCSV(path string) (*Fixture, error) {
	t, err := ReadCSVFile(path)
	if err != nil {
		return nil, err
	}
	fx, err := FixtureFromTable(t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fx, nil
}

// ParseFixtureCSV reads fixture rows from CSV content
func ParseFixtureCSV(r io.Reader) (*Fixture, error) {
	t, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	return FixtureFromTable(t)
}

// FixtureFromTable builds a fixture from a raw table.
// Rows with a round outside 1..38 or an unparseable date are dropped; a bad score counts as 0-0.
func FixtureFromTable(t *Table) (*Fixture, error) {
	cols := ResolveColumns(t.Headers, FixtureAliases)
	if missing := cols.Missing(FieldHome, FieldAway, FieldDate); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	homeCol, _ := cols.Column(FieldHome)
	awayCol, _ := cols.Column(FieldAway)
	dateCol, _ := cols.Column(FieldDate)
	roundCol, hasRound := cols.Column(FieldRound)
	scoreCol, _ := cols.Column(FieldScore)
	divisionCol, hasDivision := cols.Column(FieldDivision)

	fx := &Fixture{}
	for i, row := range t.Rows {
		home := t.Value(row, homeCol)
		away := t.Value(row, awayCol)
		if home == "" || away == "" {
			logger.Debug("Skipping row without teams", i+2)
			continue
		}

		round := 0
		if hasRound {
			r, err := GetRound(t.Value(row, roundCol))
			if err != nil {
				logger.Warn("Dropping row with bad round", i+2, err)
				continue
			}
			round = r
		}
		if round < 1 || round > 38 {
			logger.Warn("Dropping row with round out of range", i+2, round)
			continue
		}

		rawDate := t.Value(row, dateCol)
		date, err := ParseMatchDate(rawDate)
		if err != nil {
			logger.Warn("Dropping row", i+2, err)
			continue
		}

		m := &Match{
			Round:   round,
			Date:    date,
			DateRaw: rawDate,
			Home:    home,
			Away:    away,
			Score:   t.Value(row, scoreCol),
		}
		m.HomeGoals, m.AwayGoals = ParseScore(m.Score)
		if hasDivision {
			m.Division, m.HasDivision = parseDivision(t.Value(row, divisionCol))
		}
		fx.Matches = append(fx.Matches, m)
	}

	fx.SortByRound()
	return fx, nil
}

// GetRound parses a round value, accepting the "7.0" rendering some exports use
func GetRound(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid round %q", s)
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("invalid round %q", s)
	}
	return int(f), nil
}

// parseDivision reads a division flag: 1/true/B mean Série B, 0/false/A mean Série A
func parseDivision(s string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "1.0", "true", "b", "sim", "serie b", "série b":
		return DivisionB, true
	case "0", "0.0", "false", "a", "nao", "não", "serie a", "série a":
		return DivisionA, true
	}
	return 0, false
}

// SortByRound stably sorts the matches by round and renumbers their rows
func (fx *Fixture) SortByRound() {
	sort.SliceStable(fx.Matches, func(i, j int) bool {
		return fx.Matches[i].Round < fx.Matches[j].Round
	})
	for i, m := range fx.Matches {
		m.Row = i
	}
}

// SetDivision flags every match as belonging to a division
func (fx *Fixture) SetDivision(division int) {
	for _, m := range fx.Matches {
		m.Division = division
		m.HasDivision = true
	}
}

// Rounds groups the matches by round, in round order
func (fx *Fixture) Rounds() map[int][]*Match {
	out := make(map[int][]*Match)
	for _, m := range fx.Matches {
		out[m.Round] = append(out[m.Round], m)
	}
	return out
}

// Teams lists every team in the fixture in first-seen order
func (fx *Fixture) Teams() []string {
	seen := make(map[string]bool)
	var teams []string
	for _, m := range fx.Matches {
		for _, t := range []string{m.Home, m.Away} {
			if !seen[t] {
				seen[t] = true
				teams = append(teams, t)
			}
		}
	}
	return teams
}

// Len is the match count
func (fx *Fixture) Len() int {
	return len(fx.Matches)
}
