package loteca

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"unicode/utf8"
)

type align byte

const (
	alignLeft   align = '<'
	alignRight  align = '>'
	alignCenter align = '^'
)

// roundColumn is one column of the round display
type roundColumn struct {
	title string
	width int
	align align
	value func(t *EnrichedTable, i int) string
}

func oneDecimal(col string) func(*EnrichedTable, int) string {
	return func(t *EnrichedTable, i int) string { return fmt.Sprintf("%.1f", t.Float(col, i)) }
}

func intCell(col string) func(*EnrichedTable, int) string {
	return func(t *EnrichedTable, i int) string { return fmt.Sprintf("%d", t.Int(col, i)) }
}

func yesNo(col string) func(*EnrichedTable, int) string {
	return func(t *EnrichedTable, i int) string {
		if t.Int(col, i) == 1 {
			return "S"
		}
		return "N"
	}
}

var roundColumns = []roundColumn{
	{"Data", 10, alignCenter, func(t *EnrichedTable, i int) string { return t.Matches[i].DateRaw }},
	{"Mandante", 12, alignLeft, func(t *EnrichedTable, i int) string { return t.Matches[i].Home }},
	{"Visitante", 12, alignLeft, func(t *EnrichedTable, i int) string { return t.Matches[i].Away }},
	{"Placar", 7, alignCenter, func(t *EnrichedTable, i int) string { return t.Matches[i].Score }},

	{"PosM", 4, alignRight, intCell(ColPosHome)},
	{"PosV", 4, alignRight, intCell(ColPosAway)},
	{"MomM", 5, alignCenter, oneDecimal(ColMomentumHome)},
	{"MomV", 5, alignCenter, oneDecimal(ColMomentumAway)},
	{"AtkM", 5, alignCenter, oneDecimal(ColAttackHome)},
	{"DefV", 5, alignCenter, oneDecimal(ColDefenceAway)},

	{"DesM", 5, alignCenter, oneDecimal(ColDesperationHome)},
	{"DesV", 5, alignCenter, oneDecimal(ColDesperationAway)},
	{"SobM", 5, alignCenter, oneDecimal(ColSoberbaHome)},
	{"SobV", 5, alignCenter, oneDecimal(ColSoberbaAway)},
	{"CpM", 4, alignCenter, func(t *EnrichedTable, i int) string { return t.Text(ColCupHome, i) }},

	{"H2H%", 6, alignCenter, func(t *EnrichedTable, i int) string {
		return fmt.Sprintf("%.0f%%", t.Float(ColH2HWinRate, i)*100)
	}},
	{"AproM", 6, alignCenter, func(t *EnrichedTable, i int) string {
		return fmt.Sprintf("%.2f", t.Float(ColH2HAproveitamento, i))
	}},
	{"V_M", 3, alignRight, intCell(ColH2HHomeWins)},
	{"D_M", 3, alignRight, intCell(ColH2HHomeLosses)},
	{"E", 3, alignRight, intCell(ColH2HDraws)},

	{"B?", 2, alignCenter, yesNo(ColSerieB)},
	{"CL", 2, alignCenter, yesNo(ColClassico)},
}

// pad truncates s to width runes and pads it to width
func pad(s string, width int, a align) string {
	if utf8.RuneCountInString(s) > width {
		s = string([]rune(s)[:width])
	}
	gap := width - utf8.RuneCountInString(s)
	switch a {
	case alignRight:
		return strings.Repeat(" ", gap) + s
	case alignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

// PrintRound writes a fixed-width listing of a round's matches and their main features.
// Nothing is written when the round has no matches.
func PrintRound(w io.Writer, t *EnrichedTable, round int) {
	rows := t.Round(round)
	if len(rows) == 0 {
		return
	}

	total := len(roundColumns)
	for _, c := range roundColumns {
		total += c.width
	}
	rule := strings.Repeat("=", total)

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, pad(fmt.Sprintf("RODADA %d", round), total, alignCenter))
	fmt.Fprintln(w, rule)

	cells := make([]string, len(roundColumns))
	for j, c := range roundColumns {
		cells[j] = pad(c.title, c.width, c.align)
	}
	fmt.Fprintln(w, strings.Join(cells, " "))

	for _, i := range rows {
		for j, c := range roundColumns {
			cells[j] = pad(c.value(t, i), c.width, c.align)
		}
		fmt.Fprintln(w, strings.Join(cells, " "))
	}
	fmt.Fprintln(w, rule)
}

// StandingsRow is one line of a league table
type StandingsRow struct {
	Team         string
	Played       int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
	GoalDiff     int
	Points       int
}

// TableUpTo builds the league table from the matches of rounds 1..round, ordered by points,
// wins, goal difference and goals scored, then fewest conceded and name
func TableUpTo(fx *Fixture, round int) []StandingsRow {
	season := NewSeasonState()
	for _, m := range fx.Matches {
		if m.Round > round {
			continue
		}
		season.Team(m.Home).ApplyHome(m.HomeGoals, m.AwayGoals)
		season.Team(m.Away).ApplyAway(m.AwayGoals, m.HomeGoals)
	}

	rows := make([]StandingsRow, 0, season.Len())
	for _, s := range season.Teams() {
		gf := s.HomeGoalsFor + s.AwayGoalsFor
		ga := s.HomeGoalsAgainst + s.AwayGoalsAgainst
		rows = append(rows, StandingsRow{
			Team: s.Team, Played: s.Games, Wins: s.Wins, Draws: s.Draws, Losses: s.Losses,
			GoalsFor: gf, GoalsAgainst: ga, GoalDiff: gf - ga, Points: s.Points,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.Points != b.Points:
			return a.Points > b.Points
		case a.Wins != b.Wins:
			return a.Wins > b.Wins
		case a.GoalDiff != b.GoalDiff:
			return a.GoalDiff > b.GoalDiff
		case a.GoalsFor != b.GoalsFor:
			return a.GoalsFor > b.GoalsFor
		case a.GoalsAgainst != b.GoalsAgainst:
			return a.GoalsAgainst < b.GoalsAgainst
		}
		return a.Team < b.Team
	})
	return rows
}

// PrintStandings writes the league table after a round
func PrintStandings(w io.Writer, fx *Fixture, round int) error {
	rows := TableUpTo(fx, round)
	fmt.Fprintf(w, "\nCLASSIFICAÇÃO APÓS A RODADA %d\n", round)

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tTime\tPts\tJ\tV\tE\tD\tGP\tGC\tSG\t")
	for i, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t\n",
			i+1, r.Team, r.Points, r.Played, r.Wins, r.Draws, r.Losses, r.GoalsFor, r.GoalsAgainst, r.GoalDiff)
	}
	return tw.Flush()
}
