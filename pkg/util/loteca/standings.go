package loteca

import "sort"

// Standings is a league ordering derived from a state snapshot. It is rebuilt before every round.
type Standings struct {
	Order    []string
	ranks    map[string]int
	fallback int
}

// RankStandings orders teams by points, then wins, then total goal difference, all descending.
// Equal teams keep their order in the snapshot. Teams absent from the snapshot rank as fallback.
func RankStandings(states []*TeamState, fallback int) *Standings {
	sorted := make([]*TeamState, len(states))
	copy(sorted, states)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.GoalDiff() > b.GoalDiff()
	})

	st := &Standings{
		Order:    make([]string, len(sorted)),
		ranks:    make(map[string]int, len(sorted)),
		fallback: fallback,
	}
	for i, s := range sorted {
		st.Order[i] = s.Team
		st.ranks[s.Team] = i + 1
	}
	return st
}

// Position is the team's 1-based rank
func (st *Standings) Position(team string) int {
	if r, ok := st.ranks[team]; ok {
		return r
	}
	return st.fallback
}
