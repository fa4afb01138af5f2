package loteca

import "strings"

// TeamState is one team's running record during a season replay
type TeamState struct {
	Team string

	Points int
	Games  int
	Wins   int
	Draws  int
	Losses int

	HomeGoalDiff int // sg_casa
	AwayGoalDiff int // sg_fora

	HomeGoalsFor     int
	HomeGoalsAgainst int
	HomeGames        int
	AwayGoalsFor     int
	AwayGoalsAgainst int
	AwayGames        int

	LastHomeGoalDiffs *Window[int]
	LastAwayGoalDiffs *Window[int]
	LastResults       *Window[string] // V/E/D across home and away games
}

func NewTeamState(team string) *TeamState {
	return &TeamState{
		Team:              team,
		LastHomeGoalDiffs: NewWindow[int](FormWindowSize),
		LastAwayGoalDiffs: NewWindow[int](FormWindowSize),
		LastResults:       NewWindow[string](FormWindowSize),
	}
}

// GoalDiff is the combined home and away goal difference
func (s *TeamState) GoalDiff() int {
	return s.HomeGoalDiff + s.AwayGoalDiff
}

// ApplyHome records a match played at home
func (s *TeamState) ApplyHome(goalsFor, goalsAgainst int) {
	s.HomeGames++
	s.HomeGoalsFor += goalsFor
	s.HomeGoalsAgainst += goalsAgainst
	s.HomeGoalDiff += goalsFor - goalsAgainst
	s.LastHomeGoalDiffs.Push(goalsFor - goalsAgainst)
	s.applyResult(goalsFor, goalsAgainst)
}

// ApplyAway records a match played away
func (s *TeamState) ApplyAway(goalsFor, goalsAgainst int) {
	s.AwayGames++
	s.AwayGoalsFor += goalsFor
	s.AwayGoalsAgainst += goalsAgainst
	s.AwayGoalDiff += goalsFor - goalsAgainst
	s.LastAwayGoalDiffs.Push(goalsFor - goalsAgainst)
	s.applyResult(goalsFor, goalsAgainst)
}

func (s *TeamState) applyResult(goalsFor, goalsAgainst int) {
	s.Games++
	r := Outcome(goalsFor, goalsAgainst)
	s.LastResults.Push(r)
	switch r {
	case ResultWin:
		s.Wins++
		s.Points += 3
	case ResultDraw:
		s.Draws++
		s.Points++
	default:
		s.Losses++
	}
}

// HomeScoredAvg is goals scored per home game, 0 before the first one
func (s *TeamState) HomeScoredAvg() float64 {
	return ratio(s.HomeGoalsFor, s.HomeGames)
}

func (s *TeamState) HomeConcededAvg() float64 {
	return ratio(s.HomeGoalsAgainst, s.HomeGames)
}

func (s *TeamState) AwayScoredAvg() float64 {
	return ratio(s.AwayGoalsFor, s.AwayGames)
}

func (s *TeamState) AwayConcededAvg() float64 {
	return ratio(s.AwayGoalsAgainst, s.AwayGames)
}

// FormSequence joins the recent result letters, "-" when there are none yet
func (s *TeamState) FormSequence() string {
	seq := strings.Join(s.LastResults.Values(), "")
	if seq == "" {
		return "-"
	}
	return seq
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// SeasonState owns every team's state for one season replay, in first-seen order
type SeasonState struct {
	teams map[string]*TeamState
	order []string
}

func NewSeasonState() *SeasonState {
	return &SeasonState{teams: make(map[string]*TeamState)}
}

// Team returns the team's state, creating a zeroed one on first use
func (ss *SeasonState) Team(name string) *TeamState {
	if s, ok := ss.teams[name]; ok {
		return s
	}
	s := NewTeamState(name)
	ss.teams[name] = s
	ss.order = append(ss.order, name)
	return s
}

// Get returns the state without creating it
func (ss *SeasonState) Get(name string) (*TeamState, bool) {
	s, ok := ss.teams[name]
	return s, ok
}

// Teams returns the states in the order teams were first registered
func (ss *SeasonState) Teams() []*TeamState {
	out := make([]*TeamState, 0, len(ss.order))
	for _, name := range ss.order {
		out = append(out, ss.teams[name])
	}
	return out
}

func (ss *SeasonState) Len() int { return len(ss.order) }

// TotalPoints sums points over all teams
func (ss *SeasonState) TotalPoints() int {
	total := 0
	for _, s := range ss.teams {
		total += s.Points
	}
	return total
}
