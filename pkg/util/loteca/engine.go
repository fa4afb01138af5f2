package loteca

import (
	"fmt"
	"math"

	"github.com/MichelRochytor/projetoloteca/internal/logger"
)

// RegionLookup maps a team to its region code
type RegionLookup interface {
	Region(team string) (string, bool)
}

// Engine replays a season round by round and produces each match's features from the state
// accumulated by strictly earlier matches
type Engine struct {
	cfg     *LotecaConfig
	cups    *CupIndex
	regions RegionLookup
}

// NewEngine builds an engine. A nil config uses the package Config; nil cups or regions
// disable the signals that depend on them.
func NewEngine(cfg *LotecaConfig, cups *CupIndex, regions RegionLookup) *Engine {
	if cfg == nil {
		cfg = Config
	}
	if cups == nil {
		cups = NewCupIndex()
	}
	return &Engine{cfg: cfg, cups: cups, regions: regions}
}

// replay is the mutable state of one Generate call
type replay struct {
	season *SeasonState
	ledger *H2HLedger
	cols   *featureColumns

	homeGoals   int
	matchesSeen int
}

// Generate computes the feature columns for a fixture. The fixture is stably sorted by round first,
// so output rows follow round order. The ledger is read and updated in place so it can be threaded
// through consecutive seasons; it may be nil when head-to-head features are off.
func (e *Engine) Generate(fx *Fixture, ledger *H2HLedger) (*EnrichedTable, error) {
	return e.generate(fx, ledger, nil)
}

// generate is Generate with an optional hook called with the season state after each round
func (e *Engine) generate(fx *Fixture, ledger *H2HLedger, afterRound func(round int, season *SeasonState)) (*EnrichedTable, error) {
	if fx == nil {
		return nil, fmt.Errorf("no fixture given")
	}
	fx.SortByRound()
	if ledger == nil {
		if e.cfg.Features.IncludeH2H {
			return nil, fmt.Errorf("h2h features need a ledger")
		}
		ledger = NewH2HLedger()
	}

	r := &replay{season: NewSeasonState(), ledger: ledger, cols: newFeatureColumns()}
	e.declareColumns(r.cols)
	for _, team := range fx.Teams() {
		r.season.Team(team)
	}

	rounds := fx.Rounds()
	for round := 1; round <= e.cfg.SeasonRounds; round++ {
		standings := RankStandings(r.season.Teams(), e.cfg.RankFallback)
		for _, m := range rounds[round] {
			e.matchFeatures(r, m, standings)
			r.apply(m)
		}
		if afterRound != nil {
			afterRound(round, r.season)
		}
	}

	n := fx.Len()
	for _, c := range r.cols.cols {
		if c.Len() != n {
			logger.Error("Feature column misaligned, filling with defaults", c.Name, c.Len(), n)
			c.fill(n)
		}
	}

	t := newEnrichedTable(fx, r.cols.cols)
	e.derivedColumns(t)

	logger.Info("Features generated", fx.Year, n, len(t.Columns))
	return t, nil
}

// declareColumns fixes the output column order for the enabled feature groups
func (e *Engine) declareColumns(c *featureColumns) {
	for _, name := range []string{ColSerieB, ColPosHome, ColPosAway} {
		c.column(name, Integer)
	}
	for _, name := range []string{ColAvgScoredHome, ColAvgConcededHome, ColAvgScoredAway, ColAvgConcededAway} {
		c.column(name, Numeric)
	}
	for _, name := range []string{ColScoredHome, ColConcededHome, ColScoredAway, ColConcededAway,
		ColGoalDiffHome, ColGoalDiffAway, ColLast5DiffHome, ColLast5DiffAway} {
		c.column(name, Integer)
	}
	c.column(ColFormHome, Text)
	c.column(ColFormAway, Text)
	c.column(ColMomentumHome, Numeric)
	c.column(ColMomentumAway, Numeric)
	if e.cfg.Features.IncludeCupSignals {
		c.column(ColCupHome, Text)
		c.column(ColCupAway, Text)
	}
	for _, name := range []string{ColAttackHome, ColDefenceAway, ColDominance,
		ColDesperationHome, ColDesperationAway, ColDesperationDelta} {
		c.column(name, Numeric)
	}
	if e.cfg.Features.IncludeCupSignals {
		for _, name := range []string{ColSoberbaHome, ColSoberbaAway, ColSoberbaDelta} {
			c.column(name, Numeric)
		}
	}
	if e.cfg.Features.IncludeH2H {
		for _, name := range []string{ColH2HHomeWins, ColH2HHomeLosses, ColH2HAwayWins, ColH2HAwayLosses, ColH2HDraws} {
			c.column(name, Integer)
		}
		c.column(ColH2HWinRate, Numeric)
		c.column(ColH2HAproveitamento, Numeric)
	}
}

// matchFeatures appends one match's features, reading only pre-match state
func (e *Engine) matchFeatures(r *replay, m *Match, standings *Standings) {
	cfg := e.cfg
	home := r.season.Team(m.Home)
	away := r.season.Team(m.Away)
	posHome := standings.Position(m.Home)
	posAway := standings.Position(m.Away)

	division := cfg.H2H.MissingDivision
	if m.HasDivision {
		division = m.Division
	}

	if cfg.Features.IncludeH2H {
		if cfg.H2H.Excludes(division) {
			e.h2hColumns(r.cols, H2HRecord{})
		} else {
			rec := r.ledger.Lookup(m.Home, m.Away)
			r.ledger.RecordResult(m.Home, m.Away, m.HomeGoals, m.AwayGoals)
			e.h2hColumns(r.cols, rec)
		}
	}

	c := r.cols
	c.integer(ColSerieB, division)
	c.integer(ColPosHome, posHome)
	c.integer(ColPosAway, posAway)

	desHome := Desperation(posHome, m.Round, cfg.DesperationStartRound, cfg.SeasonRounds)
	desAway := Desperation(posAway, m.Round, cfg.DesperationStartRound, cfg.SeasonRounds)
	c.num(ColDesperationHome, desHome)
	c.num(ColDesperationAway, desAway)
	c.num(ColDesperationDelta, desHome-desAway)

	scoredHome := home.HomeScoredAvg()
	concededAway := away.AwayConcededAvg()
	c.num(ColAvgScoredHome, scoredHome)
	c.num(ColAvgConcededHome, home.HomeConcededAvg())
	c.num(ColAvgScoredAway, away.AwayScoredAvg())
	c.num(ColAvgConcededAway, concededAway)
	c.integer(ColScoredHome, home.HomeGoalsFor)
	c.integer(ColConcededHome, home.HomeGoalsAgainst)
	c.integer(ColScoredAway, away.AwayGoalsFor)
	c.integer(ColConcededAway, away.AwayGoalsAgainst)
	c.integer(ColGoalDiffHome, home.HomeGoalDiff)
	c.integer(ColGoalDiffAway, away.AwayGoalDiff)
	c.integer(ColLast5DiffHome, SumInts(home.LastHomeGoalDiffs))
	c.integer(ColLast5DiffAway, SumInts(away.LastAwayGoalDiffs))
	c.text(ColFormHome, home.FormSequence())
	c.text(ColFormAway, away.FormSequence())

	leagueAvg := r.leagueHomeGoals(cfg.DefaultLeagueHomeGoals)
	attack := scoredHome / leagueAvg
	defence := concededAway / leagueAvg
	c.num(ColAttackHome, attack)
	c.num(ColDefenceAway, defence)
	c.num(ColDominance, attack*defence)
	c.num(ColMomentumHome, Momentum(home.LastResults.Values()))
	c.num(ColMomentumAway, Momentum(away.LastResults.Values()))

	if cfg.Features.IncludeCupSignals {
		cupHome := e.cups.ProximityCode(m.Home, m.Date, cfg.CupWindowDays)
		cupAway := e.cups.ProximityCode(m.Away, m.Date, cfg.CupWindowDays)
		c.text(ColCupHome, cupHome)
		c.text(ColCupAway, cupAway)

		sobHome := Soberba(cupHome != NoCupMatch, posHome, posAway, m.Round, cfg.SeasonRounds)
		sobAway := Soberba(cupAway != NoCupMatch, posAway, posHome, m.Round, cfg.SeasonRounds)
		c.num(ColSoberbaHome, sobHome)
		c.num(ColSoberbaAway, sobAway)
		c.num(ColSoberbaDelta, sobHome-sobAway)
	}
}

// h2hColumns appends the head-to-head features of a pre-match record
func (e *Engine) h2hColumns(c *featureColumns, rec H2HRecord) {
	c.integer(ColH2HHomeWins, rec.HomeWins)
	c.integer(ColH2HHomeLosses, rec.AwayWins)
	c.integer(ColH2HAwayWins, rec.AwayWins)
	c.integer(ColH2HAwayLosses, rec.HomeWins)
	c.integer(ColH2HDraws, rec.Draws)
	c.num(ColH2HWinRate, rec.WinRate())
	c.num(ColH2HAproveitamento, rec.Aproveitamento())
}

// apply updates both teams with the match result
func (r *replay) apply(m *Match) {
	r.season.Team(m.Home).ApplyHome(m.HomeGoals, m.AwayGoals)
	r.season.Team(m.Away).ApplyAway(m.AwayGoals, m.HomeGoals)
	r.homeGoals += m.HomeGoals
	r.matchesSeen++
}

// leagueHomeGoals is the mean home goals over the matches replayed so far
func (r *replay) leagueHomeGoals(fallback float64) float64 {
	if r.matchesSeen == 0 || r.homeGoals == 0 {
		return fallback
	}
	return float64(r.homeGoals) / float64(r.matchesSeen)
}

// derivedColumns adds the columns computed from whole feature columns after the replay
func (e *Engine) derivedColumns(t *EnrichedTable) {
	n := t.Len()
	posDiff := &Column{Name: ColPosDiff, Kind: Integer, Floats: make([]float64, n)}
	balanced := &Column{Name: ColBalanced, Kind: Integer, Floats: make([]float64, n)}
	sixPointer := &Column{Name: ColSixPointer, Kind: Integer, Floats: make([]float64, n)}
	momentumDelta := &Column{Name: ColMomentumDelta, Kind: Numeric, Floats: make([]float64, n)}
	strengthSum := &Column{Name: ColStrengthSum, Kind: Numeric, Floats: make([]float64, n)}
	strengthProduct := &Column{Name: ColStrengthProduct, Kind: Numeric, Floats: make([]float64, n)}
	strengthDiff := &Column{Name: ColStrengthDifference, Kind: Numeric, Floats: make([]float64, n)}
	classico := &Column{Name: ColClassico, Kind: Integer, Floats: make([]float64, n)}

	for i, m := range t.Matches {
		d := t.Float(ColPosHome, i) - t.Float(ColPosAway, i)
		posDiff.Floats[i] = d
		balanced.Floats[i] = boolFloat(math.Abs(d) <= 3)
		sixPointer.Floats[i] = boolFloat(math.Abs(d) <= 4)
		momentumDelta.Floats[i] = t.Float(ColMomentumHome, i) - t.Float(ColMomentumAway, i)

		atk, def := t.Float(ColAttackHome, i), t.Float(ColDefenceAway, i)
		strengthSum.Floats[i] = atk + def
		strengthProduct.Floats[i] = atk * def
		strengthDiff.Floats[i] = math.Abs(atk - def)

		classico.Floats[i] = boolFloat(e.sameRegion(m.Home, m.Away))
	}

	t.setColumns(append(t.Columns, posDiff, balanced, sixPointer, momentumDelta,
		strengthSum, strengthProduct, strengthDiff, classico))
}

// sameRegion is false when either team has no known region
func (e *Engine) sameRegion(home, away string) bool {
	if e.regions == nil {
		return false
	}
	rh, ok := e.regions.Region(home)
	if !ok {
		return false
	}
	ra, ok := e.regions.Region(away)
	return ok && rh == ra
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
