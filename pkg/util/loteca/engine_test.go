package loteca

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const engineFixture = "Rodada,Data,Time da Casa,Placar,Time Visitante\n" +
	"1,03/05/15,A,2-0,B\n" +
	"1,03/05/15,C,1-1,D\n" +
	"2,10/05/15,A,1-0,C\n" +
	"2,10/05/15,B,0-0,D\n" +
	"3,17/05/15,D,0-3,A\n" +
	"3,17/05/15,B,2-2,C\n" +
	"4,24/05/15,A,1-1,B\n" +
	"4,24/05/15,C,0-2,D\n"

func engineConfig() *LotecaConfig {
	cfg := DefaultLotecaConfig()
	cfg.DesperationStartRound = 10
	return cfg
}

func parseEngineFixture(t *testing.T, content string) *Fixture {
	t.Helper()
	fx, err := ParseFixtureCSV(strings.NewReader(content))
	require.NoError(t, err)
	return fx
}

func generate(t *testing.T, cfg *LotecaConfig, fx *Fixture, regions RegionLookup) (*EnrichedTable, *H2HLedger) {
	t.Helper()
	ledger := NewH2HLedger()
	table, err := NewEngine(cfg, nil, regions).Generate(fx, ledger)
	require.NoError(t, err)
	return table, ledger
}

func TestEngineScenario(t *testing.T) {
	table, _ := generate(t, engineConfig(), parseEngineFixture(t, engineFixture), nil)
	require.Equal(t, 8, table.Len())

	// round 1: everyone level, ranks follow first-seen order
	assert.Equal(t, 1, table.Int(ColPosHome, 0))
	assert.Equal(t, 2, table.Int(ColPosAway, 0))
	assert.Equal(t, "-", table.Text(ColFormHome, 0))
	assert.Equal(t, 0.0, table.Float(ColMomentumHome, 0))

	// round 3, D hosts A: A leads with two wins, D second on two draws
	assert.Equal(t, "D", table.Matches[4].Home)
	assert.Equal(t, 2, table.Int(ColPosHome, 4))
	assert.Equal(t, 1, table.Int(ColPosAway, 4))
	assert.Equal(t, 3.0, table.Float(ColMomentumAway, 4))
	assert.Equal(t, "EE", table.Text(ColFormHome, 4))
	assert.Equal(t, "VV", table.Text(ColFormAway, 4))
	assert.Equal(t, 0.0, table.Float(ColDesperationAway, 4))
	assert.Equal(t, 1, table.Int(ColPosDiff, 4))
	assert.Equal(t, 1, table.Int(ColBalanced, 4))
	assert.Equal(t, -2.0, table.Float(ColMomentumDelta, 4))

	// round 3, B hosts C: equal points and wins, C ahead on goal difference
	assert.Equal(t, 4, table.Int(ColPosHome, 5))
	assert.Equal(t, 3, table.Int(ColPosAway, 5))
}

func TestEngineStrengthUsesRunningLeagueAverage(t *testing.T) {
	table, _ := generate(t, engineConfig(), parseEngineFixture(t, engineFixture), nil)

	// first match: no history, fallback average and zero attack
	assert.Equal(t, 0.0, table.Float(ColAttackHome, 0))

	// round 4, A hosts B: A scored 3 in 2 home games, B conceded 2 in 1 away game,
	// six prior matches with six home goals
	assert.InDelta(t, 1.5, table.Float(ColAvgScoredHome, 6), 1e-9)
	assert.InDelta(t, 2.0, table.Float(ColAvgConcededAway, 6), 1e-9)
	assert.InDelta(t, 1.5, table.Float(ColAttackHome, 6), 1e-9)
	assert.InDelta(t, 2.0, table.Float(ColDefenceAway, 6), 1e-9)
	assert.InDelta(t, 3.0, table.Float(ColDominance, 6), 1e-9)
	assert.InDelta(t, 3.5, table.Float(ColStrengthSum, 6), 1e-9)
	assert.InDelta(t, 0.5, table.Float(ColStrengthDifference, 6), 1e-9)
	assert.Equal(t, 3, table.Int(ColScoredHome, 6))
	assert.Equal(t, 3, table.Int(ColGoalDiffHome, 6))
}

func TestEngineHeadToHead(t *testing.T) {
	table, ledger := generate(t, engineConfig(), parseEngineFixture(t, engineFixture), nil)

	// first meeting reads an empty record
	assert.Equal(t, 0, table.Int(ColH2HHomeWins, 0))
	assert.Equal(t, 0.5, table.Float(ColH2HWinRate, 0))
	assert.Equal(t, 0.5, table.Float(ColH2HAproveitamento, 0))

	// rematch sees the round 1 win but not its own draw
	assert.Equal(t, 3, table.Int(ColH2HHomeWins, 6))
	assert.Equal(t, 3, table.Int(ColH2HAwayLosses, 6))
	assert.Equal(t, 0, table.Int(ColH2HDraws, 6))
	assert.Equal(t, 1.0, table.Float(ColH2HWinRate, 6))
	assert.InDelta(t, 3.0/5.0, table.Float(ColH2HAproveitamento, 6), 1e-9)

	ab := ledger.Lookup("A", "B")
	assert.Equal(t, 3, ab.HomeWins)
	assert.Equal(t, 1, ab.Draws)
	assert.Equal(t, 6, ledger.Len())
}

func TestEngineExcludedDivisionLeavesLedgerAlone(t *testing.T) {
	fx := parseEngineFixture(t, engineFixture)
	fx.SetDivision(DivisionB)

	table, ledger := generate(t, engineConfig(), fx, nil)
	assert.Zero(t, ledger.Len())
	for i := 0; i < table.Len(); i++ {
		assert.Equal(t, 1, table.Int(ColSerieB, i))
		assert.Equal(t, 0, table.Int(ColH2HHomeWins, i))
		assert.Equal(t, 0.5, table.Float(ColH2HWinRate, i))
		assert.Equal(t, 0.5, table.Float(ColH2HAproveitamento, i))
	}
}

func TestEngineLedgerCarriesAcrossSeasons(t *testing.T) {
	cfg := engineConfig()
	ledger := NewH2HLedger()
	engine := NewEngine(cfg, nil, nil)

	_, err := engine.Generate(parseEngineFixture(t, engineFixture), ledger)
	require.NoError(t, err)
	next, err := engine.Generate(parseEngineFixture(t, engineFixture), ledger)
	require.NoError(t, err)

	// A beat B and drew with B at home last season
	assert.Equal(t, 3, next.Int(ColH2HHomeWins, 0))
	assert.Equal(t, 1, next.Int(ColH2HDraws, 0))
}

func TestEngineIsCausal(t *testing.T) {
	cfg := engineConfig()
	before, _ := generate(t, cfg, parseEngineFixture(t, engineFixture), nil)

	// flip a round 2 result; nothing up to and including round 2 may change
	changed := strings.Replace(engineFixture, "2,10/05/15,A,1-0,C", "2,10/05/15,A,0-4,C", 1)
	after, _ := generate(t, cfg, parseEngineFixture(t, changed), nil)

	for _, c := range before.Columns {
		other, ok := after.Column(c.Name)
		require.True(t, ok, c.Name)
		for i := 0; i < 4; i++ {
			assert.Equal(t, c.String(i), other.String(i), "%s row %d", c.Name, i)
		}
	}
	assert.NotEqual(t, before.Int(ColPosAway, 4), after.Int(ColPosAway, 4))
}

func TestEngineLastRoundResultsDoNotLeak(t *testing.T) {
	cfg := engineConfig()
	before, _ := generate(t, cfg, parseEngineFixture(t, engineFixture), nil)
	changed := strings.Replace(engineFixture, "4,24/05/15,C,0-2,D", "4,24/05/15,C,5-0,D", 1)
	after, _ := generate(t, cfg, parseEngineFixture(t, changed), nil)

	for _, c := range before.Columns {
		other, _ := after.Column(c.Name)
		for i := 0; i < before.Len(); i++ {
			assert.Equal(t, c.String(i), other.String(i), "%s row %d", c.Name, i)
		}
	}
}

func TestSeasonPointsAreConservedEveryRound(t *testing.T) {
	fx := parseEngineFixture(t, engineFixture)
	expected := make(map[int]int)
	for _, m := range fx.Matches {
		if m.HomeGoals == m.AwayGoals {
			expected[m.Round] += 2
		} else {
			expected[m.Round] += 3
		}
	}

	var totals []int
	cumulative := 0
	_, err := NewEngine(engineConfig(), nil, nil).generate(fx, NewH2HLedger(), func(round int, season *SeasonState) {
		cumulative += expected[round]
		assert.Equal(t, cumulative, season.TotalPoints(), "round %d", round)
		totals = append(totals, season.TotalPoints())
	})
	require.NoError(t, err)
	require.Len(t, totals, 38)
	assert.Equal(t, []int{5, 10, 15, 20}, totals[:4])
	assert.Equal(t, 20, totals[37])
}

func TestEngineSortsOutOfOrderFixture(t *testing.T) {
	fx := &Fixture{Matches: []*Match{
		{Round: 2, Date: mustDate("10/05/15"), Home: "A", Away: "C", Score: "1-0", HomeGoals: 1},
		{Round: 1, Date: mustDate("03/05/15"), Home: "A", Away: "B", Score: "2-0", HomeGoals: 2},
	}}

	table, _ := generate(t, engineConfig(), fx, nil)
	require.Equal(t, 2, table.Len())

	assert.Equal(t, 1, table.Matches[0].Round)
	assert.Equal(t, "B", table.Matches[0].Away)
	assert.Equal(t, "-", table.Text(ColFormHome, 0))
	assert.Equal(t, 0, table.Int(ColScoredHome, 0))

	assert.Equal(t, "C", table.Matches[1].Away)
	assert.Equal(t, "V", table.Text(ColFormHome, 1))
	assert.Equal(t, 2, table.Int(ColScoredHome, 1))
	for i, m := range fx.Matches {
		assert.Equal(t, i, m.Row)
	}
}

func TestEngineFillsMisalignedColumns(t *testing.T) {
	cfg := engineConfig()
	cfg.SeasonRounds = 2

	table, _ := generate(t, cfg, parseEngineFixture(t, engineFixture), nil)
	require.Equal(t, 8, table.Len())
	for _, c := range table.Columns {
		assert.Equal(t, 8, c.Len(), c.Name)
	}
	assert.Equal(t, 0, table.Int(ColPosHome, 7))
	assert.Equal(t, "-", table.Text(ColFormHome, 7))
}

func TestEngineFeatureGroups(t *testing.T) {
	cfg := engineConfig()
	cfg.Features = FeatureGroups{}

	table, err := NewEngine(cfg, nil, nil).Generate(parseEngineFixture(t, engineFixture), nil)
	require.NoError(t, err)
	for _, name := range []string{ColH2HWinRate, ColCupHome, ColSoberbaDelta} {
		_, ok := table.Column(name)
		assert.False(t, ok, name)
	}
	_, ok := table.Column(ColDominance)
	assert.True(t, ok)

	cfg.Features.IncludeH2H = true
	_, err = NewEngine(cfg, nil, nil).Generate(parseEngineFixture(t, engineFixture), nil)
	assert.Error(t, err)
}

func TestEngineWithoutCupMatches(t *testing.T) {
	table, _ := generate(t, engineConfig(), parseEngineFixture(t, engineFixture), nil)
	for i := 0; i < table.Len(); i++ {
		assert.Equal(t, NoCupMatch, table.Text(ColCupHome, i))
		assert.Equal(t, 0.0, table.Float(ColSoberbaHome, i))
	}
}

func TestEngineCupSignals(t *testing.T) {
	cups := BuildCupIndex(cupTable(t, "Data,Fase,Mandante,Visitante\n20/05/15,Quartas,A,Z\n"), "Copa do Brasil")
	table, err := NewEngine(engineConfig(), cups, nil).Generate(parseEngineFixture(t, engineFixture), NewH2HLedger())
	require.NoError(t, err)

	// D (2nd) hosts A (1st) three days before A's cup tie
	assert.Equal(t, NoCupMatch, table.Text(ColCupHome, 4))
	assert.Equal(t, "CQ", table.Text(ColCupAway, 4))
	assert.InDelta(t, 0.0025*3/38, table.Float(ColSoberbaAway, 4), 1e-9)
	assert.Equal(t, 0.0, table.Float(ColSoberbaHome, 4))
}

func TestEngineClassico(t *testing.T) {
	regions := NewTeams(
		TeamInfo{Name: "A", Region: "SP"},
		TeamInfo{Name: "B", Region: "SP"},
		TeamInfo{Name: "C", Region: UnknownRegion},
		TeamInfo{Name: "D", Region: UnknownRegion},
	)
	table, _ := generate(t, engineConfig(), parseEngineFixture(t, engineFixture), regions)

	assert.Equal(t, 1, table.Int(ColClassico, 0))
	assert.Equal(t, 0, table.Int(ColClassico, 1), "teams without a region are never a derby")
	assert.Equal(t, 0, table.Int(ColClassico, 2))
}
