package loteca

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(s string) time.Time {
	t, err := ParseMatchDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func cupTable(t *testing.T, content string) *Table {
	t.Helper()
	tbl, err := ReadCSV(strings.NewReader(content))
	require.NoError(t, err)
	return tbl
}

func TestBuildCupIndex(t *testing.T) {
	tbl := cupTable(t, "Data,Fase,Time Mandante,Placar,Time Visitante\n"+
		"20/05/15,Oitavas,Santos,2-1,Palmeiras\n"+
		"10/05/15,Quartas,Palmeiras,0-0,Santos\n"+
		"lixo,Final,Santos,1-0,Palmeiras\n")

	idx := BuildCupIndex(tbl, "Copa do Brasil")
	santos := idx.Matches("Santos")
	require.Len(t, santos, 2)
	assert.True(t, santos[0].Date.Before(santos[1].Date))
	assert.Equal(t, VenueAway, santos[0].Venue)
	assert.Equal(t, "Palmeiras", santos[0].Opponent)
	assert.Equal(t, VenueHome, santos[1].Venue)
	assert.Equal(t, "Oitavas", santos[1].Phase)
}

func TestBuildCupIndexWithoutTeamColumns(t *testing.T) {
	tbl := cupTable(t, "Data,Estadio\n20/05/15,Vila Belmiro\n")
	idx := BuildCupIndex(tbl, "Libertadores")
	assert.Zero(t, idx.Len())
	assert.Equal(t, NoCupMatch, idx.ProximityCode("Santos", mustDate("19/05/15"), 7))
}

func TestCupIndexNextIsStrictlyAfter(t *testing.T) {
	tbl := cupTable(t, "Data,Fase,Mandante,Visitante\n"+
		"10/05/15,Quartas,Flamengo,Vasco\n"+
		"17/05/15,Semi,Vasco,Flamengo\n")
	idx := BuildCupIndex(tbl, "Copa do Brasil")

	next, ok := idx.Next("Flamengo", mustDate("10/05/15"))
	require.True(t, ok)
	assert.Equal(t, "Semi", next.Phase)

	_, ok = idx.Next("Flamengo", mustDate("17/05/15"))
	assert.False(t, ok)
}

func TestProximityCode(t *testing.T) {
	tbl := cupTable(t, "Data,Fase,Mandante,Visitante\n17/05/15,Semi,Vasco,Flamengo\n")
	idx := BuildCupIndex(tbl, "Copa do Brasil")

	assert.Equal(t, "CS", idx.ProximityCode("Vasco", mustDate("10/05/15"), 7))
	assert.Equal(t, NoCupMatch, idx.ProximityCode("Vasco", mustDate("09/05/15"), 7))
	assert.Equal(t, NoCupMatch, idx.ProximityCode("Botafogo", mustDate("10/05/15"), 7))
}

func TestProximityCodeDefaultsPhase(t *testing.T) {
	tbl := cupTable(t, "Data,Mandante,Visitante\n17/05/15,Vasco,Flamengo\n")
	idx := BuildCupIndex(tbl, "Libertadores")
	assert.Equal(t, "LF", idx.ProximityCode("Flamengo", mustDate("15/05/15"), 7))
}

func TestMergeCupIndexes(t *testing.T) {
	cb := BuildCupIndex(cupTable(t, "Data,Fase,Mandante,Visitante\n20/05/15,Oitavas,Cruzeiro,Santos\n"), "Copa do Brasil")
	lib := BuildCupIndex(cupTable(t, "Data,Fase,Mandante,Visitante\n13/05/15,Grupos,Cruzeiro,River\n"), "Libertadores")

	merged := MergeCupIndexes(cb, nil, lib)
	cruzeiro := merged.Matches("Cruzeiro")
	require.Len(t, cruzeiro, 2)
	assert.Equal(t, "Libertadores", cruzeiro[0].Competition)
	assert.Equal(t, "Copa do Brasil", cruzeiro[1].Competition)
	assert.Equal(t, "LG", merged.ProximityCode("Cruzeiro", mustDate("10/05/15"), 7))
	assert.Len(t, merged.Matches("River"), 1)
}
