package loteca

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveColumnsExactAliases(t *testing.T) {
	res := ResolveColumns([]string{"Fase", "Data", "Time Mandante", "Time Visitante", "Placar"}, CupAliases)

	home, ok := res.Column(FieldHome)
	assert.True(t, ok)
	assert.Equal(t, "Time Mandante", home)
	away, _ := res.Column(FieldAway)
	assert.Equal(t, "Time Visitante", away)
	phase, _ := res.Column(FieldPhase)
	assert.Equal(t, "Fase", phase)
	assert.True(t, res.Has(FieldHome, FieldAway, FieldDate, FieldPhase))
}

func TestResolveColumnsCaseInsensitiveSubstring(t *testing.T) {
	res := ResolveColumns([]string{"DATA DO JOGO", "clube mandante", "clube visitante"}, CupAliases)

	home, _ := res.Column(FieldHome)
	away, _ := res.Column(FieldAway)
	date, _ := res.Column(FieldDate)
	assert.Equal(t, "clube mandante", home)
	assert.Equal(t, "clube visitante", away)
	assert.Equal(t, "DATA DO JOGO", date)
}

func TestResolveColumnsExactMatchIsNotDisplaced(t *testing.T) {
	res := ResolveColumns([]string{"Mandante", "Estado Mandante", "Visitante"}, CupAliases)

	home, _ := res.Column(FieldHome)
	assert.Equal(t, "Mandante", home)
}

func TestResolveColumnsReportsMissing(t *testing.T) {
	res := ResolveColumns([]string{"Data", "Estadio"}, CupAliases)

	assert.False(t, res.Has(FieldHome))
	assert.Equal(t, []string{FieldHome, FieldAway}, res.Missing(FieldHome, FieldAway, FieldDate))
}
