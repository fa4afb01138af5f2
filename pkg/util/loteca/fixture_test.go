package loteca

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFixtureCSV(t *testing.T) {
	content := "\ufeffRodada,Data,Time da Casa,Placar,Time Visitante\n" +
		"2,10/05/15,Santos,1-0,Vasco\n" +
		"1,03/05/15,Vasco,2-2,Santos\n" +
		"\n" +
		"2.0,10/05/15,Flamengo,0-1,Bahia\n" +
		"39,17/05/15,Bahia,1-0,Flamengo\n" +
		"x,17/05/15,Bahia,1-0,Flamengo\n" +
		"3,nan,Bahia,1-0,Flamengo\n" +
		"1,03/05/15,Bahia,adiado,Flamengo\n"

	fx, err := ParseFixtureCSV(strings.NewReader(content))
	require.NoError(t, err)
	require.Equal(t, 4, fx.Len())

	// stable by round: input order kept inside each round
	assert.Equal(t, "Vasco", fx.Matches[0].Home)
	assert.Equal(t, "Bahia", fx.Matches[1].Home)
	assert.Equal(t, "Santos", fx.Matches[2].Home)
	assert.Equal(t, "Flamengo", fx.Matches[3].Home)
	for i, m := range fx.Matches {
		assert.Equal(t, i, m.Row)
	}

	assert.Equal(t, 2, fx.Matches[0].HomeGoals)
	assert.Equal(t, 2, fx.Matches[0].AwayGoals)
	assert.Equal(t, 0, fx.Matches[1].HomeGoals, "unparseable score counts as 0-0")
	assert.False(t, fx.Matches[0].HasDivision)
	assert.Equal(t, []string{"Vasco", "Santos", "Bahia", "Flamengo"}, fx.Teams())
}

func TestParseFixtureMissingColumns(t *testing.T) {
	_, err := ParseFixtureCSV(strings.NewReader("Rodada,Placar\n1,1-0\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumns))
}

func TestFixtureDivisionFlag(t *testing.T) {
	content := "Rodada,Data,Mandante,Placar,Visitante,Eh_Serie_B\n" +
		"1,03/05/15,Paysandu,1-0,Remo,1\n" +
		"1,03/05/15,Santos,1-0,Vasco,\n"
	fx, err := ParseFixtureCSV(strings.NewReader(content))
	require.NoError(t, err)

	assert.True(t, fx.Matches[0].HasDivision)
	assert.Equal(t, DivisionB, fx.Matches[0].Division)
	assert.False(t, fx.Matches[1].HasDivision)

	fx.SetDivision(DivisionA)
	assert.True(t, fx.Matches[1].HasDivision)
	assert.Equal(t, DivisionA, fx.Matches[0].Division)
}

func TestGetRound(t *testing.T) {
	n, err := GetRound(" 7.0 ")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = GetRound("7.5")
	assert.Error(t, err)
	_, err = GetRound("")
	assert.Error(t, err)
}
