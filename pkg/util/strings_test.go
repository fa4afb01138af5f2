package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldAccents(t *testing.T) {
	assert.Equal(t, "Gremio", FoldAccents("Grêmio"))
	assert.Equal(t, "Sao Paulo", FoldAccents("São Paulo"))
	assert.Equal(t, "criciuma", FoldKey("  Criciúma "))
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, LevenshteinDistance("Santos", "Santos"))
	assert.Equal(t, 3, LevenshteinDistance("kitten", "sitting"))
	assert.Equal(t, 5, LevenshteinDistance("", "Bahia"))
	// multi-byte runes count once
	assert.Equal(t, 1, LevenshteinDistance("Goiás", "Goiâs"))
}

func TestFuzzyMatch(t *testing.T) {
	assert.Equal(t, 0, FuzzyMatch("Sport", "Sport Recife"))
	assert.True(t, IsFuzzyMatch("Internaciona", "Internacional"))
	assert.False(t, IsFuzzyMatch("Flamengo", "Fortaleza"))
}

func TestClosestMatch(t *testing.T) {
	best, score := ClosestMatch("Atletico MG", []string{"Cruzeiro", "Atlético-MG", "Atlético-GO"})
	assert.Equal(t, "Atlético-MG", best)
	assert.Greater(t, score, 0.8)

	best, score = ClosestMatch("x", nil)
	assert.Equal(t, "", best)
	assert.Equal(t, 0.0, score)
}

func TestGetAsInteger(t *testing.T) {
	v, err := GetAsInteger("12")
	require.NoError(t, err)
	assert.Equal(t, 12, v)

	v, err = GetAsInteger(" 7.0 ")
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = GetAsInteger("7.5")
	assert.Error(t, err)
	_, err = GetAsInteger("abc")
	assert.Error(t, err)
	_, err = GetAsInteger(nil)
	assert.Error(t, err)
	_, err = GetAsInteger([]int{1})
	assert.Error(t, err)
}
