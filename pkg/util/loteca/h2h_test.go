package loteca

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupUnknownPair(t *testing.T) {
	l := NewH2HLedger()
	r := l.Lookup("Grêmio", "Internacional")

	assert.Zero(t, r.HomeWins)
	assert.Zero(t, r.AwayWins)
	assert.Zero(t, r.Draws)
	assert.Equal(t, 0.5, r.WinRate())
	assert.Equal(t, 0.5, r.Aproveitamento())
	assert.Zero(t, l.Len(), "lookup must not create entries")
}

func TestRecordResultWeights(t *testing.T) {
	l := NewH2HLedger()
	l.RecordResult("Grêmio", "Internacional", 2, 0)
	l.RecordResult("Grêmio", "Internacional", 1, 1)
	l.RecordResult("Grêmio", "Internacional", 0, 3)

	r := l.Lookup("Grêmio", "Internacional")
	assert.Equal(t, 3, r.HomeWins)
	assert.Equal(t, 3, r.AwayWins)
	assert.Equal(t, 1, r.Draws)
	assert.Equal(t, 7, r.Total())
	assert.InDelta(t, 3.0/7.0, r.WinRate(), 1e-9)
	assert.InDelta(t, 3.5/9.0, r.Aproveitamento(), 1e-9)

	// the reverse fixture is a different pair
	assert.Zero(t, l.Lookup("Internacional", "Grêmio").Total())
}

func TestLookupReturnsCopy(t *testing.T) {
	l := NewH2HLedger()
	l.RecordResult("Bahia", "Vitória", 1, 0)

	before := l.Lookup("Bahia", "Vitória")
	l.RecordResult("Bahia", "Vitória", 1, 0)

	assert.Equal(t, 3, before.HomeWins)
	assert.Equal(t, 6, l.Lookup("Bahia", "Vitória").HomeWins)
}

func TestLedgerRoundTripsThroughSqlite(t *testing.T) {
	require.NoError(t, InitDatabase(":memory:"))
	t.Cleanup(func() { CloseDatabase() })

	l := NewH2HLedger()
	l.RecordResult("Sport", "Náutico", 2, 1)
	l.RecordResult("Náutico", "Sport", 0, 0)
	require.NoError(t, SaveLedger(l))

	// saving again updates instead of duplicating
	l.RecordResult("Sport", "Náutico", 0, 1)
	require.NoError(t, SaveLedger(l))

	n, err := Count(&H2HRecord{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	loaded, err := LoadLedger()
	require.NoError(t, err)
	assert.Equal(t, l.Lookup("Sport", "Náutico"), loaded.Lookup("Sport", "Náutico"))
	assert.Equal(t, 1, loaded.Lookup("Náutico", "Sport").Draws)
}
