package loteca

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// leagueFixture builds a round-robin style fixture with the given number of matches per round
func leagueFixture(prefix string, rounds, perRound int) *Fixture {
	var sb strings.Builder
	sb.WriteString("Rodada,Data,Time da Casa,Placar,Time Visitante\n")
	for r := 1; r <= rounds; r++ {
		for g := 0; g < perRound; g++ {
			fmt.Fprintf(&sb, "%d,%02d/05/15,%s%d,1-0,%s%d\n", r, r, prefix, 2*g, prefix, 2*g+1)
		}
	}
	fx, err := ParseFixtureCSV(strings.NewReader(sb.String()))
	if err != nil {
		panic(err)
	}
	return fx
}

func TestDraftSlate(t *testing.T) {
	serieA := leagueFixture("A", 3, 10)
	serieB := leagueFixture("B", 3, 10)

	slate := DraftSlate(serieA, serieB, 2, 14)
	require.Len(t, slate, 14)

	series := map[string]int{}
	for i, s := range slate {
		assert.Equal(t, i+1, s.Game)
		series[s.Serie]++
		if s.Serie == "A" {
			assert.Equal(t, 2, s.Match.Round)
		}
	}
	assert.Equal(t, 10, series["A"])
	assert.Equal(t, 4, series["B"])

	again := DraftSlate(serieA, serieB, 2, 14)
	for i := range slate {
		assert.Same(t, slate[i].Match, again[i].Match)
	}
}

func TestDraftSlateFillsFromOtherRounds(t *testing.T) {
	serieA := leagueFixture("A", 2, 10)
	serieB := leagueFixture("B", 2, 2)

	slate := DraftSlate(serieA, serieB, 2, 14)
	require.Len(t, slate, 14)
	other := 0
	for _, s := range slate {
		if s.Match.Round != 2 {
			other++
		}
	}
	assert.Equal(t, 2, other)
	// earlier dates come first
	assert.Equal(t, 1, slate[0].Match.Round)
}

func TestWriteSlates(t *testing.T) {
	cfg := DefaultLotecaConfig()
	cfg.DataDir = t.TempDir()
	cfg.SeasonRounds = 3
	writeSeason(t, cfg, 2015)
	out := t.TempDir()

	n, err := WriteSlates(cfg, 2015, out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	raw, err := os.ReadFile(filepath.Join(out, "2015", "rodada1.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "\ufeffJogo,"))

	tbl, err := ReadCSVFile(filepath.Join(out, "2015", "rodada1.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Jogo", ColDate, ColHome, ColAway, "Serie", ColRound}, tbl.Headers)
	assert.Len(t, tbl.Rows, 4)

	n, err = WriteSlates(cfg, 1999, out)
	require.NoError(t, err)
	assert.Zero(t, n)
}
