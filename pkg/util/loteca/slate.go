package loteca

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/MichelRochytor/projetoloteca/internal/logger"
)

// SlateMatch is one numbered game of a Loteca slate
type SlateMatch struct {
	Game  int
	Match *Match
	Serie string
}

type slateCandidate struct {
	match *Match
	serie string
}

// DraftSlate picks the games of a round's slate: every Série A match of the round, topped up
// with Série B matches of the same round and then of other rounds. Sampling is seeded by the
// round so a slate is reproducible. Games are ordered by date then series and numbered from 1.
func DraftSlate(serieA, serieB *Fixture, round, size int) []SlateMatch {
	rng := rand.New(rand.NewSource(int64(round)))

	var picked []slateCandidate
	var sameRound, otherRounds []*Match
	for _, m := range serieA.Matches {
		if m.Round == round {
			picked = append(picked, slateCandidate{m, "A"})
		}
	}
	for _, m := range serieB.Matches {
		if m.Round == round {
			sameRound = append(sameRound, m)
		} else {
			otherRounds = append(otherRounds, m)
		}
	}

	for _, m := range sample(rng, sameRound, size-len(picked)) {
		picked = append(picked, slateCandidate{m, "B"})
	}
	// postponed games leave gaps that other rounds fill
	for _, m := range sample(rng, otherRounds, size-len(picked)) {
		picked = append(picked, slateCandidate{m, "B"})
	}

	sort.SliceStable(picked, func(i, j int) bool {
		a, b := picked[i], picked[j]
		if !a.match.Date.Equal(b.match.Date) {
			return a.match.Date.Before(b.match.Date)
		}
		return a.serie < b.serie
	})
	if len(picked) > size {
		picked = picked[:size]
	}

	slate := make([]SlateMatch, len(picked))
	for i, c := range picked {
		slate[i] = SlateMatch{Game: i + 1, Match: c.match, Serie: c.serie}
	}
	return slate
}

// sample returns up to n matches chosen without replacement
func sample(rng *rand.Rand, matches []*Match, n int) []*Match {
	if n <= 0 || len(matches) == 0 {
		return nil
	}
	if n > len(matches) {
		n = len(matches)
	}
	out := make([]*Match, n)
	for i, j := range rng.Perm(len(matches))[:n] {
		out[i] = matches[j]
	}
	return out
}

// SlateDataFrame lays a slate out as Jogo, Data, Time da Casa, Time Visitante, Serie, Rodada
func SlateDataFrame(slate []SlateMatch) dataframe.DataFrame {
	n := len(slate)
	games := make([]int, n)
	dates := make([]string, n)
	homes := make([]string, n)
	aways := make([]string, n)
	serieNames := make([]string, n)
	rounds := make([]int, n)
	for i, s := range slate {
		games[i] = s.Game
		dates[i] = s.Match.DateRaw
		homes[i] = s.Match.Home
		aways[i] = s.Match.Away
		serieNames[i] = s.Serie
		rounds[i] = s.Match.Round
	}
	return dataframe.New(
		series.New(games, series.Int, "Jogo"),
		series.New(dates, series.String, ColDate),
		series.New(homes, series.String, ColHome),
		series.New(aways, series.String, ColAway),
		series.New(serieNames, series.String, "Serie"),
		series.New(rounds, series.Int, ColRound),
	)
}

// WriteSlates drafts every round of a season and writes {outDir}/{year}/rodada{n}.csv.
// It returns the number of files written.
func WriteSlates(cfg *LotecaConfig, year int, outDir string) (int, error) {
	pathA, pathB := cfg.SeriesPath(DivisionA, year), cfg.SeriesPath(DivisionB, year)
	if !fileExists(pathA) || !fileExists(pathB) {
		logger.Warn("Skipping year without Serie A or B files", year)
		return 0, nil
	}
	serieA, err := LoadFixtureCSV(pathA)
	if err != nil {
		return 0, err
	}
	serieB, err := LoadFixtureCSV(pathB)
	if err != nil {
		return 0, err
	}

	dir := filepath.Join(outDir, fmt.Sprint(year))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	written := 0
	for round := 1; round <= cfg.SeasonRounds; round++ {
		slate := DraftSlate(serieA, serieB, round, cfg.SlateSize)
		if len(slate) == 0 {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("rodada%d.csv", round))
		if err := writeSlate(path, slate); err != nil {
			return written, err
		}
		written++
	}
	logger.Info("Slates written", year, written, dir)
	return written, nil
}

// fileExists reports whether path is an existing regular file
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func writeSlate(path string, slate []SlateMatch) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	// spreadsheet apps need the BOM to pick up the accents
	if _, err := f.WriteString("\ufeff"); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := SlateDataFrame(slate).WriteCSV(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
