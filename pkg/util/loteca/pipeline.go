package loteca

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/MichelRochytor/projetoloteca/internal/logger"
)

// Season is everything loaded from disk for one year
type Season struct {
	Year   int
	SerieA *Fixture
	SerieB *Fixture
	Teams  *Teams
	Cups   *CupIndex
}

// LoadSeason reads a year's league, teams and cup files.
// Missing league files are an error wrapping fs.ErrNotExist; a missing teams file falls back to
// DefaultRegions and missing cup files contribute nothing.
func LoadSeason(cfg *LotecaConfig, year int) (*Season, error) {
	s := &Season{Year: year}

	var err error
	if s.SerieA, err = LoadFixtureCSV(cfg.SeriesPath(DivisionA, year)); err != nil {
		return nil, fmt.Errorf("serie A %d: %w", year, err)
	}
	if s.SerieB, err = LoadFixtureCSV(cfg.SeriesPath(DivisionB, year)); err != nil {
		return nil, fmt.Errorf("serie B %d: %w", year, err)
	}
	s.SerieA.Year, s.SerieB.Year = year, year
	s.SerieA.SetDivision(DivisionA)
	s.SerieB.SetDivision(DivisionB)

	if s.Teams, err = LoadTeamsCSV(cfg.TeamsPath(year)); err != nil {
		logger.Warn("Using built-in regions", year, err)
		s.Teams = DefaultTeams()
	}

	var indexes []*CupIndex
	for _, cup := range cfg.Cups {
		path := cfg.CupPath(cup, year)
		tbl, err := ReadCSVFile(path)
		if err != nil {
			logger.Debug("No cup file", path)
			continue
		}
		indexes = append(indexes, BuildCupIndex(tbl, cup.Name))
	}
	s.Cups = MergeCupIndexes(indexes...)
	return s, nil
}

// LoadSeasons loads every configured year concurrently. Years with missing league files are
// skipped with a warning; the result is in year order.
func LoadSeasons(ctx context.Context, cfg *LotecaConfig) ([]*Season, error) {
	years := make([]int, 0, cfg.LastYear-cfg.FirstYear+1)
	for y := cfg.FirstYear; y <= cfg.LastYear; y++ {
		years = append(years, y)
	}
	loaded := make([]*Season, len(years))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, year := range years {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := LoadSeason(cfg, year)
			if errors.Is(err, fs.ErrNotExist) {
				logger.Warn("Skipping season without files", year)
				return nil
			}
			if err != nil {
				return err
			}
			loaded[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var seasons []*Season
	for _, s := range loaded {
		if s != nil {
			seasons = append(seasons, s)
		}
	}
	return seasons, nil
}

// ProcessSeason replays Série A then Série B of a season against the shared ledger
func ProcessSeason(cfg *LotecaConfig, s *Season, ledger *H2HLedger) (*EnrichedTable, *EnrichedTable, error) {
	engine := NewEngine(cfg, s.Cups, s.Teams)
	a, err := engine.Generate(s.SerieA, ledger)
	if err != nil {
		return nil, nil, fmt.Errorf("serie A %d: %w", s.Year, err)
	}
	b, err := engine.Generate(s.SerieB, ledger)
	if err != nil {
		return nil, nil, fmt.Errorf("serie B %d: %w", s.Year, err)
	}
	return a, b, nil
}

// PipelineOptions control what RunPipeline does besides building the table
type PipelineOptions struct {
	OutputPath   string // training csv, skipped when empty
	Persist      bool   // store ledger and feature rows in sqlite
	ResumeLedger bool   // start from the ledger stored in sqlite
}

// RunPipeline loads every season, replays them in year order threading one ledger, and returns
// the concatenated training table
func RunPipeline(ctx context.Context, cfg *LotecaConfig, opts PipelineOptions) (*EnrichedTable, *H2HLedger, error) {
	if opts.Persist || opts.ResumeLedger {
		if err := InitDatabase(cfg.DbPath); err != nil {
			return nil, nil, err
		}
		defer CloseDatabase()
	}

	ledger := NewH2HLedger()
	if opts.ResumeLedger {
		var err error
		if ledger, err = LoadLedger(); err != nil {
			return nil, nil, err
		}
	}

	seasons, err := LoadSeasons(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if len(seasons) == 0 {
		return nil, nil, fmt.Errorf("no seasons found under %s", cfg.DataDir)
	}

	var tables []*EnrichedTable
	for _, s := range seasons {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		a, b, err := ProcessSeason(cfg, s, ledger)
		if err != nil {
			return nil, nil, err
		}
		tables = append(tables, a, b)
		if opts.Persist {
			for _, t := range []*EnrichedTable{a, b} {
				if err := SaveEnriched(t); err != nil {
					return nil, nil, err
				}
			}
		}
	}

	all, err := ConcatTables(tables...)
	if err != nil {
		return nil, nil, err
	}
	logger.Highlight("Sanity check: accumulated h2h home wins", all.Sum(ColH2HHomeWins))

	if opts.Persist {
		if err := SaveLedger(ledger); err != nil {
			return nil, nil, err
		}
	}
	if opts.OutputPath != "" {
		if err := all.WriteCSVFile(opts.OutputPath); err != nil {
			return nil, nil, err
		}
	}
	return all, ledger, nil
}

// DefaultTrainingPath is where the pipeline writes the concatenated table
func DefaultTrainingPath(cfg *LotecaConfig) string {
	return filepath.Join(cfg.OutputDir, fmt.Sprintf("treino_%d_%d.csv", cfg.FirstYear, cfg.LastYear))
}
