package loteca

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/MichelRochytor/projetoloteca/internal/logger"
)

// Base fixture columns written ahead of the features
const (
	ColRound     = "Rodada"
	ColDate      = "Data"
	ColHome      = "Time da Casa"
	ColScore     = "Placar"
	ColAway      = "Time Visitante"
	ColHomeGoals = "Gols_Mandante"
	ColAwayGoals = "Gols_Visitante"
)

// DataFrame converts the table into a gota dataframe, fixture columns first
func (t *EnrichedTable) DataFrame() dataframe.DataFrame {
	n := t.Len()
	rounds := make([]int, n)
	dates := make([]string, n)
	homes := make([]string, n)
	scores := make([]string, n)
	aways := make([]string, n)
	homeGoals := make([]int, n)
	awayGoals := make([]int, n)
	for i, m := range t.Matches {
		rounds[i] = m.Round
		dates[i] = FormatMatchDate(m.Date)
		homes[i] = m.Home
		scores[i] = m.Score
		aways[i] = m.Away
		homeGoals[i] = m.HomeGoals
		awayGoals[i] = m.AwayGoals
	}

	cols := []series.Series{
		series.New(rounds, series.Int, ColRound),
		series.New(dates, series.String, ColDate),
		series.New(homes, series.String, ColHome),
		series.New(scores, series.String, ColScore),
		series.New(aways, series.String, ColAway),
		series.New(homeGoals, series.Int, ColHomeGoals),
		series.New(awayGoals, series.Int, ColAwayGoals),
	}
	for _, c := range t.Columns {
		switch c.Kind {
		case Text:
			cols = append(cols, series.New(c.Texts, series.String, c.Name))
		case Integer:
			ints := make([]int, len(c.Floats))
			for i, v := range c.Floats {
				ints[i] = int(v)
			}
			cols = append(cols, series.New(ints, series.Int, c.Name))
		default:
			cols = append(cols, series.New(c.Floats, series.Float, c.Name))
		}
	}
	return dataframe.New(cols...)
}

// WriteCSV writes the table as a training CSV
func (t *EnrichedTable) WriteCSV(w io.Writer) error {
	df := t.DataFrame()
	if df.Err != nil {
		return fmt.Errorf("failed to build dataframe: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes the table to path, creating parent directories
func (t *EnrichedTable) WriteCSVFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := t.WriteCSV(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("Enriched table written", path, t.Len())
	return nil
}

// ReadDataFrame loads a CSV keeping every column as text
func ReadDataFrame(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f, dataframe.DetectTypes(false), dataframe.DefaultType(series.String))
	if df.Err != nil {
		return df, fmt.Errorf("failed to read %s: %w", path, df.Err)
	}
	return df, nil
}

/////// Persistence ///////

// EnrichedMatch is one feature row as stored in sqlite
type EnrichedMatch struct {
	Year     int    `column:"year" dbtype:"INTEGER NOT NULL" primary:"true"`
	Division int    `column:"division" dbtype:"INTEGER NOT NULL" primary:"true"`
	Row      int    `column:"row_index" dbtype:"INTEGER NOT NULL" primary:"true"`
	Round    int    `column:"round" dbtype:"INTEGER NOT NULL" index:"true"`
	Date     string `column:"date" dbtype:"TEXT"`
	Home     string `column:"home" dbtype:"TEXT NOT NULL" index:"true"`
	Away     string `column:"away" dbtype:"TEXT NOT NULL" index:"true"`
	Score    string `column:"score" dbtype:"TEXT"`

	PosHome           int     `column:"pos_home" dbtype:"INTEGER"`
	PosAway           int     `column:"pos_away" dbtype:"INTEGER"`
	FormHome          string  `column:"form_home" dbtype:"TEXT"`
	FormAway          string  `column:"form_away" dbtype:"TEXT"`
	MomentumHome      float64 `column:"momentum_home" dbtype:"REAL"`
	MomentumAway      float64 `column:"momentum_away" dbtype:"REAL"`
	AttackHome        float64 `column:"attack_home" dbtype:"REAL"`
	DefenceAway       float64 `column:"defence_away" dbtype:"REAL"`
	DesperationHome   float64 `column:"desperation_home" dbtype:"REAL"`
	DesperationAway   float64 `column:"desperation_away" dbtype:"REAL"`
	SoberbaHome       float64 `column:"soberba_home" dbtype:"REAL"`
	SoberbaAway       float64 `column:"soberba_away" dbtype:"REAL"`
	CupHome           string  `column:"cup_home" dbtype:"TEXT"`
	CupAway           string  `column:"cup_away" dbtype:"TEXT"`
	H2HHomeWins       int     `column:"h2h_home_wins" dbtype:"INTEGER"`
	H2HAwayWins       int     `column:"h2h_away_wins" dbtype:"INTEGER"`
	H2HDraws          int     `column:"h2h_draws" dbtype:"INTEGER"`
	H2HWinRate        float64 `column:"h2h_win_rate" dbtype:"REAL"`
	H2HAproveitamento float64 `column:"h2h_aproveitamento" dbtype:"REAL"`
	Classico          int     `column:"classico" dbtype:"INTEGER"`
}

func (m *EnrichedMatch) GetTableName() string {
	return "enriched_matches"
}

func (m *EnrichedMatch) GetPrimaryKey() map[string]interface{} {
	return map[string]interface{}{"year": m.Year, "division": m.Division, "row_index": m.Row}
}

func (m *EnrichedMatch) SetPrimaryKey(pk map[string]interface{}) error {
	year, ok1 := pk["year"].(int)
	division, ok2 := pk["division"].(int)
	row, ok3 := pk["row_index"].(int)
	if !ok1 || !ok2 || !ok3 {
		return fmt.Errorf("invalid enriched match key %v", pk)
	}
	m.Year, m.Division, m.Row = year, division, row
	return nil
}

func (m *EnrichedMatch) BeforeSave() error {
	if m.Home == "" || m.Away == "" {
		return fmt.Errorf("enriched match %d/%d needs both teams", m.Year, m.Row)
	}
	return nil
}

func (m *EnrichedMatch) AfterSave() error { return nil }

// Records flattens the table into persistable rows
func (t *EnrichedTable) Records() []*EnrichedMatch {
	out := make([]*EnrichedMatch, t.Len())
	for i, m := range t.Matches {
		out[i] = &EnrichedMatch{
			Year:     t.Year,
			Division: t.Int(ColSerieB, i),
			Row:      m.Row,
			Round:    m.Round,
			Date:     FormatMatchDate(m.Date),
			Home:     m.Home,
			Away:     m.Away,
			Score:    m.Score,

			PosHome:           t.Int(ColPosHome, i),
			PosAway:           t.Int(ColPosAway, i),
			FormHome:          t.Text(ColFormHome, i),
			FormAway:          t.Text(ColFormAway, i),
			MomentumHome:      t.Float(ColMomentumHome, i),
			MomentumAway:      t.Float(ColMomentumAway, i),
			AttackHome:        t.Float(ColAttackHome, i),
			DefenceAway:       t.Float(ColDefenceAway, i),
			DesperationHome:   t.Float(ColDesperationHome, i),
			DesperationAway:   t.Float(ColDesperationAway, i),
			SoberbaHome:       t.Float(ColSoberbaHome, i),
			SoberbaAway:       t.Float(ColSoberbaAway, i),
			CupHome:           t.Text(ColCupHome, i),
			CupAway:           t.Text(ColCupAway, i),
			H2HHomeWins:       t.Int(ColH2HHomeWins, i),
			H2HAwayWins:       t.Int(ColH2HAwayWins, i),
			H2HDraws:          t.Int(ColH2HDraws, i),
			H2HWinRate:        t.Float(ColH2HWinRate, i),
			H2HAproveitamento: t.Float(ColH2HAproveitamento, i),
			Classico:          t.Int(ColClassico, i),
		}
	}
	return out
}

// SaveEnriched stores every row of the table
func SaveEnriched(t *EnrichedTable) error {
	if err := BulkSave(t.Records()); err != nil {
		return fmt.Errorf("failed to save enriched rows for %d: %w", t.Year, err)
	}
	return nil
}
