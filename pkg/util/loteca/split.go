package loteca

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/MichelRochytor/projetoloteca/internal/logger"
)

// historyNames maps the unaccented spellings of the full-history export to the fixture spellings
var historyNames = map[string]string{
	"Vasco":        "Vasco da Gama",
	"Gremio":       "Grêmio",
	"Goias":        "Goiás",
	"Criciuma":     "Criciúma",
	"Sao Paulo":    "São Paulo",
	"Vitoria":      "EC Vitória",
	"Atletico-MG":  "Atlético-MG",
	"Parana":       "Paraná",
	"Sao Caetano":  "São Caetano",
	"Botafogo-RJ":  "Botafogo",
	"Athletico-PR": "Athletico-PR",
	"Atletico-PR":  "Athletico-PR",
	"Ceara":        "Ceará SC",
	"America-MG":   "América-MG",
	"Sport":        "Sport Recife",
}

// historyAliases resolves the columns of the full-history export
var historyAliases = []FieldAliases{
	{Field: FieldDate, Aliases: []string{"data"}},
	{Field: FieldHome, Aliases: []string{"mandante"}},
	{Field: FieldAway, Aliases: []string{"visitante"}},
	{Field: "home_goals", Aliases: []string{"mandante_Placar"}},
	{Field: "away_goals", Aliases: []string{"visitante_Placar"}},
	{Field: FieldRound, Aliases: []string{"rodata", "rodada"}},
}

func historyName(name string) string {
	if n, ok := historyNames[name]; ok {
		return n
	}
	return name
}

// SplitHistory splits a full-history export into one Série A fixture file per year under outDir.
// Rows with an unparseable date are dropped. It returns the files written, in year order.
func SplitHistory(historyPath, outDir string) ([]string, error) {
	tbl, err := ReadCSVFile(historyPath)
	if err != nil {
		return nil, err
	}
	cols := ResolveColumns(tbl.Headers, historyAliases)
	if missing := cols.Missing(FieldDate, FieldHome, FieldAway, "home_goals", "away_goals", FieldRound); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingColumns, missing)
	}
	dateCol, _ := cols.Column(FieldDate)
	homeCol, _ := cols.Column(FieldHome)
	awayCol, _ := cols.Column(FieldAway)
	hgCol, _ := cols.Column("home_goals")
	agCol, _ := cols.Column("away_goals")
	roundCol, _ := cols.Column(FieldRound)

	byYear := make(map[int][][]string)
	for i, row := range tbl.Rows {
		date, err := ParseMatchDate(tbl.Value(row, dateCol))
		if err != nil {
			logger.Debug("Dropping history row", i+2, err)
			continue
		}
		hg, err1 := parseGoals(tbl.Value(row, hgCol))
		ag, err2 := parseGoals(tbl.Value(row, agCol))
		if err1 != nil || err2 != nil {
			logger.Warn("Dropping history row with bad score", i+2)
			continue
		}
		round, err := GetRound(tbl.Value(row, roundCol))
		if err != nil {
			logger.Warn("Dropping history row", i+2, err)
			continue
		}
		byYear[date.Year()] = append(byYear[date.Year()], []string{
			strconv.Itoa(round),
			FormatMatchDate(date),
			historyName(tbl.Value(row, homeCol)),
			fmt.Sprintf("%d-%d", hg, ag),
			historyName(tbl.Value(row, awayCol)),
		})
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", outDir, err)
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	headers := []string{ColRound, ColDate, ColHome, ColScore, ColAway}
	var written []string
	for _, y := range years {
		path := filepath.Join(outDir, fmt.Sprintf("brasileiraoA%d.csv", y))
		if err := WriteCSVFile(path, headers, byYear[y]); err != nil {
			return written, err
		}
		logger.Info("Season file written", path, len(byYear[y]))
		written = append(written, path)
	}
	return written, nil
}
