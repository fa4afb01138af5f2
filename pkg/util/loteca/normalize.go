package loteca

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/MichelRochytor/projetoloteca/internal/logger"
)

// nameFixes maps truncated or variant prefixes to the canonical team name, checked in order
var nameFixes = []struct {
	prefix string
	name   string
}{
	{"Internaciona", "Internacional"},
	{"Sampaio Corr", "Sampaio Corrêa"},
	{"Atletico-GO", "Atlético-GO"},
	{"Atlético-MG", "Atlético-MG"},
	{"Athletico-PR", "Athletico-PR"},
	{"Athletico Paranaens", "Athletico-PR"},
	{"Ceará SC", "Ceará"},
	{"Sport Recife", "Sport"},
	{"Vasco da Gama", "Vasco"},
	{"América Mineiro", "América-MG"},
	{"Red Bull Bragantino", "Bragantino"},
	{"Grêmio Novorizontino", "Novorizontino"},
	{"Cuiabá Saf", "Cuiabá"},
}

// NormalizeTeamName trims a name and maps known variants to the canonical spelling
func NormalizeTeamName(name string) string {
	name = strings.TrimSpace(name)
	for _, fix := range nameFixes {
		if strings.HasPrefix(name, fix.prefix) {
			return fix.name
		}
	}
	return name
}

var yearPattern = regexp.MustCompile(`(\d{4})`)

// yearOf extracts the season from a file name such as brasileiraoA2020.csv
func yearOf(path string) (int, bool) {
	m := yearPattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	return year, err == nil
}

// StandardizeReport summarises a StandardizeDirectory run
type StandardizeReport struct {
	Files        int
	TeamsFiles   []string
	UnknownTeams map[string]string // name -> closest known name
}

// StandardizeDirectory rewrites the team columns of every league and cup file under the data
// directory with canonical names, then writes one teams file per season from Série A and B.
func StandardizeDirectory(cfg *LotecaConfig) (*StandardizeReport, error) {
	report := &StandardizeReport{UnknownTeams: make(map[string]string)}
	known := DefaultTeams()
	perYear := make(map[int]*Teams)

	type folder struct {
		name    string
		aliases []FieldAliases
		serie   string
	}
	folders := []folder{
		{cfg.SerieAFolder, FixtureAliases, "A"},
		{cfg.SerieBFolder, FixtureAliases, "B"},
	}
	for _, cup := range cfg.Cups {
		folders = append(folders, folder{cup.Folder, CupAliases, ""})
	}

	for _, f := range folders {
		files, err := filepath.Glob(filepath.Join(cfg.DataDir, f.name, "*.csv"))
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", f.name, err)
		}
		sort.Strings(files)

		for _, path := range files {
			year, ok := yearOf(path)
			if !ok {
				continue
			}
			tbl, err := ReadCSVFile(path)
			if err != nil {
				logger.Warn("Skipping unreadable file", path, err)
				continue
			}

			cols := ResolveColumns(tbl.Headers, f.aliases)
			homeCol, okHome := cols.Column(FieldHome)
			awayCol, okAway := cols.Column(FieldAway)
			if !okHome || !okAway {
				logger.Warn("Skipping file without team columns", path)
				continue
			}
			hi, ai := tbl.Index(homeCol), tbl.Index(awayCol)
			for _, row := range tbl.Rows {
				row[hi] = NormalizeTeamName(row[hi])
				row[ai] = NormalizeTeamName(row[ai])
			}
			if err := WriteCSVFile(path, tbl.Headers, tbl.Rows); err != nil {
				return nil, err
			}
			report.Files++

			if f.serie == "" {
				continue
			}
			teams, ok := perYear[year]
			if !ok {
				teams = NewTeams()
				perYear[year] = teams
			}
			for _, col := range []int{hi, ai} {
				for _, row := range tbl.Rows {
					name := row[col]
					if name == "" {
						continue
					}
					region := DefaultRegion(name)
					if region == UnknownRegion {
						if _, seen := report.UnknownTeams[name]; !seen {
							closest, _ := known.Closest(name)
							report.UnknownTeams[name] = closest
						}
					}
					teams.Add(TeamInfo{Name: name, Region: region, Serie: f.serie})
				}
			}
		}
	}

	teamsDir := filepath.Join(cfg.DataDir, cfg.TeamsFolder)
	if err := os.MkdirAll(teamsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", teamsDir, err)
	}
	years := make([]int, 0, len(perYear))
	for y := range perYear {
		years = append(years, y)
	}
	sort.Ints(years)
	for _, y := range years {
		path := cfg.TeamsPath(y)
		if err := WriteTeamsCSV(path, perYear[y]); err != nil {
			return nil, err
		}
		report.TeamsFiles = append(report.TeamsFiles, path)
		logger.Info("Teams file written", path, perYear[y].Len())
	}

	for name, closest := range report.UnknownTeams {
		logger.Warn("Team without region", name, "closest known:", closest)
	}
	return report, nil
}
