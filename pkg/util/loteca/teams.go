package loteca

import (
	"fmt"
	"sort"

	"github.com/MichelRochytor/projetoloteca/internal/logger"
	"github.com/MichelRochytor/projetoloteca/pkg/util"
)

// UnknownRegion is the region written for teams missing from DefaultRegions
const UnknownRegion = "OUTRO"

// DefaultRegions maps Brazilian clubs, under the spellings seen in the fixture files, to their state
var DefaultRegions = map[string]string{
	// SP
	"Palmeiras": "SP", "Corinthians": "SP", "São Paulo": "SP", "Santos": "SP",
	"Bragantino": "SP", "Red Bull Bragantino": "SP", "Ponte Preta": "SP",
	"Guarani": "SP", "Ituano": "SP", "Mirassol": "SP", "Novorizontino": "SP",
	"Botafogo-SP": "SP", "Oeste": "SP", "Ferroviária": "SP", "Santo André": "SP",
	"Portuguesa": "SP", "Grêmio Barueri": "SP", "Grêmio Prudente": "SP",
	"Mogi Mirim": "SP", "São Caetano": "SP", "Guaratinguetá": "SP",
	"Americana": "SP", "Linense": "SP", "Marília": "SP", "Paulista": "SP",
	"União Barbarense": "SP", "São Bernardo": "SP", "Água Santa": "SP",
	// RJ
	"Flamengo": "RJ", "Fluminense": "RJ", "Vasco": "RJ", "Vasco da Gama": "RJ",
	"Botafogo": "RJ", "Macaé": "RJ", "Madureira": "RJ", "Duque de Caxias": "RJ",
	"Volta Redonda": "RJ", "Boavista": "RJ", "Nova Iguaçu": "RJ", "Americano": "RJ",
	// MG
	"Atlético-MG": "MG", "Cruzeiro": "MG", "América-MG": "MG", "Ipatinga": "MG",
	"Boa Esporte": "MG", "Ituiutaba": "MG", "Tombense": "MG", "Tupi": "MG",
	"Guarani-MG": "MG", "Villa Nova-MG": "MG", "Uberlândia": "MG",
	// RS
	"Internacional": "RS", "Grêmio": "RS", "Juventude": "RS", "Brasil-RS": "RS",
	"Brasil de Pelotas": "RS", "Caxias": "RS", "Ypiranga-RS": "RS", "Pelotas": "RS",
	"São José-RS": "RS", "Novo Hamburgo": "RS",
	// PR
	"Athletico-PR": "PR", "Athletico Paranaense": "PR", "Coritiba": "PR",
	"Paraná": "PR", "Operário-PR": "PR", "Operário Ferroviário": "PR",
	"Londrina": "PR", "Maringá": "PR", "Cascavel": "PR", "J. Malucelli": "PR",
	"Corinthians Paranaense": "PR", "Cianorte": "PR",
	// SC
	"Avaí": "SC", "Figueirense": "SC", "Chapecoense": "SC", "Criciúma": "SC",
	"Joinville": "SC", "Brusque": "SC", "Metropolitano": "SC", "Marcílio Dias": "SC",
	// GO
	"Goiás": "GO", "Atlético-GO": "GO", "Vila Nova": "GO", "Itumbiara": "GO",
	"Anapolina": "GO", "CRAC": "GO", "Aparecidense": "GO",
	// Northeast
	"Bahia": "BA", "Vitória": "BA", "Vitória da Conquista": "BA",
	"Sport": "PE", "Sport Recife": "PE", "Náutico": "PE", "Santa Cruz": "PE",
	"Salgueiro": "PE", "Central": "PE",
	"Ceará": "CE", "Ceará SC": "CE", "Fortaleza": "CE", "Icasa": "CE",
	"Guarany de Sobral": "CE",
	"CRB": "AL", "CSA": "AL", "ASA": "AL",
	"ABC": "RN", "América-RN": "RN", "Alecrim": "RN",
	"Sampaio Corrêa": "MA", "Sampaio Corr": "MA", "Moto Club": "MA",
	"Confiança": "SE", "Campinense": "PB", "Treze": "PB", "Botafogo-PB": "PB",
	"River-PI": "PI", "Altos": "PI",
	// North and Centre-West
	"Paysandu": "PA", "Remo": "PA", "Águia de Marabá": "PA",
	"Cuiabá": "MT", "Luverdense": "MT", "União Rondonópolis": "MT",
	"Operário-MS": "MS", "CENE": "MS",
	"Brasiliense": "DF", "Gama": "DF",
	"Manaus": "AM", "Amazonas": "AM", "Amazonas FC": "AM",
	"Rio Branco-AC": "AC",
}

// TeamInfo is one row of a season's teams table
type TeamInfo struct {
	Name   string
	Region string
	Serie  string
}

// Teams is a team/region table. Lookups ignore case and accents.
type Teams struct {
	teams []TeamInfo
	byKey map[string]int
}

func NewTeams(infos ...TeamInfo) *Teams {
	t := &Teams{byKey: make(map[string]int)}
	for _, info := range infos {
		t.Add(info)
	}
	return t
}

// Add registers a team; the first entry for a name wins
func (t *Teams) Add(info TeamInfo) {
	key := util.FoldKey(info.Name)
	if _, ok := t.byKey[key]; ok {
		return
	}
	t.byKey[key] = len(t.teams)
	t.teams = append(t.teams, info)
}

// Region returns the team's region. Unknown teams, and teams whose region is UnknownRegion, report false.
func (t *Teams) Region(team string) (string, bool) {
	if t == nil {
		return "", false
	}
	i, ok := t.byKey[util.FoldKey(team)]
	if !ok {
		return "", false
	}
	r := t.teams[i].Region
	if r == "" || r == UnknownRegion {
		return "", false
	}
	return r, true
}

// Get returns the team's row
func (t *Teams) Get(team string) (TeamInfo, bool) {
	i, ok := t.byKey[util.FoldKey(team)]
	if !ok {
		return TeamInfo{}, false
	}
	return t.teams[i], true
}

// All returns the rows in insertion order
func (t *Teams) All() []TeamInfo {
	out := make([]TeamInfo, len(t.teams))
	copy(out, t.teams)
	return out
}

func (t *Teams) Len() int { return len(t.teams) }

// Closest returns the known team name nearest to name and its similarity score
func (t *Teams) Closest(name string) (string, float64) {
	names := make([]string, len(t.teams))
	for i, info := range t.teams {
		names[i] = info.Name
	}
	return util.ClosestMatch(name, names)
}

// DefaultRegion looks a team up in DefaultRegions, ignoring case and accents
func DefaultRegion(team string) string {
	if r, ok := DefaultRegions[team]; ok {
		return r
	}
	key := util.FoldKey(team)
	for name, r := range DefaultRegions {
		if util.FoldKey(name) == key {
			return r
		}
	}
	return UnknownRegion
}

// DefaultTeams builds a table from DefaultRegions alone
func DefaultTeams() *Teams {
	names := make([]string, 0, len(DefaultRegions))
	for name := range DefaultRegions {
		names = append(names, name)
	}
	sort.Strings(names)
	t := NewTeams()
	for _, name := range names {
		t.Add(TeamInfo{Name: name, Region: DefaultRegions[name]})
	}
	return t
}

// Teams table header spellings
var teamAliases = []FieldAliases{
	{Field: "team", Aliases: []string{"time", "team", "clube"}},
	{Field: "region", Aliases: []string{"região", "regiao", "region", "estado", "uf"}},
	{Field: "serie", Aliases: []string{"serie", "série", "division"}},
}

// LoadTeamsCSV reads a teams file with time, região and serie columns
func LoadTeamsCSV(path string) (*Teams, error) {
	tbl, err := ReadCSVFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoTeamsTable, err)
	}
	return TeamsFromTable(tbl)
}

// TeamsFromTable builds a teams table. A missing region falls back to DefaultRegions.
func TeamsFromTable(tbl *Table) (*Teams, error) {
	cols := ResolveColumns(tbl.Headers, teamAliases)
	teamCol, ok := cols.Column("team")
	if !ok {
		return nil, fmt.Errorf("%w: no team column in %v", ErrNoTeamsTable, tbl.Headers)
	}
	regionCol, hasRegion := cols.Column("region")
	serieCol, hasSerie := cols.Column("serie")

	t := NewTeams()
	for _, row := range tbl.Rows {
		name := tbl.Value(row, teamCol)
		if name == "" {
			continue
		}
		info := TeamInfo{Name: name}
		if hasRegion {
			info.Region = tbl.Value(row, regionCol)
		}
		if info.Region == "" {
			info.Region = DefaultRegion(name)
		}
		if hasSerie {
			info.Serie = tbl.Value(row, serieCol)
		}
		t.Add(info)
	}
	logger.Debug("Loaded teams", t.Len())
	return t, nil
}

// WriteTeamsCSV writes a teams table in the time, região, serie layout
func WriteTeamsCSV(path string, t *Teams) error {
	records := make([][]string, 0, t.Len())
	for _, info := range t.All() {
		records = append(records, []string{info.Name, info.Region, info.Serie})
	}
	return WriteCSVFile(path, []string{"time", "região", "serie"}, records)
}
