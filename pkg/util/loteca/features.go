package loteca

import (
	"fmt"
	"strconv"
)

// Feature column names, in output order
const (
	ColSerieB             = "Eh_Serie_B"
	ColPosHome            = "Posicao_Mandante"
	ColPosAway            = "Posicao_Visitante"
	ColAvgScoredHome      = "Media_GM_Casa"
	ColAvgConcededHome    = "Media_GS_Casa"
	ColAvgScoredAway      = "Media_GM_Fora"
	ColAvgConcededAway    = "Media_GS_Fora"
	ColScoredHome         = "Saldo_GM_Casa"
	ColConcededHome       = "Saldo_GS_Casa"
	ColScoredAway         = "Saldo_GM_Fora"
	ColConcededAway       = "Saldo_GS_Fora"
	ColGoalDiffHome       = "Saldo_Gols_Casa_Mandante"
	ColGoalDiffAway       = "Saldo_Gols_Fora_Visitante"
	ColLast5DiffHome      = "Saldo_Ultimos_5_Casa_Mandante"
	ColLast5DiffAway      = "Saldo_Ultimos_5_Fora_Visitante"
	ColFormHome           = "Sequencia_5_Mandante"
	ColFormAway           = "Sequencia_5_Visitante"
	ColMomentumHome       = "Momentum_M"
	ColMomentumAway       = "Momentum_V"
	ColCupHome            = "Proxima_Copa_Mandante"
	ColCupAway            = "Proxima_Copa_Visitante"
	ColAttackHome         = "Forca_Atk_M"
	ColDefenceAway        = "Forca_Def_V"
	ColDominance          = "Sinal_Dominio"
	ColDesperationHome    = "Desespero_Mandante"
	ColDesperationAway    = "Desespero_Visitante"
	ColDesperationDelta   = "Delta_Desespero"
	ColSoberbaHome        = "Soberba_Mandante"
	ColSoberbaAway        = "Soberba_Visitante"
	ColSoberbaDelta       = "Delta_Soberba"
	ColH2HHomeWins        = "H2H_Vits_M_Casa"
	ColH2HHomeLosses      = "H2H_Derrotas_M_Casa"
	ColH2HAwayWins        = "H2H_Vits_V_Fora"
	ColH2HAwayLosses      = "H2H_Derrotas_V_Fora"
	ColH2HDraws           = "H2H_Empates_H2H"
	ColH2HWinRate         = "H2H_Taxa_Vits_M"
	ColH2HAproveitamento  = "H2H_Aproveitamento_M"
	ColPosDiff            = "Diferenca_Posicao"
	ColBalanced           = "Equilibrio_Posicao"
	ColSixPointer         = "Jogo_de_6_Pontos"
	ColMomentumDelta      = "Delta_Momentum"
	ColStrengthSum        = "Soma_Forca_Atk_Def"
	ColStrengthProduct    = "Produto_Forca_Atk_Def"
	ColStrengthDifference = "Diferenca_Forca_Atk_Def"
	ColClassico           = "É_Clássico"
)

// ColumnKind says how a column's values are stored
type ColumnKind int

const (
	Numeric ColumnKind = iota
	Integer
	Text
)

// Column is one feature column, index-aligned with the fixture's matches
type Column struct {
	Name   string
	Kind   ColumnKind
	Floats []float64
	Texts  []string
}

// Len is the number of values in the column
func (c *Column) Len() int {
	if c.Kind == Text {
		return len(c.Texts)
	}
	return len(c.Floats)
}

// String renders value i the way it is written to CSV
func (c *Column) String(i int) string {
	switch c.Kind {
	case Text:
		return c.Texts[i]
	case Integer:
		return strconv.Itoa(int(c.Floats[i]))
	default:
		return strconv.FormatFloat(c.Floats[i], 'f', -1, 64)
	}
}

// fill replaces the column's values with n defaults
func (c *Column) fill(n int) {
	if c.Kind == Text {
		c.Texts = make([]string, n)
		for i := range c.Texts {
			c.Texts[i] = NoCupMatch
		}
		return
	}
	c.Floats = make([]float64, n)
}

// featureColumns accumulates values column by column in match order
type featureColumns struct {
	cols  []*Column
	named map[string]*Column
}

func newFeatureColumns() *featureColumns {
	return &featureColumns{named: make(map[string]*Column)}
}

func (fc *featureColumns) column(name string, kind ColumnKind) *Column {
	if c, ok := fc.named[name]; ok {
		return c
	}
	c := &Column{Name: name, Kind: kind}
	fc.cols = append(fc.cols, c)
	fc.named[name] = c
	return c
}

func (fc *featureColumns) num(name string, v float64) {
	c := fc.column(name, Numeric)
	c.Floats = append(c.Floats, v)
}

func (fc *featureColumns) integer(name string, v int) {
	c := fc.column(name, Integer)
	c.Floats = append(c.Floats, float64(v))
}

func (fc *featureColumns) text(name, v string) {
	c := fc.column(name, Text)
	c.Texts = append(c.Texts, v)
}

/////// Enriched table ///////

// EnrichedTable is a fixture with its feature columns attached, one row per match
type EnrichedTable struct {
	Year    int
	Matches []*Match
	Columns []*Column
	byName  map[string]*Column
}

func newEnrichedTable(fx *Fixture, cols []*Column) *EnrichedTable {
	t := &EnrichedTable{Year: fx.Year, Matches: fx.Matches}
	t.setColumns(cols)
	return t
}

func (t *EnrichedTable) setColumns(cols []*Column) {
	t.Columns = cols
	t.byName = make(map[string]*Column, len(cols))
	for _, c := range cols {
		t.byName[c.Name] = c
	}
}

// Len is the number of rows
func (t *EnrichedTable) Len() int {
	return len(t.Matches)
}

// Column returns a feature column by name
func (t *EnrichedTable) Column(name string) (*Column, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// Float returns a numeric feature for row i, 0 when the column is absent
func (t *EnrichedTable) Float(name string, i int) float64 {
	c, ok := t.byName[name]
	if !ok || c.Kind == Text || i >= len(c.Floats) {
		return 0
	}
	return c.Floats[i]
}

// Int returns an integer feature for row i
func (t *EnrichedTable) Int(name string, i int) int {
	return int(t.Float(name, i))
}

// Text returns a text feature for row i, "-" when the column is absent
func (t *EnrichedTable) Text(name string, i int) string {
	c, ok := t.byName[name]
	if !ok || c.Kind != Text || i >= len(c.Texts) {
		return NoCupMatch
	}
	return c.Texts[i]
}

// Sum adds up a numeric column
func (t *EnrichedTable) Sum(name string) float64 {
	c, ok := t.byName[name]
	if !ok || c.Kind == Text {
		return 0
	}
	total := 0.0
	for _, v := range c.Floats {
		total += v
	}
	return total
}

// Round returns the row indexes of a round
func (t *EnrichedTable) Round(round int) []int {
	var rows []int
	for i, m := range t.Matches {
		if m.Round == round {
			rows = append(rows, i)
		}
	}
	return rows
}

// ConcatTables stacks the rows of several tables. Columns missing from a table are default-filled.
func ConcatTables(tables ...*EnrichedTable) (*EnrichedTable, error) {
	out := &EnrichedTable{}
	var names []string
	kinds := make(map[string]ColumnKind)
	for _, t := range tables {
		for _, c := range t.Columns {
			if k, ok := kinds[c.Name]; ok {
				if k != c.Kind {
					return nil, fmt.Errorf("column %s has conflicting kinds", c.Name)
				}
				continue
			}
			kinds[c.Name] = c.Kind
			names = append(names, c.Name)
		}
	}

	cols := make([]*Column, len(names))
	for i, name := range names {
		cols[i] = &Column{Name: name, Kind: kinds[name]}
	}
	for _, t := range tables {
		out.Matches = append(out.Matches, t.Matches...)
		for _, c := range cols {
			src, ok := t.byName[c.Name]
			if !ok {
				src = &Column{Kind: c.Kind}
				src.fill(t.Len())
			}
			c.Floats = append(c.Floats, src.Floats...)
			c.Texts = append(c.Texts, src.Texts...)
		}
	}
	out.setColumns(cols)
	return out, nil
}
