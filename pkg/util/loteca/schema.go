package loteca

import (
	"strings"
)

// Logical fields a table header can be resolved to
const (
	FieldHome     = "home"
	FieldAway     = "away"
	FieldDate     = "date"
	FieldPhase    = "phase"
	FieldRound    = "round"
	FieldScore    = "score"
	FieldDivision = "division"
)

// FieldAliases lists the header spellings accepted for a logical field
type FieldAliases struct {
	Field   string
	Aliases []string
}

// CupAliases are the header spellings seen across the cup exports
var CupAliases = []FieldAliases{
	{Field: FieldHome, Aliases: []string{"Time Mandante", "Mandante", "Time da Casa", "Casa"}},
	{Field: FieldAway, Aliases: []string{"Time Visitante", "Visitante", "Time de Fora", "Fora"}},
	{Field: FieldDate, Aliases: []string{"Data", "Date", "Dia"}},
	{Field: FieldPhase, Aliases: []string{"Fase", "Phase", "Stage", "Rodada"}},
}

// FixtureAliases are the header spellings accepted for league fixture tables
var FixtureAliases = []FieldAliases{
	{Field: FieldHome, Aliases: []string{"Time da Casa", "Time Mandante", "Mandante", "Casa", "HomeTeam"}},
	{Field: FieldAway, Aliases: []string{"Time Visitante", "Visitante", "Time de Fora", "Fora", "AwayTeam"}},
	{Field: FieldDate, Aliases: []string{"Data", "Date", "Dia"}},
	{Field: FieldRound, Aliases: []string{"Rodada", "Round"}},
	{Field: FieldScore, Aliases: []string{"Placar", "Score", "Resultado"}},
	{Field: FieldDivision, Aliases: []string{"Eh_Serie_B", "Divisao", "Division"}},
}

// ColumnResolution maps logical fields to the header that carries them
type ColumnResolution struct {
	columns map[string]string
}

// Column returns the resolved header for a field
func (r ColumnResolution) Column(field string) (string, bool) {
	c, ok := r.columns[field]
	return c, ok
}

// Has reports whether every given field was resolved
func (r ColumnResolution) Has(fields ...string) bool {
	return len(r.Missing(fields...)) == 0
}

// Missing returns the fields, in the given order, that no header resolved to
func (r ColumnResolution) Missing(fields ...string) []string {
	var missing []string
	for _, f := range fields {
		if _, ok := r.columns[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// ResolveColumns assigns headers to logical fields.
//
// A header equal (case-insensitively) to one of a field's aliases is bound to that field and is
// never displaced. Any other header is offered to the fields in order and goes to the first one,
// not already bound exactly, with an alias contained in it. When several headers reach the same
// field this way the last one wins.
func ResolveColumns(headers []string, fields []FieldAliases) ColumnResolution {
	res := ColumnResolution{columns: make(map[string]string)}
	exact := make(map[string]bool)

	for _, h := range headers {
		lower := strings.ToLower(strings.TrimSpace(h))
		if lower == "" {
			continue
		}
		if f, ok := exactField(lower, fields); ok {
			if !exact[f] {
				res.columns[f] = h
				exact[f] = true
			}
			continue
		}
		for _, fa := range fields {
			if exact[fa.Field] {
				continue
			}
			if containsAny(lower, fa.Aliases) {
				res.columns[fa.Field] = h
				break
			}
		}
	}
	return res
}

func exactField(lower string, fields []FieldAliases) (string, bool) {
	for _, fa := range fields {
		for _, a := range fa.Aliases {
			if strings.ToLower(a) == lower {
				return fa.Field, true
			}
		}
	}
	return "", false
}

func containsAny(lower string, aliases []string) bool {
	for _, a := range aliases {
		if strings.Contains(lower, strings.ToLower(a)) {
			return true
		}
	}
	return false
}
