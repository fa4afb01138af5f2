package loteca

import (
	"fmt"
	"sort"

	"github.com/MichelRochytor/projetoloteca/internal/logger"
)

// H2HRecord is the cumulative head-to-head tally for an ordered (home, away) pair.
// Wins are weighted 3 and draws 1, so the tallies read as points taken in the fixture.
type H2HRecord struct {
	Home     string `json:"home" column:"home" dbtype:"TEXT NOT NULL" primary:"true"`
	Away     string `json:"away" column:"away" dbtype:"TEXT NOT NULL" primary:"true"`
	HomeWins int    `json:"homeWins" column:"home_wins" dbtype:"INTEGER NOT NULL DEFAULT 0"`
	AwayWins int    `json:"awayWins" column:"away_wins" dbtype:"INTEGER NOT NULL DEFAULT 0"`
	Draws    int    `json:"draws" column:"draws" dbtype:"INTEGER NOT NULL DEFAULT 0"`
}

// Total is the sum of the three tallies
func (r H2HRecord) Total() int {
	return r.HomeWins + r.AwayWins + r.Draws
}

// WinRate is the home side's share of the tallies, 0.5 with no history
func (r H2HRecord) WinRate() float64 {
	total := r.Total()
	if total == 0 {
		return 0.5
	}
	return float64(r.HomeWins) / float64(total)
}

// Aproveitamento is the home side's damped form in the fixture: (wins + draws/2) / (total + 2),
// 0.5 with no history
func (r H2HRecord) Aproveitamento() float64 {
	total := r.Total()
	if total == 0 {
		return 0.5
	}
	return (float64(r.HomeWins) + 0.5*float64(r.Draws)) / float64(total+2)
}

/////// Persistable ///////

func (r *H2HRecord) GetTableName() string {
	return "h2h_records"
}

func (r *H2HRecord) GetPrimaryKey() map[string]interface{} {
	return map[string]interface{}{"home": r.Home, "away": r.Away}
}

func (r *H2HRecord) SetPrimaryKey(pk map[string]interface{}) error {
	home, ok := pk["home"].(string)
	if !ok {
		return fmt.Errorf("invalid home key %v", pk["home"])
	}
	away, ok := pk["away"].(string)
	if !ok {
		return fmt.Errorf("invalid away key %v", pk["away"])
	}
	r.Home, r.Away = home, away
	return nil
}

func (r *H2HRecord) BeforeSave() error {
	if r.Home == "" || r.Away == "" {
		return fmt.Errorf("h2h record needs both teams")
	}
	return nil
}

func (r *H2HRecord) AfterSave() error { return nil }

/////// Ledger ///////

type pairKey struct {
	home, away string
}

// H2HLedger accumulates head-to-head records across seasons. It is not safe for concurrent
// writers; seasons are replayed one at a time against the same ledger.
type H2HLedger struct {
	records map[pairKey]*H2HRecord
}

func NewH2HLedger() *H2HLedger {
	return &H2HLedger{records: make(map[pairKey]*H2HRecord)}
}

// Lookup returns a copy of the pair's record, zeroed when the pair was never seen.
// It never creates an entry.
func (l *H2HLedger) Lookup(home, away string) H2HRecord {
	if r, ok := l.records[pairKey{home, away}]; ok {
		return *r
	}
	return H2HRecord{Home: home, Away: away}
}

// RecordResult adds a result to the pair's record, creating it on first encounter
func (l *H2HLedger) RecordResult(home, away string, homeGoals, awayGoals int) {
	key := pairKey{home, away}
	r, ok := l.records[key]
	if !ok {
		r = &H2HRecord{Home: home, Away: away}
		l.records[key] = r
	}
	switch {
	case homeGoals > awayGoals:
		r.HomeWins += 3
	case awayGoals > homeGoals:
		r.AwayWins += 3
	default:
		r.Draws++
	}
}

// Len is the number of recorded pairs
func (l *H2HLedger) Len() int {
	return len(l.records)
}

// Records returns copies of every record sorted by home then away team
func (l *H2HLedger) Records() []*H2HRecord {
	out := make([]*H2HRecord, 0, len(l.records))
	for _, r := range l.records {
		c := *r
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Home != out[j].Home {
			return out[i].Home < out[j].Home
		}
		return out[i].Away < out[j].Away
	})
	return out
}

// SaveLedger writes every record of the ledger to the database
func SaveLedger(l *H2HLedger) error {
	records := l.Records()
	if err := BulkSave(records); err != nil {
		return fmt.Errorf("failed to save h2h ledger: %w", err)
	}
	logger.Info("Saved h2h records", len(records))
	return nil
}

// LoadLedger rebuilds a ledger from the database
func LoadLedger() (*H2HLedger, error) {
	records, err := FindAll[H2HRecord]()
	if err != nil {
		return nil, fmt.Errorf("failed to load h2h ledger: %w", err)
	}
	l := NewH2HLedger()
	for _, r := range records {
		l.records[pairKey{r.Home, r.Away}] = r
	}
	logger.Info("Loaded h2h records", len(records))
	return l, nil
}
