package loteca

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FeatureGroups selects the optional feature groups the engine computes
type FeatureGroups struct {
	IncludeH2H        bool `yaml:"includeH2H"`
	IncludeCupSignals bool `yaml:"includeCupSignals"`
}

// H2HPolicy decides which matches take part in the head-to-head ledger
type H2HPolicy struct {
	// Matches whose division flag is in this list neither read nor update the ledger
	// and get neutral head-to-head values
	ExcludedDivisions []int `yaml:"excludedDivisions"`
	// Division assumed for fixture rows that carry no division flag
	MissingDivision int `yaml:"missingDivision"`
}

// Excludes reports whether a division class is kept out of the ledger
func (p H2HPolicy) Excludes(division int) bool {
	for _, d := range p.ExcludedDivisions {
		if d == division {
			return true
		}
	}
	return false
}

// CupSource names one cup competition and the folder its yearly files live in
type CupSource struct {
	Name   string `yaml:"name"`
	Folder string `yaml:"folder"`
}

// LotecaConfig contains every tunable of the pipeline
type LotecaConfig struct {
	// === Paths ===
	DataDir   string `yaml:"dataDir"`   // root of the raw csv tree
	OutputDir string `yaml:"outputDir"` // where enriched tables and slates are written
	DbPath    string `yaml:"dbPath"`    // sqlite file holding the ledger and feature rows
	LogPath   string `yaml:"logPath"`

	SerieAFolder string      `yaml:"serieAFolder"`
	SerieBFolder string      `yaml:"serieBFolder"`
	TeamsFolder  string      `yaml:"teamsFolder"`
	Cups         []CupSource `yaml:"cups"`

	// === Seasons ===
	FirstYear    int `yaml:"firstYear"`
	LastYear     int `yaml:"lastYear"`
	SeasonRounds int `yaml:"seasonRounds"`

	// === Engine ===
	Features               FeatureGroups `yaml:"features"`
	H2H                    H2HPolicy     `yaml:"h2h"`
	CupWindowDays          int           `yaml:"cupWindowDays"`
	DesperationStartRound  int           `yaml:"desperationStartRound"`
	RankFallback           int           `yaml:"rankFallback"`
	DefaultLeagueHomeGoals float64       `yaml:"defaultLeagueHomeGoals"`

	// === Slates ===
	SlateSize int `yaml:"slateSize"`

	// === Scraper ===
	ScrapeBaseURL string        `yaml:"scrapeBaseURL"`
	ScrapeDelay   time.Duration `yaml:"scrapeDelay"`
	UseBrowser    bool          `yaml:"useBrowser"`
}

// DefaultLotecaConfig returns the default configuration
func DefaultLotecaConfig() *LotecaConfig {
	return &LotecaConfig{
		DataDir:   "dados",
		OutputDir: "saida",
		DbPath:    filepath.Join("dados", "loteca.db"),
		LogPath:   filepath.Join(os.TempDir(), "loteca.log"),

		SerieAFolder: "brasileiraoA",
		SerieBFolder: "brasileiraoB",
		TeamsFolder:  "times",
		Cups: []CupSource{
			{Name: "Copa do Brasil", Folder: "copadobrasil"},
			{Name: "Libertadores", Folder: "libertadores"},
			{Name: "Sudamericana", Folder: "sudamericana"},
		},

		FirstYear:    2006,
		LastYear:     2020,
		SeasonRounds: 38,

		Features: FeatureGroups{IncludeH2H: true, IncludeCupSignals: true},
		H2H: H2HPolicy{
			ExcludedDivisions: []int{DivisionB},
			MissingDivision:   DivisionA,
		},
		CupWindowDays:          7,
		DesperationStartRound:  10,
		RankFallback:           21,
		DefaultLeagueHomeGoals: 1.2,

		SlateSize: 14,

		ScrapeBaseURL: "https://www.futeboldegoyaz.com.br/campeonatos/93/edicao",
		ScrapeDelay:   500 * time.Millisecond,
	}
}

// Global configuration instance
var Config *LotecaConfig

func init() {
	Config = DefaultLotecaConfig()
}

// UpdateConfig replaces the global configuration
func UpdateConfig(newConfig *LotecaConfig) {
	Config = newConfig
}

// ValidateConfig ensures all configuration values are within reasonable ranges
func ValidateConfig(config *LotecaConfig) error {
	if config.FirstYear > config.LastYear {
		return fmt.Errorf("FirstYear (%d) must not be after LastYear (%d)", config.FirstYear, config.LastYear)
	}
	if config.SeasonRounds < 1 {
		return fmt.Errorf("SeasonRounds must be positive, got: %d", config.SeasonRounds)
	}
	if config.CupWindowDays < 0 {
		return fmt.Errorf("CupWindowDays must not be negative, got: %d", config.CupWindowDays)
	}
	if config.DesperationStartRound < 1 || config.DesperationStartRound > config.SeasonRounds {
		return fmt.Errorf("DesperationStartRound should be between 1 and %d, got: %d", config.SeasonRounds, config.DesperationStartRound)
	}
	if config.RankFallback < 1 {
		return fmt.Errorf("RankFallback must be positive, got: %d", config.RankFallback)
	}
	if config.DefaultLeagueHomeGoals <= 0 {
		return fmt.Errorf("DefaultLeagueHomeGoals must be positive, got: %f", config.DefaultLeagueHomeGoals)
	}
	if config.SlateSize < 1 {
		return fmt.Errorf("SlateSize must be positive, got: %d", config.SlateSize)
	}
	if config.ScrapeDelay < 0 {
		return fmt.Errorf("ScrapeDelay must not be negative, got: %s", config.ScrapeDelay)
	}
	for _, c := range config.Cups {
		if c.Name == "" || c.Folder == "" {
			return fmt.Errorf("cup sources need both a name and a folder, got: %+v", c)
		}
	}
	return nil
}

/////////////////////////////////////////////////////////////////////////
////// Loading
/////////////////////////////////////////////////////////////////////////

// LoadConfig builds a configuration from defaults, an optional yaml file, an optional .env
// file and finally LOTECA_* environment variables, then validates it
func LoadConfig(yamlPath string, envFiles ...string) (*LotecaConfig, error) {
	cfg := DefaultLotecaConfig()

	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", yamlPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", yamlPath, err)
		}
	}

	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		// existing environment variables win over the file
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *LotecaConfig) error {
	envStr("LOTECA_DATA_DIR", &cfg.DataDir)
	envStr("LOTECA_OUTPUT_DIR", &cfg.OutputDir)
	envStr("LOTECA_DB_PATH", &cfg.DbPath)
	envStr("LOTECA_LOG_PATH", &cfg.LogPath)
	envStr("LOTECA_SCRAPE_URL", &cfg.ScrapeBaseURL)

	for key, dst := range map[string]*int{
		"LOTECA_FIRST_YEAR":      &cfg.FirstYear,
		"LOTECA_LAST_YEAR":       &cfg.LastYear,
		"LOTECA_CUP_WINDOW_DAYS": &cfg.CupWindowDays,
		"LOTECA_SLATE_SIZE":      &cfg.SlateSize,
	} {
		if err := envInt(key, dst); err != nil {
			return err
		}
	}
	for key, dst := range map[string]*bool{
		"LOTECA_INCLUDE_H2H":         &cfg.Features.IncludeH2H,
		"LOTECA_INCLUDE_CUP_SIGNALS": &cfg.Features.IncludeCupSignals,
		"LOTECA_USE_BROWSER":         &cfg.UseBrowser,
	} {
		if err := envBool(key, dst); err != nil {
			return err
		}
	}
	if v := strings.TrimSpace(os.Getenv("LOTECA_SCRAPE_DELAY")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LOTECA_SCRAPE_DELAY: %w", err)
		}
		cfg.ScrapeDelay = d
	}
	if v := strings.TrimSpace(os.Getenv("LOTECA_H2H_EXCLUDED_DIVISIONS")); v != "" {
		var divisions []int
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			d, err := strconv.Atoi(part)
			if err != nil {
				return fmt.Errorf("LOTECA_H2H_EXCLUDED_DIVISIONS: %w", err)
			}
			divisions = append(divisions, d)
		}
		cfg.H2H.ExcludedDivisions = divisions
	}
	return nil
}

func envStr(key string, dst *string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envBool(key string, dst *bool) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

// === Path helpers ===

func (c *LotecaConfig) SeriesPath(division int, year int) string {
	if division == DivisionB {
		return filepath.Join(c.DataDir, c.SerieBFolder, fmt.Sprintf("%s%d.csv", c.SerieBFolder, year))
	}
	return filepath.Join(c.DataDir, c.SerieAFolder, fmt.Sprintf("%s%d.csv", c.SerieAFolder, year))
}

func (c *LotecaConfig) TeamsPath(year int) string {
	return filepath.Join(c.DataDir, c.TeamsFolder, fmt.Sprintf("%s%d.csv", c.TeamsFolder, year))
}

func (c *LotecaConfig) CupPath(cup CupSource, year int) string {
	return filepath.Join(c.DataDir, cup.Folder, fmt.Sprintf("%s%d.csv", cup.Folder, year))
}
