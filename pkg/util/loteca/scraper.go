package loteca

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"

	"github.com/MichelRochytor/projetoloteca/internal/logger"
	"github.com/MichelRochytor/projetoloteca/pkg/transport"
)

// scrapedNames maps the short names of the results site to the fixture spellings
var scrapedNames = map[string]string{
	"Atlético": "Atlético-MG",
	"Sport":    "Sport Recife",
	"Ceará":    "Ceará SC",
	"América":  "América-RN",
	"Vitória":  "EC Vitória",
}

// ScrapedMatch is one result read from a round page
type ScrapedMatch struct {
	Round int
	Date  string
	Home  string
	Score string
	Away  string
}

// Scraper reads round-by-round results pages
type Scraper struct {
	Fetcher transport.Fetcher
	BaseURL string
	Delay   time.Duration
	// DiagnosticsDir receives a markdown dump of pages that yield no matches; empty disables it
	DiagnosticsDir string
}

// NewScraper builds a scraper from the configuration
func NewScraper(cfg *LotecaConfig, fetcher transport.Fetcher) *Scraper {
	return &Scraper{
		Fetcher:        fetcher,
		BaseURL:        cfg.ScrapeBaseURL,
		Delay:          cfg.ScrapeDelay,
		DiagnosticsDir: cfg.OutputDir,
	}
}

// RoundURL is the page of one round
func (s *Scraper) RoundURL(round int) string {
	sep := "?"
	if strings.Contains(s.BaseURL, "?") {
		sep = "&"
	}
	return s.BaseURL + sep + "rodada=" + strconv.Itoa(round)
}

// ScrapeRounds fetches rounds 1..rounds, waiting Delay between requests.
// A round that fails to load is logged and skipped.
func (s *Scraper) ScrapeRounds(ctx context.Context, rounds int) ([]ScrapedMatch, error) {
	var all []ScrapedMatch
	for round := 1; round <= rounds; round++ {
		if round > 1 && s.Delay > 0 {
			select {
			case <-ctx.Done():
				return all, ctx.Err()
			case <-time.After(s.Delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return all, err
		}

		u := s.RoundURL(round)
		body, err := s.Fetcher.Fetch(ctx, u)
		if err != nil {
			logger.Warn("Failed to fetch round", round, err)
			continue
		}
		matches, err := ParseRoundPage(body, round)
		if err != nil {
			logger.Warn("Failed to parse round", round, err)
			continue
		}
		if len(matches) == 0 {
			s.dumpPage(u, body, round)
		}
		logger.Debug("Round scraped", round, len(matches))
		all = append(all, matches...)
	}
	logger.Info("Scraping finished", len(all))
	return all, nil
}

// ParseRoundPage extracts matches from table rows with at least five cells whose fourth cell
// holds an "a x b" score
func ParseRoundPage(body []byte, round int) ([]ScrapedMatch, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var matches []ScrapedMatch
	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 5 {
			return
		}
		cell := func(n int) string {
			return strings.TrimSpace(cells.Eq(n).Text())
		}
		score := cell(3)
		if !strings.Contains(score, " x ") {
			return
		}
		date := strings.Fields(cell(0))
		m := ScrapedMatch{
			Round: round,
			Home:  ScrapedTeamName(cell(2)),
			Score: strings.ReplaceAll(score, " x ", "-"),
			Away:  ScrapedTeamName(cell(4)),
		}
		if len(date) > 0 {
			m.Date = date[0]
		}
		matches = append(matches, m)
	})
	return matches, nil
}

// ScrapedTeamName drops the state suffix ("Vila Nova-GO") and maps short names to the fixture spelling
func ScrapedTeamName(name string) string {
	name = strings.TrimSpace(strings.SplitN(name, "-", 2)[0])
	if n, ok := scrapedNames[name]; ok {
		return n
	}
	return name
}

// dumpPage saves a markdown rendering of a page that produced no matches
func (s *Scraper) dumpPage(pageURL string, body []byte, round int) {
	if s.DiagnosticsDir == "" {
		return
	}
	domain := ""
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		domain = u.Scheme + "://" + u.Host
	}
	markdown, err := htmltomarkdown.ConvertString(string(body), converter.WithDomain(domain))
	if err != nil {
		logger.Warn("Failed to convert page for diagnostics", round, err)
		return
	}
	if err := os.MkdirAll(s.DiagnosticsDir, 0755); err != nil {
		logger.Warn("Failed to create diagnostics dir", err)
		return
	}
	path := filepath.Join(s.DiagnosticsDir, fmt.Sprintf("rodada%d_sem_jogos.md", round))
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		logger.Warn("Failed to write diagnostics", path, err)
		return
	}
	logger.Warn("No matches found, page saved for inspection", round, path)
}

// WriteScraped saves scraped matches in the fixture layout
func WriteScraped(path string, matches []ScrapedMatch) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	records := make([][]string, len(matches))
	for i, m := range matches {
		records[i] = []string{strconv.Itoa(m.Round), m.Date, m.Home, m.Score, m.Away}
	}
	return WriteCSVFile(path, []string{ColRound, ColDate, ColHome, ColScore, ColAway}, records)
}
