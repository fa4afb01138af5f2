// Command loteca builds match feature tables from Brasileirão fixture files.
//
// Usage:
//
//	loteca features --persist
//	loteca round --year 2015 --round 12
//	loteca table --year 2015 --round 12
//	loteca slate --from 2006 --to 2022
//	loteca normalize
//	loteca split campeonato-brasileiro-full.csv
//	loteca scrape --out dados/brasileiraoB/brasileiraoB2006.csv
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/MichelRochytor/projetoloteca/internal/logger"
	"github.com/MichelRochytor/projetoloteca/pkg/transport"
	"github.com/MichelRochytor/projetoloteca/pkg/util/loteca"
)

var (
	configPath string
	debug      bool
	logOutput  string
)

func main() {
	root := &cobra.Command{
		Use:           "loteca",
		Short:         "Feature engineering for Brasileirão fixtures",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "yaml configuration file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")
	root.PersistentFlags().StringVar(&logOutput, "log", "c", "log output: c (console), f (file) or b (both)")

	root.AddCommand(featuresCmd())
	root.AddCommand(roundCmd())
	root.AddCommand(tableCmd())
	root.AddCommand(slateCmd())
	root.AddCommand(normalizeCmd())
	root.AddCommand(splitCmd())
	root.AddCommand(scrapeCmd())

	err := root.Execute()
	logger.CloseLogFile()
	if err != nil {
		logger.Error("Command failed:", err)
		os.Exit(1)
	}
}

// setup loads the configuration and configures logging
func setup() error {
	cfg, err := loteca.LoadConfig(configPath, ".env")
	if err != nil {
		return err
	}
	loteca.UpdateConfig(cfg)

	logger.SetShowDateTime(true)
	logger.SetLogFile(cfg.LogPath)
	if len(logOutput) != 1 {
		return fmt.Errorf("invalid --log value %q", logOutput)
	}
	if err := logger.SetLogOutput(rune(logOutput[0])); err != nil {
		return err
	}
	if debug {
		logger.SetLevel(logger.DEBUG)
	}
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

/////// features ///////

func featuresCmd() *cobra.Command {
	var out string
	var persist, resume bool
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Replay every configured season and write the training table",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			cfg := loteca.Config
			if out == "" {
				out = loteca.DefaultTrainingPath(cfg)
			}
			table, ledger, err := loteca.RunPipeline(ctx, cfg, loteca.PipelineOptions{
				OutputPath:   out,
				Persist:      persist,
				ResumeLedger: resume,
			})
			if err != nil {
				return err
			}
			logger.Info("Training table ready", out, table.Len(), "h2h pairs:", ledger.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output csv (default under the output directory)")
	cmd.Flags().BoolVar(&persist, "persist", false, "store the ledger and feature rows in sqlite")
	cmd.Flags().BoolVar(&resume, "resume-ledger", false, "start from the ledger stored in sqlite")
	return cmd
}

/////// round / table ///////

// seasonTable replays the seasons up to year so the ledger carries earlier history,
// then returns that year's Série A and B tables concatenated
func seasonTable(ctx context.Context, year int) (*loteca.EnrichedTable, *loteca.Season, error) {
	cfg := *loteca.Config
	if year < cfg.FirstYear {
		cfg.FirstYear = year
	}
	cfg.LastYear = year

	seasons, err := loteca.LoadSeasons(ctx, &cfg)
	if err != nil {
		return nil, nil, err
	}
	if len(seasons) == 0 || seasons[len(seasons)-1].Year != year {
		return nil, nil, fmt.Errorf("no files for %d", year)
	}

	ledger := loteca.NewH2HLedger()
	var a, b *loteca.EnrichedTable
	for _, s := range seasons {
		if a, b, err = loteca.ProcessSeason(&cfg, s, ledger); err != nil {
			return nil, nil, err
		}
	}
	all, err := loteca.ConcatTables(a, b)
	if err != nil {
		return nil, nil, err
	}
	return all, seasons[len(seasons)-1], nil
}

func roundCmd() *cobra.Command {
	var year, round int
	cmd := &cobra.Command{
		Use:   "round",
		Short: "Print the features of a round's matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			if round < 1 || round > 38 {
				return fmt.Errorf("invalid round %d", round)
			}
			ctx, cancel := signalContext()
			defer cancel()

			table, _, err := seasonTable(ctx, year)
			if err != nil {
				return err
			}
			loteca.PrintRound(cmd.OutOrStdout(), table, round)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 2020, "season")
	cmd.Flags().IntVar(&round, "round", 1, "round (1-38)")
	return cmd
}

func tableCmd() *cobra.Command {
	var year, round int
	var serieB bool
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the league table after a round",
		RunE: func(cmd *cobra.Command, args []string) error {
			division := loteca.DivisionA
			if serieB {
				division = loteca.DivisionB
			}
			fx, err := loteca.LoadFixtureCSV(loteca.Config.SeriesPath(division, year))
			if err != nil {
				return err
			}
			return loteca.PrintStandings(cmd.OutOrStdout(), fx, round)
		},
	}
	cmd.Flags().IntVar(&year, "year", 2020, "season")
	cmd.Flags().IntVar(&round, "round", 38, "last round to include")
	cmd.Flags().BoolVar(&serieB, "serie-b", false, "use the Série B fixture")
	return cmd
}

/////// slate ///////

func slateCmd() *cobra.Command {
	var from, to int
	var out string
	cmd := &cobra.Command{
		Use:   "slate",
		Short: "Draft 14-game Loteca slates for every round",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loteca.Config
			total := 0
			for year := from; year <= to; year++ {
				n, err := loteca.WriteSlates(cfg, year, out)
				if err != nil {
					return err
				}
				total += n
			}
			logger.Info("Slates drafted", total)
			return nil
		},
	}
	cmd.Flags().IntVar(&from, "from", 2006, "first season")
	cmd.Flags().IntVar(&to, "to", 2022, "last season")
	cmd.Flags().StringVar(&out, "out", "simulacao", "output directory")
	return cmd
}

/////// normalize / split ///////

func normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Rewrite team names in the data files and rebuild the teams tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := loteca.StandardizeDirectory(loteca.Config)
			if err != nil {
				return err
			}
			logger.Info("Files standardised", report.Files, "teams files:", len(report.TeamsFiles))
			return nil
		},
	}
}

func splitCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "split <history.csv>",
		Short: "Split a full-history export into one Série A file per year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := loteca.SplitHistory(args[0], out)
			if err != nil {
				return err
			}
			logger.Info("Seasons written", len(files), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "anos_processados", "output directory")
	return cmd
}

/////// scrape ///////

func scrapeCmd() *cobra.Command {
	var out string
	var rounds int
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape a season's results round by round",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			cfg := loteca.Config
			var fetcher transport.Fetcher = transport.NewHTTPFetcher()
			if cfg.UseBrowser {
				browser := transport.NewBrowserFetcher()
				defer browser.Close()
				fetcher = browser
			}

			matches, err := loteca.NewScraper(cfg, fetcher).ScrapeRounds(ctx, rounds)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				logger.Warn("No matches scraped; the site may be blocking requests or its layout changed")
				return nil
			}
			return loteca.WriteScraped(out, matches)
		},
	}
	cmd.Flags().StringVar(&out, "out", "brasileiraoB2006_goyaz.csv", "output csv")
	cmd.Flags().IntVar(&rounds, "rounds", 38, "number of rounds")
	return cmd
}
