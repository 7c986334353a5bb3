package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/config"
	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/game"
	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/log"
	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/sim"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	cmd := os.Args[1]
	switch cmd {
	case "simulate":
		runSimulate(cfg, os.Args[2:])
	case "game":
		runGame(cfg, os.Args[2:])
	case "powers":
		runPowers(cfg, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  cosmic simulate [--games N] [--players N] [--roster FILE] [--seed S] [--json]")
	fmt.Println("  cosmic game [--players N] [--roster FILE] [--seed S] [--show-table]")
	fmt.Println("  cosmic powers [--expansions LIST]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  simulate  Play a batch of games and print win rates and ELO per power")
	fmt.Println("  game      Play one game and print its event log")
	fmt.Println("  powers    List the available alien powers")
	fmt.Println()
	fmt.Println("Defaults come from COSMIC_* environment variables; flags override them.")
}

// commonFlags are shared by the commands that play games.
type commonFlags struct {
	players       *int
	roster        *string
	seed          *int64
	powerFile     *string
	expansions    *string
	maxEncounters *int
	perAlly       *bool
	logLevel      *string
	logFormat     *string
}

func addCommonFlags(fs *flag.FlagSet, cfg config.Config) commonFlags {
	return commonFlags{
		players:       fs.Int("players", 5, "number of players when no roster is given"),
		roster:        fs.String("roster", cfg.Roster, "path to a roster YAML file"),
		seed:          fs.Int64("seed", cfg.Seed, "RNG seed (0 for random)"),
		powerFile:     fs.String("powers", "", "path to a power table YAML file (default: built-in table)"),
		expansions:    fs.String("expansions", strings.Join(cfg.Expansions, ","), "comma-separated expansions to draw powers from"),
		maxEncounters: fs.Int("max-encounters", cfg.MaxEncounters, "abort a game after this many encounters"),
		perAlly:       fs.Bool("per-ally-commitment", cfg.PerAllyCommitment, "evaluate four-ship commitments per ally"),
		logLevel:      fs.String("log-level", cfg.LogLevel, "log level: debug, info, warn, error"),
		logFormat:     fs.String("log-format", cfg.LogFormat, "log format: console or json"),
	}
}

// setup builds the logger, catalog and simulation options. Roster file
// settings apply first; flags given explicitly on the command line win.
func (f commonFlags) setup(fs *flag.FlagSet, opts *sim.Options) (*zap.Logger, *game.PowerCatalog, error) {
	logger, err := config.NewLogger(*f.logLevel, *f.logFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	var catalog *game.PowerCatalog
	if *f.powerFile != "" {
		catalog, err = game.LoadPowerFile(*f.powerFile)
	} else {
		catalog, err = game.DefaultCatalog()
	}
	if err != nil {
		return nil, nil, err
	}

	opts.Players = sim.DefaultRoster(*f.players)
	opts.Seed = *f.seed
	opts.MaxEncounters = *f.maxEncounters
	opts.PerAllyCommitment = *f.perAlly
	expansions := splitList(*f.expansions)

	if *f.roster != "" {
		rf, err := sim.LoadRoster(*f.roster)
		if err != nil {
			return nil, nil, err
		}
		rf.Apply(opts)
		if len(rf.Expansions) > 0 {
			expansions = rf.Expansions
		}
		fs.Visit(func(fl *flag.Flag) {
			switch fl.Name {
			case "seed":
				opts.Seed = *f.seed
			case "per-ally-commitment":
				opts.PerAllyCommitment = *f.perAlly
			case "expansions":
				expansions = splitList(*f.expansions)
			}
		})
	}

	if len(expansions) > 0 {
		catalog = catalog.Filter(expansions...)
		if catalog.Len() == 0 {
			return nil, nil, fmt.Errorf("no powers in expansions %s", strings.Join(expansions, ", "))
		}
		logger.Debug("catalog filtered", zap.Strings("expansions", expansions), zap.Int("powers", catalog.Len()))
	}
	return logger, catalog, nil
}

func runSimulate(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	games := fs.Int("games", cfg.Games, "number of completed games to play")
	catchErrors := fs.Bool("catch-errors", cfg.CatchErrors, "retry games that fail instead of aborting")
	showOutput := fs.Bool("show-output", cfg.ShowOutput, "print every game's event log")
	asJSON := fs.Bool("json", false, "print the summary as JSON")
	common := addCommonFlags(fs, cfg)
	fs.Parse(args)

	opts := sim.Options{Games: *games, CatchErrors: *catchErrors}
	logger, catalog, err := common.setup(fs, &opts)
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	defer logger.Sync()

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "games":
			opts.Games = *games
		case "catch-errors":
			opts.CatchErrors = *catchErrors
		}
	})
	if *showOutput {
		opts.GameLogger = func(n int) log.EventLogger {
			fmt.Printf("=== Game %d ===\n", n)
			return log.NewTextLogger(os.Stdout)
		}
	}

	s, err := sim.NewSimulator(catalog, opts, logger)
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := s.Run(ctx)
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	summary.Results = nil

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			config.Exitf("Error: %v", err)
		}
		return
	}
	if err := summary.WriteTable(os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}

func runGame(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("game", flag.ExitOnError)
	showTable := fs.Bool("show-table", cfg.ShowOutput, "print the table at every phase change")
	common := addCommonFlags(fs, cfg)
	fs.Parse(args)

	var opts sim.Options
	logger, catalog, err := common.setup(fs, &opts)
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	defer logger.Sync()

	gc := game.GameConfig{
		Players:           opts.Players,
		Catalog:           catalog,
		Logger:            log.NewTextLogger(os.Stdout),
		Seed:              opts.Seed,
		MaxEncounters:     opts.MaxEncounters,
		PerAllyCommitment: opts.PerAllyCommitment,
	}
	if *showTable {
		gc.Snapshot = func(_ game.Phase, snapshot string) {
			fmt.Print(snapshot)
		}
	}

	g, err := game.NewGame(gc)
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	winners, err := g.Run(ctx)
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	names := make([]string, 0, len(winners))
	for _, p := range winners {
		names = append(names, fmt.Sprintf("%s (%s)", p.Name, p.PowerName()))
	}
	fmt.Println()
	fmt.Print(g.Describe())
	fmt.Printf("Winner: %s after %d encounters - %s\n", strings.Join(names, ", "), g.EncounterCount, g.Result)
}

func runPowers(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("powers", flag.ExitOnError)
	expansions := fs.String("expansions", strings.Join(cfg.Expansions, ","), "comma-separated expansions to list")
	powerFile := fs.String("powers", "", "path to a power table YAML file (default: built-in table)")
	fs.Parse(args)

	var (
		catalog *game.PowerCatalog
		err     error
	)
	if *powerFile != "" {
		catalog, err = game.LoadPowerFile(*powerFile)
	} else {
		catalog, err = game.DefaultCatalog()
	}
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	catalog = catalog.Filter(splitList(*expansions)...)

	for _, pw := range catalog.Powers() {
		fmt.Printf("%-14s %-10s %s\n", pw.Name, pw.Expansion, pw.Description)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
