package main

import (
	"flag"
	"strings"

	"github.com/mark3labs/mcp-go/server"

	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/config"
	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/game"
	cosmicmcp "github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	powerFile := flag.String("powers", "", "path to a power table YAML file (default: built-in table)")
	expansions := flag.String("expansions", strings.Join(cfg.Expansions, ","), "comma-separated expansions to draw powers from")
	maxEncounters := flag.Int("max-encounters", cfg.MaxEncounters, "abort a game after this many encounters")
	flag.Parse()

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	defer logger.Sync()

	var catalog *game.PowerCatalog
	if *powerFile != "" {
		catalog, err = game.LoadPowerFile(*powerFile)
	} else {
		catalog, err = game.DefaultCatalog()
	}
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	var filter []string
	for _, e := range strings.Split(*expansions, ",") {
		if e = strings.TrimSpace(e); e != "" {
			filter = append(filter, e)
		}
	}
	catalog = catalog.Filter(filter...)

	s := server.NewMCPServer("cosmic", "1.0.0")
	cosmicmcp.RegisterTools(s, cosmicmcp.NewTools(catalog, logger, *maxEncounters))

	logger.Info("serving MCP on stdio")
	if err := server.ServeStdio(s); err != nil {
		config.Exitf("Error: %v", err)
	}
}
