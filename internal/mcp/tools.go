package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/game"
	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/log"
	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/sim"
)

// MaxGamesPerCall caps run_simulation so one call cannot pin the server.
const MaxGamesPerCall = 100000

// Tools serves simulations over MCP. Every call builds its own simulator, so
// handlers share nothing but the read-only catalog.
type Tools struct {
	catalog       *game.PowerCatalog
	logger        *zap.Logger
	maxEncounters int
}

// NewTools binds the tool handlers to a power catalog.
func NewTools(catalog *game.PowerCatalog, logger *zap.Logger, maxEncounters int) *Tools {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tools{catalog: catalog, logger: logger, maxEncounters: maxEncounters}
}

// RegisterTools adds all simulator tools to the MCP server.
func RegisterTools(s *server.MCPServer, t *Tools) {
	s.AddTool(runSimulationTool(), t.handleRunSimulation)
	s.AddTool(simulateGameTool(), t.handleSimulateGame)
	s.AddTool(listPowersTool(), t.handleListPowers)
}

// --- Tool definitions ---

func runSimulationTool() mcp.Tool {
	return mcp.NewTool("run_simulation",
		mcp.WithDescription("Simulate a batch of Cosmic Encounter games and return win counts, win rates and pairwise ELO ratings per alien power."),
		mcp.WithNumber("num_games", mcp.Required(), mcp.Description("Number of completed games to play")),
		mcp.WithNumber("num_players", mcp.Description("Seats per game, 2-8 (default 5)")),
		mcp.WithString("powers", mcp.Description("Comma-separated power per seat; empty entries are drawn at random (e.g. 'Virus,,Zombie')")),
		mcp.WithNumber("seed", mcp.Description("Batch seed for reproducible runs; 0 for random")),
		mcp.WithBoolean("catch_errors", mcp.Description("Retry games that hit an engine failure instead of aborting (default true)")),
	)
}

func simulateGameTool() mcp.Tool {
	return mcp.NewTool("simulate_game",
		mcp.WithDescription("Play a single game and return the winners, the final table and the full event log."),
		mcp.WithNumber("num_players", mcp.Description("Seats in the game, 2-8 (default 5)")),
		mcp.WithString("powers", mcp.Description("Comma-separated power per seat; empty entries are drawn at random")),
		mcp.WithNumber("seed", mcp.Description("Game seed; 0 for random")),
	)
}

func listPowersTool() mcp.Tool {
	return mcp.NewTool("list_powers",
		mcp.WithDescription("List the alien powers available to the simulator."),
		mcp.WithString("expansion", mcp.Description("Only list powers from this expansion (e.g. 'base')")),
	)
}

// --- Responses ---

// GameResponse is the simulate_game payload.
type GameResponse struct {
	ID         string            `json:"id"`
	Winners    []string          `json:"winners"`
	Result     string            `json:"result"`
	Encounters int               `json:"encounters"`
	Powers     map[string]string `json:"powers"`
	Table      string            `json:"table"`
	Events     string            `json:"events"` // one formatted event per line
}

// PowerView is one list_powers entry.
type PowerView struct {
	Name        string `json:"name"`
	Expansion   string `json:"expansion"`
	Description string `json:"description,omitempty"`
}

// --- Tool handlers ---

func (t *Tools) handleRunSimulation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	games := request.GetInt("num_games", 0)
	if games < 1 || games > MaxGamesPerCall {
		return mcp.NewToolResultErrorf("num_games must be 1-%d, got %d", MaxGamesPerCall, games), nil
	}
	roster, err := t.roster(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s, err := sim.NewSimulator(t.catalog, sim.Options{
		Games:         games,
		CatchErrors:   request.GetBool("catch_errors", true),
		Seed:          int64(request.GetInt("seed", 0)),
		Players:       roster,
		MaxEncounters: t.maxEncounters,
	}, t.logger)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start simulation: %v", err), nil
	}

	summary, err := s.Run(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Simulation failed: %v", err), nil
	}
	summary.Results = nil
	return mcp.NewToolResultText(respondJSON(summary)), nil
}

func (t *Tools) handleSimulateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roster, err := t.roster(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	events := log.NewMemoryLogger()
	g, err := game.NewGame(game.GameConfig{
		Players:       roster,
		Catalog:       t.catalog,
		Logger:        events,
		Seed:          int64(request.GetInt("seed", 0)),
		MaxEncounters: t.maxEncounters,
	})
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}

	winners, err := g.Run(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Game %s failed after %d encounters: %v", g.ID, g.EncounterCount, err), nil
	}

	resp := &GameResponse{
		ID:         g.ID,
		Result:     g.Result,
		Encounters: g.EncounterCount,
		Powers:     make(map[string]string, len(g.Players)),
		Table:      g.Describe(),
		Events:     log.FormatAll(events.Events()),
	}
	for _, p := range winners {
		resp.Winners = append(resp.Winners, p.Name)
	}
	for _, p := range g.Players {
		resp.Powers[p.Name] = p.PowerName()
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleListPowers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalog := t.catalog
	if exp := strings.TrimSpace(request.GetString("expansion", "")); exp != "" {
		catalog = catalog.Filter(exp)
		if catalog.Len() == 0 {
			return mcp.NewToolResultErrorf("Unknown expansion %q. Known: %s", exp, strings.Join(t.catalog.Expansions(), ", ")), nil
		}
	}

	views := make([]PowerView, 0, catalog.Len())
	for _, pw := range catalog.Powers() {
		views = append(views, PowerView{Name: pw.Name, Expansion: pw.Expansion, Description: pw.Description})
	}
	return mcp.NewToolResultText(respondJSON(views)), nil
}

// roster builds the seat list from num_players and powers.
func (t *Tools) roster(request mcp.CallToolRequest) ([]game.PlayerSpec, error) {
	var powers []string
	if raw := strings.TrimSpace(request.GetString("powers", "")); raw != "" {
		powers = strings.Split(raw, ",")
	}

	n := request.GetInt("num_players", 0)
	if n == 0 {
		n = len(powers)
	}
	if n == 0 {
		n = 5
	}
	if n < game.MinPlayers || n > game.MaxPlayers {
		return nil, fmt.Errorf("num_players must be %d-%d, got %d", game.MinPlayers, game.MaxPlayers, n)
	}
	if len(powers) > n {
		return nil, fmt.Errorf("%d powers given for %d players", len(powers), n)
	}

	roster := sim.DefaultRoster(n)
	for i, name := range powers {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := t.catalog.Lookup(name); !ok {
			return nil, fmt.Errorf("unknown power %q", name)
		}
		roster[i].Power = name
	}
	return roster, nil
}

// respondJSON marshals a tool payload to a JSON string.
func respondJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
