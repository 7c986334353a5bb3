package game

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/log"
)

// DefaultMaxEncounters bounds a single game. Real games end in well under a
// hundred encounters; hitting the limit means a power interaction loops.
const DefaultMaxEncounters = 2000

// PlayerSpec describes one seat of the roster. Empty Color or Power are
// assigned at random.
type PlayerSpec struct {
	Name     string `yaml:"name" json:"name"`
	Color    string `yaml:"color,omitempty" json:"color,omitempty"`
	Power    string `yaml:"power,omitempty" json:"power,omitempty"`
	Strategy string `yaml:"strategy,omitempty" json:"strategy,omitempty"`
}

// GameConfig holds configuration for creating a new game.
type GameConfig struct {
	Players []PlayerSpec
	Catalog *PowerCatalog // nil means every player is powerless
	Logger  log.EventLogger

	Seed int64      // RNG seed (0 for random)
	Rand *rand.Rand // overrides Seed when set

	MaxEncounters int // 0 = DefaultMaxEncounters

	// PerAllyCommitment evaluates the four-ship commitment for each ally's
	// own power. When false, every ally commits four ships whenever the last
	// player examined during invitations holds an active commits-four power.
	PerAllyCommitment bool

	// Snapshot, when set, receives a text rendering of the table at every
	// phase boundary.
	Snapshot func(phase Phase, snapshot string)
}

// Game runs one Cosmic Encounter game to completion.
type Game struct {
	ID      string
	Players []*Player // seating order, fixed for the game
	Order   []*Player // turn order; Order[0] is the current offense
	Planets []*Planet
	Warp    map[string]int

	Deck           *Deck
	DiscardPile    *Deck
	DestinyDeck    *Deck
	DestinyDiscard *Deck
	RewardsDeck    *Deck
	RewardsDiscard *Deck

	Phase          Phase
	Encounter      int // encounter number within the turn (1 or 2)
	EncounterCount int // encounters started this game
	Offense        *Player
	Enc            *Encounter
	standings      map[string]int // foreign colonies per player, taken at Start Turn

	Winners []*Player
	Over    bool
	Result  string

	Logger log.EventLogger

	rng               *rand.Rand
	maxEncounters     int
	perAllyCommitment bool
	snapshot          func(Phase, string)
	byName            map[string]*Player
}

// NewGame validates the roster, assigns colors and powers, builds planets
// and decks and deals opening hands.
func NewGame(cfg GameConfig) (*Game, error) {
	if len(cfg.Players) < MinPlayers {
		return nil, fmt.Errorf("%w: need at least %d players, got %d", ErrConfig, MinPlayers, len(cfg.Players))
	}
	if len(cfg.Players) > MaxPlayers {
		return nil, fmt.Errorf("%w: at most %d players, got %d", ErrConfig, MaxPlayers, len(cfg.Players))
	}

	rng := cfg.Rand
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}

	maxEncounters := cfg.MaxEncounters
	if maxEncounters == 0 {
		maxEncounters = DefaultMaxEncounters
	}

	g := &Game{
		ID:                uuid.NewString(),
		Warp:              make(map[string]int),
		Encounter:         1,
		Logger:            logger,
		rng:               rng,
		maxEncounters:     maxEncounters,
		perAllyCommitment: cfg.PerAllyCommitment,
		snapshot:          cfg.Snapshot,
		byName:            make(map[string]*Player),
	}

	if err := g.seatPlayers(cfg.Players, cfg.Catalog); err != nil {
		return nil, err
	}

	for _, p := range g.Players {
		for i := 0; i < PlanetsPerPlayer; i++ {
			g.Planets = append(g.Planets, newPlanet(len(g.Planets)+1, p))
		}
	}

	names := make([]string, len(g.Players))
	for i, p := range g.Players {
		names[i] = p.Name
	}
	g.DiscardPile = NewDiscardDeck("Cosmic discard")
	g.Deck = NewDeck("Cosmic", CosmicCards(), g.DiscardPile, rng)
	g.DestinyDiscard = NewDiscardDeck("Destiny discard")
	g.DestinyDeck = NewDeck("Destiny", DestinyCards(names), g.DestinyDiscard, rng)
	g.RewardsDiscard = NewDiscardDeck("Rewards discard")
	g.RewardsDeck = NewDeck("Rewards", RewardCards(), g.RewardsDiscard, rng)
	for _, d := range []*Deck{g.Deck, g.DestinyDeck, g.RewardsDeck} {
		d.OnReshuffle = func(d *Deck) {
			g.log(log.NewShuffleEvent(g.EncounterCount, g.Phase.String(), d.Name))
		}
	}

	for _, p := range g.Players {
		if err := g.drawCards(p, HandSize, g.Deck); err != nil {
			return nil, invariant("deal opening hands", err)
		}
	}

	g.Order = append([]*Player(nil), g.Players...)
	g.refreshColonies()
	return g, nil
}

// seatPlayers creates players and resolves fixed and random colors/powers.
func (g *Game) seatPlayers(specs []PlayerSpec, catalog *PowerCatalog) error {
	usedColors := make(map[string]bool)
	usedPowers := make(map[string]bool)
	validColor := make(map[string]bool, len(Colors))
	for _, c := range Colors {
		validColor[c] = true
	}

	for _, spec := range specs {
		if spec.Name == "" {
			return fmt.Errorf("%w: player without a name", ErrConfig)
		}
		if _, dup := g.byName[spec.Name]; dup {
			return fmt.Errorf("%w: duplicate player name %q", ErrConfig, spec.Name)
		}
		strategy, err := ParseStrategy(spec.Strategy)
		if err != nil {
			return fmt.Errorf("player %s: %w", spec.Name, err)
		}
		p := &Player{Name: spec.Name, Strategy: strategy}

		if spec.Color != "" {
			if !validColor[spec.Color] {
				return fmt.Errorf("%w: unknown color %q", ErrConfig, spec.Color)
			}
			if usedColors[spec.Color] {
				return fmt.Errorf("%w: color %q assigned twice", ErrConfig, spec.Color)
			}
			usedColors[spec.Color] = true
			p.Color = spec.Color
		}

		if spec.Power != "" {
			if catalog == nil {
				return fmt.Errorf("%w: power %q requested without a catalog", ErrConfig, spec.Power)
			}
			pw, ok := catalog.Lookup(spec.Power)
			if !ok {
				return fmt.Errorf("%w: unknown power %q", ErrConfig, spec.Power)
			}
			if usedPowers[spec.Power] {
				return fmt.Errorf("%w: power %q assigned twice", ErrConfig, spec.Power)
			}
			usedPowers[spec.Power] = true
			p.Power = pw
		}

		g.Players = append(g.Players, p)
		g.byName[p.Name] = p
	}

	// Random assignment after all fixed choices are reserved.
	var freeColors []string
	for _, c := range Colors {
		if !usedColors[c] {
			freeColors = append(freeColors, c)
		}
	}
	var freePowers []string
	if catalog != nil {
		for _, name := range catalog.Names() {
			if !usedPowers[name] {
				freePowers = append(freePowers, name)
			}
		}
	}

	for _, p := range g.Players {
		if p.Color == "" {
			i := g.rng.Intn(len(freeColors))
			p.Color = freeColors[i]
			freeColors = append(freeColors[:i], freeColors[i+1:]...)
		}
		if p.Power == nil && catalog != nil {
			if len(freePowers) == 0 {
				return fmt.Errorf("%w: not enough powers in catalog (%d) for %d players", ErrConfig, catalog.Len(), len(g.Players))
			}
			i := g.rng.Intn(len(freePowers))
			p.Power, _ = catalog.Lookup(freePowers[i])
			freePowers = append(freePowers[:i], freePowers[i+1:]...)
		}
	}
	return nil
}

// Run plays encounters until somebody wins. Returns the winner set.
func (g *Game) Run(ctx context.Context) ([]*Player, error) {
	for !g.Over {
		if g.EncounterCount >= g.maxEncounters {
			return nil, invariant(fmt.Sprintf("game %s", g.ID), fmt.Errorf("%w (%d encounters)", ErrEncounterLimit, g.maxEncounters))
		}
		if err := g.runEncounter(); err != nil {
			return nil, fmt.Errorf("game %s encounter %d: %w", g.ID, g.EncounterCount, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return g.Winners, nil
}

// runEncounter executes one full encounter and its housekeeping.
func (g *Game) runEncounter() error {
	g.EncounterCount++

	g.startTurn()

	if err := g.destinyPhase(); err != nil {
		return err
	}
	if err := g.launchPhase(); err != nil {
		return err
	}
	g.alliancePhase()

	if err := g.planningPhase(); err != nil {
		return err
	}
	g.revealPhase()

	if err := g.resolutionPhase(); err != nil {
		return err
	}
	return g.housekeeping()
}

// --- Lookup helpers ---

// PlayerByName returns the named player or nil.
func (g *Game) PlayerByName(name string) *Player {
	return g.byName[name]
}

// RoleOf returns p's role in the current encounter.
func (g *Game) RoleOf(p *Player) Role {
	if g.Enc == nil {
		return RoleBystander
	}
	return g.Enc.RoleOf(p)
}

// PlanetsOf returns the planets owned by p, in ID order.
func (g *Game) PlanetsOf(p *Player) []*Planet {
	var result []*Planet
	for _, pl := range g.Planets {
		if pl.Owner == p {
			result = append(result, pl)
		}
	}
	return result
}

// Standings maps each player to its foreign colony count.
func (g *Game) Standings() map[string]int {
	result := make(map[string]int, len(g.Players))
	for _, p := range g.Players {
		result[p.Name] = len(p.ForeignColonies)
	}
	return result
}

// TotalWarp returns the number of ships in the warp across all players.
func (g *Game) TotalWarp() int {
	total := 0
	for _, n := range g.Warp {
		total += n
	}
	return total
}

// refreshColonies recomputes colony caches and power activity.
func (g *Game) refreshColonies() {
	for _, p := range g.Players {
		p.HomeColonies = p.HomeColonies[:0]
		p.ForeignColonies = p.ForeignColonies[:0]
		for _, pl := range g.Planets {
			if pl.IsHomeColonyOf(p.Name) {
				p.HomeColonies = append(p.HomeColonies, pl)
			} else if pl.IsForeignColonyOf(p.Name) {
				p.ForeignColonies = append(p.ForeignColonies, pl)
			}
		}
		p.PowerActive = p.Power != nil && (len(p.HomeColonies) >= MinHomeColonies || p.Power.ActiveExempt)
	}
}

// --- Card movement ---

// drawCards moves n cards from deck into p's hand.
func (g *Game) drawCards(p *Player, n int, deck *Deck) error {
	for i := 0; i < n; i++ {
		c, err := deck.Draw()
		if err != nil {
			return err
		}
		p.Hand = append(p.Hand, c)
	}
	return nil
}

// discardCard routes a card to the discard pile it belongs to.
func (g *Game) discardCard(c Card) {
	switch {
	case c.IsReward():
		g.RewardsDiscard.Discard(c)
	case c.Type() == CardDestiny:
		g.DestinyDiscard.Discard(c)
	default:
		g.DiscardPile.Discard(c)
	}
}

// discardHand empties p's hand into the discard piles.
func (g *Game) discardHand(p *Player) {
	for _, c := range p.Hand {
		g.discardCard(c)
	}
	p.Hand = nil
}

// --- Logging ---

// log emits a game event through the logger.
func (g *Game) log(event log.GameEvent) {
	g.Logger.Log(event)
}

func (g *Game) powerLog(p *Player, details string) {
	g.log(log.NewPowerTriggerEvent(g.EncounterCount, g.Phase.String(), p.Name, p.PowerName(), details))
}

// setPhase records a phase boundary.
func (g *Game) setPhase(ph Phase) {
	g.Phase = ph
	g.log(log.NewPhaseChangeEvent(g.EncounterCount, ph.String()))
	if g.snapshot != nil {
		g.snapshot(ph, g.Describe())
	}
}

// Describe renders the table as text for verbose output.
func (g *Game) Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Encounter %d (%s), warp %d\n", g.EncounterCount, g.Phase, g.TotalWarp())
	for _, p := range g.Order {
		state := "active"
		if !p.PowerActive {
			state = "inactive"
		}
		fmt.Fprintf(&sb, "  %-10s %-6s %-12s (%s) hand=%d home=%d foreign=%d warp=%d\n",
			p.Name, p.Color, p.PowerName(), state, len(p.Hand),
			len(p.HomeColonies), len(p.ForeignColonies), g.Warp[p.Name])
	}
	if e := g.Enc; e != nil && e.Defense != nil {
		fmt.Fprintf(&sb, "  %s (%d ships) vs %s (%d ships) at %s\n",
			e.Offense.Name, e.OffenseShips, e.Defense.Name, e.DefenseShips, e.Planet)
	}
	return sb.String()
}
