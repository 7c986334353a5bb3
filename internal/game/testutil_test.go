package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/log"
)

// newTestGame builds a powerless game with players P1..Pn and a fixed seed.
func newTestGame(t *testing.T, n int) (*Game, *log.MemoryLogger) {
	t.Helper()
	specs := make([]PlayerSpec, n)
	for i := range specs {
		specs[i] = PlayerSpec{Name: fmt.Sprintf("P%d", i+1)}
	}
	logger := log.NewMemoryLogger()
	g, err := NewGame(GameConfig{Players: specs, Logger: logger, Seed: 42})
	require.NoError(t, err)
	return g, logger
}

// givePower hands p the named power from the default catalog and refreshes
// power activity.
func givePower(t *testing.T, g *Game, p *Player, name string) {
	t.Helper()
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	pw, ok := catalog.Lookup(name)
	require.True(t, ok, "power %s not in catalog", name)
	p.Power = pw
	g.refreshColonies()
}

// encounterBuilder stages an encounter directly, skipping destiny, launch
// and planning so resolution can be tested with exact numbers.
type encounterBuilder struct {
	t *testing.T
	g *Game
	e *Encounter
}

func stageEncounter(t *testing.T, g *Game, offense, defense *Player) *encounterBuilder {
	t.Helper()
	g.Offense = offense
	g.Enc = newEncounter(offense)
	g.Enc.Defense = defense
	return &encounterBuilder{t: t, g: g, e: g.Enc}
}

// at picks the defense planet and leaves exactly ships defense ships on it.
// Surplus ships move to the defense's other planets, so nothing is lost.
func (b *encounterBuilder) at(planet *Planet, ships int) *encounterBuilder {
	b.t.Helper()
	def := b.e.Defense
	have := planet.ShipsOf(def.Name)
	require.GreaterOrEqual(b.t, have, ships)
	if surplus := have - ships; surplus > 0 {
		require.NoError(b.t, planet.RemoveShips(def.Name, surplus))
		for _, pl := range b.g.PlanetsOf(def) {
			if pl != planet {
				pl.AddShips(def.Name, surplus)
				break
			}
		}
	}
	b.e.Planet = planet
	b.e.DefenseShips = ships
	return b
}

// offenseShips launches n offense ships.
func (b *encounterBuilder) offenseShips(n int) *encounterBuilder {
	b.t.Helper()
	got, err := b.g.launchShips(b.e.Offense, n)
	require.NoError(b.t, err)
	require.Equal(b.t, n, got)
	b.e.OffenseShips = got
	return b
}

// ally launches n ships for p on side.
func (b *encounterBuilder) ally(p *Player, side Side, n int) *encounterBuilder {
	b.t.Helper()
	got, err := b.g.launchShips(p, n)
	require.NoError(b.t, err)
	require.Equal(b.t, n, got)
	b.e.AllyShips[p.Name] = got
	if side == SideOffense {
		b.e.OffenseAllies = append(b.e.OffenseAllies, p)
	} else {
		b.e.DefenseAllies = append(b.e.DefenseAllies, p)
	}
	return b
}

// cards sets the revealed cards for both sides.
func (b *encounterBuilder) cards(offense, defense Card) *encounterBuilder {
	b.e.OffenseCard, b.e.OffenseReveal = offense, offense
	b.e.DefenseCard, b.e.DefenseReveal = defense, defense
	return b
}

func (b *encounterBuilder) resolve() *Encounter {
	b.t.Helper()
	require.NoError(b.t, b.g.resolutionPhase())
	return b.e
}

// assertShipsConserved checks every player still owns all starting ships.
func assertShipsConserved(t *testing.T, g *Game) {
	t.Helper()
	for _, p := range g.Players {
		require.Equal(t, StartingShips, g.ShipTotal(p), "ship total for %s in %s", p.Name, g.Phase)
	}
}

// cardCounts tallies cosmic, reward and destiny cards wherever they are.
func cardCounts(g *Game) (cosmic, rewards, destiny int) {
	count := func(c Card) {
		switch {
		case c.IsReward():
			rewards++
		case c.Type() == CardDestiny:
			destiny++
		default:
			cosmic++
		}
	}
	for _, d := range []*Deck{g.Deck, g.DiscardPile, g.RewardsDeck, g.RewardsDiscard, g.DestinyDeck, g.DestinyDiscard} {
		for _, c := range d.Cards() {
			count(c)
		}
	}
	for _, p := range g.Players {
		for _, c := range p.Hand {
			count(c)
		}
	}
	if g.Enc != nil && g.Phase >= PhaseReveal {
		count(g.Enc.OffenseCard)
		count(g.Enc.DefenseCard)
	}
	return cosmic, rewards, destiny
}

func planetOwnedBy(g *Game, p *Player) *Planet {
	return g.PlanetsOf(p)[0]
}
