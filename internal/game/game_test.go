package game

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/log"
)

func roster(names ...string) []PlayerSpec {
	specs := make([]PlayerSpec, len(names))
	for i, n := range names {
		specs[i] = PlayerSpec{Name: n}
	}
	return specs
}

func TestNewGameSetup(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	g, err := NewGame(GameConfig{Players: roster("Ann", "Bo", "Cy"), Catalog: catalog, Seed: 3})
	require.NoError(t, err)

	assert.NotEmpty(t, g.ID)
	assert.Len(t, g.Planets, 3*PlanetsPerPlayer)
	assert.Equal(t, 3*DestinyCardsPerSeat+WildDestinyCards, g.DestinyDeck.Len())
	assert.Equal(t, len(CosmicCards())-3*HandSize, g.Deck.Len())
	assert.Equal(t, len(RewardCards()), g.RewardsDeck.Len())

	colors := map[string]bool{}
	powers := map[string]bool{}
	for _, p := range g.Players {
		assert.Len(t, p.Hand, HandSize)
		assert.Len(t, p.HomeColonies, PlanetsPerPlayer)
		assert.Empty(t, p.ForeignColonies)
		assert.True(t, p.PowerActive)
		assert.Equal(t, StartingShips, g.ShipTotal(p))
		assert.False(t, colors[p.Color], "color %s reused", p.Color)
		assert.False(t, powers[p.PowerName()], "power %s reused", p.PowerName())
		colors[p.Color] = true
		powers[p.PowerName()] = true
	}
}

func TestNewGameHonorsFixedChoices(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	specs := []PlayerSpec{
		{Name: "Ann", Color: "Purple", Power: "Virus", Strategy: "cautious"},
		{Name: "Bo"},
	}
	g, err := NewGame(GameConfig{Players: specs, Catalog: catalog})
	require.NoError(t, err)

	ann := g.PlayerByName("Ann")
	require.NotNil(t, ann)
	assert.Equal(t, "Purple", ann.Color)
	assert.Equal(t, "Virus", ann.PowerName())
	assert.Equal(t, StrategyCautious, ann.Strategy)
	assert.NotEqual(t, "Purple", g.PlayerByName("Bo").Color)
}

func TestNewGameConfigErrors(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	tiny, err := NewPowerCatalog(&Power{Name: "Solo"})
	require.NoError(t, err)

	nine := make([]string, 9)
	for i := range nine {
		nine[i] = fmt.Sprintf("P%d", i)
	}

	tests := []struct {
		name string
		cfg  GameConfig
	}{
		{"one player", GameConfig{Players: roster("A")}},
		{"too many players", GameConfig{Players: roster(nine...)}},
		{"duplicate name", GameConfig{Players: roster("A", "A")}},
		{"empty name", GameConfig{Players: roster("A", "")}},
		{"unknown color", GameConfig{Players: []PlayerSpec{{Name: "A", Color: "Teal"}, {Name: "B"}}}},
		{"duplicate color", GameConfig{Players: []PlayerSpec{{Name: "A", Color: "Red"}, {Name: "B", Color: "Red"}}}},
		{"unknown power", GameConfig{Players: []PlayerSpec{{Name: "A", Power: "Nobody"}, {Name: "B"}}, Catalog: catalog}},
		{"duplicate power", GameConfig{Players: []PlayerSpec{{Name: "A", Power: "Virus"}, {Name: "B", Power: "Virus"}}, Catalog: catalog}},
		{"power without catalog", GameConfig{Players: []PlayerSpec{{Name: "A", Power: "Virus"}, {Name: "B"}}}},
		{"not enough powers", GameConfig{Players: roster("A", "B"), Catalog: tiny}},
		{"unknown strategy", GameConfig{Players: []PlayerSpec{{Name: "A", Strategy: "chaotic"}, {Name: "B"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGame(tt.cfg)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

// TestFullGamesConserveShipsAndCards plays complete games with random powers
// and checks conservation at every phase boundary.
func TestFullGamesConserveShipsAndCards(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	finished := 0
	for players := 2; players <= 6; players++ {
		for seed := int64(1); seed <= 8; seed++ {
			names := make([]string, players)
			for i := range names {
				names[i] = fmt.Sprintf("P%d", i+1)
			}

			var g *Game
			cosmic, rewards := len(CosmicCards()), len(RewardCards())
			destiny := players*DestinyCardsPerSeat + WildDestinyCards
			snapshots := 0

			g, err = NewGame(GameConfig{
				Players: roster(names...),
				Catalog: catalog,
				Seed:    seed*100 + int64(players),
				Logger:  log.DiscardLogger{},
				Snapshot: func(phase Phase, _ string) {
					snapshots++
					assertShipsConserved(t, g)
					c, r, d := cardCounts(g)
					require.Equal(t, cosmic, c, "cosmic cards at %s", phase)
					require.Equal(t, rewards, r, "reward cards at %s", phase)
					require.Equal(t, destiny, d, "destiny cards at %s", phase)
				},
			})
			require.NoError(t, err)

			winners, err := g.Run(context.Background())
			assert.Positive(t, snapshots)
			if err != nil {
				require.ErrorIs(t, err, ErrInvariant)
				continue
			}
			finished++
			require.NotEmpty(t, winners)
			assert.True(t, g.Over)
		}
	}
	assert.Positive(t, finished)
}

func TestGameEndsInWinningHousekeeping(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		logger := log.NewMemoryLogger()
		g, err := NewGame(GameConfig{Players: roster("A", "B", "C", "D"), Logger: logger, Seed: seed})
		require.NoError(t, err)

		winners, err := g.Run(context.Background())
		if err != nil {
			require.ErrorIs(t, err, ErrInvariant)
			continue
		}

		events := logger.Events()
		first := -1
		for i, e := range events {
			if e.Type == log.EventWin {
				first = i
				break
			}
		}
		require.GreaterOrEqual(t, first, 0, "seed %d", seed)
		for _, e := range events[first:] {
			assert.NotEqual(t, log.EventPhaseChange, e.Type, "seed %d: phase change after a win", seed)
		}
		for _, w := range winners {
			assert.GreaterOrEqual(t, len(w.ForeignColonies), ColoniesToWin, w.Name)
		}
	}
}

func TestSeededGamesAreReproducible(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	play := func() []string {
		logger := log.NewMemoryLogger()
		g, err := NewGame(GameConfig{Players: roster("A", "B", "C"), Catalog: catalog, Logger: logger, Seed: 77})
		require.NoError(t, err)
		_, _ = g.Run(context.Background())
		var lines []string
		for _, e := range logger.Events() {
			lines = append(lines, e.Details)
		}
		return lines
	}
	assert.Equal(t, play(), play())
}

func TestRunHonorsContext(t *testing.T) {
	g, _ := newTestGame(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, g.EncounterCount)
}

func TestEncounterLimit(t *testing.T) {
	g, err := NewGame(GameConfig{Players: roster("A", "B"), Seed: 5, MaxEncounters: 1})
	require.NoError(t, err)

	_, err = g.Run(context.Background())
	if g.Over {
		t.Skip("game ended in a single encounter")
	}
	assert.ErrorIs(t, err, ErrEncounterLimit)
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestStartTurnTakesStandings(t *testing.T) {
	g, _ := newTestGame(t, 3)
	offense := g.Order[0]
	defense, leader := g.Order[1], g.Order[2]

	// leader moves a ship onto one of the offense's planets.
	require.NoError(t, planetOwnedBy(g, leader).RemoveShips(leader.Name, 1))
	planetOwnedBy(g, offense).AddShips(leader.Name, 1)
	g.refreshColonies()

	g.startTurn()
	assert.Equal(t, map[string]int{offense.Name: 0, defense.Name: 0, leader.Name: 1}, g.standings)
	assert.Equal(t, g.Standings(), g.standings)
}

func TestAllianceSkipsPlayersAheadOfOffense(t *testing.T) {
	g, logger := newTestGame(t, 3)
	offense := g.Order[0]
	defense, leader := g.Order[1], g.Order[2]

	require.NoError(t, planetOwnedBy(g, leader).RemoveShips(leader.Name, 1))
	planetOwnedBy(g, offense).AddShips(leader.Name, 1)
	g.refreshColonies()

	for i := 0; i < 20; i++ {
		g.startTurn()
		stageEncounter(t, g, offense, defense).at(planetOwnedBy(g, defense), 4)
		g.alliancePhase()

		assert.Empty(t, g.Enc.OffenseAllies, "round %d", i)
		for _, a := range g.Enc.DefenseAllies {
			g.returnShips(a, g.Enc.AllyShips[a.Name])
		}
	}
	for _, ev := range logger.EventsOfType(log.EventInvite) {
		assert.NotEqual(t, offense.Name, ev.Player, "offense invited %s", ev.Details)
	}
}

func TestAllyCommitment(t *testing.T) {
	g, _ := newTestGame(t, 4)
	_, _, p3, p4 := g.Players[0], g.Players[1], g.Players[2], g.Players[3]
	givePower(t, g, p3, "Amoeba")

	// Keyed off the last player examined, not the ally.
	assert.Equal(t, BaseAllyShips, g.allyCommitment(p3, p4))
	assert.Equal(t, BoostedShips, g.allyCommitment(p4, p3))

	g.perAllyCommitment = true
	assert.Equal(t, BoostedShips, g.allyCommitment(p3, p4))
	assert.Equal(t, BaseAllyShips, g.allyCommitment(p4, p3))
}

func TestLaunchKeepsColonies(t *testing.T) {
	g, _ := newTestGame(t, 2)
	p1 := g.Players[0]

	n, err := g.launchShips(p1, 50)
	require.NoError(t, err)
	assert.Equal(t, StartingShips-PlanetsPerPlayer, n)
	for _, pl := range g.PlanetsOf(p1) {
		assert.Equal(t, 1, pl.ShipsOf(p1.Name))
	}
}

func TestSecondEncounter(t *testing.T) {
	g, logger := newTestGame(t, 3)
	p1, p2 := g.Players[0], g.Players[1]

	stageEncounter(t, g, p1, p2).
		at(planetOwnedBy(g, p2), 1).
		offenseShips(3).
		cards(NewAttackCard(20), NewAttackCard(4)).
		resolve()
	p1.Hand = []Card{NewAttackCard(6)}

	require.NoError(t, g.housekeeping())
	assert.Equal(t, 2, g.Encounter)
	assert.Equal(t, p1, g.Order[0])
	assert.Len(t, logger.EventsOfType(log.EventSecondEncounter), 1)

	// The second encounter always passes the turn.
	stageEncounter(t, g, p1, p2).
		at(g.PlanetsOf(p2)[1], 4).
		offenseShips(3).
		cards(NewAttackCard(20), NewAttackCard(4)).
		resolve()
	require.NoError(t, g.housekeeping())
	assert.Equal(t, 1, g.Encounter)
	assert.Equal(t, p2, g.Order[0])
	assert.Equal(t, p1, g.Order[2])
}

func TestLostEncounterPassesTurn(t *testing.T) {
	g, _ := newTestGame(t, 3)
	p1, p2 := g.Players[0], g.Players[1]

	stageEncounter(t, g, p1, p2).
		at(planetOwnedBy(g, p2), 4).
		offenseShips(3).
		cards(NewAttackCard(1), NewAttackCard(20)).
		resolve()
	require.NoError(t, g.housekeeping())

	assert.Equal(t, 1, g.Encounter)
	assert.Equal(t, p2, g.Order[0])
	assert.Equal(t, 2, g.DiscardPile.Len(), "both played cards are discarded")
}

func TestFiveColoniesWin(t *testing.T) {
	g, logger := newTestGame(t, 3)
	p1, p2, p3 := g.Players[0], g.Players[1], g.Players[2]

	for _, pl := range g.PlanetsOf(p2)[:3] {
		require.NoError(t, g.PlanetsOf(p1)[0].RemoveShips(p1.Name, 1))
		pl.AddShips(p1.Name, 1)
	}
	for _, pl := range g.PlanetsOf(p3)[:1] {
		require.NoError(t, g.PlanetsOf(p1)[1].RemoveShips(p1.Name, 1))
		pl.AddShips(p1.Name, 1)
	}
	g.refreshColonies()
	require.Len(t, p1.ForeignColonies, 4)

	stageEncounter(t, g, p1, p3).
		at(g.PlanetsOf(p3)[4], 4).
		offenseShips(3).
		cards(NewAttackCard(30), NewAttackCard(4)).
		resolve()
	require.NoError(t, g.housekeeping())

	assert.True(t, g.Over)
	assert.Equal(t, []*Player{p1}, g.Winners)
	assert.Len(t, logger.EventsOfType(log.EventWin), 1)
	assertShipsConserved(t, g)
}

func TestCounterWinConditions(t *testing.T) {
	t.Run("tick-tock", func(t *testing.T) {
		g, _ := newTestGame(t, 2)
		p1 := g.Players[0]
		givePower(t, g, p1, "Tick-Tock")
		p1.TickTockTokens = TickTockTarget
		assert.True(t, g.checkWin())
		assert.Equal(t, []*Player{p1}, g.Winners)
	})

	t.Run("hoarder", func(t *testing.T) {
		g, _ := newTestGame(t, 2)
		p2 := g.Players[1]
		givePower(t, g, p2, "Hoarder")
		for len(p2.Hand) < HoarderHandTarget {
			p2.Hand = append(p2.Hand, NewAttackCard(1))
		}
		assert.True(t, g.checkWin())
	})

	t.Run("inactive power cannot win", func(t *testing.T) {
		g, _ := newTestGame(t, 2)
		p1 := g.Players[0]
		givePower(t, g, p1, "Tick-Tock")
		p1.TickTockTokens = TickTockTarget
		p1.PowerActive = false
		assert.False(t, g.checkWin())
	})

	t.Run("masochist stays active", func(t *testing.T) {
		g, _ := newTestGame(t, 2)
		p1 := g.Players[0]
		givePower(t, g, p1, "Masochist")
		for _, pl := range g.PlanetsOf(p1) {
			g.Warp[p1.Name] += pl.ClearShips(p1.Name)
		}
		g.refreshColonies()
		assert.True(t, p1.PowerActive)
		assert.True(t, g.checkWin())
	})

	t.Run("simultaneous winners", func(t *testing.T) {
		g, _ := newTestGame(t, 3)
		p1, p2 := g.Players[0], g.Players[1]
		givePower(t, g, p1, "Tick-Tock")
		givePower(t, g, p2, "Hoarder")
		p1.TickTockTokens = TickTockTarget
		for len(p2.Hand) < HoarderHandTarget {
			p2.Hand = append(p2.Hand, NewAttackCard(1))
		}
		assert.True(t, g.checkWin())
		assert.ElementsMatch(t, []*Player{p1, p2}, g.Winners)
	})
}

func TestDescribe(t *testing.T) {
	g, _ := newTestGame(t, 2)
	out := g.Describe()
	assert.Contains(t, out, "P1")
	assert.Contains(t, out, "P2")
}
