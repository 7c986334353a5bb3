package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/log"
)

func TestAttackWin(t *testing.T) {
	g, logger := newTestGame(t, 2)
	p1, p2 := g.Players[0], g.Players[1]
	planet := planetOwnedBy(g, p2)

	e := stageEncounter(t, g, p1, p2).
		at(planet, 2).
		offenseShips(3).
		cards(NewAttackCard(10), NewAttackCard(5)).
		resolve()

	assert.Equal(t, 13, e.OffenseTotal)
	assert.Equal(t, 7, e.DefenseTotal)
	assert.Equal(t, SideOffense, e.WinningSide)
	assert.Equal(t, p1, e.Winner)

	assert.Equal(t, 3, planet.ShipsOf(p1.Name))
	assert.Equal(t, 0, planet.ShipsOf(p2.Name))
	assert.Equal(t, 0, g.Warp[p1.Name])
	assert.Equal(t, 2, g.Warp[p2.Name])
	assertShipsConserved(t, g)

	totals := logger.EventsOfType(log.EventTotals)
	require.Len(t, totals, 1)
	assert.Equal(t, "Offense total 13 vs defense total 7", totals[0].Details)
}

func TestTieGoesToDefense(t *testing.T) {
	g, _ := newTestGame(t, 2)
	p1, p2 := g.Players[0], g.Players[1]
	planet := planetOwnedBy(g, p2)

	e := stageEncounter(t, g, p1, p2).
		at(planet, 4).
		offenseShips(3).
		cards(NewAttackCard(5), NewAttackCard(4)).
		resolve()

	assert.Equal(t, e.OffenseTotal, e.DefenseTotal)
	assert.Equal(t, SideDefense, e.WinningSide)
	assert.Equal(t, 3, g.Warp[p1.Name])
	assert.Equal(t, 4, planet.ShipsOf(p2.Name))
	assertShipsConserved(t, g)
}

func TestTiePowerGivesOffenseTheWin(t *testing.T) {
	g, _ := newTestGame(t, 2)
	p1, p2 := g.Players[0], g.Players[1]
	givePower(t, g, p1, "Oracle")

	e := stageEncounter(t, g, p1, p2).
		at(planetOwnedBy(g, p2), 4).
		offenseShips(3).
		cards(NewAttackCard(5), NewAttackCard(4)).
		resolve()

	assert.Equal(t, SideOffense, e.WinningSide)
}

func TestColonySwap(t *testing.T) {
	g, logger := newTestGame(t, 2)
	p1, p2 := g.Players[0], g.Players[1]
	planet := planetOwnedBy(g, p2)

	e := stageEncounter(t, g, p1, p2).
		at(planet, 4).
		offenseShips(3).
		cards(NewNegotiateCard(), NewNegotiateCard()).
		resolve()

	assert.True(t, e.Deal)
	assert.Equal(t, p1, e.Winner)
	assert.Equal(t, 3, planet.ShipsOf(p1.Name))
	assert.Equal(t, 0, planet.ShipsOf(p2.Name))
	assert.Zero(t, g.TotalWarp())

	landed := 0
	for _, pl := range g.PlanetsOf(p1) {
		landed += pl.ShipsOf(p2.Name)
		if pl.ShipsOf(p2.Name) > 0 {
			assert.Equal(t, 4, pl.ShipsOf(p2.Name), "defense ships land together")
		}
	}
	assert.Equal(t, 4, landed)
	assert.Len(t, logger.EventsOfType(log.EventDeal), 1)
	assertShipsConserved(t, g)

	g.refreshColonies()
	assert.Len(t, p1.ForeignColonies, 1)
	assert.Len(t, p2.ForeignColonies, 1)
}

func TestColonySwapWithEmptyDefensePlanet(t *testing.T) {
	g, _ := newTestGame(t, 2)
	p1, p2 := g.Players[0], g.Players[1]
	planet := planetOwnedBy(g, p2)
	homeBefore := 0
	for _, pl := range g.PlanetsOf(p2) {
		homeBefore += pl.ShipsOf(p2.Name)
	}

	e := stageEncounter(t, g, p1, p2).
		at(planet, 0).
		offenseShips(3).
		cards(NewNegotiateCard(), NewNegotiateCard()).
		resolve()

	assert.True(t, e.Deal)
	assert.Equal(t, 3, planet.ShipsOf(p1.Name))

	landed, home := 0, 0
	for _, pl := range g.PlanetsOf(p1) {
		landed += pl.ShipsOf(p2.Name)
	}
	for _, pl := range g.PlanetsOf(p2) {
		home += pl.ShipsOf(p2.Name)
	}
	assert.Zero(t, landed, "no committed ships, nothing to move")
	assert.Equal(t, homeBefore, home, "no home ship is launched for the deal")
	assertShipsConserved(t, g)
}

func TestDealSendsAlliesHome(t *testing.T) {
	g, _ := newTestGame(t, 4)
	p1, p2, p3, p4 := g.Players[0], g.Players[1], g.Players[2], g.Players[3]

	stageEncounter(t, g, p1, p2).
		at(planetOwnedBy(g, p2), 4).
		offenseShips(3).
		ally(p3, SideOffense, 2).
		ally(p4, SideDefense, 2).
		cards(NewNegotiateCard(), NewNegotiateCard()).
		resolve()

	assert.Zero(t, g.TotalWarp())
	for _, p := range []*Player{p3, p4} {
		home := 0
		for _, pl := range g.PlanetsOf(p) {
			home += pl.ShipsOf(p.Name)
		}
		assert.Equal(t, StartingShips, home, p.Name)
	}
	assertShipsConserved(t, g)
}

func TestNegotiateLosesWithCompensation(t *testing.T) {
	g, logger := newTestGame(t, 2)
	p1, p2 := g.Players[0], g.Players[1]
	offenseHand, defenseHand := len(p1.Hand), len(p2.Hand)

	e := stageEncounter(t, g, p1, p2).
		at(planetOwnedBy(g, p2), 2).
		offenseShips(3).
		cards(NewNegotiateCard(), NewAttackCard(10)).
		resolve()

	assert.Equal(t, SideDefense, e.WinningSide)
	assert.Equal(t, 3, g.Warp[p1.Name])
	assert.Len(t, p1.Hand, offenseHand+2, "one card per defending ship")
	assert.Len(t, p2.Hand, defenseHand-2)

	comp := logger.EventsOfType(log.EventCompensation)
	require.Len(t, comp, 1)
	assert.Equal(t, p1.Name, comp[0].Player)
	assertShipsConserved(t, g)
}

func TestFilchTakesBestCards(t *testing.T) {
	g, _ := newTestGame(t, 2)
	p1, p2 := g.Players[0], g.Players[1]
	givePower(t, g, p1, "Filch")
	p2.Hand = []Card{NewAttackCard(4), NewAttackCard(40), NewNegotiateCard(), NewAttackCard(20)}

	stageEncounter(t, g, p1, p2).
		at(planetOwnedBy(g, p2), 2).
		offenseShips(3).
		cards(NewNegotiateCard(), NewAttackCard(10)).
		resolve()

	assert.Equal(t, []Card{NewAttackCard(4), NewNegotiateCard()}, p2.Hand)
	assert.Contains(t, p1.Hand, NewAttackCard(40))
	assert.Contains(t, p1.Hand, NewAttackCard(20))
}

func TestPacifistWinsByNegotiating(t *testing.T) {
	g, _ := newTestGame(t, 2)
	p1, p2 := g.Players[0], g.Players[1]
	givePower(t, g, p1, "Pacifist")
	planet := planetOwnedBy(g, p2)

	e := stageEncounter(t, g, p1, p2).
		at(planet, 4).
		offenseShips(3).
		cards(NewNegotiateCard(), NewAttackCard(40)).
		resolve()

	assert.Equal(t, SideOffense, e.WinningSide)
	assert.Equal(t, 3, planet.ShipsOf(p1.Name))
	assert.Equal(t, 4, g.Warp[p2.Name])
	assertShipsConserved(t, g)
}

func TestUpsetLowerTotalWins(t *testing.T) {
	g, _ := newTestGame(t, 2)
	p1, p2 := g.Players[0], g.Players[1]
	givePower(t, g, p1, "Anti-Matter")

	b := stageEncounter(t, g, p1, p2).
		at(planetOwnedBy(g, p2), 4).
		offenseShips(3).
		cards(NewAttackCard(2), NewAttackCard(20))
	b.e.Upset = true
	e := b.resolve()

	assert.Equal(t, 5, e.OffenseTotal)
	assert.Equal(t, 24, e.DefenseTotal)
	assert.Equal(t, SideOffense, e.WinningSide)
}

func TestDefensiveAlliesDrawRewards(t *testing.T) {
	g, logger := newTestGame(t, 4)
	p1, p2, p3, p4 := g.Players[0], g.Players[1], g.Players[2], g.Players[3]
	handBefore := len(p3.Hand)

	stageEncounter(t, g, p1, p2).
		at(planetOwnedBy(g, p2), 4).
		offenseShips(3).
		ally(p4, SideOffense, 2).
		ally(p3, SideDefense, 2).
		cards(NewAttackCard(0), NewAttackCard(20)).
		resolve()

	assert.Len(t, p3.Hand, handBefore+2)
	rewards := 0
	for _, c := range p3.Hand {
		if c.IsReward() {
			rewards++
		}
	}
	assert.Equal(t, 2, rewards)
	assert.Zero(t, g.Warp[p3.Name], "defensive allies go home")
	assert.Equal(t, 2, g.Warp[p4.Name], "offensive allies are warped")
	assert.Equal(t, 3, g.Warp[p1.Name])
	assert.Len(t, logger.EventsOfType(log.EventRewards), 1)
	assertShipsConserved(t, g)
}

func TestOffensiveAlliesLandOnWin(t *testing.T) {
	g, _ := newTestGame(t, 4)
	p1, p2, p3, p4 := g.Players[0], g.Players[1], g.Players[2], g.Players[3]
	planet := planetOwnedBy(g, p2)

	stageEncounter(t, g, p1, p2).
		at(planet, 1).
		offenseShips(3).
		ally(p3, SideOffense, 2).
		ally(p4, SideDefense, 2).
		cards(NewAttackCard(20), NewAttackCard(4)).
		resolve()

	assert.Equal(t, 3, planet.ShipsOf(p1.Name))
	assert.Equal(t, 2, planet.ShipsOf(p3.Name))
	assert.Equal(t, 2, g.Warp[p4.Name])
	assert.Equal(t, 1, g.Warp[p2.Name])
	assertShipsConserved(t, g)
}

func TestNoShipsLostReturnsShipsHome(t *testing.T) {
	g, _ := newTestGame(t, 2)
	p1, p2 := g.Players[0], g.Players[1]
	givePower(t, g, p1, "Zombie")

	stageEncounter(t, g, p1, p2).
		at(planetOwnedBy(g, p2), 4).
		offenseShips(3).
		cards(NewAttackCard(1), NewAttackCard(30)).
		resolve()

	assert.Zero(t, g.Warp[p1.Name])
	assertShipsConserved(t, g)
}

func TestSideTotals(t *testing.T) {
	tests := []struct {
		power string
		card  Card
		want  int
	}{
		{"", NewAttackCard(8), 11},
		{"Tripler", NewAttackCard(8), 27},
		{"Tripler", NewAttackCard(20), 10},
		{"Virus", NewAttackCard(5), 15},
		{"Macron", NewAttackCard(1), 13},
		{"Human", NewAttackCard(5), 12},
		{"Fury", NewAttackCard(5), 11},
		{"Grudge", NewAttackCard(5), 8},
	}
	for _, tt := range tests {
		t.Run(tt.power+"/"+tt.card.String(), func(t *testing.T) {
			g, _ := newTestGame(t, 2)
			p1, p2 := g.Players[0], g.Players[1]
			if tt.power != "" {
				givePower(t, g, p1, tt.power)
			}
			stageEncounter(t, g, p1, p2).
				at(planetOwnedBy(g, p2), 4).
				offenseShips(3).
				cards(tt.card, NewAttackCard(4))
			assert.Equal(t, tt.want, g.sideTotal(SideOffense))
		})
	}
}

func TestWarriorTokens(t *testing.T) {
	g, _ := newTestGame(t, 2)
	p1, p2 := g.Players[0], g.Players[1]
	givePower(t, g, p1, "Warrior")
	p1.WarriorTokens = 3

	e := stageEncounter(t, g, p1, p2).
		at(planetOwnedBy(g, p2), 4).
		offenseShips(3).
		cards(NewAttackCard(10), NewAttackCard(4)).
		resolve()

	assert.Equal(t, 16, e.OffenseTotal)
	assert.Equal(t, 4, p1.WarriorTokens, "a win earns one token")
}

func TestInactivePowerIsIgnored(t *testing.T) {
	g, _ := newTestGame(t, 2)
	p1, p2 := g.Players[0], g.Players[1]
	givePower(t, g, p1, "Human")
	for _, pl := range g.PlanetsOf(p1)[:3] {
		g.Warp[p1.Name] += pl.ClearShips(p1.Name)
	}
	g.refreshColonies()
	require.False(t, p1.PowerActive)

	stageEncounter(t, g, p1, p2).
		at(planetOwnedBy(g, p2), 4).
		offenseShips(3).
		cards(NewAttackCard(5), NewAttackCard(4))
	assert.Equal(t, 8, g.sideTotal(SideOffense))
}

func TestRevealPowers(t *testing.T) {
	t.Run("sorcerer swaps a losing card", func(t *testing.T) {
		g, _ := newTestGame(t, 2)
		p1, p2 := g.Players[0], g.Players[1]
		givePower(t, g, p1, "Sorcerer")
		stageEncounter(t, g, p1, p2).cards(NewAttackCard(3), NewAttackCard(20))
		g.revealPhase()
		assert.Equal(t, 20, g.Enc.OffenseReveal.Value())
		assert.Equal(t, 3, g.Enc.DefenseReveal.Value())
		assert.Equal(t, 3, g.Enc.OffenseCard.Value(), "played cards are untouched")
	})

	t.Run("sorcerer keeps a winning card", func(t *testing.T) {
		g, _ := newTestGame(t, 2)
		p1, p2 := g.Players[0], g.Players[1]
		givePower(t, g, p2, "Sorcerer")
		stageEncounter(t, g, p1, p2).cards(NewAttackCard(3), NewAttackCard(20))
		g.revealPhase()
		assert.Equal(t, 20, g.Enc.DefenseReveal.Value())
	})

	t.Run("mirror reverses digits when it helps", func(t *testing.T) {
		g, _ := newTestGame(t, 2)
		p1, p2 := g.Players[0], g.Players[1]
		givePower(t, g, p1, "Mirror")
		stageEncounter(t, g, p1, p2).cards(NewAttackCard(13), NewAttackCard(40))
		g.revealPhase()
		assert.Equal(t, 31, g.Enc.OffenseReveal.Value())
		assert.Equal(t, 4, g.Enc.DefenseReveal.Value())
	})

	t.Run("mirror leaves a better margin alone", func(t *testing.T) {
		g, _ := newTestGame(t, 2)
		p1, p2 := g.Players[0], g.Players[1]
		givePower(t, g, p1, "Mirror")
		stageEncounter(t, g, p1, p2).cards(NewAttackCard(40), NewAttackCard(13))
		g.revealPhase()
		assert.Equal(t, 40, g.Enc.OffenseReveal.Value())
	})
}
