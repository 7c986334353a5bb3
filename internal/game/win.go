package game

import (
	"fmt"
	"strings"

	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/log"
)

// --- Phase 8: Housekeeping ---

func (g *Game) housekeeping() error {
	g.setPhase(PhaseHousekeeping)
	e := g.Enc

	g.discardCard(e.OffenseCard)
	g.discardCard(e.DefenseCard)

	for _, p := range g.Players {
		if pw := p.power(); pw != nil && pw.OnRegroup != nil {
			pw.OnRegroup(g, p, e.RoleOf(p))
		}
	}
	g.refreshColonies()

	if g.checkWin() {
		return nil
	}

	if g.Encounter == 1 && g.earnsSecondEncounter() {
		g.Encounter = 2
		g.log(log.NewSecondEncounterEvent(g.EncounterCount, e.Offense.Name))
		return nil
	}
	g.Order = append(g.Order[1:], g.Order[0])
	g.Encounter = 1
	return nil
}

// earnsSecondEncounter reports whether the offense plays again this turn.
func (g *Game) earnsSecondEncounter() bool {
	e := g.Enc
	if pw := e.Offense.power(); pw != nil && pw.ExtraEncounter {
		return true
	}
	return (e.Deal || e.WinningSide == SideOffense) && e.Offense.HasEncounterCard()
}

// checkWin records every player meeting a victory condition and ends the
// game when there is at least one.
func (g *Game) checkWin() bool {
	for _, p := range g.Players {
		won, reason := g.winReason(p)
		if !won {
			continue
		}
		g.Winners = append(g.Winners, p)
		g.log(log.NewWinEvent(g.EncounterCount, p.Name, reason))
	}
	if len(g.Winners) == 0 {
		return false
	}
	g.Over = true
	names := make([]string, len(g.Winners))
	for i, p := range g.Winners {
		names[i] = p.Name
	}
	g.Result = strings.Join(names, ", ") + " won"
	return true
}

func (g *Game) winReason(p *Player) (bool, string) {
	if n := len(p.ForeignColonies); n >= ColoniesToWin {
		return true, fmt.Sprintf("%d foreign colonies", n)
	}
	if pw := p.power(); pw != nil && pw.WinCondition != nil {
		return pw.WinCondition(g, p)
	}
	return false, ""
}
