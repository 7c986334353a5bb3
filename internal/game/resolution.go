package game

import (
	"fmt"

	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/log"
)

// --- Phase 7: Resolution ---

func (g *Game) resolutionPhase() error {
	g.setPhase(PhaseResolution)
	e := g.Enc
	offNeg := e.OffenseReveal.Type() == CardNegotiate
	defNeg := e.DefenseReveal.Type() == CardNegotiate

	switch {
	case offNeg && defNeg:
		if err := g.resolveDeal(); err != nil {
			return err
		}
	case offNeg || defNeg:
		negotiator := SideOffense
		if defNeg {
			negotiator = SideDefense
		}
		g.resolveNegotiate(negotiator)
	default:
		g.resolveCombat()
	}

	if e.WinningSide == SideNone || e.Winner == nil {
		return invariant(fmt.Sprintf("encounter %s vs %s resolved with no winner", e.Offense.Name, e.Defense.Name), nil)
	}
	if !e.Deal {
		if err := g.applyOutcome(); err != nil {
			return err
		}
	}
	e.settled = true

	g.encounterEnd()
	return nil
}

// resolveDeal swaps colonies: the offense lands on the defense planet and
// the defense's committed ships settle on an offense planet they do not
// occupy yet. A defense with no ships on the planet gains nothing. Allies go
// home and nobody is warped.
func (g *Game) resolveDeal() error {
	e := g.Enc
	off, def := e.Offense, e.Defense
	e.Deal = true
	g.decide(SideOffense, "deal")
	g.log(log.NewDealEvent(g.EncounterCount, off.Name, def.Name))

	g.landShips(off, e.OffenseShips, e.Planet)

	if moving := e.DefenseShips; moving > 0 {
		if err := e.Planet.RemoveShips(def.Name, moving); err != nil {
			return err
		}
		var targets []*Planet
		for _, pl := range g.PlanetsOf(off) {
			if pl.ShipsOf(def.Name) == 0 {
				targets = append(targets, pl)
			}
		}
		if len(targets) == 0 {
			return invariant(fmt.Sprintf("deal: %s has no planet free of %s's ships", off.Name, def.Name), nil)
		}
		g.landShips(def, moving, targets[g.rng.Intn(len(targets))])
	}

	for _, a := range append(e.OffenseAllies, e.DefenseAllies...) {
		g.returnShips(a, e.AllyShips[a.Name])
	}
	return nil
}

// resolveNegotiate handles a lone negotiate. The negotiator loses unless its
// power wins by negotiating; a losing negotiator takes compensation from the
// winner's hand, one card per ship on the winning side.
func (g *Game) resolveNegotiate(negotiatorSide Side) {
	e := g.Enc
	negotiator := e.Main(negotiatorSide)

	if pw := negotiator.power(); pw != nil && pw.WinsByNegotiating {
		g.powerLog(negotiator, "wins by negotiating")
		g.decide(negotiatorSide, "negotiate")
		return
	}

	winSide := negotiatorSide.Opposite()
	g.decide(winSide, "opponent negotiated")
	g.compensate(negotiator, e.Main(winSide), e.SideShips(winSide))
}

// compensate moves up to n cards from from's hand to taker's hand.
func (g *Game) compensate(taker, from *Player, n int) {
	if n > len(from.Hand) {
		n = len(from.Hand)
	}
	best := false
	if pw := taker.power(); pw != nil && pw.CompensationTakesBest {
		best = true
	}
	for i := 0; i < n; i++ {
		idx := g.rng.Intn(len(from.Hand))
		if best {
			idx = highestCard(from.Hand)
		}
		c := from.Hand[idx]
		from.Hand = append(from.Hand[:idx], from.Hand[idx+1:]...)
		taker.Hand = append(taker.Hand, c)
	}
	if n > 0 {
		g.log(log.NewCompensationEvent(g.EncounterCount, taker.Name, from.Name, n))
	}
}

func highestCard(hand []Card) int {
	idx := 0
	for i, c := range hand {
		if c.Value() > hand[idx].Value() {
			idx = i
		}
	}
	return idx
}

// resolveCombat compares attack totals.
func (g *Game) resolveCombat() {
	e := g.Enc
	e.OffenseTotal = g.sideTotal(SideOffense)
	e.DefenseTotal = g.sideTotal(SideDefense)
	g.log(log.NewTotalsEvent(g.EncounterCount, e.OffenseTotal, e.DefenseTotal, e.Upset))

	switch {
	case e.OffenseTotal == e.DefenseTotal:
		g.decide(g.tieWinner(), "tie")
	case e.Upset:
		if e.OffenseTotal < e.DefenseTotal {
			g.decide(SideOffense, "upset")
		} else {
			g.decide(SideDefense, "upset")
		}
	case e.OffenseTotal > e.DefenseTotal:
		g.decide(SideOffense, "higher total")
	default:
		g.decide(SideDefense, "higher total")
	}
}

// sideTotal computes a side's combat total: card value (tripled or divided),
// ship multiplier, committed ships, warp bonus, warrior tokens, then every
// participant's total modifier.
func (g *Game) sideTotal(side Side) int {
	e := g.Enc
	card := e.OffenseReveal
	if side == SideDefense {
		card = e.DefenseReveal
	}
	participants := e.Participants(side)

	ships := 0
	for _, p := range participants {
		n := e.ShipsOf(p)
		if pw := p.power(); pw != nil && pw.ModifyShipCount != nil {
			n = pw.ModifyShipCount(g, p, n, side)
		}
		ships += n
	}

	total := card.Value()
	if pw := e.Main(side).power(); pw != nil {
		if pw.Tripler {
			if total <= 10 {
				total *= 3
			} else {
				total = (total + 2) / 3
			}
		}
		if pw.MultipliesByShips {
			total = total*ships - ships
		}
	}
	total += ships

	for _, p := range participants {
		if pw := p.power(); pw != nil && pw.WarpBonus {
			total += g.TotalWarp()
		}
	}
	for _, p := range participants {
		if pw := p.power(); pw != nil && pw.WarriorBonus {
			total += p.WarriorTokens
		}
	}
	for _, p := range participants {
		if pw := p.power(); pw != nil && pw.ModifyTotal != nil {
			total = pw.ModifyTotal(g, p, total, side)
		}
	}
	return total
}

// tieWinner returns the side that takes a tie: a main player whose power
// wins ties (offense checked first), else the defense.
func (g *Game) tieWinner() Side {
	if pw := g.Enc.Offense.power(); pw != nil && pw.WinsTies {
		return SideOffense
	}
	return SideDefense
}

func (g *Game) decide(side Side, reason string) {
	e := g.Enc
	e.WinningSide = side
	e.Winner = e.Main(side)
	e.Loser = e.Main(side.Opposite())
	g.log(log.NewEncounterWinEvent(g.EncounterCount, e.Winner.Name, side.String(), reason))
}

// applyOutcome moves ships after a decided encounter.
func (g *Game) applyOutcome() error {
	e := g.Enc
	switch e.WinningSide {
	case SideOffense:
		g.sendToWarp(e.Defense, e.Planet.ClearShips(e.Defense.Name))
		g.landShips(e.Offense, e.OffenseShips, e.Planet)
		for _, a := range e.OffenseAllies {
			g.landShips(a, e.AllyShips[a.Name], e.Planet)
		}
		for _, a := range e.DefenseAllies {
			g.sendToWarp(a, e.AllyShips[a.Name])
		}
	case SideDefense:
		g.sendToWarp(e.Offense, e.OffenseShips)
		for _, a := range e.OffenseAllies {
			g.sendToWarp(a, e.AllyShips[a.Name])
		}
		for _, a := range e.DefenseAllies {
			n := e.AllyShips[a.Name]
			if err := g.drawRewards(a, n); err != nil {
				return err
			}
			g.returnShips(a, n)
		}
	}
	return nil
}

// drawRewards gives p n cards from the rewards deck, falling back to the
// cosmic deck once the rewards are exhausted.
func (g *Game) drawRewards(p *Player, n int) error {
	for i := 0; i < n; i++ {
		c, err := g.RewardsDeck.Draw()
		if err != nil {
			if c, err = g.Deck.Draw(); err != nil {
				return invariant("draw defensive reward for "+p.Name, err)
			}
		}
		p.Hand = append(p.Hand, c)
	}
	if n > 0 {
		g.log(log.NewRewardsEvent(g.EncounterCount, p.Name, n))
	}
	return nil
}

// encounterEnd updates per-player counters and runs end-of-encounter hooks.
func (g *Game) encounterEnd() {
	e := g.Enc
	e.Offense.Encounters++
	e.Defense.Encounters++
	if e.Deal {
		e.Offense.EncounterWins++
		e.Defense.EncounterWins++
	} else {
		e.Winner.EncounterWins++
	}

	for _, p := range g.Players {
		pw := p.power()
		if pw == nil || pw.OnEncounterEnd == nil {
			continue
		}
		role := e.RoleOf(p)
		won := role.Side() != SideNone && role.Side() == e.WinningSide
		if e.Deal {
			won = role.IsMain()
		}
		pw.OnEncounterEnd(g, p, role, won)
	}
}
