package game

import (
	"fmt"

	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/log"
)

const (
	// maxDestinyDraws bounds the destiny redraw loop.
	maxDestinyDraws = 100
	// maxFreshHands bounds how many new hands a main player may draw while
	// looking for an encounter card.
	maxFreshHands = 5
)

// Encounter is the per-encounter state: who fights where, with how many
// ships, which cards were played and who won.
type Encounter struct {
	Offense *Player
	Defense *Player
	Planet  *Planet

	// OffenseShips are in flight; DefenseShips are the defense's ships
	// already sitting on Planet.
	OffenseShips int
	DefenseShips int

	OffenseAllies []*Player
	DefenseAllies []*Player
	AllyShips     map[string]int // in flight, keyed by ally name

	// Played cards, discarded during housekeeping.
	OffenseCard Card
	DefenseCard Card
	// Revealed cards after reveal-phase powers (swaps, mirrored digits).
	OffenseReveal Card
	DefenseReveal Card

	OffenseTotal int
	DefenseTotal int
	Upset        bool
	Deal         bool

	WinningSide Side
	Winner      *Player
	Loser       *Player

	settled bool // committed ships have landed, returned or warped
}

func newEncounter(offense *Player) *Encounter {
	return &Encounter{Offense: offense, AllyShips: make(map[string]int)}
}

// RoleOf returns p's role in this encounter.
func (e *Encounter) RoleOf(p *Player) Role {
	switch {
	case p == e.Offense:
		return RoleOffense
	case p == e.Defense:
		return RoleDefense
	}
	for _, a := range e.OffenseAllies {
		if a == p {
			return RoleOffensiveAlly
		}
	}
	for _, a := range e.DefenseAllies {
		if a == p {
			return RoleDefensiveAlly
		}
	}
	return RoleBystander
}

// Opponent returns the opposing main player of a main player, nil otherwise.
func (e *Encounter) Opponent(p *Player) *Player {
	switch p {
	case e.Offense:
		return e.Defense
	case e.Defense:
		return e.Offense
	}
	return nil
}

// Main returns the main player of side.
func (e *Encounter) Main(side Side) *Player {
	if side == SideOffense {
		return e.Offense
	}
	return e.Defense
}

// Allies returns the allies fighting on side.
func (e *Encounter) Allies(side Side) []*Player {
	if side == SideOffense {
		return e.OffenseAllies
	}
	return e.DefenseAllies
}

// Participants returns the main player followed by the allies of side.
func (e *Encounter) Participants(side Side) []*Player {
	return append([]*Player{e.Main(side)}, e.Allies(side)...)
}

// ShipsOf returns the ships p has committed to this encounter.
func (e *Encounter) ShipsOf(p *Player) int {
	switch p {
	case e.Offense:
		return e.OffenseShips
	case e.Defense:
		return e.DefenseShips
	}
	return e.AllyShips[p.Name]
}

// SideShips returns every ship committed to side.
func (e *Encounter) SideShips(side Side) int {
	total := 0
	for _, p := range e.Participants(side) {
		total += e.ShipsOf(p)
	}
	return total
}

// InFlight returns the ships p has launched and not yet landed, warped or
// returned. Defense ships stay on their planet and are never in flight.
func (e *Encounter) InFlight(p *Player) int {
	if e.settled {
		return 0
	}
	if p == e.Offense {
		return e.OffenseShips
	}
	return e.AllyShips[p.Name]
}

// --- Phase 1: Start Turn ---

func (g *Game) startTurn() {
	offense := g.Order[0]
	g.Offense = offense
	g.Enc = newEncounter(offense)
	g.setPhase(PhaseStartTurn)

	if g.Encounter == 1 {
		g.log(log.NewTurnEvent(g.EncounterCount, offense.Name, playerNames(g.Order)))

		// Regroup: the offense brings one ship back from the warp.
		g.retrieveFromWarp(offense, 1)

		for _, p := range g.Players {
			if pw := p.power(); pw != nil && pw.OnTurnStart != nil {
				pw.OnTurnStart(g, p)
			}
		}
	}
	g.standings = g.Standings()
}

// --- Phase 2: Destiny ---

func (g *Game) destinyPhase() error {
	g.setPhase(PhaseDestiny)
	offense := g.Offense

	for draws := 0; draws < maxDestinyDraws; draws++ {
		card, err := g.DestinyDeck.Draw()
		if err != nil {
			return invariant("draw destiny", err)
		}
		g.DestinyDiscard.Discard(card)

		candidate := g.destinyCandidate(card)
		if pw := offense.power(); pw != nil && pw.RedirectDestiny != nil {
			if redirected := pw.RedirectDestiny(g, offense, candidate); redirected != nil {
				candidate = redirected
			}
		}

		defense := "none"
		if candidate != nil {
			defense = candidate.Name
		}
		g.log(log.NewDestinyEvent(g.EncounterCount, offense.Name, card.String(), defense))

		if candidate == nil || candidate == offense || !g.hasOpenPlanet(offense, candidate) {
			continue
		}
		g.Enc.Defense = candidate
		g.refreshColonies()
		return nil
	}
	return invariant(fmt.Sprintf("no valid defense for %s after %d destiny draws", offense.Name, maxDestinyDraws), nil)
}

// destinyCandidate resolves a destiny card to a player. Wild cards pick
// uniformly among valid targets.
func (g *Game) destinyCandidate(card Card) *Player {
	if name, ok := card.Target(); ok {
		return g.byName[name]
	}
	var valid []*Player
	for _, p := range g.Players {
		if p != g.Offense && g.hasOpenPlanet(g.Offense, p) {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	return valid[g.rng.Intn(len(valid))]
}

// hasOpenPlanet reports whether candidate owns a planet with no ships of
// offense on it.
func (g *Game) hasOpenPlanet(offense, candidate *Player) bool {
	return len(g.openPlanets(offense, candidate)) > 0
}

func (g *Game) openPlanets(offense, candidate *Player) []*Planet {
	var result []*Planet
	for _, pl := range g.Planets {
		if pl.Owner == candidate && pl.ShipsOf(offense.Name) == 0 {
			result = append(result, pl)
		}
	}
	return result
}

// --- Phase 3: Launch ---

func (g *Game) launchPhase() error {
	g.setPhase(PhaseLaunch)
	e := g.Enc

	open := g.openPlanets(e.Offense, e.Defense)
	if len(open) == 0 {
		return invariant(fmt.Sprintf("%s has no planet free of %s's ships", e.Defense.Name, e.Offense.Name), nil)
	}
	e.Planet = open[g.rng.Intn(len(open))]
	e.DefenseShips = e.Planet.ShipsOf(e.Defense.Name)
	g.log(log.NewDefensePlanetEvent(g.EncounterCount, e.Offense.Name, e.Planet.ID, e.Defense.Name, e.DefenseShips))

	want := BaseOffenseShips
	if pw := e.Offense.power(); pw != nil && pw.CommitsFour {
		want = BoostedShips
	}
	n, err := g.launchShips(e.Offense, want)
	if err != nil {
		return err
	}
	e.OffenseShips = n
	g.log(log.NewLaunchEvent(g.EncounterCount, g.Phase.String(), e.Offense.Name, n, RoleOffense.String()))
	return nil
}

// --- Phase 4: Alliance ---

func (g *Game) alliancePhase() {
	g.setPhase(PhaseAlliance)
	e := g.Enc
	offenseColonies := g.standings[e.Offense.Name]
	nearWin := offenseColonies == ColoniesToWin-1

	var offenseInvites, defenseInvites []*Player
	var last *Player
	for _, p := range g.Order {
		if p == e.Offense || p == e.Defense {
			continue
		}
		last = p
		if g.standings[p.Name] <= offenseColonies && (!nearWin || g.rng.Intn(3) == 0) {
			offenseInvites = append(offenseInvites, p)
		}
		if g.rng.Intn(2) == 0 {
			defenseInvites = append(defenseInvites, p)
		}
	}
	if len(offenseInvites) > 0 {
		g.log(log.NewInviteEvent(g.EncounterCount, e.Offense.Name, playerNames(offenseInvites)))
	}
	if len(defenseInvites) > 0 {
		g.log(log.NewInviteEvent(g.EncounterCount, e.Defense.Name, playerNames(defenseInvites)))
	}

	invitedByDefense := make(map[*Player]bool, len(defenseInvites))
	for _, p := range defenseInvites {
		invitedByDefense[p] = true
	}
	invitedByOffense := make(map[*Player]bool, len(offenseInvites))
	for _, p := range offenseInvites {
		invitedByOffense[p] = true
	}

	for _, p := range g.Order {
		var side Side
		switch {
		case invitedByOffense[p] && invitedByDefense[p]:
			side = SideOffense
			if nearWin && g.standings[p.Name] != ColoniesToWin-1 {
				side = SideDefense
			}
		case invitedByOffense[p]:
			side = SideOffense
		case invitedByDefense[p]:
			side = SideDefense
		default:
			continue
		}

		want := g.allyCommitment(p, last)
		n, err := g.launchShips(p, want)
		if err != nil || n == 0 {
			continue
		}
		e.AllyShips[p.Name] = n
		if side == SideOffense {
			e.OffenseAllies = append(e.OffenseAllies, p)
		} else {
			e.DefenseAllies = append(e.DefenseAllies, p)
		}
		g.log(log.NewAllyJoinEvent(g.EncounterCount, p.Name, side.String()))
		g.log(log.NewLaunchEvent(g.EncounterCount, g.Phase.String(), p.Name, n, e.RoleOf(p).String()))
	}
}

// allyCommitment returns how many ships ally launches. By default the
// four-ship boost is keyed off last, the final player examined while sending
// invitations, and applies to every ally alike.
func (g *Game) allyCommitment(ally, last *Player) int {
	keyed := last
	if g.perAllyCommitment {
		keyed = ally
	}
	if keyed != nil {
		if pw := keyed.power(); pw != nil && pw.CommitsFour {
			return BoostedShips
		}
	}
	return BaseAllyShips
}

// --- Phase 5: Planning ---

func (g *Game) planningPhase() error {
	g.setPhase(PhasePlanning)
	e := g.Enc

	for _, p := range []*Player{e.Offense, e.Defense} {
		if pw := p.power(); pw != nil && pw.BeforePlanning != nil {
			pw.BeforePlanning(g, p, e.RoleOf(p))
		}
	}

	for _, side := range []Side{SideOffense, SideDefense} {
		p := e.Main(side)
		if err := g.ensureEncounterCard(p); err != nil {
			return err
		}
		card, ok := p.selectCard(side)
		if !ok || !card.IsEncounter() {
			return invariant(fmt.Sprintf("%s selected no encounter card", p.Name), nil)
		}
		p.RemoveFromHand(card)
		if side == SideOffense {
			e.OffenseCard = card
		} else {
			e.DefenseCard = card
		}
		g.log(log.NewSelectCardEvent(g.EncounterCount, p.Name, card.String()))

		if pw := p.power(); pw != nil && pw.DeclaresUpset {
			e.Upset = true
			g.powerLog(p, "declares an upset")
		}
	}
	return nil
}

// ensureEncounterCard draws fresh hands until p holds an attack or negotiate.
func (g *Game) ensureEncounterCard(p *Player) error {
	for attempt := 0; !p.HasEncounterCard(); attempt++ {
		if attempt == maxFreshHands {
			return invariant(fmt.Sprintf("%s found no encounter card in %d fresh hands", p.Name, maxFreshHands), nil)
		}
		g.discardHand(p)
		if err := g.drawCards(p, HandSize, g.Deck); err != nil {
			return invariant("draw fresh hand for "+p.Name, err)
		}
		g.log(log.NewHandEvent(g.EncounterCount, p.Name, len(p.Hand)))
	}
	return nil
}

// --- Phase 6: Reveal ---

func (g *Game) revealPhase() {
	g.setPhase(PhaseReveal)
	e := g.Enc
	e.OffenseReveal, e.DefenseReveal = e.OffenseCard, e.DefenseCard

	for _, side := range []Side{SideOffense, SideDefense} {
		p := e.Main(side)
		pw := p.power()
		if pw == nil {
			continue
		}
		mine, theirs := &e.OffenseReveal, &e.DefenseReveal
		if side == SideDefense {
			mine, theirs = theirs, mine
		}
		if mine.Type() != CardAttack || theirs.Type() != CardAttack {
			continue
		}
		if pw.SwapsCards && g.improves(theirs.Value()-mine.Value(), mine.Value()-theirs.Value()) {
			*mine, *theirs = *theirs, *mine
			g.powerLog(p, "swaps the encounter cards")
		}
		if pw.ReversesDigits {
			m, t := mine.Mirrored(), theirs.Mirrored()
			if g.improves(m.Value()-t.Value(), mine.Value()-theirs.Value()) {
				*mine, *theirs = m, t
				g.powerLog(p, fmt.Sprintf("reverses the digits: %s vs %s", m, t))
			}
		}
	}

	g.log(log.NewRevealEvent(g.EncounterCount, e.Offense.Name, e.OffenseReveal.String(), e.Defense.Name, e.DefenseReveal.String()))
}

// improves reports whether a change in card margin helps the player making
// it. Under an upset the lower total wins.
func (g *Game) improves(newMargin, oldMargin int) bool {
	if g.Enc.Upset {
		return newMargin < oldMargin
	}
	return newMargin > oldMargin
}

func playerNames(players []*Player) []string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return names
}
