package game

import (
	"fmt"

	"github.com/MartinHalvorson/cosmic-encounter-simulator-2025-sub004/internal/log"
)

// launchShips takes up to n of p's ships off the board, one at a time. Each
// ship comes from a uniformly chosen home planet holding at least two of p's
// ships, so no colony is abandoned; foreign colonies are used only when no
// home planet can spare a ship. Returns how many ships were taken, which may
// be fewer than n.
func (g *Game) launchShips(p *Player, n int) (int, error) {
	taken := 0
	for i := 0; i < n; i++ {
		sources := g.launchSources(p)
		if len(sources) == 0 {
			break
		}
		src := sources[g.rng.Intn(len(sources))]
		if err := src.RemoveShips(p.Name, 1); err != nil {
			return taken, err
		}
		taken++
	}
	return taken, nil
}

func (g *Game) launchSources(p *Player) []*Planet {
	var home, foreign []*Planet
	for _, pl := range g.Planets {
		if pl.ShipsOf(p.Name) < 2 {
			continue
		}
		if pl.Owner == p {
			home = append(home, pl)
		} else {
			foreign = append(foreign, pl)
		}
	}
	if len(home) > 0 {
		return home
	}
	return foreign
}

// returnShips lands n of p's ships on its own planets, spread uniformly over
// the home colonies it still holds. A player with no home colony rebuilds
// one on a random planet of its own.
func (g *Game) returnShips(p *Player, n int) {
	if n <= 0 {
		return
	}
	owned := g.PlanetsOf(p)
	if len(owned) == 0 {
		return
	}
	var colonies []*Planet
	for _, pl := range owned {
		if pl.ShipsOf(p.Name) > 0 {
			colonies = append(colonies, pl)
		}
	}
	if len(colonies) == 0 {
		colonies = []*Planet{owned[g.rng.Intn(len(owned))]}
	}
	for i := 0; i < n; i++ {
		colonies[g.rng.Intn(len(colonies))].AddShips(p.Name, 1)
	}
}

// sendToWarp moves n of p's ships into the warp, unless p's power keeps its
// ships out of the warp, in which case they go home.
func (g *Game) sendToWarp(p *Player, n int) {
	if n <= 0 {
		return
	}
	if pw := p.power(); pw != nil && pw.NoShipsLost {
		g.returnShips(p, n)
		g.powerLog(p, fmt.Sprintf("returns %d ship(s) home instead of the warp", n))
		return
	}
	g.Warp[p.Name] += n
	g.log(log.NewWarpEvent(g.EncounterCount, g.Phase.String(), p.Name, n))
}

// retrieveFromWarp brings up to n of p's ships back home. Returns how many
// came back.
func (g *Game) retrieveFromWarp(p *Player, n int) int {
	if have := g.Warp[p.Name]; n > have {
		n = have
	}
	if n <= 0 {
		return 0
	}
	g.Warp[p.Name] -= n
	g.returnShips(p, n)
	g.log(log.NewRetrieveEvent(g.EncounterCount, g.Phase.String(), p.Name, n))
	return n
}

// landShips puts n of p's in-flight ships on pl.
func (g *Game) landShips(p *Player, n int, pl *Planet) {
	if n <= 0 {
		return
	}
	pl.AddShips(p.Name, n)
	g.log(log.NewLandShipsEvent(g.EncounterCount, p.Name, n, pl.ID, pl.Owner.Name))
}

// ShipTotal counts every ship p owns: on planets, in the warp and in flight.
func (g *Game) ShipTotal(p *Player) int {
	total := g.Warp[p.Name]
	for _, pl := range g.Planets {
		total += pl.ShipsOf(p.Name)
	}
	if g.Enc != nil {
		total += g.Enc.InFlight(p)
	}
	return total
}
