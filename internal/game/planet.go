package game

import "fmt"

// Planet is a colony slot owned by one player.
type Planet struct {
	ID    int
	Owner *Player
	Ships map[string]int // occupying player name → ship count
}

func newPlanet(id int, owner *Player) *Planet {
	return &Planet{
		ID:    id,
		Owner: owner,
		Ships: map[string]int{owner.Name: ShipsPerPlanet},
	}
}

// ShipsOf returns how many ships the named player has here.
func (pl *Planet) ShipsOf(name string) int {
	return pl.Ships[name]
}

// IsForeignColonyOf reports whether the named player holds a colony here on
// someone else's planet.
func (pl *Planet) IsForeignColonyOf(name string) bool {
	return pl.Owner.Name != name && pl.Ships[name] > 0
}

// IsHomeColonyOf reports whether the owner still has ships here.
func (pl *Planet) IsHomeColonyOf(name string) bool {
	return pl.Owner.Name == name && pl.Ships[name] > 0
}

// AddShips lands n ships belonging to name.
func (pl *Planet) AddShips(name string, n int) {
	if n <= 0 {
		return
	}
	pl.Ships[name] += n
}

// RemoveShips takes n ships belonging to name off the planet.
func (pl *Planet) RemoveShips(name string, n int) error {
	have := pl.Ships[name]
	if n > have {
		return invariant(fmt.Sprintf("remove %d of %s's ships from planet %d holding %d", n, name, pl.ID, have), nil)
	}
	if have == n {
		delete(pl.Ships, name)
		return nil
	}
	pl.Ships[name] = have - n
	return nil
}

// ClearShips removes every ship of name and returns how many there were.
func (pl *Planet) ClearShips(name string) int {
	n := pl.Ships[name]
	delete(pl.Ships, name)
	return n
}

func (pl *Planet) String() string {
	return fmt.Sprintf("%s planet %d", pl.Owner.Name, pl.ID)
}
