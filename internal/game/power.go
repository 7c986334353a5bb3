package game

// BonusCondition gates a power's flat combat bonus.
type BonusCondition string

const (
	BonusAlways    BonusCondition = "always"
	BonusOffense   BonusCondition = "offense"
	BonusDefense   BonusCondition = "defense"
	BonusMain      BonusCondition = "main"
	BonusAlly      BonusCondition = "ally"
	BonusBehind    BonusCondition = "behind"
	BonusSmallHand BonusCondition = "small-hand"
)

// SmallHandLimit is the hand size at or below which small-hand bonuses apply.
const SmallHandLimit = 4

// Power is one alien power: a handful of rule flags plus optional hooks the
// encounter engine calls. A nil hook is a no-op. The engine never consults a
// power whose owner has PowerActive == false.
type Power struct {
	Name        string
	Expansion   string
	Description string

	// Flat combat bonus, applied through ModifyTotal when Condition holds.
	Bonus     int
	Condition BonusCondition

	// Rule flags checked directly by the engine.
	CommitsFour           bool // launches 4 ships instead of the base count
	Tripler               bool // card ≤10 tripled, >10 divided by 3 rounding up
	MultipliesByShips     bool // card value multiplied by ships on the side
	WarpBonus             bool // adds every ship in the warp to its side total
	WarriorBonus          bool // adds its warrior tokens to its side total
	DeclaresUpset         bool // lower total wins encounters it is main in
	WinsTies              bool // ties go to its side
	WinsByNegotiating     bool // a lone negotiate wins instead of losing
	CompensationTakesBest bool // takes the best cards as compensation
	NoShipsLost           bool // ships headed for the warp return home
	ExtraEncounter        bool // always gets a second encounter on offense
	ActiveExempt          bool // keeps its power with fewer than 3 home colonies
	ReversesDigits        bool // may reverse attack card digits at reveal
	SwapsCards            bool // may swap the revealed encounter cards

	// Card-selection overrides.
	OffenseSelect SelectPolicy
	DefenseSelect SelectPolicy

	// ModifyTotal adjusts a side's combat total during resolution.
	ModifyTotal func(g *Game, p *Player, total int, side Side) int

	// ModifyShipCount adjusts the number of ships p contributes to combat.
	ModifyShipCount func(g *Game, p *Player, ships int, side Side) int

	// OnTurnStart runs once per player when a new turn begins.
	OnTurnStart func(g *Game, p *Player)

	// OnRegroup runs once per player during end-of-encounter housekeeping.
	OnRegroup func(g *Game, p *Player, role Role)

	// OnEncounterEnd runs once per player after resolution. won is true for
	// players on the winning side.
	OnEncounterEnd func(g *Game, p *Player, role Role, won bool)

	// RedirectDestiny lets the offense replace the destiny candidate. A nil
	// return keeps the drawn candidate.
	RedirectDestiny func(g *Game, p *Player, candidate *Player) *Player

	// BeforePlanning runs for main players before cards are selected.
	BeforePlanning func(g *Game, p *Player, role Role)

	// WinCondition reports an alternate victory and its reason.
	WinCondition func(g *Game, p *Player) (bool, string)
}

// bonusApplies evaluates a bonus condition for p fighting on side.
func bonusApplies(cond BonusCondition, g *Game, p *Player, side Side) bool {
	switch cond {
	case "", BonusAlways:
		return true
	case BonusOffense:
		return side == SideOffense
	case BonusDefense:
		return side == SideDefense
	case BonusMain:
		return g.RoleOf(p).IsMain()
	case BonusAlly:
		r := g.RoleOf(p)
		return r == RoleOffensiveAlly || r == RoleDefensiveAlly
	case BonusBehind:
		mine := len(p.ForeignColonies)
		for _, other := range g.Players {
			if other != p && len(other.ForeignColonies) > mine {
				return true
			}
		}
		return false
	case BonusSmallHand:
		return len(p.Hand) <= SmallHandLimit
	}
	return false
}

func validCondition(cond BonusCondition) bool {
	switch cond {
	case "", BonusAlways, BonusOffense, BonusDefense, BonusMain, BonusAlly, BonusBehind, BonusSmallHand:
		return true
	}
	return false
}

// withBonus chains a flat conditional bonus onto pw.ModifyTotal.
func withBonus(pw *Power) {
	if pw.Bonus == 0 {
		return
	}
	prev := pw.ModifyTotal
	bonus, cond := pw.Bonus, pw.Condition
	pw.ModifyTotal = func(g *Game, p *Player, total int, side Side) int {
		if prev != nil {
			total = prev(g, p, total, side)
		}
		if bonusApplies(cond, g, p, side) {
			total += bonus
		}
		return total
	}
}
