package game

import "sort"

// Player is one seat at the table.
type Player struct {
	Name        string
	Color       string
	Power       *Power
	PowerActive bool
	Strategy    Strategy
	Hand        []Card

	// Colony caches, refreshed by Game.refreshColonies.
	HomeColonies    []*Planet
	ForeignColonies []*Planet

	WarriorTokens  int
	TickTockTokens int

	// Encounters counts encounters fought as a main player; EncounterWins
	// those the player's side won.
	Encounters    int
	EncounterWins int
}

// PowerName returns the player's power name, or "" when powerless.
func (p *Player) PowerName() string {
	if p.Power == nil {
		return ""
	}
	return p.Power.Name
}

// power returns the player's power when it is usable, nil otherwise. Every
// hook lookup goes through this gate.
func (p *Player) power() *Power {
	if p.Power == nil || !p.PowerActive {
		return nil
	}
	return p.Power
}

// HasEncounterCard reports whether the hand holds an attack or negotiate.
func (p *Player) HasEncounterCard() bool {
	for _, c := range p.Hand {
		if c.IsEncounter() {
			return true
		}
	}
	return false
}

// EncounterCards returns the attack and negotiate cards in hand order.
func (p *Player) EncounterCards() []Card {
	var result []Card
	for _, c := range p.Hand {
		if c.IsEncounter() {
			result = append(result, c)
		}
	}
	return result
}

// RemoveFromHand removes the first card equal to c. Returns false when the
// hand does not hold it.
func (p *Player) RemoveFromHand(c Card) bool {
	for i, h := range p.Hand {
		if h == c {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// --- Card-selection policies ---

// SelectMax returns the highest-value encounter card, first found on ties.
func (p *Player) SelectMax() (Card, bool) {
	var best Card
	found := false
	for _, c := range p.Hand {
		if !c.IsEncounter() {
			continue
		}
		if !found || c.Value() > best.Value() {
			best = c
			found = true
		}
	}
	return best, found
}

// SelectMin returns the lowest-value attack card. The first encounter card
// in hand seeds the candidate whatever its type; after that only attack
// cards with a strictly lower value replace it.
func (p *Player) SelectMin() (Card, bool) {
	var best Card
	found := false
	for _, c := range p.Hand {
		if !c.IsEncounter() {
			continue
		}
		if !found {
			best = c
			found = true
			continue
		}
		if c.Type() == CardAttack && c.Value() < best.Value() {
			best = c
		}
	}
	return best, found
}

// SelectNHighest returns the n-th highest encounter card (n=1 is the
// highest). When n exceeds the number of encounter cards the lowest one is
// returned instead.
func (p *Player) SelectNHighest(n int) (Card, bool) {
	cards := p.EncounterCards()
	if len(cards) == 0 {
		return Card{}, false
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Value() > cards[j].Value()
	})
	if n < 1 {
		n = 1
	}
	if n > len(cards) {
		return cards[len(cards)-1], true
	}
	return cards[n-1], true
}

// SelectNegotiate returns the first negotiate in hand.
func (p *Player) SelectNegotiate() (Card, bool) {
	for _, c := range p.Hand {
		if c.Type() == CardNegotiate {
			return c, true
		}
	}
	return Card{}, false
}

// TripleSelect prefers the highest encounter card worth 10 or less, since
// those get tripled. Larger cards are only chosen when nothing else is left.
func (p *Player) TripleSelect() (Card, bool) {
	var best Card
	found := false
	for _, c := range p.Hand {
		if !c.IsEncounter() || c.Value() > 10 {
			continue
		}
		if !found || c.Value() > best.Value() {
			best = c
			found = true
		}
	}
	if found {
		return best, true
	}
	return p.SelectMax()
}

// SelectPolicy picks an encounter card from a player's hand.
type SelectPolicy func(p *Player) (Card, bool)

// Named policies usable from power definitions and strategy tags.
var (
	SelectMaxPolicy       SelectPolicy = (*Player).SelectMax
	SelectMinPolicy       SelectPolicy = (*Player).SelectMin
	SelectTriplePolicy    SelectPolicy = (*Player).TripleSelect
	SelectThirdPolicy     SelectPolicy = func(p *Player) (Card, bool) { return p.SelectNHighest(3) }
	SelectNegotiatePolicy SelectPolicy = func(p *Player) (Card, bool) {
		if c, ok := p.SelectNegotiate(); ok {
			return c, true
		}
		return p.SelectMax()
	}
)

// selectCard chooses the card p plays for side, honoring power overrides
// before strategy defaults.
func (p *Player) selectCard(side Side) (Card, bool) {
	if pw := p.power(); pw != nil {
		if side == SideOffense && pw.OffenseSelect != nil {
			return pw.OffenseSelect(p)
		}
		if side == SideDefense && pw.DefenseSelect != nil {
			return pw.DefenseSelect(p)
		}
	}
	return strategyPolicy(p.Strategy, side)(p)
}

func strategyPolicy(s Strategy, side Side) SelectPolicy {
	switch s {
	case StrategyAggressive:
		return SelectMaxPolicy
	case StrategyCautious:
		if side == SideOffense {
			return SelectThirdPolicy
		}
		return SelectMinPolicy
	case StrategyNegotiator:
		return SelectNegotiatePolicy
	default:
		if side == SideOffense {
			return SelectMaxPolicy
		}
		return SelectThirdPolicy
	}
}
