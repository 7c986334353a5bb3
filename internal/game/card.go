package game

import "fmt"

type CardType int

const (
	CardAttack CardType = iota
	CardNegotiate
	CardReinforcement
	CardArtifact
	CardDestiny
	CardKicker
)

func (ct CardType) String() string {
	switch ct {
	case CardAttack:
		return "Attack"
	case CardNegotiate:
		return "Negotiate"
	case CardReinforcement:
		return "Reinforcement"
	case CardArtifact:
		return "Artifact"
	case CardDestiny:
		return "Destiny"
	case CardKicker:
		return "Kicker"
	default:
		return "Unknown"
	}
}

// Card is an immutable playing card. Construct cards with the New*Card
// helpers; the zero value is an attack 00.
type Card struct {
	kind     CardType
	value    int
	artifact string
	reward   bool
	target   string // destiny target player name, empty for wild destiny
}

func NewAttackCard(value int) Card { return Card{kind: CardAttack, value: value} }
func NewNegotiateCard() Card { return Card{kind: CardNegotiate} }
func NewReinforcementCard(value int) Card { return Card{kind: CardReinforcement, value: value} }
func NewArtifactCard(name string) Card { return Card{kind: CardArtifact, artifact: name} }
func NewKickerCard(multiplier int) Card { return Card{kind: CardKicker, value: multiplier} }
func NewDestinyCard(player string) Card { return Card{kind: CardDestiny, target: player} }
func NewWildDestinyCard() Card { return Card{kind: CardDestiny} }

// AsReward returns a copy of the card tagged for the rewards deck.
func (c Card) AsReward() Card {
	c.reward = true
	return c
}

func (c Card) Type() CardType { return c.kind }
func (c Card) Value() int { return c.value }
func (c Card) Artifact() string { return c.artifact }
func (c Card) IsReward() bool { return c.reward }

// Target returns the player a destiny card names. ok is false for wild
// destiny cards and for every non-destiny card.
func (c Card) Target() (name string, ok bool) {
	if c.kind != CardDestiny || c.target == "" {
		return "", false
	}
	return c.target, true
}

// IsEncounter reports whether the card can be played face down in planning.
func (c Card) IsEncounter() bool {
	return c.kind == CardAttack || c.kind == CardNegotiate
}

// Mirrored returns the card with the tens and units digits of its value
// swapped. Only attack and negotiate values are affected.
func (c Card) Mirrored() Card {
	if !c.IsEncounter() {
		return c
	}
	c.value = c.value/10 + (c.value%10)*10
	return c
}

func (c Card) String() string {
	tag := ""
	if c.reward {
		tag = " (reward)"
	}
	switch c.kind {
	case CardAttack:
		return fmt.Sprintf("Attack %02d%s", c.value, tag)
	case CardNegotiate:
		return "Negotiate" + tag
	case CardReinforcement:
		return fmt.Sprintf("Reinforcement +%d%s", c.value, tag)
	case CardArtifact:
		return "Artifact: " + c.artifact + tag
	case CardKicker:
		return fmt.Sprintf("Kicker x%d%s", c.value, tag)
	case CardDestiny:
		if c.target == "" {
			return "Destiny: Wild"
		}
		return "Destiny: " + c.target
	default:
		return "Unknown card"
	}
}

// --- Standard card sets ---

// cosmicAttackValues is the attack card distribution of the cosmic deck.
var cosmicAttackValues = []struct{ value, count int }{
	{0, 1}, {1, 1}, {4, 4}, {5, 1}, {6, 7}, {7, 1}, {8, 7}, {9, 1},
	{10, 4}, {11, 1}, {12, 2}, {13, 1}, {14, 2}, {15, 1}, {20, 2},
	{23, 1}, {30, 1}, {40, 1},
}

var cosmicArtifacts = []string{
	"Cosmic Zap", "Card Zap", "Mobius Tubes", "Emotion Control", "Force Field",
	"Ionic Gas", "Plague", "Quash", "Solar Wind",
}

// CosmicCards returns a fresh copy of the cosmic deck.
func CosmicCards() []Card {
	var cards []Card
	for _, av := range cosmicAttackValues {
		for i := 0; i < av.count; i++ {
			cards = append(cards, NewAttackCard(av.value))
		}
	}
	for i := 0; i < 15; i++ {
		cards = append(cards, NewNegotiateCard())
	}
	for _, v := range []int{2, 2, 3, 3, 3, 5} {
		cards = append(cards, NewReinforcementCard(v))
	}
	for _, name := range cosmicArtifacts {
		cards = append(cards, NewArtifactCard(name))
	}
	return cards
}

// RewardCards returns a fresh copy of the rewards deck.
func RewardCards() []Card {
	var cards []Card
	for _, v := range []int{0, 0, 3, 7, 15, 21} {
		cards = append(cards, NewAttackCard(v).AsReward())
	}
	cards = append(cards, NewNegotiateCard().AsReward(), NewNegotiateCard().AsReward())
	cards = append(cards, NewReinforcementCard(4).AsReward(), NewReinforcementCard(6).AsReward())
	for _, m := range []int{0, 1, 2, 2, 3, -1} {
		cards = append(cards, NewKickerCard(m).AsReward())
	}
	return cards
}

// DestinyCards returns the destiny deck for the given player names.
func DestinyCards(players []string) []Card {
	var cards []Card
	for _, name := range players {
		for i := 0; i < DestinyCardsPerSeat; i++ {
			cards = append(cards, NewDestinyCard(name))
		}
	}
	for i := 0; i < WildDestinyCards; i++ {
		cards = append(cards, NewWildDestinyCard())
	}
	return cards
}
