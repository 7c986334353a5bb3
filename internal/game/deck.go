package game

import (
	"fmt"
	"math/rand"
)

// Deck is a draw pile paired with a discard pile. The front of cards (index
// 0) is the top of the pile.
type Deck struct {
	Name    string
	cards   []Card
	discard *Deck
	rng     *rand.Rand

	// OnReshuffle, when set, is called after the discard pile has been
	// shuffled back into this deck.
	OnReshuffle func(d *Deck)
}

// NewDeck builds a shuffled draw deck linked to discard. discard may be nil
// for a standalone pile.
func NewDeck(name string, cards []Card, discard *Deck, rng *rand.Rand) *Deck {
	d := &Deck{
		Name:    name,
		cards:   append([]Card(nil), cards...),
		discard: discard,
		rng:     rng,
	}
	d.Shuffle()
	return d
}

// NewDiscardDeck builds an empty discard pile.
func NewDiscardDeck(name string) *Deck {
	return &Deck{Name: name}
}

// Len returns the number of cards in the pile.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the pile, top first.
func (d *Deck) Cards() []Card {
	return append([]Card(nil), d.cards...)
}

// Draw removes the top card. An empty deck first takes back every card from
// its discard pile and shuffles.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		if err := d.reshuffle(); err != nil {
			return Card{}, err
		}
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// Discard places card on top of the pile.
func (d *Deck) Discard(card Card) {
	d.cards = append([]Card{card}, d.cards...)
}

// Shuffle randomizes the pile order.
func (d *Deck) Shuffle() {
	if d.rng == nil {
		rand.Shuffle(len(d.cards), func(i, j int) {
			d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
		})
		return
	}
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

func (d *Deck) reshuffle() error {
	if d.discard == nil || len(d.discard.cards) == 0 {
		return fmt.Errorf("draw from %s deck: %w", d.Name, ErrEmptyDiscard)
	}
	d.cards = append(d.cards, d.discard.cards...)
	d.discard.cards = nil
	d.Shuffle()
	if d.OnReshuffle != nil {
		d.OnReshuffle(d)
	}
	return nil
}
