package domain

import "math/rand"

// MinDeckSeed is the smallest catalogue a joining player may seed a deck
// with. Anything smaller is ignored to keep decks from degenerating.
const MinDeckSeed = 10

// Deck is a per-room exhaustible pile of drawable card values. Cards are
// drawn from the tail of the pile; when the pile empties it is rebuilt from
// the full catalogue, so a draw never fails on exhaustion.
type Deck struct {
	cards  []string
	source []string
}

// Seeded reports whether a card catalogue has been installed
func (d *Deck) Seeded() bool {
	return len(d.source) > 0
}

// Seed installs the card catalogue. The first valid seed wins; later offers
// and catalogues smaller than MinDeckSeed are ignored.
func (d *Deck) Seed(values []string) bool {
	if d.Seeded() || len(values) < MinDeckSeed {
		return false
	}
	d.source = append([]string(nil), values...)
	return true
}

// Shuffle rebuilds the drawable pile as a fresh permutation of the full
// catalogue, discarding whatever remained.
func (d *Deck) Shuffle() {
	d.cards = append([]string(nil), d.source...)
	rand.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the next card along with the count left in the
// pile after the draw. An empty pile is reshuffled from the catalogue
// before drawing.
func (d *Deck) Draw() (string, int, error) {
	if !d.Seeded() {
		return "", 0, ErrNoDeckSeeded
	}
	if len(d.cards) == 0 {
		d.Shuffle()
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, len(d.cards), nil
}

// Remaining returns the number of drawable cards left in the pile
func (d *Deck) Remaining() int {
	return len(d.cards)
}
