package cards

import "math/rand"

// Deck is a 52-card deck with a draw cursor: cards behind the cursor have
// already been dealt and are never reused within the deck's lifetime.
type Deck struct {
	cards  []Card
	cursor int
}

// New52 builds a fresh, shuffled 52-card deck using rng.
func New52(rng *rand.Rand) *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for _, s := range allSuits {
		for _, r := range allRanks {
			d.cards = append(d.cards, Card{Rank: r, Suit: s})
		}
	}
	d.Shuffle(rng)
	return d
}

// Shuffle re-randomizes all 52 cards in place via Fisher-Yates, including
// any already drawn, and resets the draw cursor to the top.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
	d.cursor = 0
}

// Draw removes and returns the next n cards from the deck. It returns
// false if fewer than n cards remain; in that case no cards are consumed.
func (d *Deck) Draw(n int) ([]Card, bool) {
	if d.cursor+n > len(d.cards) {
		return nil, false
	}
	out := make([]Card, n)
	copy(out, d.cards[d.cursor:d.cursor+n])
	d.cursor += n
	return out, true
}

// Remaining reports how many undealt cards are left.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.cursor
}
