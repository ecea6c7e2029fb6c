package engine

import (
	"math/rand"

	"github.com/nlholdem/server/pkg/cards"
)

// Table owns the seats, deck, community cards, and pots for one
// GameState. Non-owning references (current actor, dealer, etc.) are
// seat indices, never pointers, per spec.md §9.
type Table struct {
	Seats          []*Seat
	Deck           *cards.Deck
	CommunityCards []cards.Card
	Pots           []*Pot

	rng *rand.Rand
}

// NewTable builds a table with n empty seats.
func NewTable(n int, rng *rand.Rand) *Table {
	t := &Table{Seats: make([]*Seat, n), rng: rng}
	for i := range t.Seats {
		t.Seats[i] = &Seat{Index: i}
	}
	t.Pots = []*Pot{newPot()}
	return t
}

// SeatPlayer seats p at index idx with buyIn chips.
func (t *Table) SeatPlayer(idx int, p *Player, buyIn int64) error {
	if idx < 0 || idx >= len(t.Seats) {
		return newErr(CapacityExceeded, "seat index %d out of range", idx)
	}
	if t.Seats[idx].IsOccupied() {
		return newErr(CapacityExceeded, "seat %d already occupied", idx)
	}
	t.Seats[idx].SitDown(p, buyIn)
	return nil
}

// StandUp empties the seat at idx.
func (t *Table) StandUp(idx int) error {
	if idx < 0 || idx >= len(t.Seats) {
		return newErr(CapacityExceeded, "seat index %d out of range", idx)
	}
	t.Seats[idx].StandUp()
	return nil
}

// ActiveSeats returns the indices of seats with IsActive() true.
func (t *Table) ActiveSeats() []int {
	var out []int
	for _, s := range t.Seats {
		if s.IsActive() {
			out = append(out, s.Index)
		}
	}
	return out
}

// OccupiedWithChips returns occupied seats with a nonzero stack,
// regardless of their (possibly stale, pre-reset) status; used to check
// the start_new_hand precondition before ResetForNewHand reclassifies them.
func (t *Table) OccupiedWithChips() []int {
	var out []int
	for _, s := range t.Seats {
		if s.IsOccupied() && s.Stack > 0 {
			out = append(out, s.Index)
		}
	}
	return out
}

// InHandSeats returns the indices of seats still contending for the pot.
func (t *Table) InHandSeats() []int {
	var out []int
	for _, s := range t.Seats {
		if s.InHand() {
			out = append(out, s.Index)
		}
	}
	return out
}

// IsHandOver reports whether only one seat remains in the hand.
func (t *Table) IsHandOver() bool {
	return len(t.InHandSeats()) == 1
}

// IsBettingOver reports whether at most one seat can still act.
func (t *Table) IsBettingOver() bool {
	return len(t.ActiveSeats()) <= 1
}

// TotalPot sums every pot's amount.
func (t *Table) TotalPot() int64 {
	var total int64
	for _, p := range t.Pots {
		total += p.Amount
	}
	return total
}

// ResetForNewHand gives the table a fresh shuffled deck, clears the
// community cards, resets to a single empty pot, and clears every seat
// for a new hand. Lazy in the sense that it is only called from
// start_new_hand, never eagerly.
func (t *Table) ResetForNewHand() {
	t.Deck = cards.New52(t.rng)
	t.CommunityCards = nil
	t.Pots = []*Pot{newPot()}
	for _, s := range t.Seats {
		s.ClearForNewHand()
	}
}

// ChipTotal sums stacks + bet_in_round + pot amounts across the whole
// table; used by tests to assert chip conservation (spec.md §8).
func (t *Table) ChipTotal() int64 {
	var total int64
	for _, s := range t.Seats {
		total += s.Stack + s.BetInRound
	}
	total += t.TotalPot()
	return total
}
