package engine

import "github.com/nlholdem/server/pkg/cards"

// Seat is a fixed table position. A Seat owns chip and per-hand state;
// the occupying Player is identity only (spec.md §3).
type Seat struct {
	Index int

	Player *Player

	Stack      int64
	BetInRound int64
	BetInHand  int64

	HoleCards []cards.Card

	LastAction ActionType
	hasActed   bool // acted since last aggressive action or street start
	HandScore  int32
	ShowHand   bool

	Status SeatStatus
}

// Reveal sets the seat's showdown-reveal flag, exposing its hole cards in
// viewer-scoped snapshots regardless of who is asking (spec.md §6).
func (s *Seat) Reveal() { s.ShowHand = true }

// IsOccupied reports whether a player sits in this seat.
func (s *Seat) IsOccupied() bool { return s.Player != nil }

// IsActive reports whether the seat can act this hand.
func (s *Seat) IsActive() bool { return s.Status == Active && s.Stack > 0 }

// InHand reports whether the seat still contends for the pot.
func (s *Seat) InHand() bool { return s.Status == Active || s.Status == AllIn }

// HasActed reports whether the seat has acted since the last aggressive
// action or street start.
func (s *Seat) HasActed() bool { return s.hasActed }

// SetActed sets the acted flag directly (used by round-start/reset and by
// re-open bookkeeping in ActionService).
func (s *Seat) SetActed(v bool) { s.hasActed = v }

// SitDown seats player with the given buy-in and marks the seat ACTIVE.
func (s *Seat) SitDown(p *Player, buyIn int64) {
	s.Player = p
	s.Stack = buyIn
	s.Status = Active
	s.BetInRound = 0
	s.BetInHand = 0
	s.HoleCards = nil
	s.hasActed = false
}

// StandUp empties the seat and clears all per-hand state.
func (s *Seat) StandUp() {
	s.Player = nil
	s.Stack = 0
	s.Status = Empty
	s.BetInRound = 0
	s.BetInHand = 0
	s.HoleCards = nil
	s.hasActed = false
	s.LastAction = 0
	s.HandScore = 0
}

// Pay deducts min(amount, stack) from the seat's stack and adds it to both
// bet fields; if the stack is exhausted the seat goes ALL_IN. Returns the
// amount actually paid.
func (s *Seat) Pay(amount int64) int64 {
	paid := amount
	if paid > s.Stack {
		paid = s.Stack
	}
	s.Stack -= paid
	s.BetInRound += paid
	s.BetInHand += paid
	if s.Stack == 0 {
		s.Status = AllIn
	}
	return paid
}

// Refund credits amount back onto the seat's stack (showdown/fold-win payout).
func (s *Seat) Refund(amount int64) {
	s.Stack += amount
}

// ReceiveCards deals exactly two hole cards to the seat.
func (s *Seat) ReceiveCards(c [2]cards.Card) {
	s.HoleCards = []cards.Card{c[0], c[1]}
}

// ResetForNewRound clears per-street betting state for seats still in the
// hand; called at the start of each street after bets are swept to pots.
func (s *Seat) ResetForNewRound() {
	if !s.InHand() {
		return
	}
	s.BetInRound = 0
	s.hasActed = false
	s.LastAction = 0
}

// ClearForNewHand clears cards and bets and re-activates occupied seats
// (SITTING_OUT if the stack is empty).
func (s *Seat) ClearForNewHand() {
	s.BetInRound = 0
	s.BetInHand = 0
	s.HoleCards = nil
	s.hasActed = false
	s.LastAction = 0
	s.HandScore = 0
	s.ShowHand = false
	if !s.IsOccupied() {
		s.Status = Empty
		return
	}
	if s.Stack > 0 {
		s.Status = Active
	} else {
		s.Status = SittingOut
	}
}
