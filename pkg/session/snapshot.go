package session

import (
	"sort"

	"github.com/nlholdem/server/pkg/cards"
	"github.com/nlholdem/server/pkg/engine"
)

// SeatView is one seat as exposed to a particular viewer: hole_cards is
// present only when the viewer owns the seat, the seat's show_hand flag
// is set, or the hand is HAND_COMPLETE (spec.md §6).
type SeatView struct {
	Index      int          `json:"index"`
	PlayerID   string       `json:"player_id,omitempty"`
	Name       string       `json:"name,omitempty"`
	IsAI       bool         `json:"is_ai,omitempty"`
	Stack      int64        `json:"stack"`
	Status     string       `json:"status"`
	BetInRound int64        `json:"bet_in_round"`
	BetInHand  int64        `json:"bet_in_hand"`
	LastAction string       `json:"last_action,omitempty"`
	HoleCards  []cards.Card `json:"hole_cards,omitempty"`
}

// PotView is one pot layer as exposed over the wire.
type PotView struct {
	Amount        int64 `json:"amount"`
	EligibleSeats []int `json:"eligible_seats"`
}

// GameStateView is the full viewer-scoped snapshot sent as a game_state
// payload (spec.md §6).
type GameStateView struct {
	GameID           string               `json:"game_id"`
	Status           string               `json:"status"`
	CurrentRound     string               `json:"current_round"`
	CurrentSeatIndex int                  `json:"current_seat_index"`
	CurrentBet       int64                `json:"current_bet"`
	SmallBlind       int64                `json:"small_blind"`
	BigBlind         int64                `json:"big_blind"`
	DealerSeatIndex  int                  `json:"dealer_seat_index"`
	CommunityCards   []cards.Card         `json:"community_cards"`
	Pots             []PotView            `json:"pots"`
	Seats            []SeatView           `json:"seats"`
	Winners          []engine.Winner      `json:"winners,omitempty"`
	ValidActions     []engine.LegalAction `json:"valid_actions,omitempty"`
}

// Snapshot renders g as seen by viewerID: hole cards are redacted for
// every seat the viewer doesn't own, unless that seat has shown its hand
// or the hand has completed.
func Snapshot(g *engine.GameState, viewerID string) GameStateView {
	view := GameStateView{
		GameID:           g.ID,
		Status:           g.Status.String(),
		CurrentRound:     g.Round.String(),
		CurrentSeatIndex: g.CurrentSeat,
		CurrentBet:       g.CurrentBet,
		SmallBlind:       g.SmallBlind,
		BigBlind:         g.BigBlind,
		DealerSeatIndex:  g.DealerSeat,
		CommunityCards:   append([]cards.Card{}, g.Table.CommunityCards...),
		Winners:          g.Winners,
	}

	for _, p := range g.Table.Pots {
		eligible := make([]int, 0, len(p.EligibleSeats))
		for s := range p.EligibleSeats {
			eligible = append(eligible, s)
		}
		sort.Ints(eligible)
		view.Pots = append(view.Pots, PotView{Amount: p.Amount, EligibleSeats: eligible})
	}

	for _, s := range g.Table.Seats {
		sv := SeatView{
			Index:      s.Index,
			Status:     s.Status.String(),
			Stack:      s.Stack,
			BetInRound: s.BetInRound,
			BetInHand:  s.BetInHand,
		}
		if s.Player != nil {
			sv.PlayerID = s.Player.ID
			sv.Name = s.Player.Name
			sv.IsAI = s.Player.IsAI
			sv.LastAction = s.LastAction.String()
		}
		if s.IsOccupied() && (s.Player.ID == viewerID || s.ShowHand || g.Status == engine.HandComplete) {
			sv.HoleCards = append([]cards.Card{}, s.HoleCards...)
		}
		view.Seats = append(view.Seats, sv)
	}

	if g.Status == engine.InProgress && g.CurrentSeat >= 0 && g.CurrentSeat < len(g.Table.Seats) {
		actor := g.Table.Seats[g.CurrentSeat]
		if actor.Player != nil && actor.Player.ID == viewerID {
			view.ValidActions = engine.LegalActions(g.Table, g.CurrentSeat, g.CurrentBet, g.LastRaiseDelta, g.BigBlind, g.BettingReopened)
		}
	}

	return view
}
