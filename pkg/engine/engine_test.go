package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func newHeadsUpGame(t *testing.T, seed int64) *GameState {
	t.Helper()
	g := NewGameState("g1", 2, 5, 10, rand.New(rand.NewSource(seed)))
	require.NoError(t, g.SeatPlayer(0, &Player{ID: "p0", Name: "Alice"}, 1000))
	require.NoError(t, g.SeatPlayer(1, &Player{ID: "p1", Name: "Bob"}, 1000))
	return g
}

func currentPlayerID(g *GameState) string {
	return g.Table.Seats[g.CurrentSeat].Player.ID
}

func TestStartNewHandPostsBlindsAndDealsCards(t *testing.T) {
	g := newHeadsUpGame(t, 1)
	require.NoError(t, StartNewHand(g))

	require.Equal(t, InProgress, g.Status)
	require.Equal(t, Preflop, g.Round)
	require.Len(t, g.Table.Seats[0].HoleCards, 2)
	require.Len(t, g.Table.Seats[1].HoleCards, 2)

	sb := g.Table.Seats[g.SBSeat]
	bb := g.Table.Seats[g.BBSeat]
	require.Equal(t, int64(5), sb.BetInRound)
	require.Equal(t, int64(10), bb.BetInRound)
	require.Equal(t, int64(10), g.CurrentBet)

	// Heads-up: the dealer is also the small blind and acts first preflop.
	require.Equal(t, g.DealerSeat, g.SBSeat)
	require.Equal(t, g.SBSeat, g.CurrentSeat)
}

func TestStartNewHandRequiresTwoSeats(t *testing.T) {
	g := NewGameState("g1", 2, 5, 10, rand.New(rand.NewSource(1)))
	require.NoError(t, g.SeatPlayer(0, &Player{ID: "p0"}, 1000))
	err := StartNewHand(g)
	require.Error(t, err)

	var engErr *Error
	require.ErrorAs(t, err, &engErr)
	require.Equal(t, PrecondUnmet, engErr.Kind)
}

func TestFoldWinAwardsEntirePotWithoutShowdown(t *testing.T) {
	g := newHeadsUpGame(t, 2)
	require.NoError(t, StartNewHand(g))

	before := g.Table.ChipTotal()
	actor := currentPlayerID(g)
	require.NoError(t, Dispatch(g, Action{PlayerID: actor, Type: Fold}))

	require.Equal(t, HandComplete, g.Status)
	require.Len(t, g.Winners, 1)
	require.NotEqual(t, actor, g.Winners[0].PlayerID)
	require.Equal(t, "fold-win", g.Winners[0].HandName)
	require.Equal(t, before, g.Table.ChipTotal())
}

func TestChipConservationThroughShowdown(t *testing.T) {
	g := newHeadsUpGame(t, 3)
	require.NoError(t, StartNewHand(g))
	before := g.Table.ChipTotal()

	// Drive every street by having both seats check/call until the hand
	// completes, regardless of how many streets that takes.
	for i := 0; i < 64 && g.Status == InProgress; i++ {
		idx := g.CurrentSeat
		seat := g.Table.Seats[idx]
		legal := LegalActions(g.Table, idx, g.CurrentBet, g.LastRaiseDelta, g.BigBlind, g.BettingReopened)

		var action Action
		if _, ok := findLegal(legal, Check); ok {
			action = Action{PlayerID: seat.Player.ID, Type: Check}
		} else {
			call, ok := findLegal(legal, Call)
			require.True(t, ok)
			action = Action{PlayerID: seat.Player.ID, Type: Call, Amount: call.Amount}
		}
		require.NoError(t, Dispatch(g, action))
	}

	require.Equal(t, HandComplete, g.Status)
	require.Equal(t, before, g.Table.ChipTotal())
	require.NotEmpty(t, g.Winners)
}

func TestShortAllInCallCreatesSidePotAndDoesNotReopenAction(t *testing.T) {
	g := NewGameState("g1", 3, 5, 10, rand.New(rand.NewSource(4)))
	require.NoError(t, g.SeatPlayer(0, &Player{ID: "p0"}, 1000))
	require.NoError(t, g.SeatPlayer(1, &Player{ID: "p1"}, 1000))
	require.NoError(t, g.SeatPlayer(2, &Player{ID: "p2"}, 15)) // covers the BB, 5 chips behind
	require.NoError(t, StartNewHand(g))
	before := g.Table.ChipTotal()

	// Dealer=0, SB=1, BB=2, first actor preflop=0 (heads-up-style rotation
	// does not apply with 3 active seats; firstActiveAfter(BB) wraps to 0).
	require.Equal(t, 0, g.CurrentSeat)

	raise, ok := findLegal(LegalActions(g.Table, 0, g.CurrentBet, g.LastRaiseDelta, g.BigBlind, g.BettingReopened), Raise)
	require.True(t, ok)
	require.NoError(t, Dispatch(g, Action{PlayerID: "p0", Type: Raise, Amount: 50}))
	require.Equal(t, int64(50), g.CurrentBet)
	require.LessOrEqual(t, int64(50), raise.MaxAmount)

	call, ok := findLegal(LegalActions(g.Table, 1, g.CurrentBet, g.LastRaiseDelta, g.BigBlind, g.BettingReopened), Call)
	require.True(t, ok)
	require.NoError(t, Dispatch(g, Action{PlayerID: "p1", Type: Call, Amount: call.Amount}))

	legalP2 := LegalActions(g.Table, 2, g.CurrentBet, g.LastRaiseDelta, g.BigBlind, g.BettingReopened)
	_, hasCall := findLegal(legalP2, Call)
	require.False(t, hasCall, "p2's remaining stack cannot cover a full call")
	allIn, ok := findLegal(legalP2, AllInAction)
	require.True(t, ok)
	require.Equal(t, int64(5), allIn.Amount)
	require.NoError(t, Dispatch(g, Action{PlayerID: "p2", Type: AllInAction, Amount: allIn.Amount}))

	// The short all-in (total 15) is below current_bet (50): it doesn't
	// reopen action for p0/p1, who already matched 50, so the street ends
	// immediately and bets are swept into a layered main/side pot.
	require.Equal(t, Flop, g.Round)
	require.Equal(t, before, g.Table.ChipTotal())
	require.NoError(t, Validate(g.Table.Pots))
	require.Len(t, g.Table.Pots, 2)
	require.Equal(t, int64(45), g.Table.Pots[0].Amount)
	require.Len(t, g.Table.Pots[0].EligibleSeats, 3)
	require.Equal(t, int64(70), g.Table.Pots[1].Amount)
	require.Len(t, g.Table.Pots[1].EligibleSeats, 2)
	require.False(t, g.Table.Pots[1].EligibleSeats[2], "the short all-in seat is not eligible for the side pot")
}

func TestLegalActionsOffersAllInForShortStackBelowMinRaise(t *testing.T) {
	g := NewGameState("g1", 3, 5, 10, rand.New(rand.NewSource(5)))
	require.NoError(t, g.SeatPlayer(0, &Player{ID: "p0"}, 1000))
	require.NoError(t, g.SeatPlayer(1, &Player{ID: "p1"}, 1000))
	require.NoError(t, g.SeatPlayer(2, &Player{ID: "p2"}, 15))
	require.NoError(t, StartNewHand(g))

	// Seat 2 is the short stack; force current_bet above what it can even
	// call in full, by having seat 0 min-raise to 20 (seat 2 has 10 in and 5
	// behind). Seat 0 keeps chips behind, so seat 2 is not left as the only
	// active seat, which would end the round before it acts.
	for g.CurrentSeat != 2 {
		idx := g.CurrentSeat
		seat := g.Table.Seats[idx]
		if idx == 0 {
			raise, ok := findLegal(LegalActions(g.Table, idx, g.CurrentBet, g.LastRaiseDelta, g.BigBlind, g.BettingReopened), Raise)
			require.True(t, ok)
			require.NoError(t, Dispatch(g, Action{PlayerID: seat.Player.ID, Type: Raise, Amount: raise.MinAmount}))
			continue
		}
		legal := LegalActions(g.Table, idx, g.CurrentBet, g.LastRaiseDelta, g.BigBlind, g.BettingReopened)
		if has(legal, Check) {
			require.NoError(t, Dispatch(g, Action{PlayerID: seat.Player.ID, Type: Check}))
		} else {
			// fold everyone but seats 0 and 2 out of this synthetic scenario
			require.NoError(t, Dispatch(g, Action{PlayerID: seat.Player.ID, Type: Fold}))
		}
	}

	legal := LegalActions(g.Table, 2, g.CurrentBet, g.LastRaiseDelta, g.BigBlind, g.BettingReopened)
	allIn, ok := findLegal(legal, AllInAction)
	require.True(t, ok)
	require.Equal(t, g.Table.Seats[2].Stack, allIn.Amount)

	_, hasCall := findLegal(legal, Call)
	require.False(t, hasCall, "stack is too short to cover a full call")
}

func has(legal []LegalAction, t ActionType) bool {
	_, ok := findLegal(legal, t)
	return ok
}

// TestPostflopAllInDoesNotDoubleCountPriorStreetChips pins the chip-
// conservation bug a post-flop all-in used to trigger: layerByAllIn once
// sized pot layers off each contributor's cumulative bet_in_hand instead of
// the street's own bet_in_round, so a second street's collection re-added
// chips already swept into the main pot on an earlier street.
func TestPostflopAllInDoesNotDoubleCountPriorStreetChips(t *testing.T) {
	g := NewGameState("g1", 3, 5, 10, rand.New(rand.NewSource(6)))
	require.NoError(t, g.SeatPlayer(0, &Player{ID: "p0"}, 1000))
	require.NoError(t, g.SeatPlayer(1, &Player{ID: "p1"}, 1000))
	require.NoError(t, g.SeatPlayer(2, &Player{ID: "p2"}, 200))
	require.NoError(t, StartNewHand(g))
	before := g.Table.ChipTotal()

	// Preflop: dealer=0, SB=1, BB=2, first actor=0. Everyone puts in 100
	// with no all-in, so the main pot is a plain 300 after collection.
	require.Equal(t, 0, g.CurrentSeat)
	require.NoError(t, Dispatch(g, Action{PlayerID: "p0", Type: Raise, Amount: 100}))
	require.NoError(t, Dispatch(g, Action{PlayerID: "p1", Type: Call, Amount: 95}))
	require.NoError(t, Dispatch(g, Action{PlayerID: "p2", Type: Call, Amount: 90}))
	require.Equal(t, Flop, g.Round)
	require.Equal(t, int64(300), g.Table.Pots[0].Amount)
	require.Equal(t, int64(100), g.Table.Seats[2].Stack)

	// Flop: p1 opens for 100, p2 calls with its exact remaining stack (a
	// natural all-in via Pay, not a contrived AllInAction), p0 calls.
	require.Equal(t, 1, g.CurrentSeat)
	require.NoError(t, Dispatch(g, Action{PlayerID: "p1", Type: Bet, Amount: 100}))
	call2, ok := findLegal(LegalActions(g.Table, 2, g.CurrentBet, g.LastRaiseDelta, g.BigBlind, g.BettingReopened), Call)
	require.True(t, ok)
	require.Equal(t, int64(100), call2.Amount)
	require.NoError(t, Dispatch(g, Action{PlayerID: "p2", Type: Call, Amount: call2.Amount}))
	require.Equal(t, AllIn, g.Table.Seats[2].Status)
	require.NoError(t, Dispatch(g, Action{PlayerID: "p0", Type: Call, Amount: 100}))

	require.Equal(t, Turn, g.Round)
	require.NoError(t, Validate(g.Table.Pots))
	require.Equal(t, before, g.Table.ChipTotal())
	require.Equal(t, int64(600), g.Table.Pots[0].Amount)
}

// TestShortAllInRaiseSuppressesRaiseForReturningActor pins spec.md §8
// scenario 5: A bets, B raises, C goes all-in for less than a full raise
// (increment < last_raise_delta). Action returns to A, who still faces the
// raise and the all-in and must be offered only FOLD/CALL — the short
// all-in must not hand the RAISE option back to anyone.
func TestShortAllInRaiseSuppressesRaiseForReturningActor(t *testing.T) {
	g := NewGameState("g1", 3, 5, 10, rand.New(rand.NewSource(7)))
	require.NoError(t, g.SeatPlayer(0, &Player{ID: "p0"}, 1000))
	require.NoError(t, g.SeatPlayer(1, &Player{ID: "p1"}, 1000))
	require.NoError(t, g.SeatPlayer(2, &Player{ID: "p2"}, 350))
	require.NoError(t, StartNewHand(g))

	// Preflop: dealer=0, SB=1, BB=2, first actor=0. current_bet already sits
	// at the big blind, so p0's opening raise to 100 stands in for the
	// spec's generic "A bets 100" (there's no bare Bet once a blind is live).
	require.Equal(t, 0, g.CurrentSeat)
	require.NoError(t, Dispatch(g, Action{PlayerID: "p0", Type: Raise, Amount: 100}))
	require.NoError(t, Dispatch(g, Action{PlayerID: "p1", Type: Raise, Amount: 300}))

	// p2 pushes its remaining 340 on top of the 10 big blind, a total of 350:
	// only a 50 increment over p1's 300, short of the 200 last_raise_delta,
	// so it caps current_bet without reopening action.
	require.Equal(t, 2, g.CurrentSeat)
	allIn, ok := findLegal(LegalActions(g.Table, 2, g.CurrentBet, g.LastRaiseDelta, g.BigBlind, g.BettingReopened), AllInAction)
	require.True(t, ok)
	require.Equal(t, int64(340), allIn.Amount)
	require.NoError(t, Dispatch(g, Action{PlayerID: "p2", Type: AllInAction, Amount: allIn.Amount}))
	require.False(t, g.BettingReopened)

	// Action returns to p0, who already bet 100 and must not see RAISE.
	require.Equal(t, 0, g.CurrentSeat)
	legalP0 := LegalActions(g.Table, 0, g.CurrentBet, g.LastRaiseDelta, g.BigBlind, g.BettingReopened)
	require.False(t, has(legalP0, Raise), "a short all-in must not reopen the raise option")
	require.True(t, has(legalP0, Fold))
	_, hasCall := findLegal(legalP0, Call)
	require.True(t, hasCall)
}
