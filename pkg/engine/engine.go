// Package engine is the poker hand engine: a deterministic state machine
// driving a single hand from deal through showdown (spec.md §2). There is
// no engine object: the engine is a set of functions taking *GameState;
// DealerService,
// TurnManager, ActionService, and ShowdownService are the stateless
// free functions in dealer.go, turn.go, action.go, and showdown.go
// (spec.md §9 — no service singletons).
package engine

// StartNewHand transitions a WAITING game to IN_PROGRESS(PREFLOP): it
// rotates the button, posts blinds, deals hole cards, and sets the first
// actor. It is also how the next hand begins after HAND_COMPLETE
// (stacks persist, the dealer rotates).
func StartNewHand(g *GameState) error {
	if g.Status == InProgress {
		return newErr(IllegalState, "a hand is already in progress")
	}
	return SetupNewHand(g)
}

// Dispatch applies action to g and advances the state machine per
// spec.md §4.8's transition table: fold-win, showdown, run-it-out, next
// street, or next actor. On a validation failure g is left unchanged.
func Dispatch(g *GameState, a Action) error {
	if err := ApplyAction(g, a); err != nil {
		return err
	}
	return advance(g)
}

func advance(g *GameState) error {
	t := g.Table

	if t.IsHandOver() {
		if err := CollectBetsToPots(g); err != nil {
			return err
		}
		return ResolveFoldWin(g)
	}

	if !RoundComplete(t, g.CurrentBet) {
		next := NextToAct(t, g.CurrentSeat, g.CurrentBet)
		if next < 0 {
			// No seat needs to act but the round isn't flagged complete;
			// treat as complete defensively rather than stall the hand.
			return finishRound(g)
		}
		g.CurrentSeat = next
		return nil
	}

	return finishRound(g)
}

// finishRound handles every round_complete branch: river showdown,
// run-it-out, or advance to the next street.
func finishRound(g *GameState) error {
	t := g.Table

	if err := CollectBetsToPots(g); err != nil {
		return err
	}

	if g.Round == River {
		return ResolveShowdown(g)
	}

	if t.IsBettingOver() && len(t.InHandSeats()) > 1 {
		if err := RunOutCommunity(g); err != nil {
			return err
		}
		return ResolveShowdown(g)
	}

	return advanceStreet(g)
}

func advanceStreet(g *GameState) error {
	t := g.Table

	var next Round
	switch g.Round {
	case Preflop:
		next = Flop
	case Flop:
		next = Turn
	case Turn:
		next = River
	default:
		return newErr(IllegalState, "cannot advance past round %s", g.Round)
	}

	if err := DealCommunityCards(g, next); err != nil {
		return err
	}

	g.Round = next
	g.CurrentBet = 0
	g.LastRaiseDelta = g.BigBlind
	g.LastAggressiveActor = -1
	g.BettingReopened = true
	for _, s := range t.Seats {
		s.ResetForNewRound()
	}

	g.CurrentSeat = FirstActorPostflop(t, g.DealerSeat)
	return nil
}
