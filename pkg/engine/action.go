package engine

// ApplyAction validates and applies a (player, type, amount) tuple to the
// current actor's seat, per spec.md §4.5. It never mutates state on a
// validation failure; it returns a tagged *Error instead.
func ApplyAction(g *GameState, a Action) error {
	if g.Status != InProgress {
		return newErr(IllegalState, "game is not in progress")
	}

	idx := g.CurrentSeat
	if idx < 0 || idx >= len(g.Table.Seats) {
		return newErr(IllegalState, "no current actor")
	}
	seat := g.Table.Seats[idx]
	if seat.Player == nil || seat.Player.ID != a.PlayerID {
		return newErr(IllegalAction, "%s is not the current actor", a.PlayerID)
	}

	legal := LegalActions(g.Table, idx, g.CurrentBet, g.LastRaiseDelta, g.BigBlind, g.BettingReopened)
	entry, ok := findLegal(legal, a.Type)
	if !ok {
		return newErr(IllegalAction, "%s is not legal for seat %d", a.Type, idx)
	}

	switch a.Type {
	case Fold:
		seat.Status = Folded
		seat.SetActed(true)
		seat.LastAction = Fold

	case Check:
		seat.SetActed(true)
		seat.LastAction = Check

	case Call:
		if a.Amount != entry.Amount {
			return newErr(IllegalAction, "call amount must be %d, got %d", entry.Amount, a.Amount)
		}
		seat.Pay(a.Amount)
		seat.SetActed(true)
		seat.LastAction = Call

	case Bet:
		if a.Amount < entry.MinAmount || a.Amount > entry.MaxAmount {
			return newErr(IllegalAction, "bet amount %d out of range [%d,%d]", a.Amount, entry.MinAmount, entry.MaxAmount)
		}
		seat.Pay(a.Amount)
		g.CurrentBet = seat.BetInRound
		g.LastAggressiveActor = idx
		g.LastRaiseDelta = a.Amount
		g.BettingReopened = true
		reopenOthers(g, idx)
		seat.SetActed(true)
		seat.LastAction = Bet

	case Raise:
		if a.Amount < entry.MinAmount || a.Amount > entry.MaxAmount {
			return newErr(IllegalAction, "raise total %d out of range [%d,%d]", a.Amount, entry.MinAmount, entry.MaxAmount)
		}
		prevBet := g.CurrentBet
		prevDelta := g.LastRaiseDelta
		toPay := a.Amount - seat.BetInRound
		seat.Pay(toPay)
		g.CurrentBet = a.Amount
		increment := a.Amount - prevBet
		g.LastRaiseDelta = increment
		g.LastAggressiveActor = idx
		seat.SetActed(true)
		seat.LastAction = Raise

		if increment >= prevDelta {
			// Full raise: re-opens action for every other active seat.
			// LegalActions only ever offers RAISE with a MinAmount at or
			// above a full increment, so this is always true for a plain
			// Raise; AllInAction is the only path that can fall short.
			g.BettingReopened = true
			reopenOthers(g, idx)
		}

	case AllInAction:
		if a.Amount != entry.Amount {
			return newErr(IllegalAction, "all-in amount must be %d, got %d", entry.Amount, a.Amount)
		}
		applyAllIn(g, seat, idx)

	default:
		return newErr(IllegalAction, "unsupported action type %s", a.Type)
	}

	g.recordHistory(idx, a.PlayerID, a.Type, a.Amount)
	return nil
}

func findLegal(legal []LegalAction, t ActionType) (LegalAction, bool) {
	for _, l := range legal {
		if l.Type == t {
			return l, true
		}
	}
	return LegalAction{}, false
}

// applyAllIn resolves the ALL_IN convenience synonym (spec.md §9) to its
// underlying effect: the seat pushes its entire remaining stack, and the
// result is classified by where that lands relative to current_bet — a
// call-for-less that changes nothing else, or a bet/raise (full or short)
// that updates current_bet and only re-opens action for a full raise.
func applyAllIn(g *GameState, seat *Seat, idx int) {
	prevBet := g.CurrentBet
	prevDelta := g.LastRaiseDelta
	push := seat.Stack

	seat.Pay(push)
	seat.SetActed(true)
	seat.LastAction = AllInAction

	newBetInRound := seat.BetInRound
	if newBetInRound <= prevBet {
		// All-in for less than a full call: no further bookkeeping, the
		// shortfall simply isn't owed by anyone.
		return
	}

	increment := newBetInRound - prevBet
	g.CurrentBet = newBetInRound
	g.LastAggressiveActor = idx
	g.LastRaiseDelta = increment

	if prevBet == 0 || increment >= prevDelta {
		g.BettingReopened = true
		reopenOthers(g, idx)
	} else {
		// Short all-in raise below the minimum: does not re-open action
		// for seats that already matched the prior current_bet, and
		// suppresses RAISE for everyone until a full bet/raise/all-in or a
		// new street reopens it (spec.md §8 scenario 5).
		g.BettingReopened = false
	}
}

func reopenOthers(g *GameState, actor int) {
	for _, s := range g.Table.Seats {
		if s.Index == actor || !s.IsActive() {
			continue
		}
		s.SetActed(false)
	}
}
