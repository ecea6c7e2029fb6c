package engine

// TurnManager computes next-to-act, the round-complete predicate, and the
// legal action set for the current actor (spec.md §4.4). All of its
// operations are pure functions of GameState/Table and carry no state of
// their own.

// NextToAct starts from the seat after current, circles the table once,
// and returns the first active seat that either hasn't acted since the
// last aggressive action or street start, or whose bet_in_round is below
// current_bet. Returns -1 if no such seat exists.
func NextToAct(t *Table, current int, currentBet int64) int {
	n := len(t.Seats)
	if n == 0 {
		return -1
	}
	for i := 1; i <= n; i++ {
		idx := (current + i) % n
		s := t.Seats[idx]
		if !s.IsActive() {
			continue
		}
		if !s.HasActed() || s.BetInRound < currentBet {
			return idx
		}
	}
	return -1
}

// RoundComplete reports whether betting for the current street is over:
// at most one active seat remains, or every active seat has acted and
// matched current_bet. All-in seats are never required to match further.
func RoundComplete(t *Table, currentBet int64) bool {
	active := t.ActiveSeats()
	if len(active) <= 1 {
		return true
	}
	for _, idx := range active {
		s := t.Seats[idx]
		if !s.HasActed() || s.BetInRound != currentBet {
			return false
		}
	}
	return true
}

// FirstActorPreflop returns the first active seat strictly after the
// big-blind seat.
func FirstActorPreflop(t *Table, bbSeat int) int {
	return firstActiveAfter(t, bbSeat)
}

// FirstActorPostflop returns the first active seat strictly after the
// dealer seat.
func FirstActorPostflop(t *Table, dealerSeat int) int {
	return firstActiveAfter(t, dealerSeat)
}

func firstActiveAfter(t *Table, from int) int {
	n := len(t.Seats)
	if n == 0 {
		return -1
	}
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if t.Seats[idx].IsActive() {
			return idx
		}
	}
	return -1
}

// LegalActions returns the legal action set for the seat at idx, exactly
// per spec.md §4.4. For a seat that is not the current actor, callers
// must pass an empty result themselves (LegalActions itself only encodes
// the amount-range rules, not turn-order; see ActionService/Engine for
// the "is it your turn" gate). reopened is GameState.BettingReopened: a
// short all-in raise (increment < last_raise_delta) caps current_bet
// without handing anyone the RAISE option back, per spec.md §8 scenario
// 5 — it is suppressed here, table-wide, until a full bet/raise/all-in
// or a new street reopens it.
func LegalActions(t *Table, idx int, currentBet, lastRaiseDelta, bigBlind int64, reopened bool) []LegalAction {
	s := t.Seats[idx]
	if !s.IsActive() {
		return nil
	}

	out := []LegalAction{{Type: Fold}}

	toCall := currentBet - s.BetInRound
	if toCall == 0 {
		out = append(out, LegalAction{Type: Check})
	} else if s.Stack >= toCall {
		out = append(out, LegalAction{Type: Call, Amount: toCall})
	}

	if currentBet == 0 && s.Stack > 0 {
		out = append(out, LegalAction{Type: Bet, MinAmount: bigBlind, MaxAmount: s.Stack})
	} else if reopened {
		delta := lastRaiseDelta
		if delta < bigBlind {
			delta = bigBlind
		}
		minRaiseTotal := currentBet + delta
		maxRaiseTotal := s.Stack + s.BetInRound
		if maxRaiseTotal >= minRaiseTotal {
			out = append(out, LegalAction{Type: Raise, MinAmount: minRaiseTotal, MaxAmount: maxRaiseTotal})
		}
	}

	// ALL_IN is always available while the seat has chips behind, even when
	// the stack covers neither a full CALL nor a full min-raise: it is the
	// only way for a short stack to commit the rest of its chips (spec.md
	// §9's "all-in for less" case, exercised by the short all-in raise in
	// scenario 5).
	if s.Stack > 0 {
		out = append(out, LegalAction{Type: AllInAction, Amount: s.Stack})
	}

	return out
}
