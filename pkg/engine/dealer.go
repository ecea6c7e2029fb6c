package engine

import "github.com/nlholdem/server/pkg/cards"

// SetupNewHand rotates the button, posts blinds, shuffles, and deals hole
// cards, per spec.md §4.6. Requires at least 2 active seats.
func SetupNewHand(g *GameState) error {
	active := g.Table.OccupiedWithChips()
	if len(active) < 2 {
		return newErr(PrecondUnmet, "need at least 2 active seats, have %d", len(active))
	}

	g.Table.ResetForNewHand()
	g.History = nil
	g.Winners = nil

	active = g.Table.ActiveSeats()
	if len(active) < 2 {
		return newErr(PrecondUnmet, "need at least 2 active seats after reset, have %d", len(active))
	}

	g.DealerSeat = nextDealerSeat(g.Table, g.DealerSeat)

	if len(active) == 2 {
		g.SBSeat = g.DealerSeat
		g.BBSeat = firstActiveAfter(g.Table, g.DealerSeat)
	} else {
		g.SBSeat = firstActiveAfter(g.Table, g.DealerSeat)
		g.BBSeat = firstActiveAfter(g.Table, g.SBSeat)
	}

	sb := g.Table.Seats[g.SBSeat]
	bb := g.Table.Seats[g.BBSeat]
	sb.Pay(g.SmallBlind)
	sb.SetActed(false)
	bb.Pay(g.BigBlind)
	bb.SetActed(false) // the BB option (spec.md §4.4 / GLOSSARY)

	g.CurrentBet = maxInt64(sb.BetInRound, bb.BetInRound)
	g.LastRaiseDelta = g.BigBlind
	g.LastAggressiveActor = g.BBSeat
	g.BettingReopened = true

	for _, idx := range active {
		hole, ok := g.Table.Deck.Draw(2)
		if !ok {
			return newErr(IllegalState, "deck exhausted dealing hole cards")
		}
		g.Table.Seats[idx].ReceiveCards([2]cards.Card{hole[0], hole[1]})
	}

	g.Round = Preflop
	g.Status = InProgress
	g.CurrentSeat = FirstActorPreflop(g.Table, g.BBSeat)
	return nil
}

func nextDealerSeat(t *Table, current int) int {
	if current < 0 {
		for _, s := range t.Seats {
			if s.IsActive() {
				return s.Index
			}
		}
		return 0
	}
	return firstActiveAfter(t, current)
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// CollectBetsToPots sweeps every seat's bet_in_round (including folded
// seats' partial contributions) into the pot layers, then zeros
// bet_in_round table-wide. Invoked at the end of every street.
func CollectBetsToPots(g *GameState) error {
	contributions := map[int]int64{}
	folded := map[int]bool{}
	allIn := map[int]bool{}

	for _, s := range g.Table.Seats {
		if s.BetInRound <= 0 {
			continue
		}
		contributions[s.Index] = s.BetInRound
		folded[s.Index] = s.Status == Folded
		allIn[s.Index] = s.Status == AllIn
	}

	g.Table.Pots = CollectContributions(g.Table.Pots, contributions, folded, allIn)
	if err := Validate(g.Table.Pots); err != nil {
		return err
	}

	for _, s := range g.Table.Seats {
		s.BetInRound = 0
	}
	return nil
}

// DealCommunityCards deals the next street's community cards: 3 for the
// flop, 1 each for turn and river. It enforces that the community length
// before the call matches what the transition expects.
func DealCommunityCards(g *GameState, to Round) error {
	var want int
	switch to {
	case Flop:
		want = 0
	case Turn:
		want = 3
	case River:
		want = 4
	default:
		return newErr(IllegalState, "cannot deal community cards for round %s", to)
	}
	if len(g.Table.CommunityCards) != want {
		return newErr(IllegalState, "community cards must have length %d before dealing %s, has %d", want, to, len(g.Table.CommunityCards))
	}

	n := 1
	if to == Flop {
		n = 3
	}
	drawn, ok := g.Table.Deck.Draw(n)
	if !ok {
		return newErr(IllegalState, "deck exhausted dealing community cards")
	}
	g.Table.CommunityCards = append(g.Table.CommunityCards, drawn...)
	return nil
}
