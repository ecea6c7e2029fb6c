package engine

import (
	"github.com/nlholdem/server/pkg/cards"
	"github.com/nlholdem/server/pkg/eval"
)

// RunOutCommunity deals whatever community cards are missing to reach
// five, with no further betting; used for the run-it-out path when
// betting ends early with more than one seat still in the hand.
func RunOutCommunity(g *GameState) error {
	for len(g.Table.CommunityCards) < 5 {
		switch len(g.Table.CommunityCards) {
		case 0:
			if err := DealCommunityCards(g, Flop); err != nil {
				return err
			}
		case 3:
			if err := DealCommunityCards(g, Turn); err != nil {
				return err
			}
		case 4:
			if err := DealCommunityCards(g, River); err != nil {
				return err
			}
		}
	}
	return nil
}

// ResolveShowdown evaluates every in-hand seat's hand, distributes the
// pots, credits winners, records GameState.Winners, and transitions the
// game to HAND_COMPLETE (spec.md §4.7). It requires exactly 5 community
// cards; callers run out the board first if needed.
func ResolveShowdown(g *GameState) error {
	if len(g.Table.CommunityCards) != 5 {
		return newErr(IllegalState, "showdown requires 5 community cards, has %d", len(g.Table.CommunityCards))
	}

	inHand := map[int]bool{}
	scores := map[int]int32{}
	descriptions := map[int]eval.Score{}
	for _, idx := range g.Table.InHandSeats() {
		inHand[idx] = true
		s := g.Table.Seats[idx]
		score, err := eval.Evaluate(s.HoleCards, g.Table.CommunityCards)
		if err != nil {
			return newErr(IllegalState, "evaluating seat %d: %v", idx, err)
		}
		s.HandScore = score.Value
		s.Reveal()
		scores[idx] = score.Value
		descriptions[idx] = score
	}

	dists := Distribute(g.Table.Pots, scores, inHand)

	g.Winners = nil
	for _, d := range dists {
		seat := g.Table.Seats[d.SeatIndex]
		seat.Refund(d.Amount)
		g.Winners = append(g.Winners, Winner{
			SeatIndex:       d.SeatIndex,
			PlayerID:        seat.Player.ID,
			Name:            seat.Player.Name,
			Amount:          d.Amount,
			PotType:         d.PotType,
			HandName:        descriptions[d.SeatIndex].Class.String(),
			HandDescription: descriptions[d.SeatIndex].Description,
			HandScore:       descriptions[d.SeatIndex].Value,
			HoleCards:       append([]cards.Card{}, seat.HoleCards...),
		})
	}

	g.Status = HandComplete
	g.Round = Showdown
	return nil
}

// ResolveFoldWin handles the short-circuit termination when only one
// contender remains: that seat refunds the whole pot with no evaluator
// call (spec.md §4.8).
func ResolveFoldWin(g *GameState) error {
	inHand := g.Table.InHandSeats()
	if len(inHand) != 1 {
		return newErr(IllegalState, "fold-win requires exactly 1 remaining seat, has %d", len(inHand))
	}
	idx := inHand[0]
	seat := g.Table.Seats[idx]
	total := g.Table.TotalPot()
	seat.Refund(total)

	g.Winners = []Winner{{
		SeatIndex: idx,
		PlayerID:  seat.Player.ID,
		Name:      seat.Player.Name,
		Amount:    total,
		PotType:   "main",
		HandName:  "fold-win",
	}}
	for _, p := range g.Table.Pots {
		p.Amount = 0
	}

	g.Status = HandComplete
	return nil
}
