package session

import "github.com/nlholdem/server/pkg/engine"

// AIPolicy chooses the action an AI-controlled seat takes, given its
// legal action set. The session's event loop calls it in a loop whenever
// the current actor is an AI seat (spec.md §4.9).
type AIPolicy func(g *engine.GameState, seatIdx int, legal []engine.LegalAction) engine.Action

// DefaultAIPolicy is the baseline policy named in spec.md §4.9: check
// when free, call a bet worth at most half the seat's stack, fold
// otherwise. It never bets or raises.
func DefaultAIPolicy(g *engine.GameState, seatIdx int, legal []engine.LegalAction) engine.Action {
	seat := g.Table.Seats[seatIdx]
	playerID := seat.Player.ID

	if _, ok := findLegal(legal, engine.Check); ok {
		return engine.Action{PlayerID: playerID, Type: engine.Check}
	}

	if call, ok := findLegal(legal, engine.Call); ok {
		toCall := g.CurrentBet - seat.BetInRound
		if seat.Stack > 0 && toCall*2 <= seat.Stack {
			return engine.Action{PlayerID: playerID, Type: engine.Call, Amount: call.Amount}
		}
	}

	return engine.Action{PlayerID: playerID, Type: engine.Fold}
}

func findLegal(legal []engine.LegalAction, t engine.ActionType) (engine.LegalAction, bool) {
	for _, l := range legal {
		if l.Type == t {
			return l, true
		}
	}
	return engine.LegalAction{}, false
}
