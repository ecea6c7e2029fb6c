package engine

import (
	"math/rand"
	"time"

	"github.com/nlholdem/server/pkg/cards"
)

// Winner is one seat's share of the pot at hand resolution, shaped for
// the session layer's viewer-scoped snapshot (spec.md §6).
type Winner struct {
	SeatIndex int
	PlayerID  string
	Name      string
	Amount    int64
	PotType   string
	HandName  string
	// HandDescription is the evaluator's Score.Description, the evaluator
	// library's rank string for the hand (its class, e.g. "Two Pair"); it
	// does not name the card ranks involved. Empty for a fold-win, which
	// never reaches showdown.
	HandDescription string
	HandScore       int32
	HoleCards       []cards.Card
}

// HistoryEntry records one applied action for replay/diagnostics on a
// fatal invariant breach (spec.md §7).
type HistoryEntry struct {
	Round    Round
	SeatIdx  int
	PlayerID string
	Action   ActionType
	Amount   int64
	At       time.Time
}

// GameState is the engine's unit of concurrency: one table, driven
// start-to-finish through a single hand at a time. GameState owns Table
// owns Seats; every other reference is a seat index (spec.md §9).
type GameState struct {
	ID     string
	Status Status
	Round  Round

	Table *Table

	SmallBlind int64
	BigBlind   int64

	DealerSeat  int
	SBSeat      int
	BBSeat      int
	CurrentSeat int

	CurrentBet          int64
	LastRaiseDelta      int64
	LastAggressiveActor int

	// BettingReopened is false once a short all-in raise (increment <
	// last_raise_delta) has capped the bet without giving the table a full
	// raise to respond to (spec.md §8 scenario 5): nobody may RAISE again
	// until a fresh street starts or somebody posts a full bet/raise/all-in
	// that reopens it. Starts true at the top of every betting round.
	BettingReopened bool

	History []HistoryEntry
	Winners []Winner

	rng *rand.Rand
}

// NewGameState creates a WAITING game with n seats.
func NewGameState(id string, seats int, smallBlind, bigBlind int64, rng *rand.Rand) *GameState {
	return &GameState{
		ID:              id,
		Status:          Waiting,
		Round:           Preflop,
		Table:           NewTable(seats, rng),
		SmallBlind:      smallBlind,
		BigBlind:        bigBlind,
		DealerSeat:      -1,
		CurrentSeat:     -1,
		BettingReopened: true,
		rng:             rng,
	}
}

// SeatPlayer seats a player at idx; legal in WAITING or between hands.
func (g *GameState) SeatPlayer(idx int, p *Player, buyIn int64) error {
	return g.Table.SeatPlayer(idx, p, buyIn)
}

func (g *GameState) recordHistory(seatIdx int, playerID string, a ActionType, amount int64) {
	g.History = append(g.History, HistoryEntry{
		Round:    g.Round,
		SeatIdx:  seatIdx,
		PlayerID: playerID,
		Action:   a,
		Amount:   amount,
		At:       time.Now(),
	})
}
