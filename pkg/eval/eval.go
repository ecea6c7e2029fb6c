// Package eval ranks 7-card (2 hole + up to 5 community) Texas Hold'em
// holdings into a totally ordered score, delegating the combinatorics to
// github.com/chehsunliu/poker the same way the teacher's hand evaluator does.
package eval

import (
	"fmt"

	chp "github.com/chehsunliu/poker"

	"github.com/nlholdem/server/pkg/cards"
)

// Class names a hand's category, ordered weakest to strongest.
type Class int

const (
	HighCard Class = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

func (c Class) String() string {
	switch c {
	case StraightFlush:
		return "Straight Flush"
	case FourOfAKind:
		return "Four of a Kind"
	case FullHouse:
		return "Full House"
	case Flush:
		return "Flush"
	case Straight:
		return "Straight"
	case ThreeOfAKind:
		return "Three of a Kind"
	case TwoPair:
		return "Two Pair"
	case Pair:
		return "Pair"
	default:
		return "High Card"
	}
}

// Score is a hand evaluation: Value is a total-order score where lower is
// stronger (so two holdings can be compared directly), Class is the
// display category, and Description is a human-readable rendering.
type Score struct {
	Value       int32
	Class       Class
	Description string
}

// Less reports whether s beats other (lower Value is stronger).
func (s Score) Less(other Score) bool {
	return s.Value < other.Value
}

// Evaluate scores the best 5-card hand obtainable from exactly 2 hole
// cards plus 3, 4, or 5 community cards. Fewer than 3 community cards is
// an error: the evaluator is only ever invoked once the flop is out.
func Evaluate(hole []cards.Card, community []cards.Card) (Score, error) {
	if len(hole) != 2 {
		return Score{}, fmt.Errorf("eval: need exactly 2 hole cards, got %d", len(hole))
	}
	if len(community) < 3 || len(community) > 5 {
		return Score{}, fmt.Errorf("eval: need 3..5 community cards, got %d", len(community))
	}

	all := make([]chp.Card, 0, len(hole)+len(community))
	for _, c := range hole {
		cc, err := toChehsunliu(c)
		if err != nil {
			return Score{}, err
		}
		all = append(all, cc)
	}
	for _, c := range community {
		cc, err := toChehsunliu(c)
		if err != nil {
			return Score{}, err
		}
		all = append(all, cc)
	}

	rank := chp.Evaluate(all)
	return Score{
		Value:       int32(rank),
		Class:       fromRankClass(chp.RankClass(rank)),
		Description: chp.RankString(rank),
	}, nil
}

func toChehsunliu(c cards.Card) (chp.Card, error) {
	var rankChar byte
	switch c.Rank {
	case cards.Two:
		rankChar = '2'
	case cards.Three:
		rankChar = '3'
	case cards.Four:
		rankChar = '4'
	case cards.Five:
		rankChar = '5'
	case cards.Six:
		rankChar = '6'
	case cards.Seven:
		rankChar = '7'
	case cards.Eight:
		rankChar = '8'
	case cards.Nine:
		rankChar = '9'
	case cards.Ten:
		rankChar = 'T'
	case cards.Jack:
		rankChar = 'J'
	case cards.Queen:
		rankChar = 'Q'
	case cards.King:
		rankChar = 'K'
	case cards.Ace:
		rankChar = 'A'
	default:
		return chp.Card(0), fmt.Errorf("eval: invalid rank %q", c.Rank)
	}

	var suitChar byte
	switch c.Suit {
	case cards.Spades:
		suitChar = 's'
	case cards.Hearts:
		suitChar = 'h'
	case cards.Diamonds:
		suitChar = 'd'
	case cards.Clubs:
		suitChar = 'c'
	default:
		return chp.Card(0), fmt.Errorf("eval: invalid suit %q", c.Suit)
	}

	return chp.NewCard(string([]byte{rankChar, suitChar})), nil
}

// fromRankClass maps chehsunliu's 1 (best) .. 9 (worst) rank class to Class.
// Royal flush is reported by chehsunliu as a straight flush; this spec does
// not distinguish it as a separate class (per spec.md §4.1's ordering).
func fromRankClass(rankClass int32) Class {
	switch rankClass {
	case 1:
		return StraightFlush
	case 2:
		return FourOfAKind
	case 3:
		return FullHouse
	case 4:
		return Flush
	case 5:
		return Straight
	case 6:
		return ThreeOfAKind
	case 7:
		return TwoPair
	case 8:
		return Pair
	default:
		return HighCard
	}
}
