package engine

import "sort"

// Pot is one layer of the pot: amount plus the seats eligible to win it.
// Pot 0 is always the main pot; later pots are sides in creation order,
// each eligible set a subset of its predecessor's (spec.md §4.3).
type Pot struct {
	Amount        int64
	EligibleSeats map[int]bool
}

func newPot() *Pot {
	return &Pot{EligibleSeats: make(map[int]bool)}
}

// PotType names a pot for display: "main" for pot 0, "side_i" otherwise.
func PotType(index int) string {
	if index == 0 {
		return "main"
	}
	return sideLabel(index)
}

func sideLabel(index int) string {
	const digits = "0123456789"
	if index < 10 {
		return "side_" + string(digits[index])
	}
	// Side-pot counts beyond 9 are vanishingly rare at a single table but
	// handled generically rather than assumed away.
	var buf []byte
	n := index
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return "side_" + string(buf)
}

// contribution is one seat's wager for the street being collected.
type contribution struct {
	seat   int
	amount int64 // this street's contribution
	folded bool
	allIn  bool
}

// CollectContributions partitions a street's per-seat contributions into
// pots, applying spec.md §4.3's algorithm. existing is mutated in place
// (appended to) and also returned for convenience.
//
// contributions maps seat index -> this street's bet_in_round.
// foldedSeats and allInSeats identify seats that folded or went all-in
// (any street, tracked by the caller) among the contributors.
func CollectContributions(existing []*Pot, contributions map[int]int64, foldedSeats, allInSeats map[int]bool) []*Pot {
	if len(existing) == 0 {
		existing = []*Pot{newPot()}
	}

	var contribs []contribution
	for seat, amt := range contributions {
		if amt <= 0 {
			continue
		}
		contribs = append(contribs, contribution{
			seat:   seat,
			amount: amt,
			folded: foldedSeats[seat],
			allIn:  allInSeats[seat],
		})
	}
	if len(contribs) == 0 {
		return existing
	}

	anyAllIn := false
	for _, c := range contribs {
		if c.allIn {
			anyAllIn = true
			break
		}
	}

	main := existing[len(existing)-1]
	if !anyAllIn {
		for _, c := range contribs {
			main.Amount += c.amount
			if !c.folded {
				main.EligibleSeats[c.seat] = true
			}
		}
		return existing
	}

	return layerByAllIn(existing, contribs)
}

// layerByAllIn implements the ascending-level side-pot split for a single
// street's contributions: sort eligible (non-folded) contributors' this-
// street amounts ascending, and for each distinct level create a pot layer
// sized (level-prevLevel) times the contributors still reachable at that
// level -- counting folded seats' chips toward the layer amount but never
// into its eligible set. Levels are this-street amounts, not cumulative
// bet_in_hand totals, because the result is added onto pots that may
// already hold prior streets' chips (CollectContributions is called once
// per street); layering on cumulative totals would recount that money.
func layerByAllIn(existing []*Pot, contribs []contribution) []*Pot {
	levelSet := map[int64]bool{}
	for _, c := range contribs {
		if !c.folded {
			levelSet[c.amount] = true
		}
	}
	levels := make([]int64, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	// remainingEligible starts as the current pot's eligible set (carried
	// forward from prior streets) unioned with this street's non-folded
	// contributors; folded contributors are never added.
	lastPot := existing[len(existing)-1]
	remainingEligible := make(map[int]bool, len(lastPot.EligibleSeats))
	for s := range lastPot.EligibleSeats {
		remainingEligible[s] = true
	}
	for _, c := range contribs {
		if !c.folded {
			remainingEligible[c.seat] = true
		}
	}

	pots := existing
	current := pots[len(pots)-1]
	var prevLevel int64

	for _, level := range levels {
		delta := level - prevLevel
		var layerAmount int64
		for _, c := range contribs {
			reach := c.amount
			if reach > level {
				reach = level
			}
			contributed := reach - prevLevel
			if contributed > 0 {
				layerAmount += min64(contributed, delta)
			}
		}

		current.Amount += layerAmount
		for s := range remainingEligible {
			current.EligibleSeats[s] = true
		}

		prevLevel = level

		// Drop all-in contributors who are capped at this level from
		// future eligibility; contributors with stack remaining (amount >
		// level is impossible at the final level, but intermediate seats
		// with amount == level and allIn==true are removed).
		for _, c := range contribs {
			if c.allIn && c.amount == level {
				delete(remainingEligible, c.seat)
			}
		}

		if level != levels[len(levels)-1] {
			next := newPot()
			pots = append(pots, next)
			current = next
		}
	}

	return pots
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// Distribution is one seat's share of one pot.
type Distribution struct {
	SeatIndex int
	Amount    int64
	PotType   string
}

// Distribute computes payouts for every pot given each in-hand seat's
// score (lower is stronger) restricted to inHandSeats. Winners of a pot
// are the eligible ∩ in-hand seats with the minimum score; ties split the
// pot floor-wise, with the remainder paid one chip at a time to the
// lowest seat indices (spec.md §4.3 "Distribution").
func Distribute(pots []*Pot, scores map[int]int32, inHandSeats map[int]bool) []Distribution {
	var out []Distribution
	for i, pot := range pots {
		if pot.Amount <= 0 {
			continue
		}
		var winners []int
		var best int32
		first := true
		for seat := range pot.EligibleSeats {
			if !inHandSeats[seat] {
				continue
			}
			s := scores[seat]
			if first || s < best {
				best = s
				winners = []int{seat}
				first = false
			} else if s == best {
				winners = append(winners, seat)
			}
		}
		if len(winners) == 0 {
			continue
		}
		sort.Ints(winners)

		share := pot.Amount / int64(len(winners))
		remainder := pot.Amount % int64(len(winners))
		potType := PotType(i)
		for idx, seat := range winners {
			amt := share
			if int64(idx) < remainder {
				amt++
			}
			out = append(out, Distribution{SeatIndex: seat, Amount: amt, PotType: potType})
		}
	}
	return out
}

// Validate checks the invariants spec.md §4.3 names as a test predicate:
// all amounts non-negative, every nonzero pot has at least one eligible
// seat, and eligible sets are nested pot[j] ⊆ pot[i] for i<j.
func Validate(pots []*Pot) error {
	for i, p := range pots {
		if p.Amount < 0 {
			return newErr(IllegalState, "pot %d has negative amount %d", i, p.Amount)
		}
		if p.Amount > 0 && len(p.EligibleSeats) == 0 {
			return newErr(IllegalState, "pot %d has amount %d but no eligible seats", i, p.Amount)
		}
	}
	for i := 0; i < len(pots); i++ {
		for j := i + 1; j < len(pots); j++ {
			for s := range pots[j].EligibleSeats {
				if !pots[i].EligibleSeats[s] {
					return newErr(IllegalState, "pot %d eligible seat %d not nested in pot %d", j, s, i)
				}
			}
		}
	}
	return nil
}
