package session

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nlholdem/server/pkg/engine"
)

func TestSnapshotHidesOtherSeatsHoleCardsMidHand(t *testing.T) {
	g := engine.NewGameState("g1", 2, 5, 10, rand.New(rand.NewSource(7)))
	require.NoError(t, g.SeatPlayer(0, &engine.Player{ID: "p0"}, 1000))
	require.NoError(t, g.SeatPlayer(1, &engine.Player{ID: "p1"}, 1000))
	require.NoError(t, engine.StartNewHand(g))

	view := Snapshot(g, "p0")
	for _, s := range view.Seats {
		if s.PlayerID == "p0" {
			require.Len(t, s.HoleCards, 2)
		} else {
			require.Empty(t, s.HoleCards)
		}
	}
}

func TestSnapshotRevealsShowHandSeats(t *testing.T) {
	g := engine.NewGameState("g1", 2, 5, 10, rand.New(rand.NewSource(8)))
	require.NoError(t, g.SeatPlayer(0, &engine.Player{ID: "p0"}, 1000))
	require.NoError(t, g.SeatPlayer(1, &engine.Player{ID: "p1"}, 1000))
	require.NoError(t, engine.StartNewHand(g))
	g.Table.Seats[1].Reveal()

	view := Snapshot(g, "p0")
	var seat1 SeatView
	for _, s := range view.Seats {
		if s.PlayerID == "p1" {
			seat1 = s
		}
	}
	require.Len(t, seat1.HoleCards, 2)
}

func TestSnapshotExposesEveryHoleCardOnceHandComplete(t *testing.T) {
	g := engine.NewGameState("g1", 2, 5, 10, rand.New(rand.NewSource(9)))
	require.NoError(t, g.SeatPlayer(0, &engine.Player{ID: "p0"}, 1000))
	require.NoError(t, g.SeatPlayer(1, &engine.Player{ID: "p1"}, 1000))
	require.NoError(t, engine.StartNewHand(g))
	require.NoError(t, engine.Dispatch(g, engine.Action{PlayerID: g.Table.Seats[g.CurrentSeat].Player.ID, Type: engine.Fold}))
	require.Equal(t, engine.HandComplete, g.Status)

	view := Snapshot(g, "someone-else-entirely")
	for _, s := range view.Seats {
		require.Len(t, s.HoleCards, 2)
	}
}

func TestSnapshotOnlyExposesValidActionsToTheCurrentActor(t *testing.T) {
	g := engine.NewGameState("g1", 2, 5, 10, rand.New(rand.NewSource(10)))
	require.NoError(t, g.SeatPlayer(0, &engine.Player{ID: "p0"}, 1000))
	require.NoError(t, g.SeatPlayer(1, &engine.Player{ID: "p1"}, 1000))
	require.NoError(t, engine.StartNewHand(g))

	actorID := g.Table.Seats[g.CurrentSeat].Player.ID
	otherID := "p1"
	if actorID == "p1" {
		otherID = "p0"
	}

	require.NotEmpty(t, Snapshot(g, actorID).ValidActions)
	require.Empty(t, Snapshot(g, otherID).ValidActions)
}
