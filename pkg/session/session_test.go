package session

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nlholdem/server/pkg/engine"
)

// fakeConn is an in-process session.Connection double for tests.
type fakeConn struct {
	mu  sync.Mutex
	got []Outbound
}

func (c *fakeConn) Send(out Outbound) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, out)
	return nil
}

func (c *fakeConn) last() (Outbound, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.got) == 0 {
		return Outbound{}, false
	}
	return c.got[len(c.got)-1], true
}

func newTestRegistry() *Registry {
	return NewRegistry()
}

func TestSessionStartHandSeatActViewRoundTrip(t *testing.T) {
	reg := newTestRegistry()
	sess := reg.Create(2, 5, 10, Deps{RNG: rand.New(rand.NewSource(11))})
	t.Cleanup(sess.Close)

	require.NoError(t, sess.SeatPlayer(0, &engine.Player{ID: "p0"}, 1000))
	require.NoError(t, sess.SeatPlayer(1, &engine.Player{ID: "p1"}, 1000))

	conn0 := &fakeConn{}
	view := sess.Connect("p0", conn0)
	require.Equal(t, "WAITING", view.Status)

	require.NoError(t, sess.StartNewHand())

	view = sess.View("p0")
	require.Equal(t, "IN_PROGRESS", view.Status)

	actorID := ""
	for _, s := range view.Seats {
		if s.Index == view.CurrentSeatIndex {
			actorID = s.PlayerID
		}
	}
	require.NotEmpty(t, actorID)

	require.NoError(t, sess.Act(engine.Action{PlayerID: actorID, Type: engine.Fold}))
	final := sess.View("p0")
	require.Equal(t, "HAND_COMPLETE", final.Status)
	require.Len(t, final.Winners, 1)
}

func TestSessionActRejectsWrongPlayer(t *testing.T) {
	reg := newTestRegistry()
	sess := reg.Create(2, 5, 10, Deps{RNG: rand.New(rand.NewSource(12))})
	t.Cleanup(sess.Close)

	require.NoError(t, sess.SeatPlayer(0, &engine.Player{ID: "p0"}, 1000))
	require.NoError(t, sess.SeatPlayer(1, &engine.Player{ID: "p1"}, 1000))
	require.NoError(t, sess.StartNewHand())

	view := sess.View("p0")
	notActor := "p0"
	for _, s := range view.Seats {
		if s.Index == view.CurrentSeatIndex {
			if s.PlayerID == "p0" {
				notActor = "p1"
			}
		}
	}

	err := sess.Act(engine.Action{PlayerID: notActor, Type: engine.Fold})
	require.Error(t, err)
}

func TestSessionDrivesAIOpponentAutomatically(t *testing.T) {
	reg := newTestRegistry()
	sess := reg.Create(2, 5, 10, Deps{RNG: rand.New(rand.NewSource(13))})
	t.Cleanup(sess.Close)

	// Heads-up seat 0 is the dealer/SB and acts first preflop, so the
	// human goes first; the AI (seat 1, the flop's first-to-act) only
	// gets a turn once the human calls to reach the flop.
	require.NoError(t, sess.SeatPlayer(0, &engine.Player{ID: "human"}, 1000))
	require.NoError(t, sess.SeatPlayer(1, &engine.Player{ID: "bot", IsAI: true}, 1000))
	require.NoError(t, sess.StartNewHand())

	view := sess.View("human")
	require.Equal(t, "human", view.Seats[view.CurrentSeatIndex].PlayerID)

	require.NoError(t, sess.Act(engine.Action{PlayerID: "human", Type: engine.Call, Amount: 5}))
	view = sess.View("human")
	// The bot's BB option and its flop action both run inside driveAI: by
	// the time Act returns, it is the human's turn again (or the hand is
	// already complete if the bot folded/checked all the way).
	if view.Status == "IN_PROGRESS" {
		require.Equal(t, "human", view.Seats[view.CurrentSeatIndex].PlayerID)
	}
}

func TestSessionBroadcastsStateToConnectedViewers(t *testing.T) {
	reg := newTestRegistry()
	sess := reg.Create(2, 5, 10, Deps{RNG: rand.New(rand.NewSource(14))})
	t.Cleanup(sess.Close)

	require.NoError(t, sess.SeatPlayer(0, &engine.Player{ID: "p0"}, 1000))
	require.NoError(t, sess.SeatPlayer(1, &engine.Player{ID: "p1"}, 1000))

	conn0 := &fakeConn{}
	conn1 := &fakeConn{}
	sess.Connect("p0", conn0)
	sess.Connect("p1", conn1)

	require.NoError(t, sess.StartNewHand())

	out0, ok := conn0.last()
	require.True(t, ok)
	require.Equal(t, OutGameState, out0.Type)
	out1, ok := conn1.last()
	require.True(t, ok)
	require.Equal(t, OutGameState, out1.Type)
}

func TestSessionCloseRejectsFurtherMutations(t *testing.T) {
	reg := newTestRegistry()
	sess := reg.Create(2, 5, 10, Deps{RNG: rand.New(rand.NewSource(15))})
	require.NoError(t, sess.SeatPlayer(0, &engine.Player{ID: "p0"}, 1000))
	require.NoError(t, sess.SeatPlayer(1, &engine.Player{ID: "p1"}, 1000))
	sess.Close()

	// Give the session goroutine a moment to observe done, then confirm
	// further submissions are rejected rather than hanging forever.
	time.Sleep(10 * time.Millisecond)
	err := sess.StartNewHand()
	require.ErrorIs(t, err, ErrSessionClosed)
}

func TestRegistryCreateGetDelete(t *testing.T) {
	reg := newTestRegistry()
	sess := reg.Create(2, 5, 10, Deps{})
	t.Cleanup(sess.Close)

	got, ok := reg.Get(sess.ID)
	require.True(t, ok)
	require.Same(t, sess, got)
	require.Contains(t, reg.List(), sess.ID)

	reg.Delete(sess.ID)
	_, ok = reg.Get(sess.ID)
	require.False(t, ok)
}
