// Package session's event loop: grounded on the teacher's gRPC streaming
// handlers (pkg/server/poker.go, pkg/server/events.go), replacing per-RPC
// dispatch with one goroutine per game reading off an inbox channel --
// the "per-game event channel" alternative spec.md §5 allows for the
// single-threaded concurrency model.
package session

import (
	"errors"
	"math/rand"
	"time"

	"github.com/decred/slog"
	"github.com/nlholdem/server/pkg/engine"
)

// ErrSessionClosed is returned by Session methods submitted after Close.
var ErrSessionClosed = errors.New("session: closed")

// Deps are a session's external collaborators, injected so tests can
// swap in a deterministic RNG, a no-op logger, and a scripted AI policy.
type Deps struct {
	Log         slog.Logger
	AIPolicy    AIPolicy
	AIThinkTime time.Duration
	RNG         *rand.Rand

	// TurnDeadline, if nonzero, auto-checks (or auto-folds, if a check
	// isn't legal) a human seat that hasn't acted within the deadline,
	// grounded on the teacher's Table.HandleTimeouts/TimeBank (off by
	// default so deterministic tests never race a timer).
	TurnDeadline time.Duration

	// AutoStartDelay, if nonzero, deals the next hand automatically this
	// long after the previous one reaches HAND_COMPLETE, grounded on the
	// teacher's GameConfig.AutoStartDelay (off by default).
	AutoStartDelay time.Duration
}

func (d Deps) withDefaults() Deps {
	if d.AIPolicy == nil {
		d.AIPolicy = DefaultAIPolicy
	}
	if d.RNG == nil {
		d.RNG = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return d
}

// maxAITurnsPerDispatch bounds the AI-driving loop so a misbehaving
// policy (or an engine bug that never hands the turn to a human) cannot
// spin the session goroutine forever.
const maxAITurnsPerDispatch = 64

// Session owns one GameState and the single goroutine that is ever
// allowed to touch it; every mutation is submitted as a closure over the
// inbox channel and its result awaited, so the engine's synchronous
// contract holds even though callers are concurrent WS/HTTP handlers
// (spec.md §5).
type Session struct {
	ID    string
	state *engine.GameState

	deps  Deps
	conns *connections
	log   slog.Logger

	lifecycle lifecycleMachine

	inbox chan func()
	done  chan struct{}

	// timerGen invalidates any in-flight turn-deadline or auto-start
	// timer once the state it was scheduled against has moved on; only
	// touched from the session goroutine.
	timerGen uint64
}

// lifecycleMachine is the slice of *statemachine.StateMachine[GameState]
// (via engine.AttachLifecycle) that Session needs, kept as an interface
// so tests can stub it out.
type lifecycleMachine interface {
	Dispatch(callback func(stateName string, event engine.LifecycleEvent))
}

func newSession(id string, seats int, smallBlind, bigBlind int64, deps Deps) *Session {
	deps = deps.withDefaults()
	g := engine.NewGameState(id, seats, smallBlind, bigBlind, deps.RNG)

	s := &Session{
		ID:    id,
		state: g,
		deps:  deps,
		conns: newConnections(),
		log:   deps.Log,
		inbox: make(chan func(), 32),
		done:  make(chan struct{}),
	}
	s.lifecycle = engine.AttachLifecycle(g, s.onLifecycleEvent)
	go s.loop()
	return s
}

func (s *Session) onLifecycleEvent(status string, event engine.LifecycleEvent) {
	if s.log == nil || event != engine.LifecycleEntered {
		return
	}
	s.log.Debugf("game %s: %s", s.ID, status)
}

// loop drains the inbox for the session's lifetime, giving priority to
// queued work over shutdown: a closure that made it into the buffered
// channel before (or racing) Close() is still guaranteed to run, so
// run/runErr's callers never block forever waiting on one that won't.
func (s *Session) loop() {
	for {
		select {
		case fn := <-s.inbox:
			fn()
			continue
		default:
		}
		select {
		case fn := <-s.inbox:
			fn()
		case <-s.done:
			return
		}
	}
}

// Close stops the session's goroutine. It does not touch the registry;
// callers remove the session from the Registry themselves.
func (s *Session) Close() { close(s.done) }

// Connect registers conn for playerID and returns the initial viewer-scoped
// snapshot.
func (s *Session) Connect(playerID string, conn Connection) GameStateView {
	var view GameStateView
	s.run(func() {
		s.conns.Register(playerID, conn)
		view = Snapshot(s.state, playerID)
	})
	return view
}

// Disconnect unregisters conn for playerID if it is still the active
// connection (a reconnect may have already replaced it).
func (s *Session) Disconnect(playerID string, conn Connection) {
	s.conns.Unregister(playerID, conn)
}

// SeatPlayer seats a new player, used by the single-play bootstrap and by
// the lobby before the first hand starts.
func (s *Session) SeatPlayer(idx int, p *engine.Player, buyIn int64) error {
	return s.runErr(func() error {
		return s.state.SeatPlayer(idx, p, buyIn)
	})
}

// StartNewHand begins (or restarts) a hand, then drives any AI seats that
// are first to act before broadcasting the result.
func (s *Session) StartNewHand() error {
	return s.runErr(func() error {
		if err := engine.StartNewHand(s.state); err != nil {
			return err
		}
		s.afterMutation()
		return nil
	})
}

// Act applies playerID's action as the current actor, drives any AI
// seats that follow, and broadcasts the resulting state to every
// connected viewer.
func (s *Session) Act(a engine.Action) error {
	return s.runErr(func() error {
		if err := engine.Dispatch(s.state, a); err != nil {
			return err
		}
		s.afterMutation()
		return nil
	})
}

// View returns playerID's viewer-scoped snapshot of the current state.
func (s *Session) View(playerID string) GameStateView {
	var view GameStateView
	s.run(func() {
		view = Snapshot(s.state, playerID)
	})
	return view
}

// afterMutation drives pending AI turns to completion (or to the next
// human actor, or to hand-complete), logs the lifecycle transition, and
// broadcasts the new state to every connected viewer. Must only be
// called from the session goroutine.
func (s *Session) afterMutation() {
	s.lifecycle.Dispatch(s.onLifecycleEvent)
	s.driveAI()
	s.broadcast()
	s.timerGen++
	s.scheduleTurnDeadline()
	s.scheduleAutoStart()
}

// scheduleTurnDeadline arms a one-shot timer that auto-checks or
// auto-folds the current human actor if TurnDeadline elapses before
// they act, mirroring the teacher's per-seat time bank.
func (s *Session) scheduleTurnDeadline() {
	if s.deps.TurnDeadline <= 0 {
		return
	}
	g := s.state
	if g.Status != engine.InProgress || g.CurrentSeat < 0 || g.CurrentSeat >= len(g.Table.Seats) {
		return
	}
	seat := g.Table.Seats[g.CurrentSeat]
	if seat.Player == nil || seat.Player.IsAI {
		return
	}

	gen := s.timerGen
	playerID := seat.Player.ID
	time.AfterFunc(s.deps.TurnDeadline, func() {
		s.run(func() { s.handleTurnTimeout(gen, playerID) })
	})
}

func (s *Session) handleTurnTimeout(gen uint64, playerID string) {
	if gen != s.timerGen {
		return // state moved on; this timer is stale
	}
	g := s.state
	if g.Status != engine.InProgress || g.CurrentSeat < 0 || g.CurrentSeat >= len(g.Table.Seats) {
		return
	}
	seat := g.Table.Seats[g.CurrentSeat]
	if seat.Player == nil || seat.Player.ID != playerID {
		return
	}

	legal := engine.LegalActions(g.Table, g.CurrentSeat, g.CurrentBet, g.LastRaiseDelta, g.BigBlind, g.BettingReopened)
	action := engine.Action{PlayerID: playerID, Type: engine.Fold}
	if _, ok := findLegal(legal, engine.Check); ok {
		action.Type = engine.Check
	}

	if err := engine.Dispatch(g, action); err != nil {
		if s.log != nil {
			s.log.Errorf("game %s: turn-deadline action rejected: %v", s.ID, err)
		}
		return
	}
	if s.log != nil {
		s.log.Infof("game %s: seat %d timed out, auto-%s", s.ID, seat.Index, action.Type)
	}
	s.afterMutation()
}

// scheduleAutoStart arms a one-shot timer that deals the next hand
// AutoStartDelay after the current one completes, mirroring the
// teacher's GameConfig.AutoStartDelay.
func (s *Session) scheduleAutoStart() {
	if s.deps.AutoStartDelay <= 0 || s.state.Status != engine.HandComplete {
		return
	}
	gen := s.timerGen
	time.AfterFunc(s.deps.AutoStartDelay, func() {
		s.run(func() { s.handleAutoStart(gen) })
	})
}

func (s *Session) handleAutoStart(gen uint64) {
	if gen != s.timerGen || s.state.Status != engine.HandComplete {
		return
	}
	if err := engine.StartNewHand(s.state); err != nil {
		if s.log != nil {
			s.log.Errorf("game %s: auto-start failed: %v", s.ID, err)
		}
		return
	}
	s.afterMutation()
}

func (s *Session) driveAI() {
	for i := 0; i < maxAITurnsPerDispatch; i++ {
		g := s.state
		if g.Status != engine.InProgress {
			return
		}
		if g.CurrentSeat < 0 || g.CurrentSeat >= len(g.Table.Seats) {
			return
		}
		seat := g.Table.Seats[g.CurrentSeat]
		if seat.Player == nil || !seat.Player.IsAI {
			return
		}

		if s.deps.AIThinkTime > 0 {
			time.Sleep(s.deps.AIThinkTime)
		}

		legal := engine.LegalActions(g.Table, g.CurrentSeat, g.CurrentBet, g.LastRaiseDelta, g.BigBlind, g.BettingReopened)
		action := s.deps.AIPolicy(g, g.CurrentSeat, legal)
		if err := engine.Dispatch(g, action); err != nil {
			if s.log != nil {
				s.log.Errorf("game %s: AI seat %d action rejected: %v", s.ID, g.CurrentSeat, err)
			}
			return
		}
		s.lifecycle.Dispatch(s.onLifecycleEvent)
	}
	if s.log != nil {
		s.log.Warnf("game %s: AI turn loop hit the safety bound", s.ID)
	}
}

func (s *Session) broadcast() {
	s.conns.Broadcast(func(playerID string) Outbound {
		return Outbound{Type: OutGameState, Data: Snapshot(s.state, playerID)}
	})
}

// run executes fn on the session goroutine and waits for it to finish.
// A session closed before submission rejects the call outright rather
// than racing done against a buffered inbox slot.
func (s *Session) run(fn func()) {
	select {
	case <-s.done:
		return
	default:
	}
	done := make(chan struct{})
	select {
	case s.inbox <- func() { fn(); close(done) }:
	case <-s.done:
		return
	}
	<-done
}

// runErr is run for closures that return an error.
func (s *Session) runErr(fn func() error) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	errCh := make(chan error, 1)
	select {
	case s.inbox <- func() { errCh <- fn() }:
	case <-s.done:
		return ErrSessionClosed
	}
	return <-errCh
}
