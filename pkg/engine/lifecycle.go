package engine

import "github.com/nlholdem/server/pkg/statemachine"

// lifecycleFn is GameState's adaptation of the teacher's Rob Pike style
// per-entity state function. GameState.Status remains the authoritative
// field the rest of the engine branches on (the engine is synchronous
// and must not hide control flow behind a callback-driven machine); this
// side-channel exists purely so the session layer can subscribe to
// WAITING/IN_PROGRESS/HAND_COMPLETE transitions for logging without the
// engine importing a logger.
type lifecycleFn = statemachine.StateFn[GameState]

// LifecycleEvent is re-exported so callers can match on it without
// importing the statemachine package directly.
type LifecycleEvent = statemachine.StateEvent

const (
	LifecycleEntered = statemachine.StateEntered
	LifecycleExited  = statemachine.StateExited
)

// AttachLifecycle wires a state machine mirroring g.Status's transitions.
// Each Dispatch reports the current status as entered to the callback
// passed to that Dispatch; after a status change it reports the old status
// as exited and then the new one as entered. callback itself is only
// carried along by the state functions and is not invoked. Sessions call
// this once per GameState to get a log line on every status change; the
// engine itself never reads back from it.
func AttachLifecycle(g *GameState, callback func(status string, event LifecycleEvent)) *statemachine.StateMachine[GameState] {
	return statemachine.NewStateMachine(g, lifecycleStateFor(g.Status, callback))
}

func lifecycleStateFor(s Status, callback func(string, LifecycleEvent)) lifecycleFn {
	switch s {
	case InProgress:
		return inProgressState(callback)
	case HandComplete:
		return handCompleteState(callback)
	default:
		return waitingState(callback)
	}
}

func waitingState(callback func(string, LifecycleEvent)) lifecycleFn {
	return func(g *GameState, cb func(string, LifecycleEvent)) lifecycleFn {
		if cb != nil {
			cb(Waiting.String(), LifecycleEntered)
		}
		if g.Status != Waiting {
			if cb != nil {
				cb(Waiting.String(), LifecycleExited)
			}
			return lifecycleStateFor(g.Status, callback)(g, cb)
		}
		return waitingState(callback)
	}
}

func inProgressState(callback func(string, LifecycleEvent)) lifecycleFn {
	return func(g *GameState, cb func(string, LifecycleEvent)) lifecycleFn {
		if cb != nil {
			cb(InProgress.String()+":"+g.Round.String(), LifecycleEntered)
		}
		if g.Status != InProgress {
			if cb != nil {
				cb(InProgress.String(), LifecycleExited)
			}
			return lifecycleStateFor(g.Status, callback)(g, cb)
		}
		return inProgressState(callback)
	}
}

func handCompleteState(callback func(string, LifecycleEvent)) lifecycleFn {
	return func(g *GameState, cb func(string, LifecycleEvent)) lifecycleFn {
		if cb != nil {
			cb(HandComplete.String(), LifecycleEntered)
		}
		if g.Status != HandComplete {
			if cb != nil {
				cb(HandComplete.String(), LifecycleExited)
			}
			return lifecycleStateFor(g.Status, callback)(g, cb)
		}
		return handCompleteState(callback)
	}
}
