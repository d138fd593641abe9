package service

import "github.com/commhub/community-settings/internal/settings/domain"

// State is the lifecycle of an editing session:
// Idle -> Loading -> Ready -> Saving -> Closed, with Saving falling back to
// Ready when a write fails and Ready <-> Filling around an AI fill request.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFilling
	StateSaving
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFilling:
		return "filling"
	case StateSaving:
		return "saving"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// CanMutate reports whether local edits are accepted.
func (s State) CanMutate() bool { return s == StateReady }

// mutationError explains why a mutation is rejected in this state.
func (s State) mutationError() error {
	switch s {
	case StateReady:
		return nil
	case StateIdle:
		return domain.ErrNotLoaded
	case StateClosed:
		return domain.ErrClosed
	}
	return domain.ErrSessionBusy
}

// canLoad reports whether Load may start from this state.
func (s State) canLoad() bool {
	return s == StateIdle || s == StateReady || s == StateClosed
}
