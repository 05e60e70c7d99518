package session

import (
	"context"

	"github.com/looplab/fsm"
)

// Phase is the turn state of the projectile slot.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseLoaded   Phase = "loaded"
	PhaseAiming   Phase = "aiming"
	PhaseLaunched Phase = "launched"
	PhaseSettling Phase = "settling"
	PhaseResolved Phase = "resolved"
)

// Active reports whether a projectile occupies the slot in this phase.
func (p Phase) Active() bool {
	switch p {
	case PhaseLoaded, PhaseAiming, PhaseLaunched, PhaseSettling:
		return true
	}
	return false
}

const (
	eventLoad    = "load"
	eventAim     = "aim"
	eventRelease = "release"
	eventCollide = "collide"
	eventResolve = "resolve"
	eventExhaust = "exhaust"
)

type turnSequencer struct {
	machine *fsm.FSM
}

// newTurnSequencer starts in resolved: nothing active, nothing pending.
// onIdle runs on every entry into idle.
func newTurnSequencer(onIdle func(), onChange func(from, to string)) *turnSequencer {
	machine := fsm.NewFSM(
		string(PhaseResolved),
		fsm.Events{
			{Name: eventLoad, Src: []string{string(PhaseResolved)}, Dst: string(PhaseLoaded)},
			{Name: eventAim, Src: []string{string(PhaseLoaded)}, Dst: string(PhaseAiming)},
			{Name: eventRelease, Src: []string{string(PhaseAiming)}, Dst: string(PhaseLaunched)},
			{Name: eventCollide, Src: []string{string(PhaseLaunched)}, Dst: string(PhaseSettling)},
			{Name: eventResolve, Src: []string{string(PhaseLaunched), string(PhaseSettling)}, Dst: string(PhaseResolved)},
			{Name: eventExhaust, Src: []string{string(PhaseResolved)}, Dst: string(PhaseIdle)},
		},
		fsm.Callbacks{
			"enter_" + string(PhaseIdle): func(_ context.Context, _ *fsm.Event) {
				if onIdle != nil {
					onIdle()
				}
			},
			"enter_state": func(_ context.Context, e *fsm.Event) {
				if onChange != nil {
					onChange(e.Src, e.Dst)
				}
			},
		},
	)
	return &turnSequencer{machine: machine}
}

// fire applies event if the current phase allows it.
func (t *turnSequencer) fire(event string) bool {
	if !t.machine.Can(event) {
		return false
	}
	return t.machine.Event(context.Background(), event) == nil
}

func (t *turnSequencer) phase() Phase {
	return Phase(t.machine.Current())
}

func (t *turnSequencer) reset() {
	t.machine.SetState(string(PhaseResolved))
}
