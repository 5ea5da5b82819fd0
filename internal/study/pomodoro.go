package study

import (
	"sync"
	"time"
)

// PomodoroPhase names the two alternating timer phases.
type PomodoroPhase string

const (
	PhaseWork  PomodoroPhase = "work"
	PhaseBreak PomodoroPhase = "break"
)

const (
	DefaultWorkDuration  = 25 * time.Minute
	DefaultBreakDuration = 5 * time.Minute
)

// Pomodoro is a client-driven work/break timer. Callers poll Tick once per
// second; the timer itself never spawns goroutines, so it stays trivially
// safe to embed in a session.
type Pomodoro struct {
	mu sync.Mutex

	workSeconds  int
	breakSeconds int

	phase     PomodoroPhase
	remaining int
	running   bool
	started   bool
	completed int
}

// PomodoroState is a snapshot of the timer for display.
type PomodoroState struct {
	Phase     PomodoroPhase
	Remaining time.Duration
	Running   bool
	Completed int
}

func NewPomodoro() *Pomodoro {
	return &Pomodoro{
		workSeconds:  int(DefaultWorkDuration.Seconds()),
		breakSeconds: int(DefaultBreakDuration.Seconds()),
		phase:        PhaseWork,
	}
}

// Start begins a fresh work phase with the given durations. Non-positive
// durations keep the defaults.
func (p *Pomodoro) Start(work, brk time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if work > 0 {
		p.workSeconds = int(work.Seconds())
	}
	if brk > 0 {
		p.breakSeconds = int(brk.Seconds())
	}
	p.phase = PhaseWork
	p.remaining = p.workSeconds
	p.running = true
	p.started = true
}

func (p *Pomodoro) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
}

func (p *Pomodoro) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		p.running = true
	}
}

// Reset stops the timer and clears the completed counter.
func (p *Pomodoro) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.phase = PhaseWork
	p.remaining = 0
	p.running = false
	p.started = false
	p.completed = 0
}

// Tick advances the timer by one second and returns the resulting state.
// A work phase reaching zero increments the completed counter and rolls into
// a break; a break rolls back into work. Paused or unstarted timers don't move.
func (p *Pomodoro) Tick() PomodoroState {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running && p.remaining > 0 {
		p.remaining--
		if p.remaining == 0 {
			if p.phase == PhaseWork {
				p.completed++
				p.phase = PhaseBreak
				p.remaining = p.breakSeconds
			} else {
				p.phase = PhaseWork
				p.remaining = p.workSeconds
			}
		}
	}

	return p.snapshotLocked()
}

// State returns the current timer state without advancing it.
func (p *Pomodoro) State() PomodoroState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Pomodoro) snapshotLocked() PomodoroState {
	return PomodoroState{
		Phase:     p.phase,
		Remaining: time.Duration(p.remaining) * time.Second,
		Running:   p.running,
		Completed: p.completed,
	}
}
