package study

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPomodoroStartAndTick(t *testing.T) {
	p := NewPomodoro()
	p.Start(3*time.Second, 2*time.Second)

	state := p.State()
	assert.Equal(t, PhaseWork, state.Phase)
	assert.Equal(t, 3*time.Second, state.Remaining)
	assert.True(t, state.Running)

	state = p.Tick()
	assert.Equal(t, 2*time.Second, state.Remaining)
}

func TestPomodoroWorkRollsIntoBreak(t *testing.T) {
	p := NewPomodoro()
	p.Start(2*time.Second, 5*time.Second)

	p.Tick()
	state := p.Tick()

	assert.Equal(t, PhaseBreak, state.Phase)
	assert.Equal(t, 5*time.Second, state.Remaining)
	assert.Equal(t, 1, state.Completed)
}

func TestPomodoroBreakRollsBackIntoWork(t *testing.T) {
	p := NewPomodoro()
	p.Start(1*time.Second, 1*time.Second)

	state := p.Tick() // work done -> break
	require.Equal(t, PhaseBreak, state.Phase)

	state = p.Tick() // break done -> work
	assert.Equal(t, PhaseWork, state.Phase)
	assert.Equal(t, 1*time.Second, state.Remaining)
	assert.Equal(t, 1, state.Completed)
}

func TestPomodoroPauseAndResume(t *testing.T) {
	p := NewPomodoro()
	p.Start(10*time.Second, 5*time.Second)
	p.Tick()

	p.Pause()
	state := p.Tick()
	assert.Equal(t, 9*time.Second, state.Remaining, "paused timer must not move")
	assert.False(t, state.Running)

	p.Resume()
	state = p.Tick()
	assert.Equal(t, 8*time.Second, state.Remaining)
	assert.True(t, state.Running)
}

func TestPomodoroResumeWithoutStartIsNoop(t *testing.T) {
	p := NewPomodoro()
	p.Resume()

	state := p.Tick()
	assert.False(t, state.Running)
	assert.Equal(t, time.Duration(0), state.Remaining)
}

func TestPomodoroReset(t *testing.T) {
	p := NewPomodoro()
	p.Start(1*time.Second, 1*time.Second)
	p.Tick() // one completed work phase

	p.Reset()
	state := p.State()
	assert.Equal(t, PhaseWork, state.Phase)
	assert.Equal(t, time.Duration(0), state.Remaining)
	assert.False(t, state.Running)
	assert.Equal(t, 0, state.Completed)
}

func TestPomodoroDefaultsKeptForNonPositiveDurations(t *testing.T) {
	p := NewPomodoro()
	p.Start(0, 0)

	state := p.State()
	assert.Equal(t, DefaultWorkDuration, state.Remaining)
}
