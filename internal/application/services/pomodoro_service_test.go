package services

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classdash/core/internal/domain/entities"
	"github.com/classdash/core/internal/infrastructure/metrics"
)

func newTestPomodoro(work, brk int) (*PomodoroService, *metrics.Metrics) {
	m := metrics.New()
	svc := NewPomodoroService(work, brk, m, nopLogger)
	// the test drives step directly
	svc.interval = time.Hour
	return svc, m
}

func TestPomodoroDefaults(t *testing.T) {
	svc := NewPomodoroService(0, -1, nil, nopLogger)
	s := svc.State()
	assert.Equal(t, entities.DefaultWorkMinutes, s.WorkMinutes)
	assert.Equal(t, entities.DefaultBreakMinutes, s.BreakMinutes)
	assert.Equal(t, "25:00", s.Display())
	assert.False(t, s.Running)
}

func TestPomodoroToggle(t *testing.T) {
	svc, _ := newTestPomodoro(25, 5)
	defer svc.Close()

	assert.True(t, svc.Toggle().Running)
	assert.False(t, svc.Toggle().Running)
	assert.True(t, svc.Toggle().Running)
}

func TestPomodoroStepCountsDown(t *testing.T) {
	svc, _ := newTestPomodoro(25, 5)
	defer svc.Close()

	svc.Toggle()
	svc.mu.Lock()
	gen := svc.gen
	svc.mu.Unlock()

	assert.True(t, svc.step(gen))
	assert.True(t, svc.step(gen))
	s := svc.State()
	assert.Equal(t, 1498, s.RemainingSeconds)
	assert.Equal(t, "24:58", s.Display())
}

func TestPomodoroPhaseSwitch(t *testing.T) {
	svc, m := newTestPomodoro(25, 5)
	defer svc.Close()

	svc.Toggle()
	svc.mu.Lock()
	svc.state.RemainingSeconds = 2
	gen := svc.gen
	svc.mu.Unlock()

	assert.True(t, svc.step(gen))
	assert.False(t, svc.step(gen))

	s := svc.State()
	assert.False(t, s.Running)
	assert.Equal(t, entities.PomodoroModeBreak, s.Mode)
	assert.Equal(t, 300, s.RemainingSeconds)
	assert.Equal(t, float64(1), counterValue(t, m.PomodoroPhases.WithLabelValues("work")))

	// the break ends and hands back to work
	svc.Toggle()
	svc.mu.Lock()
	svc.state.RemainingSeconds = 1
	gen = svc.gen
	svc.mu.Unlock()

	assert.False(t, svc.step(gen))
	s = svc.State()
	assert.Equal(t, entities.PomodoroModeWork, s.Mode)
	assert.Equal(t, 1500, s.RemainingSeconds)
	assert.Equal(t, float64(1), counterValue(t, m.PomodoroPhases.WithLabelValues("break")))
}

func TestPomodoroStaleGeneration(t *testing.T) {
	svc, _ := newTestPomodoro(25, 5)
	defer svc.Close()

	svc.Toggle()
	svc.mu.Lock()
	stale := svc.gen
	svc.mu.Unlock()

	svc.Toggle()
	svc.Toggle()

	assert.False(t, svc.step(stale))
	assert.Equal(t, 1500, svc.State().RemainingSeconds)
}

func TestPomodoroReset(t *testing.T) {
	svc, _ := newTestPomodoro(25, 5)

	svc.Toggle()
	svc.mu.Lock()
	svc.state.Mode = entities.PomodoroModeBreak
	svc.state.RemainingSeconds = 12
	svc.mu.Unlock()

	s := svc.Reset()
	assert.False(t, s.Running)
	assert.Equal(t, entities.PomodoroModeWork, s.Mode)
	assert.Equal(t, 1500, s.RemainingSeconds)
}

func TestPomodoroConfigure(t *testing.T) {
	svc, _ := newTestPomodoro(25, 5)
	svc.Toggle()

	s, err := svc.Configure(50, 10)
	require.NoError(t, err)
	assert.False(t, s.Running)
	assert.Equal(t, 3000, s.RemainingSeconds)
	assert.Equal(t, 10, s.BreakMinutes)

	for _, bad := range [][2]int{{0, 5}, {25, 0}, {181, 5}, {25, -3}} {
		_, err := svc.Configure(bad[0], bad[1])
		assert.ErrorIs(t, err, entities.ErrInvalidDuration)
	}
	assert.Equal(t, 50, svc.State().WorkMinutes)
}

func TestPomodoroRunsInBackground(t *testing.T) {
	svc := NewPomodoroService(1, 1, nil, nopLogger)
	svc.interval = 5 * time.Millisecond
	defer svc.Close()

	svc.Toggle()
	assert.Eventually(t, func() bool {
		return svc.State().RemainingSeconds < 60
	}, 2*time.Second, 5*time.Millisecond)
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, c.Write(&out))
	return out.GetCounter().GetValue()
}
