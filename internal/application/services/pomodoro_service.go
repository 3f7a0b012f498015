package services

import (
	"context"
	"sync"
	"time"

	"github.com/classdash/core/internal/domain/entities"
	"github.com/classdash/core/internal/infrastructure/logger"
	"github.com/classdash/core/internal/infrastructure/metrics"
)

// PomodoroService runs the work/break timer. At most one countdown goroutine is alive.
type PomodoroService struct {
	mu     sync.Mutex
	state  entities.PomodoroState
	gen    uint64
	cancel context.CancelFunc

	interval time.Duration
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewPomodoroService creates a stopped timer with the given phase lengths in minutes
func NewPomodoroService(workMinutes, breakMinutes int, m *metrics.Metrics, log *logger.Logger) *PomodoroService {
	if workMinutes <= 0 {
		workMinutes = entities.DefaultWorkMinutes
	}
	if breakMinutes <= 0 {
		breakMinutes = entities.DefaultBreakMinutes
	}
	return &PomodoroService{
		state:    entities.NewPomodoroState(workMinutes, breakMinutes),
		interval: time.Second,
		metrics:  m,
		logger:   log.WithComponent("pomodoro"),
	}
}

// State returns the current timer state
func (s *PomodoroService) State() entities.PomodoroState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Toggle starts a stopped timer and stops a running one
func (s *PomodoroService) Toggle() entities.PomodoroState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Running {
		s.stopLocked()
		return s.state
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.gen++
	s.cancel = cancel
	s.state.Running = true
	go s.run(ctx, s.gen)

	s.logger.Debugw("Timer started", "mode", s.state.Mode, "remaining", s.state.RemainingSeconds)
	return s.state
}

// Reset stops the timer and rewinds to the start of a work phase
func (s *PomodoroService) Reset() entities.PomodoroState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.state = entities.NewPomodoroState(s.state.WorkMinutes, s.state.BreakMinutes)
	return s.state
}

// Configure sets new phase lengths. The timer stops and restarts from a full work phase.
func (s *PomodoroService) Configure(workMinutes, breakMinutes int) (entities.PomodoroState, error) {
	if !validMinutes(workMinutes) || !validMinutes(breakMinutes) {
		return entities.PomodoroState{}, entities.ErrInvalidDuration
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.state = entities.NewPomodoroState(workMinutes, breakMinutes)
	s.logger.Infow("Timer configured", "work_minutes", workMinutes, "break_minutes", breakMinutes)
	return s.state, nil
}

// Close stops the countdown goroutine
func (s *PomodoroService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *PomodoroService) run(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.step(gen) {
				return
			}
		}
	}
}

// step counts one second down. It reports false once the countdown of gen is over.
func (s *PomodoroService) step(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || !s.state.Running {
		return false
	}

	if s.state.RemainingSeconds > 0 {
		s.state.RemainingSeconds--
	}
	if s.state.RemainingSeconds > 0 {
		return true
	}

	finished := s.state.Mode
	s.stopLocked()
	if finished == entities.PomodoroModeWork {
		s.state.Mode = entities.PomodoroModeBreak
	} else {
		s.state.Mode = entities.PomodoroModeWork
	}
	s.state.RemainingSeconds = s.state.PhaseMinutes() * 60

	s.metrics.ObservePomodoroPhase(string(finished))
	s.logger.Infow("Pomodoro phase finished", "finished", finished, "next", s.state.Mode)
	return false
}

func (s *PomodoroService) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.state.Running = false
}

func validMinutes(m int) bool {
	return m >= 1 && m <= entities.MaxPomodoroMinutes
}
