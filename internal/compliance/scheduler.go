package compliance

import (
	"sync"
	"time"

	"sleighwatch/internal/logging"
)

// Scheduler fires compliance checks on a free-running timer: once after
// firstDelay, then every interval. It never touches session state
// itself; fire runs on the scheduler goroutine and should post into the
// owning loop (e.g. tea.Program.Send), which then calls
// Session.TryStart with a freshly read remaining count.
type Scheduler struct {
	firstDelay time.Duration
	interval   time.Duration
	fire       func()

	mu       sync.Mutex
	started  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewScheduler builds a scheduler; call Start to arm it.
func NewScheduler(firstDelay, interval time.Duration, fire func()) *Scheduler {
	return &Scheduler{
		firstDelay: firstDelay,
		interval:   interval,
		fire:       fire,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start arms the timer. The first fire lands after firstDelay so the
// behavior is observable quickly; subsequent fires follow interval.
// Calling Start twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	go s.run()
}

func (s *Scheduler) run() {
	defer close(s.done)

	timer := time.NewTimer(s.firstDelay)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			s.fire()
			timer.Reset(s.interval)
		case <-s.stop:
			return
		}
	}
}

// Stop cancels the timer and waits for the scheduler goroutine to
// exit, so no fire can land after Stop returns. Idempotent.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		logging.Compliance("interrupt scheduler stopped")
	})

	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.done
	}
}
