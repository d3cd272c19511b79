package persist

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Saver debounces snapshot writes. Any mutation arms a single pending
// timer; further mutations are absorbed into that flush. The builder runs
// at flush time so the write always captures current state, never a stale
// snapshot captured at arm time. Write failures are logged and absorbed:
// the in-memory maps stay authoritative.
type Saver struct {
	path  string
	delay time.Duration
	build func() SnapshotV1

	mu     sync.Mutex
	timer  *time.Timer
	armed  bool
	closed bool

	autosaveStop chan struct{}
	autosaveDone chan struct{}
}

func NewSaver(path string, delay time.Duration, build func() SnapshotV1) *Saver {
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return &Saver{path: path, delay: delay, build: build}
}

// Schedule arms the debounce timer, or no-ops if a flush is already
// pending.
func (s *Saver) Schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.armed {
		return
	}
	s.armed = true
	s.timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		s.armed = false
		s.mu.Unlock()
		s.flush()
	})
}

// Flush writes immediately and disarms any pending timer.
func (s *Saver) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.armed = false
	s.mu.Unlock()
	s.flush()
}

func (s *Saver) flush() {
	snap := s.build()
	if err := Write(s.path, snap); err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("snapshot write failed")
		return
	}
	log.Debug().Str("path", s.path).Msg("snapshot written")
}

// StartAutosave flushes on a fixed interval so state reaches disk even
// without an intervening mutation.
func (s *Saver) StartAutosave(every time.Duration) {
	if every <= 0 {
		return
	}
	s.mu.Lock()
	if s.autosaveStop != nil || s.closed {
		s.mu.Unlock()
		return
	}
	s.autosaveStop = make(chan struct{})
	s.autosaveDone = make(chan struct{})
	stop, done := s.autosaveStop, s.autosaveDone
	s.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.flush()
			}
		}
	}()
}

// Close stops background work and forces a final flush.
func (s *Saver) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.armed = false
	stop, done := s.autosaveStop, s.autosaveDone
	s.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
	s.flush()
}
