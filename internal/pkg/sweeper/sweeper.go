package sweeper

import (
	"sync"
	"time"

	"bizz_marketplace/pkg/logger"

	"go.uber.org/zap"
)

// Ledger is the sweep entry point of the redemption ledger.
type Ledger interface {
	SweepExpiredOffers(now time.Time) (int64, error)
}

// Sweeper periodically deactivates expired offers. Failures are logged and
// left for the next tick; the sweep predicate is idempotent so nothing is
// lost by skipping a run.
type Sweeper struct {
	ledger   Ledger
	interval time.Duration

	mu       sync.Mutex
	stopChan chan struct{}
	doneChan chan struct{}
	running  bool
}

// New creates a sweeper with the given tick interval.
func New(ledger Ledger, interval time.Duration) *Sweeper {
	return &Sweeper{
		ledger:   ledger,
		interval: interval,
	}
}

// Start launches the sweep loop. One immediate sweep runs at startup so a
// restart doesn't wait a full interval to catch up.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	stop, done := s.stopChan, s.doneChan

	logger.Log.Info("offer expiry sweeper started", zap.Duration("interval", s.interval))

	go func() {
		defer close(done)

		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-stop:
				logger.Log.Info("offer expiry sweeper stopped")
				return
			}
		}
	}()
}

// Stop halts the sweep loop and waits for it to exit.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	close(s.stopChan)
	<-s.doneChan
	s.running = false
}

func (s *Sweeper) sweep() {
	deactivated, err := s.ledger.SweepExpiredOffers(time.Now())
	if err != nil {
		logger.Log.Error("offer expiry sweep failed", zap.Error(err))
		return
	}
	if deactivated > 0 {
		logger.Log.Info("deactivated expired offers", zap.Int64("count", deactivated))
	}
}
