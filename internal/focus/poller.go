package focus

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is how often the foreground window is sampled.
const DefaultInterval = 500 * time.Millisecond

// ErrNoDisplay is returned by a Probe when no supported display is reachable.
var ErrNoDisplay = errors.New("no supported display server")

// Probe returns the name of the foreground application.
type Probe func(ctx context.Context) (string, error)

// Poller samples a Probe on an interval and writes the result to a Cell.
type Poller struct {
	writer   *Writer
	probe    Probe
	interval time.Duration
	logger   *zap.Logger

	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewPoller creates a poller. A nil probe means X11.
func NewPoller(w *Writer, probe Probe, interval time.Duration, logger *zap.Logger) *Poller {
	if probe == nil {
		probe = X11Probe
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		writer:   w,
		probe:    probe,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start begins polling in the background.
func (p *Poller) Start() {
	p.wg.Add(1)
	go p.run()
}

// Stop ends polling and waits for the loop to exit.
func (p *Poller) Stop() {
	p.once.Do(func() { close(p.stopCh) })
	p.wg.Wait()
}

func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	warned := false
	p.poll(&warned)
	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.poll(&warned)
		}
	}
}

func (p *Poller) poll(warned *bool) {
	ctx, cancel := context.WithTimeout(context.Background(), p.interval)
	defer cancel()

	app, err := p.probe(ctx)
	if err != nil {
		if !*warned {
			p.logger.Warn("cannot determine foreground application; keeping last known", zap.Error(err))
			*warned = true
		}
		return
	}
	*warned = false
	if app == "" {
		return
	}
	if p.writer.Set(app) {
		p.logger.Debug("focus changed", zap.String("app", app))
	}
}
