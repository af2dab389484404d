package capture

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/blackwell-systems/coca/internal/events"
	"github.com/blackwell-systems/coca/internal/focus"
	"github.com/blackwell-systems/coca/internal/keys"
	"github.com/blackwell-systems/coca/internal/settings"
	"github.com/blackwell-systems/coca/internal/source"
)

// PollTimeout bounds each wait on the event source.
const PollTimeout = 250 * time.Millisecond

// Log is the append side of the record store.
type Log interface {
	Put(key, value []byte) error
	AcquireWriter() (release func(), err error)
}

// Worker records samples from a source until stopped, the source closes
// or a write fails.
type Worker struct {
	log    Log
	src    source.Source
	focus  *focus.Cell
	shared *settings.Shared
	logger *zap.Logger

	filter *Filter
	seq    *keys.Sequencer
	labels map[string]string

	stopCh  chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	stop    sync.Once
	release func()

	mu  sync.Mutex
	err error

	written atomic.Uint64
	dropped atomic.Uint64
}

// New creates a Worker. The focus cell and logger may be nil.
func New(log Log, src source.Source, cell *focus.Cell, shared *settings.Shared, logger *zap.Logger) (*Worker, error) {
	if log == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if src == nil {
		return nil, fmt.Errorf("event source cannot be nil")
	}
	if cell == nil {
		cell, _ = focus.NewCell()
	}
	if shared == nil {
		shared = settings.NewShared(settings.Default())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		log:    log,
		src:    src,
		focus:  cell,
		shared: shared,
		logger: logger,
		filter: NewFilter(),
		seq:    keys.NewSequencer(keys.CurrentVersion),
		labels: make(map[string]string),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

// Start claims the store's writer slot and begins recording.
func (w *Worker) Start() error {
	release, err := w.log.AcquireWriter()
	if err != nil {
		return err
	}
	w.release = release

	w.wg.Add(1)
	go w.run()
	return nil
}

// Stop halts recording, waits for the loop to exit and returns Err.
func (w *Worker) Stop() error {
	w.stop.Do(func() { close(w.stopCh) })
	w.wg.Wait()
	return w.Err()
}

// Done is closed when the recording loop has exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Err returns the error that ended recording, if any.
func (w *Worker) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Written returns the number of records appended.
func (w *Worker) Written() uint64 { return w.written.Load() }

// Dropped returns the number of samples rejected by the precision filter.
func (w *Worker) Dropped() uint64 { return w.dropped.Load() }

func (w *Worker) run() {
	defer w.wg.Done()
	defer close(w.done)
	defer func() {
		if w.release != nil {
			w.release()
		}
	}()

	for {
		select {
		case <-w.stopCh:
			return
		default:
		}

		sample, ok, err := w.src.Next(PollTimeout)
		if errors.Is(err, source.ErrSourceClosed) {
			w.logger.Info("event source closed; recording stopped")
			return
		}
		if err != nil {
			w.fail(fmt.Errorf("failed to read event source: %w", err))
			return
		}
		if !ok {
			continue
		}

		if err := w.handle(sample); err != nil {
			w.fail(err)
			return
		}
	}
}

func (w *Worker) handle(sample source.Sample) error {
	if !w.filter.Admit(sample.Event, w.shared.Precision()) {
		w.dropped.Add(1)
		return nil
	}

	if sample.Event.Kind == events.KindConnected && sample.Label != "" {
		w.labels[sample.Device] = sample.Label
	}
	label, ok := w.labels[sample.Device]
	if !ok {
		label = sample.Label
	}

	ms := sample.At.UnixMilli()
	if ms < 0 {
		ms = 0
	}
	key := w.seq.Next(uint64(ms))

	rec := events.Record{
		At:     key.Timestamp,
		Device: label,
		App:    w.focus.Current(),
		Event:  sample.Event,
	}
	value, err := rec.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	if err := w.log.Put(key.Bytes(), value); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	w.written.Add(1)

	w.logger.Debug("recorded",
		zap.String("event", sample.Event.String()),
		zap.String("device", label),
		zap.String("app", rec.App),
		zap.Uint64("at", rec.At))
	return nil
}

func (w *Worker) fail(err error) {
	w.logger.Error("recording stopped", zap.Error(err))
	w.mu.Lock()
	w.err = err
	w.mu.Unlock()
}
