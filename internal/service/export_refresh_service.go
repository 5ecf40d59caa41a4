package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"clinical-registry/internal/infrastructure/export"

	"github.com/sirupsen/logrus"
)

const (
	exportRefreshTimeout = 2 * time.Minute

	// exportMaxWaitFactor bounds how long sustained triggers can postpone a
	// refresh, in multiples of the debounce window.
	exportMaxWaitFactor = 5
)

// TableSource supplies the full patient table for an export run.
type TableSource interface {
	ExportTable(ctx context.Context) (*export.Table, error)
}

// ExportRefreshService regenerates the export artifacts in the background.
//
// Mutations call Trigger, which never blocks. Triggers arriving within the
// debounce window of each other collapse into a single refresh, so a burst of
// writes renders the artifacts once. Under a steady stream of writes a
// refresh still runs at least every maxWait.
type ExportRefreshService struct {
	source    TableSource
	renderers []export.Renderer
	sinks     []export.Sink
	debounce  time.Duration
	maxWait   time.Duration
	log       *logrus.Logger

	// refreshMu serializes refreshes so concurrent runs cannot interleave sink writes.
	refreshMu sync.Mutex

	triggerChan chan struct{}
	stopChan    chan struct{}
	wg          sync.WaitGroup
	stopped     atomic.Bool
}

// NewExportRefreshService starts the debounce goroutine. Call Stop() during
// graceful shutdown.
func NewExportRefreshService(
	source TableSource,
	renderers []export.Renderer,
	sinks []export.Sink,
	debounce time.Duration,
	log *logrus.Logger,
) *ExportRefreshService {
	svc := &ExportRefreshService{
		source:      source,
		renderers:   renderers,
		sinks:       sinks,
		debounce:    debounce,
		maxWait:     exportMaxWaitFactor * debounce,
		log:         log,
		triggerChan: make(chan struct{}, 1),
		stopChan:    make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.loop()

	return svc
}

// Trigger schedules a refresh after the debounce window.
func (s *ExportRefreshService) Trigger() {
	if s.stopped.Load() {
		return
	}
	select {
	case s.triggerChan <- struct{}{}:
	default:
		// a trigger is already queued
	}
}

// Stop flushes a pending refresh and waits for the goroutine to exit.
// Safe to call multiple times.
func (s *ExportRefreshService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("ExportRefreshService stopped")
	}
}

// Refresh renders every configured format and writes it to every sink.
// Failures of one format or sink do not stop the others.
func (s *ExportRefreshService) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	startTime := time.Now()

	table, err := s.source.ExportTable(ctx)
	if err != nil {
		return fmt.Errorf("load export table: %w", err)
	}

	var errs []error
	for _, r := range s.renderers {
		var buf bytes.Buffer
		if err := r.Render(&buf, table); err != nil {
			errs = append(errs, fmt.Errorf("render %s: %w", r.Format(), err))
			continue
		}

		for _, sink := range s.sinks {
			if err := sink.Put(ctx, r.FileName(), r.ContentType(), buf.Bytes()); err != nil {
				errs = append(errs, fmt.Errorf("write %s to %s: %w", r.FileName(), sink.Name(), err))
			}
		}
	}

	s.log.Debugf("Export refresh: %d rows, %d formats in %v", len(table.Rows), len(s.renderers), time.Since(startTime))
	return errors.Join(errs...)
}

func (s *ExportRefreshService) loop() {
	defer s.wg.Done()

	// Stop and Reset discard stale ticks (Go 1.23 timer semantics), so the
	// channel is never drained by hand.
	timer := time.NewTimer(s.debounce)
	timer.Stop()
	pending := false
	var deadline time.Time

	for {
		select {
		case <-s.triggerChan:
			if !pending {
				deadline = time.Now().Add(s.maxWait)
				pending = true
			}
			wait := s.debounce
			if remaining := time.Until(deadline); remaining < wait {
				wait = remaining
			}
			timer.Reset(wait)

		case <-timer.C:
			pending = false
			s.runRefresh()

		case <-s.stopChan:
			if pending || s.drainTrigger() {
				timer.Stop()
				s.runRefresh()
			}
			s.log.Debug("Export refresh goroutine stopping")
			return
		}
	}
}

func (s *ExportRefreshService) drainTrigger() bool {
	select {
	case <-s.triggerChan:
		return true
	default:
		return false
	}
}

func (s *ExportRefreshService) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), exportRefreshTimeout)
	defer cancel()

	if err := s.Refresh(ctx); err != nil {
		s.log.Errorf("Export refresh failed: %+v", err)
	}
}
