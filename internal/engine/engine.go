package engine

import (
	"fmt"
	"sync"

	"github.com/venuekit/gate-discovery-go/internal/models"
)

// IngestStats counts the scans an event's stream has seen
type IngestStats struct {
	Processed int64 `json:"processed"`
	Rejected  int64 `json:"rejected"`
}

// Engine routes scan events to per-event workers. Each event ID gets its own
// worker goroutine with exclusive ownership of that event's candidate set, so
// different events run fully in parallel without any shared mutable state or
// locks on the hot path.
type Engine struct {
	provider ConfigProvider
	sink     Sink

	mu      sync.Mutex
	workers map[string]*worker
	stats   map[string]*IngestStats
	closed  bool
	wg      sync.WaitGroup
}

// New creates an engine delivering outputs to the given sink, resolving
// per-event thresholds through the provider
func New(provider ConfigProvider, sink Sink) *Engine {
	return &Engine{
		provider: provider,
		sink:     sink,
		workers:  make(map[string]*worker),
		stats:    make(map[string]*IngestStats),
	}
}

// Submit hands a scan event to its event's worker, spawning the worker on
// first contact. The worker's configuration is resolved and validated at
// spawn; an invalid configuration fails here, before any event is folded.
// Submit blocks when the worker's inbox is full.
func (e *Engine) Submit(ev models.ScanEvent) error {
	if ev.EventID == "" {
		return &InvalidEventError{Field: "eventId", Reason: "missing"}
	}

	// A worker can crash between lookup and send; retry once against the
	// clean replacement before giving up.
	for attempt := 0; attempt < 2; attempt++ {
		w, err := e.workerFor(ev.EventID)
		if err != nil {
			return err
		}
		select {
		case w.events <- ev:
			return nil
		case <-w.dead:
			continue
		case <-w.quit:
			return fmt.Errorf("engine is shut down")
		}
	}
	return fmt.Errorf("worker for event %s is restarting, scan dropped", ev.EventID)
}

// workerFor returns the live worker for an event, spawning one if needed
func (e *Engine) workerFor(eventID string) (*worker, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, fmt.Errorf("engine is shut down")
	}
	if w, ok := e.workers[eventID]; ok {
		return w, nil
	}

	cfg, err := e.provider.ConfigFor(eventID)
	if err != nil {
		return nil, fmt.Errorf("resolving configuration for event %s: %w", eventID, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := newWorker(eventID, cfg, e.sink, e.removeWorker, e.recordEvent)
	e.workers[eventID] = w
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		w.run()
	}()
	return w, nil
}

// removeWorker drops a worker from the routing table once its loop has
// exited. A crashed worker is simply forgotten; the next Submit for its
// event spawns a clean replacement, leaving every other event untouched.
func (e *Engine) removeWorker(w *worker, crashed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if current, ok := e.workers[w.eventID]; ok && current == w {
		delete(e.workers, w.eventID)
	}
}

// recordEvent tracks processed/rejected counts per event, surviving worker
// restarts
func (e *Engine) recordEvent(eventID string, rejected bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.stats[eventID]
	if !ok {
		s = &IngestStats{}
		e.stats[eventID] = s
	}
	if rejected {
		s.Rejected++
	} else {
		s.Processed++
	}
}

// Stats returns the ingest counters for an event
func (e *Engine) Stats(eventID string) IngestStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.stats[eventID]; ok {
		return *s
	}
	return IngestStats{}
}

// Config resolves and validates the configuration for an event, for audit
// surfaces that re-run detection outside a worker
func (e *Engine) Config(eventID string) (models.Configuration, error) {
	cfg, err := e.provider.ConfigFor(eventID)
	if err != nil {
		return models.Configuration{}, err
	}
	if err := cfg.Validate(); err != nil {
		return models.Configuration{}, err
	}
	return cfg, nil
}

// Close stops every worker, draining scans already accepted into worker
// inboxes, and waits for the folds to finish.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	workers := make([]*worker, 0, len(e.workers))
	for _, w := range e.workers {
		workers = append(workers, w)
	}
	e.mu.Unlock()

	for _, w := range workers {
		close(w.quit)
	}
	e.wg.Wait()
}
