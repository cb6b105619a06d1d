package engine

import (
	"log"

	"github.com/venuekit/gate-discovery-go/internal/models"
)

// workerQueueSize bounds the per-event inbox; Submit blocks once it fills,
// giving natural backpressure to the ingestion collaborator
const workerQueueSize = 256

// worker owns one event's candidate set and folds that event's scan stream
// strictly in arrival order. Nothing it mutates is visible outside the
// goroutine; outputs leave through the sink as snapshots.
type worker struct {
	eventID     string
	cfg         models.Configuration
	agg         *Aggregator
	suggestions map[string]models.MergeSuggestion // keyed by pair
	sink        Sink

	events chan models.ScanEvent
	quit   chan struct{}
	dead   chan struct{} // closed when the loop has exited

	// onExit is called exactly once when the loop ends; crashed is true
	// when an internal invariant violation killed the worker
	onExit func(w *worker, crashed bool)
	// onEvent reports each processed/rejected event for stats tracking
	onEvent func(eventID string, rejected bool)
}

func newWorker(eventID string, cfg models.Configuration, sink Sink,
	onExit func(*worker, bool), onEvent func(string, bool)) *worker {
	return &worker{
		eventID:     eventID,
		cfg:         cfg,
		agg:         NewAggregator(eventID, cfg),
		suggestions: make(map[string]models.MergeSuggestion),
		sink:        sink,
		events:      make(chan models.ScanEvent, workerQueueSize),
		quit:        make(chan struct{}),
		dead:        make(chan struct{}),
		onExit:      onExit,
		onEvent:     onEvent,
	}
}

// run is the worker loop. An invariant violation (ErrUnscored surfacing from
// scoring or decision logic) panics out of handle; the recover isolates the
// failure to this event: the supervisor drops the worker and a fresh one is
// spawned on the event's next scan.
func (w *worker) run() {
	crashed := false
	defer func() {
		if r := recover(); r != nil {
			crashed = true
			log.Printf("[Engine] worker for event %s crashed: %v", w.eventID, r)
		}
		close(w.dead)
		w.onExit(w, crashed)
	}()

	for {
		select {
		case ev := <-w.events:
			w.handle(ev)
		case <-w.quit:
			// Drain scans already accepted before exiting.
			for {
				select {
				case ev := <-w.events:
					w.handle(ev)
				default:
					return
				}
			}
		}
	}
}

// handle runs the full pipeline for one scan event: aggregate, and when the
// candidate changed materially, score, re-detect merges, decide, and push
// snapshots out. Everything completes before the next event is received,
// which is what gives external readers read-after-write consistency.
func (w *worker) handle(ev models.ScanEvent) {
	id, changed, err := w.agg.Apply(ev)
	if err != nil {
		log.Printf("[Engine] event %s: rejected scan for tag %q: %v", w.eventID, ev.DeclaredTag, err)
		w.onEvent(w.eventID, true)
		return
	}
	w.onEvent(w.eventID, false)
	if !changed {
		return
	}

	c, ok := w.agg.get(id.DeclaredTag)
	if !ok {
		return
	}

	// Below the scoring minimum the candidate is visible to collaborators
	// (count, centroid) but carries no score, no disposition, and takes no
	// part in merge detection.
	if c.pos.Count < w.cfg.MinEventsForCandidate {
		w.upsert(c.snapshot())
		return
	}

	score, err := Score(c.stats(), w.cfg.MinEventsForCandidate)
	if err != nil {
		panic(err)
	}
	c.score = score
	c.scored = true

	w.redetect(c)
}

// redetect re-runs merge detection for a scored candidate, then re-decides
// it and every partner whose suggestion set changed
func (w *worker) redetect(c *candidate) {
	snap := c.snapshot()

	others := make([]models.Candidate, 0)
	for _, o := range w.agg.all() {
		if o.id != c.id && o.scored {
			others = append(others, o.snapshot())
		}
	}

	fresh, err := Evaluate(snap, others, w.cfg)
	if err != nil {
		panic(err)
	}

	// Replace every suggestion involving this candidate; partners on either
	// side of the replacement may need their disposition refreshed.
	affected := make(map[models.CandidateID]struct{})
	for key, s := range w.suggestions {
		if s.Involves(c.id) {
			affected[s.Partner(c.id)] = struct{}{}
			delete(w.suggestions, key)
		}
	}
	for _, s := range fresh {
		w.suggestions[s.PairKey()] = s
		affected[s.Partner(c.id)] = struct{}{}
	}

	w.decide(c)
	for partnerID := range affected {
		if p, ok := w.agg.get(partnerID.DeclaredTag); ok && p.scored {
			w.decide(p)
		}
	}

	if err := w.sink.ReplaceSuggestions(w.eventID, c.id, fresh); err != nil {
		log.Printf("[Engine] event %s: suggestion sink error: %v", w.eventID, err)
	}
}

// decide refreshes one scored candidate's disposition and pushes the snapshot
func (w *worker) decide(c *candidate) {
	disposition, target, err := Decide(c.snapshot(), w.suggestionsFor(c.id), w.cfg)
	if err != nil {
		panic(err)
	}
	c.disposition = disposition
	c.mergeTarget = target
	w.upsert(c.snapshot())
}

func (w *worker) suggestionsFor(id models.CandidateID) []models.MergeSuggestion {
	var out []models.MergeSuggestion
	for _, s := range w.suggestions {
		if s.Involves(id) {
			out = append(out, s)
		}
	}
	return out
}

func (w *worker) upsert(snap models.Candidate) {
	if err := w.sink.UpsertCandidate(snap); err != nil {
		log.Printf("[Engine] event %s: candidate sink error: %v", w.eventID, err)
	}
}
