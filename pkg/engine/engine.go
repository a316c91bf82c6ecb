// Package engine owns a loaded record collection and the current filter state,
// and recomputes the filtered result whenever the state changes.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ethpandaops/codebook/pkg/filter"
	"github.com/ethpandaops/codebook/pkg/observability"
	"github.com/ethpandaops/codebook/pkg/records"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Phase is the lifecycle state of an engine
type Phase string

const (
	// PhaseUnloaded is the state before a collection has loaded; queries are rejected
	PhaseUnloaded Phase = "unloaded"
	// PhaseReady is the state after a successful load; queries always succeed
	PhaseReady Phase = "ready"
)

// Source supplies the record collection once
type Source interface {
	Name() string
	Load(ctx context.Context) ([]records.Record, error)
}

// Sink presents derived options and filtered results
type Sink interface {
	RenderOptions(options records.Options) error
	RenderRecords(result []records.Record) error
}

// Status summarises the engine for health and API consumers
type Status struct {
	Phase     Phase     `json:"phase"`
	LoadID    string    `json:"load_id,omitempty"`
	Source    string    `json:"source,omitempty"`
	Records   int       `json:"records"`
	Malformed int       `json:"malformed"`
	LoadedAt  time.Time `json:"loaded_at,omitempty"`
}

// Engine is the query engine. The collection is immutable once loaded.
type Engine struct {
	log logrus.FieldLogger

	mu       sync.RWMutex
	phase    Phase
	loading  bool
	loadID   string
	source   string
	loadedAt time.Time

	collection []records.Record
	options    records.Options
	warnings   []*records.MalformedRecordError

	state filter.State
	sinks []Sink
}

// New creates an unloaded engine with the default filter state
func New(log logrus.FieldLogger) *Engine {
	return &Engine{
		log:   log.WithField("component", "engine"),
		phase: PhaseUnloaded,
		state: filter.DefaultState(),
	}
}

// Attach registers a sink. Sinks receive options after load and results after every recompute.
func (e *Engine) Attach(sink Sink) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.sinks = append(e.sinks, sink)
}

// Load fetches the collection from src and moves the engine to ready.
// A failed load leaves the engine unloaded and may be retried by the caller.
func (e *Engine) Load(ctx context.Context, src Source) error {
	if src == nil {
		return ErrNilSource
	}

	e.mu.Lock()
	if e.phase == PhaseReady {
		e.mu.Unlock()
		return ErrAlreadyLoaded
	}

	if e.loading {
		e.mu.Unlock()
		return ErrLoadInProgress
	}

	e.loading = true
	e.mu.Unlock()

	loadID := uuid.New().String()
	log := e.log.WithFields(logrus.Fields{
		"load_id": loadID,
		"source":  src.Name(),
	})

	log.Info("Loading dataset")

	loaded, err := src.Load(ctx)
	if err != nil {
		e.mu.Lock()
		e.loading = false
		e.mu.Unlock()

		observability.RecordLoad(src.Name(), "failed")
		log.WithError(err).Error("Failed to load dataset")

		return &LoadError{Source: src.Name(), Err: err}
	}

	collection := make([]records.Record, len(loaded))
	copy(collection, loaded)

	options := records.DeriveOptions(collection)
	warnings := records.Validate(collection)

	for _, w := range warnings {
		log.WithFields(logrus.Fields{
			"index":     w.Index,
			"long_name": w.LongName,
		}).Warn(w.Reason)
	}

	e.mu.Lock()
	e.collection = collection
	e.options = options
	e.warnings = warnings
	e.loadID = loadID
	e.source = src.Name()
	e.loadedAt = time.Now()
	e.phase = PhaseReady
	e.loading = false
	state := e.state.Clone()
	sinks := append([]Sink(nil), e.sinks...)
	e.mu.Unlock()

	observability.RecordLoad(src.Name(), "success")
	observability.SetDatasetSize(len(collection), len(warnings))

	log.WithFields(logrus.Fields{
		"records":    len(collection),
		"data_types": len(options.DataTypes) - 1,
		"malformed":  len(warnings),
	}).Info("Dataset loaded")

	for _, sink := range sinks {
		if err := sink.RenderOptions(options); err != nil {
			log.WithError(err).Error("Sink failed to render options")
		}
	}

	result := e.run(collection, state)
	if err := deliver(sinks, result); err != nil {
		log.WithError(err).Error("Sink failed to render records")
	}

	return nil
}

// Ready reports whether the collection has loaded
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.phase == PhaseReady
}

// Status returns a snapshot of the engine lifecycle
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return Status{
		Phase:     e.phase,
		LoadID:    e.loadID,
		Source:    e.source,
		Records:   len(e.collection),
		Malformed: len(e.warnings),
		LoadedAt:  e.loadedAt,
	}
}

// Options returns the derived option sets
func (e *Engine) Options() (records.Options, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.phase != PhaseReady {
		return records.Options{}, ErrNotLoaded
	}

	return e.options, nil
}

// Warnings returns the malformed records found at load time
func (e *Engine) Warnings() []*records.MalformedRecordError {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return append([]*records.MalformedRecordError(nil), e.warnings...)
}

// Query filters the full collection with state, independent of the held filter state
func (e *Engine) Query(state filter.State) ([]records.Record, error) {
	collection, err := e.snapshot()
	if err != nil {
		observability.RecordQuery("rejected", 0, 0)
		return nil, err
	}

	return e.run(collection, state), nil
}

// OnFilterChanged recomputes the result for the held filter state and hands it to the attached sinks
func (e *Engine) OnFilterChanged() ([]records.Record, error) {
	e.mu.RLock()
	if e.phase != PhaseReady {
		e.mu.RUnlock()
		observability.RecordQuery("rejected", 0, 0)

		return nil, ErrNotLoaded
	}

	collection := e.collection
	state := e.state.Clone()
	sinks := append([]Sink(nil), e.sinks...)
	e.mu.RUnlock()

	result := e.run(collection, state)

	return result, deliver(sinks, result)
}

func (e *Engine) snapshot() ([]records.Record, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.phase != PhaseReady {
		return nil, ErrNotLoaded
	}

	return e.collection, nil
}

func (e *Engine) run(collection []records.Record, state filter.State) []records.Record {
	start := time.Now()
	result := filter.Apply(collection, filter.Compose(state))
	elapsed := time.Since(start)

	observability.RecordQuery("success", elapsed.Seconds(), len(result))

	e.log.WithFields(logrus.Fields{
		"data_type": state.DataType,
		"cohorts":   state.Cohorts.Values(),
		"search":    state.Search,
		"matched":   len(result),
		"total":     len(collection),
	}).Debug("Applied filters")

	return result
}

func deliver(sinks []Sink, result []records.Record) error {
	var errs []error

	for _, sink := range sinks {
		if err := sink.RenderRecords(result); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
