package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ethpandaops/codebook/pkg/filter"
	"github.com/ethpandaops/codebook/pkg/records"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnreachable = errors.New("source unreachable")

type stubSource struct {
	name    string
	records []records.Record
	err     error
	calls   int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Load(_ context.Context) ([]records.Record, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}

	return s.records, nil
}

type recordingSink struct {
	mu      sync.Mutex
	options []records.Options
	renders [][]records.Record
	err     error
}

func (s *recordingSink) RenderOptions(options records.Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.options = append(s.options, options)

	return nil
}

func (s *recordingSink) RenderRecords(result []records.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.renders = append(s.renders, result)

	return s.err
}

func (s *recordingSink) last() []records.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.renders[len(s.renders)-1]
}

func newTestEngine() *Engine {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return New(log)
}

func dataset() []records.Record {
	return []records.Record{
		{LongName: "Height", ShortName: "ht", DataType: "anthro", Cohort: "A"},
		{LongName: "Weight", ShortName: "wt", DataType: "anthro", Cohort: "A,B"},
		{LongName: "Glucose", ShortName: "glu", DataType: "lab", Cohort: "C"},
	}
}

func TestEngine_UnloadedRejectsQueries(t *testing.T) {
	e := newTestEngine()

	assert.False(t, e.Ready())
	assert.Equal(t, PhaseUnloaded, e.Status().Phase)

	result, err := e.Query(filter.DefaultState())
	require.ErrorIs(t, err, ErrNotLoaded)
	assert.Nil(t, result)

	result, err = e.OnFilterChanged()
	require.ErrorIs(t, err, ErrNotLoaded)
	assert.Nil(t, result)

	_, err = e.Options()
	require.ErrorIs(t, err, ErrNotLoaded)
}

func TestEngine_Load(t *testing.T) {
	e := newTestEngine()
	sink := &recordingSink{}
	e.Attach(sink)

	src := &stubSource{name: "stub", records: dataset()}
	require.NoError(t, e.Load(context.Background(), src))

	assert.True(t, e.Ready())

	status := e.Status()
	assert.Equal(t, PhaseReady, status.Phase)
	assert.Equal(t, "stub", status.Source)
	assert.Equal(t, 3, status.Records)
	assert.Equal(t, 0, status.Malformed)
	assert.NotEmpty(t, status.LoadID)
	assert.False(t, status.LoadedAt.IsZero())

	// Sinks receive options then the initial, unfiltered render.
	require.Len(t, sink.options, 1)
	assert.Equal(t, "all", sink.options[0].DataTypes[0].Value)
	require.Len(t, sink.renders, 1)
	assert.Equal(t, dataset(), sink.last())

	options, err := e.Options()
	require.NoError(t, err)
	assert.Len(t, options.DataTypes, 3)
	assert.Len(t, options.Cohorts, 6)
}

func TestEngine_LoadOnlyOnce(t *testing.T) {
	e := newTestEngine()
	src := &stubSource{name: "stub", records: dataset()}

	require.NoError(t, e.Load(context.Background(), src))
	require.ErrorIs(t, e.Load(context.Background(), src), ErrAlreadyLoaded)
	assert.Equal(t, 1, src.calls)
}

func TestEngine_LoadFailureStaysUnloaded(t *testing.T) {
	e := newTestEngine()
	failing := &stubSource{name: "broken", err: errUnreachable}

	err := e.Load(context.Background(), failing)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoadFailure)
	assert.ErrorIs(t, err, errUnreachable)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "broken", loadErr.Source)

	assert.False(t, e.Ready())
	_, err = e.Query(filter.DefaultState())
	require.ErrorIs(t, err, ErrNotLoaded)

	// The caller may retry with a working source.
	require.NoError(t, e.Load(context.Background(), &stubSource{name: "stub", records: dataset()}))
	assert.True(t, e.Ready())
}

func TestEngine_LoadNilSource(t *testing.T) {
	require.ErrorIs(t, newTestEngine().Load(context.Background(), nil), ErrNilSource)
}

func TestEngine_CollectionIsImmutable(t *testing.T) {
	e := newTestEngine()
	loaded := dataset()
	require.NoError(t, e.Load(context.Background(), &stubSource{name: "stub", records: loaded}))

	loaded[0].LongName = "Mutated"

	result, err := e.Query(filter.DefaultState())
	require.NoError(t, err)
	assert.Equal(t, "Height", result[0].LongName)
}

func TestEngine_OnFilterChanged(t *testing.T) {
	e := newTestEngine()
	sink := &recordingSink{}
	e.Attach(sink)
	require.NoError(t, e.Load(context.Background(), &stubSource{name: "stub", records: dataset()}))

	e.SetDataType("anthro")
	e.ToggleCohort(records.Overlapping, true)

	result, err := e.OnFilterChanged()
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Weight", result[0].LongName)
	assert.Equal(t, result, sink.last())

	e.ToggleCohort(records.Overlapping, false)
	e.SetSearch("HEI")

	result, err = e.OnFilterChanged()
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Height", result[0].LongName)

	// Rapid successive changes: the last recompute is what the sink shows.
	e.SetSearch("")
	e.SetDataType(records.All)
	e.SetCohorts("C")
	_, err = e.OnFilterChanged()
	require.NoError(t, err)
	e.SetCohorts()
	_, err = e.OnFilterChanged()
	require.NoError(t, err)

	assert.Equal(t, dataset(), sink.last())
	assert.Len(t, sink.renders, 5)
}

func TestEngine_OnFilterChangedSinkError(t *testing.T) {
	e := newTestEngine()
	sinkErr := errors.New("render failed")
	e.Attach(&recordingSink{err: sinkErr})
	require.NoError(t, e.Load(context.Background(), &stubSource{name: "stub", records: dataset()}))

	result, err := e.OnFilterChanged()
	require.ErrorIs(t, err, sinkErr)
	assert.Len(t, result, 3)
}

func TestEngine_QueryIsIndependentOfHeldState(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Load(context.Background(), &stubSource{name: "stub", records: dataset()}))

	e.SetDataType("lab")

	result, err := e.Query(filter.State{Cohorts: filter.NewCohortSet("A")})
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, "lab", e.State().DataType)

	first, err := e.Query(filter.State{Search: "w"})
	require.NoError(t, err)
	second, err := e.Query(filter.State{Search: "w"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEngine_StateMutators(t *testing.T) {
	e := newTestEngine()

	assert.Equal(t, filter.DefaultState(), e.State())

	e.SetState(filter.State{DataType: "lab"})
	assert.NotNil(t, e.State().Cohorts)

	e.SetCohorts("A", "B")
	e.ToggleCohort("B", false)
	e.ToggleCohort("D", true)
	assert.Equal(t, []string{"A", "D"}, e.State().Cohorts.Values())

	// Returned state is a copy.
	held := e.State()
	held.Cohorts["C"] = struct{}{}
	assert.False(t, e.State().Cohorts.Has("C"))
}

func TestEngine_MalformedRecords(t *testing.T) {
	e := newTestEngine()
	collection := append(dataset(), records.Record{LongName: "Cortisol", DataType: "lab", Cohort: ""})
	require.NoError(t, e.Load(context.Background(), &stubSource{name: "stub", records: collection}))

	warnings := e.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, 3, warnings[0].Index)
	assert.Equal(t, 1, e.Status().Malformed)

	// Kept for unfiltered and "all" queries.
	result, err := e.Query(filter.State{Cohorts: filter.NewCohortSet(records.All)})
	require.NoError(t, err)
	assert.Len(t, result, 4)

	// Excluded from cohort-specific queries.
	result, err = e.Query(filter.State{DataType: "lab", Cohorts: filter.NewCohortSet("A", "B", "C", "D")})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Glucose", result[0].LongName)
}

func TestEngine_EmptyCollection(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Load(context.Background(), &stubSource{name: "empty"}))

	result, err := e.Query(filter.DefaultState())
	require.NoError(t, err)
	assert.Empty(t, result)

	options, err := e.Options()
	require.NoError(t, err)
	assert.Equal(t, []records.Option{{Value: "all", Label: "all data types"}}, options.DataTypes)
}

func TestEngine_MissingDataType(t *testing.T) {
	e := newTestEngine()
	collection := []records.Record{
		{LongName: "Height", ShortName: "ht", DataType: "", Cohort: "A"},
		{LongName: "Glucose", ShortName: "glu", DataType: "lab", Cohort: "C"},
	}
	require.NoError(t, e.Load(context.Background(), &stubSource{name: "stub", records: collection}))

	options, err := e.Options()
	require.NoError(t, err)
	require.Len(t, options.DataTypes, 2)
	assert.Equal(t, records.All, options.DataTypes[0].Value)
	assert.Equal(t, "lab", options.DataTypes[1].Value)

	result, err := e.Query(filter.State{DataType: "lab"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Glucose", result[0].LongName)

	// Records without a data type stay reachable through all.
	result, err = e.Query(filter.State{DataType: records.All})
	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestEngine_ConcurrentQueries(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Load(context.Background(), &stubSource{name: "stub", records: dataset()}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e.SetSearch("")
			e.ToggleCohort("A", i%2 == 0)
			_, err := e.Query(filter.State{Cohorts: filter.NewCohortSet("A")})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}
