package engine

import "github.com/ethpandaops/codebook/pkg/filter"

// State returns a copy of the held filter state
func (e *Engine) State() filter.State {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.state.Clone()
}

// SetState replaces the held filter state
func (e *Engine) SetState(state filter.State) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = state.Clone()
	if e.state.Cohorts == nil {
		e.state.Cohorts = filter.NewCohortSet()
	}
}

// SetDataType selects a data type, or records.All
func (e *Engine) SetDataType(dataType string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.DataType = dataType
}

// SetCohorts replaces the selected cohorts
func (e *Engine) SetCohorts(values ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Cohorts = filter.NewCohortSet(values...)
}

// ToggleCohort checks or unchecks a single cohort value
func (e *Engine) ToggleCohort(value string, checked bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Cohorts == nil {
		e.state.Cohorts = filter.NewCohortSet()
	}

	if checked {
		e.state.Cohorts[value] = struct{}{}
	} else {
		delete(e.state.Cohorts, value)
	}
}

// SetSearch sets the raw search text
func (e *Engine) SetSearch(search string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Search = search
}
