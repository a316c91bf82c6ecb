package handlers

import (
	"errors"

	"github.com/ethpandaops/codebook/pkg/engine"
	"github.com/ethpandaops/codebook/pkg/filter"
	"github.com/ethpandaops/codebook/pkg/records"
	"github.com/gofiber/fiber/v3"
)

// RecordsResponse is the body of GET /records
type RecordsResponse struct {
	Records []records.Record `json:"records"`
	Total   int              `json:"total"`
}

// StatusResponse is the body of GET /status
type StatusResponse struct {
	engine.Status
	Warnings []*records.MalformedRecordError `json:"warnings"`
}

// ListOptions returns the derived option sets
func (s *Server) ListOptions(c fiber.Ctx) error {
	options, err := s.engine.Options()
	if err != nil {
		return s.engineError(err)
	}

	return c.Status(fiber.StatusOK).JSON(options)
}

// ListRecords returns the records matching the filter given in the query string
func (s *Server) ListRecords(c fiber.Ctx) error {
	state, err := parseState(c)
	if err != nil {
		return err
	}

	result, err := s.engine.Query(state)
	if err != nil {
		return s.engineError(err)
	}

	return c.Status(fiber.StatusOK).JSON(RecordsResponse{
		Records: result,
		Total:   len(result),
	})
}

// GetStatus returns the engine lifecycle and load warnings
func (s *Server) GetStatus(c fiber.Ctx) error {
	warnings := s.engine.Warnings()
	if warnings == nil {
		warnings = []*records.MalformedRecordError{}
	}

	return c.Status(fiber.StatusOK).JSON(StatusResponse{
		Status:   s.engine.Status(),
		Warnings: warnings,
	})
}

func (s *Server) engineError(err error) error {
	if errors.Is(err, engine.ErrNotLoaded) {
		return ErrNotReady
	}

	s.log.WithError(err).Error("Engine request failed")

	return fiber.ErrInternalServerError
}

// parseState reads data_type, search and cohort parameters. Cohorts may be
// repeated (cohort=A&cohort=B) or comma separated (cohort=A,B). The data type
// is matched verbatim, so surrounding whitespace is significant.
func parseState(c fiber.Ctx) (filter.State, error) {
	state := filter.DefaultState()

	if dataType := c.Query("data_type"); dataType != "" {
		state.DataType = dataType
	}

	state.Search = c.Query("search")

	peeked := c.Request().URI().QueryArgs().PeekMulti("cohort")
	raw := make([]string, 0, len(peeked))

	for _, value := range peeked {
		raw = append(raw, string(value))
	}

	cohorts, err := filter.ParseCohorts(raw...)
	if err != nil {
		if errors.Is(err, filter.ErrUnknownCohort) {
			return state, ErrInvalidCohort
		}

		return state, err
	}

	state.Cohorts = cohorts

	return state, nil
}
