// Package handlers implements the request handlers for the codebook API.
package handlers

import (
	"github.com/ethpandaops/codebook/pkg/engine"
	"github.com/ethpandaops/codebook/pkg/filter"
	"github.com/ethpandaops/codebook/pkg/records"
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// Engine is the read side of the query engine used by the handlers
type Engine interface {
	Options() (records.Options, error)
	Query(state filter.State) ([]records.Record, error)
	Status() engine.Status
	Warnings() []*records.MalformedRecordError
}

// Server holds the API handlers
type Server struct {
	engine Engine
	log    logrus.FieldLogger
}

// NewServer creates a new API server instance
func NewServer(eng Engine, log logrus.FieldLogger) *Server {
	return &Server{
		engine: eng,
		log:    log.WithField("component", "api.handlers"),
	}
}

// Register mounts the handlers on router
func (s *Server) Register(router fiber.Router) {
	router.Get("/options", s.ListOptions)
	router.Get("/records", s.ListRecords)
	router.Get("/status", s.GetStatus)
}

// Ensure we satisfy the interface at compile time
var _ Engine = (*engine.Engine)(nil)
