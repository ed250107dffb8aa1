package session

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Manager runs several orchestrators concurrently. Games are fully
// independent; the first fatal error cancels the rest.
type Manager struct {
	logger        *log.Logger
	orchestrators []*Orchestrator
}

// NewManager creates a manager over the given orchestrators
func NewManager(logger *log.Logger, orchestrators ...*Orchestrator) *Manager {
	return &Manager{
		logger:        logger.WithPrefix("manager"),
		orchestrators: orchestrators,
	}
}

// Run plays every game to completion and returns the first error
func (m *Manager) Run(ctx context.Context) error {
	m.logger.Info("starting games", "count", len(m.orchestrators))

	g, ctx := errgroup.WithContext(ctx)
	for _, o := range m.orchestrators {
		g.Go(func() error {
			return o.Run(ctx)
		})
	}
	return g.Wait()
}
