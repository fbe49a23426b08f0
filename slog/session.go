package slog

import (
	"log/slog"

	"github.com/pagelens/pagelens"
)

// Ensure LoggingSessions implements pagelens.SessionService.
var _ pagelens.SessionService = (*LoggingSessions)(nil)

// LoggingSessions wraps a SessionService with debug logging for session
// lifecycle transitions.
type LoggingSessions struct {
	next   pagelens.SessionService
	logger *slog.Logger
}

// NewLoggingSessions creates a new LoggingSessions.
func NewLoggingSessions(next pagelens.SessionService, logger *slog.Logger) *LoggingSessions {
	return &LoggingSessions{next: next, logger: logger}
}

// ActivateTab logs the new generation and delegates.
func (s *LoggingSessions) ActivateTab(tabID string) uint64 {
	gen := s.next.ActivateTab(tabID)
	s.logger.Debug("tab activated", "tabID", tabID, "generation", gen)
	return gen
}

// CompleteNavigation logs the new generation and delegates.
func (s *LoggingSessions) CompleteNavigation(tabID string) uint64 {
	gen := s.next.CompleteNavigation(tabID)
	s.logger.Debug("navigation complete", "tabID", tabID, "generation", gen)
	return gen
}

// StoreSnapshot logs acceptance or rejection and delegates.
func (s *LoggingSessions) StoreSnapshot(tabID string, generation uint64, snap *pagelens.Snapshot) error {
	err := s.next.StoreSnapshot(tabID, generation, snap)
	s.logger.Debug("snapshot stored",
		"tabID", tabID,
		"generation", generation,
		"err", err,
	)
	return err
}

// MergeSelection delegates to the wrapped service.
func (s *LoggingSessions) MergeSelection(tabID string, generation uint64, text string) {
	s.next.MergeSelection(tabID, generation, text)
}

// CloseTab logs the removal and delegates.
func (s *LoggingSessions) CloseTab(tabID string) {
	s.next.CloseTab(tabID)
	s.logger.Debug("tab closed", "tabID", tabID)
}

// CurrentSnapshot delegates to the wrapped service.
func (s *LoggingSessions) CurrentSnapshot(tabID string) (*pagelens.Snapshot, error) {
	return s.next.CurrentSnapshot(tabID)
}

// ActiveTab delegates to the wrapped service.
func (s *LoggingSessions) ActiveTab() (string, bool) {
	return s.next.ActiveTab()
}
