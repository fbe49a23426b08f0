package mock

import "github.com/pagelens/pagelens"

var _ pagelens.SessionService = (*SessionService)(nil)

// SessionService is a mock implementation of pagelens.SessionService.
type SessionService struct {
	CurrentSnapshotFn    func(tabID string) (*pagelens.Snapshot, error)
	ActiveTabFn          func() (string, bool)
	ActivateTabFn        func(tabID string) uint64
	CompleteNavigationFn func(tabID string) uint64
	StoreSnapshotFn      func(tabID string, generation uint64, snap *pagelens.Snapshot) error
	MergeSelectionFn     func(tabID string, generation uint64, text string)
	CloseTabFn           func(tabID string)
}

func (s *SessionService) CurrentSnapshot(tabID string) (*pagelens.Snapshot, error) {
	return s.CurrentSnapshotFn(tabID)
}

func (s *SessionService) ActiveTab() (string, bool) {
	return s.ActiveTabFn()
}

func (s *SessionService) ActivateTab(tabID string) uint64 {
	return s.ActivateTabFn(tabID)
}

func (s *SessionService) CompleteNavigation(tabID string) uint64 {
	return s.CompleteNavigationFn(tabID)
}

func (s *SessionService) StoreSnapshot(tabID string, generation uint64, snap *pagelens.Snapshot) error {
	return s.StoreSnapshotFn(tabID, generation, snap)
}

func (s *SessionService) MergeSelection(tabID string, generation uint64, text string) {
	s.MergeSelectionFn(tabID, generation, text)
}

func (s *SessionService) CloseTab(tabID string) {
	s.CloseTabFn(tabID)
}
