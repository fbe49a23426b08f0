package mock

import (
	"context"

	"github.com/pagelens/pagelens"
)

var _ pagelens.Host = (*Host)(nil)

// Host is a mock implementation of pagelens.Host.
type Host struct {
	WatchFn           func(ctx context.Context) (<-chan pagelens.TabEvent, error)
	HTMLFn            func(ctx context.Context, tabID string) (string, error)
	SelectedTextFn    func(ctx context.Context, tabID string) (string, error)
	SetPanelEnabledFn func(tabID string, enabled bool) error
}

func (h *Host) Watch(ctx context.Context) (<-chan pagelens.TabEvent, error) {
	return h.WatchFn(ctx)
}

func (h *Host) HTML(ctx context.Context, tabID string) (string, error) {
	return h.HTMLFn(ctx, tabID)
}

func (h *Host) SelectedText(ctx context.Context, tabID string) (string, error) {
	return h.SelectedTextFn(ctx, tabID)
}

func (h *Host) SetPanelEnabled(tabID string, enabled bool) error {
	return h.SetPanelEnabledFn(tabID, enabled)
}
