// Package notify announces run outcomes.
package notify

import (
	"context"

	"github.com/civigen/billforge/model"
)

// Notifier receives run completion and failure notices.
type Notifier interface {
	RunCompleted(ctx context.Context, run *model.Run, bill *model.Bill) error
	RunFailed(ctx context.Context, run *model.Run) error
}

// Nop discards all notifications.
type Nop struct{}

func (Nop) RunCompleted(context.Context, *model.Run, *model.Bill) error { return nil }
func (Nop) RunFailed(context.Context, *model.Run) error                 { return nil }
