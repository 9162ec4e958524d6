package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fetchops/ai-project-catalog/models"
)

// Notifier announces newly created projects. Implementations must not retain
// the project after returning.
type Notifier interface {
	NotifyNewProject(ctx context.Context, project models.Project) error
}

// NoopNotifier is used when no notification channel is configured
type NoopNotifier struct{}

func (NoopNotifier) NotifyNewProject(context.Context, models.Project) error {
	return nil
}

// MultiNotifier fans a notification out to every channel, attempting all of
// them even when some fail.
type MultiNotifier []Notifier

func (m MultiNotifier) NotifyNewProject(ctx context.Context, project models.Project) error {
	var failures []error
	for _, n := range m {
		if err := n.NotifyNewProject(ctx, project); err != nil {
			failures = append(failures, fmt.Errorf("%T: %w", n, err))
		}
	}
	return errors.Join(failures...)
}

// Combine returns the cheapest Notifier covering the given channels
func Combine(notifiers ...Notifier) Notifier {
	var active MultiNotifier
	for _, n := range notifiers {
		if n == nil {
			continue
		}
		if _, noop := n.(NoopNotifier); noop {
			continue
		}
		active = append(active, n)
	}
	switch len(active) {
	case 0:
		return NoopNotifier{}
	case 1:
		return active[0]
	default:
		return active
	}
}
