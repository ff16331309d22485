package mapview

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/warehouse-capacity-map/internal/domain"
)

// LogNavigator records navigation events in the log only. It is used when
// no event transport is configured.
type LogNavigator struct {
	logger *slog.Logger
}

func NewLogNavigator(logger *slog.Logger) *LogNavigator {
	return &LogNavigator{logger: logger}
}

func (n *LogNavigator) Navigate(_ context.Context, event domain.NavigationEvent) error {
	n.logger.Info("navigation event",
		"id", event.ID,
		"target", event.Target,
		"path", event.Path,
	)
	return nil
}
