package service

import (
	"context"

	"lichhen/internal/platform/logger"
	remdom "lichhen/internal/services/reminder/domain"
)

// logNotifier writes reminders to the structured log. It is the default sink
// when no delivery channel is configured
type logNotifier struct{}

// NewLogNotifier returns a notifier that logs reminders
func NewLogNotifier() remdom.NotifierPort { return logNotifier{} }

func (logNotifier) Notify(ctx context.Context, title, message string) error {
	logger.C(ctx).Info().
		Str("title", title).
		Str("message", message).
		Msg("reminder")
	return nil
}
