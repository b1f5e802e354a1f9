package api

import (
	"log/slog"

	"github.com/clearsky/wxcore/internal/events"
	wxerrors "github.com/clearsky/wxcore/internal/errors"
)

// logEventConsumer is the event bus consumer the station registers by
// default: it simply logs every error event routed through the bus,
// decoupling error reporting (internal/errors) from whatever eventually
// consumes it (today, just structured logging; a future consumer could
// forward to a dashboard or alerting channel without internal/errors
// ever knowing about it).
type logEventConsumer struct {
	logger *slog.Logger
}

func (c *logEventConsumer) Name() string { return "api-log-consumer" }

func (c *logEventConsumer) ProcessEvent(event events.ErrorEvent) error {
	c.logger.Warn("error event",
		"component", event.GetComponent(),
		"category", event.GetCategory(),
		"message", event.GetMessage(),
	)
	event.MarkReported()
	return nil
}

func (c *logEventConsumer) ProcessBatch(batch []events.ErrorEvent) error {
	for _, event := range batch {
		if err := c.ProcessEvent(event); err != nil {
			return err
		}
	}
	return nil
}

func (c *logEventConsumer) SupportsBatching() bool { return true }

// initEventBus starts the station's global error event bus (if not already
// running from a previous call in this process) and wires internal/errors
// to publish onto it, so every EnhancedError built anywhere in the tree
// flows to the registered consumer asynchronously instead of blocking the
// caller that raised it.
func initEventBus(logger *slog.Logger) *events.EventBus {
	eb, err := events.Initialize(events.DefaultConfig())
	if err != nil || eb == nil {
		return nil
	}

	if err := eb.RegisterConsumer(&logEventConsumer{logger: logger}); err != nil {
		logger.Warn("failed to register event bus consumer", "error", err)
	}

	setPublisher := func(publisher any) {
		wxerrors.SetEventPublisher(publisher.(wxerrors.EventPublisher))
	}
	if err := events.InitializeErrorsIntegration(setPublisher); err != nil {
		logger.Warn("failed to wire errors package to event bus", "error", err)
	}

	return eb
}
