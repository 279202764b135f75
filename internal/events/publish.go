package events

import (
	"log/slog"
	"time"
)

// DefaultRetries is the attempt count used by services and the reorder engine
const DefaultRetries = 3

// PublishWithRetry attempts to publish an event with retry logic.
// It makes up to maxRetries attempts with exponential backoff.
// Returns the error from the final attempt if all retries fail.
//
// Callers treat events as best effort: a failure here never undoes the
// change that triggered it.
func PublishWithRetry(client EventPublisher, event Event, maxRetries int) error {
	if client == nil {
		return nil // no daemon configured
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	var lastErr error
	baseDelay := 50 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := client.SendEvent(event)
		if err == nil {
			if attempt > 0 {
				slog.Debug("event published after retry",
					"attempt", attempt+1,
					"event_type", event.Type,
					"pipeline_id", event.PipelineID)
			}
			return nil
		}

		lastErr = err

		if attempt < maxRetries-1 {
			// 50ms, 100ms, 200ms
			delay := baseDelay * (1 << attempt)
			slog.Debug("event publish failed, retrying",
				"attempt", attempt+1,
				"max_retries", maxRetries,
				"retry_delay", delay,
				"error", err)
			time.Sleep(delay)
		}
	}

	slog.Warn("event publish failed after all retries",
		"attempts", maxRetries,
		"event_type", event.Type,
		"pipeline_id", event.PipelineID,
		"error", lastErr)

	return lastErr
}

// BoardChanged builds the event published after any change to a pipeline
func BoardChanged(pipelineID int, sessionID string) Event {
	return Event{
		Type:       EventBoardChanged,
		PipelineID: pipelineID,
		SessionID:  sessionID,
		Timestamp:  time.Now(),
	}
}
