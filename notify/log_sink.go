package notify

import (
	"context"

	"github.com/mesaja/seating/utils"
)

// LogSink writes events to the info log. It stands in for the chat channel
// when no bot credentials are configured.
type LogSink struct{}

func (LogSink) Name() string { return "log" }

func (LogSink) Deliver(_ context.Context, ev Event) error {
	if ev.IsDirect() {
		utils.InfoLogger.Printf("[direct:%s] %s", ev.Recipient, ev.Text)
		return nil
	}
	utils.InfoLogger.Printf("[%s] %s", ev.Kind, ev.Text)
	return nil
}
