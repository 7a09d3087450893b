// Package slog provides logging decorators for blogscout services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/jeongsoo1975/blogscout"
)

// Ensure LoggingTransport implements blogscout.Transport.
var _ blogscout.Transport = (*LoggingTransport)(nil)

// LoggingTransport wraps a Transport with debug logging of model round
// trips.
type LoggingTransport struct {
	next   blogscout.Transport
	logger *slog.Logger
}

// NewLoggingTransport creates a new LoggingTransport.
func NewLoggingTransport(next blogscout.Transport, logger *slog.Logger) *LoggingTransport {
	return &LoggingTransport{next: next, logger: logger}
}

// Send delegates to the wrapped transport and logs the operation.
func (t *LoggingTransport) Send(ctx context.Context, system, prompt string, caps []blogscout.Capability) (resp *blogscout.ModelResponse, err error) {
	defer func(begin time.Time) {
		invocations := 0
		textLen := 0
		if resp != nil {
			invocations = len(resp.Invocations)
			textLen = len(resp.Text)
		}
		t.logger.Info("model round trip",
			"prompt_chars", len(prompt),
			"capabilities", len(caps),
			"invocations", invocations,
			"text_chars", textLen,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return t.next.Send(ctx, system, prompt, caps)
}
