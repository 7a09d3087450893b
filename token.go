package blogscout

import "context"

// TokenCounter counts model tokens in a piece of text. Used to watch
// prompt size against the model's context window before a send.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
