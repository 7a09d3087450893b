package mock

import (
	"context"
	"time"

	"github.com/jeongsoo1975/blogscout"
)

var _ blogscout.Session = (*Session)(nil)

// Session is a mock implementation of blogscout.Session.
type Session struct {
	NavigateFn      func(ctx context.Context, url string) error
	ReadyFn         func(ctx context.Context) (bool, error)
	QueryTextFn     func(ctx context.Context, selector string) (string, bool, error)
	QueryTextAllFn  func(ctx context.Context, selector string) ([]string, error)
	SwitchToFrameFn func(ctx context.Context, index int) (bool, error)
	ResetFrameFn    func()
	BodyTextFn      func(ctx context.Context) (string, error)
	HTMLFn          func(ctx context.Context) (string, error)
	CreatedAtFn     func() time.Time
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.NavigateFn(ctx, url)
}

func (s *Session) Ready(ctx context.Context) (bool, error) {
	return s.ReadyFn(ctx)
}

func (s *Session) QueryText(ctx context.Context, selector string) (string, bool, error) {
	return s.QueryTextFn(ctx, selector)
}

func (s *Session) QueryTextAll(ctx context.Context, selector string) ([]string, error) {
	return s.QueryTextAllFn(ctx, selector)
}

func (s *Session) SwitchToFrame(ctx context.Context, index int) (bool, error) {
	return s.SwitchToFrameFn(ctx, index)
}

func (s *Session) ResetFrame() {
	if s.ResetFrameFn != nil {
		s.ResetFrameFn()
	}
}

func (s *Session) BodyText(ctx context.Context) (string, error) {
	return s.BodyTextFn(ctx)
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	return s.HTMLFn(ctx)
}

func (s *Session) CreatedAt() time.Time {
	if s.CreatedAtFn != nil {
		return s.CreatedAtFn()
	}
	return time.Time{}
}
