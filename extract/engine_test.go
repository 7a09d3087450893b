package extract_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeongsoo1975/blogscout"
	"github.com/jeongsoo1975/blogscout/extract"
	"github.com/jeongsoo1975/blogscout/mock"
)

var longText = strings.Repeat("서울 맛집 탐방기 ", 40)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// emptySession returns a session where every probe misses, suitable as a
// base to override per test.
func emptySession() *mock.Session {
	return &mock.Session{
		QueryTextFn: func(ctx context.Context, selector string) (string, bool, error) {
			return "", false, nil
		},
		QueryTextAllFn: func(ctx context.Context, selector string) ([]string, error) {
			return nil, nil
		},
		SwitchToFrameFn: func(ctx context.Context, index int) (bool, error) {
			return false, nil
		},
		BodyTextFn: func(ctx context.Context) (string, error) {
			return "", nil
		},
		HTMLFn: func(ctx context.Context) (string, error) {
			return "<html><body></body></html>", nil
		},
	}
}

func fixedDetector(p blogscout.Platform) *mock.PlatformDetector {
	return &mock.PlatformDetector{DetectFn: func(html string) blogscout.Platform { return p }}
}

func TestEngine_Extract(t *testing.T) {
	t.Parallel()

	t.Run("platform selector wins first", func(t *testing.T) {
		t.Parallel()
		sess := emptySession()
		var probed []string
		sess.QueryTextFn = func(ctx context.Context, selector string) (string, bool, error) {
			probed = append(probed, selector)
			if selector == ".se-main-container" {
				return longText, true, nil
			}
			return "", false, nil
		}

		engine := extract.NewEngine(fixedDetector(blogscout.PlatformNaverSE), nil, discardLogger())
		pc, err := engine.Extract(context.Background(), sess)
		require.NoError(t, err)
		assert.Equal(t, "selector:.se-main-container", pc.Strategy)
		assert.Equal(t, strings.TrimSpace(longText), pc.Text)
		assert.Equal(t, []string{".se-main-container"}, probed)
	})

	t.Run("short selector match falls through to next", func(t *testing.T) {
		t.Parallel()
		sess := emptySession()
		sess.QueryTextFn = func(ctx context.Context, selector string) (string, bool, error) {
			switch selector {
			case ".se-main-container":
				return "too short", true, nil
			case "#postViewArea":
				return longText, true, nil
			}
			return "", false, nil
		}

		engine := extract.NewEngine(fixedDetector(blogscout.PlatformNaverSE), nil, discardLogger())
		pc, err := engine.Extract(context.Background(), sess)
		require.NoError(t, err)
		assert.Equal(t, "selector:#postViewArea", pc.Strategy)
	})

	t.Run("generic selectors when platform unknown", func(t *testing.T) {
		t.Parallel()
		sess := emptySession()
		sess.QueryTextFn = func(ctx context.Context, selector string) (string, bool, error) {
			if selector == "article" {
				return longText, true, nil
			}
			return "", false, nil
		}

		engine := extract.NewEngine(fixedDetector(blogscout.PlatformUnknown), nil, discardLogger())
		pc, err := engine.Extract(context.Background(), sess)
		require.NoError(t, err)
		assert.Equal(t, "selector:article", pc.Strategy)
	})

	t.Run("descends into frames", func(t *testing.T) {
		t.Parallel()
		sess := emptySession()
		inFrame := false
		resets := 0
		sess.SwitchToFrameFn = func(ctx context.Context, index int) (bool, error) {
			if index == 0 {
				inFrame = true
				return true, nil
			}
			return false, nil
		}
		sess.ResetFrameFn = func() {
			inFrame = false
			resets++
		}
		sess.QueryTextFn = func(ctx context.Context, selector string) (string, bool, error) {
			if inFrame && selector == "#postViewArea" {
				return longText, true, nil
			}
			return "", false, nil
		}

		engine := extract.NewEngine(fixedDetector(blogscout.PlatformNaverLegacy), nil, discardLogger())
		pc, err := engine.Extract(context.Background(), sess)
		require.NoError(t, err)
		assert.Equal(t, "frame:0/selector:#postViewArea", pc.Strategy)
		assert.False(t, inFrame, "frame context must be restored")
		assert.GreaterOrEqual(t, resets, 1)
	})

	t.Run("merges fragments with containment dedupe", func(t *testing.T) {
		t.Parallel()
		sess := emptySession()
		sess.QueryTextAllFn = func(ctx context.Context, selector string) ([]string, error) {
			if selector == ".se-text-paragraph" {
				return []string{
					"오늘 다녀온 성수동 카페는 분위기가 정말 좋았습니다.",
					"성수동 카페는 분위기가", // contained in the first fragment
					"원두는 직접 로스팅한다고 해서 더 기대가 됐어요.",
				}, nil
			}
			return nil, nil
		}

		engine := extract.NewEngine(fixedDetector(blogscout.PlatformUnknown), nil, discardLogger())
		pc, err := engine.Extract(context.Background(), sess)
		require.NoError(t, err)
		assert.Equal(t, "fragments", pc.Strategy)
		assert.Equal(t, 1, strings.Count(pc.Text, "성수동 카페는 분위기가"))
		assert.Contains(t, pc.Text, "로스팅")
	})

	t.Run("article extraction over raw HTML", func(t *testing.T) {
		t.Parallel()
		sess := emptySession()
		article := &mock.ArticleExtractor{
			ExtractFn: func(html string) (*blogscout.ExtractResult, error) {
				return &blogscout.ExtractResult{Title: "제목", Text: longText}, nil
			},
		}

		engine := extract.NewEngine(fixedDetector(blogscout.PlatformUnknown), article, discardLogger())
		pc, err := engine.Extract(context.Background(), sess)
		require.NoError(t, err)
		assert.Equal(t, "article", pc.Strategy)
	})

	t.Run("body text is the last resort", func(t *testing.T) {
		t.Parallel()
		sess := emptySession()
		sess.BodyTextFn = func(ctx context.Context) (string, error) {
			return longText, nil
		}

		engine := extract.NewEngine(fixedDetector(blogscout.PlatformUnknown), nil, discardLogger())
		pc, err := engine.Extract(context.Background(), sess)
		require.NoError(t, err)
		assert.Equal(t, "body", pc.Strategy)
	})

	t.Run("insufficient when everything misses", func(t *testing.T) {
		t.Parallel()
		engine := extract.NewEngine(fixedDetector(blogscout.PlatformUnknown), nil, discardLogger())
		_, err := engine.Extract(context.Background(), emptySession())
		require.Error(t, err)
		assert.Equal(t, blogscout.EINSUFFICIENT, blogscout.ErrorCode(err))
	})

	t.Run("length counts runes not bytes", func(t *testing.T) {
		t.Parallel()
		korean := strings.Repeat("가", 60)
		sess := emptySession()
		sess.BodyTextFn = func(ctx context.Context) (string, error) {
			return korean, nil
		}

		engine := extract.NewEngine(fixedDetector(blogscout.PlatformUnknown), nil, discardLogger())
		pc, err := engine.Extract(context.Background(), sess)
		require.NoError(t, err)
		assert.Equal(t, 60, pc.Length)
	})
}
