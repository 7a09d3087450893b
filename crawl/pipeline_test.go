package crawl_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeongsoo1975/blogscout"
	"github.com/jeongsoo1975/blogscout/crawl"
	"github.com/jeongsoo1975/blogscout/mock"
	"github.com/jeongsoo1975/blogscout/tool"
)

var pageText = strings.Repeat("성수동 카페 후기입니다. ", 20)

// pipelineFixture wires a pipeline where every stage succeeds, with
// hooks exposed for tests to break individual stages.
type pipelineFixture struct {
	session     *mock.Session
	manager     *mock.SessionManager
	extractor   *mock.ContentExtractor
	normalizer  *mock.Normalizer
	transport   *mock.Transport
	interpreter *mock.Interpreter

	forceClosed int
}

func newPipelineFixture() *pipelineFixture {
	f := &pipelineFixture{}

	f.session = &mock.Session{
		NavigateFn: func(ctx context.Context, url string) error { return nil },
		ReadyFn:    func(ctx context.Context) (bool, error) { return true, nil },
	}
	f.manager = &mock.SessionManager{
		EnsureFn: func(ctx context.Context) (blogscout.Session, error) { return f.session, nil },
		MaybeCloseFn: func(force bool) error {
			if force {
				f.forceClosed++
			}
			return nil
		},
	}
	f.extractor = &mock.ContentExtractor{
		ExtractFn: func(ctx context.Context, sess blogscout.Session) (*blogscout.PageContent, error) {
			return &blogscout.PageContent{Text: pageText, Strategy: "selector:.se-main-container", Length: len([]rune(pageText))}, nil
		},
	}
	f.normalizer = &mock.Normalizer{
		NormalizeFn: func(text string) (string, error) { return strings.TrimSpace(text), nil },
	}
	f.transport = &mock.Transport{
		SendFn: func(ctx context.Context, system, prompt string, caps []blogscout.Capability) (*blogscout.ModelResponse, error) {
			return &blogscout.ModelResponse{Text: `{"blog_name": "성수동일기", "total_posts": "120"}`}, nil
		},
	}
	f.interpreter = &mock.Interpreter{
		InterpretFn: func(resp *blogscout.ModelResponse) (*blogscout.Invocation, error) {
			return nil, blogscout.Errorf(blogscout.EMALFORMED, "no invocation found in model response")
		},
		DecodeFieldsFn: func(resp *blogscout.ModelResponse) (map[string]any, error) {
			return map[string]any{"blog_name": "성수동일기", "total_posts": "120"}, nil
		},
	}
	return f
}

func (f *pipelineFixture) pipeline(t *testing.T, opts ...crawl.PipelineOption) *crawl.Pipeline {
	t.Helper()
	return crawl.NewPipeline(
		f.manager,
		fastGate(),
		f.extractor,
		f.normalizer,
		f.transport,
		f.interpreter,
		blogscout.Catalog{},
		discardLogger(),
		opts...,
	)
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	t.Run("records a url end to end", func(t *testing.T) {
		t.Parallel()
		f := newPipelineFixture()
		batch, err := f.pipeline(t).Run(context.Background(), "성수동 카페", []string{"https://blog.naver.com/seongsu/1"})
		require.NoError(t, err)

		assert.Equal(t, 1, batch.Succeeded)
		assert.Equal(t, 0, batch.Failed)
		require.Len(t, batch.Outcomes, 1)

		rec := batch.Outcomes[0].Record
		require.NotNil(t, rec)
		assert.Equal(t, "성수동일기", rec.BlogName)
		assert.Equal(t, "https://blog.naver.com/seongsu/1", rec.BlogURL)
		assert.Equal(t, "120", rec.TotalPosts)
		assert.Equal(t, "성수동 카페", rec.SourceKeyword)
		assert.Len(t, rec.ContentHash, 16)
		assert.Equal(t, blogscout.StageRecorded, batch.Outcomes[0].Stage)
		assert.NotEmpty(t, batch.ID)
	})

	t.Run("accepts a finalize invocation", func(t *testing.T) {
		t.Parallel()
		f := newPipelineFixture()
		f.interpreter.InterpretFn = func(resp *blogscout.ModelResponse) (*blogscout.Invocation, error) {
			return &blogscout.Invocation{
				Name: "finalize_blog_data_collection",
				Args: map[string]any{
					"collected_blogs_summary": []any{
						map[string]any{"blog_name": "카페일지", "llm_summary": "주간 카페 방문기"},
					},
					"all_tasks_completed": true,
				},
			}, nil
		}

		batch, err := f.pipeline(t).Run(context.Background(), "카페", []string{"https://blog.naver.com/cafe/2"})
		require.NoError(t, err)
		require.Equal(t, 1, batch.Succeeded)
		rec := batch.Outcomes[0].Record
		assert.Equal(t, "카페일지", rec.BlogName)
		assert.Equal(t, "주간 카페 방문기", rec.Summary)
	})

	t.Run("a non-finalize invocation fails instead of becoming fields", func(t *testing.T) {
		t.Parallel()
		f := newPipelineFixture()
		reply := "검색을 더 진행하겠습니다.\n```json\n{\"name\": \"search_web_for_blogs\", \"arguments\": {\"keyword\": \"성수동 카페\"}}\n```"
		f.transport.SendFn = func(ctx context.Context, system, prompt string, caps []blogscout.Capability) (*blogscout.ModelResponse, error) {
			return &blogscout.ModelResponse{Text: reply}, nil
		}

		// Real interpreter: the invocation envelope itself decodes as a
		// JSON object, so field decoding must never be reached.
		catalog := tool.DefaultCatalog()
		p := crawl.NewPipeline(
			f.manager,
			fastGate(),
			f.extractor,
			f.normalizer,
			f.transport,
			tool.NewInterpreter(catalog, discardLogger()),
			catalog,
			discardLogger(),
		)

		batch, err := p.Run(context.Background(), "성수동 카페", []string{"https://blog.naver.com/seongsu/1"})
		require.NoError(t, err)
		assert.Equal(t, 1, batch.Failed)
		out := batch.Outcomes[0]
		require.Nil(t, out.Record)
		assert.Equal(t, blogscout.StageInterpreting, out.Stage)
		assert.Contains(t, out.Reason, "search_web_for_blogs")
		assert.Equal(t, reply, out.Raw)
	})

	t.Run("a failed url does not abort the batch", func(t *testing.T) {
		t.Parallel()
		f := newPipelineFixture()
		calls := 0
		f.extractor.ExtractFn = func(ctx context.Context, sess blogscout.Session) (*blogscout.PageContent, error) {
			calls++
			if calls == 2 {
				return nil, blogscout.Errorf(blogscout.EINSUFFICIENT, "no extraction strategy produced at least 50 characters")
			}
			return &blogscout.PageContent{Text: pageText, Strategy: "body", Length: len([]rune(pageText))}, nil
		}

		urls := []string{
			"https://blog.naver.com/a/1",
			"https://blog.naver.com/b/2",
			"https://blog.naver.com/c/3",
		}
		batch, err := f.pipeline(t).Run(context.Background(), "맛집", urls)
		require.NoError(t, err)

		assert.Equal(t, 2, batch.Succeeded)
		assert.Equal(t, 1, batch.Failed)
		require.Len(t, batch.Outcomes, 3)
		for i, u := range urls {
			assert.Equal(t, u, batch.Outcomes[i].URL)
		}
		failed := batch.Outcomes[1]
		assert.True(t, failed.Failed())
		assert.Equal(t, blogscout.StageExtracting, failed.Stage)
		assert.Contains(t, failed.Reason, "no extraction strategy")
	})

	t.Run("session force closed after the batch", func(t *testing.T) {
		t.Parallel()
		f := newPipelineFixture()
		f.transport.SendFn = func(ctx context.Context, system, prompt string, caps []blogscout.Capability) (*blogscout.ModelResponse, error) {
			return nil, blogscout.Errorf(blogscout.ETIMEOUT, "model deadline elapsed")
		}
		_, err := f.pipeline(t).Run(context.Background(), "맛집", []string{"https://blog.naver.com/a/1"})
		require.NoError(t, err)
		assert.Equal(t, 1, f.forceClosed)
	})

	t.Run("browser launch failure is fatal", func(t *testing.T) {
		t.Parallel()
		f := newPipelineFixture()
		f.manager.EnsureFn = func(ctx context.Context) (blogscout.Session, error) {
			return nil, blogscout.Errorf(blogscout.EUNAVAILABLE, "chrome executable not found")
		}
		_, err := f.pipeline(t).Run(context.Background(), "맛집", []string{"https://blog.naver.com/a/1"})
		require.Error(t, err)
		assert.Equal(t, blogscout.EUNAVAILABLE, blogscout.ErrorCode(err))
	})

	t.Run("mobile urls canonicalized before navigation", func(t *testing.T) {
		t.Parallel()
		f := newPipelineFixture()
		var navigated string
		f.session.NavigateFn = func(ctx context.Context, url string) error {
			navigated = url
			return nil
		}
		batch, err := f.pipeline(t).Run(context.Background(), "맛집", []string{"https://m.blog.naver.com/a/1"})
		require.NoError(t, err)
		assert.Equal(t, "https://blog.naver.com/a/1", navigated)
		assert.Equal(t, "https://blog.naver.com/a/1", batch.Outcomes[0].URL)
	})

	t.Run("duplicate urls get an outcome but are not reprocessed", func(t *testing.T) {
		t.Parallel()
		f := newPipelineFixture()
		seen := map[string]bool{}
		dedupe := &mock.URLDeduper{SeenFn: func(url string) bool {
			if seen[url] {
				return true
			}
			seen[url] = true
			return false
		}}
		navs := 0
		f.session.NavigateFn = func(ctx context.Context, url string) error {
			navs++
			return nil
		}

		batch, err := f.pipeline(t, crawl.WithDeduper(dedupe)).Run(context.Background(), "맛집", []string{
			"https://blog.naver.com/a/1",
			"https://blog.naver.com/a/1",
		})
		require.NoError(t, err)
		require.Len(t, batch.Outcomes, 2)
		assert.Equal(t, 1, navs)
		assert.Equal(t, 1, batch.Succeeded)
		assert.True(t, batch.Outcomes[1].Failed())
		assert.Contains(t, batch.Outcomes[1].Reason, "duplicate")
	})

	t.Run("feed probe fills a missing recent post date", func(t *testing.T) {
		t.Parallel()
		f := newPipelineFixture()
		feed := &mock.FeedProber{
			LatestPostFn: func(ctx context.Context, blogURL string) (time.Time, error) {
				return time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC), nil
			},
		}
		batch, err := f.pipeline(t, crawl.WithFeedProber(feed)).Run(context.Background(), "맛집", []string{"https://blog.naver.com/a/1"})
		require.NoError(t, err)
		assert.Equal(t, "2026-08-20", batch.Outcomes[0].Record.RecentPostDate)
	})

	t.Run("model-reported date is not overwritten by the feed", func(t *testing.T) {
		t.Parallel()
		f := newPipelineFixture()
		f.interpreter.DecodeFieldsFn = func(resp *blogscout.ModelResponse) (map[string]any, error) {
			return map[string]any{"blog_name": "x", "recent_post_date": "2026-07-01"}, nil
		}
		feed := &mock.FeedProber{
			LatestPostFn: func(ctx context.Context, blogURL string) (time.Time, error) {
				t.Fatal("feed must not be probed")
				return time.Time{}, nil
			},
		}
		batch, err := f.pipeline(t, crawl.WithFeedProber(feed)).Run(context.Background(), "맛집", []string{"https://blog.naver.com/a/1"})
		require.NoError(t, err)
		assert.Equal(t, "2026-07-01", batch.Outcomes[0].Record.RecentPostDate)
	})

	t.Run("interpretation failure retains the raw reply", func(t *testing.T) {
		t.Parallel()
		f := newPipelineFixture()
		f.transport.SendFn = func(ctx context.Context, system, prompt string, caps []blogscout.Capability) (*blogscout.ModelResponse, error) {
			return &blogscout.ModelResponse{Text: "I am unable to help with that."}, nil
		}
		f.interpreter.DecodeFieldsFn = func(resp *blogscout.ModelResponse) (map[string]any, error) {
			return nil, blogscout.Errorf(blogscout.EMALFORMED, "no JSON object found in model response")
		}

		batch, err := f.pipeline(t).Run(context.Background(), "맛집", []string{"https://blog.naver.com/a/1"})
		require.NoError(t, err)
		out := batch.Outcomes[0]
		assert.Equal(t, blogscout.StageInterpreting, out.Stage)
		assert.Equal(t, "I am unable to help with that.", out.Raw)
	})

	t.Run("records persisted when a record service is configured", func(t *testing.T) {
		t.Parallel()
		f := newPipelineFixture()
		var created []*blogscout.BlogRecord
		var batches int
		svc := &mock.RecordService{
			CreateRecordFn: func(ctx context.Context, rec *blogscout.BlogRecord) error {
				created = append(created, rec)
				return nil
			},
			CreateBatchFn: func(ctx context.Context, batch *blogscout.BatchResult) error {
				batches++
				return nil
			},
		}
		_, err := f.pipeline(t, crawl.WithRecordService(svc)).Run(context.Background(), "맛집", []string{"https://blog.naver.com/a/1"})
		require.NoError(t, err)
		require.Len(t, created, 1)
		assert.Equal(t, 1, batches)
	})
}

func TestPipeline_Collect(t *testing.T) {
	t.Parallel()

	t.Run("searches then runs the batch", func(t *testing.T) {
		t.Parallel()
		f := newPipelineFixture()
		searcher := &mock.Searcher{
			MultiSearchFn: func(ctx context.Context, keywords []string) (map[string][]blogscout.SearchResult, error) {
				assert.Equal(t, []string{"성수동 카페"}, keywords)
				return map[string][]blogscout.SearchResult{
					"성수동 카페": {
						{Title: "a", URL: "https://blog.naver.com/a/1"},
						{Title: "b", URL: "https://blog.naver.com/b/2"},
						{Title: "c", URL: "https://blog.naver.com/c/3"},
					},
				}, nil
			},
		}
		batch, err := f.pipeline(t, crawl.WithSearcher(searcher)).Collect(context.Background(), []string{"성수동 카페"}, 2)
		require.NoError(t, err)
		assert.Len(t, batch.Outcomes, 2)
		assert.Equal(t, "성수동 카페", batch.Keyword)
	})

	t.Run("multiple keywords merge in order without repeat visits", func(t *testing.T) {
		t.Parallel()
		f := newPipelineFixture()
		var visited []string
		f.session.NavigateFn = func(ctx context.Context, url string) error {
			visited = append(visited, url)
			return nil
		}
		searcher := &mock.Searcher{
			MultiSearchFn: func(ctx context.Context, keywords []string) (map[string][]blogscout.SearchResult, error) {
				assert.Equal(t, []string{"성수동 카페", "연남동 카페"}, keywords)
				return map[string][]blogscout.SearchResult{
					"성수동 카페": {
						{Title: "a", URL: "https://blog.naver.com/a/1"},
						{Title: "b", URL: "https://blog.naver.com/b/2"},
					},
					"연남동 카페": {
						{Title: "a", URL: "https://blog.naver.com/a/1"},
						{Title: "c", URL: "https://blog.naver.com/c/3"},
					},
				}, nil
			},
		}
		batch, err := f.pipeline(t, crawl.WithSearcher(searcher)).Collect(context.Background(), []string{"성수동 카페", "연남동 카페"}, 5)
		require.NoError(t, err)
		assert.Equal(t, "성수동 카페, 연남동 카페", batch.Keyword)
		assert.Equal(t, []string{
			"https://blog.naver.com/a/1",
			"https://blog.naver.com/b/2",
			"https://blog.naver.com/c/3",
		}, visited)
	})

	t.Run("no searcher configured", func(t *testing.T) {
		t.Parallel()
		f := newPipelineFixture()
		_, err := f.pipeline(t).Collect(context.Background(), []string{"성수동 카페"}, 2)
		require.Error(t, err)
		assert.Equal(t, blogscout.EINVALID, blogscout.ErrorCode(err))
	})

	t.Run("no keywords", func(t *testing.T) {
		t.Parallel()
		f := newPipelineFixture()
		searcher := &mock.Searcher{}
		_, err := f.pipeline(t, crawl.WithSearcher(searcher)).Collect(context.Background(), nil, 2)
		require.Error(t, err)
		assert.Equal(t, blogscout.EINVALID, blogscout.ErrorCode(err))
	})

	t.Run("empty search results", func(t *testing.T) {
		t.Parallel()
		f := newPipelineFixture()
		searcher := &mock.Searcher{
			MultiSearchFn: func(ctx context.Context, keywords []string) (map[string][]blogscout.SearchResult, error) {
				return map[string][]blogscout.SearchResult{}, nil
			},
		}
		_, err := f.pipeline(t, crawl.WithSearcher(searcher)).Collect(context.Background(), []string{"없는키워드"}, 5)
		require.Error(t, err)
		assert.Equal(t, blogscout.ENOTFOUND, blogscout.ErrorCode(err))
	})
}
