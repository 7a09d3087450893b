package tool_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeongsoo1975/blogscout"
	"github.com/jeongsoo1975/blogscout/tool"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	catalog := tool.DefaultCatalog()

	names := []string{
		"search_web_for_blogs",
		"get_webpage_content_and_interact",
		"extract_blog_fields_from_text",
		"finalize_blog_data_collection",
	}
	for _, name := range names {
		cap, ok := catalog.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, cap.Name)
		for _, req := range cap.Required {
			_, declared := cap.Params[req]
			assert.True(t, declared, "%s: required param %q not declared", name, req)
		}
		for _, opt := range cap.Optional {
			_, declared := cap.Params[opt]
			assert.True(t, declared, "%s: optional param %q not declared", name, opt)
		}
	}
	assert.Len(t, catalog.Capabilities(), len(names))
}

func TestInterpreter_Interpret(t *testing.T) {
	t.Parallel()

	in := tool.NewInterpreter(tool.DefaultCatalog(), discardLogger())

	t.Run("native invocation", func(t *testing.T) {
		t.Parallel()
		resp := &blogscout.ModelResponse{
			Invocations: []blogscout.Invocation{{
				Name: "search_web_for_blogs",
				Args: map[string]any{"keyword": "서울 맛집"},
			}},
		}
		inv, err := in.Interpret(resp)
		require.NoError(t, err)
		assert.Equal(t, "search_web_for_blogs", inv.Name)
		assert.Equal(t, "서울 맛집", inv.Args["keyword"])
		assert.NotEmpty(t, inv.ID)
	})

	t.Run("fenced json invocation", func(t *testing.T) {
		t.Parallel()
		resp := &blogscout.ModelResponse{
			Text: "Here is my call:\n```json\n{\"name\": \"search_web_for_blogs\", \"arguments\": {\"keyword\": \"맛집\"}}\n```\nDone.",
		}
		inv, err := in.Interpret(resp)
		require.NoError(t, err)
		assert.Equal(t, "search_web_for_blogs", inv.Name)
		assert.Equal(t, "맛집", inv.Args["keyword"])
	})

	t.Run("bare brace fragment invocation", func(t *testing.T) {
		t.Parallel()
		resp := &blogscout.ModelResponse{
			Text: `I will finalize now. {"name": "finalize_blog_data_collection", "arguments": {"collected_blogs_summary": [{"blog_name": "테스트"}], "all_tasks_completed": true}}`,
		}
		inv, err := in.Interpret(resp)
		require.NoError(t, err)
		assert.Equal(t, "finalize_blog_data_collection", inv.Name)
		assert.Equal(t, true, inv.Args["all_tasks_completed"])
	})

	t.Run("fills omitted optional arguments with nil", func(t *testing.T) {
		t.Parallel()
		resp := &blogscout.ModelResponse{
			Invocations: []blogscout.Invocation{{
				Name: "finalize_blog_data_collection",
				Args: map[string]any{
					"collected_blogs_summary": []any{map[string]any{"blog_name": "x"}},
					"all_tasks_completed":     true,
				},
			}},
		}
		inv, err := in.Interpret(resp)
		require.NoError(t, err)
		v, present := inv.Args["quality_score"]
		assert.True(t, present)
		assert.Nil(t, v)
		v, present = inv.Args["recommendations"]
		assert.True(t, present)
		assert.Nil(t, v)
	})

	t.Run("missing required argument names the argument", func(t *testing.T) {
		t.Parallel()
		resp := &blogscout.ModelResponse{
			Invocations: []blogscout.Invocation{{
				Name: "get_webpage_content_and_interact",
				Args: map[string]any{"url": "https://blog.naver.com/x/1"},
			}},
		}
		_, err := in.Interpret(resp)
		require.Error(t, err)
		assert.Equal(t, blogscout.EMALFORMED, blogscout.ErrorCode(err))
		assert.Contains(t, blogscout.ErrorMessage(err), "fields_to_extract")
	})

	t.Run("unknown capability", func(t *testing.T) {
		t.Parallel()
		resp := &blogscout.ModelResponse{
			Invocations: []blogscout.Invocation{{Name: "delete_everything"}},
		}
		_, err := in.Interpret(resp)
		require.Error(t, err)
		assert.Equal(t, blogscout.EMALFORMED, blogscout.ErrorCode(err))
	})

	t.Run("no invocation anywhere", func(t *testing.T) {
		t.Parallel()
		_, err := in.Interpret(&blogscout.ModelResponse{Text: "I could not find anything useful."})
		require.Error(t, err)
		assert.Equal(t, blogscout.EMALFORMED, blogscout.ErrorCode(err))
	})
}

func TestInterpreter_DecodeFields(t *testing.T) {
	t.Parallel()

	in := tool.NewInterpreter(tool.DefaultCatalog(), discardLogger())

	t.Run("fenced object", func(t *testing.T) {
		t.Parallel()
		resp := &blogscout.ModelResponse{
			Text: "```json\n{\"blog_name\": \"서울밥집\", \"total_posts\": 120}\n```",
		}
		fields, err := in.DecodeFields(resp)
		require.NoError(t, err)
		assert.Equal(t, "서울밥집", fields["blog_name"])
		assert.Equal(t, float64(120), fields["total_posts"])
	})

	t.Run("object surrounded by prose", func(t *testing.T) {
		t.Parallel()
		resp := &blogscout.ModelResponse{
			Text: `Based on the text, the fields are {"blog_name": "카페일기", "recent_post_date": "2026-08-20"} as requested.`,
		}
		fields, err := in.DecodeFields(resp)
		require.NoError(t, err)
		assert.Equal(t, "카페일기", fields["blog_name"])
	})

	t.Run("repairs single-quoted pseudo-JSON", func(t *testing.T) {
		t.Parallel()
		resp := &blogscout.ModelResponse{
			Text: `{'blog_name': '성수동일상', 'llm_summary': 'daily cafe posts'}`,
		}
		fields, err := in.DecodeFields(resp)
		require.NoError(t, err)
		assert.Equal(t, "성수동일상", fields["blog_name"])
	})

	t.Run("braces inside strings do not break the scan", func(t *testing.T) {
		t.Parallel()
		resp := &blogscout.ModelResponse{
			Text: `{"blog_name": "brace } in name", "blog_url": "https://example.com"}`,
		}
		fields, err := in.DecodeFields(resp)
		require.NoError(t, err)
		assert.Equal(t, "brace } in name", fields["blog_name"])
	})

	t.Run("no object", func(t *testing.T) {
		t.Parallel()
		_, err := in.DecodeFields(&blogscout.ModelResponse{Text: "plain refusal text"})
		require.Error(t, err)
		assert.Equal(t, blogscout.EMALFORMED, blogscout.ErrorCode(err))
	})

	t.Run("empty response", func(t *testing.T) {
		t.Parallel()
		_, err := in.DecodeFields(nil)
		require.Error(t, err)
		assert.Equal(t, blogscout.EMALFORMED, blogscout.ErrorCode(err))
	})
}
