package openrouter_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsgrab"
	"newsgrab/openrouter"
	"newsgrab/retry"
)

const testAPIKey = "sk-or-v1-0123456789abcdef0123456789abcdef0123456789abcdef"

type chatCall struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(reply))
}

func decodeChatCall(t *testing.T, r *http.Request) chatCall {
	t.Helper()
	var call chatCall
	require.NoError(t, json.NewDecoder(r.Body).Decode(&call))
	return call
}

func newTestExtractor(t *testing.T, url string, opts ...openrouter.Option) *openrouter.Extractor {
	t.Helper()
	opts = append([]openrouter.Option{
		openrouter.WithBaseURL(url),
		openrouter.WithBackoff(retry.NoBackoff()),
	}, opts...)
	e, err := openrouter.NewExtractor(testAPIKey, opts...)
	require.NoError(t, err)
	return e
}

func TestNewExtractor_KeyValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
	}{
		{"empty key", ""},
		{"wrong prefix", "sk-abc-" + strings.Repeat("x", 60)},
		{"too short", "sk-or-v1-short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := openrouter.NewExtractor(tt.key)
			require.Error(t, err)
			assert.Equal(t, newsgrab.EINVALID, newsgrab.ErrorCode(err))
		})
	}

	t.Run("valid key", func(t *testing.T) {
		t.Parallel()

		_, err := openrouter.NewExtractor(testAPIKey)
		require.NoError(t, err)
	})
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns articles from the first model", func(t *testing.T) {
		t.Parallel()

		var gotCall chatCall
		var gotAuth, gotReferer, gotTitle string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotReferer = r.Header.Get("HTTP-Referer")
			gotTitle = r.Header.Get("X-Title")
			gotCall = decodeChatCall(t, r)
			chatReply(t, w, `[{"title": "Story", "description": "d", "publication_date": "2026-08-30"}]`)
		}))
		defer srv.Close()

		e := newTestExtractor(t, srv.URL, openrouter.WithModels([]string{"model-a", "model-b"}))
		articles, err := e.Extract(context.Background(), "page text", "https://news.example.com")
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "Story", articles[0].Title)

		assert.Equal(t, "Bearer "+testAPIKey, gotAuth)
		assert.NotEmpty(t, gotReferer)
		assert.NotEmpty(t, gotTitle)
		assert.Equal(t, "model-a", gotCall.Model)
		require.Len(t, gotCall.Messages, 2)
		assert.Equal(t, "system", gotCall.Messages[0].Role)
		assert.Equal(t, "user", gotCall.Messages[1].Role)
		assert.Contains(t, gotCall.Messages[1].Content, "https://news.example.com")
		assert.Contains(t, gotCall.Messages[1].Content, "page text")
	})

	t.Run("falls through to the next model on 404", func(t *testing.T) {
		t.Parallel()

		var models []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			call := decodeChatCall(t, r)
			models = append(models, call.Model)
			if call.Model == "gone-model" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			chatReply(t, w, `[{"title": "Story", "description": "d"}]`)
		}))
		defer srv.Close()

		e := newTestExtractor(t, srv.URL, openrouter.WithModels([]string{"gone-model", "live-model"}))
		articles, err := e.Extract(context.Background(), "content", "https://example.com")
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, []string{"gone-model", "live-model"}, models)
	})

	t.Run("auth failure is terminal and not retried", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		e := newTestExtractor(t, srv.URL, openrouter.WithModels([]string{"model-a", "model-b"}))
		_, err := e.Extract(context.Background(), "content", "https://example.com")
		require.Error(t, err)
		assert.Equal(t, newsgrab.EUNAUTHORIZED, newsgrab.ErrorCode(err))
		assert.Equal(t, int64(1), calls.Load())
	})

	t.Run("rate limiting is retried then surfaced", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		e := newTestExtractor(t, srv.URL,
			openrouter.WithModels([]string{"only-model"}),
			openrouter.WithMaxRetries(3),
		)
		_, err := e.Extract(context.Background(), "content", "https://example.com")
		require.Error(t, err)
		assert.Equal(t, newsgrab.ERATELIMITED, newsgrab.ErrorCode(err))
		assert.Equal(t, int64(3), calls.Load())
	})

	t.Run("recovers when a transient server error clears", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			chatReply(t, w, `[{"title": "Story", "description": "d"}]`)
		}))
		defer srv.Close()

		e := newTestExtractor(t, srv.URL, openrouter.WithModels([]string{"only-model"}))
		articles, err := e.Extract(context.Background(), "content", "https://example.com")
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, int64(2), calls.Load())
	})

	t.Run("broadened prompt is tried once when extraction is empty", func(t *testing.T) {
		t.Parallel()

		var systems []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			call := decodeChatCall(t, r)
			systems = append(systems, call.Messages[0].Content)
			if len(systems) == 1 {
				chatReply(t, w, "[]")
				return
			}
			chatReply(t, w, `[{"title": "Headline", "description": "short"}]`)
		}))
		defer srv.Close()

		e := newTestExtractor(t, srv.URL, openrouter.WithModels([]string{"only-model"}))
		articles, err := e.Extract(context.Background(), "- Headline one\n- Headline two", "https://example.com")
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "Headline", articles[0].Title)

		require.Len(t, systems, 2)
		assert.NotEqual(t, systems[0], systems[1])
	})

	t.Run("broadened prompt failure still returns empty", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				chatReply(t, w, "[]")
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		e := newTestExtractor(t, srv.URL, openrouter.WithModels([]string{"only-model"}))
		articles, err := e.Extract(context.Background(), "nothing newsworthy", "https://example.com")
		require.NoError(t, err)
		assert.Empty(t, articles)
		assert.Equal(t, int64(2), calls.Load())
	})

	t.Run("unparseable model output is retried", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			chatReply(t, w, "Sorry, I cannot help with that.")
		}))
		defer srv.Close()

		e := newTestExtractor(t, srv.URL,
			openrouter.WithModels([]string{"only-model"}),
			openrouter.WithMaxRetries(3),
		)
		_, err := e.Extract(context.Background(), "content", "https://example.com")
		require.Error(t, err)
		assert.Equal(t, newsgrab.EUNPROCESSABLE, newsgrab.ErrorCode(err))
		assert.Equal(t, int64(3), calls.Load())
	})

	t.Run("empty result from every prompt is not an error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			chatReply(t, w, "[]")
		}))
		defer srv.Close()

		e := newTestExtractor(t, srv.URL, openrouter.WithModels([]string{"only-model"}))
		articles, err := e.Extract(context.Background(), "nothing newsworthy", "https://example.com")
		require.NoError(t, err)
		assert.Empty(t, articles)
	})

	t.Run("empty content is invalid", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(t, "http://unused.invalid")
		_, err := e.Extract(context.Background(), "", "https://example.com")
		require.Error(t, err)
		assert.Equal(t, newsgrab.EINVALID, newsgrab.ErrorCode(err))
	})

	t.Run("empty source URL is invalid", func(t *testing.T) {
		t.Parallel()

		e := newTestExtractor(t, "http://unused.invalid")
		_, err := e.Extract(context.Background(), "content", "")
		require.Error(t, err)
		assert.Equal(t, newsgrab.EINVALID, newsgrab.ErrorCode(err))
	})
}

func TestExtractor_DiscoverFreeModels(t *testing.T) {
	t.Parallel()

	t.Run("filters paid and reasoning models and prioritizes defaults", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models", r.URL.Path)
			resp := map[string]any{
				"data": []map[string]any{
					{"id": "vendor/paid-model", "pricing": map[string]string{"prompt": "0.002", "completion": "0.004"}},
					{"id": "vendor/free-model:free", "pricing": map[string]string{"prompt": "0", "completion": "0"}},
					{
						"id":                   "vendor/thinker:free",
						"pricing":              map[string]string{"prompt": "0", "completion": "0"},
						"supported_parameters": []string{"reasoning"},
					},
					{"id": "qwen/qwen3-coder:free", "pricing": map[string]string{"prompt": "0", "completion": "0"}},
				},
			}
			require.NoError(t, json.NewEncoder(w).Encode(resp))
		}))
		defer srv.Close()

		e := newTestExtractor(t, srv.URL)
		models := e.DiscoverFreeModels(context.Background())
		assert.Equal(t, []string{"qwen/qwen3-coder:free", "vendor/free-model:free"}, models)
	})

	t.Run("falls back to defaults when discovery fails", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		e := newTestExtractor(t, srv.URL)
		models := e.DiscoverFreeModels(context.Background())
		assert.Equal(t, openrouter.DefaultModels, models)
	})
}
