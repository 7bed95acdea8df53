package guide

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayline/guestqa/core/errors"
)

type sourceConfig struct {
	baseURL string
	apiKey  string
}

func (c *sourceConfig) GetSourceBaseURL() string { return c.baseURL }
func (c *sourceConfig) GetSourceAPIKey() string  { return c.apiKey }

func TestNewSourceValidation(t *testing.T) {
	ctx := context.Background()

	_, err := NewSource(ctx, &sourceConfig{baseURL: "", apiKey: "k"})
	assert.Error(t, err)

	_, err = NewSource(ctx, &sourceConfig{baseURL: "http://cms.local", apiKey: ""})
	assert.Error(t, err)

	src, err := NewSource(ctx, &sourceConfig{baseURL: "http://cms.local", apiKey: "k"})
	require.NoError(t, err)
	assert.NotNil(t, src)
}

func TestFetchEntries(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/entries", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [
				{
					"sys": {"id": "e1"},
					"fields": {
						"question": "When is checkout?",
						"keywords": ["checkout time"],
						"answer": "Checkout is at 11am."
					}
				},
				{
					"sys": {"id": "e2"},
					"fields": {
						"question": "Is there a pool?",
						"answer": {"content": [{"value": "Yes, open 8am-8pm."}]}
					}
				},
				{
					"sys": {"id": "e3"},
					"fields": {"question": "Broken entry?", "answer": ""}
				}
			]
		}`))
	}))
	defer server.Close()

	src, err := NewSource(ctx, &sourceConfig{baseURL: server.URL, apiKey: "secret"})
	require.NoError(t, err)

	entries, err := src.FetchEntries(ctx)
	require.NoError(t, err)

	// 空答案的 e3 在映射阶段被丢弃
	require.Len(t, entries, 2)
	assert.Equal(t, "e1", entries[0].ID)
	assert.Equal(t, "Checkout is at 11am.", entries[0].Answer)
	assert.Equal(t, []string{"When is checkout?", "checkout time"}, entries[0].Patterns)
	assert.Equal(t, "e2", entries[1].ID)
	assert.Equal(t, "Yes, open 8am-8pm.", entries[1].Answer)
}

func TestFetchEntriesServerError(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	src, err := NewSource(ctx, &sourceConfig{baseURL: server.URL, apiKey: "secret"})
	require.NoError(t, err)

	_, err = src.FetchEntries(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSourceUnavailable))
}

func TestFetchEntriesMalformedResponse(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	src, err := NewSource(ctx, &sourceConfig{baseURL: server.URL, apiKey: "secret"})
	require.NoError(t, err)

	_, err = src.FetchEntries(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSourceUnavailable))
}
