package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmhttp "github.com/sbeeredd04/promen/internal/adapter/llm/http"
	"github.com/sbeeredd04/promen/internal/config"
)

func newTestClient(t *testing.T, serverURL string) *HTTPClient {
	t.Helper()
	client := NewHTTPClient("test-key", "gemini-2.0-flash", config.ProviderConfig{}, config.HTTPConfig{
		Timeout:           "5s",
		MaxRetries:        2,
		InitialBackoff:    "1ms",
		MaxBackoff:        "5ms",
		BackoffMultiplier: 2.0,
	})
	client.SetBaseURL(serverURL)
	return client
}

func successBody(text string) GenerateContentResponse {
	return GenerateContentResponse{
		Candidates: []Candidate{
			{
				Content:      Content{Parts: []Part{{Text: text}}},
				FinishReason: "STOP",
			},
		},
		UsageMetadata: UsageMetadata{PromptTokenCount: 10, CandidatesTokenCount: 20},
	}
}

func TestCall_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotReq GenerateContentRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(successBody("improved prompt"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.Call(context.Background(), "rephrase this", CallOptions{})

	require.NoError(t, err)
	assert.Equal(t, "improved prompt", resp.Text)
	assert.Equal(t, 10, resp.TokensIn)
	assert.Equal(t, 20, resp.TokensOut)
	assert.Equal(t, "STOP", resp.FinishReason)

	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotReq.Contents, 1)
	require.Len(t, gotReq.Contents[0].Parts, 1)
	assert.Equal(t, "rephrase this", gotReq.Contents[0].Parts[0].Text)
}

func TestCall_MultiPartResponseJoined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := successBody("first ")
		resp.Candidates[0].Content.Parts = append(resp.Candidates[0].Content.Parts, Part{Text: "second"})
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.Call(context.Background(), "prompt", CallOptions{})

	require.NoError(t, err)
	assert.Equal(t, "first second", resp.Text)
}

func TestCall_AuthenticationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorDetail{Code: 401, Message: "API key not valid"}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Call(context.Background(), "prompt", CallOptions{})

	require.Error(t, err)
	var httpErr *llmhttp.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, llmhttp.ErrTypeAuthentication, httpErr.Type)
	assert.False(t, httpErr.Retryable)
	assert.Contains(t, httpErr.Message, "API key not valid")
}

func TestCall_RetriesServiceUnavailable(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(successBody("eventually"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.Call(context.Background(), "prompt", CallOptions{})

	require.NoError(t, err)
	assert.Equal(t, "eventually", resp.Text)
	assert.Equal(t, 3, attempts)
}

func TestCall_InvalidResponseFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GenerateContentResponse{})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Call(context.Background(), "prompt", CallOptions{})

	require.Error(t, err)
	var httpErr *llmhttp.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "Invalid API response format", httpErr.Message)
}

func TestCall_SafetyBlocked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := successBody("partial")
		resp.Candidates[0].FinishReason = "SAFETY"
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Call(context.Background(), "prompt", CallOptions{})

	require.Error(t, err)
	var httpErr *llmhttp.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, llmhttp.ErrTypeContentFiltered, httpErr.Type)
}

func TestCall_GenerationConfig(t *testing.T) {
	var gotReq GenerateContentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(successBody("ok"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Call(context.Background(), "prompt", CallOptions{Temperature: 0.7, MaxTokens: 256})

	require.NoError(t, err)
	require.NotNil(t, gotReq.GenerationConfig)
	assert.Equal(t, 0.7, gotReq.GenerationConfig.Temperature)
	assert.Equal(t, 256, gotReq.GenerationConfig.MaxOutputTokens)
	assert.Equal(t, 1, gotReq.GenerationConfig.CandidateCount)
}

func TestCall_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		json.NewEncoder(w).Encode(successBody("too late"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(t, server.URL)
	_, err := client.Call(ctx, "prompt", CallOptions{})

	assert.Error(t, err)
}

func TestCall_RetriesTransportFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			// Drop the connection so the client sees a transport
			// failure rather than an HTTP error response.
			conn, _, err := w.(http.Hijacker).Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		json.NewEncoder(w).Encode(successBody("eventually"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.Call(context.Background(), "prompt", CallOptions{})

	require.NoError(t, err)
	assert.Equal(t, "eventually", resp.Text)
	assert.Equal(t, 3, attempts)
}
