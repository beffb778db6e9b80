package observability_test

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	llmhttp "github.com/sbeeredd04/promen/internal/adapter/llm/http"
	"github.com/sbeeredd04/promen/internal/adapter/observability"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := captureLog(t)
	logger := observability.NewLogger(llmhttp.LogLevelError, llmhttp.LogFormatHuman)

	logger.Debug("debug message", nil)
	logger.Info("info message", nil)
	assert.Empty(t, buf.String())

	logger.Error("error message", nil)
	assert.Contains(t, buf.String(), "[ERROR] error message")
}

func TestLogger_HumanFormatWithFields(t *testing.T) {
	buf := captureLog(t)
	logger := observability.NewLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatHuman)

	logger.Info("request", map[string]any{"path": "/v1/transform"})

	assert.Contains(t, buf.String(), "[INFO] request")
	assert.Contains(t, buf.String(), "/v1/transform")
}

func TestLogger_JSONFormat(t *testing.T) {
	buf := captureLog(t)
	logger := observability.NewLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatJSON)

	logger.Info("request", map[string]any{"status": 200})

	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.Contains(t, buf.String(), `"message":"request"`)
	assert.Contains(t, buf.String(), `"status":200`)
}

func TestLogger_RedactsURLSecrets(t *testing.T) {
	buf := captureLog(t)
	logger := observability.NewLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatHuman)

	logger.Error("call failed: https://api.example.com?key=secret123", nil)

	assert.Contains(t, buf.String(), "key=[REDACTED]")
	assert.NotContains(t, buf.String(), "secret123")
}

func TestAccessLog(t *testing.T) {
	buf := captureLog(t)
	logger := observability.NewLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatHuman)

	handler := observability.AccessLog(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "/healthz")
	assert.Contains(t, buf.String(), "418")
}
