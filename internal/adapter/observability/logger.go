// Package observability provides structured application logging on top of
// the same level and format conventions the provider HTTP clients use.
package observability

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	llmhttp "github.com/sbeeredd04/promen/internal/adapter/llm/http"
)

// Logger writes leveled application events in human or JSON format.
type Logger struct {
	level  llmhttp.LogLevel
	format llmhttp.LogFormat
}

// NewLogger creates a logger with the given level and format.
func NewLogger(level llmhttp.LogLevel, format llmhttp.LogFormat) *Logger {
	return &Logger{level: level, format: format}
}

// Debug logs a debug event.
func (l *Logger) Debug(message string, fields map[string]any) {
	if l.level > llmhttp.LogLevelDebug {
		return
	}
	l.emit("debug", message, fields)
}

// Info logs an informational event.
func (l *Logger) Info(message string, fields map[string]any) {
	if l.level > llmhttp.LogLevelInfo {
		return
	}
	l.emit("info", message, fields)
}

// Error logs an error event.
func (l *Logger) Error(message string, fields map[string]any) {
	l.emit("error", message, fields)
}

func (l *Logger) emit(level, message string, fields map[string]any) {
	message = llmhttp.RedactURLSecrets(message)

	if l.format == llmhttp.LogFormatJSON {
		entry := map[string]any{
			"level":     level,
			"message":   message,
			"timestamp": time.Now().Format(time.RFC3339),
		}
		for k, v := range fields {
			entry[k] = v
		}
		if data, err := json.Marshal(entry); err == nil {
			log.Print(string(data))
			return
		}
	}

	if len(fields) == 0 {
		log.Printf("[%s] %s", levelTag(level), message)
		return
	}
	log.Printf("[%s] %s %v", levelTag(level), message, fields)
}

func levelTag(level string) string {
	switch level {
	case "debug":
		return "DEBUG"
	case "error":
		return "ERROR"
	default:
		return "INFO"
	}
}

// statusRecorder captures the response status for access logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// AccessLog wraps an HTTP handler with per-request logging.
func AccessLog(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info("request", map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}
