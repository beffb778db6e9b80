// Package server exposes the transform pipeline over a local HTTP
// bridge, so editor plugins and scripts can use the assistant without
// linking the Go packages.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sbeeredd04/promen/internal/adapter/channel"
	"github.com/sbeeredd04/promen/internal/adapter/preview"
	"github.com/sbeeredd04/promen/internal/domain"
	"github.com/sbeeredd04/promen/internal/usecase/proxy"
)

// Formatter derives the paired renderings from raw model text.
type Formatter interface {
	Format(raw string) domain.Fragment
}

// KeyManager is the slice of the proxy the key endpoints need.
type KeyManager interface {
	UpdateKey(ctx context.Context, key string) error
	ClearKey(ctx context.Context) error
}

// TransformRequest is the bridge request body.
type TransformRequest struct {
	Action string `json:"action"`
	Text   string `json:"text"`
}

// TransformResponse is the bridge response body. On success Result holds
// the raw model text and HTML/PlainText the formatted renderings.
type TransformResponse struct {
	Result    string `json:"result,omitempty"`
	HTML      string `json:"html,omitempty"`
	PlainText string `json:"plainText,omitempty"`
	Error     string `json:"error,omitempty"`
}

// KeyRequest is the body for key updates.
type KeyRequest struct {
	Key string `json:"key"`
}

// PreviewRequest is the body for preview rendering. A non-empty Title
// asks for a standalone HTML document instead of a fragment.
type PreviewRequest struct {
	Markdown string `json:"markdown"`
	Title    string `json:"title,omitempty"`
	Flatten  bool   `json:"flatten,omitempty"`
}

// PreviewResponse carries the rendered preview HTML.
type PreviewResponse struct {
	HTML  string `json:"html,omitempty"`
	Error string `json:"error,omitempty"`
}

// NewHandler wires the bridge endpoints.
func NewHandler(sender channel.Sender, formatter Formatter, keys KeyManager) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("POST /v1/transform", handleTransform(sender, formatter))
	mux.HandleFunc("POST /v1/preview", handlePreview)
	mux.HandleFunc("POST /v1/key", handleSetKey(keys))
	mux.HandleFunc("DELETE /v1/key", handleClearKey(keys))

	return mux
}

// NewServer builds the bridge HTTP server.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func handleTransform(sender channel.Sender, formatter Formatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TransformRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, TransformResponse{Error: "invalid request body"})
			return
		}

		resp, err := sender.Send(r.Context(), channel.TransformRequest{
			Action: req.Action,
			Text:   req.Text,
		})
		if err != nil {
			writeJSON(w, http.StatusBadGateway, TransformResponse{Error: err.Error()})
			return
		}
		if resp.Error != "" {
			writeJSON(w, statusForError(resp.Error), TransformResponse{Error: resp.Error})
			return
		}

		fragment := formatter.Format(resp.Result)
		writeJSON(w, http.StatusOK, TransformResponse{
			Result:    resp.Result,
			HTML:      fragment.HTML,
			PlainText: fragment.PlainText,
		})
	}
}

func handlePreview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, PreviewResponse{Error: "invalid request body"})
		return
	}

	var html string
	var err error
	if req.Title != "" {
		html, err = preview.Page(req.Title, req.Markdown)
	} else {
		html, err = preview.Render(req.Markdown)
	}
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, PreviewResponse{Error: err.Error()})
		return
	}
	if req.Flatten {
		html = preview.FlattenLists(html)
	}

	writeJSON(w, http.StatusOK, PreviewResponse{HTML: html})
}

func handleSetKey(keys KeyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req KeyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		if err := keys.UpdateKey(r.Context(), req.Key); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, proxy.ErrKeyNotSet) {
				status = http.StatusBadRequest
			}
			writeJSON(w, status, map[string]string{"error": err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

func handleClearKey(keys KeyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := keys.ClearKey(r.Context()); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	}
}

// statusForError maps application errors carried in channel responses to
// HTTP status codes.
func statusForError(message string) int {
	switch message {
	case proxy.ErrKeyNotSet.Error():
		return http.StatusUnauthorized
	case proxy.ErrNoText.Error(), proxy.ErrAgentUnavailable.Error():
		return http.StatusBadRequest
	case proxy.ErrInactive.Error():
		return http.StatusServiceUnavailable
	}
	if strings.HasPrefix(message, "unknown action") {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
