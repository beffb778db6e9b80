// Package channel carries transform requests between the page-side
// session and the background proxy. Delivery is attempted a fixed number
// of times with a fixed delay; only transport failures are retried,
// application errors travel inside the response.
package channel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sbeeredd04/promen/internal/domain"
)

// TransformRequest is the wire shape of a transform request.
type TransformRequest struct {
	Action string `json:"action"`
	Text   string `json:"text"`
}

// TransformResponse is the wire shape of a transform result. Exactly one
// of Result and Error is set.
type TransformResponse struct {
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Sender delivers one request. A returned error means the message never
// reached the other side; a response with Error set means it did and the
// handler failed.
type Sender interface {
	Send(ctx context.Context, req TransformRequest) (TransformResponse, error)
}

// Handler processes delivered requests on the background side.
type Handler interface {
	Transform(ctx context.Context, action domain.Action, text string) (string, error)
}

// Local delivers requests in-process to a Handler.
type Local struct {
	handler Handler
}

// NewLocal wraps a handler as a channel endpoint.
func NewLocal(handler Handler) *Local {
	return &Local{handler: handler}
}

// Send delivers the request and folds handler failures into the response.
func (l *Local) Send(ctx context.Context, req TransformRequest) (TransformResponse, error) {
	action, err := domain.ParseAction(req.Action)
	if err != nil {
		return TransformResponse{Error: err.Error()}, nil
	}

	result, err := l.handler.Transform(ctx, action, req.Text)
	if err != nil {
		return TransformResponse{Error: err.Error()}, nil
	}
	return TransformResponse{Result: result}, nil
}

// Retrying decorates a Sender with fixed-interval delivery retries.
type Retrying struct {
	next     Sender
	attempts int
	delay    time.Duration
}

// NewRetrying builds a retrying channel. Attempts below 1 are clamped to 1.
func NewRetrying(next Sender, attempts int, delay time.Duration) *Retrying {
	if attempts < 1 {
		attempts = 1
	}
	return &Retrying{
		next:     next,
		attempts: attempts,
		delay:    delay,
	}
}

// Send tries delivery up to the configured number of attempts. A response
// that arrived, even one carrying an application error, ends the retries.
func (r *Retrying) Send(ctx context.Context, req TransformRequest) (TransformResponse, error) {
	var lastErr error

	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(r.delay):
			case <-ctx.Done():
				return TransformResponse{}, ctx.Err()
			}
		}

		resp, err := r.next.Send(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}

	return TransformResponse{}, fmt.Errorf("channel: delivery failed after %d attempts: %w", r.attempts, lastErr)
}

// Client adapts a Sender to the transform port the session calls.
type Client struct {
	sender Sender
}

// NewClient wraps a sender.
func NewClient(sender Sender) *Client {
	return &Client{sender: sender}
}

// Transform sends one request over the channel and unwraps the response.
func (c *Client) Transform(ctx context.Context, action domain.Action, text string) (string, error) {
	resp, err := c.sender.Send(ctx, TransformRequest{
		Action: string(action),
		Text:   text,
	})
	if err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", errors.New(resp.Error)
	}
	return resp.Result, nil
}
