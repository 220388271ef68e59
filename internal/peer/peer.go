// Package peer holds the plumbing shared by the clients that call the other
// helpdesk service over HTTP.
package peer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Response is a completed exchange with a peer.
type Response struct {
	Status int
	Body   []byte
}

// EffectiveTimeout bounds a call by timeout and by the time left on ctx.
func EffectiveTimeout(ctx context.Context, timeout time.Duration) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, context.DeadlineExceeded
		}
		if timeout <= 0 || remaining < timeout {
			return remaining, nil
		}
	}
	return timeout, nil
}

// Do runs agent with the effective timeout. Transport failures and timeouts are
// returned as an error; any HTTP status is returned in the response. Cancelling
// ctx returns ctx.Err() at once while the abandoned call runs out its timeout.
func Do(ctx context.Context, agent *fiber.Agent, timeout time.Duration) (Response, error) {
	effective, err := EffectiveTimeout(ctx, timeout)
	if err != nil {
		fiber.ReleaseAgent(agent)
		return Response{}, err
	}
	if effective > 0 {
		agent.Timeout(effective)
	}
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

	type result struct {
		resp Response
		err  error
	}
	done := make(chan result, 1)
	go func() {
		status, body, errs := agent.Bytes()
		if len(errs) > 0 {
			done <- result{err: errors.Join(errs...)}
			return
		}
		done <- result{resp: Response{Status: status, Body: body}}
	}()

	select {
	case r := <-done:
		return r.resp, r.err
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

// ErrorMessage extracts the message of a {"error":{...}} body, falling back to fallback.
func ErrorMessage(body []byte, fallback string) (string, map[string]any) {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Error.Message == "" {
		return fallback, nil
	}
	return env.Error.Message, env.Error.Details
}
