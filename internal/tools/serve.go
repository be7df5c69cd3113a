package tools

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

const maxRequestSize = 4 << 20

// Request is one line of the serve protocol.
type Request struct {
	ID        any       `json:"id,omitempty"`
	Tool      string    `json:"tool"`
	Arguments Arguments `json:"arguments"`
}

// Response wraps the result of one request.
type Response struct {
	ID any `json:"id,omitempty"`
	Result
}

// Serve reads newline-delimited requests from in and writes one response
// line per request to out until in is exhausted or ctx is done.
func (r *Registry) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestSize)

	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var request Request

		response := Response{}

		err := json.Unmarshal(line, &request)
		if err != nil {
			response.Result = Fail(fmt.Sprintf("invalid request: %v", err))
		} else {
			response.ID = request.ID
			response.Result = r.Call(ctx, request.Tool, request.Arguments)
		}

		err = encoder.Encode(response)
		if err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}

	err := scanner.Err()
	if err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}

	return nil
}
