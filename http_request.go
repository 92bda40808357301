package rdaptastic

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

const maxBodySize = 2 << 20

// response is a fully read upstream reply. Bodies are read eagerly so no connection
// outlives the call that opened it.
type response struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (r *response) ok() bool { return r.StatusCode == http.StatusOK }

// get performs a single bounded GET. There are no retries: a transport error or timeout is
// returned as-is for the caller to classify.
func (c *Client) get(ctx context.Context, u, accept string) (*response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.baseTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req.Header.Set("User-Agent", c.ua)
	copyHeaders(req.Header, c.headerExtra)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	return &response{StatusCode: resp.StatusCode, Status: resp.Status, Body: b}, nil
}
