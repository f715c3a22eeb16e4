// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/stxkit/stacker/log"
	"github.com/stxkit/stacker/metrics"
	"github.com/stxkit/stacker/stx"
)

var (
	logger = log.WithContext("pkg", "httpclient")

	metricRequestCount    = metrics.LazyLoadCounterVec("node_requests_count", []string{"endpoint", "method", "status"})
	metricRequestDuration = metrics.LazyLoadHistogramVec("node_request_duration_ms", []string{"endpoint", "method"}, metrics.BucketNodeRequests)
)

const (
	contentTypeJSON  = "application/json"
	contentTypeOctet = "application/octet-stream"
)

// maxErrorBody caps how much of an error response is kept on the error value.
const maxErrorBody = 512

type response struct {
	body   []byte
	status int
}

// rawRequest performs one round trip and returns the body whatever the status.
func (c *Client) rawRequest(ctx context.Context, endpoint, method, url, contentType string, payload io.Reader) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", contentTypeJSON)

	start := time.Now()
	resp, err := c.c.Do(req)
	if err != nil {
		metricRequestCount().AddWithLabel(1, map[string]string{"endpoint": endpoint, "method": method, "status": "error"})
		return nil, fmt.Errorf("error performing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	elapsed := time.Since(start)
	metricRequestDuration().ObserveWithLabels(elapsed.Milliseconds(), map[string]string{"endpoint": endpoint, "method": method})
	metricRequestCount().AddWithLabel(1, map[string]string{"endpoint": endpoint, "method": method, "status": strconv.Itoa(resp.StatusCode)})
	logger.Debug("node request", "method", method, "url", url, "status", resp.StatusCode, "elapsed", elapsed)

	return &response{body: body, status: resp.StatusCode}, nil
}

// httpRequest is rawRequest with any status other than 200 turned into a
// *stx.RemoteReadError.
func (c *Client) httpRequest(ctx context.Context, endpoint, method, url, contentType string, payload io.Reader) ([]byte, error) {
	resp, err := c.rawRequest(ctx, endpoint, method, url, contentType, payload)
	if err != nil {
		return nil, &stx.RemoteReadError{URL: url, Body: err.Error()}
	}
	if resp.status != http.StatusOK {
		return nil, newRemoteReadError(url, resp)
	}
	return resp.body, nil
}

func (c *Client) httpGET(ctx context.Context, endpoint, url string) ([]byte, error) {
	return c.httpRequest(ctx, endpoint, http.MethodGet, url, "", nil)
}

func (c *Client) httpPOST(ctx context.Context, endpoint, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal payload - %w", err)
	}
	return c.httpRequest(ctx, endpoint, http.MethodPost, url, contentTypeJSON, bytes.NewReader(data))
}

func newRemoteReadError(url string, resp *response) *stx.RemoteReadError {
	body := resp.body
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &stx.RemoteReadError{URL: url, StatusCode: resp.status, Body: string(bytes.TrimSpace(body))}
}
