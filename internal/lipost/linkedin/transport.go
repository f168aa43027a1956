package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lipost/internal/lipost"
	"lipost/internal/logutil"
)

// Transport performs one authenticated exchange with the network and
// classifies its failures: a non-2xx response is an APIError, a request that
// produced no response is a NetworkError, and anything that fails on this
// side is a ClientError. No call is retried.
type Transport interface {
	// Request issues an API call and returns the raw response document.
	Request(ctx context.Context, method, url string, body any) (json.RawMessage, error)

	// Upload PUTs binary data to a pre-signed URL outside the main API
	// surface. The response body is discarded on success.
	Upload(ctx context.Context, uploadURL string, data []byte) error
}

const protocolVersion = "2.0.0"

type restTransport struct {
	client *http.Client
	token  string
}

func newRESTTransport(creds Credentials, timeout time.Duration) *restTransport {
	return &restTransport{
		client: &http.Client{Timeout: timeout},
		token:  creds.AccessToken,
	}
}

func (t *restTransport) Request(ctx context.Context, method, url string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, lipost.ClientError{Err: fmt.Errorf("encode request body: %w", err)}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, lipost.ClientError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", protocolVersion)

	logutil.Debug("api request", "method", method, "url", url)
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, lipost.NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, lipost.ClientError{Err: fmt.Errorf("read response body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, lipost.APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	return json.RawMessage(data), nil
}

func (t *restTransport) Upload(ctx context.Context, uploadURL string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return lipost.ClientError{Err: fmt.Errorf("build upload request: %w", err)}
	}
	// The pre-signed URL takes only the bearer token and a binary content
	// type; none of the main API headers apply.
	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("Content-Type", "application/octet-stream")

	logutil.Debug("binary upload", "url", uploadURL, "bytes", len(data))
	resp, err := t.client.Do(req)
	if err != nil {
		return lipost.NetworkError{URL: uploadURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return lipost.APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return nil
}
