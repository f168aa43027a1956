package linkedin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lipost/internal/lipost"
)

func newTestTransport() *restTransport {
	return newRESTTransport(testCreds(), 5*time.Second)
}

func TestRequestSetsProtocolHeaders(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "v", body["k"])

		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	raw, err := newTestTransport().Request(context.Background(), http.MethodPost, server.URL, map[string]string{"k": "v"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
}

func TestRequestClassifiesAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"bad share"}`))
	}))
	defer server.Close()

	_, err := newTestTransport().Request(context.Background(), http.MethodPost, server.URL, nil)
	var apiErr lipost.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "bad share")
}

func TestRequestClassifiesNetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	_, err := newTestTransport().Request(context.Background(), http.MethodGet, server.URL, nil)
	var netErr lipost.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, server.URL, netErr.URL)
}

func TestRequestClassifiesClientError(t *testing.T) {
	t.Parallel()

	// A channel has no JSON encoding, so marshalling the body fails locally.
	_, err := newTestTransport().Request(context.Background(), http.MethodPost, "https://api.example.com", make(chan int))
	var cliErr lipost.ClientError
	require.ErrorAs(t, err, &cliErr)
}

func TestUploadSendsBinaryBody(t *testing.T) {
	t.Parallel()

	payload := []byte{0xff, 0xd8, 0xff, 0xe0}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("X-Restli-Protocol-Version"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, payload, body)

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	require.NoError(t, newTestTransport().Upload(context.Background(), server.URL, payload))
}

func TestUploadClassifiesAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expired url", http.StatusForbidden)
	}))
	defer server.Close()

	err := newTestTransport().Upload(context.Background(), server.URL, []byte("data"))
	var apiErr lipost.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "expired url")
}
