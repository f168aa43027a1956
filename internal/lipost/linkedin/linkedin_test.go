package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lipost/internal/lipost"
)

// fakeTransport records every call and replays canned responses.
type fakeTransport struct {
	calls []string

	requestFn func(method, url string, body any) (json.RawMessage, error)
	uploadFn  func(uploadURL string, data []byte) error
}

func (f *fakeTransport) Request(_ context.Context, method, url string, body any) (json.RawMessage, error) {
	f.calls = append(f.calls, method+" "+url)
	if f.requestFn != nil {
		return f.requestFn(method, url, body)
	}
	return json.RawMessage(`{}`), nil
}

func (f *fakeTransport) Upload(_ context.Context, uploadURL string, data []byte) error {
	f.calls = append(f.calls, "PUT "+uploadURL)
	if f.uploadFn != nil {
		return f.uploadFn(uploadURL, data)
	}
	return nil
}

func testCreds() Credentials {
	return Credentials{AccessToken: "token", ActorURN: testActor}
}

func registerResponse(uploadURL, asset string) json.RawMessage {
	body := map[string]any{
		"value": map[string]any{
			"uploadMechanism": map[string]any{
				uploadMechanismKey: map[string]any{"uploadUrl": uploadURL},
			},
			"asset": asset,
		},
	}
	raw, _ := json.Marshal(body)
	return raw
}

func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "x.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpegbytes"), 0o644))
	return path
}

func TestOperationsRequireCredentials(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	client := New(Credentials{}, WithTransport(transport), WithBaseURL("https://api.example.com"))
	ctx := context.Background()

	ops := map[string]func() error{
		"text": func() error {
			_, err := client.PostText(ctx, "hello", lipost.VisibilityPublic)
			return err
		},
		"article": func() error {
			_, err := client.PostArticle(ctx, "hi", "https://example.com", "t", "d", lipost.VisibilityPublic)
			return err
		},
		"image": func() error {
			_, err := client.PostImage(ctx, "hi", "/nonexistent.jpg", "", lipost.VisibilityPublic)
			return err
		},
		"profile": func() error {
			_, err := client.Profile(ctx)
			return err
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			var cfgErr lipost.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.ElementsMatch(t, []string{"LIPOST_ACCESS_TOKEN", "LIPOST_ACTOR_URN"}, cfgErr.Missing)
		})
	}

	assert.Empty(t, transport.calls, "no network call may happen on invalid credentials")
}

func TestPostText(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		requestFn: func(method, url string, body any) (json.RawMessage, error) {
			assert.Equal(t, http.MethodPost, method)
			assert.Equal(t, "https://api.example.com/v2/ugcPosts", url)

			payload, ok := body.(sharePayload)
			require.True(t, ok)
			assert.Equal(t, testActor, payload.Author)
			assert.Equal(t, "hello", payload.SpecificContent[shareContentKey].ShareCommentary.Text)

			return json.RawMessage(`{"id":"urn:li:share:1"}`), nil
		},
	}
	client := New(testCreds(), WithTransport(transport), WithBaseURL("https://api.example.com"))

	res, err := client.PostText(context.Background(), "hello", lipost.VisibilityPublic)
	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:1", res.ID)
	assert.JSONEq(t, `{"id":"urn:li:share:1"}`, string(res.Raw))
}

func TestPostImageCallsTransportInOrder(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		requestFn: func(method, url string, body any) (json.RawMessage, error) {
			if strings.Contains(url, "/v2/assets") {
				return registerResponse("https://u", "urn:li:digitalmediaAsset:1"), nil
			}
			payload, ok := body.(sharePayload)
			if assert.True(t, ok) {
				media := payload.SpecificContent[shareContentKey].Media
				if assert.Len(t, media, 1) {
					assert.Equal(t, "urn:li:digitalmediaAsset:1", media[0].Media)
				}
			}
			return json.RawMessage(`{"id":"urn:li:share:2"}`), nil
		},
	}
	client := New(testCreds(), WithTransport(transport), WithBaseURL("https://api.example.com"))

	res, err := client.PostImage(context.Background(), "caption", writeTestImage(t), "", lipost.VisibilityPublic)
	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:2", res.ID)

	require.Equal(t, []string{
		"POST https://api.example.com/v2/assets?action=registerUpload",
		"PUT https://u",
		"POST https://api.example.com/v2/ugcPosts",
	}, transport.calls)
}

func TestPostImageUploadFailureAbortsPost(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		requestFn: func(method, url string, body any) (json.RawMessage, error) {
			require.Contains(t, url, "/v2/assets", "create endpoint must not be reached after upload failure")
			return registerResponse("https://u", "urn:li:digitalmediaAsset:1"), nil
		},
		uploadFn: func(uploadURL string, data []byte) error {
			return lipost.APIError{StatusCode: 500, Body: "upload broke"}
		},
	}
	client := New(testCreds(), WithTransport(transport), WithBaseURL("https://api.example.com"))

	_, err := client.PostImage(context.Background(), "caption", writeTestImage(t), "", lipost.VisibilityPublic)
	var apiErr lipost.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)

	require.Len(t, transport.calls, 2)
}

func TestPostImageRegistrationFailureSkipsUpload(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		requestFn: func(method, url string, body any) (json.RawMessage, error) {
			return nil, lipost.APIError{StatusCode: 403, Body: "no"}
		},
	}
	client := New(testCreds(), WithTransport(transport), WithBaseURL("https://api.example.com"))

	_, err := client.PostImage(context.Background(), "caption", writeTestImage(t), "", lipost.VisibilityPublic)
	var apiErr lipost.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Len(t, transport.calls, 1)
}

func TestPostImageUnreadableFileIsClientError(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		requestFn: func(method, url string, body any) (json.RawMessage, error) {
			return registerResponse("https://u", "urn:li:digitalmediaAsset:1"), nil
		},
	}
	client := New(testCreds(), WithTransport(transport), WithBaseURL("https://api.example.com"))

	_, err := client.PostImage(context.Background(), "caption", filepath.Join(t.TempDir(), "missing.jpg"), "", lipost.VisibilityPublic)
	var cliErr lipost.ClientError
	require.ErrorAs(t, err, &cliErr)
}

func TestRegisterUploadRejectsIncompleteResponse(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		requestFn: func(method, url string, body any) (json.RawMessage, error) {
			return json.RawMessage(`{"value":{}}`), nil
		},
	}
	client := New(testCreds(), WithTransport(transport), WithBaseURL("https://api.example.com"))

	_, err := client.registerUpload(context.Background())
	var cliErr lipost.ClientError
	require.ErrorAs(t, err, &cliErr)
}

func TestPublishDispatchesOnVariant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		req      lipost.PostRequest
		category string
	}{
		{"text", lipost.TextPost{Text: "hello"}, "NONE"},
		{"article", lipost.ArticlePost{Text: "hi", URL: "https://example.com"}, "ARTICLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			transport := &fakeTransport{
				requestFn: func(method, url string, body any) (json.RawMessage, error) {
					payload, ok := body.(sharePayload)
					require.True(t, ok)
					assert.Equal(t, tt.category, payload.SpecificContent[shareContentKey].ShareMediaCategory)
					return json.RawMessage(`{"id":"urn:li:share:9"}`), nil
				},
			}
			client := New(testCreds(), WithTransport(transport), WithBaseURL("https://api.example.com"))

			res, err := client.Publish(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, "urn:li:share:9", res.ID)
		})
	}
}

func TestProfile(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		requestFn: func(method, url string, body any) (json.RawMessage, error) {
			assert.Equal(t, http.MethodGet, method)
			assert.Equal(t, "https://api.example.com/v2/me", url)
			assert.Nil(t, body)
			return json.RawMessage(`{"id":"abc123","localizedFirstName":"Ada","localizedLastName":"Lovelace"}`), nil
		},
	}
	client := New(testCreds(), WithTransport(transport), WithBaseURL("https://api.example.com"))

	profile, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", profile.ID)
	assert.Equal(t, "Ada", profile.FirstName)
	assert.Equal(t, "Lovelace", profile.LastName)
}

func TestFailReturnsErrorUnchanged(t *testing.T) {
	t.Parallel()

	netErr := lipost.NetworkError{URL: "https://api.example.com", Err: errors.New("refused")}
	transport := &fakeTransport{
		requestFn: func(method, url string, body any) (json.RawMessage, error) {
			return nil, netErr
		},
	}
	client := New(testCreds(), WithTransport(transport), WithBaseURL("https://api.example.com"))

	_, err := client.PostText(context.Background(), "hello", lipost.VisibilityPublic)
	var got lipost.NetworkError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, netErr.URL, got.URL)
}
