package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"lipost/internal/lipost"
	"lipost/internal/logutil"
)

const (
	assetsEndpoint = "/v2/assets?action=registerUpload"

	imageRecipe        = "urn:li:digitalmediaRecipe:feedshare-image"
	contentIdentifier  = "urn:li:userGeneratedContent"
	uploadMechanismKey = "com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest"
)

// mediaAsset is the one-time handle produced by upload registration: where to
// PUT the bytes, and the asset URN a share payload can reference. It is never
// reused across posts.
type mediaAsset struct {
	uploadURL string
	asset     string
}

type registerUploadRequest struct {
	RegisterUploadRequest registerUploadBody `json:"registerUploadRequest"`
}

type registerUploadBody struct {
	Recipes              []string              `json:"recipes"`
	Owner                string                `json:"owner"`
	ServiceRelationships []serviceRelationship `json:"serviceRelationships"`
}

type serviceRelationship struct {
	RelationshipType string `json:"relationshipType"`
	Identifier       string `json:"identifier"`
}

type registerUploadResponse struct {
	Value struct {
		UploadMechanism map[string]struct {
			UploadURL string `json:"uploadUrl"`
		} `json:"uploadMechanism"`
		Asset string `json:"asset"`
	} `json:"value"`
}

// registerUpload asks the assets endpoint for an upload slot owned by the
// actor.
func (c *Client) registerUpload(ctx context.Context) (mediaAsset, error) {
	body := registerUploadRequest{
		RegisterUploadRequest: registerUploadBody{
			Recipes: []string{imageRecipe},
			Owner:   c.creds.ActorURN,
			ServiceRelationships: []serviceRelationship{{
				RelationshipType: "OWNER",
				Identifier:       contentIdentifier,
			}},
		},
	}

	raw, err := c.transport.Request(ctx, http.MethodPost, c.baseURL+assetsEndpoint, body)
	if err != nil {
		return mediaAsset{}, fmt.Errorf("register upload: %w", err)
	}

	var res registerUploadResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return mediaAsset{}, lipost.ClientError{Err: fmt.Errorf("decode register response: %w", err)}
	}

	mech, ok := res.Value.UploadMechanism[uploadMechanismKey]
	if !ok || mech.UploadURL == "" || res.Value.Asset == "" {
		return mediaAsset{}, lipost.ClientError{Err: errors.New("register response missing upload url or asset")}
	}

	return mediaAsset{uploadURL: mech.UploadURL, asset: res.Value.Asset}, nil
}

// uploadImage runs the two-phase pipeline: register a slot, then PUT the file
// bytes to the one-time URL. The phases are strictly sequential. A failure
// after registration abandons the registered asset — the API offers no
// deregistration call, so the remote side keeps an orphan.
func (c *Client) uploadImage(ctx context.Context, path string) (mediaAsset, error) {
	asset, err := c.registerUpload(ctx)
	if err != nil {
		return mediaAsset{}, err
	}
	logutil.Debug("upload registered", "asset", asset.asset)

	data, err := os.ReadFile(path)
	if err != nil {
		return mediaAsset{}, lipost.ClientError{Err: fmt.Errorf("read image %q: %w", path, err)}
	}

	if err := c.transport.Upload(ctx, asset.uploadURL, data); err != nil {
		return mediaAsset{}, fmt.Errorf("upload image: %w", err)
	}
	logutil.Debug("image uploaded", "asset", asset.asset, "bytes", len(data))

	return asset, nil
}
