package lipost

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Visibility is the audience scope for a published post.
type Visibility string

const (
	VisibilityPublic      Visibility = "PUBLIC"
	VisibilityConnections Visibility = "CONNECTIONS"
	VisibilityLoggedIn    Visibility = "LOGGED_IN"
)

// ParseVisibility maps user input onto a known scope. Empty input selects
// VisibilityPublic.
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(strings.ToUpper(strings.TrimSpace(s))) {
	case "":
		return VisibilityPublic, nil
	case VisibilityPublic:
		return VisibilityPublic, nil
	case VisibilityConnections:
		return VisibilityConnections, nil
	case VisibilityLoggedIn:
		return VisibilityLoggedIn, nil
	}
	return "", fmt.Errorf("unsupported visibility %q (want PUBLIC, CONNECTIONS, or LOGGED_IN)", s)
}

// OrDefault substitutes VisibilityPublic when the scope is unset.
func (v Visibility) OrDefault() Visibility {
	if v == "" {
		return VisibilityPublic
	}
	return v
}

// PostRequest is the closed set of content shapes the agent can publish:
// TextPost, ArticlePost, and ImagePost.
type PostRequest interface {
	// Kind names the variant for logs and job listings.
	Kind() string

	postRequest()
}

// TextPost publishes commentary with no attached media.
type TextPost struct {
	Text       string
	Visibility Visibility
}

// ArticlePost publishes commentary with a link preview.
type ArticlePost struct {
	Text        string
	URL         string
	Title       string
	Description string
	Visibility  Visibility
}

// ImagePost publishes commentary with a single uploaded image. ImageAlt, when
// set, travels as the image's description.
type ImagePost struct {
	Text       string
	ImagePath  string
	ImageAlt   string
	Visibility Visibility
}

func (TextPost) Kind() string    { return "text" }
func (ArticlePost) Kind() string { return "article" }
func (ImagePost) Kind() string   { return "image" }

func (TextPost) postRequest()    {}
func (ArticlePost) postRequest() {}
func (ImagePost) postRequest()   {}

// PostResult reports a successful submission: the share URN assigned by the
// network plus the undecoded response document.
type PostResult struct {
	ID  string
	Raw json.RawMessage
}

// Profile describes the member behind the configured credentials.
type Profile struct {
	ID        string
	FirstName string
	LastName  string
	Raw       json.RawMessage
}
