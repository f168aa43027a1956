package linkedin

import "lipost/internal/lipost"

// Wire schema for the ugcPosts endpoint. The dotted union keys are part of
// the document format, so unions are expressed as single-entry maps.

const (
	lifecyclePublished = "PUBLISHED"

	shareContentKey = "com.linkedin.ugc.ShareContent"
	visibilityKey   = "com.linkedin.ugc.MemberNetworkVisibility"

	mediaCategoryNone    = "NONE"
	mediaCategoryArticle = "ARTICLE"
	mediaCategoryImage   = "IMAGE"

	mediaStatusReady = "READY"
)

type sharePayload struct {
	Author          string                       `json:"author"`
	LifecycleState  string                       `json:"lifecycleState"`
	SpecificContent map[string]shareContent      `json:"specificContent"`
	Visibility      map[string]lipost.Visibility `json:"visibility"`
}

type shareContent struct {
	ShareCommentary    textAttr     `json:"shareCommentary"`
	ShareMediaCategory string       `json:"shareMediaCategory"`
	Media              []shareMedia `json:"media,omitempty"`
}

type shareMedia struct {
	Status      string    `json:"status"`
	OriginalURL string    `json:"originalUrl,omitempty"`
	Media       string    `json:"media,omitempty"`
	Title       *textAttr `json:"title,omitempty"`
	Description *textAttr `json:"description,omitempty"`
}

type textAttr struct {
	Text string `json:"text"`
}

func newSharePayload(author, text, category string, vis lipost.Visibility, media ...shareMedia) sharePayload {
	return sharePayload{
		Author:         author,
		LifecycleState: lifecyclePublished,
		SpecificContent: map[string]shareContent{
			shareContentKey: {
				ShareCommentary:    textAttr{Text: text},
				ShareMediaCategory: category,
				Media:              media,
			},
		},
		Visibility: map[string]lipost.Visibility{visibilityKey: vis.OrDefault()},
	}
}

// buildTextPayload shapes a share carrying commentary only.
func buildTextPayload(author, text string, vis lipost.Visibility) sharePayload {
	return newSharePayload(author, text, mediaCategoryNone, vis)
}

// buildArticlePayload shapes a share with a single link-preview entry.
func buildArticlePayload(author, text, articleURL, title, description string, vis lipost.Visibility) sharePayload {
	media := shareMedia{
		Status:      mediaStatusReady,
		OriginalURL: articleURL,
	}
	if title != "" {
		media.Title = &textAttr{Text: title}
	}
	if description != "" {
		media.Description = &textAttr{Text: description}
	}
	return newSharePayload(author, text, mediaCategoryArticle, vis, media)
}

// buildImagePayload shapes a share referencing an uploaded asset. Alt text,
// when present, travels as the media description.
func buildImagePayload(author, text, assetURN, altText string, vis lipost.Visibility) sharePayload {
	media := shareMedia{
		Status: mediaStatusReady,
		Media:  assetURN,
	}
	if altText != "" {
		media.Description = &textAttr{Text: altText}
	}
	return newSharePayload(author, text, mediaCategoryImage, vis, media)
}
