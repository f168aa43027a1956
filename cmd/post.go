package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lipost/internal/lipost"
	"lipost/internal/lipost/linkedin"
	"lipost/internal/logutil"
)

var (
	articleURL         string
	articleTitle       string
	articleDescription string
	imagePath          string
	imageAlt           string
)

func newPostCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post [message]",
		Short: "Publish a text share",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := textRequest(cmd, args)
			if err != nil {
				return err
			}
			return publish(cmd, req)
		},
	}
	addContentFlags(cmd)
	return cmd
}

func newPostArticleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post-article [message]",
		Short: "Publish a share with a link preview",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := articleRequest(cmd, args)
			if err != nil {
				return err
			}
			return publish(cmd, req)
		},
	}
	addContentFlags(cmd)
	cmd.Flags().StringVar(&articleURL, "url", "", "Link to preview (required)")
	cmd.Flags().StringVar(&articleTitle, "title", "", "Preview title")
	cmd.Flags().StringVar(&articleDescription, "description", "", "Preview description")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newPostImageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post-image [message]",
		Short: "Upload an image and publish a share referencing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := imageRequest(cmd, args)
			if err != nil {
				return err
			}
			return publish(cmd, req)
		},
	}
	addContentFlags(cmd)
	cmd.Flags().StringVar(&imagePath, "image", "", "Path to the image to attach (required)")
	cmd.Flags().StringVar(&imageAlt, "alt-text", "", "Alternative text to describe the image")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func textRequest(cmd *cobra.Command, args []string) (lipost.PostRequest, error) {
	message, err := resolveMessage(cmd, args)
	if err != nil {
		return nil, err
	}
	vis, err := resolveVisibility()
	if err != nil {
		return nil, err
	}
	return lipost.TextPost{Text: message, Visibility: vis}, nil
}

func articleRequest(cmd *cobra.Command, args []string) (lipost.PostRequest, error) {
	message, err := resolveMessage(cmd, args)
	if err != nil {
		return nil, err
	}
	vis, err := resolveVisibility()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(articleURL) == "" {
		return nil, errors.New("article url is required")
	}
	return lipost.ArticlePost{
		Text:        message,
		URL:         strings.TrimSpace(articleURL),
		Title:       strings.TrimSpace(articleTitle),
		Description: strings.TrimSpace(articleDescription),
		Visibility:  vis,
	}, nil
}

func imageRequest(cmd *cobra.Command, args []string) (lipost.PostRequest, error) {
	message, err := resolveMessage(cmd, args)
	if err != nil {
		return nil, err
	}
	vis, err := resolveVisibility()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(imagePath) == "" {
		return nil, errors.New("image path is required")
	}
	alt := strings.TrimSpace(imageAlt)
	if alt == "" {
		alt = defaultAltText
	}
	return lipost.ImagePost{
		Text:       message,
		ImagePath:  strings.TrimSpace(imagePath),
		ImageAlt:   alt,
		Visibility: vis,
	}, nil
}

func publish(cmd *cobra.Command, req lipost.PostRequest) error {
	out := cmd.OutOrStdout()

	if dryRun {
		fmt.Fprintf(out, "[dry-run] would publish %s post\n", req.Kind())
		return nil
	}

	client := linkedin.New(linkedin.CredentialsFromEnv())
	res, err := client.Publish(cmd.Context(), req)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "published %s\n", res.ID)
	if logutil.Verbose() {
		fmt.Fprintln(out, string(res.Raw))
	}
	return nil
}
