/*
Copyright © 2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lipost/internal/lipost"
	"lipost/internal/logutil"
)

var (
	verbose        bool
	dryRun         bool
	messageFlag    string
	visibilityFlag string
)

const defaultAltText = "Image attached via lipost"

// Execute runs the root command.
func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lipost",
		Short: "Post to LinkedIn from the command line",
		Long: "lipost publishes text, article, and image shares to LinkedIn's UGC API. " +
			"Configure LIPOST_ACCESS_TOKEN and LIPOST_ACTOR_URN, then post now or schedule for later.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logutil.SetVerbose(verbose || os.Getenv("LIPOST_DEBUG") == "1")
		},
		Example: `  lipost post "Ship it!"
  lipost post-article -m "Worth a read" --url https://example.com/post --title "Example"
  lipost post-image -m "Launch day" --image ./shot.png
  lipost schedule -m "Good morning" --at 2025-11-02T09:00:00Z`,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print actions without posting")

	cmd.AddCommand(
		newPostCommand(),
		newPostArticleCommand(),
		newPostImageCommand(),
		newProfileCommand(),
		newScheduleCommand(),
	)

	return cmd
}

// addContentFlags registers the flags every posting form shares.
func addContentFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&messageFlag, "message", "m", "", "Message text to post")
	cmd.Flags().StringVar(&visibilityFlag, "visibility", "", "Audience scope (PUBLIC, CONNECTIONS, LOGGED_IN)")
	cmd.Flags().SortFlags = false
}

// resolveMessage takes the message from the argument, --message, or piped
// stdin, in that order. An interactive terminal is never read.
func resolveMessage(cmd *cobra.Command, args []string) (string, error) {
	var message string

	if messageFlag != "" {
		message = messageFlag
	}

	if len(args) > 0 {
		if message != "" {
			return "", errors.New("provide the message either as an argument or with --message, not both")
		}
		message = strings.Join(args, " ")
	}

	if message != "" {
		return strings.TrimSpace(message), nil
	}

	stdin := cmd.InOrStdin()
	if file, ok := stdin.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return "", errors.New("message is required")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	message = strings.TrimSpace(string(data))

	if message == "" {
		return "", errors.New("message is required")
	}

	return message, nil
}

func resolveVisibility() (lipost.Visibility, error) {
	return lipost.ParseVisibility(visibilityFlag)
}
